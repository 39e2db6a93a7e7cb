// Error taxonomy for the simulation core. Truncation via MaxTasks is
// deliberately not an error; the engine reports it on the Result.

package sim

import "fmt"

// InputError marks a malformed or unparseable workload record. The record
// index refers to the position in the input workload array.
type InputError struct {
	Index  int
	TaskID string
	Reason string
}

func (e *InputError) Error() string {
	if e.TaskID != "" {
		return fmt.Sprintf("workload record %d (task %s): %s", e.Index, e.TaskID, e.Reason)
	}
	return fmt.Sprintf("workload record %d: %s", e.Index, e.Reason)
}

// ConfigError marks an invalid configuration value. Raised before any
// simulation state is created.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// SinkError marks a failed write to the result sink. Rows are never
// dropped silently; a sink failure fails the run.
type SinkError struct {
	TaskID string
	Err    error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("result sink write for task %s: %v", e.TaskID, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }
