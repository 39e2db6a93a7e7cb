// Defines the task records flowing through the simulator: the immutable
// workload Task and the ScheduledTask produced by the engine.

package sim

import "fmt"

// DeadlineStatus marks whether a simulated task finished before its deadline.
type DeadlineStatus string

const (
	// StatusOnTime means the task completed at or before its deadline.
	StatusOnTime DeadlineStatus = "on-time"
	// StatusMissed means the task completed after its deadline.
	StatusMissed DeadlineStatus = "missed"
)

// Payload describes the work a task carries. EstRuntime is the simulated
// execution duration in seconds; the simulator never runs Args.
type Payload struct {
	Name       string   `json:"name"`
	EstRuntime float64  `json:"est_runtime"`
	Args       []string `json:"args"`
}

// Metadata carries trigger and resource attributes used for reporting and
// cost modeling.
type Metadata struct {
	Trigger  string `json:"trigger"`
	MemoryMB int    `json:"memory_mb"`
}

// Task is a single serverless invocation in the workload. Tasks are
// read-only once constructed; all mutable simulation state lives on
// ScheduledTask.
type Task struct {
	ID           string   `json:"id"`
	FunctionName string   `json:"function_name"`
	ArrivalTime  float64  `json:"arrival_time"`
	Deadline     float64  `json:"deadline"`
	Payload      Payload  `json:"payload"`
	Metadata     Metadata `json:"metadata"`
}

// Name returns the payload name, falling back to the task ID when the
// payload is unnamed. Used for result rows.
func (t *Task) Name() string {
	if t.Payload.Name != "" {
		return t.Payload.Name
	}
	return t.ID
}

func (t *Task) String() string {
	return fmt.Sprintf("Task(%s, fn=%s, deadline=%.2f)", t.ID, t.FunctionName, t.Deadline)
}

// Validate checks the invariants a task must satisfy before it may enter
// the engine. The workload parser reports a violation as an InputError;
// tasks constructed in code are expected to already hold them.
func (t *Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("task has empty id")
	}
	if t.FunctionName == "" {
		return fmt.Errorf("task %s has empty function_name", t.ID)
	}
	if t.Payload.EstRuntime <= 0 {
		return fmt.Errorf("task %s has non-positive est_runtime %v", t.ID, t.Payload.EstRuntime)
	}
	if t.Deadline < t.ArrivalTime {
		return fmt.Errorf("task %s deadline %.3f precedes arrival %.3f", t.ID, t.Deadline, t.ArrivalTime)
	}
	return nil
}

// ScheduledTask is the engine-owned view of a task during and after
// simulation. Timing fields are in epoch seconds and are each written
// exactly once:
//
//	WaitTime     = StartTime - EnqueueTime
//	ExecDuration = EndTime - StartTime
//	Status       = missed iff EndTime > Deadline
type ScheduledTask struct {
	Task

	EnqueueTime  float64
	StartTime    float64
	EndTime      float64
	WaitTime     float64
	ExecDuration float64
	Status       DeadlineStatus
	Cost         float64
}
