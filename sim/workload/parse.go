// Package workload parses run-config workloads and synthesizes Azure-style
// task traces for the simulator.
package workload

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/serverless-sim/serverless-sim/sim"
)

// FunctionDef names a deployable function in the run configuration.
type FunctionDef struct {
	Name string `json:"name"`
}

// SimulationSettings is the simulation block of the run configuration.
type SimulationSettings struct {
	SchedulingPolicy string `json:"scheduling_policy"`
}

// RunConfig is the top-level run configuration consumed by the run command:
// a function catalog, a workload array, and simulation settings.
type RunConfig struct {
	Functions  []FunctionDef      `json:"functions"`
	Workload   []*sim.Task        `json:"workload"`
	Simulation SimulationSettings `json:"simulation"`
}

// rawConfig defers workload decoding so a bad record can be reported with
// its index instead of failing the whole document opaquely.
type rawConfig struct {
	Functions  []FunctionDef      `json:"functions"`
	Workload   []json.RawMessage  `json:"workload"`
	Simulation SimulationSettings `json:"simulation"`
}

// Pointer fields distinguish "absent" from zero so defaults apply only to
// genuinely missing optional fields.
type rawPayload struct {
	Name       *string  `json:"name"`
	EstRuntime *float64 `json:"est_runtime"`
	Args       []string `json:"args"`
}

type rawMetadata struct {
	Trigger  *string `json:"trigger"`
	MemoryMB *int    `json:"memory_mb"`
}

type rawTask struct {
	ID           *string      `json:"id"`
	FunctionName *string      `json:"function_name"`
	ArrivalTime  *float64     `json:"arrival_time"`
	Deadline     *float64     `json:"deadline"`
	Payload      *rawPayload  `json:"payload"`
	Metadata     *rawMetadata `json:"metadata"`
}

// ParseConfig reads a run configuration, applying per-record defaults
// (est_runtime 1, args empty, trigger "Unknown", memory 256MB) and
// rejecting records missing a required field or carrying a non-numeric
// timestamp. By default the first bad record aborts the parse with an
// InputError naming its index, which keeps aggregate metrics
// deterministic; with skipMalformed set, bad records are dropped with a
// warning and the rejected count is returned.
func ParseConfig(r io.Reader, skipMalformed bool) (*RunConfig, int, error) {
	var raw rawConfig
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, 0, fmt.Errorf("decoding run config: %w", err)
	}

	cfg := &RunConfig{
		Functions:  raw.Functions,
		Simulation: raw.Simulation,
		Workload:   make([]*sim.Task, 0, len(raw.Workload)),
	}
	rejected := 0
	for i, msg := range raw.Workload {
		task, err := parseTask(i, msg)
		if err != nil {
			if skipMalformed {
				rejected++
				logrus.Warnf("skipping workload record: %v", err)
				continue
			}
			return nil, rejected, err
		}
		cfg.Workload = append(cfg.Workload, task)
	}
	return cfg, rejected, nil
}

func parseTask(index int, msg json.RawMessage) (*sim.Task, error) {
	var rt rawTask
	if err := json.Unmarshal(msg, &rt); err != nil {
		return nil, &sim.InputError{Index: index, Reason: err.Error()}
	}

	fail := func(reason string) (*sim.Task, error) {
		id := ""
		if rt.ID != nil {
			id = *rt.ID
		}
		return nil, &sim.InputError{Index: index, TaskID: id, Reason: reason}
	}

	if rt.ID == nil || *rt.ID == "" {
		return fail("missing required field id")
	}
	if rt.FunctionName == nil || *rt.FunctionName == "" {
		return fail("missing required field function_name")
	}
	if rt.ArrivalTime == nil {
		return fail("missing required field arrival_time")
	}
	if rt.Deadline == nil {
		return fail("missing required field deadline")
	}
	if rt.Payload == nil || rt.Payload.Name == nil || *rt.Payload.Name == "" {
		return fail("missing required field payload.name")
	}

	task := &sim.Task{
		ID:           *rt.ID,
		FunctionName: *rt.FunctionName,
		ArrivalTime:  *rt.ArrivalTime,
		Deadline:     *rt.Deadline,
		Payload: sim.Payload{
			Name:       *rt.Payload.Name,
			EstRuntime: 1, // default when absent
			Args:       []string{},
		},
		Metadata: sim.Metadata{
			Trigger:  "Unknown",
			MemoryMB: 256,
		},
	}
	if rt.Payload.EstRuntime != nil {
		task.Payload.EstRuntime = *rt.Payload.EstRuntime
	}
	if rt.Payload.Args != nil {
		task.Payload.Args = rt.Payload.Args
	}
	if rt.Metadata != nil {
		if rt.Metadata.Trigger != nil {
			task.Metadata.Trigger = *rt.Metadata.Trigger
		}
		if rt.Metadata.MemoryMB != nil {
			task.Metadata.MemoryMB = *rt.Metadata.MemoryMB
		}
	}

	if err := task.Validate(); err != nil {
		return nil, &sim.InputError{Index: index, TaskID: task.ID, Reason: err.Error()}
	}
	return task, nil
}
