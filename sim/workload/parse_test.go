package workload

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serverless-sim/serverless-sim/sim"
)

const fullRecord = `{
  "functions": [{"name": "app_000"}],
  "workload": [{
    "id": "t1",
    "function_name": "app_000",
    "arrival_time": 10.5,
    "deadline": 40.0,
    "payload": {"name": "app_000-invoke", "est_runtime": 2.5, "args": ["--fast"]},
    "metadata": {"trigger": "Queue", "memory_mb": 512}
  }],
  "simulation": {"scheduling_policy": "deadline_fcfs"}
}`

func TestParseConfig_FullRecord(t *testing.T) {
	cfg, rejected, err := ParseConfig(strings.NewReader(fullRecord), false)
	require.NoError(t, err)
	assert.Zero(t, rejected)
	require.Len(t, cfg.Workload, 1)

	task := cfg.Workload[0]
	assert.Equal(t, "t1", task.ID)
	assert.Equal(t, "app_000", task.FunctionName)
	assert.Equal(t, 10.5, task.ArrivalTime)
	assert.Equal(t, 40.0, task.Deadline)
	assert.Equal(t, "app_000-invoke", task.Payload.Name)
	assert.Equal(t, 2.5, task.Payload.EstRuntime)
	assert.Equal(t, []string{"--fast"}, task.Payload.Args)
	assert.Equal(t, "Queue", task.Metadata.Trigger)
	assert.Equal(t, 512, task.Metadata.MemoryMB)
	assert.Equal(t, "deadline_fcfs", cfg.Simulation.SchedulingPolicy)
}

func TestParseConfig_DefaultsApplied(t *testing.T) {
	in := `{"workload": [{
	  "id": "t1", "function_name": "f", "arrival_time": 0, "deadline": 10,
	  "payload": {"name": "p"}
	}]}`
	cfg, _, err := ParseConfig(strings.NewReader(in), false)
	require.NoError(t, err)
	require.Len(t, cfg.Workload, 1)

	task := cfg.Workload[0]
	assert.Equal(t, 1.0, task.Payload.EstRuntime)
	assert.Empty(t, task.Payload.Args)
	assert.NotNil(t, task.Payload.Args)
	assert.Equal(t, "Unknown", task.Metadata.Trigger)
	assert.Equal(t, 256, task.Metadata.MemoryMB)
}

func TestParseConfig_MissingRequiredField_ReportsIndex(t *testing.T) {
	cases := []struct {
		name   string
		record string
		reason string
	}{
		{"missing id", `{"function_name": "f", "arrival_time": 0, "deadline": 1, "payload": {"name": "p"}}`, "id"},
		{"missing function", `{"id": "x", "arrival_time": 0, "deadline": 1, "payload": {"name": "p"}}`, "function_name"},
		{"missing arrival", `{"id": "x", "function_name": "f", "deadline": 1, "payload": {"name": "p"}}`, "arrival_time"},
		{"missing deadline", `{"id": "x", "function_name": "f", "arrival_time": 0, "payload": {"name": "p"}}`, "deadline"},
		{"missing payload name", `{"id": "x", "function_name": "f", "arrival_time": 0, "deadline": 1}`, "payload.name"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := `{"workload": [` + tc.record + `]}`
			_, _, err := ParseConfig(strings.NewReader(in), false)
			require.Error(t, err)

			var ierr *sim.InputError
			require.True(t, errors.As(err, &ierr))
			assert.Equal(t, 0, ierr.Index)
			assert.Contains(t, ierr.Reason, tc.reason)
		})
	}
}

func TestParseConfig_NonNumericTimestamp_IsInputError(t *testing.T) {
	in := `{"workload": [{
	  "id": "x", "function_name": "f", "arrival_time": "noon", "deadline": 1,
	  "payload": {"name": "p"}
	}]}`
	_, _, err := ParseConfig(strings.NewReader(in), false)
	require.Error(t, err)

	var ierr *sim.InputError
	assert.True(t, errors.As(err, &ierr))
}

func TestParseConfig_SecondRecordBad_IndexIsOne(t *testing.T) {
	in := `{"workload": [
	  {"id": "ok", "function_name": "f", "arrival_time": 0, "deadline": 1, "payload": {"name": "p"}},
	  {"id": "bad", "function_name": "f", "deadline": 1, "payload": {"name": "p"}}
	]}`
	_, _, err := ParseConfig(strings.NewReader(in), false)
	require.Error(t, err)

	var ierr *sim.InputError
	require.True(t, errors.As(err, &ierr))
	assert.Equal(t, 1, ierr.Index)
	assert.Equal(t, "bad", ierr.TaskID)
}

func TestParseConfig_SkipMalformed_DropsAndCounts(t *testing.T) {
	in := `{"workload": [
	  {"id": "ok", "function_name": "f", "arrival_time": 0, "deadline": 1, "payload": {"name": "p"}},
	  {"id": "bad", "function_name": "f", "deadline": 1, "payload": {"name": "p"}},
	  {"id": "ok2", "function_name": "f", "arrival_time": 2, "deadline": 9, "payload": {"name": "p"}}
	]}`
	cfg, rejected, err := ParseConfig(strings.NewReader(in), true)
	require.NoError(t, err)
	assert.Equal(t, 1, rejected)
	require.Len(t, cfg.Workload, 2)
	assert.Equal(t, "ok", cfg.Workload[0].ID)
	assert.Equal(t, "ok2", cfg.Workload[1].ID)
}

func TestParseConfig_InvalidJSON(t *testing.T) {
	_, _, err := ParseConfig(strings.NewReader("{not json"), false)
	assert.Error(t, err)
}

func TestParseConfig_EmptyWorkload(t *testing.T) {
	cfg, _, err := ParseConfig(strings.NewReader(`{"workload": []}`), false)
	require.NoError(t, err)
	assert.Empty(t, cfg.Workload)
}
