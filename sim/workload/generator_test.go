package workload

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSpec() *GeneratorSpec {
	spec := DefaultGeneratorSpec()
	spec.NumTasks = 200
	return &spec
}

func TestGenerate_CountAndCatalog(t *testing.T) {
	tasks, functions, err := Generate(testSpec())
	require.NoError(t, err)
	assert.Len(t, tasks, 200)
	assert.NotEmpty(t, functions)

	catalog := make(map[string]bool, len(functions))
	for _, f := range functions {
		catalog[f.Name] = true
	}
	for _, task := range tasks {
		assert.True(t, catalog[task.FunctionName], "task %s references unknown function %s", task.ID, task.FunctionName)
	}
}

func TestGenerate_TasksAreValidAndArrivalSorted(t *testing.T) {
	tasks, _, err := Generate(testSpec())
	require.NoError(t, err)

	prev := -1.0
	for _, task := range tasks {
		require.NoError(t, task.Validate())
		assert.GreaterOrEqual(t, task.ArrivalTime, prev, "arrivals out of order at %s", task.ID)
		assert.GreaterOrEqual(t, task.Deadline, task.ArrivalTime)
		assert.GreaterOrEqual(t, task.Payload.EstRuntime, execTimeMin)
		assert.LessOrEqual(t, task.Payload.EstRuntime, float64(execTimeMax))
		assert.GreaterOrEqual(t, task.Metadata.MemoryMB, 64)
		assert.Less(t, task.Metadata.MemoryMB, 1024)
		prev = task.ArrivalTime
	}
}

func TestGenerate_SameSeedIdenticalWorkloads(t *testing.T) {
	tasks1, _, err := Generate(testSpec())
	require.NoError(t, err)
	tasks2, _, err := Generate(testSpec())
	require.NoError(t, err)

	require.Equal(t, len(tasks1), len(tasks2))
	for i := range tasks1 {
		assert.Equal(t, *tasks1[i], *tasks2[i], "task %d differs between same-seed runs", i)
	}
}

func TestGenerate_DifferentSeedsDiffer(t *testing.T) {
	spec1 := testSpec()
	spec2 := testSpec()
	spec2.Seed = 7

	tasks1, _, err := Generate(spec1)
	require.NoError(t, err)
	tasks2, _, err := Generate(spec2)
	require.NoError(t, err)

	same := true
	for i := range tasks1 {
		if tasks1[i].ArrivalTime != tasks2[i].ArrivalTime {
			same = false
			break
		}
	}
	assert.False(t, same, "different seeds produced identical arrival sequences")
}

func TestGenerate_HeavyTrafficCompressesArrivals(t *testing.T) {
	normal := testSpec()
	heavy := testSpec()
	heavy.HeavyTraffic = true
	heavy.BurstIntensity = 4.0

	tasksNormal, _, err := Generate(normal)
	require.NoError(t, err)
	tasksHeavy, _, err := Generate(heavy)
	require.NoError(t, err)

	lastNormal := tasksNormal[len(tasksNormal)-1].ArrivalTime
	lastHeavy := tasksHeavy[len(tasksHeavy)-1].ArrivalTime
	assert.Less(t, lastHeavy, lastNormal, "heavy traffic should pack the same tasks into less time")
}

func TestGenerate_InvalidSpec(t *testing.T) {
	spec := testSpec()
	spec.NumTasks = 0
	_, _, err := Generate(spec)
	assert.Error(t, err)
}

func TestGeneratorSpec_Validate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*GeneratorSpec)
	}{
		{"zero tasks", func(s *GeneratorSpec) { s.NumTasks = 0 }},
		{"negative apps", func(s *GeneratorSpec) { s.NumApps = -1 }},
		{"zero duration", func(s *GeneratorSpec) { s.DurationSeconds = 0 }},
		{"zero burst", func(s *GeneratorSpec) { s.BurstIntensity = 0 }},
		{"inverted deadline range", func(s *GeneratorSpec) { s.DeadlineMin = 100; s.DeadlineMax = 50 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := DefaultGeneratorSpec()
			tc.mutate(&spec)
			assert.Error(t, spec.Validate())
		})
	}
}

func TestWriteRunConfig_RoundTripsThroughParser(t *testing.T) {
	spec := testSpec()
	var buf bytes.Buffer
	require.NoError(t, WriteRunConfig(&buf, spec))

	cfg, rejected, err := ParseConfig(&buf, false)
	require.NoError(t, err)
	assert.Zero(t, rejected)
	assert.Len(t, cfg.Workload, spec.NumTasks)
	assert.Equal(t, "deadline_fcfs", cfg.Simulation.SchedulingPolicy)
}
