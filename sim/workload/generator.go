// Synthetic workload generation modeled on published Azure Functions
// production traces: a skewed trigger-type mix, log-normal execution times,
// and a piecewise memory distribution. Deterministic given the same spec.

package workload

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/serverless-sim/serverless-sim/sim"
)

// triggerWeight pairs a trigger type with its share of invocations.
// Ordered slice, not a map, so sampling order is deterministic.
type triggerWeight struct {
	name   string
	weight float64
}

// Azure production trigger mix (Shahrad et al., 2020).
var triggerDistribution = []triggerWeight{
	{"HTTP", 0.55},
	{"Timer", 0.16},
	{"Queue", 0.15},
	{"Orchestration", 0.07},
	{"Storage", 0.03},
	{"Event", 0.02},
	{"Others", 0.02},
}

// Log-normal execution time parameters: mean ~1s, 50% < 1s, 90% < 60s.
const (
	execTimeLogMean  = -0.38
	execTimeLogSigma = 2.36
	execTimeMin      = 0.01
	execTimeMax      = 600
)

type app struct {
	function string
	trigger  string
}

// Generate produces a workload of spec.NumTasks tasks sorted by arrival
// time with sequential IDs, plus the function catalog they reference.
func Generate(spec *GeneratorSpec) ([]*sim.Task, []FunctionDef, error) {
	if err := spec.Validate(); err != nil {
		return nil, nil, err
	}

	src := rand.NewPCG(uint64(spec.Seed), uint64(spec.Seed))
	rng := rand.New(src)

	execDist := distuv.LogNormal{Mu: execTimeLogMean, Sigma: execTimeLogSigma, Src: src}
	deadlineDist := distuv.Uniform{Min: spec.DeadlineMin, Max: spec.DeadlineMax, Src: src}

	// Base arrival rate; heavy traffic compresses inter-arrival gaps.
	rate := float64(spec.NumTasks) / spec.DurationSeconds
	if spec.HeavyTraffic {
		rate *= spec.BurstIntensity
	}
	iatDist := distuv.Exponential{Rate: rate, Src: src}

	apps := make([]app, spec.apps())
	for i := range apps {
		apps[i] = app{
			function: fmt.Sprintf("app_%03d", i),
			trigger:  sampleTrigger(rng),
		}
	}

	logrus.Infof("generating %d tasks across %d apps (seed=%d, heavy=%v)",
		spec.NumTasks, len(apps), spec.Seed, spec.HeavyTraffic)

	tasks := make([]*sim.Task, 0, spec.NumTasks)
	arrival := spec.StartTime
	burstRemaining := 0
	for i := 0; i < spec.NumTasks; i++ {
		if burstRemaining > 0 {
			// Burst members arrive back to back.
			arrival += iatDist.Rand() / (10 * spec.BurstIntensity)
			burstRemaining--
		} else {
			arrival += iatDist.Rand()
			if spec.HeavyTraffic && rng.Float64() < 0.05 {
				burstRemaining = 2 + rng.IntN(8)
			}
		}

		a := apps[rng.IntN(len(apps))]
		exec := clamp(execDist.Rand(), execTimeMin, execTimeMax)

		tasks = append(tasks, &sim.Task{
			ID:           fmt.Sprintf("task_%06d", i),
			FunctionName: a.function,
			ArrivalTime:  arrival,
			Deadline:     arrival + deadlineDist.Rand(),
			Payload: sim.Payload{
				Name:       fmt.Sprintf("%s-invoke", a.function),
				EstRuntime: exec,
				Args:       []string{},
			},
			Metadata: sim.Metadata{
				Trigger:  a.trigger,
				MemoryMB: sampleMemoryMB(rng),
			},
		})
	}

	functions := make([]FunctionDef, len(apps))
	for i, a := range apps {
		functions[i] = FunctionDef{Name: a.function}
	}
	return tasks, functions, nil
}

// WriteRunConfig generates a workload and writes it as run-config JSON.
func WriteRunConfig(w io.Writer, spec *GeneratorSpec) error {
	tasks, functions, err := Generate(spec)
	if err != nil {
		return err
	}
	cfg := RunConfig{
		Functions:  functions,
		Workload:   tasks,
		Simulation: SimulationSettings{SchedulingPolicy: "deadline_fcfs"},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&cfg)
}

// sampleTrigger draws a trigger type from the Azure mix.
func sampleTrigger(rng *rand.Rand) string {
	r := rng.Float64()
	cumulative := 0.0
	for _, tw := range triggerDistribution {
		cumulative += tw.weight
		if r <= cumulative {
			return tw.name
		}
	}
	return triggerDistribution[0].name
}

// sampleMemoryMB draws from a simplified Burr-like distribution:
// 50% of apps <= 170MB, 90% <= 400MB.
func sampleMemoryMB(rng *rand.Rand) int {
	r := rng.Float64()
	switch {
	case r < 0.50:
		return 64 + rng.IntN(170-64)
	case r < 0.90:
		return 170 + rng.IntN(400-170)
	default:
		return 400 + rng.IntN(1024-400)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
