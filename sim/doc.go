// Package sim implements the deadline-aware scheduling core: the
// earliest-deadline-first priority queue, the scheduler that drains it, and
// the batch simulation engine that advances a logical clock while modeling
// container cold/warm starts, bounded concurrency, and invocation cost.
//
// The engine never executes task payloads; it models durations only.
// Workload parsing and synthesis live in sim/workload, result persistence
// in sim/results.
package sim
