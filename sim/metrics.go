// Tracks simulation-wide aggregate metrics for final reporting.

package sim

import (
	"fmt"
	"sort"
	"strings"
)

// TriggerStats counts outcomes per trigger type.
type TriggerStats struct {
	Count  int
	Missed int
}

// Metrics aggregates statistics about one simulation run. Owned solely by
// the engine goroutine (single-writer discipline); reset per run.
type Metrics struct {
	TotalTasks    int
	OnTimeTasks   int
	MissedTasks   int
	TotalExecTime float64 // sum of exec durations (seconds)
	TotalWaitTime float64 // sum of queue times (seconds)
	TotalCost     float64

	Triggers map[string]*TriggerStats
}

// NewMetrics creates an empty Metrics.
func NewMetrics() *Metrics {
	return &Metrics{Triggers: make(map[string]*TriggerStats)}
}

// Record folds one completed task into the aggregates.
func (m *Metrics) Record(st *ScheduledTask) {
	m.TotalTasks++
	m.TotalExecTime += st.ExecDuration
	m.TotalWaitTime += st.WaitTime
	m.TotalCost += st.Cost

	missed := st.Status == StatusMissed
	if missed {
		m.MissedTasks++
	} else {
		m.OnTimeTasks++
	}

	ts, ok := m.Triggers[st.Metadata.Trigger]
	if !ok {
		ts = &TriggerStats{}
		m.Triggers[st.Metadata.Trigger] = ts
	}
	ts.Count++
	if missed {
		ts.Missed++
	}
}

// MissRate returns the fraction of tasks that missed their deadline.
func (m *Metrics) MissRate() float64 {
	if m.TotalTasks == 0 {
		return 0
	}
	return float64(m.MissedTasks) / float64(m.TotalTasks)
}

// String renders the end-of-run summary: totals, averages, and the
// per-trigger miss-rate breakdown sorted by invocation count.
func (m *Metrics) String() string {
	var sb strings.Builder
	sb.WriteString("=== Simulation Metrics ===\n")
	fmt.Fprintf(&sb, "Total Tasks          : %d\n", m.TotalTasks)
	if m.TotalTasks == 0 {
		return sb.String()
	}
	total := float64(m.TotalTasks)
	fmt.Fprintf(&sb, "  On-time            : %d (%.1f%%)\n", m.OnTimeTasks, 100*float64(m.OnTimeTasks)/total)
	fmt.Fprintf(&sb, "  Missed             : %d (%.1f%%)\n", m.MissedTasks, 100*float64(m.MissedTasks)/total)
	fmt.Fprintf(&sb, "Average Exec Time    : %.3fs\n", m.TotalExecTime/total)
	fmt.Fprintf(&sb, "Average Queue Time   : %.3fs\n", m.TotalWaitTime/total)
	fmt.Fprintf(&sb, "Total Exec Time      : %.3fs\n", m.TotalExecTime)
	fmt.Fprintf(&sb, "Estimated Total Cost : $%.6f\n", m.TotalCost)

	if len(m.Triggers) > 0 {
		sb.WriteString("Per-trigger miss rates:\n")
		names := make([]string, 0, len(m.Triggers))
		for name := range m.Triggers {
			names = append(names, name)
		}
		// by count descending, name ascending for ties
		sort.Slice(names, func(i, j int) bool {
			a, b := m.Triggers[names[i]], m.Triggers[names[j]]
			if a.Count != b.Count {
				return a.Count > b.Count
			}
			return names[i] < names[j]
		})
		for _, name := range names {
			ts := m.Triggers[name]
			rate := 0.0
			if ts.Count > 0 {
				rate = 100 * float64(ts.Missed) / float64(ts.Count)
			}
			fmt.Fprintf(&sb, "  %-15s %8d tasks  miss rate: %5.1f%%\n", name, ts.Count, rate)
		}
	}
	return sb.String()
}

// Print writes the summary to stdout.
func (m *Metrics) Print() {
	fmt.Print(m.String())
}
