// Package results persists simulated task outcomes: the fixed-column CSV
// result log and the in-memory sink used by tests and the summary path.
package results

import (
	"strconv"
	"time"

	"github.com/serverless-sim/serverless-sim/sim"
)

// Header is the fixed result column order. Changing it breaks downstream
// benchmark comparison tooling.
var Header = []string{
	"Timestamp", "TaskName", "TaskID", "TriggerType",
	"EnqueueTime", "StartTime", "EndTime",
	"WaitTime", "ExecDuration", "Deadline", "DeadlineStatus",
}

// Row renders one completed task as a CSV row in Header order. The
// Timestamp column is the wall-clock write time; all other columns derive
// from the simulation and are deterministic.
func Row(st *sim.ScheduledTask, now time.Time) []string {
	return []string{
		now.Format(time.RFC3339Nano),
		st.Name(),
		st.ID,
		st.Metadata.Trigger,
		formatSeconds(st.EnqueueTime),
		formatSeconds(st.StartTime),
		formatSeconds(st.EndTime),
		formatSeconds(st.WaitTime),
		formatSeconds(st.ExecDuration),
		formatSeconds(st.Deadline),
		string(st.Status),
	}
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
