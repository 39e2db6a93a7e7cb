// Progress reporting for long simulation runs.

package sim

import (
	"time"

	"github.com/sirupsen/logrus"
)

// progressReporter logs throughput and an ETA while the engine works
// through a large workload. Reports every reportEvery tasks or every
// reportInterval of wall time, whichever comes first. Logging only; it has
// no effect on simulation results.
type progressReporter struct {
	total          int
	processed      int
	started        time.Time
	lastReportAt   time.Time
	lastReported   int
	reportEvery    int
	reportInterval time.Duration
}

func newProgressReporter(total int) *progressReporter {
	now := time.Now()
	return &progressReporter{
		total:          total,
		started:        now,
		lastReportAt:   now,
		reportEvery:    1000,
		reportInterval: 5 * time.Second,
	}
}

func (p *progressReporter) update(processed int) {
	p.processed = processed
	now := time.Now()
	if processed-p.lastReported < p.reportEvery && now.Sub(p.lastReportAt) < p.reportInterval {
		return
	}

	elapsed := now.Sub(p.started).Seconds()
	eta := "unknown"
	if elapsed > 0 {
		rate := float64(processed) / elapsed
		if rate > 0 {
			remaining := float64(p.total-processed) / rate
			eta = (time.Duration(remaining) * time.Second).String()
		}
	}
	percent := 0.0
	if p.total > 0 {
		percent = 100 * float64(processed) / float64(p.total)
	}
	logrus.Infof("progress: %d/%d (%.1f%%) eta=%s", processed, p.total, percent, eta)

	p.lastReported = processed
	p.lastReportAt = now
}

func (p *progressReporter) finish() {
	elapsed := time.Since(p.started).Seconds()
	rate := 0.0
	if elapsed > 0 {
		rate = float64(p.processed) / elapsed
	}
	logrus.Infof("completed %d tasks in %.1fs (%.1f tasks/sec)", p.processed, elapsed, rate)
}
