package results

import (
	"sync"

	"github.com/serverless-sim/serverless-sim/sim"
)

// MemorySink retains completed tasks in order. Used by tests and by
// callers that post-process results instead of streaming them.
type MemorySink struct {
	mu    sync.Mutex
	tasks []*sim.ScheduledTask
}

// NewMemorySink creates an empty sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Write records the task.
func (m *MemorySink) Write(st *sim.ScheduledTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, st)
	return nil
}

// Flush is a no-op.
func (m *MemorySink) Flush() error { return nil }

// Tasks returns the recorded tasks in emission order.
func (m *MemorySink) Tasks() []*sim.ScheduledTask {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*sim.ScheduledTask, len(m.tasks))
	copy(out, m.tasks)
	return out
}
