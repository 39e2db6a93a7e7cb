// The Scheduler owns the EDF priority queue and stamps enqueue times.
// Two clock modes exist: wall clock for the live HTTP path, and
// arrival-time stamping for batch simulation. The two modes must not be
// mixed within one run.

package sim

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// EnqueueClock returns the enqueue timestamp (epoch seconds) to stamp on a
// task at submission.
type EnqueueClock func(t *Task) float64

// WallClock stamps tasks with the current wall-clock time. Used by the live
// front-end path.
func WallClock(_ *Task) float64 {
	return float64(time.Now().UnixNano()) / 1e9
}

// ArrivalClock stamps tasks with their own arrival time. Used by the batch
// simulation path so that results depend only on the workload.
func ArrivalClock(t *Task) float64 {
	return t.ArrivalTime
}

// Scheduler accepts tasks from a producer, records their enqueue
// timestamps, and hands them out in earliest-deadline-first order.
//
// Submit is at-most-once per task ID by caller contract: submitting the
// same ID twice is undefined here and must be rejected upstream, not
// deduplicated by the scheduler.
type Scheduler struct {
	mu       sync.Mutex
	queue    *PriorityTaskQueue
	enqueued map[string]float64 // task ID -> enqueue timestamp
	clock    EnqueueClock
}

// NewScheduler creates a live-mode scheduler stamping wall-clock enqueue
// times.
func NewScheduler() *Scheduler {
	return newScheduler(WallClock)
}

// NewBatchScheduler creates a simulation-mode scheduler stamping
// arrival-time enqueue times.
func NewBatchScheduler() *Scheduler {
	return newScheduler(ArrivalClock)
}

func newScheduler(clock EnqueueClock) *Scheduler {
	return &Scheduler{
		queue:    NewPriorityTaskQueue(),
		enqueued: make(map[string]float64),
		clock:    clock,
	}
}

// Submit stamps the task's enqueue time and pushes it into the priority
// queue. Fire-and-forget.
func (s *Scheduler) Submit(t *Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enqueued[t.ID] = s.clock(t)
	s.queue.Push(t)
	logrus.Debugf("<< Submit: %s deadline=%.3f pending=%d", t.ID, t.Deadline, s.queue.Len())
}

// Next pops the highest-priority task and wraps it as a ScheduledTask
// candidate carrying its recorded enqueue time. Returns false when no task
// is pending.
func (s *Scheduler) Next() (*ScheduledTask, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.queue.Pop()
	if !ok {
		return nil, false
	}
	st := &ScheduledTask{Task: *t, EnqueueTime: s.enqueued[t.ID]}
	delete(s.enqueued, t.ID)
	return st, true
}

// Pending returns a priority-ordered snapshot of the queued tasks.
// Introspection only (the /status endpoint); the queue is not mutated.
func (s *Scheduler) Pending() []*Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.PeekAll()
}

// Len returns the number of pending tasks.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}
