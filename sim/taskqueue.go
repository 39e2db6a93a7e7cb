// Implements the earliest-deadline-first priority queue holding all tasks
// waiting to be scheduled.

package sim

import (
	"container/heap"
	"sort"
)

// queueItem wraps a task with the insertion sequence number used as the
// final tie-break.
type queueItem struct {
	task *Task
	seq  uint64
}

// taskHeap implements heap.Interface with deterministic ordering.
// Ordering: deadline → estimated runtime → insertion sequence.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type taskHeap []queueItem

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	a, b := h[i], h[j]

	// Primary: earliest deadline first
	if a.task.Deadline != b.task.Deadline {
		return a.task.Deadline < b.task.Deadline
	}

	// Secondary: shortest estimated runtime first
	if a.task.Payload.EstRuntime != b.task.Payload.EstRuntime {
		return a.task.Payload.EstRuntime < b.task.Payload.EstRuntime
	}

	// Tertiary: insertion order, so equal keys never pop arbitrarily
	return a.seq < b.seq
}

func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x any) {
	*h = append(*h, x.(queueItem))
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[0 : n-1]
	return item
}

// PriorityTaskQueue orders pending tasks by (deadline, est_runtime) with an
// insertion counter as total-order tie-break, which keeps pop order
// reproducible across runs.
type PriorityTaskQueue struct {
	heap    taskHeap
	counter uint64
}

// NewPriorityTaskQueue creates an empty queue.
func NewPriorityTaskQueue() *PriorityTaskQueue {
	q := &PriorityTaskQueue{heap: make(taskHeap, 0)}
	heap.Init(&q.heap)
	return q
}

// Push inserts a task. O(log n).
func (q *PriorityTaskQueue) Push(t *Task) {
	heap.Push(&q.heap, queueItem{task: t, seq: q.counter})
	q.counter++
}

// Pop removes and returns the highest-priority task. The second return
// value is false when the queue is empty; an empty queue is a normal
// condition, never a fault.
func (q *PriorityTaskQueue) Pop() (*Task, bool) {
	if len(q.heap) == 0 {
		return nil, false
	}
	item := heap.Pop(&q.heap).(queueItem)
	return item.task, true
}

// PeekAll returns a priority-ordered snapshot without mutating the queue.
// O(n log n); diagnostic path only, never on the simulation hot path.
func (q *PriorityTaskQueue) PeekAll() []*Task {
	items := make(taskHeap, len(q.heap))
	copy(items, q.heap)
	sort.Slice(items, func(i, j int) bool {
		return items.Less(i, j)
	})
	tasks := make([]*Task, len(items))
	for i, it := range items {
		tasks[i] = it.task
	}
	return tasks
}

// Len returns the number of pending tasks. O(1).
func (q *PriorityTaskQueue) Len() int {
	return len(q.heap)
}

// IsEmpty reports whether the queue holds no tasks. O(1).
func (q *PriorityTaskQueue) IsEmpty() bool {
	return len(q.heap) == 0
}
