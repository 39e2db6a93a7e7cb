// The batch simulation engine: converts an ordered stream of tasks into an
// ordered stream of results, advancing a single logical completion clock
// while modeling container cold/warm starts and invocation cost.

package sim

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// Sink consumes completed tasks. The engine calls Write from exactly one
// goroutine, in arrival-sorted emission order. A Write error fails the run;
// rows are never dropped silently.
type Sink interface {
	Write(st *ScheduledTask) error
	Flush() error
}

// Result summarizes one engine run.
type Result struct {
	Metrics   *Metrics
	Processed int
	Skipped   int  // tasks dropped by the MaxTasks cap
	Rejected  int  // malformed records skipped (SkipMalformed mode only)
	Truncated bool // MaxTasks reached before workload exhausted
}

// Engine orchestrates the scheduler, container pool, and cost model over a
// workload. Batches bound memory, not correctness: the logical clock
// advances strictly sequentially across batch boundaries.
type Engine struct {
	cfg        Config
	containers *ContainerPool
	costs      *CostModel
	metrics    *Metrics
	clock      float64
}

// NewEngine validates the configuration and builds an engine. The container
// map and aggregate counters live on the engine and persist for exactly one
// run; create a fresh engine per run.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:        cfg,
		containers: NewContainerPool(cfg.ColdStartSeconds, cfg.ReuseTTLSeconds, cfg.ContainerReuse),
		costs:      NewCostModel(cfg.CostModelEnabled),
		metrics:    NewMetrics(),
	}, nil
}

// Run simulates the workload and streams results to the sink.
//
// Tasks are admitted through a batch-mode scheduler (EDF order), drained
// into an arrival-time-ordered stream (stable, so same-instant arrivals
// keep EDF order), and processed in fixed-size batches. For task i:
//
//	start_i = max(clock, arrival_i) + containerDelay(fn_i, start_i)
//	end_i   = start_i + est_runtime_i
//	clock   = end_i            (committed before task i+1 begins)
//
// Only the per-task cost computation and the sink fan-out run on the
// bounded worker pool; no worker ever touches the clock, so results and
// aggregate metrics are byte-identical across reruns of the same workload
// and configuration.
//
// Context cancellation flushes whatever has been written and returns the
// context error; the caller maps that to a non-zero exit.
func (e *Engine) Run(ctx context.Context, tasks []*Task, sink Sink) (*Result, error) {
	res := &Result{Metrics: e.metrics}

	// MaxTasks is a deliberate truncation, reported once as a warning.
	if e.cfg.MaxTasks > 0 && len(tasks) > e.cfg.MaxTasks {
		res.Skipped = len(tasks) - e.cfg.MaxTasks
		res.Truncated = true
		tasks = tasks[:e.cfg.MaxTasks]
		logrus.Warnf("workload truncated to %d tasks (%d skipped by max_tasks)", len(tasks), res.Skipped)
	}

	// Admit tasks through the scheduler. Malformed records abort by
	// default so metrics stay deterministic; in SkipMalformed mode they
	// are excluded entirely and never advance the clock.
	sched := NewBatchScheduler()
	admitted := 0
	for i, t := range tasks {
		if err := t.Validate(); err != nil {
			if e.cfg.SkipMalformed {
				res.Rejected++
				logrus.Warnf("skipping malformed record %d: %v", i, err)
				continue
			}
			return res, &InputError{Index: i, TaskID: t.ID, Reason: err.Error()}
		}
		sched.Submit(t)
		admitted++
	}

	ordered := drainByArrival(sched)

	writer := newSinkWriter(sink, e.cfg.Concurrency)
	progress := newProgressReporter(admitted)

	// Batches are consecutive slices of the arrival-ordered stream: batch
	// size bounds the in-flight side computations, never correctness.
	batchIdx := 0
	for start := 0; start < len(ordered); start += e.cfg.BatchSize {
		if err := ctx.Err(); err != nil {
			writer.close()
			if ferr := sink.Flush(); ferr != nil {
				logrus.Errorf("flush after interrupt: %v", ferr)
			}
			return res, fmt.Errorf("simulation interrupted in batch %d: %w", batchIdx, err)
		}

		end := start + e.cfg.BatchSize
		if end > len(ordered) {
			end = len(ordered)
		}
		batch := ordered[start:end]
		if err := e.processBatch(ctx, batch, writer); err != nil {
			writer.close()
			if ferr := sink.Flush(); ferr != nil {
				logrus.Errorf("flush after failure: %v", ferr)
			}
			return res, fmt.Errorf("batch %d: %w", batchIdx, err)
		}
		res.Processed += len(batch)
		progress.update(res.Processed)
		batchIdx++
	}

	if err := writer.close(); err != nil {
		if ferr := sink.Flush(); ferr != nil {
			logrus.Errorf("flush after failure: %v", ferr)
		}
		return res, fmt.Errorf("result sink: %w", err)
	}
	if err := sink.Flush(); err != nil {
		return res, fmt.Errorf("flushing result sink: %w", err)
	}
	progress.finish()
	return res, nil
}

// drainByArrival empties the scheduler and orders the stream by arrival
// time. The sort is stable, so tasks arriving at the same instant keep the
// scheduler's EDF pop order: at equal arrivals the tighter deadline is
// scheduled first.
func drainByArrival(sched *Scheduler) []*ScheduledTask {
	ordered := make([]*ScheduledTask, 0, sched.Len())
	for {
		st, ok := sched.Next()
		if !ok {
			break
		}
		ordered = append(ordered, st)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ArrivalTime < ordered[j].ArrivalTime
	})
	return ordered
}

// processBatch runs the sequential clock scan over one arrival-sorted
// batch. Cost lookups are dispatched to the worker pool up front (cost
// depends only on fields fixed at admission) and joined immediately before
// each task's end time is committed.
func (e *Engine) processBatch(ctx context.Context, batch []*ScheduledTask, writer *sinkWriter) error {
	// Exec duration equals the estimated runtime; fix it before the cost
	// futures are dispatched.
	for _, st := range batch {
		st.ExecDuration = st.Payload.EstRuntime
	}
	costs := e.dispatchCosts(batch)

	for i, st := range batch {
		start := e.clock
		if st.ArrivalTime > start {
			start = st.ArrivalTime
		}
		start += e.containers.DelayFor(st.FunctionName, start)

		st.StartTime = start
		st.EndTime = start + st.ExecDuration
		st.WaitTime = start - st.EnqueueTime
		if st.EndTime > st.Deadline {
			st.Status = StatusMissed
		} else {
			st.Status = StatusOnTime
		}
		st.Cost = <-costs[i]

		// Commit: the clock only advances after task i is finalized.
		e.clock = st.EndTime
		e.metrics.Record(st)

		logrus.Debugf("[clock %010.3f] %s start=%.3f end=%.3f status=%s",
			e.clock, st.ID, st.StartTime, st.EndTime, st.Status)

		if err := writer.emit(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// dispatchCosts farms the batch's cost computations out to a pool bounded
// by Concurrency. Futures are indexed so the join order matches the batch
// order regardless of completion order.
func (e *Engine) dispatchCosts(batch []*ScheduledTask) []chan float64 {
	costs := make([]chan float64, len(batch))
	sem := make(chan struct{}, e.cfg.Concurrency)
	for i, st := range batch {
		ch := make(chan float64, 1)
		costs[i] = ch
		sem <- struct{}{}
		go func(st *ScheduledTask, ch chan<- float64) {
			defer func() { <-sem }()
			ch <- e.costs.Cost(st)
		}(st, ch)
	}
	return costs
}

// sinkWriter serializes sink writes on a single goroutine fed by a channel,
// decoupling the clock scan from sink latency. The first write error is
// retained and surfaces on the next emit or on close; subsequent tasks are
// drained without writing so the engine never deadlocks.
type sinkWriter struct {
	ch   chan *ScheduledTask
	done chan struct{}
	err  chan error
}

func newSinkWriter(sink Sink, buffer int) *sinkWriter {
	w := &sinkWriter{
		ch:   make(chan *ScheduledTask, buffer),
		done: make(chan struct{}),
		err:  make(chan error, 1),
	}
	go func() {
		defer close(w.done)
		failed := false
		for st := range w.ch {
			if failed {
				continue
			}
			if err := sink.Write(st); err != nil {
				failed = true
				w.err <- &SinkError{TaskID: st.ID, Err: err}
			}
		}
	}()
	return w
}

// emit hands one result to the writer goroutine, surfacing any error the
// writer has already hit.
func (w *sinkWriter) emit(ctx context.Context, st *ScheduledTask) error {
	select {
	case err := <-w.err:
		return err
	default:
	}
	select {
	case w.ch <- st:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close stops the writer and returns its first error, if any.
func (w *sinkWriter) close() error {
	close(w.ch)
	<-w.done
	select {
	case err := <-w.err:
		return err
	default:
		return nil
	}
}
