package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/vk/querypipe/internal/ctxlog"
)

// WorkerFailure attributes a processing failure to the worker and task that
// produced it.
type WorkerFailure struct {
	WorkerID int
	Task     string
	Err      error
}

// Executor drives a batch of worker tasks to completion on a fixed pool of
// workers sharing one TasksQueue. Parked asynchronous tasks stay outstanding
// until their resume completes or fails.
type Executor struct {
	runID      string
	numWorkers int
	queue      *TasksQueue
	wg         sync.WaitGroup

	mu       sync.Mutex
	failures []WorkerFailure
}

// New creates an executor with the given run identity and worker count.
func New(runID string, numWorkers int) *Executor {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Executor{
		runID:      runID,
		numWorkers: numWorkers,
		queue:      NewTasksQueue(numWorkers),
	}
}

// WakeReady re-enqueues parked tasks whose wakers have fired. It is the
// scheduling hook handed to asynchronous completion agents.
func (e *Executor) WakeReady() {
	e.queue.WakeParked()
}

// Run enqueues the tasks, runs the worker pool until every task has
// completed, failed, or been skipped, and returns an error naming the failed
// tasks with the first failure as root cause.
func (e *Executor) Run(ctx context.Context, tasks []WorkerTask) error {
	logger := ctxlog.FromContext(ctx)
	if len(tasks) == 0 {
		logger.Warn("No tasks to execute.", "runID", e.runID)
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	e.wg.Add(len(tasks))
	for _, t := range tasks {
		e.queue.Enqueue(t)
	}

	logger.Debug("Starting worker pool.", "runID", e.runID, "workers", e.numWorkers, "tasks", len(tasks))
	for i := 0; i < e.numWorkers; i++ {
		go e.worker(runCtx, cancel, i)
	}

	e.wg.Wait()
	e.queue.Close()
	logger.Debug("All tasks settled.", "runID", e.runID)

	e.mu.Lock()
	failures := e.failures
	e.mu.Unlock()
	if len(failures) == 0 {
		return nil
	}

	names := make([]string, 0, len(failures))
	for _, f := range failures {
		names = append(names, f.Task)
	}
	return fmt.Errorf("run %s failed for %s: %w", e.runID, strings.Join(names, ", "), failures[0].Err)
}

// worker is the processing loop of a single pool worker: fetch a task,
// execute it, and block on the queue's notifier when nothing is available.
func (e *Executor) worker(ctx context.Context, cancel context.CancelFunc, workerID int) {
	logger := ctxlog.FromContext(ctx).With("runID", e.runID, "workerID", workerID)
	logger.Debug("Worker started.")

	wc := NewWorkerContext(workerID)
	for {
		if !e.queue.Fill(wc) {
			if e.queue.IsClosed() {
				logger.Debug("Worker finished.")
				return
			}
			wc.WaitWakeup(e.queue)
			continue
		}

		taskName := wc.TaskName()
		if ctx.Err() != nil {
			logger.Warn("Run canceled, dropping task.", "task", taskName)
			wc.SetTask(WorkerTask{})
			e.wg.Done()
			continue
		}

		completion, err := wc.ExecuteTask(ctx, e.queue)
		if err != nil {
			if errors.Is(err, ErrNoTask) {
				// Fill reported a task, so an empty slot here is a bug in
				// the queue handoff, not an operational failure.
				panic(fmt.Sprintf("executor: worker %d executed an empty task slot", workerID))
			}
			logger.Error("Task execution failed.", "task", taskName, "error", err)
			e.recordFailure(workerID, taskName, err)
			cancel()
			e.wg.Done()
			continue
		}

		if completion == Parked {
			logger.Debug("Task parked.", "task", taskName)
			continue
		}

		logger.Debug("Task completed.", "task", taskName)
		e.wg.Done()
	}
}

func (e *Executor) recordFailure(workerID int, task string, err error) {
	e.mu.Lock()
	e.failures = append(e.failures, WorkerFailure{WorkerID: workerID, Task: task, Err: err})
	e.mu.Unlock()
}

// Failures returns the failures recorded during the run.
func (e *Executor) Failures() []WorkerFailure {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]WorkerFailure(nil), e.failures...)
}
