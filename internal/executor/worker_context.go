package executor

import (
	"context"
	"errors"
)

// ErrNoTask is returned by ExecuteTask when the context holds no task. It
// signals a scheduler invariant violation upstream and is fatal; callers must
// not retry.
var ErrNoTask = errors.New("worker context: no task to execute")

// Completion reports how ExecuteTask disposed of a task.
type Completion uint8

const (
	// Completed means the task ran to completion on this worker.
	Completed Completion = iota
	// Parked means the asynchronous computation suspended and is now owned
	// by the queue; it will come back as a resume task once woken.
	Parked
)

// ParkQueue is the slice of the shared tasks queue the worker context needs:
// the park operation arbitrating the race between suspending a computation
// and a concurrent wake. TryPark returns nil when the task was parked, or the
// same task back when its readiness flag was already set.
type ParkQueue interface {
	TryPark(workerID int, task *AsyncTask) *AsyncTask
}

// WorkerContext is the per-worker execution state: a stable worker identity
// and at most one held task.
type WorkerContext struct {
	workerID int
	task     WorkerTask
}

// NewWorkerContext creates a context for the given worker with no task.
func NewWorkerContext(workerID int) *WorkerContext {
	return &WorkerContext{workerID: workerID}
}

// HasTask reports whether the context holds a task.
func (c *WorkerContext) HasTask() bool {
	return !c.task.IsNone()
}

// WorkerID returns the worker's identity.
func (c *WorkerContext) WorkerID() int {
	return c.workerID
}

// TaskName returns the name of the held task, or "" if there is none.
func (c *WorkerContext) TaskName() string {
	return c.task.Name()
}

// SetTask replaces the held task. The caller must ensure the previous task,
// if any, was not still meaningful.
func (c *WorkerContext) SetTask(t WorkerTask) {
	c.task = t
}

// take consumes the held task, leaving the no-work variant behind, so a task
// is executed exactly once per assignment.
func (c *WorkerContext) take() WorkerTask {
	t := c.task
	c.task = WorkerTask{}
	return t
}

// ExecuteTask consumes the held task and drives it to completion or to a
// parked suspension. Processing failures propagate verbatim; executing with
// no held task returns ErrNoTask.
func (c *WorkerContext) ExecuteTask(ctx context.Context, queue ParkQueue) (Completion, error) {
	t := c.take()
	switch t.kind {
	case taskNone:
		return Completed, ErrNoTask
	case taskSync:
		if err := t.sync.Process(ctx); err != nil {
			return Completed, err
		}
		return Completed, nil
	case taskAsyncStart:
		return c.scheduleAsync(ctx, newAsyncTask(t.name, t.async.AsyncProcess(ctx)), queue)
	default:
		return c.scheduleAsync(ctx, t.inflight, queue)
	}
}

// scheduleAsync polls an in-flight computation until it completes, fails, or
// parks. The readiness flag is re-armed at the top of every iteration so it
// acts as a single-shot "poll me again" signal; a park attempt rejected by
// the queue means a wake raced the park between that reset and the park, and
// the loop polls again immediately so the wake is never lost.
func (c *WorkerContext) scheduleAsync(ctx context.Context, task *AsyncTask, queue ParkQueue) (Completion, error) {
	for {
		task.ready.Store(false)
		done, err := task.pollable.Poll(ctx, newWaker(task.ready))
		if err != nil {
			return Completed, err
		}
		if done {
			return Completed, nil
		}
		bounced := queue.TryPark(c.workerID, task)
		if bounced == nil {
			return Parked, nil
		}
		task = bounced
	}
}

// WaitWakeup blocks the calling worker until the queue has work addressed to
// it. The queue notifies on every enqueue aimed at an idle worker.
func (c *WorkerContext) WaitWakeup(queue *TasksQueue) {
	queue.WaitWakeup(c.workerID)
}
