package executor

import (
	"sync"
	"sync/atomic"
)

// TasksQueue is the shared task queue a fixed pool of workers draws from. It
// holds a global FIFO of runnable tasks, a per-worker list of parked
// asynchronous tasks, and a per-worker notifier implementing the blocking
// wake contract.
//
// The park race is arbitrated under the queue mutex: TryPark checks the
// readiness flag while holding the lock, and WakeParked moves ready tasks
// under the same lock, so a task is always either parked-and-rewakeable or
// handed back to the caller, never lost.
type TasksQueue struct {
	mu      sync.Mutex
	closed  atomic.Bool
	global  []WorkerTask
	resumes [][]WorkerTask
	parked  [][]*AsyncTask
	wakeups []chan struct{}
}

// NewTasksQueue creates a queue serving the given number of workers.
func NewTasksQueue(numWorkers int) *TasksQueue {
	q := &TasksQueue{
		resumes: make([][]WorkerTask, numWorkers),
		parked:  make([][]*AsyncTask, numWorkers),
		wakeups: make([]chan struct{}, numWorkers),
	}
	for i := range q.wakeups {
		// Capacity 1 coalesces notifications and closes the gap between a
		// worker deciding to wait and actually waiting.
		q.wakeups[i] = make(chan struct{}, 1)
	}
	return q
}

// Enqueue adds a runnable task to the global queue and notifies the workers.
func (q *TasksQueue) Enqueue(t WorkerTask) {
	if t.IsNone() {
		return
	}
	q.mu.Lock()
	q.global = append(q.global, t)
	q.mu.Unlock()
	q.notifyAll()
}

// Fill hands the calling worker its next task, preferring resumes routed to
// it, then its own parked tasks that became ready, then the global queue. It
// reports false when nothing is available.
func (q *TasksQueue) Fill(wc *WorkerContext) bool {
	worker := wc.WorkerID()
	q.mu.Lock()
	defer q.mu.Unlock()

	if tasks := q.resumes[worker]; len(tasks) > 0 {
		wc.SetTask(tasks[0])
		q.resumes[worker] = tasks[1:]
		return true
	}
	if task, ok := q.takeReadyLocked(worker); ok {
		wc.SetTask(ResumeTask(task))
		return true
	}
	if len(q.global) > 0 {
		wc.SetTask(q.global[0])
		q.global = q.global[1:]
		return true
	}
	return false
}

// TryPark attempts to hand a suspended asynchronous task over to the queue,
// scoped to the worker it should come back to. If the task's readiness flag
// is already set (a wake raced the park), the same task is returned and the
// caller must re-poll immediately; otherwise the queue takes ownership and
// nil is returned.
func (q *TasksQueue) TryPark(workerID int, task *AsyncTask) *AsyncTask {
	q.mu.Lock()
	defer q.mu.Unlock()

	if task.ready.Load() {
		return task
	}
	q.parked[workerID] = append(q.parked[workerID], task)
	return nil
}

// WakeParked re-enqueues every parked task whose readiness flag has been set,
// as a resume task routed to its originating worker, and notifies those
// workers. Agents that complete asynchronous operations call this after
// firing the task's Waker.
func (q *TasksQueue) WakeParked() {
	var woken []int

	q.mu.Lock()
	for worker := range q.parked {
		moved := false
		for {
			task, ok := q.takeReadyLocked(worker)
			if !ok {
				break
			}
			q.resumes[worker] = append(q.resumes[worker], ResumeTask(task))
			moved = true
		}
		if moved {
			woken = append(woken, worker)
		}
	}
	q.mu.Unlock()

	for _, worker := range woken {
		q.notify(worker)
	}
}

// takeReadyLocked removes and returns the first parked task of the worker
// whose readiness flag is set. Callers must hold q.mu.
func (q *TasksQueue) takeReadyLocked(worker int) (*AsyncTask, bool) {
	tasks := q.parked[worker]
	for i, task := range tasks {
		if task.ready.Load() {
			q.parked[worker] = append(tasks[:i:i], tasks[i+1:]...)
			return task, true
		}
	}
	return nil, false
}

// WaitWakeup blocks the worker until a notification arrives. This is a
// genuine block on the worker's notifier channel, not a spin.
func (q *TasksQueue) WaitWakeup(workerID int) {
	<-q.wakeups[workerID]
}

// Close marks the queue finished and wakes every worker so it can observe
// the closed state and exit.
func (q *TasksQueue) Close() {
	q.closed.Store(true)
	q.notifyAll()
}

// IsClosed reports whether the queue has been closed.
func (q *TasksQueue) IsClosed() bool {
	return q.closed.Load()
}

func (q *TasksQueue) notifyAll() {
	for worker := range q.wakeups {
		q.notify(worker)
	}
}

func (q *TasksQueue) notify(worker int) {
	select {
	case q.wakeups[worker] <- struct{}{}:
	default:
	}
}
