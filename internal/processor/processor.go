// Package processor defines the capability contracts a pipeline stage must
// satisfy to be driven by the executor: a synchronous single-step operation,
// or an asynchronous computation advanced by repeated non-blocking polls.
package processor

import "context"

// Waker is the capability handed to a Pollable on every poll. Firing it marks
// the computation ready for another poll. Multiple calls before the next poll
// coalesce into a single wake; a Waker carries no other payload.
type Waker interface {
	Wake()
}

// Pollable is an asynchronous computation in flight. Poll makes one attempt
// to advance it and must return promptly: either the computation is done
// (success or failure), or it is pending and has arranged for the Waker to
// fire once it is worth polling again.
//
// A Pollable has exactly one owner at any instant and is never polled
// concurrently.
type Pollable interface {
	Poll(ctx context.Context, waker Waker) (done bool, err error)
}

// Processor is a named pipeline stage instance.
type Processor interface {
	Name() string
}

// SyncProcessor performs its work as a single blocking step.
type SyncProcessor interface {
	Processor
	Process(ctx context.Context) error
}

// AsyncProcessor begins its work as an asynchronous computation. The returned
// Pollable is polled by the executor until it completes or fails.
type AsyncProcessor interface {
	Processor
	AsyncProcess(ctx context.Context) Pollable
}

// Env carries the collaborator hooks a processor may need at runtime.
// Notify re-arms scheduling after a Waker has been fired: an agent that
// completes an asynchronous operation fires the task's Waker first, then
// calls Notify so the queue re-enqueues any parked work that became ready.
type Env struct {
	Notify func()
}

// NotifyScheduler invokes the Notify hook if one is wired.
func (e Env) NotifyScheduler() {
	if e.Notify != nil {
		e.Notify()
	}
}
