package executor

import (
	"sync/atomic"

	"github.com/vk/querypipe/internal/processor"
)

// AsyncTask pairs a suspended asynchronous computation with its readiness
// flag. The flag is shared between the task and every Waker constructed for
// it; the computation itself has exactly one owner at any instant, either the
// worker polling it or the queue holding it parked.
type AsyncTask struct {
	name     string
	ready    *atomic.Bool
	pollable processor.Pollable
}

func newAsyncTask(name string, pollable processor.Pollable) *AsyncTask {
	return &AsyncTask{name: name, ready: new(atomic.Bool), pollable: pollable}
}

// Name returns the stage instance name the computation belongs to.
func (t *AsyncTask) Name() string {
	return t.name
}

// Waker marks one AsyncTask ready for re-polling. It wraps only the shared
// readiness flag and is constructed fresh for every poll attempt.
type Waker struct {
	ready *atomic.Bool
}

func newWaker(ready *atomic.Bool) *Waker {
	return &Waker{ready: ready}
}

// Wake sets the readiness flag. Repeated calls before the next poll coalesce;
// the atomic store orders any writes made by the waking party before the
// flag read that decides to re-poll.
func (w *Waker) Wake() {
	w.ready.Store(true)
}
