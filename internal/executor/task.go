package executor

import "github.com/vk/querypipe/internal/processor"

// taskKind discriminates the variants of a WorkerTask.
type taskKind uint8

const (
	taskNone taskKind = iota
	taskSync
	taskAsyncStart
	taskAsyncResume
)

// WorkerTask is the smallest schedulable item a worker executes: nothing,
// a synchronous step, an asynchronous step started from scratch, or a
// suspended asynchronous computation to be re-polled. The zero value is the
// "no work assigned" variant.
type WorkerTask struct {
	kind     taskKind
	name     string
	sync     processor.SyncProcessor
	async    processor.AsyncProcessor
	inflight *AsyncTask
}

// SyncTask wraps a synchronous processor step.
func SyncTask(p processor.SyncProcessor) WorkerTask {
	return WorkerTask{kind: taskSync, name: p.Name(), sync: p}
}

// AsyncStartTask wraps a processor whose step must begin as an asynchronous
// computation.
func AsyncStartTask(p processor.AsyncProcessor) WorkerTask {
	return WorkerTask{kind: taskAsyncStart, name: p.Name(), async: p}
}

// ResumeTask wraps an in-flight asynchronous task that suspended earlier and
// is ready to be polled again.
func ResumeTask(t *AsyncTask) WorkerTask {
	return WorkerTask{kind: taskAsyncResume, name: t.Name(), inflight: t}
}

// IsNone reports whether the task describes no work.
func (t WorkerTask) IsNone() bool {
	return t.kind == taskNone
}

// Name returns the stage instance name the task belongs to, or "" for the
// no-work variant.
func (t WorkerTask) Name() string {
	return t.name
}
