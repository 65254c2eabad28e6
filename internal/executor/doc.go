// Package executor implements the per-worker execution engine of the
// pipeline: worker contexts that drive synchronous steps and poll-driven
// asynchronous computations on a fixed pool of workers, and the shared tasks
// queue that parks suspended computations without losing wakeups.
package executor
