package executor

import (
	"context"
	"sync"

	"github.com/vk/querypipe/internal/processor"
)

// stubSync is a synchronous processor returning a scripted result.
type stubSync struct {
	name  string
	err   error
	mu    sync.Mutex
	calls int
}

func (s *stubSync) Name() string { return s.name }

func (s *stubSync) Process(context.Context) error {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.err
}

func (s *stubSync) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// scriptedPoll yields "pending" a fixed number of times, then completes with
// the scripted error (nil means success). onPending runs on every pending
// poll with the waker for that attempt.
type scriptedPoll struct {
	pending   int
	err       error
	onPending func(processor.Waker)
	onPoll    func()

	mu    sync.Mutex
	polls int
}

func (p *scriptedPoll) Poll(_ context.Context, waker processor.Waker) (bool, error) {
	p.mu.Lock()
	p.polls++
	p.mu.Unlock()
	if p.onPoll != nil {
		p.onPoll()
	}
	if p.pending > 0 {
		p.pending--
		if p.onPending != nil {
			p.onPending(waker)
		}
		return false, nil
	}
	if p.err != nil {
		return false, p.err
	}
	return true, nil
}

func (p *scriptedPoll) pollCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.polls
}

// stubAsync is an asynchronous processor handing out a fixed pollable.
type stubAsync struct {
	name string
	poll processor.Pollable
}

func (s *stubAsync) Name() string { return s.name }

func (s *stubAsync) AsyncProcess(context.Context) processor.Pollable { return s.poll }

// stubQueue scripts the park outcome: it rejects the first `bounces` park
// attempts by handing the task back, then accepts.
type stubQueue struct {
	bounces int
	parks   int
}

func (q *stubQueue) TryPark(_ int, task *AsyncTask) *AsyncTask {
	q.parks++
	if q.bounces > 0 {
		q.bounces--
		return task
	}
	return nil
}
