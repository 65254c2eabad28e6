// Package delay implements an asynchronous timer stage. Each poll before
// the deadline suspends the computation and arms a timer that fires the
// waker and re-notifies the scheduler.
package delay

import (
	"context"
	"time"

	"github.com/vk/querypipe/internal/processor"
	"github.com/vk/querypipe/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the 'delay' processor type.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterProcessor("delay", newProcessor)
}

func newProcessor(_ context.Context, name string, env processor.Env, args *registry.Args) (processor.Processor, error) {
	duration, err := args.DurationOr("duration", 10*time.Millisecond)
	if err != nil {
		return nil, err
	}
	return &delayer{name: name, duration: duration, env: env}, nil
}

type delayer struct {
	name     string
	duration time.Duration
	env      processor.Env
}

func (d *delayer) Name() string { return d.name }

// AsyncProcess starts the timer computation. The deadline is fixed when the
// computation begins, not per poll.
func (d *delayer) AsyncProcess(_ context.Context) processor.Pollable {
	return &delayPoll{deadline: time.Now().Add(d.duration), env: d.env}
}

type delayPoll struct {
	deadline time.Time
	env      processor.Env
}

// Poll completes once the deadline has passed. While pending it arms a timer
// whose callback fires the waker first, then notifies the scheduler so the
// parked task is re-enqueued.
func (p *delayPoll) Poll(ctx context.Context, waker processor.Waker) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	remaining := time.Until(p.deadline)
	if remaining <= 0 {
		return true, nil
	}

	time.AfterFunc(remaining, func() {
		waker.Wake()
		p.env.NotifyScheduler()
	})
	return false, nil
}
