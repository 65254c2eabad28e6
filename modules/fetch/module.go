// Package fetch implements an asynchronous stage simulating remote I/O: a
// configurable number of suspension rounds, each completed by a background
// agent after a short latency, optionally ending in an error.
package fetch

import (
	"context"
	"errors"
	"time"

	"github.com/vk/querypipe/internal/ctxlog"
	"github.com/vk/querypipe/internal/processor"
	"github.com/vk/querypipe/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the 'fetch' processor type.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterProcessor("fetch", newProcessor)
}

func newProcessor(_ context.Context, name string, env processor.Env, args *registry.Args) (processor.Processor, error) {
	rounds, err := args.IntOr("rounds", 1)
	if err != nil {
		return nil, err
	}
	latency, err := args.DurationOr("latency", time.Millisecond)
	if err != nil {
		return nil, err
	}
	message, err := args.StringOr("error", "")
	if err != nil {
		return nil, err
	}
	return &fetcher{name: name, rounds: rounds, latency: latency, errMessage: message, env: env}, nil
}

type fetcher struct {
	name       string
	rounds     int
	latency    time.Duration
	errMessage string
	env        processor.Env
}

func (f *fetcher) Name() string { return f.name }

func (f *fetcher) AsyncProcess(_ context.Context) processor.Pollable {
	return &fetchPoll{
		stage:      f.name,
		remaining:  f.rounds,
		latency:    f.latency,
		errMessage: f.errMessage,
		env:        f.env,
	}
}

type fetchPoll struct {
	stage      string
	remaining  int
	latency    time.Duration
	errMessage string
	env        processor.Env
}

// Poll suspends once per remaining round, spawning an agent that fires the
// waker after the configured latency. When all rounds are consumed the fetch
// completes, or fails if an error message was configured.
func (p *fetchPoll) Poll(ctx context.Context, waker processor.Waker) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if p.remaining <= 0 {
		if p.errMessage != "" {
			return false, errors.New(p.errMessage)
		}
		ctxlog.FromContext(ctx).Debug("Fetch completed.", "stage", p.stage)
		return true, nil
	}

	p.remaining--
	go func() {
		time.Sleep(p.latency)
		waker.Wake()
		p.env.NotifyScheduler()
	}()
	return false, nil
}
