// Package transform implements a synchronous per-batch processing stage.
package transform

import (
	"context"
	"hash/fnv"

	"github.com/vk/querypipe/internal/ctxlog"
	"github.com/vk/querypipe/internal/processor"
	"github.com/vk/querypipe/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the 'transform' processor type.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterProcessor("transform", newProcessor)
}

func newProcessor(_ context.Context, name string, _ processor.Env, args *registry.Args) (processor.Processor, error) {
	iterations, err := args.IntOr("iterations", 1)
	if err != nil {
		return nil, err
	}
	payload, err := args.StringOr("payload", "querypipe")
	if err != nil {
		return nil, err
	}
	return &transformer{name: name, iterations: iterations, payload: []byte(payload)}, nil
}

type transformer struct {
	name       string
	iterations int
	payload    []byte
}

func (t *transformer) Name() string { return t.name }

// Process runs the configured number of passes over the payload.
func (t *transformer) Process(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	h := fnv.New64a()
	for i := 0; i < t.iterations; i++ {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		h.Write(t.payload)
	}

	logger.Debug("Batch transformed.", "stage", t.name, "iterations", t.iterations, "digest", h.Sum64())
	return nil
}
