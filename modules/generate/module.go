// Package generate implements a synchronous source stage that produces a
// batch of rows in one blocking step.
package generate

import (
	"context"
	"encoding/binary"
	"hash/fnv"

	"github.com/vk/querypipe/internal/ctxlog"
	"github.com/vk/querypipe/internal/processor"
	"github.com/vk/querypipe/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the 'generate' processor type.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterProcessor("generate", newProcessor)
}

func newProcessor(_ context.Context, name string, _ processor.Env, args *registry.Args) (processor.Processor, error) {
	count, err := args.IntOr("count", 1000)
	if err != nil {
		return nil, err
	}
	return &generator{name: name, count: count}, nil
}

type generator struct {
	name  string
	count int
}

func (g *generator) Name() string { return g.name }

// Process produces the configured number of rows and folds them into a
// checksum, checking for cancellation between batches.
func (g *generator) Process(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	h := fnv.New64a()
	row := make([]byte, 8)
	for i := 0; i < g.count; i++ {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		binary.LittleEndian.PutUint64(row, uint64(i))
		h.Write(row)
	}

	logger.Debug("Rows generated.", "stage", g.name, "rows", g.count, "checksum", h.Sum64())
	return nil
}
