// Package fail implements a synchronous stage that always fails, used to
// exercise error propagation through a pipeline.
package fail

import (
	"context"
	"errors"

	"github.com/vk/querypipe/internal/processor"
	"github.com/vk/querypipe/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the 'fail' processor type.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterProcessor("fail", newProcessor)
}

func newProcessor(_ context.Context, name string, _ processor.Env, args *registry.Args) (processor.Processor, error) {
	message, err := args.StringOr("message", "stage failed")
	if err != nil {
		return nil, err
	}
	return &failer{name: name, message: message}, nil
}

type failer struct {
	name    string
	message string
}

func (f *failer) Name() string { return f.name }

func (f *failer) Process(_ context.Context) error {
	return errors.New(f.message)
}
