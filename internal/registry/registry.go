// Package registry maps processor type names to the factories that build
// them from pipeline stage arguments.
package registry

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/querypipe/internal/processor"
)

// Factory builds a processor instance from decoded stage arguments. The
// instance name is the stage's full address.
type Factory func(ctx context.Context, name string, env processor.Env, args *Args) (processor.Processor, error)

// Module is the interface every built-in processor package implements to be
// registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the processor factories of a single application instance.
type Registry struct {
	factories map[string]Factory
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// RegisterProcessor adds a factory under the given type name. Registering
// the same name twice is a programmer error and panics.
func (r *Registry) RegisterProcessor(typeName string, f Factory) {
	if _, exists := r.factories[typeName]; exists {
		panic(fmt.Sprintf("registry: processor type %q registered twice", typeName))
	}
	r.factories[typeName] = f
}

// Factory looks up the factory for a processor type.
func (r *Registry) Factory(typeName string) (Factory, bool) {
	f, ok := r.factories[typeName]
	return f, ok
}

// Types returns the registered processor type names in sorted order.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.factories))
	for name := range r.factories {
		types = append(types, name)
	}
	sort.Strings(types)
	return types
}
