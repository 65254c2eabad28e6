// Package pipeline turns a parsed pipeline definition into the worker tasks
// the executor runs. Graph topology and scheduling policy live elsewhere;
// each stage becomes one independent task.
package pipeline

import (
	"context"
	"fmt"

	"github.com/vk/querypipe/internal/ctxlog"
	"github.com/vk/querypipe/internal/executor"
	"github.com/vk/querypipe/internal/processor"
	"github.com/vk/querypipe/internal/registry"
	"github.com/vk/querypipe/internal/schema"
)

// Build instantiates every stage of the pipeline through the registry and
// wraps each processor in the matching task variant: synchronous processors
// become sync tasks, asynchronous ones become async-start tasks.
func Build(ctx context.Context, p *schema.Pipeline, reg *registry.Registry, env processor.Env) ([]executor.WorkerTask, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Building pipeline.", "pipeline", p.Name, "stages", len(p.Stages))

	tasks := make([]executor.WorkerTask, 0, len(p.Stages))
	for _, stage := range p.Stages {
		factory, ok := reg.Factory(stage.ProcessorType)
		if !ok {
			return nil, fmt.Errorf("pipeline %q: stage %q uses unknown processor type %q (registered: %v)",
				p.Name, stage.Name, stage.ProcessorType, reg.Types())
		}

		values, err := stage.ArgValues()
		if err != nil {
			return nil, fmt.Errorf("pipeline %q: %w", p.Name, err)
		}

		proc, err := factory(ctx, stage.Address(), env, registry.NewArgs(values))
		if err != nil {
			return nil, fmt.Errorf("pipeline %q: building stage %q: %w", p.Name, stage.Address(), err)
		}

		switch typed := proc.(type) {
		case processor.AsyncProcessor:
			tasks = append(tasks, executor.AsyncStartTask(typed))
		case processor.SyncProcessor:
			tasks = append(tasks, executor.SyncTask(typed))
		default:
			return nil, fmt.Errorf("pipeline %q: stage %q built a processor with no step capability",
				p.Name, stage.Address())
		}
	}

	logger.Debug("Pipeline built.", "pipeline", p.Name, "tasks", len(tasks))
	return tasks, nil
}
