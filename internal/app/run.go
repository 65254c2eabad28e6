package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vk/querypipe/internal/ctxlog"
	"github.com/vk/querypipe/internal/executor"
	"github.com/vk/querypipe/internal/pipeline"
	"github.com/vk/querypipe/internal/processor"
)

// Run executes every loaded pipeline in order, each on its own executor and
// worker pool.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if appConfig.HealthcheckPort > 0 {
		a.startHealthcheckServer(appConfig.HealthcheckPort)
	}

	if len(a.config.Pipelines) == 0 {
		a.logger.Warn("No pipelines found in definition, execution not required.")
		return nil
	}

	for _, p := range a.config.Pipelines {
		workers := appConfig.WorkerCount
		if p.Workers > 0 {
			workers = p.Workers
		}

		runID := uuid.NewString()
		runLogger := a.logger.With("pipeline", p.Name, "runID", runID)
		runCtx := ctxlog.WithLogger(ctx, runLogger)

		exec := executor.New(runID, workers)
		env := processor.Env{Notify: exec.WakeReady}

		tasks, err := pipeline.Build(runCtx, p, a.registry, env)
		if err != nil {
			return fmt.Errorf("failed to build pipeline %q: %w", p.Name, err)
		}

		runLogger.Info("🚀 Starting pipeline execution.", "stages", len(tasks), "workers", workers)
		if err := exec.Run(runCtx, tasks); err != nil {
			return fmt.Errorf("execution failed: %w", err)
		}
		runLogger.Info("🏁 Pipeline finished.")
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
