package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/querypipe/internal/ctxlog"
	"github.com/vk/querypipe/internal/registry"
	"github.com/vk/querypipe/internal/schema"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	config   *schema.Config
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// A failure to load the pipeline definition is a fatal startup error and
// panics; the entrypoint recovers and reports it.
func NewApp(outW io.Writer, appConfig *Config, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All processor modules registered.", "count", len(modules), "types", reg.Types())

	cfg, err := schema.Load(ctx, appConfig.PipelinePath)
	if err != nil {
		panic(fmt.Errorf("failed to load pipeline definition: %w", err))
	}
	logger.Debug("Pipeline definition loaded.", "pipelines", len(cfg.Pipelines))

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		config:   cfg,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Pipelines returns the loaded pipeline definitions. Primarily for testing.
func (a *App) Pipelines() []*schema.Pipeline {
	return a.config.Pipelines
}
