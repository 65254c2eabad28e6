// Package testutil provides a standardized harness for running whole
// pipelines in tests: it writes a pipeline definition to a temporary
// directory, runs the app against it, and captures log output.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/querypipe/internal/app"
	"github.com/vk/querypipe/internal/registry"
)

// HarnessResult holds the outcomes of a system test run.
type HarnessResult struct {
	LogOutput string
	Err       error
	App       *app.App
}

// RunPipelineTest runs the given pipeline definition end to end with the
// default context.
func RunPipelineTest(t *testing.T, definition string, modules ...registry.Module) *HarnessResult {
	t.Helper()
	return RunPipelineTestWithContext(context.Background(), t, definition, modules...)
}

// RunPipelineTestWithContext runs the given pipeline definition end to end
// with a caller-provided context.
func RunPipelineTestWithContext(ctx context.Context, t *testing.T, definition string, modules ...registry.Module) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "pipeline.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(definition), 0o644))

	appConfig, err := app.NewConfig(app.Config{
		PipelinePath: filePath,
		LogFormat:    "text",
		LogLevel:     "debug",
	})
	require.NoError(t, err)

	testApp, logBuffer := app.SetupAppTest(t, appConfig, modules...)
	runErr := testApp.Run(ctx, appConfig)

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Err:       runErr,
		App:       testApp,
	}
}
