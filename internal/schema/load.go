package schema

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/querypipe/internal/ctxlog"
	"github.com/vk/querypipe/internal/fsutil"
)

// Load reads a pipeline definition from a single .hcl file or from every
// .hcl file under a directory, merging the pipelines into one Config.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := ctxlog.FromContext(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading pipeline path: %w", err)
	}

	files := []string{path}
	if info.IsDir() {
		files, err = fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("scanning %q for pipeline files: %w", path, err)
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no .hcl files found under %q", path)
		}
	}
	logger.Debug("Loading pipeline definition.", "files", len(files))

	merged := &Config{}
	parser := hclparse.NewParser()
	for _, file := range files {
		f, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("parsing %q: %w", file, diags)
		}
		var cfg Config
		if diags := gohcl.DecodeBody(f.Body, nil, &cfg); diags.HasErrors() {
			return nil, fmt.Errorf("decoding %q: %w", file, diags)
		}
		merged.Pipelines = append(merged.Pipelines, cfg.Pipelines...)
	}

	logger.Debug("Pipeline definition loaded.", "pipelines", len(merged.Pipelines))
	return merged, nil
}

// Parse decodes a pipeline definition from an in-memory buffer. The filename
// is only used in diagnostics.
func Parse(filename string, src []byte) (*Config, error) {
	f, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing %q: %w", filename, diags)
	}
	var cfg Config
	if diags := gohcl.DecodeBody(f.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("decoding %q: %w", filename, diags)
	}
	return &cfg, nil
}
