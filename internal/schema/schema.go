// Package schema defines the HCL structure of a pipeline definition file.
package schema

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// StageArgs represents the content of the 'arguments' block within a stage.
type StageArgs struct {
	Body hcl.Body `hcl:",remain"`
}

// Stage represents a `stage` block from a pipeline file: one runnable
// instance of a registered processor type.
type Stage struct {
	ProcessorType string     `hcl:"processor_type,label"`
	Name          string     `hcl:"instance_name,label"`
	Arguments     *StageArgs `hcl:"arguments,block"`
}

// Address returns the stage's full, unambiguous address:
// "processor_type.instance_name".
func (s *Stage) Address() string {
	return s.ProcessorType + "." + s.Name
}

// ArgValues evaluates the stage's argument attributes into a map of cty
// values. Stage arguments are literal values; there is no expression
// evaluation context.
func (s *Stage) ArgValues() (map[string]cty.Value, error) {
	values := make(map[string]cty.Value)
	if s.Arguments == nil {
		return values, nil
	}

	attrs, diags := s.Arguments.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("reading arguments of stage %q: %w", s.Address(), diags)
	}
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("evaluating argument %q of stage %q: %w", name, s.Address(), diags)
		}
		values[name] = val
	}
	return values, nil
}

// Pipeline represents a `pipeline` block: a named set of stages executed as
// one run.
type Pipeline struct {
	Name    string   `hcl:"name,label"`
	Workers int      `hcl:"workers,optional"`
	Stages  []*Stage `hcl:"stage,block"`
}

// Config represents the top-level structure of a pipeline definition,
// possibly merged from several files.
type Config struct {
	Pipelines []*Pipeline `hcl:"pipeline,block"`
}
