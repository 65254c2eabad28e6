package registry

import (
	"fmt"
	"reflect"
	"time"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Args wraps the evaluated argument values of a pipeline stage and decodes
// them into Go values on demand, converting between cty types where an
// implicit conversion exists.
type Args struct {
	values map[string]cty.Value
}

// NewArgs creates an Args view over evaluated stage attributes.
func NewArgs(values map[string]cty.Value) *Args {
	if values == nil {
		values = make(map[string]cty.Value)
	}
	return &Args{values: values}
}

// Has reports whether the argument was provided.
func (a *Args) Has(name string) bool {
	_, ok := a.values[name]
	return ok
}

// String returns a required string argument.
func (a *Args) String(name string) (string, error) {
	if !a.Has(name) {
		return "", fmt.Errorf("missing required argument %q", name)
	}
	var out string
	if err := a.decode(name, &out); err != nil {
		return "", err
	}
	return out, nil
}

// StringOr returns a string argument, or the default when absent.
func (a *Args) StringOr(name, def string) (string, error) {
	if !a.Has(name) {
		return def, nil
	}
	return a.String(name)
}

// IntOr returns an integer argument, or the default when absent.
func (a *Args) IntOr(name string, def int) (int, error) {
	if !a.Has(name) {
		return def, nil
	}
	var out int
	if err := a.decode(name, &out); err != nil {
		return 0, err
	}
	return out, nil
}

// BoolOr returns a boolean argument, or the default when absent.
func (a *Args) BoolOr(name string, def bool) (bool, error) {
	if !a.Has(name) {
		return def, nil
	}
	var out bool
	if err := a.decode(name, &out); err != nil {
		return false, err
	}
	return out, nil
}

// DurationOr returns a duration argument given as a string such as "150ms",
// or the default when absent.
func (a *Args) DurationOr(name string, def time.Duration) (time.Duration, error) {
	if !a.Has(name) {
		return def, nil
	}
	raw, err := a.String(name)
	if err != nil {
		return 0, err
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("argument %q is not a valid duration: %w", name, err)
	}
	return d, nil
}

// decode converts the named value to the implied cty type of the target and
// populates it. goVal must be a non-nil pointer.
func (a *Args) decode(name string, goVal any) error {
	val := a.values[name]

	impliedType, err := gocty.ImpliedType(reflect.ValueOf(goVal).Elem().Interface())
	if err != nil {
		return fmt.Errorf("argument %q: unsupported target type %T: %w", name, goVal, err)
	}
	converted, err := convert.Convert(val, impliedType)
	if err != nil {
		return fmt.Errorf("argument %q: cannot convert %s to %s: %w",
			name, val.Type().FriendlyName(), impliedType.FriendlyName(), err)
	}
	if err := gocty.FromCtyValue(converted, goVal); err != nil {
		return fmt.Errorf("argument %q: %w", name, err)
	}
	return nil
}
