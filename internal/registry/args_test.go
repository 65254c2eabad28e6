package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestArgs_String(t *testing.T) {
	t.Parallel()

	args := NewArgs(map[string]cty.Value{"message": cty.StringVal("boom")})

	got, err := args.String("message")
	require.NoError(t, err)
	assert.Equal(t, "boom", got)

	_, err = args.String("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required argument")
}

func TestArgs_StringOr(t *testing.T) {
	t.Parallel()

	args := NewArgs(nil)
	got, err := args.StringOr("payload", "default")
	require.NoError(t, err)
	assert.Equal(t, "default", got)
}

func TestArgs_IntOr(t *testing.T) {
	t.Parallel()

	args := NewArgs(map[string]cty.Value{"count": cty.NumberIntVal(42)})

	got, err := args.IntOr("count", 7)
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	got, err = args.IntOr("absent", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestArgs_IntOr_ConvertsFromString(t *testing.T) {
	t.Parallel()

	// HCL's implicit conversions apply: "42" is a valid number argument.
	args := NewArgs(map[string]cty.Value{"count": cty.StringVal("42")})
	got, err := args.IntOr("count", 0)
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestArgs_IntOr_RejectsNonNumeric(t *testing.T) {
	t.Parallel()

	args := NewArgs(map[string]cty.Value{"count": cty.StringVal("lots")})
	_, err := args.IntOr("count", 0)
	require.Error(t, err)
}

func TestArgs_BoolOr(t *testing.T) {
	t.Parallel()

	args := NewArgs(map[string]cty.Value{"enabled": cty.BoolVal(true)})

	got, err := args.BoolOr("enabled", false)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = args.BoolOr("absent", true)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestArgs_DurationOr(t *testing.T) {
	t.Parallel()

	args := NewArgs(map[string]cty.Value{
		"latency": cty.StringVal("150ms"),
		"bogus":   cty.StringVal("soon"),
	})

	got, err := args.DurationOr("latency", time.Second)
	require.NoError(t, err)
	assert.Equal(t, 150*time.Millisecond, got)

	got, err = args.DurationOr("absent", time.Second)
	require.NoError(t, err)
	assert.Equal(t, time.Second, got)

	_, err = args.DurationOr("bogus", time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid duration")
}
