package stdlib

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemonberrylabs/gm8-runtime/pkg/expr"
	"github.com/lemonberrylabs/gm8-runtime/pkg/gml"
)

func call(t *testing.T, name string, args ...gml.Value) gml.Value {
	t.Helper()
	got, err := NewRegistry().CallFunction(name, args)
	require.NoError(t, err, name)
	return got
}

func TestConversions(t *testing.T) {
	tests := []struct {
		name string
		fn   string
		arg  gml.Value
		want gml.Value
	}{
		{"real of real", "real", gml.Real(2.5), gml.Real(2.5)},
		{"real of numeric string", "real", gml.Str("12.5"), gml.Real(12.5)},
		{"real of leading number", "real", gml.Str("  -3px"), gml.Real(-3)},
		{"real of trailing dot", "real", gml.Str("7."), gml.Real(7)},
		{"real of text", "real", gml.Str("abc"), gml.Real(0)},
		{"real of empty", "real", gml.Str(""), gml.Real(0)},
		{"string of whole real", "string", gml.Real(42), gml.Str("42")},
		{"string of negative", "string", gml.Real(-7), gml.Str("-7")},
		{"string of fraction", "string", gml.Real(3.14159), gml.Str("3.14")},
		{"string of string", "string", gml.Str("hi"), gml.Str("hi")},
		{"is_real of real", "is_real", gml.Real(1), gml.FromBool(true)},
		{"is_real of string", "is_real", gml.Str("1"), gml.FromBool(false)},
		{"is_string of string", "is_string", gml.Str(""), gml.FromBool(true)},
		{"is_string of real", "is_string", gml.Real(0), gml.FromBool(false)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := call(t, tt.fn, tt.arg)
			assert.True(t, got.AlmostEquals(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestMath(t *testing.T) {
	tests := []struct {
		name string
		fn   string
		args []gml.Value
		want float64
	}{
		{"floor", "floor", []gml.Value{gml.Real(-2.5)}, -3},
		{"ceil", "ceil", []gml.Value{gml.Real(2.1)}, 3},
		{"round half up", "round", []gml.Value{gml.Real(2.5)}, 3},
		{"round half down", "round", []gml.Value{gml.Real(-2.5)}, -3},
		{"frac", "frac", []gml.Value{gml.Real(-3.25)}, -0.25},
		{"abs", "abs", []gml.Value{gml.Real(-4)}, 4},
		{"sign negative", "sign", []gml.Value{gml.Real(-0.1)}, -1},
		{"sign zero", "sign", []gml.Value{gml.Real(0)}, 0},
		{"sqrt", "sqrt", []gml.Value{gml.Real(16)}, 4},
		{"power", "power", []gml.Value{gml.Real(2), gml.Real(10)}, 1024},
		{"min", "min", []gml.Value{gml.Real(3), gml.Real(-1), gml.Real(2)}, -1},
		{"max", "max", []gml.Value{gml.Real(3), gml.Real(-1), gml.Real(7)}, 7},
		{"max single", "max", []gml.Value{gml.Real(5)}, 5},
		{"string reads as zero", "abs", []gml.Value{gml.Str("9")}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := call(t, tt.fn, tt.args...)
			f, ok := got.AsReal()
			require.True(t, ok)
			assert.InDelta(t, tt.want, f, gml.Epsilon)
		})
	}

	f, _ := call(t, "sqrt", gml.Real(-1)).AsReal()
	assert.True(t, math.IsNaN(f))
}

func TestText(t *testing.T) {
	tests := []struct {
		name string
		fn   string
		args []gml.Value
		want gml.Value
	}{
		{"length", "string_length", []gml.Value{gml.Str("héllo")}, gml.Real(5)},
		{"length of real", "string_length", []gml.Value{gml.Real(123)}, gml.Real(0)},
		{"repeat", "string_repeat", []gml.Value{gml.Str("ab"), gml.Real(3)}, gml.Str("ababab")},
		{"repeat rounds count", "string_repeat", []gml.Value{gml.Str("x"), gml.Real(1.5)}, gml.Str("xx")},
		{"repeat negative", "string_repeat", []gml.Value{gml.Str("x"), gml.Real(-2)}, gml.Str("")},
		{"upper", "string_upper", []gml.Value{gml.Str("Hello")}, gml.Str("HELLO")},
		{"lower", "string_lower", []gml.Value{gml.Str("Hello")}, gml.Str("hello")},
		{"copy", "string_copy", []gml.Value{gml.Str("abcdef"), gml.Real(2), gml.Real(3)}, gml.Str("bcd")},
		{"copy clipped", "string_copy", []gml.Value{gml.Str("abc"), gml.Real(2), gml.Real(10)}, gml.Str("bc")},
		{"copy before start", "string_copy", []gml.Value{gml.Str("abc"), gml.Real(0), gml.Real(2)}, gml.Str("ab")},
		{"copy past end", "string_copy", []gml.Value{gml.Str("abc"), gml.Real(9), gml.Real(2)}, gml.Str("")},
		{"chr", "chr", []gml.Value{gml.Real(65)}, gml.Str("A")},
		{"chr negative", "chr", []gml.Value{gml.Real(-1)}, gml.Str("")},
		{"ord", "ord", []gml.Value{gml.Str("A")}, gml.Real(65)},
		{"ord empty", "ord", []gml.Value{gml.Str("")}, gml.Real(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := call(t, tt.fn, tt.args...)
			assert.True(t, got.AlmostEquals(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestArgumentCount(t *testing.T) {
	r := NewRegistry()

	_, err := r.CallFunction("floor", nil)
	assert.EqualError(t, err, "floor expects 1 argument(s), got 0")

	_, err = r.CallFunction("max", nil)
	assert.EqualError(t, err, "max expects at least 1 argument(s), got 0")

	_, err = r.CallFunction("string_copy", []gml.Value{gml.Str("a")})
	assert.EqualError(t, err, "string_copy expects 3 argument(s), got 1")

	_, err = r.CallFunction("nope", nil)
	assert.EqualError(t, err, "unknown function 'nope'")
}

func TestRepeatLengthLimit(t *testing.T) {
	r := NewRegistry(WithMaxStringLength(6))

	got, err := r.CallFunction("string_repeat", []gml.Value{gml.Str("ab"), gml.Real(3)})
	require.NoError(t, err)
	assert.True(t, got.AlmostEquals(gml.Str("ababab")))

	_, err = r.CallFunction("string_repeat", []gml.Value{gml.Str("ab"), gml.Real(2147483647)})
	assert.ErrorIs(t, err, expr.ErrStringTooLong)

	got, err = r.CallFunction("string_repeat", []gml.Value{gml.Str("abcdefgh"), gml.Real(-3)})
	require.NoError(t, err)
	assert.True(t, got.AlmostEquals(gml.Str("")))
}

func TestNames(t *testing.T) {
	names := NewRegistry().Names()
	assert.Contains(t, names, "string_copy")
	assert.Contains(t, names, "power")
	assert.IsIncreasing(t, names)
}
