package gml

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZeroValueIsRealZero(t *testing.T) {
	var v Value
	assert.True(t, v.IsReal())
	assert.True(t, v.AlmostEquals(Real(0)))
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		got  Value
		want float64
	}{
		{"float", Real(2.5), 2.5},
		{"int32", FromInt32(-7), -7},
		{"uint32", FromUint32(math.MaxUint32), 4294967295},
		{"int", FromInt(1 << 40), 1 << 40},
		{"true", FromBool(true), True},
		{"false", FromBool(false), False},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := tt.got.AsReal()
			assert.True(t, ok)
			assert.Equal(t, tt.want, f)
		})
	}

	s, ok := Str("abc").AsStr()
	assert.True(t, ok)
	assert.Equal(t, "abc", s)
}

func TestRound(t *testing.T) {
	tests := []struct {
		in   float64
		want int32
	}{
		{0.5, 1},
		{-0.5, -1},
		{2.5, 3},
		{-2.5, -3},
		{1.4999, 1},
		{-1.6, -2},
		{0, 0},
		{math.NaN(), 0},
		{1e20, math.MaxInt32},
		{-1e20, math.MinInt32},
		{math.Inf(1), math.MaxInt32},
	}

	for _, tt := range tests {
		t.Run(Real(tt.in).String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Real(tt.in).Round())
		})
	}

	assert.Equal(t, int32(0), Str("12").Round())
}

func TestIsTruthy(t *testing.T) {
	assert.True(t, Real(0.5).IsTruthy())
	assert.True(t, Real(1).IsTruthy())
	assert.False(t, Real(0.4999999).IsTruthy())
	assert.False(t, Real(-1).IsTruthy())
	assert.False(t, Str("").IsTruthy())
	assert.False(t, Str("1").IsTruthy())
	assert.False(t, Str("true").IsTruthy())
}

func TestLossyConversions(t *testing.T) {
	assert.Equal(t, 3.75, Real(3.75).ToFloat64())
	assert.Equal(t, 0.0, Str("3.75").ToFloat64())

	assert.Equal(t, int32(4), Real(3.75).ToInt32())
	assert.Equal(t, int32(0), Str("9").ToInt32())

	assert.Equal(t, uint32(4294967295), Real(-1).ToUint32())
	assert.Equal(t, uint32(0), Str("9").ToUint32())

	assert.Equal(t, "", Real(1).ToString())
	assert.Equal(t, "hi", Str("hi").ToString())
}

func TestString(t *testing.T) {
	tests := []struct {
		in   Value
		want string
	}{
		{Real(1), "1"},
		{Real(0.1), "0.1"},
		{Real(-2.5), "-2.5"},
		{Real(1e21), "1000000000000000000000"},
		{Real(math.Inf(1)), "inf"},
		{Real(math.Inf(-1)), "-inf"},
		{Real(math.NaN()), "NaN"},
		{Str("hello"), `"hello"`},
		{Str(""), `""`},
		{Str(`a"b`), `"a"b"`},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.String())
		})
	}
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "real", Real(1).TypeName())
	assert.Equal(t, "string", Str("x").TypeName())
}

func TestAlmostEquals(t *testing.T) {
	assert.True(t, Real(1).AlmostEquals(Real(1+1e-15)))
	assert.False(t, Real(1).AlmostEquals(Real(1+1e-13)))
	assert.True(t, Str("a").AlmostEquals(Str("a")))
	assert.False(t, Str("a").AlmostEquals(Str("b")))
	assert.False(t, Real(0).AlmostEquals(Str("")))
	assert.False(t, Str("0").AlmostEquals(Real(0)))
}

func TestCloneAlmostEqualsOriginal(t *testing.T) {
	values := []Value{Real(0), Real(-3.25), Real(1e300), Str(""), Str("shared text")}
	for _, v := range values {
		clone := v
		assert.True(t, clone.AlmostEquals(v), "clone of %s", v)
	}
}
