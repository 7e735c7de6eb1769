// Package gml implements the GML runtime value: a scalar that is either a
// real number or an immutable string, together with every operator the
// interpreter applies to it.
package gml

import (
	"math"
	"strconv"
)

// Boolean encoding shared by comparisons, logic operators and conversions.
const (
	True  = 1.0
	False = 0.0
)

// Epsilon is the absolute tolerance used when comparing two reals.
const Epsilon = 1e-14

// Kind tells which variant a Value holds.
type Kind uint8

const (
	KindReal Kind = iota // float64
	KindStr              // string
)

// String returns the GML type name.
func (k Kind) String() string {
	switch k {
	case KindReal:
		return "real"
	case KindStr:
		return "string"
	default:
		return "unknown"
	}
}

// Value is a GML scalar. The zero Value is Real(0).
//
// Strings are immutable and shared between copies, so a Value is cheap to
// copy and safe to hand to another goroutine.
type Value struct {
	kind Kind
	real float64
	str  string
}

// Real creates a real value.
func Real(f float64) Value {
	return Value{kind: KindReal, real: f}
}

// Str creates a string value.
func Str(s string) Value {
	return Value{kind: KindStr, str: s}
}

// FromInt32 creates a real value from a 32-bit signed integer.
func FromInt32(i int32) Value {
	return Real(float64(i))
}

// FromUint32 creates a real value from a 32-bit unsigned integer.
func FromUint32(u uint32) Value {
	return Real(float64(u))
}

// FromInt creates a real value from a platform-sized integer.
func FromInt(i int) Value {
	return Real(float64(i))
}

// FromBool creates True or False.
func FromBool(b bool) Value {
	if b {
		return Real(True)
	}
	return Real(False)
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsReal reports whether v holds a real.
func (v Value) IsReal() bool {
	return v.kind == KindReal
}

// IsStr reports whether v holds a string.
func (v Value) IsStr() bool {
	return v.kind == KindStr
}

// TypeName returns "real" or "string".
func (v Value) TypeName() string {
	return v.kind.String()
}

// AsReal returns the real held by v and whether v is a real.
func (v Value) AsReal() (float64, bool) {
	return v.real, v.kind == KindReal
}

// AsStr returns the string held by v and whether v is a string.
func (v Value) AsStr() (string, bool) {
	return v.str, v.kind == KindStr
}

// ToFloat64 converts v to a float64, yielding 0 for strings.
func (v Value) ToFloat64() float64 {
	if v.kind == KindStr {
		return 0
	}
	return v.real
}

// ToInt32 converts v to a rounded int32, yielding 0 for strings.
func (v Value) ToInt32() int32 {
	return v.Round()
}

// ToUint32 converts v to a uint32 by rounding and reinterpreting the bits,
// yielding 0 for strings.
func (v Value) ToUint32() uint32 {
	return uint32(v.Round())
}

// ToString converts v to a string, yielding "" for reals.
func (v Value) ToString() string {
	if v.kind == KindReal {
		return ""
	}
	return v.str
}

// Round rounds a real to the nearest int32, halves away from zero. Strings
// round to 0. This is the only real to integer conversion used by the engine.
func (v Value) Round() int32 {
	if v.kind == KindStr {
		return 0
	}
	return round(v.real)
}

// IsTruthy reports whether v counts as true: reals from 0.5 upwards do,
// strings never do.
func (v Value) IsTruthy() bool {
	return v.kind == KindReal && v.real >= 0.5
}

// AlmostEquals compares two values of the same kind, reals within Epsilon.
// Values of different kinds are never equal.
func (v Value) AlmostEquals(other Value) bool {
	switch {
	case v.kind == KindReal && other.kind == KindReal:
		return math.Abs(v.real-other.real) <= Epsilon
	case v.kind == KindStr && other.kind == KindStr:
		return v.str == other.str
	default:
		return false
	}
}

// String renders v for logs and error messages: reals as decimal text,
// strings in double quotes.
func (v Value) String() string {
	if v.kind == KindStr {
		return `"` + v.str + `"`
	}
	return formatReal(v.real)
}

func formatReal(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func round(f float64) int32 {
	if math.IsNaN(f) {
		return 0
	}
	r := math.Round(f)
	if r >= math.MaxInt32 {
		return math.MaxInt32
	}
	if r <= math.MinInt32 {
		return math.MinInt32
	}
	return int32(r)
}
