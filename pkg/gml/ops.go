package gml

import (
	"math"
	"strings"

	"github.com/lemonberrylabs/gm8-runtime/pkg/token"
)

// binaryFunc computes a binary operator, reporting failures under op.
type binaryFunc func(op token.Operator, lhs, rhs Value) (Value, error)

func arith(f func(a, b float64) float64) binaryFunc {
	return func(op token.Operator, lhs, rhs Value) (Value, error) {
		if lhs.kind == KindReal && rhs.kind == KindReal {
			return Real(f(lhs.real, rhs.real)), nil
		}
		return Value{}, invalidBinary(op, lhs, rhs)
	}
}

// bitwise rounds both operands to int32 before applying f.
func bitwise(f func(a, b int32) int32) binaryFunc {
	return func(op token.Operator, lhs, rhs Value) (Value, error) {
		if lhs.kind == KindReal && rhs.kind == KindReal {
			return Real(float64(f(round(lhs.real), round(rhs.real)))), nil
		}
		return Value{}, invalidBinary(op, lhs, rhs)
	}
}

func add(op token.Operator, lhs, rhs Value) (Value, error) {
	switch {
	case lhs.kind == KindReal && rhs.kind == KindReal:
		return Real(lhs.real + rhs.real), nil
	case lhs.kind == KindStr && rhs.kind == KindStr:
		var sb strings.Builder
		sb.Grow(len(lhs.str) + len(rhs.str))
		sb.WriteString(lhs.str)
		sb.WriteString(rhs.str)
		return Str(sb.String()), nil
	default:
		return Value{}, invalidBinary(op, lhs, rhs)
	}
}

func mul(op token.Operator, lhs, rhs Value) (Value, error) {
	switch {
	case lhs.kind == KindReal && rhs.kind == KindReal:
		return Real(lhs.real * rhs.real), nil
	case lhs.kind == KindReal && rhs.kind == KindStr:
		if n := round(lhs.real); n > 0 {
			return Str(strings.Repeat(rhs.str, int(n))), nil
		}
		return Str(""), nil
	default:
		return Value{}, invalidBinary(op, lhs, rhs)
	}
}

var (
	sub    = arith(func(a, b float64) float64 { return a - b })
	div    = arith(func(a, b float64) float64 { return a / b })
	intDiv = arith(func(a, b float64) float64 { return math.Floor(a / b) })
	mod    = arith(math.Mod)

	bitAnd = bitwise(func(a, b int32) int32 { return a & b })
	bitOr  = bitwise(func(a, b int32) int32 { return a | b })
	bitXor = bitwise(func(a, b int32) int32 { return a ^ b })
	// Shift counts wrap to 0..31 like the x86 shift instructions.
	shl = bitwise(func(a, b int32) int32 { return a << (uint32(b) & 31) })
	shr = bitwise(func(a, b int32) int32 { return a >> (uint32(b) & 31) })
)

// Add is the GML + operator: real addition or string concatenation.
func (v Value) Add(rhs Value) (Value, error) { return add(token.Add, v, rhs) }

// Sub is the GML binary - operator.
func (v Value) Sub(rhs Value) (Value, error) { return sub(token.Subtract, v, rhs) }

// Mul is the GML * operator. A real times a string repeats the string
// Round(real) times; a string on the left is an error.
func (v Value) Mul(rhs Value) (Value, error) { return mul(token.Multiply, v, rhs) }

// Div is the GML / operator.
func (v Value) Div(rhs Value) (Value, error) { return div(token.Divide, v, rhs) }

// IntDiv is the GML div operator, floor(lhs / rhs).
func (v Value) IntDiv(rhs Value) (Value, error) { return intDiv(token.IntDivide, v, rhs) }

// Mod is the GML mod operator. The result takes the sign of the dividend.
func (v Value) Mod(rhs Value) (Value, error) { return mod(token.Modulo, v, rhs) }

// BitAnd is the GML & operator.
func (v Value) BitAnd(rhs Value) (Value, error) { return bitAnd(token.BitwiseAnd, v, rhs) }

// BitOr is the GML | operator.
func (v Value) BitOr(rhs Value) (Value, error) { return bitOr(token.BitwiseOr, v, rhs) }

// BitXor is the GML ^ operator.
func (v Value) BitXor(rhs Value) (Value, error) { return bitXor(token.BitwiseXor, v, rhs) }

// Shl is the GML << operator. The count wraps mod 32, so 1 << 33 is 2.
func (v Value) Shl(rhs Value) (Value, error) { return shl(token.BinaryShiftLeft, v, rhs) }

// Shr is the GML >> operator, an arithmetic shift. The count wraps mod 32.
func (v Value) Shr(rhs Value) (Value, error) { return shr(token.BinaryShiftRight, v, rhs) }

// BoolAnd is the GML && operator. Both operands are already evaluated.
func (v Value) BoolAnd(rhs Value) Value { return FromBool(v.IsTruthy() && rhs.IsTruthy()) }

// BoolOr is the GML || operator.
func (v Value) BoolOr(rhs Value) Value { return FromBool(v.IsTruthy() || rhs.IsTruthy()) }

// BoolXor is the GML ^^ operator.
func (v Value) BoolXor(rhs Value) Value { return FromBool(v.IsTruthy() != rhs.IsTruthy()) }

// Neg is unary minus.
func (v Value) Neg() (Value, error) {
	if v.kind != KindReal {
		return Value{}, invalidUnary(token.Subtract, v)
	}
	return Real(-v.real), nil
}

// Not is the GML ! operator.
func (v Value) Not() (Value, error) {
	if v.kind != KindReal {
		return Value{}, invalidUnary(token.Not, v)
	}
	return FromBool(!v.IsTruthy()), nil
}

// Complement is the GML ~ operator.
func (v Value) Complement() (Value, error) {
	if v.kind != KindReal {
		return Value{}, invalidUnary(token.Complement, v)
	}
	return Real(float64(^round(v.real))), nil
}

// assign stores f(*v, rhs) in v. On failure v is left untouched.
func (v *Value) assign(f binaryFunc, op token.Operator, rhs Value) error {
	res, err := f(op, *v, rhs)
	if err != nil {
		return err
	}
	*v = res
	return nil
}

// AddAssign is +=.
func (v *Value) AddAssign(rhs Value) error { return v.assign(add, token.AssignAdd, rhs) }

// SubAssign is -=.
func (v *Value) SubAssign(rhs Value) error { return v.assign(sub, token.AssignSubtract, rhs) }

// MulAssign is *=. Like Mul it accepts a real slot times a string.
func (v *Value) MulAssign(rhs Value) error { return v.assign(mul, token.AssignMultiply, rhs) }

// DivAssign is /=.
func (v *Value) DivAssign(rhs Value) error { return v.assign(div, token.AssignDivide, rhs) }

// IntDivAssign stores v div rhs in v.
func (v *Value) IntDivAssign(rhs Value) error { return v.assign(intDiv, token.AssignIntDivide, rhs) }

// ModAssign stores v mod rhs in v.
func (v *Value) ModAssign(rhs Value) error { return v.assign(mod, token.AssignModulo, rhs) }

// BitAndAssign is &=.
func (v *Value) BitAndAssign(rhs Value) error { return v.assign(bitAnd, token.AssignBitwiseAnd, rhs) }

// BitOrAssign is |=.
func (v *Value) BitOrAssign(rhs Value) error { return v.assign(bitOr, token.AssignBitwiseOr, rhs) }

// BitXorAssign is ^=.
func (v *Value) BitXorAssign(rhs Value) error { return v.assign(bitXor, token.AssignBitwiseXor, rhs) }

// ShlAssign stores v << rhs in v.
func (v *Value) ShlAssign(rhs Value) error { return v.assign(shl, token.AssignShiftLeft, rhs) }

// ShrAssign stores v >> rhs in v.
func (v *Value) ShrAssign(rhs Value) error { return v.assign(shr, token.AssignShiftRight, rhs) }
