package gml

import (
	"math"

	"github.com/lemonberrylabs/gm8-runtime/pkg/token"
)

// comparator pairs the real and string predicates of one relational operator.
type comparator struct {
	op   token.Operator
	real func(a, b float64) bool
	str  func(a, b string) bool
}

var (
	cmpEqual = comparator{
		op:   token.Equal,
		real: func(a, b float64) bool { return math.Abs(a-b) <= Epsilon },
		str:  func(a, b string) bool { return a == b },
	}
	cmpNotEqual = comparator{
		op:   token.NotEqual,
		real: func(a, b float64) bool { return math.Abs(a-b) > Epsilon },
		str:  func(a, b string) bool { return a != b },
	}
	cmpLessThan = comparator{
		op:   token.LessThan,
		real: func(a, b float64) bool { return a < b },
		str:  func(a, b string) bool { return a < b },
	}
	cmpLessThanOrEqual = comparator{
		op:   token.LessThanOrEqual,
		real: func(a, b float64) bool { return a < b || math.Abs(a-b) <= Epsilon },
		str:  func(a, b string) bool { return a <= b },
	}
	cmpGreaterThan = comparator{
		op:   token.GreaterThan,
		real: func(a, b float64) bool { return a > b },
		str:  func(a, b string) bool { return a > b },
	}
	cmpGreaterThanOrEqual = comparator{
		op:   token.GreaterThanOrEqual,
		real: func(a, b float64) bool { return a > b || math.Abs(a-b) <= Epsilon },
		str:  func(a, b string) bool { return a >= b },
	}
)

func (c comparator) apply(lhs, rhs Value) (Value, error) {
	var ok bool
	switch {
	case lhs.kind == KindReal && rhs.kind == KindReal:
		ok = c.real(lhs.real, rhs.real)
	case lhs.kind == KindStr && rhs.kind == KindStr:
		ok = c.str(lhs.str, rhs.str)
	default:
		return Value{}, invalidBinary(c.op, lhs, rhs)
	}
	return FromBool(ok), nil
}

// Eq is the GML == operator.
func (v Value) Eq(rhs Value) (Value, error) { return cmpEqual.apply(v, rhs) }

// Ne is the GML != operator.
func (v Value) Ne(rhs Value) (Value, error) { return cmpNotEqual.apply(v, rhs) }

// Lt is the GML < operator.
func (v Value) Lt(rhs Value) (Value, error) { return cmpLessThan.apply(v, rhs) }

// Lte is the GML <= operator.
func (v Value) Lte(rhs Value) (Value, error) { return cmpLessThanOrEqual.apply(v, rhs) }

// Gt is the GML > operator.
func (v Value) Gt(rhs Value) (Value, error) { return cmpGreaterThan.apply(v, rhs) }

// Gte is the GML >= operator.
func (v Value) Gte(rhs Value) (Value, error) { return cmpGreaterThanOrEqual.apply(v, rhs) }
