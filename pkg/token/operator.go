// Package token defines the GML operator vocabulary shared by the lexer,
// the evaluator and the value engine's error values.
package token

// Operator identifies a GML operator. The value engine embeds it in errors
// without interpreting it.
type Operator int

const (
	// Arithmetic
	Add       Operator = iota // +
	Subtract                  // -
	Multiply                  // *
	Divide                    // /
	IntDivide                 // div
	Modulo                    // mod

	// Bitwise
	BitwiseAnd       // &
	BitwiseOr        // |
	BitwiseXor       // ^
	BinaryShiftLeft  // <<
	BinaryShiftRight // >>

	// Boolean
	And // &&
	Or  // ||
	Xor // ^^

	// Unary
	Not        // !
	Complement // ~

	// Comparison
	Equal              // ==
	NotEqual           // !=
	LessThan           // <
	LessThanOrEqual    // <=
	GreaterThan        // >
	GreaterThanOrEqual // >=

	// Assignment
	Assign           // =
	AssignAdd        // +=
	AssignSubtract   // -=
	AssignMultiply   // *=
	AssignDivide     // /=
	AssignIntDivide  // div=
	AssignModulo     // mod=
	AssignBitwiseAnd // &=
	AssignBitwiseOr  // |=
	AssignBitwiseXor // ^=
	AssignShiftLeft  // <<=
	AssignShiftRight // >>=
)

var symbols = [...]string{
	Add:                "+",
	Subtract:           "-",
	Multiply:           "*",
	Divide:             "/",
	IntDivide:          "div",
	Modulo:             "mod",
	BitwiseAnd:         "&",
	BitwiseOr:          "|",
	BitwiseXor:         "^",
	BinaryShiftLeft:    "<<",
	BinaryShiftRight:   ">>",
	And:                "&&",
	Or:                 "||",
	Xor:                "^^",
	Not:                "!",
	Complement:         "~",
	Equal:              "==",
	NotEqual:           "!=",
	LessThan:           "<",
	LessThanOrEqual:    "<=",
	GreaterThan:        ">",
	GreaterThanOrEqual: ">=",
	Assign:             "=",
	AssignAdd:          "+=",
	AssignSubtract:     "-=",
	AssignMultiply:     "*=",
	AssignDivide:       "/=",
	AssignIntDivide:    "div=",
	AssignModulo:       "mod=",
	AssignBitwiseAnd:   "&=",
	AssignBitwiseOr:    "|=",
	AssignBitwiseXor:   "^=",
	AssignShiftLeft:    "<<=",
	AssignShiftRight:   ">>=",
}

// String returns the operator as it is written in GML source.
func (o Operator) String() string {
	if o < 0 || int(o) >= len(symbols) {
		return "UNKNOWN"
	}
	return symbols[o]
}

// IsAssign reports whether o is an assignment operator, plain or compound.
func (o Operator) IsAssign() bool {
	return o >= Assign && o <= AssignShiftRight
}

// Base maps a compound assignment operator to the binary operator it applies.
// It returns o itself for every other operator, including plain Assign.
func (o Operator) Base() Operator {
	switch o {
	case AssignAdd:
		return Add
	case AssignSubtract:
		return Subtract
	case AssignMultiply:
		return Multiply
	case AssignDivide:
		return Divide
	case AssignIntDivide:
		return IntDivide
	case AssignModulo:
		return Modulo
	case AssignBitwiseAnd:
		return BitwiseAnd
	case AssignBitwiseOr:
		return BitwiseOr
	case AssignBitwiseXor:
		return BitwiseXor
	case AssignShiftLeft:
		return BinaryShiftLeft
	case AssignShiftRight:
		return BinaryShiftRight
	default:
		return o
	}
}

// Lookup returns the operator written as sym.
func Lookup(sym string) (Operator, bool) {
	for i, s := range symbols {
		if s == sym {
			return Operator(i), true
		}
	}
	return 0, false
}
