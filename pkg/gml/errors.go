package gml

import (
	"errors"
	"fmt"

	"github.com/lemonberrylabs/gm8-runtime/pkg/token"
)

// ErrorKind classifies a value engine failure.
type ErrorKind int

const (
	// InvalidOperandsUnary means a unary operator got an operand kind it
	// does not accept.
	InvalidOperandsUnary ErrorKind = iota
	// InvalidOperandsBinary means a binary operator got an operand kind
	// combination it does not accept.
	InvalidOperandsBinary
)

// String returns a short name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case InvalidOperandsUnary:
		return "InvalidOperandsUnary"
	case InvalidOperandsBinary:
		return "InvalidOperandsBinary"
	default:
		return "Unknown"
	}
}

// Error is returned by every operator that rejects its operands. Operands
// holds one value for unary operators and left, right for binary ones.
type Error struct {
	Kind     ErrorKind
	Op       token.Operator
	Operands []Value
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case InvalidOperandsUnary:
		return fmt.Sprintf("invalid operand %s for unary operator %s", e.Operands[0], e.Op)
	default:
		return fmt.Sprintf("invalid operands %s and %s for operator %s", e.Operands[0], e.Operands[1], e.Op)
	}
}

// IsInvalidOperands reports whether err is, or wraps, a value engine
// operand error.
func IsInvalidOperands(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

func invalidUnary(op token.Operator, v Value) error {
	return &Error{Kind: InvalidOperandsUnary, Op: op, Operands: []Value{v}}
}

func invalidBinary(op token.Operator, lhs, rhs Value) error {
	return &Error{Kind: InvalidOperandsBinary, Op: op, Operands: []Value{lhs, rhs}}
}
