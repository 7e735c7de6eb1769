package expr

import (
	"errors"
	"fmt"

	"github.com/lemonberrylabs/gm8-runtime/pkg/gml"
	"github.com/lemonberrylabs/gm8-runtime/pkg/token"
)

// ErrStringTooLong is returned when an operation would build a string longer
// than the configured limit.
var ErrStringTooLong = errors.New("string length limit exceeded")

// Limits bounds the resources an evaluation may use. The zero value imposes
// no limits.
type Limits struct {
	// MaxStringLength caps the byte length of any string built by + or *.
	// Zero means unlimited.
	MaxStringLength int
}

// Limited is implemented by scopes that carry evaluation limits.
type Limited interface {
	Limits() Limits
}

func limitsOf(scope Scope) Limits {
	if l, ok := scope.(Limited); ok {
		return l.Limits()
	}
	return Limits{}
}

// CheckLength reports ErrStringTooLong if a result of n bytes exceeds the
// limit. what names the operation in the message.
func (l Limits) CheckLength(what string, n int64) error {
	if l.MaxStringLength > 0 && n > int64(l.MaxStringLength) {
		return fmt.Errorf("%w: %s would build %d bytes, limit is %d", ErrStringTooLong, what, n, l.MaxStringLength)
	}
	return nil
}

// Binary is Binary with the projected result length checked first.
func (l Limits) Binary(op token.Operator, lhs, rhs gml.Value) (gml.Value, error) {
	if err := l.check(op, lhs, rhs); err != nil {
		return gml.Value{}, err
	}
	return Binary(op, lhs, rhs)
}

// Assign is Assign with the projected result length checked first. The slot
// is untouched when the check fails.
func (l Limits) Assign(op token.Operator, slot *gml.Value, rhs gml.Value) error {
	if err := l.check(op, *slot, rhs); err != nil {
		return err
	}
	return Assign(op, slot, rhs)
}

func (l Limits) check(op token.Operator, lhs, rhs gml.Value) error {
	if l.MaxStringLength <= 0 {
		return nil
	}
	if n, ok := ProjectedLength(op, lhs, rhs); ok {
		return l.CheckLength(fmt.Sprintf("operator %s", op), n)
	}
	return nil
}

// ProjectedLength returns the byte length of the string op would produce
// from lhs and rhs without building it. ok is false when op does not build a
// string from these operands.
func ProjectedLength(op token.Operator, lhs, rhs gml.Value) (n int64, ok bool) {
	switch op.Base() {
	case token.Add:
		ls, lok := lhs.AsStr()
		rs, rok := rhs.AsStr()
		if lok && rok {
			return int64(len(ls)) + int64(len(rs)), true
		}
	case token.Multiply:
		rs, rok := rhs.AsStr()
		if lhs.IsReal() && rok {
			return RepeatLength(lhs.Round(), len(rs)), true
		}
	}
	return 0, false
}

// RepeatLength is the byte length of a string of size bytes repeated count
// times, where counts below 1 give the empty string.
func RepeatLength(count int32, size int) int64 {
	if count <= 0 {
		return 0
	}
	return int64(count) * int64(size)
}
