package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperatorString(t *testing.T) {
	tests := []struct {
		op   Operator
		want string
	}{
		{Add, "+"},
		{IntDivide, "div"},
		{Modulo, "mod"},
		{BinaryShiftLeft, "<<"},
		{Xor, "^^"},
		{Complement, "~"},
		{GreaterThanOrEqual, ">="},
		{AssignMultiply, "*="},
		{AssignShiftRight, ">>="},
		{Operator(-1), "UNKNOWN"},
		{Operator(999), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.op.String())
		})
	}
}

func TestOperatorBase(t *testing.T) {
	assert.Equal(t, Add, AssignAdd.Base())
	assert.Equal(t, IntDivide, AssignIntDivide.Base())
	assert.Equal(t, BinaryShiftRight, AssignShiftRight.Base())
	assert.Equal(t, Assign, Assign.Base())
	assert.Equal(t, Multiply, Multiply.Base())
}

func TestOperatorIsAssign(t *testing.T) {
	assert.True(t, Assign.IsAssign())
	assert.True(t, AssignBitwiseXor.IsAssign())
	assert.False(t, Equal.IsAssign())
	assert.False(t, Add.IsAssign())
}

func TestLookup(t *testing.T) {
	op, ok := Lookup("div")
	assert.True(t, ok)
	assert.Equal(t, IntDivide, op)

	op, ok = Lookup("<<=")
	assert.True(t, ok)
	assert.Equal(t, AssignShiftLeft, op)

	_, ok = Lookup("**")
	assert.False(t, ok)
}
