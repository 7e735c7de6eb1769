package expr

import (
	"fmt"

	"github.com/lemonberrylabs/gm8-runtime/pkg/gml"
	"github.com/lemonberrylabs/gm8-runtime/pkg/token"
)

// Scope provides variable lookup and function resolution for expression
// evaluation. A Scope may also implement Limited.
type Scope interface {
	// GetVariable returns the value of a variable by name.
	GetVariable(name string) (gml.Value, error)

	// CallFunction calls a named function with the given arguments.
	CallFunction(name string, args []gml.Value) (gml.Value, error)
}

// Evaluate evaluates an expression node within the given scope.
func Evaluate(node Node, scope Scope) (gml.Value, error) {
	switch n := node.(type) {
	case *LiteralNode:
		return evalLiteral(n)
	case *IdentNode:
		return scope.GetVariable(n.Name)
	case *BinaryNode:
		return evalBinary(n, scope)
	case *UnaryNode:
		return evalUnary(n, scope)
	case *CallNode:
		return evalCall(n, scope)
	default:
		return gml.Value{}, fmt.Errorf("unsupported expression node type: %T", node)
	}
}

func evalLiteral(n *LiteralNode) (gml.Value, error) {
	switch n.TokenType {
	case TokenNumber:
		return gml.Real(n.FloatVal), nil
	case TokenString:
		return gml.Str(n.StrVal), nil
	default:
		return gml.Value{}, fmt.Errorf("unknown literal type: %s", n.TokenType)
	}
}

// evalBinary evaluates both operands, even for && and ||, as GML does.
// Scopes implementing Limited bound the strings it may build.
func evalBinary(n *BinaryNode, scope Scope) (gml.Value, error) {
	left, err := Evaluate(n.Left, scope)
	if err != nil {
		return gml.Value{}, err
	}
	right, err := Evaluate(n.Right, scope)
	if err != nil {
		return gml.Value{}, err
	}
	return limitsOf(scope).Binary(n.Op, left, right)
}

func evalUnary(n *UnaryNode, scope Scope) (gml.Value, error) {
	operand, err := Evaluate(n.Operand, scope)
	if err != nil {
		return gml.Value{}, err
	}
	return Unary(n.Op, operand)
}

func evalCall(n *CallNode, scope Scope) (gml.Value, error) {
	args := make([]gml.Value, len(n.Args))
	for i, arg := range n.Args {
		val, err := Evaluate(arg, scope)
		if err != nil {
			return gml.Value{}, err
		}
		args[i] = val
	}

	return scope.CallFunction(n.Name, args)
}

var binaryOps = map[token.Operator]func(gml.Value, gml.Value) (gml.Value, error){
	token.Add:                gml.Value.Add,
	token.Subtract:           gml.Value.Sub,
	token.Multiply:           gml.Value.Mul,
	token.Divide:             gml.Value.Div,
	token.IntDivide:          gml.Value.IntDiv,
	token.Modulo:             gml.Value.Mod,
	token.BitwiseAnd:         gml.Value.BitAnd,
	token.BitwiseOr:          gml.Value.BitOr,
	token.BitwiseXor:         gml.Value.BitXor,
	token.BinaryShiftLeft:    gml.Value.Shl,
	token.BinaryShiftRight:   gml.Value.Shr,
	token.Equal:              gml.Value.Eq,
	token.NotEqual:           gml.Value.Ne,
	token.LessThan:           gml.Value.Lt,
	token.LessThanOrEqual:    gml.Value.Lte,
	token.GreaterThan:        gml.Value.Gt,
	token.GreaterThanOrEqual: gml.Value.Gte,
}

var boolOps = map[token.Operator]func(gml.Value, gml.Value) gml.Value{
	token.And: gml.Value.BoolAnd,
	token.Or:  gml.Value.BoolOr,
	token.Xor: gml.Value.BoolXor,
}

var assignOps = map[token.Operator]func(*gml.Value, gml.Value) error{
	token.AssignAdd:        (*gml.Value).AddAssign,
	token.AssignSubtract:   (*gml.Value).SubAssign,
	token.AssignMultiply:   (*gml.Value).MulAssign,
	token.AssignDivide:     (*gml.Value).DivAssign,
	token.AssignIntDivide:  (*gml.Value).IntDivAssign,
	token.AssignModulo:     (*gml.Value).ModAssign,
	token.AssignBitwiseAnd: (*gml.Value).BitAndAssign,
	token.AssignBitwiseOr:  (*gml.Value).BitOrAssign,
	token.AssignBitwiseXor: (*gml.Value).BitXorAssign,
	token.AssignShiftLeft:  (*gml.Value).ShlAssign,
	token.AssignShiftRight: (*gml.Value).ShrAssign,
}

// Binary applies a binary operator to two evaluated operands.
func Binary(op token.Operator, lhs, rhs gml.Value) (gml.Value, error) {
	if f, ok := binaryOps[op]; ok {
		return f(lhs, rhs)
	}
	if f, ok := boolOps[op]; ok {
		return f(lhs, rhs), nil
	}
	return gml.Value{}, fmt.Errorf("unsupported binary operator: %s", op)
}

// Unary applies a unary operator. Subtract means negation.
func Unary(op token.Operator, v gml.Value) (gml.Value, error) {
	switch op {
	case token.Subtract:
		return v.Neg()
	case token.Not:
		return v.Not()
	case token.Complement:
		return v.Complement()
	default:
		return gml.Value{}, fmt.Errorf("unsupported unary operator: %s", op)
	}
}

// Assign applies a compound assignment operator to slot in place. Plain
// Assign overwrites the slot.
func Assign(op token.Operator, slot *gml.Value, rhs gml.Value) error {
	if op == token.Assign {
		*slot = rhs
		return nil
	}
	f, ok := assignOps[op]
	if !ok {
		return fmt.Errorf("unsupported assignment operator: %s", op)
	}
	return f(slot, rhs)
}
