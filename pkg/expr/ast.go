package expr

import "github.com/lemonberrylabs/gm8-runtime/pkg/token"

// Node is the interface for all expression AST nodes.
type Node interface {
	nodeType() string
}

// LiteralNode represents a real or string literal.
type LiteralNode struct {
	TokenType TokenType // TokenNumber or TokenString
	FloatVal  float64
	StrVal    string
}

func (n *LiteralNode) nodeType() string { return "Literal" }

// IdentNode represents a variable reference.
type IdentNode struct {
	Name string
}

func (n *IdentNode) nodeType() string { return "Ident" }

// BinaryNode represents a binary operation (e.g., a + b, x == y, a && b).
type BinaryNode struct {
	Op    token.Operator
	Left  Node
	Right Node
}

func (n *BinaryNode) nodeType() string { return "Binary" }

// UnaryNode represents a unary operation (-x, !x, ~x).
type UnaryNode struct {
	Op      token.Operator
	Operand Node
}

func (n *UnaryNode) nodeType() string { return "Unary" }

// CallNode represents a function call (e.g., string(x), floor(y)).
type CallNode struct {
	Name string
	Args []Node
}

func (n *CallNode) nodeType() string { return "Call" }

// Statement is either an assignment to a variable or a bare expression.
type Statement struct {
	Target string         // empty for a bare expression
	Op     token.Operator // Assign or a compound assignment operator
	Expr   Node
	Line   int
	Source string // statement text, without the separator
}

// IsAssignment reports whether s writes a variable.
func (s Statement) IsAssignment() bool {
	return s.Target != ""
}
