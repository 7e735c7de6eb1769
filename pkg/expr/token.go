// Package expr implements a parser and evaluator for GML expressions and
// assignment statements. Every operator is dispatched to the gml value
// engine.
package expr

import "github.com/lemonberrylabs/gm8-runtime/pkg/token"

// TokenType represents the type of a lexical token.
type TokenType int

const (
	TokenNumber    TokenType = iota // real literal, true, false
	TokenString                     // string literal
	TokenIdent                      // identifier
	TokenOperator                   // any operator, see Token.Op
	TokenLParen                     // (
	TokenRParen                     // )
	TokenComma                      // ,
	TokenSemicolon                  // ;
	TokenEOF                        // end of input
)

// Token represents a single lexical token.
type Token struct {
	Type     TokenType
	Value    string         // raw source text
	Op       token.Operator // for TokenOperator
	FloatVal float64        // for TokenNumber
	StrVal   string         // for TokenString, without quotes
	Pos      int            // byte offset in source
	Line     int            // 1-based line
}

// String returns a debug-friendly representation of the token type.
func (t TokenType) String() string {
	switch t {
	case TokenNumber:
		return "NUMBER"
	case TokenString:
		return "STRING"
	case TokenIdent:
		return "IDENT"
	case TokenOperator:
		return "OPERATOR"
	case TokenLParen:
		return "LPAREN"
	case TokenRParen:
		return "RPAREN"
	case TokenComma:
		return "COMMA"
	case TokenSemicolon:
		return "SEMICOLON"
	case TokenEOF:
		return "EOF"
	default:
		return "UNKNOWN"
	}
}

// is reports whether tok is the operator op.
func (tok Token) is(op token.Operator) bool {
	return tok.Type == TokenOperator && tok.Op == op
}
