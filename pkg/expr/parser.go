package expr

import (
	"fmt"

	"github.com/lemonberrylabs/gm8-runtime/pkg/token"
)

// MaxExpressionLength is the maximum allowed length for a single expression.
const MaxExpressionLength = 4096

// MaxSourceSize is the maximum program size in bytes (128 KB).
const MaxSourceSize = 128 * 1024

// Parser is a recursive descent parser for GML expressions and statements.
type Parser struct {
	input  string
	tokens []Token
	pos    int
}

// ParseExpression parses a complete expression string.
func ParseExpression(input string) (Node, error) {
	if len(input) > MaxExpressionLength {
		return nil, fmt.Errorf("expression exceeds maximum length of %d characters", MaxExpressionLength)
	}

	p, err := newParser(input)
	if err != nil {
		return nil, err
	}

	node, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if p.current().Type != TokenEOF {
		return nil, unexpected(p.current())
	}

	return node, nil
}

// ParseProgram parses a sequence of statements, optionally separated by
// semicolons.
func ParseProgram(input string) ([]Statement, error) {
	if len(input) > MaxSourceSize {
		return nil, fmt.Errorf("source exceeds maximum size of %d bytes", MaxSourceSize)
	}

	p, err := newParser(input)
	if err != nil {
		return nil, err
	}

	var stmts []Statement
	for {
		for p.current().Type == TokenSemicolon {
			p.advance()
		}
		if p.current().Type == TokenEOF {
			return stmts, nil
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
}

func newParser(input string) (*Parser, error) {
	tokens, err := NewLexer(input).Tokenize()
	if err != nil {
		return nil, fmt.Errorf("lexer error: %w", err)
	}
	return &Parser{input: input, tokens: tokens}, nil
}

func unexpected(tok Token) error {
	if tok.Type == TokenEOF {
		return fmt.Errorf("unexpected end of input at line %d", tok.Line)
	}
	return fmt.Errorf("unexpected token %s (%q) at line %d", tok.Type, tok.Value, tok.Line)
}

// current returns the current token.
func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

// peek returns the next token without consuming it.
func (p *Parser) peek() Token {
	if p.pos+1 >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos+1]
}

// advance consumes the current token and returns it.
func (p *Parser) advance() Token {
	tok := p.current()
	p.pos++
	return tok
}

// expect consumes a token of the expected type or returns an error.
func (p *Parser) expect(tt TokenType) (Token, error) {
	tok := p.current()
	if tok.Type != tt {
		return tok, fmt.Errorf("expected %s, got %s at line %d", tt, tok.Type, tok.Line)
	}
	p.advance()
	return tok, nil
}

// atOperator reports whether the current token is one of ops.
func (p *Parser) atOperator(ops ...token.Operator) (token.Operator, bool) {
	tok := p.current()
	for _, op := range ops {
		if tok.is(op) {
			return op, true
		}
	}
	return 0, false
}

// parseStatement parses `ident <assign-op> expr` or a bare expression.
func (p *Parser) parseStatement() (Statement, error) {
	tok := p.current()
	next := p.peek()
	if tok.Type == TokenIdent && next.Type == TokenOperator && next.Op.IsAssign() {
		p.advance()
		p.advance()
		value, err := p.parseExpression()
		if err != nil {
			return Statement{}, err
		}
		return Statement{Target: tok.Value, Op: next.Op, Expr: value, Line: tok.Line, Source: p.sourceFrom(tok)}, nil
	}

	value, err := p.parseExpression()
	if err != nil {
		return Statement{}, err
	}
	return Statement{Expr: value, Line: tok.Line, Source: p.sourceFrom(tok)}, nil
}

// sourceFrom returns the input text from first through the last consumed token.
func (p *Parser) sourceFrom(first Token) string {
	if p.pos == 0 || p.input == "" {
		return ""
	}
	last := p.tokens[p.pos-1]
	return p.input[first.Pos : last.Pos+len(last.Value)]
}

// parseExpression is the entry point: handles the lowest precedence operators.
// Precedence (low to high):
//
//	&&, ||, ^^
//	==, =, !=, <, <=, >, >=
//	&, |, ^
//	<<, >>
//	+, -
//	*, /, div, mod
//	unary !, -, ~
//	function call
func (p *Parser) parseExpression() (Node, error) {
	return p.parseBinary(0)
}

// binaryLevels lists operators by precedence level, lowest first.
var binaryLevels = [][]token.Operator{
	{token.And, token.Or, token.Xor},
	{token.Equal, token.Assign, token.NotEqual, token.LessThan, token.LessThanOrEqual, token.GreaterThan, token.GreaterThanOrEqual},
	{token.BitwiseAnd, token.BitwiseOr, token.BitwiseXor},
	{token.BinaryShiftLeft, token.BinaryShiftRight},
	{token.Add, token.Subtract},
	{token.Multiply, token.Divide, token.IntDivide, token.Modulo},
}

func (p *Parser) parseBinary(level int) (Node, error) {
	if level == len(binaryLevels) {
		return p.parseUnary()
	}

	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}

	for {
		op, ok := p.atOperator(binaryLevels[level]...)
		if !ok {
			return left, nil
		}
		p.advance()
		// A lone = inside an expression compares.
		if op == token.Assign {
			op = token.Equal
		}
		right, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		left = &BinaryNode{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseUnary() (Node, error) {
	if op, ok := p.atOperator(token.Subtract, token.Not, token.Complement); ok {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryNode{Op: op, Operand: operand}, nil
	}
	if _, ok := p.atOperator(token.Add); ok {
		p.advance()
		return p.parseUnary()
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (Node, error) {
	tok := p.current()

	switch tok.Type {
	case TokenNumber:
		p.advance()
		return &LiteralNode{TokenType: TokenNumber, FloatVal: tok.FloatVal}, nil
	case TokenString:
		p.advance()
		return &LiteralNode{TokenType: TokenString, StrVal: tok.StrVal}, nil
	case TokenIdent:
		p.advance()
		if p.current().Type == TokenLParen {
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			return &CallNode{Name: tok.Value, Args: args}, nil
		}
		return &IdentNode{Name: tok.Value}, nil
	case TokenLParen:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		_, err = p.expect(TokenRParen)
		if err != nil {
			return nil, fmt.Errorf("expected ')': %w", err)
		}
		return expr, nil
	default:
		return nil, unexpected(tok)
	}
}

// parseArgList parses (expr, expr, ...).
func (p *Parser) parseArgList() ([]Node, error) {
	_, err := p.expect(TokenLParen)
	if err != nil {
		return nil, fmt.Errorf("expected '(': %w", err)
	}

	var args []Node
	for p.current().Type != TokenRParen {
		if len(args) > 0 {
			_, err := p.expect(TokenComma)
			if err != nil {
				return nil, fmt.Errorf("expected ',' in arguments: %w", err)
			}
		}
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	_, err = p.expect(TokenRParen)
	if err != nil {
		return nil, fmt.Errorf("expected ')': %w", err)
	}

	return args, nil
}
