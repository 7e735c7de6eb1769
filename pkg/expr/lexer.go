package expr

import (
	"fmt"
	"strconv"
	"unicode"

	"github.com/lemonberrylabs/gm8-runtime/pkg/token"
)

// Lexer tokenizes GML source.
type Lexer struct {
	input  string
	pos    int
	line   int
	tokens []Token
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input, line: 1}
}

// Tokenize scans the entire input and returns all tokens.
func (l *Lexer) Tokenize() ([]Token, error) {
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		l.tokens = append(l.tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
	}
	return l.tokens, nil
}

// Operators by source spelling. Longer spellings are matched first.
var (
	threeCharOps = map[string]token.Operator{
		"<<=": token.AssignShiftLeft,
		">>=": token.AssignShiftRight,
	}
	twoCharOps = map[string]token.Operator{
		"&&": token.And,
		"||": token.Or,
		"^^": token.Xor,
		"<<": token.BinaryShiftLeft,
		">>": token.BinaryShiftRight,
		"==": token.Equal,
		"!=": token.NotEqual,
		"<>": token.NotEqual,
		"<=": token.LessThanOrEqual,
		">=": token.GreaterThanOrEqual,
		"+=": token.AssignAdd,
		"-=": token.AssignSubtract,
		"*=": token.AssignMultiply,
		"/=": token.AssignDivide,
		"&=": token.AssignBitwiseAnd,
		"|=": token.AssignBitwiseOr,
		"^=": token.AssignBitwiseXor,
		":=": token.Assign,
	}
	oneCharOps = map[byte]token.Operator{
		'+': token.Add,
		'-': token.Subtract,
		'*': token.Multiply,
		'/': token.Divide,
		'&': token.BitwiseAnd,
		'|': token.BitwiseOr,
		'^': token.BitwiseXor,
		'<': token.LessThan,
		'>': token.GreaterThan,
		'=': token.Assign,
		'!': token.Not,
		'~': token.Complement,
	}
	keywordOps = map[string]token.Operator{
		"div": token.IntDivide,
		"mod": token.Modulo,
		"and": token.And,
		"or":  token.Or,
		"xor": token.Xor,
		"not": token.Not,
	}
	// Keyword operators that take an "=" suffix as a compound assignment.
	keywordAssignOps = map[string]token.Operator{
		"div": token.AssignIntDivide,
		"mod": token.AssignModulo,
	}
)

// next returns the next token from the input.
func (l *Lexer) next() (Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return Token{}, err
	}

	if l.pos >= len(l.input) {
		return l.token(TokenEOF, l.pos), nil
	}

	ch := l.input[l.pos]

	// String literals
	if ch == '"' || ch == '\'' {
		return l.readString(ch)
	}

	// Number literals
	if isDigit(ch) || (ch == '.' && l.pos+1 < len(l.input) && isDigit(l.input[l.pos+1])) {
		return l.readNumber()
	}
	if ch == '$' {
		return l.readHex()
	}

	for _, n := range []int{3, 2} {
		if l.pos+n > len(l.input) {
			continue
		}
		src := l.input[l.pos : l.pos+n]
		ops := twoCharOps
		if n == 3 {
			ops = threeCharOps
		}
		if op, ok := ops[src]; ok {
			start := l.pos
			l.pos += n
			tok := l.token(TokenOperator, start)
			tok.Op = op
			return tok, nil
		}
	}

	if op, ok := oneCharOps[ch]; ok {
		start := l.pos
		l.pos++
		tok := l.token(TokenOperator, start)
		tok.Op = op
		return tok, nil
	}

	switch ch {
	case '(':
		l.pos++
		return l.token(TokenLParen, l.pos-1), nil
	case ')':
		l.pos++
		return l.token(TokenRParen, l.pos-1), nil
	case ',':
		l.pos++
		return l.token(TokenComma, l.pos-1), nil
	case ';':
		l.pos++
		return l.token(TokenSemicolon, l.pos-1), nil
	}

	// Identifiers and keywords
	if isIdentStart(ch) {
		return l.readIdentifier()
	}

	return Token{}, fmt.Errorf("unexpected character %q at line %d", string(ch), l.line)
}

func (l *Lexer) token(tt TokenType, start int) Token {
	return Token{Type: tt, Value: l.input[start:l.pos], Pos: start, Line: l.line}
}

// readString reads a quoted string literal. GML strings have no escapes and
// may span lines.
func (l *Lexer) readString(quote byte) (Token, error) {
	start := l.pos
	line := l.line
	l.pos++ // skip opening quote

	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == quote {
			l.pos++ // skip closing quote
			return Token{
				Type:   TokenString,
				Value:  l.input[start:l.pos],
				StrVal: l.input[start+1 : l.pos-1],
				Pos:    start,
				Line:   line,
			}, nil
		}
		if ch == '\n' {
			l.line++
		}
		l.pos++
	}

	return Token{}, fmt.Errorf("unterminated string starting at line %d", line)
}

// readNumber reads a decimal real literal.
func (l *Lexer) readNumber() (Token, error) {
	start := l.pos
	seenDot := false

	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if isDigit(ch) {
			l.pos++
		} else if ch == '.' && !seenDot {
			seenDot = true
			l.pos++
		} else {
			break
		}
	}

	raw := l.input[start:l.pos]
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Token{}, fmt.Errorf("invalid number %q at line %d", raw, l.line)
	}
	tok := l.token(TokenNumber, start)
	tok.FloatVal = f
	return tok, nil
}

// readHex reads a $-prefixed hexadecimal literal.
func (l *Lexer) readHex() (Token, error) {
	start := l.pos
	l.pos++ // skip $
	for l.pos < len(l.input) && isHexDigit(l.input[l.pos]) {
		l.pos++
	}
	raw := l.input[start+1 : l.pos]
	if raw == "" {
		return Token{}, fmt.Errorf("empty hexadecimal literal at line %d", l.line)
	}
	u, err := strconv.ParseUint(raw, 16, 64)
	if err != nil {
		return Token{}, fmt.Errorf("invalid hexadecimal literal %q at line %d", raw, l.line)
	}
	tok := l.token(TokenNumber, start)
	tok.FloatVal = float64(u)
	return tok, nil
}

// readIdentifier reads an identifier or keyword.
func (l *Lexer) readIdentifier() (Token, error) {
	start := l.pos
	for l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
		l.pos++
	}

	word := l.input[start:l.pos]
	switch word {
	case "true":
		tok := l.token(TokenNumber, start)
		tok.FloatVal = 1
		return tok, nil
	case "false":
		return l.token(TokenNumber, start), nil
	}
	if op, ok := keywordAssignOps[word]; ok && l.peekAssignSuffix() {
		l.pos++ // consume =
		tok := l.token(TokenOperator, start)
		tok.Op = op
		return tok, nil
	}
	if op, ok := keywordOps[word]; ok {
		tok := l.token(TokenOperator, start)
		tok.Op = op
		return tok, nil
	}
	return l.token(TokenIdent, start), nil
}

// peekAssignSuffix reports whether a lone "=" follows, as in "x div= 2".
// "x div == 2" and "x div = 2" keep div as the binary operator.
func (l *Lexer) peekAssignSuffix() bool {
	if l.pos >= len(l.input) || l.input[l.pos] != '=' {
		return false
	}
	return l.pos+1 >= len(l.input) || l.input[l.pos+1] != '='
}

func (l *Lexer) skipWhitespaceAndComments() error {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch {
		case ch == '\n':
			l.line++
			l.pos++
		case unicode.IsSpace(rune(ch)):
			l.pos++
		case ch == '/' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '/':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.pos++
			}
		case ch == '/' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '*':
			line := l.line
			l.pos += 2
			for {
				if l.pos+1 >= len(l.input) {
					return fmt.Errorf("unterminated comment starting at line %d", line)
				}
				if l.input[l.pos] == '*' && l.input[l.pos+1] == '/' {
					l.pos += 2
					break
				}
				if l.input[l.pos] == '\n' {
					l.line++
				}
				l.pos++
			}
		default:
			return nil
		}
	}
	return nil
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
