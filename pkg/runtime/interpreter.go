package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/lemonberrylabs/gm8-runtime/pkg/expr"
	"github.com/lemonberrylabs/gm8-runtime/pkg/gml"
	"github.com/lemonberrylabs/gm8-runtime/pkg/stdlib"
)

// ErrStepLimit is returned when a run executes more statements than its
// step limit allows.
var ErrStepLimit = errors.New("step limit exceeded")

// ScriptError reports a statement that failed while running. Statement holds
// the text of that statement only, not the whole source line.
type ScriptError struct {
	Line      int
	Statement string
	Err       error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("line %d (%s): %v", e.Line, e.Statement, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithStepLimit caps the number of statements a single Exec may run.
// Zero means no limit.
func WithStepLimit(n int) Option {
	return func(in *Interpreter) {
		in.stepLimit = n
	}
}

// DefaultMaxStringLength is the string length limit of a new interpreter.
const DefaultMaxStringLength = 16 << 20

// WithMaxStringLength caps the byte length of strings built by + and * and
// by the built-in string_repeat. Zero means no limit.
func WithMaxStringLength(n int) Option {
	return func(in *Interpreter) {
		in.limits.MaxStringLength = n
	}
}

// WithFunctions replaces the built-in function registry. The string length
// limit is then up to funcs.
func WithFunctions(funcs FunctionRegistry) Option {
	return func(in *Interpreter) {
		in.funcs = funcs
	}
}

// WithScope runs statements against an existing scope.
func WithScope(scope *VariableScope) Option {
	return func(in *Interpreter) {
		in.scope = scope
	}
}

// Interpreter runs GML statements against a persistent variable scope.
// Exec calls are serialized.
type Interpreter struct {
	scope     *VariableScope
	funcs     FunctionRegistry
	stepLimit int
	limits    expr.Limits

	mu        sync.Mutex
	stepCount int
}

// NewInterpreter creates an interpreter with an empty scope and the
// built-in functions.
func NewInterpreter(opts ...Option) *Interpreter {
	in := &Interpreter{limits: expr.Limits{MaxStringLength: DefaultMaxStringLength}}
	for _, opt := range opts {
		opt(in)
	}
	if in.scope == nil {
		in.scope = NewScope()
	}
	if in.funcs == nil {
		in.funcs = stdlib.NewRegistry(stdlib.WithMaxStringLength(in.limits.MaxStringLength))
	}
	return in
}

// Scope returns the interpreter's variable scope.
func (in *Interpreter) Scope() *VariableScope {
	return in.scope
}

// Exec parses and runs source, one statement after another. It returns the
// value of the last statement: the expression result, or the new value of
// the assigned variable. Running stops at the first failing statement;
// earlier statements keep their effects.
func (in *Interpreter) Exec(ctx context.Context, source string) (gml.Value, error) {
	stmts, err := expr.ParseProgram(source)
	if err != nil {
		return gml.Value{}, fmt.Errorf("parse error: %w", err)
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	in.stepCount = 0

	var last gml.Value
	for _, stmt := range stmts {
		select {
		case <-ctx.Done():
			return gml.Value{}, ctx.Err()
		default:
		}

		in.stepCount++
		if in.stepLimit > 0 && in.stepCount > in.stepLimit {
			return gml.Value{}, &ScriptError{
				Line:      stmt.Line,
				Statement: stmt.Source,
				Err:       fmt.Errorf("%w: %d statements", ErrStepLimit, in.stepLimit),
			}
		}

		last, err = in.execStatement(stmt)
		if err != nil {
			return gml.Value{}, &ScriptError{
				Line:      stmt.Line,
				Statement: stmt.Source,
				Err:       err,
			}
		}
	}
	return last, nil
}

// Eval evaluates a single expression without side effects on the scope.
func (in *Interpreter) Eval(source string) (gml.Value, error) {
	node, err := expr.ParseExpression(source)
	if err != nil {
		return gml.Value{}, err
	}
	return expr.Evaluate(node, in.adapter())
}

func (in *Interpreter) adapter() *ScopeAdapter {
	return NewScopeAdapter(in.scope, in.funcs).WithLimits(in.limits)
}

func (in *Interpreter) execStatement(stmt expr.Statement) (gml.Value, error) {
	val, err := expr.Evaluate(stmt.Expr, in.adapter())
	if err != nil {
		return gml.Value{}, err
	}
	if !stmt.IsAssignment() {
		return val, nil
	}
	if err := in.scope.ApplyWithLimits(stmt.Target, stmt.Op, val, in.limits); err != nil {
		return gml.Value{}, err
	}
	return in.scope.Get(stmt.Target)
}
