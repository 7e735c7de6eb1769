// Package runtime executes GML statements against a variable scope.
package runtime

import (
	"fmt"
	"sort"
	"sync"

	"github.com/lemonberrylabs/gm8-runtime/pkg/expr"
	"github.com/lemonberrylabs/gm8-runtime/pkg/gml"
	"github.com/lemonberrylabs/gm8-runtime/pkg/token"
)

// VariableScope manages variable storage with parent scope chaining.
// Variables are looked up starting from the current scope and walking up
// the parent chain. New variables are always created in the current scope.
type VariableScope struct {
	parent *VariableScope
	vars   map[string]gml.Value
	mu     sync.RWMutex
}

// NewScope creates a new root scope.
func NewScope() *VariableScope {
	return &VariableScope{
		vars: make(map[string]gml.Value),
	}
}

// NewChildScope creates a child scope that inherits from this scope.
func (s *VariableScope) NewChildScope() *VariableScope {
	return &VariableScope{
		parent: s,
		vars:   make(map[string]gml.Value),
	}
}

// Get retrieves a variable value, searching up the scope chain.
func (s *VariableScope) Get(name string) (gml.Value, error) {
	s.mu.RLock()
	v, ok := s.vars[name]
	s.mu.RUnlock()
	if ok {
		return v, nil
	}
	if s.parent != nil {
		return s.parent.Get(name)
	}
	return gml.Value{}, fmt.Errorf("unknown variable '%s'", name)
}

// Set sets a variable in the scope where it exists, or creates it in this scope.
func (s *VariableScope) Set(name string, value gml.Value) {
	owner := s.owner(name)
	if owner == nil {
		owner = s
	}
	owner.mu.Lock()
	owner.vars[name] = value
	owner.mu.Unlock()
}

// SetLocal sets a variable in this scope only (no parent search).
func (s *VariableScope) SetLocal(name string, value gml.Value) {
	s.mu.Lock()
	s.vars[name] = value
	s.mu.Unlock()
}

// Apply runs a compound assignment on an existing variable. The variable is
// only written when the operator succeeds. Plain Assign behaves like Set.
func (s *VariableScope) Apply(name string, op token.Operator, rhs gml.Value) error {
	return s.ApplyWithLimits(name, op, rhs, expr.Limits{})
}

// ApplyWithLimits is Apply with the string length limit checked before the
// operator runs.
func (s *VariableScope) ApplyWithLimits(name string, op token.Operator, rhs gml.Value, limits expr.Limits) error {
	if op == token.Assign {
		s.Set(name, rhs)
		return nil
	}

	owner := s.owner(name)
	if owner == nil {
		return fmt.Errorf("unknown variable '%s'", name)
	}

	owner.mu.Lock()
	defer owner.mu.Unlock()
	slot := owner.vars[name]
	if err := limits.Assign(op, &slot, rhs); err != nil {
		return err
	}
	owner.vars[name] = slot
	return nil
}

// Exists checks if a variable exists in this scope or any parent.
func (s *VariableScope) Exists(name string) bool {
	return s.owner(name) != nil
}

// owner returns the nearest scope that defines name, or nil.
func (s *VariableScope) owner(name string) *VariableScope {
	for sc := s; sc != nil; sc = sc.parent {
		sc.mu.RLock()
		_, ok := sc.vars[name]
		sc.mu.RUnlock()
		if ok {
			return sc
		}
	}
	return nil
}

// Names returns every visible variable name, sorted.
func (s *VariableScope) Names() []string {
	snap := s.Snapshot()
	names := make([]string, 0, len(snap))
	for name := range snap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot copies every visible variable. Inner scopes shadow outer ones.
func (s *VariableScope) Snapshot() map[string]gml.Value {
	out := make(map[string]gml.Value)
	var chain []*VariableScope
	for sc := s; sc != nil; sc = sc.parent {
		chain = append(chain, sc)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		sc := chain[i]
		sc.mu.RLock()
		for k, v := range sc.vars {
			out[k] = v
		}
		sc.mu.RUnlock()
	}
	return out
}

// FunctionRegistry provides function lookup for expression evaluation.
type FunctionRegistry interface {
	// CallFunction calls a named function with the given arguments.
	CallFunction(name string, args []gml.Value) (gml.Value, error)
}

// ScopeAdapter adapts a VariableScope to implement the expr.Scope interface.
type ScopeAdapter struct {
	scope   *VariableScope
	funcMap FunctionRegistry
	limits  expr.Limits
}

// NewScopeAdapter creates a scope adapter for expression evaluation.
func NewScopeAdapter(scope *VariableScope, funcs FunctionRegistry) *ScopeAdapter {
	return &ScopeAdapter{scope: scope, funcMap: funcs}
}

// WithLimits returns a copy of the adapter that reports limits to the
// evaluator.
func (a *ScopeAdapter) WithLimits(limits expr.Limits) *ScopeAdapter {
	c := *a
	c.limits = limits
	return &c
}

// Limits implements expr.Limited.
func (a *ScopeAdapter) Limits() expr.Limits {
	return a.limits
}

// GetVariable implements expr.Scope.
func (a *ScopeAdapter) GetVariable(name string) (gml.Value, error) {
	return a.scope.Get(name)
}

// CallFunction implements expr.Scope.
func (a *ScopeAdapter) CallFunction(name string, args []gml.Value) (gml.Value, error) {
	if a.funcMap != nil {
		return a.funcMap.CallFunction(name, args)
	}
	return gml.Value{}, fmt.Errorf("function '%s' not found", name)
}

// EvalExpression parses and evaluates a single expression within the given
// scope.
func EvalExpression(source string, scope *VariableScope, funcs FunctionRegistry) (gml.Value, error) {
	node, err := expr.ParseExpression(source)
	if err != nil {
		return gml.Value{}, err
	}
	return expr.Evaluate(node, NewScopeAdapter(scope, funcs))
}
