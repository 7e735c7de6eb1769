// Package stdlib implements the GML built-in functions.
package stdlib

import (
	"fmt"
	"sort"

	"github.com/lemonberrylabs/gm8-runtime/pkg/expr"
	"github.com/lemonberrylabs/gm8-runtime/pkg/gml"
)

// StdlibFunc is a built-in function signature.
type StdlibFunc func(args []gml.Value) (gml.Value, error)

// Registry holds all built-in functions and serves as a FunctionRegistry.
type Registry struct {
	funcs  map[string]StdlibFunc
	limits expr.Limits
}

// Option configures a Registry.
type Option func(*Registry)

// WithMaxStringLength caps the byte length of strings the built-ins build.
// Zero means no limit.
func WithMaxStringLength(n int) Option {
	return func(r *Registry) {
		r.limits.MaxStringLength = n
	}
}

// NewRegistry creates a new registry with all built-in functions registered.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		funcs: make(map[string]StdlibFunc),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.registerConversions()
	r.registerMath()
	r.registerText()
	return r
}

// CallFunction implements FunctionRegistry.
func (r *Registry) CallFunction(name string, args []gml.Value) (gml.Value, error) {
	fn, ok := r.funcs[name]
	if !ok {
		return gml.Value{}, fmt.Errorf("unknown function '%s'", name)
	}
	return fn(args)
}

// Register adds a function to the registry.
func (r *Registry) Register(name string, fn StdlibFunc) {
	r.funcs[name] = fn
}

// Names returns the registered function names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// requireArgs checks that the number of args is in range. A negative max
// means no upper bound.
func requireArgs(name string, args []gml.Value, min, max int) error {
	if len(args) < min || (max >= 0 && len(args) > max) {
		switch {
		case min == max:
			return fmt.Errorf("%s expects %d argument(s), got %d", name, min, len(args))
		case max < 0:
			return fmt.Errorf("%s expects at least %d argument(s), got %d", name, min, len(args))
		default:
			return fmt.Errorf("%s expects %d-%d arguments, got %d", name, min, max, len(args))
		}
	}
	return nil
}
