package stdlib

import (
	"math"

	"github.com/lemonberrylabs/gm8-runtime/pkg/gml"
)

// registerMath registers the real-number functions. Arguments are read with
// the lossy conversions, so a string argument counts as 0.
func (r *Registry) registerMath() {
	r.Register("floor", unaryReal("floor", math.Floor))
	r.Register("ceil", unaryReal("ceil", math.Ceil))
	r.Register("frac", unaryReal("frac", func(x float64) float64 { return x - math.Trunc(x) }))
	r.Register("abs", unaryReal("abs", math.Abs))
	r.Register("sqrt", unaryReal("sqrt", math.Sqrt))
	r.Register("sign", unaryReal("sign", sign))
	r.Register("round", mathRound)
	r.Register("power", mathPower)
	r.Register("min", extremum("min", func(a, b float64) bool { return a < b }))
	r.Register("max", extremum("max", func(a, b float64) bool { return a > b }))
}

func unaryReal(name string, f func(float64) float64) StdlibFunc {
	return func(args []gml.Value) (gml.Value, error) {
		if err := requireArgs(name, args, 1, 1); err != nil {
			return gml.Value{}, err
		}
		return gml.Real(f(args[0].ToFloat64())), nil
	}
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

func mathRound(args []gml.Value) (gml.Value, error) {
	if err := requireArgs("round", args, 1, 1); err != nil {
		return gml.Value{}, err
	}
	return gml.FromInt32(args[0].Round()), nil
}

func mathPower(args []gml.Value) (gml.Value, error) {
	if err := requireArgs("power", args, 2, 2); err != nil {
		return gml.Value{}, err
	}
	return gml.Real(math.Pow(args[0].ToFloat64(), args[1].ToFloat64())), nil
}

// extremum returns the argument that wins against every other under better.
func extremum(name string, better func(a, b float64) bool) StdlibFunc {
	return func(args []gml.Value) (gml.Value, error) {
		if err := requireArgs(name, args, 1, -1); err != nil {
			return gml.Value{}, err
		}
		best := args[0].ToFloat64()
		for _, arg := range args[1:] {
			if x := arg.ToFloat64(); better(x, best) {
				best = x
			}
		}
		return gml.Real(best), nil
	}
}
