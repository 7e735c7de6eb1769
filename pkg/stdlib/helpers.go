package stdlib

import (
	"math"
	"strconv"
	"strings"

	"github.com/lemonberrylabs/gm8-runtime/pkg/gml"
)

// registerConversions registers the type conversion and inspection helpers:
// real, string, is_real, is_string.
func (r *Registry) registerConversions() {
	r.Register("real", stdReal)
	r.Register("string", stdString)
	r.Register("is_real", stdIsReal)
	r.Register("is_string", stdIsString)
}

// stdReal returns reals unchanged and parses the leading number of a string.
// Strings without one yield 0.
func stdReal(args []gml.Value) (gml.Value, error) {
	if err := requireArgs("real", args, 1, 1); err != nil {
		return gml.Value{}, err
	}
	s, ok := args[0].AsStr()
	if !ok {
		return args[0], nil
	}
	return gml.Real(parseLeadingReal(s)), nil
}

// stdString returns strings unchanged. Whole reals print without decimals,
// other reals with two.
func stdString(args []gml.Value) (gml.Value, error) {
	if err := requireArgs("string", args, 1, 1); err != nil {
		return gml.Value{}, err
	}
	if args[0].IsStr() {
		return args[0], nil
	}
	return gml.Str(formatReal(args[0].ToFloat64())), nil
}

func stdIsReal(args []gml.Value) (gml.Value, error) {
	if err := requireArgs("is_real", args, 1, 1); err != nil {
		return gml.Value{}, err
	}
	return gml.FromBool(args[0].IsReal()), nil
}

func stdIsString(args []gml.Value) (gml.Value, error) {
	if err := requireArgs("is_string", args, 1, 1); err != nil {
		return gml.Value{}, err
	}
	return gml.FromBool(args[0].IsStr()), nil
}

func formatReal(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case f == math.Trunc(f):
		return strconv.FormatFloat(f, 'f', 0, 64)
	default:
		return strconv.FormatFloat(f, 'f', 2, 64)
	}
}

// parseLeadingReal reads an optional sign, digits and one decimal point from
// the start of s, ignoring leading spaces.
func parseLeadingReal(s string) float64 {
	s = strings.TrimLeft(s, " \t")
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := 0
	seenDot := false
	for end < len(s) {
		ch := s[end]
		if ch >= '0' && ch <= '9' {
			digits++
		} else if ch == '.' && !seenDot {
			seenDot = true
		} else {
			break
		}
		end++
	}
	if digits == 0 {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0
	}
	return f
}
