package stdlib

import (
	"strings"
	"unicode/utf8"

	"github.com/lemonberrylabs/gm8-runtime/pkg/expr"
	"github.com/lemonberrylabs/gm8-runtime/pkg/gml"
)

// registerText registers the string functions. Positions are 1-based and
// count characters, not bytes.
func (r *Registry) registerText() {
	r.Register("string_length", textLength)
	r.Register("string_repeat", r.textRepeat)
	r.Register("string_upper", textUpper)
	r.Register("string_lower", textLower)
	r.Register("string_copy", textCopy)
	r.Register("chr", textChr)
	r.Register("ord", textOrd)
}

func textLength(args []gml.Value) (gml.Value, error) {
	if err := requireArgs("string_length", args, 1, 1); err != nil {
		return gml.Value{}, err
	}
	return gml.FromInt(utf8.RuneCountInString(args[0].ToString())), nil
}

// textRepeat shares the * operator's repeat rule: counts below 1 give "".
func (r *Registry) textRepeat(args []gml.Value) (gml.Value, error) {
	if err := requireArgs("string_repeat", args, 2, 2); err != nil {
		return gml.Value{}, err
	}
	s, count := args[0].ToString(), args[1].Round()
	if err := r.limits.CheckLength("string_repeat", expr.RepeatLength(count, len(s))); err != nil {
		return gml.Value{}, err
	}
	return gml.FromInt32(count).Mul(gml.Str(s))
}

func textUpper(args []gml.Value) (gml.Value, error) {
	if err := requireArgs("string_upper", args, 1, 1); err != nil {
		return gml.Value{}, err
	}
	return gml.Str(strings.ToUpper(args[0].ToString())), nil
}

func textLower(args []gml.Value) (gml.Value, error) {
	if err := requireArgs("string_lower", args, 1, 1); err != nil {
		return gml.Value{}, err
	}
	return gml.Str(strings.ToLower(args[0].ToString())), nil
}

// textCopy returns count characters starting at index. Out of range parts
// are clipped.
func textCopy(args []gml.Value) (gml.Value, error) {
	if err := requireArgs("string_copy", args, 3, 3); err != nil {
		return gml.Value{}, err
	}
	runes := []rune(args[0].ToString())
	start := int(args[1].Round()) - 1
	count := int(args[2].Round())
	if start < 0 {
		start = 0
	}
	if start >= len(runes) || count <= 0 {
		return gml.Str(""), nil
	}
	end := len(runes)
	if count < end-start {
		end = start + count
	}
	return gml.Str(string(runes[start:end])), nil
}

func textChr(args []gml.Value) (gml.Value, error) {
	if err := requireArgs("chr", args, 1, 1); err != nil {
		return gml.Value{}, err
	}
	code := args[0].Round()
	if code < 0 || !utf8.ValidRune(rune(code)) {
		return gml.Str(""), nil
	}
	return gml.Str(string(rune(code))), nil
}

// textOrd returns the code of the first character, or 0 for "".
func textOrd(args []gml.Value) (gml.Value, error) {
	if err := requireArgs("ord", args, 1, 1); err != nil {
		return gml.Value{}, err
	}
	r, size := utf8.DecodeRuneInString(args[0].ToString())
	if size == 0 {
		return gml.Real(0), nil
	}
	return gml.FromInt32(int32(r)), nil
}
