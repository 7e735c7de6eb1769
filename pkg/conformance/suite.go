// Package conformance runs YAML suites of GML snippets against the
// interpreter and compares results and operand errors with expectations.
package conformance

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lemonberrylabs/gm8-runtime/pkg/gml"
)

// MaxSuiteSize is the maximum suite file size in bytes (1 MB).
const MaxSuiteSize = 1024 * 1024

// SuiteError is returned when a suite file cannot be loaded.
type SuiteError struct {
	Path    string
	Message string
}

func (e *SuiteError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("suite: %s", e.Message)
	}
	return fmt.Sprintf("suite %s: %s", e.Path, e.Message)
}

// Suite is a named list of cases.
type Suite struct {
	Name  string `yaml:"name"`
	Cases []Case `yaml:"cases"`

	path string
}

// Case is one snippet with its expected outcome. A case with neither Want
// nor Error only has to run without failing.
type Case struct {
	Name   string         `yaml:"name"`
	Source string         `yaml:"source"`
	Want   *Literal       `yaml:"want"`
	Error  *ExpectedError `yaml:"error"`
}

// ExpectedError describes an operand error by operator symbol and operands.
type ExpectedError struct {
	Op       string    `yaml:"op"`
	Operands []Literal `yaml:"operands"`
}

// Literal is a Value written in YAML. Quoted scalars are strings, plain
// scalars are reals, true and false are True and False.
type Literal struct {
	gml.Value
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *Literal) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.AliasNode {
		return l.UnmarshalYAML(value.Alias)
	}
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar value", value.Line)
	}

	if value.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle|yaml.LiteralStyle|yaml.FoldedStyle) != 0 {
		l.Value = gml.Str(value.Value)
		return nil
	}

	switch value.ShortTag() {
	case "!!bool":
		var b bool
		if err := value.Decode(&b); err != nil {
			return err
		}
		l.Value = gml.FromBool(b)
		return nil
	case "!!int", "!!float":
		var f float64
		if err := value.Decode(&f); err != nil {
			return err
		}
		l.Value = gml.Real(f)
		return nil
	default:
		return fmt.Errorf("line %d: %q is not a number; quote string values", value.Line, value.Value)
	}
}

// Parse decodes a suite from YAML.
func Parse(source []byte) (*Suite, error) {
	if len(source) > MaxSuiteSize {
		return nil, &SuiteError{Message: fmt.Sprintf("size %d exceeds maximum %d bytes", len(source), MaxSuiteSize)}
	}

	var s Suite
	if err := yaml.Unmarshal(source, &s); err != nil {
		return nil, &SuiteError{Message: fmt.Sprintf("invalid YAML: %v", err)}
	}
	if len(s.Cases) == 0 {
		return nil, &SuiteError{Message: "suite has no cases"}
	}
	for i, c := range s.Cases {
		if strings.TrimSpace(c.Source) == "" {
			return nil, &SuiteError{Message: fmt.Sprintf("case %d (%s) has no source", i, c.Name)}
		}
		if c.Want != nil && c.Error != nil {
			return nil, &SuiteError{Message: fmt.Sprintf("case %d (%s) sets both want and error", i, c.Name)}
		}
		if c.Name == "" {
			s.Cases[i].Name = fmt.Sprintf("case-%d", i)
		}
	}
	return &s, nil
}

// LoadSuite reads and parses a suite file. The suite name defaults to the
// file path.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read suite: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		if serr, ok := err.(*SuiteError); ok {
			serr.Path = path
		}
		return nil, err
	}
	s.path = path
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}
