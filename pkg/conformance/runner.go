package conformance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lemonberrylabs/gm8-runtime/pkg/gml"
	"github.com/lemonberrylabs/gm8-runtime/pkg/runtime"
)

// Failure is a case whose outcome did not match.
type Failure struct {
	Case   string `json:"case"`
	Reason string `json:"reason"`
}

// Report summarizes one suite run.
type Report struct {
	Suite    string    `json:"suite"`
	Path     string    `json:"path,omitempty"`
	Total    int       `json:"total"`
	Passed   int       `json:"passed"`
	Failures []Failure `json:"failures,omitempty"`
}

// OK reports whether every case passed.
func (r Report) OK() bool {
	return r.Passed == r.Total
}

// Run executes every case on a fresh interpreter. opts configure each
// interpreter.
func (s *Suite) Run(ctx context.Context, opts ...runtime.Option) Report {
	report := Report{Suite: s.Name, Path: s.path, Total: len(s.Cases)}
	for _, c := range s.Cases {
		if err := c.check(ctx, opts); err != nil {
			zap.S().Debugw("conformance case failed", "suite", s.Name, "case", c.Name, "reason", err)
			report.Failures = append(report.Failures, Failure{Case: c.Name, Reason: err.Error()})
			continue
		}
		report.Passed++
	}
	return report
}

func (c Case) check(ctx context.Context, opts []runtime.Option) error {
	got, err := runtime.NewInterpreter(opts...).Exec(ctx, c.Source)

	if c.Error != nil {
		if err == nil {
			return fmt.Errorf("expected error for operator %s, got %v", c.Error.Op, got)
		}
		return c.Error.match(err)
	}
	if err != nil {
		return fmt.Errorf("unexpected error: %w", err)
	}
	if c.Want != nil && !sameValue(got, c.Want.Value) {
		return fmt.Errorf("got %v, want %v", got, c.Want.Value)
	}
	return nil
}

func (e *ExpectedError) match(err error) error {
	var gerr *gml.Error
	if !errors.As(err, &gerr) {
		return fmt.Errorf("expected operand error, got: %w", err)
	}
	if gerr.Op.String() != e.Op {
		return fmt.Errorf("error operator %s, want %s", gerr.Op, e.Op)
	}
	if e.Operands == nil {
		return nil
	}
	if len(gerr.Operands) != len(e.Operands) {
		return fmt.Errorf("error has %d operands, want %d", len(gerr.Operands), len(e.Operands))
	}
	for i, want := range e.Operands {
		if !sameValue(gerr.Operands[i], want.Value) {
			return fmt.Errorf("error operand %d is %v, want %v", i, gerr.Operands[i], want.Value)
		}
	}
	return nil
}

// sameValue is AlmostEquals that also matches NaN against NaN and
// infinities against themselves.
func sameValue(got, want gml.Value) bool {
	g, gok := got.AsReal()
	w, wok := want.AsReal()
	if gok && wok && (g == w || math.IsNaN(g) && math.IsNaN(w)) {
		return true
	}
	return got.AlmostEquals(want)
}

// RunFiles loads and runs suites concurrently. Reports come back in the order
// of paths. A suite that fails to load cancels the rest.
func RunFiles(ctx context.Context, paths []string, opts ...runtime.Option) ([]Report, error) {
	reports := make([]Report, len(paths))
	g, ctx := errgroup.WithContext(ctx)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			suite, err := LoadSuite(path)
			if err != nil {
				return err
			}
			reports[i] = suite.Run(ctx, opts...)
			if !reports[i].OK() {
				zap.S().Warnw("conformance suite failed", "suite", suite.Name,
					"passed", reports[i].Passed, "total", reports[i].Total)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// Summary renders reports as plain text, one line per suite followed by
// its failures.
func Summary(reports []Report) string {
	var sb strings.Builder
	for _, r := range reports {
		status := "ok"
		if !r.OK() {
			status = "FAIL"
		}
		fmt.Fprintf(&sb, "%-4s %s (%d/%d)\n", status, r.Suite, r.Passed, r.Total)
		for _, f := range r.Failures {
			fmt.Fprintf(&sb, "     %s: %s\n", f.Case, f.Reason)
		}
	}
	return sb.String()
}
