package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lemonberrylabs/gm8-runtime/pkg/conformance"
)

var checkCmd = &cobra.Command{
	Use:   "check <suite.yaml|dir>...",
	Short: "Run conformance suites",
	Long: `Run YAML conformance suites against the interpreter.

Directories are searched for *.yaml and *.yml files.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	paths, err := suitePaths(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no suites found")
	}

	reports, err := conformance.RunFiles(cmd.Context(), paths, interpreterOptions()...)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), conformance.Summary(reports))

	failed := 0
	for _, r := range reports {
		if !r.OK() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d suites failed", failed, len(reports))
	}
	return nil
}

func suitePaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		for _, pattern := range []string{"*.yaml", "*.yml"} {
			matches, err := filepath.Glob(filepath.Join(arg, pattern))
			if err != nil {
				return nil, err
			}
			paths = append(paths, matches...)
		}
	}
	return paths, nil
}
