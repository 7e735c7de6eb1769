package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lemonberrylabs/gm8-runtime/pkg/runtime"
)

var (
	evalFile     string
	evalShowVars bool
)

var evalCmd = &cobra.Command{
	Use:   "eval [source]",
	Short: "Run GML statements and print the last value",
	Long: `Run GML statements and print the value of the last one.

The source comes from the argument, from --file, or from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEval,
}

func init() {
	evalCmd.Flags().StringVarP(&evalFile, "file", "f", "", "read the source from a file")
	evalCmd.Flags().BoolVar(&evalShowVars, "vars", false, "print every variable after the run")
}

func runEval(cmd *cobra.Command, args []string) error {
	source, err := readSource(cmd, args)
	if err != nil {
		return err
	}

	in := runtime.NewInterpreter(interpreterOptions()...)
	result, err := in.Exec(cmd.Context(), source)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, result)
	if evalShowVars {
		snap := in.Scope().Snapshot()
		for _, name := range in.Scope().Names() {
			fmt.Fprintf(out, "%s = %v\n", name, snap[name])
		}
	}
	return nil
}

func readSource(cmd *cobra.Command, args []string) (string, error) {
	switch {
	case len(args) == 1 && evalFile != "":
		return "", errors.New("pass either a source argument or --file, not both")
	case len(args) == 1:
		return args[0], nil
	case evalFile != "":
		data, err := os.ReadFile(evalFile)
		if err != nil {
			return "", fmt.Errorf("cannot read source: %w", err)
		}
		return string(data), nil
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("cannot read stdin: %w", err)
		}
		if strings.TrimSpace(string(data)) == "" {
			return "", errors.New("no source given")
		}
		return string(data), nil
	}
}
