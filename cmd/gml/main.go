// Package main is the entry point for the gml command: evaluate snippets,
// run conformance suites and serve the HTTP playground.
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lemonberrylabs/gm8-runtime/pkg/config"
	"github.com/lemonberrylabs/gm8-runtime/pkg/runtime"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var (
	configFile string
	cfg        *config.Config
	undoLogger func()
)

var rootCmd = &cobra.Command{
	Use:           "gml",
	Short:         "GML runtime value engine tools",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cmd.Flags(), configFile)
		if err != nil {
			return err
		}
		undoLogger = zap.ReplaceGlobals(setupLogger(cfg.LogLevel))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
		if undoLogger != nil {
			undoLogger()
		}
	},
}

func init() {
	rootCmd.Version = version + " (commit=" + commit + ", built=" + date + ")"
	rootCmd.SetVersionTemplate("gml version {{.Version}}\n")

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "configuration file")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (env GML_LOG_LEVEL)")
	rootCmd.PersistentFlags().Int("step-limit", 0, "maximum statements per run, 0 for no limit (env GML_STEP_LIMIT)")
	rootCmd.PersistentFlags().Int("max-string-length", runtime.DefaultMaxStringLength, "maximum bytes in a string a script builds, 0 for no limit (env GML_MAX_STRING_LENGTH)")

	rootCmd.AddCommand(evalCmd, checkCmd, serveCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		zap.S().Error(err)
		rootCmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}

// interpreterOptions returns the interpreter settings from the configuration.
func interpreterOptions() []runtime.Option {
	return []runtime.Option{
		runtime.WithStepLimit(cfg.StepLimit),
		runtime.WithMaxStringLength(cfg.MaxStringLength),
	}
}

func setupLogger(level string) *zap.Logger {
	loggerCfg := &zap.Config{
		Level:    zap.NewAtomicLevelAt(zapcore.InfoLevel),
		Encoding: "json",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "time",
			LevelKey:       "severity",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "message",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.RFC3339TimeEncoder,
			EncodeDuration: zapcore.MillisDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	atomicLogLevel, err := zap.ParseAtomicLevel(level)
	if err == nil {
		loggerCfg.Level = atomicLogLevel
	}
	if loggerCfg.Level.Level() == zapcore.DebugLevel {
		loggerCfg.Encoding = "console"
	}

	plain, err := loggerCfg.Build(zap.AddStacktrace(zap.DPanicLevel))
	if err != nil {
		panic(err)
	}

	return plain
}
