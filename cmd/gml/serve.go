package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lemonberrylabs/gm8-runtime/pkg/api"
	"github.com/lemonberrylabs/gm8-runtime/pkg/store"
	"github.com/lemonberrylabs/gm8-runtime/web"
)

var serveUI bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP playground",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("host", "0.0.0.0", "bind address (env GML_HOST)")
	serveCmd.Flags().Int("port", 8790, "HTTP server port (env GML_PORT)")
	serveCmd.Flags().BoolVar(&serveUI, "ui", true, "serve the session browser under /ui")
}

func runServe(cmd *cobra.Command, args []string) error {
	opts := interpreterOptions()
	st := store.New(opts...)
	server := api.New(st, opts...)
	if serveUI {
		web.New(st).Register(server.App())
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		zap.S().Infow("GML playground listening", "addr", cfg.Addr(), "step_limit", cfg.StepLimit, "max_string_length", cfg.MaxStringLength, "ui", serveUI)
		return server.Listen(cfg.Addr())
	})

	g.Go(func() error {
		<-ctx.Done()
		zap.S().Info("Shutting down...")
		return server.Shutdown()
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
