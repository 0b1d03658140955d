package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/juju/zaputil/zapctx"
	"github.com/spf13/cobra"

	"github.com/BuzzLyutic/version-tracker-api/internal/server"
	"github.com/BuzzLyutic/version-tracker-api/internal/web"
	"github.com/BuzzLyutic/version-tracker-api/pkg/client"
)

func newUICmd() *cobra.Command {
	var (
		apiURL   string
		port     string
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Serve only the browser UI against a remote API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runUI(ctx, apiURL, port, logLevel)
		},
	}

	cmd.Flags().StringVar(&apiURL, "api", "http://localhost:3001", "base URL of the version tracker API")
	cmd.Flags().StringVarP(&port, "port", "p", "3000", "port to listen on")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	return cmd
}

func runUI(ctx context.Context, apiURL, port, logLevel string) error {
	if apiURL == "" {
		return fmt.Errorf("ui: --api is required")
	}
	logger, err := newLogger(logLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()
	zapctx.Default = logger

	ui, err := web.New(client.New(client.NewParams{BaseURL: apiURL}), server.UIPath)
	if err != nil {
		return err
	}

	srv := server.New(":"+port, server.NewUIRouter(ui, logger))
	return server.Serve(ctx, srv, logger)
}
