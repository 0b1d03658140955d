package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/juju/zaputil/zapctx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/version-tracker-api/internal/config"
	"github.com/BuzzLyutic/version-tracker-api/internal/repo"
	"github.com/BuzzLyutic/version-tracker-api/internal/server"
	"github.com/BuzzLyutic/version-tracker-api/internal/service"
	"github.com/BuzzLyutic/version-tracker-api/internal/web"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		noUI       bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the API server (and the UI under /ui)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, configPath, !noUI)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file (default $CONFIG_FILE)")
	cmd.Flags().BoolVar(&noUI, "no-ui", false, "do not mount the browser UI")
	return cmd
}

func runServe(ctx context.Context, configPath string, withUI bool) error {
	// Загрузка конфигурации
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// Подключаем логгер
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()
	zapctx.Default = logger

	// Подключаем хранилище
	store, closeStore, err := repo.Open(ctx, cfg.Store, logger)
	if err != nil {
		logger.Error("Failed to open the store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
		return err
	}
	defer closeStore()

	svc := service.NewVersionService(store)

	var ui *web.Handler
	if withUI {
		if ui, err = web.New(svc, server.UIPath); err != nil {
			return err
		}
	}

	srv := server.New(":"+cfg.Port, server.NewRouter(svc, ui, logger))
	if err := server.Serve(ctx, srv, logger); err != nil {
		logger.Error("Server failed", zap.Error(err))
		return err
	}
	return nil
}
