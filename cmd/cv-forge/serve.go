package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	httpadapter "cv-forge/internal/adapter/http"
	"cv-forge/internal/config"
	"cv-forge/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("port", "p", "", "port to listen on (default 3000)")
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}

func serve(parent context.Context) error {
	logger, err := logger.New(viper.GetBool("log.json"), viper.GetBool("log.debug"))
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	defer logger.Sync()

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		logger.Error("loading config", zap.Error(err))
		return err
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	processor, closer, err := newProcessor(ctx, cfg, logger)
	if err != nil {
		logger.Error("wiring processor", zap.Error(err))
		return err
	}
	defer closer.Close()

	app := fiber.New(fiber.Config{
		AppName:               "cv-forge " + version,
		BodyLimit:             cfg.Server.BodyLimit,
		DisableStartupMessage: true,
	})
	httpadapter.NewHandler(processor, logger).Register(app)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting cv-forge",
			zap.String("version", version),
			zap.String("port", cfg.Server.Port),
			zap.String("ai_provider", cfg.AI.Provider),
			zap.String("store", cfg.Store.Driver))
		errCh <- app.Listen(":" + cfg.Server.Port)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", zap.Error(err))
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	return nil
}
