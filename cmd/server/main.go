package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bally3399/chord001-monograms/internal/app"
	"github.com/bally3399/chord001-monograms/internal/auth"
	"github.com/bally3399/chord001-monograms/internal/config"
	"github.com/bally3399/chord001-monograms/pkg/logger"
)

func main() {
	mintToken := flag.String("mint-token", "", "print a viewer access token for `viewer-id` and exit")
	flag.Parse()

	if err := run(*mintToken); err != nil {
		slog.Error("fatal error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(mintToken string) error {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Viewer identity is owned by an external provider; this signs a token
	// with the same secret for local use.
	if mintToken != "" {
		token, err := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry()).GenerateAccessToken(mintToken)
		if err != nil {
			return fmt.Errorf("mint token: %w", err)
		}
		fmt.Println(token)
		return nil
	}

	log := logger.New("storefront", cfg.LogLevel)
	log.Info("starting storefront server",
		slog.String("environment", cfg.Environment),
		slog.Int("http_port", cfg.HTTPPort),
		slog.Bool("kafka_enabled", cfg.KafkaEnabled),
		slog.Bool("cloudinary", cfg.UsesCloudinary()),
	)

	application, err := app.NewApp(cfg, log)
	if err != nil {
		return fmt.Errorf("initialize application: %w", err)
	}

	// Create a context that is canceled on SIGINT or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := application.Run(ctx); err != nil {
		return fmt.Errorf("run application: %w", err)
	}

	log.Info("storefront server stopped")
	return nil
}
