package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/annadenisova/crypto-query-service/internal/app"
	"github.com/annadenisova/crypto-query-service/internal/config"
	"github.com/annadenisova/crypto-query-service/pkg/logger"
	"github.com/labstack/gommon/log"
)

func main() {

	// context + signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Error("config load failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	lg := logger.New(&cfg.Logger)

	// build application
	application, err := app.NewApp(*cfg, lg)
	if err != nil {
		log.Error("app init failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// run application
	if err := application.Run(ctx); err != nil {
		log.Error("application stopped with error", slog.String("error", err.Error()))
	}

	log.Info("crypto-query-service stopped")
}
