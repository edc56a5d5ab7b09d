package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/johnlatif16/king-store-esport/internal/app/notifierapp"
	"github.com/johnlatif16/king-store-esport/internal/config"
	"github.com/johnlatif16/king-store-esport/internal/infra/logger"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("APP_CONFIG")
	if cfgPath == "" {
		cfgPath = "configs/config.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log.Level, "notifier")
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := notifierapp.New(cfg, log)
	if err != nil {
		log.Fatal("create notifier app", zap.Error(err))
	}

	if err := app.Run(ctx); err != nil {
		log.Fatal("notifier app failed", zap.Error(err))
	}
}
