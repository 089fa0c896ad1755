package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"pulse/internal/daemon"
	"pulse/internal/logging"
	"pulse/internal/store"
)

func main() {
	// A .env next to the working directory may carry PULSE_GATEWAY_API_KEY;
	// it has to be in the environment before the config loader resolves the
	// gateway key fallback chain.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, configPath, err := loadConfig("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	st, err := store.Open(cfg)
	if err != nil {
		logger.Error("open store", logging.Error(err))
		os.Exit(1)
	}

	d, err := daemon.New(cfg, st, logger)
	if err != nil {
		_ = st.Close()
		logger.Error("create daemon", logging.Error(err))
		os.Exit(1)
	}

	logger.Info("pulse daemon starting", startupAttrs(cfg, configPath)...)
	if err := d.Start(ctx); err != nil {
		_ = d.Close()
		logger.Error("daemon start", logging.Error(err))
		os.Exit(1)
	}

	<-ctx.Done()
	if err := d.Close(); err != nil {
		logger.Warn("daemon shutdown", logging.Error(err))
	}
	logger.Info("pulse daemon shutting down")
}
