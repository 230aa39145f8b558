package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/prattikkk/Incubyte/internal/config"
	"github.com/prattikkk/Incubyte/internal/devserver"
	"github.com/prattikkk/Incubyte/internal/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New("devserver", cfg.Environment)

	srv, err := devserver.New(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("dev server init failed")
	}

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal().Err(err).Msg("dev server failed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("dev server exited cleanly")
}
