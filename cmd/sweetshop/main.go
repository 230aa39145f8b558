package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prattikkk/Incubyte/internal/api"
	"github.com/prattikkk/Incubyte/internal/config"
	"github.com/prattikkk/Incubyte/internal/jobs"
	"github.com/prattikkk/Incubyte/internal/log"
	"github.com/prattikkk/Incubyte/internal/notify"
	"github.com/prattikkk/Incubyte/internal/service"
	"github.com/prattikkk/Incubyte/internal/session"
	"github.com/prattikkk/Incubyte/internal/shell"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New("sweetshop", cfg.Environment)

	store := session.NewStore(session.NewFileStorage(cfg.Session.File), logger)
	store.Restore()

	client := api.New(cfg.API, store, logger)
	notifier := notify.NewCenter()
	auth := service.NewAuthService(client, store, logger)
	sweets := service.NewSweetService(client, logger)

	scheduler := jobs.NewScheduler(store, notifier, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sh := shell.New(auth, sweets, store, notifier, os.Stdin, os.Stdout, logger)
	if err := sh.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("shell exited with error")
	}

	scheduler.Stop()
	notifier.Close()
	logger.Info().Msg("storefront exited cleanly")
}
