package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/weshowyou-tours/internal/config"
	"github.com/iliyamo/weshowyou-tours/internal/logging"
	"github.com/iliyamo/weshowyou-tours/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logging.New(cfg.Env, cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("failed to run")
	}
}

func run(cfg config.Config, log *logrus.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	stores, err := service.OpenStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.WithError(err).Error("failed to close db connection")
		}
	}()

	rdb := config.NewRedisClient(ctx)
	if rdb == nil {
		log.Warn("redis unavailable, rate limiting and response cache disabled")
	} else {
		defer func() { _ = rdb.Close() }()
	}

	log.WithFields(logrus.Fields{
		"env":                cfg.Env,
		"store":              cfg.StoreDriver,
		"reservation_client": cfg.ReservationClient,
	}).Info("service configured")

	return service.New(cfg, log, stores, rdb).Run(ctx)
}
