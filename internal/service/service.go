package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/weshowyou-tours/internal/booking"
	"github.com/iliyamo/weshowyou-tours/internal/config"
	"github.com/iliyamo/weshowyou-tours/internal/handler"
	"github.com/iliyamo/weshowyou-tours/internal/middleware"
	"github.com/iliyamo/weshowyou-tours/internal/queue"
	"github.com/iliyamo/weshowyou-tours/internal/router"
)

// Service owns the HTTP server and the background workers: the draft
// sweeper and, when enabled, the booking log consumer.
type Service struct {
	cfg      config.Config
	log      logrus.FieldLogger
	echo     *echo.Echo
	desk     *booking.Desk
	consumer *queue.Consumer
}

// New wires handlers, middleware and workers over stores. rdb may be nil,
// which turns off rate limiting and response caching.
func New(cfg config.Config, log logrus.FieldLogger, stores Stores, rdb *redis.Client) *Service {
	var (
		client   booking.ReservationClient = booking.SimulatedClient{Delay: cfg.SubmitDelay}
		notifier booking.UpdateNotifier
	)
	if cfg.ReservationClient == config.ClientAMQP {
		amqpClient := NewAMQPClient(cfg.AMQPURL, log)
		client, notifier = amqpClient, amqpClient
	}

	desk := booking.NewDesk(stores.Tours, client, log, cfg.DraftTTL)
	editor := &booking.Editor{Store: stores.Bookings, Notifier: notifier, Log: log}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover(), middleware.RequestID(), middleware.RequestLogger(log))

	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterPublic(e, handler.NewTourHandler(stores.Tours), limit, cache)
	router.RegisterDrafts(e, handler.NewDraftHandler(desk), limit)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, stores.Staff, stores.Tokens), cfg.JWTSecret, limit)
	router.RegisterBackoffice(e, handler.NewBackofficeHandler(stores.Bookings, editor), cfg.JWTSecret)

	s := &Service{cfg: cfg, log: log, echo: e, desk: desk}
	if cfg.ConsumerEnabled {
		s.consumer = queue.NewConsumer(cfg.AMQPURL, cfg.BookingLogPath, log)
	}
	return s
}

// Handler exposes the HTTP handler, mainly for tests.
func (s *Service) Handler() http.Handler { return s.echo }

// Run serves until ctx is cancelled, then shuts the server down gracefully.
func (s *Service) Run(ctx context.Context) error {
	g, runCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.WithField("addr", ":"+s.cfg.Port).Info("starting HTTP server")
		err := s.echo.Start(":" + s.cfg.Port)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("starting http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return s.desk.Run(runCtx, time.Minute)
	})

	if s.consumer != nil {
		g.Go(func() error {
			return s.consumer.Run(runCtx)
		})
	}

	g.Go(func() error {
		<-runCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.log.Info("shutting down HTTP server")
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("waiting for shutdown: %w", err)
	}
	s.log.Info("shutdown complete")
	return nil
}
