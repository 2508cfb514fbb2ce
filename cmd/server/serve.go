package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/space-travel-booking/internal/catalog"
	"github.com/iliyamo/space-travel-booking/internal/config"
	"github.com/iliyamo/space-travel-booking/internal/handler"
	"github.com/iliyamo/space-travel-booking/internal/logger"
	"github.com/iliyamo/space-travel-booking/internal/middleware"
	"github.com/iliyamo/space-travel-booking/internal/pricing"
	"github.com/iliyamo/space-travel-booking/internal/queue"
	"github.com/iliyamo/space-travel-booking/internal/repository"
	"github.com/iliyamo/space-travel-booking/internal/router"
	"github.com/iliyamo/space-travel-booking/internal/service"
	"github.com/iliyamo/space-travel-booking/internal/tracing"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func limitsFrom(t config.TripConfig) pricing.Limits {
	return pricing.Limits{Min: t.MinDays, Max: t.MaxDays, Default: t.DefaultDays}
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.Init(cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.TracingEnabled {
		shutdown, err := tracing.Init(ctx, cfg.OTLPEndpoint)
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Warn("tracer shutdown failed", zap.Error(err))
			}
		}()
	}

	limits := limitsFrom(cfg.Trip)
	if err := limits.Validate(); err != nil {
		return err
	}
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}

	var rdb *redis.Client
	if config.RedisEnabled() {
		rdb = config.NewRedisClient(ctx)
	}
	if rdb == nil {
		log.Info("redis unavailable; response cache and rate limiting disabled")
	} else {
		defer rdb.Close()
	}

	g, ctx := errgroup.WithContext(ctx)

	var pub service.Publisher = service.NopPublisher{}
	if cfg.QueueEnabled {
		amqpPub := service.NewAMQPPublisher(cfg.AMQPURL, 256, log.Named("publisher"))
		pub = amqpPub
		g.Go(func() error { return amqpPub.Run(ctx) })
		consumer := &queue.Consumer{URL: cfg.AMQPURL, LogDir: cfg.BookingLogDir, Log: log.Named("consumer")}
		g.Go(func() error { return consumer.Run(ctx) })
	}

	sessions := repository.NewSessionRepo(cfg.SessionTTL, nil, log.Named("sessions"))
	g.Go(func() error {
		sessions.RunJanitor(ctx, cfg.SessionSweepInterval)
		return nil
	})

	svc := service.NewBookingService(cat, sessions, limits, pub, cfg.Timezone)
	svc.HorizonYears = cfg.Trip.HorizonYears

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover(), middleware.RequestLogger())
	router.Register(e, router.Deps{
		Public:        handler.NewPublicHandler(cat, svc),
		Bookings:      handler.NewBookingHandler(svc),
		Sessions:      sessions,
		SessionSecret: cfg.SessionSecret,
		Redis:         rdb,
		Cache:         config.LoadCacheConfig(),
		RateLimit:     config.LoadRateLimitConfig(),
	})

	addr := ":" + cfg.Port
	g.Go(func() error {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	log.Info("server stopped")
	return err
}
