package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/aerial-tour-booking/internal/annotation"
	"github.com/iliyamo/aerial-tour-booking/internal/booking"
	"github.com/iliyamo/aerial-tour-booking/internal/config"
	"github.com/iliyamo/aerial-tour-booking/internal/database"
	"github.com/iliyamo/aerial-tour-booking/internal/handler"
	"github.com/iliyamo/aerial-tour-booking/internal/logger"
	"github.com/iliyamo/aerial-tour-booking/internal/metrics"
	"github.com/iliyamo/aerial-tour-booking/internal/middleware"
	"github.com/iliyamo/aerial-tour-booking/internal/queue"
	"github.com/iliyamo/aerial-tour-booking/internal/repository"
	"github.com/iliyamo/aerial-tour-booking/internal/router"
	"github.com/iliyamo/aerial-tour-booking/internal/service"
	"github.com/iliyamo/aerial-tour-booking/internal/telemetry"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Env)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Printf("LOG_LEVEL: %v", err)
	}
	lg := logger.Named("server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTelEndpoint)
	if err != nil {
		lg.Warn(ctx, "tracing disabled", logger.Error(err))
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	db, err := database.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	catalog := annotation.DefaultCatalog()
	if cfg.DemoCatalogPath != "" {
		if catalog, err = annotation.LoadCatalog(cfg.DemoCatalogPath); err != nil {
			log.Fatalf("demo catalog: %v", err)
		}
	}

	cacheCfg, err := config.LoadCacheConfig()
	if err != nil {
		log.Fatalf("cache config: %v", err)
	}
	rlCfg, err := config.LoadRateLimitConfig()
	if err != nil {
		log.Fatalf("rate limit config: %v", err)
	}
	redisCfg, err := config.LoadRedisConfig()
	if err != nil {
		log.Fatalf("redis config: %v", err)
	}
	rdb, err := config.NewRedisClient(redisCfg)
	if err != nil {
		lg.Warn(ctx, "redis unavailable, cache and rate limit disabled",
			logger.String("addr", redisCfg.Address()), logger.Error(err))
	} else {
		defer rdb.Close()
	}

	m := metrics.NewManager()
	amqpURL := config.AMQPURL()
	svc := booking.NewService(db,
		booking.WithPublisher(service.NewAMQPPublisher(amqpURL)),
		booking.WithMetrics(m),
		booking.WithDecrement(cfg.BookingDecrement),
	)

	if cfg.BookingConsumer {
		consumer := queue.NewBookingLogConsumer(amqpURL, "logs")
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				lg.Error(ctx, "booking consumer stopped", logger.Error(err))
			}
		}()
	}

	tours := repository.NewTourRepo(db)
	users := repository.NewUserRepo(db)
	bookings := repository.NewBookingRepo(db)
	purger := middleware.NewCachePurger(cacheCfg, rdb)
	limiter := middleware.NewTokenBucket(rlCfg, rdb)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger.Named("http")))
	e.Use(middleware.Metrics(m))

	router.RegisterRoutes(e, &handler.HealthHandler{DB: db}, m)
	router.RegisterPublic(e, &handler.TourHandler{TourRepo: tours}, middleware.NewRedisCache(cacheCfg, rdb))
	router.RegisterDemo(e, &handler.DemoHandler{Catalog: catalog, Metrics: m})
	router.RegisterCustomer(e, &handler.BookingHandler{
		UserRepo:    users,
		BookingRepo: bookings,
		Service:     svc,
		Cache:       purger,
	}, cfg.AuthJWTSecret, limiter)
	router.RegisterAdmin(e, &handler.AdminHandler{
		UserRepo:    users,
		TourRepo:    tours,
		BookingRepo: bookings,
		Cache:       purger,
	}, cfg.AdminUser, cfg.AdminPasswordHash, limiter)

	addr := ":" + cfg.Port
	go func() {
		lg.Info(ctx, "listening", logger.String("addr", addr), logger.String("env", cfg.Env),
			logger.String("db_driver", cfg.DBDriver), logger.String("decrement", cfg.BookingDecrement))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	lg.Info(context.Background(), "shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		lg.Error(sctx, "graceful shutdown failed", logger.Error(err))
	}
}
