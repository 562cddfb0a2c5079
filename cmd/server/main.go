package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/property-rental-booking/internal/config"
	"github.com/iliyamo/property-rental-booking/internal/database"
	"github.com/iliyamo/property-rental-booking/internal/gateway"
	"github.com/iliyamo/property-rental-booking/internal/handler"
	"github.com/iliyamo/property-rental-booking/internal/logging"
	"github.com/iliyamo/property-rental-booking/internal/metrics"
	"github.com/iliyamo/property-rental-booking/internal/middleware"
	"github.com/iliyamo/property-rental-booking/internal/queue"
	"github.com/iliyamo/property-rental-booking/internal/repository"
	"github.com/iliyamo/property-rental-booking/internal/router"
	"github.com/iliyamo/property-rental-booking/internal/service"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer db.Close()
	if cfg.DBAutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			logger.Fatal("migrate database", zap.Error(err))
		}
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn("redis unreachable; cache and rate limiting disabled")
	} else {
		defer rdb.Close()
	}
	cacheCfg := config.LoadCacheConfig()
	rateCfg := config.LoadRateLimitConfig()

	m := metrics.New()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	listings := repository.NewListingRepo(db)
	reviews := repository.NewReviewRepo(db)
	bookings := repository.NewBookingRepo(db)
	payments := repository.NewPaymentRepo(db)

	gw := gateway.NewClient(cfg.Gateway, gateway.WithMetrics(m), gateway.WithLogger(logger.Named("gateway")))

	opts := []service.PaymentOption{
		service.WithPaymentMetrics(m),
		service.WithPaymentLogger(logger.Named("payments")),
	}
	if cfg.RabbitMQ.EventsEnabled {
		pub := queue.NewPublisher(cfg.RabbitMQ.URL, logger.Named("publisher"))
		go pub.Run(ctx)
		opts = append(opts, service.WithPublisher(pub))
		go func() {
			if err := queue.StartPaymentConsumer(ctx, cfg.RabbitMQ.URL, cfg.LogDir, logger); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("payment consumer stopped", zap.Error(err))
			}
		}()
	}
	paymentSvc := service.NewPaymentService(bookings, payments, users, gw, cfg.Payment, opts...)
	bookingSvc := service.NewBookingService(bookings, listings)
	listingSvc := service.NewListingService(listings, reviews)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger.Named("http")))

	limiter := middleware.NewTokenBucket(rateCfg, rdb, logger.Named("ratelimit"))
	cache := middleware.NewRedisCache(cacheCfg, rdb, logger.Named("cache"))

	paymentH := handler.NewPaymentHandler(paymentSvc, payments, bookingSvc, logger)
	router.RegisterRoutes(e, db, m.Handler())
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens, logger), cfg.JWTSecret, limiter)
	router.RegisterUsers(e, handler.NewUserHandler(users, logger), cfg.JWTSecret)
	router.RegisterListings(e, handler.NewListingHandler(listingSvc, rdb, cacheCfg.Prefix, logger), cfg.JWTSecret, cache)
	router.RegisterBookings(e, handler.NewBookingHandler(bookingSvc, logger), paymentH, cfg.JWTSecret)
	router.RegisterPayments(e, paymentH, cfg.JWTSecret, limiter)

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
