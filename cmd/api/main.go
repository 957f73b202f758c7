package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/noah-isme/ecs-booking-api/api/swagger"
	"github.com/noah-isme/ecs-booking-api/internal/handler"
	"github.com/noah-isme/ecs-booking-api/internal/middleware"
	"github.com/noah-isme/ecs-booking-api/internal/repository"
	"github.com/noah-isme/ecs-booking-api/internal/service"
	"github.com/noah-isme/ecs-booking-api/migrations"
	"github.com/noah-isme/ecs-booking-api/pkg/cache"
	"github.com/noah-isme/ecs-booking-api/pkg/config"
	"github.com/noah-isme/ecs-booking-api/pkg/database"
	"github.com/noah-isme/ecs-booking-api/pkg/logger"
)

// @title ECS Booking API
// @version 1.0.0
// @description Appointment availability and booking service for Excel Community School
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(db.DB); err != nil {
			logr.Sugar().Fatalw("failed to run migrations", "error", err)
		}
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching and rate limiting disabled", "error", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	availabilityRepo := repository.NewAvailabilityRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	userRepo := repository.NewUserRepository(db)

	metricsSvc := service.NewMetricsService()

	var slotCache *service.RedisSlotCache
	if redisClient != nil {
		slotCache = service.NewRedisSlotCache(redisClient, cfg.Availability.CacheTTL, logr)
	}

	resolverCfg := service.ResolverConfig{
		DefaultSlots:    cfg.Availability.DefaultSlots,
		WeekendDefaults: cfg.Availability.WeekendDefaults,
	}

	var availabilitySvc *service.AvailabilityService
	if slotCache != nil {
		availabilitySvc = service.NewAvailabilityService(availabilityRepo, bookingRepo, slotCache, resolverCfg, logr)
	} else {
		availabilitySvc = service.NewAvailabilityService(availabilityRepo, bookingRepo, nil, resolverCfg, logr)
	}

	notificationSvc := service.NewNotificationService(
		service.NewLogMailer(logr),
		notificationRepo,
		service.NotificationConfig{
			Enabled:     cfg.Notifications.Enabled,
			FromAddress: cfg.Notifications.FromAddress,
			AdminEmail:  cfg.Notifications.AdminEmail,
			SchoolName:  cfg.School.Name,
			SchoolPhone: cfg.School.Phone,
			SchoolEmail: cfg.School.Email,
		},
		cfg.Notifications.WorkerConcurrency,
		logr,
	)

	refs := service.NewReferenceGenerator(cfg.Booking.ReferencePrefix, cfg.Booking.ReferenceMaxAttempts)
	bookingSvc := service.NewBookingService(bookingRepo, availabilitySvc, notificationSvc, refs, metricsSvc, nil, logr)
	adminAvailabilitySvc := service.NewAvailabilityAdminService(availabilityRepo, availabilitySvc, nil, logr)
	authSvc := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration, cfg.JWT.Issuer, nil, logr)
	contactSvc := service.NewContactService(notificationSvc, nil, logr)

	deps := handler.Deps{
		Cfg:               cfg,
		Logger:            logr,
		Auth:              authSvc,
		Metrics:           metricsSvc,
		Availability:      handler.NewAvailabilityHandler(availabilitySvc),
		Bookings:          handler.NewBookingHandler(bookingSvc),
		Contact:           handler.NewContactHandler(contactSvc),
		AuthHandler:       handler.NewAuthHandler(authSvc),
		AdminAvailability: handler.NewAdminAvailabilityHandler(adminAvailabilitySvc),
		AdminBookings:     handler.NewAdminBookingHandler(bookingSvc),
		ReadyCheck: func(ctx context.Context) error {
			return db.PingContext(ctx)
		},
	}
	if cfg.RateLimit.Enabled && redisClient != nil {
		deps.RateLimiter = middleware.RateLimit(
			middleware.NewRedisCounter(redisClient),
			int64(cfg.RateLimit.MaxRequests),
			cfg.RateLimit.Window,
			logr,
		)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notificationSvc.Start(ctx)
	defer notificationSvc.Stop()

	router := handler.NewRouter(deps)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Errorw("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
}
