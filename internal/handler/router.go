package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/ecs-booking-api/internal/middleware"
	"github.com/noah-isme/ecs-booking-api/internal/service"
	"github.com/noah-isme/ecs-booking-api/pkg/config"
	"github.com/noah-isme/ecs-booking-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/ecs-booking-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/ecs-booking-api/pkg/middleware/requestid"
)

// Deps carries everything the router mounts.
type Deps struct {
	Cfg    *config.Config
	Logger *zap.Logger

	Auth    *service.AuthService
	Metrics *service.MetricsService

	Availability      *AvailabilityHandler
	Bookings          *BookingHandler
	Contact           *ContactHandler
	AuthHandler       *AuthHandler
	AdminAvailability *AdminAvailabilityHandler
	AdminBookings     *AdminBookingHandler

	// RateLimiter throttles public write endpoints; nil disables throttling.
	RateLimiter gin.HandlerFunc

	// ReadyCheck reports whether downstream dependencies are reachable.
	ReadyCheck func(ctx context.Context) error
}

// NewRouter assembles the HTTP surface.
func NewRouter(deps Deps) *gin.Engine {
	if deps.Cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(deps.Cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if deps.ReadyCheck != nil {
			if err := deps.ReadyCheck(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	if deps.Cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	throttle := deps.RateLimiter
	if throttle == nil {
		throttle = func(c *gin.Context) { c.Next() }
	}

	api := r.Group(deps.Cfg.APIPrefix)
	{
		api.GET("/availability", deps.Availability.Get)
		api.POST("/bookings", throttle, deps.Bookings.Create)
		api.GET("/bookings/:reference", deps.Bookings.GetByReference)
		api.POST("/contact", throttle, deps.Contact.Submit)
		api.POST("/auth/login", throttle, deps.AuthHandler.Login)

		admin := api.Group("/admin", middleware.JWT(deps.Auth))
		{
			admin.GET("/availability", deps.AdminAvailability.ListOverrides)
			admin.PUT("/availability", deps.AdminAvailability.UpsertOverride)
			admin.POST("/availability/bulk", deps.AdminAvailability.BulkUpsert)
			admin.DELETE("/availability/:date", deps.AdminAvailability.ResetDate)
			admin.GET("/availability/patterns", deps.AdminAvailability.ListPatterns)
			admin.PUT("/availability/patterns/:day", deps.AdminAvailability.UpsertPattern)

			admin.GET("/bookings", deps.AdminBookings.List)
			admin.GET("/bookings/export", deps.AdminBookings.Export)
			admin.PATCH("/bookings/:id", deps.AdminBookings.Update)
		}
	}

	return r
}
