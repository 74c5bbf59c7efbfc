package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/ensino-labs/agenda-api/api/swagger"
	"github.com/ensino-labs/agenda-api/internal/handler"
	"github.com/ensino-labs/agenda-api/internal/middleware"
	"github.com/ensino-labs/agenda-api/internal/repository"
	"github.com/ensino-labs/agenda-api/internal/service"
	"github.com/ensino-labs/agenda-api/pkg/cache"
	"github.com/ensino-labs/agenda-api/pkg/config"
	"github.com/ensino-labs/agenda-api/pkg/database"
	"github.com/ensino-labs/agenda-api/pkg/dateutil"
	"github.com/ensino-labs/agenda-api/pkg/logger"
	corsmiddleware "github.com/ensino-labs/agenda-api/pkg/middleware/cors"
	reqidmiddleware "github.com/ensino-labs/agenda-api/pkg/middleware/requestid"
)

// @title Agenda API
// @version 0.1.0
// @description Teacher availability and course scheduling engine
// @BasePath /
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

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, calendar caching disabled", zap.Error(err))
		redisClient = nil
	}

	holidayRepo := repository.NewHolidayRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(service.AuthConfig{AccessTokenSecret: cfg.JWT.Secret}, logr)
	holidaySvc := service.NewHolidayService(holidayRepo, nil, logr)
	availabilitySvc := service.NewAvailabilityService(availabilityRepo, cacheRepo, nil, logr)
	slotSvc := service.NewSlotService(availabilityRepo, holidaySvc, bookingRepo, cacheRepo, metricsSvc, service.SlotServiceConfig{
		CalendarCacheTTL:   cfg.Scheduling.CalendarCacheTTL,
		NextSlotWindowDays: cfg.Scheduling.NextSlotWindowDays,
	}, logr)
	bookingSvc := service.NewBookingService(bookingRepo, availabilityRepo, holidaySvc, nil, logr)

	defaultStart, err := dateutil.ParseClock(cfg.Scheduling.DefaultSessionStart)
	if err != nil {
		logr.Sugar().Fatalw("invalid DEFAULT_SESSION_START", "error", err)
	}
	projectionSvc := service.NewProjectionService(holidaySvc, availabilityRepo, service.ProjectionServiceConfig{
		MaxDays:             cfg.Scheduling.ProjectionMaxDays,
		DefaultSessionStart: defaultStart,
	}, nil, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, authSvc, handler.Registry{
		Holidays:     handler.NewHolidayHandler(holidaySvc),
		Availability: handler.NewAvailabilityHandler(availabilitySvc),
		Slots:        handler.NewSlotHandler(slotSvc),
		Bookings:     handler.NewBookingHandler(bookingSvc, metricsSvc),
		Projection:   handler.NewProjectionHandler(projectionSvc),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
