package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/hallticket-portal/api/swagger"
	"github.com/noah-isme/hallticket-portal/internal/app"
	"github.com/noah-isme/hallticket-portal/internal/handler"
	"github.com/noah-isme/hallticket-portal/internal/middleware"
	"github.com/noah-isme/hallticket-portal/pkg/config"
	"github.com/noah-isme/hallticket-portal/pkg/logger"
	corsmiddleware "github.com/noah-isme/hallticket-portal/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/hallticket-portal/pkg/middleware/requestid"
)

// @title Hall Ticket Portal API
// @version 1.0.0
// @description Student portal for exam schedules, verification status, rooms and hall tickets
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	if cfg.Session.Secret == "" {
		logr.Fatal("SESSION_SECRET must be set")
	}
	if cfg.Downloads.SignedURLSecret == "" {
		cfg.Downloads.SignedURLSecret = cfg.Session.Secret
	}

	portal, err := app.New(cfg, logr)
	if err != nil {
		logr.Fatal("failed to initialise store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer func() {
		if err := portal.Close(); err != nil {
			logr.Warn("failed to close connections", zap.Error(err))
		}
	}()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(portal.Metrics))

	metricsHandler := handler.NewMetricsHandler(portal.Metrics, portal.Checks)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	routes := handler.Routes{
		Auth:        handler.NewAuthHandler(portal.Auth),
		Student:     handler.NewStudentHandler(portal.Students),
		RecordSets:  handler.NewRecordSetHandler(portal.Catalog),
		Schedule:    handler.NewScheduleHandler(portal.Schedule, portal.Export),
		HallTickets: handler.NewHallTicketHandler(portal.HallTickets),
	}
	limiter := middleware.NewRateLimiter(cfg.RateLimit.LoginPerMinute, cfg.RateLimit.LoginBurst)
	routes.Register(r, cfg.APIPrefix, middleware.Session(portal.Auth), limiter.Middleware())

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logr.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Warn("server forced shutdown", zap.Error(err))
	}
}
