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
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/campus-complaints/api/swagger"
	"github.com/noah-isme/campus-complaints/internal/handler"
	internalmiddleware "github.com/noah-isme/campus-complaints/internal/middleware"
	"github.com/noah-isme/campus-complaints/internal/repository"
	"github.com/noah-isme/campus-complaints/internal/service"
	"github.com/noah-isme/campus-complaints/pkg/cache"
	"github.com/noah-isme/campus-complaints/pkg/config"
	"github.com/noah-isme/campus-complaints/pkg/database"
	"github.com/noah-isme/campus-complaints/pkg/jobs"
	"github.com/noah-isme/campus-complaints/pkg/logger"
	corsmiddleware "github.com/noah-isme/campus-complaints/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/campus-complaints/pkg/middleware/requestid"
)

// @title Campus Complaints API
// @version 1.0.0
// @description Student complaint submission and administrator resolution
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db); err != nil {
		logr.Fatal("failed to prepare schema", zap.Error(err))
	}

	metrics := service.NewMetricsService()
	validate := validator.New()
	deps := map[string]handler.Pinger{"postgres": db}

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, complaint list cache disabled", zap.Error(err))
		} else {
			cacheRepo := repository.NewCacheRepository(client, "campus-complaints:")
			defer cacheRepo.Close() //nolint:errcheck
			cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, true)
			retries := jobs.NewQueue("cache-invalidation", cacheSvc.HandleJob, jobs.QueueConfig{Logger: logr})
			retries.Start(ctx)
			defer retries.Stop()
			cacheSvc.UseRetryQueue(retries)
			deps["redis"] = handler.PingFunc(cacheRepo.Ping)
		}
	}

	authSvc := service.NewAuthService(repository.NewAccountRepository(db), validate, logr, metrics, service.AuthConfig{
		Secret: cfg.JWT.Secret,
		Expiry: cfg.JWT.Expiration,
	})
	if err := authSvc.SeedAdmin(ctx, cfg.Admin.ID, cfg.Admin.Password, cfg.Admin.Name); err != nil {
		logr.Fatal("failed to seed administrator", zap.Error(err))
	}
	complaintSvc := service.NewComplaintService(repository.NewComplaintRepository(db), cacheSvc, validate, logr, metrics)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(internalmiddleware.Metrics(metrics))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	handler.RegisterRoutes(r, handler.Routes{
		Auth:       handler.NewAuthHandler(authSvc),
		Complaints: handler.NewComplaintHandler(complaintSvc),
		Metrics:    handler.NewMetricsHandler(metrics, deps),
		Tokens:     authSvc,
		Logger:     logr,
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "cache", cacheSvc.Enabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}
