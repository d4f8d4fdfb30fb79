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

	_ "github.com/noah-isme/faculty-locator-api/api/swagger"
	"github.com/noah-isme/faculty-locator-api/internal/handler"
	internalmiddleware "github.com/noah-isme/faculty-locator-api/internal/middleware"
	"github.com/noah-isme/faculty-locator-api/internal/repository"
	"github.com/noah-isme/faculty-locator-api/internal/service"
	"github.com/noah-isme/faculty-locator-api/pkg/cache"
	"github.com/noah-isme/faculty-locator-api/pkg/config"
	"github.com/noah-isme/faculty-locator-api/pkg/jobs"
	"github.com/noah-isme/faculty-locator-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/faculty-locator-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/faculty-locator-api/pkg/middleware/requestid"
	"github.com/noah-isme/faculty-locator-api/pkg/storage"
)

// @title Faculty Locator API
// @version 1.0.0
// @description Generates weekly faculty timetables and predicts where a faculty member is on campus.
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()

	catalog, err := service.SlotCatalogFromConfig(cfg.Schedule)
	if err != nil {
		logr.Fatal("invalid slot catalog", zap.Error(err))
	}
	genCfg, err := service.GeneratorConfigFromSchedule(cfg.Schedule)
	if err != nil {
		logr.Fatal("invalid schedule overrides", zap.Error(err))
	}
	generator := service.NewScheduleGenerator(catalog, genCfg, metrics, logr.Named("generator"))
	logr.Info("schedule generator ready", zap.String("settings", generator.Describe()))

	directory := service.NewFacultyService(
		repository.NewFacultyRepository(),
		generator,
		service.FacultyServiceConfig{RoomScope: cfg.Schedule.RoomScope},
		nil,
		metrics,
		logr.Named("directory"),
	)
	if err := directory.Seed(ctx, cfg.Schedule.SeedNames); err != nil {
		logr.Fatal("failed to seed directory", zap.Error(err))
	}

	checks := map[string]handler.ReadinessCheck{}
	var cacheRepo service.CacheRepository
	if cfg.Exports.CacheEnabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, export cache disabled", zap.Error(err))
		} else {
			defer client.Close() //nolint:errcheck
			redisRepo := repository.NewCacheRepository(client, logr.Named("cache"))
			cacheRepo = redisRepo
			checks["redis"] = redisRepo.Ping
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Exports.CacheTTL, logr.Named("cache"), cacheRepo != nil)
	if err := cacheSvc.ResetExports(ctx); err != nil {
		logr.Warn("failed to reset export cache", zap.Error(err))
	}

	clock := service.SystemClock{Location: cfg.Schedule.Location()}
	location := service.NewLocationService(catalog, clock, directory, metrics, logr.Named("location"))
	exports := service.NewExportService(directory, cacheSvc, clock, service.ExportServiceConfig{
		Formats:      cfg.Exports.Formats,
		CacheTTL:     cfg.Exports.CacheTTL,
		CalendarName: cfg.Exports.CalendarName,
	}, metrics, logr.Named("export"))

	archiveStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Fatal("failed to prepare export storage", zap.Error(err))
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SigningSecret, cfg.Exports.URLTTL)
	jobRepo := repository.NewExportJobRepository()
	worker := service.NewExportJobWorker(jobRepo, exports, archiveStore, signer,
		cfg.APIPrefix+"/exports/download", cfg.Exports.MaxRetries, metrics, logr.Named("export-worker"))
	queue := jobs.NewQueue("timetable-exports", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Exports.Workers,
		MaxRetries: cfg.Exports.MaxRetries,
		RetryDelay: 2 * time.Second,
		Logger:     logr,
	})
	queue.Start(ctx)
	archives := service.NewExportJobService(jobRepo, directory, exports, queue, archiveStore, signer, service.ExportJobServiceConfig{
		ResultTTL:       cfg.Exports.URLTTL,
		CleanupInterval: cfg.Exports.CleanupInterval,
	}, metrics, logr.Named("export-jobs"))
	archives.StartCleanup(ctx)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))
	r.Use(internalmiddleware.WithResponseMeta())

	metricsHandler := handler.NewMetricsHandler(metrics, checks)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handler.Handlers{
		Faculty:  handler.NewFacultyHandler(directory),
		Location: handler.NewLocationHandler(location),
		Export:   handler.NewExportHandler(exports),
		Jobs:     handler.NewExportJobHandler(archives),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
	queue.Stop()
}
