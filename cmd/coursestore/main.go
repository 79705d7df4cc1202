package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/course-portal/api/swagger"
	"github.com/noah-isme/course-portal/internal/handler"
	"github.com/noah-isme/course-portal/internal/middleware"
	"github.com/noah-isme/course-portal/internal/models"
	"github.com/noah-isme/course-portal/internal/repository"
	"github.com/noah-isme/course-portal/internal/service"
	"github.com/noah-isme/course-portal/internal/session"
	"github.com/noah-isme/course-portal/pkg/cache"
	"github.com/noah-isme/course-portal/pkg/config"
	"github.com/noah-isme/course-portal/pkg/database"
	"github.com/noah-isme/course-portal/pkg/jobs"
	"github.com/noah-isme/course-portal/pkg/logger"
	corsmiddleware "github.com/noah-isme/course-portal/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/course-portal/pkg/middleware/requestid"
	"github.com/noah-isme/course-portal/pkg/storage"
)

// @title Course Store API
// @version 1.0.0
// @description Remote course store serving the course portal
// @BasePath /api
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db, repository.Schema); err != nil {
		logr.Fatal("failed to apply schema", zap.Error(err))
	}

	metrics := service.NewMetricsService()
	deps := map[string]handler.Pinger{"postgres": db}

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, course list cache disabled", zap.Error(err))
		} else {
			defer client.Close()
			repo := repository.NewCacheRepository(redis.UniversalClient(client), logr)
			cacheRepo = repo
			deps["redis"] = handler.PingFunc(repo.Ping)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled)

	validate := models.NewValidator()
	courseRepo := repository.NewCourseRepository(db)
	sectionRepo := repository.NewSectionRepository(db)

	courseSvc := service.NewCourseService(courseRepo, cacheSvc, metrics, validate, logr)
	if cacheSvc.Enabled() {
		// One worker keeps refills in mutation order.
		refills := jobs.NewQueue("course-cache", func(ctx context.Context, job jobs.Job) error {
			return courseSvc.Warm(ctx, job.Key)
		}, jobs.QueueConfig{Workers: 1, MaxRetries: 3, RetryDelay: 2 * time.Second, Logger: logr})
		refills.Start(ctx)
		defer refills.Stop()
		courseSvc.WithRefresher(refills)
	}
	sectionSvc := service.NewSectionService(sectionRepo, courseRepo, metrics, validate, logr)
	contentSvc := service.NewContentService(repository.NewContentRepository(db), sectionRepo, metrics, validate, logr)
	submissionSvc := service.NewSubmissionService(repository.NewAssignmentRepository(db), repository.NewProgressRepository(db), metrics, validate, logr)
	exports, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Fatal("failed to prepare export storage", zap.Error(err))
	}
	signer := storage.NewLinkSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	reportSvc := service.NewReportService(repository.NewProgressRepository(db), exports, signer, metrics, logr, strings.TrimRight(cfg.APIPrefix, "/")+"/exports")

	handlers := handler.Handlers{
		Courses:     handler.NewCourseHandler(courseSvc),
		Sections:    handler.NewSectionHandler(sectionSvc, contentSvc),
		Submissions: handler.NewSubmissionHandler(submissionSvc),
		Reports:     handler.NewReportHandler(reportSvc),
	}
	metricsHandler := handler.NewMetricsHandler(metrics, deps)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	tokens := session.NewTokens(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.OptionalJWT(tokens))
	var guard []gin.HandlerFunc
	if cfg.JWT.Enforce {
		guard = append(guard, middleware.JWT(tokens), middleware.RequireRoles(middleware.Staff...))
	}
	handler.Register(api, handlers, guard...)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "enforce_auth", cfg.JWT.Enforce)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
