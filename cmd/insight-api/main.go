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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hakwon-labs/academy-insight-api/internal/handler"
	"github.com/hakwon-labs/academy-insight-api/internal/llm"
	"github.com/hakwon-labs/academy-insight-api/internal/middleware"
	"github.com/hakwon-labs/academy-insight-api/internal/models"
	"github.com/hakwon-labs/academy-insight-api/internal/repository"
	"github.com/hakwon-labs/academy-insight-api/internal/service"
	"github.com/hakwon-labs/academy-insight-api/pkg/cache"
	"github.com/hakwon-labs/academy-insight-api/pkg/config"
	"github.com/hakwon-labs/academy-insight-api/pkg/database"
	"github.com/hakwon-labs/academy-insight-api/pkg/export"
	"github.com/hakwon-labs/academy-insight-api/pkg/jobs"
	"github.com/hakwon-labs/academy-insight-api/pkg/logger"
	corsmiddleware "github.com/hakwon-labs/academy-insight-api/pkg/middleware/cors"
	reqidmiddleware "github.com/hakwon-labs/academy-insight-api/pkg/middleware/requestid"
	"github.com/hakwon-labs/academy-insight-api/pkg/ratelimit"
	"github.com/hakwon-labs/academy-insight-api/pkg/storage"
)

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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	var cacheRepo *repository.CacheRepository
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
		defer cacheRepo.Close() //nolint:errcheck
	}

	generator, err := llm.NewGeminiClient(ctx, cfg.Generator, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to init generator client", "error", err)
	}

	files, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init report storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)

	surveyRepo := repository.NewSurveyRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	tokenRepo := repository.NewReportTokenRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	userRepo := repository.NewUserRepository(db)

	metrics := service.NewMetricsService()
	limiter := ratelimit.New(cfg.RateLimit.CleanupInterval)

	renderService := service.NewReportRenderService(assessmentRepo, surveyRepo, export.NewReportPDFExporter(), files, logr)
	renderQueue := jobs.NewQueue("report-render", renderService.HandleJob, jobs.QueueConfig{
		Workers:    cfg.Reports.RenderConcurrency,
		MaxRetries: cfg.Reports.RenderRetries,
		Logger:     logr,
	})
	renderQueue.Start(ctx)
	defer renderQueue.Stop()

	authService := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	var surveyService *service.SurveyService
	if cacheRepo != nil {
		surveyService = service.NewSurveyService(surveyRepo, limiter, cacheRepo, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window, logr)
	} else {
		surveyService = service.NewSurveyService(surveyRepo, limiter, nil, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window, logr)
	}
	var analysisService *service.AnalysisService
	if cacheRepo != nil {
		analysisService = service.NewAnalysisService(surveyRepo, assessmentRepo, generator, renderQueue, metrics, cacheRepo, logr)
	} else {
		analysisService = service.NewAnalysisService(surveyRepo, assessmentRepo, generator, renderQueue, metrics, nil, logr)
	}
	shareService := service.NewReportShareService(tokenRepo, assessmentRepo, enrollmentRepo, surveyRepo, signer, cfg.Reports.ShareTokenTTL, logr)
	exportService := service.NewExportService(surveyRepo, nil, logr)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, nil, logr)

	authHandler := handler.NewAuthHandler(authService)
	surveyHandler := handler.NewSurveyHandler(surveyService, exportService, metrics)
	analysisHandler := handler.NewAnalysisHandler(analysisService, shareService)
	reportHandler := handler.NewReportHandler(shareService, signer, files)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService)
	metricsHandler := handler.NewMetricsHandler(metrics)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	{
		// Public surface: intake and share resolution.
		api.POST("/surveys", surveyHandler.Submit)
		api.GET("/reports/download", reportHandler.Download)
		api.GET("/reports/:token", reportHandler.Resolve)

		api.POST("/auth/login", authHandler.Login)

		staff := api.Group("")
		staff.Use(middleware.JWT(authService))
		{
			staff.GET("/auth/me", authHandler.Me)
			staff.GET("/surveys", surveyHandler.List)
			staff.GET("/surveys/export", surveyHandler.ExportCSV)
			staff.GET("/surveys/:id", surveyHandler.Get)
			staff.POST("/surveys/:id/analysis", analysisHandler.Analyze)
			staff.GET("/surveys/:id/assessments", analysisHandler.History)
			staff.GET("/assessments/:id", analysisHandler.GetAssessment)
			staff.POST("/assessments/:id/share", analysisHandler.Share)
			staff.POST("/enrollments", middleware.RequireRoles(models.RoleAdmin, models.RoleConsultant), enrollmentHandler.Create)
			staff.GET("/enrollments/:id", enrollmentHandler.Get)
		}
	}

	go janitor(ctx, logr, tokenRepo, files, cfg.Reports.ShareTokenTTL)

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown incomplete", "error", err)
	}
}

// janitor drops share tokens and report files that have aged past the share
// window. Files get an extra week so a token resolved near expiry can still
// serve its download.
func janitor(ctx context.Context, logr *zap.Logger, tokens *repository.ReportTokenRepository, files *storage.LocalStorage, shareTTL time.Duration) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := tokens.DeleteIssuedBefore(ctx, time.Now().Add(-shareTTL)); err != nil {
				logr.Warn("share token cleanup failed", zap.Error(err))
			} else if n > 0 {
				logr.Info("expired share tokens removed", zap.Int64("count", n))
			}
			if removed, err := files.CleanupOlderThan(shareTTL + 7*24*time.Hour); err != nil {
				logr.Warn("report file cleanup failed", zap.Error(err))
			} else if len(removed) > 0 {
				logr.Info("stale report files removed", zap.Int("count", len(removed)))
			}
		}
	}
}
