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
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-performance-api/internal/analytics"
	"github.com/noah-isme/academic-performance-api/internal/repository"
	"github.com/noah-isme/academic-performance-api/internal/service"
	"github.com/noah-isme/academic-performance-api/pkg/cache"
	"github.com/noah-isme/academic-performance-api/pkg/config"
	"github.com/noah-isme/academic-performance-api/pkg/database"
	"github.com/noah-isme/academic-performance-api/pkg/logger"
	"github.com/noah-isme/academic-performance-api/pkg/validation"
)

// @title Academic Performance API
// @version 1.0.0
// @description Student grade and attendance analytics
// @BasePath /api/v1
// @schemes http
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, access token revocation disabled", zap.Error(err))
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	calendar, err := analytics.NewMonthCalendar(cfg.Analytics.Timezone, cfg.Analytics.Locale)
	if err != nil {
		logr.Fatal("invalid analytics calendar", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)

	checks := map[string]readinessCheck{"postgres": db.PingContext}
	var mongoDB *mongo.Database
	if cfg.Analytics.Source == config.SourceMongo {
		mongoClient, mdb, err := database.NewMongo(ctx, cfg.Mongo)
		if err != nil {
			logr.Fatal("failed to connect mongo", zap.Error(err))
		}
		defer mongoClient.Disconnect(context.Background()) //nolint:errcheck

		mongoDB = mdb
		checks["mongo"] = func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) }
	}
	stores := newRecordStores(cfg.Analytics.Source, db, mongoDB)
	if redisClient != nil {
		checks["redis"] = cacheRepo.Ping
	}

	validate := validation.New()
	metrics := service.NewMetricsService()
	revocations := service.NewTokenRevocationService(cacheRepo, metrics, logr)

	authSvc := service.NewAuthService(userRepo, revocations, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
		SingleSession:      cfg.JWT.SingleSession,
	})
	analyticsSvc := service.NewAnalyticsService(stores.grades, stores.attendance, stores.students, metrics, logr, service.AnalyticsConfig{
		UnknownGradePolicy: analytics.ParseUnknownGradePolicy(cfg.Analytics.UnknownGradePolicy),
		Calendar:           calendar,
		FetchTimeout:       cfg.Analytics.FetchTimeout,
	})

	services := routerServices{
		auth:       authSvc,
		analytics:  analyticsSvc,
		students:   service.NewStudentService(stores.students, validate, logr),
		grades:     service.NewGradeService(stores.grades, stores.students, analyticsSvc, validate, logr),
		attendance: service.NewAttendanceService(stores.attendance, stores.students, analyticsSvc, validate, logr),
		metrics:    metrics,
		checks:     checks,
	}
	if cfg.Exports.Enabled {
		services.exports = service.NewExportService(analyticsSvc, logr, nil, nil)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           newRouter(cfg, logr, services),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.String("analytics_source", cfg.Analytics.Source),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
