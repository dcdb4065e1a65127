package main

import (
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/academic-performance-api/api/swagger"
	"github.com/noah-isme/academic-performance-api/internal/handler"
	"github.com/noah-isme/academic-performance-api/internal/middleware"
	"github.com/noah-isme/academic-performance-api/internal/models"
	"github.com/noah-isme/academic-performance-api/internal/service"
	"github.com/noah-isme/academic-performance-api/pkg/config"
	"github.com/noah-isme/academic-performance-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/academic-performance-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/academic-performance-api/pkg/middleware/requestid"
)

type readinessCheck = handler.ReadinessCheck

type routerServices struct {
	auth       *service.AuthService
	analytics  *service.AnalyticsService
	exports    *service.ExportService
	students   *service.StudentService
	grades     *service.GradeService
	attendance *service.AttendanceService
	metrics    *service.MetricsService
	checks     map[string]readinessCheck
}

func newRouter(cfg *config.Config, logr *zap.Logger, svc routerServices) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(svc.metrics))

	metricsHandler := handler.NewMetricsHandler(svc.metrics, svc.checks)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	prefix := "/" + strings.Trim(cfg.APIPrefix, "/")
	if prefix == "/" {
		prefix = "/api/v1"
	}
	api := r.Group(prefix)
	api.Use(middleware.WithResponseMeta())

	authHandler := handler.NewAuthHandler(svc.auth)
	authGroup := api.Group("/auth")
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.Refresh)

	secured := api.Group("")
	secured.Use(middleware.JWT(svc.auth))
	secured.POST("/auth/logout", authHandler.Logout)
	secured.GET("/auth/me", authHandler.Me)

	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher)

	analyticsHandler := handler.NewAnalyticsHandler(svc.analytics)
	analyticsGroup := secured.Group("/analytics")
	analyticsGroup.GET("/performance", analyticsHandler.Performance)
	analyticsGroup.GET("/attendance", analyticsHandler.Attendance)
	analyticsGroup.GET("/student/:id", analyticsHandler.StudentReport)
	if svc.exports != nil {
		reportHandler := handler.NewReportHandler(svc.exports)
		analyticsGroup.GET("/student/:id/export", reportHandler.ExportStudentReport)
	}

	studentHandler := handler.NewStudentHandler(svc.students)
	students := secured.Group("/students", staff)
	students.GET("", studentHandler.List)
	students.POST("", studentHandler.Create)
	students.GET("/:id", studentHandler.Get)

	gradeHandler := handler.NewGradeHandler(svc.grades)
	secured.GET("/grades", gradeHandler.List)
	secured.POST("/grades", staff, gradeHandler.Create)
	secured.DELETE("/grades/:id", staff, gradeHandler.Delete)

	attendanceHandler := handler.NewAttendanceHandler(svc.attendance)
	secured.GET("/attendance", attendanceHandler.List)
	secured.POST("/attendance", staff, attendanceHandler.Create)
	secured.DELETE("/attendance/:id", staff, attendanceHandler.Delete)

	return r
}
