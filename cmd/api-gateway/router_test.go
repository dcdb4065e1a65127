package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-performance-api/internal/service"
	"github.com/noah-isme/academic-performance-api/pkg/config"
)

func testRouter(exports bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Env: config.EnvProduction, APIPrefix: "api/v1/"}
	svc := routerServices{
		metrics: service.NewMetricsService(),
		checks:  map[string]readinessCheck{"postgres": func(context.Context) error { return nil }},
	}
	if exports {
		svc.exports = service.NewExportService(nil, nil, nil, nil)
	}
	return newRouter(cfg, zap.NewNop(), svc)
}

func serve(r *gin.Engine, method, path string) int {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w.Code
}

func TestRouterProbes(t *testing.T) {
	r := testRouter(false)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/health"))
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/ready"))
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/metrics"))
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/docs/index.html"))
}

func TestRouterProtectsAnalytics(t *testing.T) {
	r := testRouter(true)
	for _, path := range []string{
		"/api/v1/analytics/performance",
		"/api/v1/analytics/attendance",
		"/api/v1/analytics/student/me",
		"/api/v1/analytics/student/me/export",
		"/api/v1/grades",
		"/api/v1/attendance",
		"/api/v1/students",
		"/api/v1/auth/me",
	} {
		assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, path), path)
	}
}

func TestRouterExportToggle(t *testing.T) {
	r := testRouter(false)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/api/v1/analytics/student/me/export"))
}
