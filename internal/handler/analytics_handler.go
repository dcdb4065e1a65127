package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-performance-api/internal/models"
	"github.com/noah-isme/academic-performance-api/pkg/response"
)

type analyticsService interface {
	Performance(ctx context.Context, principal models.Principal, query models.AnalyticsQuery) (*models.PerformanceMetrics, error)
	Attendance(ctx context.Context, principal models.Principal, query models.AnalyticsQuery) (*models.AttendanceStatistics, error)
	StudentReport(ctx context.Context, principal models.Principal, studentID string) (*models.StudentReport, error)
}

// AnalyticsHandler exposes the performance, attendance and student report endpoints.
type AnalyticsHandler struct {
	analytics analyticsService
}

// NewAnalyticsHandler constructs the analytics handler.
func NewAnalyticsHandler(analytics analyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Performance godoc
// @Summary Performance metrics
// @Description GPA, per-course statistics and semester trend for the caller's scope
// @Tags Analytics
// @Produce json
// @Param studentId query string false "Student profile (administrators only)"
// @Param courseId query string false "Course filter"
// @Param semester query string false "Semester filter"
// @Param academicYear query string false "Academic year filter"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /analytics/performance [get]
func (h *AnalyticsHandler) Performance(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	metrics, err := h.analytics.Performance(c.Request.Context(), principal, analyticsQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, metrics, nil, withProcessingTime(c, start))
}

// Attendance godoc
// @Summary Attendance statistics
// @Description Attendance rates per course and month for the caller's scope
// @Tags Analytics
// @Produce json
// @Param studentId query string false "Student profile (administrators only)"
// @Param courseId query string false "Course filter"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /analytics/attendance [get]
func (h *AnalyticsHandler) Attendance(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	stats, err := h.analytics.Attendance(c.Request.Context(), principal, analyticsQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil, withProcessingTime(c, start))
}

// StudentReport godoc
// @Summary Student report
// @Description Composite academic and attendance report for one student. Students may pass "me".
// @Tags Analytics
// @Produce json
// @Param id path string true "Student ID or me"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /analytics/student/{id} [get]
func (h *AnalyticsHandler) StudentReport(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	report, err := h.analytics.StudentReport(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil, withProcessingTime(c, start))
}

func analyticsQuery(c *gin.Context) models.AnalyticsQuery {
	scope := scopeFromQuery(c)
	return models.AnalyticsQuery{
		StudentID:    scope.StudentID,
		CourseID:     scope.CourseID,
		Semester:     scope.Semester,
		AcademicYear: scope.AcademicYear,
	}
}
