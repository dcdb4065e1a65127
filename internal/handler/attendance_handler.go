package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-performance-api/internal/models"
	"github.com/noah-isme/academic-performance-api/internal/service"
	appErrors "github.com/noah-isme/academic-performance-api/pkg/errors"
	"github.com/noah-isme/academic-performance-api/pkg/response"
)

// AttendanceHandler exposes attendance record endpoints.
type AttendanceHandler struct {
	attendance *service.AttendanceService
}

// NewAttendanceHandler constructs handler.
func NewAttendanceHandler(attendance *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// List godoc
// @Summary List attendance records
// @Tags Attendance
// @Produce json
// @Param studentId query string false "Filter by student (administrators only)"
// @Param courseId query string false "Filter by course"
// @Param status query string false "present, absent, late or excused"
// @Param dateFrom query string false "Start date (YYYY-MM-DD)"
// @Param dateTo query string false "End date (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := models.AttendanceFilter{RecordScope: scopeFromQuery(c)}
	filter.Page, filter.PageSize = pageFromQuery(c)
	if raw := strings.ToLower(strings.TrimSpace(c.Query("status"))); raw != "" {
		status := models.AttendanceStatus(raw)
		filter.Status = &status
	}
	if filter.DateFrom, err = parseDateQuery(c, "dateFrom"); err != nil {
		response.Error(c, err)
		return
	}
	if filter.DateTo, err = parseDateQuery(c, "dateTo"); err != nil {
		response.Error(c, err)
		return
	}

	records, pagination, err := h.attendance.List(c.Request.Context(), principal, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, pagination)
}

// Create godoc
// @Summary Record attendance
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.CreateAttendanceRequest true "Attendance payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /attendance [post]
func (h *AttendanceHandler) Create(c *gin.Context) {
	var req service.CreateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	record, err := h.attendance.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Delete godoc
// @Summary Delete attendance record
// @Tags Attendance
// @Param id path string true "Attendance ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /attendance/{id} [delete]
func (h *AttendanceHandler) Delete(c *gin.Context) {
	if err := h.attendance.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
