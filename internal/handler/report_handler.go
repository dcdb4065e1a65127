package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-performance-api/internal/models"
	appErrors "github.com/noah-isme/academic-performance-api/pkg/errors"
	"github.com/noah-isme/academic-performance-api/pkg/response"
)

type reportExporter interface {
	StudentReport(ctx context.Context, principal models.Principal, studentID string, format models.ReportFormat) (*models.ExportFile, error)
}

// ReportHandler streams rendered student reports.
type ReportHandler struct {
	exports reportExporter
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(exports reportExporter) *ReportHandler {
	return &ReportHandler{exports: exports}
}

// ExportStudentReport godoc
// @Summary Download student report
// @Tags Analytics
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Student ID or me"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /analytics/student/{id}/export [get]
func (h *ReportHandler) ExportStudentReport(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	format, ok := models.ParseReportFormat(c.Query("format"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
		return
	}

	file, err := h.exports.StudentReport(c.Request.Context(), principal, c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}
