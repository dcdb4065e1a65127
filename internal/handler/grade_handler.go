package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-performance-api/internal/models"
	"github.com/noah-isme/academic-performance-api/internal/service"
	appErrors "github.com/noah-isme/academic-performance-api/pkg/errors"
	"github.com/noah-isme/academic-performance-api/pkg/response"
)

// GradeHandler exposes grade endpoints.
type GradeHandler struct {
	grades *service.GradeService
}

// NewGradeHandler constructs handler.
func NewGradeHandler(grades *service.GradeService) *GradeHandler {
	return &GradeHandler{grades: grades}
}

// List godoc
// @Summary List grade records
// @Tags Grades
// @Produce json
// @Param studentId query string false "Filter by student (administrators only)"
// @Param courseId query string false "Filter by course"
// @Param semester query string false "Filter by semester"
// @Param academicYear query string false "Filter by academic year"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /grades [get]
func (h *GradeHandler) List(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := models.GradeFilter{RecordScope: scopeFromQuery(c)}
	filter.Page, filter.PageSize = pageFromQuery(c)

	grades, pagination, err := h.grades.List(c.Request.Context(), principal, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grades, pagination)
}

// Create godoc
// @Summary Record grade
// @Tags Grades
// @Accept json
// @Produce json
// @Param payload body service.CreateGradeRequest true "Grade payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /grades [post]
func (h *GradeHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.CreateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	grade, err := h.grades.Create(c.Request.Context(), req, userInfoFromClaims(claims))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, grade)
}

// Delete godoc
// @Summary Delete grade record
// @Tags Grades
// @Param id path string true "Grade ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /grades/{id} [delete]
func (h *GradeHandler) Delete(c *gin.Context) {
	if err := h.grades.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
