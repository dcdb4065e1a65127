package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-performance-api/internal/middleware"
	"github.com/noah-isme/academic-performance-api/internal/models"
	appErrors "github.com/noah-isme/academic-performance-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.ClaimsFromContext(c)
}

func principalFromContext(c *gin.Context) (models.Principal, error) {
	principal, ok := models.PrincipalFromClaims(claimsFromContext(c))
	if !ok {
		return models.Principal{}, appErrors.ErrUnauthorized
	}
	return principal, nil
}

func userInfoFromClaims(claims *models.JWTClaims) models.UserInfo {
	return models.UserInfo{
		ID:       claims.UserID,
		Email:    claims.Email,
		FullName: claims.FullName,
		Role:     claims.Role,
	}
}

func scopeFromQuery(c *gin.Context) models.RecordScope {
	return models.RecordScope{
		StudentID:    strings.TrimSpace(c.Query("studentId")),
		CourseID:     strings.TrimSpace(c.Query("courseId")),
		Semester:     strings.TrimSpace(c.Query("semester")),
		AcademicYear: strings.TrimSpace(c.Query("academicYear")),
	}
}

func pageFromQuery(c *gin.Context) (page, size int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	return page, size
}

func parseDateQuery(c *gin.Context, key string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid "+key+", expected YYYY-MM-DD")
	}
	return &parsed, nil
}

func withProcessingTime(c *gin.Context, start time.Time) map[string]interface{} {
	middleware.SetMeta(c, "processing_time_ms", time.Since(start).Milliseconds())
	return middleware.ExtractMeta(c)
}
