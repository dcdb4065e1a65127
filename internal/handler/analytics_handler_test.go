package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-performance-api/internal/middleware"
	"github.com/noah-isme/academic-performance-api/internal/models"
	appErrors "github.com/noah-isme/academic-performance-api/pkg/errors"
)

type analyticsServiceMock struct {
	principal   models.Principal
	query       models.AnalyticsQuery
	studentID   string
	performance *models.PerformanceMetrics
	attendance  *models.AttendanceStatistics
	report      *models.StudentReport
	err         error
}

func (m *analyticsServiceMock) Performance(_ context.Context, principal models.Principal, query models.AnalyticsQuery) (*models.PerformanceMetrics, error) {
	m.principal, m.query = principal, query
	return m.performance, m.err
}

func (m *analyticsServiceMock) Attendance(_ context.Context, principal models.Principal, query models.AnalyticsQuery) (*models.AttendanceStatistics, error) {
	m.principal, m.query = principal, query
	return m.attendance, m.err
}

func (m *analyticsServiceMock) StudentReport(_ context.Context, principal models.Principal, studentID string) (*models.StudentReport, error) {
	m.principal, m.studentID = principal, studentID
	return m.report, m.err
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func withClaims(c *gin.Context, userID string, role models.UserRole) {
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: userID, Role: role, FullName: "Caller " + userID})
}

type envelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *appErrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestAnalyticsHandlerPerformance(t *testing.T) {
	mock := &analyticsServiceMock{performance: &models.PerformanceMetrics{
		OverallGPA:  3.5,
		SemesterGPA: map[string]float64{"Fall 2023-2024": 3.5},
		TrendData:   models.TrendData{Semesters: []string{"Fall 2023-2024"}, AverageGrades: []float64{90}},
	}}
	h := NewAnalyticsHandler(mock)

	c, w := newGinContext(http.MethodGet, "/analytics/performance?courseId=CS101&semester=Fall&academicYear=2023-2024&studentId=s9", nil)
	withClaims(c, "u1", models.RoleStudent)
	h.Performance(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StudentPrincipal("u1"), mock.principal)
	assert.Equal(t, models.AnalyticsQuery{StudentID: "s9", CourseID: "CS101", Semester: "Fall", AcademicYear: "2023-2024"}, mock.query)

	env := decodeEnvelope(t, w)
	assert.Contains(t, env.Meta, "processing_time_ms")
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 3.5, data["overallGPA"])
	assert.Contains(t, data, "semesterGPA")
	assert.Contains(t, data, "trendData")
}

func TestAnalyticsHandlerTeacherReadsAsAdministrator(t *testing.T) {
	mock := &analyticsServiceMock{attendance: &models.AttendanceStatistics{OverallAttendanceRate: 75}}
	h := NewAnalyticsHandler(mock)

	c, w := newGinContext(http.MethodGet, "/analytics/attendance", nil)
	withClaims(c, "t1", models.RoleTeacher)
	h.Attendance(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.AdministratorPrincipal("t1"), mock.principal)
}

func TestAnalyticsHandlerNotFoundMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code string
	}{
		{"profile not linked", appErrors.ErrStudentProfileNotLinked, "STUDENT_PROFILE_NOT_LINKED"},
		{"student not found", appErrors.ErrStudentNotFound, "STUDENT_NOT_FOUND"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewAnalyticsHandler(&analyticsServiceMock{err: tc.err})
			c, w := newGinContext(http.MethodGet, "/analytics/student/me", nil)
			c.Params = gin.Params{{Key: "id", Value: "me"}}
			withClaims(c, "u1", models.RoleStudent)
			h.StudentReport(c)

			require.Equal(t, http.StatusNotFound, w.Code)
			env := decodeEnvelope(t, w)
			require.NotNil(t, env.Error)
			assert.Equal(t, tc.code, env.Error.Code)
		})
	}
}

func TestAnalyticsHandlerStudentReport(t *testing.T) {
	mock := &analyticsServiceMock{report: &models.StudentReport{Student: models.Student{ID: "s1", FullName: "Ada"}}}
	h := NewAnalyticsHandler(mock)

	c, w := newGinContext(http.MethodGet, "/analytics/student/s1", nil)
	c.Params = gin.Params{{Key: "id", Value: "s1"}}
	withClaims(c, "admin", models.RoleAdmin)
	h.StudentReport(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "s1", mock.studentID)
	var data map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &data))
	assert.Contains(t, data, "student")
	assert.Contains(t, data, "academicPerformance")
	assert.Contains(t, data, "attendanceRecord")
}

func TestAnalyticsHandlerRequiresClaims(t *testing.T) {
	h := NewAnalyticsHandler(&analyticsServiceMock{})
	c, w := newGinContext(http.MethodGet, "/analytics/performance", nil)
	h.Performance(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAnalyticsHandlerUpstreamFailure(t *testing.T) {
	h := NewAnalyticsHandler(&analyticsServiceMock{err: context.DeadlineExceeded})
	c, w := newGinContext(http.MethodGet, "/analytics/performance", nil)
	withClaims(c, "admin", models.RoleAdmin)
	h.Performance(c)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
