package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-performance-api/internal/models"
	appErrors "github.com/noah-isme/academic-performance-api/pkg/errors"
	"github.com/noah-isme/academic-performance-api/pkg/export"
)

type failingRenderer struct{}

func (failingRenderer) Render(export.Document) ([]byte, error) { return nil, errors.New("boom") }
func (failingRenderer) ContentType() string                    { return "text/plain" }
func (failingRenderer) Extension() string                      { return "txt" }

func newExportServiceForTest(reports studentReportBuilder, csv documentRenderer) *ExportService {
	svc := NewExportService(reports, zap.NewNop(), csv, nil)
	svc.now = func() time.Time { return time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC) }
	return svc
}

func TestExportServiceStudentReportCSV(t *testing.T) {
	f := newAnalyticsFixture()
	svc := newExportServiceForTest(f.svc, nil)

	file, err := svc.StudentReport(context.Background(), models.StudentPrincipal("u1"), SelfStudentID, models.ReportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "student_report_2023001_20240115_083000.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)

	body := string(file.Payload)
	assert.Contains(t, body, "Name,Ada Lovelace")
	assert.Contains(t, body, "Semester,GPA,Credits,Courses")
	assert.Contains(t, body, "CS101,CS101 name,100.00,3,0,1")
	assert.True(t, strings.Index(body, "Fall 2022-2023") < strings.Index(body, "Fall 2023-2024"))
}

func TestExportServiceStudentReportPDF(t *testing.T) {
	f := newAnalyticsFixture()
	svc := newExportServiceForTest(f.svc, nil)

	file, err := svc.StudentReport(context.Background(), models.AdministratorPrincipal("admin"), "s2", models.ReportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasSuffix(file.Filename, ".pdf"))
	assert.True(t, bytes.HasPrefix(file.Payload, []byte("%PDF")))
}

func TestExportServicePropagatesScopeErrors(t *testing.T) {
	f := newAnalyticsFixture()
	svc := newExportServiceForTest(f.svc, nil)

	_, err := svc.StudentReport(context.Background(), models.StudentPrincipal("u1"), "s2", models.ReportFormatCSV)
	assert.ErrorIs(t, err, appErrors.ErrStudentNotFound)
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	f := newAnalyticsFixture()
	svc := newExportServiceForTest(f.svc, nil)

	_, err := svc.StudentReport(context.Background(), models.AdministratorPrincipal("admin"), "s1", models.ReportFormat("xlsx"))
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Empty(t, f.grades.scopes)
}

func TestExportServiceRenderFailure(t *testing.T) {
	f := newAnalyticsFixture()
	svc := newExportServiceForTest(f.svc, failingRenderer{})

	_, err := svc.StudentReport(context.Background(), models.AdministratorPrincipal("admin"), "s1", models.ReportFormatCSV)
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}

func TestParseReportFormat(t *testing.T) {
	format, ok := models.ParseReportFormat("")
	assert.True(t, ok)
	assert.Equal(t, models.ReportFormatCSV, format)

	format, ok = models.ParseReportFormat(" PDF ")
	assert.True(t, ok)
	assert.Equal(t, models.ReportFormatPDF, format)

	_, ok = models.ParseReportFormat("xlsx")
	assert.False(t, ok)
}
