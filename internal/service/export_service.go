package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/academic-performance-api/internal/models"
	appErrors "github.com/noah-isme/academic-performance-api/pkg/errors"
	"github.com/noah-isme/academic-performance-api/pkg/export"
)

type studentReportBuilder interface {
	StudentReport(ctx context.Context, principal models.Principal, studentID string) (*models.StudentReport, error)
}

type documentRenderer interface {
	Render(doc export.Document) ([]byte, error)
	ContentType() string
	Extension() string
}

// ExportService renders student reports into downloadable files.
type ExportService struct {
	reports   studentReportBuilder
	renderers map[models.ReportFormat]documentRenderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to the defaults.
func NewExportService(reports studentReportBuilder, logger *zap.Logger, csv, pdf documentRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		reports: reports,
		renderers: map[models.ReportFormat]documentRenderer{
			models.ReportFormatCSV: csv,
			models.ReportFormatPDF: pdf,
		},
		logger: logger,
		now:    time.Now,
	}
}

// StudentReport builds the student report visible to principal and renders it in format.
func (s *ExportService) StudentReport(ctx context.Context, principal models.Principal, studentID string, format models.ReportFormat) (*models.ExportFile, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %q", format))
	}

	report, err := s.reports.StudentReport(ctx, principal, studentID)
	if err != nil {
		return nil, err
	}

	doc, err := studentReportDocument(report)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build export")
	}
	payload, err := renderer.Render(doc)
	if err != nil {
		s.logger.Error("render export failed", zap.Error(err), zap.String("format", string(format)))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	return &models.ExportFile{
		Filename:    s.buildFilename(report.Student, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Payload:     payload,
	}, nil
}

func (s *ExportService) buildFilename(student models.Student, ext string) string {
	timestamp := s.now().UTC().Format("20060102_150405")
	number := student.StudentNumber
	if number == "" {
		number = student.ID
	}
	return fmt.Sprintf("student_report_%s_%s.%s", sanitizeFilename(number), timestamp, ext)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func studentReportDocument(report *models.StudentReport) (export.Document, error) {
	doc := export.Document{Title: fmt.Sprintf("Student Report %s", report.Student.FullName)}
	perf := report.AcademicPerformance
	att := report.AttendanceRecord

	profile := doc.AddSection("Student", "Field", "Value")
	rows := [][]string{
		{"Student Number", report.Student.StudentNumber},
		{"Name", report.Student.FullName},
		{"Email", report.Student.Email},
		{"Program", report.Student.Program},
		{"Enrollment Year", strconv.Itoa(report.Student.EnrollmentYear)},
	}

	summary := doc.AddSection("Summary", "Metric", "Value")
	summaryRows := [][]string{
		{"Current GPA", formatDecimal(perf.CurrentGPA)},
		{"Total Credits", formatDecimal(perf.TotalCredits)},
		{"Completed Courses", strconv.Itoa(perf.CompletedCourses)},
		{"In Progress Courses", strconv.Itoa(perf.InProgressCourses)},
		{"Attendance Rate (%)", formatDecimal(att.OverallRate)},
		{"Present", strconv.Itoa(att.Present)},
		{"Late", strconv.Itoa(att.Late)},
		{"Absent", strconv.Itoa(att.Absent)},
		{"Excused", strconv.Itoa(att.Excused)},
		{"Total Sessions", strconv.Itoa(att.Total)},
	}

	for _, row := range rows {
		if err := profile.AddRow(row...); err != nil {
			return doc, err
		}
	}
	for _, row := range summaryRows {
		if err := summary.AddRow(row...); err != nil {
			return doc, err
		}
	}

	semesters := doc.AddSection("Semesters", "Semester", "GPA", "Credits", "Courses")
	for _, sem := range perf.SemesterBreakdown {
		if err := semesters.AddRow(sem.Semester, formatDecimal(sem.GPA), formatDecimal(sem.Credits), strconv.Itoa(sem.Courses)); err != nil {
			return doc, err
		}
	}

	distribution := doc.AddSection("Grade Distribution", "Letter Grade", "Count", "Percentage (%)")
	for _, bucket := range perf.GradeDistribution {
		if err := distribution.AddRow(bucket.LetterGrade, strconv.Itoa(bucket.Count), formatDecimal(bucket.Percentage)); err != nil {
			return doc, err
		}
	}

	courses := doc.AddSection("Course Attendance", "Course ID", "Course", "Rate (%)", "Sessions", "Absences", "Late")
	for _, course := range att.CourseBreakdown {
		if err := courses.AddRow(
			course.CourseID,
			course.CourseName,
			formatDecimal(course.AttendanceRate),
			strconv.Itoa(course.TotalSessions),
			strconv.Itoa(course.Absences),
			strconv.Itoa(course.LateArrivals),
		); err != nil {
			return doc, err
		}
	}

	return doc, nil
}

func formatDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
