package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/academic-performance-api/internal/analytics"
	"github.com/noah-isme/academic-performance-api/internal/models"
	appErrors "github.com/noah-isme/academic-performance-api/pkg/errors"
)

// SelfStudentID lets a student principal address their own report without knowing the profile id.
const SelfStudentID = "me"

// GradeSource fetches grade records for a scope.
type GradeSource interface {
	FindByScope(ctx context.Context, scope models.RecordScope) ([]models.GradeRecord, error)
}

// AttendanceSource fetches attendance records for a scope.
type AttendanceSource interface {
	FindByScope(ctx context.Context, scope models.RecordScope) ([]models.AttendanceRecord, error)
}

// StudentLookup resolves student profiles. Misses are reported as sql.ErrNoRows.
type StudentLookup interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	FindByUserID(ctx context.Context, userID string) (*models.Student, error)
}

// AnalyticsConfig tunes how metrics are derived.
type AnalyticsConfig struct {
	UnknownGradePolicy analytics.UnknownGradePolicy
	Calendar           analytics.MonthCalendar
	FetchTimeout       time.Duration
}

// AnalyticsService assembles performance, attendance and student reports from raw records.
// Nothing is cached: every call fetches a fresh snapshot for its resolved scope.
type AnalyticsService struct {
	grades     GradeSource
	attendance AttendanceSource
	students   StudentLookup
	metrics    *MetricsService
	logger     *zap.Logger
	config     AnalyticsConfig
}

// NewAnalyticsService constructs an analytics service.
func NewAnalyticsService(grades GradeSource, attendance AttendanceSource, students StudentLookup, metrics *MetricsService, logger *zap.Logger, config AnalyticsConfig) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.UnknownGradePolicy == "" {
		config.UnknownGradePolicy = analytics.UnknownAsZero
	}
	if config.Calendar.Location == nil {
		config.Calendar = analytics.DefaultMonthCalendar()
	}
	return &AnalyticsService{
		grades:     grades,
		attendance: attendance,
		students:   students,
		metrics:    metrics,
		logger:     logger,
		config:     config,
	}
}

// ResolveScope turns a principal and an optional target student id into the record scope every
// report is computed over. Student principals are pinned to their own profile; asking for anyone
// else reports STUDENT_NOT_FOUND so other students' existence is not revealed.
func (s *AnalyticsService) ResolveScope(ctx context.Context, principal models.Principal, targetStudentID string) (models.RecordScope, *models.Student, error) {
	target := strings.TrimSpace(targetStudentID)

	switch principal.Kind {
	case models.PrincipalStudent:
		profile, err := s.lookupStudent(ctx, func(ctx context.Context) (*models.Student, error) {
			return s.students.FindByUserID(ctx, principal.UserID)
		})
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return models.RecordScope{}, nil, appErrors.ErrStudentProfileNotLinked
			}
			return models.RecordScope{}, nil, fmt.Errorf("resolve student profile: %w", err)
		}
		if target != "" && target != SelfStudentID && target != profile.ID {
			return models.RecordScope{}, nil, appErrors.ErrStudentNotFound
		}
		return models.RecordScope{StudentID: profile.ID}, profile, nil

	case models.PrincipalAdministrator:
		if target == "" {
			return models.RecordScope{}, nil, nil
		}
		student, err := s.lookupStudent(ctx, func(ctx context.Context) (*models.Student, error) {
			return s.students.FindByID(ctx, target)
		})
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return models.RecordScope{}, nil, appErrors.ErrStudentNotFound
			}
			return models.RecordScope{}, nil, fmt.Errorf("resolve target student: %w", err)
		}
		return models.RecordScope{StudentID: student.ID}, student, nil

	default:
		return models.RecordScope{}, nil, appErrors.ErrForbidden
	}
}

// Performance builds the performance report for the principal's scope narrowed by query.
func (s *AnalyticsService) Performance(ctx context.Context, principal models.Principal, query models.AnalyticsQuery) (*models.PerformanceMetrics, error) {
	defer s.observeReport("performance", time.Now())

	scope, _, err := s.ResolveScope(ctx, principal, query.StudentID)
	if err != nil {
		return nil, err
	}
	scope = narrow(scope, query)

	grades, err := s.fetchGrades(ctx, scope)
	if err != nil {
		return nil, err
	}
	return s.buildPerformance(grades), nil
}

// Attendance builds the attendance report for the principal's scope narrowed by query.
func (s *AnalyticsService) Attendance(ctx context.Context, principal models.Principal, query models.AnalyticsQuery) (*models.AttendanceStatistics, error) {
	defer s.observeReport("attendance", time.Now())

	scope, _, err := s.ResolveScope(ctx, principal, query.StudentID)
	if err != nil {
		return nil, err
	}
	scope = narrow(scope, query)

	records, err := s.fetchAttendance(ctx, scope)
	if err != nil {
		return nil, err
	}
	return s.buildAttendance(records), nil
}

// StudentReport builds the composite report for one student. studentID may be "me" for student
// principals. Grades and attendance are fetched concurrently and any failure aborts the report.
func (s *AnalyticsService) StudentReport(ctx context.Context, principal models.Principal, studentID string) (*models.StudentReport, error) {
	defer s.observeReport("student", time.Now())

	if principal.Kind == models.PrincipalAdministrator && (strings.TrimSpace(studentID) == "" || studentID == SelfStudentID) {
		return nil, appErrors.ErrStudentNotFound
	}

	scope, student, err := s.ResolveScope(ctx, principal, studentID)
	if err != nil {
		return nil, err
	}

	var (
		grades     []models.GradeRecord
		attendance []models.AttendanceRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		grades, err = s.fetchGrades(gctx, scope)
		return err
	})
	g.Go(func() error {
		var err error
		attendance, err = s.fetchAttendance(gctx, scope)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &models.StudentReport{
		Student:             *student,
		AcademicPerformance: s.buildAcademicPerformance(grades),
		AttendanceRecord:    buildAttendanceSummary(attendance),
	}, nil
}

func (s *AnalyticsService) buildPerformance(grades []models.GradeRecord) *models.PerformanceMetrics {
	policy := s.config.UnknownGradePolicy
	bySemester := analytics.GroupBy(grades, analytics.SemesterKey)

	semesterGPA := make(map[string]float64, len(bySemester))
	semesters := make([]string, 0, len(bySemester))
	for key, records := range bySemester {
		semesterGPA[key] = analytics.ComputeGPA(records, policy)
		semesters = append(semesters, key)
	}
	analytics.SortSemesterKeys(semesters)

	averages := make([]float64, 0, len(semesters))
	for _, key := range semesters {
		averages = append(averages, analytics.GradeStats(bySemester[key]).Average)
	}

	byCourse := analytics.GroupBy(grades, analytics.CourseKey)
	courses := make([]models.CoursePerformance, 0, len(byCourse))
	for courseID, records := range byCourse {
		stats := analytics.GradeStats(records)
		courses = append(courses, models.CoursePerformance{
			CourseID:          courseID,
			CourseName:        records[0].CourseName,
			AverageGrade:      stats.Average,
			HighestGrade:      stats.Highest,
			LowestGrade:       stats.Lowest,
			RecordCount:       stats.Count,
			GradeDistribution: analytics.GradeDistribution(records),
		})
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].CourseID < courses[j].CourseID })

	return &models.PerformanceMetrics{
		OverallGPA:        analytics.ComputeGPA(grades, policy),
		SemesterGPA:       semesterGPA,
		CoursePerformance: courses,
		TrendData:         models.TrendData{Semesters: semesters, AverageGrades: averages},
		RecordCount:       len(grades),
	}
}

func (s *AnalyticsService) buildAttendance(records []models.AttendanceRecord) *models.AttendanceStatistics {
	counts := analytics.CountAttendance(records)
	return &models.AttendanceStatistics{
		OverallAttendanceRate: counts.Rate(analytics.PresenceAndLate),
		OverallPresenceRate:   counts.Rate(analytics.PresenceOnly),
		TotalRecords:          counts.Total,
		CourseAttendance:      analytics.CourseAttendance(records, analytics.PresenceAndLate),
		MonthlyAttendance:     analytics.MonthlyAttendance(records, analytics.PresenceAndLate, s.config.Calendar),
	}
}

func (s *AnalyticsService) buildAcademicPerformance(grades []models.GradeRecord) models.AcademicPerformance {
	policy := s.config.UnknownGradePolicy
	bySemester := analytics.GroupBy(grades, analytics.SemesterKey)
	keys := make([]string, 0, len(bySemester))
	for key := range bySemester {
		keys = append(keys, key)
	}
	analytics.SortSemesterKeys(keys)

	breakdown := make([]models.SemesterSummary, 0, len(keys))
	for _, key := range keys {
		records := bySemester[key]
		breakdown = append(breakdown, models.SemesterSummary{
			Semester: key,
			GPA:      analytics.ComputeGPA(records, policy),
			Credits:  analytics.TotalCredits(records),
			Courses:  analytics.DistinctCourses(records),
		})
	}

	return models.AcademicPerformance{
		CurrentGPA:        analytics.ComputeGPA(grades, policy),
		TotalCredits:      analytics.TotalCredits(grades),
		CompletedCourses:  analytics.DistinctCourses(grades),
		InProgressCourses: 0,
		GradeDistribution: analytics.GradeDistribution(grades),
		SemesterBreakdown: breakdown,
	}
}

func buildAttendanceSummary(records []models.AttendanceRecord) models.AttendanceRecordSummary {
	counts := analytics.CountAttendance(records)
	return models.AttendanceRecordSummary{
		OverallRate:     counts.Rate(analytics.PresenceAndLate),
		Present:         counts.Present,
		Late:            counts.Late,
		Absent:          counts.Absent,
		Excused:         counts.Excused,
		Total:           counts.Total,
		CourseBreakdown: analytics.CourseAttendance(records, analytics.PresenceAndLate),
	}
}

func (s *AnalyticsService) fetchGrades(ctx context.Context, scope models.RecordScope) ([]models.GradeRecord, error) {
	ctx, cancel := s.withFetchTimeout(ctx)
	defer cancel()

	start := time.Now()
	grades, err := s.grades.FindByScope(ctx, scope)
	s.metrics.ObserveFetch("grades", time.Since(start))
	if err != nil {
		s.logger.Error("fetch grades failed", zap.String("student_id", scope.StudentID), zap.Error(err))
		return nil, fmt.Errorf("fetch grades: %w", err)
	}
	return grades, nil
}

func (s *AnalyticsService) fetchAttendance(ctx context.Context, scope models.RecordScope) ([]models.AttendanceRecord, error) {
	ctx, cancel := s.withFetchTimeout(ctx)
	defer cancel()

	start := time.Now()
	records, err := s.attendance.FindByScope(ctx, scope)
	s.metrics.ObserveFetch("attendance", time.Since(start))
	if err != nil {
		s.logger.Error("fetch attendance failed", zap.String("student_id", scope.StudentID), zap.Error(err))
		return nil, fmt.Errorf("fetch attendance: %w", err)
	}
	return records, nil
}

func (s *AnalyticsService) lookupStudent(ctx context.Context, find func(context.Context) (*models.Student, error)) (*models.Student, error) {
	ctx, cancel := s.withFetchTimeout(ctx)
	defer cancel()

	start := time.Now()
	student, err := find(ctx)
	s.metrics.ObserveFetch("student", time.Since(start))
	return student, err
}

func (s *AnalyticsService) withFetchTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.config.FetchTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.config.FetchTimeout)
}

func (s *AnalyticsService) observeReport(report string, start time.Time) {
	s.metrics.ObserveReport(report, time.Since(start))
}

// narrow applies the optional course and term filters. The student id was already settled by
// ResolveScope and is never taken from the query here.
func narrow(scope models.RecordScope, query models.AnalyticsQuery) models.RecordScope {
	scope.CourseID = strings.TrimSpace(query.CourseID)
	scope.Semester = strings.TrimSpace(query.Semester)
	scope.AcademicYear = strings.TrimSpace(query.AcademicYear)
	return scope
}
