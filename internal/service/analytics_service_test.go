package service

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-performance-api/internal/analytics"
	"github.com/noah-isme/academic-performance-api/internal/models"
	appErrors "github.com/noah-isme/academic-performance-api/pkg/errors"
)

type fakeGradeSource struct {
	mu     sync.Mutex
	grades []models.GradeRecord
	err    error
	scopes []models.RecordScope
}

func (f *fakeGradeSource) FindByScope(_ context.Context, scope models.RecordScope) ([]models.GradeRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scopes = append(f.scopes, scope)
	if f.err != nil {
		return nil, f.err
	}
	var out []models.GradeRecord
	for _, g := range f.grades {
		if scope.StudentID != "" && g.StudentID != scope.StudentID {
			continue
		}
		if scope.CourseID != "" && g.CourseID != scope.CourseID {
			continue
		}
		if scope.Semester != "" && g.Semester != scope.Semester {
			continue
		}
		if scope.AcademicYear != "" && g.AcademicYear != scope.AcademicYear {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

type fakeAttendanceSource struct {
	mu      sync.Mutex
	records []models.AttendanceRecord
	err     error
	calls   int
}

func (f *fakeAttendanceSource) FindByScope(_ context.Context, scope models.RecordScope) ([]models.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []models.AttendanceRecord
	for _, r := range f.records {
		if scope.StudentID != "" && r.StudentID != scope.StudentID {
			continue
		}
		if scope.CourseID != "" && r.CourseID != scope.CourseID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

type fakeStudentLookup struct {
	students []models.Student
	err      error
}

func (f *fakeStudentLookup) FindByID(_ context.Context, id string) (*models.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.students {
		if f.students[i].ID == id {
			return &f.students[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStudentLookup) FindByUserID(_ context.Context, userID string) (*models.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.students {
		if f.students[i].UserID != nil && *f.students[i].UserID == userID {
			return &f.students[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func strPtr(s string) *string { return &s }

func gradeFixture(studentID, courseID, semester, year, letter string, numeric, credits float64) models.GradeRecord {
	return models.GradeRecord{
		ID:           studentID + courseID + semester + year + letter,
		StudentID:    studentID,
		CourseID:     courseID,
		CourseName:   courseID + " name",
		Semester:     semester,
		AcademicYear: year,
		NumericGrade: numeric,
		LetterGrade:  letter,
		CreditHours:  credits,
	}
}

func attendanceFixture(studentID, courseID string, status models.AttendanceStatus, date time.Time) models.AttendanceRecord {
	return models.AttendanceRecord{StudentID: studentID, CourseID: courseID, CourseName: courseID + " name", Status: status, Date: date}
}

type analyticsFixture struct {
	grades     *fakeGradeSource
	attendance *fakeAttendanceSource
	students   *fakeStudentLookup
	svc        *AnalyticsService
}

func newAnalyticsFixture() *analyticsFixture {
	sept := time.Date(2023, time.September, 4, 9, 0, 0, 0, time.UTC)
	oct := time.Date(2023, time.October, 2, 9, 0, 0, 0, time.UTC)
	f := &analyticsFixture{
		grades: &fakeGradeSource{grades: []models.GradeRecord{
			gradeFixture("s1", "CS101", "Fall", "2023-2024", "A", 90, 3),
			gradeFixture("s1", "MATH200", "Spring", "2023-2024", "B", 85, 3),
			gradeFixture("s1", "PHYS110", "Fall", "2022-2023", "C", 72, 4),
			gradeFixture("s2", "CS101", "Fall", "2023-2024", "C", 70, 3),
		}},
		attendance: &fakeAttendanceSource{records: []models.AttendanceRecord{
			attendanceFixture("s1", "CS101", models.AttendanceStatusPresent, sept),
			attendanceFixture("s1", "CS101", models.AttendanceStatusPresent, sept),
			attendanceFixture("s1", "CS101", models.AttendanceStatusLate, oct),
			attendanceFixture("s1", "MATH200", models.AttendanceStatusAbsent, oct),
			attendanceFixture("s2", "CS101", models.AttendanceStatusExcused, oct),
		}},
		students: &fakeStudentLookup{students: []models.Student{
			{ID: "s1", UserID: strPtr("u1"), FullName: "Ada Lovelace", StudentNumber: "2023001"},
			{ID: "s2", UserID: strPtr("u2"), FullName: "Alan Turing", StudentNumber: "2023002"},
		}},
	}
	f.svc = NewAnalyticsService(f.grades, f.attendance, f.students, NewMetricsService(), zap.NewNop(), AnalyticsConfig{})
	return f
}

func TestResolveScopeStudentWithoutProfile(t *testing.T) {
	f := newAnalyticsFixture()

	_, _, err := f.svc.ResolveScope(context.Background(), models.StudentPrincipal("orphan"), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrStudentProfileNotLinked)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestResolveScopeStudentIsPinnedToOwnProfile(t *testing.T) {
	f := newAnalyticsFixture()
	ctx := context.Background()

	for _, target := range []string{"", SelfStudentID, "s1"} {
		scope, student, err := f.svc.ResolveScope(ctx, models.StudentPrincipal("u1"), target)
		require.NoError(t, err, target)
		assert.Equal(t, models.RecordScope{StudentID: "s1"}, scope)
		assert.Equal(t, "s1", student.ID)
	}

	_, _, err := f.svc.ResolveScope(ctx, models.StudentPrincipal("u1"), "s2")
	assert.ErrorIs(t, err, appErrors.ErrStudentNotFound)
}

func TestResolveScopeAdministrator(t *testing.T) {
	f := newAnalyticsFixture()
	ctx := context.Background()
	admin := models.AdministratorPrincipal("admin")

	scope, student, err := f.svc.ResolveScope(ctx, admin, "")
	require.NoError(t, err)
	assert.Equal(t, models.RecordScope{}, scope)
	assert.Nil(t, student)

	scope, student, err = f.svc.ResolveScope(ctx, admin, "s2")
	require.NoError(t, err)
	assert.Equal(t, "s2", scope.StudentID)
	assert.Equal(t, "Alan Turing", student.FullName)

	_, _, err = f.svc.ResolveScope(ctx, admin, "missing")
	assert.ErrorIs(t, err, appErrors.ErrStudentNotFound)
}

func TestResolveScopeLookupFailureIsInternal(t *testing.T) {
	f := newAnalyticsFixture()
	f.students.err = errors.New("connection refused")

	_, _, err := f.svc.ResolveScope(context.Background(), models.StudentPrincipal("u1"), "")
	require.Error(t, err)
	assert.False(t, errors.Is(err, appErrors.ErrStudentProfileNotLinked))
	assert.Equal(t, http.StatusInternalServerError, appErrors.FromError(err).Status)
}

func TestResolveScopeRejectsUnknownPrincipal(t *testing.T) {
	f := newAnalyticsFixture()
	_, _, err := f.svc.ResolveScope(context.Background(), models.Principal{}, "")
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
}

func TestPerformanceForStudent(t *testing.T) {
	f := newAnalyticsFixture()

	report, err := f.svc.Performance(context.Background(), models.StudentPrincipal("u1"), models.AnalyticsQuery{})
	require.NoError(t, err)

	assert.Equal(t, 3, report.RecordCount)
	assert.InDelta(t, (4.0*3+3.0*3+2.0*4)/10, report.OverallGPA, 1e-9)
	assert.InDelta(t, 4.0, report.SemesterGPA["Fall 2023-2024"], 1e-9)
	assert.InDelta(t, 2.0, report.SemesterGPA["Fall 2022-2023"], 1e-9)

	assert.Equal(t, []string{"Fall 2022-2023", "Fall 2023-2024", "Spring 2023-2024"}, report.TrendData.Semesters)
	assert.Equal(t, []float64{72, 90, 85}, report.TrendData.AverageGrades)

	require.Len(t, report.CoursePerformance, 3)
	assert.Equal(t, "CS101", report.CoursePerformance[0].CourseID)
	assert.Equal(t, "CS101 name", report.CoursePerformance[0].CourseName)
}

func TestPerformanceCourseExtremes(t *testing.T) {
	f := newAnalyticsFixture()

	report, err := f.svc.Performance(context.Background(), models.AdministratorPrincipal("admin"), models.AnalyticsQuery{CourseID: "CS101"})
	require.NoError(t, err)

	require.Len(t, report.CoursePerformance, 1)
	course := report.CoursePerformance[0]
	assert.Equal(t, 80.0, course.AverageGrade)
	assert.Equal(t, 90.0, course.HighestGrade)
	assert.Equal(t, 70.0, course.LowestGrade)
	assert.Equal(t, 2, course.RecordCount)
	require.Len(t, course.GradeDistribution, 2)
	assert.Equal(t, "A", course.GradeDistribution[0].LetterGrade)
	assert.InDelta(t, 50.0, course.GradeDistribution[0].Percentage, 1e-9)

	last := f.grades.scopes[len(f.grades.scopes)-1]
	assert.Equal(t, models.RecordScope{CourseID: "CS101"}, last)
}

func TestPerformanceStudentCannotWidenScopeViaQuery(t *testing.T) {
	f := newAnalyticsFixture()

	_, err := f.svc.Performance(context.Background(), models.StudentPrincipal("u1"), models.AnalyticsQuery{StudentID: "s2"})
	assert.ErrorIs(t, err, appErrors.ErrStudentNotFound)
	assert.Empty(t, f.grades.scopes)
}

func TestPerformanceEmptyScopeIsNeutral(t *testing.T) {
	f := newAnalyticsFixture()

	report, err := f.svc.Performance(context.Background(), models.AdministratorPrincipal("admin"), models.AnalyticsQuery{Semester: "Summer"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, report.OverallGPA)
	assert.Empty(t, report.SemesterGPA)
	assert.Empty(t, report.CoursePerformance)
	assert.Empty(t, report.TrendData.Semesters)
}

func TestAttendanceRatesUseBothModes(t *testing.T) {
	f := newAnalyticsFixture()

	report, err := f.svc.Attendance(context.Background(), models.StudentPrincipal("u1"), models.AnalyticsQuery{})
	require.NoError(t, err)

	assert.Equal(t, 4, report.TotalRecords)
	assert.InDelta(t, 75.0, report.OverallAttendanceRate, 1e-9)
	assert.InDelta(t, 50.0, report.OverallPresenceRate, 1e-9)

	require.Len(t, report.CourseAttendance, 2)
	assert.InDelta(t, 100.0, report.CourseAttendance[0].AttendanceRate, 1e-9)
	assert.Equal(t, 1, report.CourseAttendance[0].LateArrivals)
	assert.Equal(t, 1, report.CourseAttendance[1].Absences)

	require.Len(t, report.MonthlyAttendance, 2)
	assert.Equal(t, "September 2023", report.MonthlyAttendance[0].Month)
	assert.Equal(t, "October 2023", report.MonthlyAttendance[1].Month)
	assert.InDelta(t, 50.0, report.MonthlyAttendance[1].AttendanceRate, 1e-9)
}

func TestAttendanceUsesConfiguredCalendar(t *testing.T) {
	f := newAnalyticsFixture()
	cal, err := analytics.NewMonthCalendar("UTC", "id")
	require.NoError(t, err)
	svc := NewAnalyticsService(f.grades, f.attendance, f.students, nil, nil, AnalyticsConfig{Calendar: cal})

	report, err := svc.Attendance(context.Background(), models.StudentPrincipal("u1"), models.AnalyticsQuery{})
	require.NoError(t, err)
	require.Len(t, report.MonthlyAttendance, 2)
	assert.Equal(t, "Oktober 2023", report.MonthlyAttendance[1].Month)
}

func TestStudentReportForStudentWithoutProfile(t *testing.T) {
	f := newAnalyticsFixture()

	report, err := f.svc.StudentReport(context.Background(), models.StudentPrincipal("orphan"), SelfStudentID)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, appErrors.ErrStudentProfileNotLinked)
	assert.Empty(t, f.grades.scopes)
	assert.Zero(t, f.attendance.calls)
}

func TestStudentReportComposite(t *testing.T) {
	f := newAnalyticsFixture()
	f.grades.grades = append(f.grades.grades, gradeFixture("s1", "CS101", "Spring", "2023-2024", "W", 0, 3))

	report, err := f.svc.StudentReport(context.Background(), models.AdministratorPrincipal("admin"), "s1")
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", report.Student.FullName)

	perf := report.AcademicPerformance
	assert.InDelta(t, (4.0*3+3.0*3+2.0*4+0*3)/13, perf.CurrentGPA, 1e-9)
	assert.Equal(t, 13.0, perf.TotalCredits)
	assert.Equal(t, 3, perf.CompletedCourses)
	assert.Equal(t, 0, perf.InProgressCourses)
	require.Len(t, perf.SemesterBreakdown, 3)
	assert.Equal(t, "Fall 2022-2023", perf.SemesterBreakdown[0].Semester)
	assert.Equal(t, models.SemesterSummary{Semester: "Spring 2023-2024", GPA: 1.5, Credits: 6, Courses: 2}, perf.SemesterBreakdown[2])

	var count int
	for _, b := range perf.GradeDistribution {
		count += b.Count
	}
	assert.Equal(t, 4, count)

	att := report.AttendanceRecord
	assert.Equal(t, 2, att.Present)
	assert.Equal(t, 1, att.Late)
	assert.Equal(t, 1, att.Absent)
	assert.Equal(t, 0, att.Excused)
	assert.Equal(t, 4, att.Total)
	assert.InDelta(t, 75.0, att.OverallRate, 1e-9)
	assert.Len(t, att.CourseBreakdown, 2)
}

func TestStudentReportExcludePolicy(t *testing.T) {
	f := newAnalyticsFixture()
	f.grades.grades = append(f.grades.grades, gradeFixture("s1", "CS101", "Spring", "2023-2024", "W", 0, 3))
	svc := NewAnalyticsService(f.grades, f.attendance, f.students, nil, nil, AnalyticsConfig{UnknownGradePolicy: analytics.UnknownExcluded})

	report, err := svc.StudentReport(context.Background(), models.StudentPrincipal("u1"), SelfStudentID)
	require.NoError(t, err)
	assert.InDelta(t, (4.0*3+3.0*3+2.0*4)/10, report.AcademicPerformance.CurrentGPA, 1e-9)
}

func TestStudentReportAdministratorNeedsTarget(t *testing.T) {
	f := newAnalyticsFixture()

	_, err := f.svc.StudentReport(context.Background(), models.AdministratorPrincipal("admin"), SelfStudentID)
	assert.ErrorIs(t, err, appErrors.ErrStudentNotFound)

	_, err = f.svc.StudentReport(context.Background(), models.AdministratorPrincipal("admin"), "ghost")
	assert.ErrorIs(t, err, appErrors.ErrStudentNotFound)
}

func TestStudentReportFetchFailureAborts(t *testing.T) {
	f := newAnalyticsFixture()
	boom := errors.New("database unavailable")
	f.attendance.err = boom

	report, err := f.svc.StudentReport(context.Background(), models.StudentPrincipal("u1"), "")
	assert.Nil(t, report)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "fetch attendance")
	assert.Equal(t, http.StatusInternalServerError, appErrors.FromError(err).Status)
}

func TestPerformanceFetchFailurePropagates(t *testing.T) {
	f := newAnalyticsFixture()
	boom := errors.New("timeout")
	f.grades.err = boom

	_, err := f.svc.Performance(context.Background(), models.AdministratorPrincipal("admin"), models.AnalyticsQuery{})
	assert.ErrorIs(t, err, boom)
}
