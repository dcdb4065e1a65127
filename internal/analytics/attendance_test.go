package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-performance-api/internal/models"
)

func mark(courseID, courseName string, status models.AttendanceStatus, date time.Time) models.AttendanceRecord {
	return models.AttendanceRecord{CourseID: courseID, CourseName: courseName, Status: status, Date: date}
}

func statuses(list ...models.AttendanceStatus) []models.AttendanceRecord {
	out := make([]models.AttendanceRecord, 0, len(list))
	for _, s := range list {
		out = append(out, models.AttendanceRecord{Status: s})
	}
	return out
}

func TestAttendanceRateEmpty(t *testing.T) {
	assert.Equal(t, 0.0, AttendanceRate(nil, PresenceOnly))
	assert.Equal(t, 0.0, AttendanceRate(nil, PresenceAndLate))
}

func TestAttendanceRateModes(t *testing.T) {
	records := statuses(
		models.AttendanceStatusPresent,
		models.AttendanceStatusPresent,
		models.AttendanceStatusLate,
		models.AttendanceStatusAbsent,
	)
	assert.InDelta(t, 50.0, AttendanceRate(records, PresenceOnly), 1e-9)
	assert.InDelta(t, 75.0, AttendanceRate(records, PresenceAndLate), 1e-9)
}

func TestAttendanceRateLateNeverLowers(t *testing.T) {
	sets := [][]models.AttendanceRecord{
		statuses(models.AttendanceStatusAbsent),
		statuses(models.AttendanceStatusLate, models.AttendanceStatusLate),
		statuses(models.AttendanceStatusExcused, models.AttendanceStatusPresent, models.AttendanceStatusLate),
		statuses(models.AttendanceStatusPresent),
	}
	for _, records := range sets {
		assert.GreaterOrEqual(t, AttendanceRate(records, PresenceAndLate), AttendanceRate(records, PresenceOnly))
	}
}

func TestCountAttendance(t *testing.T) {
	counts := CountAttendance(statuses(
		models.AttendanceStatusPresent,
		models.AttendanceStatusLate,
		models.AttendanceStatusAbsent,
		models.AttendanceStatusExcused,
		models.AttendanceStatusExcused,
	))
	assert.Equal(t, AttendanceCounts{Present: 1, Late: 1, Absent: 1, Excused: 2, Total: 5}, counts)
}

func TestCourseAttendance(t *testing.T) {
	day := time.Date(2023, time.September, 4, 9, 0, 0, 0, time.UTC)
	records := []models.AttendanceRecord{
		mark("MATH200", "Calculus", models.AttendanceStatusAbsent, day),
		mark("CS101", "Intro to CS", models.AttendanceStatusPresent, day),
		mark("CS101", "Renamed", models.AttendanceStatusLate, day),
		mark("CS101", "Intro to CS", models.AttendanceStatusAbsent, day),
		mark("MATH200", "Calculus", models.AttendanceStatusPresent, day),
	}

	rollups := CourseAttendance(records, PresenceAndLate)
	require.Len(t, rollups, 2)

	assert.Equal(t, "CS101", rollups[0].CourseID)
	assert.Equal(t, "Intro to CS", rollups[0].CourseName)
	assert.Equal(t, 3, rollups[0].TotalSessions)
	assert.Equal(t, 1, rollups[0].Absences)
	assert.Equal(t, 1, rollups[0].LateArrivals)
	assert.InDelta(t, 200.0/3, rollups[0].AttendanceRate, 1e-9)

	assert.Equal(t, "MATH200", rollups[1].CourseID)
	assert.InDelta(t, 50.0, rollups[1].AttendanceRate, 1e-9)

	assert.Empty(t, CourseAttendance(nil, PresenceOnly))
}

func TestMonthlyAttendanceChronological(t *testing.T) {
	records := []models.AttendanceRecord{
		mark("CS101", "", models.AttendanceStatusPresent, time.Date(2024, time.January, 10, 10, 0, 0, 0, time.UTC)),
		mark("CS101", "", models.AttendanceStatusAbsent, time.Date(2023, time.September, 5, 10, 0, 0, 0, time.UTC)),
		mark("CS101", "", models.AttendanceStatusLate, time.Date(2023, time.September, 12, 10, 0, 0, 0, time.UTC)),
		mark("CS101", "", models.AttendanceStatusPresent, time.Date(2023, time.December, 1, 10, 0, 0, 0, time.UTC)),
	}

	months := MonthlyAttendance(records, PresenceAndLate, DefaultMonthCalendar())
	require.Len(t, months, 3)
	assert.Equal(t, "September 2023", months[0].Month)
	assert.Equal(t, 2, months[0].TotalSessions)
	assert.Equal(t, 1, months[0].Absences)
	assert.InDelta(t, 50.0, months[0].AttendanceRate, 1e-9)
	assert.Equal(t, "December 2023", months[1].Month)
	assert.Equal(t, "January 2024", months[2].Month)
}

func TestMonthlyAttendanceUsesCalendarZone(t *testing.T) {
	// 23:30 UTC on 30 September is already October in Jakarta.
	date := time.Date(2023, time.September, 30, 23, 30, 0, 0, time.UTC)
	records := []models.AttendanceRecord{mark("CS101", "", models.AttendanceStatusPresent, date)}

	utc := MonthlyAttendance(records, PresenceOnly, DefaultMonthCalendar())
	require.Len(t, utc, 1)
	assert.Equal(t, "September 2023", utc[0].Month)

	cal, err := NewMonthCalendar("Asia/Jakarta", "en")
	require.NoError(t, err)
	jakarta := MonthlyAttendance(records, PresenceOnly, cal)
	require.Len(t, jakarta, 1)
	assert.Equal(t, "October 2023", jakarta[0].Month)
}

func TestMonthlyAttendanceLocale(t *testing.T) {
	cal, err := NewMonthCalendar("UTC", "id")
	require.NoError(t, err)
	_, label := cal.Month(time.Date(2023, time.August, 2, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "Agustus 2023", label)
}

func TestNewMonthCalendarErrors(t *testing.T) {
	_, err := NewMonthCalendar("Not/AZone", "en")
	assert.Error(t, err)

	_, err = NewMonthCalendar("UTC", "xx")
	assert.Error(t, err)

	cal, err := NewMonthCalendar("", "")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, cal.Location)
}
