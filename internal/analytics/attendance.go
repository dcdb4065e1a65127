package analytics

import (
	"sort"

	"github.com/noah-isme/academic-performance-api/internal/models"
)

// RateMode selects which statuses count as attending.
type RateMode int

const (
	// PresenceOnly counts only "present" marks.
	PresenceOnly RateMode = iota + 1
	// PresenceAndLate counts "present" and "late" marks.
	PresenceAndLate
)

// AttendanceCounts tallies attendance marks by status.
type AttendanceCounts struct {
	Present int
	Late    int
	Absent  int
	Excused int
	Total   int
}

// CountAttendance tallies records by status. Unrecognised statuses only count towards Total.
func CountAttendance(records []models.AttendanceRecord) AttendanceCounts {
	var counts AttendanceCounts
	for _, record := range records {
		counts.add(record.Status)
	}
	return counts
}

func (c *AttendanceCounts) add(status models.AttendanceStatus) {
	c.Total++
	switch status {
	case models.AttendanceStatusPresent:
		c.Present++
	case models.AttendanceStatusLate:
		c.Late++
	case models.AttendanceStatusAbsent:
		c.Absent++
	case models.AttendanceStatusExcused:
		c.Excused++
	}
}

// Rate returns the attendance percentage for mode, 0 when no marks were counted.
func (c AttendanceCounts) Rate(mode RateMode) float64 {
	if c.Total == 0 {
		return 0
	}
	attended := c.Present
	if mode == PresenceAndLate {
		attended += c.Late
	}
	return float64(attended) / float64(c.Total) * 100
}

// AttendanceRate returns the percentage of records counted as attended under mode.
func AttendanceRate(records []models.AttendanceRecord, mode RateMode) float64 {
	return CountAttendance(records).Rate(mode)
}

// CourseAttendance rolls records up per course, sorted by course id. The course name is taken
// from the first record seen for each id.
func CourseAttendance(records []models.AttendanceRecord, mode RateMode) []models.CourseAttendance {
	type rollup struct {
		name   string
		counts AttendanceCounts
	}
	byCourse := make(map[string]*rollup)
	for _, record := range records {
		r, ok := byCourse[record.CourseID]
		if !ok {
			r = &rollup{name: record.CourseName}
			byCourse[record.CourseID] = r
		}
		r.counts.add(record.Status)
	}

	out := make([]models.CourseAttendance, 0, len(byCourse))
	for courseID, r := range byCourse {
		out = append(out, models.CourseAttendance{
			CourseID:       courseID,
			CourseName:     r.name,
			AttendanceRate: r.counts.Rate(mode),
			TotalSessions:  r.counts.Total,
			Absences:       r.counts.Absent,
			LateArrivals:   r.counts.Late,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CourseID < out[j].CourseID })
	return out
}

// MonthlyAttendance rolls records up per calendar month as seen in cal, oldest month first.
func MonthlyAttendance(records []models.AttendanceRecord, mode RateMode, cal MonthCalendar) []models.MonthlyAttendance {
	type rollup struct {
		label  string
		counts AttendanceCounts
	}
	byMonth := make(map[int]*rollup)
	for _, record := range records {
		key, label := cal.Month(record.Date)
		r, ok := byMonth[key]
		if !ok {
			r = &rollup{label: label}
			byMonth[key] = r
		}
		r.counts.add(record.Status)
	}

	keys := make([]int, 0, len(byMonth))
	for key := range byMonth {
		keys = append(keys, key)
	}
	sort.Ints(keys)

	out := make([]models.MonthlyAttendance, 0, len(keys))
	for _, key := range keys {
		r := byMonth[key]
		out = append(out, models.MonthlyAttendance{
			Month:          r.label,
			AttendanceRate: r.counts.Rate(mode),
			TotalSessions:  r.counts.Total,
			Absences:       r.counts.Absent,
			LateArrivals:   r.counts.Late,
		})
	}
	return out
}
