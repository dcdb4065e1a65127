package analytics

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-performance-api/internal/models"
)

func sampleGrades() []models.GradeRecord {
	return []models.GradeRecord{
		{ID: "g1", CourseID: "CS101", Semester: "Fall", AcademicYear: "2023-2024", NumericGrade: 90},
		{ID: "g2", CourseID: "CS101", Semester: "Fall", AcademicYear: "2023-2024", NumericGrade: 70},
		{ID: "g3", CourseID: "MATH200", Semester: "Spring", AcademicYear: "2023-2024", NumericGrade: 85},
		{ID: "g4", CourseID: "PHYS110", Semester: "Fall", AcademicYear: "2022-2023", NumericGrade: 60},
		{ID: "g5", CourseID: "MATH200", Semester: "Fall", AcademicYear: "2023-2024", NumericGrade: 78},
	}
}

func ids(records []models.GradeRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	sort.Strings(out)
	return out
}

func TestGroupThenFlattenPreservesRecords(t *testing.T) {
	records := sampleGrades()

	for name, key := range map[string]func(models.GradeRecord) string{
		"semester": SemesterKey,
		"course":   CourseKey,
	} {
		groups := GroupBy(records, key)
		flat := Flatten(groups)
		assert.Len(t, flat, len(records), name)
		assert.Equal(t, ids(records), ids(flat), name)
	}
}

func TestGroupBySemesterKey(t *testing.T) {
	groups := GroupBy(sampleGrades(), SemesterKey)
	require.Len(t, groups, 3)
	assert.Len(t, groups["Fall 2023-2024"], 3)
	assert.Len(t, groups["Spring 2023-2024"], 1)
	assert.Len(t, groups["Fall 2022-2023"], 1)
}

func TestGroupByKeepsInputOrderWithinGroup(t *testing.T) {
	groups := GroupBy(sampleGrades(), CourseKey)
	cs := groups["CS101"]
	require.Len(t, cs, 2)
	assert.Equal(t, "g1", cs[0].ID)
	assert.Equal(t, "g2", cs[1].ID)
}

func TestGroupAttendanceByCourse(t *testing.T) {
	records := []models.AttendanceRecord{{ID: "a1", CourseID: "CS101"}, {ID: "a2", CourseID: "MATH200"}, {ID: "a3", CourseID: "CS101"}}
	groups := GroupBy(records, AttendanceCourseKey)
	assert.Len(t, groups["CS101"], 2)
	assert.Len(t, Flatten(groups), 3)
}

func TestDistinctCourses(t *testing.T) {
	assert.Equal(t, 3, DistinctCourses(sampleGrades()))
	assert.Equal(t, 0, DistinctCourses(nil))
}

func TestGradeStats(t *testing.T) {
	records := []models.GradeRecord{
		{CourseID: "CS101", NumericGrade: 90},
		{CourseID: "CS101", NumericGrade: 70},
	}
	stats := GradeStats(records)
	assert.Equal(t, 80.0, stats.Average)
	assert.Equal(t, 90.0, stats.Highest)
	assert.Equal(t, 70.0, stats.Lowest)
	assert.Equal(t, 2, stats.Count)

	assert.Equal(t, Stats{}, GradeStats(nil))
}
