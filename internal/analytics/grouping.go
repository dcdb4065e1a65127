package analytics

import "github.com/noah-isme/academic-performance-api/internal/models"

// GroupBy partitions records by key. Every record lands in exactly one group and
// the relative order inside a group follows the input.
func GroupBy[T any](records []T, key func(T) string) map[string][]T {
	groups := make(map[string][]T)
	for _, record := range records {
		k := key(record)
		groups[k] = append(groups[k], record)
	}
	return groups
}

// Flatten concatenates all groups back into one slice. Group order is unspecified.
func Flatten[T any](groups map[string][]T) []T {
	size := 0
	for _, group := range groups {
		size += len(group)
	}
	out := make([]T, 0, size)
	for _, group := range groups {
		out = append(out, group...)
	}
	return out
}

// SemesterKey identifies the semester a grade belongs to, e.g. "Fall 2023-2024".
func SemesterKey(record models.GradeRecord) string {
	return record.Semester + " " + record.AcademicYear
}

// CourseKey groups grades by course.
func CourseKey(record models.GradeRecord) string {
	return record.CourseID
}

// AttendanceCourseKey groups attendance marks by course.
func AttendanceCourseKey(record models.AttendanceRecord) string {
	return record.CourseID
}

// DistinctCourses counts the courses that have at least one grade.
func DistinctCourses(records []models.GradeRecord) int {
	seen := make(map[string]struct{}, len(records))
	for _, record := range records {
		seen[record.CourseID] = struct{}{}
	}
	return len(seen)
}
