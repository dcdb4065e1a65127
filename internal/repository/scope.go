package repository

import (
	"fmt"

	"github.com/noah-isme/academic-performance-api/internal/models"
)

// appendScopeConditions adds one positional predicate per non-empty scope field.
func appendScopeConditions(alias string, scope models.RecordScope, conditions []string, args []interface{}) ([]string, []interface{}) {
	columns := []struct {
		name  string
		value string
	}{
		{"student_id", scope.StudentID},
		{"course_id", scope.CourseID},
		{"semester", scope.Semester},
		{"academic_year", scope.AcademicYear},
	}
	for _, column := range columns {
		if column.value == "" {
			continue
		}
		args = append(args, column.value)
		conditions = append(conditions, fmt.Sprintf("%s.%s = $%d", alias, column.name, len(args)))
	}
	return conditions, args
}

func pageBounds(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return size, (page - 1) * size
}
