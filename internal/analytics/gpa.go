package analytics

import (
	"strings"

	"github.com/noah-isme/academic-performance-api/internal/models"
)

// UnknownGradePolicy decides how letters outside A-F affect a GPA.
type UnknownGradePolicy string

const (
	// UnknownAsZero counts unknown letters as 0 points while keeping their credits.
	UnknownAsZero UnknownGradePolicy = "zero"
	// UnknownExcluded drops unknown letters from both numerator and denominator.
	UnknownExcluded UnknownGradePolicy = "exclude"
)

// ParseUnknownGradePolicy maps a configuration value to a policy, defaulting to UnknownAsZero.
func ParseUnknownGradePolicy(raw string) UnknownGradePolicy {
	switch UnknownGradePolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case UnknownExcluded:
		return UnknownExcluded
	default:
		return UnknownAsZero
	}
}

var gradePointTable = map[byte]float64{
	'A': 4.0,
	'B': 3.0,
	'C': 2.0,
	'D': 1.0,
	'F': 0.0,
}

// GradePoints maps the first character of a letter grade to its points.
// The boolean is false for letters outside the fixed table.
func GradePoints(letter string) (float64, bool) {
	letter = strings.TrimSpace(letter)
	if letter == "" {
		return 0, false
	}
	points, ok := gradePointTable[upper(letter[0])]
	return points, ok
}

// ComputeGPA returns the credit weighted grade point average of records.
// It returns 0 when there are no records or no credits to divide by.
func ComputeGPA(records []models.GradeRecord, policy UnknownGradePolicy) float64 {
	var weighted, credits float64
	for _, record := range records {
		points, known := GradePoints(record.LetterGrade)
		if !known && policy == UnknownExcluded {
			continue
		}
		weighted += points * record.CreditHours
		credits += record.CreditHours
	}
	if credits == 0 {
		return 0
	}
	return weighted / credits
}

// TotalCredits sums the credit hours of records.
func TotalCredits(records []models.GradeRecord) float64 {
	var total float64
	for _, record := range records {
		total += record.CreditHours
	}
	return total
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}
