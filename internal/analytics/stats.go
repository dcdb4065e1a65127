package analytics

import "github.com/noah-isme/academic-performance-api/internal/models"

// Stats holds the numeric extremes of a group of grades.
type Stats struct {
	Average float64
	Highest float64
	Lowest  float64
	Count   int
}

// GradeStats returns average, highest and lowest numeric grade. Empty input yields zero Stats.
func GradeStats(records []models.GradeRecord) Stats {
	if len(records) == 0 {
		return Stats{}
	}
	stats := Stats{
		Highest: records[0].NumericGrade,
		Lowest:  records[0].NumericGrade,
		Count:   len(records),
	}
	var sum float64
	for _, record := range records {
		sum += record.NumericGrade
		if record.NumericGrade > stats.Highest {
			stats.Highest = record.NumericGrade
		}
		if record.NumericGrade < stats.Lowest {
			stats.Lowest = record.NumericGrade
		}
	}
	stats.Average = sum / float64(len(records))
	return stats
}
