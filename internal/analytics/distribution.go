package analytics

import (
	"sort"
	"strings"

	"github.com/noah-isme/academic-performance-api/internal/models"
)

const letterOrder = "ABCDF"

// GradeDistribution counts every distinct letter grade in records. Percentages are relative to
// len(records) and are left unrounded. Buckets are sorted with CompareLetterGrades.
func GradeDistribution(records []models.GradeRecord) []models.GradeBucket {
	if len(records) == 0 {
		return []models.GradeBucket{}
	}

	counts := make(map[string]int)
	for _, record := range records {
		counts[record.LetterGrade]++
	}

	total := float64(len(records))
	buckets := make([]models.GradeBucket, 0, len(counts))
	for letter, count := range counts {
		buckets = append(buckets, models.GradeBucket{
			LetterGrade: letter,
			Count:       count,
			Percentage:  float64(count) / total * 100,
		})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return CompareLetterGrades(buckets[i].LetterGrade, buckets[j].LetterGrade) < 0
	})
	return buckets
}

// CompareLetterGrades orders letters A<B<C<D<F with "+" before the bare letter before "-".
// Letters outside the table sort last, ties fall back to plain string order.
func CompareLetterGrades(a, b string) int {
	if ra, rb := letterRank(a), letterRank(b); ra != rb {
		return ra - rb
	}
	if ma, mb := modifierRank(a), modifierRank(b); ma != mb {
		return ma - mb
	}
	return strings.Compare(a, b)
}

func letterRank(letter string) int {
	letter = strings.TrimSpace(letter)
	if letter == "" {
		return len(letterOrder) + 1
	}
	if idx := strings.IndexByte(letterOrder, upper(letter[0])); idx >= 0 {
		return idx
	}
	return len(letterOrder)
}

func modifierRank(letter string) int {
	letter = strings.TrimSpace(letter)
	if len(letter) < 2 {
		return 1
	}
	switch letter[1:] {
	case "+":
		return 0
	case "-":
		return 2
	default:
		return 3
	}
}
