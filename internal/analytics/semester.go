package analytics

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var academicYearPattern = regexp.MustCompile(`^(\d{4})(?:[-/](\d{2}|\d{4}))?$`)

const unknownTermRank = 100

// Academic ranges ("2023-2024") start in the fall; single calendar years start in winter.
var (
	academicSeasonRank = map[string]int{"fall": 0, "autumn": 0, "winter": 1, "spring": 2, "summer": 3}
	calendarSeasonRank = map[string]int{"winter": 0, "spring": 1, "summer": 2, "fall": 3, "autumn": 3}
	ordinalTermRank    = map[string]int{
		"first": 0, "1st": 0, "i": 0,
		"second": 1, "2nd": 1, "ii": 1,
		"third": 2, "3rd": 2, "iii": 2,
		"fourth": 3, "4th": 3, "iv": 3,
	}
	termNoise = map[string]struct{}{"semester": {}, "term": {}, "sem": {}, "quarter": {}, "trimester": {}}
)

type semesterKey struct {
	raw       string
	hasYear   bool
	startYear int
	termRank  int
}

func parseSemesterKey(raw string) semesterKey {
	key := semesterKey{raw: raw, termRank: unknownTermRank}
	fields := strings.Fields(raw)
	termFields := fields

	if n := len(fields); n > 0 {
		if m := academicYearPattern.FindStringSubmatch(fields[n-1]); m != nil {
			key.hasYear = true
			key.startYear, _ = strconv.Atoi(m[1])
			termFields = fields[:n-1]
			key.termRank = termRank(termFields, m[2] != "")
			return key
		}
	}
	key.termRank = termRank(termFields, true)
	return key
}

func termRank(fields []string, academicRange bool) int {
	seasons := calendarSeasonRank
	if academicRange {
		seasons = academicSeasonRank
	}
	for _, field := range fields {
		word := strings.ToLower(strings.Trim(field, ".,"))
		if _, noise := termNoise[word]; noise {
			continue
		}
		if academicYearPattern.MatchString(word) {
			continue
		}
		if rank, ok := seasons[word]; ok {
			return rank
		}
		if rank, ok := ordinalTermRank[word]; ok {
			return rank
		}
		if n, err := strconv.Atoi(word); err == nil && n > 0 {
			return n - 1
		}
	}
	return unknownTermRank
}

// CompareSemesterKeys orders semester keys chronologically: by academic start year, then by
// term within the year. Keys without a recognisable year or term sort after the others and
// remaining ties fall back to string order.
func CompareSemesterKeys(a, b string) int {
	ka, kb := parseSemesterKey(a), parseSemesterKey(b)
	if ka.hasYear != kb.hasYear {
		if ka.hasYear {
			return -1
		}
		return 1
	}
	if ka.startYear != kb.startYear {
		return ka.startYear - kb.startYear
	}
	if ka.termRank != kb.termRank {
		return ka.termRank - kb.termRank
	}
	return strings.Compare(ka.raw, kb.raw)
}

// SortSemesterKeys sorts keys in place with CompareSemesterKeys.
func SortSemesterKeys(keys []string) {
	sort.SliceStable(keys, func(i, j int) bool { return CompareSemesterKeys(keys[i], keys[j]) < 0 })
}
