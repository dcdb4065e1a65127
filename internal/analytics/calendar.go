package analytics

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/de"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/es"
	"github.com/go-playground/locales/fr"
	"github.com/go-playground/locales/id"
)

var supportedLocales = map[string]func() locales.Translator{
	"en": en.New,
	"id": id.New,
	"fr": fr.New,
	"de": de.New,
	"es": es.New,
}

// MonthCalendar fixes the time zone and locale used to bucket dates into months.
type MonthCalendar struct {
	Location *time.Location
	Locale   locales.Translator
}

// DefaultMonthCalendar buckets in UTC with English month names.
func DefaultMonthCalendar() MonthCalendar {
	return MonthCalendar{Location: time.UTC, Locale: en.New()}
}

// NewMonthCalendar resolves an IANA time zone name and a locale code such as "en" or "id".
func NewMonthCalendar(timezone, locale string) (MonthCalendar, error) {
	cal := DefaultMonthCalendar()

	if tz := strings.TrimSpace(timezone); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return MonthCalendar{}, fmt.Errorf("load time zone %q: %w", tz, err)
		}
		cal.Location = loc
	}

	if code := strings.ToLower(strings.TrimSpace(locale)); code != "" {
		factory, ok := supportedLocales[code]
		if !ok {
			return MonthCalendar{}, fmt.Errorf("unsupported locale %q", code)
		}
		cal.Locale = factory()
	}

	return cal, nil
}

// Month returns a sortable key and the display label ("September 2023") for t.
func (c MonthCalendar) Month(t time.Time) (int, string) {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	year, month := local.Year(), local.Month()

	name := month.String()
	if c.Locale != nil {
		name = c.Locale.MonthWide(month)
	}
	return year*12 + int(month) - 1, name + " " + strconv.Itoa(year)
}
