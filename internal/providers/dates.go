package providers

import (
	"strings"
	"time"

	"github.com/mrlokans/mediashelf/internal/entities"
)

// Layouts tried in order. Partial dates resolve to the first day of the
// period they name.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01",
	"2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2006",
	"Jan 2006",
}

// parseDate normalizes upstream release dates into a calendar date.
// Unparseable or empty input yields nil.
func parseDate(s string) *entities.Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			// Keep the day as written, not as seen from UTC.
			d := entities.NewDate(t.Year(), t.Month(), t.Day())
			return &d
		}
	}
	return nil
}

// yearOf returns the four-digit year prefix of an upstream date, or "".
func yearOf(s string) string {
	if d := parseDate(s); d != nil {
		return d.Format("2006")
	}
	return ""
}
