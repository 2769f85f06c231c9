package utils

import (
	"regexp"
	"strings"
	"time"
)

var (
	isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	usDateRe  = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
)

// Layouts tried as a last resort when the date is in neither of the two
// common statement formats.
var fallbackDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"20060102",
	"2 January 2006",
	"2 Jan 2006",
}

// NormalizeTradeDate converts the date field of a statement row to
// YYYY-MM-DD. A leading timestamp component separated by a comma
// (e.g. "2024-03-15, 09:30:00") is discarded. Supports YYYY-MM-DD and
// MM/DD/YYYY directly, then a set of fallback layouts; if nothing parses
// the cleaned input is returned as-is.
func NormalizeTradeDate(dateStr string) string {
	cleaned := strings.TrimSpace(strings.SplitN(dateStr, ",", 2)[0])

	if isoDateRe.MatchString(cleaned) {
		return cleaned
	}

	if usDateRe.MatchString(cleaned) {
		parts := strings.Split(cleaned, "/")
		return parts[2] + "-" + parts[0] + "-" + parts[1]
	}

	for _, layout := range fallbackDateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t.Format("2006-01-02")
		}
	}

	return cleaned
}
