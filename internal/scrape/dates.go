package scrape

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Platforms display post times in wildly different shapes: a machine-
// readable attribute, an absolute date, or a relative phrase. normalizeDate
// walks a ladder from most to least authoritative and reports failure
// rather than guessing; a post whose date cannot be normalized cannot be
// timeframe-filtered safely and is dropped by the caller.

var absoluteLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2006-01-02",
}

var monthDayLayouts = []string{
	"Jan 2",
	"January 2",
	"2 Jan",
}

var relativePattern = regexp.MustCompile(`(?i)(\d+)\s*(second|minute|min|hour|hr|day|week|wk|s|m|h|d|w)s?(?:\s+ago)?\b`)

var relativeUnits = map[string]time.Duration{
	"second": time.Second, "s": time.Second,
	"minute": time.Minute, "min": time.Minute, "m": time.Minute,
	"hour": time.Hour, "hr": time.Hour, "h": time.Hour,
	"day": 24 * time.Hour, "d": 24 * time.Hour,
	"week": 7 * 24 * time.Hour, "wk": 7 * 24 * time.Hour, "w": 7 * 24 * time.Hour,
}

// normalizeDate resolves a post timestamp from the structured attribute
// value (authoritative when present) and the displayed text, relative to
// now. The boolean reports whether any rung of the ladder matched.
func normalizeDate(attr, display string, now time.Time) (time.Time, bool) {
	if t, ok := parseStructuredAttr(attr); ok {
		return t.UTC(), true
	}
	if t, ok := parseAbsolute(display); ok {
		return t.UTC(), true
	}
	if t, ok := parseRelative(display, now); ok {
		return t.UTC(), true
	}
	return time.Time{}, false
}

// parseStructuredAttr handles datetime attributes: ISO instants and unix
// epoch seconds (facebook's data-utime).
func parseStructuredAttr(attr string) (time.Time, bool) {
	attr = strings.TrimSpace(attr)
	if attr == "" {
		return time.Time{}, false
	}
	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, attr); err == nil {
			return t, true
		}
	}
	if epoch, err := strconv.ParseInt(attr, 10, 64); err == nil && epoch > 1e9 && epoch < 1e11 {
		return time.Unix(epoch, 0), true
	}
	return time.Time{}, false
}

func parseAbsolute(display string) (time.Time, bool) {
	display = strings.TrimSpace(display)
	if display == "" {
		return time.Time{}, false
	}
	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, display); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseRelative handles "<n> <unit> ago", "yesterday", and year-less
// "<Month> <day>" forms. A month-day in the future is corrected to the
// previous year, since platforms omit the year only for recent posts.
func parseRelative(display string, now time.Time) (time.Time, bool) {
	display = strings.TrimSpace(display)
	if display == "" {
		return time.Time{}, false
	}

	if strings.EqualFold(display, "yesterday") {
		return now.Add(-24 * time.Hour), true
	}
	if strings.EqualFold(display, "just now") || strings.EqualFold(display, "now") {
		return now, true
	}

	if m := relativePattern.FindStringSubmatch(display); m != nil {
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err == nil {
			if unit, ok := relativeUnits[strings.ToLower(m[2])]; ok {
				return now.Add(-time.Duration(n) * unit), true
			}
		}
	}

	for _, layout := range monthDayLayouts {
		t, err := time.Parse(layout, display)
		if err != nil {
			continue
		}
		t = time.Date(now.Year(), t.Month(), t.Day(), 12, 0, 0, 0, now.Location())
		if t.After(now) {
			t = t.AddDate(-1, 0, 0)
		}
		return t, true
	}

	return time.Time{}, false
}
