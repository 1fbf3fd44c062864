package domain

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// DayLayout is the canonical calendar-day format used for record dates and
// the pregnancy start date.
const DayLayout = "2006-01-02"

// fallbackLayouts are tried, in order, when a day string is not three
// dash-separated integers.
var fallbackLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"2006/1/2",
	time.RFC1123,
	time.RFC1123Z,
}

// FormatDay formats the local calendar day of t as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return t.In(time.Local).Format(DayLayout)
}

// ParseDay decodes s into a local-midnight time. Strings of exactly three
// dash-separated integers are built field by field, so "2025-02-30" rolls
// over to March 2 like any calendar constructor would. Anything else goes
// through a generic layout fallback; ok is false when nothing matches.
func ParseDay(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if parts := strings.Split(s, "-"); len(parts) == 3 {
		y, errY := strconv.Atoi(parts[0])
		m, errM := strconv.Atoi(parts[1])
		d, errD := strconv.Atoi(parts[2])
		if errY == nil && errM == nil && errD == nil {
			return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.Local), true
		}
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDayOr is ParseDay in degraded mode: unparsable input yields fallback.
func ParseDayOr(s string, fallback time.Time) time.Time {
	if t, ok := ParseDay(s); ok {
		return t
	}
	return fallback
}

// ValidDay reports whether s is a strict, real YYYY-MM-DD calendar day.
func ValidDay(s string) bool {
	t, err := time.ParseInLocation(DayLayout, s, time.Local)
	return err == nil && t.Format(DayLayout) == s
}

// NormalizeDay re-encodes a parsable day string canonically. Unparsable
// input is returned unchanged.
func NormalizeDay(s string) string {
	if t, ok := ParseDay(s); ok {
		return FormatDay(t)
	}
	return s
}

// LocalMidnight truncates t to the start of its local calendar day.
func LocalMidnight(t time.Time) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// ErrInvalidDay is returned when a caller-supplied day is not a usable date.
var ErrInvalidDay = errors.New("date must be YYYY-MM-DD")
