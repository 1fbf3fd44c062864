package domain

import (
	"math"
	"time"
)

// GestationalAge is the time elapsed since the pregnancy start date.
type GestationalAge struct {
	Weeks int `json:"weeks"`
	Days  int `json:"days"`
}

// TotalDays returns the age as a single day offset.
func (a GestationalAge) TotalDays() int {
	return a.Weeks*7 + a.Days
}

const dayDuration = 24 * time.Hour

// AgeBetween returns the gestational age of target relative to start.
//
// The whole-day difference is floored and measured on local wall-clock
// fields, so a DST change between the two does not drop a day. Weeks and
// Days then both truncate toward zero: a target three days before start
// yields {0, -3}, and Weeks*7+Days always equals the day difference.
func AgeBetween(start, target time.Time) GestationalAge {
	diff := wallClock(target).Sub(wallClock(start))
	days := int(math.Floor(float64(diff) / float64(dayDuration)))
	return GestationalAge{Weeks: days / 7, Days: days % 7}
}

// AgeOn decodes startDay and targetDay and returns the age between them. An
// empty targetDay means now (the instant, not midnight). Strings that do not
// parse degrade to now rather than failing.
func AgeOn(startDay, targetDay string, now time.Time) GestationalAge {
	start := ParseDayOr(startDay, now)
	target := now
	if targetDay != "" {
		target = ParseDayOr(targetDay, now)
	}
	return AgeBetween(start, target)
}

// DeriveStartDate infers the start date that would give the chronologically
// earliest record its stored gestational age. It reports false when there are
// no records or the earliest one carries no age.
func DeriveStartDate(records []WeightRecord) (string, bool) {
	earliest, ok := Earliest(records)
	if !ok {
		return "", false
	}
	age, ok := earliest.Age()
	if !ok {
		return "", false
	}
	at, _ := ParseDay(earliest.Date)
	return FormatDay(LocalMidnight(at).AddDate(0, 0, -age.TotalDays())), true
}

// Earliest returns the record with the minimum decoded date. Records whose
// date does not parse are ignored; the first of equal dates wins.
func Earliest(records []WeightRecord) (WeightRecord, bool) {
	var (
		best   WeightRecord
		bestAt time.Time
		found  bool
	)
	for _, r := range records {
		at, ok := ParseDay(r.Date)
		if !ok {
			continue
		}
		if !found || at.Before(bestAt) {
			best, bestAt, found = r, at, true
		}
	}
	return best, found
}

// Newest returns the record with the maximum decoded date, with the same
// tie and parse rules as Earliest.
func Newest(records []WeightRecord) (WeightRecord, bool) {
	var (
		best   WeightRecord
		bestAt time.Time
		found  bool
	)
	for _, r := range records {
		at, ok := ParseDay(r.Date)
		if !ok {
			continue
		}
		if !found || at.After(bestAt) {
			best, bestAt, found = r, at, true
		}
	}
	return best, found
}

func wallClock(t time.Time) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
