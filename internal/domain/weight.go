package domain

import (
	"errors"
	"sort"
	"time"
)

// ErrInvalidWeight is returned when a weight is not a positive number.
var ErrInvalidWeight = errors.New("weight must be > 0")

// ErrInvalidAge is returned when a supplied gestational age is out of range.
var ErrInvalidAge = errors.New("pregnancyWeek must be >= 0 and pregnancyDay 0-6")

// WeightRecord is one calendar-day weight observation. Date is unique across
// the collection. PregnancyWeek and PregnancyDay are nil only for imported
// rows that carried no annotation and have not been recomputed yet.
type WeightRecord struct {
	ID            int64   `json:"id"`
	Date          string  `json:"date"`
	Weight        float64 `json:"weight"`
	PregnancyWeek *int    `json:"pregnancyWeek,omitempty"`
	PregnancyDay  *int    `json:"pregnancyDay,omitempty"`
	Timestamp     int64   `json:"timestamp"`
}

// Age returns the stored gestational annotation, if both fields are set.
func (r WeightRecord) Age() (GestationalAge, bool) {
	if r.PregnancyWeek == nil || r.PregnancyDay == nil {
		return GestationalAge{}, false
	}
	return GestationalAge{Weeks: *r.PregnancyWeek, Days: *r.PregnancyDay}, true
}

// SetAge overwrites the gestational annotation.
func (r *WeightRecord) SetAge(a GestationalAge) {
	w, d := a.Weeks, a.Days
	r.PregnancyWeek = &w
	r.PregnancyDay = &d
}

// DayTimestamp returns the epoch milliseconds of the local midnight of day,
// or 0 when day does not parse.
func DayTimestamp(day string) int64 {
	t, ok := ParseDay(day)
	if !ok {
		return 0
	}
	return LocalMidnight(t).UnixMilli()
}

// SortNewestFirst orders records descending by decoded date. Unparsable
// dates sort last.
func SortNewestFirst(records []WeightRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return dayAfter(records[i].Date, records[j].Date)
	})
}

// SortOldestFirst orders records ascending by decoded date. Unparsable dates
// sort last.
func SortOldestFirst(records []WeightRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return compareDays(records[i].Date, records[j].Date, time.Time.Before)
	})
}

func dayAfter(a, b string) bool {
	return compareDays(a, b, time.Time.After)
}

// compareDays applies less to the decoded dates; a parsable day always
// orders before one that does not parse.
func compareDays(a, b string, less func(time.Time, time.Time) bool) bool {
	ta, okA := ParseDay(a)
	tb, okB := ParseDay(b)
	switch {
	case okA && okB:
		return less(ta, tb)
	case okA:
		return true
	default:
		return false
	}
}

// Page is one page of the newest-first record collection.
type Page struct {
	Records  []WeightRecord `json:"records"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
	HasMore  bool           `json:"hasMore"`
}

// Paginate slices records[(page-1)*pageSize : page*pageSize]. Out-of-range
// pages yield an empty slice rather than an error.
func Paginate(records []WeightRecord, page, pageSize int) Page {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	out := Page{Records: []WeightRecord{}, Total: len(records), Page: page, PageSize: pageSize}

	// Bounds are checked before multiplying so huge query values cannot overflow.
	pages := len(records) / pageSize
	if len(records)%pageSize != 0 {
		pages++
	}
	if page-1 >= pages {
		return out
	}
	start := (page - 1) * pageSize
	end := start + min(pageSize, len(records)-start)
	out.Records = append(out.Records, records[start:end]...)
	out.HasMore = len(out.Records) == pageSize && end < out.Total
	return out
}

// Clock supplies the current instant. Services take one so that "today" and
// "now" are deterministic under test.
type Clock func() time.Time
