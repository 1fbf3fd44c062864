package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FlexFloat64 accepts either a JSON number or a numeric string.
type FlexFloat64 float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexFloat64) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexFloat64(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("FlexFloat64: invalid number string %q: %w", s, err)
		}
		*f = FlexFloat64(v)
		return nil
	}

	return fmt.Errorf("FlexFloat64: unexpected type, expected number or string")
}

// MarshalJSON implements json.Marshaler.
func (f FlexFloat64) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(f))
}

// ImportRow is one record of a bulk-import document. Gestational fields only
// count when they were JSON numbers.
type ImportRow struct {
	Date          string      `json:"date"`
	Weight        FlexFloat64 `json:"weight"`
	PregnancyWeek *int        `json:"-"`
	PregnancyDay  *int        `json:"-"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *ImportRow) UnmarshalJSON(data []byte) error {
	var raw struct {
		Date          string          `json:"date"`
		Weight        FlexFloat64     `json:"weight"`
		PregnancyWeek json.RawMessage `json:"pregnancyWeek"`
		PregnancyDay  json.RawMessage `json:"pregnancyDay"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Date = raw.Date
	r.Weight = raw.Weight
	r.PregnancyWeek = numericInt(raw.PregnancyWeek)
	r.PregnancyDay = numericInt(raw.PregnancyDay)
	return nil
}

func numericInt(raw json.RawMessage) *int {
	var n float64
	if len(raw) == 0 || raw[0] != '-' && (raw[0] < '0' || raw[0] > '9') || json.Unmarshal(raw, &n) != nil {
		return nil
	}
	if n != math.Trunc(n) || n < -1e6 || n > 1e6 {
		return nil
	}
	v := int(n)
	return &v
}

// ImportFile is a parsed bulk-import document.
type ImportFile struct {
	Records   []ImportRow `json:"records"`
	StartDate string      `json:"pregnancyStartDate,omitempty"`
}

// ParseImport decodes either a bare array of rows or an object of the form
// {"records": [...], "pregnancyStartDate"|"startDate": "YYYY-MM-DD"}.
func ParseImport(data []byte) (ImportFile, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var rows []ImportRow
		if err := json.Unmarshal(data, &rows); err != nil {
			return ImportFile{}, fmt.Errorf("parse import: %w", err)
		}
		return ImportFile{Records: rows}, nil
	}

	var doc struct {
		Records            []ImportRow `json:"records"`
		PregnancyStartDate string      `json:"pregnancyStartDate"`
		StartDate          string      `json:"startDate"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return ImportFile{}, fmt.Errorf("parse import: %w", err)
	}
	start := doc.PregnancyStartDate
	if start == "" {
		start = doc.StartDate
	}
	return ImportFile{Records: doc.Records, StartDate: start}, nil
}

// ToRecords converts the rows to records with ids idBase, idBase+1, ...
// Dates are normalised and rows sharing a date collapse into the later one,
// keeping the slot of the first. Rows with no usable date or a non-positive
// weight are dropped.
func (f ImportFile) ToRecords(idBase int64) []WeightRecord {
	out := make([]WeightRecord, 0, len(f.Records))
	slot := make(map[string]int, len(f.Records))
	for i, row := range f.Records {
		if _, ok := ParseDay(row.Date); !ok || row.Weight <= 0 {
			continue
		}
		date := NormalizeDay(row.Date)
		rec := WeightRecord{
			ID:            idBase + int64(i),
			Date:          date,
			Weight:        float64(row.Weight),
			PregnancyWeek: row.PregnancyWeek,
			PregnancyDay:  row.PregnancyDay,
			Timestamp:     DayTimestamp(date),
		}
		if j, ok := slot[date]; ok {
			out[j] = rec
			continue
		}
		slot[date] = len(out)
		out = append(out, rec)
	}
	return out
}
