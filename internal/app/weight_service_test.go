package app_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"pregweight/internal/domain"
)

func TestUpsert_Validation(t *testing.T) {
	s := newServices(t, fixedClock(t, "2025-08-17"))

	tests := []struct {
		name    string
		weight  float64
		day     string
		age     *domain.GestationalAge
		wantErr error
	}{
		{"zero weight", 0, "", nil, domain.ErrInvalidWeight},
		{"negative weight", -5, "", nil, domain.ErrInvalidWeight},
		{"NaN weight", math.NaN(), "", nil, domain.ErrInvalidWeight},
		{"bad day", 51, "yesterday", nil, domain.ErrInvalidDay},
		{"negative week", 51, "2025-08-17", &domain.GestationalAge{Weeks: -3, Days: 0}, domain.ErrInvalidAge},
		{"day past six", 51, "2025-08-17", &domain.GestationalAge{Weeks: 3, Days: 40}, domain.ErrInvalidAge},
		{"negative day", 51, "2025-08-17", &domain.GestationalAge{Weeks: 3, Days: -1}, domain.ErrInvalidAge},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.weights.Upsert(context.Background(), tc.weight, tc.day, tc.age)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if recs := storedRecords(t, s); len(recs) != 0 {
				t.Fatalf("rejected upsert stored %v", recs)
			}
		})
	}
}

func TestUpsert_ComputesAge(t *testing.T) {
	s := newServices(t, fixedClock(t, "2025-10-01"))
	setStart(t, s, "2025-06-04")

	rec, err := s.weights.Upsert(context.Background(), 51.2, "2025-08-17", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	age, ok := rec.Age()
	if !ok || age != (domain.GestationalAge{Weeks: 10, Days: 4}) {
		t.Fatalf("unexpected age: %+v", age)
	}
	if rec.Timestamp != domain.DayTimestamp("2025-08-17") {
		t.Errorf("unexpected timestamp %d", rec.Timestamp)
	}
	if rec.ID == 0 {
		t.Error("expected non-zero id")
	}
}

func TestUpsert_DefaultsToToday(t *testing.T) {
	s := newServices(t, fixedClock(t, "2025-08-17"))
	setStart(t, s, "2025-06-04")

	rec, err := s.weights.Upsert(context.Background(), 51.2, "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Date != "2025-08-17" {
		t.Errorf("expected today, got %s", rec.Date)
	}
}

func TestUpsert_ExplicitAge(t *testing.T) {
	s := newServices(t, fixedClock(t, "2025-08-17"))
	rec, err := s.weights.Upsert(context.Background(), 51.2, "2025-08-17", &domain.GestationalAge{Weeks: 3, Days: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a, _ := rec.Age(); a.Weeks != 3 || a.Days != 1 {
		t.Errorf("explicit age ignored: %+v", a)
	}
}

func TestUpsert_IdempotentPerDate(t *testing.T) {
	s := newServices(t, tickingClock(t, "2025-08-17"))
	ctx := context.Background()

	first, err := s.weights.Upsert(ctx, 51.2, "2025-08-17", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.weights.Upsert(ctx, 51.0, "2025-08-16", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := s.weights.Upsert(ctx, 51.6, "2025-8-17", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.ID == first.ID {
		t.Error("expected a fresh id on overwrite")
	}

	records := storedRecords(t, s)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Date != "2025-08-17" || records[0].Weight != 51.6 {
		t.Errorf("expected second write to win in the newest slot: %+v", records[0])
	}
}

func TestUpsert_DistinctIDsWithinMillisecond(t *testing.T) {
	s := newServices(t, fixedClock(t, "2025-08-17"))
	ctx := context.Background()

	seen := map[int64]bool{}
	for _, day := range []string{"2025-08-15", "2025-08-16", "2025-08-17"} {
		rec, err := s.weights.Upsert(ctx, 51, day, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen[rec.ID] {
			t.Fatalf("duplicate id %d", rec.ID)
		}
		seen[rec.ID] = true
	}
}

func TestUpsert_SortsNewestFirst(t *testing.T) {
	s := newServices(t, tickingClock(t, "2025-09-01"))
	ctx := context.Background()
	for _, day := range []string{"2025-08-20", "2025-08-31", "2025-08-17", "2025-08-25"} {
		if _, err := s.weights.Upsert(ctx, 52, day, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	records := storedRecords(t, s)
	want := []string{"2025-08-31", "2025-08-25", "2025-08-20", "2025-08-17"}
	for i, r := range records {
		if r.Date != want[i] {
			t.Fatalf("position %d: got %s, want %s", i, r.Date, want[i])
		}
	}
}

func TestUpsert_StoreError(t *testing.T) {
	s := newServices(t, fixedClock(t, "2025-08-17"))
	s.store.setFn = func(_ context.Context, _ string, _ any) error { return errors.New("disk full") }

	if _, err := s.weights.Upsert(context.Background(), 51, "", nil); err == nil {
		t.Fatal("expected error from store")
	}
}

func TestList_Pagination(t *testing.T) {
	s := newServices(t, tickingClock(t, "2025-09-30"))
	ctx := context.Background()
	start := time.Date(2025, 9, 1, 0, 0, 0, 0, time.Local)
	for i := 0; i < 15; i++ {
		if _, err := s.weights.Upsert(ctx, 52+float64(i)/10, domain.FormatDay(start.AddDate(0, 0, i)), nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	page, err := s.weights.List(ctx, 2, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Records) != 5 || page.HasMore || page.Total != 15 {
		t.Fatalf("unexpected page: len=%d hasMore=%v total=%d", len(page.Records), page.HasMore, page.Total)
	}

	page, _ = s.weights.List(ctx, 1, 10)
	if !page.HasMore || page.Records[0].Date != "2025-09-15" {
		t.Errorf("unexpected first page: hasMore=%v first=%s", page.HasMore, page.Records[0].Date)
	}

	page, _ = s.weights.List(ctx, 9, 10)
	if len(page.Records) != 0 {
		t.Errorf("expected empty out-of-range page, got %d", len(page.Records))
	}
}

func TestRemove(t *testing.T) {
	s := newServices(t, tickingClock(t, "2025-08-20"))
	ctx := context.Background()
	a, _ := s.weights.Upsert(ctx, 51, "2025-08-17", nil)
	_, _ = s.weights.Upsert(ctx, 52, "2025-08-18", nil)

	n, err := s.weights.Remove(ctx, a.ID)
	if err != nil || n != 1 {
		t.Fatalf("Remove: n=%d err=%v", n, err)
	}
	n, err = s.weights.Remove(ctx, 424242)
	if err != nil || n != 0 {
		t.Fatalf("Remove missing: n=%d err=%v", n, err)
	}
	if got := storedRecords(t, s); len(got) != 1 || got[0].Date != "2025-08-18" {
		t.Errorf("unexpected records: %+v", got)
	}
}

func TestLatest(t *testing.T) {
	s := newServices(t, tickingClock(t, "2025-08-20"))
	ctx := context.Background()

	w, err := s.weights.Latest(ctx)
	if err != nil || w != nil {
		t.Fatalf("expected nil latest, got %v (err %v)", w, err)
	}

	_, _ = s.weights.Upsert(ctx, 52.3, "2025-08-19", nil)
	_, _ = s.weights.Upsert(ctx, 51.1, "2025-08-17", nil)

	w, err = s.weights.Latest(ctx)
	if err != nil || w == nil || *w != 52.3 {
		t.Fatalf("expected 52.3, got %v (err %v)", w, err)
	}
}

func TestRecordOn(t *testing.T) {
	s := newServices(t, tickingClock(t, "2025-08-20"))
	ctx := context.Background()
	_, _ = s.weights.Upsert(ctx, 52.3, "2025-08-19", nil)

	rec, err := s.weights.RecordOn(ctx, "2025-8-19")
	if err != nil || rec == nil || rec.Weight != 52.3 {
		t.Fatalf("unexpected record %+v (err %v)", rec, err)
	}
	rec, _ = s.weights.RecordOn(ctx, "2025-08-18")
	if rec != nil {
		t.Errorf("expected nil, got %+v", rec)
	}
}

func TestRecomputeAll(t *testing.T) {
	s := newServices(t, tickingClock(t, "2025-10-01"))
	ctx := context.Background()
	setStart(t, s, "2025-06-04")
	for _, day := range []string{"2025-08-17", "2025-09-03", "2025-09-30"} {
		if _, err := s.weights.Upsert(ctx, 52, day, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	setStart(t, s, "2025-06-01")
	n, err := s.weights.RecomputeAll(ctx)
	if err != nil || n != 3 {
		t.Fatalf("RecomputeAll: n=%d err=%v", n, err)
	}
	assertConsistent(t, s)

	for _, r := range storedRecords(t, s) {
		if r.Date == "2025-08-17" {
			if a, _ := r.Age(); a != (domain.GestationalAge{Weeks: 11, Days: 0}) {
				t.Errorf("unexpected recomputed age %+v", a)
			}
		}
	}
}

func TestRecomputeAll_Empty(t *testing.T) {
	s := newServices(t, fixedClock(t, "2025-10-01"))
	n, err := s.weights.RecomputeAll(context.Background())
	if err != nil || n != 0 {
		t.Fatalf("RecomputeAll: n=%d err=%v", n, err)
	}
	if s.store.Writes() != 0 {
		t.Errorf("expected no writes, got %d", s.store.Writes())
	}
}
