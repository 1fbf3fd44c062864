package app_test

import (
	"context"
	"testing"
	"time"

	"pregweight/internal/adapter/memory"
	"pregweight/internal/app"
	"pregweight/internal/domain"
)

// mockStore wraps the in-memory store; set a function field to intercept.
type mockStore struct {
	*memory.DB
	getFn func(ctx context.Context, key string, dst any) (bool, error)
	setFn func(ctx context.Context, key string, v any) error
}

func newMockStore() *mockStore {
	return &mockStore{DB: memory.New()}
}

func (m *mockStore) Get(ctx context.Context, key string, dst any) (bool, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key, dst)
	}
	return m.DB.Get(ctx, key, dst)
}

func (m *mockStore) Set(ctx context.Context, key string, v any) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, v)
	}
	return m.DB.Set(ctx, key, v)
}

// fixedClock returns a clock frozen at 09:00 local on day.
func fixedClock(t *testing.T, day string) domain.Clock {
	t.Helper()
	d, ok := domain.ParseDay(day)
	if !ok {
		t.Fatalf("bad day %q", day)
	}
	now := d.Add(9 * time.Hour)
	return func() time.Time { return now }
}

// tickingClock advances by one millisecond per call, never by a whole day.
func tickingClock(t *testing.T, day string) domain.Clock {
	t.Helper()
	d, _ := domain.ParseDay(day)
	now := d.Add(9 * time.Hour)
	return func() time.Time {
		now = now.Add(time.Millisecond)
		return now
	}
}

type services struct {
	store     *mockStore
	weights   *app.WeightService
	pregnancy *app.PregnancyService
	profile   *app.ProfileService
	analytics *app.AnalyticsService
	imports   *app.ImportService
	charts    *app.ChartsService
}

func newServices(t *testing.T, now domain.Clock) services {
	t.Helper()
	store := newMockStore()
	weights := app.NewWeightService(store, now)
	pregnancy := app.NewPregnancyService(store, weights, now)
	profile := app.NewProfileService(store)
	return services{
		store:     store,
		weights:   weights,
		pregnancy: pregnancy,
		profile:   profile,
		analytics: app.NewAnalyticsService(weights, profile, pregnancy, now),
		imports:   app.NewImportService(weights, pregnancy, now),
		charts:    app.NewChartsService(weights),
	}
}

func setStart(t *testing.T, s services, day string) {
	t.Helper()
	if err := s.store.Set(context.Background(), domain.KeyPregnancyStartDate, day); err != nil {
		t.Fatalf("set start: %v", err)
	}
}

func storedRecords(t *testing.T, s services) []domain.WeightRecord {
	t.Helper()
	var out []domain.WeightRecord
	if _, err := s.store.DB.Get(context.Background(), domain.KeyWeightRecords, &out); err != nil {
		t.Fatalf("load records: %v", err)
	}
	return out
}

func assertConsistent(t *testing.T, s services) {
	t.Helper()
	var start string
	_, _ = s.store.DB.Get(context.Background(), domain.KeyPregnancyStartDate, &start)
	for _, r := range storedRecords(t, s) {
		got, ok := r.Age()
		want := domain.AgeOn(start, r.Date, time.Now())
		if !ok || got != want {
			t.Errorf("record %s: age %+v; want %+v against start %s", r.Date, got, want, start)
		}
	}
}
