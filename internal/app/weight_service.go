package app

import (
	"context"
	"fmt"
	"math"
	"sync"

	"pregweight/internal/domain"
)

// DefaultStartOffsetDays is how far before today the start date is placed
// when nothing better is known (12 weeks).
const DefaultStartOffsetDays = 84

// WeightService encapsulates weight-record use cases on top of the
// key-value store. It owns the weightRecords key; every mutation goes
// through mu.
type WeightService struct {
	store domain.Store
	now   domain.Clock

	mu     sync.Mutex
	lastID int64
}

// NewWeightService creates a WeightService backed by the given store.
func NewWeightService(store domain.Store, now domain.Clock) *WeightService {
	return &WeightService{store: store, now: now}
}

// Upsert records weightKg for day (today when empty). When age is nil the
// gestational age is computed from the current start date. A record already
// on that day is replaced in place with a fresh id.
func (s *WeightService) Upsert(ctx context.Context, weightKg float64, day string, age *domain.GestationalAge) (domain.WeightRecord, error) {
	if weightKg <= 0 || math.IsNaN(weightKg) || math.IsInf(weightKg, 0) {
		return domain.WeightRecord{}, domain.ErrInvalidWeight
	}
	if day == "" {
		day = domain.FormatDay(s.now())
	} else if _, ok := domain.ParseDay(day); !ok {
		return domain.WeightRecord{}, domain.ErrInvalidDay
	}
	day = domain.NormalizeDay(day)
	if age != nil && (age.Weeks < 0 || age.Days < 0 || age.Days > 6) {
		return domain.WeightRecord{}, domain.ErrInvalidAge
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := loadRecords(ctx, s.store)
	if err != nil {
		return domain.WeightRecord{}, err
	}

	if age == nil {
		start, err := currentStartDate(ctx, s.store, s.now())
		if err != nil {
			return domain.WeightRecord{}, err
		}
		a := domain.AgeOn(start, day, s.now())
		age = &a
	}

	rec := domain.WeightRecord{
		ID:        s.nextID(records),
		Date:      day,
		Weight:    weightKg,
		Timestamp: domain.DayTimestamp(day),
	}
	rec.SetAge(*age)

	replaced := false
	for i := range records {
		if records[i].Date == day {
			records[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, rec)
	}

	if err := saveRecords(ctx, s.store, records); err != nil {
		return domain.WeightRecord{}, err
	}
	return rec, nil
}

// List returns one page of records, newest first.
func (s *WeightService) List(ctx context.Context, page, pageSize int) (domain.Page, error) {
	records, err := s.All(ctx)
	if err != nil {
		return domain.Page{}, err
	}
	return domain.Paginate(records, page, pageSize), nil
}

// All returns every record, newest first.
func (s *WeightService) All(ctx context.Context) ([]domain.WeightRecord, error) {
	records, err := loadRecords(ctx, s.store)
	if err != nil {
		return nil, err
	}
	domain.SortNewestFirst(records)
	return records, nil
}

// Remove deletes every record with id and reports how many went. A missing
// id is not an error.
func (s *WeightService) Remove(ctx context.Context, id int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := loadRecords(ctx, s.store)
	if err != nil {
		return 0, err
	}
	kept := records[:0]
	for _, r := range records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	removed := len(records) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	return removed, saveRecords(ctx, s.store, kept)
}

// Latest returns the weight of the record with the newest date, or nil.
func (s *WeightService) Latest(ctx context.Context) (*float64, error) {
	rec, err := s.LatestRecord(ctx)
	if err != nil || rec == nil {
		return nil, err
	}
	return &rec.Weight, nil
}

// LatestRecord returns the record with the newest date, or nil.
func (s *WeightService) LatestRecord(ctx context.Context) (*domain.WeightRecord, error) {
	records, err := loadRecords(ctx, s.store)
	if err != nil {
		return nil, err
	}
	rec, ok := domain.Newest(records)
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// RecordOn returns the record for day, or nil.
func (s *WeightService) RecordOn(ctx context.Context, day string) (*domain.WeightRecord, error) {
	records, err := loadRecords(ctx, s.store)
	if err != nil {
		return nil, err
	}
	day = domain.NormalizeDay(day)
	for _, r := range records {
		if r.Date == day {
			return &r, nil
		}
	}
	return nil, nil
}

// RecomputeAll reassigns every record's gestational age from the current
// start date and returns how many records were rewritten.
func (s *WeightService) RecomputeAll(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := loadRecords(ctx, s.store)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}
	start, err := currentStartDate(ctx, s.store, s.now())
	if err != nil {
		return 0, err
	}
	now := s.now()
	for i := range records {
		records[i].SetAge(domain.AgeOn(start, records[i].Date, now))
	}
	if err := saveRecords(ctx, s.store, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// ReplaceAll swaps the whole collection, as a bulk import does.
func (s *WeightService) ReplaceAll(ctx context.Context, records []domain.WeightRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		s.lastID = max(s.lastID, r.ID)
	}
	return saveRecords(ctx, s.store, records)
}

// nextID hands out millisecond ids, bumped past anything already issued or
// stored so that records created in the same millisecond stay distinct.
func (s *WeightService) nextID(records []domain.WeightRecord) int64 {
	id := s.now().UnixMilli()
	floor := s.lastID
	for _, r := range records {
		floor = max(floor, r.ID)
	}
	if id <= floor {
		id = floor + 1
	}
	s.lastID = id
	return id
}

func loadRecords(ctx context.Context, store domain.Store) ([]domain.WeightRecord, error) {
	var records []domain.WeightRecord
	if _, err := store.Get(ctx, domain.KeyWeightRecords, &records); err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	return records, nil
}

func saveRecords(ctx context.Context, store domain.Store, records []domain.WeightRecord) error {
	if records == nil {
		records = []domain.WeightRecord{}
	}
	domain.SortNewestFirst(records)
	if err := store.Set(ctx, domain.KeyWeightRecords, records); err != nil {
		return fmt.Errorf("save records: %w", err)
	}
	return nil
}
