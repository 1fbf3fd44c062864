package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"pregweight/internal/domain"
)

// PregnancyService manages the canonical start date and keeps the records'
// gestational ages consistent with it.
type PregnancyService struct {
	store   domain.Store
	weights *WeightService
	now     domain.Clock
}

// NewPregnancyService creates a PregnancyService.
func NewPregnancyService(store domain.Store, weights *WeightService, now domain.Clock) *PregnancyService {
	return &PregnancyService{store: store, weights: weights, now: now}
}

// StartDate returns the canonical start date, or the default (today minus
// twelve weeks) when none is stored.
func (s *PregnancyService) StartDate(ctx context.Context) (string, error) {
	return currentStartDate(ctx, s.store, s.now())
}

// SetStartDate stores a new start date and recomputes every record against
// it. It returns the number of records recomputed.
func (s *PregnancyService) SetStartDate(ctx context.Context, day string) (int, error) {
	if !domain.ValidDay(day) {
		return 0, domain.ErrInvalidDay
	}
	if err := s.store.Set(ctx, domain.KeyPregnancyStartDate, day); err != nil {
		return 0, fmt.Errorf("save start date: %w", err)
	}
	return s.weights.RecomputeAll(ctx)
}

// Age returns the gestational age on day, or right now when day is empty.
func (s *PregnancyService) Age(ctx context.Context, day string) (domain.GestationalAge, error) {
	start, err := s.StartDate(ctx)
	if err != nil {
		return domain.GestationalAge{}, err
	}
	return domain.AgeOn(start, day, s.now()), nil
}

// Initialize runs at launch. It makes sure the record collection and a start
// date exist, deriving the date from the records when it can, and then
// reconciles.
func (s *PregnancyService) Initialize(ctx context.Context) (*domain.Reconciliation, error) {
	var records []domain.WeightRecord
	ok, err := s.store.Get(ctx, domain.KeyWeightRecords, &records)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	if !ok {
		if err := s.store.Set(ctx, domain.KeyWeightRecords, []domain.WeightRecord{}); err != nil {
			return nil, fmt.Errorf("init records: %w", err)
		}
	}

	_, ok, err = storedStartDate(ctx, s.store)
	if err != nil {
		return nil, err
	}
	if !ok {
		start, derived := domain.DeriveStartDate(records)
		if !derived {
			start = defaultStartDate(s.now())
		}
		n, err := s.SetStartDate(ctx, start)
		if err != nil {
			return nil, err
		}
		log.Printf("initialized start date %s (derived=%v, records=%d)", start, derived, n)
	}

	return s.Reconcile(ctx, "launch")
}

// Reconcile re-derives the start date from the earliest record. When it
// disagrees with the stored date the stored date is corrected, all records
// are recomputed and an audit entry is appended and returned. It returns nil
// when nothing changed.
func (s *PregnancyService) Reconcile(ctx context.Context, reason string) (*domain.Reconciliation, error) {
	records, err := s.weights.All(ctx)
	if err != nil {
		return nil, err
	}
	derived, ok := domain.DeriveStartDate(records)
	if !ok {
		return nil, nil
	}
	previous, _, err := storedStartDate(ctx, s.store)
	if err != nil {
		return nil, err
	}
	if domain.NormalizeDay(previous) == derived {
		return nil, nil
	}

	n, err := s.SetStartDate(ctx, derived)
	if err != nil {
		return nil, err
	}

	entry := domain.Reconciliation{
		ID:                uuid.NewString(),
		At:                s.now().UTC(),
		Reason:            reason,
		Previous:          previous,
		Derived:           derived,
		RecordsRecomputed: n,
	}
	audit, err := s.AuditLog(ctx)
	if err != nil {
		return nil, err
	}
	audit = append([]domain.Reconciliation{entry}, audit...)
	if err := s.store.Set(ctx, domain.KeyStartDateAudit, audit); err != nil {
		return nil, fmt.Errorf("save audit: %w", err)
	}

	log.Printf("reconcile (%s): start date %q -> %q, recomputed %d records", reason, previous, derived, n)
	return &entry, nil
}

// AuditLog returns the start-date corrections, newest first.
func (s *PregnancyService) AuditLog(ctx context.Context) ([]domain.Reconciliation, error) {
	audit := []domain.Reconciliation{}
	if _, err := s.store.Get(ctx, domain.KeyStartDateAudit, &audit); err != nil {
		return nil, fmt.Errorf("load audit: %w", err)
	}
	return audit, nil
}

func storedStartDate(ctx context.Context, store domain.Store) (string, bool, error) {
	var start string
	ok, err := store.Get(ctx, domain.KeyPregnancyStartDate, &start)
	if err != nil {
		return "", false, fmt.Errorf("load start date: %w", err)
	}
	return start, ok && start != "", nil
}

func currentStartDate(ctx context.Context, store domain.Store, now time.Time) (string, error) {
	start, ok, err := storedStartDate(ctx, store)
	if err != nil {
		return "", err
	}
	if !ok {
		return defaultStartDate(now), nil
	}
	return start, nil
}

func defaultStartDate(now time.Time) string {
	return domain.FormatDay(now.AddDate(0, 0, -DefaultStartOffsetDays))
}
