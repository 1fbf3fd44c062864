package app

import (
	"context"
	"fmt"
	"math"

	"pregweight/internal/domain"
)

// ProfileService reads and writes the user's height and pre-pregnancy weight.
type ProfileService struct {
	store domain.Store
}

// NewProfileService creates a ProfileService backed by the given store.
func NewProfileService(store domain.Store) *ProfileService {
	return &ProfileService{store: store}
}

// Get returns the profile, substituting defaults for absent or non-positive
// values.
func (s *ProfileService) Get(ctx context.Context) (domain.Profile, error) {
	height, err := s.scalar(ctx, domain.KeyUserHeight, domain.DefaultHeightCm)
	if err != nil {
		return domain.Profile{}, err
	}
	pre, err := s.scalar(ctx, domain.KeyPrePregnancyWeight, domain.DefaultPrePregnancyWeightKg)
	if err != nil {
		return domain.Profile{}, err
	}
	return domain.Profile{HeightCm: height, PrePregnancyWeightKg: pre}, nil
}

// SetHeight stores the height in cm.
func (s *ProfileService) SetHeight(ctx context.Context, cm float64) error {
	if !positive(cm) {
		return domain.ErrInvalidHeight
	}
	return s.set(ctx, domain.KeyUserHeight, cm)
}

// SetPrePregnancyWeight stores the baseline weight in kg.
func (s *ProfileService) SetPrePregnancyWeight(ctx context.Context, kg float64) error {
	if !positive(kg) {
		return domain.ErrInvalidWeight
	}
	return s.set(ctx, domain.KeyPrePregnancyWeight, kg)
}

// EnsureDefaults writes the default for any profile value that is missing.
func (s *ProfileService) EnsureDefaults(ctx context.Context) error {
	defaults := []struct {
		key string
		v   float64
	}{
		{domain.KeyUserHeight, domain.DefaultHeightCm},
		{domain.KeyPrePregnancyWeight, domain.DefaultPrePregnancyWeightKg},
	}
	for _, d := range defaults {
		var v float64
		ok, err := s.store.Get(ctx, d.key, &v)
		if err != nil {
			return fmt.Errorf("load %s: %w", d.key, err)
		}
		if ok && positive(v) {
			continue
		}
		if err := s.set(ctx, d.key, d.v); err != nil {
			return err
		}
	}
	return nil
}

func (s *ProfileService) scalar(ctx context.Context, key string, fallback float64) (float64, error) {
	var v float64
	ok, err := s.store.Get(ctx, key, &v)
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok || !positive(v) {
		return fallback, nil
	}
	return v, nil
}

func (s *ProfileService) set(ctx context.Context, key string, v float64) error {
	if err := s.store.Set(ctx, key, v); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
