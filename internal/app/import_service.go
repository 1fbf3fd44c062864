package app

import (
	"context"
	"fmt"
	"log"
	"os"

	"pregweight/internal/domain"
)

// ImportService loads bulk weight history from JSON documents.
type ImportService struct {
	weights   *WeightService
	pregnancy *PregnancyService
	now       domain.Clock
}

// NewImportService creates an ImportService.
func NewImportService(weights *WeightService, pregnancy *PregnancyService, now domain.Clock) *ImportService {
	return &ImportService{weights: weights, pregnancy: pregnancy, now: now}
}

// ImportResult describes what an import did.
type ImportResult struct {
	Imported  int    `json:"imported"`
	Skipped   bool   `json:"skipped"`
	Reason    string `json:"reason,omitempty"`
	StartDate string `json:"startDate,omitempty"`
}

// ImportFile reads and imports the document at path.
func (s *ImportService) ImportFile(ctx context.Context, path string) (ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("read import: %w", err)
	}
	f, err := domain.ParseImport(data)
	if err != nil {
		return ImportResult{}, err
	}
	return s.Import(ctx, f)
}

// Import replaces the local records with the file's when the local
// collection is empty or the file reaches a strictly later date. There is no
// merge. The start date becomes the file's explicit one, else the one derived
// from the imported annotations, else stays as is; all records are then
// recomputed against it.
//
// Import is not atomic: a store failure part way leaves what was written.
func (s *ImportService) Import(ctx context.Context, f domain.ImportFile) (ImportResult, error) {
	incoming := f.ToRecords(s.now().UnixMilli())
	if len(incoming) == 0 {
		return ImportResult{Skipped: true, Reason: "file has no records"}, nil
	}

	local, err := s.weights.All(ctx)
	if err != nil {
		return ImportResult{}, err
	}
	if len(local) > 0 && !newerThan(incoming, local) {
		log.Printf("import skipped: local data (%d records) is as recent as the file", len(local))
		return ImportResult{Skipped: true, Reason: "local data is as recent as the file"}, nil
	}

	if err := s.weights.ReplaceAll(ctx, incoming); err != nil {
		return ImportResult{}, err
	}

	start := ""
	if f.StartDate != "" {
		if _, ok := domain.ParseDay(f.StartDate); ok {
			start = domain.NormalizeDay(f.StartDate)
		}
	}
	if start == "" {
		start, _ = domain.DeriveStartDate(incoming)
	}

	if start != "" {
		_, err = s.pregnancy.SetStartDate(ctx, start)
	} else {
		_, err = s.weights.RecomputeAll(ctx)
	}
	if err != nil {
		return ImportResult{}, err
	}
	if start == "" {
		if start, err = s.pregnancy.StartDate(ctx); err != nil {
			return ImportResult{}, err
		}
	}

	log.Printf("imported %d records, start date %s", len(incoming), start)
	return ImportResult{Imported: len(incoming), StartDate: start}, nil
}

func newerThan(incoming, local []domain.WeightRecord) bool {
	in, ok := domain.Newest(incoming)
	if !ok {
		return false
	}
	loc, ok := domain.Newest(local)
	if !ok {
		return true
	}
	inAt, _ := domain.ParseDay(in.Date)
	locAt, _ := domain.ParseDay(loc.Date)
	return inAt.After(locAt)
}
