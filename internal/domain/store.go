package domain

import (
	"context"
	"time"
)

// Keys of the key-value store.
const (
	KeyWeightRecords      = "weightRecords"
	KeyPregnancyStartDate = "pregnancyStartDate"
	KeyUserHeight         = "userHeight"
	KeyPrePregnancyWeight = "prePregnancyWeight"
	KeyStartDateAudit     = "startDateAudit"
)

// Store is the port for the flat key-value persistence the tracker runs on.
// Values are JSON documents.
type Store interface {
	// Get decodes the value under key into dst. It reports false, leaving
	// dst untouched, when the key is absent.
	Get(ctx context.Context, key string, dst any) (bool, error)
	// Set replaces the value under key.
	Set(ctx context.Context, key string, v any) error
}

// Reconciliation is an audit entry written whenever the stored start date is
// corrected to the one derived from the records.
type Reconciliation struct {
	ID                string    `json:"id"`
	At                time.Time `json:"at"`
	Reason            string    `json:"reason"`
	Previous          string    `json:"previous"`
	Derived           string    `json:"derived"`
	RecordsRecomputed int       `json:"recordsRecomputed"`
}
