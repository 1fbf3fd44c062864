package domain

import "errors"

// Profile defaults used when nothing is stored.
const (
	DefaultHeightCm             = 160.0
	DefaultPrePregnancyWeightKg = 51.0
)

// ErrInvalidHeight is returned when a height is not a positive number.
var ErrInvalidHeight = errors.New("height must be > 0")

// Profile holds the two user scalars the analytics read.
type Profile struct {
	HeightCm             float64 `json:"heightCm"`
	PrePregnancyWeightKg float64 `json:"prePregnancyWeightKg"`
}
