package domain

import "fmt"

// Weight units accepted at the edges. Records are always stored in kg.
const (
	UnitKg = "kg"
	UnitLb = "lb"
)

const kgToLb = 2.2046226218

// ConvertWeight converts a weight value between UnitKg and UnitLb.
// Returns v unchanged if from == to or if the units are unrecognised.
func ConvertWeight(v float64, from, to string) float64 {
	if from == to {
		return v
	}
	if from == UnitKg && to == UnitLb {
		return v * kgToLb
	}
	if from == UnitLb && to == UnitKg {
		return v / kgToLb
	}
	return v
}

// ToKg normalises an incoming weight to kilograms. An empty unit means kg.
func ToKg(v float64, unit string) (float64, error) {
	switch unit {
	case "", UnitKg:
		return v, nil
	case UnitLb:
		return ConvertWeight(v, UnitLb, UnitKg), nil
	}
	return 0, fmt.Errorf("unit must be %q or %q", UnitKg, UnitLb)
}
