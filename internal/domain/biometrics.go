package domain

import "math"

// BMIClass is the weight-status band derived from a BMI value. The empty
// class means no BMI could be computed.
type BMIClass string

// BMI classes, using the Chinese adult cut-offs (24 and 28).
const (
	Underweight BMIClass = "underweight"
	Normal      BMIClass = "normal"
	Overweight  BMIClass = "overweight"
	Obese       BMIClass = "obese"
)

// Trimester is the coarse pregnancy stage for a gestational week. The empty
// trimester means unclassified.
type Trimester string

// Trimesters.
const (
	FirstTrimester  Trimester = "first"
	SecondTrimester Trimester = "second"
	ThirdTrimester  Trimester = "third"
)

// ExcessiveGainKg is the total gain above which the dashboard raises a flag.
const ExcessiveGainKg = 20.0

// Round1 rounds v to one decimal place, halves away from zero. The small
// nudge keeps values such as 20.05, stored as 20.0499..., on the side their
// decimal spelling suggests.
func Round1(v float64) float64 {
	return math.Round(v*10+math.Copysign(1e-9, v)) / 10
}

// BMI returns weightKg / (heightCm/100)^2 rounded to one decimal. A
// non-positive height yields 0.
func BMI(weightKg, heightCm float64) float64 {
	if heightCm <= 0 {
		return 0
	}
	m := heightCm / 100
	return Round1(weightKg / (m * m))
}

// ClassifyBMI buckets a BMI value.
func ClassifyBMI(bmi float64) BMIClass {
	switch {
	case bmi < 18.5:
		return Underweight
	case bmi < 24:
		return Normal
	case bmi < 28:
		return Overweight
	default:
		return Obese
	}
}

// TrimesterFor buckets a gestational week count.
func TrimesterFor(weeks int) Trimester {
	switch {
	case weeks < 14:
		return FirstTrimester
	case weeks < 28:
		return SecondTrimester
	default:
		return ThirdTrimester
	}
}

// WeightGain returns current - baseline rounded to one decimal.
func WeightGain(currentKg, baselineKg float64) float64 {
	return Round1(currentKg - baselineKg)
}

// RecommendedGain looks up the recommended weight-gain band. Only the normal
// class is split by trimester; unknown classes fall back to the normal
// whole-pregnancy band.
func RecommendedGain(class BMIClass, trimester Trimester) string {
	switch class {
	case Normal:
		switch trimester {
		case FirstTrimester:
			return "1-2kg"
		case SecondTrimester, ThirdTrimester:
			return "0.37kg/week"
		}
		return "8-14kg"
	case Underweight:
		return "12.5-18kg"
	case Overweight:
		return "7-11.5kg"
	case Obese:
		return "5-9kg"
	}
	return "8-14kg"
}
