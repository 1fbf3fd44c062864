package app

import (
	"context"

	"pregweight/internal/domain"
)

// AnalyticsService derives BMI, weight gain and the dashboard summary from
// the stored records and profile.
type AnalyticsService struct {
	weights   *WeightService
	profile   *ProfileService
	pregnancy *PregnancyService
	now       domain.Clock
}

// NewAnalyticsService creates an AnalyticsService.
func NewAnalyticsService(weights *WeightService, profile *ProfileService, pregnancy *PregnancyService, now domain.Clock) *AnalyticsService {
	return &AnalyticsService{weights: weights, profile: profile, pregnancy: pregnancy, now: now}
}

// Summary is the dashboard view.
type Summary struct {
	Today           string                `json:"today"`
	StartDate       string                `json:"startDate"`
	Age             domain.GestationalAge `json:"age"`
	Trimester       domain.Trimester      `json:"trimester"`
	Latest          *domain.WeightRecord  `json:"latest"`
	HasRecordToday  bool                  `json:"hasRecordToday"`
	BMI             *float64              `json:"bmi"`
	BMIClass        domain.BMIClass       `json:"bmiClass,omitempty"`
	WeightGain      *float64              `json:"weightGain"`
	RecommendedGain string                `json:"recommendedGain"`
	ExcessiveGain   bool                  `json:"excessiveGain"`
	Profile         domain.Profile        `json:"profile"`
}

// BMI computes the BMI for an explicit weight, else for the record on day,
// else for the latest record. It returns nil when no weight resolves.
func (s *AnalyticsService) BMI(ctx context.Context, weightKg *float64, day string) (*float64, error) {
	w, err := s.resolveWeight(ctx, weightKg, day)
	if err != nil || w == nil {
		return nil, err
	}
	p, err := s.profile.Get(ctx)
	if err != nil {
		return nil, err
	}
	bmi := domain.BMI(*w, p.HeightCm)
	return &bmi, nil
}

// WeightGain returns the gain over the pre-pregnancy weight for the record on
// day, else the latest record. It returns nil when no weight resolves.
func (s *AnalyticsService) WeightGain(ctx context.Context, day string) (*float64, error) {
	w, err := s.resolveWeight(ctx, nil, day)
	if err != nil || w == nil {
		return nil, err
	}
	p, err := s.profile.Get(ctx)
	if err != nil {
		return nil, err
	}
	gain := domain.WeightGain(*w, p.PrePregnancyWeightKg)
	return &gain, nil
}

// Classify returns the BMI class, or the empty class for a nil BMI.
func Classify(bmi *float64) domain.BMIClass {
	if bmi == nil {
		return ""
	}
	return domain.ClassifyBMI(*bmi)
}

// Summary assembles the dashboard: today's gestational age and trimester,
// plus BMI, gain and the recommended band for the latest record.
func (s *AnalyticsService) Summary(ctx context.Context) (Summary, error) {
	now := s.now()
	out := Summary{Today: domain.FormatDay(now)}

	start, err := s.pregnancy.StartDate(ctx)
	if err != nil {
		return Summary{}, err
	}
	out.StartDate = start
	out.Age = domain.AgeOn(start, "", now)
	out.Trimester = domain.TrimesterFor(out.Age.Weeks)

	if out.Profile, err = s.profile.Get(ctx); err != nil {
		return Summary{}, err
	}
	if out.Latest, err = s.weights.LatestRecord(ctx); err != nil {
		return Summary{}, err
	}
	if out.Latest != nil {
		out.HasRecordToday = out.Latest.Date == out.Today
		bmi := domain.BMI(out.Latest.Weight, out.Profile.HeightCm)
		gain := domain.WeightGain(out.Latest.Weight, out.Profile.PrePregnancyWeightKg)
		out.BMI, out.WeightGain = &bmi, &gain
		out.ExcessiveGain = gain > domain.ExcessiveGainKg
	}
	out.BMIClass = Classify(out.BMI)
	out.RecommendedGain = domain.RecommendedGain(out.BMIClass, out.Trimester)
	return out, nil
}

func (s *AnalyticsService) resolveWeight(ctx context.Context, weightKg *float64, day string) (*float64, error) {
	if weightKg != nil && positive(*weightKg) {
		return weightKg, nil
	}
	if day != "" {
		rec, err := s.weights.RecordOn(ctx, day)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			return &rec.Weight, nil
		}
	}
	return s.weights.Latest(ctx)
}
