package app

import (
	"context"

	"pregweight/internal/domain"
)

// ChartsService encapsulates chart data retrieval use cases.
type ChartsService struct {
	weights *WeightService
}

// NewChartsService creates a ChartsService reading from the weight records.
func NewChartsService(weights *WeightService) *ChartsService {
	return &ChartsService{weights: weights}
}

// ChartPoint is one plotted record.
type ChartPoint struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
	Week   *int    `json:"pregnancyWeek,omitempty"`
	Day    *int    `json:"pregnancyDay,omitempty"`
}

// Chart is the weight series oldest first, with summary statistics.
type Chart struct {
	Points []ChartPoint `json:"points"`
	Max    float64      `json:"max"`
	Min    float64      `json:"min"`
	Avg    float64      `json:"avg"`
}

// WeightChart returns the whole series in chronological order. Statistics
// are rounded to one decimal and zero for an empty series.
func (s *ChartsService) WeightChart(ctx context.Context) (Chart, error) {
	records, err := s.weights.All(ctx)
	if err != nil {
		return Chart{}, err
	}
	domain.SortOldestFirst(records)

	out := Chart{Points: make([]ChartPoint, 0, len(records))}
	if len(records) == 0 {
		return out, nil
	}

	var sum float64
	out.Max, out.Min = records[0].Weight, records[0].Weight
	for _, r := range records {
		out.Points = append(out.Points, ChartPoint{Date: r.Date, Weight: r.Weight, Week: r.PregnancyWeek, Day: r.PregnancyDay})
		out.Max = max(out.Max, r.Weight)
		out.Min = min(out.Min, r.Weight)
		sum += r.Weight
	}
	out.Max = domain.Round1(out.Max)
	out.Min = domain.Round1(out.Min)
	out.Avg = domain.Round1(sum / float64(len(records)))
	return out, nil
}
