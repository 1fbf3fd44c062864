package adapthttp

import (
	"fmt"
	"net/http"

	"pregweight/internal/domain"
)

func (s *Server) handleChartsWeight(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	unit := r.URL.Query().Get("unit")
	if unit == "" {
		unit = domain.UnitKg
	}
	if unit != domain.UnitKg && unit != domain.UnitLb {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unit must be %q or %q", domain.UnitKg, domain.UnitLb))
		return
	}

	chart, err := s.charts.WeightChart(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if unit != domain.UnitKg {
		conv := func(v float64) float64 { return domain.Round1(domain.ConvertWeight(v, domain.UnitKg, unit)) }
		for i := range chart.Points {
			chart.Points[i].Weight = conv(chart.Points[i].Weight)
		}
		chart.Max, chart.Min, chart.Avg = conv(chart.Max), conv(chart.Min), conv(chart.Avg)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"unit":   unit,
		"today":  domain.FormatDay(s.now()),
		"points": chart.Points,
		"max":    chart.Max,
		"min":    chart.Min,
		"avg":    chart.Avg,
	})
}
