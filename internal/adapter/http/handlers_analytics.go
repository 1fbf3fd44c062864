package adapthttp

import (
	"net/http"

	"pregweight/internal/app"
)

func (s *Server) handleBMI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	weight, err := floatQuery(r, "weight")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	day, err := dayQuery(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	bmi, err := s.analytics.BMI(r.Context(), weight, day)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bmi": bmi, "class": app.Classify(bmi)})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sum, err := s.analytics.Summary(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
