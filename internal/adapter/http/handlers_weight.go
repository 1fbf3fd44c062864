package adapthttp

import (
	"errors"
	"net/http"
	"strconv"

	"pregweight/internal/domain"
)

func (s *Server) handleWeightRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		page := intQuery(r, "page", 1)
		size := intQuery(r, "pageSize", s.pageSize)
		result, err := s.weights.List(ctx, page, size)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)

	case http.MethodPost:
		var body struct {
			Weight        float64 `json:"weight"`
			Unit          string  `json:"unit"`
			Date          string  `json:"date"`
			PregnancyWeek *int    `json:"pregnancyWeek"`
			PregnancyDay  *int    `json:"pregnancyDay"`
		}
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		kg, err := domain.ToKg(body.Weight, body.Unit)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		var age *domain.GestationalAge
		if body.PregnancyWeek != nil && body.PregnancyDay != nil {
			age = &domain.GestationalAge{Weeks: *body.PregnancyWeek, Days: *body.PregnancyDay}
		}
		rec, err := s.weights.Upsert(ctx, kg, body.Date, age)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"record": rec})

	case http.MethodDelete:
		id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("id must be an integer"))
			return
		}
		n, err := s.weights.Remove(ctx, id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "deleted": n})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleWeightLatest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	rec, err := s.weights.LatestRecord(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var weight *float64
	if rec != nil {
		weight = &rec.Weight
	}
	writeJSON(w, http.StatusOK, map[string]any{"weight": weight, "record": rec})
}

func (s *Server) handleWeightRecompute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	n, err := s.weights.RecomputeAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"recomputed": n})
}
