package adapthttp

import (
	"net/http"

	"pregweight/internal/domain"
)

func (s *Server) handleStartDate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		start, err := s.pregnancy.StartDate(ctx)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"startDate": start})

	case http.MethodPut:
		var body struct {
			StartDate string `json:"startDate"`
		}
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		n, err := s.pregnancy.SetStartDate(ctx, body.StartDate)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"startDate": body.StartDate, "recomputed": n})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handlePregnancyAge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	day, err := dayQuery(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	age, err := s.pregnancy.Age(r.Context(), day)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if day == "" {
		day = domain.FormatDay(s.now())
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":      day,
		"age":       age,
		"trimester": domain.TrimesterFor(age.Weeks),
	})
}

func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	entry, err := s.pregnancy.Reconcile(r.Context(), "manual")
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"changed": entry != nil, "reconciliation": entry})
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	items, err := s.pregnancy.AuditLog(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
