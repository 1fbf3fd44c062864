package adapthttp

import "net/http"

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
	case http.MethodPut:
		var body struct {
			HeightCm             *float64 `json:"heightCm"`
			PrePregnancyWeightKg *float64 `json:"prePregnancyWeightKg"`
		}
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if body.HeightCm != nil {
			if err := s.profile.SetHeight(ctx, *body.HeightCm); err != nil {
				writeServiceError(w, err)
				return
			}
		}
		if body.PrePregnancyWeightKg != nil {
			if err := s.profile.SetPrePregnancyWeight(ctx, *body.PrePregnancyWeightKg); err != nil {
				writeServiceError(w, err)
				return
			}
		}
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	p, err := s.profile.Get(ctx)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
