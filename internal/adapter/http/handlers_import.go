package adapthttp

import (
	"io"
	"net/http"

	"pregweight/internal/domain"
)

const maxImportBytes = 10 << 20

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}
	f, err := domain.ParseImport(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res, err := s.imports.Import(r.Context(), f)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
