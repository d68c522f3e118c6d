package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"marketdash/internal/market"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// fail maps a service error to an HTTP response: not-found becomes 404 with
// the given message, everything else is a 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, notFoundMessage string) {
	if errors.Is(err, market.ErrNotFound) {
		respondError(w, http.StatusNotFound, notFoundMessage)
		return
	}
	s.logger.WithError(err).WithField("path", r.URL.Path).Error("request failed")
	respondError(w, http.StatusInternalServerError, "upstream data unavailable")
}
