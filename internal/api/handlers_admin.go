package api

import (
	"net/http"
	"time"

	"arena-chess/internal/apierr"
)

// handleForceTick runs one arena tick immediately instead of waiting for
// the 60s schedule; useful for operators and integration tests driving
// the engine end to end without a real clock.
func (s *Server) handleForceTick(w http.ResponseWriter, r *http.Request) {
	if s.Arena == nil {
		s.writeError(w, r, apierr.State("arena engine is not wired into this server"))
		return
	}
	if err := s.Arena.Tick(r.Context(), time.Now()); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
