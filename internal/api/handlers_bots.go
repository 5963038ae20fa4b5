package api

import (
	"net/http"

	"arena-chess/internal/botengine"
)

// handleListBots surfaces the bot engine registry (C5) so a client can
// populate a "play vs bot" engine picker; not named in section 6's table
// but a direct use of List(), which the registry already exposes.
func (s *Server) handleListBots(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, botengine.List())
}
