package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"arena-chess/internal/apierr"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	total, err := s.Store.CountGamesPlayed(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var online int64
	if s.Presence != nil {
		online, err = s.Presence.CountOnline(r.Context(), now)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total_games_played": total,
		"players_online":     online,
	})
}

func (s *Server) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := s.Store.GetPlayer(r.Context(), id)
	if err != nil {
		s.writeError(w, r, apierr.NotFound("player %q not found", id))
		return
	}
	writeJSON(w, http.StatusOK, p)
}
