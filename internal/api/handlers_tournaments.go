package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"arena-chess/internal/apierr"
	"arena-chess/internal/models"
)

func (s *Server) handleListTournaments(w http.ResponseWriter, r *http.Request) {
	status := models.TournamentStatus(r.URL.Query().Get("status"))
	limit := 50
	if q := r.URL.Query().Get("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 {
			limit = n
		}
	}
	tours, err := s.Store.ListTournaments(r.Context(), status, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tours)
}

func (s *Server) handleGetTournament(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	t, err := s.Store.GetTournament(r.Context(), id)
	if err != nil {
		s.writeError(w, r, apierr.NotFound("tournament %q not found", id))
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleJoinTournament(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	playerID, err := playerFrom(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if _, err := s.Store.GetTournament(r.Context(), id); err != nil {
		s.writeError(w, r, apierr.NotFound("tournament %q not found", id))
		return
	}

	_, joined, err := s.Store.JoinTournament(r.Context(), id, playerID, time.Now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	status := "rejoined"
	if joined {
		status = "joined"
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "status": status})
}

func (s *Server) handleLeaveTournament(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	playerID, err := playerFrom(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.Store.LeaveTournament(r.Context(), id, playerID); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rows, err := s.Store.ListLeaderboard(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ranked := make([]models.Rank, len(rows))
	for i, row := range rows {
		ranked[i] = models.Rank{TournamentPlayer: *row, Position: i + 1}
	}
	writeJSON(w, http.StatusOK, ranked)
}

func (s *Server) handleTournamentGames(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	games, err := s.Store.ListRecentGamesForTournament(r.Context(), id, 50)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}
