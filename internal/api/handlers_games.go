package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"arena-chess/internal/apierr"
)

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	g, err := s.Store.GetGame(r.Context(), id)
	if err != nil {
		s.writeError(w, r, apierr.NotFound("game %q not found", id))
		return
	}
	writeJSON(w, http.StatusOK, g)
}

type moveRequest struct {
	UCI string `json:"uci"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	playerID, err := playerFrom(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req moveRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.UCI == "" {
		s.writeError(w, r, apierr.Validation("missing uci"))
		return
	}

	g, err := s.Game.Move(r.Context(), id, playerID, req.UCI, time.Now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleResign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	playerID, err := playerFrom(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	g, err := s.Game.Resign(r.Context(), id, playerID, time.Now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "result": g.Result})
}

func (s *Server) handleClaimTime(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	playerID, err := playerFrom(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.Game.ClaimTime(r.Context(), id, playerID, time.Now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !res.Ended {
		writeJSON(w, http.StatusOK, map[string]any{"ok": false, "message": "opponent's flag has not fallen"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "result": res.Game.Result})
}

func (s *Server) handleBerserk(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	playerID, err := playerFrom(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.Game.Berserk(r.Context(), id, playerID, time.Now()); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
