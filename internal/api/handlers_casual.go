package api

import (
	"net/http"
	"time"

	"arena-chess/internal/apierr"
	"arena-chess/internal/models"
)

type casualJoinRequest struct {
	TimeControl string `json:"time_control"`
}

func (s *Server) handleCasualJoin(w http.ResponseWriter, r *http.Request) {
	playerID, err := playerFrom(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req casualJoinRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	tc := models.ParseTimeControl(req.TimeControl)

	res, err := s.Casual.Join(r.Context(), playerID, tc, time.Now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if res.Queued {
		writeJSON(w, http.StatusOK, map[string]any{"queued": true})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"matched": true, "game_id": res.GameID})
}

type casualPlayBotRequest struct {
	BotID       string `json:"bot_id"`
	TimeControl string `json:"time_control"`
}

func (s *Server) handleCasualPlayBot(w http.ResponseWriter, r *http.Request) {
	playerID, err := playerFrom(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req casualPlayBotRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.BotID == "" {
		s.writeError(w, r, apierr.Validation("missing bot_id"))
		return
	}
	tc := models.ParseTimeControl(req.TimeControl)

	gameID, err := s.Casual.PlayBot(r.Context(), playerID, req.BotID, tc, time.Now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "game_id": gameID})
}
