// Package api is the JSON request surface (section 6's external interface):
// thin chi handlers that parse a request, call into the engine packages
// (game, arena, casual, presence), and translate results or apierr.Error
// values into the {error, message} envelope described in section 7's
// propagation policy. The session/auth layer itself is out of the core's
// scope (section 1's explicit non-goal); playerAuth below is the minimal
// stand-in the rest of the handlers are written against.
package api

import (
	"log/slog"

	"arena-chess/internal/arena"
	"arena-chess/internal/casual"
	"arena-chess/internal/game"
	"arena-chess/internal/presence"
	"arena-chess/internal/store"
)

// Server holds everything a handler needs. It has no behavior of its own;
// see router.go for how its methods are wired to routes.
type Server struct {
	Store    store.Store
	Game     *game.Engine
	Arena    *arena.Engine
	Casual   *casual.Matchmaker
	Presence *presence.Tracker
	Log      *slog.Logger
}

func NewServer(s store.Store, g *game.Engine, a *arena.Engine, c *casual.Matchmaker, p *presence.Tracker, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{Store: s, Game: g, Arena: a, Casual: c, Presence: p, Log: log}
}
