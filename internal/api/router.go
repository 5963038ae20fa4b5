package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"arena-chess/internal/metrics"
)

// NewRouter wires the JSON API surface from section 6 onto a chi router,
// with handlers split across one file per resource rather than one long
// HandlerFunc body.
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)
	r.Use(playerAuth)
	r.Use(s.presenceTouch)

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/stats", s.handleStats)
	r.Get("/api/bots", s.handleListBots)
	r.Post("/api/admin/tick", s.handleForceTick)
	r.Handle("/metrics", promhttp.HandlerFor(metrics.NewRegistry(), promhttp.HandlerOpts{}))

	r.Route("/api/players", func(r chi.Router) {
		r.Get("/{id}", s.handleGetPlayer)
	})

	r.Route("/api/tournaments", func(r chi.Router) {
		r.Get("/", s.handleListTournaments)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetTournament)
			r.Post("/join", s.handleJoinTournament)
			r.Post("/leave", s.handleLeaveTournament)
			r.Get("/leaderboard", s.handleLeaderboard)
			r.Get("/games", s.handleTournamentGames)
		})
	})

	r.Route("/api/games", func(r chi.Router) {
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetGame)
			r.Post("/move", s.handleMove)
			r.Post("/resign", s.handleResign)
			r.Post("/claim-time", s.handleClaimTime)
			r.Post("/berserk", s.handleBerserk)
		})
	})

	r.Route("/api/casual", func(r chi.Router) {
		r.Post("/join", s.handleCasualJoin)
		r.Post("/play-bot", s.handleCasualPlayBot)
	})

	return r
}
