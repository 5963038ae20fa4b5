package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"arena-chess/internal/botdriver"
	"arena-chess/internal/casual"
	"arena-chess/internal/game"
	"arena-chess/internal/models"
	"arena-chess/internal/store/memstore"
)

func newTestServer() (*Server, *memstore.Store) {
	s := memstore.New()
	g := game.New(s, nil)
	d := botdriver.New(s, g, nil)
	c := casual.New(s, d)
	return NewServer(s, g, nil, c, nil, nil), s
}

func seedPlayer(t *testing.T, s *memstore.Store, id string) {
	t.Helper()
	err := s.CreatePlayer(context.Background(), &models.Player{
		ID: id, Username: id, Rating: models.DefaultRating,
		Deviation: models.DefaultDeviation, Volatility: models.DefaultVolatility,
	})
	require.NoError(t, err)
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer()
	r := NewRouter(srv)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestJoinTournamentRequiresAuth(t *testing.T) {
	srv, s := newTestServer()
	r := NewRouter(srv)

	tour := &models.Tournament{ID: "t1", Name: "Arena", Status: models.TournamentActive, TimeControl: models.DefaultTimeControl}
	require.NoError(t, s.CreateTournament(context.Background(), tour))

	req := httptest.NewRequest(http.MethodPost, "/api/tournaments/t1/join", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code, "expected 403 with no X-Player-Id header")
}

func TestJoinTournamentSucceedsWithAuth(t *testing.T) {
	srv, s := newTestServer()
	r := NewRouter(srv)
	seedPlayer(t, s, "alice")

	tour := &models.Tournament{ID: "t1", Name: "Arena", Status: models.TournamentActive, TimeControl: models.DefaultTimeControl}
	require.NoError(t, s.CreateTournament(context.Background(), tour))

	req := httptest.NewRequest(http.MethodPost, "/api/tournaments/t1/join", nil)
	req.Header.Set("X-Player-Id", "alice")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "joined", body["status"])

	tp, err := s.GetTournamentPlayer(context.Background(), "t1", "alice")
	require.NoError(t, err)
	require.True(t, tp.InQueue, "expected joining player to be enqueued")
}

func TestMoveOnUnknownGameReturns404(t *testing.T) {
	srv, s := newTestServer()
	r := NewRouter(srv)
	seedPlayer(t, s, "alice")

	req := httptest.NewRequest(http.MethodPost, "/api/games/nope/move", strings.NewReader(`{"uci":"e2e4"}`))
	req.Header.Set("X-Player-Id", "alice")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code, "expected 404 for a missing game")
}

func TestStatsEndpointReturnsCounters(t *testing.T) {
	srv, _ := newTestServer()
	r := NewRouter(srv)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Contains(t, body, "total_games_played")
}
