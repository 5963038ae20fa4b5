package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"arena-chess/internal/models"
	"arena-chess/internal/rules"
	"arena-chess/internal/store"
	"arena-chess/internal/store/memstore"
)

func newOngoingGame(t *testing.T, s store.Store, white, black string, tc models.TimeControl, started time.Time) *models.Game {
	t.Helper()
	b, err := rules.NewBoard()
	require.NoError(t, err)
	g := &models.Game{
		ID: "g1", TournamentID: "t1", White: white, Black: black,
		Result: models.ResultOngoing, FEN: b.FEN(),
		WhiteClockMs: tc.BaseMs, BlackClockMs: tc.BaseMs, IncrementMs: tc.IncrementMs,
		ClockRunningFor: models.White, LastClockUpdate: started, StartedAt: started,
	}
	require.NoError(t, s.CreateGame(context.Background(), g))
	return g
}

func seedPlayers(t *testing.T, s store.Store, ids ...string) {
	t.Helper()
	for _, id := range ids {
		err := s.CreatePlayer(context.Background(), &models.Player{
			ID: id, Username: id, Rating: models.DefaultRating,
			Deviation: models.DefaultDeviation, Volatility: models.DefaultVolatility,
		})
		require.NoError(t, err)
	}
}

func TestMoveScholarsMateAttributesWinToMover(t *testing.T) {
	s := memstore.New()
	seedPlayers(t, s, "white", "black")
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newOngoingGame(t, s, "white", "black", models.DefaultTimeControl, start)

	e := New(s, nil)
	moves := []struct {
		player, uci string
	}{
		{"white", "e2e4"}, {"black", "e7e5"}, {"white", "f1c4"},
		{"black", "b8c6"}, {"white", "d1h5"}, {"black", "g8f6"}, {"white", "h5f7"},
	}
	var g *models.Game
	var err error
	for _, m := range moves {
		g, err = e.Move(context.Background(), "g1", m.player, m.uci, start)
		require.NoErrorf(t, err, "move %s by %s", m.uci, m.player)
	}
	require.Equal(t, models.ResultWhite, g.Result, "expected white to win by checkmate")
	require.NotNil(t, g.EndedAt)
}

func TestMoveFlagFallDuringMoveEndsGame(t *testing.T) {
	s := memstore.New()
	seedPlayers(t, s, "white", "black")
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	g := newOngoingGame(t, s, "white", "black", models.TimeControl{BaseMs: 0, IncrementMs: 0}, start)
	g.WhiteClockMs = 500
	g.BlackClockMs = 60_000
	require.NoError(t, s.SaveGame(context.Background(), g))

	e := New(s, nil)
	now := start.Add(600 * time.Millisecond)
	out, err := e.Move(context.Background(), "g1", "white", "e2e4", now)
	require.NoError(t, err)
	require.Equal(t, models.ResultBlack, out.Result, "expected black to win on white's flag fall")
	require.Zero(t, out.WhiteClockMs)
}

func TestMoveRejectsWrongTurn(t *testing.T) {
	s := memstore.New()
	seedPlayers(t, s, "white", "black")
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newOngoingGame(t, s, "white", "black", models.DefaultTimeControl, start)

	e := New(s, nil)
	_, err := e.Move(context.Background(), "g1", "black", "e7e5", start)
	require.Error(t, err)
}

func TestResignEndsGameForOpponent(t *testing.T) {
	s := memstore.New()
	seedPlayers(t, s, "white", "black")
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newOngoingGame(t, s, "white", "black", models.DefaultTimeControl, start)

	e := New(s, nil)
	g, err := e.Resign(context.Background(), "g1", "white", start.Add(time.Minute))
	require.NoError(t, err)
	require.Equal(t, models.ResultBlack, g.Result, "expected black to win on white's resignation")
}

func TestClaimTimeOnlyOpponentsFlagCounts(t *testing.T) {
	s := memstore.New()
	seedPlayers(t, s, "white", "black")
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	g := newOngoingGame(t, s, "white", "black", models.TimeControl{BaseMs: 0, IncrementMs: 0}, start)
	g.WhiteClockMs = 500
	g.BlackClockMs = 60_000
	require.NoError(t, s.SaveGame(context.Background(), g))

	e := New(s, nil)
	now := start.Add(600 * time.Millisecond)

	// White tries to claim their own flag; must not end the game.
	res, err := e.ClaimTime(context.Background(), "g1", "white", now)
	require.NoError(t, err)
	require.False(t, res.Ended, "a player must not be able to claim their own flag")

	// Black claims white's fallen flag.
	res, err = e.ClaimTime(context.Background(), "g1", "black", now)
	require.NoError(t, err)
	require.True(t, res.Ended)
	require.Equal(t, models.ResultBlack, res.Game.Result, "expected black to win by time claim")
}

func TestBerserkHalvesClockAndZeroesIncrement(t *testing.T) {
	s := memstore.New()
	seedPlayers(t, s, "white", "black")
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newOngoingGame(t, s, "white", "black", models.TimeControl{BaseMs: 180_000, IncrementMs: 2_000}, start)

	e := New(s, nil)
	g, err := e.Berserk(context.Background(), "g1", "white", start)
	require.NoError(t, err)
	require.Equal(t, int64(90_000), g.WhiteClockMs, "expected halved clock")
	require.Zero(t, g.IncrementMs, "expected increment zeroed")
	require.True(t, g.WhiteBerserk)

	_, err = e.Berserk(context.Background(), "g1", "white", start)
	require.Error(t, err, "expected second berserk by the same side to be rejected")
}
