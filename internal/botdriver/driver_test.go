package botdriver

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"arena-chess/internal/botengine"
	"arena-chess/internal/game"
	"arena-chess/internal/models"
	"arena-chess/internal/rules"
	"arena-chess/internal/store/memstore"
)

func seedBotGame(t *testing.T, s *memstore.Store) {
	t.Helper()
	ctx := context.Background()
	for _, p := range []*models.Player{
		{ID: "human", Username: "human", Rating: models.DefaultRating, Deviation: models.DefaultDeviation, Volatility: models.DefaultVolatility},
		{ID: "bot", Username: "bot", Rating: models.DefaultRating, Deviation: models.DefaultDeviation, Volatility: models.DefaultVolatility, IsBot: true},
	} {
		require.NoError(t, s.CreatePlayer(ctx, p))
	}
	require.NoError(t, s.SetBotConfig(ctx, &models.BotConfig{PlayerID: "bot", EngineKey: botengine.KeyRandomCapture}))
	b, err := rules.NewBoard()
	require.NoError(t, err)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	g := &models.Game{
		ID: "bg1", TournamentID: "t1", White: "human", Black: "bot",
		Result: models.ResultOngoing, FEN: b.FEN(),
		WhiteClockMs: 180_000, BlackClockMs: 180_000, IncrementMs: 2_000,
		ClockRunningFor: models.White, LastClockUpdate: start, StartedAt: start,
	}
	require.NoError(t, s.CreateGame(ctx, g))
}

func TestTriggerDoesNotMoveWhenHumanToMove(t *testing.T) {
	s := memstore.New()
	seedBotGame(t, s)

	eng := game.New(s, nil)
	d := New(s, eng, slog.Default())

	d.Trigger(context.Background(), "bg1")
	time.Sleep(50 * time.Millisecond)

	g, err := s.GetGame(context.Background(), "bg1")
	require.NoError(t, err)
	require.Empty(t, g.MoveList, "bot must not move when white (human) is on move")
}

func TestTriggerMovesWhenBotToMove(t *testing.T) {
	s := memstore.New()
	seedBotGame(t, s)

	eng := game.New(s, nil)
	// Play white's first move so it becomes the bot's (black's) turn.
	_, err := eng.Move(context.Background(), "bg1", "human", "e2e4", time.Date(2026, 1, 1, 0, 0, 1, 0, time.UTC))
	require.NoError(t, err)

	d := New(s, eng, slog.Default())
	d.Trigger(context.Background(), "bg1")

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		g, err := s.GetGame(context.Background(), "bg1")
		require.NoError(t, err)
		if len(g.MoveList) == 2 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("expected the bot to make a move within the deadline")
}
