package arena

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"arena-chess/internal/models"
	"arena-chess/internal/store"
	"arena-chess/internal/store/memstore"
)

func seedTournamentWithQueue(t *testing.T, s store.Store, players []string, now time.Time) *models.Tournament {
	t.Helper()
	ctx := context.Background()
	tour := &models.Tournament{
		ID: "t1", Name: "Arena", Duration: time.Hour,
		TimeControl: models.DefaultTimeControl, Status: models.TournamentActive,
		StartedAt: now.Add(-time.Minute), EndsAt: now.Add(time.Hour), CreatedAt: now,
	}
	require.NoError(t, s.CreateTournament(ctx, tour))
	for _, id := range players {
		require.NoError(t, s.CreatePlayer(ctx, &models.Player{
			ID: id, Username: id, Rating: models.DefaultRating,
			Deviation: models.DefaultDeviation, Volatility: models.DefaultVolatility,
		}))
		_, _, err := s.JoinTournament(ctx, tour.ID, id, now)
		require.NoError(t, err)
	}
	return tour
}

func TestPairTournamentCreatesGameAndClearsQueue(t *testing.T) {
	s := memstore.New()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tour := seedTournamentWithQueue(t, s, []string{"a", "b"}, now)

	e := New(s, nil, nil)
	require.NoError(t, e.Tick(context.Background(), now))

	games, err := s.ListOngoingGames(context.Background())
	require.NoError(t, err)
	require.Len(t, games, 1, "expected exactly one game to be created")
	g := games[0]
	require.Equal(t, tour.ID, g.TournamentID)

	a, err := s.GetTournamentPlayer(context.Background(), tour.ID, "a")
	require.NoError(t, err)
	require.False(t, a.InQueue, "expected player to be cleared from the queue after pairing")
}

func TestAntiRematchPreventsImmediateRepairing(t *testing.T) {
	s := memstore.New()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tour := seedTournamentWithQueue(t, s, []string{"a", "b"}, now)

	e := New(s, nil, nil)
	require.NoError(t, e.Tick(context.Background(), now))

	games, err := s.ListOngoingGames(context.Background())
	require.NoError(t, err)
	g := games[0]
	g.Result = models.ResultDraw
	end := now.Add(time.Minute)
	g.EndedAt = &end
	require.NoError(t, s.SaveGame(context.Background(), g))
	require.NoError(t, e.SubmitResult(context.Background(), s, g))

	// Both players should now be re-queued. Tick again within the
	// 10-minute anti-rematch window: they must not be paired again.
	next := now.Add(2 * time.Minute)
	require.NoError(t, e.Tick(context.Background(), next))

	ongoing, err := s.ListOngoingGames(context.Background())
	require.NoError(t, err)
	require.Empty(t, ongoing, "expected no new game within the anti-rematch window")

	a, err := s.GetTournamentPlayer(context.Background(), tour.ID, "a")
	require.NoError(t, err)
	require.True(t, a.InQueue, "expected player to remain queued when no valid opponent exists")
}

func TestWinStreakBonusScoring(t *testing.T) {
	tp := &models.TournamentPlayer{PlayerID: "a"}
	applyOutcome(tp, models.OutcomeWin, false)
	applyOutcome(tp, models.OutcomeWin, false)
	applyOutcome(tp, models.OutcomeWin, false)
	require.Equal(t, 7.0, tp.Score, "expected score sequence +2,+2,+3 = 7")
	require.Equal(t, 3, tp.Wins)
	require.Equal(t, 3, tp.GamesPlayed)
}

func TestBerserkWinBonusScoring(t *testing.T) {
	tp := &models.TournamentPlayer{PlayerID: "a"}
	applyOutcome(tp, models.OutcomeWin, true)
	require.Equal(t, 3.0, tp.Score, "expected +2 win +1 berserk = 3")
	require.Equal(t, 1, tp.Berserks)
}

func TestPromotionMovesWaitingToActive(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tour := &models.Tournament{
		ID: "t2", Name: "Waiting One", Duration: time.Hour,
		TimeControl: models.DefaultTimeControl, Status: models.TournamentWaiting,
		StartedAt: now.Add(-time.Second), EndsAt: now.Add(time.Hour), CreatedAt: now,
	}
	require.NoError(t, s.CreateTournament(ctx, tour))

	e := New(s, nil, nil)
	require.NoError(t, e.Tick(ctx, now))

	got, err := s.GetTournament(ctx, tour.ID)
	require.NoError(t, err)
	require.Equal(t, models.TournamentActive, got.Status, "expected tournament promoted to active")
}
