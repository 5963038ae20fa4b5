package casual

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"arena-chess/internal/models"
	"arena-chess/internal/store"
	"arena-chess/internal/store/memstore"
)

func seedPlayer(t *testing.T, s store.Store, id string, isBot, banned bool) {
	t.Helper()
	err := s.CreatePlayer(context.Background(), &models.Player{
		ID: id, Username: id, Rating: models.DefaultRating,
		Deviation: models.DefaultDeviation, Volatility: models.DefaultVolatility,
		IsBot: isBot, Banned: banned,
	})
	require.NoError(t, err)
}

func TestJoinQueuesAloneThenMatchesSecondPlayer(t *testing.T) {
	s := memstore.New()
	seedPlayer(t, s, "a", false, false)
	seedPlayer(t, s, "b", false, false)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.TouchPresence(context.Background(), "a", now))
	require.NoError(t, s.TouchPresence(context.Background(), "b", now))

	m := New(s, nil)

	res, err := m.Join(context.Background(), "a", models.DefaultTimeControl, now)
	require.NoError(t, err)
	require.True(t, res.Queued, "expected the first player to be queued, not matched")

	res, err = m.Join(context.Background(), "b", models.DefaultTimeControl, now)
	require.NoError(t, err)
	require.False(t, res.Queued)
	require.NotEmpty(t, res.GameID, "expected the second player to be matched")

	g, err := s.GetGame(context.Background(), res.GameID)
	require.NoError(t, err)
	require.True(t, g.White == "a" || g.Black == "a", "expected player a to be in the created game")
}

func TestJoinRejectsBannedPlayer(t *testing.T) {
	s := memstore.New()
	seedPlayer(t, s, "a", false, true)
	m := New(s, nil)
	_, err := m.Join(context.Background(), "a", models.DefaultTimeControl, time.Now())
	require.Error(t, err, "expected banned player to be rejected")
}

func TestPlayBotCreatesGameAgainstBot(t *testing.T) {
	s := memstore.New()
	seedPlayer(t, s, "human", false, false)
	seedPlayer(t, s, "bot1", true, false)
	m := New(s, nil)

	gameID, err := m.PlayBot(context.Background(), "human", "bot1", models.DefaultTimeControl, time.Now())
	require.NoError(t, err)
	g, err := s.GetGame(context.Background(), gameID)
	require.NoError(t, err)
	require.True(t, g.White == "bot1" || g.Black == "bot1", "expected the bot to be a participant in the created game")
}

func TestPlayBotRejectsNonBotTarget(t *testing.T) {
	s := memstore.New()
	seedPlayer(t, s, "human", false, false)
	seedPlayer(t, s, "human2", false, false)
	m := New(s, nil)

	_, err := m.PlayBot(context.Background(), "human", "human2", models.DefaultTimeControl, time.Now())
	require.Error(t, err, "expected play-bot against a non-bot account to be rejected")
}
