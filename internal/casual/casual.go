// Package casual implements the one-off matchmaker (component C8):
// join/play_bot flows that pair up players outside any arena tournament
// by wrapping each match in a synthetic, effectively-unbounded
// Tournament so the rest of the engine (scoring, rating finalization)
// needs no special-casing for casual play.
package casual

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"arena-chess/internal/apierr"
	"arena-chess/internal/botdriver"
	"arena-chess/internal/models"
	"arena-chess/internal/store"
)

const casualSweepMaxAge = 10 * time.Minute

// casualDuration is effectively "forever": section 4.8 specifies
// ends_at = now + 10 years for a synthetic casual tournament.
const casualDuration = 10 * 365 * 24 * time.Hour

type Matchmaker struct {
	Store        store.Store
	Driver       *botdriver.Driver
	OnlineWindow time.Duration
}

func New(s store.Store, d *botdriver.Driver) *Matchmaker {
	return &Matchmaker{Store: s, Driver: d, OnlineWindow: 25 * time.Second}
}

// JoinResult is either {Queued: true} or a matched game id.
type JoinResult struct {
	Queued bool
	GameID string
}

// Join enqueues playerID for casual play at the given time control, or
// immediately matches it against another queued, online player with the
// same time control.
func (m *Matchmaker) Join(ctx context.Context, playerID string, tc models.TimeControl, now time.Time) (*JoinResult, error) {
	var out *JoinResult
	err := m.Store.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
		player, err := tx.GetPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		if player.Banned {
			return apierr.Authorization("banned players cannot queue")
		}
		inGame, err := tx.PlayerInOngoingGame(ctx, playerID)
		if err != nil {
			return err
		}
		if inGame {
			return apierr.State("already in an ongoing game")
		}

		if err := tx.UpsertCasualQueue(ctx, &models.CasualQueue{PlayerID: playerID, TimeControl: tc, JoinedAt: now}); err != nil {
			return err
		}
		if err := tx.SweepCasualQueue(ctx, now.Add(-casualSweepMaxAge)); err != nil {
			return err
		}

		opponent, err := tx.FindCasualMatch(ctx, playerID, tc, now.Add(-m.OnlineWindow))
		if err != nil {
			return err
		}
		if opponent == nil {
			out = &JoinResult{Queued: true}
			return nil
		}

		if err := tx.RemoveCasualQueue(ctx, playerID); err != nil {
			return err
		}
		if err := tx.RemoveCasualQueue(ctx, opponent.PlayerID); err != nil {
			return err
		}

		gameID, err := m.createMatch(ctx, tx, playerID, opponent.PlayerID, tc, now)
		if err != nil {
			return err
		}
		out = &JoinResult{Queued: false, GameID: gameID}
		return nil
	})
	return out, err
}

// PlayBot matches playerID against a specific bot account.
func (m *Matchmaker) PlayBot(ctx context.Context, playerID, botID string, tc models.TimeControl, now time.Time) (string, error) {
	var gameID string
	err := m.Store.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
		player, err := tx.GetPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		if player.Banned {
			return apierr.Authorization("banned players cannot play")
		}
		inGame, err := tx.PlayerInOngoingGame(ctx, playerID)
		if err != nil {
			return err
		}
		if inGame {
			return apierr.State("already in an ongoing game")
		}

		bot, err := tx.GetPlayer(ctx, botID)
		if err != nil {
			return err
		}
		if !bot.IsBot || bot.Banned {
			return apierr.Validation("unknown or unavailable bot %q", botID)
		}

		id, err := m.createMatch(ctx, tx, playerID, botID, tc, now)
		if err != nil {
			return err
		}
		gameID = id
		return nil
	})
	return gameID, err
}

func (m *Matchmaker) createMatch(ctx context.Context, tx store.Store, a, b string, tc models.TimeControl, now time.Time) (string, error) {
	tour := &models.Tournament{
		ID:          uuid.NewString(),
		Name:        fmt.Sprintf("Casual %s", tc.String()),
		Duration:    0,
		TimeControl: tc,
		Status:      models.TournamentActive,
		StartedAt:   now,
		EndsAt:      now.Add(casualDuration),
		CreatedAt:   now,
	}
	if err := tx.CreateTournament(ctx, tour); err != nil {
		return "", err
	}

	for _, playerID := range []string{a, b} {
		if _, _, err := tx.JoinTournament(ctx, tour.ID, playerID, now); err != nil {
			return "", err
		}
		tp, err := tx.GetTournamentPlayer(ctx, tour.ID, playerID)
		if err != nil {
			return "", err
		}
		tp.InQueue = false
		if err := tx.SaveTournamentPlayer(ctx, tp); err != nil {
			return "", err
		}
	}

	g := &models.Game{
		ID:              uuid.NewString(),
		TournamentID:    tour.ID,
		White:           a,
		Black:           b,
		Result:          models.ResultOngoing,
		FEN:             models.StartingFEN,
		WhiteClockMs:    tc.BaseMs,
		BlackClockMs:    tc.BaseMs,
		IncrementMs:     tc.IncrementMs,
		ClockRunningFor: models.White,
		LastClockUpdate: now,
		StartedAt:       now,
	}
	if err := tx.CreateGame(ctx, g); err != nil {
		return "", err
	}

	if m.Driver != nil {
		m.Driver.Trigger(ctx, g.ID)
	}
	return g.ID, nil
}
