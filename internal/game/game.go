// Package game implements the game state machine (component C4): applying
// a move, resignation, a time claim, and berserk, each inside a single
// store transaction per the per-game write lock described in section 5.
// Every operation follows the same shape: validate preconditions, mutate
// the game, detect a terminal result, persist.
package game

import (
	"context"
	"time"

	"arena-chess/internal/apierr"
	"arena-chess/internal/clock"
	"arena-chess/internal/models"
	"arena-chess/internal/rules"
	"arena-chess/internal/store"
)

// ResultNotifier is implemented by the arena engine (C7) so C4 can notify
// it of a freshly finished game without C4 importing C7 (the dependency
// order in section 2 runs C4 -> C7, never the reverse).
type ResultNotifier interface {
	SubmitResult(ctx context.Context, tx store.Store, g *models.Game) error
}

// Engine wires a Store and a ResultNotifier together for the four game
// operations. A nil Notifier is valid for tests that only care about the
// Game row.
type Engine struct {
	Store    store.Store
	Notifier ResultNotifier
}

func New(s store.Store, n ResultNotifier) *Engine {
	return &Engine{Store: s, Notifier: n}
}

// Move applies UCI string uci as a move by playerID at time t.
func (e *Engine) Move(ctx context.Context, gameID, playerID, uci string, t time.Time) (*models.Game, error) {
	var out *models.Game
	err := e.Store.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
		g, err := tx.GetGameForUpdate(ctx, gameID)
		if err != nil {
			return err
		}
		if g.Result != models.ResultOngoing {
			return apierr.State("game already finished")
		}
		color := g.PlayerColor(playerID)
		if color == "" {
			return apierr.Authorization("not a participant in this game")
		}

		board, err := rules.FromFEN(g.FEN)
		if err != nil {
			return apierr.Wrap(apierr.KindState, err, "stored position is invalid")
		}
		if board.Turn() != color {
			return apierr.Authorization("not your turn")
		}

		legal := board.LegalMoves()
		if !containsMove(legal, uci) {
			return apierr.Validation("illegal move %q", uci)
		}

		live := liveOf(g)
		newLive, elapsed := clock.ApplyMove(live, color, g.IncrementMs, t)
		applyLive(g, newLive)
		g.MoveTimesMs = append(g.MoveTimesMs, elapsed)

		next, err := board.Push(uci)
		if err != nil {
			return apierr.Wrap(apierr.KindValidation, err, "move rejected by rules adapter")
		}
		g.MoveList = append(g.MoveList, uci)
		g.FEN = next.FEN()

		// The side that just moved is `color`; flag-fall is evaluated
		// against the mover's own clock after this move's debit and
		// increment.
		moverClockMs := clockFor(g, color)

		switch {
		case next.IsCheckmate():
			finish(g, models.Result(color), t)
		case next.IsStalemate() || next.IsInsufficientMaterial() || next.IsSeventyFiveMoves():
			finish(g, models.ResultDraw, t)
		case moverClockMs <= 0:
			finish(g, models.Result(color.Other()), t)
		}

		if err := tx.SaveGame(ctx, g); err != nil {
			return err
		}
		if g.Result != models.ResultOngoing && e.Notifier != nil {
			if err := e.Notifier.SubmitResult(ctx, tx, g); err != nil {
				return err
			}
		}
		out = g
		return nil
	})
	return out, err
}

// Resign ends the game in favor of the resigning player's opponent.
func (e *Engine) Resign(ctx context.Context, gameID, playerID string, t time.Time) (*models.Game, error) {
	var out *models.Game
	err := e.Store.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
		g, err := tx.GetGameForUpdate(ctx, gameID)
		if err != nil {
			return err
		}
		if g.Result != models.ResultOngoing {
			return apierr.State("game already finished")
		}
		color := g.PlayerColor(playerID)
		if color == "" {
			return apierr.Authorization("not a participant in this game")
		}

		finish(g, models.Result(color.Other()), t)
		if err := tx.SaveGame(ctx, g); err != nil {
			return err
		}
		if e.Notifier != nil {
			if err := e.Notifier.SubmitResult(ctx, tx, g); err != nil {
				return err
			}
		}
		out = g
		return nil
	})
	return out, err
}

// ClaimTimeResult is the outcome of a claim-time request.
type ClaimTimeResult struct {
	Ended  bool
	Game   *models.Game
	White  int64
	Black  int64
}

// ClaimTime recomputes live clocks and ends the game if the caller's
// opponent has flagged. Only the opponent's flag may be claimed.
func (e *Engine) ClaimTime(ctx context.Context, gameID, playerID string, t time.Time) (*ClaimTimeResult, error) {
	var out *ClaimTimeResult
	err := e.Store.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
		g, err := tx.GetGameForUpdate(ctx, gameID)
		if err != nil {
			return err
		}
		if g.Result != models.ResultOngoing {
			return apierr.State("game already finished")
		}
		color := g.PlayerColor(playerID)
		if color == "" {
			return apierr.Authorization("not a participant in this game")
		}

		live := liveOf(g)
		snap := clock.Read(live, t)
		applyLiveSnapshot(g, snap, t)

		fallen, winner := clock.FlagFallen(snap)
		if fallen && winner == color {
			finish(g, models.Result(winner), t)
			if err := tx.SaveGame(ctx, g); err != nil {
				return err
			}
			if e.Notifier != nil {
				if err := e.Notifier.SubmitResult(ctx, tx, g); err != nil {
					return err
				}
			}
			out = &ClaimTimeResult{Ended: true, Game: g, White: g.WhiteClockMs, Black: g.BlackClockMs}
			return nil
		}

		if err := tx.SaveGame(ctx, g); err != nil {
			return err
		}
		out = &ClaimTimeResult{Ended: false, Game: g, White: snap.WhiteMs, Black: snap.BlackMs}
		return nil
	})
	return out, err
}

// Berserk halves playerID's remaining clock, zeroes the game's increment,
// and records the berserk flag. Callable once per side while ongoing.
func (e *Engine) Berserk(ctx context.Context, gameID, playerID string, t time.Time) (*models.Game, error) {
	var out *models.Game
	err := e.Store.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
		g, err := tx.GetGameForUpdate(ctx, gameID)
		if err != nil {
			return err
		}
		if g.Result != models.ResultOngoing {
			return apierr.State("game already finished")
		}
		color := g.PlayerColor(playerID)
		if color == "" {
			return apierr.Authorization("not a participant in this game")
		}
		if (color == models.White && g.WhiteBerserk) || (color == models.Black && g.BlackBerserk) {
			return apierr.State("already berserked")
		}

		live := liveOf(g)
		newLive := clock.Berserk(live, color)
		applyLive(g, newLive)
		g.IncrementMs = 0
		if color == models.White {
			g.WhiteBerserk = true
		} else {
			g.BlackBerserk = true
		}

		if err := tx.SaveGame(ctx, g); err != nil {
			return err
		}
		out = g
		return nil
	})
	return out, err
}

func containsMove(legal []string, uci string) bool {
	for _, m := range legal {
		if m == uci {
			return true
		}
	}
	return false
}

func clockFor(g *models.Game, c models.Color) int64 {
	if c == models.White {
		return g.WhiteClockMs
	}
	return g.BlackClockMs
}

func liveOf(g *models.Game) clock.Live {
	return clock.Live{
		WhiteMs:    g.WhiteClockMs,
		BlackMs:    g.BlackClockMs,
		RunningFor: g.ClockRunningFor,
		LastUpdate: g.LastClockUpdate,
	}
}

func applyLive(g *models.Game, l clock.Live) {
	g.WhiteClockMs = l.WhiteMs
	g.BlackClockMs = l.BlackMs
	g.ClockRunningFor = l.RunningFor
	g.LastClockUpdate = l.LastUpdate
}

func applyLiveSnapshot(g *models.Game, snap clock.Snapshot, t time.Time) {
	g.WhiteClockMs = snap.WhiteMs
	g.BlackClockMs = snap.BlackMs
	g.LastClockUpdate = t
}

// finish freezes clocks and stamps the terminal result, per the invariant
// that ended_at = last_clock_update on every finished game.
func finish(g *models.Game, result models.Result, t time.Time) {
	g.Result = result
	g.LastClockUpdate = t
	tCopy := t
	g.EndedAt = &tCopy
}
