// Package botdriver drives bot moves off the request thread (component
// C6): a per-game in-flight guard, optimistic FEN-checked commit, and a
// random_capture fallback when the chosen move turns out illegal on
// re-read. Each trigger is a single-shot "maybe it's your move" check
// rather than a long-lived per-game goroutine, since chess has no fixed
// number of decision points per game.
package botdriver

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"arena-chess/internal/botengine"
	"arena-chess/internal/game"
	"arena-chess/internal/models"
	"arena-chess/internal/rules"
	"arena-chess/internal/store"
)

// Driver schedules and applies bot moves. Safe for concurrent use.
type Driver struct {
	store store.Store
	game  *game.Engine
	Log   *slog.Logger

	mu       sync.Mutex
	inFlight map[string]bool

	rng *rand.Rand
}

func New(s store.Store, g *game.Engine, log *slog.Logger) *Driver {
	if log == nil {
		log = slog.Default()
	}
	return &Driver{
		inFlight: make(map[string]bool),
		Log:      log,
		game:     g,
		store:    s,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Trigger schedules an attempt to move for whichever side is a bot in
// gameID, if any, unless a move is already in flight for that game. It
// returns immediately; the move (if any) is applied asynchronously.
func (d *Driver) Trigger(ctx context.Context, gameID string) {
	d.mu.Lock()
	if d.inFlight[gameID] {
		d.mu.Unlock()
		return
	}
	d.inFlight[gameID] = true
	d.mu.Unlock()

	go func() {
		defer func() {
			d.mu.Lock()
			delete(d.inFlight, gameID)
			d.mu.Unlock()
		}()
		if err := d.attempt(context.Background(), gameID); err != nil {
			d.Log.Warn("bot move attempt failed", "game_id", gameID, "error", err)
		}
	}()
}

func (d *Driver) attempt(ctx context.Context, gameID string) error {
	g, err := d.store.GetGame(ctx, gameID)
	if err != nil {
		return err
	}
	if g.Result != models.ResultOngoing {
		return nil
	}

	mover := g.ClockRunningFor
	moverID := g.White
	if mover == models.Black {
		moverID = g.Black
	}

	player, err := d.store.GetPlayer(ctx, moverID)
	if err != nil {
		return err
	}
	if !player.IsBot || player.Banned {
		return nil
	}

	cfg, err := d.store.GetBotConfig(ctx, moverID)
	if err != nil {
		return err
	}

	observedFEN := g.FEN
	board, err := rules.FromFEN(observedFEN)
	if err != nil {
		return err
	}

	engine := botengine.Get(cfg.EngineKey)
	uci, err := engine.ChooseMove(board.Clone(), d.rng)
	if err != nil {
		return err
	}

	return d.commit(ctx, gameID, moverID, uci, observedFEN, engine)
}

// commit re-reads the game and applies uci only if the FEN still matches
// what the engine searched against (optimistic concurrency, section 4.6).
// The re-read and the FEN comparison run outside the transaction that
// game.Move opens, so the per-game write lock is not held across them;
// Move re-checks turn and legality under that lock. A stale choice is
// silently dropped: the next Trigger call will search again from the
// current position.
func (d *Driver) commit(ctx context.Context, gameID, moverID, uci, observedFEN string, chosen botengine.Engine) error {
	current, err := d.store.GetGame(ctx, gameID)
	if err != nil {
		return err
	}
	if current.Result != models.ResultOngoing {
		return nil
	}
	if current.FEN != observedFEN {
		d.Log.Info("bot move dropped: stale FEN", "game_id", gameID)
		return nil
	}

	_, err = d.game.Move(ctx, gameID, moverID, uci, time.Now())
	if err == nil {
		return nil
	}

	// The chosen move was illegal on the re-read board (should not happen
	// absent concurrent mutation): fall back to random_capture.
	d.Log.Warn("bot move illegal on commit, falling back to random_capture",
		"game_id", gameID, "engine", chosen.Key(), "move", uci, "error", err)

	board, ferr := rules.FromFEN(current.FEN)
	if ferr != nil {
		return ferr
	}
	fallback := botengine.Get(botengine.KeyRandomCapture)
	fallbackUCI, ferr := fallback.ChooseMove(board, d.rng)
	if ferr != nil {
		return ferr
	}
	_, err = d.game.Move(ctx, gameID, moverID, fallbackUCI, time.Now())
	return err
}
