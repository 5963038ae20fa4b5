// Package arena is the periodic tournament engine (component C7): a
// single 60s ticker running, per tick, the clock sweep, pairing,
// promotion, and casual-queue sweep phases described in section
// 4.7, all inside one transactional scope per section 5's pairing
// atomicity requirement. Scheduling uses github.com/robfig/cron/v3's
// "@every" spec instead of a hand-rolled time.Ticker loop.
package arena

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"arena-chess/internal/botdriver"
	"arena-chess/internal/clock"
	"arena-chess/internal/metrics"
	"arena-chess/internal/models"
	"arena-chess/internal/ratings"
	"arena-chess/internal/store"
)

const (
	antiRematchWindow  = 10 * time.Minute
	casualSweepMaxAge  = 10 * time.Minute
	tickPeriod         = "@every 60s"
)

// Engine runs the periodic tick and also implements game.ResultNotifier
// so the game state machine (C4) can hand it freshly finished games.
type Engine struct {
	Store  store.Store
	Driver *botdriver.Driver
	Log    *slog.Logger

	rng *rand.Rand
	cr  *cron.Cron
}

func New(s store.Store, d *botdriver.Driver, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		Store:  s,
		Driver: d,
		Log:    log,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start schedules Tick to run every 60 seconds until ctx is canceled.
func (e *Engine) Start(ctx context.Context) {
	e.cr = cron.New()
	_, err := e.cr.AddFunc(tickPeriod, func() {
		if err := e.Tick(ctx, time.Now()); err != nil {
			e.Log.Error("arena tick failed", "error", err)
		}
	})
	if err != nil {
		e.Log.Error("arena: failed to schedule tick", "error", err)
		return
	}
	e.cr.Start()
	go func() {
		<-ctx.Done()
		stopCtx := e.cr.Stop()
		<-stopCtx.Done()
	}()
}

// Tick runs phases A-D once, inside a single transaction.
func (e *Engine) Tick(ctx context.Context, now time.Time) error {
	start := time.Now()
	defer func() {
		metrics.TickDuration.Observe(time.Since(start).Seconds())
		metrics.TicksTotal.Inc()
	}()

	return e.Store.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
		if err := e.phaseAClockSweep(ctx, tx, now); err != nil {
			return err
		}
		if err := e.phaseBPairing(ctx, tx, now); err != nil {
			return err
		}
		if err := e.phaseCPromotion(ctx, tx, now); err != nil {
			return err
		}
		return e.phaseDPresenceSweep(ctx, tx, now)
	})
}

// phaseAClockSweep recomputes live clocks for every ongoing game and
// finalizes any whose flag has fallen.
func (e *Engine) phaseAClockSweep(ctx context.Context, tx store.Store, now time.Time) error {
	games, err := tx.ListOngoingGames(ctx)
	if err != nil {
		return err
	}
	metrics.ActiveGames.Set(float64(len(games)))

	for _, g := range games {
		live := clock.Live{WhiteMs: g.WhiteClockMs, BlackMs: g.BlackClockMs, RunningFor: g.ClockRunningFor, LastUpdate: g.LastClockUpdate}
		snap := clock.Read(live, now)
		fallen, winner := clock.FlagFallen(snap)
		if !fallen {
			continue
		}
		g.WhiteClockMs = snap.WhiteMs
		g.BlackClockMs = snap.BlackMs
		g.Result = models.Result(winner)
		g.LastClockUpdate = now
		ended := now
		g.EndedAt = &ended
		if err := tx.SaveGame(ctx, g); err != nil {
			return err
		}
		metrics.FlagFallsTotal.Inc()
		if err := e.SubmitResult(ctx, tx, g); err != nil {
			return err
		}
	}
	return nil
}

// phaseBPairing finalizes due tournaments and pairs the rest.
func (e *Engine) phaseBPairing(ctx context.Context, tx store.Store, now time.Time) error {
	due, err := tx.ListActiveDue(ctx, now)
	if err != nil {
		return err
	}
	for _, t := range due {
		if err := e.finalizeTournament(ctx, tx, t); err != nil {
			return err
		}
	}

	open, err := tx.ListActiveOpen(ctx, now)
	if err != nil {
		return err
	}
	for _, t := range open {
		if err := e.pairTournament(ctx, tx, t, now); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) pairTournament(ctx context.Context, tx store.Store, t *models.Tournament, now time.Time) error {
	queue, err := tx.ListQueue(ctx, t.ID)
	if err != nil {
		return err
	}
	if len(queue) < 2 {
		return nil
	}

	entries := make([]queueEntry, 0, len(queue))
	recent := make(map[string]map[string]bool, len(queue))
	for _, tp := range queue {
		p, err := tx.GetPlayer(ctx, tp.PlayerID)
		if err != nil {
			return err
		}
		entries = append(entries, queueEntry{TP: tp, Rating: p.Rating})
		opp, err := tx.RecentOpponents(ctx, t.ID, tp.PlayerID, now.Add(-antiRematchWindow))
		if err != nil {
			return err
		}
		recent[tp.PlayerID] = opp
	}

	pairs := pairQueue(entries, recent)
	metrics.PairingsPerTick.Observe(float64(len(pairs)))

	for _, pr := range pairs {
		if err := e.createGameForPair(ctx, tx, t, pr.A, pr.B, now); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) createGameForPair(ctx context.Context, tx store.Store, t *models.Tournament, a, b *models.TournamentPlayer, now time.Time) error {
	white, black := a.PlayerID, b.PlayerID
	if e.rng.Intn(2) == 1 {
		white, black = black, white
	}

	g := &models.Game{
		ID:              uuid.NewString(),
		TournamentID:    t.ID,
		White:           white,
		Black:           black,
		Result:          models.ResultOngoing,
		FEN:             models.StartingFEN,
		WhiteClockMs:    t.TimeControl.BaseMs,
		BlackClockMs:    t.TimeControl.BaseMs,
		IncrementMs:     t.TimeControl.IncrementMs,
		ClockRunningFor: models.White,
		LastClockUpdate: now,
		StartedAt:       now,
	}
	if err := tx.CreateGame(ctx, g); err != nil {
		return err
	}
	if err := tx.RecordPairing(ctx, &models.PairingHistory{TournamentID: t.ID, A: a.PlayerID, B: b.PlayerID, PairedAt: now}); err != nil {
		return err
	}

	a.InQueue = false
	b.InQueue = false
	if err := tx.SaveTournamentPlayer(ctx, a); err != nil {
		return err
	}
	if err := tx.SaveTournamentPlayer(ctx, b); err != nil {
		return err
	}

	if e.Driver != nil {
		e.Driver.Trigger(ctx, g.ID)
	}
	return nil
}

// phaseCPromotion advances waiting tournaments whose start time has passed.
func (e *Engine) phaseCPromotion(ctx context.Context, tx store.Store, now time.Time) error {
	due, err := tx.ListWaitingDue(ctx, now)
	if err != nil {
		return err
	}
	for _, t := range due {
		if err := tx.SetTournamentStatus(ctx, t.ID, models.TournamentActive); err != nil {
			return err
		}
	}
	return nil
}

// phaseDPresenceSweep removes stale casual-queue entries (section 3's
// 10-minute eligible-for-sweeping rule) as a fourth tick phase alongside
// clock sweep, pairing, and promotion.
func (e *Engine) phaseDPresenceSweep(ctx context.Context, tx store.Store, now time.Time) error {
	return tx.SweepCasualQueue(ctx, now.Add(-casualSweepMaxAge))
}

// SubmitResult implements game.ResultNotifier: apply the score-application
// table to both sides, recompute performance ratings, re-enqueue both
// players, and -- for casual one-offs -- finalize immediately.
func (e *Engine) SubmitResult(ctx context.Context, tx store.Store, g *models.Game) error {
	t, err := tx.GetTournament(ctx, g.TournamentID)
	if err != nil {
		return err
	}
	white, err := tx.GetTournamentPlayer(ctx, g.TournamentID, g.White)
	if err != nil {
		return err
	}
	black, err := tx.GetTournamentPlayer(ctx, g.TournamentID, g.Black)
	if err != nil {
		return err
	}

	whiteOutcome, blackOutcome := outcomesFor(g.Result)
	applyOutcome(white, whiteOutcome, g.WhiteBerserk)
	applyOutcome(black, blackOutcome, g.BlackBerserk)

	now := time.Now()
	if g.EndedAt != nil {
		now = *g.EndedAt
	}
	white.InQueue = true
	white.Active = true
	white.QueueJoinedAt = now
	black.InQueue = true
	black.Active = true
	black.QueueJoinedAt = now

	if err := e.refreshPerformanceRating(ctx, tx, t.ID, white); err != nil {
		return err
	}
	if err := e.refreshPerformanceRating(ctx, tx, t.ID, black); err != nil {
		return err
	}

	if err := tx.SaveTournamentPlayer(ctx, white); err != nil {
		return err
	}
	if err := tx.SaveTournamentPlayer(ctx, black); err != nil {
		return err
	}

	if e.Driver != nil {
		e.Driver.Trigger(ctx, g.ID)
	}

	if t.IsCasual() {
		if err := tx.SetTournamentStatus(ctx, t.ID, models.TournamentFinished); err != nil {
			return err
		}
		t.Status = models.TournamentFinished
		return e.finalizeTournament(ctx, tx, t)
	}
	return nil
}

func (e *Engine) refreshPerformanceRating(ctx context.Context, tx store.Store, tournamentID string, tp *models.TournamentPlayer) error {
	games, err := tx.ListCompletedGamesForTournament(ctx, tournamentID)
	if err != nil {
		return err
	}
	var results []ratings.PerformanceResult
	for _, g := range games {
		var opp string
		switch tp.PlayerID {
		case g.White:
			opp = g.Black
		case g.Black:
			opp = g.White
		default:
			continue
		}
		oppPlayer, err := tx.GetPlayer(ctx, opp)
		if err != nil {
			return err
		}
		score := scoreOf(g.Result, tp.PlayerID, g.White)
		results = append(results, ratings.PerformanceResult{OpponentRating: oppPlayer.Rating, Score: score})
	}
	me, err := tx.GetPlayer(ctx, tp.PlayerID)
	if err != nil {
		return err
	}
	tp.PerformanceRating = ratings.Performance(results, &ratings.Prior{Rating: me.Rating, Games: ratings.DefaultPriorGames})
	return nil
}

func scoreOf(result models.Result, playerID, whiteID string) float64 {
	isWhite := playerID == whiteID
	switch result {
	case models.ResultDraw:
		return 0.5
	case models.ResultWhite:
		if isWhite {
			return 1
		}
		return 0
	case models.ResultBlack:
		if isWhite {
			return 0
		}
		return 1
	default:
		return 0.5
	}
}

// finalizeTournament is the `_finish_tournament` routine: for every join
// row, replay the tournament's completed games through Glicko-2 and
// persist the new rating triple.
func (e *Engine) finalizeTournament(ctx context.Context, tx store.Store, t *models.Tournament) error {
	players, err := tx.ListTournamentPlayers(ctx, t.ID)
	if err != nil {
		return err
	}
	games, err := tx.ListCompletedGamesForTournament(ctx, t.ID)
	if err != nil {
		return err
	}

	for _, tp := range players {
		var opponents []ratings.Opponent
		countedGames := 0
		for _, g := range games {
			var opp string
			switch tp.PlayerID {
			case g.White:
				opp = g.Black
			case g.Black:
				opp = g.White
			default:
				continue
			}
			oppPlayer, err := tx.GetPlayer(ctx, opp)
			if err != nil {
				return err
			}
			opponents = append(opponents, ratings.Opponent{
				Rating:    oppPlayer.Rating,
				Deviation: oppPlayer.Deviation,
				Score:     scoreOf(g.Result, tp.PlayerID, g.White),
			})
			countedGames++
		}

		me, err := tx.GetPlayer(ctx, tp.PlayerID)
		if err != nil {
			return err
		}
		updated := ratings.Update(ratings.Triple{Rating: me.Rating, Deviation: me.Deviation, Volatility: me.Volatility}, opponents)
		me.Rating = updated.Rating
		me.Deviation = updated.Deviation
		me.Volatility = updated.Volatility
		me.GamesPlayed += countedGames
		if err := tx.SavePlayerRating(ctx, me); err != nil {
			return err
		}
		tid := t.ID
		if err := tx.AppendRatingHistory(ctx, &models.RatingHistory{
			PlayerID: tp.PlayerID, TournamentID: &tid,
			Rating: me.Rating, Deviation: me.Deviation, RecordedAt: time.Now(),
		}); err != nil {
			return err
		}
	}

	if t.Status != models.TournamentFinished {
		return tx.SetTournamentStatus(ctx, t.ID, models.TournamentFinished)
	}
	return nil
}
