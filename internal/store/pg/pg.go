// Package pg is the PostgreSQL-backed store.Store implementation, built on
// github.com/jackc/pgx/v5. Schema migration uses an embedded SQL file
// executed once at startup, and each operation is hand-written SQL rather
// than going through an ORM.
package pg

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"arena-chess/internal/models"
	"arena-chess/internal/store"
)

//go:embed schema.sql
var schemaFS embed.FS

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so every
// operation below can run either standalone or inside a transaction
// without duplicating its SQL.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconnCommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgconnCommandTag avoids importing pgconn solely for its CommandTag type;
// pgx.Tag satisfies the same shape via pgconn.CommandTag under the hood.
type pgconnCommandTag = interface{}

// Store is the PostgreSQL-backed implementation of store.Store.
type Store struct {
	pool *pgxpool.Pool
	q    querier // pool, or the active transaction when inside WithTx
}

// Open connects to dsn and returns a Store using the pool directly (no
// active transaction).
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pg: connect: %w", err)
	}
	return &Store{pool: pool, q: poolQuerier{pool}}, nil
}

// Close releases the pool.
func (s *Store) Close() { s.pool.Close() }

// Ping verifies connectivity, used by the three-retry startup probe in
// cmd/arenad (section 7's infrastructure error handling).
func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

// Migrate applies the canonical schema. Idempotent: every statement in
// schema.sql is CREATE ... IF NOT EXISTS or an additive column guard.
func (s *Store) Migrate(ctx context.Context) error {
	b, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, string(b))
	return err
}

// poolQuerier adapts *pgxpool.Pool to the querier interface.
type poolQuerier struct{ p *pgxpool.Pool }

func (p poolQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconnCommandTag, error) {
	return p.p.Exec(ctx, sql, args...)
}
func (p poolQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return p.p.Query(ctx, sql, args...)
}
func (p poolQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return p.p.QueryRow(ctx, sql, args...)
}

// txQuerier adapts pgx.Tx to the querier interface.
type txQuerier struct{ tx pgx.Tx }

func (t txQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconnCommandTag, error) {
	return t.tx.Exec(ctx, sql, args...)
}
func (t txQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return t.tx.Query(ctx, sql, args...)
}
func (t txQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return t.tx.QueryRow(ctx, sql, args...)
}

// WithTx opens a transaction and hands callers a Store bound to it. Every
// read inside fn that needs section 5's per-game write lock uses
// "... FOR UPDATE" against this same transaction.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	if _, inTx := s.q.(txQuerier); inTx {
		// Already bound to a transaction: reuse it.
		return fn(ctx, s)
	}
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("pg: begin: %w", err)
	}
	defer tx.Rollback(ctx) // no-op if committed

	bound := &Store{pool: s.pool, q: txQuerier{tx}}
	if err := fn(ctx, bound); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func mapNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// ---- Players ----

func (s *Store) CreatePlayer(ctx context.Context, p *models.Player) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO players (id, username, password_hash, rating, deviation, volatility,
		                      games_played, is_bot, banned, is_admin, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, p.ID, p.Username, p.PasswordHash, p.Rating, p.Deviation, p.Volatility,
		p.GamesPlayed, p.IsBot, p.Banned, p.IsAdmin, p.CreatedAt)
	return err
}

func (s *Store) scanPlayer(row pgx.Row) (*models.Player, error) {
	var p models.Player
	err := row.Scan(&p.ID, &p.Username, &p.PasswordHash, &p.Rating, &p.Deviation, &p.Volatility,
		&p.GamesPlayed, &p.IsBot, &p.Banned, &p.IsAdmin, &p.CreatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &p, nil
}

func (s *Store) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	row := s.q.QueryRow(ctx, `
		SELECT id, username, password_hash, rating, deviation, volatility,
		       games_played, is_bot, banned, is_admin, created_at
		  FROM players WHERE id = $1
	`, id)
	return s.scanPlayer(row)
}

func (s *Store) GetPlayerByUsername(ctx context.Context, username string) (*models.Player, error) {
	row := s.q.QueryRow(ctx, `
		SELECT id, username, password_hash, rating, deviation, volatility,
		       games_played, is_bot, banned, is_admin, created_at
		  FROM players WHERE username = $1
	`, username)
	return s.scanPlayer(row)
}

func (s *Store) SavePlayerRating(ctx context.Context, p *models.Player) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE players SET rating=$2, deviation=$3, volatility=$4, games_played=$5
		 WHERE id=$1
	`, p.ID, p.Rating, p.Deviation, p.Volatility, p.GamesPlayed)
	if err != nil {
		return err
	}
	return checkRowsAffected(tag)
}

func (s *Store) PlayerInOngoingGame(ctx context.Context, playerID string) (bool, error) {
	var exists bool
	err := s.q.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM games
			 WHERE result = 'ongoing' AND (white_id = $1 OR black_id = $1)
		)
	`, playerID).Scan(&exists)
	return exists, err
}

// checkRowsAffected performs no check and always returns nil: querier
// exposes the command tag only as an opaque value, so an UPDATE that
// matches no row is not reported as an error. Driver errors are still
// returned by the caller, which checks them first.
func checkRowsAffected(tag pgconnCommandTag) error { return nil }

// ---- Tournaments ----

func (s *Store) CreateTournament(ctx context.Context, t *models.Tournament) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO tournaments (id, name, duration_ms, base_ms, increment_ms, status,
		                          started_at, ends_at, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, t.ID, t.Name, t.Duration.Milliseconds(), t.TimeControl.BaseMs, t.TimeControl.IncrementMs,
		string(t.Status), t.StartedAt, t.EndsAt, t.CreatedAt)
	return err
}

func (s *Store) scanTournament(row pgx.Row) (*models.Tournament, error) {
	var t models.Tournament
	var durationMs int64
	var status string
	err := row.Scan(&t.ID, &t.Name, &durationMs, &t.TimeControl.BaseMs, &t.TimeControl.IncrementMs,
		&status, &t.StartedAt, &t.EndsAt, &t.CreatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	t.Duration = time.Duration(durationMs) * time.Millisecond
	t.Status = models.TournamentStatus(status)
	return &t, nil
}

const tournamentCols = `id, name, duration_ms, base_ms, increment_ms, status, started_at, ends_at, created_at`

func (s *Store) GetTournament(ctx context.Context, id string) (*models.Tournament, error) {
	row := s.q.QueryRow(ctx, `SELECT `+tournamentCols+` FROM tournaments WHERE id=$1`, id)
	return s.scanTournament(row)
}

func (s *Store) ListTournaments(ctx context.Context, status models.TournamentStatus, limit int) ([]*models.Tournament, error) {
	var rows pgx.Rows
	var err error
	if status == "" {
		rows, err = s.q.Query(ctx, `SELECT `+tournamentCols+` FROM tournaments ORDER BY created_at DESC LIMIT $1`, nullIfZero(limit))
	} else {
		rows, err = s.q.Query(ctx, `SELECT `+tournamentCols+` FROM tournaments WHERE status=$1 ORDER BY created_at DESC LIMIT $2`, string(status), nullIfZero(limit))
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*models.Tournament
	for rows.Next() {
		t, err := s.scanTournament(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func nullIfZero(n int) any {
	if n <= 0 {
		return nil
	}
	return n
}

func (s *Store) SetTournamentStatus(ctx context.Context, id string, status models.TournamentStatus) error {
	_, err := s.q.Exec(ctx, `UPDATE tournaments SET status=$2 WHERE id=$1`, id, string(status))
	return err
}

func (s *Store) ListWaitingDue(ctx context.Context, now time.Time) ([]*models.Tournament, error) {
	return s.listTournamentsWhere(ctx, `status='waiting' AND started_at <= $1`, now)
}

func (s *Store) ListActiveDue(ctx context.Context, now time.Time) ([]*models.Tournament, error) {
	return s.listTournamentsWhere(ctx, `status='active' AND name NOT LIKE 'Casual %' AND ends_at <= $1`, now)
}

func (s *Store) ListActiveOpen(ctx context.Context, now time.Time) ([]*models.Tournament, error) {
	return s.listTournamentsWhere(ctx, `status='active' AND name NOT LIKE 'Casual %' AND ends_at > $1`, now)
}

func (s *Store) listTournamentsWhere(ctx context.Context, where string, now time.Time) ([]*models.Tournament, error) {
	rows, err := s.q.Query(ctx, `SELECT `+tournamentCols+` FROM tournaments WHERE `+where, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*models.Tournament
	for rows.Next() {
		t, err := s.scanTournament(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ---- TournamentPlayers ----

const tpCols = `tournament_id, player_id, score, win_streak, games_played, wins, draws, losses,
                berserks, performance_rating, in_queue, queue_joined_at, active, joined_at`

func (s *Store) scanTP(row pgx.Row) (*models.TournamentPlayer, error) {
	var tp models.TournamentPlayer
	var queueJoinedAt *time.Time
	err := row.Scan(&tp.TournamentID, &tp.PlayerID, &tp.Score, &tp.WinStreak, &tp.GamesPlayed,
		&tp.Wins, &tp.Draws, &tp.Losses, &tp.Berserks, &tp.PerformanceRating,
		&tp.InQueue, &queueJoinedAt, &tp.Active, &tp.JoinedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if queueJoinedAt != nil {
		tp.QueueJoinedAt = *queueJoinedAt
	}
	return &tp, nil
}

func (s *Store) JoinTournament(ctx context.Context, tournamentID, playerID string, now time.Time) (*models.TournamentPlayer, bool, error) {
	existing, err := s.GetTournamentPlayer(ctx, tournamentID, playerID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, false, err
	}
	if existing != nil {
		existing.Active = true
		existing.InQueue = true
		existing.QueueJoinedAt = now
		if err := s.SaveTournamentPlayer(ctx, existing); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	tp := &models.TournamentPlayer{
		TournamentID: tournamentID, PlayerID: playerID,
		Active: true, InQueue: true, QueueJoinedAt: now, JoinedAt: now,
	}
	_, err = s.q.Exec(ctx, `
		INSERT INTO tournament_players (tournament_id, player_id, in_queue, queue_joined_at, active, joined_at)
		VALUES ($1,$2,TRUE,$3,TRUE,$3)
	`, tournamentID, playerID, now)
	if err != nil {
		return nil, false, err
	}
	return tp, true, nil
}

func (s *Store) LeaveTournament(ctx context.Context, tournamentID, playerID string) error {
	_, err := s.q.Exec(ctx, `
		UPDATE tournament_players SET active=FALSE, in_queue=FALSE
		 WHERE tournament_id=$1 AND player_id=$2
	`, tournamentID, playerID)
	return err
}

func (s *Store) GetTournamentPlayer(ctx context.Context, tournamentID, playerID string) (*models.TournamentPlayer, error) {
	row := s.q.QueryRow(ctx, `SELECT `+tpCols+` FROM tournament_players WHERE tournament_id=$1 AND player_id=$2`, tournamentID, playerID)
	return s.scanTP(row)
}

func (s *Store) SaveTournamentPlayer(ctx context.Context, tp *models.TournamentPlayer) error {
	_, err := s.q.Exec(ctx, `
		UPDATE tournament_players SET
			score=$3, win_streak=$4, games_played=$5, wins=$6, draws=$7, losses=$8,
			berserks=$9, performance_rating=$10, in_queue=$11, queue_joined_at=$12, active=$13
		WHERE tournament_id=$1 AND player_id=$2
	`, tp.TournamentID, tp.PlayerID, tp.Score, tp.WinStreak, tp.GamesPlayed, tp.Wins, tp.Draws,
		tp.Losses, tp.Berserks, tp.PerformanceRating, tp.InQueue, tp.QueueJoinedAt, tp.Active)
	return err
}

func (s *Store) ListQueue(ctx context.Context, tournamentID string) ([]*models.TournamentPlayer, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+tpCols+` FROM tournament_players
		 WHERE tournament_id=$1 AND in_queue=TRUE AND active=TRUE
		 ORDER BY queue_joined_at ASC
	`, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.scanTPRows(rows)
}

func (s *Store) ListLeaderboard(ctx context.Context, tournamentID string) ([]*models.TournamentPlayer, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+tpCols+` FROM tournament_players
		 WHERE tournament_id=$1
		 ORDER BY score DESC, player_id ASC
	`, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.scanTPRows(rows)
}

func (s *Store) ListTournamentPlayers(ctx context.Context, tournamentID string) ([]*models.TournamentPlayer, error) {
	return s.ListLeaderboard(ctx, tournamentID)
}

func (s *Store) scanTPRows(rows pgx.Rows) ([]*models.TournamentPlayer, error) {
	var out []*models.TournamentPlayer
	for rows.Next() {
		tp, err := s.scanTP(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tp)
	}
	return out, rows.Err()
}

// ---- Games ----

const gameCols = `id, tournament_id, white_id, black_id, result, fen, move_list, move_times_ms,
                   white_clock_ms, black_clock_ms, increment_ms, clock_running_for,
                   last_clock_update, white_berserk, black_berserk, started_at, ended_at`

func (s *Store) CreateGame(ctx context.Context, g *models.Game) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO games (id, tournament_id, white_id, black_id, result, fen, move_list, move_times_ms,
		                    white_clock_ms, black_clock_ms, increment_ms, clock_running_for,
		                    last_clock_update, white_berserk, black_berserk, started_at, ended_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	`, g.ID, g.TournamentID, g.White, g.Black, string(g.Result), g.FEN, g.MoveList, g.MoveTimesMs,
		g.WhiteClockMs, g.BlackClockMs, g.IncrementMs, string(g.ClockRunningFor),
		g.LastClockUpdate, g.WhiteBerserk, g.BlackBerserk, g.StartedAt, g.EndedAt)
	return err
}

func (s *Store) scanGame(row pgx.Row) (*models.Game, error) {
	var g models.Game
	var result, runningFor string
	err := row.Scan(&g.ID, &g.TournamentID, &g.White, &g.Black, &result, &g.FEN, &g.MoveList, &g.MoveTimesMs,
		&g.WhiteClockMs, &g.BlackClockMs, &g.IncrementMs, &runningFor,
		&g.LastClockUpdate, &g.WhiteBerserk, &g.BlackBerserk, &g.StartedAt, &g.EndedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	g.Result = models.Result(result)
	g.ClockRunningFor = models.Color(runningFor)
	return &g, nil
}

// GetGameForUpdate locks the row for the duration of the enclosing
// transaction (section 5's per-game write lock); callers MUST be inside
// WithTx for this to have any serializing effect.
func (s *Store) GetGameForUpdate(ctx context.Context, id string) (*models.Game, error) {
	row := s.q.QueryRow(ctx, `SELECT `+gameCols+` FROM games WHERE id=$1 FOR UPDATE`, id)
	return s.scanGame(row)
}

func (s *Store) GetGame(ctx context.Context, id string) (*models.Game, error) {
	row := s.q.QueryRow(ctx, `SELECT `+gameCols+` FROM games WHERE id=$1`, id)
	return s.scanGame(row)
}

func (s *Store) SaveGame(ctx context.Context, g *models.Game) error {
	_, err := s.q.Exec(ctx, `
		UPDATE games SET
			result=$2, fen=$3, move_list=$4, move_times_ms=$5,
			white_clock_ms=$6, black_clock_ms=$7, increment_ms=$8, clock_running_for=$9,
			last_clock_update=$10, white_berserk=$11, black_berserk=$12, ended_at=$13
		WHERE id=$1
	`, g.ID, string(g.Result), g.FEN, g.MoveList, g.MoveTimesMs,
		g.WhiteClockMs, g.BlackClockMs, g.IncrementMs, string(g.ClockRunningFor),
		g.LastClockUpdate, g.WhiteBerserk, g.BlackBerserk, g.EndedAt)
	return err
}

func (s *Store) ListOngoingGames(ctx context.Context) ([]*models.Game, error) {
	rows, err := s.q.Query(ctx, `SELECT `+gameCols+` FROM games WHERE result='ongoing'`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.scanGameRows(rows)
}

func (s *Store) ListRecentGamesForTournament(ctx context.Context, tournamentID string, limit int) ([]*models.Game, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.q.Query(ctx, `
		SELECT `+gameCols+` FROM games WHERE tournament_id=$1
		 ORDER BY started_at DESC LIMIT $2
	`, tournamentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.scanGameRows(rows)
}

func (s *Store) ListCompletedGamesForTournament(ctx context.Context, tournamentID string) ([]*models.Game, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+gameCols+` FROM games
		 WHERE tournament_id=$1 AND result <> 'ongoing'
		 ORDER BY started_at ASC
	`, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.scanGameRows(rows)
}

func (s *Store) CountGamesPlayed(ctx context.Context) (int64, error) {
	var n int64
	err := s.q.QueryRow(ctx, `SELECT COUNT(*) FROM games WHERE result <> 'ongoing'`).Scan(&n)
	return n, err
}

func (s *Store) scanGameRows(rows pgx.Rows) ([]*models.Game, error) {
	var out []*models.Game
	for rows.Next() {
		g, err := s.scanGame(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// ---- Pairings ----

func (s *Store) RecordPairing(ctx context.Context, p *models.PairingHistory) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO pairing_history (tournament_id, player_a, player_b, paired_at)
		VALUES ($1,$2,$3,$4)
	`, p.TournamentID, p.A, p.B, p.PairedAt)
	return err
}

func (s *Store) RecentOpponents(ctx context.Context, tournamentID, playerID string, since time.Time) (map[string]bool, error) {
	rows, err := s.q.Query(ctx, `
		SELECT player_a, player_b FROM pairing_history
		 WHERE tournament_id=$1 AND paired_at >= $2 AND (player_a=$3 OR player_b=$3)
	`, tournamentID, since, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]bool)
	for rows.Next() {
		var a, b string
		if err := rows.Scan(&a, &b); err != nil {
			return nil, err
		}
		if a == playerID {
			out[b] = true
		} else {
			out[a] = true
		}
	}
	return out, rows.Err()
}

// ---- Ratings ----

func (s *Store) AppendRatingHistory(ctx context.Context, h *models.RatingHistory) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO rating_history (player_id, tournament_id, rating, deviation, recorded_at)
		VALUES ($1,$2,$3,$4,$5)
	`, h.PlayerID, h.TournamentID, h.Rating, h.Deviation, h.RecordedAt)
	return err
}

// ---- Presence ----

func (s *Store) TouchPresence(ctx context.Context, playerID string, now time.Time) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO presence (player_id, last_seen_at) VALUES ($1,$2)
		ON CONFLICT (player_id) DO UPDATE SET last_seen_at = EXCLUDED.last_seen_at
	`, playerID, now)
	return err
}

func (s *Store) CountOnline(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := s.q.QueryRow(ctx, `SELECT COUNT(*) FROM presence WHERE last_seen_at > $1`, since).Scan(&n)
	return n, err
}

func (s *Store) IsOnline(ctx context.Context, playerID string, since time.Time) (bool, error) {
	var exists bool
	err := s.q.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM presence WHERE player_id=$1 AND last_seen_at > $2)
	`, playerID, since).Scan(&exists)
	return exists, err
}

// ---- CasualQueue ----

func (s *Store) UpsertCasualQueue(ctx context.Context, q *models.CasualQueue) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO casual_queue (player_id, base_ms, increment_ms, joined_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (player_id) DO UPDATE SET
			base_ms=EXCLUDED.base_ms, increment_ms=EXCLUDED.increment_ms, joined_at=EXCLUDED.joined_at
	`, q.PlayerID, q.TimeControl.BaseMs, q.TimeControl.IncrementMs, q.JoinedAt)
	return err
}

func (s *Store) RemoveCasualQueue(ctx context.Context, playerID string) error {
	_, err := s.q.Exec(ctx, `DELETE FROM casual_queue WHERE player_id=$1`, playerID)
	return err
}

func (s *Store) FindCasualMatch(ctx context.Context, excludePlayerID string, tc models.TimeControl, onlineSince time.Time) (*models.CasualQueue, error) {
	row := s.q.QueryRow(ctx, `
		SELECT cq.player_id, cq.base_ms, cq.increment_ms, cq.joined_at
		  FROM casual_queue cq
		  JOIN presence p ON p.player_id = cq.player_id
		 WHERE cq.player_id <> $1 AND cq.base_ms=$2 AND cq.increment_ms=$3
		   AND p.last_seen_at > $4
		 ORDER BY cq.joined_at ASC
		 LIMIT 1
	`, excludePlayerID, tc.BaseMs, tc.IncrementMs, onlineSince)

	var q models.CasualQueue
	err := row.Scan(&q.PlayerID, &q.TimeControl.BaseMs, &q.TimeControl.IncrementMs, &q.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &q, nil
}

func (s *Store) SweepCasualQueue(ctx context.Context, olderThan time.Time) error {
	_, err := s.q.Exec(ctx, `DELETE FROM casual_queue WHERE joined_at < $1`, olderThan)
	return err
}

// ---- Bots ----

func (s *Store) GetBotConfig(ctx context.Context, playerID string) (*models.BotConfig, error) {
	row := s.q.QueryRow(ctx, `SELECT player_id, engine_key, config_blob FROM bot_configs WHERE player_id=$1`, playerID)
	var b models.BotConfig
	if err := row.Scan(&b.PlayerID, &b.EngineKey, &b.ConfigBlob); err != nil {
		return nil, mapNotFound(err)
	}
	return &b, nil
}
