// Package store defines the transactional data-access façade the rest of
// the engine is built against (the persistent store is, per section 1,
// an external collaborator specified only by its interface). Two
// implementations satisfy Store: internal/store/pg (PostgreSQL via pgx)
// and internal/store/memstore (an embedded in-process fallback, used by
// default and when the configured network store is unreachable at
// startup, per section 7's infrastructure error-handling policy).
package store

import (
	"context"
	"errors"
	"time"

	"arena-chess/internal/models"
)

// ErrNotFound is returned by single-row lookups that miss.
var ErrNotFound = errors.New("store: not found")

// ErrConflict names an optimistic-precondition failure. No store
// implementation or engine component returns it: a stale FEN on bot-move
// commit is dropped without an error, and an operation on an
// already-finished game fails with an apierr state error.
var ErrConflict = errors.New("store: conflict")

// Store is the façade every engine component depends on. All mutating
// sequences that must be atomic (pairing, result application, tournament
// finalization, game moves) go through WithTx so they commit or roll back
// together; see section 5's ordering and atomicity requirements.
type Store interface {
	// WithTx runs fn with a Store bound to a single transaction. Nested
	// calls to WithTx on the transactional Store passed to fn reuse the
	// same transaction (no savepoints are needed by this engine).
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error

	Players
	Tournaments
	TournamentPlayers
	Games
	Pairings
	Ratings
	Presences
	CasualQueue
	Bots
}

type Players interface {
	CreatePlayer(ctx context.Context, p *models.Player) error
	GetPlayer(ctx context.Context, id string) (*models.Player, error)
	GetPlayerByUsername(ctx context.Context, username string) (*models.Player, error)
	SavePlayerRating(ctx context.Context, p *models.Player) error
	// PlayerInOngoingGame reports whether the player is white or black in
	// any game whose result is still "ongoing" (section 3's at-most-one
	// ongoing game invariant).
	PlayerInOngoingGame(ctx context.Context, playerID string) (bool, error)
}

type Tournaments interface {
	CreateTournament(ctx context.Context, t *models.Tournament) error
	GetTournament(ctx context.Context, id string) (*models.Tournament, error)
	ListTournaments(ctx context.Context, status models.TournamentStatus, limit int) ([]*models.Tournament, error)
	SetTournamentStatus(ctx context.Context, id string, status models.TournamentStatus) error
	// ListWaitingDue returns tournaments with status=waiting and
	// started_at <= now (Phase C promotion candidates).
	ListWaitingDue(ctx context.Context, now time.Time) ([]*models.Tournament, error)
	// ListActiveDue returns non-casual tournaments with status=active
	// and ends_at <= now (Phase B finalization candidates).
	ListActiveDue(ctx context.Context, now time.Time) ([]*models.Tournament, error)
	// ListActiveOpen returns non-casual active tournaments still below
	// their end time (Phase B pairing candidates).
	ListActiveOpen(ctx context.Context, now time.Time) ([]*models.Tournament, error)
}

type TournamentPlayers interface {
	// JoinTournament upserts the join row, marking it active and
	// enqueued. Returns joined=false when the player already had a row
	// (a rejoin) per the /join endpoint's {joined|rejoined} contract.
	JoinTournament(ctx context.Context, tournamentID, playerID string, now time.Time) (tp *models.TournamentPlayer, joined bool, err error)
	LeaveTournament(ctx context.Context, tournamentID, playerID string) error
	GetTournamentPlayer(ctx context.Context, tournamentID, playerID string) (*models.TournamentPlayer, error)
	SaveTournamentPlayer(ctx context.Context, tp *models.TournamentPlayer) error
	// ListQueue returns in_queue && active rows ordered by queue_joined_at.
	ListQueue(ctx context.Context, tournamentID string) ([]*models.TournamentPlayer, error)
	ListLeaderboard(ctx context.Context, tournamentID string) ([]*models.TournamentPlayer, error)
	ListTournamentPlayers(ctx context.Context, tournamentID string) ([]*models.TournamentPlayer, error)
}

type Games interface {
	CreateGame(ctx context.Context, g *models.Game) error
	// GetGameForUpdate loads a game with serialization semantics
	// equivalent to SELECT ... FOR UPDATE: only meaningful inside a
	// WithTx-bound Store (see section 5's per-game write lock).
	GetGameForUpdate(ctx context.Context, id string) (*models.Game, error)
	GetGame(ctx context.Context, id string) (*models.Game, error)
	SaveGame(ctx context.Context, g *models.Game) error
	ListOngoingGames(ctx context.Context) ([]*models.Game, error)
	ListRecentGamesForTournament(ctx context.Context, tournamentID string, limit int) ([]*models.Game, error)
	ListCompletedGamesForTournament(ctx context.Context, tournamentID string) ([]*models.Game, error)
	CountGamesPlayed(ctx context.Context) (int64, error)
}

type Pairings interface {
	RecordPairing(ctx context.Context, p *models.PairingHistory) error
	// RecentOpponents returns the set of player ids paired with playerID
	// at or after `since` (the start of section 4.7's 10-minute
	// anti-rematch window).
	RecentOpponents(ctx context.Context, tournamentID, playerID string, since time.Time) (map[string]bool, error)
}

type Ratings interface {
	AppendRatingHistory(ctx context.Context, h *models.RatingHistory) error
}

type Presences interface {
	TouchPresence(ctx context.Context, playerID string, now time.Time) error
	CountOnline(ctx context.Context, since time.Time) (int64, error)
	IsOnline(ctx context.Context, playerID string, since time.Time) (bool, error)
}

type CasualQueue interface {
	UpsertCasualQueue(ctx context.Context, q *models.CasualQueue) error
	RemoveCasualQueue(ctx context.Context, playerID string) error
	// FindCasualMatch returns the oldest other queued player with the
	// given time control who has been seen since `onlineSince`.
	FindCasualMatch(ctx context.Context, excludePlayerID string, tc models.TimeControl, onlineSince time.Time) (*models.CasualQueue, error)
	SweepCasualQueue(ctx context.Context, olderThan time.Time) error
}

type Bots interface {
	GetBotConfig(ctx context.Context, playerID string) (*models.BotConfig, error)
}
