// Package models holds the persistent entities described by the data model:
// players, tournaments, join rows, games, and the supporting history tables.
package models

import "time"

// TournamentStatus is the monotonic lifecycle of a Tournament.
type TournamentStatus string

const (
	TournamentWaiting  TournamentStatus = "waiting"
	TournamentActive   TournamentStatus = "active"
	TournamentFinished TournamentStatus = "finished"
)

// Result is the terminal (or non-terminal) outcome of a Game.
type Result string

const (
	ResultOngoing Result = "ongoing"
	ResultWhite   Result = "white"
	ResultBlack   Result = "black"
	ResultDraw    Result = "draw"
)

// Color identifies a side to move.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Other() Color {
	if c == White {
		return Black
	}
	return White
}

// Outcome is a single player's result of a finished game, used for score
// application and rating updates.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeDraw Outcome = "draw"
	OutcomeLoss Outcome = "loss"
)

// Glicko-2 defaults per spec section 3 (house scale, not the Glickman-paper
// default of 1500/350/0.06).
const (
	DefaultRating     = 500.0
	DefaultDeviation  = 250.0
	DefaultVolatility = 0.06

	MinDeviation = 30.0
	MaxDeviation = 350.0

	ProvisionalGamesThreshold = 20
)

// Player is an account on the platform.
type Player struct {
	ID            string
	Username      string
	PasswordHash  string
	Rating        float64
	Deviation     float64
	Volatility    float64
	GamesPlayed   int
	IsBot         bool
	Banned        bool
	IsAdmin       bool
	CreatedAt     time.Time
}

// Provisional reports whether the player's rating is still settling.
func (p *Player) Provisional() bool {
	return p.GamesPlayed < ProvisionalGamesThreshold
}

// TimeControl is a parsed "M+I" spec: base minutes + per-move increment
// seconds, expressed internally in milliseconds.
type TimeControl struct {
	BaseMs      int64
	IncrementMs int64
}

// DefaultTimeControl is used whenever a "M+I" string fails to parse.
var DefaultTimeControl = TimeControl{BaseMs: 180_000, IncrementMs: 2_000}

// Tournament is a time-boxed arena event, or (when its Name begins with
// "Casual ") a synthetic one-off wrapper created by the casual matchmaker.
type Tournament struct {
	ID          string
	Name        string
	Duration    time.Duration
	TimeControl TimeControl
	Status      TournamentStatus
	StartedAt   time.Time
	EndsAt      time.Time
	CreatedAt   time.Time
}

// IsCasual reports whether this tournament is a synthetic casual wrapper.
func (t *Tournament) IsCasual() bool {
	return len(t.Name) >= len("Casual ") && t.Name[:len("Casual ")] == "Casual "
}

// TournamentPlayer is a join row between a Player and a Tournament.
type TournamentPlayer struct {
	TournamentID      string
	PlayerID          string
	Score             float64
	WinStreak         int
	GamesPlayed       int
	Wins              int
	Draws             int
	Losses            int
	Berserks          int
	PerformanceRating float64
	InQueue           bool
	QueueJoinedAt     time.Time
	Active            bool
	JoinedAt          time.Time
}

// Rank is a leaderboard row: a TournamentPlayer plus its computed position.
type Rank struct {
	TournamentPlayer
	Position int
}

// Game is one chess game, in or out of a tournament.
type Game struct {
	ID              string
	TournamentID    string
	White           string
	Black           string
	Result          Result
	FEN             string
	MoveList        []string // UCI
	MoveTimesMs     []int64
	WhiteClockMs    int64
	BlackClockMs    int64
	IncrementMs     int64
	ClockRunningFor Color
	LastClockUpdate time.Time
	WhiteBerserk    bool
	BlackBerserk    bool
	StartedAt       time.Time
	EndedAt         *time.Time
}

// StartingFEN is the canonical initial chess position.
const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// PlayerColor returns the color p plays in this game, or "" if p is not a
// participant.
func (g *Game) PlayerColor(playerID string) Color {
	switch playerID {
	case g.White:
		return White
	case g.Black:
		return Black
	default:
		return ""
	}
}

// PairingHistory records that a and b were paired in a tournament, for the
// anti-rematch window.
type PairingHistory struct {
	TournamentID string
	A            string
	B            string
	PairedAt     time.Time
}

// RatingHistory is an append-only record of a materialized rating change.
type RatingHistory struct {
	ID           int64
	PlayerID     string
	TournamentID *string
	Rating       float64
	Deviation    float64
	RecordedAt   time.Time
}

// Presence tracks when a player was last seen by the API.
type Presence struct {
	PlayerID   string
	LastSeenAt time.Time
}

// CasualQueue is a pending casual-matchmaking request.
type CasualQueue struct {
	PlayerID    string
	TimeControl TimeControl
	JoinedAt    time.Time
}

// BotConfig names the engine plug-in driving a bot account.
type BotConfig struct {
	PlayerID   string
	EngineKey  string
	ConfigBlob []byte
}
