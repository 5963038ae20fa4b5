// Package clock implements the Fischer-incremental chess clock described
// in component C3: a pure read of live remaining time, and the mutation
// applied when the side to move submits a move or berserks.
package clock

import (
	"time"

	"arena-chess/internal/models"
)

// Live mirrors the subset of a Game needed to compute remaining time.
type Live struct {
	WhiteMs         int64
	BlackMs         int64
	RunningFor      models.Color
	LastUpdate      time.Time
}

// Snapshot is the result of a live read: remaining milliseconds for each
// side, never negative.
type Snapshot struct {
	WhiteMs int64
	BlackMs int64
}

// Read computes the live remaining clocks at `now`, without mutating
// anything. It is a pure function, safe to call any number of times.
func Read(l Live, now time.Time) Snapshot {
	elapsed := now.Sub(l.LastUpdate).Milliseconds()
	if elapsed < 0 {
		elapsed = 0
	}

	snap := Snapshot{WhiteMs: l.WhiteMs, BlackMs: l.BlackMs}
	switch l.RunningFor {
	case models.White:
		snap.WhiteMs = max0(l.WhiteMs - elapsed)
	case models.Black:
		snap.BlackMs = max0(l.BlackMs - elapsed)
	}
	return snap
}

// FlagFallen reports which side's flag has fallen, if either, against a
// live snapshot. Only one side's clock runs at a time, so a simultaneous
// fall cannot occur in practice; white's flag is checked first purely to
// give the check a deterministic order.
func FlagFallen(snap Snapshot) (fallen bool, winner models.Color) {
	switch {
	case snap.WhiteMs <= 0:
		return true, models.Black
	case snap.BlackMs <= 0:
		return true, models.White
	default:
		return false, ""
	}
}

// ApplyMove subtracts the elapsed time from the mover's clock, then adds
// the increment, and returns the new Live state with the running side
// flipped, plus the elapsed milliseconds it debited. It is invoked by the
// move operation (C4); berserk uses Berserk below instead.
func ApplyMove(l Live, mover models.Color, incrementMs int64, t time.Time) (Live, int64) {
	elapsed := t.Sub(l.LastUpdate).Milliseconds()
	if elapsed < 0 {
		elapsed = 0
	}

	out := l
	switch mover {
	case models.White:
		out.WhiteMs = max0(l.WhiteMs-elapsed) + incrementMs
		out.RunningFor = models.Black
	case models.Black:
		out.BlackMs = max0(l.BlackMs-elapsed) + incrementMs
		out.RunningFor = models.White
	}
	out.LastUpdate = t
	return out, elapsed
}

// Berserk halves the berserking side's remaining ms. It does not touch
// RunningFor or LastUpdate — those are only meaningful once the game's
// clock starts ticking at game creation.
func Berserk(l Live, side models.Color) Live {
	out := l
	switch side {
	case models.White:
		out.WhiteMs = l.WhiteMs / 2
	case models.Black:
		out.BlackMs = l.BlackMs / 2
	}
	return out
}

func max0(ms int64) int64 {
	if ms < 0 {
		return 0
	}
	return ms
}
