package clock

import (
	"testing"
	"time"

	"arena-chess/internal/models"
)

func TestReadIsIdempotent(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	live := Live{WhiteMs: 60_000, BlackMs: 60_000, RunningFor: models.White, LastUpdate: start}
	now := start.Add(5 * time.Second)

	a := Read(live, now)
	b := Read(live, now)
	if a != b {
		t.Fatalf("Read not idempotent: %+v vs %+v", a, b)
	}
	if a.WhiteMs != 55_000 || a.BlackMs != 60_000 {
		t.Fatalf("unexpected snapshot: %+v", a)
	}
}

func TestReadNeverNegative(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	live := Live{WhiteMs: 500, BlackMs: 60_000, RunningFor: models.White, LastUpdate: start}
	snap := Read(live, start.Add(10*time.Second))
	if snap.WhiteMs != 0 {
		t.Fatalf("expected clamped-to-zero clock, got %d", snap.WhiteMs)
	}
}

func TestFlagFallOnMoveScenario(t *testing.T) {
	// Scenario 2: TC=0+0, white=500ms, black=60000ms, running=white.
	// After 600ms, white's flag has fallen; black wins.
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	live := Live{WhiteMs: 500, BlackMs: 60_000, RunningFor: models.White, LastUpdate: start}
	now := start.Add(600 * time.Millisecond)

	snap := Read(live, now)
	fallen, winner := FlagFallen(snap)
	if !fallen || winner != models.Black {
		t.Fatalf("expected white's flag fallen -> black wins, got fallen=%v winner=%v", fallen, winner)
	}
}

func TestApplyMoveAddsIncrementAndFlipsRunning(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	live := Live{WhiteMs: 180_000, BlackMs: 180_000, RunningFor: models.White, LastUpdate: start}
	now := start.Add(3 * time.Second)

	out, elapsed := ApplyMove(live, models.White, 2_000, now)
	if elapsed != 3000 {
		t.Fatalf("expected 3000ms elapsed, got %d", elapsed)
	}
	if out.WhiteMs != 180_000-3_000+2_000 {
		t.Fatalf("unexpected white clock: %d", out.WhiteMs)
	}
	if out.RunningFor != models.Black {
		t.Fatalf("expected running side to flip to black, got %v", out.RunningFor)
	}
}

func TestBerserkHalvesClockOnly(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	live := Live{WhiteMs: 180_000, BlackMs: 180_000, RunningFor: models.White, LastUpdate: start}
	out := Berserk(live, models.White)
	if out.WhiteMs != 90_000 {
		t.Fatalf("expected halved white clock, got %d", out.WhiteMs)
	}
	if out.BlackMs != 180_000 {
		t.Fatalf("berserk must not touch the other side's clock")
	}
	if out.RunningFor != live.RunningFor || out.LastUpdate != live.LastUpdate {
		t.Fatalf("berserk must not touch RunningFor/LastUpdate")
	}
}
