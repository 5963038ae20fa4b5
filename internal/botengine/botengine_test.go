package botengine

import (
	"math/rand"
	"testing"

	"arena-chess/internal/rules"
)

func TestUnknownKeyFallsThroughToRandomCapture(t *testing.T) {
	e := Get("no-such-engine")
	if e.Key() != KeyRandomCapture {
		t.Fatalf("expected fallback to %s, got %s", KeyRandomCapture, e.Key())
	}
}

func TestRandomCapturePrefersCaptures(t *testing.T) {
	// A position where white can capture a hanging knight on e5 (Nf3xe5).
	b, err := rules.FromFEN("rnbqkb1r/pppp1ppp/8/4n3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	e := Get(KeyRandomCapture)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		uci, err := e.ChooseMove(b, rng)
		if err != nil {
			t.Fatal(err)
		}
		ok, err := b.IsCapture(uci)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Fatalf("expected a capture to be chosen when one exists, got %s", uci)
		}
	}
}

func TestMinimaxChoosesLegalMove(t *testing.T) {
	b, err := rules.NewBoard()
	if err != nil {
		t.Fatal(err)
	}
	e := Get(KeyMinimax)
	uci, err := e.ChooseMove(b, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, m := range b.LegalMoves() {
		if m == uci {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("minimax chose an illegal move: %s", uci)
	}
}

func TestMinimaxTakesFreeQueen(t *testing.T) {
	// White to move, black queen hanging on h4 capturable by the g3 pawn.
	b, err := rules.FromFEN("rnb1kbnr/pppp1ppp/8/4p3/7q/6P1/PPPPPP1P/RNBQKBNR w KQkq - 1 3")
	if err != nil {
		t.Fatal(err)
	}
	e := Get(KeyMinimax)
	uci, err := e.ChooseMove(b, nil)
	if err != nil {
		t.Fatal(err)
	}
	if uci != "g3h4" {
		t.Fatalf("expected minimax to grab the free queen with g3h4, got %s", uci)
	}
}

func TestMartinbotUsesWeakerBudget(t *testing.T) {
	e := Get(KeyMartinbot)
	mm, ok := e.(*minimaxEngine)
	if !ok {
		t.Fatalf("expected martinbot to be a minimaxEngine, got %T", e)
	}
	if mm.budget.MaxNodes != 10_000 || mm.budget.RandomMarginCp != 90 || mm.budget.RandomTop != 2 {
		t.Fatalf("unexpected martinbot budget: %+v", mm.budget)
	}
}
