package rules

import "testing"

func TestNewBoardStartingPosition(t *testing.T) {
	b, err := NewBoard()
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	if len(b.LegalMoves()) != 20 {
		t.Fatalf("expected 20 legal opening moves, got %d", len(b.LegalMoves()))
	}
}

func TestPushDoesNotMutateReceiver(t *testing.T) {
	b, _ := NewBoard()
	before := b.FEN()
	next, err := b.Push("e2e4")
	if err != nil {
		t.Fatalf("Push: %v", err)
	}
	if b.FEN() != before {
		t.Fatalf("Push mutated receiver: %q -> %q", before, b.FEN())
	}
	if next.FEN() == before {
		t.Fatalf("Push did not advance the position")
	}
}

func TestScholarsMateCheckmateAttribution(t *testing.T) {
	b, _ := NewBoard()
	moves := []string{"e2e4", "e7e5", "f1c4", "b8c6", "d1h5", "g8f6", "h5f7"}
	var err error
	for _, m := range moves {
		b, err = b.Push(m)
		if err != nil {
			t.Fatalf("push %q: %v", m, err)
		}
	}
	if !b.IsCheckmate() {
		t.Fatalf("expected checkmate after scholar's mate sequence")
	}
	// The mover of the final move (h5f7) is White; checkmate attribution
	// (REDESIGN FLAG) assigns the win to the side that just moved.
	if b.Turn() != "black" {
		t.Fatalf("expected black to be the side to move (mated), got %v", b.Turn())
	}
}

func TestIllegalMoveRejected(t *testing.T) {
	b, _ := NewBoard()
	if _, err := b.Push("e2e5"); err == nil {
		t.Fatalf("expected illegal pawn jump to be rejected")
	}
}
