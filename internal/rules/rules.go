// Package rules is the thin façade over the external move-legality and
// terminal-state library (component C2). It wraps github.com/notnil/chess,
// decoding UCI moves against a live chess.Game and reporting checkmate,
// stalemate, and other terminal conditions.
//
// The adapter is deliberately FEN-in/FEN-out: every operation reconstructs
// its chess.Game from a FEN string and returns a new FEN string, so callers
// never hold a live *chess.Game across a request boundary and the adapter
// stays deterministic and side-effect free on its inputs.
package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/notnil/chess"

	"arena-chess/internal/models"
)

// Board is an immutable snapshot of a chess position, keyed by its FEN.
type Board struct {
	fen string
	g   *chess.Game
}

// NewBoard returns the starting position.
func NewBoard() (*Board, error) {
	return FromFEN(models.StartingFEN)
}

// FromFEN parses a FEN string into a Board.
func FromFEN(fen string) (*Board, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("rules: parse fen %q: %w", fen, err)
	}
	g := chess.NewGame(opt)
	return &Board{fen: g.Position().String(), g: g}, nil
}

// FEN returns the board's FEN encoding.
func (b *Board) FEN() string { return b.fen }

// Turn returns the side to move.
func (b *Board) Turn() models.Color {
	if b.g.Position().Turn() == chess.Black {
		return models.Black
	}
	return models.White
}

// LegalMoves returns every legal move from this position, in UCI notation.
func (b *Board) LegalMoves() []string {
	valid := b.g.ValidMoves()
	out := make([]string, 0, len(valid))
	for _, m := range valid {
		out = append(out, chess.UCINotation{}.Encode(b.g.Position(), m))
	}
	return out
}

// IsCapture reports whether the given legal UCI move captures a piece
// (including en passant).
func (b *Board) IsCapture(uci string) (bool, error) {
	m, err := b.decode(uci)
	if err != nil {
		return false, err
	}
	return m.HasTag(chess.Capture) || m.HasTag(chess.EnPassant), nil
}

// Push plays uci and returns the resulting board. The receiver is never
// mutated — callers (in particular bot engines, per component C5's
// no-mutation invariant) always get a fresh Board back.
func (b *Board) Push(uci string) (*Board, error) {
	m, err := b.decode(uci)
	if err != nil {
		return nil, err
	}
	g := b.clone()
	if err := g.Move(m); err != nil {
		return nil, fmt.Errorf("rules: push %q: %w", uci, err)
	}
	return &Board{fen: g.Position().String(), g: g}, nil
}

func (b *Board) decode(uci string) (*chess.Move, error) {
	m, err := chess.UCINotation{}.Decode(b.g.Position(), uci)
	if err != nil {
		return nil, fmt.Errorf("rules: decode %q: %w", uci, err)
	}
	valid := false
	for _, v := range b.g.ValidMoves() {
		if v.String() == m.String() {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("rules: %q is not a legal move", uci)
	}
	return m, nil
}

// clone rebuilds an independent *chess.Game from this board's FEN, so
// pushing a move never mutates state another caller may still be reading.
func (b *Board) clone() *chess.Game {
	opt, _ := chess.FEN(b.fen)
	return chess.NewGame(opt)
}

// Clone returns an independent copy of b, safe to hand to a bot engine.
func (b *Board) Clone() *Board {
	return &Board{fen: b.fen, g: b.clone()}
}

// IsCheckmate reports whether the side to move is checkmated.
func (b *Board) IsCheckmate() bool {
	return b.g.Method() == chess.Checkmate
}

// IsStalemate reports whether the side to move is stalemated.
func (b *Board) IsStalemate() bool {
	return b.g.Method() == chess.Stalemate
}

// IsInsufficientMaterial reports a dead, unwinnable position.
func (b *Board) IsInsufficientMaterial() bool {
	return b.g.Method() == chess.InsufficientMaterial
}

// IsSeventyFiveMoves reports the automatic 75-move-rule draw. This is
// computed from the FEN halfmove clock directly rather than delegated to
// the library, since the seventy-five-move rule (automatic, no claim
// needed) and the fifty-move rule (claimable) are easy to conflate and the
// adapter must be exact about which one fired.
func (b *Board) IsSeventyFiveMoves() bool {
	halfmove, ok := halfmoveClock(b.fen)
	return ok && halfmove >= 150
}

func halfmoveClock(fen string) (int, bool) {
	fields := strings.Fields(fen)
	if len(fields) < 5 {
		return 0, false
	}
	n, err := strconv.Atoi(fields[4])
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsTerminal reports whether the position is checkmate, stalemate,
// insufficient material, or the seventy-five-move rule.
func (b *Board) IsTerminal() bool {
	return b.IsCheckmate() || b.IsStalemate() || b.IsInsufficientMaterial() || b.IsSeventyFiveMoves()
}
