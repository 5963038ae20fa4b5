package botengine

import (
	"github.com/notnil/chess"
)

// Material values in centipawns.
var pieceValue = map[chess.PieceType]int{
	chess.Pawn:   100,
	chess.Knight: 320,
	chess.Bishop: 330,
	chess.Rook:   500,
	chess.Queen:  900,
	chess.King:   0,
}

// Piece-square tables, white's perspective, rank 8 (index 0) to rank 1
// (index 7), file a (index 0) to file h (index 7) -- same layout as the
// original Python tables.
var pawnPST = [8][8]int{
	{0, 0, 0, 0, 0, 0, 0, 0},
	{50, 50, 50, 50, 50, 50, 50, 50},
	{10, 10, 20, 30, 30, 20, 10, 10},
	{5, 5, 10, 25, 25, 10, 5, 5},
	{0, 0, 0, 20, 20, 0, 0, 0},
	{5, -5, -10, 0, 0, -10, -5, 5},
	{5, 10, 10, -20, -20, 10, 10, 5},
	{0, 0, 0, 0, 0, 0, 0, 0},
}

var knightPST = [8][8]int{
	{-50, -40, -30, -30, -30, -30, -40, -50},
	{-40, -20, 0, 0, 0, 0, -20, -40},
	{-30, 0, 10, 15, 15, 10, 0, -30},
	{-30, 5, 15, 20, 20, 15, 5, -30},
	{-30, 0, 15, 20, 20, 15, 0, -30},
	{-30, 5, 10, 15, 15, 10, 5, -30},
	{-40, -20, 0, 5, 5, 0, -20, -40},
	{-50, -40, -30, -30, -30, -30, -40, -50},
}

var bishopPST = [8][8]int{
	{-20, -10, -10, -10, -10, -10, -10, -20},
	{-10, 0, 0, 0, 0, 0, 0, -10},
	{-10, 0, 5, 10, 10, 5, 0, -10},
	{-10, 5, 5, 10, 10, 5, 5, -10},
	{-10, 0, 10, 10, 10, 10, 0, -10},
	{-10, 10, 10, 10, 10, 10, 10, -10},
	{-10, 5, 0, 0, 0, 0, 5, -10},
	{-20, -10, -10, -10, -10, -10, -10, -20},
}

var rookPST = [8][8]int{
	{0, 0, 0, 0, 0, 0, 0, 0},
	{5, 10, 10, 10, 10, 10, 10, 5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{0, 0, 0, 5, 5, 0, 0, 0},
}

var queenPST = [8][8]int{
	{-20, -10, -10, -5, -5, -10, -10, -20},
	{-10, 0, 0, 0, 0, 0, 0, -10},
	{-10, 0, 5, 5, 5, 5, 0, -10},
	{-5, 0, 5, 5, 5, 5, 0, -5},
	{0, 0, 5, 5, 5, 5, 0, -5},
	{-10, 5, 5, 5, 5, 5, 0, -10},
	{-10, 0, 5, 0, 0, 0, 0, -10},
	{-20, -10, -10, -5, -5, -10, -10, -20},
}

var kingPST = [8][8]int{
	{-30, -40, -40, -50, -50, -40, -40, -30},
	{-30, -40, -40, -50, -50, -40, -40, -30},
	{-30, -40, -40, -50, -50, -40, -40, -30},
	{-30, -40, -40, -50, -50, -40, -40, -30},
	{-20, -30, -30, -40, -40, -30, -30, -20},
	{-10, -20, -20, -20, -20, -20, -20, -10},
	{20, 30, 10, 0, 0, 10, 30, 20},
	{20, 30, 30, 10, 10, 30, 30, 20},
}

func pstFor(pt chess.PieceType) *[8][8]int {
	switch pt {
	case chess.Pawn:
		return &pawnPST
	case chess.Knight:
		return &knightPST
	case chess.Bishop:
		return &bishopPST
	case chess.Rook:
		return &rookPST
	case chess.Queen:
		return &queenPST
	case chess.King:
		return &kingPST
	default:
		return &pawnPST
	}
}

// evaluate scores pos from white's perspective in centipawns: material,
// piece-square tables, and the bishop-pair bonus section 4.5 calls for.
func evaluate(pos *chess.Position) int {
	board := pos.Board()
	score := 0
	whiteBishops, blackBishops := 0, 0

	for sq, piece := range board.SquareMap() {
		pt := piece.Type()
		value := pieceValue[pt]
		pst := pstFor(pt)

		rank := int(sq.Rank()) // 0 = rank 1 ... 7 = rank 8
		file := int(sq.File())

		var pstValue int
		if piece.Color() == chess.White {
			pstValue = pst[7-rank][file]
		} else {
			pstValue = pst[rank][file]
		}

		signed := value + pstValue
		if piece.Color() == chess.White {
			score += signed
			if pt == chess.Bishop {
				whiteBishops++
			}
		} else {
			score -= signed
			if pt == chess.Bishop {
				blackBishops++
			}
		}
	}

	const bishopPairBonus = 30
	if whiteBishops >= 2 {
		score += bishopPairBonus
	}
	if blackBishops >= 2 {
		score -= bishopPairBonus
	}
	return score
}
