package botengine

import (
	"math/rand"
	"sort"
	"time"

	"github.com/notnil/chess"

	"arena-chess/internal/rules"
)

// Budget bounds one search: a hard depth, a node ceiling, a wall-clock
// ceiling, and the root tie-breaking window from section 4.5.
type Budget struct {
	MaxDepth       int
	MaxNodes       int
	MaxTimeMs      int64
	RandomTop      int
	RandomMarginCp int
}

// DefaultMinimaxBudget is section 4.5's stated default: depth 3, 45000
// nodes, 450ms, with no randomization (always the best root move).
var DefaultMinimaxBudget = Budget{MaxDepth: 3, MaxNodes: 45_000, MaxTimeMs: 450, RandomTop: 1, RandomMarginCp: 0}

// MartinbotBudget is section 4.5's weaker, more human-like budget.
var MartinbotBudget = Budget{MaxDepth: 3, MaxNodes: 10_000, MaxTimeMs: 450, RandomTop: 2, RandomMarginCp: 90}

const (
	ttExact = iota
	ttLowerBound
	ttUpperBound
)

type ttEntry struct {
	depth int
	score int
	flag  int
	best  string
}

// searcher holds the mutable state of one ChooseMove call: node/time
// budget, transposition table, and move-ordering heuristics. None of it
// outlives a single call.
type searcher struct {
	budget   Budget
	deadline time.Time
	nodes    int

	tt      map[string]ttEntry
	killers map[int][2]string
	history map[string]int
}

func newSearcher(b Budget) *searcher {
	return &searcher{
		budget:   b,
		deadline: time.Now().Add(time.Duration(b.MaxTimeMs) * time.Millisecond),
		tt:       make(map[string]ttEntry),
		killers:  make(map[int][2]string),
		history:  make(map[string]int),
	}
}

func (s *searcher) exhausted() bool {
	return s.nodes >= s.budget.MaxNodes || time.Now().After(s.deadline)
}

// sideSign is +1 when white is to move, -1 when black is to move, so
// evaluate()'s white-relative score becomes side-to-move-relative for
// negamax.
func sideSign(pos *chess.Position) int {
	if pos.Turn() == chess.White {
		return 1
	}
	return -1
}

func moveUCI(pos *chess.Position, m *chess.Move) string {
	return chess.UCINotation{}.Encode(pos, m)
}

func isCapture(m *chess.Move) bool {
	return m.HasTag(chess.Capture) || m.HasTag(chess.EnPassant)
}

// mvvLva scores a capture by victim value minus a fraction of the
// attacker's value (most-valuable-victim, least-valuable-attacker).
func mvvLva(pos *chess.Position, m *chess.Move) int {
	board := pos.Board()
	victim := board.Piece(m.S2())
	attacker := board.Piece(m.S1())
	return pieceValue[victim.Type()]*16 - pieceValue[attacker.Type()]
}

// orderMoves sorts moves for alpha-beta efficiency: TT best move, then
// captures by MVV-LVA, then killer moves, then history heuristic, then
// the rest.
func (s *searcher) orderMoves(pos *chess.Position, moves []*chess.Move, ply int, ttBest string) []*chess.Move {
	killers := s.killers[ply]
	type scored struct {
		m     *chess.Move
		score int
	}
	out := make([]scored, 0, len(moves))
	for _, m := range moves {
		uci := moveUCI(pos, m)
		sc := 0
		switch {
		case uci == ttBest:
			sc = 1_000_000
		case isCapture(m):
			sc = 100_000 + mvvLva(pos, m)
		case uci == killers[0] || uci == killers[1]:
			sc = 50_000
		default:
			sc = s.history[uci]
		}
		out = append(out, scored{m, sc})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].score > out[j].score })
	ordered := make([]*chess.Move, len(out))
	for i, o := range out {
		ordered[i] = o.m
	}
	return ordered
}

func (s *searcher) recordKiller(ply int, uci string) {
	k := s.killers[ply]
	if k[0] == uci {
		return
	}
	k[1] = k[0]
	k[0] = uci
	s.killers[ply] = k
}

// quiescence extends the search over captures and promotions only, so the
// static eval at the search horizon is never taken mid-capture-sequence.
func (s *searcher) quiescence(pos *chess.Position, alpha, beta int) int {
	s.nodes++
	standPat := sideSign(pos) * evaluate(pos)
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}
	if s.exhausted() {
		return alpha
	}

	for _, m := range pos.ValidMoves() {
		if !isCapture(m) && m.Promo() == chess.NoPieceType {
			continue
		}
		if s.exhausted() {
			break
		}
		child := pos.Update(m)
		score := -s.quiescence(child, -beta, -alpha)
		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}

// negamax is alpha-beta negamax with a transposition table, MVV-LVA +
// killer + history move ordering, and a quiescence leaf.
func (s *searcher) negamax(pos *chess.Position, depth, ply, alpha, beta int) int {
	s.nodes++
	key := pos.String() // FEN-equivalent position key

	var ttBest string
	if e, ok := s.tt[key]; ok && e.depth >= depth {
		switch e.flag {
		case ttExact:
			return e.score
		case ttLowerBound:
			if e.score > alpha {
				alpha = e.score
			}
		case ttUpperBound:
			if e.score < beta {
				beta = e.score
			}
		}
		if alpha >= beta {
			return e.score
		}
		ttBest = e.best
	}

	moves := pos.ValidMoves()
	if len(moves) == 0 {
		if pos.InCheck() {
			// Checkmate: as bad as possible for the side to move, biased
			// toward shorter mates by ply so the search prefers the
			// fastest forced win when one exists.
			return -999_000 + ply
		}
		return 0 // stalemate
	}

	if depth <= 0 || s.exhausted() {
		return s.quiescence(pos, alpha, beta)
	}

	orig := alpha
	best := -1 << 30
	bestUCI := ""
	for _, m := range s.orderMoves(pos, moves, ply, ttBest) {
		if s.exhausted() {
			break
		}
		child := pos.Update(m)
		score := -s.negamax(child, depth-1, ply+1, -beta, -alpha)
		uci := moveUCI(pos, m)
		if score > best {
			best = score
			bestUCI = uci
		}
		if best > alpha {
			alpha = best
		}
		if alpha >= beta {
			if !isCapture(m) {
				s.recordKiller(ply, uci)
				s.history[uci] += depth * depth
			}
			break
		}
	}

	flag := ttExact
	if best <= orig {
		flag = ttUpperBound
	} else if best >= beta {
		flag = ttLowerBound
	}
	s.tt[key] = ttEntry{depth: depth, score: best, flag: flag, best: bestUCI}
	return best
}

type rootScore struct {
	uci   string
	score int
}

// search runs iterative deepening up to b.MaxDepth (or until the budget is
// exhausted) and returns every root move with the score from the deepest
// iteration that searched it, sorted best-first. When the budget runs out
// mid-iteration, the root moves that iteration reached carry its scores and
// the rest keep the previous iteration's.
func search(pos *chess.Position, b Budget) []rootScore {
	s := newSearcher(b)
	moves := pos.ValidMoves()
	results := make([]rootScore, 0, len(moves))
	for _, m := range moves {
		results = append(results, rootScore{uci: moveUCI(pos, m), score: -1 << 30})
	}

	ttBest := ""
	for depth := 1; depth <= b.MaxDepth; depth++ {
		if s.exhausted() {
			break
		}
		ordered := s.orderMoves(pos, moves, 0, ttBest)
		iterResults := make(map[string]int, len(moves))
		for _, m := range ordered {
			if s.exhausted() {
				break
			}
			child := pos.Update(m)
			score := -s.negamax(child, depth-1, 1, -1<<30, 1<<30)
			iterResults[moveUCI(pos, m)] = score
		}
		if len(iterResults) == 0 {
			break
		}
		for i := range results {
			if v, ok := iterResults[results[i].uci]; ok {
				results[i].score = v
			}
		}
		sort.SliceStable(results, func(i, j int) bool { return results[i].score > results[j].score })
		ttBest = results[0].uci
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].score > results[j].score })
	return results
}

// pickWithMargin returns a move chosen uniformly among the top RandomTop
// results whose score is within RandomMarginCp of the best, per section
// 4.5's tie-breaking rule.
func pickWithMargin(results []rootScore, b Budget, rng *rand.Rand) string {
	if len(results) == 0 {
		return ""
	}
	top := results[0].score
	var pool []string
	for _, r := range results {
		if top-r.score > b.RandomMarginCp {
			break
		}
		pool = append(pool, r.uci)
		if len(pool) >= b.RandomTop {
			break
		}
	}
	if len(pool) == 0 {
		return results[0].uci
	}
	if rng == nil {
		return pool[0]
	}
	return pool[rng.Intn(len(pool))]
}

func positionFromBoard(b *rules.Board) (*chess.Position, error) {
	opt, err := chess.FEN(b.FEN())
	if err != nil {
		return nil, err
	}
	return chess.NewGame(opt).Position(), nil
}

type minimaxEngine struct {
	key, name, desc string
	budget          Budget
}

func (e *minimaxEngine) Key() string         { return e.key }
func (e *minimaxEngine) Name() string        { return e.name }
func (e *minimaxEngine) Description() string { return e.desc }

func (e *minimaxEngine) ChooseMove(b *rules.Board, rng *rand.Rand) (string, error) {
	pos, err := positionFromBoard(b)
	if err != nil {
		return "", err
	}
	if len(pos.ValidMoves()) == 0 {
		return "", errNoLegalMoves
	}
	results := search(pos, e.budget)
	return pickWithMargin(results, e.budget, rng), nil
}

func init() {
	Register(&minimaxEngine{
		key: KeyMinimax, name: "Minimax (alpha-beta, depth 3)",
		desc:   "Negamax with alpha-beta pruning, iterative deepening, a transposition table, and MVV-LVA/killer/history move ordering.",
		budget: DefaultMinimaxBudget,
	})
	Register(&minimaxEngine{
		key: KeyMartinbot, name: "MartinBot (basic minimax fork)",
		desc:   "A basic Martin-style minimax fork: quick, human-like, and less precise than full minimax.",
		budget: MartinbotBudget,
	})
}
