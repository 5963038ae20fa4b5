package ratings

import "math"

// PerformanceResult is one game's contribution to a performance-rating
// batch: the opponent's rating and the score achieved (1/0.5/0).
type PerformanceResult struct {
	OpponentRating float64
	Score          float64
}

// Prior is an optional Bayesian prior mixed into the performance-rating
// estimate, worth Games virtual games at the expected score of a player
// rated Rating against the average opponent rating.
type Prior struct {
	Rating float64
	Games  int
}

// DefaultPriorGames is the virtual-game weight of the prior per spec 4.1.
const DefaultPriorGames = 6

// Performance computes a single-number performance-rating estimate from a
// batch of game results, Bayesian-smoothed by an optional prior and capped
// at +/-800 Elo relative to the average opponent rating.
//
// Empty batch with a prior returns the prior rating; empty batch with no
// prior returns 0.
func Performance(results []PerformanceResult, prior *Prior) float64 {
	if len(results) == 0 {
		if prior != nil {
			return prior.Rating
		}
		return 0
	}

	var sumOppRating, sumScore float64
	for _, r := range results {
		sumOppRating += r.OpponentRating
		sumScore += r.Score
	}
	n := float64(len(results))
	avgOpp := sumOppRating / n

	nEff := n
	sEff := sumScore
	if prior != nil && prior.Games > 0 {
		expected := 1.0 / (1.0 + math.Pow(10, (avgOpp-prior.Rating)/400.0))
		nEff += float64(prior.Games)
		sEff += float64(prior.Games) * expected
	}

	p := sEff / nEff
	p = clamp(p, 1e-6, 1-1e-6)

	delta := -400.0 * math.Log10(1.0/p-1.0)
	delta = clamp(delta, -800, 800)

	return avgOpp + delta
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Monotonic is a convenience predicate documented for tests: performance
// rating does not decrease as the per-game score rises from scoreLow to
// scoreHigh for a fixed opponent pool (the +/-800 cap can make the two
// equal). Not called by production code.
func Monotonic(opponentRatings []float64, scoreLow, scoreHigh float64) bool {
	if scoreLow >= scoreHigh {
		return true
	}
	low := make([]PerformanceResult, len(opponentRatings))
	high := make([]PerformanceResult, len(opponentRatings))
	for i, r := range opponentRatings {
		low[i] = PerformanceResult{OpponentRating: r, Score: scoreLow}
		high[i] = PerformanceResult{OpponentRating: r, Score: scoreHigh}
	}
	return Performance(low, nil) <= Performance(high, nil)
}
