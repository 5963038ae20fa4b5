package arena

import (
	"math"
	"sort"

	"arena-chess/internal/models"
)

// queueEntry bundles a queued join row with the rating needed for the
// pairing cost function (TournamentPlayer itself carries no rating).
type queueEntry struct {
	TP     *models.TournamentPlayer
	Rating float64
}

type pair struct {
	A, B *models.TournamentPlayer
}

// pairQueue implements section 4.7 phase B's greedy matcher: sort by
// (-score, rating asc), then for each still-unpaired entry pick the
// unpaired candidate minimizing 1000*|Δscore|+|Δrating| that is not in
// its anti-rematch window.
func pairQueue(entries []queueEntry, recentOpponents map[string]map[string]bool) []pair {
	ordered := make([]queueEntry, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].TP.Score != ordered[j].TP.Score {
			return ordered[i].TP.Score > ordered[j].TP.Score
		}
		return ordered[i].Rating < ordered[j].Rating
	})

	paired := make(map[string]bool, len(ordered))
	var out []pair

	for i, e := range ordered {
		if paired[e.TP.PlayerID] {
			continue
		}
		recent := recentOpponents[e.TP.PlayerID]
		bestIdx := -1
		bestCost := math.MaxFloat64
		for j := i + 1; j < len(ordered); j++ {
			o := ordered[j]
			if paired[o.TP.PlayerID] {
				continue
			}
			if recent != nil && recent[o.TP.PlayerID] {
				continue
			}
			cost := 1000*math.Abs(e.TP.Score-o.TP.Score) + math.Abs(e.Rating-o.Rating)
			if cost < bestCost {
				bestCost = cost
				bestIdx = j
			}
		}
		if bestIdx == -1 {
			continue // e stays queued
		}
		paired[e.TP.PlayerID] = true
		paired[ordered[bestIdx].TP.PlayerID] = true
		out = append(out, pair{A: e.TP, B: ordered[bestIdx].TP})
	}
	return out
}
