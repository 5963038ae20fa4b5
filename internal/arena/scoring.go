package arena

import "arena-chess/internal/models"

// applyOutcome mutates tp in place per section 4.7's score-application
// table. On a win, WinStreak is incremented first and the streak bonus
// applies when the incremented streak exceeds 2, so the third consecutive
// win is the first one to earn it (+2, +2, +3).
func applyOutcome(tp *models.TournamentPlayer, outcome models.Outcome, berserk bool) {
	switch outcome {
	case models.OutcomeWin:
		tp.WinStreak++
		delta := 2.0
		if tp.WinStreak > 2 {
			delta++
		}
		if berserk {
			delta++
		}
		tp.Score += delta
		tp.Wins++
		if berserk {
			tp.Berserks++
		}
	case models.OutcomeDraw:
		tp.Score++
		tp.Draws++
		tp.WinStreak = 0
	case models.OutcomeLoss:
		tp.Losses++
		tp.WinStreak = 0
	}
	tp.GamesPlayed++
}

func outcomesFor(result models.Result) (white, black models.Outcome) {
	switch result {
	case models.ResultWhite:
		return models.OutcomeWin, models.OutcomeLoss
	case models.ResultBlack:
		return models.OutcomeLoss, models.OutcomeWin
	default:
		return models.OutcomeDraw, models.OutcomeDraw
	}
}
