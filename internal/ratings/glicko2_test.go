package ratings

import "testing"

func TestUpdateEmptyBatchOnlyInflatesDeviation(t *testing.T) {
	start := Triple{Rating: 500, Deviation: 60, Volatility: 0.06}
	got := Update(start, nil)

	if got.Rating != start.Rating {
		t.Fatalf("rating changed on empty batch: got %v want %v", got.Rating, start.Rating)
	}
	if got.Volatility != start.Volatility {
		t.Fatalf("volatility changed on empty batch: got %v want %v", got.Volatility, start.Volatility)
	}
	if got.Deviation <= start.Deviation {
		t.Fatalf("deviation did not inflate: got %v want > %v", got.Deviation, start.Deviation)
	}
}

func TestUpdateClampsDeviationBounds(t *testing.T) {
	start := Triple{Rating: 500, Deviation: 29, Volatility: 0.06}
	got := Update(start, []Opponent{{Rating: 500, Deviation: 60, Score: 1}})
	if got.Deviation < MinDeviation || got.Deviation > MaxDeviation {
		t.Fatalf("deviation out of bounds: %v", got.Deviation)
	}

	start2 := Triple{Rating: 500, Deviation: 349, Volatility: 0.06}
	got2 := Update(start2, nil)
	if got2.Deviation < MinDeviation || got2.Deviation > MaxDeviation {
		t.Fatalf("deviation out of bounds after inflation: %v", got2.Deviation)
	}
}

func TestUpdateWinnerGainsRating(t *testing.T) {
	start := Triple{Rating: 500, Deviation: 100, Volatility: 0.06}
	won := Update(start, []Opponent{{Rating: 500, Deviation: 100, Score: 1}})
	lost := Update(start, []Opponent{{Rating: 500, Deviation: 100, Score: 0}})

	if !(won.Rating > start.Rating) {
		t.Fatalf("expected rating gain after a win: %v -> %v", start.Rating, won.Rating)
	}
	if !(lost.Rating < start.Rating) {
		t.Fatalf("expected rating loss after a loss: %v -> %v", start.Rating, lost.Rating)
	}

	// A single even-strength win against an opponent of equal rating and RD
	// should move the rating by several points, not by hundredths of a
	// point: that magnitude collapse is exactly what a missing/extra q
	// factor in v, delta, or muNew produces.
	gain := won.Rating - start.Rating
	if gain < 5 || gain > 60 {
		t.Fatalf("rating gain out of expected magnitude: got %v (start %v, won %v)", gain, start.Rating, won.Rating)
	}
	loss := start.Rating - lost.Rating
	if loss < 5 || loss > 60 {
		t.Fatalf("rating loss out of expected magnitude: got %v (start %v, lost %v)", loss, start.Rating, lost.Rating)
	}
}

// TestUpdateMatchesGlickmanWorkedExample reproduces the worked example from
// Glickman's Glicko-2 paper (player RD 200, vol 0.06 against opponents at
// RD 30/100/300 with results win/loss/loss), shifted from the paper's 1500
// rating center onto this system's 500 center. The paper reports the
// post-update rating as ~1464.06, RD ~151.52, and volatility ~0.05999;
// shifting the rating center by -1000 leaves RD and volatility unchanged
// and shifts the rating the same amount.
func TestUpdateMatchesGlickmanWorkedExample(t *testing.T) {
	start := Triple{Rating: 500, Deviation: 200, Volatility: 0.06}
	opponents := []Opponent{
		{Rating: 400, Deviation: 30, Score: 1},
		{Rating: 550, Deviation: 100, Score: 0},
		{Rating: 700, Deviation: 300, Score: 0},
	}

	got := Update(start, opponents)

	const (
		wantRating = 464.06
		wantRD     = 151.52
		wantVol    = 0.05999
	)
	if diff := got.Rating - wantRating; diff < -0.5 || diff > 0.5 {
		t.Fatalf("rating = %v, want ~%v", got.Rating, wantRating)
	}
	if diff := got.Deviation - wantRD; diff < -0.5 || diff > 0.5 {
		t.Fatalf("deviation = %v, want ~%v", got.Deviation, wantRD)
	}
	if diff := got.Volatility - wantVol; diff < -0.0005 || diff > 0.0005 {
		t.Fatalf("volatility = %v, want ~%v", got.Volatility, wantVol)
	}
}
