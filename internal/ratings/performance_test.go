package ratings

import "testing"

func TestPerformanceEmptyBatch(t *testing.T) {
	if got := Performance(nil, nil); got != 0 {
		t.Fatalf("expected 0 for empty batch with no prior, got %v", got)
	}
	if got := Performance(nil, &Prior{Rating: 1234, Games: DefaultPriorGames}); got != 1234 {
		t.Fatalf("expected prior rating for empty batch with prior, got %v", got)
	}
}

func TestPerformanceMonotonicInScore(t *testing.T) {
	opps := []float64{500, 520, 480, 510}
	if !Monotonic(opps, 0, 1) {
		t.Fatalf("expected performance rating to be monotonic in score")
	}
}

func TestPerformanceCappedAt800(t *testing.T) {
	results := []PerformanceResult{
		{OpponentRating: 500, Score: 1},
		{OpponentRating: 500, Score: 1},
		{OpponentRating: 500, Score: 1},
	}
	got := Performance(results, nil)
	if got > 500+800+1e-9 {
		t.Fatalf("performance rating exceeded +800 cap: %v", got)
	}
}
