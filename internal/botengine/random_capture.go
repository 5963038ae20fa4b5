package botengine

import (
	"math/rand"

	"arena-chess/internal/rules"
)

// randomCaptureEngine is the sentinel engine: uniformly random among
// captures, falling through to any legal move. It is also the fallback an
// unknown engine key resolves to (section 4.5) and what the bot driver
// (C6) falls back to when its chosen move turns out illegal on commit.
type randomCaptureEngine struct{}

func (randomCaptureEngine) Key() string  { return KeyRandomCapture }
func (randomCaptureEngine) Name() string { return "Random (captures first)" }
func (randomCaptureEngine) Description() string {
	return "Picks a random legal move, but prefers captures when available."
}

func (randomCaptureEngine) ChooseMove(b *rules.Board, rng *rand.Rand) (string, error) {
	legal := b.LegalMoves()
	if len(legal) == 0 {
		return "", errNoLegalMoves
	}
	var captures []string
	for _, m := range legal {
		ok, err := b.IsCapture(m)
		if err == nil && ok {
			captures = append(captures, m)
		}
	}
	pool := captures
	if len(pool) == 0 {
		pool = legal
	}
	if rng == nil {
		return pool[0], nil
	}
	return pool[rng.Intn(len(pool))], nil
}

func init() {
	Register(randomCaptureEngine{})
}
