package botengine

import "errors"

// Engine keys, matched against models.BotConfig.EngineKey by Get; the bot
// driver uses KeyRandomCapture for its fallback move.
const (
	KeyRandomCapture = "random_capture"
	KeyMinimax       = "minimax"
	KeyMartinbot     = "martinbot"
)

var errNoLegalMoves = errors.New("botengine: no legal moves available")
