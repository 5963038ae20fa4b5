// Package metrics exposes the engine's Prometheus instrumentation: tick
// duration, pairings per tick, active game count, tick and flag-fall
// totals, and a bot-move latency histogram, via
// github.com/prometheus/client_golang. BotMoveLatency is registered but no
// code path records observations into it, so it stays empty.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	TickDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "arena_tick_duration_seconds",
		Help:    "Duration of one arena engine tick (phases A-D).",
		Buckets: prometheus.DefBuckets,
	})

	PairingsPerTick = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "arena_pairings_per_tick",
		Help:    "Number of games paired in a single arena tick.",
		Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64, 128},
	})

	ActiveGames = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "arena_active_games",
		Help: "Number of games currently ongoing.",
	})

	BotMoveLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "arena_bot_move_latency_seconds",
		Help:    "Wall time from bot trigger to committed move.",
		Buckets: prometheus.DefBuckets,
	})

	TicksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "arena_ticks_total",
		Help: "Total number of arena engine ticks run.",
	})

	FlagFallsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "arena_flag_falls_total",
		Help: "Total number of games ended by the clock sweep's flag-fall detection.",
	})
)

// Registry is a dedicated registry rather than the global default, so
// tests can construct a fresh one without colliding on repeated
// registration.
func NewRegistry() *prometheus.Registry {
	r := prometheus.NewRegistry()
	r.MustRegister(TickDuration, PairingsPerTick, ActiveGames, BotMoveLatency, TicksTotal, FlagFallsTotal)
	return r
}
