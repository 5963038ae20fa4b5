// Command arenad boots the arena engine: it wires the store, the game
// state machine, the bot driver, the arena ticker, and the JSON API
// surface together, then serves HTTP until it receives a termination
// signal, loading environment overrides via godotenv and shutting down
// gracefully on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"arena-chess/internal/api"
	"arena-chess/internal/arena"
	"arena-chess/internal/botdriver"
	"arena-chess/internal/casual"
	"arena-chess/internal/config"
	"arena-chess/internal/game"
	"arena-chess/internal/presence"
	"arena-chess/internal/store"
	"arena-chess/internal/store/memstore"
	"arena-chess/internal/store/pg"
)

// zap drives process-lifecycle logging (startup, shutdown, fatal errors).
// Engine components are built against log/slog, so we bridge the two at
// the one seam that constructs both.
func newProcessLogger() (*zap.Logger, *slog.Logger) {
	zl, err := zap.NewProduction()
	if err != nil {
		zl = zap.NewNop()
	}
	return zl, slog.New(zapSlogHandler{zl})
}

// zapSlogHandler is a minimal slog.Handler that forwards records to a
// zap.Logger, avoiding a second logging dependency for the component
// packages while still letting the process root use zap directly.
type zapSlogHandler struct{ z *zap.Logger }

func (h zapSlogHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h zapSlogHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]zap.Field, 0, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		fields = append(fields, zap.Any(a.Key, a.Value.Any()))
		return true
	})
	switch {
	case r.Level >= slog.LevelError:
		h.z.Error(r.Message, fields...)
	case r.Level >= slog.LevelWarn:
		h.z.Warn(r.Message, fields...)
	case r.Level >= slog.LevelInfo:
		h.z.Info(r.Message, fields...)
	default:
		h.z.Debug(r.Message, fields...)
	}
	return nil
}

func (h zapSlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	fields := make([]zap.Field, len(attrs))
	for i, a := range attrs {
		fields[i] = zap.Any(a.Key, a.Value.Any())
	}
	return zapSlogHandler{h.z.With(fields...)}
}

func (h zapSlogHandler) WithGroup(name string) slog.Handler { return h }

// openStore implements section 7's infrastructure error-handling policy:
// retry the configured network store three times with a 2s backoff, then
// fall back to the embedded store.
func openStore(ctx context.Context, cfg config.Config, log *zap.Logger) store.Store {
	if cfg.DatabaseURL == "" {
		log.Info("no DATABASE_URL configured, using embedded store")
		return memstore.New()
	}

	var last error
	for attempt := 1; attempt <= 3; attempt++ {
		s, err := pg.Open(ctx, cfg.DatabaseURL)
		if err == nil {
			// The pool connects lazily; Ping forces a connection so an
			// unreachable server is retried here.
			if err = s.Ping(ctx); err != nil {
				s.Close()
			}
		}
		if err == nil {
			if err := s.Migrate(ctx); err != nil {
				log.Warn("migration failed, falling back to embedded store", zap.Error(err))
				s.Close()
				return memstore.New()
			}
			log.Info("connected to postgres store", zap.Int("attempt", attempt))
			return s
		}
		last = err
		log.Warn("postgres connect failed", zap.Int("attempt", attempt), zap.Error(err))
		if attempt < 3 {
			time.Sleep(2 * time.Second)
		}
	}
	log.Warn("postgres unreachable after 3 attempts, falling back to embedded store", zap.Error(last))
	return memstore.New()
}

func main() {
	zl, log := newProcessLogger()
	defer zl.Sync()

	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := openStore(ctx, cfg, zl)
	if closer, ok := st.(interface{ Close() }); ok {
		defer closer.Close()
	}

	gameEngine := game.New(st, nil)
	driver := botdriver.New(st, gameEngine, log)
	arenaEngine := arena.New(st, driver, log)
	gameEngine.Notifier = arenaEngine

	presenceTracker := presence.New(st, cfg.OnlineWindow, cfg.PresenceTouchMinInterval)
	matchmaker := casual.New(st, driver)
	matchmaker.OnlineWindow = cfg.OnlineWindow

	arenaEngine.Start(ctx)

	srv := api.NewServer(st, gameEngine, arenaEngine, matchmaker, presenceTracker, log)
	router := api.NewRouter(srv)

	port := getenv("PORT", "8080")
	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		zl.Info("listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	zl.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
	cancel()
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
