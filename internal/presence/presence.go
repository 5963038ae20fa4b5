// Package presence wraps store.Presences with the rate-limiting and
// online-window policy from section 6: requests touch presence at most
// once per PresenceTouchMinInterval, and a player counts as online if
// seen within OnlineWindow.
package presence

import (
	"context"
	"sync"
	"time"

	"arena-chess/internal/store"
)

type Tracker struct {
	store         store.Presences
	onlineWindow  time.Duration
	minInterval   time.Duration

	mu        sync.Mutex
	lastTouch map[string]time.Time
}

func New(s store.Presences, onlineWindow, minInterval time.Duration) *Tracker {
	return &Tracker{
		store:        s,
		onlineWindow: onlineWindow,
		minInterval:  minInterval,
		lastTouch:    make(map[string]time.Time),
	}
}

// Touch records playerID as seen at now, skipping the write if it was
// already touched within minInterval (a cheap process-local debounce; the
// store itself is idempotent either way).
func (t *Tracker) Touch(ctx context.Context, playerID string, now time.Time) error {
	t.mu.Lock()
	last, ok := t.lastTouch[playerID]
	if ok && now.Sub(last) < t.minInterval {
		t.mu.Unlock()
		return nil
	}
	t.lastTouch[playerID] = now
	t.mu.Unlock()

	return t.store.TouchPresence(ctx, playerID, now)
}

func (t *Tracker) CountOnline(ctx context.Context, now time.Time) (int64, error) {
	return t.store.CountOnline(ctx, now.Add(-t.onlineWindow))
}

func (t *Tracker) IsOnline(ctx context.Context, playerID string, now time.Time) (bool, error) {
	return t.store.IsOnline(ctx, playerID, now.Add(-t.onlineWindow))
}
