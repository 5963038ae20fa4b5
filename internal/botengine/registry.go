// Package botengine is the named move-chooser plug-in registry (component
// C5): a module-level map of string key -> engine, populated once at
// init() rather than via a runtime package scan, since each engine file
// registers itself from its own init().
package botengine

import (
	"math/rand"
	"sort"
	"sync"

	"arena-chess/internal/rules"
)

// Engine is a single move-chooser plug-in. ChooseMove must not mutate b;
// callers (the bot driver, component C6) rely on that invariant and clone
// before handing a board to an engine only as defense in depth.
type Engine interface {
	Key() string
	Name() string
	Description() string
	ChooseMove(b *rules.Board, rng *rand.Rand) (string, error)
}

var (
	mu       sync.Mutex
	registry = map[string]Engine{}
)

// Register adds e to the registry. Called from each engine file's init().
// Panics on a duplicate key: a duplicate key is a programming error,
// never a runtime condition.
func Register(e Engine) {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := registry[e.Key()]; ok {
		panic("botengine: duplicate engine key " + e.Key())
	}
	registry[e.Key()] = e
}

// Get looks up an engine by key, falling through to the sentinel
// random_capture engine on an unknown key (section 4.5).
func Get(key string) Engine {
	mu.Lock()
	defer mu.Unlock()
	if e, ok := registry[key]; ok {
		return e
	}
	return registry[KeyRandomCapture]
}

// Info describes a registered engine for listing purposes.
type Info struct {
	Key         string
	Name        string
	Description string
}

// List returns every registered engine, sorted by key.
func List() []Info {
	mu.Lock()
	defer mu.Unlock()
	out := make([]Info, 0, len(registry))
	for _, e := range registry {
		out = append(out, Info{Key: e.Key(), Name: e.Name(), Description: e.Description()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
