package rules

import (
	"fmt"
	"slices"
	"sync"
)

// WatcherScope says which events a watcher follows.
type WatcherScope int

const (
	// WatcherScopeGame tracks events for the entire game.
	WatcherScopeGame WatcherScope = iota
	// WatcherScopePlayer tracks events for one seat.
	WatcherScopePlayer
)

func (ws WatcherScope) String() string {
	switch ws {
	case WatcherScopeGame:
		return "GAME"
	case WatcherScopePlayer:
		return "PLAYER"
	default:
		return "UNKNOWN"
	}
}

// Watcher observes game events and accumulates whatever it tracks.
type Watcher interface {
	// Watch is called for every published event.
	Watch(event Event)
	// Reset clears the tracked state.
	Reset()
	Scope() WatcherScope
	// Key identifies the watcher within a registry.
	Key() string
}

// BaseWatcher is embedded by watchers for their scope and key.
type BaseWatcher struct {
	scope    WatcherScope
	playerID string
	key      string
}

// NewBaseWatcher creates a base watcher. playerID is only meaningful for
// player scope.
func NewBaseWatcher(scope WatcherScope, playerID string) *BaseWatcher {
	return &BaseWatcher{scope: scope, playerID: playerID}
}

func (bw *BaseWatcher) Scope() WatcherScope {
	return bw.scope
}

// PlayerID returns the seat a player scope watcher follows.
func (bw *BaseWatcher) PlayerID() string {
	return bw.playerID
}

func (bw *BaseWatcher) Key() string {
	return bw.key
}

// SetKey names the watcher. The registry calls it for unnamed watchers.
func (bw *BaseWatcher) SetKey(key string) {
	bw.key = key
}

// Follows reports whether event concerns this watcher.
func (bw *BaseWatcher) Follows(event Event) bool {
	return bw.scope == WatcherScopeGame || event.PlayerID == bw.playerID
}

// WatcherRegistry holds the watchers of one game in the order they were
// added. Events reach them in that order.
type WatcherRegistry struct {
	mu       sync.RWMutex
	watchers []Watcher
	next     int
}

// NewWatcherRegistry creates an empty registry.
func NewWatcherRegistry() *WatcherRegistry {
	return &WatcherRegistry{}
}

// AddWatcher registers watcher and returns its key. A watcher without a key
// is given one built from its scope. Adding a key twice replaces the earlier
// watcher in place.
func (wr *WatcherRegistry) AddWatcher(watcher Watcher) string {
	if watcher == nil {
		return ""
	}

	wr.mu.Lock()
	defer wr.mu.Unlock()

	key := watcher.Key()
	if key == "" {
		wr.next++
		key = fmt.Sprintf("%s_%d", watcher.Scope(), wr.next)
		if keyed, ok := watcher.(interface{ SetKey(string) }); ok {
			keyed.SetKey(key)
		}
	}
	if i := wr.indexOf(key); i >= 0 {
		wr.watchers[i] = watcher
	} else {
		wr.watchers = append(wr.watchers, watcher)
	}
	return key
}

// RemoveWatcher drops the watcher with key, if any.
func (wr *WatcherRegistry) RemoveWatcher(key string) {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	wr.watchers = slices.DeleteFunc(wr.watchers, func(w Watcher) bool {
		return w.Key() == key
	})
}

// GetWatcher returns the watcher with key or nil.
func (wr *WatcherRegistry) GetWatcher(key string) Watcher {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	if i := wr.indexOf(key); i >= 0 {
		return wr.watchers[i]
	}
	return nil
}

// GetWatchersByScope lists the watchers of one scope.
func (wr *WatcherRegistry) GetWatchersByScope(scope WatcherScope) []Watcher {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	var out []Watcher
	for _, w := range wr.watchers {
		if w.Scope() == scope {
			out = append(out, w)
		}
	}
	return out
}

// ResetWatchers clears what every watcher has tracked.
func (wr *WatcherRegistry) ResetWatchers() {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	for _, w := range wr.watchers {
		w.Reset()
	}
}

// NotifyWatchers hands event to every watcher.
func (wr *WatcherRegistry) NotifyWatchers(event Event) {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	for _, w := range wr.watchers {
		w.Watch(event)
	}
}

func (wr *WatcherRegistry) indexOf(key string) int {
	return slices.IndexFunc(wr.watchers, func(w Watcher) bool {
		return w.Key() == key
	})
}
