package match

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/JRackFatWalrus/clashlings/internal/catalog"
	"github.com/JRackFatWalrus/clashlings/internal/game"
	"github.com/JRackFatWalrus/clashlings/internal/game/opponent"
	"github.com/JRackFatWalrus/clashlings/internal/game/rules"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrMatchNotFound is returned when no match has the requested id.
	ErrMatchNotFound = errors.New("match not found")
	// ErrUnknownDeck is returned when a deck id names no starter deck.
	ErrUnknownDeck = errors.New("unknown deck")
)

// Notification is pushed to UI clients when something happens in a match.
type Notification struct {
	Type      string                 `json:"type"`
	MatchID   string                 `json:"match_id"`
	Seat      string                 `json:"seat,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// NotificationHandler receives match notifications.
type NotificationHandler func(notification Notification)

// Notification types besides the rules event types.
const (
	NotificationMatchStarted = "MATCH_STARTED"
	NotificationMatchRemoved = "MATCH_REMOVED"
)

// Options selects the decks and seed of a new match.
type Options struct {
	// PlayerDeck is a starter deck id.
	PlayerDeck string
	// OpponentDeck is a starter deck id; empty picks one at random.
	OpponentDeck string
	// Seed drives shuffling; zero draws a fresh seed.
	Seed int64
}

// Manager creates and tracks matches.
type Manager struct {
	catalog *catalog.Catalog
	policy  opponent.Policy
	logger  *zap.Logger

	mu                  sync.RWMutex
	matches             map[string]*Match
	notificationHandler NotificationHandler

	// queue holds notifications not yet handed to the handler. At most one
	// goroutine drains it, so they arrive in emission order.
	queueMu  sync.Mutex
	queue    []Notification
	draining bool

	scoreMu sync.Mutex
	scores  map[string]*Record
}

// NewManager creates a match manager drawing cards from cat.
func NewManager(cat *catalog.Catalog, logger *zap.Logger) *Manager {
	return &Manager{
		catalog: cat,
		policy:  opponent.New(),
		logger:  logger,
		matches: make(map[string]*Match),
		scores:  make(map[string]*Record),
	}
}

// SetNotificationHandler sets the handler for match notifications.
func (m *Manager) SetNotificationHandler(handler NotificationHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notificationHandler = handler
}

// emitNotifications queues a batch for the registered handler. The handler
// runs on a separate goroutine, so it may call back into the match, and
// sees notifications in the order they were emitted across all matches.
func (m *Manager) emitNotifications(batch ...Notification) {
	m.mu.RLock()
	handler := m.notificationHandler
	m.mu.RUnlock()

	if handler == nil || len(batch) == 0 {
		return
	}

	m.queueMu.Lock()
	m.queue = append(m.queue, batch...)
	if m.draining {
		m.queueMu.Unlock()
		return
	}
	m.draining = true
	m.queueMu.Unlock()

	go m.drainNotifications()
}

func (m *Manager) drainNotifications() {
	for {
		m.queueMu.Lock()
		pending := m.queue
		m.queue = nil
		if len(pending) == 0 {
			m.draining = false
			m.queueMu.Unlock()
			return
		}
		m.queueMu.Unlock()

		m.mu.RLock()
		handler := m.notificationHandler
		m.mu.RUnlock()
		if handler == nil {
			continue
		}
		for _, n := range pending {
			handler(n)
		}
	}
}

// CreateMatch deals a new match.
func (m *Manager) CreateMatch(opts Options) (*Match, error) {
	playerDeck, ok := catalog.StarterDeck(opts.PlayerDeck)
	if !ok {
		return nil, fmt.Errorf("player deck %q: %w", opts.PlayerDeck, ErrUnknownDeck)
	}

	seed := opts.Seed
	if seed == 0 {
		var err error
		if seed, err = randomSeed(); err != nil {
			return nil, fmt.Errorf("failed to seed match: %w", err)
		}
	}
	rng := rand.New(rand.NewSource(seed))

	var opponentDeck catalog.DeckDefinition
	if opts.OpponentDeck == "" {
		opponentDeck = catalog.RandomStarterDeck(rng)
	} else if opponentDeck, ok = catalog.StarterDeck(opts.OpponentDeck); !ok {
		return nil, fmt.Errorf("opponent deck %q: %w", opts.OpponentDeck, ErrUnknownDeck)
	}

	for _, deck := range []catalog.DeckDefinition{playerDeck, opponentDeck} {
		if _, missing := m.catalog.Resolve(deck); len(missing) > 0 {
			m.logger.Warn("deck references unknown cards",
				zap.String("deck", deck.ID),
				zap.Strings("card_ids", missing),
			)
		}
	}

	state := game.InitGame(m.catalog, playerDeck, opponentDeck, rng)
	match := newMatch(uuid.New().String(), state, playerDeck, opponentDeck, seed, m.policy, m.logger)
	match.Subscribe(func(evt rules.Event) {
		m.emitNotifications(notificationFor(match.ID, evt))
	})
	match.SubscribeTyped(rules.EventGameOver, func(evt rules.Event) {
		m.recordResult(match.PlayerDeck.ID, evt.PlayerID == game.SeatPlayer.String())
	})

	m.mu.Lock()
	m.matches[match.ID] = match
	m.mu.Unlock()

	m.logger.Info("match created",
		zap.String("match_id", match.ID),
		zap.String("player_deck", playerDeck.ID),
		zap.String("opponent_deck", opponentDeck.ID),
		zap.Int64("seed", seed),
	)
	m.emitNotifications(Notification{
		Type:      NotificationMatchStarted,
		MatchID:   match.ID,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"player_deck":   playerDeck.ID,
			"opponent_deck": opponentDeck.ID,
		},
	})
	return match, nil
}

// GetMatch retrieves a match by id.
func (m *Manager) GetMatch(matchID string) (*Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	match, ok := m.matches[matchID]
	if !ok {
		return nil, fmt.Errorf("match %s: %w", matchID, ErrMatchNotFound)
	}
	return match, nil
}

// RemoveMatch forgets a match.
func (m *Manager) RemoveMatch(matchID string) error {
	m.mu.Lock()
	_, ok := m.matches[matchID]
	delete(m.matches, matchID)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("match %s: %w", matchID, ErrMatchNotFound)
	}
	m.logger.Info("match removed", zap.String("match_id", matchID))
	m.emitNotifications(Notification{Type: NotificationMatchRemoved, MatchID: matchID, Timestamp: time.Now()})
	return nil
}

// GetAllMatches returns all matches, oldest first.
func (m *Manager) GetAllMatches() []*Match {
	m.mu.RLock()
	matches := make([]*Match, 0, len(m.matches))
	for _, match := range m.matches {
		matches = append(matches, match)
	}
	m.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.Before(matches[j].CreatedAt)
	})
	return matches
}

// GetActiveMatchCount returns the number of matches without a winner.
func (m *Manager) GetActiveMatchCount() int {
	count := 0
	for _, match := range m.GetAllMatches() {
		if !match.GameOver() {
			count++
		}
	}
	return count
}

// notificationFor turns a rules event into a client notification.
func notificationFor(matchID string, evt rules.Event) Notification {
	data := map[string]interface{}{}
	if evt.TargetID != "" {
		data["target_id"] = evt.TargetID
	}
	if evt.SourceID != "" {
		data["source_id"] = evt.SourceID
	}
	if evt.Amount != 0 || evt.Type == rules.EventHeartsChanged {
		data["amount"] = evt.Amount
	}
	if evt.Data != "" {
		data["data"] = evt.Data
	}
	if evt.Description != "" {
		data["description"] = evt.Description
	}
	return Notification{
		Type:      string(evt.Type),
		MatchID:   matchID,
		Seat:      evt.PlayerID,
		Timestamp: evt.Timestamp,
		Data:      data,
	}
}

func randomSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, err
	}
	seed := int64(binary.LittleEndian.Uint64(b[:]) >> 1)
	if seed == 0 {
		seed = 1
	}
	return seed, nil
}
