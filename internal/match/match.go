package match

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/JRackFatWalrus/clashlings/internal/catalog"
	"github.com/JRackFatWalrus/clashlings/internal/game"
	"github.com/JRackFatWalrus/clashlings/internal/game/opponent"
	"github.com/JRackFatWalrus/clashlings/internal/game/rules"
	"go.uber.org/zap"
)

var (
	// ErrUnknownAction is returned for an action type the match does not know.
	ErrUnknownAction = errors.New("unknown action")
	// ErrNotYourTurn is returned when the human acts while the computer
	// player is expected to.
	ErrNotYourTurn = errors.New("not your turn")
	// ErrGameOver is returned for actions on a finished match.
	ErrGameOver = errors.New("game is over")
)

// ActionType names a human action.
type ActionType string

const (
	ActionDraw           ActionType = "draw"
	ActionPlayShape      ActionType = "play_shape"
	ActionPlayCreature   ActionType = "play_creature"
	ActionPlayItem       ActionType = "play_item"
	ActionAdvance        ActionType = "advance"
	ActionToggleAttacker ActionType = "toggle_attacker"
	ActionEndTurn        ActionType = "end_turn"
	ActionSelectBlocker  ActionType = "select_blocker"
	ActionAssignBlock    ActionType = "assign_block"
	ActionRemoveBlock    ActionType = "remove_block"
	ActionConfirmBlocks  ActionType = "confirm_blocks"
)

// Action is one request from the human player. CardID and TargetID are card
// instance ids.
type Action struct {
	Type     ActionType `json:"type"`
	CardID   string     `json:"card_id,omitempty"`
	TargetID string     `json:"target_id,omitempty"`
}

// Match is one game between the human and the computer player. It owns the
// only mutable reference to the game state and serializes every change.
type Match struct {
	ID           string
	PlayerDeck   catalog.DeckDefinition
	OpponentDeck catalog.DeckDefinition
	Seed         int64
	CreatedAt    time.Time

	mu         sync.Mutex
	state      game.GameState
	finishedAt *time.Time
	policy     opponent.Policy
	bus        *rules.EventBus
	watchers   *rules.WatcherRegistry
	stats      [2]*statsWatcher
	logger     *zap.Logger
}

func newMatch(id string, state game.GameState, playerDeck, opponentDeck catalog.DeckDefinition, seed int64, policy opponent.Policy, logger *zap.Logger) *Match {
	m := &Match{
		ID:           id,
		PlayerDeck:   playerDeck,
		OpponentDeck: opponentDeck,
		Seed:         seed,
		CreatedAt:    time.Now(),
		state:        state,
		policy:       policy,
		bus:          rules.NewEventBus(),
		watchers:     rules.NewWatcherRegistry(),
		logger:       logger.With(zap.String("match_id", id)),
	}
	for _, seat := range []game.Seat{game.SeatPlayer, game.SeatAI} {
		m.stats[seat] = newStatsWatcher(seat)
		m.watchers.AddWatcher(m.stats[seat])
	}
	m.bus.Subscribe(m.watchers.NotifyWatchers)
	return m
}

// State returns a copy of the current game state.
func (m *Match) State() game.GameState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

// View returns the current state as seat sees it.
func (m *Match) View(seat game.Seat) game.GameView {
	m.mu.Lock()
	defer m.mu.Unlock()
	return game.ViewFor(m.state, seat)
}

// GameOver reports whether the match has a winner.
func (m *Match) GameOver() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.GameOver
}

// OpponentPending reports whether the computer player should take its turn
// now.
func (m *Match) OpponentPending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opponentPending()
}

func (m *Match) opponentPending() bool {
	return !m.state.GameOver && m.state.Turn == game.SeatAI && m.state.Phase == rules.PhaseDraw
}

// Subscribe registers a listener for the match's events. Listeners run
// while the match is locked and must not call back into it.
func (m *Match) Subscribe(listener rules.Listener) int {
	return m.bus.Subscribe(listener)
}

// SubscribeTyped registers a listener for one event type.
func (m *Match) SubscribeTyped(eventType rules.EventType, callback func(rules.Event)) int {
	return m.bus.SubscribeTyped(eventType, callback)
}

// Unsubscribe removes a listener.
func (m *Match) Unsubscribe(handle int) {
	m.bus.Unsubscribe(handle)
}

// Apply performs a human action. Actions the rules do not allow in the
// current state leave it unchanged without an error; the state's message
// explains why when there is something to explain.
func (m *Match) Apply(action Action) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.GameOver {
		return ErrGameOver
	}
	if !game.CanAct(m.state, game.SeatPlayer) {
		return ErrNotYourTurn
	}

	s := m.state
	switch action.Type {
	case ActionDraw:
		s = game.Draw(s)
	case ActionPlayShape:
		s = game.PlayShape(s, action.CardID)
	case ActionPlayCreature:
		s = game.PlayCreature(s, action.CardID)
	case ActionPlayItem:
		s = game.PlayItem(s, action.CardID, action.TargetID)
	case ActionAdvance:
		s = game.Advance(s)
	case ActionToggleAttacker:
		s = game.ToggleAttacker(s, action.CardID)
	case ActionEndTurn:
		s = m.endTurn(s)
	case ActionSelectBlocker:
		s = game.SelectBlocker(s, action.CardID)
	case ActionAssignBlock:
		s = game.AssignBlock(s, action.CardID)
	case ActionRemoveBlock:
		s = game.RemoveBlock(s, action.CardID)
	case ActionConfirmBlocks:
		s = game.ConfirmBlocks(s)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action.Type)
	}

	m.logger.Debug("action applied",
		zap.String("action", string(action.Type)),
		zap.String("card_id", action.CardID),
		zap.Stringer("phase", s.Phase),
		zap.Int("turn", s.TurnNumber),
	)
	m.commit(s)
	return nil
}

// endTurn moves the human to battle if needed and resolves the selected
// attackers against the computer player's blocks.
func (m *Match) endTurn(s game.GameState) game.GameState {
	for s.Phase == rules.PhaseShape || s.Phase == rules.PhasePlay {
		s = game.Advance(s)
	}
	if s.Phase != rules.PhaseBattle {
		return s
	}
	blocks := m.policy.ChooseBlocks(s, s.Turn, s.SelectedAttackers)
	return game.ResolveBattle(s, blocks)
}

// RunOpponentTurn plays the computer player's turn. If it attacks, the match
// stops in the blocking phase for the human to answer; otherwise the turn
// passes straight back.
func (m *Match) RunOpponentTurn() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.GameOver {
		return ErrGameOver
	}
	if !m.opponentPending() {
		return fmt.Errorf("opponent cannot act in %s of %s's turn", m.state.Phase, m.state.Turn)
	}

	s := m.policy.PlanTurn(m.state)
	if !s.GameOver {
		if len(s.SelectedAttackers) > 0 {
			s = game.DeclareAttackers(s)
		} else {
			s = game.ResolveBattle(s, nil)
		}
	}

	m.logger.Debug("opponent turn played",
		zap.Int("attackers", len(s.PendingAttackers)),
		zap.Stringer("phase", s.Phase),
		zap.Int("turn", s.TurnNumber),
	)
	m.commit(s)
	return nil
}

// commit installs next and publishes what changed. Callers hold m.mu.
func (m *Match) commit(next game.GameState) {
	prev := m.state
	m.state = next
	m.bus.PublishBatch(game.Events(prev, next))

	if next.GameOver && !prev.GameOver {
		now := time.Now()
		m.finishedAt = &now
		m.logger.Info("match finished",
			zap.Stringer("winner", next.Winner),
			zap.Int("turn", next.TurnNumber),
			zap.Int("player_hearts", next.Players[game.SeatPlayer].Hearts),
			zap.Int("opponent_hearts", next.Players[game.SeatAI].Hearts),
		)
	}
}

// Stats returns what each seat has done so far.
func (m *Match) Stats() map[game.Seat]PlayerStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return map[game.Seat]PlayerStats{
		game.SeatPlayer: m.stats[game.SeatPlayer].stats,
		game.SeatAI:     m.stats[game.SeatAI].stats,
	}
}

// Checksum digests the current state.
func (m *Match) Checksum() (*game.StateChecksum, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return game.ComputeChecksum(m.state)
}

// Snapshot captures a consistent summary of the match.
type Snapshot struct {
	ID             string
	PlayerDeckID   string
	OpponentDeckID string
	Seed           int64
	Turn           game.Seat
	Phase          rules.Phase
	TurnNumber     int
	PlayerHearts   int
	OpponentHearts int
	GameOver       bool
	Winner         string
	CreatedAt      time.Time
	FinishedAt     *time.Time
}

// Snapshot returns a consistent copy of the match summary.
func (m *Match) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		ID:             m.ID,
		PlayerDeckID:   m.PlayerDeck.ID,
		OpponentDeckID: m.OpponentDeck.ID,
		Seed:           m.Seed,
		Turn:           m.state.Turn,
		Phase:          m.state.Phase,
		TurnNumber:     m.state.TurnNumber,
		PlayerHearts:   m.state.Players[game.SeatPlayer].Hearts,
		OpponentHearts: m.state.Players[game.SeatAI].Hearts,
		GameOver:       m.state.GameOver,
		CreatedAt:      m.CreatedAt,
		FinishedAt:     cloneTime(m.finishedAt),
	}
	if m.state.GameOver {
		snap.Winner = m.state.Winner.String()
	}
	return snap
}

func cloneTime(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	cp := *src
	return &cp
}
