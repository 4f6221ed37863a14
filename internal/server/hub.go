package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/JRackFatWalrus/clashlings/internal/game"
	"github.com/JRackFatWalrus/clashlings/internal/match"
	"go.uber.org/zap"
)

// Pacing delays the computer player's moves so the human can follow them.
type Pacing struct {
	// ThinkDelay runs before the computer player takes its turn.
	ThinkDelay time.Duration
	// BlockDelay runs before confirmed blocks are resolved.
	BlockDelay time.Duration
}

// Hub routes client messages to matches and match notifications back to
// the clients playing them.
type Hub struct {
	manager      *match.Manager
	defaults     match.Options
	pacing       Pacing
	pingInterval time.Duration
	logger       *zap.Logger

	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	notify     chan match.Notification
	done       chan struct{}
}

// NewHub creates a hub serving matches from manager and registers itself as
// the manager's notification handler.
func NewHub(manager *match.Manager, defaults match.Options, pacing Pacing, logger *zap.Logger) *Hub {
	h := &Hub{
		manager:    manager,
		defaults:   defaults,
		pacing:     pacing,
		logger:     logger,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		notify:     make(chan match.Notification, sendBuffer),
		done:       make(chan struct{}),
	}
	manager.SetNotificationHandler(h.forward)
	return h
}

// Run serves registrations and notifications until ctx is cancelled, then
// closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				client.close()
				delete(h.clients, client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			h.logger.Debug("client registered", zap.Int("clients", len(h.clients)))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.close()
				h.logger.Debug("client unregistered",
					zap.String("match_id", client.MatchID()),
					zap.Int("clients", len(h.clients)),
				)
			}

		case n := <-h.notify:
			for client := range h.clients {
				if client.MatchID() == n.MatchID {
					client.sendJSON(outbound{Type: MsgNotification, MatchID: n.MatchID, Data: n})
				}
			}
		}
	}
}

func (h *Hub) registerClient(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
		c.close()
	}
}

// forward is the manager's notification handler.
func (h *Hub) forward(n match.Notification) {
	select {
	case h.notify <- n:
	case <-h.done:
	}
}

func (h *Hub) stopped() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

func (h *Hub) handleMessage(c *Client, msg WSMessage) {
	h.logger.Debug("message received", zap.String("type", msg.Type), zap.String("match_id", msg.MatchID))

	switch msg.Type {
	case MsgNewGame:
		var req NewGameRequest
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &req); err != nil {
				c.sendError("", fmt.Errorf("invalid new_game payload: %w", err))
				return
			}
		}
		h.startMatch(c, req)

	case MsgGetState:
		matchID := msg.MatchID
		if matchID == "" {
			matchID = c.MatchID()
		}
		m, err := h.manager.GetMatch(matchID)
		if err != nil {
			c.sendError(matchID, err)
			return
		}
		c.setMatchID(m.ID)
		h.sendState(c, m)
		h.scheduleOpponent(c, m)

	case MsgAction:
		var action match.Action
		if err := json.Unmarshal(msg.Data, &action); err != nil {
			c.sendError(c.MatchID(), fmt.Errorf("invalid action payload: %w", err))
			return
		}
		m, err := h.manager.GetMatch(c.MatchID())
		if err != nil {
			c.sendError(c.MatchID(), err)
			return
		}
		if action.Type == match.ActionConfirmBlocks && h.pacing.BlockDelay > 0 {
			h.after(h.pacing.BlockDelay, func() { h.applyAction(c, m, action) })
			return
		}
		h.applyAction(c, m, action)

	case MsgScoreboard:
		c.sendJSON(outbound{Type: MsgScoreboard, Data: h.manager.Scoreboard()})

	default:
		c.sendError(c.MatchID(), fmt.Errorf("unknown message type %q", msg.Type))
	}
}

// startMatch deals a new match for c. The client's previous match is
// dropped.
func (h *Hub) startMatch(c *Client, req NewGameRequest) {
	m, err := h.manager.CreateMatch(req.options(h.defaults))
	if err != nil {
		c.sendError("", err)
		return
	}
	if previous := c.setMatchID(m.ID); previous != "" {
		if err := h.manager.RemoveMatch(previous); err != nil && !errors.Is(err, match.ErrMatchNotFound) {
			h.logger.Warn("failed to remove previous match", zap.String("match_id", previous), zap.Error(err))
		}
	}
	h.sendState(c, m)
}

func (h *Hub) applyAction(c *Client, m *match.Match, action match.Action) {
	if err := m.Apply(action); err != nil {
		c.sendError(m.ID, err)
		return
	}
	h.sendState(c, m)
	h.scheduleOpponent(c, m)
}

// scheduleOpponent lets the computer player move after the think delay if
// it is its turn.
func (h *Hub) scheduleOpponent(c *Client, m *match.Match) {
	if !m.OpponentPending() {
		return
	}
	h.after(h.pacing.ThinkDelay, func() {
		if err := m.RunOpponentTurn(); err != nil {
			// Another timer got there first.
			h.logger.Debug("opponent turn skipped", zap.String("match_id", m.ID), zap.Error(err))
			return
		}
		h.sendState(c, m)
	})
}

func (h *Hub) after(delay time.Duration, fn func()) {
	time.AfterFunc(delay, func() {
		if h.stopped() {
			return
		}
		fn()
	})
}

func (h *Hub) sendState(c *Client, m *match.Match) {
	c.sendJSON(outbound{Type: MsgGameState, MatchID: m.ID, Data: m.View(game.SeatPlayer)})
}

func (c *Client) sendError(matchID string, err error) {
	c.sendJSON(outbound{Type: MsgError, MatchID: matchID, Data: ErrorPayload{Message: err.Error()}})
}
