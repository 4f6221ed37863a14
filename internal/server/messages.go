package server

import (
	"encoding/json"

	"github.com/JRackFatWalrus/clashlings/internal/match"
)

// Inbound message types.
const (
	MsgNewGame    = "new_game"
	MsgAction     = "action"
	MsgGetState   = "get_state"
	MsgScoreboard = "scoreboard"
)

// Outbound message types.
const (
	MsgGameState    = "game_state"
	MsgNotification = "notification"
	MsgError        = "error"
)

// WSMessage is the envelope of every frame in both directions.
type WSMessage struct {
	Type    string          `json:"type"`
	MatchID string          `json:"match_id,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// NewGameRequest is the payload of a new_game message. Empty fields fall
// back to the server's configured defaults.
type NewGameRequest struct {
	PlayerDeck   string `json:"player_deck,omitempty"`
	OpponentDeck string `json:"opponent_deck,omitempty"`
	Seed         int64  `json:"seed,omitempty"`
}

// ErrorPayload is the payload of an error message.
type ErrorPayload struct {
	Message string `json:"message"`
}

type outbound struct {
	Type    string      `json:"type"`
	MatchID string      `json:"match_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func (r NewGameRequest) options(defaults match.Options) match.Options {
	opts := defaults
	if r.PlayerDeck != "" {
		opts.PlayerDeck = r.PlayerDeck
	}
	if r.OpponentDeck != "" {
		opts.OpponentDeck = r.OpponentDeck
	}
	if r.Seed != 0 {
		opts.Seed = r.Seed
	}
	return opts
}
