package game

import (
	"github.com/JRackFatWalrus/clashlings/internal/catalog"
	"github.com/JRackFatWalrus/clashlings/internal/game/rules"
	"github.com/JRackFatWalrus/clashlings/internal/game/shapes"
)

// GameView is the state as one seat is allowed to see it. The opponent's
// hand and both decks are reduced to counts.
type GameView struct {
	Seat              Seat          `json:"seat"`
	Turn              Seat          `json:"turn"`
	Phase             rules.Phase   `json:"phase"`
	TurnNumber        int           `json:"turn_number"`
	CanAct            bool          `json:"can_act"`
	Message           string        `json:"message"`
	GameOver          bool          `json:"game_over"`
	Winner            string        `json:"winner,omitempty"`
	You               PlayerView    `json:"you"`
	Opponent          PlayerView    `json:"opponent"`
	SelectedAttackers []string      `json:"selected_attackers"`
	PendingAttackers  []string      `json:"pending_attackers"`
	BlockAssignments  Blocks        `json:"block_assignments"`
	SelectedBlocker   string        `json:"selected_blocker,omitempty"`
	CombatLog         []CombatEvent `json:"combat_log"`
}

// PlayerView is one side of the table. Hand is nil for the opponent.
type PlayerView struct {
	Hearts          int           `json:"hearts"`
	Shielded        bool          `json:"shielded"`
	HandCount       int           `json:"hand_count"`
	Hand            []CardView    `json:"hand,omitempty"`
	Battlefield     []CardView    `json:"battlefield"`
	ShapeZone       []CardView    `json:"shape_zone"`
	AvailableShapes shapes.Counts `json:"available_shapes"`
	DeckCount       int           `json:"deck_count"`
	Discard         []CardView    `json:"discard"`
}

// CardView is a card instance with its catalog fields flattened.
type CardView struct {
	UID       string             `json:"uid"`
	CardID    string             `json:"card_id"`
	Kind      catalog.Kind       `json:"kind"`
	Name      string             `json:"name"`
	Rarity    catalog.Rarity     `json:"rarity"`
	Strength  int                `json:"strength,omitempty"`
	Boost     int                `json:"boost,omitempty"`
	Cost      int                `json:"cost,omitempty"`
	Shape     catalog.ShapeKind  `json:"shape,omitempty"`
	Ability   catalog.Ability    `json:"ability,omitempty"`
	Effect    catalog.ItemEffect `json:"effect,omitempty"`
	Tapped    bool               `json:"tapped"`
	CanAttack bool               `json:"can_attack"`
	Playable  bool               `json:"playable,omitempty"`
}

// ViewFor builds the view of s for seat.
func ViewFor(s GameState, seat Seat) GameView {
	v := GameView{
		Seat:              seat,
		Turn:              s.Turn,
		Phase:             s.Phase,
		TurnNumber:        s.TurnNumber,
		CanAct:            CanAct(s, seat),
		Message:           s.Message,
		GameOver:          s.GameOver,
		Winner:            winnerName(s),
		You:               buildPlayerView(s, seat, true),
		Opponent:          buildPlayerView(s, seat.Opponent(), false),
		SelectedAttackers: cloneIDs(s.SelectedAttackers),
		PendingAttackers:  cloneIDs(s.PendingAttackers),
		BlockAssignments:  s.BlockAssignments.Copy(),
		SelectedBlocker:   s.SelectedBlocker,
		CombatLog:         append([]CombatEvent(nil), s.CombatLog...),
	}
	return v
}

func buildPlayerView(s GameState, seat Seat, own bool) PlayerView {
	p := s.Players[seat]
	owned := p.OwnedShapes()
	available := make(shapes.Counts, len(catalog.ShapeKinds))
	for _, kind := range catalog.ShapeKinds {
		available[kind] = shapes.AvailableCount(owned, kind, p.UsedShapes)
	}

	pv := PlayerView{
		Hearts:          p.Hearts,
		Shielded:        p.Shielded,
		HandCount:       len(p.Hand),
		Battlefield:     buildCardViews(p.Battlefield),
		ShapeZone:       buildCardViews(p.ShapeZone),
		AvailableShapes: available,
		DeckCount:       len(p.Deck),
		Discard:         buildCardViews(p.Discard),
	}
	if own {
		pv.Hand = buildCardViews(p.Hand)
		if CanAct(s, seat) {
			for i, inst := range p.Hand {
				pv.Hand[i].Playable = playable(s, p, inst)
			}
		}
	}
	return pv
}

// playable reports whether a hand card can be played right now.
func playable(s GameState, p PlayerState, inst CardInstance) bool {
	switch card := inst.Card.(type) {
	case *catalog.Shape:
		return s.Phase == rules.PhaseShape
	case *catalog.Creature:
		return s.Phase == rules.PhasePlay && CanPlayCreature(card, p.ShapeZone, p.UsedShapes)
	case *catalog.Item:
		if s.Phase != rules.PhasePlay {
			return false
		}
		return !card.Effect.NeedsTarget() || len(p.Battlefield) > 0
	}
	return false
}

func buildCardViews(cards []CardInstance) []CardView {
	views := make([]CardView, 0, len(cards))
	for _, inst := range cards {
		views = append(views, buildCardView(inst))
	}
	return views
}

func buildCardView(inst CardInstance) CardView {
	v := CardView{
		UID:       inst.UID,
		Tapped:    inst.Tapped,
		CanAttack: inst.CanAttack,
		Boost:     inst.StrengthBoost,
	}
	if inst.Card == nil {
		return v
	}
	v.CardID = inst.Card.CardID()
	v.Kind = inst.Card.Kind()
	v.Name = inst.Card.CardName()
	v.Rarity = inst.Card.CardRarity()
	switch card := inst.Card.(type) {
	case *catalog.Creature:
		v.Strength = card.Strength
		v.Cost = card.Cost
		v.Shape = card.Shape
		v.Ability = card.Ability
	case *catalog.Shape:
		v.Shape = card.Shape
	case *catalog.Item:
		v.Effect = card.Effect
	}
	return v
}
