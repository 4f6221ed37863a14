package game

import (
	"encoding/json"
	"testing"

	"github.com/JRackFatWalrus/clashlings/internal/catalog"
	"github.com/JRackFatWalrus/clashlings/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewForHidesOpponentHand(t *testing.T) {
	s := createTestState(3)

	v := ViewFor(s, SeatPlayer)

	assert.Equal(t, SeatPlayer, v.Seat)
	assert.True(t, v.CanAct)
	assert.Len(t, v.You.Hand, StartingHandSize)
	assert.Nil(t, v.Opponent.Hand)
	assert.Equal(t, StartingHandSize, v.Opponent.HandCount)
	assert.Equal(t, len(s.Players[SeatAI].Deck), v.Opponent.DeckCount)

	raw, err := json.Marshal(v)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	opponent := decoded["opponent"].(map[string]any)
	assert.NotContains(t, opponent, "hand")
	assert.Equal(t, "player", decoded["turn"])
	assert.Equal(t, "draw", decoded["phase"])

	aiView := ViewFor(s, SeatAI)
	assert.False(t, aiView.CanAct)
	assert.Len(t, aiView.You.Hand, StartingHandSize)
}

func TestViewForMarksPlayableCards(t *testing.T) {
	h := NewCombatTestHarness(t, rules.PhasePlay)
	h.AddShapes(SeatPlayer, catalog.Star)
	cheap := h.AddCreatureToHand(SeatPlayer, CreatureSpec{Name: "Cheap", Strength: 1, Cost: 1, Shape: catalog.Star})
	dear := h.AddCreatureToHand(SeatPlayer, CreatureSpec{Name: "Dear", Strength: 9, Cost: 3, Shape: catalog.Star})
	boost := h.AddCard(SeatPlayer, ZoneHand, builtinCard(t, "item-boost"))
	heal := h.AddCard(SeatPlayer, ZoneHand, builtinCard(t, "item-heal"))
	star := h.AddCard(SeatPlayer, ZoneHand, builtinCard(t, "shape-star"))

	v := ViewFor(h.State(), SeatPlayer)

	playable := make(map[string]bool)
	for _, c := range v.You.Hand {
		playable[c.UID] = c.Playable
	}
	assert.True(t, playable[cheap])
	assert.False(t, playable[dear])
	assert.False(t, playable[boost], "boost needs a creature on the field")
	assert.True(t, playable[heal])
	assert.False(t, playable[star], "shapes are played in the shape phase")
	assert.Equal(t, 1, v.You.AvailableShapes[catalog.Star])
	assert.Zero(t, v.You.AvailableShapes[catalog.Circle])
}

func TestViewForCardFields(t *testing.T) {
	h := NewCombatTestHarness(t, rules.PhaseBattle)
	uid := h.CreateCreature(SeatAI, CreatureSpec{Name: "Blue Owl", Strength: 4, Cost: 2, Shape: catalog.Star, Ability: catalog.AbilityFly, Boost: 2, Tapped: true})

	v := ViewFor(h.State(), SeatPlayer)

	require.Len(t, v.Opponent.Battlefield, 1)
	card := v.Opponent.Battlefield[0]
	assert.Equal(t, uid, card.UID)
	assert.Equal(t, catalog.KindCreature, card.Kind)
	assert.Equal(t, "Blue Owl", card.Name)
	assert.Equal(t, 4, card.Strength)
	assert.Equal(t, 2, card.Boost)
	assert.Equal(t, catalog.AbilityFly, card.Ability)
	assert.True(t, card.Tapped)
}
