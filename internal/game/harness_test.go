package game

import (
	"fmt"
	"testing"

	"github.com/JRackFatWalrus/clashlings/internal/catalog"
	"github.com/JRackFatWalrus/clashlings/internal/game/rules"
	"github.com/JRackFatWalrus/clashlings/internal/game/shapes"
)

// CombatTestHarness builds game states card by card for rules tests.
type CombatTestHarness struct {
	t     *testing.T
	state GameState
	next  int
}

// NewCombatTestHarness starts from an empty table: both players at full
// hearts, the human to act in the given phase.
func NewCombatTestHarness(t *testing.T, phase rules.Phase) *CombatTestHarness {
	t.Helper()
	var s GameState
	for i := range s.Players {
		s.Players[i].Hearts = MaxHearts
		s.Players[i].UsedShapes = shapes.Counts{}
	}
	s.Turn = SeatPlayer
	s.Phase = phase
	s.TurnNumber = 1
	s.BlockAssignments = Blocks{}
	return &CombatTestHarness{t: t, state: s}
}

// CreatureSpec defines the properties of a test creature.
type CreatureSpec struct {
	Name      string
	Strength  int
	Cost      int
	Shape     catalog.ShapeKind
	Ability   catalog.Ability
	Tapped    bool
	CanAttack bool
	Boost     int
}

func (h *CombatTestHarness) uid(prefix string) string {
	h.next++
	return fmt.Sprintf("%s-%d", prefix, h.next)
}

func (h *CombatTestHarness) add(seat Seat, zone Zone, inst CardInstance) string {
	p := &h.state.Players[seat]
	switch zone {
	case ZoneDeck:
		p.Deck = append(p.Deck, inst)
	case ZoneHand:
		p.Hand = append(p.Hand, inst)
	case ZoneShapes:
		p.ShapeZone = append(p.ShapeZone, inst)
	case ZoneBattlefield:
		p.Battlefield = append(p.Battlefield, inst)
	case ZoneDiscard:
		p.Discard = append(p.Discard, inst)
	default:
		h.t.Fatalf("unknown zone %v", zone)
	}
	return inst.UID
}

func creatureCard(spec CreatureSpec) *catalog.Creature {
	ability := spec.Ability
	if ability == "" {
		ability = catalog.AbilityNone
	}
	shape := spec.Shape
	if shape == "" {
		shape = catalog.Circle
	}
	name := spec.Name
	if name == "" {
		name = fmt.Sprintf("Test %d", spec.Strength)
	}
	return &catalog.Creature{
		ID:       "test-" + name,
		Name:     name,
		Strength: spec.Strength,
		Cost:     spec.Cost,
		Shape:    shape,
		Ability:  ability,
		Rarity:   catalog.RarityForStrength(spec.Strength),
	}
}

// CreateCreature puts a creature onto seat's battlefield.
func (h *CombatTestHarness) CreateCreature(seat Seat, spec CreatureSpec) string {
	return h.add(seat, ZoneBattlefield, CardInstance{
		UID:           h.uid("creature"),
		Card:          creatureCard(spec),
		Tapped:        spec.Tapped,
		CanAttack:     spec.CanAttack,
		StrengthBoost: spec.Boost,
	})
}

// AddCreatureToHand puts a creature card into seat's hand.
func (h *CombatTestHarness) AddCreatureToHand(seat Seat, spec CreatureSpec) string {
	return h.add(seat, ZoneHand, CardInstance{UID: h.uid("hand"), Card: creatureCard(spec)})
}

// AddCard puts a catalog card into any zone.
func (h *CombatTestHarness) AddCard(seat Seat, zone Zone, card catalog.Card) string {
	return h.add(seat, zone, CardInstance{UID: h.uid(card.CardID()), Card: card})
}

// AddShapes puts shapes straight into seat's shape zone.
func (h *CombatTestHarness) AddShapes(seat Seat, kinds ...catalog.ShapeKind) {
	for _, k := range kinds {
		h.AddCard(seat, ZoneShapes, &catalog.Shape{ID: "shape-" + string(k), Name: string(k), Shape: k, Rarity: catalog.Common})
	}
}

// SetHearts overrides a player's hearts.
func (h *CombatTestHarness) SetHearts(seat Seat, hearts int) {
	h.state.Players[seat].Hearts = hearts
}

// SetShielded sets a player's shield flag.
func (h *CombatTestHarness) SetShielded(seat Seat, shielded bool) {
	h.state.Players[seat].Shielded = shielded
}

// SetTurn hands the turn to seat in the given phase.
func (h *CombatTestHarness) SetTurn(seat Seat, phase rules.Phase) {
	h.state.Turn = seat
	h.state.Phase = phase
}

// State returns the built state.
func (h *CombatTestHarness) State() GameState {
	return h.state
}

// Resolve runs ResolveCombat on the built state.
func (h *CombatTestHarness) Resolve(attackerSeat Seat, attackerIDs []string, blocks Blocks) GameState {
	return ResolveCombat(h.state, attackerSeat, attackerIDs, blocks)
}

func zoneIDs(zone []CardInstance) []string {
	ids := make([]string, 0, len(zone))
	for _, inst := range zone {
		ids = append(ids, inst.UID)
	}
	return ids
}

func findIn(t *testing.T, zone []CardInstance, uid string) CardInstance {
	t.Helper()
	i := indexOf(zone, uid)
	if i < 0 {
		t.Fatalf("card %s not in zone %v", uid, zoneIDs(zone))
	}
	return zone[i]
}
