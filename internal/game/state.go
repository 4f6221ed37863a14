package game

import (
	"fmt"

	"github.com/JRackFatWalrus/clashlings/internal/catalog"
	"github.com/JRackFatWalrus/clashlings/internal/game/rules"
	"github.com/JRackFatWalrus/clashlings/internal/game/shapes"
)

// MaxHearts is both the starting and the maximum heart count.
const MaxHearts = 10

// StartingHandSize is the number of cards dealt to each player.
const StartingHandSize = 5

// Seat identifies one side of the table.
type Seat int

const (
	SeatPlayer Seat = iota
	SeatAI
)

var seatNames = map[Seat]string{
	SeatPlayer: "player",
	SeatAI:     "ai",
}

func (s Seat) String() string {
	if name, ok := seatNames[s]; ok {
		return name
	}
	return fmt.Sprintf("seat_%d", int(s))
}

// MarshalText encodes the seat by name.
func (s Seat) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a seat name.
func (s *Seat) UnmarshalText(text []byte) error {
	for seat, name := range seatNames {
		if name == string(text) {
			*s = seat
			return nil
		}
	}
	return fmt.Errorf("unknown seat %q", text)
}

// Opponent returns the other seat.
func (s Seat) Opponent() Seat {
	if s == SeatPlayer {
		return SeatAI
	}
	return SeatPlayer
}

// CardInstance is a card in play. It lives in exactly one zone of one
// player.
type CardInstance struct {
	UID           string
	Card          catalog.Card
	Tapped        bool
	CanAttack     bool
	StrengthBoost int
}

// Creature returns the creature card behind the instance, if any.
func (ci CardInstance) Creature() (*catalog.Creature, bool) {
	return catalog.AsCreature(ci.Card)
}

// Has reports whether the instance is a creature with the given ability.
func (ci CardInstance) Has(a catalog.Ability) bool {
	c, ok := ci.Creature()
	return ok && c.Has(a)
}

// EffectiveStrength is base strength plus the active boost. Non-creatures
// have no strength.
func (ci CardInstance) EffectiveStrength() int {
	c, ok := ci.Creature()
	if !ok {
		return 0
	}
	return c.Strength + ci.StrengthBoost
}

// Name is the display name of the underlying card.
func (ci CardInstance) Name() string {
	if ci.Card == nil {
		return ""
	}
	return ci.Card.CardName()
}

// PlayerState is one side of the table.
type PlayerState struct {
	Hearts      int
	Hand        []CardInstance
	Battlefield []CardInstance
	ShapeZone   []CardInstance
	UsedShapes  shapes.Counts
	Deck        []CardInstance
	Discard     []CardInstance
	Shielded    bool
}

// OwnedShapes counts the shapes in the shape zone by kind.
func (p PlayerState) OwnedShapes() shapes.Counts {
	return ownedShapes(p.ShapeZone)
}

func ownedShapes(zone []CardInstance) shapes.Counts {
	kinds := make([]catalog.ShapeKind, 0, len(zone))
	for _, inst := range zone {
		if s, ok := catalog.AsShape(inst.Card); ok {
			kinds = append(kinds, s.Shape)
		}
	}
	return shapes.Tally(kinds)
}

func (p PlayerState) clone() PlayerState {
	p.Hand = cloneZone(p.Hand)
	p.Battlefield = cloneZone(p.Battlefield)
	p.ShapeZone = cloneZone(p.ShapeZone)
	p.Deck = cloneZone(p.Deck)
	p.Discard = cloneZone(p.Discard)
	p.UsedShapes = p.UsedShapes.Copy()
	return p
}

func cloneZone(zone []CardInstance) []CardInstance {
	if zone == nil {
		return nil
	}
	out := make([]CardInstance, len(zone))
	copy(out, zone)
	return out
}

// indexOf returns the position of uid in zone or -1.
func indexOf(zone []CardInstance, uid string) int {
	for i := range zone {
		if zone[i].UID == uid {
			return i
		}
	}
	return -1
}

// take removes the instance at i and returns it with the shortened zone.
func take(zone []CardInstance, i int) (CardInstance, []CardInstance) {
	inst := zone[i]
	out := make([]CardInstance, 0, len(zone)-1)
	out = append(out, zone[:i]...)
	out = append(out, zone[i+1:]...)
	return inst, out
}

// Blocks maps an attacker uid to the uid of the creature blocking it.
type Blocks map[string]string

// Copy returns an independent copy of b.
func (b Blocks) Copy() Blocks {
	out := make(Blocks, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// BlockerOf returns the attacker a blocker is assigned to.
func (b Blocks) BlockerOf(blockerUID string) (attackerUID string, ok bool) {
	for a, bl := range b {
		if bl == blockerUID {
			return a, true
		}
	}
	return "", false
}

// CombatResult is the outcome of one fight or hit.
type CombatResult string

const (
	ResultAttackerWins CombatResult = "attacker_wins"
	ResultBlockerWins  CombatResult = "blocker_wins"
	ResultTie          CombatResult = "tie"
	ResultUnblocked    CombatResult = "unblocked"
)

// ShieldName is the blocker name recorded when a shield absorbs a hit.
const ShieldName = "Shield"

// CombatEvent records one fight or hit. BlockerID is empty for unblocked
// and shielded hits; BlockerName is empty for unblocked hits.
type CombatEvent struct {
	AttackerID   string       `json:"attacker_id"`
	BlockerID    string       `json:"blocker_id,omitempty"`
	AttackerName string       `json:"attacker_name"`
	BlockerName  string       `json:"blocker_name,omitempty"`
	Result       CombatResult `json:"result"`
	HeartDamage  int          `json:"heart_damage"`
}

// GameState is the full state of one game. Engine operations take a
// GameState and return a new one; they never modify their input.
type GameState struct {
	Players    [2]PlayerState
	Turn       Seat
	Phase      rules.Phase
	TurnNumber int

	// SelectedAttackers is the active player's attacker selection during
	// battle.
	SelectedAttackers []string
	// PendingAttackers are the announced attackers the defender blocks
	// against during blocking.
	PendingAttackers []string
	BlockAssignments Blocks
	SelectedBlocker  string

	// CombatLog holds the events of the most recent combat.
	CombatLog []CombatEvent
	Message   string
	GameOver  bool
	Winner    Seat
}

// Player returns the state of the given seat.
func (s GameState) Player(seat Seat) PlayerState {
	return s.Players[seat]
}

// Active returns the state of the player whose turn it is.
func (s GameState) Active() PlayerState {
	return s.Players[s.Turn]
}

// Defender returns the seat that is not taking the turn.
func (s GameState) Defender() Seat {
	return s.Turn.Opponent()
}

// Clone returns a deep copy of s. Card pointers are shared since cards are
// immutable.
func (s GameState) Clone() GameState {
	for i := range s.Players {
		s.Players[i] = s.Players[i].clone()
	}
	s.SelectedAttackers = cloneIDs(s.SelectedAttackers)
	s.PendingAttackers = cloneIDs(s.PendingAttackers)
	if s.BlockAssignments != nil {
		s.BlockAssignments = s.BlockAssignments.Copy()
	}
	if s.CombatLog != nil {
		log := make([]CombatEvent, len(s.CombatLog))
		copy(log, s.CombatLog)
		s.CombatLog = log
	}
	return s
}

func cloneIDs(ids []string) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func withoutID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// FindCard locates an instance in any zone of either player.
func (s GameState) FindCard(uid string) (inst CardInstance, seat Seat, zone Zone, ok bool) {
	for _, st := range []Seat{SeatPlayer, SeatAI} {
		p := s.Players[st]
		for _, z := range Zones {
			cards := p.zone(z)
			if i := indexOf(cards, uid); i >= 0 {
				return cards[i], st, z, true
			}
		}
	}
	return CardInstance{}, 0, 0, false
}

// Zone names where an instance can be.
type Zone int

const (
	ZoneDeck Zone = iota
	ZoneHand
	ZoneShapes
	ZoneBattlefield
	ZoneDiscard
)

// Zones lists every zone.
var Zones = []Zone{ZoneDeck, ZoneHand, ZoneShapes, ZoneBattlefield, ZoneDiscard}

var zoneNames = map[Zone]string{
	ZoneDeck:        "deck",
	ZoneHand:        "hand",
	ZoneShapes:      "shape_zone",
	ZoneBattlefield: "battlefield",
	ZoneDiscard:     "discard",
}

func (z Zone) String() string {
	if name, ok := zoneNames[z]; ok {
		return name
	}
	return fmt.Sprintf("zone_%d", int(z))
}

func (p PlayerState) zone(z Zone) []CardInstance {
	switch z {
	case ZoneDeck:
		return p.Deck
	case ZoneHand:
		return p.Hand
	case ZoneShapes:
		return p.ShapeZone
	case ZoneBattlefield:
		return p.Battlefield
	case ZoneDiscard:
		return p.Discard
	}
	return nil
}
