// Package opponent implements the computer player. It only ever acts
// through the public operations of package game.
package opponent

import (
	"sort"

	"github.com/JRackFatWalrus/clashlings/internal/catalog"
	"github.com/JRackFatWalrus/clashlings/internal/game"
	"github.com/JRackFatWalrus/clashlings/internal/game/rules"
)

// Policy is the greedy strategy used by the computer player.
type Policy struct{}

// New returns the default policy.
func New() Policy {
	return Policy{}
}

// PlanTurn plays the active player's turn up to the point where attackers
// are chosen: draw, first shape in hand, creatures from the most to the
// least expensive, then every creature able to attack is selected. The
// returned state is left in the battle phase with SelectedAttackers set,
// unless the state was not at the start of a turn or the game ended.
func (Policy) PlanTurn(s game.GameState) game.GameState {
	if s.GameOver || s.Phase != rules.PhaseDraw {
		return s
	}
	s = game.Draw(s)
	if s.GameOver {
		return s
	}

	if uid, ok := firstShape(s.Active().Hand); ok {
		s = game.PlayShape(s, uid)
	}
	s = game.Advance(s)

	for _, uid := range creaturesByCost(s.Active().Hand) {
		p := s.Active()
		inst, ok := find(p.Hand, uid)
		if !ok {
			continue
		}
		c, _ := inst.Creature()
		if game.CanPlayCreature(c, p.ShapeZone, p.UsedShapes) {
			s = game.PlayCreature(s, uid)
		}
	}
	s = game.Advance(s)

	for _, inst := range s.Active().Battlefield {
		if game.CanAttack(inst) {
			s = game.ToggleAttacker(s, inst.UID)
		}
	}
	return s
}

// ChooseBlocks picks blocks for the seat defending against attackerIDs.
// Attackers are handled in order; each takes the first unused, untapped,
// legal blocker that would beat it outright, or tie it while being fast.
// Attackers nothing can beat stay unblocked.
func (Policy) ChooseBlocks(s game.GameState, attackerSeat game.Seat, attackerIDs []string) game.Blocks {
	blocks := game.Blocks{}
	defender := s.Players[attackerSeat.Opponent()]
	used := make(map[string]bool)

	for _, aUID := range attackerIDs {
		attacker, ok := find(s.Players[attackerSeat].Battlefield, aUID)
		if !ok {
			continue
		}
		aCard, ok := attacker.Creature()
		if !ok {
			continue
		}
		for _, blocker := range defender.Battlefield {
			if used[blocker.UID] || !game.CanBlockWith(blocker) {
				continue
			}
			bCard, _ := blocker.Creature()
			if !game.CanCreatureBlock(bCard, aCard) {
				continue
			}
			if beats(blocker, attacker) {
				blocks[aUID] = blocker.UID
				used[blocker.UID] = true
				break
			}
		}
	}
	return blocks
}

// beats reports whether blocker wins the fight against attacker. Equal
// strength only counts when the blocker is fast and the attacker is not,
// since a fast attacker takes the tie.
func beats(blocker, attacker game.CardInstance) bool {
	bs, as := blocker.EffectiveStrength(), attacker.EffectiveStrength()
	if bs != as {
		return bs > as
	}
	return blocker.Has(catalog.AbilityFast) && !attacker.Has(catalog.AbilityFast)
}

func firstShape(hand []game.CardInstance) (string, bool) {
	for _, inst := range hand {
		if _, ok := catalog.AsShape(inst.Card); ok {
			return inst.UID, true
		}
	}
	return "", false
}

// creaturesByCost lists the creature uids in hand, most expensive first.
// Equal costs keep their hand order.
func creaturesByCost(hand []game.CardInstance) []string {
	type entry struct {
		uid  string
		cost int
	}
	var entries []entry
	for _, inst := range hand {
		if c, ok := inst.Creature(); ok {
			entries = append(entries, entry{uid: inst.UID, cost: c.Cost})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].cost > entries[j].cost
	})
	uids := make([]string, len(entries))
	for i, e := range entries {
		uids[i] = e.uid
	}
	return uids
}

func find(zone []game.CardInstance, uid string) (game.CardInstance, bool) {
	for _, inst := range zone {
		if inst.UID == uid {
			return inst, true
		}
	}
	return game.CardInstance{}, false
}
