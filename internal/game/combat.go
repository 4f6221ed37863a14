package game

import (
	"github.com/JRackFatWalrus/clashlings/internal/catalog"
)

// combatState tracks one resolution pass. Guards and blockers are tracked
// by instance id so interception order never depends on positions.
type combatState struct {
	blockerFor  map[string]string // attacker uid -> legal blocker uid
	assigned    map[string]bool   // blockers with an explicit assignment
	intercepted map[string]bool   // guards that already absorbed an attacker
	dead        map[string]bool   // creatures destroyed this pass, either side
	resolved    map[string]bool   // attackers that fought or hit
	events      []CombatEvent
	damage      int
}

func newCombatState() *combatState {
	return &combatState{
		blockerFor:  make(map[string]string),
		assigned:    make(map[string]bool),
		intercepted: make(map[string]bool),
		dead:        make(map[string]bool),
		resolved:    make(map[string]bool),
	}
}

// ResolveCombat fights attackerIDs, in order, from attackerSeat's
// battlefield against the other seat using blocks. Unblocked non-fly
// attackers are intercepted by the defender's available guards, then
// absorbed by a shield, then hit for one heart. Afterwards dead creatures
// go to their owner's discard, surviving attackers tap, heart damage is
// applied and the game ends if the defender has no hearts left.
//
// Attacker ids not on the attacker's battlefield are skipped. Blocks whose
// blocker is missing, tapped, already used or illegal under the fly rule
// are ignored, leaving that attacker unblocked.
func ResolveCombat(s GameState, attackerSeat Seat, attackerIDs []string, blocks Blocks) GameState {
	if s.GameOver {
		return s
	}
	s = s.Clone()
	att := &s.Players[attackerSeat]
	def := &s.Players[attackerSeat.Opponent()]

	cs := newCombatState()
	cs.validateBlocks(att.Battlefield, def.Battlefield, attackerIDs, blocks)

	for _, aid := range attackerIDs {
		if cs.resolved[aid] {
			continue
		}
		ai := indexOf(att.Battlefield, aid)
		if ai < 0 {
			continue
		}
		attacker := att.Battlefield[ai]
		if _, ok := attacker.Creature(); !ok {
			continue
		}
		cs.resolved[aid] = true

		if bid, ok := cs.blockerFor[aid]; ok {
			cs.fight(attacker, def.Battlefield[indexOf(def.Battlefield, bid)])
			continue
		}
		if !attacker.Has(catalog.AbilityFly) {
			if guard, ok := cs.availableGuard(def.Battlefield); ok {
				cs.intercepted[guard.UID] = true
				cs.fight(attacker, guard)
				continue
			}
		}
		if def.Shielded {
			def.Shielded = false
			cs.events = append(cs.events, CombatEvent{
				AttackerID:   aid,
				AttackerName: attacker.Name(),
				BlockerName:  ShieldName,
				Result:       ResultBlockerWins,
			})
			continue
		}
		cs.damage++
		cs.events = append(cs.events, CombatEvent{
			AttackerID:   aid,
			AttackerName: attacker.Name(),
			Result:       ResultUnblocked,
			HeartDamage:  1,
		})
	}

	att.Battlefield, att.Discard = cs.sweep(att.Battlefield, att.Discard)
	def.Battlefield, def.Discard = cs.sweep(def.Battlefield, def.Discard)
	for i := range att.Battlefield {
		if cs.resolved[att.Battlefield[i].UID] {
			att.Battlefield[i].Tapped = true
		}
	}

	def.Hearts = max(0, def.Hearts-cs.damage)
	s.CombatLog = cs.events

	if def.Hearts <= 0 {
		s.GameOver = true
		s.Winner = attackerSeat
		if attackerSeat == SeatPlayer {
			s.Message = MsgYouWin
		} else {
			s.Message = MsgYouLose
		}
	}
	return s
}

// validateBlocks keeps the assignments that can actually happen: the
// attacker is declared, the blocker is an untapped creature on the
// defending battlefield, the fly rule holds, and no blocker is used twice.
// Attackers are visited in declaration order so a blocker named twice
// stays with the first attacker.
func (cs *combatState) validateBlocks(attackers, defenders []CardInstance, attackerIDs []string, blocks Blocks) {
	for _, aid := range attackerIDs {
		bid, ok := blocks[aid]
		if !ok || cs.assigned[bid] {
			continue
		}
		if _, seen := cs.blockerFor[aid]; seen {
			continue
		}
		ai, bi := indexOf(attackers, aid), indexOf(defenders, bid)
		if ai < 0 || bi < 0 || !CanBlockWith(defenders[bi]) {
			continue
		}
		a, _ := attackers[ai].Creature()
		b, _ := defenders[bi].Creature()
		if a == nil || !CanCreatureBlock(b, a) {
			continue
		}
		cs.blockerFor[aid] = bid
		cs.assigned[bid] = true
	}
}

// availableGuard returns the first defending guard that is untapped, not
// assigned as a blocker, has not intercepted yet and is still alive.
func (cs *combatState) availableGuard(defenders []CardInstance) (CardInstance, bool) {
	for _, inst := range defenders {
		if !inst.Has(catalog.AbilityGuard) || inst.Tapped {
			continue
		}
		if cs.assigned[inst.UID] || cs.intercepted[inst.UID] || cs.dead[inst.UID] {
			continue
		}
		return inst, true
	}
	return CardInstance{}, false
}

// fight resolves one attacker against one blocker and records the result.
func (cs *combatState) fight(attacker, blocker CardInstance) {
	event := Fight(attacker, blocker)
	switch event.Result {
	case ResultAttackerWins:
		cs.dead[blocker.UID] = true
	case ResultBlockerWins:
		cs.dead[attacker.UID] = true
	case ResultTie:
		cs.dead[attacker.UID] = true
		cs.dead[blocker.UID] = true
	}
	cs.damage += event.HeartDamage
	cs.events = append(cs.events, event)
}

// Fight compares effective strength. The higher side wins; a big attacker
// that wins deals one bonus heart. On equal strength a fast attacker wins,
// then a fast blocker, otherwise both are destroyed.
func Fight(attacker, blocker CardInstance) CombatEvent {
	event := CombatEvent{
		AttackerID:   attacker.UID,
		BlockerID:    blocker.UID,
		AttackerName: attacker.Name(),
		BlockerName:  blocker.Name(),
	}

	as, bs := attacker.EffectiveStrength(), blocker.EffectiveStrength()
	switch {
	case as > bs:
		event.Result = ResultAttackerWins
	case as < bs:
		event.Result = ResultBlockerWins
	case attacker.Has(catalog.AbilityFast):
		event.Result = ResultAttackerWins
	case blocker.Has(catalog.AbilityFast):
		event.Result = ResultBlockerWins
	default:
		event.Result = ResultTie
	}

	if event.Result == ResultAttackerWins && attacker.Has(catalog.AbilityBig) {
		event.HeartDamage = 1
	}
	return event
}

// sweep moves dead creatures from a battlefield to the discard pile.
func (cs *combatState) sweep(battlefield, discard []CardInstance) ([]CardInstance, []CardInstance) {
	alive := make([]CardInstance, 0, len(battlefield))
	for _, inst := range battlefield {
		if !cs.dead[inst.UID] {
			alive = append(alive, inst)
			continue
		}
		inst.Tapped = false
		inst.CanAttack = false
		inst.StrengthBoost = 0
		discard = append(discard, inst)
	}
	return alive, discard
}
