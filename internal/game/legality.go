package game

import (
	"github.com/JRackFatWalrus/clashlings/internal/catalog"
	"github.com/JRackFatWalrus/clashlings/internal/game/rules"
	"github.com/JRackFatWalrus/clashlings/internal/game/shapes"
)

// CanPlayCreature reports whether the unspent shapes in zone can pay the
// creature's cost.
func CanPlayCreature(c *catalog.Creature, zone []CardInstance, used shapes.Counts) bool {
	return shapes.CanAfford(c, ownedShapes(zone), used)
}

// CanCreatureBlock reports whether blocker may be assigned against
// attacker. Only a fly creature can block a fly attacker.
func CanCreatureBlock(blocker, attacker *catalog.Creature) bool {
	if attacker.Has(catalog.AbilityFly) {
		return blocker.Has(catalog.AbilityFly)
	}
	return true
}

// CanAttack reports whether an instance may be declared as an attacker.
func CanAttack(inst CardInstance) bool {
	_, ok := inst.Creature()
	return ok && inst.CanAttack && !inst.Tapped
}

// CanBlockWith reports whether an instance may be chosen as a voluntary
// blocker.
func CanBlockWith(inst CardInstance) bool {
	_, ok := inst.Creature()
	return ok && !inst.Tapped
}

// CanAct reports whether seat is the one expected to act in s. The defender
// acts during blocking; otherwise the player whose turn it is.
func CanAct(s GameState, seat Seat) bool {
	if s.GameOver {
		return false
	}
	if s.Phase == rules.PhaseBlocking {
		return seat == s.Defender()
	}
	return seat == s.Turn
}
