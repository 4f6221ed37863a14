package game

import (
	"slices"

	"github.com/JRackFatWalrus/clashlings/internal/catalog"
	"github.com/JRackFatWalrus/clashlings/internal/game/rules"
)

// Events describes the transition from before to after as rules events, in
// the order they happened: cards moving, combat, hearts, then the phase or
// turn change and the end of the game. Both states must come from the same
// game.
func Events(before, after GameState) []rules.Event {
	var events []rules.Event
	add := func(evt rules.Event) { events = append(events, evt) }

	for _, seat := range []Seat{SeatPlayer, SeatAI} {
		events = append(events, zoneEvents(seat, before.Players[seat], after.Players[seat])...)
	}

	if len(after.PendingAttackers) > 0 && !slices.Equal(before.PendingAttackers, after.PendingAttackers) {
		for _, uid := range after.PendingAttackers {
			add(rules.NewEvent(rules.EventAttackersDeclared, uid, "", after.Turn.String()))
		}
	}
	for _, attacker := range after.PendingAttackers {
		blocker, ok := after.BlockAssignments[attacker]
		if ok && before.BlockAssignments[attacker] != blocker {
			add(rules.NewEvent(rules.EventBlockAssigned, attacker, blocker, after.Defender().String()))
		}
	}

	if combatHappened(before, after) {
		for _, e := range after.CombatLog {
			evt := rules.NewEventWithAmount(rules.EventCombatResolved, e.AttackerID, e.BlockerID, before.Turn.String(), e.HeartDamage)
			evt.Data = string(e.Result)
			evt.Description = describeCombat(e)
			add(evt)
			if e.Result == ResultBlockerWins && e.BlockerName == ShieldName && e.BlockerID == "" {
				add(rules.NewEvent(rules.EventShieldUsed, e.AttackerID, "", before.Turn.Opponent().String()))
			}
		}
	}

	for _, seat := range []Seat{SeatPlayer, SeatAI} {
		if h := after.Players[seat].Hearts; h != before.Players[seat].Hearts {
			add(rules.NewEventWithAmount(rules.EventHeartsChanged, "", "", seat.String(), h))
		}
	}

	if after.TurnNumber != before.TurnNumber || after.Turn != before.Turn {
		add(rules.NewEventWithAmount(rules.EventTurnPassed, "", "", after.Turn.String(), after.TurnNumber))
	}
	if after.Phase != before.Phase {
		evt := rules.NewEvent(rules.EventPhaseChanged, "", "", after.Turn.String())
		evt.Data = after.Phase.String()
		add(evt)
	}
	if after.GameOver && !before.GameOver {
		add(rules.NewEvent(rules.EventGameOver, "", "", after.Winner.String()))
	}
	return events
}

// zoneEvents reports the cards that changed zones for one seat.
func zoneEvents(seat Seat, before, after PlayerState) []rules.Event {
	var events []rules.Event
	player := seat.String()

	for _, inst := range added(before.Hand, after.Hand) {
		switch {
		case indexOf(before.Deck, inst.UID) >= 0:
			events = append(events, rules.NewEvent(rules.EventCardDrawn, inst.UID, "", player))
		case indexOf(before.Battlefield, inst.UID) >= 0:
			events = append(events, rules.NewEvent(rules.EventCreatureReturned, inst.UID, "", player))
		}
	}
	for _, inst := range added(before.ShapeZone, after.ShapeZone) {
		evt := rules.NewEvent(rules.EventShapePlayed, inst.UID, "", player)
		if s, ok := catalog.AsShape(inst.Card); ok {
			evt.Data = string(s.Shape)
		}
		events = append(events, evt)
	}
	for _, inst := range added(before.Battlefield, after.Battlefield) {
		evt := rules.NewEvent(rules.EventCreaturePlayed, inst.UID, "", player)
		evt.Description = inst.Name()
		events = append(events, evt)
	}
	for _, inst := range added(before.Discard, after.Discard) {
		if item, ok := catalog.AsItem(inst.Card); ok {
			evt := rules.NewEvent(rules.EventItemPlayed, inst.UID, "", player)
			evt.Data = string(item.Effect)
			events = append(events, evt)
			continue
		}
		if indexOf(before.Battlefield, inst.UID) >= 0 {
			evt := rules.NewEvent(rules.EventCreatureDestroyed, inst.UID, "", player)
			evt.Description = inst.Name()
			events = append(events, evt)
		}
	}
	return events
}

// combatHappened reports whether the transition resolved a combat. The log
// of one side's combat never equals the next one since attacker ids belong
// to the attacking seat.
func combatHappened(before, after GameState) bool {
	return len(after.CombatLog) > 0 && !slices.Equal(before.CombatLog, after.CombatLog)
}

func describeCombat(e CombatEvent) string {
	switch e.Result {
	case ResultUnblocked:
		return e.AttackerName + " hits for 1"
	case ResultTie:
		return e.AttackerName + " and " + e.BlockerName + " knock each other out"
	case ResultAttackerWins:
		return e.AttackerName + " beats " + e.BlockerName
	default:
		return e.BlockerName + " stops " + e.AttackerName
	}
}

// added returns the instances in after that were not in before.
func added(before, after []CardInstance) []CardInstance {
	var out []CardInstance
	for _, inst := range after {
		if indexOf(before, inst.UID) < 0 {
			out = append(out, inst)
		}
	}
	return out
}
