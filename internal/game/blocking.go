package game

import (
	"github.com/JRackFatWalrus/clashlings/internal/game/rules"
)

// Advisory messages of the blocking phase.
const (
	MsgAIAttacking    = "AI is attacking! Tap your creature, then tap an attacker to block it!"
	MsgPickAttacker   = "Now tap an AI attacker to block it!"
	MsgDeselected     = "Deselected. Tap a creature to block with."
	MsgBlocked        = "Blocked! Tap more creatures to block, or press Done."
	MsgBlockRemoved   = "Block removed! Tap another creature to block, or press Done."
	MsgFlyOnlyBlocker = "Only Fly creatures can block Fly attackers!"
)

// SelectBlocker picks one of the defender's untapped creatures as the next
// blocker. Selecting the current choice again clears it; selecting a
// creature that is already blocking removes its assignment.
func SelectBlocker(s GameState, uid string) GameState {
	if !s.inPhase(rules.PhaseBlocking) {
		return s
	}
	bf := s.Players[s.Defender()].Battlefield
	i := indexOf(bf, uid)
	if i < 0 || bf[i].Tapped {
		return s
	}
	if _, ok := bf[i].Creature(); !ok {
		return s
	}

	s = s.Clone()
	if attacker, ok := s.BlockAssignments.BlockerOf(uid); ok {
		delete(s.BlockAssignments, attacker)
		s.SelectedBlocker = ""
		s.Message = MsgBlockRemoved
		return s
	}
	if s.SelectedBlocker == uid {
		s.SelectedBlocker = ""
		s.Message = MsgDeselected
		return s
	}
	s.SelectedBlocker = uid
	s.Message = MsgPickAttacker
	return s
}

// AssignBlock assigns the selected blocker to one of the announced
// attackers. A fly attacker only accepts a fly blocker. Each attacker takes
// one blocker; a later assignment replaces an earlier one.
func AssignBlock(s GameState, attackerUID string) GameState {
	if !s.inPhase(rules.PhaseBlocking) || s.SelectedBlocker == "" {
		return s
	}
	if !containsID(s.PendingAttackers, attackerUID) {
		return s
	}
	ai := indexOf(s.Players[s.Turn].Battlefield, attackerUID)
	bi := indexOf(s.Players[s.Defender()].Battlefield, s.SelectedBlocker)
	if ai < 0 || bi < 0 {
		return s
	}
	attacker, ok := s.Players[s.Turn].Battlefield[ai].Creature()
	if !ok {
		return s
	}
	blocker, ok := s.Players[s.Defender()].Battlefield[bi].Creature()
	if !ok {
		return s
	}

	s = s.Clone()
	if !CanCreatureBlock(blocker, attacker) {
		s.SelectedBlocker = ""
		s.Message = MsgFlyOnlyBlocker
		return s
	}
	if previous, ok := s.BlockAssignments.BlockerOf(s.SelectedBlocker); ok {
		delete(s.BlockAssignments, previous)
	}
	if s.BlockAssignments == nil {
		s.BlockAssignments = Blocks{}
	}
	s.BlockAssignments[attackerUID] = s.SelectedBlocker
	s.SelectedBlocker = ""
	s.Message = MsgBlocked
	return s
}

// RemoveBlock clears the block on an attacker.
func RemoveBlock(s GameState, attackerUID string) GameState {
	if !s.inPhase(rules.PhaseBlocking) {
		return s
	}
	if _, ok := s.BlockAssignments[attackerUID]; !ok {
		return s
	}
	s = s.Clone()
	delete(s.BlockAssignments, attackerUID)
	return s
}

// ConfirmBlocks resolves the announced attack against the assigned blocks
// and, unless the game ended, gives the human the next turn.
func ConfirmBlocks(s GameState) GameState {
	if !s.inPhase(rules.PhaseBlocking) {
		return s
	}
	s = ResolveCombat(s, s.Turn, s.PendingAttackers, s.BlockAssignments)
	s.PendingAttackers = nil
	s.BlockAssignments = Blocks{}
	s.SelectedBlocker = ""
	if s.GameOver {
		return s
	}
	return passTurn(s)
}
