package game

import (
	"github.com/JRackFatWalrus/clashlings/internal/catalog"
	"github.com/JRackFatWalrus/clashlings/internal/game/rules"
	"github.com/JRackFatWalrus/clashlings/internal/game/shapes"
)

// Advisory messages shown to the human player.
const (
	MsgYourTurn        = "Your turn! Draw a card."
	MsgPlayShape       = "Play a shape card!"
	MsgPlayCreatures   = "Play your creatures!"
	MsgPlayMore        = "Play more creatures or go to battle!"
	MsgChooseAttackers = "Choose attackers!"
	MsgNotEnoughShapes = "Not enough shapes!"
	MsgSelectTarget    = "Select a creature on your field first!"
	MsgAIThinking      = "AI is thinking..."
	MsgYouWin          = "You win! Great job!"
	MsgYouLose         = "Good try! Play again?"
)

var phaseMessages = map[rules.Phase]string{
	rules.PhaseDraw:   MsgYourTurn,
	rules.PhaseShape:  MsgPlayShape,
	rules.PhasePlay:   MsgPlayCreatures,
	rules.PhaseBattle: MsgChooseAttackers,
}

var itemMessages = map[catalog.ItemEffect]string{
	catalog.EffectShield: "Shield activated! Blocks 1 damage.",
	catalog.EffectHeal:   "Healed 1 heart!",
	catalog.EffectBoost:  "Creature boosted +2 power!",
	catalog.EffectSwap:   "Creature returned to hand!",
}

// BoostAmount is the strength a boost item adds.
const BoostAmount = 2

// advise sets the advisory message when the human is the one acting.
func (s *GameState) advise(msg string) {
	if s.Turn == SeatPlayer {
		s.Message = msg
	}
}

func (s GameState) inPhase(p rules.Phase) bool {
	return !s.GameOver && s.Phase == p
}

// Draw moves the top card of the active player's deck to their hand, then
// resets their board and advances to the shape phase. An empty deck skips
// the draw but not the reset.
func Draw(s GameState) GameState {
	if !s.inPhase(rules.PhaseDraw) {
		return s
	}
	s = s.Clone()
	p := &s.Players[s.Turn]
	if len(p.Deck) > 0 {
		var top CardInstance
		top, p.Deck = take(p.Deck, 0)
		p.Hand = append(p.Hand, top)
	}
	untapAll(&s, s.Turn)
	s.Phase = rules.PhaseShape
	s.advise(MsgPlayShape)
	return s
}

// UntapAll resets a player's board: every creature untaps, becomes able to
// attack and loses its boost, and no shapes count as spent.
func UntapAll(s GameState, seat Seat) GameState {
	if s.GameOver {
		return s
	}
	s = s.Clone()
	untapAll(&s, seat)
	return s
}

func untapAll(s *GameState, seat Seat) {
	p := &s.Players[seat]
	for i := range p.Battlefield {
		p.Battlefield[i].Tapped = false
		p.Battlefield[i].CanAttack = true
		p.Battlefield[i].StrengthBoost = 0
	}
	p.UsedShapes = shapes.Counts{}
}

// Advance moves shape to play and play to battle. Draw is left by drawing
// and battle by resolving it.
func Advance(s GameState) GameState {
	if s.GameOver || s.Phase == rules.PhaseDraw {
		return s
	}
	next, ok := rules.Next(s.Phase)
	if !ok {
		return s
	}
	s = s.Clone()
	s.Phase = next
	s.advise(phaseMessages[next])
	return s
}

// PlayShape moves a shape card from the active player's hand to their shape
// zone.
func PlayShape(s GameState, uid string) GameState {
	if !s.inPhase(rules.PhaseShape) {
		return s
	}
	i := indexOf(s.Players[s.Turn].Hand, uid)
	if i < 0 {
		return s
	}
	if _, ok := catalog.AsShape(s.Players[s.Turn].Hand[i].Card); !ok {
		return s
	}

	s = s.Clone()
	p := &s.Players[s.Turn]
	var inst CardInstance
	inst, p.Hand = take(p.Hand, i)
	p.ShapeZone = append(p.ShapeZone, inst)
	return s
}

// PlayCreature pays for a creature from the active player's hand and puts
// it onto the battlefield. Only fast creatures may attack this turn.
func PlayCreature(s GameState, uid string) GameState {
	if !s.inPhase(rules.PhasePlay) {
		return s
	}
	p := s.Players[s.Turn]
	i := indexOf(p.Hand, uid)
	if i < 0 {
		return s
	}
	c, ok := p.Hand[i].Creature()
	if !ok {
		return s
	}
	if !CanPlayCreature(c, p.ShapeZone, p.UsedShapes) {
		s.advise(MsgNotEnoughShapes)
		return s
	}

	s = s.Clone()
	active := &s.Players[s.Turn]
	active.UsedShapes = shapes.Spend(active.OwnedShapes(), active.UsedShapes, c.Shape, c.Cost)
	var inst CardInstance
	inst, active.Hand = take(active.Hand, i)
	inst.Tapped = false
	inst.CanAttack = c.Has(catalog.AbilityFast)
	inst.StrengthBoost = 0
	active.Battlefield = append(active.Battlefield, inst)
	s.advise(MsgPlayMore)
	return s
}

// PlayItem plays an item from the active player's hand and moves it to
// their discard. Boost and swap need targetUID to name a creature on the
// player's own battlefield; without one nothing happens.
func PlayItem(s GameState, uid, targetUID string) GameState {
	if !s.inPhase(rules.PhasePlay) {
		return s
	}
	p := s.Players[s.Turn]
	i := indexOf(p.Hand, uid)
	if i < 0 {
		return s
	}
	item, ok := catalog.AsItem(p.Hand[i].Card)
	if !ok {
		return s
	}
	target := -1
	if item.Effect.NeedsTarget() {
		if targetUID != "" {
			target = indexOf(p.Battlefield, targetUID)
		}
		if target < 0 {
			s.advise(MsgSelectTarget)
			return s
		}
	}

	s = s.Clone()
	active := &s.Players[s.Turn]
	var inst CardInstance
	inst, active.Hand = take(active.Hand, i)

	switch item.Effect {
	case catalog.EffectShield:
		active.Shielded = true
	case catalog.EffectHeal:
		active.Hearts = min(MaxHearts, active.Hearts+1)
	case catalog.EffectBoost:
		active.Battlefield[target].StrengthBoost += BoostAmount
	case catalog.EffectSwap:
		var returned CardInstance
		returned, active.Battlefield = take(active.Battlefield, target)
		returned.Tapped = false
		returned.CanAttack = false
		returned.StrengthBoost = 0
		active.Hand = append(active.Hand, returned)
	default:
		panic("game: unhandled item effect " + string(item.Effect))
	}

	active.Discard = append(active.Discard, inst)
	s.advise(itemMessages[item.Effect])
	return s
}

// ToggleAttacker adds an eligible creature to the attacker selection, or
// removes it if already selected.
func ToggleAttacker(s GameState, uid string) GameState {
	if !s.inPhase(rules.PhaseBattle) {
		return s
	}
	bf := s.Players[s.Turn].Battlefield
	i := indexOf(bf, uid)
	if i < 0 || !CanAttack(bf[i]) {
		return s
	}

	s = s.Clone()
	if containsID(s.SelectedAttackers, uid) {
		s.SelectedAttackers = withoutID(s.SelectedAttackers, uid)
	} else {
		s.SelectedAttackers = append(s.SelectedAttackers, uid)
	}
	return s
}

// DeclareAttackers announces the computer opponent's selected attackers to
// the human, who then chooses blocks in the blocking phase. It does nothing
// when the human is attacking or nothing is selected; ResolveBattle covers
// those cases.
func DeclareAttackers(s GameState) GameState {
	if !s.inPhase(rules.PhaseBattle) || s.Turn != SeatAI || len(s.SelectedAttackers) == 0 {
		return s
	}
	s = s.Clone()
	s.PendingAttackers = s.SelectedAttackers
	s.SelectedAttackers = nil
	s.BlockAssignments = Blocks{}
	s.SelectedBlocker = ""
	s.Phase = rules.PhaseBlocking
	s.Message = MsgAIAttacking
	return s
}

// ResolveBattle fights the selected attackers against blocks and passes the
// turn. With no attackers selected the turn simply passes.
func ResolveBattle(s GameState, blocks Blocks) GameState {
	if !s.inPhase(rules.PhaseBattle) {
		return s
	}
	attackers := s.SelectedAttackers
	if len(attackers) > 0 {
		s = ResolveCombat(s, s.Turn, attackers, blocks)
	} else {
		s = s.Clone()
		s.CombatLog = nil
	}
	s.SelectedAttackers = nil
	if s.GameOver {
		return s
	}
	return passTurn(s)
}

// passTurn hands the turn to the other player's draw phase. s must already
// be a private copy.
func passTurn(s GameState) GameState {
	s.Turn = s.Turn.Opponent()
	s.Phase = rules.PhaseDraw
	s.TurnNumber++
	s.SelectedAttackers = nil
	s.PendingAttackers = nil
	s.BlockAssignments = Blocks{}
	s.SelectedBlocker = ""
	if s.Turn == SeatPlayer {
		s.Message = MsgYourTurn
	} else {
		s.Message = MsgAIThinking
	}
	return s
}
