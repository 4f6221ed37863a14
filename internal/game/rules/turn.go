package rules

import (
	"fmt"
)

// Phase is a stage of a turn. Draw, shape, play and battle run in order for
// the active player. Blocking is entered by the defender only when the
// computer opponent attacks.
type Phase int

const (
	PhaseDraw Phase = iota
	PhaseShape
	PhasePlay
	PhaseBattle
	PhaseBlocking
)

var phaseNames = map[Phase]string{
	PhaseDraw:     "draw",
	PhaseShape:    "shape",
	PhasePlay:     "play",
	PhaseBattle:   "battle",
	PhaseBlocking: "blocking",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("phase_%d", int(p))
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a phase name.
func (p *Phase) UnmarshalText(text []byte) error {
	parsed, err := ParsePhase(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePhase returns the phase with the given name.
func ParsePhase(name string) (Phase, error) {
	for p, n := range phaseNames {
		if n == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", name)
}

// turnSequence is the active player's linear phase order.
var turnSequence = []Phase{PhaseDraw, PhaseShape, PhasePlay, PhaseBattle}

// Sequence returns a copy of the active player's phase order.
func Sequence() []Phase {
	out := make([]Phase, len(turnSequence))
	copy(out, turnSequence)
	return out
}

// Next returns the phase that follows p within the active player's turn.
// ok is false after battle, where the turn passes, and for blocking, which
// is not part of the sequence.
func Next(p Phase) (next Phase, ok bool) {
	for i, entry := range turnSequence {
		if entry == p && i+1 < len(turnSequence) {
			return turnSequence[i+1], true
		}
	}
	return p, false
}

// IsReactive reports whether the phase is played by the defender rather
// than the active player.
func (p Phase) IsReactive() bool {
	return p == PhaseBlocking
}
