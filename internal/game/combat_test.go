package game

import (
	"math/rand"
	"testing"

	"github.com/JRackFatWalrus/clashlings/internal/catalog"
	"github.com/JRackFatWalrus/clashlings/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombatBigAttackerTramples(t *testing.T) {
	h := NewCombatTestHarness(t, rules.PhaseBattle)
	attacker := h.CreateCreature(SeatPlayer, CreatureSpec{Name: "Red Bear", Strength: 5, Ability: catalog.AbilityBig, CanAttack: true})
	blocker := h.CreateCreature(SeatAI, CreatureSpec{Name: "Green Cat", Strength: 3})

	s := h.Resolve(SeatPlayer, []string{attacker}, Blocks{attacker: blocker})

	require.Len(t, s.CombatLog, 1)
	event := s.CombatLog[0]
	assert.Equal(t, ResultAttackerWins, event.Result)
	assert.Equal(t, 1, event.HeartDamage)
	assert.Equal(t, "Red Bear", event.AttackerName)
	assert.Equal(t, "Green Cat", event.BlockerName)
	assert.Equal(t, blocker, event.BlockerID)

	assert.Equal(t, 9, s.Players[SeatAI].Hearts)
	assert.Empty(t, s.Players[SeatAI].Battlefield)
	assert.Equal(t, []string{blocker}, zoneIDs(s.Players[SeatAI].Discard))
	assert.True(t, findIn(t, s.Players[SeatPlayer].Battlefield, attacker).Tapped)
}

func TestCombatEqualStrengthTie(t *testing.T) {
	h := NewCombatTestHarness(t, rules.PhaseBattle)
	attacker := h.CreateCreature(SeatPlayer, CreatureSpec{Strength: 4, CanAttack: true})
	blocker := h.CreateCreature(SeatAI, CreatureSpec{Strength: 4})

	s := h.Resolve(SeatPlayer, []string{attacker}, Blocks{attacker: blocker})

	require.Len(t, s.CombatLog, 1)
	assert.Equal(t, ResultTie, s.CombatLog[0].Result)
	assert.Zero(t, s.CombatLog[0].HeartDamage)
	assert.Empty(t, s.Players[SeatPlayer].Battlefield)
	assert.Empty(t, s.Players[SeatAI].Battlefield)
	assert.Len(t, s.Players[SeatPlayer].Discard, 1)
	assert.Len(t, s.Players[SeatAI].Discard, 1)
	assert.Equal(t, MaxHearts, s.Players[SeatAI].Hearts)
}

func TestCombatFastWinsTies(t *testing.T) {
	tests := []struct {
		name     string
		attacker catalog.Ability
		blocker  catalog.Ability
		want     CombatResult
	}{
		{"fast attacker", catalog.AbilityFast, catalog.AbilityNone, ResultAttackerWins},
		{"fast blocker", catalog.AbilityNone, catalog.AbilityFast, ResultBlockerWins},
		{"both fast favours attacker", catalog.AbilityFast, catalog.AbilityFast, ResultAttackerWins},
		{"big is no tiebreak", catalog.AbilityBig, catalog.AbilityGuard, ResultTie},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewCombatTestHarness(t, rules.PhaseBattle)
			a := h.CreateCreature(SeatPlayer, CreatureSpec{Strength: 3, Ability: tt.attacker, CanAttack: true})
			b := h.CreateCreature(SeatAI, CreatureSpec{Strength: 3, Ability: tt.blocker})

			s := h.Resolve(SeatPlayer, []string{a}, Blocks{a: b})

			require.Len(t, s.CombatLog, 1)
			assert.Equal(t, tt.want, s.CombatLog[0].Result)
			assert.Equal(t, MaxHearts, s.Players[SeatAI].Hearts)
		})
	}
}

func TestCombatBoostCountsTowardsStrength(t *testing.T) {
	h := NewCombatTestHarness(t, rules.PhaseBattle)
	attacker := h.CreateCreature(SeatPlayer, CreatureSpec{Strength: 2, Boost: 2, CanAttack: true})
	blocker := h.CreateCreature(SeatAI, CreatureSpec{Strength: 3})

	s := h.Resolve(SeatPlayer, []string{attacker}, Blocks{attacker: blocker})

	assert.Equal(t, ResultAttackerWins, s.CombatLog[0].Result)
	assert.Zero(t, s.CombatLog[0].HeartDamage)
}

func TestCombatUnblockedHit(t *testing.T) {
	h := NewCombatTestHarness(t, rules.PhaseBattle)
	attacker := h.CreateCreature(SeatPlayer, CreatureSpec{Name: "Blue Bug", Strength: 1, CanAttack: true})

	s := h.Resolve(SeatPlayer, []string{attacker}, nil)

	require.Len(t, s.CombatLog, 1)
	assert.Equal(t, CombatEvent{
		AttackerID:   attacker,
		AttackerName: "Blue Bug",
		Result:       ResultUnblocked,
		HeartDamage:  1,
	}, s.CombatLog[0])
	assert.Equal(t, 9, s.Players[SeatAI].Hearts)
}

func TestCombatShieldAbsorbsHit(t *testing.T) {
	h := NewCombatTestHarness(t, rules.PhaseBattle)
	attacker := h.CreateCreature(SeatAI, CreatureSpec{Strength: 6, CanAttack: true})
	h.SetHearts(SeatPlayer, 1)
	h.SetShielded(SeatPlayer, true)

	s := h.Resolve(SeatAI, []string{attacker}, nil)

	require.Len(t, s.CombatLog, 1)
	event := s.CombatLog[0]
	assert.Equal(t, ResultBlockerWins, event.Result)
	assert.Equal(t, ShieldName, event.BlockerName)
	assert.Empty(t, event.BlockerID)
	assert.Zero(t, event.HeartDamage)
	assert.Equal(t, 1, s.Players[SeatPlayer].Hearts)
	assert.False(t, s.Players[SeatPlayer].Shielded)
	assert.False(t, s.GameOver)
}

func TestCombatShieldOnlyAbsorbsOneHit(t *testing.T) {
	h := NewCombatTestHarness(t, rules.PhaseBattle)
	a1 := h.CreateCreature(SeatPlayer, CreatureSpec{Strength: 1, CanAttack: true})
	a2 := h.CreateCreature(SeatPlayer, CreatureSpec{Strength: 1, CanAttack: true})
	h.SetShielded(SeatAI, true)

	s := h.Resolve(SeatPlayer, []string{a1, a2}, nil)

	require.Len(t, s.CombatLog, 2)
	assert.Equal(t, ShieldName, s.CombatLog[0].BlockerName)
	assert.Equal(t, ResultUnblocked, s.CombatLog[1].Result)
	assert.Equal(t, 9, s.Players[SeatAI].Hearts)
}

func TestCombatGuardsInterceptInDeclarationOrder(t *testing.T) {
	h := NewCombatTestHarness(t, rules.PhaseBattle)
	attackers := []string{
		h.CreateCreature(SeatPlayer, CreatureSpec{Strength: 1, CanAttack: true}),
		h.CreateCreature(SeatPlayer, CreatureSpec{Strength: 1, CanAttack: true}),
		h.CreateCreature(SeatPlayer, CreatureSpec{Strength: 1, CanAttack: true}),
		h.CreateCreature(SeatPlayer, CreatureSpec{Strength: 1, CanAttack: true}),
	}
	g1 := h.CreateCreature(SeatAI, CreatureSpec{Strength: 5, Ability: catalog.AbilityGuard})
	g2 := h.CreateCreature(SeatAI, CreatureSpec{Strength: 5, Ability: catalog.AbilityGuard})

	s := h.Resolve(SeatPlayer, attackers, nil)

	require.Len(t, s.CombatLog, 4)
	assert.Equal(t, g1, s.CombatLog[0].BlockerID)
	assert.Equal(t, attackers[0], s.CombatLog[0].AttackerID)
	assert.Equal(t, g2, s.CombatLog[1].BlockerID)
	assert.Equal(t, attackers[1], s.CombatLog[1].AttackerID)
	assert.Equal(t, ResultUnblocked, s.CombatLog[2].Result)
	assert.Equal(t, ResultUnblocked, s.CombatLog[3].Result)
	assert.Equal(t, 8, s.Players[SeatAI].Hearts)
	assert.Len(t, s.Players[SeatAI].Battlefield, 2, "guards survive")
	assert.Len(t, s.Players[SeatPlayer].Battlefield, 2, "intercepted attackers die")
}

func TestCombatGuardIgnoresFlyAttackers(t *testing.T) {
	h := NewCombatTestHarness(t, rules.PhaseBattle)
	flyer := h.CreateCreature(SeatPlayer, CreatureSpec{Strength: 1, Ability: catalog.AbilityFly, CanAttack: true})
	walker := h.CreateCreature(SeatPlayer, CreatureSpec{Strength: 1, CanAttack: true})
	guard := h.CreateCreature(SeatAI, CreatureSpec{Strength: 5, Ability: catalog.AbilityGuard})

	s := h.Resolve(SeatPlayer, []string{flyer, walker}, nil)

	require.Len(t, s.CombatLog, 2)
	assert.Equal(t, ResultUnblocked, s.CombatLog[0].Result)
	assert.Equal(t, guard, s.CombatLog[1].BlockerID, "guard saved for the next non-fly attacker")
}

func TestCombatGuardUnavailableWhenTappedOrBlocking(t *testing.T) {
	h := NewCombatTestHarness(t, rules.PhaseBattle)
	a1 := h.CreateCreature(SeatPlayer, CreatureSpec{Strength: 2, CanAttack: true})
	a2 := h.CreateCreature(SeatPlayer, CreatureSpec{Strength: 2, CanAttack: true})
	blockingGuard := h.CreateCreature(SeatAI, CreatureSpec{Strength: 5, Ability: catalog.AbilityGuard})
	h.CreateCreature(SeatAI, CreatureSpec{Strength: 5, Ability: catalog.AbilityGuard, Tapped: true})

	s := h.Resolve(SeatPlayer, []string{a1, a2}, Blocks{a2: blockingGuard})

	require.Len(t, s.CombatLog, 2)
	assert.Equal(t, ResultUnblocked, s.CombatLog[0].Result, "first attacker finds no free guard")
	assert.Equal(t, blockingGuard, s.CombatLog[1].BlockerID)
	assert.Equal(t, 9, s.Players[SeatAI].Hearts)
}

func TestCombatGuardAbsorbsOnlyOnce(t *testing.T) {
	h := NewCombatTestHarness(t, rules.PhaseBattle)
	a1 := h.CreateCreature(SeatPlayer, CreatureSpec{Strength: 1, CanAttack: true})
	a2 := h.CreateCreature(SeatPlayer, CreatureSpec{Strength: 1, CanAttack: true})
	guard := h.CreateCreature(SeatAI, CreatureSpec{Strength: 9, Ability: catalog.AbilityGuard})

	s := h.Resolve(SeatPlayer, []string{a1, a2}, nil)

	require.Len(t, s.CombatLog, 2)
	assert.Equal(t, guard, s.CombatLog[0].BlockerID)
	assert.Equal(t, ResultUnblocked, s.CombatLog[1].Result)
}

func TestCombatDeadGuardCannotIntercept(t *testing.T) {
	h := NewCombatTestHarness(t, rules.PhaseBattle)
	a1 := h.CreateCreature(SeatPlayer, CreatureSpec{Strength: 8, CanAttack: true})
	a2 := h.CreateCreature(SeatPlayer, CreatureSpec{Strength: 1, CanAttack: true})
	weak := h.CreateCreature(SeatAI, CreatureSpec{Strength: 1, Ability: catalog.AbilityGuard})
	strong := h.CreateCreature(SeatAI, CreatureSpec{Strength: 5, Ability: catalog.AbilityGuard})

	s := h.Resolve(SeatPlayer, []string{a1, a2}, nil)

	require.Len(t, s.CombatLog, 2)
	assert.Equal(t, weak, s.CombatLog[0].BlockerID)
	assert.Equal(t, ResultAttackerWins, s.CombatLog[0].Result)
	assert.Equal(t, strong, s.CombatLog[1].BlockerID)
	assert.Equal(t, []string{weak}, zoneIDs(s.Players[SeatAI].Discard))
}

func TestCombatIllegalBlocksAreIgnored(t *testing.T) {
	h := NewCombatTestHarness(t, rules.PhaseBattle)
	flyer := h.CreateCreature(SeatAI, CreatureSpec{Strength: 2, Ability: catalog.AbilityFly, CanAttack: true})
	walker := h.CreateCreature(SeatAI, CreatureSpec{Strength: 2, CanAttack: true})
	ground := h.CreateCreature(SeatPlayer, CreatureSpec{Strength: 9})
	tapped := h.CreateCreature(SeatPlayer, CreatureSpec{Strength: 9, Tapped: true})

	s := h.Resolve(SeatAI, []string{flyer, walker}, Blocks{flyer: ground, walker: tapped})

	require.Len(t, s.CombatLog, 2)
	for _, e := range s.CombatLog {
		assert.Equal(t, ResultUnblocked, e.Result)
	}
	assert.Equal(t, 8, s.Players[SeatPlayer].Hearts)
	assert.Len(t, s.Players[SeatPlayer].Battlefield, 2)
}

func TestCombatBlockerUsedOnce(t *testing.T) {
	h := NewCombatTestHarness(t, rules.PhaseBattle)
	a1 := h.CreateCreature(SeatPlayer, CreatureSpec{Strength: 1, CanAttack: true})
	a2 := h.CreateCreature(SeatPlayer, CreatureSpec{Strength: 1, CanAttack: true})
	b := h.CreateCreature(SeatAI, CreatureSpec{Strength: 5})

	s := h.Resolve(SeatPlayer, []string{a1, a2}, Blocks{a1: b, a2: b})

	require.Len(t, s.CombatLog, 2)
	assert.Equal(t, b, s.CombatLog[0].BlockerID)
	assert.Equal(t, ResultUnblocked, s.CombatLog[1].Result)
}

func TestCombatSkipsUnknownAttackers(t *testing.T) {
	h := NewCombatTestHarness(t, rules.PhaseBattle)
	a := h.CreateCreature(SeatPlayer, CreatureSpec{Strength: 1, CanAttack: true})
	enemy := h.CreateCreature(SeatAI, CreatureSpec{Strength: 1, CanAttack: true})

	s := h.Resolve(SeatPlayer, []string{"ghost", enemy, a, a}, nil)

	require.Len(t, s.CombatLog, 1)
	assert.Equal(t, a, s.CombatLog[0].AttackerID)
	assert.False(t, findIn(t, s.Players[SeatAI].Battlefield, enemy).Tapped)
}

func TestCombatLethalDamageEndsGame(t *testing.T) {
	h := NewCombatTestHarness(t, rules.PhaseBattle)
	a := h.CreateCreature(SeatAI, CreatureSpec{Strength: 6, Ability: catalog.AbilityBig, CanAttack: true})
	b := h.CreateCreature(SeatPlayer, CreatureSpec{Strength: 1})
	h.SetHearts(SeatPlayer, 1)

	s := h.Resolve(SeatAI, []string{a}, Blocks{a: b})

	assert.True(t, s.GameOver)
	assert.Equal(t, SeatAI, s.Winner)
	assert.Equal(t, 0, s.Players[SeatPlayer].Hearts)
	assert.Equal(t, MsgYouLose, s.Message)

	again := ResolveCombat(s, SeatAI, []string{a}, nil)
	assert.Equal(t, s, again, "terminal state is frozen")
}

func TestCombatHeartsClampAtZero(t *testing.T) {
	h := NewCombatTestHarness(t, rules.PhaseBattle)
	var attackers []string
	for i := 0; i < 3; i++ {
		attackers = append(attackers, h.CreateCreature(SeatPlayer, CreatureSpec{Strength: 1, CanAttack: true}))
	}
	h.SetHearts(SeatAI, 2)

	s := h.Resolve(SeatPlayer, attackers, nil)

	assert.Equal(t, 0, s.Players[SeatAI].Hearts)
	assert.True(t, s.GameOver)
	assert.Equal(t, SeatPlayer, s.Winner)
	assert.Equal(t, MsgYouWin, s.Message)
}

func TestCombatDoesNotMutateInput(t *testing.T) {
	h := NewCombatTestHarness(t, rules.PhaseBattle)
	a := h.CreateCreature(SeatPlayer, CreatureSpec{Strength: 4, CanAttack: true})
	b := h.CreateCreature(SeatAI, CreatureSpec{Strength: 4})
	before := h.State()
	snapshot := before.Clone()

	_ = ResolveCombat(before, SeatPlayer, []string{a}, Blocks{a: b})

	assert.Equal(t, snapshot, before)
}

// TestCombatHeartsNeverIncrease resolves random boards and checks that the
// defender loses hearts exactly when some event dealt heart damage.
func TestCombatHeartsNeverIncrease(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	abilities := []catalog.Ability{catalog.AbilityNone, catalog.AbilityFast, catalog.AbilityBig, catalog.AbilityFly, catalog.AbilityGuard}

	for round := 0; round < 200; round++ {
		h := NewCombatTestHarness(t, rules.PhaseBattle)
		h.SetShielded(SeatAI, rng.Intn(2) == 0)

		var attackers, defenders []string
		for i := 0; i < 1+rng.Intn(5); i++ {
			attackers = append(attackers, h.CreateCreature(SeatPlayer, CreatureSpec{
				Strength: 1 + rng.Intn(10), Ability: abilities[rng.Intn(len(abilities))], CanAttack: true,
			}))
		}
		for i := 0; i < rng.Intn(5); i++ {
			defenders = append(defenders, h.CreateCreature(SeatAI, CreatureSpec{
				Strength: 1 + rng.Intn(10), Ability: abilities[rng.Intn(len(abilities))], Tapped: rng.Intn(4) == 0,
			}))
		}
		blocks := Blocks{}
		for _, a := range attackers {
			if len(defenders) > 0 && rng.Intn(2) == 0 {
				blocks[a] = defenders[rng.Intn(len(defenders))]
			}
		}

		before := h.State().Players[SeatAI].Hearts
		s := h.Resolve(SeatPlayer, attackers, blocks)
		after := s.Players[SeatAI].Hearts

		dealt := 0
		for _, e := range s.CombatLog {
			dealt += e.HeartDamage
		}
		require.LessOrEqual(t, after, before, "round %d", round)
		require.Equal(t, dealt > 0, after < before, "round %d", round)
		require.Equal(t, max(0, before-dealt), after, "round %d", round)
		require.Len(t, s.CombatLog, len(attackers), "round %d: one event per attacker", round)
	}
}

func TestCombatLogHoldsLatestCombatOnly(t *testing.T) {
	h := NewCombatTestHarness(t, rules.PhaseBattle)
	first := h.CreateCreature(SeatPlayer, CreatureSpec{Strength: 2, CanAttack: true})
	second := h.CreateCreature(SeatPlayer, CreatureSpec{Strength: 3, CanAttack: true})

	s := h.Resolve(SeatPlayer, []string{first}, nil)
	require.Len(t, s.CombatLog, 1)
	assert.Equal(t, first, s.CombatLog[0].AttackerID)

	s = ResolveCombat(s, SeatPlayer, []string{second}, nil)
	require.Len(t, s.CombatLog, 1)
	assert.Equal(t, second, s.CombatLog[0].AttackerID)
	assert.Equal(t, MaxHearts-2, s.Players[SeatAI].Hearts)
}
