package integration

import (
	"fmt"
	"sync"
	"testing"

	"github.com/JRackFatWalrus/clashlings/internal/catalog"
	"github.com/JRackFatWalrus/clashlings/internal/game"
	"github.com/JRackFatWalrus/clashlings/internal/game/opponent"
	"github.com/JRackFatWalrus/clashlings/internal/game/rules"
	"github.com/JRackFatWalrus/clashlings/internal/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const maxSteps = 400

type gameEnv struct {
	manager *match.Manager
	match   *match.Match
	policy  opponent.Policy

	mu     sync.Mutex
	events []rules.Event
}

func newGameEnv(t testing.TB, playerDeck, opponentDeck string, seed int64) *gameEnv {
	t.Helper()
	manager := match.NewManager(catalog.Builtin(), zaptest.NewLogger(t))
	m, err := manager.CreateMatch(match.Options{PlayerDeck: playerDeck, OpponentDeck: opponentDeck, Seed: seed})
	require.NoError(t, err)

	env := &gameEnv{manager: manager, match: m, policy: opponent.New()}
	m.Subscribe(func(evt rules.Event) {
		env.mu.Lock()
		env.events = append(env.events, evt)
		env.mu.Unlock()
	})
	return env
}

func (e *gameEnv) apply(t testing.TB, action match.Action) {
	t.Helper()
	require.NoError(t, e.match.Apply(action), "action %s", action.Type)
}

// playHuman drives the human seat the way the computer player would: draw,
// one shape, the dearest affordable creatures, then attack with everything.
func (e *gameEnv) playHuman(t testing.TB) {
	t.Helper()
	s := e.match.State()

	switch s.Phase {
	case rules.PhaseBlocking:
		blocks := e.policy.ChooseBlocks(s, game.SeatAI, s.PendingAttackers)
		for attacker, blocker := range blocks {
			e.apply(t, match.Action{Type: match.ActionSelectBlocker, CardID: blocker})
			e.apply(t, match.Action{Type: match.ActionAssignBlock, CardID: attacker})
		}
		e.apply(t, match.Action{Type: match.ActionConfirmBlocks})
		return
	case rules.PhaseDraw:
		e.apply(t, match.Action{Type: match.ActionDraw})
	}

	for _, inst := range e.match.State().Players[game.SeatPlayer].Hand {
		if _, ok := catalog.AsShape(inst.Card); ok {
			e.apply(t, match.Action{Type: match.ActionPlayShape, CardID: inst.UID})
			break
		}
	}
	e.apply(t, match.Action{Type: match.ActionAdvance})

	for {
		s := e.match.State()
		p := s.Players[game.SeatPlayer]
		played := false
		for _, inst := range p.Hand {
			c, ok := inst.Creature()
			if ok && game.CanPlayCreature(c, p.ShapeZone, p.UsedShapes) {
				e.apply(t, match.Action{Type: match.ActionPlayCreature, CardID: inst.UID})
				played = true
				break
			}
		}
		if !played {
			break
		}
	}
	e.apply(t, match.Action{Type: match.ActionAdvance})

	for _, inst := range e.match.State().Players[game.SeatPlayer].Battlefield {
		if game.CanAttack(inst) {
			e.apply(t, match.Action{Type: match.ActionToggleAttacker, CardID: inst.UID})
		}
	}
	e.apply(t, match.Action{Type: match.ActionEndTurn})
}

// playOut runs the match until it ends or maxSteps turns pass, checking
// table invariants after every step. It reports the steps taken and whether
// the match finished; two sides left without attackers can stall.
func (e *gameEnv) playOut(t testing.TB) (int, bool) {
	t.Helper()
	initial := e.match.State()
	totals := [2]int{cardCount(initial.Players[0]), cardCount(initial.Players[1])}

	for step := 1; step <= maxSteps; step++ {
		if e.match.GameOver() {
			return step, true
		}
		if e.match.OpponentPending() {
			require.NoError(t, e.match.RunOpponentTurn())
		} else {
			e.playHuman(t)
		}
		checkInvariants(t, e.match.State(), totals)
	}
	return maxSteps, e.match.GameOver()
}

func cardCount(p game.PlayerState) int {
	return len(p.Deck) + len(p.Hand) + len(p.ShapeZone) + len(p.Battlefield) + len(p.Discard)
}

func checkInvariants(t testing.TB, s game.GameState, totals [2]int) {
	t.Helper()
	seen := make(map[string]bool)
	for seat, p := range s.Players {
		assert.Equal(t, totals[seat], cardCount(p), "cards of %s are conserved", game.Seat(seat))
		assert.GreaterOrEqual(t, p.Hearts, 0)
		assert.LessOrEqual(t, p.Hearts, game.MaxHearts)

		for _, zone := range [][]game.CardInstance{p.Deck, p.Hand, p.ShapeZone, p.Battlefield, p.Discard} {
			for _, inst := range zone {
				require.False(t, seen[inst.UID], "card %s is in two zones", inst.UID)
				seen[inst.UID] = true
			}
		}
	}
	if s.GameOver {
		assert.Zero(t, s.Players[s.Winner.Opponent()].Hearts, "the loser is out of hearts")
		assert.Positive(t, s.Players[s.Winner].Hearts)
	}
}

func TestFullMatchAllDeckPairs(t *testing.T) {
	decks := []string{"sky-pack", "stomp-pack", "dash-pack", "shield-pack", "wild-pack"}
	for _, player := range decks {
		for _, opp := range decks {
			t.Run(fmt.Sprintf("%s_vs_%s", player, opp), func(t *testing.T) {
				env := newGameEnv(t, player, opp, 11)
				if _, finished := env.playOut(t); !finished {
					t.Skipf("stalled after %d turns", maxSteps)
				}

				final := env.match.State()

				snap := env.match.Snapshot()
				assert.NotNil(t, snap.FinishedAt)
				assert.Equal(t, final.Winner.String(), snap.Winner)

				env.mu.Lock()
				defer env.mu.Unlock()
				gameOvers := 0
				for _, evt := range env.events {
					if evt.Type == rules.EventGameOver {
						gameOvers++
						assert.Equal(t, final.Winner.String(), evt.PlayerID)
					}
				}
				assert.Equal(t, 1, gameOvers)
			})
		}
	}
}

func TestSeededMatchesPlayIdentically(t *testing.T) {
	for _, seed := range []int64{1, 2, 3, 42, 1337} {
		a := newGameEnv(t, "wild-pack", "shield-pack", seed)
		b := newGameEnv(t, "wild-pack", "shield-pack", seed)

		stepsA, finishedA := a.playOut(t)
		stepsB, finishedB := b.playOut(t)
		assert.Equal(t, stepsA, stepsB, "seed %d", seed)
		assert.Equal(t, finishedA, finishedB, "seed %d", seed)

		sumA, err := a.match.Checksum()
		require.NoError(t, err)
		sumB, err := b.match.Checksum()
		require.NoError(t, err)
		assert.Equal(t, sumA.Hash, sumB.Hash, "seed %d", seed)
	}
}

func TestStatsAgreeWithFinalState(t *testing.T) {
	env := newGameEnv(t, "sky-pack", "stomp-pack", 99)
	env.playOut(t)
	require.Greater(t, env.match.State().TurnNumber, 1)

	final := env.match.State()
	stats := env.match.Stats()
	for _, seat := range []game.Seat{game.SeatPlayer, game.SeatAI} {
		st := stats[seat]
		p := final.Players[seat]
		assert.Equal(t, game.MaxHearts-p.Hearts, st.HeartsLost-st.HeartsHealed, "%s hearts", seat)
		assert.Equal(t, len(p.ShapeZone), st.ShapesPlayed, "%s shapes", seat)
		assert.GreaterOrEqual(t, st.CardsDrawn, 1, "%s drew", seat)
	}
}

func TestScoreboardAcrossMatches(t *testing.T) {
	manager := match.NewManager(catalog.Builtin(), zaptest.NewLogger(t))
	finished := 0
	for seed := int64(1); seed <= 3; seed++ {
		m, err := manager.CreateMatch(match.Options{PlayerDeck: "dash-pack", OpponentDeck: "sky-pack", Seed: seed})
		require.NoError(t, err)
		env := &gameEnv{manager: manager, match: m, policy: opponent.New()}
		if _, ok := env.playOut(t); ok {
			finished++
		}
	}

	games := 0
	for _, rec := range manager.Scoreboard() {
		if rec.DeckID == "dash-pack" {
			games = rec.Games()
		}
	}
	assert.Equal(t, finished, games)
	assert.Equal(t, 3-finished, manager.GetActiveMatchCount())
}
