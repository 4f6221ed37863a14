package game

import (
	"fmt"

	"github.com/JRackFatWalrus/clashlings/internal/catalog"
	"github.com/JRackFatWalrus/clashlings/internal/game/rules"
	"github.com/JRackFatWalrus/clashlings/internal/game/shapes"
	"github.com/google/uuid"
)

// RNG is the entropy source used to shuffle decks. *rand.Rand satisfies it.
type RNG = catalog.RNG

// instanceNamespace scopes the name-based uuids given to card instances.
var instanceNamespace = uuid.MustParse("6f1c9a52-3d0e-4b8f-9c57-2a4e8d1b7c30")

// instanceID derives a stable uuid from the seat and the card's position in
// the deck definition, so a seeded game is reproducible end to end.
func instanceID(seat Seat, position int, card catalog.Card) string {
	name := fmt.Sprintf("%s/%d/%s", seat, position, card.CardID())
	return uuid.NewSHA1(instanceNamespace, []byte(name)).String()
}

// InitGame builds both decks from the catalog, shuffles them with rng and
// deals the opening hands. Card ids the catalog does not know are skipped.
// The human player takes turn 1 starting in the draw phase.
func InitGame(cat *catalog.Catalog, playerDeck, aiDeck catalog.DeckDefinition, rng RNG) GameState {
	if cat == nil {
		panic("game: InitGame called with nil catalog")
	}
	if rng == nil {
		panic("game: InitGame called with nil rng")
	}

	var s GameState
	s.Players[SeatPlayer] = newPlayer(cat, SeatPlayer, playerDeck, rng)
	s.Players[SeatAI] = newPlayer(cat, SeatAI, aiDeck, rng)
	s.Turn = SeatPlayer
	s.Phase = rules.PhaseDraw
	s.TurnNumber = 1
	s.BlockAssignments = Blocks{}
	s.Message = MsgYourTurn
	return s
}

func newPlayer(cat *catalog.Catalog, seat Seat, def catalog.DeckDefinition, rng RNG) PlayerState {
	// Unknown ids are skipped; the match manager reports them.
	cards, _ := cat.Resolve(def)
	instances := make([]CardInstance, len(cards))
	for i, card := range cards {
		instances[i] = CardInstance{UID: instanceID(seat, i, card), Card: card}
	}
	deck := catalog.Shuffle(instances, rng)

	n := min(StartingHandSize, len(deck))
	return PlayerState{
		Hearts:     MaxHearts,
		Hand:       cloneZone(deck[:n]),
		Deck:       cloneZone(deck[n:]),
		UsedShapes: shapes.Counts{},
	}
}
