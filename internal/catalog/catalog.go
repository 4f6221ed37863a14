package catalog

import (
	"fmt"
	"sync"
)

// Catalog maps card ids to immutable cards. It is safe for concurrent reads
// once built.
type Catalog struct {
	cards map[string]Card
	order []string
}

// New builds a catalog from the given cards. Duplicate ids and invalid
// variants are rejected.
func New(cards ...Card) (*Catalog, error) {
	c := &Catalog{
		cards: make(map[string]Card, len(cards)),
		order: make([]string, 0, len(cards)),
	}
	for _, card := range cards {
		if err := Validate(card); err != nil {
			return nil, err
		}
		id := card.CardID()
		if _, exists := c.cards[id]; exists {
			return nil, fmt.Errorf("duplicate card id %q", id)
		}
		c.cards[id] = card
		c.order = append(c.order, id)
	}
	return c, nil
}

// Get returns the card with the given id.
func (c *Catalog) Get(id string) (Card, bool) {
	card, ok := c.cards[id]
	return card, ok
}

// Creature returns the creature with the given id.
func (c *Catalog) Creature(id string) (*Creature, bool) {
	card, ok := c.cards[id]
	if !ok {
		return nil, false
	}
	return AsCreature(card)
}

// Len returns the number of cards in the catalog.
func (c *Catalog) Len() int {
	return len(c.order)
}

// All returns every card in insertion order.
func (c *Catalog) All() []Card {
	out := make([]Card, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.cards[id])
	}
	return out
}

// Creatures returns every creature in insertion order.
func (c *Catalog) Creatures() []*Creature {
	var out []*Creature
	for _, id := range c.order {
		if cr, ok := AsCreature(c.cards[id]); ok {
			out = append(out, cr)
		}
	}
	return out
}

// ByKind returns every card of the given variant in insertion order.
func (c *Catalog) ByKind(kind Kind) []Card {
	var out []Card
	for _, id := range c.order {
		if card := c.cards[id]; card.Kind() == kind {
			out = append(out, card)
		}
	}
	return out
}

var (
	builtinOnce sync.Once
	builtin     *Catalog
)

// Builtin returns the catalog shipped with the game.
func Builtin() *Catalog {
	builtinOnce.Do(func() {
		cat, err := New(builtinCards()...)
		if err != nil {
			panic(fmt.Sprintf("builtin catalog: %v", err))
		}
		builtin = cat
	})
	return builtin
}
