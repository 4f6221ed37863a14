package catalog

import (
	"fmt"
	"strings"
)

// Kind is the variant tag of a Card.
type Kind string

const (
	KindCreature Kind = "creature"
	KindShape    Kind = "shape"
	KindItem     Kind = "item"
)

// ShapeKind is one of the five resource kinds of the shape economy.
type ShapeKind string

const (
	Circle   ShapeKind = "circle"
	Square   ShapeKind = "square"
	Triangle ShapeKind = "triangle"
	Star     ShapeKind = "star"
	Diamond  ShapeKind = "diamond"
)

// Wildcard is the shape kind that can pay for any other kind's cost.
const Wildcard = Diamond

// ShapeKinds lists every shape kind in a stable order.
var ShapeKinds = []ShapeKind{Circle, Square, Triangle, Star, Diamond}

// Valid reports whether s is a known shape kind.
func (s ShapeKind) Valid() bool {
	switch s {
	case Circle, Square, Triangle, Star, Diamond:
		return true
	}
	return false
}

// Ability is the single keyword ability a creature may carry.
type Ability string

const (
	AbilityNone  Ability = "none"
	AbilityFast  Ability = "fast"
	AbilityBig   Ability = "big"
	AbilityFly   Ability = "fly"
	AbilityGuard Ability = "guard"
)

// ItemEffect identifies what an item card does when played.
type ItemEffect string

const (
	EffectShield ItemEffect = "shield"
	EffectHeal   ItemEffect = "heal"
	EffectBoost  ItemEffect = "boost"
	EffectSwap   ItemEffect = "swap"
)

// NeedsTarget reports whether the effect must name a creature on the
// player's own battlefield.
func (e ItemEffect) NeedsTarget() bool {
	return e == EffectBoost || e == EffectSwap
}

// Rarity of a card, used only by booster pack generation.
type Rarity string

const (
	Common   Rarity = "common"
	Uncommon Rarity = "uncommon"
	Rare     Rarity = "rare"
	Mythic   Rarity = "mythic"
)

// Card is an immutable catalog entry. The set of variants is closed:
// *Creature, *Shape and *Item.
type Card interface {
	CardID() string
	CardName() string
	CardRarity() Rarity
	Kind() Kind
	sealed()
}

// Creature is a card that can be played to the battlefield.
type Creature struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	BaseCreature string    `json:"base_creature"`
	Color        string    `json:"color"`
	Strength     int       `json:"strength"`
	Cost         int       `json:"cost"`
	Shape        ShapeKind `json:"shape"`
	Ability      Ability   `json:"ability"`
	Rarity       Rarity    `json:"rarity"`
}

// Shape is a resource card that is moved to the shape zone.
type Shape struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Shape  ShapeKind `json:"shape"`
	Rarity Rarity    `json:"rarity"`
}

// Item is a one-shot card consumed on play.
type Item struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Effect      ItemEffect `json:"effect"`
	Description string     `json:"description"`
	Rarity      Rarity     `json:"rarity"`
}

func (c *Creature) CardID() string     { return c.ID }
func (c *Creature) CardName() string   { return c.Name }
func (c *Creature) CardRarity() Rarity { return c.Rarity }
func (c *Creature) Kind() Kind         { return KindCreature }
func (c *Creature) sealed()            {}

func (c *Shape) CardID() string     { return c.ID }
func (c *Shape) CardName() string   { return c.Name }
func (c *Shape) CardRarity() Rarity { return c.Rarity }
func (c *Shape) Kind() Kind         { return KindShape }
func (c *Shape) sealed()            {}

func (c *Item) CardID() string     { return c.ID }
func (c *Item) CardName() string   { return c.Name }
func (c *Item) CardRarity() Rarity { return c.Rarity }
func (c *Item) Kind() Kind         { return KindItem }
func (c *Item) sealed()            {}

// Has reports whether the creature carries the given ability.
func (c *Creature) Has(a Ability) bool {
	return c != nil && c.Ability == a
}

// AsCreature returns the creature variant of c, if it is one.
func AsCreature(c Card) (*Creature, bool) {
	cr, ok := c.(*Creature)
	return cr, ok && cr != nil
}

// AsShape returns the shape variant of c, if it is one.
func AsShape(c Card) (*Shape, bool) {
	s, ok := c.(*Shape)
	return s, ok && s != nil
}

// AsItem returns the item variant of c, if it is one.
func AsItem(c Card) (*Item, bool) {
	it, ok := c.(*Item)
	return it, ok && it != nil
}

// Validate checks the variant-specific fields the engine depends on.
func Validate(c Card) error {
	switch v := c.(type) {
	case *Creature:
		if v.ID == "" {
			return fmt.Errorf("creature without id")
		}
		if v.Strength < 0 || v.Cost < 0 {
			return fmt.Errorf("creature %s: negative strength or cost", v.ID)
		}
		if !v.Shape.Valid() {
			return fmt.Errorf("creature %s: unknown shape %q", v.ID, v.Shape)
		}
		switch v.Ability {
		case AbilityNone, AbilityFast, AbilityBig, AbilityFly, AbilityGuard:
		default:
			return fmt.Errorf("creature %s: unknown ability %q", v.ID, v.Ability)
		}
	case *Shape:
		if v.ID == "" {
			return fmt.Errorf("shape without id")
		}
		if !v.Shape.Valid() {
			return fmt.Errorf("shape %s: unknown shape %q", v.ID, v.Shape)
		}
	case *Item:
		if v.ID == "" {
			return fmt.Errorf("item without id")
		}
		switch v.Effect {
		case EffectShield, EffectHeal, EffectBoost, EffectSwap:
		default:
			return fmt.Errorf("item %s: unknown effect %q", v.ID, v.Effect)
		}
	case nil:
		return fmt.Errorf("nil card")
	default:
		return fmt.Errorf("unsupported card variant %T", c)
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
