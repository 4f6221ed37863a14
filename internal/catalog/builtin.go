package catalog

import "fmt"

// FactionColors is the display color for creatures of each shape.
var FactionColors = map[ShapeKind]string{
	Circle:   "Green",
	Square:   "Red",
	Triangle: "Gold",
	Star:     "Blue",
	Diamond:  "Prismatic",
}

var factionAbility = map[ShapeKind]Ability{
	Star:     AbilityFly,
	Square:   AbilityBig,
	Triangle: AbilityFast,
	Circle:   AbilityGuard,
	Diamond:  AbilityNone,
}

var factionPrefix = map[ShapeKind]string{
	Star:     "fly",
	Square:   "big",
	Triangle: "fast",
	Circle:   "grd",
	Diamond:  "dia",
}

// variant generation walks shapes in this order
var variantShapes = []ShapeKind{Star, Square, Triangle, Circle, Diamond}

var diamondAbilityCycle = []Ability{AbilityFast, AbilityFly, AbilityBig, AbilityGuard}

// RarityForStrength derives a creature's rarity from its strength.
func RarityForStrength(strength int) Rarity {
	switch {
	case strength >= 9:
		return Mythic
	case strength >= 7:
		return Rare
	case strength >= 4:
		return Uncommon
	default:
		return Common
	}
}

// CostForStrength derives a creature's shape cost from its strength.
func CostForStrength(strength int) int {
	switch {
	case strength >= 7:
		return 3
	case strength >= 4:
		return 2
	default:
		return 1
	}
}

func creature(id, base string, strength, cost int, shape ShapeKind, ability Ability) *Creature {
	return &Creature{
		ID:           id,
		Name:         FactionColors[shape] + " " + capitalize(base),
		BaseCreature: base,
		Color:        FactionColors[shape],
		Strength:     strength,
		Cost:         cost,
		Shape:        shape,
		Ability:      ability,
		Rarity:       RarityForStrength(strength),
	}
}

// IDs of the base creatures never change.
func baseCreatures() []*Creature {
	return []*Creature{
		creature("fly-bug", "bug", 1, 1, Star, AbilityFly),
		creature("fly-bee", "bee", 2, 1, Star, AbilityFly),
		creature("fly-bat", "bat", 3, 1, Star, AbilityFly),
		creature("fly-jay", "jay", 4, 2, Star, AbilityFly),
		creature("fly-owl", "owl", 4, 2, Star, AbilityFly),
		creature("fly-crow", "crow", 5, 2, Star, AbilityFly),
		creature("fly-dove", "dove", 5, 2, Star, AbilityFly),
		creature("fly-hawk", "hawk", 6, 2, Star, AbilityFly),
		creature("fly-eagle", "eagle", 7, 3, Star, AbilityFly),
		creature("fly-swan", "swan", 8, 3, Star, AbilityFly),
		creature("fly-phoenix", "phoenix", 9, 3, Star, AbilityFly),
		creature("fly-dragon", "dragon", 10, 3, Star, AbilityFly),

		creature("big-pig", "pig", 1, 1, Square, AbilityBig),
		creature("big-ram", "ram", 2, 1, Square, AbilityBig),
		creature("big-cow", "cow", 3, 1, Square, AbilityBig),
		creature("big-yak", "yak", 4, 2, Square, AbilityBig),
		creature("big-bear", "bear", 5, 2, Square, AbilityBig),
		creature("big-moose", "moose", 5, 2, Square, AbilityBig),
		creature("big-rhino", "rhino", 6, 2, Square, AbilityBig),
		creature("big-hippo", "hippo", 7, 3, Square, AbilityBig),
		creature("big-gorilla", "gorilla", 8, 3, Square, AbilityBig),
		creature("big-elephant", "elephant", 9, 3, Square, AbilityBig),
		creature("big-whale", "whale", 10, 3, Square, AbilityBig),

		creature("fast-ant", "ant", 1, 1, Triangle, AbilityFast),
		creature("fast-mouse", "mouse", 2, 1, Triangle, AbilityFast),
		creature("fast-fox", "fox", 3, 1, Triangle, AbilityFast),
		creature("fast-hare", "hare", 4, 2, Triangle, AbilityFast),
		creature("fast-deer", "deer", 4, 2, Triangle, AbilityFast),
		creature("fast-horse", "horse", 5, 2, Triangle, AbilityFast),
		creature("fast-wolf", "wolf", 6, 2, Triangle, AbilityFast),
		creature("fast-puma", "puma", 7, 3, Triangle, AbilityFast),
		creature("fast-tiger", "tiger", 8, 3, Triangle, AbilityFast),
		creature("fast-cheetah", "cheetah", 9, 3, Triangle, AbilityFast),
		creature("fast-lion", "lion", 10, 3, Triangle, AbilityFast),

		creature("grd-worm", "worm", 1, 1, Circle, AbilityGuard),
		creature("grd-hen", "hen", 2, 1, Circle, AbilityGuard),
		creature("grd-cat", "cat", 3, 1, Circle, AbilityGuard),
		creature("grd-dog", "dog", 4, 2, Circle, AbilityGuard),
		creature("grd-duck", "duck", 4, 2, Circle, AbilityGuard),
		creature("grd-goat", "goat", 5, 2, Circle, AbilityGuard),
		creature("grd-pony", "pony", 6, 2, Circle, AbilityGuard),
		creature("grd-seal", "seal", 7, 3, Circle, AbilityGuard),
		creature("grd-croc", "croc", 8, 3, Circle, AbilityGuard),
		creature("grd-dino", "dino", 9, 3, Circle, AbilityGuard),
		creature("grd-rex", "rex", 10, 3, Circle, AbilityGuard),

		creature("dia-frog", "frog", 2, 1, Diamond, AbilityFast),
		creature("dia-fish", "fish", 3, 1, Diamond, AbilityFly),
		creature("dia-panda", "panda", 5, 2, Diamond, AbilityBig),
		creature("dia-turtle", "turtle", 4, 2, Diamond, AbilityGuard),
		creature("dia-unicorn", "unicorn", 7, 3, Diamond, AbilityFly),
		creature("dia-griffin", "griffin", 8, 3, Diamond, AbilityFast),
	}
}

// variantCreatures re-creates every base species in each faction it
// does not already belong to. Diamond variants cycle through the four
// abilities.
func variantCreatures(bases []*Creature) []*Creature {
	existing := make(map[string]bool, len(bases))
	for _, c := range bases {
		existing[string(c.Shape)+"-"+c.BaseCreature] = true
	}

	var variants []*Creature
	diamondIdx := 0
	for _, base := range bases {
		for _, shape := range variantShapes {
			key := string(shape) + "-" + base.BaseCreature
			if existing[key] {
				continue
			}
			ability := factionAbility[shape]
			if shape == Diamond {
				ability = diamondAbilityCycle[diamondIdx%len(diamondAbilityCycle)]
				diamondIdx++
			}
			id := fmt.Sprintf("v-%s-%s", factionPrefix[shape], base.BaseCreature)
			variants = append(variants, creature(id, base.BaseCreature, base.Strength, CostForStrength(base.Strength), shape, ability))
			existing[key] = true
		}
	}
	return variants
}

func itemCards() []*Item {
	return []*Item{
		{ID: "item-shield", Name: "Shield", Effect: EffectShield, Description: "Block 1 damage next attack", Rarity: Uncommon},
		{ID: "item-heal", Name: "Heal", Effect: EffectHeal, Description: "Gain 1 heart", Rarity: Uncommon},
		{ID: "item-boost", Name: "Boost", Effect: EffectBoost, Description: "+2 power this turn", Rarity: Rare},
		{ID: "item-swap", Name: "Swap", Effect: EffectSwap, Description: "Return a creature to hand", Rarity: Rare},
	}
}

func shapeCards() []*Shape {
	out := make([]*Shape, 0, len(ShapeKinds))
	for _, s := range ShapeKinds {
		out = append(out, &Shape{
			ID:     "shape-" + string(s),
			Name:   capitalize(string(s)),
			Shape:  s,
			Rarity: Common,
		})
	}
	return out
}

func builtinCards() []Card {
	bases := baseCreatures()
	var cards []Card
	for _, c := range bases {
		cards = append(cards, c)
	}
	for _, c := range variantCreatures(bases) {
		cards = append(cards, c)
	}
	for _, s := range shapeCards() {
		cards = append(cards, s)
	}
	for _, it := range itemCards() {
		cards = append(cards, it)
	}
	return cards
}
