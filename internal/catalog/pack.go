package catalog

// RNG is the entropy source for shuffles and pack rolls. *rand.Rand
// satisfies it.
type RNG interface {
	Intn(n int) int
}

// Shuffle returns a Fisher–Yates shuffled copy of items.
func Shuffle[T any](items []T, rng RNG) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// PackSize is the number of cards in a booster pack.
const PackSize = 15

// roll returns true with probability permille/1000.
func roll(rng RNG, permille int) bool {
	return rng.Intn(1000) < permille
}

func drawUnique(pool []Card, count int, used map[string]bool) []Card {
	var out []Card
	for _, card := range pool {
		if len(out) >= count {
			break
		}
		if !used[card.CardID()] {
			out = append(out, card)
			used[card.CardID()] = true
		}
	}
	return out
}

func creaturesOfRarity(c *Catalog, r Rarity) []Card {
	var out []Card
	for _, cr := range c.Creatures() {
		if cr.Rarity == r {
			out = append(out, cr)
		}
	}
	return out
}

// GenerateBoosterPack builds a 15-card pack from the catalog: five shapes,
// a guaranteed rare (one in eight upgraded to mythic), a wild slot, two
// uncommons (one may be an item) and six commons. A creature appears at
// most once per pack.
func GenerateBoosterPack(c *Catalog, rng RNG) []Card {
	commons := Shuffle(creaturesOfRarity(c, Common), rng)
	uncommons := Shuffle(creaturesOfRarity(c, Uncommon), rng)
	rares := Shuffle(creaturesOfRarity(c, Rare), rng)
	mythics := Shuffle(creaturesOfRarity(c, Mythic), rng)

	used := make(map[string]bool)
	pack := make([]Card, 0, PackSize)

	shapes := Shuffle(c.ByKind(KindShape), rng)
	for i := 0; i < 5 && len(shapes) > 0; i++ {
		pack = append(pack, shapes[i%len(shapes)])
	}

	guaranteedPool := rares
	if roll(rng, 125) && len(mythics) > 0 {
		guaranteedPool = mythics
	}
	if guaranteed := drawUnique(guaranteedPool, 1, used); len(guaranteed) > 0 {
		pack = append(pack, guaranteed...)
	} else if len(rares) > 0 {
		pack = append(pack, drawUnique(rares, 1, used)...)
	} else {
		pack = append(pack, drawUnique(uncommons, 1, used)...)
	}

	wildPool := uncommons
	switch r := rng.Intn(1000); {
	case r < 50:
		wildPool = mythics
	case r < 300:
		wildPool = rares
	}
	if wild := drawUnique(Shuffle(wildPool, rng), 1, used); len(wild) > 0 {
		pack = append(pack, wild...)
	} else {
		pack = append(pack, drawUnique(Shuffle(uncommons, rng), 1, used)...)
	}

	uncommonSlots := 2
	if roll(rng, 200) {
		var items []Card
		for _, it := range c.ByKind(KindItem) {
			if it.CardRarity() == Uncommon {
				items = append(items, it)
			}
		}
		if len(items) > 0 {
			pack = append(pack, Shuffle(items, rng)[0])
			uncommonSlots = 1
		}
	}
	pack = append(pack, drawUnique(Shuffle(uncommons, rng), uncommonSlots, used)...)

	pack = append(pack, drawUnique(Shuffle(commons, rng), 6, used)...)

	return Shuffle(pack, rng)
}
