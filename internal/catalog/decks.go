package catalog

// DeckDefinition is an ordered list of card ids. Duplicates are allowed.
type DeckDefinition struct {
	ID          string   `json:"id" mapstructure:"id"`
	Name        string   `json:"name" mapstructure:"name"`
	Description string   `json:"description" mapstructure:"description"`
	CardIDs     []string `json:"card_ids" mapstructure:"card_ids"`
}

func repeat(id string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = id
	}
	return out
}

func concat(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Each starter deck has 15 shapes, a faction core with one rare headliner,
// off-faction support and one or two items.
var (
	SkyPack = DeckDefinition{
		ID:          "sky-pack",
		Name:        "Sky Pack",
		Description: "Soar above the battlefield. Only Fly creatures can block your attackers.",
		CardIDs: concat(
			repeat("shape-star", 12),
			repeat("shape-diamond", 3),
			[]string{
				"fly-bug", "fly-bug", "fly-bee", "fly-bee",
				"fly-bat", "fly-bat",
				"fly-jay", "fly-owl",
				"fly-crow", "fly-dove",
				"fly-hawk", "fly-hawk",
				"fly-eagle",
				"fast-ant", "fast-mouse", "fast-fox",
				"grd-worm", "grd-hen", "grd-cat", "grd-dog",
				"dia-fish",
				"item-shield",
			},
		),
	}

	StompPack = DeckDefinition{
		ID:          "stomp-pack",
		Name:        "Stomp Pack",
		Description: "Overwhelming power. Tramples through blockers for direct heart damage.",
		CardIDs: concat(
			repeat("shape-square", 12),
			repeat("shape-diamond", 3),
			[]string{
				"big-pig", "big-pig", "big-ram", "big-ram",
				"big-cow", "big-cow",
				"big-yak", "big-bear",
				"big-moose", "big-rhino",
				"big-hippo", "big-hippo",
				"grd-worm", "grd-hen", "grd-cat", "grd-dog",
				"fly-bug", "fly-bee", "fly-bat",
				"dia-panda",
				"item-boost",
			},
		),
	}

	DashPack = DeckDefinition{
		ID:          "dash-pack",
		Name:        "Dash Pack",
		Description: "Speed kills. Attacks immediately and wins every tie in combat.",
		CardIDs: concat(
			repeat("shape-triangle", 12),
			repeat("shape-diamond", 3),
			[]string{
				"fast-ant", "fast-ant", "fast-mouse", "fast-mouse",
				"fast-fox", "fast-fox",
				"fast-hare", "fast-deer",
				"fast-horse", "fast-wolf",
				"fast-puma", "fast-puma",
				"fly-bug", "fly-bee", "fly-bat",
				"big-pig", "big-ram", "big-cow",
				"grd-worm",
				"dia-frog",
				"item-boost",
			},
		),
	}

	ShieldPack = DeckDefinition{
		ID:          "shield-pack",
		Name:        "Shield Pack",
		Description: "An impenetrable wall. Enemies must attack your Guard creatures first.",
		CardIDs: concat(
			repeat("shape-circle", 12),
			repeat("shape-diamond", 3),
			[]string{
				"grd-worm", "grd-worm", "grd-hen", "grd-hen",
				"grd-cat", "grd-cat",
				"grd-dog", "grd-duck",
				"grd-goat", "grd-pony",
				"grd-seal", "grd-seal",
				"fast-ant", "fast-mouse", "fast-fox",
				"big-pig", "big-ram", "big-cow",
				"fly-bug",
				"dia-turtle",
				"item-heal",
			},
		),
	}

	WildPack = DeckDefinition{
		ID:          "wild-pack",
		Name:        "Wild Pack",
		Description: "Unpredictable and versatile. Every faction, every trick, no weakness.",
		CardIDs: concat(
			repeat("shape-circle", 3),
			repeat("shape-square", 3),
			repeat("shape-triangle", 3),
			repeat("shape-star", 3),
			repeat("shape-diamond", 3),
			[]string{
				"fly-bee", "fly-bat", "fly-jay", "fly-crow", "fly-hawk",
				"big-ram", "big-cow", "big-yak", "big-bear", "big-rhino",
				"fast-mouse", "fast-fox", "fast-hare", "fast-horse",
				"grd-hen", "grd-cat", "grd-dog", "grd-goat",
				"dia-frog", "dia-turtle",
				"item-shield", "item-heal",
			},
		),
	}
)

// StarterDecks lists the decks available without a collection.
var StarterDecks = []DeckDefinition{SkyPack, StompPack, DashPack, ShieldPack, WildPack}

// StarterDeck returns the starter deck with the given id.
func StarterDeck(id string) (DeckDefinition, bool) {
	for _, d := range StarterDecks {
		if d.ID == id {
			return d, true
		}
	}
	return DeckDefinition{}, false
}

// RandomStarterDeck picks a starter deck using rng.
func RandomStarterDeck(rng RNG) DeckDefinition {
	return StarterDecks[rng.Intn(len(StarterDecks))]
}

// Resolve maps a deck's ids to catalog cards, skipping ids the catalog does
// not know. The returned slice is in deck order.
func (c *Catalog) Resolve(def DeckDefinition) (cards []Card, missing []string) {
	for _, id := range def.CardIDs {
		card, ok := c.Get(id)
		if !ok {
			missing = append(missing, id)
			continue
		}
		cards = append(cards, card)
	}
	return cards, missing
}
