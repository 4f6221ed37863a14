package shapes

import (
	"github.com/JRackFatWalrus/clashlings/internal/catalog"
)

// Counts holds a number per shape kind. It is used both for the shapes a
// player owns in their shape zone and for how many of them were spent this
// turn. A missing key counts as zero.
type Counts map[catalog.ShapeKind]int

// Tally counts the given shape kinds.
func Tally(kinds []catalog.ShapeKind) Counts {
	c := make(Counts, len(catalog.ShapeKinds))
	for _, k := range kinds {
		c[k]++
	}
	return c
}

// Copy returns an independent copy of c. A nil receiver yields an empty map.
func (c Counts) Copy() Counts {
	out := make(Counts, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Total returns the sum over every kind.
func (c Counts) Total() int {
	total := 0
	for _, v := range c {
		total += v
	}
	return total
}

// remaining is the unspent part of one pool, never negative.
func remaining(owned, used Counts, kind catalog.ShapeKind) int {
	if n := owned[kind] - used[kind]; n > 0 {
		return n
	}
	return 0
}

// AvailableCount returns how many units can still pay for a cost of the
// given kind: the unspent specific pool plus the unspent wildcard pool. When
// kind is the wildcard itself only its own pool counts.
func AvailableCount(owned Counts, kind catalog.ShapeKind, used Counts) int {
	if kind == catalog.Wildcard {
		return remaining(owned, used, kind)
	}
	return remaining(owned, used, kind) + remaining(owned, used, catalog.Wildcard)
}

// CanAfford reports whether the creature's cost can be paid from owned
// given what was already spent.
func CanAfford(c *catalog.Creature, owned, used Counts) bool {
	if c == nil {
		return false
	}
	return AvailableCount(owned, c.Shape, used) >= c.Cost
}

// Spend pays cost units of kind, taking from the specific pool first and
// the wildcard pool for the remainder. It returns a new usage map and never
// raises a pool above its owned count; an unaffordable remainder is dropped.
// Callers check CanAfford first.
func Spend(owned, used Counts, kind catalog.ShapeKind, cost int) Counts {
	next := used.Copy()
	if cost <= 0 {
		return next
	}

	fromKind := min(cost, remaining(owned, used, kind))
	next[kind] += fromKind
	rest := cost - fromKind
	if rest == 0 || kind == catalog.Wildcard {
		return next
	}

	next[catalog.Wildcard] += min(rest, remaining(owned, used, catalog.Wildcard))
	return next
}
