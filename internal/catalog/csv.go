package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// csvColumns are the header names ReadCSV understands. Only id, kind and
// name are required.
var csvColumns = []string{
	"id", "kind", "name", "base_creature", "color", "strength", "cost",
	"shape", "ability", "effect", "description", "rarity",
}

// ReadCSV parses card rows from a CSV export with a header line. Columns may
// appear in any order.
func ReadCSV(r io.Reader) ([]Card, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv has no header")
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"id", "kind", "name"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("csv header is missing %q", required)
		}
	}
	for name := range index {
		if !knownColumn(name) {
			return nil, fmt.Errorf("csv header has unknown column %q", name)
		}
	}

	var cards []Card
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		field := func(name string) string {
			if i, ok := index[name]; ok && i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}
		rec := Record{
			ID:           field("id"),
			Kind:         field("kind"),
			Name:         field("name"),
			BaseCreature: field("base_creature"),
			Color:        field("color"),
			Shape:        field("shape"),
			Ability:      field("ability"),
			Effect:       field("effect"),
			Description:  field("description"),
			Rarity:       field("rarity"),
		}
		if rec.Strength, err = atoiOrZero(field("strength")); err != nil {
			return nil, fmt.Errorf("csv line %d: strength: %w", line, err)
		}
		if rec.Cost, err = atoiOrZero(field("cost")); err != nil {
			return nil, fmt.Errorf("csv line %d: cost: %w", line, err)
		}
		if rec.Kind == string(KindCreature) {
			if rec.Rarity == "" {
				rec.Rarity = string(RarityForStrength(rec.Strength))
			}
			if rec.Cost == 0 {
				rec.Cost = CostForStrength(rec.Strength)
			}
			if rec.Ability == "" {
				rec.Ability = string(AbilityNone)
			}
		}
		if rec.Rarity == "" {
			rec.Rarity = string(Common)
		}

		card, err := rec.Card()
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func knownColumn(name string) bool {
	for _, c := range csvColumns {
		if c == name {
			return true
		}
	}
	return false
}

func atoiOrZero(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
