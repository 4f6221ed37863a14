package match

import "sort"

// Record is the human's result tally with one deck.
type Record struct {
	DeckID string `json:"deck_id"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
}

// Games returns the number of finished matches.
func (r Record) Games() int {
	return r.Wins + r.Losses
}

func (m *Manager) recordResult(deckID string, won bool) {
	m.scoreMu.Lock()
	defer m.scoreMu.Unlock()

	rec, ok := m.scores[deckID]
	if !ok {
		rec = &Record{DeckID: deckID}
		m.scores[deckID] = rec
	}
	if won {
		rec.Wins++
	} else {
		rec.Losses++
	}
}

// Scoreboard returns the human's record per deck, best win count first.
func (m *Manager) Scoreboard() []Record {
	m.scoreMu.Lock()
	defer m.scoreMu.Unlock()

	records := make([]Record, 0, len(m.scores))
	for _, rec := range m.scores {
		records = append(records, *rec)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Wins != records[j].Wins {
			return records[i].Wins > records[j].Wins
		}
		return records[i].DeckID < records[j].DeckID
	})
	return records
}
