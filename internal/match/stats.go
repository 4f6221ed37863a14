package match

import (
	"github.com/JRackFatWalrus/clashlings/internal/game"
	"github.com/JRackFatWalrus/clashlings/internal/game/rules"
)

// PlayerStats counts what one seat did during a match.
type PlayerStats struct {
	CardsDrawn      int `json:"cards_drawn"`
	ShapesPlayed    int `json:"shapes_played"`
	CreaturesPlayed int `json:"creatures_played"`
	ItemsPlayed     int `json:"items_played"`
	Attacks         int `json:"attacks"`
	CreaturesLost   int `json:"creatures_lost"`
	HeartsLost      int `json:"hearts_lost"`
	HeartsHealed    int `json:"hearts_healed"`
}

// statsWatcher accumulates PlayerStats for one seat from match events.
type statsWatcher struct {
	*rules.BaseWatcher
	hearts int
	stats  PlayerStats
}

func newStatsWatcher(seat game.Seat) *statsWatcher {
	w := &statsWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopePlayer, seat.String()),
		hearts:      game.MaxHearts,
	}
	w.SetKey(seat.String() + "_stats")
	return w
}

func (w *statsWatcher) Watch(event rules.Event) {
	if !w.Follows(event) {
		return
	}
	switch event.Type {
	case rules.EventCardDrawn:
		w.stats.CardsDrawn++
	case rules.EventShapePlayed:
		w.stats.ShapesPlayed++
	case rules.EventCreaturePlayed:
		w.stats.CreaturesPlayed++
	case rules.EventItemPlayed:
		w.stats.ItemsPlayed++
	case rules.EventCombatResolved:
		w.stats.Attacks++
	case rules.EventCreatureDestroyed:
		w.stats.CreaturesLost++
	case rules.EventHeartsChanged:
		if delta := event.Amount - w.hearts; delta < 0 {
			w.stats.HeartsLost -= delta
		} else {
			w.stats.HeartsHealed += delta
		}
		w.hearts = event.Amount
	}
}

func (w *statsWatcher) Reset() {
	w.hearts = game.MaxHearts
	w.stats = PlayerStats{}
}
