package rules

import (
	"slices"
	"sync"
	"time"
)

// EventType indicates the category of a game event.
type EventType string

const (
	EventTurnPassed        EventType = "TURN_PASSED"
	EventPhaseChanged      EventType = "PHASE_CHANGED"
	EventCardDrawn         EventType = "CARD_DRAWN"
	EventShapePlayed       EventType = "SHAPE_PLAYED"
	EventCreaturePlayed    EventType = "CREATURE_PLAYED"
	EventItemPlayed        EventType = "ITEM_PLAYED"
	EventCreatureReturned  EventType = "CREATURE_RETURNED"
	EventAttackersDeclared EventType = "ATTACKERS_DECLARED"
	EventBlockAssigned     EventType = "BLOCK_ASSIGNED"
	EventCombatResolved    EventType = "COMBAT_RESOLVED"
	EventCreatureDestroyed EventType = "CREATURE_DESTROYED"
	EventHeartsChanged     EventType = "HEARTS_CHANGED"
	EventShieldUsed        EventType = "SHIELD_USED"
	EventGameOver          EventType = "GAME_OVER"
)

// IsCombat reports whether the event belongs to combat resolution.
func (et EventType) IsCombat() bool {
	switch et {
	case EventAttackersDeclared, EventBlockAssigned, EventCombatResolved, EventCreatureDestroyed, EventShieldUsed:
		return true
	}
	return false
}

// Event describes one change to a game.
type Event struct {
	Type        EventType
	TargetID    string // card instance the event is about, if any
	SourceID    string // card instance that caused it, if any
	PlayerID    string // seat the event belongs to
	Amount      int
	Data        string
	Timestamp   time.Time
	Description string
}

// Listener reacts to a published event.
type Listener func(Event)

// subscription is one registered listener. An empty eventType receives
// every event.
type subscription struct {
	handle    int
	eventType EventType
	listener  Listener
}

// EventBus delivers events synchronously to listeners in the order they
// subscribed.
type EventBus struct {
	mu     sync.RWMutex
	subs   []subscription
	nextID int
}

// NewEventBus returns an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{}
}

func (bus *EventBus) add(eventType EventType, listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.nextID++
	bus.subs = append(bus.subs, subscription{handle: bus.nextID, eventType: eventType, listener: listener})
	return bus.nextID
}

// Subscribe registers a listener for all events and returns its handle, or
// -1 for a nil listener.
func (bus *EventBus) Subscribe(listener Listener) int {
	return bus.add("", listener)
}

// SubscribeTyped registers a listener for one event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, callback func(Event)) int {
	if callback == nil {
		return -1
	}
	return bus.add(eventType, callback)
}

// Unsubscribe removes the listener with the given handle.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.subs = slices.DeleteFunc(bus.subs, func(sub subscription) bool {
		return sub.handle == handle
	})
}

// Publish delivers event to every matching listener. Listeners run after the
// bus lock is released, so they may subscribe or unsubscribe.
func (bus *EventBus) Publish(event Event) {
	bus.mu.RLock()
	subs := slices.Clone(bus.subs)
	bus.mu.RUnlock()

	for _, sub := range subs {
		if sub.eventType == "" || sub.eventType == event.Type {
			sub.listener(event)
		}
	}
}

// PublishBatch publishes events in order.
func (bus *EventBus) PublishBatch(events []Event) {
	for _, event := range events {
		bus.Publish(event)
	}
}

// NewEvent stamps an event with the current time.
func NewEvent(eventType EventType, targetID, sourceID, playerID string) Event {
	return Event{
		Type:      eventType,
		TargetID:  targetID,
		SourceID:  sourceID,
		PlayerID:  playerID,
		Timestamp: time.Now(),
	}
}

// NewEventWithAmount is NewEvent with Amount set.
func NewEventWithAmount(eventType EventType, targetID, sourceID, playerID string, amount int) Event {
	evt := NewEvent(eventType, targetID, sourceID, playerID)
	evt.Amount = amount
	return evt
}
