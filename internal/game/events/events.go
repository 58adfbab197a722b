// Package events provides a synchronous publish/subscribe bus for game
// state changes. Triggered abilities and the server driver subscribe to
// it; the rules engine publishes.
package events

import (
	"sync"
	"time"
)

// EventType indicates the category of a game event.
type EventType string

const (
	EventTap         EventType = "TAP"
	EventUntap       EventType = "UNTAP"
	EventDrawCard    EventType = "DRAW_CARD"
	EventStepChanged EventType = "STEP_CHANGED"
	EventTurnStarted EventType = "TURN_STARTED"

	EventCastSpell        EventType = "CAST_SPELL"
	EventActivatedAbility EventType = "ACTIVATED_ABILITY"
	EventStackResolved    EventType = "STACK_RESOLVED"

	EventZoneChange    EventType = "ZONE_CHANGE"
	EventDamagedPlayer EventType = "DAMAGED_PLAYER"
	EventLifeChanged   EventType = "LIFE_CHANGED"
	EventPermanentDied EventType = "PERMANENT_DIED"

	EventDeclaredAttacker EventType = "DECLARED_ATTACKER"
	EventDeclaredBlocker  EventType = "DECLARED_BLOCKER"

	EventGameOver EventType = "GAME_OVER"
)

// Event represents a state change that other subsystems may react to.
// Object and player references are plain engine IDs so the bus stays
// decoupled from the game package.
type Event struct {
	Type      EventType
	Player    int    // owning or affected player
	Card      int    // primary object (0 = none)
	Source    int    // object that caused the change (0 = none)
	Amount    int    // damage, life delta, cards drawn
	Step      string // populated for STEP_CHANGED
	Timestamp time.Time
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

// TypedListener defines a callback that reacts to a specific event type.
type TypedListener struct {
	Handle    int
	EventType EventType
	Callback  func(Event)
}

// Bus provides a synchronous publish/subscribe implementation with type
// filtering. Delivery happens on the publisher's goroutine, in
// subscription order per type.
type Bus struct {
	mu             sync.RWMutex
	listeners      map[int]Listener
	typedListeners map[EventType][]TypedListener
	nextHandle     int
}

// NewBus constructs a fresh event bus instance.
func NewBus() *Bus {
	return &Bus{
		listeners:      make(map[int]Listener),
		typedListeners: make(map[EventType][]TypedListener),
	}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *Bus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners[handle] = listener
	return handle
}

// SubscribeTyped registers a listener for a specific event type.
func (bus *Bus) SubscribeTyped(eventType EventType, callback func(Event)) int {
	if callback == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.typedListeners[eventType] = append(bus.typedListeners[eventType], TypedListener{
		Handle:    handle,
		EventType: eventType,
		Callback:  callback,
	})
	return handle
}

// Unsubscribe removes the listener identified by the provided handle,
// whether it was registered globally or for a single type.
func (bus *Bus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.listeners, handle)
	for eventType, listeners := range bus.typedListeners {
		for i := len(listeners) - 1; i >= 0; i-- {
			if listeners[i].Handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i], listeners[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers the event to all registered listeners synchronously.
func (bus *Bus) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	bus.mu.RLock()
	defer bus.mu.RUnlock()

	for _, listener := range bus.listeners {
		listener(event)
	}
	for _, listener := range bus.typedListeners[event.Type] {
		listener.Callback(event)
	}
}
