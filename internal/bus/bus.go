// Package bus is the in-process event fanout between the services layer and
// the realtime API. Slow subscribers drop events rather than block
// publishers.
package bus

import (
	"log/slog"
	"sync"
	"time"
)

// EventType identifies what kind of event is being published.
type EventType string

const (
	EventMapState     EventType = "map_state"
	EventDeviceUpdate EventType = "device_update"
	EventAlert        EventType = "alert"
	EventLog          EventType = "log"
	EventLocation     EventType = "location"
	EventRoute        EventType = "route"
)

// Event is a published message with its payload.
type Event struct {
	Type    EventType   `json:"type"`
	At      time.Time   `json:"at"`
	Payload interface{} `json:"payload"`
}

// Bus fans events out to subscribers.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]chan Event
	logger *slog.Logger
}

// New creates an event bus.
func New(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subs:   make(map[int]chan Event),
		logger: logger,
	}
}

// Subscribe registers a subscriber and returns its channel plus a cancel
// function. The channel is closed on cancel.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber. Subscribers with full
// buffers miss the event.
func (b *Bus) Publish(eventType EventType, payload interface{}) {
	event := Event{Type: eventType, At: time.Now(), Payload: payload}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subs {
		select {
		case ch <- event:
		default:
			b.logger.Warn("dropping event for slow subscriber", "subscriber", id, "type", eventType)
		}
	}
}

// SubscriberCount returns the number of active subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
