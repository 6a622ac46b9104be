package events

import (
	"encoding/json"
	"errors"
	"sync"
	"time"
)

// EventBookingsChanged fires when a product's bookings, stock or price change.
const EventBookingsChanged = "bookings.changed"

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// BookingsChanged is the payload of EventBookingsChanged.
type BookingsChanged struct {
	ProductID int64  `json:"product_id"`
	Reason    string `json:"reason"`
}

// NewBookingsChanged builds an EventBookingsChanged event.
func NewBookingsChanged(productID int64, reason string) Event {
	return Event{
		Type:      EventBookingsChanged,
		Payload:   mustMarshal(BookingsChanged{ProductID: productID, Reason: reason}),
		CreatedAt: time.Now(),
	}
}

// mustMarshal encodes payloads built from plain fields; an error there is a programming bug.
func mustMarshal(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic("events: marshal payload: " + err.Error())
	}
	return data
}

// DecodeBookingsChanged reads the payload of an EventBookingsChanged event.
func DecodeBookingsChanged(e Event) (BookingsChanged, error) {
	var p BookingsChanged
	if e.Type != EventBookingsChanged {
		return p, errors.New("unexpected event type " + e.Type)
	}
	err := json.Unmarshal(e.Payload, &p)
	return p, err
}

// EventHandler reacts to an event.
type EventHandler func(event Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish runs the subscribers of the event type synchronously and joins their errors.
func (b *EventBus) Publish(event Event) error {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
