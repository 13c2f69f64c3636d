// Package events provides the in-process notifier that keeps
// independently mounted views of the hotel state consistent. Publishers
// write the store first, then emit the full replacement collection;
// subscribers replace their local state with the payload. Delivery is
// synchronous, in subscription order, and scoped to this process.
package events

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
)

// Topic identifies a state-change notification. The set is closed;
// ad hoc topic strings are how the original product grew a silently
// mismatched event name.
type Topic string

const (
	TopicArrivalsUpdated        Topic = "arrivalsUpdated"
	TopicInHouseUpdated         Topic = "inHouseUpdated"
	TopicCheckoutUpdated        Topic = "checkoutUpdated"
	TopicPendingRequestsUpdated Topic = "pendingRequestsUpdated"
)

// Event is a published notification. Payload is the serialized full
// replacement collection, so every subscriber works on its own copy
// rather than aliasing the publisher's slice.
type Event struct {
	Topic   Topic           `json:"topic"`
	Payload json.RawMessage `json:"payload"`
}

// Decode unmarshals the payload into dest.
func (e Event) Decode(dest interface{}) error {
	return json.Unmarshal(e.Payload, dest)
}

// Handler receives published events.
type Handler func(Event)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus is the event bus. The zero value is not usable; construct with New.
type Bus struct {
	logger *logrus.Logger

	mu     sync.RWMutex
	nextID uint64
	topics map[Topic][]subscription
	all    []subscription
}

// New creates an empty bus.
func New(logger *logrus.Logger) *Bus {
	return &Bus{
		logger: logger,
		topics: make(map[Topic][]subscription),
	}
}

// Subscribe registers handler for one topic and returns its disposer.
// Handlers fire in subscription order. The disposer is idempotent and
// must be called when the subscriber goes away.
func (b *Bus) Subscribe(topic Topic, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.topics[topic] = append(b.topics[topic], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.topics[topic] = remove(b.topics[topic], id)
	}
}

// SubscribeAll registers handler for every topic. Used by the admin
// event stream.
func (b *Bus) SubscribeAll(handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.all = append(b.all, subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.all = remove(b.all, id)
	}
}

// Emit serializes payload and synchronously notifies every subscriber of
// topic, then every catch-all subscriber. Emitting with no subscribers
// is a no-op.
func (b *Bus) Emit(topic Topic, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	evt := Event{Topic: topic, Payload: raw}

	b.mu.RLock()
	subs := make([]subscription, 0, len(b.topics[topic])+len(b.all))
	subs = append(subs, b.topics[topic]...)
	subs = append(subs, b.all...)
	b.mu.RUnlock()

	b.logger.WithFields(logrus.Fields{
		"topic":       topic,
		"subscribers": len(subs),
	}).Debug("Emitting event")

	for _, sub := range subs {
		sub.handler(evt)
	}
	return nil
}

func remove(subs []subscription, id uint64) []subscription {
	for i, sub := range subs {
		if sub.id == id {
			return append(subs[:i:i], subs[i+1:]...)
		}
	}
	return subs
}
