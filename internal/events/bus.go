// Package events implements the in-process change-notification bus.
// Repositories publish a topic after every successful mutation; views and
// other listeners re-read through the repositories when notified. Delivery
// is synchronous, process-lifetime only, and carries no payload.
package events

import "sync"

type Topic string

const (
	TopicPatientsChanged     Topic = "patients:changed"
	TopicAppointmentsChanged Topic = "appointments:changed"
	TopicOperationLogChanged Topic = "oplog:changed"
)

type Handler func(Topic)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus is a minimal named-topic publish/subscribe channel. Construct one per
// application and inject it into each repository; there is no package-level
// instance. Invocation order across subscribers is not part of the contract.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[Topic][]subscription
}

func NewBus() *Bus {
	return &Bus{subs: make(map[Topic][]subscription)}
}

// Subscribe registers a handler for topic and returns the function that
// removes it again. Multiple independent handlers per topic are supported.
func (b *Bus) Subscribe(topic Topic, h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, handler: h})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		current := b.subs[topic]
		for i, s := range current {
			if s.id == id {
				b.subs[topic] = append(current[:i:i], current[i+1:]...)
				return
			}
		}
	}
}

// Publish invokes every handler registered for topic. Publishing with zero
// subscribers is a no-op.
func (b *Bus) Publish(topic Topic) {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs[topic]))
	copy(subs, b.subs[topic])
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(topic)
	}
}

// SubscriberCount reports how many handlers are registered for topic.
func (b *Bus) SubscriberCount(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}
