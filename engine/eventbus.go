package engine

import (
	"sync"
	"time"
)

// SubscriberID identifies one registered listener.
type SubscriberID uint64

// SubscriberFunc is invoked for each delivered event.
type SubscriberFunc func(Event)

type subscription struct {
	id SubscriberID
	fn SubscriberFunc
}

// EventBus delivers vehicle events synchronously on the emitting
// goroutine. A mutation has fully committed by the time its event is
// emitted, so a listener that re-reads the queue sees the
// post-mutation order. Listeners register per event type; catch-all
// listeners (the SSE hub) see everything.
type EventBus struct {
	mu     sync.RWMutex
	nextID SubscriberID
	all    []subscription
	byType map[EventType][]subscription
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{byType: make(map[EventType][]subscription)}
}

// Subscribe registers a catch-all listener.
func (eb *EventBus) Subscribe(fn SubscriberFunc) SubscriberID {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.nextID++
	eb.all = append(eb.all, subscription{id: eb.nextID, fn: fn})
	return eb.nextID
}

// SubscribeTypes registers a listener for the given event types only.
func (eb *EventBus) SubscribeTypes(fn SubscriberFunc, types ...EventType) SubscriberID {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.nextID++
	for _, t := range types {
		eb.byType[t] = append(eb.byType[t], subscription{id: eb.nextID, fn: fn})
	}
	return eb.nextID
}

// Unsubscribe removes a listener from every type it registered for.
func (eb *EventBus) Unsubscribe(id SubscriberID) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.all = removeSubscription(eb.all, id)
	for t, subs := range eb.byType {
		eb.byType[t] = removeSubscription(subs, id)
	}
}

func removeSubscription(subs []subscription, id SubscriberID) []subscription {
	for i, s := range subs {
		if s.id == id {
			return append(subs[:i], subs[i+1:]...)
		}
	}
	return subs
}

// Emit stamps and delivers an event, catch-all listeners first.
func (eb *EventBus) Emit(evt Event) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}

	eb.mu.RLock()
	targets := make([]subscription, 0, len(eb.all)+len(eb.byType[evt.Type]))
	targets = append(targets, eb.all...)
	targets = append(targets, eb.byType[evt.Type]...)
	eb.mu.RUnlock()

	for _, s := range targets {
		s.fn(evt)
	}
}
