package relation

import (
	"sync"

	"gorm.io/gorm"
)

// EventKind identifies an entity lifecycle event.
type EventKind string

const (
	// AfterInsert fires after a new entity is persisted.
	AfterInsert EventKind = "after_insert"
	// AfterUpdate fires after an existing entity is persisted.
	AfterUpdate EventKind = "after_update"
	// AfterDelete fires after an entity is deleted.
	AfterDelete EventKind = "after_delete"
)

// Event is delivered to subscribed handlers.
type Event struct {
	// Kind is the event that fired.
	Kind EventKind
	// Sender is the entity that was persisted or deleted.
	Sender Entity
	// DB is the session of the in-flight save. It is nil when the event is triggered manually.
	DB *gorm.DB
	// Data is the payload attached at subscription time.
	Data any
}

// Handler handles an entity event.
type Handler func(ev *Event)

// SubscriptionID identifies a registered handler.
type SubscriptionID uint64

type subscription struct {
	id      SubscriptionID
	handler Handler
	data    any
}

// Emitter holds per-entity event subscriptions.
// Handlers run synchronously, in registration order, on the goroutine that triggers the event.
type Emitter struct {
	mu   sync.Mutex
	next SubscriptionID
	subs map[EventKind][]subscription
}

// On subscribes handler to kind with an attached payload.
func (e *Emitter) On(kind EventKind, handler Handler, data any) SubscriptionID {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.subs == nil {
		e.subs = make(map[EventKind][]subscription)
	}
	e.next++
	e.subs[kind] = append(e.subs[kind], subscription{id: e.next, handler: handler, data: data})
	return e.next
}

// Off removes a subscription. It returns false if the subscription was not registered.
func (e *Emitter) Off(kind EventKind, id SubscriptionID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	subs := e.subs[kind]
	for i, s := range subs {
		if s.id == id {
			e.subs[kind] = append(subs[:i:i], subs[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of handlers subscribed to kind.
func (e *Emitter) Len(kind EventKind) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.subs[kind])
}

// Trigger runs the handlers subscribed to kind.
// Handlers registered while triggering wait for the next event; handlers removed
// while triggering are skipped.
func (e *Emitter) Trigger(kind EventKind, sender Entity, db *gorm.DB) {
	e.mu.Lock()
	snapshot := append([]subscription(nil), e.subs[kind]...)
	e.mu.Unlock()

	for _, s := range snapshot {
		if !e.subscribed(kind, s.id) {
			continue
		}
		s.handler(&Event{Kind: kind, Sender: sender, DB: db, Data: s.data})
	}
}

func (e *Emitter) subscribed(kind EventKind, id SubscriptionID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, s := range e.subs[kind] {
		if s.id == id {
			return true
		}
	}
	return false
}
