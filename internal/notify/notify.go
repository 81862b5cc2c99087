// Package notify provides change notification for property sheet entities.
//
// The notify package implements an explicit publish/subscribe contract:
// every mutable entity owns a Notifier and raises a Change tagged with the
// name of the field that changed. Consumers subscribe to all changes or to a
// single field. There is no global bus; delivery is synchronous and happens
// in subscription order on the caller's goroutine.
package notify

import (
	"sync"
)

// Change represents a change event raised by an entity.
type Change struct {
	// Field names what changed (e.g., "EvaluatedValue", "IsVisible").
	Field string

	// OldValue is the previous value (may be nil).
	OldValue any

	// NewValue is the new value (may be nil).
	NewValue any

	// Sender is the entity that raised the change.
	Sender any
}

// Observer is called when a change occurs.
type Observer func(change Change)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	field    string
	notifier *Notifier
}

// Field returns the field this subscription filters on, or "" for all fields.
func (s *Subscription) Field() string {
	return s.field
}

// Unsubscribe removes this subscription. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

type entry struct {
	id       uint64
	field    string
	observer Observer
}

// Notifier manages change subscriptions for one entity.
type Notifier struct {
	mu sync.RWMutex

	// Subscriptions in registration order
	entries []entry

	// Next subscription ID
	nextID uint64
}

// New creates a new Notifier.
func New() *Notifier {
	return &Notifier{}
}

// Subscribe registers an observer for all changes.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	return n.SubscribeField("", observer)
}

// SubscribeField registers an observer for changes to a single field.
// An empty field subscribes to every change.
func (n *Notifier) SubscribeField(field string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.entries = append(n.entries, entry{id: id, field: field, observer: observer})

	return &Subscription{
		id:       id,
		field:    field,
		notifier: n,
	}
}

// Notify sends a change to all matching observers.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	var observers []Observer
	for _, e := range n.entries {
		if e.field == "" || e.field == change.Field {
			observers = append(observers, e.observer)
		}
	}
	n.mu.RUnlock()

	// Call observers outside the lock so they may subscribe or unsubscribe.
	for _, obs := range observers {
		obs(change)
	}
}

// NotifyChange is a convenience method for field changes.
func (n *Notifier) NotifyChange(sender any, field string, oldValue, newValue any) {
	n.Notify(Change{
		Field:    field,
		OldValue: oldValue,
		NewValue: newValue,
		Sender:   sender,
	})
}

// Len returns the number of active subscriptions.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.entries)
}

// unsubscribe removes an observer by ID.
func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, e := range n.entries {
		if e.id == id {
			n.entries = append(n.entries[:i], n.entries[i+1:]...)
			return
		}
	}
}
