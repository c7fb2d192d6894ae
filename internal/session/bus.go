// Copyright (c) 2025-2026 EazziHotech Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import "sync"

// =============================================================================
// LOGOUT NOTIFICATION BUS
// =============================================================================

// Logout reasons broadcast on the bus.
const (
	ReasonLogout       = "logout"       // explicit user action
	ReasonIdleTimeout  = "idle_timeout" // watchdog expiry
	ReasonUnauthorized = "unauthorized" // server rejected the credential
)

// subscriberBuffer is the per-subscriber channel capacity. A subscriber that
// falls this far behind loses notifications rather than blocking publishers.
const subscriberBuffer = 4

// Bus is a broadcast channel for session termination events. Independently
// initiated termination paths (pipeline, watchdog, explicit logout) converge
// here so UI components can react to "session just ended" without knowing
// every trigger.
//
// Subscribers are passive: Notify never blocks on a slow or gone subscriber.
type Bus struct {
	mu   sync.Mutex
	subs map[int]chan string
	next int
}

// NewBus creates an empty logout bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan string)}
}

// Subscribe registers a listener and returns its channel together with an
// unsubscribe function. Every Subscribe must be paired with a call to the
// returned function when the listener's lifetime ends.
func (b *Bus) Subscribe() (<-chan string, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan string, subscriberBuffer)
	b.subs[id] = ch

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, unsubscribe
}

// Notify broadcasts a termination reason to all subscribers. Delivery is
// best-effort: a full subscriber channel is skipped.
func (b *Bus) Notify(reason string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- reason:
		default:
		}
	}
}

// SubscriberCount returns the number of active subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
