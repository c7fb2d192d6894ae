// Copyright (c) 2025-2026 EazziHotech Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// IDLE TIMEOUT WATCHDOG
// =============================================================================

// DefaultIdleTimeout is how long a protected view may sit without user
// activity before the session is terminated.
const DefaultIdleTimeout = 5 * time.Minute

// WatchdogState is the lifecycle state of a watchdog instance.
type WatchdogState int

const (
	// StateInactive means no protected view is being watched.
	StateInactive WatchdogState = iota
	// StateArmed means the countdown timer is running.
	StateArmed
	// StateExpired means the idle timeout fired. Terminal for this instance.
	StateExpired
)

// String returns the display name for the state.
func (s WatchdogState) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateArmed:
		return "armed"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// ActivitySignal identifies a kind of user activity that resets the idle
// countdown. The set is fixed; every signal is treated identically.
type ActivitySignal int

const (
	SignalPointerMove ActivitySignal = iota
	SignalPointerPress
	SignalKeyPress
	SignalTouchStart
	SignalScroll
	SignalClick
)

// Watchdog terminates the session after a period of user inactivity. One
// instance is created per mounted protected view; an expired instance is
// never re-armed.
//
// The watchdog owns a single countdown timer. Activity cancels the
// outstanding timer and starts a fresh one; timers never accumulate.
type Watchdog struct {
	mu sync.Mutex

	state       WatchdogState
	timer       *time.Timer
	lastResetAt time.Time

	idleTimeout time.Duration
	store       *Store
	bus         *Bus
	onExpire    func()
}

// WatchdogOption configures a Watchdog.
type WatchdogOption func(*Watchdog)

// WithIdleTimeout overrides the idle timeout duration.
func WithIdleTimeout(d time.Duration) WatchdogOption {
	return func(w *Watchdog) {
		if d > 0 {
			w.idleTimeout = d
		}
	}
}

// WithOnExpire sets a hook invoked after expiry side effects complete. The
// application uses it to navigate to the login screen, replacing history so
// the expired session cannot be re-entered.
func WithOnExpire(fn func()) WatchdogOption {
	return func(w *Watchdog) {
		w.onExpire = fn
	}
}

// NewWatchdog creates a watchdog over the given store and bus.
func NewWatchdog(store *Store, bus *Bus, opts ...WatchdogOption) *Watchdog {
	w := &Watchdog{
		state:       StateInactive,
		idleTimeout: DefaultIdleTimeout,
		store:       store,
		bus:         bus,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Start arms the watchdog when a session exists. With no session there is
// nothing to protect and the watchdog stays inactive.
func (w *Watchdog) Start() error {
	sess, err := w.store.Get()
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateInactive || sess == nil {
		return nil
	}

	w.state = StateArmed
	w.lastResetAt = time.Now()
	w.timer = time.AfterFunc(w.idleTimeout, w.expire)
	return nil
}

// Signal reports user activity. While armed it restarts the countdown from
// zero. After expiry it is ignored: EXPIRED is sticky for this instance.
func (w *Watchdog) Signal(ActivitySignal) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateArmed {
		return
	}

	w.timer.Stop()
	w.lastResetAt = time.Now()
	w.timer = time.AfterFunc(w.idleTimeout, w.expire)
}

// Stop cancels the outstanding timer. It must be called on every unmount
// path, is safe in any state, and is idempotent. An armed watchdog returns
// to inactive; an expired one stays expired.
func (w *Watchdog) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	if w.state == StateArmed {
		w.state = StateInactive
	}
}

// expire runs when the countdown fires with no intervening activity.
func (w *Watchdog) expire() {
	w.mu.Lock()
	if w.state != StateArmed {
		// Stop won the race with the timer firing.
		w.mu.Unlock()
		return
	}
	w.state = StateExpired
	w.timer = nil
	onExpire := w.onExpire
	w.mu.Unlock()

	// Clear is idempotent, so racing another termination path is harmless.
	_ = w.store.Clear()
	w.bus.Notify(ReasonIdleTimeout)

	if onExpire != nil {
		onExpire()
	}
}

// =============================================================================
// STATE ACCESSORS
// =============================================================================

// State returns the current watchdog state.
func (w *Watchdog) State() WatchdogState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// LastResetAt returns when the countdown last (re)started.
func (w *Watchdog) LastResetAt() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastResetAt
}

// Remaining returns the time left until expiry, or zero when not armed.
func (w *Watchdog) Remaining() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateArmed {
		return 0
	}
	remaining := w.idleTimeout - time.Since(w.lastResetAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// SignalFromMsg maps a Bubble Tea message to an activity signal. The second
// return value is false for messages that do not count as user activity
// (ticks, network completions, resizes).
func SignalFromMsg(msg tea.Msg) (ActivitySignal, bool) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		return SignalKeyPress, true
	case tea.MouseMsg:
		switch m.Action {
		case tea.MouseActionMotion:
			return SignalPointerMove, true
		case tea.MouseActionPress:
			if m.Button == tea.MouseButtonWheelUp || m.Button == tea.MouseButtonWheelDown {
				return SignalScroll, true
			}
			return SignalPointerPress, true
		case tea.MouseActionRelease:
			return SignalClick, true
		}
	}
	return 0, false
}
