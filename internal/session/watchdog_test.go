// Copyright (c) 2025-2026 EazziHotech Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func armedWatchdog(t *testing.T, timeout time.Duration, opts ...WatchdogOption) (*Watchdog, *Store, *Bus) {
	t.Helper()
	store := newTestStore(t)
	if err := store.Set(testSession()); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	bus := NewBus()
	opts = append([]WatchdogOption{WithIdleTimeout(timeout)}, opts...)
	w := NewWatchdog(store, bus, opts...)
	t.Cleanup(w.Stop)

	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return w, store, bus
}

func TestWatchdog_InactiveWithoutSession(t *testing.T) {
	store := newTestStore(t)
	w := NewWatchdog(store, NewBus(), WithIdleTimeout(20*time.Millisecond))

	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if w.State() != StateInactive {
		t.Errorf("State = %v, want inactive with no session", w.State())
	}

	time.Sleep(40 * time.Millisecond)
	if w.State() != StateInactive {
		t.Error("watchdog with no session must never expire")
	}
}

func TestWatchdog_ArmsWithSession(t *testing.T) {
	w, _, _ := armedWatchdog(t, time.Minute)

	if w.State() != StateArmed {
		t.Errorf("State = %v, want armed", w.State())
	}
	if w.Remaining() <= 0 || w.Remaining() > time.Minute {
		t.Errorf("Remaining = %v, want (0, 1m]", w.Remaining())
	}
}

func TestWatchdog_ActivityKeepsAlive(t *testing.T) {
	w, store, _ := armedWatchdog(t, 60*time.Millisecond)

	// Activity spaced below the timeout must never let it expire.
	for i := 0; i < 5; i++ {
		time.Sleep(30 * time.Millisecond)
		w.Signal(SignalKeyPress)
	}

	if w.State() != StateArmed {
		t.Errorf("State = %v, want still armed", w.State())
	}
	sess, _ := store.Get()
	if sess == nil {
		t.Error("session should survive continuous activity")
	}
}

func TestWatchdog_ExpiresOnceAndClearsSession(t *testing.T) {
	var expiries atomic.Int32
	w, store, bus := armedWatchdog(t, 30*time.Millisecond,
		WithOnExpire(func() { expiries.Add(1) }))

	ch, unsub := bus.Subscribe()
	defer unsub()

	time.Sleep(60 * time.Millisecond)

	if w.State() != StateExpired {
		t.Fatalf("State = %v, want expired", w.State())
	}
	if n := expiries.Load(); n != 1 {
		t.Errorf("onExpire fired %d times, want 1", n)
	}

	sess, err := store.Get()
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if sess != nil {
		t.Error("session store should be empty after expiry")
	}

	select {
	case reason := <-ch:
		if reason != ReasonIdleTimeout {
			t.Errorf("bus reason = %q, want %q", reason, ReasonIdleTimeout)
		}
	default:
		t.Error("expiry should broadcast on the bus")
	}
}

func TestWatchdog_ExpiredIsSticky(t *testing.T) {
	w, _, _ := armedWatchdog(t, 20*time.Millisecond)

	time.Sleep(40 * time.Millisecond)
	if w.State() != StateExpired {
		t.Fatalf("State = %v, want expired", w.State())
	}

	// Activity after expiry must not re-arm this instance.
	w.Signal(SignalPointerMove)
	if w.State() != StateExpired {
		t.Error("Signal after expiry must not re-arm")
	}

	// Neither may Start.
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if w.State() != StateExpired {
		t.Error("Start after expiry must not re-arm")
	}
}

func TestWatchdog_StopCancelsTimer(t *testing.T) {
	w, store, _ := armedWatchdog(t, 30*time.Millisecond)

	w.Stop()
	if w.State() != StateInactive {
		t.Errorf("State after Stop = %v, want inactive", w.State())
	}

	// A stale timer must not fire against the stopped instance.
	time.Sleep(60 * time.Millisecond)
	if w.State() != StateInactive {
		t.Error("stopped watchdog must not expire")
	}
	sess, _ := store.Get()
	if sess == nil {
		t.Error("Stop must not clear the session")
	}

	// Stop is idempotent in every state.
	w.Stop()
	w.Stop()
}

func TestSignalFromMsg(t *testing.T) {
	if sig, ok := SignalFromMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}); !ok || sig != SignalKeyPress {
		t.Errorf("key press mapped to (%v, %v)", sig, ok)
	}
	if sig, ok := SignalFromMsg(tea.MouseMsg{Action: tea.MouseActionMotion}); !ok || sig != SignalPointerMove {
		t.Errorf("pointer motion mapped to (%v, %v)", sig, ok)
	}
	if sig, ok := SignalFromMsg(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown}); !ok || sig != SignalScroll {
		t.Errorf("wheel mapped to (%v, %v)", sig, ok)
	}
	if _, ok := SignalFromMsg(tea.WindowSizeMsg{}); ok {
		t.Error("resize must not count as activity")
	}
}
