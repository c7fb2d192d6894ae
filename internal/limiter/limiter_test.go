// Copyright (c) 2025-2026 EazziHotech Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later

package limiter

import (
	"testing"
	"time"
)

// fakeClock is a controllable time source.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter() (*Limiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)}
	return New(WithClock(clock.now)), clock
}

func TestLimiter_CountsUpToThreshold(t *testing.T) {
	l, _ := newTestLimiter()

	for i := 1; i <= 4; i++ {
		res := l.RecordFailure()
		if res.Locked {
			t.Fatalf("failure %d should not lock", i)
		}
		if want := uint(5 - i); res.RemainingAttempts != want {
			t.Errorf("failure %d: RemainingAttempts = %d, want %d", i, res.RemainingAttempts, want)
		}
	}

	if l.FailureCount() != 4 {
		t.Errorf("FailureCount = %d, want 4", l.FailureCount())
	}
	if l.IsLocked() {
		t.Error("limiter should be unlocked at 4 failures")
	}
}

func TestLimiter_FifthFailureLocks(t *testing.T) {
	l, clock := newTestLimiter()

	for i := 0; i < 4; i++ {
		l.RecordFailure()
	}
	res := l.RecordFailure()

	if !res.Locked {
		t.Fatal("5th failure should impose the lock")
	}
	if want := clock.t.Add(30 * time.Second); !res.LockUntil.Equal(want) {
		t.Errorf("LockUntil = %v, want %v", res.LockUntil, want)
	}
	// Counter resets when the lock is imposed.
	if l.FailureCount() != 0 {
		t.Errorf("FailureCount after lock = %d, want 0", l.FailureCount())
	}
	if !l.IsLocked() {
		t.Error("limiter should report locked")
	}
}

func TestLimiter_SuccessResets(t *testing.T) {
	l, _ := newTestLimiter()

	l.RecordFailure()
	l.RecordFailure()
	l.RecordFailure()
	l.RecordSuccess()

	if l.FailureCount() != 0 {
		t.Errorf("FailureCount after success = %d, want 0", l.FailureCount())
	}
	if l.IsLocked() {
		t.Error("success must clear any lock")
	}
}

func TestLimiter_TickCountsDownAndUnlocks(t *testing.T) {
	l, clock := newTestLimiter()

	for i := 0; i < 5; i++ {
		l.RecordFailure()
	}

	secs, locked := l.Tick()
	if !locked || secs != 30 {
		t.Errorf("Tick = (%d, %v), want (30, true)", secs, locked)
	}

	clock.advance(12 * time.Second)
	secs, locked = l.Tick()
	if !locked || secs != 18 {
		t.Errorf("Tick after 12s = (%d, %v), want (18, true)", secs, locked)
	}

	clock.advance(19 * time.Second)
	secs, locked = l.Tick()
	if locked || secs != 0 {
		t.Errorf("Tick after expiry = (%d, %v), want (0, false)", secs, locked)
	}

	// The elapsed lock is cleared, not just hidden.
	if l.IsLocked() {
		t.Error("limiter should be unlocked after the cooldown elapses")
	}
}

func TestLimiter_RemainingLock(t *testing.T) {
	l, clock := newTestLimiter()

	if l.RemainingLock() != 0 {
		t.Error("RemainingLock should be 0 when unlocked")
	}

	for i := 0; i < 5; i++ {
		l.RecordFailure()
	}
	clock.advance(10 * time.Second)

	if got := l.RemainingLock(); got != 20*time.Second {
		t.Errorf("RemainingLock = %v, want 20s", got)
	}
}

func TestLimiter_CustomThreshold(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	l := New(WithClock(clock.now), WithMaxAttempts(2), WithLockDuration(5*time.Second))

	if res := l.RecordFailure(); res.Locked || res.RemainingAttempts != 1 {
		t.Errorf("first failure: %+v", res)
	}
	if res := l.RecordFailure(); !res.Locked {
		t.Error("second failure should lock with threshold 2")
	}
	if got := l.RemainingLock(); got != 5*time.Second {
		t.Errorf("RemainingLock = %v, want 5s", got)
	}
}
