// Copyright (c) 2025-2026 EazziHotech Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package limiter implements client-side login attempt limiting.
//
// The limiter is pure state held by the login view: it performs no network
// calls and is not persisted. Repeated credential failures impose a cooldown
// during which the submit path short-circuits before any request is built.
package limiter

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultMaxAttempts is the number of consecutive credential failures
	// tolerated before a lock is imposed.
	DefaultMaxAttempts = 5

	// DefaultLockDuration is how long submissions stay blocked after a lock.
	DefaultLockDuration = 30 * time.Second

	// tickInterval drives the countdown display while locked.
	tickInterval = time.Second
)

// =============================================================================
// LIMITER
// =============================================================================

// Limiter tracks consecutive credential failures for one login form.
type Limiter struct {
	mu sync.Mutex

	failureCount uint
	lockUntil    time.Time

	maxAttempts  uint
	lockDuration time.Duration
	now          func() time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithMaxAttempts overrides the failure threshold.
func WithMaxAttempts(n uint) Option {
	return func(l *Limiter) {
		if n > 0 {
			l.maxAttempts = n
		}
	}
}

// WithLockDuration overrides the cooldown duration.
func WithLockDuration(d time.Duration) Option {
	return func(l *Limiter) {
		if d > 0 {
			l.lockDuration = d
		}
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// New creates a limiter with the given options.
func New(opts ...Option) *Limiter {
	l := &Limiter{
		maxAttempts:  DefaultMaxAttempts,
		lockDuration: DefaultLockDuration,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// =============================================================================
// STATE TRANSITIONS
// =============================================================================

// Result describes the limiter state after a recorded failure.
type Result struct {
	// Locked reports whether this failure imposed the cooldown.
	Locked bool

	// RemainingAttempts is how many failures remain before a lock.
	// Zero when Locked.
	RemainingAttempts uint

	// LockUntil is when the cooldown ends. Zero when not locked.
	LockUntil time.Time
}

// RecordFailure counts one invalid-credentials outcome. Distinct outcomes
// (tenant suspended, permission denied) must not be recorded here. When the
// threshold is reached the counter resets to zero and the lock is imposed.
func (l *Limiter) RecordFailure() Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.failureCount++
	if l.failureCount >= l.maxAttempts {
		l.failureCount = 0
		l.lockUntil = l.now().Add(l.lockDuration)
		return Result{Locked: true, LockUntil: l.lockUntil}
	}

	return Result{RemainingAttempts: l.maxAttempts - l.failureCount}
}

// RecordSuccess resets the limiter after a successful login.
func (l *Limiter) RecordSuccess() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failureCount = 0
	l.lockUntil = time.Time{}
}

// IsLocked reports whether submission is currently blocked.
func (l *Limiter) IsLocked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lockedLocked()
}

// FailureCount returns the current consecutive failure count.
func (l *Limiter) FailureCount() uint {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.failureCount
}

// RemainingLock returns the time left in the cooldown, or zero when unlocked.
func (l *Limiter) RemainingLock() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.lockedLocked() {
		return 0
	}
	return l.lockUntil.Sub(l.now())
}

// Tick recomputes the lock state for display and clears an elapsed lock,
// re-enabling submission. Returns the remaining whole seconds (rounded up)
// and whether the form is still locked.
func (l *Limiter) Tick() (remainingSecs int, locked bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.lockUntil.IsZero() {
		return 0, false
	}

	remaining := l.lockUntil.Sub(l.now())
	if remaining <= 0 {
		l.lockUntil = time.Time{}
		return 0, false
	}

	return int((remaining + tickInterval - 1) / tickInterval), true
}

// lockedLocked reports the lock state. Caller must hold l.mu.
func (l *Limiter) lockedLocked() bool {
	return !l.lockUntil.IsZero() && l.now().Before(l.lockUntil)
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// TickMsg is sent once per second while the login view is mounted so the
// lockout countdown stays current.
type TickMsg struct {
	Time time.Time
}

// TickCmd returns the command that drives TickMsg.
func TickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
