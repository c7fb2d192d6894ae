// Copyright (c) 2025-2026 EazziHotech Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tolulopedd/EazziHotech-Web-V2-sub001/internal/storage"
)

// =============================================================================
// SESSION STORE
// =============================================================================

// ErrIncompleteSession is returned by Set when the session is missing its
// tenant or access token. Partial sessions are never persisted.
var ErrIncompleteSession = errors.New("session requires tenant id and access token")

// Store persists the current session as a flat key set. Set is called only by
// the login flow; Clear is called by the termination paths (explicit logout,
// idle expiry, forced logout). Any component may call Get.
//
// The store performs no network or timer side effects of its own.
type Store struct {
	mu sync.Mutex
	kv *storage.KV
}

// NewStore creates a session store over the given key/value backend.
func NewStore(kv *storage.KV) *Store {
	return &Store{kv: kv}
}

// Set replaces the persisted session with sess. All keys land in a single
// transaction so a crash never leaves a half-written session behind.
func (s *Store) Set(sess *Session) error {
	if sess == nil || sess.TenantID == "" || sess.AccessToken == "" {
		return ErrIncompleteSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.ReplaceAll(sess.pairs()); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// Get returns the current session, or nil when no session exists. A stored
// context missing its tenant or access token counts as absent.
func (s *Store) Get() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pairs, err := s.kv.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	return sessionFromPairs(pairs), nil
}

// Clear removes every persisted session key atomically. Clearing an
// already-empty store is a harmless no-op, so concurrent termination paths
// (idle expiry racing a forced logout) can both call it safely.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
