// Copyright (c) 2025-2026 EazziHotech Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"testing"

	"github.com/tolulopedd/EazziHotech-Web-V2-sub001/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	kv, err := storage.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory failed: %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	return NewStore(kv)
}

func testSession() *Session {
	days := 12
	return &Session{
		TenantID:                       "t_villa_rosa",
		AccessToken:                    "at_abc123",
		RefreshToken:                   "rt_def456",
		UserID:                         "u_42",
		UserName:                       "Ada Obi",
		UserRole:                       "manager",
		UserEmail:                      "ada@villarosa.example",
		IsSuperAdmin:                   true,
		SubscriptionStatus:             "active",
		SubscriptionCurrentPeriodEndAt: "2026-09-30T00:00:00Z",
		SubscriptionDaysToExpiry:       &days,
	}
}

func TestStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	want := testSession()

	if err := store.Set(want); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := store.Get()
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil for a stored session")
	}

	if got.TenantID != want.TenantID {
		t.Errorf("TenantID = %q, want %q", got.TenantID, want.TenantID)
	}
	if got.AccessToken != want.AccessToken {
		t.Errorf("AccessToken = %q, want %q", got.AccessToken, want.AccessToken)
	}
	if got.RefreshToken != want.RefreshToken {
		t.Errorf("RefreshToken = %q, want %q", got.RefreshToken, want.RefreshToken)
	}
	if got.UserID != want.UserID || got.UserName != want.UserName ||
		got.UserRole != want.UserRole || got.UserEmail != want.UserEmail {
		t.Errorf("profile snapshot mismatch: %+v", got)
	}
	if !got.IsSuperAdmin {
		t.Error("IsSuperAdmin should round-trip as true")
	}
	if got.SubscriptionStatus != want.SubscriptionStatus ||
		got.SubscriptionCurrentPeriodEndAt != want.SubscriptionCurrentPeriodEndAt {
		t.Errorf("subscription snapshot mismatch: %+v", got)
	}
	if got.SubscriptionDaysToExpiry == nil || *got.SubscriptionDaysToExpiry != 12 {
		t.Errorf("SubscriptionDaysToExpiry = %v, want 12", got.SubscriptionDaysToExpiry)
	}
}

func TestStore_OptionalDaysToExpiry(t *testing.T) {
	store := newTestStore(t)

	sess := testSession()
	sess.SubscriptionDaysToExpiry = nil
	if err := store.Set(sess); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := store.Get()
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.SubscriptionDaysToExpiry != nil {
		t.Errorf("absent daysToExpiry should decode to nil, got %v", *got.SubscriptionDaysToExpiry)
	}
}

func TestStore_GetAbsent(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Get()
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("Get on empty store = %+v, want nil", got)
	}
}

func TestStore_RejectsIncompleteSession(t *testing.T) {
	store := newTestStore(t)

	if err := store.Set(&Session{TenantID: "t_1"}); err != ErrIncompleteSession {
		t.Errorf("Set without access token = %v, want ErrIncompleteSession", err)
	}
	if err := store.Set(&Session{AccessToken: "at_1"}); err != ErrIncompleteSession {
		t.Errorf("Set without tenant = %v, want ErrIncompleteSession", err)
	}
	if err := store.Set(nil); err != ErrIncompleteSession {
		t.Errorf("Set(nil) = %v, want ErrIncompleteSession", err)
	}

	// Nothing may have been persisted.
	got, _ := store.Get()
	if got != nil {
		t.Error("incomplete Set must not persist anything")
	}
}

func TestStore_ClearIdempotent(t *testing.T) {
	store := newTestStore(t)

	if err := store.Set(testSession()); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	got, _ := store.Get()
	if got != nil {
		t.Error("session should be absent after Clear")
	}

	// Clearing twice is equivalent to clearing once.
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear failed: %v", err)
	}
}

func TestStore_SetReplacesWholeSession(t *testing.T) {
	store := newTestStore(t)

	first := testSession()
	if err := store.Set(first); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// A later login with fewer fields must not leave stale keys behind.
	second := &Session{TenantID: "t_other", AccessToken: "at_new"}
	if err := store.Set(second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := store.Get()
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.TenantID != "t_other" || got.AccessToken != "at_new" {
		t.Errorf("session not replaced: %+v", got)
	}
	if got.RefreshToken != "" || got.UserEmail != "" {
		t.Errorf("stale fields survived Set: %+v", got)
	}
}
