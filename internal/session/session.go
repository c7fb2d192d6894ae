// Copyright (c) 2025-2026 EazziHotech Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the authenticated tenant context: the session value
// itself, its durable store, the logout notification bus, and the idle
// timeout watchdog.
package session

import (
	"strconv"
)

// =============================================================================
// SESSION
// =============================================================================

// Session is the client-held proof of authentication plus tenant scope and
// the display profile captured from the login response.
type Session struct {
	// Tenant and credentials
	TenantID     string
	AccessToken  string
	RefreshToken string

	// Profile snapshot
	UserID       string
	UserName     string
	UserRole     string
	UserEmail    string
	IsSuperAdmin bool

	// Subscription snapshot. Advisory display data, not authoritative.
	SubscriptionStatus             string
	SubscriptionCurrentPeriodEndAt string
	SubscriptionDaysToExpiry       *int
}

// Persisted key names. These match the web dashboard's local-storage keys so
// support tooling can inspect either client the same way.
const (
	keyTenantID                       = "tenantId"
	keyAccessToken                    = "accessToken"
	keyRefreshToken                   = "refreshToken"
	keyUserID                         = "userId"
	keyUserName                       = "userName"
	keyUserRole                       = "userRole"
	keyUserEmail                      = "userEmail"
	keyIsSuperAdmin                   = "isSuperAdmin"
	keySubscriptionStatus             = "subscriptionStatus"
	keySubscriptionCurrentPeriodEndAt = "subscriptionCurrentPeriodEndAt"
	keySubscriptionDaysToExpiry       = "subscriptionDaysToExpiry"
)

// pairs flattens the session into persisted key/value form. Optional fields
// with zero values are omitted entirely rather than stored empty.
func (s *Session) pairs() map[string]string {
	out := map[string]string{
		keyTenantID:     s.TenantID,
		keyAccessToken:  s.AccessToken,
		keyIsSuperAdmin: strconv.FormatBool(s.IsSuperAdmin),
	}

	put := func(key, value string) {
		if value != "" {
			out[key] = value
		}
	}
	put(keyRefreshToken, s.RefreshToken)
	put(keyUserID, s.UserID)
	put(keyUserName, s.UserName)
	put(keyUserRole, s.UserRole)
	put(keyUserEmail, s.UserEmail)
	put(keySubscriptionStatus, s.SubscriptionStatus)
	put(keySubscriptionCurrentPeriodEndAt, s.SubscriptionCurrentPeriodEndAt)

	if s.SubscriptionDaysToExpiry != nil {
		out[keySubscriptionDaysToExpiry] = strconv.Itoa(*s.SubscriptionDaysToExpiry)
	}

	return out
}

// sessionFromPairs rebuilds a session from persisted form. Returns nil when
// the stored context is absent or incomplete: a session is either fully
// present (tenant + access token) or it does not exist.
func sessionFromPairs(pairs map[string]string) *Session {
	tenantID := pairs[keyTenantID]
	accessToken := pairs[keyAccessToken]
	if tenantID == "" || accessToken == "" {
		return nil
	}

	s := &Session{
		TenantID:                       tenantID,
		AccessToken:                    accessToken,
		RefreshToken:                   pairs[keyRefreshToken],
		UserID:                         pairs[keyUserID],
		UserName:                       pairs[keyUserName],
		UserRole:                       pairs[keyUserRole],
		UserEmail:                      pairs[keyUserEmail],
		SubscriptionStatus:             pairs[keySubscriptionStatus],
		SubscriptionCurrentPeriodEndAt: pairs[keySubscriptionCurrentPeriodEndAt],
	}

	if v, ok := pairs[keyIsSuperAdmin]; ok {
		s.IsSuperAdmin, _ = strconv.ParseBool(v)
	}
	if v, ok := pairs[keySubscriptionDaysToExpiry]; ok {
		if days, err := strconv.Atoi(v); err == nil {
			s.SubscriptionDaysToExpiry = &days
		}
	}

	return s
}
