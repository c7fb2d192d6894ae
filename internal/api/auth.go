// Copyright (c) 2025-2026 EazziHotech Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"

	"github.com/tolulopedd/EazziHotech-Web-V2-sub001/internal/session"
)

// =============================================================================
// AUTH ENDPOINTS
// =============================================================================

const (
	loginPath  = "/auth/login"
	logoutPath = "/auth/logout"
)

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse is the platform's successful login payload.
type loginResponse struct {
	TenantID     string `json:"tenantId"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`

	User struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		Role         string `json:"role"`
		Email        string `json:"email"`
		IsSuperAdmin bool   `json:"isSuperAdmin"`
	} `json:"user"`

	Subscription struct {
		Status             string `json:"status"`
		CurrentPeriodEndAt string `json:"currentPeriodEndAt"`
		DaysToExpiry       *int   `json:"daysToExpiry"`
	} `json:"subscription"`
}

// =============================================================================
// LOGIN FLOW
// =============================================================================

// Login authenticates against the platform and persists the resulting
// session. This is the only code path that writes the session store.
//
// Failures come back classified: IsInvalidCredentials identifies the outcome
// the attempt limiter counts; tenant-suspended and super-admin-required are
// distinct outcomes that must not be counted.
func (c *Client) Login(ctx context.Context, creds Credentials) (*session.Session, error) {
	var payload loginResponse
	resp, err := c.Do(ctx, http.MethodPost, loginPath, creds, &payload)
	if err != nil {
		return nil, err
	}
	if resp.JSON == nil {
		return nil, &Error{
			Code:       CodeGeneric,
			Message:    "malformed login response",
			HTTPStatus: resp.StatusCode,
			RawBody:    resp.Body,
		}
	}

	sess := &session.Session{
		TenantID:                       payload.TenantID,
		AccessToken:                    payload.AccessToken,
		RefreshToken:                   payload.RefreshToken,
		UserID:                         payload.User.ID,
		UserName:                       payload.User.Name,
		UserRole:                       payload.User.Role,
		UserEmail:                      payload.User.Email,
		IsSuperAdmin:                   payload.User.IsSuperAdmin,
		SubscriptionStatus:             payload.Subscription.Status,
		SubscriptionCurrentPeriodEndAt: payload.Subscription.CurrentPeriodEndAt,
		SubscriptionDaysToExpiry:       payload.Subscription.DaysToExpiry,
	}

	if err := c.store.Set(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Logout terminates the session on user request. The server call is
// best-effort: local termination happens whether or not the API is
// reachable.
func (c *Client) Logout(ctx context.Context) error {
	_, _ = c.Do(ctx, http.MethodPost, logoutPath, nil, nil)

	if err := c.store.Clear(); err != nil {
		return err
	}
	c.bus.Notify(session.ReasonLogout)
	return nil
}
