// Copyright (c) 2025-2026 EazziHotech Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// =============================================================================
// ERROR CODES
// =============================================================================

// Error codes used by the platform API, plus the client-side fallback.
const (
	// CodeUnauthorized and CodeTokenExpired mark an authority-rejected
	// credential: the bearer token is invalid or expired. Both force logout.
	CodeUnauthorized = "UNAUTHORIZED"
	CodeTokenExpired = "TOKEN_EXPIRED"

	// CodeInvalidCredentials is the explicit login-failure code. It is
	// counted by the attempt limiter and never forces logout.
	CodeInvalidCredentials = "INVALID_CREDENTIALS"

	// CodeTenantSuspended and CodeSuperAdminRequired are domain outcomes
	// reported to the user. Neither is a credential failure.
	CodeTenantSuspended    = "TENANT_SUSPENDED"
	CodeSuperAdminRequired = "SUPER_ADMIN_REQUIRED"

	// CodeGeneric is the fallback when the server gave us nothing usable.
	CodeGeneric = "API_ERROR"
)

// genericMessage is the fallback message for unclassifiable failures.
const genericMessage = "Request failed"

// =============================================================================
// ERROR TYPE
// =============================================================================

// Error is the classified form of every non-2xx response.
type Error struct {
	Message    string
	Code       string
	HTTPStatus int
	RawBody    []byte
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error [%s] (HTTP %d): %s", e.Code, e.HTTPStatus, e.Message)
	}
	return fmt.Sprintf("api error (HTTP %d): %s", e.HTTPStatus, e.Message)
}

// AsError extracts an *Error from err, if one is present.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsInvalidCredentials reports whether err is a rejected-login outcome that
// the attempt limiter should count.
func IsInvalidCredentials(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Code == CodeInvalidCredentials
}

// IsTenantSuspended reports whether err means the workspace is suspended.
func IsTenantSuspended(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Code == CodeTenantSuspended
}

// IsSuperAdminRequired reports whether err means the caller lacks the
// super-admin role.
func IsSuperAdminRequired(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Code == CodeSuperAdminRequired
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

// errorEnvelope covers the error body shapes upstream services produce.
// The platform standardizes on {error:{code,message}}, but older services
// still return flat {code,message} or a bare string.
type errorEnvelope struct {
	Err *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// classify normalizes a non-2xx response body into an *Error. It never
// fails: an undecodable body degrades to its raw text, and an empty one to
// the generic fallback. All envelope tolerance lives here; the rest of the
// client deals only in classified errors.
func classify(status int, body []byte) *Error {
	e := &Error{
		Code:       CodeGeneric,
		Message:    genericMessage,
		HTTPStatus: status,
		RawBody:    body,
	}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil {
		switch {
		case env.Err != nil && (env.Err.Code != "" || env.Err.Message != ""):
			e.Code, e.Message = env.Err.Code, env.Err.Message
		case env.Code != "" || env.Message != "":
			e.Code, e.Message = env.Code, env.Message
		}
	} else if text := strings.TrimSpace(string(body)); text != "" {
		e.Message = text
	}

	if e.Code == "" {
		e.Code = CodeGeneric
	}
	if e.Message == "" {
		e.Message = genericMessage
	}
	return e
}

// tokenRejectionPhrases is the message-substring fallback for legacy error
// bodies that signal a rejected token without a structured code. The wording
// match is fragile but deliberate: it keeps forced logout working against
// services that predate the standardized envelope.
var tokenRejectionPhrases = []string{
	"unauthorized",
	"invalid token",
	"expired token",
	"token expired",
}

// isTokenRejection reports whether a classified 401 means the bearer token
// itself was rejected. Explicit non-token 401 codes (login failure, tenant
// suspended, missing super-admin role) never count, regardless of wording.
func (e *Error) isTokenRejection() bool {
	if e.HTTPStatus != http.StatusUnauthorized {
		return false
	}

	switch e.Code {
	case CodeUnauthorized, CodeTokenExpired:
		return true
	case CodeInvalidCredentials, CodeTenantSuspended, CodeSuperAdminRequired:
		return false
	}

	msg := strings.ToLower(e.Message)
	for _, phrase := range tokenRejectionPhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}
