// Copyright (c) 2025-2026 EazziHotech Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the authenticated request pipeline against the
// EazziHotech platform API.
//
// Every outbound request carries the current tenant and bearer context from
// the session store; every response is normalized into either a payload or a
// classified *Error. A 401 that rejects the bearer token terminates the
// session: the pipeline clears the store, broadcasts on the logout bus, and
// navigates to the login entry point carrying the intended path.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/tolulopedd/EazziHotech-Web-V2-sub001/internal/router"
	"github.com/tolulopedd/EazziHotech-Web-V2-sub001/internal/session"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultBaseURL is the production platform API endpoint.
	DefaultBaseURL = "https://api.eazzihotech.com/v2"

	// DefaultTimeout bounds every request.
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize caps response bodies read into memory.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB

	// HeaderTenant scopes a request to the current workspace.
	HeaderTenant = "X-Tenant-Id"

	// HeaderRequestID correlates client and server logs.
	HeaderRequestID = "X-Request-Id"

	contentTypeJSON  = "application/json"
	defaultUserAgent = "eazzihotech-tui/2.0"
)

// sharedHTTPClient is used for all platform requests.
// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
	Timeout: DefaultTimeout,
}

// =============================================================================
// RESPONSE
// =============================================================================

// Response is the normalized form of a completed request.
type Response struct {
	StatusCode int

	// Body is the raw response body.
	Body []byte

	// JSON is the body when it decoded as JSON, nil otherwise. A non-JSON
	// body is not an error: the raw text stands in as the payload.
	JSON json.RawMessage
}

// Text returns the raw body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// =============================================================================
// CLIENT
// =============================================================================

// Client is the authenticated request pipeline.
type Client struct {
	baseURL    string
	store      *session.Store
	bus        *session.Bus
	nav        router.Navigator
	httpClient *http.Client
	throttle   *rate.Limiter
	userAgent  string
}

// New creates a pipeline over the given session store, logout bus, and
// navigator.
func New(baseURL string, store *session.Store, bus *session.Bus, nav router.Navigator) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		store:      store,
		bus:        bus,
		nav:        nav,
		httpClient: sharedHTTPClient,
		throttle:   rate.NewLimiter(rate.Limit(20), 40),
		userAgent:  defaultUserAgent,
	}
}

// WithHTTPClient sets a custom HTTP client. Used by tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithThrottle sets the client-side request throttle.
func (c *Client) WithThrottle(rps float64, burst int) *Client {
	c.throttle = rate.NewLimiter(rate.Limit(rps), burst)
	return c
}

// WithUserAgent sets the User-Agent header value.
func (c *Client) WithUserAgent(ua string) *Client {
	c.userAgent = ua
	return c
}

// =============================================================================
// ENTRY POINTS
// =============================================================================

// Do performs a JSON request. A non-nil in is marshaled as the body with the
// JSON content type; a non-nil out receives the decoded 2xx payload when the
// body is JSON. A 2xx body that is not JSON leaves out untouched and the raw
// text available on the Response.
func (c *Client) Do(ctx context.Context, method, path string, in, out any) (*Response, error) {
	var body io.Reader
	contentType := ""

	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = contentTypeJSON
	}

	resp, err := c.send(ctx, method, path, body, contentType)
	if err != nil {
		return resp, err
	}

	if out != nil && resp.JSON != nil {
		if err := json.Unmarshal(resp.JSON, out); err != nil {
			return resp, fmt.Errorf("failed to decode payload: %w", err)
		}
	}
	return resp, nil
}

// DoRaw performs a request with a caller-supplied body and content type. It
// exists for payloads that must not carry the JSON content-type header
// (multipart uploads pass their boundary type; an empty contentType sends no
// content-type at all). Response handling is identical to Do.
func (c *Client) DoRaw(ctx context.Context, method, path string, body io.Reader, contentType string, out any) (*Response, error) {
	resp, err := c.send(ctx, method, path, body, contentType)
	if err != nil {
		return resp, err
	}

	if out != nil && resp.JSON != nil {
		if err := json.Unmarshal(resp.JSON, out); err != nil {
			return resp, fmt.Errorf("failed to decode payload: %w", err)
		}
	}
	return resp, nil
}

// =============================================================================
// CORE PIPELINE
// =============================================================================

// send builds, performs, and classifies one request.
func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) (*Response, error) {
	if c.throttle != nil {
		if err := c.throttle.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if err := c.setHeaders(req, contentType); err != nil {
		return nil, err
	}

	c.logRequest(req)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Network failures surface as-is; the caller decides on retry.
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := readResponse(resp)
	if err != nil {
		return nil, err
	}
	c.logResponse(resp, time.Since(start))

	out := &Response{StatusCode: resp.StatusCode, Body: raw}
	if json.Valid(raw) {
		out.JSON = raw
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return out, nil
	}

	apiErr := classify(resp.StatusCode, raw)
	if apiErr.isTokenRejection() {
		c.forceLogout(path)
	}
	return out, apiErr
}

// setHeaders attaches the session context and standing headers. Tenant and
// bearer headers are attached only when the corresponding field is present,
// so pre-login calls go out bare through the same pipeline.
func (c *Client) setHeaders(req *http.Request, contentType string) error {
	sess, err := c.store.Get()
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}

	if sess != nil {
		if sess.TenantID != "" {
			req.Header.Set(HeaderTenant, sess.TenantID)
		}
		if sess.AccessToken != "" {
			req.Header.Set("Authorization", "Bearer "+sess.AccessToken)
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(HeaderRequestID, uuid.NewString())
	return nil
}

// forceLogout terminates the session after an authority-rejected credential.
// Clear is idempotent and navigation is last-wins, so racing the watchdog or
// a concurrent 401 is harmless.
func (c *Client) forceLogout(intendedPath string) {
	if err := c.store.Clear(); err != nil {
		log.Printf("forced logout: failed to clear session: %v", err)
	}
	c.bus.Notify(session.ReasonUnauthorized)
	if c.nav != nil {
		c.nav.Navigate(router.LoginRoute(intendedPath))
	}
}

// readResponse reads the body with a size cap.
func readResponse(resp *http.Response) ([]byte, error) {
	limited := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// logRequest logs an outbound request.
// SECURITY: method and path only - never headers or bodies.
func (c *Client) logRequest(req *http.Request) {
	log.Printf("API Request: %s %s", req.Method, req.URL.Path)
}

// logResponse logs a completed response with duration.
func (c *Client) logResponse(resp *http.Response, duration time.Duration) {
	log.Printf("API Response: %d %s (%v)", resp.StatusCode, resp.Status, duration)
}
