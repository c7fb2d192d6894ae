// Copyright (c) 2025-2026 EazziHotech Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package router defines screen routes and the navigation contract.
//
// Navigation mirrors the web dashboard: a route is a screen name plus query
// parameters, and the login route carries the originally intended path in a
// "next" parameter so re-authentication can restore navigation intent.
package router

import (
	"net/url"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// ROUTES
// =============================================================================

// Screen identifies a top-level view.
type Screen string

const (
	ScreenLogin     Screen = "login"
	ScreenDashboard Screen = "dashboard"
)

// NextParam is the query parameter carrying the return path on the login
// route.
const NextParam = "next"

// PathParam is the query parameter carrying the section path inside the
// protected area.
const PathParam = "path"

// Route is a navigation target.
type Route struct {
	Screen Screen
	Params url.Values
}

// String renders the route in path?query form, for logs and tests.
func (r Route) String() string {
	if len(r.Params) == 0 {
		return string(r.Screen)
	}
	return string(r.Screen) + "?" + r.Params.Encode()
}

// Next returns the return path carried by the route, if any.
func (r Route) Next() string {
	if r.Params == nil {
		return ""
	}
	return r.Params.Get(NextParam)
}

// LoginRoute builds the login entry point. A non-empty next path is carried
// as the return parameter.
func LoginRoute(next string) Route {
	params := url.Values{}
	if next != "" {
		params.Set(NextParam, next)
	}
	return Route{Screen: ScreenLogin, Params: params}
}

// DashboardRoute builds the protected-area entry point.
func DashboardRoute() Route {
	return Route{Screen: ScreenDashboard}
}

// DashboardRouteAt builds the protected-area entry point restored to a
// section path, used after re-authentication honors the return parameter.
func DashboardRouteAt(path string) Route {
	if path == "" {
		return DashboardRoute()
	}
	params := url.Values{}
	params.Set(PathParam, path)
	return Route{Screen: ScreenDashboard, Params: params}
}

// Path returns the section path carried by the route, if any.
func (r Route) Path() string {
	if r.Params == nil {
		return ""
	}
	return r.Params.Get(PathParam)
}

// =============================================================================
// NAVIGATOR
// =============================================================================

// Navigator performs navigation. The request pipeline and the watchdog hold
// one so session termination can land the user on the login screen without
// knowing anything about the UI.
type Navigator interface {
	// Navigate pushes a new route.
	Navigate(Route)

	// Replace swaps the current route without leaving history behind it, so
	// the user cannot navigate back into a terminated session.
	Replace(Route)
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// NavigateMsg asks the program to push a route.
type NavigateMsg struct {
	Route Route
}

// ReplaceMsg asks the program to swap the current route, replacing history.
type ReplaceMsg struct {
	Route Route
}

// Program is the Navigator used by the running application: it forwards
// navigation as messages into the Bubble Tea loop, keeping all route changes
// on the single update thread.
type Program struct {
	send func(tea.Msg)
}

// NewProgram wraps a message sink (normally (*tea.Program).Send).
func NewProgram(send func(tea.Msg)) *Program {
	return &Program{send: send}
}

// Navigate implements Navigator.
func (p *Program) Navigate(r Route) {
	p.send(NavigateMsg{Route: r})
}

// Replace implements Navigator.
func (p *Program) Replace(r Route) {
	p.send(ReplaceMsg{Route: r})
}
