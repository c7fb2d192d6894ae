// Copyright (c) 2025-2026 EazziHotech Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package login provides the sign-in view.
//
// The view owns the attempt limiter: repeated credential failures lock the
// form for a cooldown, and while locked the submit path short-circuits
// before any request is built. Only invalid-credentials outcomes count
// toward the lock; suspended workspaces and permission failures are reported
// without being counted.
package login

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tolulopedd/EazziHotech-Web-V2-sub001/internal/api"
	"github.com/tolulopedd/EazziHotech-Web-V2-sub001/internal/limiter"
	"github.com/tolulopedd/EazziHotech-Web-V2-sub001/internal/router"
	"github.com/tolulopedd/EazziHotech-Web-V2-sub001/internal/ui/styles"
)

// =============================================================================
// LOGIN STATE
// =============================================================================

// State represents the current state of the login view.
type State int

const (
	StateReady      State = iota // Ready for input
	StateSubmitting              // Waiting on the login request
	StateLocked                  // Cooldown after repeated failures
)

// field identifies the focused form input.
type field int

const (
	fieldEmail field = iota
	fieldPassword
)

// =============================================================================
// MESSAGES
// =============================================================================

// resultMsg carries the login outcome back into the update loop.
type resultMsg struct {
	err error
}

// =============================================================================
// LOGIN MODEL
// =============================================================================

// Model is the Bubble Tea model for the login view.
type Model struct {
	state State

	theme  *styles.Theme
	client *api.Client
	limit  *limiter.Limiter

	email    textinput.Model
	password textinput.Model
	focused  field
	spinner  spinner.Model

	// next is the path to restore after authentication, carried in from the
	// route that landed here.
	next string

	errText  string
	lockSecs int

	width  int
	height int
}

// New creates the login view.
func New(theme *styles.Theme, client *api.Client, limit *limiter.Limiter, next string) Model {
	email := textinput.New()
	email.Placeholder = "you@hotel.example"
	email.CharLimit = 254
	email.Width = 40
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'
	password.CharLimit = 128
	password.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	return Model{
		state:    StateReady,
		theme:    theme,
		client:   client,
		limit:    limit,
		email:    email,
		password: password,
		spinner:  sp,
		next:     next,
	}
}

// Init starts the lockout ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, limiter.TickCmd())
}

// Update handles messages for the login view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m.toggleFocus()
			return m, nil
		case "enter":
			return m.submit()
		}

	case limiter.TickMsg:
		secs, locked := m.limit.Tick()
		m.lockSecs = secs
		if locked {
			m.state = StateLocked
		} else if m.state == StateLocked {
			// Cooldown elapsed: the form unlocks with a clean slate.
			m.state = StateReady
			m.errText = ""
		}
		return m, limiter.TickCmd()

	case spinner.TickMsg:
		if m.state != StateSubmitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case resultMsg:
		return m.handleResult(msg)
	}

	return m.updateInputs(msg)
}

// toggleFocus moves focus between the two inputs.
func (m *Model) toggleFocus() {
	if m.focused == fieldEmail {
		m.focused = fieldPassword
		m.email.Blur()
		m.password.Focus()
	} else {
		m.focused = fieldEmail
		m.password.Blur()
		m.email.Focus()
	}
}

// updateInputs forwards a message to the focused text input.
func (m Model) updateInputs(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.focused == fieldEmail {
		m.email, cmd = m.email.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

// =============================================================================
// SUBMIT PATH
// =============================================================================

// submit validates and dispatches the login request. While locked the
// attempt is rejected here, before any request is built.
func (m Model) submit() (Model, tea.Cmd) {
	if m.state == StateSubmitting {
		return m, nil
	}
	if m.limit.IsLocked() {
		m.state = StateLocked
		return m, nil
	}

	email := strings.TrimSpace(m.email.Value())
	password := m.password.Value()
	if email == "" || password == "" {
		m.errText = "Email and password are required"
		return m, nil
	}

	m.state = StateSubmitting
	m.errText = ""

	client := m.client
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()
		_, err := client.Login(ctx, api.Credentials{Email: email, Password: password})
		return resultMsg{err: err}
	})
}

// handleResult applies a login outcome.
func (m Model) handleResult(msg resultMsg) (Model, tea.Cmd) {
	m.state = StateReady

	if msg.err == nil {
		m.limit.RecordSuccess()
		m.password.SetValue("")
		target := router.DashboardRouteAt(m.next)
		// Replace, not push: back must not return to the login form.
		return m, func() tea.Msg {
			return router.ReplaceMsg{Route: target}
		}
	}

	m.password.SetValue("")

	switch {
	case api.IsInvalidCredentials(msg.err):
		res := m.limit.RecordFailure()
		if res.Locked {
			m.state = StateLocked
			m.lockSecs = int(limiter.DefaultLockDuration.Seconds())
			m.errText = ""
		} else {
			m.errText = fmt.Sprintf("Invalid email or password (%d attempts left)", res.RemainingAttempts)
		}

	case api.IsTenantSuspended(msg.err):
		m.errText = "This workspace is suspended. Contact your administrator."

	case api.IsSuperAdminRequired(msg.err):
		m.errText = "Super admin access is required for this account."

	default:
		if apiErr, ok := api.AsError(msg.err); ok {
			m.errText = apiErr.Message
		} else {
			m.errText = "Could not reach the server. Check your connection."
		}
	}

	return m, nil
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the login form.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.theme.FormTitle.Render("Sign in to EazziHotech"))
	b.WriteString("\n\n")

	b.WriteString(m.theme.FormLabel.Render("Email"))
	b.WriteString("\n")
	b.WriteString(m.email.View())
	b.WriteString("\n\n")

	b.WriteString(m.theme.FormLabel.Render("Password"))
	b.WriteString("\n")
	b.WriteString(m.password.View())
	b.WriteString("\n\n")

	switch m.state {
	case StateSubmitting:
		b.WriteString(m.spinner.View())
		b.WriteString(m.theme.FormHint.Render(" signing in..."))
	case StateLocked:
		banner := fmt.Sprintf("Too many failed attempts - try again in %ds", m.lockSecs)
		b.WriteString(m.theme.LockoutBanner.Render(banner))
	default:
		if m.errText != "" {
			b.WriteString(styles.RenderError(m.errText))
		} else {
			b.WriteString(m.theme.FormHint.Render("enter to sign in, tab to switch fields"))
		}
	}

	box := m.theme.FormBox.Render(b.String())
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// Locked reports whether the form is in cooldown. Used by tests.
func (m Model) Locked() bool {
	return m.state == StateLocked
}

// ErrorText returns the visible error line. Used by tests.
func (m Model) ErrorText() string {
	return m.errText
}
