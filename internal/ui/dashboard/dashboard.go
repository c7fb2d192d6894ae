// Copyright (c) 2025-2026 EazziHotech Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dashboard provides the protected operations view.
//
// Mounting the view arms the idle watchdog; every user input forwards an
// activity signal so the inactivity clock restarts. The watchdog is stopped
// when the view unmounts on an explicit logout.
package dashboard

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tolulopedd/EazziHotech-Web-V2-sub001/internal/api"
	"github.com/tolulopedd/EazziHotech-Web-V2-sub001/internal/router"
	"github.com/tolulopedd/EazziHotech-Web-V2-sub001/internal/session"
	"github.com/tolulopedd/EazziHotech-Web-V2-sub001/internal/ui/components"
	"github.com/tolulopedd/EazziHotech-Web-V2-sub001/internal/ui/styles"
	"github.com/tolulopedd/EazziHotech-Web-V2-sub001/internal/util"
)

// =============================================================================
// MESSAGES
// =============================================================================

// summaryMsg carries the operations summary fetch outcome.
type summaryMsg struct {
	summary *Summary
	err     error
}

// logoutDoneMsg signals that an explicit logout completed.
type logoutDoneMsg struct {
	err error
}

// Summary is the operations overview payload.
type Summary struct {
	OccupiedRooms int `json:"occupiedRooms"`
	TotalRooms    int `json:"totalRooms"`
	ArrivalsToday int `json:"arrivalsToday"`
	DeparturesDue int `json:"departuresDue"`
	OpenTickets   int `json:"openTickets"`
}

// =============================================================================
// DASHBOARD MODEL
// =============================================================================

// Model is the Bubble Tea model for the dashboard view.
type Model struct {
	theme    *styles.Theme
	client   *api.Client
	store    *session.Store
	watchdog *session.Watchdog
	header   *components.Header

	// path is the section restored from a re-authentication return
	// parameter, shown as the current location.
	path string

	summary    *Summary
	loading    bool
	fetchErr   string
	loggingOut bool
	spinner    spinner.Model

	width  int
	height int
}

// New creates the dashboard view for the current session.
func New(theme *styles.Theme, client *api.Client, store *session.Store, watchdog *session.Watchdog, path string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	header := components.NewHeader(theme)
	if sess, err := store.Get(); err == nil {
		header.SetSession(sess)
	}

	if path == "" {
		path = "/overview"
	}

	return Model{
		theme:    theme,
		client:   client,
		store:    store,
		watchdog: watchdog,
		header:   header,
		path:     path,
		loading:  true,
		spinner:  sp,
	}
}

// Init arms the watchdog and kicks off the summary fetch.
func (m Model) Init() tea.Cmd {
	if err := m.watchdog.Start(); err != nil {
		return func() tea.Msg { return summaryMsg{err: err} }
	}
	return tea.Batch(m.spinner.Tick, m.fetchSummary())
}

// Update handles messages for the dashboard view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	// Any user input counts as activity and restarts the inactivity clock.
	if signal, ok := session.SignalFromMsg(msg); ok {
		m.watchdog.Signal(signal)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.header.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			if !m.loading {
				m.loading = true
				m.fetchErr = ""
				return m, tea.Batch(m.spinner.Tick, m.fetchSummary())
			}
		case "ctrl+l":
			return m.logout()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading && !m.loggingOut {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case summaryMsg:
		m.loading = false
		if msg.err != nil {
			// A token rejection already forced logout through the pipeline;
			// anything else is shown in place.
			m.fetchErr = errorText(msg.err)
			return m, nil
		}
		m.summary = msg.summary
		return m, nil

	case logoutDoneMsg:
		m.loggingOut = false
		return m, func() tea.Msg {
			return router.ReplaceMsg{Route: router.LoginRoute("")}
		}
	}

	return m, nil
}

// Stop releases the watchdog when the view unmounts.
func (m Model) Stop() {
	m.watchdog.Stop()
}

// fetchSummary loads the operations overview.
func (m Model) fetchSummary() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()

		var summary Summary
		if _, err := client.Do(ctx, http.MethodGet, "/dashboard/summary", nil, &summary); err != nil {
			return summaryMsg{err: err}
		}
		return summaryMsg{summary: &summary}
	}
}

// logout stops the watchdog and terminates the session on user request.
func (m Model) logout() (Model, tea.Cmd) {
	if m.loggingOut {
		return m, nil
	}
	m.loggingOut = true
	m.watchdog.Stop()

	client := m.client
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()
		return logoutDoneMsg{err: client.Logout(ctx)}
	})
}

func errorText(err error) string {
	if apiErr, ok := api.AsError(err); ok {
		return apiErr.Message
	}
	return "Could not reach the server"
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the dashboard.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.header.View())
	b.WriteString("\n\n")

	b.WriteString(m.theme.FormLabel.Render("Section: " + m.path))
	b.WriteString("\n\n")

	switch {
	case m.loggingOut:
		b.WriteString(m.spinner.View())
		b.WriteString(m.theme.FormHint.Render(" signing out..."))
	case m.loading:
		b.WriteString(m.spinner.View())
		b.WriteString(m.theme.FormHint.Render(" loading overview..."))
	case m.fetchErr != "":
		b.WriteString(styles.RenderError(m.fetchErr))
		b.WriteString("\n")
		b.WriteString(m.theme.FormHint.Render("press r to retry"))
	case m.summary != nil:
		b.WriteString(m.renderSummary())
	}

	b.WriteString("\n\n")
	b.WriteString(m.statusBar())

	return m.theme.Container.Render(b.String())
}

// summaryColWidth keeps the overview figures in even columns.
const summaryColWidth = 20

// renderSummary lays out the overview figures.
func (m Model) renderSummary() string {
	s := m.summary
	cell := lipgloss.NewStyle().Padding(0, 2)

	occupancy := fmt.Sprintf("Occupancy %d/%d", s.OccupiedRooms, s.TotalRooms)
	cols := []string{
		cell.Render(m.theme.InfoStyle.Render(util.PadRight(occupancy, summaryColWidth))),
		cell.Render(util.PadRight(fmt.Sprintf("Arrivals today: %d", s.ArrivalsToday), summaryColWidth)),
		cell.Render(util.PadRight(fmt.Sprintf("Departures due: %d", s.DeparturesDue), summaryColWidth)),
		cell.Render(fmt.Sprintf("Open tickets: %d", s.OpenTickets)),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

// statusBar renders the shortcut help line.
func (m Model) statusBar() string {
	parts := []string{
		m.theme.ShortcutKey.Render("r") + m.theme.ShortcutDesc.Render(" refresh"),
		m.theme.ShortcutKey.Render("ctrl+l") + m.theme.ShortcutDesc.Render(" sign out"),
		m.theme.ShortcutKey.Render("ctrl+c") + m.theme.ShortcutDesc.Render(" quit"),
	}
	return m.theme.StatusBar.Render(strings.Join(parts, "  "))
}
