// Copyright (c) 2025-2026 EazziHotech Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui hosts the application shell: screen switching, session
// notices, and the wiring between the request pipeline and the views.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tolulopedd/EazziHotech-Web-V2-sub001/internal/api"
	"github.com/tolulopedd/EazziHotech-Web-V2-sub001/internal/config"
	"github.com/tolulopedd/EazziHotech-Web-V2-sub001/internal/limiter"
	"github.com/tolulopedd/EazziHotech-Web-V2-sub001/internal/router"
	"github.com/tolulopedd/EazziHotech-Web-V2-sub001/internal/session"
	"github.com/tolulopedd/EazziHotech-Web-V2-sub001/internal/ui/components"
	"github.com/tolulopedd/EazziHotech-Web-V2-sub001/internal/ui/dashboard"
	"github.com/tolulopedd/EazziHotech-Web-V2-sub001/internal/ui/login"
	"github.com/tolulopedd/EazziHotech-Web-V2-sub001/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// noticeMsg carries a session termination reason from the logout bus into
// the update loop.
type noticeMsg string

// ConfigReloadedMsg carries a hot-reloaded config into the update loop.
// The new values take effect on the next screen mount.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// =============================================================================
// APP MODEL
// =============================================================================

// App is the root Bubble Tea model.
type App struct {
	theme  *styles.Theme
	cfg    *config.Config
	client *api.Client
	store  *session.Store
	bus    *session.Bus
	limit  *limiter.Limiter

	screen   router.Screen
	login    login.Model
	dash     dashboard.Model
	watchdog *session.Watchdog

	toasts      *components.ToastManager
	notices     <-chan string
	unsubscribe func()

	width  int
	height int
}

// NewApp creates the application shell.
func NewApp(cfg *config.Config, client *api.Client, store *session.Store, bus *session.Bus) *App {
	theme := styles.NewTheme()
	notices, unsubscribe := bus.Subscribe()

	app := &App{
		theme:  theme,
		cfg:    cfg,
		client: client,
		store:  store,
		bus:    bus,
		limit: limiter.New(
			limiter.WithMaxAttempts(uint(cfg.Session.MaxLoginAttempts)),
			limiter.WithLockDuration(cfg.LockoutDuration()),
		),
		toasts:      components.NewToastManager(theme),
		notices:     notices,
		unsubscribe: unsubscribe,
	}

	// A persisted session lands straight on the dashboard.
	if sess, err := store.Get(); err == nil && sess != nil {
		app.mountDashboard("")
	} else {
		app.mountLogin("")
	}
	return app
}

// mountLogin swaps in a fresh login view.
func (a *App) mountLogin(next string) {
	a.screen = router.ScreenLogin
	a.login = login.New(a.theme, a.client, a.limit, next)
}

// mountDashboard swaps in a fresh dashboard view with its own watchdog.
// Watchdog expiry is terminal per instance, so each mount gets a new one.
func (a *App) mountDashboard(path string) {
	a.screen = router.ScreenDashboard
	a.watchdog = session.NewWatchdog(a.store, a.bus,
		session.WithIdleTimeout(a.cfg.IdleTimeout()))
	a.dash = dashboard.New(a.theme, a.client, a.store, a.watchdog, path)
}

// Init starts the active screen and the notice pump.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForNotice(a.notices), components.ToastTick()}
	if a.screen == router.ScreenDashboard {
		cmds = append(cmds, a.dash.Init())
	} else {
		cmds = append(cmds, a.login.Init())
	}
	return tea.Batch(cmds...)
}

// Update routes messages to the shell and the active screen.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.shutdown()
			return a, tea.Quit
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.theme.SetSize(msg.Width, msg.Height)

	case router.NavigateMsg:
		return a, a.switchTo(msg.Route)

	case router.ReplaceMsg:
		return a, a.switchTo(msg.Route)

	case noticeMsg:
		cmd := a.handleNotice(string(msg))
		return a, tea.Batch(cmd, waitForNotice(a.notices))

	case components.ToastTickMsg:
		a.toasts.Prune()
		return a, components.ToastTick()

	case ConfigReloadedMsg:
		a.cfg = msg.Config
		a.limit = limiter.New(
			limiter.WithMaxAttempts(uint(a.cfg.Session.MaxLoginAttempts)),
			limiter.WithLockDuration(a.cfg.LockoutDuration()),
		)
		a.toasts.Push("Configuration reloaded", components.ToastKindStatus)
		return a, nil
	}

	return a, a.forward(msg)
}

// switchTo mounts the screen for a route.
func (a *App) switchTo(route router.Route) tea.Cmd {
	if a.screen == router.ScreenDashboard && route.Screen != router.ScreenDashboard {
		a.dash.Stop()
	}

	switch route.Screen {
	case router.ScreenDashboard:
		a.mountDashboard(route.Path())
		return a.dash.Init()
	default:
		a.mountLogin(route.Next())
		return a.login.Init()
	}
}

// handleNotice surfaces a session termination reason as a toast. Idle
// timeout also lands the user on the login screen; the other reasons arrive
// with their own navigation.
func (a *App) handleNotice(reason string) tea.Cmd {
	switch reason {
	case session.ReasonIdleTimeout:
		a.toasts.Push("Signed out due to inactivity", components.ToastKindWarning)
		return a.switchTo(router.LoginRoute(""))
	case session.ReasonUnauthorized:
		a.toasts.Push("Session expired - please sign in again", components.ToastKindError)
	case session.ReasonLogout:
		a.toasts.Push("Signed out", components.ToastKindSuccess)
	}
	return nil
}

// forward hands a message to the active screen.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if a.screen == router.ScreenDashboard {
		a.dash, cmd = a.dash.Update(msg)
	} else {
		a.login, cmd = a.login.Update(msg)
	}
	return cmd
}

// shutdown releases resources on quit.
func (a *App) shutdown() {
	if a.screen == router.ScreenDashboard {
		a.dash.Stop()
	}
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}

// View renders the active screen with the toast stack on top.
func (a *App) View() string {
	var view string
	if a.screen == router.ScreenDashboard {
		view = a.dash.View()
	} else {
		view = a.login.View()
	}

	if toasts := a.toasts.View(); toasts != "" {
		view = toasts + "\n" + view
	}
	return a.theme.App.Render(view)
}

// waitForNotice blocks on the logout bus and re-injects each reason as a
// message. The command is re-issued after every delivery.
func waitForNotice(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		reason, ok := <-ch
		if !ok {
			return nil
		}
		return noticeMsg(reason)
	}
}
