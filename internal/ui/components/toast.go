// Copyright (c) 2025-2026 EazziHotech Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Non-blocking notice toasts. Unlike modal dialogs, toasts render in a
// corner and auto-dismiss, so a session notice (signed out elsewhere, idle
// timeout) never traps the user mid-task.
package components

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tolulopedd/EazziHotech-Web-V2-sub001/internal/ui/styles"
)

// =============================================================================
// TOAST TYPES
// =============================================================================

// ToastKind represents the type of toast notification.
type ToastKind int

const (
	// ToastKindStatus is an informational toast
	ToastKindStatus ToastKind = iota
	// ToastKindError is an error toast
	ToastKindError
	// ToastKindWarning is a warning toast
	ToastKindWarning
	// ToastKindSuccess is a success toast
	ToastKindSuccess
)

// DefaultToastDuration is the auto-dismiss duration for status toasts.
const DefaultToastDuration = 4 * time.Second

// ErrorToastDuration is the auto-dismiss duration for error toasts (longer
// to read).
const ErrorToastDuration = 8 * time.Second

// =============================================================================
// TOAST
// =============================================================================

// Toast represents a non-blocking notification.
type Toast struct {
	ID        int
	Message   string
	Kind      ToastKind
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the toast should be dismissed.
func (t *Toast) IsExpired() bool {
	return time.Since(t.CreatedAt) >= t.Duration
}

// =============================================================================
// TOAST MANAGER
// =============================================================================

// maxVisibleToasts bounds the stack so notices never cover the screen.
const maxVisibleToasts = 3

// ToastManager manages the active toast stack.
type ToastManager struct {
	mu     sync.Mutex
	toasts []Toast
	nextID int
	theme  *styles.Theme
}

// NewToastManager creates a new toast manager.
func NewToastManager(theme *styles.Theme) *ToastManager {
	return &ToastManager{theme: theme}
}

// Push adds a toast to the stack, evicting the oldest past the cap.
func (m *ToastManager) Push(message string, kind ToastKind) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	duration := DefaultToastDuration
	if kind == ToastKindError {
		duration = ErrorToastDuration
	}

	m.toasts = append(m.toasts, Toast{
		ID:        m.nextID,
		Message:   message,
		Kind:      kind,
		CreatedAt: time.Now(),
		Duration:  duration,
	})
	if len(m.toasts) > maxVisibleToasts {
		m.toasts = m.toasts[len(m.toasts)-maxVisibleToasts:]
	}
}

// Prune drops expired toasts and reports whether any remain.
func (m *ToastManager) Prune() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	live := m.toasts[:0]
	for _, t := range m.toasts {
		if !t.IsExpired() {
			live = append(live, t)
		}
	}
	m.toasts = live
	return len(m.toasts) > 0
}

// Count returns the number of live toasts.
func (m *ToastManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.toasts)
}

// View renders the toast stack, newest last.
func (m *ToastManager) View() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.toasts) == 0 {
		return ""
	}

	lines := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		lines = append(lines, m.renderToast(t))
	}
	return lipgloss.JoinVertical(lipgloss.Right, lines...)
}

func (m *ToastManager) renderToast(t Toast) string {
	var body string
	switch t.Kind {
	case ToastKindError:
		body = styles.RenderError(t.Message)
	case ToastKindWarning:
		body = styles.RenderWarning(t.Message)
	case ToastKindSuccess:
		body = styles.RenderSuccess(t.Message)
	default:
		body = styles.RenderInfo(t.Message)
	}
	return m.theme.NoticeBox.Render(body)
}

// =============================================================================
// TICK PLUMBING
// =============================================================================

// ToastTickMsg drives toast expiry through the update loop.
type ToastTickMsg struct{}

// ToastTick schedules the next expiry check.
func ToastTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return ToastTickMsg{}
	})
}
