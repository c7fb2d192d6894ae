// Copyright (c) 2025-2026 EazziHotech Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the EazziHotech TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tolulopedd/EazziHotech-Web-V2-sub001/internal/session"
	"github.com/tolulopedd/EazziHotech-Web-V2-sub001/internal/ui/styles"
	"github.com/tolulopedd/EazziHotech-Web-V2-sub001/internal/util"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the title bar showing who is signed in to which workspace.
type Header struct {
	Title string
	Width int

	sess  *session.Session
	theme *styles.Theme
}

// NewHeader creates a new Header component with default values.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "EazziHotech",
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetSession updates the signed-in session shown in the header. Pass nil
// when signed out.
func (h *Header) SetSession(sess *session.Session) {
	h.sess = sess
}

// View renders the header component.
func (h *Header) View() string {
	width := h.Width
	if width < 40 {
		width = 40
	}
	innerWidth := width - 6

	brand := h.theme.HeaderBrand.Render("< " + h.Title + " >")

	var parts []string
	if h.sess != nil {
		user := h.sess.UserName
		if h.sess.UserRole != "" {
			user += " (" + h.sess.UserRole + ")"
		}
		parts = append(parts, h.theme.HeaderUser.Render(util.TruncateWidth(user, innerWidth/2)))
		parts = append(parts, h.theme.HeaderTenant.Render(h.sess.TenantID))

		if badge := h.subscriptionBadge(); badge != "" {
			parts = append(parts, badge)
		}
	} else {
		parts = append(parts, h.theme.HeaderTenant.Render("not signed in"))
	}

	brandLine := lipgloss.NewStyle().
		Width(innerWidth).
		Align(lipgloss.Center).
		Render(brand)

	subtitleLine := lipgloss.NewStyle().
		Width(innerWidth).
		Align(lipgloss.Center).
		Render(strings.Join(parts, "  "))

	return h.theme.Header.Width(width - 2).Render(brandLine + "\n" + subtitleLine)
}

// subscriptionBadge renders the workspace subscription state. Expiring
// subscriptions show the remaining days so front-desk staff see the warning
// before access cuts off.
func (h *Header) subscriptionBadge() string {
	if h.sess == nil || h.sess.SubscriptionStatus == "" {
		return ""
	}

	status := strings.ToUpper(h.sess.SubscriptionStatus)
	badge := h.theme.HeaderSubBadge

	if days := h.sess.SubscriptionDaysToExpiry; days != nil && *days <= 14 {
		badge = badge.Background(styles.Amber)
		return badge.Render(fmt.Sprintf("%s - %dd left", status, *days))
	}
	if !strings.EqualFold(h.sess.SubscriptionStatus, "active") {
		badge = badge.Background(styles.Rose)
	}
	return badge.Render(status)
}
