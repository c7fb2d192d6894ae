// Copyright (c) 2025-2026 EazziHotech Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestNewTheme_StylesInitialized(t *testing.T) {
	theme := NewTheme()

	// A zero-value style renders input unchanged; initialized styles carry
	// attributes. Spot-check a few that the screens depend on.
	if theme.HeaderBrand.GetBold() != true {
		t.Error("HeaderBrand should be bold")
	}
	if theme.LockoutBanner.GetBold() != true {
		t.Error("LockoutBanner should be bold")
	}
	if theme.FormBox.GetPaddingLeft() == 0 {
		t.Error("FormBox should carry padding")
	}
}

func TestSetSize_LayoutModes(t *testing.T) {
	theme := NewTheme()

	theme.SetSize(45, 20)
	if theme.GetLayoutMode() != LayoutNarrow {
		t.Errorf("45 cols = %v, want narrow", theme.GetLayoutMode())
	}

	theme.SetSize(80, 24)
	if theme.GetLayoutMode() != LayoutMedium {
		t.Errorf("80 cols = %v, want medium", theme.GetLayoutMode())
	}

	theme.SetSize(140, 40)
	if theme.GetLayoutMode() != LayoutWide {
		t.Errorf("140 cols = %v, want wide", theme.GetLayoutMode())
	}
}

func TestRenderHelpers_IncludeShapeIndicators(t *testing.T) {
	if !strings.Contains(RenderSuccess("saved"), "[OK]") {
		t.Error("RenderSuccess missing [OK] indicator")
	}
	if !strings.Contains(RenderError("failed"), "[X]") {
		t.Error("RenderError missing [X] indicator")
	}
	if !strings.Contains(RenderWarning("expiring"), "[!]") {
		t.Error("RenderWarning missing [!] indicator")
	}
	if !strings.Contains(RenderInfo("note"), "[i]") {
		t.Error("RenderInfo missing [i] indicator")
	}
}
