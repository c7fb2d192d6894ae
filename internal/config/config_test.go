// Copyright (c) 2025-2026 EazziHotech Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults failed validation: %v", err)
	}
	if cfg.Session.IdleTimeoutSecs != 300 {
		t.Errorf("IdleTimeoutSecs = %d, want 300", cfg.Session.IdleTimeoutSecs)
	}
	if cfg.Session.MaxLoginAttempts != 5 {
		t.Errorf("MaxLoginAttempts = %d, want 5", cfg.Session.MaxLoginAttempts)
	}
	if cfg.Session.LockoutSecs != 30 {
		t.Errorf("LockoutSecs = %d, want 30", cfg.Session.LockoutSecs)
	}
}

func TestLoadFromPath_TOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
version = "2.0.0"

[api]
base_url = "https://staging.eazzihotech.example/v2"
timeout_secs = 10

[session]
idle_timeout_secs = 120
max_login_attempts = 4
lockout_secs = 60

[ui]
theme = "light"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.API.BaseURL != "https://staging.eazzihotech.example/v2" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.Session.IdleTimeoutSecs != 120 {
		t.Errorf("IdleTimeoutSecs = %d, want 120", cfg.Session.IdleTimeoutSecs)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Theme = %q, want light", cfg.UI.Theme)
	}
}

func TestLoadFromPath_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{"session": {"idle_timeout_secs": 900}}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Session.IdleTimeoutSecs != 900 {
		t.Errorf("IdleTimeoutSecs = %d, want 900", cfg.Session.IdleTimeoutSecs)
	}
	// Missing sections fall back to defaults.
	if cfg.API.BaseURL == "" {
		t.Error("BaseURL should fall back to default")
	}
}

func TestLoadFromPath_RejectsOutOfRangeIdleTimeout(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[session]
idle_timeout_secs = 5
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatal("expected validation error for 5s idle timeout")
	}
	if !strings.Contains(err.Error(), "idle_timeout_secs") {
		t.Errorf("error = %v, want mention of idle_timeout_secs", err)
	}
}

func TestValidate_Ranges(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad url", func(c *Config) { c.API.BaseURL = "not a url" }, "api.base_url"},
		{"timeout too long", func(c *Config) { c.API.TimeoutSecs = 9999 }, "api.timeout_secs"},
		{"too few attempts", func(c *Config) { c.Session.MaxLoginAttempts = 1 }, "session.max_login_attempts"},
		{"lockout too short", func(c *Config) { c.Session.LockoutSecs = 2 }, "session.lockout_secs"},
		{"unknown theme", func(c *Config) { c.UI.Theme = "solarized" }, "ui.theme"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Errorf("error = %v, want mention of %s", err, tc.field)
			}
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("EAZZIHOTECH_API_URL", "https://override.example/v2")
	t.Setenv("EAZZIHOTECH_IDLE_TIMEOUT_SECS", "600")
	t.Setenv("EAZZIHOTECH_THEME", "auto")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.API.BaseURL != "https://override.example/v2" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.Session.IdleTimeoutSecs != 600 {
		t.Errorf("IdleTimeoutSecs = %d, want 600", cfg.Session.IdleTimeoutSecs)
	}
	if cfg.UI.Theme != "auto" {
		t.Errorf("Theme = %q, want auto", cfg.UI.Theme)
	}
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir) // keep EnsureConfigDir inside the sandbox

	path := filepath.Join(dir, "config.toml")
	cfg := Default()
	cfg.Session.IdleTimeoutSecs = 240

	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("permissions = %o, want 0600", perm)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if loaded.Session.IdleTimeoutSecs != 240 {
		t.Errorf("IdleTimeoutSecs = %d, want 240", loaded.Session.IdleTimeoutSecs)
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg := Default()
	if cfg.IdleTimeout().Seconds() != 300 {
		t.Errorf("IdleTimeout = %v", cfg.IdleTimeout())
	}
	if cfg.RequestTimeout().Seconds() != 30 {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout())
	}
	if cfg.LockoutDuration().Seconds() != 30 {
		t.Errorf("LockoutDuration = %v", cfg.LockoutDuration())
	}
}
