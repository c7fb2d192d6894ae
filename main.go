// EazziHotech TUI - terminal operations client for the EazziHotech platform.
//
// Copyright (c) 2025-2026 EazziHotech Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tolulopedd/EazziHotech-Web-V2-sub001/internal/api"
	"github.com/tolulopedd/EazziHotech-Web-V2-sub001/internal/config"
	"github.com/tolulopedd/EazziHotech-Web-V2-sub001/internal/router"
	"github.com/tolulopedd/EazziHotech-Web-V2-sub001/internal/session"
	"github.com/tolulopedd/EazziHotech-Web-V2-sub001/internal/storage"
	"github.com/tolulopedd/EazziHotech-Web-V2-sub001/internal/ui"
)

// Version information (set at build time)
var (
	Version   = "2.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "load configuration from a specific file")
	flag.Parse()

	if *showVersion {
		fmt.Printf("eazzihotech %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	// Load configuration
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.Load()
		if err != nil && cfg != nil {
			// Defaults loaded; the file was unreadable.
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			err = nil
		}
	}
	if err != nil {
		return err
	}

	// The update loop owns the terminal; request logging goes to a file.
	if err := setupLogging(); err != nil {
		return err
	}

	// Open the session store
	storePath, err := cfg.StorePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(storePath), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	kv, err := storage.Open(storePath)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	defer kv.Close()

	store := session.NewStore(kv)
	bus := session.NewBus()

	// The navigator forwards into the Bubble Tea loop. The program does not
	// exist yet; the closure captures the variable assigned below.
	var program *tea.Program
	nav := router.NewProgram(func(msg tea.Msg) {
		if program != nil {
			program.Send(msg)
		}
	})

	client := api.New(cfg.API.BaseURL, store, bus, nav).
		WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout()}).
		WithUserAgent("eazzihotech-tui/" + Version)

	app := ui.NewApp(cfg, client, store, bus)
	program = tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(), // pointer activity feeds the idle watchdog
	)

	// Hot-reload config edits while the client runs.
	watcher, err := config.NewWatcher(func(next *config.Config) {
		program.Send(ui.ConfigReloadedMsg{Config: next})
	})
	if err == nil {
		if err := watcher.Watch(); err != nil {
			log.Printf("config watcher disabled: %v", err)
		}
		defer watcher.Close()
	} else {
		log.Printf("config watcher disabled: %v", err)
	}

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run program: %w", err)
	}
	return nil
}

// setupLogging redirects the standard logger to ~/.eazzihotech/client.log.
func setupLogging() error {
	dir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(dir, "client.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)
	return nil
}
