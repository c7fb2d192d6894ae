// Copyright (c) 2025-2026 EazziHotech Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// CONFIG WATCHER
// =============================================================================

// defaultDebounce coalesces editor write bursts into one reload.
const defaultDebounce = 250 * time.Millisecond

// Watcher reloads the config file when it changes on disk and hands the
// result to an OnChange callback. A reload that fails validation is dropped:
// the previous config stays in effect.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange func(*Config)

	mu      sync.Mutex
	pending time.Time
	paths   map[string]bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewWatcher creates a watcher over the default config file locations.
// onChange is invoked with each successfully reloaded config.
func NewWatcher(onChange func(*Config)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		watcher:  fsw,
		debounce: defaultDebounce,
		onChange: onChange,
		paths:    make(map[string]bool),
		ctx:      ctx,
		cancel:   cancel,
	}

	tomlPath, err := ConfigPathTOML()
	if err != nil {
		fsw.Close()
		cancel()
		return nil, err
	}
	jsonPath, _ := ConfigPathJSON()
	w.paths[tomlPath] = true
	if jsonPath != "" {
		w.paths[jsonPath] = true
	}
	return w, nil
}

// Watch starts watching for config changes.
//
// The config directory is watched rather than the files themselves: editors
// replace files on save, which would silently detach a per-file watch.
func (w *Watcher) Watch() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	if err := w.watcher.Add(dir); err != nil {
		return err
	}

	go w.processEvents()
	go w.processPending()
	return nil
}

// processEvents marks config-file writes as pending.
func (w *Watcher) processEvents() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("config watcher panic: %v", r)
		}
	}()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.paths[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.mu.Lock()
			w.pending = time.Now()
			w.mu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("config watcher error: %v", err)
		}
	}
}

// processPending fires a reload once writes have settled past the debounce.
func (w *Watcher) processPending() {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			w.mu.Lock()
			due := !w.pending.IsZero() && time.Since(w.pending) >= w.debounce
			if due {
				w.pending = time.Time{}
			}
			w.mu.Unlock()

			if due {
				w.reload()
			}
		}
	}
}

// reload re-reads the config and notifies the callback on success.
func (w *Watcher) reload() {
	cfg, err := Load()
	if err != nil {
		log.Printf("config reload rejected: %v", err)
		return
	}
	if w.onChange != nil {
		w.onChange(cfg)
	}
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.cancel()
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}
