// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for lineadmin.
package config

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the global configuration when the config file changes on
// disk. Editors typically emit bursts of write events, so changes are
// debounced before triggering a reload.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	onReload func(*Config)
	ctx      context.Context
	cancel   context.CancelFunc
}

// DefaultWatchDebounce spaces out reloads during editor write bursts.
const DefaultWatchDebounce = 250 * time.Millisecond

// NewWatcher creates a watcher for the standard config path. onReload is
// invoked (from the watcher goroutine) after each successful reload; it may
// be nil.
func NewWatcher(onReload func(*Config)) (*Watcher, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		watcher:  fw,
		path:     path,
		debounce: DefaultWatchDebounce,
		onReload: onReload,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Watch starts watching for config file changes. The parent directory is
// watched, not the file itself: atomic saves replace the file by rename,
// which would silently drop a file-level watch.
func (w *Watcher) Watch() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := w.watcher.Add(dir); err != nil {
		return err
	}

	go w.processEvents()
	return nil
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.cancel()
	return w.watcher.Close()
}

func (w *Watcher) processEvents() {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
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
			if event.Name != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, w.reload)

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; the stale config stays in effect.
		}
	}
}

func (w *Watcher) reload() {
	if err := ReloadGlobal(); err != nil {
		return
	}
	if w.onReload != nil {
		w.onReload(Global())
	}
}
