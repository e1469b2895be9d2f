// Copyright (c) 2025 Shizuha Platform
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchPreference reports changes another process makes to the shared
// appearance preference. Each write to the preference file yields the
// re-loaded value; notifications coalesce when the receiver is behind.
// The channel closes when ctx is cancelled or the watcher fails.
func WatchPreference(ctx context.Context, stateDir string) (<-chan Preference, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory, not the file: atomic writes replace the file
	// and a direct watch would be lost on the first rename.
	if err := watcher.Add(stateDir); err != nil {
		watcher.Close()
		return nil, err
	}

	ch := make(chan Preference, 1)
	go func() {
		defer watcher.Close()
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != PreferenceFile {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				pref := LoadPreference(stateDir)
				select {
				case ch <- pref:
				default:
					select {
					case <-ch:
					default:
					}
					select {
					case ch <- pref:
					default:
					}
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return ch, nil
}
