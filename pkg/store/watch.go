package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType describes the nature of a storage change notification.
type EventType int

const (
	// EventKeyChanged indicates the value stored at Key was written or removed.
	EventKeyChanged EventType = iota

	// EventInvalidated signals a change that could not be attributed to a
	// single key; consumers should reload everything they display.
	EventInvalidated
)

// Event is emitted by Diskv.Watch when files under the base path change.
type Event struct {
	Type EventType
	Key  string
}

const watchCoalesce = 100 * time.Millisecond

// Watch streams change events until ctx is cancelled. Bursts of writes are
// coalesced so a consumer refreshes once per burst. The channel is closed
// once ctx is done or the watcher fails.
func (p *Diskv) Watch(ctx context.Context) (<-chan Event, error) {
	if p.basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(p.basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}

	dirs, err := collectDirs(p.basePath)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("store: enumerate directories: %w", err)
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("store: watch %s: %w", dir, err)
		}
	}

	events := make(chan Event, 64)

	go func() {
		defer close(events)
		defer watcher.Close()

		watched := make(map[string]struct{}, len(dirs))
		for _, dir := range dirs {
			watched[dir] = struct{}{}
		}

		pending := make(map[Event]struct{})
		var flush <-chan time.Time
		enqueue := func(ev Event) {
			pending[ev] = struct{}{}
			if flush == nil {
				flush = time.After(watchCoalesce)
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-flush:
				flush = nil
				for _, ev := range drain(pending) {
					select {
					case events <- ev:
					case <-ctx.Done():
						return
					}
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				enqueue(Event{Type: EventInvalidated})
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				name := filepath.Clean(evt.Name)
				if evt.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
					// diskv prunes empty namespace directories; fsnotify
					// drops their watch with them.
					if _, found := watched[name]; found {
						delete(watched, name)
						continue
					}
				}
				if evt.Op&fsnotify.Create == fsnotify.Create {
					if info, err := os.Stat(name); err == nil && info.IsDir() {
						if _, found := watched[name]; !found {
							if err := watcher.Add(name); err == nil {
								watched[name] = struct{}{}
							}
						}
						// A key may land in the new directory before the watch
						// is in place.
						enqueue(Event{Type: EventInvalidated})
						continue
					}
				}
				key, ok := p.keyForPath(evt.Name)
				if !ok {
					enqueue(Event{Type: EventInvalidated})
					continue
				}
				enqueue(Event{Type: EventKeyChanged, Key: key})
			}
		}
	}()

	return events, nil
}

// drain empties pending and returns its events in a stable order.
func drain(pending map[Event]struct{}) []Event {
	out := make([]Event, 0, len(pending))
	for ev := range pending {
		out = append(out, ev)
		delete(pending, ev)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// collectDirs walks base and returns all directories that should be watched.
func collectDirs(base string) ([]string, error) {
	dirs := []string{base}
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() && path != base {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}

// keyForPath maps a file below the base path back to its storage key.
func (p *Diskv) keyForPath(path string) (string, bool) {
	rel, err := filepath.Rel(p.basePath, path)
	if err != nil || rel == "." {
		return "", false
	}
	parts := strings.Split(rel, string(os.PathSeparator))
	if len(parts) != 2 || parts[1] == "" {
		return "", false
	}
	key := keyForFile(parts[1])
	if namespace(key) != parts[0] {
		return "", false
	}
	return key, true
}
