package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchSettle coalesces filesystem event bursts (editors often write a file
// several times in quick succession) before attempting a reload.
const watchSettle = 100 * time.Millisecond

// Watch reloads the buffer when the backing file changes on disk while the
// in-memory buffer has no unsaved edits. Dirty buffers are never clobbered;
// the next save wins instead. The returned channel receives one notification
// per external reload and closes when ctx is cancelled.
func (s *Service) Watch(ctx context.Context) (<-chan struct{}, error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("document: ensure directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("document: create watcher: %w", err)
	}
	// The directory is watched rather than the file so atomic
	// write-then-rename saves from other programs are still seen.
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("document: watch %s: %w", dir, err)
	}

	reloads := make(chan struct{}, 1)
	go func() {
		defer close(reloads)
		defer watcher.Close()

		var settle <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != filepath.Clean(s.path) {
					continue
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				settle = time.After(watchSettle)
			case <-settle:
				settle = nil
				if s.maybeReload() {
					select {
					case reloads <- struct{}{}:
					default:
					}
				}
			}
		}
	}()
	return reloads, nil
}

// maybeReload swaps in the on-disk content if the buffer is clean and the
// file actually differs. Reads that fail are ignored; a later event retries.
func (s *Service) maybeReload() bool {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return false
	}

	s.mu.Lock()
	if s.dirty || s.closed || string(raw) == s.text {
		s.mu.Unlock()
		return false
	}
	s.text = string(raw)
	snapshot := s.text
	s.mu.Unlock()

	s.publish(snapshot)
	return true
}
