package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

var ErrUnreadable = errors.New("document: backing file unreadable")

// DefaultDebounce is the quiet period after an edit before the buffer hits
// disk. Bursts of edits inside the window coalesce into one write.
const DefaultDebounce = 500 * time.Millisecond

const timestampLayout = "2006-01-02 15:04:05"

// Options configure a Service. Zero values fall back to sane defaults.
type Options struct {
	Debounce time.Duration
	Location *time.Location
	Now      func() time.Time
}

// Service owns the single notes document: the in-memory buffer, debounced
// persistence to the backing file, and change notification to subscribers.
// All mutations go through Append and Replace.
type Service struct {
	path string

	mu     sync.Mutex
	text   string
	dirty  bool
	timer  *time.Timer
	closed bool
	subs   []func(string)

	debounce time.Duration
	loc      *time.Location
	now      func() time.Time

	saves     uint64
	lastSaved atomic.Int64
}

func NewService(path string, opts Options) *Service {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		path:     path,
		debounce: opts.Debounce,
		loc:      opts.Location,
		now:      opts.Now,
	}
}

// Load reads the backing file into the buffer. A missing file is a fresh
// start; any other read failure falls back to an empty buffer and reports
// ErrUnreadable so the caller can surface it. The service stays usable
// either way.
func (s *Service) Load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.setText("")
			return nil
		}
		s.setText("")
		return fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	s.setText(string(raw))
	return nil
}

func (s *Service) setText(text string) {
	s.mu.Lock()
	s.text = text
	s.dirty = false
	s.mu.Unlock()
	s.publish(text)
}

// Text returns the current buffer.
func (s *Service) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Path returns the backing file path.
func (s *Service) Path() string { return s.path }

// Append adds a timestamp-prefixed entry at the end of the buffer and
// schedules a save. Prior content is left untouched; a separating newline is
// added only when the buffer does not already end with one.
func (s *Service) Append(text string) {
	stamp := s.now().In(s.loc).Format(timestampLayout)

	s.mu.Lock()
	var b strings.Builder
	b.WriteString(s.text)
	if s.text != "" && !strings.HasSuffix(s.text, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString(stamp)
	b.WriteByte('\n')
	b.WriteString(text)
	b.WriteString("\n\n")
	s.text = b.String()
	snapshot := s.text
	s.scheduleSaveLocked()
	s.mu.Unlock()

	s.publish(snapshot)
}

// Replace swaps the whole buffer, typically from the editor widget, and
// schedules a save. Replacing with identical content is a no-op.
func (s *Service) Replace(text string) {
	s.mu.Lock()
	if text == s.text {
		s.mu.Unlock()
		return
	}
	s.text = text
	s.scheduleSaveLocked()
	s.mu.Unlock()

	s.publish(text)
}

// Subscribe registers fn to run after every buffer change, including reloads.
func (s *Service) Subscribe(fn func(text string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Flush writes any pending change synchronously. Safe to call when clean.
func (s *Service) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if !s.dirty {
		return nil
	}
	return s.saveLocked()
}

// Close flushes pending writes and stops the debounce timer.
func (s *Service) Close() error {
	err := s.Flush()
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return err
}

// SaveCount reports how many disk writes have completed.
func (s *Service) SaveCount() uint64 {
	return atomic.LoadUint64(&s.saves)
}

// LastSaved reports when the buffer last hit disk, zero if never.
func (s *Service) LastSaved() time.Time {
	n := s.lastSaved.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

// Dirty reports whether the buffer has edits not yet on disk.
func (s *Service) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// scheduleSaveLocked marks the buffer dirty and (re)arms the debounce timer.
// A new edit resets the pending timer; the timer is the only cancellation
// mechanism for an in-flight debounce.
func (s *Service) scheduleSaveLocked() {
	s.dirty = true
	if s.closed {
		return
	}
	if s.timer == nil {
		s.timer = time.AfterFunc(s.debounce, s.onDebounceTick)
		return
	}
	s.timer.Reset(s.debounce)
}

func (s *Service) onDebounceTick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty || s.closed {
		return
	}
	// Write failures stay silent: the buffer stays dirty and the next edit
	// re-arms the timer for another attempt.
	_ = s.saveLocked()
}

func (s *Service) saveLocked() error {
	dir := filepath.Dir(s.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(s.text), 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return err
	}
	s.dirty = false
	atomic.AddUint64(&s.saves, 1)
	s.lastSaved.Store(s.now().UnixNano())
	return nil
}

func (s *Service) publish(text string) {
	s.mu.Lock()
	subs := make([]func(string), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(text)
	}
}
