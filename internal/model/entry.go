package model

import (
	"errors"
	"strings"
	"time"

	"github.com/sandeepkv93/noted/internal/hashtag"
)

var (
	ErrMissingStamp = errors.New("model: entry stamp is required")
	ErrEmptyText    = errors.New("model: entry text is required")
)

// StampLayout is the timestamp line that opens every appended entry.
const StampLayout = "2006-01-02 15:04:05"

// Entry is one timestamped block of the notes document. Entries are a
// derived view; the document text stays the source of truth.
type Entry struct {
	Stamp time.Time
	Text  string
}

func (e Entry) Validate() error {
	if e.Stamp.IsZero() {
		return ErrMissingStamp
	}
	if strings.TrimSpace(e.Text) == "" {
		return ErrEmptyText
	}
	return nil
}

// Tags lists the distinct hashtags in the entry text, unordered.
func (e Entry) Tags() []string {
	counts := hashtag.Scan(e.Text)
	out := make([]string, 0, len(counts))
	for tag := range counts {
		out = append(out, tag)
	}
	return out
}

// HasTag reports whether the entry mentions #tag.
func (e Entry) HasTag(tag string) bool {
	tag = strings.TrimPrefix(tag, "#")
	_, ok := hashtag.Scan(e.Text)[tag]
	return ok
}

// ParseEntries splits document text into timestamped entries. A line that
// parses as a stamp opens a new entry; everything up to the next stamp is
// its text. Content before the first stamp is ignored.
func ParseEntries(doc string) []Entry {
	lines := strings.Split(doc, "\n")
	entries := make([]Entry, 0)
	var current *Entry

	flush := func() {
		if current == nil {
			return
		}
		current.Text = strings.TrimRight(current.Text, "\n")
		if strings.TrimSpace(current.Text) != "" {
			entries = append(entries, *current)
		}
		current = nil
	}

	for _, line := range lines {
		if stamp, err := time.Parse(StampLayout, strings.TrimSpace(line)); err == nil {
			flush()
			current = &Entry{Stamp: stamp}
			continue
		}
		if current != nil {
			if current.Text != "" {
				current.Text += "\n"
			}
			current.Text += line
		}
	}
	flush()
	return entries
}

// FilterByTag keeps only entries mentioning #tag. An empty tag keeps
// everything.
func FilterByTag(entries []Entry, tag string) []Entry {
	tag = strings.TrimPrefix(tag, "#")
	if tag == "" {
		return entries
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.HasTag(tag) {
			out = append(out, e)
		}
	}
	return out
}
