package hashtag

import (
	"sort"
	"strings"
	"unicode"
)

// DefaultSuggestionLimit caps how many tags a prefix query returns.
const DefaultSuggestionLimit = 10

// Record tracks one tag's frequency and recency. Recency is a monotonically
// increasing order stamp, not a wall-clock time.
type Record struct {
	Tag      string
	Count    int
	LastUsed int
}

// Index maintains tag frequency and recency for autocomplete. Tags are kept
// case-sensitive as authored; prefix matching is case-sensitive too.
type Index struct {
	records map[string]*Record
	clock   int
	limit   int
}

func NewIndex(limit int) *Index {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	return &Index{records: make(map[string]*Record), limit: limit}
}

// Rescan replaces the record set from a fresh scan of text. Counts come from
// the scan; recency stamps of tags that survive the rescan are preserved.
func (ix *Index) Rescan(text string) {
	counts := Scan(text)
	next := make(map[string]*Record, len(counts))
	for tag, count := range counts {
		rec := &Record{Tag: tag, Count: count}
		if prev, ok := ix.records[tag]; ok {
			rec.LastUsed = prev.LastUsed
		}
		next[tag] = rec
	}
	ix.records = next
}

// RecordUsage increments a tag's count and bumps it to most recent.
func (ix *Index) RecordUsage(tag string) {
	tag = strings.TrimPrefix(tag, "#")
	if tag == "" {
		return
	}
	rec, ok := ix.records[tag]
	if !ok {
		rec = &Record{Tag: tag}
		ix.records[tag] = rec
	}
	rec.Count++
	ix.clock++
	rec.LastUsed = ix.clock
}

// Seed bumps recency for tags in the given order, oldest first, without
// touching counts. Used to restore autocomplete ordering across restarts.
func (ix *Index) Seed(tags []string) {
	for _, tag := range tags {
		tag = strings.TrimPrefix(tag, "#")
		if tag == "" {
			continue
		}
		rec, ok := ix.records[tag]
		if !ok {
			rec = &Record{Tag: tag}
			ix.records[tag] = rec
		}
		ix.clock++
		rec.LastUsed = ix.clock
	}
}

// Suggestions returns tags starting with prefix, ordered by recency desc,
// then count desc, then lexically, capped at the index limit.
func (ix *Index) Suggestions(prefix string) []string {
	prefix = strings.TrimPrefix(prefix, "#")
	matched := make([]*Record, 0, len(ix.records))
	for _, rec := range ix.records {
		if strings.HasPrefix(rec.Tag, prefix) {
			matched = append(matched, rec)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].LastUsed != matched[j].LastUsed {
			return matched[i].LastUsed > matched[j].LastUsed
		}
		if matched[i].Count != matched[j].Count {
			return matched[i].Count > matched[j].Count
		}
		return matched[i].Tag < matched[j].Tag
	})
	if len(matched) > ix.limit {
		matched = matched[:ix.limit]
	}
	out := make([]string, len(matched))
	for i, rec := range matched {
		out[i] = rec.Tag
	}
	return out
}

// Len reports how many distinct tags the index holds.
func (ix *Index) Len() int { return len(ix.records) }

// Records returns a copy of all records, unordered.
func (ix *Index) Records() []Record {
	out := make([]Record, 0, len(ix.records))
	for _, rec := range ix.records {
		out = append(out, *rec)
	}
	return out
}

// Scan counts #tag tokens in text. A tag is the contiguous run of
// non-whitespace after a '#'; a bare '#' is not a tag.
func Scan(text string) map[string]int {
	counts := make(map[string]int)
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '#' {
			continue
		}
		j := i + 1
		for j < len(runes) && !unicode.IsSpace(runes[j]) {
			j++
		}
		if j > i+1 {
			counts[string(runes[i+1:j])]++
		}
		i = j - 1
	}
	return counts
}
