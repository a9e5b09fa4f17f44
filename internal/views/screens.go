package views

import (
	"fmt"
	"strings"
)

type SuggestionData struct {
	Prefix   string
	Tags     []string
	Selected int
}

// RenderSuggestions draws the tag autocomplete popup as a single line:
//
//	#wo -> [work] workshop workout
func RenderSuggestions(data SuggestionData) string {
	if len(data.Tags) == 0 {
		return ""
	}
	parts := make([]string, 0, len(data.Tags))
	for i, tag := range data.Tags {
		if i == data.Selected {
			parts = append(parts, "["+tag+"]")
			continue
		}
		parts = append(parts, tag)
	}
	return fmt.Sprintf("#%s -> %s", data.Prefix, strings.Join(parts, " "))
}

type EntryData struct {
	Stamp string
	Text  string
}

// RenderEntryList draws the tag-filtered entry view.
func RenderEntryList(tag string, entries []EntryData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "entries tagged #%s (%d)\n", tag, len(entries))
	if len(entries) == 0 {
		b.WriteString("  none")
		return b.String()
	}
	for _, e := range entries {
		fmt.Fprintf(&b, "\n%s\n%s\n", e.Stamp, e.Text)
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderSearchStatus summarizes the active search for the status line.
func RenderSearchStatus(query string, pos, total int) string {
	if query == "" {
		return "search: (type to search)"
	}
	if total == 0 {
		return fmt.Sprintf("search: %q no matches", query)
	}
	return fmt.Sprintf("search: %q match %d/%d", query, pos, total)
}
