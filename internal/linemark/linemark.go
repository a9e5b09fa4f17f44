package linemark

import (
	"strings"
	"time"
	"unicode"
)

// CheckboxVariant selects what a checked marker toggles into. Both behaviors
// exist in the wild, so the choice is configuration rather than code.
type CheckboxVariant string

const (
	// VariantClear removes the marker entirely: none -> [ ] -> [x] -> none.
	VariantClear CheckboxVariant = "clear"
	// VariantUncheck flips back to unchecked: none -> [ ] -> [x] -> [ ].
	VariantUncheck CheckboxVariant = "uncheck"
)

func (v CheckboxVariant) IsValid() bool {
	switch v {
	case VariantClear, VariantUncheck:
		return true
	default:
		return false
	}
}

const (
	uncheckedMarker = "[ ] "
	checkedMarker   = "[x] "
)

// Result is the outcome of applying a toggle to a document buffer.
type Result struct {
	Text    string
	Cursor  int
	Changed bool
}

// Engine applies line-local toggles to a document buffer. Rapid re-triggers
// within the guard interval are dropped; duplicate key events from the
// terminal would otherwise double-fire a toggle.
type Engine struct {
	variant    CheckboxVariant
	guard      time.Duration
	lastToggle time.Time
	now        func() time.Time
}

func NewEngine(variant CheckboxVariant, guard time.Duration) *Engine {
	if !variant.IsValid() {
		variant = VariantClear
	}
	if guard < 0 {
		guard = 0
	}
	return &Engine{variant: variant, guard: guard, now: time.Now}
}

// ToggleCheckbox toggles the checkbox marker on the line containing cursor.
// Cursor is a rune offset into text.
func (e *Engine) ToggleCheckbox(text string, cursor int) Result {
	return e.apply(text, cursor, func(line string) (string, int) {
		return ToggleCheckboxLine(line, e.variant)
	})
}

// ToggleStrikethrough toggles the ~~...~~ wrapper on the line containing
// cursor.
func (e *Engine) ToggleStrikethrough(text string, cursor int) Result {
	return e.apply(text, cursor, ToggleStrikethroughLine)
}

func (e *Engine) apply(text string, cursor int, toggle func(string) (string, int)) Result {
	now := e.now()
	if !e.lastToggle.IsZero() && now.Sub(e.lastToggle) < e.guard {
		return Result{Text: text, Cursor: cursor}
	}

	runes := []rune(text)
	cursor = clamp(cursor, 0, len(runes))
	start, end := lineBounds(runes, cursor)
	line := string(runes[start:end])

	newLine, delta := toggle(line)
	if newLine == line {
		return Result{Text: text, Cursor: cursor}
	}
	e.lastToggle = now

	var b strings.Builder
	b.WriteString(string(runes[:start]))
	b.WriteString(newLine)
	b.WriteString(string(runes[end:]))
	out := b.String()

	newCursor := cursor + delta
	newCursor = clamp(newCursor, start, start+len([]rune(newLine)))
	newCursor = clamp(newCursor, 0, len([]rune(out)))
	return Result{Text: out, Cursor: newCursor, Changed: true}
}

// ToggleCheckboxLine cycles the checkbox marker on a single line and reports
// the cursor delta. An inconsistent marker is treated as no marker present.
func ToggleCheckboxLine(line string, variant CheckboxVariant) (string, int) {
	indent := leadingWhitespace(line)
	rest := line[len(indent):]

	marker, state := classifyMarker(rest)
	switch state {
	case markerUnchecked:
		return indent + checkedMarker[:len(marker)] + rest[len(marker):], 0
	case markerChecked:
		if variant == VariantUncheck {
			return indent + uncheckedMarker[:len(marker)] + rest[len(marker):], 0
		}
		return indent + rest[len(marker):], -len([]rune(marker))
	default:
		return indent + uncheckedMarker + rest, len([]rune(uncheckedMarker))
	}
}

// ToggleStrikethroughLine wraps or unwraps a line in ~~ markers. The wrap
// applies to the trimmed content; a blank line is left alone.
func ToggleStrikethroughLine(line string) (string, int) {
	indent := leadingWhitespace(line)
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return line, 0
	}
	if strings.HasPrefix(trimmed, "~~") && strings.HasSuffix(trimmed, "~~") && len(trimmed) >= 4 {
		return indent + trimmed[2:len(trimmed)-2], -2
	}
	return indent + "~~" + trimmed + "~~", 2
}

type markerState int

const (
	markerNone markerState = iota
	markerUnchecked
	markerChecked
)

// classifyMarker recognizes the marker at the start of a line body. The
// trailing space is optional so a bare "[ ]" at end of line still counts.
func classifyMarker(rest string) (string, markerState) {
	for _, m := range []string{uncheckedMarker, "[ ]"} {
		if matchesMarker(rest, m) {
			return m, markerUnchecked
		}
	}
	for _, m := range []string{checkedMarker, "[X] ", "[x]", "[X]"} {
		if matchesMarker(rest, m) {
			return m, markerChecked
		}
	}
	return "", markerNone
}

func matchesMarker(rest, marker string) bool {
	if !strings.HasPrefix(rest, marker) {
		return false
	}
	// A 3-char form only counts when nothing (or a space, caught by the
	// 4-char form first) follows it.
	return strings.HasSuffix(marker, " ") || len(rest) == len(marker)
}

func lineBounds(runes []rune, cursor int) (int, int) {
	start := cursor
	for start > 0 && runes[start-1] != '\n' {
		start--
	}
	end := cursor
	for end < len(runes) && runes[end] != '\n' {
		end++
	}
	return start, end
}

func leadingWhitespace(line string) string {
	for i, r := range line {
		if !unicode.IsSpace(r) {
			return line[:i]
		}
	}
	return line
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
