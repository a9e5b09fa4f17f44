package linemark

import (
	"testing"
	"time"
)

func newTestEngine(variant CheckboxVariant) *Engine {
	e := NewEngine(variant, 0)
	e.now = func() time.Time { return time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC) }
	return e
}

func TestToggleCheckboxLineCycle(t *testing.T) {
	cases := []struct {
		name      string
		line      string
		variant   CheckboxVariant
		wantLine  string
		wantDelta int
	}{
		{"insert marker", "buy milk", VariantClear, "[ ] buy milk", 4},
		{"insert keeps indent", "  buy milk", VariantClear, "  [ ] buy milk", 4},
		{"check", "[ ] buy milk", VariantClear, "[x] buy milk", 0},
		{"clear checked lowercase", "[x] buy milk", VariantClear, "buy milk", -4},
		{"clear checked uppercase", "[X] buy milk", VariantClear, "buy milk", -4},
		{"uncheck variant", "[x] buy milk", VariantUncheck, "[ ] buy milk", 0},
		{"uncheck variant uppercase", "[X] buy milk", VariantUncheck, "[ ] buy milk", 0},
		{"bare marker no trailing space", "[ ]", VariantClear, "[x]", 0},
		{"malformed marker treated as none", "[] buy milk", VariantClear, "[ ] [] buy milk", 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, delta := ToggleCheckboxLine(tc.line, tc.variant)
			if got != tc.wantLine {
				t.Fatalf("line = %q, want %q", got, tc.wantLine)
			}
			if delta != tc.wantDelta {
				t.Fatalf("delta = %d, want %d", delta, tc.wantDelta)
			}
		})
	}
}

func TestToggleCheckboxDoubleToggleRestoresMarkerPair(t *testing.T) {
	line := "[ ] write tests"
	once, d1 := ToggleCheckboxLine(line, VariantUncheck)
	twice, d2 := ToggleCheckboxLine(once, VariantUncheck)
	if twice != line {
		t.Fatalf("double toggle = %q, want %q", twice, line)
	}
	if d1+d2 != 0 {
		t.Fatalf("net cursor delta = %d, want 0", d1+d2)
	}
}

func TestToggleStrikethroughRoundTrip(t *testing.T) {
	cases := []string{"buy milk", "  indented note", "a"}
	for _, line := range cases {
		wrapped, d1 := ToggleStrikethroughLine(line)
		back, d2 := ToggleStrikethroughLine(wrapped)
		if back != line {
			t.Fatalf("round trip of %q = %q", line, back)
		}
		if d1 != 2 || d2 != -2 {
			t.Fatalf("deltas = %d, %d, want 2, -2", d1, d2)
		}
	}
}

func TestToggleStrikethroughBlankLineIsNoop(t *testing.T) {
	got, delta := ToggleStrikethroughLine("   ")
	if got != "   " || delta != 0 {
		t.Fatalf("got %q delta %d, want unchanged", got, delta)
	}
}

func TestToggleStrikethroughShortWrapperNotUnwrapped(t *testing.T) {
	// "~~~" has prefix and suffix overlapping; content too short to strip.
	got, delta := ToggleStrikethroughLine("~~~")
	if got != "~~~~~~~" || delta != 2 {
		t.Fatalf("got %q delta %d", got, delta)
	}
}

func TestEngineTogglesLineUnderCursor(t *testing.T) {
	e := newTestEngine(VariantClear)
	text := "first line\nsecond line\nthird line"
	cursor := len("first line\nsec")

	res := e.ToggleCheckbox(text, cursor)
	if !res.Changed {
		t.Fatal("expected change")
	}
	want := "first line\n[ ] second line\nthird line"
	if res.Text != want {
		t.Fatalf("text = %q, want %q", res.Text, want)
	}
	if res.Cursor != cursor+4 {
		t.Fatalf("cursor = %d, want %d", res.Cursor, cursor+4)
	}
}

func TestEngineCursorClampedToLineStart(t *testing.T) {
	e := newTestEngine(VariantClear)
	text := "before\n[x] done\nafter"
	lineStart := len("before\n")
	cursor := lineStart + 1

	res := e.ToggleCheckbox(text, cursor)
	if !res.Changed {
		t.Fatal("expected change")
	}
	if res.Text != "before\ndone\nafter" {
		t.Fatalf("text = %q", res.Text)
	}
	if res.Cursor != lineStart {
		t.Fatalf("cursor = %d, want %d", res.Cursor, lineStart)
	}
}

func TestEngineGuardDropsRapidRetrigger(t *testing.T) {
	e := NewEngine(VariantClear, 100*time.Millisecond)
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return now }

	res := e.ToggleCheckbox("note", 0)
	if !res.Changed {
		t.Fatal("first toggle should apply")
	}

	now = now.Add(50 * time.Millisecond)
	res2 := e.ToggleCheckbox(res.Text, res.Cursor)
	if res2.Changed {
		t.Fatal("toggle within guard interval should be dropped")
	}
	if res2.Text != res.Text {
		t.Fatalf("dropped toggle mutated text: %q", res2.Text)
	}

	now = now.Add(100 * time.Millisecond)
	res3 := e.ToggleCheckbox(res.Text, res.Cursor)
	if !res3.Changed {
		t.Fatal("toggle after guard interval should apply")
	}
}

func TestEngineStrikethroughNetZeroAcrossPair(t *testing.T) {
	e := newTestEngine(VariantClear)
	text := "alpha\nbeta\ngamma"
	cursor := len("alpha\nbe")

	res := e.ToggleStrikethrough(text, cursor)
	if res.Text != "alpha\n~~beta~~\ngamma" {
		t.Fatalf("text = %q", res.Text)
	}
	back := e.ToggleStrikethrough(res.Text, res.Cursor)
	if back.Text != text {
		t.Fatalf("round trip = %q", back.Text)
	}
	if back.Cursor != cursor {
		t.Fatalf("cursor = %d, want %d", back.Cursor, cursor)
	}
}
