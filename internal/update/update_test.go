package update

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/noted/internal/config"
	"github.com/sandeepkv93/noted/internal/document"
	"github.com/sandeepkv93/noted/internal/signals"
)

func newTestModel(t *testing.T, initial string) Model {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notes.txt")
	svc := document.NewService(path, document.Options{
		Debounce: time.Hour,
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC) },
	})
	if err := svc.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if initial != "" {
		svc.Replace(initial)
	}
	t.Cleanup(func() { _ = svc.Close() })

	settings := config.Default()
	settings.ToggleGuardMs = 0
	m := NewModel(Deps{Settings: settings, Doc: svc, Bus: signals.NewBus()})
	return press(t, m, FocusCaptureMsg{})
}

func press(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func typeRunes(t *testing.T, m Model, s string) Model {
	t.Helper()
	return press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func TestNewModelDefaults(t *testing.T) {
	m := newTestModel(t, "")
	if m.Mode != ModeCapture {
		t.Fatalf("default mode = %q, want capture", m.Mode)
	}
	if m.Settings.Keys.Quit != "ctrl+c" {
		t.Fatalf("quit key = %q", m.Settings.Keys.Quit)
	}
}

func TestCaptureAppendsTimestampedEntry(t *testing.T) {
	m := newTestModel(t, "prior content\n")
	m = typeRunes(t, m, "buy milk #food")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	text := m.Doc.Text()
	if !strings.HasPrefix(text, "prior content\n") {
		t.Fatalf("prior content modified: %q", text)
	}
	if !strings.Contains(text, "2026-02-09 12:00:00\nbuy milk #food\n\n") {
		t.Fatalf("entry missing or malformed: %q", text)
	}
	if m.Status.Text != "captured" {
		t.Fatalf("status = %q", m.Status.Text)
	}
	if m.captureInput.Value() != "" {
		t.Fatalf("capture input not cleared: %q", m.captureInput.Value())
	}

	tags := m.Tags.Suggestions("")
	if len(tags) == 0 || tags[0] != "food" {
		t.Fatalf("tag not recorded as most recent: %v", tags)
	}
}

func TestCaptureEmptyInputIsNoop(t *testing.T) {
	m := newTestModel(t, "")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Doc.Text() != "" {
		t.Fatalf("buffer mutated: %q", m.Doc.Text())
	}
}

func TestSuggestionsWhileTypingTag(t *testing.T) {
	m := newTestModel(t, "old note #work\nanother #workshop\n")
	m = typeRunes(t, m, "meeting #wo")

	if len(m.suggestions) != 2 {
		t.Fatalf("suggestions = %v", m.suggestions)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	got := m.captureInput.Value()
	if got != "meeting #work " && got != "meeting #workshop " {
		t.Fatalf("accepted value = %q", got)
	}
	if len(m.suggestions) != 0 {
		t.Fatalf("suggestions should clear after accept: %v", m.suggestions)
	}
}

func TestSuggestionCycling(t *testing.T) {
	m := newTestModel(t, "#aa one\n#ab two\n")
	m = typeRunes(t, m, "#a")
	if len(m.suggestions) != 2 {
		t.Fatalf("suggestions = %v", m.suggestions)
	}
	first := m.suggestions[m.suggestIdx]
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	if m.suggestions[m.suggestIdx] == first {
		t.Fatal("ctrl+n did not advance selection")
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlP})
	if m.suggestions[m.suggestIdx] != first {
		t.Fatal("ctrl+p did not cycle back")
	}
}

func TestSlashTagCommandFiltersEntries(t *testing.T) {
	m := newTestModel(t, "2026-02-09 10:00:00\nalpha #work\n\n2026-02-09 11:00:00\nbeta\n\n")
	m = typeRunes(t, m, "/tag work")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.Mode != ModeTagFilter {
		t.Fatalf("mode = %q, want tagfilter", m.Mode)
	}
	if m.TagFilter != "work" {
		t.Fatalf("filter = %q", m.TagFilter)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Mode != ModeCapture || m.TagFilter != "" {
		t.Fatalf("esc should clear filter: mode=%q filter=%q", m.Mode, m.TagFilter)
	}
}

func TestSlashUnknownCommandSetsErrorStatus(t *testing.T) {
	m := newTestModel(t, "")
	m = typeRunes(t, m, "/frobnicate")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if !m.Status.IsError {
		t.Fatalf("expected error status, got %+v", m.Status)
	}
}

func TestSlashSaveFlushes(t *testing.T) {
	m := newTestModel(t, "unsaved buffer")
	m = typeRunes(t, m, "/save")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.Status.Text != "saved" {
		t.Fatalf("status = %q", m.Status.Text)
	}
	if m.Doc.Dirty() {
		t.Fatal("buffer still dirty after /save")
	}
}

func TestSearchToggleAndQueryRetention(t *testing.T) {
	m := newTestModel(t, "abcABCabc")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlF})
	if m.Mode != ModeSearch {
		t.Fatalf("mode = %q, want search", m.Mode)
	}

	m = typeRunes(t, m, "abc")
	if got := len(m.Finder.Matches()); got != 3 {
		t.Fatalf("matches = %d, want 3", got)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	pos, total := m.Finder.Position()
	if pos != 2 || total != 3 {
		t.Fatalf("position = %d/%d, want 2/3", pos, total)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Mode != ModeCapture {
		t.Fatalf("mode = %q after esc", m.Mode)
	}
	if m.Finder.Query() != "abc" {
		t.Fatalf("query lost on hide: %q", m.Finder.Query())
	}
}

func TestEditModeCheckboxToggle(t *testing.T) {
	m := newTestModel(t, "alpha\nbeta")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlE})
	if m.Mode != ModeEdit {
		t.Fatalf("mode = %q, want edit", m.Mode)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	if got := m.Doc.Text(); got != "alpha\n[ ] beta" {
		t.Fatalf("text = %q, want %q", got, "alpha\n[ ] beta")
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	if got := m.Doc.Text(); got != "alpha\n[x] beta" {
		t.Fatalf("text = %q, want %q", got, "alpha\n[x] beta")
	}
}

func TestEditModeStrikethroughToggle(t *testing.T) {
	m := newTestModel(t, "alpha")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlE})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlK})

	if got := m.Doc.Text(); got != "~~alpha~~" {
		t.Fatalf("text = %q, want %q", got, "~~alpha~~")
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlK})
	if got := m.Doc.Text(); got != "alpha" {
		t.Fatalf("round trip = %q", got)
	}
}

func TestEditTypingReplacesDocument(t *testing.T) {
	m := newTestModel(t, "base")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlE})
	m = typeRunes(t, m, "x")

	if !strings.Contains(m.Doc.Text(), "x") {
		t.Fatalf("document not updated from editor: %q", m.Doc.Text())
	}
	if !m.Doc.Dirty() {
		t.Fatal("edit should schedule a save")
	}
}

func TestFlushKeySaves(t *testing.T) {
	m := newTestModel(t, "to be saved")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.Status.Text != "saved" {
		t.Fatalf("status = %q", m.Status.Text)
	}
	if m.Doc.Dirty() {
		t.Fatal("still dirty after flush key")
	}
}

func TestQuitKeyFlushesAndQuits(t *testing.T) {
	m := newTestModel(t, "quit me")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	next := updated.(Model)
	if !next.Quitting {
		t.Fatal("expected quitting flag")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if next.Doc.Dirty() {
		t.Fatal("buffer should be flushed on quit")
	}
}

func TestStatusAndErrorMessages(t *testing.T) {
	m := newTestModel(t, "")
	m = press(t, m, SetStatusMsg{Text: "ready"})
	if m.Status.Text != "ready" || m.Status.IsError {
		t.Fatalf("status = %+v", m.Status)
	}

	m = press(t, m, AppErrorMsg{Err: errors.New("boom")})
	if m.LastError == nil || !m.Status.IsError {
		t.Fatalf("error not recorded: %+v", m.Status)
	}

	m = press(t, m, ClearStatusMsg{})
	if m.Status.Text != "" {
		t.Fatalf("status not cleared: %+v", m.Status)
	}
}

func TestClockTickUpdatesClockAndRearms(t *testing.T) {
	m := newTestModel(t, "")
	at := time.Date(2026, 2, 9, 12, 30, 45, 0, time.UTC)
	updated, cmd := m.Update(ClockTickMsg(at))
	next := updated.(Model)
	if !next.Clock.Equal(at) {
		t.Fatalf("clock = %v", next.Clock)
	}
	if cmd == nil {
		t.Fatal("tick should re-arm")
	}
}

func TestExternalReloadRefreshesDerivedState(t *testing.T) {
	m := newTestModel(t, "#fresh tag here")
	_ = m.Doc.Flush()
	m = press(t, m, ExternalReloadMsg{})
	if m.Status.Text != "reloaded from disk" {
		t.Fatalf("status = %q", m.Status.Text)
	}
	if got := m.Tags.Suggestions(""); len(got) != 1 || got[0] != "fresh" {
		t.Fatalf("tags = %v", got)
	}
}

func TestViewContainsCoreState(t *testing.T) {
	m := newTestModel(t, "hello notes")
	m.Status = StatusBar{Text: "all good"}
	m = press(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	out := m.View()
	if !strings.Contains(out, "mode: capture") {
		t.Fatalf("mode missing from view: %q", out)
	}
	if !strings.Contains(out, "all good") {
		t.Fatalf("status missing from view: %q", out)
	}
	if !strings.Contains(out, "notes.txt") {
		t.Fatalf("file name missing from view: %q", out)
	}
}

func TestToggleSignalsPublished(t *testing.T) {
	bus := signals.NewBus()
	var topics []signals.Topic
	for _, topic := range []signals.Topic{
		signals.TopicToggleCheckbox,
		signals.TopicShowSearch,
		signals.TopicDismissSearch,
	} {
		topic := topic
		bus.Subscribe(topic, func(ev signals.Event) { topics = append(topics, ev.Topic) })
	}

	path := filepath.Join(t.TempDir(), "notes.txt")
	svc := document.NewService(path, document.Options{Debounce: time.Hour})
	_ = svc.Load()
	svc.Replace("line")
	t.Cleanup(func() { _ = svc.Close() })

	settings := config.Default()
	settings.ToggleGuardMs = 0
	m := NewModel(Deps{Settings: settings, Doc: svc, Bus: bus})

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlE})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlF})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlF})

	want := []signals.Topic{
		signals.TopicToggleCheckbox,
		signals.TopicShowSearch,
		signals.TopicDismissSearch,
	}
	if len(topics) != len(want) {
		t.Fatalf("topics = %v, want %v", topics, want)
	}
	for i := range want {
		if topics[i] != want[i] {
			t.Fatalf("topics = %v, want %v", topics, want)
		}
	}
}
