package update

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/noted/internal/commands"
	"github.com/sandeepkv93/noted/internal/hashtag"
	"github.com/sandeepkv93/noted/internal/signals"
	"github.com/sandeepkv93/noted/internal/storage"
)

func (m Model) handleCaptureKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.submitCapture()
	case "tab":
		if len(m.suggestions) > 0 {
			m.acceptSuggestion()
			return m, nil
		}
	case "ctrl+n":
		if len(m.suggestions) > 0 {
			m.suggestIdx = (m.suggestIdx + 1) % len(m.suggestions)
			return m, nil
		}
	case "ctrl+p":
		if len(m.suggestions) > 0 {
			m.suggestIdx--
			if m.suggestIdx < 0 {
				m.suggestIdx = len(m.suggestions) - 1
			}
			return m, nil
		}
	case "esc":
		m.suggestions = nil
		m.suggestIdx = 0
		return m, nil
	}

	var cmd tea.Cmd
	m.captureInput, cmd = m.captureInput.Update(msg)
	m.refreshSuggestions()
	return m, cmd
}

func (m *Model) submitCapture() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.captureInput.Value())
	if value == "" {
		return *m, nil
	}
	if strings.HasPrefix(value, "/") {
		return m.runSlashCommand(value)
	}

	entryTags := sortedTags(hashtag.Scan(value))
	m.Doc.Append(value)
	for _, tag := range entryTags {
		m.Tags.RecordUsage(tag)
	}
	m.refreshDerived()
	m.resetCapture()
	m.syncNotesView()
	m.Status = StatusBar{Text: "captured"}
	return *m, m.persistCaptureCmd(value, entryTags)
}

func (m *Model) resetCapture() {
	m.captureInput.Reset()
	m.suggestions = nil
	m.suggestIdx = 0
}

func (m *Model) runSlashCommand(value string) (tea.Model, tea.Cmd) {
	cmd, err := commands.Parse(value)
	if err != nil {
		m.Status = StatusBar{Text: "command error: " + err.Error(), IsError: true}
		return *m, nil
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Find: func(a commands.FindArgs) (commands.Result, error) {
			m.Finder.SetQuery(a.Query, m.docText())
			m.Finder.Show()
			m.Mode = ModeSearch
			m.searchInput.SetValue(a.Query)
			m.searchInput.CursorEnd()
			m.captureInput.Blur()
			m.searchInput.Focus()
			m.Bus.Publish(signals.TopicShowSearch, "")
			return commands.Result{Message: "searching"}, nil
		},
		Tag: func(a commands.TagArgs) (commands.Result, error) {
			m.TagFilter = a.Name
			m.Mode = ModeTagFilter
			m.captureInput.Blur()
			m.Bus.Publish(signals.TopicTagJump, a.Name)
			return commands.Result{Message: "filtering #" + a.Name}, nil
		},
		Clear: func() (commands.Result, error) {
			m.clearTagFilter()
			return commands.Result{Message: "filter cleared"}, nil
		},
		Save: func() (commands.Result, error) {
			if err := m.Doc.Flush(); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "saved"}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: "command error: " + err.Error(), IsError: true}
		return *m, nil
	}

	m.resetCapture()
	m.syncNotesView()
	m.Status = StatusBar{Text: res.Message}
	return *m, nil
}

// suggestPrefix returns the #token the cursor is completing, without the
// hash. The second return is false when the input does not end in a tag
// token.
func (m *Model) suggestPrefixOK() (string, bool) {
	value := m.captureInput.Value()
	idx := strings.LastIndex(value, "#")
	if idx == -1 {
		return "", false
	}
	token := value[idx+1:]
	if strings.ContainsAny(token, " \t\n") {
		return "", false
	}
	return token, true
}

func (m *Model) suggestPrefix() string {
	prefix, _ := m.suggestPrefixOK()
	return prefix
}

func (m *Model) refreshSuggestions() {
	prefix, ok := m.suggestPrefixOK()
	if !ok {
		m.suggestions = nil
		m.suggestIdx = 0
		return
	}
	m.suggestions = m.Tags.Suggestions(prefix)
	if m.suggestIdx >= len(m.suggestions) {
		m.suggestIdx = 0
	}
}

// acceptSuggestion replaces the in-progress #token with the selected tag.
func (m *Model) acceptSuggestion() {
	if m.suggestIdx >= len(m.suggestions) {
		return
	}
	tag := m.suggestions[m.suggestIdx]
	value := m.captureInput.Value()
	idx := strings.LastIndex(value, "#")
	if idx == -1 {
		return
	}
	m.captureInput.SetValue(value[:idx+1] + tag + " ")
	m.Tags.RecordUsage(tag)
	m.suggestions = nil
	m.suggestIdx = 0
}

func (m *Model) persistCaptureCmd(text string, tags []string) tea.Cmd {
	if m.Store == nil {
		return nil
	}
	store := m.Store
	at := m.now()
	return func() tea.Msg {
		ctx := context.Background()
		capture := storage.Capture{
			ID:         fmt.Sprintf("cap-%d", at.UnixNano()),
			CapturedAt: at,
			Chars:      len([]rune(text)),
			Tags:       len(tags),
		}
		if err := store.RecordCapture(ctx, capture); err != nil {
			return AppErrorMsg{Err: fmt.Errorf("record capture: %w", err)}
		}
		for _, tag := range tags {
			if err := store.RecordTagUsage(ctx, tag, at); err != nil {
				return AppErrorMsg{Err: fmt.Errorf("record tag usage: %w", err)}
			}
		}
		return nil
	}
}

func sortedTags(counts map[string]int) []string {
	out := make([]string, 0, len(counts))
	for tag := range counts {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
