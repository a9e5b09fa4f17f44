package update

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/noted/internal/search"
	"github.com/sandeepkv93/noted/internal/signals"
)

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Finder.Hide()
		m.Mode = ModeCapture
		m.searchInput.Blur()
		m.Bus.Publish(signals.TopicDismissSearch, "")
		m.syncNotesView()
		return m, focusCaptureCmd()
	case "enter", "ctrl+n", "down":
		if match, ok := m.Finder.Next(); ok {
			m.scrollToMatch(match)
		}
		m.syncNotesView()
		return m, nil
	case "ctrl+p", "up":
		if match, ok := m.Finder.Previous(); ok {
			m.scrollToMatch(match)
		}
		m.syncNotesView()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.Finder.SetQuery(m.searchInput.Value(), m.docText())
	if match, ok := m.Finder.Current(); ok {
		m.scrollToMatch(match)
	}
	m.syncNotesView()
	return m, cmd
}

// scrollToMatch brings the line holding the match into the viewport.
func (m *Model) scrollToMatch(match search.Match) {
	line := lineOfOffset(m.docText(), match.Start)
	top := m.notesView.YOffset
	bottom := top + m.notesView.Height - 1
	if line < top {
		m.notesView.SetYOffset(line)
		return
	}
	if line > bottom {
		m.notesView.SetYOffset(line - m.notesView.Height + 1)
	}
}

func lineOfOffset(text string, offset int) int {
	runes := []rune(text)
	if offset > len(runes) {
		offset = len(runes)
	}
	return strings.Count(string(runes[:offset]), "\n")
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		if m.Mode == ModeTagFilter {
			m.clearTagFilter()
		} else {
			m.Mode = ModeCapture
			m.syncNotesView()
		}
		return m, focusCaptureCmd()
	}

	var cmd tea.Cmd
	m.notesView, cmd = m.notesView.Update(msg)
	return m, cmd
}
