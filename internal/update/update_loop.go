package update

import (
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/noted/internal/model"
	"github.com/sandeepkv93/noted/internal/search"
	"github.com/sandeepkv93/noted/internal/signals"
	"github.com/sandeepkv93/noted/internal/views"
)

// focusSettle delays the initial focus grab until the first frame has
// rendered; focusing a component that is not on screen yet is a no-op.
const focusSettle = 120 * time.Millisecond

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		clockTickCmd(),
		tea.Tick(focusSettle, func(time.Time) tea.Msg { return FocusCaptureMsg{} }),
	}
	if m.reloads != nil {
		cmds = append(cmds, waitForReloadCmd(m.reloads))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(typed.Width, typed.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(typed)

	case ClockTickMsg:
		m.Clock = time.Time(typed)
		return m, clockTickCmd()

	case ExternalReloadMsg:
		m.refreshDerived()
		m.syncNotesView()
		m.Status = StatusBar{Text: "reloaded from disk"}
		if m.reloads != nil {
			return m, waitForReloadCmd(m.reloads)
		}
		return m, nil

	case FocusCaptureMsg:
		// The target may be gone if the user already switched modes; a
		// missed focus request is silently dropped.
		if m.Mode == ModeCapture {
			m.captureInput.Focus()
		}
		return m, nil

	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil

	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil

	case AppErrorMsg:
		if typed.Err != nil {
			m.LastError = typed.Err
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.Settings.Keys
	switch msg.String() {
	case "ctrl+c", keys.Quit:
		m.Quitting = true
		if m.Doc != nil {
			_ = m.Doc.Flush()
		}
		return m, tea.Quit
	case keys.Flush:
		return m.flushNow()
	case keys.Search:
		return m.toggleSearch()
	case keys.Edit:
		return m.toggleEdit()
	case keys.Preview:
		return m.togglePreview()
	case keys.ClearFilter:
		m.clearTagFilter()
		return m, nil
	}

	switch m.Mode {
	case ModeCapture:
		return m.handleCaptureKey(msg)
	case ModeEdit:
		return m.handleEditKey(msg)
	case ModeSearch:
		return m.handleSearchKey(msg)
	case ModePreview, ModeTagFilter:
		return m.handleBrowseKey(msg)
	}
	return m, nil
}

func (m *Model) flushNow() (tea.Model, tea.Cmd) {
	if m.Doc == nil {
		return *m, nil
	}
	if err := m.Doc.Flush(); err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: "save error: " + err.Error(), IsError: true}
		return *m, nil
	}
	m.Status = StatusBar{Text: "saved"}
	return *m, nil
}

func (m *Model) toggleSearch() (tea.Model, tea.Cmd) {
	if m.Finder.Toggle() {
		m.Mode = ModeSearch
		m.searchInput.SetValue(m.Finder.Query())
		m.searchInput.CursorEnd()
		m.captureInput.Blur()
		m.searchInput.Focus()
		m.Finder.SetQuery(m.searchInput.Value(), m.docText())
		m.Bus.Publish(signals.TopicShowSearch, "")
	} else {
		m.Mode = ModeCapture
		m.searchInput.Blur()
		m.Bus.Publish(signals.TopicDismissSearch, "")
		return *m, focusCaptureCmd()
	}
	m.Bus.Publish(signals.TopicToggleSearch, "")
	m.syncNotesView()
	return *m, nil
}

func (m *Model) toggleEdit() (tea.Model, tea.Cmd) {
	if m.Mode == ModeEdit {
		m.Mode = ModeCapture
		m.editArea.Blur()
		return *m, focusCaptureCmd()
	}
	m.Mode = ModeEdit
	m.captureInput.Blur()
	m.editArea.SetValue(m.docText())
	m.editArea.Focus()
	m.Bus.Publish(signals.TopicFocusRequest, "editor")
	return *m, nil
}

func (m *Model) togglePreview() (tea.Model, tea.Cmd) {
	if m.Mode == ModePreview {
		m.Mode = ModeCapture
		m.syncNotesView()
		return *m, focusCaptureCmd()
	}
	m.Mode = ModePreview
	m.captureInput.Blur()
	m.syncNotesView()
	return *m, nil
}

func (m *Model) clearTagFilter() {
	m.TagFilter = ""
	if m.Mode == ModeTagFilter {
		m.Mode = ModeCapture
	}
	m.Bus.Publish(signals.TopicClearTagFilter, "")
	m.syncNotesView()
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	paneWidth := width - 4
	if paneWidth < 20 {
		paneWidth = defaultPaneWidth
	}
	notesHeight := height - captureHeight - 7
	if notesHeight < 4 {
		notesHeight = defaultNotesHeight
	}
	m.captureInput.SetWidth(paneWidth)
	m.editArea.SetWidth(paneWidth)
	m.editArea.SetHeight(notesHeight)
	m.notesView.Width = paneWidth
	m.notesView.Height = notesHeight
	m.syncNotesView()
}

// syncNotesView refreshes the viewport content for the current mode.
func (m *Model) syncNotesView() {
	text := m.docText()
	switch m.Mode {
	case ModePreview:
		m.notesView.SetContent(views.RenderMarkdown(text, m.Settings.Theme))
	case ModeTagFilter:
		entries := model.FilterByTag(model.ParseEntries(text), m.TagFilter)
		data := make([]views.EntryData, 0, len(entries))
		for _, e := range entries {
			data = append(data, views.EntryData{
				Stamp: e.Stamp.Format(model.StampLayout),
				Text:  e.Text,
			})
		}
		m.notesView.SetContent(views.RenderEntryList(m.TagFilter, data))
	default:
		if m.Finder.Visible() && len(m.Finder.Matches()) > 0 {
			m.notesView.SetContent(views.HighlightRanges(text, matchRanges(m.Finder), currentMatchIndex(m.Finder)))
			return
		}
		m.notesView.SetContent(text)
	}
}

func matchRanges(s *search.Session) []views.Range {
	matches := s.Matches()
	out := make([]views.Range, len(matches))
	for i, match := range matches {
		out[i] = views.Range{Start: match.Start, Length: match.Length}
	}
	return out
}

func currentMatchIndex(s *search.Session) int {
	pos, _ := s.Position()
	return pos - 1
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	status := m.Status.Text
	if m.Status.IsError && status != "" {
		status = "error: " + status
	}
	if m.Mode == ModeSearch {
		pos, total := m.Finder.Position()
		status = views.RenderSearchStatus(m.Finder.Query(), pos, total)
	}

	saved := "unsaved"
	if m.Doc != nil {
		if last := m.Doc.LastSaved(); !last.IsZero() {
			saved = "saved " + last.In(m.Settings.Location()).Format("15:04:05")
		}
		if !m.Doc.Dirty() && m.Doc.SaveCount() == 0 {
			saved = "clean"
		}
	}

	file := ""
	if m.Doc != nil {
		file = filepath.Base(m.Doc.Path())
	}
	header := fmt.Sprintf("noted | %s | mode: %s | %s", file, m.Mode, saved)
	if m.TagFilter != "" {
		header += " | filter: #" + m.TagFilter
	}

	clock := ""
	if !m.Clock.IsZero() {
		clock = m.Clock.In(m.Settings.Location()).Format("15:04:05")
	}

	bottom := m.captureInput.View()
	switch m.Mode {
	case ModeSearch:
		bottom = m.searchInput.View()
	case ModeEdit:
		bottom = "editing full document (esc or " + m.Settings.Keys.Edit + " to leave)"
	}

	notes := m.notesView.View()
	if m.Mode == ModeEdit {
		notes = m.editArea.View()
	}

	suggestions := ""
	if m.Mode == ModeCapture && len(m.suggestions) > 0 {
		suggestions = views.RenderSuggestions(views.SuggestionData{
			Prefix:   m.suggestPrefix(),
			Tags:     m.suggestions,
			Selected: m.suggestIdx,
		})
	}

	keys := m.Settings.Keys
	footer := fmt.Sprintf("keys: %s save | %s search | %s edit | %s preview | %s clear filter | %s quit",
		keys.Flush, keys.Search, keys.Edit, keys.Preview, keys.ClearFilter, keys.Quit)

	return views.RenderApp(views.AppData{
		Header:      header,
		Clock:       clock,
		NotesPane:   notes,
		BottomPane:  bottom,
		Suggestions: suggestions,
		StatusLine:  status,
		Footer:      footer,
	})
}

func clockTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return ClockTickMsg(t) })
}

func waitForReloadCmd(reloads <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-reloads; !ok {
			return nil
		}
		return ExternalReloadMsg{}
	}
}

func focusCaptureCmd() tea.Cmd {
	return tea.Tick(focusSettle, func(time.Time) tea.Msg { return FocusCaptureMsg{} })
}
