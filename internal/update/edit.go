package update

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/noted/internal/linemark"
	"github.com/sandeepkv93/noted/internal/signals"
)

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Mode = ModeCapture
		m.editArea.Blur()
		m.syncNotesView()
		return m, focusCaptureCmd()
	case m.Settings.Keys.Checkbox:
		m.applyToggle(signals.TopicToggleCheckbox)
		return m, nil
	case m.Settings.Keys.Strikethrough:
		m.applyToggle(signals.TopicToggleStrikethrough)
		return m, nil
	}

	var cmd tea.Cmd
	m.editArea, cmd = m.editArea.Update(msg)
	m.Doc.Replace(m.editArea.Value())
	m.refreshDerived()
	return m, cmd
}

// applyToggle runs a line transform at the editor cursor and pushes the
// result back into both the widget and the document service.
func (m *Model) applyToggle(topic signals.Topic) {
	m.Bus.Publish(topic, "")

	text := m.editArea.Value()
	row := m.editArea.Line()
	col := m.editArea.LineInfo().CharOffset
	cursor := absoluteOffset(text, row, col)

	var res linemark.Result
	switch topic {
	case signals.TopicToggleCheckbox:
		res = m.Marks.ToggleCheckbox(text, cursor)
	case signals.TopicToggleStrikethrough:
		res = m.Marks.ToggleStrikethrough(text, cursor)
	}
	if !res.Changed {
		return
	}

	m.editArea.SetValue(res.Text)
	newRow, newCol := rowCol(res.Text, res.Cursor)
	setEditorCursor(&m.editArea, newRow, newCol)

	m.Doc.Replace(res.Text)
	m.refreshDerived()
}

// absoluteOffset converts a (row, col) textarea position into a rune offset
// into text.
func absoluteOffset(text string, row, col int) int {
	lines := strings.Split(text, "\n")
	if row < 0 {
		row = 0
	}
	if row >= len(lines) {
		row = len(lines) - 1
	}
	off := 0
	for i := 0; i < row; i++ {
		off += len([]rune(lines[i])) + 1
	}
	lineLen := len([]rune(lines[row]))
	if col > lineLen {
		col = lineLen
	}
	if col < 0 {
		col = 0
	}
	return off + col
}

// rowCol is the inverse of absoluteOffset.
func rowCol(text string, offset int) (int, int) {
	runes := []rune(text)
	if offset > len(runes) {
		offset = len(runes)
	}
	if offset < 0 {
		offset = 0
	}
	row, col := 0, 0
	for _, r := range runes[:offset] {
		if r == '\n' {
			row++
			col = 0
			continue
		}
		col++
	}
	return row, col
}

// setEditorCursor walks the textarea cursor to the target position; the
// widget has no absolute set-position API.
func setEditorCursor(area *textarea.Model, row, col int) {
	for area.Line() > row {
		before := area.Line()
		area.CursorUp()
		if area.Line() == before {
			break
		}
	}
	for area.Line() < row {
		before := area.Line()
		area.CursorDown()
		if area.Line() == before {
			break
		}
	}
	area.SetCursor(col)
}
