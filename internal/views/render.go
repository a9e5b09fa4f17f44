package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Header      string
	Clock       string
	NotesPane   string
	BottomPane  string
	Suggestions string
	StatusLine  string
	Footer      string
}

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	clockStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	highlightStyle = lipgloss.NewStyle().Reverse(true)
	currentStyle   = lipgloss.NewStyle().Reverse(true).Bold(true)
)

const paneWidth = 78

func RenderApp(data AppData) string {
	header := headerStyle.Render(data.Header)
	if data.Clock != "" {
		header += "  " + clockStyle.Render(data.Clock)
	}

	status := statusStyle.Render(data.StatusLine)
	if strings.Contains(strings.ToLower(data.StatusLine), "error") {
		status = errorStyle.Render(data.StatusLine)
	}

	lines := []string{
		header,
		panelStyle.Width(paneWidth).Render(data.NotesPane),
	}
	if data.Suggestions != "" {
		lines = append(lines, suggestStyle.Render(data.Suggestions))
	}
	lines = append(lines, panelStyle.Width(paneWidth).Render(data.BottomPane))
	if data.StatusLine != "" {
		lines = append(lines, status)
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

// RenderMarkdown renders the notes buffer as markdown for preview mode.
// Rendering failures fall back to the raw text.
func RenderMarkdown(md string, theme string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	if theme != "light" {
		theme = "dark"
	}
	out, err := glamour.Render(md, theme)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}

// Range is a highlighted region of rendered text, in runes.
type Range struct {
	Start  int
	Length int
}

// HighlightRanges re-renders text with the given regions emphasized; the
// region at currentIdx gets the stronger style. Ranges must be ordered and
// non-overlapping, which is what the search engine produces.
func HighlightRanges(text string, ranges []Range, currentIdx int) string {
	if len(ranges) == 0 {
		return text
	}
	runes := []rune(text)
	var b strings.Builder
	pos := 0
	for i, r := range ranges {
		if r.Start < pos || r.Start > len(runes) {
			continue
		}
		end := r.Start + r.Length
		if end > len(runes) {
			end = len(runes)
		}
		b.WriteString(string(runes[pos:r.Start]))
		style := highlightStyle
		if i == currentIdx {
			style = currentStyle
		}
		b.WriteString(style.Render(string(runes[r.Start:end])))
		pos = end
	}
	b.WriteString(string(runes[pos:]))
	return b.String()
}
