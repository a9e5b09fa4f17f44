package update

import (
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/sandeepkv93/noted/internal/config"
	"github.com/sandeepkv93/noted/internal/document"
	"github.com/sandeepkv93/noted/internal/hashtag"
	"github.com/sandeepkv93/noted/internal/linemark"
	"github.com/sandeepkv93/noted/internal/search"
	"github.com/sandeepkv93/noted/internal/signals"
	"github.com/sandeepkv93/noted/internal/storage"
)

type Mode string

const (
	ModeCapture   Mode = "capture"
	ModeEdit      Mode = "edit"
	ModeSearch    Mode = "search"
	ModePreview   Mode = "preview"
	ModeTagFilter Mode = "tagfilter"
)

type StatusBar struct {
	Text    string
	IsError bool
}

// Deps are the services the UI model is wired with. Store may be nil when
// the usage-history database could not be opened; capture still works.
type Deps struct {
	Settings config.Settings
	Doc      *document.Service
	Store    storage.Repository
	Bus      *signals.Bus
	Reloads  <-chan struct{}
}

type Model struct {
	Mode      Mode
	Settings  config.Settings
	Doc       *document.Service
	Tags      *hashtag.Index
	Marks     *linemark.Engine
	Finder    *search.Session
	Bus       *signals.Bus
	Store     storage.Repository
	TagFilter string
	Status    StatusBar
	Clock     time.Time
	Quitting  bool
	LastError error

	captureInput textarea.Model
	editArea     textarea.Model
	searchInput  textinput.Model
	notesView    viewport.Model

	suggestions []string
	suggestIdx  int
	reloads     <-chan struct{}
	width       int
	height      int
	now         func() time.Time
}

const (
	defaultPaneWidth   = 76
	defaultNotesHeight = 16
	captureHeight      = 3
)

func NewModel(deps Deps) Model {
	capture := textarea.New()
	capture.Placeholder = "jot something... (#tag to tag, /find /tag /clear /save)"
	capture.SetWidth(defaultPaneWidth)
	capture.SetHeight(captureHeight)
	capture.ShowLineNumbers = false

	editor := textarea.New()
	editor.SetWidth(defaultPaneWidth)
	editor.SetHeight(defaultNotesHeight)
	editor.ShowLineNumbers = false

	searchIn := textinput.New()
	searchIn.Placeholder = "search notes"
	searchIn.Prompt = "/"

	notes := viewport.New(defaultPaneWidth, defaultNotesHeight)

	bus := deps.Bus
	if bus == nil {
		bus = signals.NewBus()
	}

	m := Model{
		Mode:         ModeCapture,
		Settings:     deps.Settings,
		Doc:          deps.Doc,
		Tags:         hashtag.NewIndex(deps.Settings.SuggestionLimit),
		Marks:        linemark.NewEngine(linemark.CheckboxVariant(deps.Settings.CheckboxVariant), deps.Settings.ToggleGuard()),
		Finder:       search.NewSession(),
		Bus:          bus,
		Store:        deps.Store,
		captureInput: capture,
		editArea:     editor,
		searchInput:  searchIn,
		notesView:    notes,
		reloads:      deps.Reloads,
		now:          time.Now,
	}
	if m.Doc != nil {
		m.Tags.Rescan(m.Doc.Text())
	}
	return m
}

// SeedTagRecency replays persisted usage history into the live index, oldest
// first.
func (m *Model) SeedTagRecency(tags []string) {
	m.Tags.Seed(tags)
}

func (m *Model) docText() string {
	if m.Doc == nil {
		return ""
	}
	return m.Doc.Text()
}

// refreshDerived rebuilds the derived views (tag index, search matches) from
// the buffer. Call after every document mutation.
func (m *Model) refreshDerived() {
	text := m.docText()
	m.Tags.Rescan(text)
	m.Finder.Refresh(text)
}

type ClockTickMsg time.Time

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type ExternalReloadMsg struct{}

type FocusCaptureMsg struct{}
