package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// KeyMap holds the in-app shortcut bindings, as bubbletea key strings.
type KeyMap struct {
	Quit          string
	Flush         string
	Search        string
	Edit          string
	Preview       string
	Checkbox      string
	Strikethrough string
	ClearFilter   string
}

// Settings are the persisted user preferences.
type Settings struct {
	NotesFile       string
	Theme           string
	Timezone        string
	SaveDebounceMs  int
	ToggleGuardMs   int
	SuggestionLimit int
	CheckboxVariant string
	Keys            KeyMap
}

func Default() Settings {
	return Settings{
		NotesFile:       "~/.noted/notes.txt",
		Theme:           "dark",
		Timezone:        "",
		SaveDebounceMs:  500,
		ToggleGuardMs:   100,
		SuggestionLimit: 10,
		CheckboxVariant: "clear",
		Keys: KeyMap{
			Quit:          "ctrl+c",
			Flush:         "ctrl+s",
			Search:        "ctrl+f",
			Edit:          "ctrl+e",
			Preview:       "ctrl+p",
			Checkbox:      "ctrl+t",
			Strikethrough: "ctrl+k",
			ClearFilter:   "ctrl+g",
		},
	}
}

// Load reads ~/.noted.yaml (or $NOTED_CONFIG_PATH/.noted.yaml), layered under
// NOTED_* environment overrides. A missing config file yields defaults.
func Load() (Settings, error) {
	v := newViper()

	if override := os.Getenv("NOTED_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Default(), fmt.Errorf("config: read: %w", err)
		}
	}
	return fromViper(v), nil
}

// Save writes settings to the given path as YAML.
func Save(s Settings, path string) error {
	v := newViper()
	v.Set("notes_file", s.NotesFile)
	v.Set("theme", s.Theme)
	v.Set("timezone", s.Timezone)
	v.Set("save_debounce_ms", s.SaveDebounceMs)
	v.Set("toggle_guard_ms", s.ToggleGuardMs)
	v.Set("suggestion_limit", s.SuggestionLimit)
	v.Set("checkbox_variant", s.CheckboxVariant)
	v.Set("keys.quit", s.Keys.Quit)
	v.Set("keys.flush", s.Keys.Flush)
	v.Set("keys.search", s.Keys.Search)
	v.Set("keys.edit", s.Keys.Edit)
	v.Set("keys.preview", s.Keys.Preview)
	v.Set("keys.checkbox", s.Keys.Checkbox)
	v.Set("keys.strikethrough", s.Keys.Strikethrough)
	v.Set("keys.clear_filter", s.Keys.ClearFilter)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("config: write: %w", err)
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName(".noted")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("NOTED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("notes_file", def.NotesFile)
	v.SetDefault("theme", def.Theme)
	v.SetDefault("timezone", def.Timezone)
	v.SetDefault("save_debounce_ms", def.SaveDebounceMs)
	v.SetDefault("toggle_guard_ms", def.ToggleGuardMs)
	v.SetDefault("suggestion_limit", def.SuggestionLimit)
	v.SetDefault("checkbox_variant", def.CheckboxVariant)
	v.SetDefault("keys.quit", def.Keys.Quit)
	v.SetDefault("keys.flush", def.Keys.Flush)
	v.SetDefault("keys.search", def.Keys.Search)
	v.SetDefault("keys.edit", def.Keys.Edit)
	v.SetDefault("keys.preview", def.Keys.Preview)
	v.SetDefault("keys.checkbox", def.Keys.Checkbox)
	v.SetDefault("keys.strikethrough", def.Keys.Strikethrough)
	v.SetDefault("keys.clear_filter", def.Keys.ClearFilter)
	return v
}

func fromViper(v *viper.Viper) Settings {
	s := Settings{
		NotesFile:       v.GetString("notes_file"),
		Theme:           v.GetString("theme"),
		Timezone:        v.GetString("timezone"),
		SaveDebounceMs:  v.GetInt("save_debounce_ms"),
		ToggleGuardMs:   v.GetInt("toggle_guard_ms"),
		SuggestionLimit: v.GetInt("suggestion_limit"),
		CheckboxVariant: v.GetString("checkbox_variant"),
		Keys: KeyMap{
			Quit:          v.GetString("keys.quit"),
			Flush:         v.GetString("keys.flush"),
			Search:        v.GetString("keys.search"),
			Edit:          v.GetString("keys.edit"),
			Preview:       v.GetString("keys.preview"),
			Checkbox:      v.GetString("keys.checkbox"),
			Strikethrough: v.GetString("keys.strikethrough"),
			ClearFilter:   v.GetString("keys.clear_filter"),
		},
	}
	if s.SaveDebounceMs <= 0 {
		s.SaveDebounceMs = Default().SaveDebounceMs
	}
	if s.ToggleGuardMs < 0 {
		s.ToggleGuardMs = Default().ToggleGuardMs
	}
	if s.SuggestionLimit <= 0 {
		s.SuggestionLimit = Default().SuggestionLimit
	}
	return s
}

// NotesPath expands ~ in the configured notes file path.
func (s Settings) NotesPath() (string, error) {
	path, err := homedir.Expand(s.NotesFile)
	if err != nil {
		return "", fmt.Errorf("config: expand notes path: %w", err)
	}
	return path, nil
}

// Location resolves the configured timezone, falling back to local time.
func (s Settings) Location() *time.Location {
	if strings.TrimSpace(s.Timezone) == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// SaveDebounce returns the debounce interval as a duration.
func (s Settings) SaveDebounce() time.Duration {
	return time.Duration(s.SaveDebounceMs) * time.Millisecond
}

// ToggleGuard returns the toggle re-trigger guard as a duration.
func (s Settings) ToggleGuard() time.Duration {
	return time.Duration(s.ToggleGuardMs) * time.Millisecond
}
