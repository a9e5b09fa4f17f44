package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/noted/internal/config"
	"github.com/sandeepkv93/noted/internal/document"
	"github.com/sandeepkv93/noted/internal/storage"
	"github.com/sandeepkv93/noted/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "noted failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	settings, err := config.Load()
	if err != nil {
		return err
	}

	notesPath, err := settings.NotesPath()
	if err != nil {
		return err
	}

	doc := document.NewService(notesPath, document.Options{
		Debounce: settings.SaveDebounce(),
		Location: settings.Location(),
	})
	loadErr := doc.Load()
	defer doc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps := update.Deps{Settings: settings, Doc: doc}

	// Usage history is best effort. A broken database disables tag recency
	// persistence but never blocks capture.
	store, storeErr := openStore(notesPath)
	if store != nil {
		defer store.Close()
		deps.Store = store
	}

	if reloads, err := doc.Watch(ctx); err == nil {
		deps.Reloads = reloads
	}

	model := update.NewModel(deps)
	if store != nil {
		// ListTagStats comes back oldest first, the order Seed expects.
		if stats, err := store.ListTagStats(ctx); err == nil {
			tags := make([]string, 0, len(stats))
			for _, st := range stats {
				tags = append(tags, st.Tag)
			}
			model.SeedTagRecency(tags)
		}
	}

	program := tea.NewProgram(model, tea.WithAltScreen())
	if loadErr != nil {
		go program.Send(update.AppErrorMsg{Err: loadErr})
	}
	if storeErr != nil {
		go program.Send(update.AppErrorMsg{Err: storeErr})
	}
	if _, err := program.Run(); err != nil {
		return err
	}
	return doc.Flush()
}

// openStore opens the usage-history database next to the notes file and
// brings its schema up to date.
func openStore(notesPath string) (*storage.SQLiteRepository, error) {
	dir := filepath.Dir(notesPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	store, err := storage.OpenSQLite(filepath.Join(dir, "noted.db"))
	if err != nil {
		return nil, err
	}
	if err := storage.MigrateUp(store.DB()); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}
