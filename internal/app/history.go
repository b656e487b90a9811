package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rbright/parola/internal/config"
	"github.com/rbright/parola/internal/history"
	"github.com/rbright/parola/internal/ipc"
)

// History prints recent recognition outcomes. It reads the store
// directly so it works whether or not a daemon is running.
func History(ctx context.Context, opts Options, limit int) error {
	s, err := start(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	if !s.cfg.Config.History.Enable {
		return fmt.Errorf("history is disabled in %s", s.cfg.Path)
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	path, err := config.HistoryPath(s.cfg.Config)
	if err != nil {
		return err
	}
	store, err := history.Open(path)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	records, err := store.Recent(limit)
	if err != nil {
		return err
	}

	entries := make([]ipc.HistoryEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, ipc.HistoryEntry{
			Words:      rec.Words,
			Grammar:    rec.Grammar,
			Rule:       rec.Rule,
			Status:     rec.Status,
			TimedOut:   rec.TimedOut,
			DurationMS: rec.DurationMS,
			At:         rec.CreatedAt.Format(time.RFC3339),
		})
	}
	printHistoryEntries(opts.stdout(), entries)
	return nil
}
