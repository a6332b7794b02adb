package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/restdoc/internal/config"
	"git.home.luguber.info/inful/restdoc/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit  int           `default:"20" help:"Number of events to show"`
	RunID  string        `help:"Show all events for one run"`
	Since  time.Duration `help:"Show events from the last duration (e.g. 24h), oldest first"`
	Format string        `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := history.NewSQLiteStore(filepath.Join(cfg.Serve.DataDir, "history.db"))
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	var events []history.Event
	switch {
	case h.RunID != "":
		events, err = store.ByRunID(ctx, h.RunID)
	case h.Since > 0:
		now := time.Now()
		events, err = store.Range(ctx, now.Add(-h.Since), now)
	default:
		events, err = store.Recent(ctx, h.Limit)
	}
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}

	if h.Format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(events)
	}

	for _, e := range events {
		fmt.Fprintf(os.Stdout, "%s  %-16s  run=%s", e.Timestamp.Format(time.RFC3339), e.Type, e.RunID)
		for k, v := range e.Metadata {
			fmt.Fprintf(os.Stdout, "  %s=%s", k, v)
		}
		fmt.Fprintln(os.Stdout)
	}
	return nil
}
