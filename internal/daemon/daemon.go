// Package daemon runs serve mode: it keeps the rendered site current and
// serves it together with the playground API.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"git.home.luguber.info/inful/restdoc/internal/build"
	"git.home.luguber.info/inful/restdoc/internal/config"
	"git.home.luguber.info/inful/restdoc/internal/history"
	"git.home.luguber.info/inful/restdoc/internal/linkcheck"
	"git.home.luguber.info/inful/restdoc/internal/metrics"
	"git.home.luguber.info/inful/restdoc/internal/playground"
	"git.home.luguber.info/inful/restdoc/internal/schedule"
	"git.home.luguber.info/inful/restdoc/internal/server"
	"git.home.luguber.info/inful/restdoc/internal/watch"
)

// Daemon wires the builder, watcher, scheduler and HTTP server together.
type Daemon struct {
	cfg      *config.Config
	recorder *metrics.Recorder
	history  history.Store
	books    *playground.SQLiteBookStore
	runner   *build.Runner
	srv      *server.Server
	links    *linkcheck.Service

	// triggers carries rebuild reasons from the watcher and the scheduler.
	triggers chan string
}

// New assembles a daemon from the loaded configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if err := os.MkdirAll(cfg.Serve.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	recorder := metrics.NewRecorder(nil)

	hist, err := history.NewSQLiteStore(filepath.Join(cfg.Serve.DataDir, "history.db"))
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}

	d := &Daemon{
		cfg:      cfg,
		recorder: recorder,
		history:  hist,
		runner:   build.NewRunner(cfg, recorder, hist, true),
		triggers: make(chan string, 8),
	}

	var playgroundHandler http.Handler
	if cfg.Serve.Playground {
		books, err := playground.NewSQLiteBookStore(filepath.Join(cfg.Serve.DataDir, "playground.db"))
		if err != nil {
			hist.Close()
			return nil, fmt.Errorf("open playground store: %w", err)
		}
		d.books = books
		playgroundHandler = playground.NewHandler(books).Routes()
	}

	if cfg.LinkCheck.Enabled {
		svc, err := linkcheck.NewService(cfg.LinkCheck, cfg.ArticlePath())
		if err != nil {
			// NATS being down should not keep the site from serving.
			slog.Warn("Link checking unavailable", "error", err)
		} else {
			d.links = svc
			d.runner.SetLinkVerifier(svc)
		}
	}

	hub := server.NewLiveReloadHub(recorder)
	d.srv = server.New(cfg.Serve.Listen, cfg.Output.Directory, hub, recorder, hist, playgroundHandler)
	return d, nil
}

// Run builds once, then serves until the context is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	defer d.close()

	d.rebuild(ctx, "startup")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errCh := make(chan error, 2)

	if d.cfg.Watch.Enabled {
		w, err := watch.New(d.cfg.ArticlePath(), d.cfg.Watch.Debounce.D())
		if err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- fmt.Errorf("watcher: %w", err)
			}
		}()
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case reason := <-w.Triggers():
					d.enqueue(reason)
				}
			}
		}()
	}

	if d.cfg.Schedule.Enabled {
		sched, err := schedule.New(d.enqueue)
		if err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		if _, err := sched.SchedulePeriodicRebuild(d.cfg.Schedule.Interval.D()); err != nil {
			return fmt.Errorf("schedule rebuilds: %w", err)
		}
		sched.Start()
		defer func() {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer stopCancel()
			if err := sched.Stop(stopCtx); err != nil {
				slog.Warn("Failed to stop scheduler", "error", err)
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case reason := <-d.triggers:
				d.rebuild(ctx, reason)
			}
		}
	}()

	serveErr := d.srv.Run(ctx)
	cancel()
	wg.Wait()

	select {
	case err := <-errCh:
		if serveErr == nil {
			serveErr = err
		}
	default:
	}
	return serveErr
}

func (d *Daemon) enqueue(reason string) {
	select {
	case d.triggers <- reason:
	default:
		slog.Debug("Rebuild already queued, dropping trigger", "reason", reason)
	}
}

func (d *Daemon) rebuild(ctx context.Context, reason string) {
	slog.Info("Rebuilding site", "reason", reason)
	outcome, err := d.runner.Run(ctx)
	if err != nil {
		d.srv.RecordBuild("", err)
		return
	}
	d.srv.RecordBuild(outcome.Page.Hash, nil)
}

func (d *Daemon) close() {
	if d.links != nil {
		if err := d.links.Close(); err != nil {
			slog.Warn("Failed to close link checker", "error", err)
		}
	}
	if d.books != nil {
		if err := d.books.Close(); err != nil {
			slog.Warn("Failed to close playground store", "error", err)
		}
	}
	if err := d.history.Close(); err != nil {
		slog.Warn("Failed to close history store", "error", err)
	}
}
