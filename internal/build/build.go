// Package build orchestrates one article build: fetch, lint, render, write.
package build

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/restdoc/internal/article"
	"git.home.luguber.info/inful/restdoc/internal/config"
	"git.home.luguber.info/inful/restdoc/internal/fetch"
	"git.home.luguber.info/inful/restdoc/internal/history"
	"git.home.luguber.info/inful/restdoc/internal/lint"
	"git.home.luguber.info/inful/restdoc/internal/linkcheck"
	"git.home.luguber.info/inful/restdoc/internal/metrics"
	"git.home.luguber.info/inful/restdoc/internal/render"
)

// linkVerifier is satisfied by linkcheck.Service.
type linkVerifier interface {
	VerifyHTML(ctx context.Context, htmlContent io.Reader) (*linkcheck.Result, error)
}

// Outcome summarizes one completed build.
type Outcome struct {
	RunID    string
	Page     *render.Page
	Lint     *lint.Result
	Duration time.Duration
}

// Runner executes builds. The history store and link verifier are optional.
type Runner struct {
	cfg      *config.Config
	linter   *lint.Linter
	renderer *render.Renderer
	recorder *metrics.Recorder
	history  history.Store
	links    linkVerifier
}

// NewRunner assembles a build runner from the loaded configuration.
func NewRunner(cfg *config.Config, recorder *metrics.Recorder, hist history.Store, livereload bool) *Runner {
	return &Runner{
		cfg:    cfg,
		linter: lint.New(lint.Config{ContentDir: filepath.Dir(cfg.ArticlePath())}),
		renderer: render.New(render.Options{
			SiteTitle:  cfg.Site.Title,
			BaseURL:    cfg.Site.BaseURL,
			LiveReload: livereload,
		}),
		recorder: recorder,
		history:  hist,
	}
}

// SetLinkVerifier enables external link verification after each build.
func (r *Runner) SetLinkVerifier(v linkVerifier) { r.links = v }

// Run performs one build. Lint errors fail the build; warnings do not.
func (r *Runner) Run(ctx context.Context) (*Outcome, error) {
	runID := uuid.NewString()
	start := time.Now()
	slog.Info("Build started", "run_id", runID, "article", r.cfg.ArticlePath())
	r.appendEvent(ctx, runID, history.EventBuildStarted, nil, map[string]string{"article": r.cfg.ArticlePath()})

	outcome, err := r.run(ctx, runID)
	duration := time.Since(start)

	if err != nil {
		r.recorder.ObserveBuild(duration.Seconds(), "failure")
		r.appendEvent(ctx, runID, history.EventBuildFailed, nil, map[string]string{"error": err.Error()})
		slog.Error("Build failed", "run_id", runID, "duration", duration, "error", err)
		return nil, err
	}

	outcome.RunID = runID
	outcome.Duration = duration
	r.recorder.ObserveBuild(duration.Seconds(), "success")
	r.appendEvent(ctx, runID, history.EventBuildSucceeded, nil, map[string]string{"hash": outcome.Page.Hash})
	slog.Info("Build succeeded", "run_id", runID, "duration", duration, "hash", outcome.Page.Hash)

	if r.links != nil {
		r.verifyLinks(ctx, outcome.Page)
	}
	return outcome, nil
}

func (r *Runner) run(ctx context.Context, runID string) (*Outcome, error) {
	if r.cfg.Content.Git.URL != "" {
		if _, err := fetch.Sync(ctx, r.cfg.Content.Git); err != nil {
			return nil, fmt.Errorf("fetch article source: %w", err)
		}
	}

	a, err := article.Load(r.cfg.ArticlePath())
	if err != nil {
		return nil, fmt.Errorf("load article: %w", err)
	}

	result := r.linter.Check(a)
	r.recordLint(ctx, runID, result)
	if result.HasErrors() {
		return nil, fmt.Errorf("lint found %d error(s)", result.Count(lint.SeverityError))
	}

	page, err := r.renderer.Render(a)
	if err != nil {
		return nil, fmt.Errorf("render article: %w", err)
	}
	contentDir := filepath.Dir(r.cfg.ArticlePath())
	if err := render.WriteSite(page, contentDir, r.cfg.Output.Directory); err != nil {
		return nil, fmt.Errorf("write site: %w", err)
	}

	return &Outcome{Page: page, Lint: result}, nil
}

func (r *Runner) recordLint(ctx context.Context, runID string, result *lint.Result) {
	counts := map[string]int{
		lint.SeverityError.String():   result.Count(lint.SeverityError),
		lint.SeverityWarning.String(): result.Count(lint.SeverityWarning),
		lint.SeverityInfo.String():    result.Count(lint.SeverityInfo),
	}
	for severity, n := range counts {
		r.recorder.SetLintIssues(severity, n)
	}
	payload, _ := json.Marshal(counts)
	r.appendEvent(ctx, runID, history.EventLintCompleted, payload, nil)
}

func (r *Runner) verifyLinks(ctx context.Context, page *render.Page) {
	result, err := r.links.VerifyHTML(ctx, bytes.NewReader(page.HTML))
	if err != nil {
		slog.Warn("Link verification failed", "error", err)
		return
	}
	for i := 0; i < result.OK; i++ {
		r.recorder.CountLinkCheck("ok")
	}
	for range result.Broken {
		r.recorder.CountLinkCheck("broken")
	}
}

func (r *Runner) appendEvent(ctx context.Context, runID, eventType string, payload []byte, metadata map[string]string) {
	if r.history == nil {
		return
	}
	if err := r.history.Append(ctx, runID, eventType, payload, metadata); err != nil {
		slog.Warn("Failed to record history event", "type", eventType, "error", err)
	}
}
