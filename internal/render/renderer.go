// Package render builds the article into a static HTML site.
package render

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"git.home.luguber.info/inful/restdoc/internal/article"
	"git.home.luguber.info/inful/restdoc/internal/markdown"
)

// Options controls rendering.
type Options struct {
	// SiteTitle is the site-level title shown alongside the article title.
	SiteTitle string
	// BaseURL is the public base URL of the served site (used in meta tags).
	BaseURL string
	// LiveReload injects the SSE client script into the page.
	LiveReload bool
}

// Page is a rendered article ready for writing.
type Page struct {
	HTML []byte
	// Hash identifies the rendered content; livereload clients compare it
	// to decide whether to refresh.
	Hash string
}

// Renderer converts an article body to HTML and wraps it in the site layout.
type Renderer struct {
	md   goldmark.Markdown
	opts Options
}

// New creates a renderer.
func New(opts Options) *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
		),
		opts: opts,
	}
}

type navEntry struct {
	Level  int
	Text   string
	Anchor string
}

type pageData struct {
	SiteTitle   string
	Title       string
	Description string
	Tags        []string
	BaseURL     string
	Lastmod     string
	Nav         []navEntry
	Body        template.HTML
	LiveReload  bool
}

// Render converts the article into a complete HTML page.
func (r *Renderer) Render(a *article.Article) (*Page, error) {
	var body bytes.Buffer
	pctx := parser.NewContext(parser.WithIDs(newAnchorIDs()))
	if err := r.md.Convert(a.Body, &body, parser.WithContext(pctx)); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}

	data := pageData{
		SiteTitle:   r.opts.SiteTitle,
		Title:       a.Meta.Title,
		Description: a.Meta.Description,
		Tags:        a.Meta.Tags,
		BaseURL:     r.opts.BaseURL,
		Body:        template.HTML(body.String()), //nolint:gosec // our own rendered markdown
		LiveReload:  r.opts.LiveReload,
	}
	if !a.Meta.Lastmod.IsZero() {
		data.Lastmod = a.Meta.Lastmod.Format(time.DateOnly)
	}
	for _, h := range markdown.ExtractHeadings(a.Body) {
		if h.Level < 2 || h.Level > 3 {
			continue
		}
		data.Nav = append(data.Nav, navEntry{Level: h.Level, Text: h.Text, Anchor: article.Anchor(h.Text)})
	}

	var out bytes.Buffer
	if err := layoutTemplate.Execute(&out, data); err != nil {
		return nil, fmt.Errorf("execute layout: %w", err)
	}

	sum := sha256.Sum256(out.Bytes())
	page := &Page{HTML: out.Bytes(), Hash: hex.EncodeToString(sum[:])}
	slog.Debug("Rendered article", slog.String("title", a.Meta.Title), slog.String("hash", page.Hash[:8]))
	return page, nil
}
