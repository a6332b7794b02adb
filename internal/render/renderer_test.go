package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/restdoc/internal/article"
)

const testArticle = `---
title: Understanding REST APIs
description: A primer.
tags:
  - rest
  - http
---
# Understanding REST APIs

Prose.

## HTTP verbs

| Verb | Meaning |
|------|---------|
| GET  | read    |

## Hello world

` + "```go\nfunc main() {}\n```" + `
`

func renderTestArticle(t *testing.T, opts Options) *Page {
	t.Helper()
	a, err := article.Parse([]byte(testArticle))
	require.NoError(t, err)
	page, err := New(opts).Render(a)
	require.NoError(t, err)
	return page
}

func TestRender_ProducesCompletePage(t *testing.T) {
	page := renderTestArticle(t, Options{SiteTitle: "inful docs"})
	html := string(page.HTML)

	require.Contains(t, html, "<title>Understanding REST APIs · inful docs</title>")
	require.Contains(t, html, `<meta name="description" content="A primer.">`)
	require.Contains(t, html, `<meta name="keywords" content="rest,http">`)
	require.Contains(t, html, "<h2 id=\"http-verbs\">HTTP verbs</h2>")
	require.Contains(t, html, "<table>")
	require.Contains(t, html, `<code class="language-go">`)
	require.NotEmpty(t, page.Hash)
}

func TestRender_NavLinksSectionHeadings(t *testing.T) {
	page := renderTestArticle(t, Options{})
	html := string(page.HTML)
	require.Contains(t, html, `href="#http-verbs"`)
	require.Contains(t, html, `href="#hello-world"`)
	// The H1 is the page itself, not a nav entry.
	require.NotContains(t, html, `href="#understanding-rest-apis"`)
}

func TestRender_HeadingIDsMatchAnchorsForPunctuation(t *testing.T) {
	src := `---
title: Understanding REST APIs
description: A primer.
tags:
  - rest
---
# Understanding REST APIs

## Hello - World

## Cafés & Co

## Hello - World
`
	a, err := article.Parse([]byte(src))
	require.NoError(t, err)
	page, err := New(Options{}).Render(a)
	require.NoError(t, err)
	html := string(page.HTML)

	// Punctuation runs collapse and diacritics fold, exactly as
	// article.Anchor computes them for the nav and the lint anchor check.
	require.Contains(t, html, `<h2 id="hello-world">Hello - World</h2>`)
	require.Contains(t, html, `<h2 id="cafes-co">Cafés &amp; Co</h2>`)
	require.NotContains(t, html, `id="hello---world"`)

	require.Equal(t, "hello-world", article.Anchor("Hello - World"))
	require.Equal(t, "cafes-co", article.Anchor("Cafés & Co"))
	require.Contains(t, html, `href="#hello-world"`)
	require.Contains(t, html, `href="#cafes-co"`)

	// Duplicate headings still get distinct rendered ids.
	require.Contains(t, html, `<h2 id="hello-world-1">Hello - World</h2>`)
}

func TestRender_LiveReloadScriptOnlyWhenEnabled(t *testing.T) {
	withLR := renderTestArticle(t, Options{LiveReload: true})
	require.Contains(t, string(withLR.HTML), "/livereload")

	withoutLR := renderTestArticle(t, Options{})
	require.NotContains(t, string(withoutLR.HTML), "EventSource")
}

func TestRender_HashIsStableForSameInput(t *testing.T) {
	first := renderTestArticle(t, Options{})
	second := renderTestArticle(t, Options{})
	require.Equal(t, first.Hash, second.Hash)
}

func TestWriteSite_WritesIndexAndAssets(t *testing.T) {
	contentDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(contentDir, "images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(contentDir, "images", "verbs.png"), []byte("png"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(contentDir, "rest-apis.md"), []byte(testArticle), 0o644))

	outputDir := filepath.Join(t.TempDir(), "site")
	page := renderTestArticle(t, Options{})
	require.NoError(t, WriteSite(page, contentDir, outputDir))

	index, err := os.ReadFile(filepath.Join(outputDir, "index.html"))
	require.NoError(t, err)
	require.Equal(t, page.HTML, index)

	// Assets copied, markdown sources not.
	require.FileExists(t, filepath.Join(outputDir, "images", "verbs.png"))
	require.NoFileExists(t, filepath.Join(outputDir, "rest-apis.md"))
}

func TestWriteSite_ReplacesPreviousSiteAtomically(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "site")
	page := renderTestArticle(t, Options{})
	require.NoError(t, WriteSite(page, "", outputDir))
	require.NoError(t, WriteSite(page, "", outputDir))

	entries, err := os.ReadDir(filepath.Dir(outputDir))
	require.NoError(t, err)
	for _, e := range entries {
		require.False(t, strings.HasPrefix(e.Name(), ".restdoc-staging-"), "staging dir left behind")
		require.NotEqual(t, "site.old", e.Name())
	}
}
