package article

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/restdoc/internal/frontmatter"
)

const sampleArticle = `---
title: Understanding REST APIs
description: A beginner-friendly primer on REST concepts.
tags:
  - rest
  - http
  - api-design
---
# Understanding REST APIs

REST is an architectural style.

## HTTP verbs

| Verb | Meaning |
|------|---------|
| GET  | read    |

## Hello world

` + "```go\npackage main\n```" + `
`

func TestParse_DecodesMetadata(t *testing.T) {
	a, err := Parse([]byte(sampleArticle))
	require.NoError(t, err)

	require.Equal(t, "Understanding REST APIs", a.Meta.Title)
	require.Equal(t, "A beginner-friendly primer on REST concepts.", a.Meta.Description)
	require.Equal(t, []string{"rest", "http", "api-design"}, a.Meta.Tags)
	require.Equal(t, "understanding-rest-apis", a.Meta.Slug)
	require.True(t, a.HadFrontmatter)
}

func TestParse_NoFrontmatter_EmptyMeta(t *testing.T) {
	a, err := Parse([]byte("# Just a body\n"))
	require.NoError(t, err)
	require.False(t, a.HadFrontmatter)
	require.Empty(t, a.Meta.Title)
	require.Empty(t, a.Meta.Tags)
	require.Equal(t, []byte("# Just a body\n"), a.Body)
}

func TestParse_UnterminatedFrontmatter_ReturnsTypedError(t *testing.T) {
	_, err := Parse([]byte("---\ntitle: broken\n"))
	require.Error(t, err)
	require.True(t, errors.Is(err, frontmatter.ErrMissingClosingDelimiter))
}

func TestParse_CommaSeparatedTags_AreSplit(t *testing.T) {
	a, err := Parse([]byte("---\ntitle: t\ntags: rest, http\n---\nbody\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"rest", "http"}, a.Meta.Tags)
}

func TestLoad_MissingFile_ReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.md"))
	require.Error(t, err)
}

func TestLoad_SlugFallsBackToFilename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rest-apis.md")
	require.NoError(t, os.WriteFile(path, []byte("# Untitled\n"), 0o644))

	a, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "rest-apis", a.Meta.Slug)
}

func TestContent_RoundTripsStableDocument(t *testing.T) {
	a, err := Parse([]byte(sampleArticle))
	require.NoError(t, err)

	out, err := a.Content()
	require.NoError(t, err)

	again, err := Parse(out)
	require.NoError(t, err)
	require.Equal(t, a.Meta, again.Meta)
	require.Equal(t, a.Body, again.Body)
}

func TestSave_WritesReassembledDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "article.md")
	require.NoError(t, os.WriteFile(path, []byte(sampleArticle), 0o644))

	a, err := Load(path)
	require.NoError(t, err)
	a.Fields["uid"] = "0f1e2d3c"
	require.NoError(t, a.Save())

	again, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "0f1e2d3c", again.Meta.UID)
	require.Equal(t, a.Body, again.Body)
}

func TestOutline_SummarizesBodyStructure(t *testing.T) {
	a, err := Parse([]byte(sampleArticle))
	require.NoError(t, err)

	o := a.Outline()
	require.Len(t, o.Headings, 3)
	require.Len(t, o.Tables, 1)
	require.Len(t, o.CodeBlocks, 1)
	require.Equal(t, "go", o.CodeBlocks[0].Language)
}

func TestSlugify_FoldsDiacriticsAndPunctuation(t *testing.T) {
	cases := map[string]string{
		"Understanding REST APIs": "understanding-rest-apis",
		"Cafés & Co":              "cafes-co",
		"  spaced   out  ":        "spaced-out",
		"already-kebab":           "already-kebab",
	}
	for in, want := range cases {
		require.Equal(t, want, Slugify(in), "input %q", in)
	}
}
