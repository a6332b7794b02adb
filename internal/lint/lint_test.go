package lint

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/restdoc/internal/article"
)

const goodArticle = `---
title: Understanding REST APIs
description: A beginner-friendly primer on REST concepts.
tags:
  - rest
  - http
---
# Understanding REST APIs

Intro prose linking to [the verbs section](#http-verbs).

## HTTP verbs

` + "```go\npackage main\n```" + `
`

func parseArticle(t *testing.T, content string) *article.Article {
	t.Helper()
	a, err := article.Parse([]byte(content))
	require.NoError(t, err)
	return a
}

func TestCheck_GoodArticle_NoErrors(t *testing.T) {
	a := parseArticle(t, goodArticle)
	result := New(Config{}).Check(a)
	require.False(t, result.HasErrors(), "unexpected errors: %+v", result.Issues)
}

func TestMetadataRule_MissingFields_ReportsErrors(t *testing.T) {
	a := parseArticle(t, "---\nslug: x\n---\nbody\n")
	issues := (&MetadataRule{}).Check(a)

	messages := make([]string, 0, len(issues))
	for _, i := range issues {
		require.Equal(t, SeverityError, i.Severity)
		messages = append(messages, i.Message)
	}
	require.Contains(t, messages, "missing required frontmatter field: title")
	require.Contains(t, messages, "missing required frontmatter field: description")
	require.Contains(t, messages, "article declares no tags")
}

func TestMetadataRule_NoFrontmatter_SingleError(t *testing.T) {
	a := parseArticle(t, "# body only\n")
	issues := (&MetadataRule{}).Check(a)
	require.Len(t, issues, 1)
	require.Equal(t, SeverityError, issues[0].Severity)
}

func TestMetadataRule_BadTagFormat_Warns(t *testing.T) {
	a := parseArticle(t, "---\ntitle: t\ndescription: d\ntags:\n  - REST APIs\n---\nbody\n")
	issues := (&MetadataRule{}).Check(a)
	require.Len(t, issues, 1)
	require.Equal(t, SeverityWarning, issues[0].Severity)
	require.Contains(t, issues[0].Fix, "rest-apis")
}

func TestMetadataRule_OverlongDescription_Warns(t *testing.T) {
	long := bytes.Repeat([]byte("x"), maxDescriptionLen+1)
	a := parseArticle(t, "---\ntitle: t\ndescription: "+string(long)+"\ntags:\n  - rest\n---\nbody\n")
	issues := (&MetadataRule{}).Check(a)
	require.Len(t, issues, 1)
	require.Equal(t, SeverityWarning, issues[0].Severity)
	require.Contains(t, issues[0].Message, "301 characters, maximum is 300")
}

func TestHeadingRule_MultipleH1_ReportsError(t *testing.T) {
	a := parseArticle(t, "# One\n\n# Two\n")
	issues := (&HeadingRule{}).Check(a)
	require.Len(t, issues, 1)
	require.Equal(t, SeverityError, issues[0].Severity)
	require.Contains(t, issues[0].Message, "Two")
}

func TestHeadingRule_SkippedLevel_Warns(t *testing.T) {
	a := parseArticle(t, "# One\n\n### Deep\n")
	issues := (&HeadingRule{}).Check(a)
	require.Len(t, issues, 1)
	require.Equal(t, SeverityWarning, issues[0].Severity)
}

func TestCodeFenceRule_MissingLanguage_ReportsError(t *testing.T) {
	a := parseArticle(t, "# T\n\n```\nnaked\n```\n")
	issues := (&CodeFenceRule{}).Check(a)
	require.Len(t, issues, 1)
	require.Equal(t, SeverityError, issues[0].Severity)
}

func TestCodeFenceRule_UnknownLanguage_Warns(t *testing.T) {
	a := parseArticle(t, "# T\n\n```cobol\nIDENTIFICATION DIVISION.\n```\n")
	issues := (&CodeFenceRule{}).Check(a)
	require.Len(t, issues, 1)
	require.Equal(t, SeverityWarning, issues[0].Severity)
}

func TestLinkRule_MalformedURL_ReportsError(t *testing.T) {
	a := parseArticle(t, "# T\n\n[bad](ftp://example.com/file)\n")
	issues := (&LinkRule{}).Check(a)
	require.Len(t, issues, 1)
	require.Equal(t, SeverityError, issues[0].Severity)
}

func TestLinkRule_UnresolvedRelativeLink_ReportsError(t *testing.T) {
	dir := t.TempDir()
	a := parseArticle(t, "# T\n\n![missing](images/nope.png)\n")
	issues := (&LinkRule{ContentDir: dir}).Check(a)
	require.Len(t, issues, 1)
	require.Equal(t, SeverityError, issues[0].Severity)
}

func TestLinkRule_ResolvableRelativeLink_NoIssue(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "images", "verbs.png"), []byte("png"), 0o644))

	a := parseArticle(t, "# T\n\n![ok](images/verbs.png)\n")
	require.Empty(t, (&LinkRule{ContentDir: dir}).Check(a))
}

func TestLinkRule_UnknownAnchor_Warns(t *testing.T) {
	a := parseArticle(t, "# Title\n\n[jump](#nowhere)\n")
	issues := (&LinkRule{}).Check(a)
	require.Len(t, issues, 1)
	require.Equal(t, SeverityWarning, issues[0].Severity)
}

func TestUIDRule_InvalidUID_ReportsError(t *testing.T) {
	a := parseArticle(t, "---\ntitle: t\nuid: not-a-uuid\n---\nbody\n")
	issues := (&UIDRule{}).Check(a)
	require.Len(t, issues, 1)
	require.Equal(t, SeverityError, issues[0].Severity)
}

func TestFingerprintRule_MissingAndStale(t *testing.T) {
	a := parseArticle(t, "---\ntitle: t\n---\nbody\n")
	issues := (&FingerprintRule{}).Check(a)
	require.Len(t, issues, 1)
	require.Contains(t, issues[0].Message, "no content fingerprint")

	// Store the current fingerprint, then change the body.
	_, err := a.UpsertFingerprint(time.Now())
	require.NoError(t, err)
	require.Empty(t, (&FingerprintRule{}).Check(a))

	a.Body = []byte("changed body\n")
	issues = (&FingerprintRule{}).Check(a)
	require.Len(t, issues, 1)
	require.Contains(t, issues[0].Message, "stale")
}

func TestFix_AddsUIDAndFingerprintAndSaves(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "article.md")
	require.NoError(t, os.WriteFile(path, []byte(goodArticle), 0o644))

	a, err := article.Load(path)
	require.NoError(t, err)

	res, err := Fix(a, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), false)
	require.NoError(t, err)
	require.True(t, res.UIDAdded)
	require.True(t, res.FingerprintUpdated)
	require.True(t, res.Saved)

	again, err := article.Load(path)
	require.NoError(t, err)
	require.NotEmpty(t, again.Meta.UID)
	require.NotEmpty(t, again.Meta.Fingerprint)
	require.Empty(t, (&FingerprintRule{}).Check(again))
	require.Empty(t, (&UIDRule{}).Check(again))
}

func TestFix_DryRun_DoesNotWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "article.md")
	require.NoError(t, os.WriteFile(path, []byte(goodArticle), 0o644))

	a, err := article.Load(path)
	require.NoError(t, err)

	res, err := Fix(a, time.Now(), true)
	require.NoError(t, err)
	require.True(t, res.UIDAdded)
	require.False(t, res.Saved)

	again, err := article.Load(path)
	require.NoError(t, err)
	require.Empty(t, again.Meta.UID)
}

func TestCheck_QuietMode_KeepsOnlyErrors(t *testing.T) {
	a := parseArticle(t, goodArticle)
	result := New(Config{Quiet: true}).Check(a)
	for _, issue := range result.Issues {
		require.Equal(t, SeverityError, issue.Severity)
	}
}

func TestFormatter_TextAndJSON(t *testing.T) {
	result := &Result{
		Path: "content/rest-apis.md",
		Issues: []Issue{
			{Severity: SeverityError, Rule: "metadata", Message: "missing required frontmatter field: title", Fix: "add it"},
			{Severity: SeverityWarning, Rule: "headings", Message: "no H1", Line: 3},
		},
	}

	var text bytes.Buffer
	require.NoError(t, NewFormatter("text").Format(&text, result))
	require.Contains(t, text.String(), "ERROR")
	require.Contains(t, text.String(), "headings:3")
	require.Contains(t, text.String(), "1 error(s), 1 warning(s)")

	var out bytes.Buffer
	require.NoError(t, NewFormatter("json").Format(&out, result))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Equal(t, "content/rest-apis.md", decoded["path"])
	issues := decoded["issues"].([]any)
	require.Len(t, issues, 2)
	require.Equal(t, "ERROR", issues[0].(map[string]any)["severity"])
}
