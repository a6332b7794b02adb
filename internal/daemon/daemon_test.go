package daemon

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/restdoc/internal/config"
)

const testArticle = `---
title: Understanding REST APIs
description: A practical introduction to REST APIs.
tags:
  - rest
---

# Understanding REST APIs

REST structures an API around resources.
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "rest-apis.md")
	require.NoError(t, os.WriteFile(path, []byte(testArticle), 0o644))

	return &config.Config{
		Site:    config.SiteConfig{Title: "restdoc"},
		Content: config.ContentConfig{Path: path},
		Output:  config.OutputConfig{Directory: filepath.Join(dir, "site")},
		Serve: config.ServeConfig{
			Listen:     "127.0.0.1:0",
			DataDir:    filepath.Join(dir, "data"),
			Playground: true,
		},
	}
}

func TestNew_CreatesDataDirAndStores(t *testing.T) {
	cfg := testConfig(t)
	d, err := New(cfg)
	require.NoError(t, err)
	defer d.close()

	_, err = os.Stat(cfg.Serve.DataDir)
	require.NoError(t, err)
	require.NotNil(t, d.books)
	require.Nil(t, d.links, "link checking is off by default")
}

func TestRun_BuildsOnStartupAndStopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	d, err := New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	// The startup build runs before the server comes up.
	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(cfg.Output.Directory, "index.html"))
		return err == nil
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("daemon did not stop after cancel")
	}
}

func TestRebuild_FailedBuildDoesNotCrash(t *testing.T) {
	cfg := testConfig(t)
	d, err := New(cfg)
	require.NoError(t, err)
	defer d.close()

	// Break the article, then rebuild.
	require.NoError(t, os.WriteFile(cfg.Content.Path, []byte("---\nbroken: [\n"), 0o644))
	d.rebuild(context.Background(), "test")
}
