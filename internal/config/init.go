package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const starterConfig = `# restdoc configuration
site:
  title: inful docs
  base_url: ""

content:
  path: content/rest-apis.md
  # Uncomment to pull the article from a repository instead:
  # git:
  #   url: https://git.example.com/docs/rest-apis.git
  #   branch: main

output:
  directory: ./site

serve:
  listen: ":8080"
  data_dir: ./restdoc-data
  playground: true

watch:
  enabled: true
  debounce: 500ms

schedule:
  enabled: false
  interval: 1h

link_check:
  enabled: false
  nats_url: nats://localhost:4222
`

const starterArticle = `---
title: Understanding REST APIs
description: A practical introduction to REST APIs.
tags:
  - rest
  - http
---

# Understanding REST APIs

REST structures an API around resources: URLs name things, HTTP verbs act on
them, and status codes report what happened.

## A first endpoint

` + "```go" + `
package main

import "net/http"

func main() {
	http.HandleFunc("/hello", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(` + "`" + `{"message": "hello, world"}` + "`" + `))
	})
	http.ListenAndServe(":8080", nil)
}
` + "```" + `
`

// Init writes a starter configuration file. It refuses to overwrite an
// existing file unless force is set.
func Init(path string, force bool) error {
	return writeStarter(path, starterConfig, force, "config file")
}

// InitArticle writes a starter article that passes the linter, so a fresh
// project builds immediately.
func InitArticle(path string, force bool) error {
	return writeStarter(path, starterArticle, force, "article")
}

func writeStarter(path, content string, force bool, kind string) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s %s already exists (use --force to overwrite)", kind, path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s directory: %w", kind, err)
		}
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
