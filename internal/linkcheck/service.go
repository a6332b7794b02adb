package linkcheck

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"git.home.luguber.info/inful/restdoc/internal/config"
)

// cacheClient abstracts the NATS-backed cache so tests can substitute a fake.
type cacheClient interface {
	GetCachedResult(ctx context.Context, url string) (*CacheEntry, error)
	SetCachedResult(ctx context.Context, entry *CacheEntry) error
	PublishBrokenLink(ctx context.Context, event *BrokenLinkEvent) error
	Close() error
}

// Result summarizes one verification run.
type Result struct {
	Checked int
	OK      int
	Broken  []BrokenLinkEvent
	Cached  int
}

// Service verifies the article's external links.
type Service struct {
	cfg        config.LinkCheckConfig
	cache      cacheClient
	httpClient *http.Client
	sem        chan struct{}
	article    string
}

// NewService creates a verification service connected to NATS.
func NewService(cfg config.LinkCheckConfig, articlePath string) (*Service, error) {
	client, err := NewNATSClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create NATS client: %w", err)
	}
	return newServiceWithCache(cfg, articlePath, client), nil
}

func newServiceWithCache(cfg config.LinkCheckConfig, articlePath string, cache cacheClient) *Service {
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}
	timeout := cfg.RequestTimeout.D()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Service{
		cfg:        cfg,
		cache:      cache,
		httpClient: &http.Client{Timeout: timeout},
		sem:        make(chan struct{}, maxConcurrent),
		article:    articlePath,
	}
}

// VerifyHTML extracts external links from rendered HTML and verifies each,
// consulting the cache first. Broken links are published as events.
func (s *Service) VerifyHTML(ctx context.Context, htmlContent io.Reader) (*Result, error) {
	links, err := ExtractExternalLinks(htmlContent)
	if err != nil {
		return nil, fmt.Errorf("extract links: %w", err)
	}

	// Dedupe; the same URL may appear several times in one article.
	seen := map[string]bool{}
	unique := links[:0]
	for _, l := range links {
		if seen[l.URL] {
			continue
		}
		seen[l.URL] = true
		unique = append(unique, l)
	}

	var (
		mu     sync.Mutex
		result Result
		wg     sync.WaitGroup
	)
	for _, link := range unique {
		wg.Add(1)
		go func(link Link) {
			defer wg.Done()

			select {
			case s.sem <- struct{}{}:
				defer func() { <-s.sem }()
			case <-ctx.Done():
				return
			}

			entry, fromCache := s.verify(ctx, link.URL)

			mu.Lock()
			defer mu.Unlock()
			result.Checked++
			if fromCache {
				result.Cached++
			}
			if entry.OK {
				result.OK++
				return
			}
			event := BrokenLinkEvent{
				URL:        entry.URL,
				StatusCode: entry.StatusCode,
				Error:      entry.Error,
				Article:    s.article,
				DetectedAt: time.Now().UTC(),
			}
			result.Broken = append(result.Broken, event)
			if !fromCache {
				if err := s.cache.PublishBrokenLink(ctx, &event); err != nil {
					slog.Warn("Failed to publish broken link", "url", entry.URL, "error", err)
				}
			}
		}(link)
	}
	wg.Wait()

	slog.Info("Link check complete",
		"checked", result.Checked, "ok", result.OK, "broken", len(result.Broken), "cached", result.Cached)
	return &result, nil
}

// verify consults the cache, then probes the URL with HEAD falling back to
// GET (some hosts reject HEAD).
func (s *Service) verify(ctx context.Context, rawURL string) (entry *CacheEntry, fromCache bool) {
	if cached, err := s.cache.GetCachedResult(ctx, rawURL); err == nil && cached != nil {
		return cached, true
	}

	entry = &CacheEntry{URL: rawURL, CheckedAt: time.Now().UTC()}
	status, err := s.probe(ctx, http.MethodHead, rawURL)
	if err != nil || status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented {
		status, err = s.probe(ctx, http.MethodGet, rawURL)
	}
	if err != nil {
		entry.Error = err.Error()
	} else {
		entry.StatusCode = status
		entry.OK = status >= 200 && status < 400
	}

	if err := s.cache.SetCachedResult(ctx, entry); err != nil {
		slog.Warn("Failed to cache link result", "url", rawURL, "error", err)
	}
	return entry, false
}

func (s *Service) probe(ctx context.Context, method, rawURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", "restdoc-linkcheck/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	// Drain a little so connections can be reused.
	_, _ = io.CopyN(io.Discard, resp.Body, 4096)
	return resp.StatusCode, nil
}

// Close releases the cache connection.
func (s *Service) Close() error {
	return s.cache.Close()
}
