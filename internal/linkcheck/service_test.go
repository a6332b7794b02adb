package linkcheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/restdoc/internal/config"
)

type fakeCache struct {
	mu        sync.Mutex
	entries   map[string]*CacheEntry
	published []BrokenLinkEvent
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]*CacheEntry{}}
}

func (f *fakeCache) GetCachedResult(_ context.Context, url string) (*CacheEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries[url], nil
}

func (f *fakeCache) SetCachedResult(_ context.Context, entry *CacheEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[entry.URL] = entry
	return nil
}

func (f *fakeCache) PublishBrokenLink(_ context.Context, event *BrokenLinkEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, *event)
	return nil
}

func (f *fakeCache) Close() error { return nil }

func TestExtractExternalLinks_SkipsRelativeAndNonHTTP(t *testing.T) {
	page := `<html><body>
	<a href="https://example.com/good">good</a>
	<a href="/local/page">local</a>
	<a href="mailto:docs@example.com">mail</a>
	<img src="http://example.com/image.png">
	<img src="images/verbs.png">
	</body></html>`

	links, err := ExtractExternalLinks(strings.NewReader(page))
	require.NoError(t, err)
	require.Len(t, links, 2)
	require.Equal(t, "https://example.com/good", links[0].URL)
	require.Equal(t, "good", links[0].Text)
	require.Equal(t, "http://example.com/image.png", links[1].URL)
	require.Equal(t, "img", links[1].Tag)
}

func TestVerifyHTML_ReportsOKAndBroken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/missing") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	page := `<html><body>
	<a href="` + srv.URL + `/ok">ok</a>
	<a href="` + srv.URL + `/missing">gone</a>
	</body></html>`

	cache := newFakeCache()
	svc := newServiceWithCache(config.LinkCheckConfig{MaxConcurrent: 2}, "content/rest-apis.md", cache)

	result, err := svc.VerifyHTML(context.Background(), strings.NewReader(page))
	require.NoError(t, err)
	require.Equal(t, 2, result.Checked)
	require.Equal(t, 1, result.OK)
	require.Len(t, result.Broken, 1)
	require.Equal(t, srv.URL+"/missing", result.Broken[0].URL)
	require.Equal(t, http.StatusNotFound, result.Broken[0].StatusCode)
	require.Equal(t, "content/rest-apis.md", result.Broken[0].Article)

	// The broken link was published exactly once.
	require.Len(t, cache.published, 1)
}

func TestVerifyHTML_UsesCacheAndSkipsRepublish(t *testing.T) {
	cache := newFakeCache()
	require.NoError(t, cache.SetCachedResult(context.Background(), &CacheEntry{
		URL: "https://cached.example.com/dead", OK: false, StatusCode: http.StatusGone,
	}))

	svc := newServiceWithCache(config.LinkCheckConfig{}, "a.md", cache)
	page := `<a href="https://cached.example.com/dead">dead</a>`

	result, err := svc.VerifyHTML(context.Background(), strings.NewReader(page))
	require.NoError(t, err)
	require.Equal(t, 1, result.Cached)
	require.Len(t, result.Broken, 1)
	require.Empty(t, cache.published, "cached verdicts must not republish")
}

func TestVerifyHTML_DeduplicatesRepeatedURLs(t *testing.T) {
	var mu sync.Mutex
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits++
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	page := `<a href="` + srv.URL + `/x">one</a><a href="` + srv.URL + `/x">two</a>`
	svc := newServiceWithCache(config.LinkCheckConfig{}, "a.md", newFakeCache())

	result, err := svc.VerifyHTML(context.Background(), strings.NewReader(page))
	require.NoError(t, err)
	require.Equal(t, 1, result.Checked)
	mu.Lock()
	require.Equal(t, 1, hits)
	mu.Unlock()
}

func TestVerifyHTML_UnreachableHost_RecordsError(t *testing.T) {
	svc := newServiceWithCache(config.LinkCheckConfig{}, "a.md", newFakeCache())
	page := `<a href="http://127.0.0.1:1/unreachable">nope</a>`

	result, err := svc.VerifyHTML(context.Background(), strings.NewReader(page))
	require.NoError(t, err)
	require.Len(t, result.Broken, 1)
	require.NotEmpty(t, result.Broken[0].Error)
}
