package linkcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"git.home.luguber.info/inful/restdoc/internal/config"
)

// CacheEntry is a cached verification verdict for one URL.
type CacheEntry struct {
	URL        string    `json:"url"`
	StatusCode int       `json:"status_code"`
	OK         bool      `json:"ok"`
	Error      string    `json:"error,omitempty"`
	CheckedAt  time.Time `json:"checked_at"`
}

// BrokenLinkEvent is published when a link fails verification.
type BrokenLinkEvent struct {
	URL        string    `json:"url"`
	StatusCode int       `json:"status_code"`
	Error      string    `json:"error,omitempty"`
	Article    string    `json:"article"`
	DetectedAt time.Time `json:"detected_at"`
}

// NATSClient backs the link cache with JetStream KV and publishes broken
// link events.
type NATSClient struct {
	conn     *nats.Conn
	js       jetstream.JetStream
	kv       jetstream.KeyValue
	subject  string
	cacheTTL time.Duration
}

// NewNATSClient connects to NATS and prepares the KV bucket.
func NewNATSClient(cfg config.LinkCheckConfig) (*NATSClient, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("link checking is disabled")
	}

	conn, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket: cfg.KVBucket,
		TTL:    cfg.CacheTTL.D(),
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create KV bucket %s: %w", cfg.KVBucket, err)
	}

	slog.Info("NATS link cache initialized", "url", cfg.NATSURL, "subject", cfg.Subject, "kv_bucket", cfg.KVBucket)
	return &NATSClient{conn: conn, js: js, kv: kv, subject: cfg.Subject, cacheTTL: cfg.CacheTTL.D()}, nil
}

// GetCachedResult looks up a fresh verdict for the URL; a nil entry means
// cache miss.
func (c *NATSClient) GetCachedResult(ctx context.Context, rawURL string) (*CacheEntry, error) {
	entry, err := c.kv.Get(ctx, cacheKey(rawURL))
	if err != nil {
		if err == jetstream.ErrKeyNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("kv get: %w", err)
	}

	var cached CacheEntry
	if err := json.Unmarshal(entry.Value(), &cached); err != nil {
		return nil, fmt.Errorf("decode cache entry: %w", err)
	}
	if time.Since(cached.CheckedAt) > c.cacheTTL {
		return nil, nil
	}
	return &cached, nil
}

// SetCachedResult stores a verdict.
func (c *NATSClient) SetCachedResult(ctx context.Context, entry *CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if _, err := c.kv.Put(ctx, cacheKey(entry.URL), data); err != nil {
		return fmt.Errorf("kv put: %w", err)
	}
	return nil
}

// PublishBrokenLink publishes a broken link event to the configured subject.
func (c *NATSClient) PublishBrokenLink(ctx context.Context, event *BrokenLinkEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode broken link event: %w", err)
	}
	if _, err := c.js.Publish(ctx, c.subject, data); err != nil {
		return fmt.Errorf("publish broken link: %w", err)
	}
	slog.Debug("Published broken link event", "url", event.URL, "status", event.StatusCode)
	return nil
}

// Close drains the NATS connection.
func (c *NATSClient) Close() error {
	c.conn.Close()
	return nil
}

// cacheKey makes a URL safe as a KV key (keys cannot contain '/', spaces
// or wildcard characters).
func cacheKey(rawURL string) string {
	out := make([]byte, 0, len(rawURL))
	for i := 0; i < len(rawURL); i++ {
		ch := rawURL[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9',
			ch == '-', ch == '_', ch == '=':
			out = append(out, ch)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
