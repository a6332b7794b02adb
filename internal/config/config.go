// Package config loads and validates the restdoc configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultArticlePath is where the article lives unless configured otherwise.
const DefaultArticlePath = "content/rest-apis.md"

// Config is the top-level restdoc configuration.
type Config struct {
	Site      SiteConfig      `yaml:"site"`
	Content   ContentConfig   `yaml:"content"`
	Output    OutputConfig    `yaml:"output"`
	Serve     ServeConfig     `yaml:"serve"`
	Watch     WatchConfig     `yaml:"watch"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	LinkCheck LinkCheckConfig `yaml:"link_check"`
}

// SiteConfig describes the rendered site.
type SiteConfig struct {
	Title   string `yaml:"title"`
	BaseURL string `yaml:"base_url"`
}

// ContentConfig locates the article source.
type ContentConfig struct {
	// Path is the article markdown file (local source).
	Path string `yaml:"path"`
	// Git, when set, clones the article from a repository instead; Path is
	// then interpreted relative to the checkout.
	Git GitSourceConfig `yaml:"git"`
}

// GitSourceConfig describes a git-hosted article source.
type GitSourceConfig struct {
	URL    string `yaml:"url"`
	Branch string `yaml:"branch"`
	// Workspace is where the checkout lives.
	Workspace string `yaml:"workspace"`
}

// OutputConfig describes where the site is written.
type OutputConfig struct {
	Directory string `yaml:"directory"`
}

// ServeConfig controls the serve daemon.
type ServeConfig struct {
	Listen string `yaml:"listen"`
	// DataDir holds daemon state: history database, playground database.
	DataDir string `yaml:"data_dir"`
	// Playground toggles the companion API the article's examples target.
	Playground bool `yaml:"playground"`
}

// WatchConfig controls filesystem watching in serve mode.
type WatchConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Debounce Duration `yaml:"debounce"`
}

// ScheduleConfig controls periodic rebuilds in serve mode.
type ScheduleConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Interval Duration `yaml:"interval"`
}

// LinkCheckConfig controls external link verification.
type LinkCheckConfig struct {
	Enabled        bool     `yaml:"enabled"`
	NATSURL        string   `yaml:"nats_url"`
	Subject        string   `yaml:"subject"`
	KVBucket       string   `yaml:"kv_bucket"`
	RequestTimeout Duration `yaml:"request_timeout"`
	MaxConcurrent  int      `yaml:"max_concurrent"`
	CacheTTL       Duration `yaml:"cache_ttl"`
}

// Load reads the configuration file, applies environment overrides and
// defaults, and validates the result.
func Load(path string) (*Config, error) {
	loadDotEnv()

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Site.Title == "" {
		c.Site.Title = "restdoc"
	}
	if c.Content.Path == "" {
		c.Content.Path = DefaultArticlePath
	}
	if c.Content.Git.URL != "" {
		if c.Content.Git.Branch == "" {
			c.Content.Git.Branch = "main"
		}
		if c.Content.Git.Workspace == "" {
			c.Content.Git.Workspace = ".restdoc-workspace"
		}
	}
	if c.Output.Directory == "" {
		c.Output.Directory = "./site"
	}
	if c.Serve.Listen == "" {
		c.Serve.Listen = ":8080"
	}
	if c.Serve.DataDir == "" {
		c.Serve.DataDir = "./restdoc-data"
	}
	if c.Watch.Debounce <= 0 {
		c.Watch.Debounce = Duration(500 * time.Millisecond)
	}
	if c.Schedule.Interval <= 0 {
		c.Schedule.Interval = Duration(time.Hour)
	}
	if c.LinkCheck.Enabled {
		if c.LinkCheck.NATSURL == "" {
			c.LinkCheck.NATSURL = "nats://localhost:4222"
		}
		if c.LinkCheck.Subject == "" {
			c.LinkCheck.Subject = "restdoc.links.broken"
		}
		if c.LinkCheck.KVBucket == "" {
			c.LinkCheck.KVBucket = "restdoc-link-cache"
		}
		if c.LinkCheck.RequestTimeout <= 0 {
			c.LinkCheck.RequestTimeout = Duration(10 * time.Second)
		}
		if c.LinkCheck.MaxConcurrent <= 0 {
			c.LinkCheck.MaxConcurrent = 10
		}
		if c.LinkCheck.CacheTTL <= 0 {
			c.LinkCheck.CacheTTL = Duration(24 * time.Hour)
		}
	}
}

func (c *Config) validate() error {
	if filepath.Ext(c.Content.Path) != ".md" {
		return fmt.Errorf("content path %q is not a markdown file", c.Content.Path)
	}
	if c.Schedule.Enabled && c.Schedule.Interval.D() < time.Minute {
		return fmt.Errorf("schedule interval %s is below the one-minute minimum", c.Schedule.Interval)
	}
	return nil
}

// ArticlePath resolves the article's location on disk, accounting for a git
// source checkout.
func (c *Config) ArticlePath() string {
	if c.Content.Git.URL != "" {
		return filepath.Join(c.Content.Git.Workspace, c.Content.Path)
	}
	return c.Content.Path
}
