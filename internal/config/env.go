package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// loadDotEnv loads .env / .env.local into the process environment without
// overwriting variables that are already set.
func loadDotEnv() {
	for _, path := range []string{".env", ".env.local"} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			slog.Warn("Failed to load env file", "path", path, "error", err)
			continue
		}
		slog.Debug("Loaded environment variables", "path", path)
		return
	}
}

// applyEnvOverrides maps RESTDOC_* environment variables onto the config.
// Environment wins over file values so deployments can override without
// editing the config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RESTDOC_SITE_TITLE"); v != "" {
		cfg.Site.Title = v
	}
	if v := os.Getenv("RESTDOC_BASE_URL"); v != "" {
		cfg.Site.BaseURL = v
	}
	if v := os.Getenv("RESTDOC_CONTENT_PATH"); v != "" {
		cfg.Content.Path = v
	}
	if v := os.Getenv("RESTDOC_OUTPUT_DIR"); v != "" {
		cfg.Output.Directory = v
	}
	if v := os.Getenv("RESTDOC_LISTEN"); v != "" {
		cfg.Serve.Listen = v
	}
	if v := os.Getenv("RESTDOC_NATS_URL"); v != "" {
		cfg.LinkCheck.NATSURL = v
	}
}
