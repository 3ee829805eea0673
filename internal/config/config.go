package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/notesview/notesview/internal/notes"
)

// EnvPrefix prefixes environment overrides, e.g. NOTESVIEW_PORT.
const EnvPrefix = "NOTESVIEW_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (NOTESVIEW_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: NOTESVIEW_SITE_DIR -> site_dir, etc.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.SiteDir == "" && c.ContentURL == "" {
		return fmt.Errorf("site_dir or content_url is required")
	}

	if c.DocsDir == "" {
		return fmt.Errorf("docs_dir is required")
	}

	if c.ContentURL != "" {
		u, err := url.Parse(c.ContentURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid content_url %q: must be an absolute http(s) URL", c.ContentURL)
		}
	}

	if c.HomeResource == "" {
		return fmt.Errorf("home_resource is required")
	}
	if _, err := c.Resolver().ResourcePath(""); err != nil {
		return fmt.Errorf("invalid home_resource %q: %w", c.HomeResource, err)
	}

	if c.HomeLabel == "" {
		return fmt.Errorf("home_label is required")
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 0 and 65535")
	}

	if c.Database == "" {
		return fmt.Errorf("database is required")
	}

	if c.FetchTimeoutSeconds < 0 {
		return fmt.Errorf("fetch_timeout_seconds must be non-negative")
	}

	if c.ExportConcurrency < 0 {
		return fmt.Errorf("export_concurrency must be non-negative")
	}

	if err := c.Topics.Validate(); err != nil {
		return fmt.Errorf("topics: %w", err)
	}

	return nil
}

// Resolver returns the identifier resolver described by the config.
func (c *Config) Resolver() notes.Resolver {
	return notes.NewResolver(c.DocsDir, notes.Home{Resource: c.HomeResource, Label: c.HomeLabel})
}

// FetchTimeout returns the per-load timeout; zero means none.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}
