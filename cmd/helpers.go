package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/notesview/notesview/internal/catalog"
	"github.com/notesview/notesview/internal/config"
	"github.com/notesview/notesview/internal/notes"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `notesview init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// siteFs returns the site directory as a filesystem, or nil when notes are
// fetched from a content URL.
func siteFs(cfg *config.Config) (afero.Fs, error) {
	if cfg.ContentURL != "" {
		return nil, nil
	}
	// BasePathFs rejects every name under a base of ".", so anchor it.
	dir, err := filepath.Abs(cfg.SiteDir)
	if err != nil {
		return nil, fmt.Errorf("resolving site dir: %w", err)
	}
	return afero.NewBasePathFs(afero.NewOsFs(), dir), nil
}

// docsFs returns the docs directory inside site, or nil.
func docsFs(cfg *config.Config, site afero.Fs) afero.Fs {
	if site == nil {
		return nil
	}
	return afero.NewBasePathFs(site, cfg.DocsDir)
}

// createLoaderFromConfig builds the content loader for the configured
// source: the content URL when set, the site directory otherwise.
func createLoaderFromConfig(cfg *config.Config, site afero.Fs) (*notes.Loader, error) {
	var source notes.Source
	if cfg.ContentURL != "" {
		httpSource, err := notes.NewHTTPSource(cfg.ContentURL, nil)
		if err != nil {
			return nil, err
		}
		source = httpSource
	} else {
		source = notes.NewFSSource(site)
	}
	return notes.NewLoader(source, cfg.Resolver(),
		notes.WithTimeout(cfg.FetchTimeout()),
		notes.WithLogger(logger),
	), nil
}

// createCatalogFromConfig returns nil when there is no local site.
func createCatalogFromConfig(cfg *config.Config, site afero.Fs) *catalog.Catalog {
	if site == nil {
		return nil
	}
	return catalog.New(site, cfg.Resolver())
}

func sourceDescription(cfg *config.Config) string {
	if cfg.ContentURL != "" {
		return cfg.ContentURL
	}
	return filepath.Join(cfg.SiteDir, cfg.DocsDir)
}
