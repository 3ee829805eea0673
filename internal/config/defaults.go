package config

import "github.com/notesview/notesview/internal/nav"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Title:               "my_notes",
		SiteDir:             "public",
		DocsDir:             "docs",
		HomeResource:        "my_notes",
		HomeLabel:           "About",
		Port:                8080,
		Database:            ".notesview/notesview.db",
		FetchTimeoutSeconds: 10,
		ExportConcurrency:   8,
		CodeStyle:           "github",
		Topics:              nav.DefaultTable(),
	}
}
