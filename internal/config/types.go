package config

import "github.com/notesview/notesview/internal/nav"

// DefaultPath is the config file read when --config is not given.
const DefaultPath = ".notesview.yml"

// Config is the top-level notesview configuration, corresponding to .notesview.yml.
type Config struct {
	Title               string    `yaml:"title" koanf:"title"`
	SiteDir             string    `yaml:"site_dir" koanf:"site_dir"`
	DocsDir             string    `yaml:"docs_dir" koanf:"docs_dir"`
	ContentURL          string    `yaml:"content_url,omitempty" koanf:"content_url"`
	HomeResource        string    `yaml:"home_resource" koanf:"home_resource"`
	HomeLabel           string    `yaml:"home_label" koanf:"home_label"`
	Port                int       `yaml:"port" koanf:"port"`
	Database            string    `yaml:"database" koanf:"database"`
	FetchTimeoutSeconds int       `yaml:"fetch_timeout_seconds" koanf:"fetch_timeout_seconds"`
	AllowAllOrigins     bool      `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	ExportConcurrency   int       `yaml:"export_concurrency" koanf:"export_concurrency"`
	CodeStyle           string    `yaml:"code_style" koanf:"code_style"`
	Topics              nav.Table `yaml:"topics" koanf:"topics"`
}
