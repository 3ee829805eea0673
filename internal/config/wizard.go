package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/afero"

	"github.com/notesview/notesview/internal/nav"
)

// detectSiteDir returns the first conventional static directory that
// already holds a docs folder.
func detectSiteDir(fs afero.Fs) string {
	for _, dir := range []string{"public", "static", "site", "."} {
		if ok, _ := afero.DirExists(fs, dir+"/docs"); ok {
			return dir
		}
	}
	return "public"
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to notesview! Let's configure your notes.")
	fmt.Println()

	cfg := DefaultConfig()
	cfg.SiteDir = detectSiteDir(afero.NewOsFs())

	// 1. Title.
	titlePrompt := promptui.Prompt{
		Label:   "Site title",
		Default: cfg.Title,
	}
	title, err := titlePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("title: %w", err)
	}
	cfg.Title = strings.TrimSpace(title)

	// 2. Where notes come from.
	sourcePrompt := promptui.Select{
		Label: "Where are the markdown notes served from",
		Items: []string{
			"local directory: read <site_dir>/docs from disk",
			"remote site:     fetch <content_url>/docs over HTTP",
		},
	}
	sourceIdx, _, err := sourcePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("source selection: %w", err)
	}

	if sourceIdx == 0 {
		sitePrompt := promptui.Prompt{
			Label:   "Site directory (contains docs/)",
			Default: cfg.SiteDir,
		}
		if cfg.SiteDir, err = sitePrompt.Run(); err != nil {
			return nil, fmt.Errorf("site dir: %w", err)
		}
	} else {
		urlPrompt := promptui.Prompt{
			Label: "Content URL",
			Validate: func(s string) error {
				if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
					return fmt.Errorf("must start with http:// or https://")
				}
				return nil
			},
		}
		if cfg.ContentURL, err = urlPrompt.Run(); err != nil {
			return nil, fmt.Errorf("content url: %w", err)
		}
	}

	// 3. Home page resource.
	homePrompt := promptui.Prompt{
		Label:   "Home page file name (without .md), shown as \"" + cfg.HomeLabel + "\"",
		Default: cfg.HomeResource,
	}
	if cfg.HomeResource, err = homePrompt.Run(); err != nil {
		return nil, fmt.Errorf("home resource: %w", err)
	}

	// 4. First topic.
	topicPrompt := promptui.Prompt{
		Label:   "First topic name",
		Default: cfg.Topics[0].Name,
	}
	topicName, err := topicPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("topic name: %w", err)
	}
	subpagesPrompt := promptui.Prompt{
		Label:   "Notes in this topic (comma-separated)",
		Default: strings.Join(cfg.Topics[0].Subpages, ", "),
	}
	subpagesStr, err := subpagesPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("subpages: %w", err)
	}
	cfg.Topics = nav.Table{{Name: strings.TrimSpace(topicName), Subpages: splitAndTrim(subpagesStr)}}

	// 5. Port.
	portPrompt := promptui.Prompt{
		Label:   "Port for notesview serve",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 || n > 65535 {
				return fmt.Errorf("not a port number")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.ContentURL == "" {
		if ok, _ := afero.DirExists(afero.NewOsFs(), cfg.SiteDir+"/"+cfg.DocsDir); !ok {
			fmt.Fprintf(os.Stderr, "\nNote: %s/%s does not exist yet. Put your markdown notes there.\n", cfg.SiteDir, cfg.DocsDir)
		}
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
