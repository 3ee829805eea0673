// Package catalog discovers the markdown files under the docs directory and
// checks them against the navigation table.
package catalog

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"github.com/notesview/notesview/internal/nav"
	"github.com/notesview/notesview/internal/notes"
)

// DefaultExcludes are patterns, relative to the docs directory, never
// reported as notes.
var DefaultExcludes = []string{
	"**/.*",
	"**/_*",
}

// File is one markdown file found under the docs directory.
type File struct {
	// Path is relative to the site root, e.g. "docs/Rollups.md".
	Path string `json:"path"`
	// ID is the note identifier the file serves. Empty for files in
	// subdirectories, which no identifier can reach.
	ID string `json:"id,omitempty"`
}

// Catalog lists the notes available in a site directory.
type Catalog struct {
	fs       afero.Fs
	resolver notes.Resolver
	excludes []string
}

// New returns a Catalog over fs, whose root is the site directory.
func New(fs afero.Fs, resolver notes.Resolver, excludes ...string) *Catalog {
	return &Catalog{
		fs:       fs,
		resolver: resolver,
		excludes: append(append([]string{}, DefaultExcludes...), excludes...),
	}
}

// Discover returns every markdown file below the docs directory, sorted by
// path.
func (c *Catalog) Discover() ([]File, error) {
	docs := path.Clean(c.resolver.DocsDir)
	exists, err := afero.DirExists(c.fs, docs)
	if err != nil {
		return nil, fmt.Errorf("checking docs dir: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("docs dir %q not found", docs)
	}

	matches, err := doublestar.Glob(afero.NewIOFS(c.fs), path.Join(docs, "**", "*.md"))
	if err != nil {
		return nil, fmt.Errorf("globbing docs: %w", err)
	}

	files := make([]File, 0, len(matches))
	for _, m := range matches {
		rel := strings.TrimPrefix(m, docs+"/")
		if c.excluded(rel) {
			continue
		}
		f := File{Path: m}
		if !strings.Contains(rel, "/") {
			f.ID = strings.TrimSuffix(rel, ".md")
		}
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func (c *Catalog) excluded(rel string) bool {
	for _, pattern := range c.excludes {
		if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
			return true
		}
	}
	return false
}

// Report is the outcome of Check.
type Report struct {
	// Missing lists table identifiers with no file.
	Missing []string `json:"missing"`
	// HomeMissing is set when the home resource has no file.
	HomeMissing bool `json:"home_missing"`
	// Orphans lists files no table entry or home points at.
	Orphans []string `json:"orphans"`
	// Invalid lists table identifiers that can never name a file.
	Invalid []string `json:"invalid"`
}

// OK reports whether nothing needs attention.
func (r Report) OK() bool {
	return len(r.Missing) == 0 && !r.HomeMissing && len(r.Orphans) == 0 && len(r.Invalid) == 0
}

// Check compares the table and the home resource with the files on disk.
func (c *Catalog) Check(table nav.Table) (Report, error) {
	files, err := c.Discover()
	if err != nil {
		return Report{}, err
	}

	onDisk := make(map[string]bool, len(files))
	for _, f := range files {
		onDisk[f.Path] = true
	}

	var report Report
	referenced := make(map[string]bool)

	homePath, err := c.resolver.ResourcePath("")
	if err != nil {
		return Report{}, fmt.Errorf("home resource: %w", err)
	}
	referenced[homePath] = true
	report.HomeMissing = !onDisk[homePath]

	for _, id := range table.Identifiers() {
		p, err := c.resolver.ResourcePath(id)
		if err != nil {
			report.Invalid = append(report.Invalid, id)
			continue
		}
		referenced[p] = true
		if !onDisk[p] {
			report.Missing = append(report.Missing, id)
		}
	}

	for _, f := range files {
		if !referenced[f.Path] {
			report.Orphans = append(report.Orphans, f.Path)
		}
	}
	return report, nil
}

// Available returns the set of identifiers that have a file, the home
// sentinel included when its resource exists.
func (c *Catalog) Available() (map[string]bool, error) {
	files, err := c.Discover()
	if err != nil {
		return nil, err
	}
	homePath, err := c.resolver.ResourcePath("")
	if err != nil {
		return nil, fmt.Errorf("home resource: %w", err)
	}
	out := make(map[string]bool, len(files))
	for _, f := range files {
		if f.Path == homePath {
			out[""] = true
		}
		if f.ID != "" {
			out[f.ID] = true
		}
	}
	return out, nil
}
