// Package notes loads markdown notes by identifier and tracks which note is
// selected.
//
// Identifier rule: an identifier is trimmed of surrounding whitespace and
// otherwise used verbatim. Case, inner whitespace and percent signs are
// preserved, so "smart contracts" and "Smart Contracts" are different notes
// and "Growth 5%2B" names the file "Growth 5%2B.md". Percent-encoding
// belongs to URLs only: FromPathSegment decodes a route segment exactly
// once. The empty identifier is the home sentinel.
package notes

import (
	"errors"
	"net/url"
	"path"
	"strings"
)

// ErrInvalidIdentifier is returned for identifiers that cannot name a file
// inside the docs directory.
var ErrInvalidIdentifier = errors.New("invalid note identifier")

// Normalize applies the identifier rule described in the package comment.
func Normalize(raw string) string {
	return strings.TrimSpace(raw)
}

// FromPathSegment turns an escaped route segment, as produced by Route,
// back into an identifier. Malformed escapes are kept as they are.
func FromPathSegment(escaped string) string {
	decoded, err := url.PathUnescape(escaped)
	if err != nil {
		decoded = escaped
	}
	return Normalize(decoded)
}

// SameIdentifier reports whether a and b name the same note.
func SameIdentifier(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// Home describes the document shown when nothing is selected. Its label
// and its resource name are deliberately independent.
type Home struct {
	Resource string
	Label    string
}

// DefaultHome is the about page: labelled "About", stored as my_notes.md.
var DefaultHome = Home{Resource: "my_notes", Label: "About"}

// Resolver maps identifiers to labels, routes and resource paths.
type Resolver struct {
	DocsDir string
	Home    Home
}

// NewResolver returns a Resolver, filling empty fields with defaults.
func NewResolver(docsDir string, home Home) Resolver {
	if docsDir == "" {
		docsDir = "docs"
	}
	if home.Resource == "" {
		home.Resource = DefaultHome.Resource
	}
	if home.Label == "" {
		home.Label = DefaultHome.Label
	}
	return Resolver{DocsDir: docsDir, Home: home}
}

// IsHome reports whether id is the home sentinel.
func IsHome(id string) bool {
	return Normalize(id) == ""
}

// Label is the heading shown for id.
func (r Resolver) Label(id string) string {
	id = Normalize(id)
	if id == "" {
		return r.Home.Label
	}
	return id
}

// Route is the location path for id: "/" for home, otherwise the escaped
// identifier as a single segment.
func (r Resolver) Route(id string) string {
	id = Normalize(id)
	if id == "" {
		return "/"
	}
	return "/" + url.PathEscape(id)
}

// ResourceName is the base name of the markdown file backing id.
func (r Resolver) ResourceName(id string) string {
	id = Normalize(id)
	if id == "" {
		return r.Home.Resource
	}
	return id
}

// ResourcePath returns "<docs>/<name>.md" with the identifier used verbatim,
// spaces included. Identifiers that would leave the docs directory are
// refused.
func (r Resolver) ResourcePath(id string) (string, error) {
	name := r.ResourceName(id)
	if name == "." || name == ".." || strings.ContainsAny(name, "/\\\x00") {
		return "", ErrInvalidIdentifier
	}
	return path.Join(r.DocsDir, name+".md"), nil
}
