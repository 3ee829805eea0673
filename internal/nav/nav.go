package nav

import (
	"fmt"
	"strings"
)

// Topic is one sidebar group and the note identifiers listed under it.
type Topic struct {
	Name     string   `yaml:"name" koanf:"name" json:"name"`
	Subpages []string `yaml:"subpages" koanf:"subpages" json:"subpages"`
}

// Table is the ordered navigation table rendered in the sidebar.
type Table []Topic

// DefaultTable is used when the configuration does not declare topics.
func DefaultTable() Table {
	return Table{
		{
			Name: "Blockchain",
			Subpages: []string{
				"Intro",
				"Blockchain Fundamentals",
				"Consensus Mechanisms",
				"Rollups",
				"Smart Contracts",
				"Architecture of a dApp",
				"Basic Solidity Concepts",
			},
		},
	}
}

// Validate checks that every topic is named, lists at least one subpage and
// does not repeat a subpage. Subpages may not carry surrounding whitespace,
// which routing would trim. Uniqueness is per topic only; the same
// identifier may appear under two topics.
func (t Table) Validate() error {
	for i, topic := range t {
		if strings.TrimSpace(topic.Name) == "" {
			return fmt.Errorf("topic %d: name is required", i)
		}
		if len(topic.Subpages) == 0 {
			return fmt.Errorf("topic %q: at least one subpage is required", topic.Name)
		}
		seen := make(map[string]bool, len(topic.Subpages))
		for _, sub := range topic.Subpages {
			if strings.TrimSpace(sub) == "" {
				return fmt.Errorf("topic %q: empty subpage identifier", topic.Name)
			}
			if strings.TrimSpace(sub) != sub {
				return fmt.Errorf("topic %q: subpage %q has surrounding whitespace", topic.Name, sub)
			}
			if seen[sub] {
				return fmt.Errorf("topic %q: duplicate subpage %q", topic.Name, sub)
			}
			seen[sub] = true
		}
	}
	return nil
}

// Identifiers returns every subpage identifier in table order, without
// duplicates across topics.
func (t Table) Identifiers() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, topic := range t {
		for _, sub := range topic.Subpages {
			if seen[sub] {
				continue
			}
			seen[sub] = true
			ids = append(ids, sub)
		}
	}
	return ids
}

// TopicsContaining returns the indices of topics listing id, compared with
// match.
func (t Table) TopicsContaining(id string, match func(a, b string) bool) []int {
	var out []int
	for i, topic := range t {
		for _, sub := range topic.Subpages {
			if match(sub, id) {
				out = append(out, i)
				break
			}
		}
	}
	return out
}
