package nav

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Entry is a topic paired with its index in the unfiltered table, so that
// expansion state survives filtering.
type Entry struct {
	Index int
	Topic Topic
}

// Entries returns the whole table as entries.
func (t Table) Entries() []Entry {
	out := make([]Entry, len(t))
	for i, topic := range t {
		out[i] = Entry{Index: i, Topic: topic}
	}
	return out
}

// Filter keeps the subpages fuzzily matching query. A topic whose own name
// matches keeps all of its subpages. Topics left empty are dropped.
func (t Table) Filter(query string) []Entry {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return t.Entries()
	}

	var out []Entry
	for i, topic := range t {
		if fuzzy.MatchNormalizedFold(trimmed, topic.Name) {
			out = append(out, Entry{Index: i, Topic: topic})
			continue
		}
		var subs []string
		for _, sub := range topic.Subpages {
			if fuzzy.MatchNormalizedFold(trimmed, sub) {
				subs = append(subs, sub)
			}
		}
		if len(subs) > 0 {
			out = append(out, Entry{Index: i, Topic: Topic{Name: topic.Name, Subpages: subs}})
		}
	}
	return out
}
