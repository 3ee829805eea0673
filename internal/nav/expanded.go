package nav

import (
	"sort"
	"strconv"
	"strings"
)

// Expanded is the set of expanded topic indices. Only membership matters.
type Expanded map[int]struct{}

// NewExpanded returns a set holding the given indices.
func NewExpanded(indices ...int) Expanded {
	e := make(Expanded, len(indices))
	for _, i := range indices {
		e[i] = struct{}{}
	}
	return e
}

// ParseExpanded reads a comma separated list such as "0,2". Entries that
// are not non-negative integers are skipped.
func ParseExpanded(s string) Expanded {
	e := make(Expanded)
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			continue
		}
		e[n] = struct{}{}
	}
	return e
}

// Has reports whether topic i is expanded.
func (e Expanded) Has(i int) bool {
	_, ok := e[i]
	return ok
}

// Toggle flips topic i and reports whether it is now expanded.
func (e Expanded) Toggle(i int) bool {
	if e.Has(i) {
		delete(e, i)
		return false
	}
	e[i] = struct{}{}
	return true
}

// Add expands every index given.
func (e Expanded) Add(indices ...int) {
	for _, i := range indices {
		e[i] = struct{}{}
	}
}

// Indices returns the members in ascending order.
func (e Expanded) Indices() []int {
	out := make([]int, 0, len(e))
	for i := range e {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// String formats the set the way ParseExpanded reads it.
func (e Expanded) String() string {
	idx := e.Indices()
	parts := make([]string, len(idx))
	for i, n := range idx {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

// Clone returns an independent copy of e.
func (e Expanded) Clone() Expanded {
	out := make(Expanded, len(e))
	for i := range e {
		out[i] = struct{}{}
	}
	return out
}
