// Package fusion contains the pure crafting logic: deconstructing owned
// assets into primitive components, matching component multisets against
// recipes, and searching a user's assets for a crafting plan.
package fusion

import (
	"fmt"
	"sort"
	"strings"
)

// Multiset counts component names. The zero value is not usable; use NewMultiset.
type Multiset map[string]int

// NewMultiset counts the given items.
func NewMultiset(items ...string) Multiset {
	m := make(Multiset, len(items))
	for _, item := range items {
		m[item]++
	}
	return m
}

// Add adds n copies of item.
func (m Multiset) Add(item string, n int) {
	if n <= 0 {
		return
	}
	m[item] += n
}

// AddAll adds every element of o.
func (m Multiset) AddAll(o Multiset) {
	for item, n := range o {
		m.Add(item, n)
	}
}

// Size is the total number of elements.
func (m Multiset) Size() int {
	total := 0
	for _, n := range m {
		if n > 0 {
			total += n
		}
	}
	return total
}

// Empty reports whether no element has a positive count.
func (m Multiset) Empty() bool { return m.Size() == 0 }

// Contains reports whether o is a sub-multiset of m.
func (m Multiset) Contains(o Multiset) bool {
	for item, n := range o {
		if n > 0 && m[item] < n {
			return false
		}
	}
	return true
}

// Minus returns m - o, dropping non-positive counts.
func (m Multiset) Minus(o Multiset) Multiset {
	out := make(Multiset, len(m))
	for item, n := range m {
		if rest := n - o[item]; rest > 0 {
			out[item] = rest
		}
	}
	return out
}

// Equal compares positive counts.
func (m Multiset) Equal(o Multiset) bool {
	return m.Contains(o) && o.Contains(m)
}

// Clone returns an independent copy.
func (m Multiset) Clone() Multiset {
	out := make(Multiset, len(m))
	for item, n := range m {
		if n > 0 {
			out[item] = n
		}
	}
	return out
}

// Items returns the element names with positive counts, sorted.
func (m Multiset) Items() []string {
	items := make([]string, 0, len(m))
	for item, n := range m {
		if n > 0 {
			items = append(items, item)
		}
	}
	sort.Strings(items)
	return items
}

// String renders "A x2, B".
func (m Multiset) String() string {
	parts := make([]string, 0, len(m))
	for _, item := range m.Items() {
		if n := m[item]; n > 1 {
			parts = append(parts, fmt.Sprintf("%s x%d", item, n))
		} else {
			parts = append(parts, item)
		}
	}
	return strings.Join(parts, ", ")
}
