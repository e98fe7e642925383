package catalog

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxSuggestions caps "did you mean" lists.
const maxSuggestions = 3

// suggestLimit is the largest edit distance accepted for an input of the given length.
func suggestLimit(input string) int {
	n := len([]rune(input))
	switch {
	case n <= 4:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}

type candidate struct {
	name     string
	distance int
}

// closest ranks names by edit distance to query, keeping those within the limit.
func closest(query string, names []string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	limit := suggestLimit(q)

	var matches []candidate
	seen := make(map[string]struct{})
	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		lower := strings.ToLower(name)
		d := levenshtein.ComputeDistance(q, lower)
		if strings.Contains(lower, q) {
			d = 0
		}
		if d <= limit {
			matches = append(matches, candidate{name: name, distance: d})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].distance != matches[j].distance {
			return matches[i].distance < matches[j].distance
		}
		return matches[i].name < matches[j].name
	})

	out := make([]string, 0, maxSuggestions)
	for i := 0; i < len(matches) && i < maxSuggestions; i++ {
		out = append(out, matches[i].name)
	}
	return out
}

// SuggestFusions returns names of non-invisible fusions close to query.
func (c *Catalog) SuggestFusions(query string) []string {
	var names []string
	for _, f := range c.fusions {
		if f.Visibility == VisibilityInvisible {
			continue
		}
		names = append(names, f.Name)
	}
	return closest(query, names)
}

// SuggestItems returns shop item and material names close to query.
func (c *Catalog) SuggestItems(query string) []string {
	var names []string
	for _, shop := range [][]ShopItemDefinition{c.ruxShop, c.pennyShop, c.daveShop} {
		for _, item := range shop {
			names = append(names, item.ID)
		}
	}
	names = append(names, c.materialIDs...)
	return closest(query, names)
}

// SuggestBackgrounds returns background ids close to query.
func (c *Catalog) SuggestBackgrounds(query string) []string {
	names := make([]string, 0, len(c.backgrounds))
	for _, bg := range c.backgrounds {
		names = append(names, bg.ID)
	}
	return closest(query, names)
}
