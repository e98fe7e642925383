package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/garden/internal/core/catalog"
	"github.com/example/garden/internal/core/fusion"
	"github.com/example/garden/internal/core/garden"
	"github.com/example/garden/internal/ports/primary"
)

// AlmanacServiceImpl implements the AlmanacService interface. It only reads.
type AlmanacServiceImpl struct {
	store    *ProfileStore
	resolver *fusion.Resolver
	settings Settings
}

// NewAlmanacService creates a new AlmanacService with injected dependencies.
func NewAlmanacService(store *ProfileStore, resolver *fusion.Resolver, settings Settings) *AlmanacServiceImpl {
	return &AlmanacServiceImpl{store: store, resolver: resolver, settings: settings}
}

// Available lists fusions the user can craft now, with ready fuse arguments.
func (s *AlmanacServiceImpl) Available(ctx context.Context, userID, query string) (*primary.AvailablePage, error) {
	v := s.store.View(userID)
	q := fusion.ParseQuery(query)
	discovered := toSet(v.DiscoveredFusions())

	all := s.resolver.Available(fusion.UserAssets(v, s.resolver.Catalog()), discovered, q.Filters)
	start, end, page, totalPages := fusion.Page(len(all), s.settings.pageSize(), q.Page)

	out := &primary.AvailablePage{Page: page, TotalPages: totalPages, Total: len(all)}
	for _, c := range all[start:end] {
		entry := primary.CraftableEntry{
			ID:     c.Fusion.ID,
			Name:   c.Fusion.Name,
			Tier:   c.Fusion.Type,
			Recipe: s.recipeNames(c.Fusion),
			IsNew:  c.IsNew,
		}
		entry.FuseArgs, entry.Unstore = fuseArgs(c.Plan)
		out.Entries = append(out.Entries, entry)
	}
	return out, nil
}

// Discover lists undiscovered fusions with what the user has and lacks.
func (s *AlmanacServiceImpl) Discover(ctx context.Context, userID, query string) (*primary.DiscoverPage, error) {
	v := s.store.View(userID)
	q := fusion.ParseQuery(query)

	all := s.resolver.Discover(fusion.UserAssets(v, s.resolver.Catalog()), toSet(v.DiscoveredFusions()), q)
	start, end, page, totalPages := fusion.Page(len(all), s.settings.pageSize(), q.Page)

	out := &primary.DiscoverPage{Page: page, TotalPages: totalPages, Total: len(all)}
	for _, p := range all[start:end] {
		out.Entries = append(out.Entries, primary.PotentialEntry{
			ID:        p.Fusion.ID,
			Name:      p.Fusion.Name,
			Tier:      p.Fusion.Type,
			Recipe:    s.recipeNames(p.Fusion),
			Have:      p.Have,
			Needed:    countedNames(p.Needed),
			Craftable: p.Group == fusion.GroupCraftable,
		})
	}
	return out, nil
}

// Discovered lists fusions the user has crafted.
func (s *AlmanacServiceImpl) Discovered(ctx context.Context, userID, query string) (*primary.DiscoveredPage, error) {
	v := s.store.View(userID)
	q := fusion.ParseQuery(query)
	discovered := toSet(v.DiscoveredFusions())

	all := s.resolver.Discovered(discovered, q.Filters)
	start, end, page, totalPages := fusion.Page(len(all), s.settings.pageSize(), q.Page)

	out := &primary.DiscoveredPage{
		Page:       page,
		TotalPages: totalPages,
		Discovered: len(s.resolver.Discovered(discovered, nil)),
		Total:      s.resolver.AlmanacTotal(discovered),
	}
	for _, f := range all[start:end] {
		out.Entries = append(out.Entries, s.info(f, true))
	}
	return out, nil
}

// Info looks a fusion up by id or name. Invisible fusions, and hidden ones
// the user has not made, are reported as unknown.
func (s *AlmanacServiceImpl) Info(ctx context.Context, userID, query string) (*primary.FusionInfo, error) {
	cat := s.resolver.Catalog()
	query = strings.TrimSpace(query)
	v := s.store.View(userID)

	f, ok := cat.FindFusion(query)
	if !ok || f.Visibility == catalog.VisibilityInvisible ||
		(f.Visibility == catalog.VisibilityHidden && !v.HasDiscovered(f.ID)) {
		msg := fmt.Sprintf("The fusion recipe for '%s' could not be found.", query)
		if hints := cat.SuggestFusions(query); len(hints) > 0 {
			msg += fmt.Sprintf(" Did you mean: %s?", strings.Join(hints, ", "))
		}
		return nil, garden.Violationf("%s", msg)
	}
	if !v.HasDiscovered(f.ID) {
		return nil, garden.Violationf("You have not discovered %s yet.", f.Name)
	}

	info := s.info(f, true)
	return &info, nil
}

// Helper methods

func (s *AlmanacServiceImpl) info(f catalog.FusionRecipe, discovered bool) primary.FusionInfo {
	return primary.FusionInfo{
		ID:         f.ID,
		Name:       f.Name,
		Tier:       f.Type,
		Recipe:     s.recipeNames(f),
		Discovered: discovered,
		Hidden:     f.Visibility == catalog.VisibilityHidden,
	}
}

func (s *AlmanacServiceImpl) recipeNames(f catalog.FusionRecipe) []string {
	cat := s.resolver.Catalog()
	out := make([]string, 0, len(f.Recipe))
	for _, c := range f.Recipe {
		out = append(out, cat.DisplayName(c))
	}
	return out
}

// fuseArgs renders a plan as fuse arguments: garden plots by number and
// materials by id, one argument per unit. Stored plants cannot be fused in
// place, so their slots are returned separately as unstore hints.
func fuseArgs(plan []fusion.Asset) (args []string, unstore []int) {
	for _, a := range plan {
		switch a.Source {
		case fusion.SourceGarden:
			args = append(args, strconv.Itoa(a.Slot))
		case fusion.SourceStorage:
			unstore = append(unstore, a.Slot)
		case fusion.SourceInventory:
			args = append(args, a.ID)
		}
	}
	return args, unstore
}

func countedNames(m fusion.Multiset) []string {
	var out []string
	for _, item := range m.Items() {
		if n := m[item]; n > 1 {
			out = append(out, fmt.Sprintf("%s x%d", item, n))
		} else {
			out = append(out, item)
		}
	}
	return out
}

// Ensure AlmanacServiceImpl implements the interface.
var _ primary.AlmanacService = (*AlmanacServiceImpl)(nil)
