package app

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/example/garden/internal/core/catalog"
	"github.com/example/garden/internal/core/effects"
	"github.com/example/garden/internal/core/fusion"
	"github.com/example/garden/internal/core/garden"
	"github.com/example/garden/internal/core/sales"
	"github.com/example/garden/internal/ports/primary"
)

const leaderboardPageSize = 10

// GardenServiceImpl implements the GardenService interface.
type GardenServiceImpl struct {
	store    *ProfileStore
	executor EffectExecutor
	resolver *fusion.Resolver
	locks    *LockTable
	settings Settings
	now      func() time.Time
	logger   *slog.Logger
}

// NewGardenService creates a new GardenService with injected dependencies.
func NewGardenService(
	store *ProfileStore,
	executor EffectExecutor,
	resolver *fusion.Resolver,
	locks *LockTable,
	settings Settings,
	logger *slog.Logger,
) *GardenServiceImpl {
	return &GardenServiceImpl{
		store:    store,
		executor: executor,
		resolver: resolver,
		locks:    locks,
		settings: settings,
		now:      time.Now,
		logger:   logger,
	}
}

func (s *GardenServiceImpl) catalog() *catalog.Catalog { return s.resolver.Catalog() }

// GetProfile returns a user's profile, creating it with defaults on first use.
func (s *GardenServiceImpl) GetProfile(ctx context.Context, userID string) (*primary.Profile, error) {
	v := s.store.View(userID)
	return s.viewToProfile(v), nil
}

// ClaimDaily pays the daily stipend once per calendar day in the game timezone.
func (s *GardenServiceImpl) ClaimDaily(ctx context.Context, userID string) (*primary.DailyResponse, error) {
	if err := s.locks.Check(userID); err != nil {
		return nil, err
	}

	now := s.now().In(s.settings.location())
	today := now.Format(time.DateOnly)
	nextReset := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())

	v := s.store.View(userID)
	if v.LastDaily() == today {
		return nil, garden.Violationf("Your daily stipend of %s %s has already been collected for %s. Next collection opens %s.",
			sales.Commas(s.settings.DailyStipend), s.settings.Currency, today, nextReset.Format(time.RFC1123))
	}

	effs := []effects.Effect{
		effects.BalanceEffect{UserID: userID, Delta: s.settings.DailyStipend},
		effects.DailyEffect{UserID: userID, Date: today},
		effects.EventEffect{UserID: userID, Kind: "daily", Message: fmt.Sprintf("claimed %d", s.settings.DailyStipend)},
	}
	if err := s.executor.Execute(ctx, effs); err != nil {
		return nil, err
	}

	return &primary.DailyResponse{
		Amount:    s.settings.DailyStipend,
		Balance:   s.store.View(userID).Balance(),
		NextReset: nextReset,
	}, nil
}

// Plant plants the default seedling into every valid requested plot and
// charges the total cost once.
func (s *GardenServiceImpl) Plant(ctx context.Context, req primary.PlantRequest) (*primary.PlantResponse, error) {
	if err := s.locks.Check(req.UserID); err != nil {
		return nil, err
	}
	if len(req.Plots) == 0 {
		return nil, garden.Violationf("Specify at least one plot number to plant in.")
	}

	p := s.store.View(req.UserID).Profile()
	resp := &primary.PlantResponse{}
	for _, slot := range uniqueSlots(req.Plots) {
		if r := garden.CanPlant(p, slot); !r.Allowed {
			resp.Errors = append(resp.Errors, r.Reason)
			continue
		}
		resp.Planted = append(resp.Planted, slot)
	}
	if len(resp.Planted) == 0 {
		resp.Balance = p.Balance
		return resp, nil
	}

	resp.Cost = len(resp.Planted) * s.settings.SeedlingCost
	if p.Balance < resp.Cost {
		return nil, garden.Violationf("Planting %d plot(s) costs %s %s. Your balance is %s %s.",
			len(resp.Planted), sales.Commas(resp.Cost), s.settings.Currency, sales.Commas(p.Balance), s.settings.Currency)
	}

	effs := []effects.Effect{effects.BalanceEffect{UserID: req.UserID, Delta: -resp.Cost}}
	for _, slot := range resp.Planted {
		effs = append(effs, effects.PlotEffect{
			UserID:   req.UserID,
			Slot:     slot,
			Occupant: garden.Seedling{ID: s.settings.DefaultSeedling, NotificationChannelID: req.ChannelID},
		})
	}
	effs = append(effs, effects.EventEffect{
		UserID:  req.UserID,
		Kind:    "plant",
		Message: fmt.Sprintf("planted plots %v for %d", resp.Planted, resp.Cost),
	})
	if err := s.executor.Execute(ctx, effs); err != nil {
		return nil, err
	}

	resp.Balance = s.store.View(req.UserID).Balance()
	return resp, nil
}

// Sell sells mature plants. Invalid plots are reported and skipped.
func (s *GardenServiceImpl) Sell(ctx context.Context, userID string, plots []int) (*primary.SellResponse, error) {
	if err := s.locks.Check(userID); err != nil {
		return nil, err
	}
	if len(plots) == 0 {
		return nil, garden.Violationf("Specify at least one plot number to sell from.")
	}

	v := s.store.View(userID)
	result := sales.ProcessSales(v, plots, sales.Prices(s.catalog().SalePrices()), s.settings.Currency)
	resp := &primary.SellResponse{
		Earnings:          result.TotalEarnings,
		Sold:              result.Sold,
		Errors:            result.Errors,
		SunMasteryGained:  result.SunMasteryGained,
		TimeMasteryGained: result.TimeMasteryGained,
		Balance:           v.Balance(),
	}
	if len(result.PlotsToClear) == 0 {
		return resp, nil
	}

	if err := s.executor.Execute(ctx, sales.Effects(userID, result)); err != nil {
		return nil, err
	}
	resp.Balance = s.store.View(userID).Balance()
	return resp, nil
}

// Shovel clears seedlings. Mature plants are refused.
func (s *GardenServiceImpl) Shovel(ctx context.Context, userID string, plots []int) (*primary.ShovelResponse, error) {
	if err := s.locks.Check(userID); err != nil {
		return nil, err
	}
	if len(plots) == 0 {
		return nil, garden.Violationf("Specify at least one plot number to clear.")
	}

	p := s.store.View(userID).Profile()
	resp := &primary.ShovelResponse{}
	var effs []effects.Effect
	for _, slot := range uniqueSlots(plots) {
		if r := garden.CanShovel(p, slot); !r.Allowed {
			resp.Errors = append(resp.Errors, r.Reason)
			continue
		}
		resp.Cleared = append(resp.Cleared, slot)
		effs = append(effs, effects.PlotEffect{UserID: userID, Slot: slot})
	}
	if len(resp.Cleared) == 0 {
		return resp, nil
	}

	effs = append(effs, effects.EventEffect{UserID: userID, Kind: "shovel", Message: fmt.Sprintf("cleared plots %v", resp.Cleared)})
	if err := s.executor.Execute(ctx, effs); err != nil {
		return nil, err
	}
	return resp, nil
}

// Reorder rearranges the unlocked plots.
func (s *GardenServiceImpl) Reorder(ctx context.Context, userID string, order []int) error {
	if err := s.locks.Check(userID); err != nil {
		return err
	}

	v := s.store.View(userID)
	next, errs := garden.Reorder(v, order)
	if len(errs) > 0 {
		return garden.Violationf("Garden reorder failed:\n%s", bullets(errs))
	}

	effs := make([]effects.Effect, 0, len(order)+1)
	for _, slot := range v.UnlockedPlots() {
		effs = append(effs, effects.PlotEffect{UserID: userID, Slot: slot, Occupant: next[slot-1]})
	}
	effs = append(effs, effects.EventEffect{UserID: userID, Kind: "reorder", Message: fmt.Sprintf("new order %v", order)})
	return s.executor.Execute(ctx, effs)
}

// Store moves plants into the storage shed, first free slot first.
func (s *GardenServiceImpl) Store(ctx context.Context, userID string, plots []int) (*primary.MoveResponse, error) {
	if err := s.locks.Check(userID); err != nil {
		return nil, err
	}

	p := s.store.View(userID).Profile()
	if !p.HasItem(garden.ItemStorageShed) {
		return nil, garden.Violationf("You do not have a Storage Shed. It can be bought from Rux.")
	}
	if len(plots) == 0 {
		return nil, garden.Violationf("Specify the plot numbers of the plants to store.")
	}

	resp := &primary.MoveResponse{}
	var effs []effects.Effect
	for _, slot := range uniqueSlots(plots) {
		plant, _ := plotPlant(p, slot)
		target, err := p.StorePlant(slot)
		if err != nil {
			resp.Errors = append(resp.Errors, err.Error())
			continue
		}
		stored := plant
		effs = append(effs,
			effects.PlotEffect{UserID: userID, Slot: slot},
			effects.StorageEffect{UserID: userID, Slot: target, Plant: &stored},
		)
		resp.Moved = append(resp.Moved, fmt.Sprintf("Moved %s from plot %d to storage slot %d.", plant.DisplayName(), slot, target))
	}
	if len(resp.Moved) == 0 {
		return resp, nil
	}

	effs = append(effs, effects.EventEffect{UserID: userID, Kind: "store", Message: strings.Join(resp.Moved, " ")})
	if err := s.executor.Execute(ctx, effs); err != nil {
		return nil, err
	}
	return resp, nil
}

// Unstore moves stored plants into the first free unlocked plots.
func (s *GardenServiceImpl) Unstore(ctx context.Context, userID string, slots []int) (*primary.MoveResponse, error) {
	if err := s.locks.Check(userID); err != nil {
		return nil, err
	}

	p := s.store.View(userID).Profile()
	if !p.HasItem(garden.ItemStorageShed) {
		return nil, garden.Violationf("You do not have a Storage Shed.")
	}
	if len(slots) == 0 {
		return nil, garden.Violationf("Specify the storage slot numbers of the plants to retrieve.")
	}

	resp := &primary.MoveResponse{}
	var effs []effects.Effect
	capacity := p.StorageCapacity()
	for _, slot := range uniqueSlots(slots) {
		if slot < 1 || slot > capacity {
			resp.Errors = append(resp.Errors, fmt.Sprintf("Storage slot %d: Invalid or inaccessible (Capacity: %d).", slot, capacity))
			continue
		}
		var plant garden.Plant
		if stored := p.Storage[slot-1]; stored != nil {
			plant = *stored
		}
		target, err := p.UnstorePlant(slot)
		if err != nil {
			resp.Errors = append(resp.Errors, err.Error())
			continue
		}
		effs = append(effs,
			effects.StorageEffect{UserID: userID, Slot: slot},
			effects.PlotEffect{UserID: userID, Slot: target, Occupant: plant},
		)
		resp.Moved = append(resp.Moved, fmt.Sprintf("Moved %s from storage slot %d to plot %d.", plant.DisplayName(), slot, target))
	}
	if len(resp.Moved) == 0 {
		return resp, nil
	}

	effs = append(effs, effects.EventEffect{UserID: userID, Kind: "unstore", Message: strings.Join(resp.Moved, " ")})
	if err := s.executor.Execute(ctx, effs); err != nil {
		return nil, err
	}
	return resp, nil
}

// ListBackgrounds lists unlocked backgrounds and, for locked ones, the
// fusions still missing.
func (s *GardenServiceImpl) ListBackgrounds(ctx context.Context, userID string) (*primary.Backgrounds, error) {
	v := s.store.View(userID)
	out := &primary.Backgrounds{Active: v.ActiveBackground()}
	for _, bg := range s.catalog().Backgrounds() {
		info := s.backgroundInfo(v, bg)
		if v.HasBackground(bg.ID) {
			out.Unlocked = append(out.Unlocked, info)
		} else {
			out.Locked = append(out.Locked, info)
		}
	}
	return out, nil
}

// SetBackground activates an unlocked background by id or name.
func (s *GardenServiceImpl) SetBackground(ctx context.Context, userID, query string) (*primary.BackgroundInfo, error) {
	cat := s.catalog()
	bg, ok := cat.FindBackground(strings.TrimSpace(query))
	if !ok {
		msg := fmt.Sprintf("No background named '%s' exists.", query)
		if hints := cat.SuggestBackgrounds(query); len(hints) > 0 {
			msg += fmt.Sprintf(" Did you mean: %s?", strings.Join(hints, ", "))
		}
		return nil, garden.Violationf("%s", msg)
	}

	v := s.store.View(userID)
	if !v.HasBackground(bg.ID) {
		return nil, garden.Violationf("You have not unlocked the %s background yet.", bg.Name)
	}

	effs := []effects.Effect{
		effects.ActiveBackgroundEffect{UserID: userID, BackgroundID: bg.ID},
		effects.EventEffect{UserID: userID, Kind: "background", Message: "set " + bg.ID},
	}
	if err := s.executor.Execute(ctx, effs); err != nil {
		return nil, err
	}
	info := s.backgroundInfo(s.store.View(userID), bg)
	return &info, nil
}

// Leaderboard returns one page of users ranked by balance.
func (s *GardenServiceImpl) Leaderboard(ctx context.Context, page int) (*primary.LeaderboardPage, error) {
	ranked := s.store.Leaderboard()
	start, end, clamped, total := fusion.Page(len(ranked), leaderboardPageSize, page)

	out := &primary.LeaderboardPage{Page: clamped, TotalPages: total}
	for i := start; i < end; i++ {
		out.Entries = append(out.Entries, primary.LeaderboardEntry{
			Rank:    i + 1,
			UserID:  ranked[i].UserID,
			Balance: ranked[i].Balance,
		})
	}
	return out, nil
}

// Rank returns a user's 1-indexed leaderboard position.
func (s *GardenServiceImpl) Rank(ctx context.Context, userID string) (int, bool, error) {
	rank, ok := s.store.Rank(userID)
	return rank, ok, nil
}

// Helper methods

func (s *GardenServiceImpl) viewToProfile(v garden.View) *primary.Profile {
	cat := s.catalog()
	out := &primary.Profile{
		UserID:           v.UserID(),
		Balance:          v.Balance(),
		SunMastery:       v.SunMastery(),
		TimeMastery:      v.TimeMastery(),
		LastDaily:        v.LastDaily(),
		ActiveBackground: v.ActiveBackground(),
		StorageCapacity:  v.StorageCapacity(),
	}

	for i, occ := range v.Garden() {
		slot := i + 1
		plot := primary.Plot{Slot: slot, Locked: !v.IsSlotUnlocked(slot)}
		switch o := occ.(type) {
		case garden.Seedling:
			plot.Seedling = true
			plot.ID = o.ID
			plot.Name = o.ID
			plot.Progress = o.Progress
		case garden.Plant:
			plot.ID = o.ID
			plot.Name = o.DisplayName()
			plot.Type = o.Type
		default:
			plot.Empty = true
		}
		out.Garden = append(out.Garden, plot)
	}

	for i, plant := range v.Storage() {
		slot := i + 1
		sp := primary.StoredPlant{Slot: slot, Locked: slot > v.StorageCapacity(), Empty: plant == nil}
		if plant != nil {
			sp.ID = plant.ID
			sp.Name = plant.DisplayName()
			sp.Type = plant.Type
		}
		out.Storage = append(out.Storage, sp)
	}

	for _, id := range v.InventoryIDs() {
		out.Inventory = append(out.Inventory, primary.InventoryLine{ID: id, Name: cat.ItemName(id), Quantity: v.Quantity(id)})
	}

	discovered := toSet(v.DiscoveredFusions())
	out.Discovered = len(discovered)
	out.AlmanacTotal = s.resolver.AlmanacTotal(discovered)
	return out
}

func (s *GardenServiceImpl) backgroundInfo(v garden.View, bg catalog.Background) primary.BackgroundInfo {
	cat := s.catalog()
	info := primary.BackgroundInfo{ID: bg.ID, Name: bg.Name, ImageFile: bg.ImageFile}
	for _, id := range bg.RequiredFusions {
		name := cat.DisplayName(id)
		info.Required = append(info.Required, name)
		if !v.HasDiscovered(id) {
			info.Missing = append(info.Missing, name)
		}
	}
	return info
}

func plotPlant(p *garden.Profile, slot int) (garden.Plant, bool) {
	if slot < 1 || slot > garden.GardenSize {
		return garden.Plant{}, false
	}
	plant, ok := p.Garden[slot-1].(garden.Plant)
	return plant, ok
}

// uniqueSlots drops repeats and sorts ascending.
func uniqueSlots(slots []int) []int {
	seen := make(map[int]bool, len(slots))
	out := make([]int, 0, len(slots))
	for _, s := range slots {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Ints(out)
	return out
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func bullets(lines []string) string {
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- ")
		b.WriteString(l)
	}
	return b.String()
}

// Ensure GardenServiceImpl implements the interface.
var _ primary.GardenService = (*GardenServiceImpl)(nil)
