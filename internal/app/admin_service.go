package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/example/garden/internal/core/effects"
	"github.com/example/garden/internal/core/fusion"
	"github.com/example/garden/internal/core/garden"
	"github.com/example/garden/internal/core/shop"
	"github.com/example/garden/internal/ports/primary"
	"github.com/example/garden/internal/ports/secondary"
)

// AdminServiceImpl implements the AdminService interface. Every change is
// recorded as an "admin" event against the affected user.
type AdminServiceImpl struct {
	store    *ProfileStore
	executor EffectExecutor
	resolver *fusion.Resolver
	events   secondary.EventLog
	warnings []string
	logger   *slog.Logger
}

// NewAdminService creates a new AdminService. warnings are the integrity
// problems reported when the catalog was built.
func NewAdminService(
	store *ProfileStore,
	executor EffectExecutor,
	resolver *fusion.Resolver,
	events secondary.EventLog,
	warnings []string,
	logger *slog.Logger,
) *AdminServiceImpl {
	return &AdminServiceImpl{
		store:    store,
		executor: executor,
		resolver: resolver,
		events:   events,
		warnings: warnings,
		logger:   logger,
	}
}

// SetBalance sets a user's balance.
func (s *AdminServiceImpl) SetBalance(ctx context.Context, userID string, amount int) error {
	if amount < 0 {
		return garden.Violationf("Balance cannot be negative.")
	}
	err := s.store.Transact(ctx, func(tx *Tx) error {
		tx.Profile(userID).SetBalance(amount)
		return nil
	})
	if err != nil {
		return err
	}
	s.audit(ctx, userID, fmt.Sprintf("balance set to %d", amount))
	return nil
}

// SetMastery sets "sun" or "time" mastery.
func (s *AdminServiceImpl) SetMastery(ctx context.Context, userID, kind string, level int) error {
	if level < 0 {
		return garden.Violationf("Mastery level cannot be negative.")
	}
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind != "sun" && kind != "time" {
		return garden.Violationf("Unknown mastery '%s'. Use sun or time.", kind)
	}
	err := s.store.Transact(ctx, func(tx *Tx) error {
		p := tx.Profile(userID)
		if kind == "sun" {
			p.SunMastery = level
		} else {
			p.TimeMastery = level
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.audit(ctx, userID, fmt.Sprintf("%s mastery set to %d", kind, level))
	return nil
}

// AddItem grants item units.
func (s *AdminServiceImpl) AddItem(ctx context.Context, userID, itemID string, quantity int) error {
	if quantity <= 0 {
		return garden.Violationf("Quantity must be positive.")
	}
	return s.executor.Execute(ctx, []effects.Effect{
		effects.InventoryEffect{UserID: userID, ItemID: itemID, Delta: quantity},
		s.event(userID, fmt.Sprintf("granted %s x%d", itemID, quantity)),
	})
}

// RemoveItem takes item units away. Taking more than is held fails.
func (s *AdminServiceImpl) RemoveItem(ctx context.Context, userID, itemID string, quantity int) error {
	if quantity <= 0 {
		return garden.Violationf("Quantity must be positive.")
	}
	if held := s.store.View(userID).Quantity(itemID); held < quantity {
		return garden.Violationf("%s only has %d of %s.", userID, held, itemID)
	}
	return s.executor.Execute(ctx, []effects.Effect{
		effects.InventoryEffect{UserID: userID, ItemID: itemID, Delta: -quantity},
		s.event(userID, fmt.Sprintf("removed %s x%d", itemID, quantity)),
	})
}

// AddPlant puts a mature plant into a plot, replacing whatever is there.
func (s *AdminServiceImpl) AddPlant(ctx context.Context, req primary.AddPlantRequest) (*primary.AddPlantResponse, error) {
	if err := garden.CheckPlotRange(req.Slot).Error(); err != nil {
		return nil, err
	}
	plant, err := s.plantFor(req)
	if err != nil {
		return nil, err
	}

	err = s.executor.Execute(ctx, []effects.Effect{
		effects.PlotEffect{UserID: req.UserID, Slot: req.Slot, Occupant: plant},
		s.event(req.UserID, fmt.Sprintf("placed %s in plot %d", plant.DisplayName(), req.Slot)),
	})
	if err != nil {
		return nil, err
	}
	return &primary.AddPlantResponse{ID: plant.ID, Name: plant.Name, Type: plant.Type, Slot: req.Slot}, nil
}

// UnlockBackground grants a background.
func (s *AdminServiceImpl) UnlockBackground(ctx context.Context, userID, backgroundID string) error {
	cat := s.resolver.Catalog()
	bg, ok := cat.FindBackground(backgroundID)
	if !ok {
		return notFound("Background", backgroundID, cat.SuggestBackgrounds(backgroundID))
	}
	return s.executor.Execute(ctx, []effects.Effect{
		effects.BackgroundEffect{UserID: userID, BackgroundID: bg.ID},
		s.event(userID, fmt.Sprintf("unlocked background %s", bg.ID)),
	})
}

// SetGrowthDuration sets the minutes a seedling needs to mature.
func (s *AdminServiceImpl) SetGrowthDuration(ctx context.Context, minutes int) error {
	if minutes <= 0 {
		return garden.Violationf("Growth duration must be a positive number of minutes.")
	}
	err := s.store.Transact(ctx, func(tx *Tx) error {
		tx.Global().GrowthDurationMinutes = minutes
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("growth duration changed", "minutes", minutes)
	return nil
}

// SetPennyInterval sets Penny's refresh interval; it must divide 24.
func (s *AdminServiceImpl) SetPennyInterval(ctx context.Context, hours int) error {
	if hours <= 0 || 24%hours != 0 {
		return garden.Violationf("Penny's interval must divide 24 evenly (1, 2, 3, 4, 6, 8, 12 or 24 hours).")
	}
	err := s.store.Transact(ctx, func(tx *Tx) error {
		tx.Global().PennyIntervalHours = hours
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("penny interval changed", "hours", hours)
	return nil
}

// RestockLimited adds units to a limited Rux item and returns the new stock.
func (s *AdminServiceImpl) RestockLimited(ctx context.Context, itemID string, amount int) (int, error) {
	if amount <= 0 {
		return 0, garden.Violationf("Restock amount must be positive.")
	}
	cat := s.resolver.Catalog()
	item, ok := shop.FindRuxItem(cat, strings.TrimSpace(itemID))
	if !ok {
		return 0, notFound("Item", itemID, cat.SuggestItems(itemID))
	}
	if item.Category != shop.CategoryLimited {
		return 0, garden.Violationf("%s is not a limited item.", item.Name)
	}

	var stock int
	err := s.store.Transact(ctx, func(tx *Tx) error {
		g := tx.Global()
		if _, seeded := g.LimitedStock[item.ID]; !seeded {
			g.LimitedStock[item.ID] = item.Stock
		}
		g.AdjustStock(garden.ShopRux, item.ID, amount)
		stock = g.LimitedStock[item.ID]
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("limited item restocked", "item", item.ID, "added", amount, "stock", stock)
	return stock, nil
}

type stateDump struct {
	Profiles []*secondary.ProfileRecord `json:"profiles"`
	Global   *secondary.GlobalRecord    `json:"global"`
}

// DumpState renders the whole in-memory state as indented JSON.
func (s *AdminServiceImpl) DumpState(ctx context.Context) ([]byte, error) {
	profiles, global := s.store.Snapshot()
	dump := stateDump{Global: globalToRecord(global)}
	for _, p := range profiles {
		dump.Profiles = append(dump.Profiles, profileToRecord(p))
	}
	out, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return out, nil
}

// CatalogReport lists catalog integrity problems.
func (s *AdminServiceImpl) CatalogReport(ctx context.Context) (*primary.CatalogReport, error) {
	cat := s.resolver.Catalog()
	report := &primary.CatalogReport{
		BasePlants: len(cat.BasePlants()),
		Seedlings:  len(cat.Seedlings()),
		Fusions:    len(cat.Fusions()),
		Materials:  len(cat.MaterialIDs()),
	}
	report.Problems = append(report.Problems, s.warnings...)
	report.Problems = append(report.Problems, s.resolver.IntegrityErrors()...)
	return report, nil
}

// Helper methods

func (s *AdminServiceImpl) plantFor(req primary.AddPlantRequest) (garden.Plant, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return garden.Plant{}, garden.Violationf("A plant name is required.")
	}
	cat := s.resolver.Catalog()

	if req.Custom {
		if strings.TrimSpace(req.Tier) == "" {
			return garden.Plant{}, garden.Violationf("Custom plants need a tier.")
		}
		return garden.Plant{ID: query, Name: query, Type: req.Tier}, nil
	}
	if p, ok := cat.FindBasePlant(query); ok {
		return garden.Plant{ID: p.ID, Name: p.Name, Type: p.Type}, nil
	}
	if f, ok := cat.FindFusion(query); ok {
		return garden.Plant{ID: f.ID, Name: f.Name, Type: f.Type}, nil
	}
	return garden.Plant{}, notFound("Plant", query, cat.SuggestFusions(query))
}

func (s *AdminServiceImpl) event(userID, msg string) effects.EventEffect {
	return effects.EventEffect{UserID: userID, Kind: "admin", Message: msg}
}

// audit records an admin event for changes made outside the executor.
func (s *AdminServiceImpl) audit(ctx context.Context, userID, msg string) {
	s.logger.Info("admin change", "user", userID, "change", msg)
	if s.events == nil {
		return
	}
	if err := s.events.Record(ctx, userID, "admin", msg); err != nil {
		s.logger.Error("failed to record event", "kind", "admin", "user", userID, "error", err)
	}
}

func notFound(what, query string, hints []string) error {
	msg := fmt.Sprintf("%s '%s' could not be found.", what, query)
	if len(hints) > 0 {
		msg += fmt.Sprintf(" Did you mean: %s?", strings.Join(hints, ", "))
	}
	return garden.Violationf("%s", msg)
}

// Ensure AdminServiceImpl implements the interface.
var _ primary.AdminService = (*AdminServiceImpl)(nil)
