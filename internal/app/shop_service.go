package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/example/garden/internal/core/catalog"
	"github.com/example/garden/internal/core/fusion"
	"github.com/example/garden/internal/core/garden"
	"github.com/example/garden/internal/core/shop"
	"github.com/example/garden/internal/ports/primary"
)

const ruxPageSize = 5

// ShopServiceImpl implements the ShopService interface.
type ShopServiceImpl struct {
	store    *ProfileStore
	executor EffectExecutor
	cat      *catalog.Catalog
	locks    *LockTable
	settings Settings
	now      func() time.Time
	logger   *slog.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewShopService creates a new ShopService with injected dependencies.
func NewShopService(
	store *ProfileStore,
	executor EffectExecutor,
	cat *catalog.Catalog,
	locks *LockTable,
	settings Settings,
	rng *rand.Rand,
	logger *slog.Logger,
) *ShopServiceImpl {
	return &ShopServiceImpl{
		store:    store,
		executor: executor,
		cat:      cat,
		locks:    locks,
		settings: settings,
		now:      time.Now,
		logger:   logger,
		rng:      rng,
	}
}

// RuxShop lists the Bazaar as the user sees it.
func (s *ShopServiceImpl) RuxShop(ctx context.Context, userID string, page int) (*primary.RuxShopPage, error) {
	if err := s.seedLimitedStock(ctx); err != nil {
		return nil, err
	}
	v := s.store.View(userID)
	limited := s.store.Global().LimitedStock

	items := shop.RuxListing(s.cat, v, limited)
	start, end, clamped, totalPages := fusion.Page(len(items), ruxPageSize, page)

	out := &primary.RuxShopPage{Balance: v.Balance(), Page: clamped, TotalPages: totalPages, Total: len(items)}
	for _, item := range items[start:end] {
		line := primary.ShopItem{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			Price:       item.Cost,
			Type:        item.Type,
			Limited:     item.Category == shop.CategoryLimited,
			Owned:       v.HasItem(item.ID),
		}
		if line.Limited {
			line.Stock = limited[item.ID]
		}
		out.Items = append(out.Items, line)
	}
	return out, nil
}

// BuyRux buys a permanent upgrade or one unit of a limited item.
func (s *ShopServiceImpl) BuyRux(ctx context.Context, userID, itemID string) (*primary.PurchaseResponse, error) {
	if err := s.locks.Check(userID); err != nil {
		return nil, err
	}
	if err := s.seedLimitedStock(ctx); err != nil {
		return nil, err
	}

	v := s.store.View(userID)
	item, found := shop.FindRuxItem(s.cat, strings.TrimSpace(itemID))
	guard := shop.CanBuyRux(shop.RuxPurchaseContext{
		Query:        itemID,
		Item:         item,
		Found:        found,
		Owned:        found && v.HasItem(item.ID),
		Balance:      v.Balance(),
		Missing:      s.requirementNames(shop.MissingRequirements(v, item)),
		LimitedStock: s.store.Global().LimitedStock[item.ID],
		Currency:     s.settings.Currency,
	})
	if err := guard.Error(); err != nil {
		return nil, s.withSuggestions(err, found, s.cat.SuggestItems(itemID))
	}

	if err := s.executor.Execute(ctx, shop.PlanRuxPurchase(userID, item)); err != nil {
		return nil, err
	}

	resp := &primary.PurchaseResponse{
		ItemID:  item.ID,
		Name:    item.Name,
		Price:   item.Cost,
		Balance: s.store.View(userID).Balance(),
		Limited: item.Category == shop.CategoryLimited,
	}
	if resp.Limited {
		resp.StockLeft = s.store.Global().LimitedStock[item.ID]
	}
	return resp, nil
}

// PennyShop lists Penny's current rotation.
func (s *ShopServiceImpl) PennyShop(ctx context.Context) (*primary.RotationShop, error) {
	if _, err := s.RefreshDue(ctx); err != nil {
		return nil, err
	}
	g := s.store.Global()
	sched := shop.PennySchedule(g.PennyIntervalHours)
	return &primary.RotationShop{
		Items:       stockLines(g.PennyStock),
		NextRefresh: shop.NextRefresh(sched, s.now(), s.settings.location()),
	}, nil
}

// BuyPenny buys the single unit of a Penny item.
func (s *ShopServiceImpl) BuyPenny(ctx context.Context, userID, itemID string) (*primary.PurchaseResponse, error) {
	if err := s.locks.Check(userID); err != nil {
		return nil, err
	}
	if _, err := s.RefreshDue(ctx); err != nil {
		return nil, err
	}

	v := s.store.View(userID)
	item, found := s.store.Global().FindStock(garden.ShopPenny, strings.TrimSpace(itemID))
	guard := shop.CanBuyPenny(shop.PennyPurchaseContext{
		Query:    itemID,
		Item:     item,
		Found:    found,
		Balance:  v.Balance(),
		Currency: s.settings.Currency,
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}

	if err := s.executor.Execute(ctx, shop.PlanPennyPurchase(userID, item)); err != nil {
		return nil, err
	}
	return &primary.PurchaseResponse{
		ItemID:  item.ID,
		Name:    item.Name,
		Price:   item.Price,
		Balance: s.store.View(userID).Balance(),
	}, nil
}

// DaveShop lists Dave's current rotation.
func (s *ShopServiceImpl) DaveShop(ctx context.Context) (*primary.RotationShop, error) {
	if _, err := s.RefreshDue(ctx); err != nil {
		return nil, err
	}
	return &primary.RotationShop{
		Items:       stockLines(s.store.Global().DaveStock),
		NextRefresh: shop.NextRefresh(shop.DaveSchedule(), s.now(), s.settings.location()),
	}, nil
}

// BuyDave buys one unit from Dave. Plants and seedlings are placed in the
// first free unlocked plot; materials go to the inventory.
func (s *ShopServiceImpl) BuyDave(ctx context.Context, userID, itemID, channelID string) (*primary.PurchaseResponse, error) {
	if err := s.locks.Check(userID); err != nil {
		return nil, err
	}
	if _, err := s.RefreshDue(ctx); err != nil {
		return nil, err
	}

	v := s.store.View(userID)
	item, found := s.store.Global().FindStock(garden.ShopDave, strings.TrimSpace(itemID))

	freePlot := 0
	if free := v.FreeUnlockedPlots(); len(free) > 0 {
		freePlot = free[0]
	}
	plant, knownPlant := s.cat.BasePlant(item.ID)
	_, knownSeed := s.cat.Seedling(item.ID)
	_, knownMat := s.cat.MaterialName(item.ID)

	guard := shop.CanBuyDave(shop.DavePurchaseContext{
		Query:      itemID,
		Item:       item,
		Found:      found,
		Balance:    v.Balance(),
		FreePlot:   freePlot,
		KnownPlant: knownPlant,
		KnownSeed:  knownSeed,
		KnownMat:   knownMat,
		Currency:   s.settings.Currency,
	})
	if err := guard.Error(); err != nil {
		if found && strings.HasPrefix(guard.Reason, "Definition for") {
			s.logger.Error("dave stock references an unknown definition", "item", item.ID, "type", item.Type)
		}
		return nil, err
	}

	if err := s.executor.Execute(ctx, shop.PlanDavePurchase(userID, item, freePlot, plant, channelID)); err != nil {
		return nil, err
	}

	resp := &primary.PurchaseResponse{
		ItemID:  item.ID,
		Name:    item.Name,
		Price:   item.Price,
		Balance: s.store.View(userID).Balance(),
	}
	if item.Type == shop.TypePlant || item.Type == shop.TypeSeedling {
		resp.Plot = freePlot
	}
	if left, ok := s.store.Global().FindStock(garden.ShopDave, item.ID); ok {
		resp.StockLeft = left.Stock
	}
	return resp, nil
}

// errNotDue aborts a refresh transaction that lost the race to another caller.
var errNotDue = errors.New("no rotation due")

// RefreshDue regenerates every rotation whose boundary has passed. The
// boundary is checked again inside the transaction so two callers at the
// same boundary refresh a rotation only once.
func (s *ShopServiceImpl) RefreshDue(ctx context.Context) (*primary.RefreshReport, error) {
	now := s.now()
	loc := s.settings.location()

	if !anyDue(s.due(s.store.Global(), now, loc)) {
		return &primary.RefreshReport{}, nil
	}

	var report primary.RefreshReport
	err := s.store.Transact(ctx, func(tx *Tx) error {
		g := tx.Global()
		report = s.due(g, now, loc)
		if !anyDue(report) {
			return errNotDue
		}
		if report.Penny {
			s.refreshPenny(g, now)
		}
		if report.Dave {
			s.refreshDave(g, now)
		}
		return nil
	})
	if errors.Is(err, errNotDue) {
		return &primary.RefreshReport{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to refresh shops: %w", err)
	}

	s.logger.Info("shops refreshed", "penny", report.Penny, "dave", report.Dave)
	return &report, nil
}

func anyDue(r primary.RefreshReport) bool { return r.Penny || r.Dave }

func (s *ShopServiceImpl) due(g *garden.Global, now time.Time, loc *time.Location) primary.RefreshReport {
	return primary.RefreshReport{
		Penny: shop.Due(shop.PennySchedule(g.PennyIntervalHours), g.LastPennyRefresh, now, loc),
		Dave:  shop.Due(shop.DaveSchedule(), g.LastDaveRefresh, now, loc),
	}
}

// ForceRefresh regenerates one rotation now.
func (s *ShopServiceImpl) ForceRefresh(ctx context.Context, shopName string) error {
	now := s.now()
	return s.store.Transact(ctx, func(tx *Tx) error {
		switch strings.ToLower(shopName) {
		case garden.ShopPenny:
			s.refreshPenny(tx.Global(), now)
		case garden.ShopDave:
			s.refreshDave(tx.Global(), now)
		default:
			return garden.Violationf("Unknown shop '%s'. Use penny or dave.", shopName)
		}
		s.logger.Info("shop refresh forced", "shop", shopName)
		return nil
	})
}

// Helper methods

func (s *ShopServiceImpl) refreshPenny(g *garden.Global, now time.Time) {
	g.PennyStock = shop.PennyStock(s.cat)
	g.LastPennyRefresh = now
}

func (s *ShopServiceImpl) refreshDave(g *garden.Global, now time.Time) {
	s.rngMu.Lock()
	g.DaveStock = shop.DaveStock(s.cat, s.rng, shop.DaveOptions{
		PlantPrice:   s.settings.DavePlantPrice,
		RandomPlants: s.settings.DaveRandomPlants,
	})
	s.rngMu.Unlock()
	g.LastDaveRefresh = now
}

// seedLimitedStock gives limited Rux items without a counter their catalog stock.
func (s *ShopServiceImpl) seedLimitedStock(ctx context.Context) error {
	if len(shop.InitialLimitedStock(s.cat, s.store.Global().LimitedStock)) == 0 {
		return nil
	}
	return s.store.Transact(ctx, func(tx *Tx) error {
		g := tx.Global()
		for id, n := range shop.InitialLimitedStock(s.cat, g.LimitedStock) {
			g.LimitedStock[id] = n
		}
		return nil
	})
}

func (s *ShopServiceImpl) requirementNames(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.cat.ItemName(id))
	}
	return out
}

func (s *ShopServiceImpl) withSuggestions(err error, found bool, hints []string) error {
	if found || len(hints) == 0 {
		return err
	}
	return garden.Violationf("%s Did you mean: %s?", err.Error(), strings.Join(hints, ", "))
}

func stockLines(stock []garden.StockItem) []primary.ShopItem {
	out := make([]primary.ShopItem, 0, len(stock))
	for _, item := range stock {
		out = append(out, primary.ShopItem{
			ID:    item.ID,
			Name:  item.Name,
			Price: item.Price,
			Stock: item.Stock,
			Type:  item.Type,
		})
	}
	return out
}

// Ensure ShopServiceImpl implements the interface.
var _ primary.ShopService = (*ShopServiceImpl)(nil)
