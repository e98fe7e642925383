package shop

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/garden/internal/core/catalog"
	"github.com/example/garden/internal/core/effects"
	"github.com/example/garden/internal/core/garden"
	"github.com/example/garden/internal/core/sales"
)

func deny(format string, args ...any) garden.GuardResult {
	return garden.GuardResult{Allowed: false, Reason: fmt.Sprintf(format, args...)}
}

func allow() garden.GuardResult { return garden.GuardResult{Allowed: true} }

// RuxListing is the Bazaar as one user sees it, sorted by category then cost.
// Owned permanent upgrades, items with unmet requirements and sold-out
// limited items are hidden.
func RuxListing(cat *catalog.Catalog, v garden.View, limited map[string]int) []catalog.ShopItemDefinition {
	var out []catalog.ShopItemDefinition
	for _, item := range cat.RuxItems() {
		isLimited := item.Category == CategoryLimited
		owned := v.HasItem(item.ID)
		if owned && !isLimited {
			continue
		}
		if len(MissingRequirements(v, item)) > 0 {
			continue
		}
		if isLimited && limited[item.ID] <= 0 && !owned {
			continue
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := out[i].Category, out[j].Category
		if ci == "" {
			ci = "zzz"
		}
		if cj == "" {
			cj = "zzz"
		}
		if ci != cj {
			return ci < cj
		}
		return out[i].Cost < out[j].Cost
	})
	return out
}

// MissingRequirements lists prerequisite item ids the user does not hold.
func MissingRequirements(v garden.View, item catalog.ShopItemDefinition) []string {
	var missing []string
	for _, req := range item.Requirements {
		if !v.HasItem(req) {
			missing = append(missing, req)
		}
	}
	return missing
}

// FindRuxItem resolves an item id ignoring case.
func FindRuxItem(cat *catalog.Catalog, query string) (catalog.ShopItemDefinition, bool) {
	for _, item := range cat.RuxItems() {
		if strings.EqualFold(item.ID, query) {
			return item, true
		}
	}
	return catalog.ShopItemDefinition{}, false
}

// RuxPurchaseContext provides context for Bazaar purchase guards.
type RuxPurchaseContext struct {
	Query        string
	Item         catalog.ShopItemDefinition
	Found        bool
	Owned        bool
	Balance      int
	Missing      []string
	LimitedStock int
	Currency     string
}

// CanBuyRux evaluates a Bazaar purchase.
// Rules:
// - item must exist
// - permanent upgrades are bought once
// - balance must cover the cost
// - all requirements must be owned
// - limited items need global stock
func CanBuyRux(ctx RuxPurchaseContext) garden.GuardResult {
	if !ctx.Found {
		return deny("Rux has never heard of '%s'.", ctx.Query)
	}
	limited := ctx.Item.Category == CategoryLimited
	if !limited && ctx.Owned {
		return deny("You already own the %s.", ctx.Item.Name)
	}
	if ctx.Balance < ctx.Item.Cost {
		return deny("To get the %s you need %s %s. You only have %s %s.",
			ctx.Item.Name, sales.Commas(ctx.Item.Cost), ctx.Currency, sales.Commas(ctx.Balance), ctx.Currency)
	}
	if len(ctx.Missing) > 0 {
		return deny("You can't buy the %s yet. You need these first: %s.", ctx.Item.Name, strings.Join(ctx.Missing, ", "))
	}
	if limited && ctx.LimitedStock <= 0 {
		return deny("The %s is sold out.", ctx.Item.Name)
	}
	return allow()
}

// PlanRuxPurchase debits the user and delivers the item.
func PlanRuxPurchase(userID string, item catalog.ShopItemDefinition) []effects.Effect {
	effs := []effects.Effect{
		effects.BalanceEffect{UserID: userID, Delta: -item.Cost},
		effects.InventoryEffect{UserID: userID, ItemID: item.ID, Delta: 1},
	}
	if item.Category == CategoryLimited {
		effs = append(effs, effects.StockEffect{Shop: garden.ShopRux, ItemID: item.ID, Delta: -1})
	}
	return append(effs, effects.EventEffect{
		UserID: userID, Kind: "purchase", Message: fmt.Sprintf("rux %s for %d", item.ID, item.Cost),
	})
}

// PennyPurchaseContext provides context for Penny purchase guards.
type PennyPurchaseContext struct {
	Query    string
	Item     garden.StockItem
	Found    bool
	Balance  int
	Currency string
}

// CanBuyPenny evaluates a purchase from Penny's rotation.
// Rules:
// - item must be in the current rotation with stock left
// - balance must cover the price
func CanBuyPenny(ctx PennyPurchaseContext) garden.GuardResult {
	if !ctx.Found || ctx.Item.Stock <= 0 {
		return deny("The item '%s' is not currently available in Penny's Treasures.", ctx.Query)
	}
	if ctx.Balance < ctx.Item.Price {
		return deny("You need %s %s for this treasure, but your balance is only %s.",
			sales.Commas(ctx.Item.Price), ctx.Currency, sales.Commas(ctx.Balance))
	}
	return allow()
}

// PlanPennyPurchase debits the user, delivers the item and zeroes its stock.
func PlanPennyPurchase(userID string, item garden.StockItem) []effects.Effect {
	return []effects.Effect{
		effects.BalanceEffect{UserID: userID, Delta: -item.Price},
		effects.InventoryEffect{UserID: userID, ItemID: item.ID, Delta: 1},
		effects.StockEffect{Shop: garden.ShopPenny, ItemID: item.ID, Delta: -item.Stock},
		effects.EventEffect{UserID: userID, Kind: "purchase", Message: fmt.Sprintf("penny %s for %d", item.ID, item.Price)},
	}
}

// DavePurchaseContext provides context for Dave purchase guards.
type DavePurchaseContext struct {
	Query      string
	Item       garden.StockItem
	Found      bool
	Balance    int
	FreePlot   int // first free unlocked plot, 0 if none
	KnownPlant bool
	KnownSeed  bool
	KnownMat   bool
	Currency   string
}

// CanBuyDave evaluates a purchase from Dave's rotation.
// Rules:
// - item must be in the rotation and in stock
// - balance must cover the price
// - plants and seedlings need a free unlocked plot
// - the item must resolve to a catalog definition of its type
func CanBuyDave(ctx DavePurchaseContext) garden.GuardResult {
	if !ctx.Found {
		return deny("Dave doesn't have any '%s'.", ctx.Query)
	}
	if ctx.Item.Stock <= 0 {
		return deny("All the %s are gone.", ctx.Item.Name)
	}
	if ctx.Balance < ctx.Item.Price {
		return deny("You need %s %s for this, you only have %s.",
			sales.Commas(ctx.Item.Price), ctx.Currency, sales.Commas(ctx.Balance))
	}
	switch ctx.Item.Type {
	case TypePlant, TypeSeedling:
		if ctx.FreePlot == 0 {
			return deny("Your garden is full. Make some space first.")
		}
		if ctx.Item.Type == TypePlant && !ctx.KnownPlant {
			return deny("Definition for plant '%s' is missing.", ctx.Item.ID)
		}
		if ctx.Item.Type == TypeSeedling && !ctx.KnownSeed {
			return deny("Definition for seedling '%s' is missing.", ctx.Item.ID)
		}
	case catalog.TypeMaterial:
		if !ctx.KnownMat {
			return deny("Definition for material '%s' is missing.", ctx.Item.ID)
		}
	default:
		return deny("%s has unknown item type '%s'.", ctx.Item.Name, ctx.Item.Type)
	}
	return allow()
}

// PlanDavePurchase debits the user, delivers the item and takes one unit
// from Dave's stock. Plants and seedlings go to plot; plant is the resolved
// base plant for TypePlant lines.
func PlanDavePurchase(userID string, item garden.StockItem, plot int, plant catalog.BasePlant, channelID string) []effects.Effect {
	effs := []effects.Effect{effects.BalanceEffect{UserID: userID, Delta: -item.Price}}
	switch item.Type {
	case TypePlant:
		effs = append(effs, effects.PlotEffect{UserID: userID, Slot: plot,
			Occupant: garden.Plant{ID: plant.ID, Name: plant.Name, Type: plant.Type}})
	case TypeSeedling:
		effs = append(effs, effects.PlotEffect{UserID: userID, Slot: plot,
			Occupant: garden.Seedling{ID: item.ID, NotificationChannelID: channelID}})
	default:
		effs = append(effs, effects.InventoryEffect{UserID: userID, ItemID: item.ID, Delta: 1})
	}
	return append(effs,
		effects.StockEffect{Shop: garden.ShopDave, ItemID: item.ID, Delta: -1},
		effects.EventEffect{UserID: userID, Kind: "purchase", Message: fmt.Sprintf("dave %s for %d", item.ID, item.Price)},
	)
}
