package garden

import (
	"strings"
	"time"
)

const (
	DefaultGrowthDurationMinutes = 240
	DefaultPennyIntervalHours    = 1
)

// Shop names used by stock effects and the shop_stock table.
const (
	ShopPenny = "penny"
	ShopDave  = "dave"
	ShopRux   = "rux"
)

// StockItem is one line of a generated shop rotation.
type StockItem struct {
	ID    string
	Name  string
	Price int
	Stock int
	Type  string
}

// Global is the single shared game state next to the profiles.
type Global struct {
	GrowthDurationMinutes int
	PennyIntervalHours    int
	// LimitedStock counts remaining units of limited Rux items.
	LimitedStock     map[string]int
	PennyStock       []StockItem
	DaveStock        []StockItem
	LastPennyRefresh time.Time
	LastDaveRefresh  time.Time
}

// NewGlobal returns the global state with default settings.
func NewGlobal() *Global {
	return &Global{
		GrowthDurationMinutes: DefaultGrowthDurationMinutes,
		PennyIntervalHours:    DefaultPennyIntervalHours,
		LimitedStock:          make(map[string]int),
	}
}

// Repair restores defaults on state read from storage.
func (g *Global) Repair() {
	if g.GrowthDurationMinutes <= 0 {
		g.GrowthDurationMinutes = DefaultGrowthDurationMinutes
	}
	if g.PennyIntervalHours <= 0 || 24%g.PennyIntervalHours != 0 {
		g.PennyIntervalHours = DefaultPennyIntervalHours
	}
	if g.LimitedStock == nil {
		g.LimitedStock = make(map[string]int)
	}
}

// Clone returns a deep copy.
func (g *Global) Clone() *Global {
	c := *g
	c.LimitedStock = make(map[string]int, len(g.LimitedStock))
	for k, v := range g.LimitedStock {
		c.LimitedStock[k] = v
	}
	c.PennyStock = append([]StockItem(nil), g.PennyStock...)
	c.DaveStock = append([]StockItem(nil), g.DaveStock...)
	return &c
}

// Rotation returns the stock list of a rotating shop.
func (g *Global) Rotation(shop string) []StockItem {
	switch shop {
	case ShopPenny:
		return g.PennyStock
	case ShopDave:
		return g.DaveStock
	}
	return nil
}

// FindStock looks up a rotation line by id, ignoring case.
func (g *Global) FindStock(shop, id string) (StockItem, bool) {
	for _, item := range g.Rotation(shop) {
		if strings.EqualFold(item.ID, id) {
			return item, true
		}
	}
	return StockItem{}, false
}

// AdjustStock changes remaining stock by delta. It returns false, leaving the
// stock untouched, when the shop has no such item or the result would be
// negative.
func (g *Global) AdjustStock(shop, id string, delta int) bool {
	if shop == ShopRux {
		if g.LimitedStock == nil {
			g.LimitedStock = make(map[string]int)
		}
		next := g.LimitedStock[id] + delta
		if next < 0 {
			return false
		}
		g.LimitedStock[id] = next
		return true
	}
	rotation := g.Rotation(shop)
	for i := range rotation {
		if rotation[i].ID == id {
			next := rotation[i].Stock + delta
			if next < 0 {
				return false
			}
			rotation[i].Stock = next
			return true
		}
	}
	return false
}
