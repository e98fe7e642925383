package app

import (
	"time"

	"github.com/example/garden/internal/core/garden"
	"github.com/example/garden/internal/ports/secondary"
)

func profileToRecord(p *garden.Profile) *secondary.ProfileRecord {
	rec := &secondary.ProfileRecord{
		UserID:              p.UserID,
		Balance:             p.Balance,
		SunMastery:          p.SunMastery,
		TimeMastery:         p.TimeMastery,
		LastDaily:           p.LastDaily,
		ActiveBackground:    p.ActiveBackground,
		Inventory:           make(map[string]int, len(p.Inventory)),
		DiscoveredFusions:   append([]string(nil), p.DiscoveredFusions...),
		UnlockedBackgrounds: append([]string(nil), p.UnlockedBackgrounds...),
	}
	for i, occ := range p.Garden {
		switch o := occ.(type) {
		case garden.Seedling:
			rec.Garden = append(rec.Garden, secondary.SlotRecord{
				Slot: i + 1, Kind: secondary.SlotKindSeedling, ItemID: o.ID,
				Progress: o.Progress, NotificationChannelID: o.NotificationChannelID,
			})
		case garden.Plant:
			rec.Garden = append(rec.Garden, secondary.SlotRecord{
				Slot: i + 1, Kind: secondary.SlotKindPlant, ItemID: o.ID, Name: o.Name, Type: o.Type,
			})
		}
	}
	for i, plant := range p.Storage {
		if plant != nil {
			rec.Storage = append(rec.Storage, secondary.SlotRecord{
				Slot: i + 1, Kind: secondary.SlotKindPlant, ItemID: plant.ID, Name: plant.Name, Type: plant.Type,
			})
		}
	}
	for id, qty := range p.Inventory {
		if qty > 0 {
			rec.Inventory[id] = qty
		}
	}
	return rec
}

// recordToProfile rebuilds a profile. Slots outside the fixed arrays are
// dropped and the result is repaired.
func recordToProfile(rec *secondary.ProfileRecord) *garden.Profile {
	p := garden.NewProfile(rec.UserID)
	p.Balance = rec.Balance
	p.SunMastery = rec.SunMastery
	p.TimeMastery = rec.TimeMastery
	p.LastDaily = rec.LastDaily
	p.ActiveBackground = rec.ActiveBackground
	for _, s := range rec.Garden {
		if s.Slot < 1 || s.Slot > garden.GardenSize {
			continue
		}
		switch s.Kind {
		case secondary.SlotKindSeedling:
			p.Garden[s.Slot-1] = garden.Seedling{ID: s.ItemID, Progress: s.Progress, NotificationChannelID: s.NotificationChannelID}
		case secondary.SlotKindPlant:
			p.Garden[s.Slot-1] = garden.Plant{ID: s.ItemID, Name: s.Name, Type: s.Type}
		}
	}
	for _, s := range rec.Storage {
		if s.Slot < 1 || s.Slot > garden.StorageSize {
			continue
		}
		p.Storage[s.Slot-1] = &garden.Plant{ID: s.ItemID, Name: s.Name, Type: s.Type}
	}
	for id, qty := range rec.Inventory {
		p.Inventory[id] = qty
	}
	p.DiscoveredFusions = append(p.DiscoveredFusions, rec.DiscoveredFusions...)
	p.UnlockedBackgrounds = append(p.UnlockedBackgrounds, rec.UnlockedBackgrounds...)
	p.Repair()
	return p
}

func globalToRecord(g *garden.Global) *secondary.GlobalRecord {
	rec := &secondary.GlobalRecord{
		GrowthDurationMinutes: g.GrowthDurationMinutes,
		PennyIntervalHours:    g.PennyIntervalHours,
		LimitedStock:          make(map[string]int, len(g.LimitedStock)),
		PennyStock:            stockToRecords(g.PennyStock),
		DaveStock:             stockToRecords(g.DaveStock),
		LastPennyRefresh:      formatTime(g.LastPennyRefresh),
		LastDaveRefresh:       formatTime(g.LastDaveRefresh),
	}
	for id, n := range g.LimitedStock {
		rec.LimitedStock[id] = n
	}
	return rec
}

func recordToGlobal(rec *secondary.GlobalRecord) *garden.Global {
	g := garden.NewGlobal()
	if rec == nil {
		return g
	}
	g.GrowthDurationMinutes = rec.GrowthDurationMinutes
	g.PennyIntervalHours = rec.PennyIntervalHours
	for id, n := range rec.LimitedStock {
		g.LimitedStock[id] = n
	}
	g.PennyStock = recordsToStock(rec.PennyStock)
	g.DaveStock = recordsToStock(rec.DaveStock)
	g.LastPennyRefresh = parseTime(rec.LastPennyRefresh)
	g.LastDaveRefresh = parseTime(rec.LastDaveRefresh)
	g.Repair()
	return g
}

func stockToRecords(items []garden.StockItem) []secondary.StockRecord {
	var out []secondary.StockRecord
	for _, it := range items {
		out = append(out, secondary.StockRecord{ItemID: it.ID, Name: it.Name, Price: it.Price, Stock: it.Stock, Type: it.Type})
	}
	return out
}

func recordsToStock(recs []secondary.StockRecord) []garden.StockItem {
	var out []garden.StockItem
	for _, r := range recs {
		out = append(out, garden.StockItem{ID: r.ItemID, Name: r.Name, Price: r.Price, Stock: r.Stock, Type: r.Type})
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
