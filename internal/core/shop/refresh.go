// Package shop contains rotation schedules, stock generation and purchase
// rules for the three shops. Guards are pure functions; planners return
// effects for the app layer to apply.
package shop

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/example/garden/internal/core/catalog"
	"github.com/example/garden/internal/core/garden"
)

const (
	// CategoryLimited marks Rux items that can be bought repeatedly while
	// global stock lasts.
	CategoryLimited = "limited"
	// CategoryShopPlant marks base plants Dave always carries.
	CategoryShopPlant = "shop"

	TypePlant    = "plant"
	TypeSeedling = "seedling"

	DefaultDavePlantPrice   = 5000
	DefaultDaveRandomPlants = 4
)

// NormalizeInterval returns hours when it is a positive divisor of 24, else 1.
func NormalizeInterval(hours int) int {
	if hours <= 0 || 24%hours != 0 {
		return garden.DefaultPennyIntervalHours
	}
	return hours
}

// PennySchedule fires at every hour that is a multiple of the interval.
func PennySchedule(intervalHours int) cron.Schedule {
	spec := fmt.Sprintf("0 */%d * * *", NormalizeInterval(intervalHours))
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		panic(fmt.Sprintf("invalid penny schedule %q: %v", spec, err))
	}
	return sched
}

// DaveSchedule fires at the top of every hour.
func DaveSchedule() cron.Schedule {
	sched, err := cron.ParseStandard("0 * * * *")
	if err != nil {
		panic(err)
	}
	return sched
}

// Due reports whether a shop last refreshed at last needs refreshing at now.
// A shop that never refreshed is always due. The schedule is evaluated in
// loc so boundaries follow the game clock.
func Due(sched cron.Schedule, last, now time.Time, loc *time.Location) bool {
	if last.IsZero() {
		return true
	}
	return !now.Before(NextRefresh(sched, last, loc))
}

// NextRefresh is the first boundary strictly after t.
func NextRefresh(sched cron.Schedule, t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	return sched.Next(t)
}

// PennyStock is every Penny item, one unit each at catalog cost.
func PennyStock(cat *catalog.Catalog) []garden.StockItem {
	var stock []garden.StockItem
	for _, item := range cat.PennyItems() {
		stock = append(stock, garden.StockItem{
			ID:    item.ID,
			Name:  item.Name,
			Price: item.Cost,
			Stock: 1,
			Type:  item.Type,
		})
	}
	return stock
}

// DaveOptions tunes Dave's plant offers.
type DaveOptions struct {
	PlantPrice   int
	RandomPlants int
}

// DaveStock builds Dave's rotation. Order:
// - Dave's own items with their catalog stock
// - every seedling
// - base plants in the "shop" category
// - up to RandomPlants random shop-eligible base plants
//
// No id appears twice.
func DaveStock(cat *catalog.Catalog, rng *rand.Rand, opts DaveOptions) []garden.StockItem {
	if opts.PlantPrice <= 0 {
		opts.PlantPrice = DefaultDavePlantPrice
	}
	if opts.RandomPlants < 0 {
		opts.RandomPlants = 0
	}

	var stock []garden.StockItem
	inStock := make(map[string]bool)
	add := func(item garden.StockItem) {
		stock = append(stock, item)
		inStock[item.ID] = true
	}

	for _, item := range cat.DaveItems() {
		add(garden.StockItem{ID: item.ID, Name: item.Name, Price: item.Cost, Stock: item.Stock, Type: item.Type})
	}
	for _, s := range cat.Seedlings() {
		add(garden.StockItem{ID: s.ID, Name: s.ID, Price: s.Cost, Stock: s.Stock, Type: TypeSeedling})
	}
	for _, p := range cat.BasePlants() {
		if p.Category == CategoryShopPlant && !inStock[p.ID] {
			add(garden.StockItem{ID: p.ID, Name: p.Name, Price: opts.PlantPrice, Stock: 1, Type: TypePlant})
		}
	}

	var eligible []catalog.BasePlant
	for _, p := range cat.BasePlants() {
		if p.Shop && !inStock[p.ID] {
			eligible = append(eligible, p)
		}
	}
	rng.Shuffle(len(eligible), func(i, j int) { eligible[i], eligible[j] = eligible[j], eligible[i] })
	for _, p := range eligible[:min(len(eligible), opts.RandomPlants)] {
		add(garden.StockItem{ID: p.ID, Name: p.Name, Price: opts.PlantPrice, Stock: 1, Type: TypePlant})
	}
	return stock
}

// InitialLimitedStock seeds counters for limited Rux items that have none yet.
func InitialLimitedStock(cat *catalog.Catalog, existing map[string]int) map[string]int {
	seeded := make(map[string]int)
	for _, item := range cat.RuxItems() {
		if item.Category != CategoryLimited {
			continue
		}
		if _, ok := existing[item.ID]; ok {
			continue
		}
		seeded[item.ID] = item.Stock
	}
	return seeded
}
