package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/example/garden/internal/core/garden"
)

func TestShopService_RuxShop(t *testing.T) {
	env := newTestEnv(t)
	env.seed("alice", func(p *garden.Profile) { p.Balance = 5000 })

	page, err := env.shopService().RuxShop(context.Background(), "alice", 1)
	if err != nil {
		t.Fatalf("RuxShop() error = %v", err)
	}
	var ids []string
	for _, item := range page.Items {
		ids = append(ids, item.ID)
	}
	want := []string{"golden_can", garden.ItemStorageShed, "plot_7"}
	if len(ids) != len(want) {
		t.Fatalf("items = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("items[%d] = %s, want %s", i, ids[i], want[i])
		}
	}
	if !page.Items[0].Limited || page.Items[0].Stock != 2 {
		t.Errorf("golden can = %+v, want limited with 2 left", page.Items[0])
	}
	if page.Balance != 5000 || page.TotalPages != 1 {
		t.Errorf("page = %+v", page)
	}
}

func TestShopService_BuyRux(t *testing.T) {
	env := newTestEnv(t)
	env.seed("alice", func(p *garden.Profile) { p.Balance = 1200 })
	svc := env.shopService()
	ctx := context.Background()

	resp, err := svc.BuyRux(ctx, "alice", "PLOT_7")
	if err != nil {
		t.Fatalf("BuyRux() error = %v", err)
	}
	if resp.ItemID != "plot_7" || resp.Balance != 200 {
		t.Errorf("response = %+v", resp)
	}
	if !env.store.View("alice").HasItem("plot_7") {
		t.Error("plot_7 should be owned")
	}

	tests := []struct {
		name string
		item string
		want string
	}{
		{name: "already owned", item: "plot_7", want: "You already own the Plot 7."},
		{name: "too expensive", item: "storage_shed", want: "To get the Storage Shed you need 500 sun. You only have 200 sun."},
		{name: "unknown with hint", item: "plot_9", want: "Rux has never heard of 'plot_9'. Did you mean: plot_7, plot_8?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.BuyRux(ctx, "alice", tt.item)
			wantViolation(t, err, tt.want)
		})
	}
}

func TestShopService_BuyRuxRequirements(t *testing.T) {
	env := newTestEnv(t)
	env.seed("alice", func(p *garden.Profile) { p.Balance = 5000 })

	_, err := env.shopService().BuyRux(context.Background(), "alice", "plot_8")
	wantViolation(t, err, "You need these first: Plot 7.")
}

func TestShopService_LimitedStock(t *testing.T) {
	env := newTestEnv(t)
	env.seed("alice", func(p *garden.Profile) { p.Balance = 1000 })
	svc := env.shopService()
	ctx := context.Background()

	for want := 1; want >= 0; want-- {
		resp, err := svc.BuyRux(ctx, "alice", "golden_can")
		if err != nil {
			t.Fatalf("BuyRux() error = %v", err)
		}
		if !resp.Limited || resp.StockLeft != want {
			t.Errorf("stock left = %d, want %d", resp.StockLeft, want)
		}
	}

	_, err := svc.BuyRux(ctx, "alice", "golden_can")
	wantViolation(t, err, "The Golden Can is sold out.")

	if got := env.store.View("alice").Quantity("golden_can"); got != 2 {
		t.Errorf("golden cans = %d, want 2", got)
	}
	if got := env.store.View("alice").Balance(); got != 800 {
		t.Errorf("balance = %d, want 800", got)
	}
}

func TestShopService_PennyShop(t *testing.T) {
	env := newTestEnv(t)
	env.seed("alice", func(p *garden.Profile) { p.Balance = 120 })
	svc := env.shopService()
	ctx := context.Background()

	listing, err := svc.PennyShop(ctx)
	if err != nil {
		t.Fatalf("PennyShop() error = %v", err)
	}
	if len(listing.Items) != 1 || listing.Items[0].ID != "dust" || listing.Items[0].Stock != 1 {
		t.Fatalf("items = %+v, want one dust", listing.Items)
	}
	if want := time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC); !listing.NextRefresh.Equal(want) {
		t.Errorf("next refresh = %v, want %v", listing.NextRefresh, want)
	}

	if _, err := svc.BuyPenny(ctx, "alice", "DUST"); err != nil {
		t.Fatalf("BuyPenny() error = %v", err)
	}
	v := env.store.View("alice")
	if v.Balance() != 70 || v.Quantity("dust") != 1 {
		t.Errorf("balance %d dust %d, want 70 and 1", v.Balance(), v.Quantity("dust"))
	}

	_, err = svc.BuyPenny(ctx, "alice", "dust")
	wantViolation(t, err, "not currently available in Penny's Treasures")
}

func TestShopService_RefreshDue(t *testing.T) {
	env := newTestEnv(t)
	svc := env.shopService()
	ctx := context.Background()

	report, err := svc.RefreshDue(ctx)
	if err != nil {
		t.Fatalf("RefreshDue() error = %v", err)
	}
	if !report.Penny || !report.Dave {
		t.Errorf("first refresh = %+v, want both", report)
	}

	env.now = env.now.Add(10 * time.Minute)
	report, err = svc.RefreshDue(ctx)
	if err != nil {
		t.Fatalf("RefreshDue() error = %v", err)
	}
	if report.Penny || report.Dave {
		t.Errorf("refresh inside the hour = %+v, want none", report)
	}

	env.now = time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC)
	report, err = svc.RefreshDue(ctx)
	if err != nil {
		t.Fatalf("RefreshDue() error = %v", err)
	}
	if !report.Penny || !report.Dave {
		t.Errorf("refresh at the boundary = %+v, want both", report)
	}
	if got := env.store.Global().LastDaveRefresh; !got.Equal(env.now) {
		t.Errorf("last dave refresh = %v, want %v", got, env.now)
	}
}

func TestShopService_RefreshDueOncePerBoundary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	if _, err := env.shopService().RefreshDue(ctx); err != nil {
		t.Fatalf("RefreshDue() error = %v", err)
	}
	env.now = time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC)

	// The scheduler and a console command each hold a service.
	callers := []*ShopServiceImpl{env.shopService(), env.shopService(), env.shopService(), env.shopService()}
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		penny int
		dave  int
	)
	for _, svc := range callers {
		wg.Add(1)
		go func(svc *ShopServiceImpl) {
			defer wg.Done()
			report, err := svc.RefreshDue(ctx)
			if err != nil {
				t.Errorf("RefreshDue() error = %v", err)
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if report.Penny {
				penny++
			}
			if report.Dave {
				dave++
			}
		}(svc)
	}
	wg.Wait()

	if penny != 1 || dave != 1 {
		t.Errorf("refreshes at one boundary: penny %d dave %d, want 1 each", penny, dave)
	}
}

func TestShopService_BuyDave(t *testing.T) {
	env := newTestEnv(t)
	env.seed("alice", func(p *garden.Profile) { p.Balance = 10000 })
	svc := env.shopService()
	ctx := context.Background()

	listing, err := svc.DaveShop(ctx)
	if err != nil {
		t.Fatalf("DaveShop() error = %v", err)
	}
	if len(listing.Items) != 4 {
		t.Fatalf("items = %+v, want dust, two seedlings and Rose", listing.Items)
	}

	resp, err := svc.BuyDave(ctx, "alice", "dust", "")
	if err != nil {
		t.Fatalf("BuyDave(dust) error = %v", err)
	}
	if resp.StockLeft != 2 || resp.Plot != 0 {
		t.Errorf("dust response = %+v", resp)
	}

	resp, err = svc.BuyDave(ctx, "alice", "Seedling", "chan-1")
	if err != nil {
		t.Fatalf("BuyDave(Seedling) error = %v", err)
	}
	if resp.Plot != 1 {
		t.Errorf("seedling plot = %d, want 1", resp.Plot)
	}
	s, ok := env.store.View("alice").Plot(1).(garden.Seedling)
	if !ok || s.ID != "Seedling" || s.NotificationChannelID != "chan-1" {
		t.Errorf("plot 1 = %#v, want seedling bound to chan-1", env.store.View("alice").Plot(1))
	}

	resp, err = svc.BuyDave(ctx, "alice", "rose", "")
	if err != nil {
		t.Fatalf("BuyDave(Rose) error = %v", err)
	}
	if p, ok := env.store.View("alice").Plot(resp.Plot).(garden.Plant); !ok || p.ID != "Rose" {
		t.Errorf("plot %d = %#v, want Rose", resp.Plot, env.store.View("alice").Plot(resp.Plot))
	}

	_, err = svc.BuyDave(ctx, "alice", "rose", "")
	wantViolation(t, err, "All the Rose are gone.")

	_, err = svc.BuyDave(ctx, "alice", "tulip", "")
	wantViolation(t, err, "Dave doesn't have any 'tulip'.")
}

func TestShopService_BuyDaveGardenFull(t *testing.T) {
	env := newTestEnv(t)
	env.seed("alice", func(p *garden.Profile) {
		p.Balance = 10000
		for i := range p.Garden {
			p.Garden[i] = basePlant("A")
		}
	})

	_, err := env.shopService().BuyDave(context.Background(), "alice", "Seedling", "")
	wantViolation(t, err, "Your garden is full.")
}

func TestShopService_ForceRefresh(t *testing.T) {
	env := newTestEnv(t)
	svc := env.shopService()
	ctx := context.Background()

	if err := svc.ForceRefresh(ctx, "Penny"); err != nil {
		t.Fatalf("ForceRefresh(penny) error = %v", err)
	}
	if len(env.store.Global().PennyStock) != 1 {
		t.Error("penny stock should be regenerated")
	}
	wantViolation(t, svc.ForceRefresh(ctx, "rux"), "Unknown shop 'rux'.")
}

func TestShopService_RefusedWhileLocked(t *testing.T) {
	env := newTestEnv(t)
	env.seed("alice", func(p *garden.Profile) { p.Balance = 5000 })
	if _, err := env.locks.Acquire(LockFusion, map[string]string{"alice": "Finish your fusion first."}); err != nil {
		t.Fatal(err)
	}

	_, err := env.shopService().BuyRux(context.Background(), "alice", "plot_7")
	wantViolation(t, err, "Finish your fusion first.")
}
