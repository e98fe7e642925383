package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/example/garden/internal/core/sales"
	"github.com/example/garden/internal/ports/primary"
)

// ShopAdapter translates shop commands to ShopService calls.
type ShopAdapter struct {
	service  primary.ShopService
	currency string
	out      io.Writer
}

// NewShopAdapter creates a new ShopAdapter.
func NewShopAdapter(service primary.ShopService, currency string, out io.Writer) *ShopAdapter {
	return &ShopAdapter{service: service, currency: currency, out: out}
}

// Rux shows one page of Rux's Bazaar.
func (a *ShopAdapter) Rux(ctx context.Context, userID string, page int) error {
	shop, err := a.service.RuxShop(ctx, userID, page)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\nRux's Bazaar  (you have %s %s)\n", sales.Commas(shop.Balance), a.currency)
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, item := range shop.Items {
		status := ""
		switch {
		case item.Owned:
			status = okMark + " owned"
		case item.Limited && item.Stock == 0:
			status = warn.Sprint("sold out")
		case item.Limited:
			status = warn.Sprintf("%d left", item.Stock)
		}
		fmt.Fprintf(a.out, "%-16s %-24s %10s %s\n", item.ID, item.Name, sales.Commas(item.Price), status)
		if item.Description != "" {
			fmt.Fprintf(a.out, "  %s\n", dim.Sprint(item.Description))
		}
	}
	fmt.Fprintln(a.out, dim.Sprintf("page %d/%d", shop.Page, shop.TotalPages))
	return nil
}

// Penny shows Penny's Treasures.
func (a *ShopAdapter) Penny(ctx context.Context) error {
	shop, err := a.service.PennyShop(ctx)
	if err != nil {
		return err
	}
	a.printRotation("Penny's Treasures", shop)
	return nil
}

// Dave shows Dave's shop.
func (a *ShopAdapter) Dave(ctx context.Context) error {
	shop, err := a.service.DaveShop(ctx)
	if err != nil {
		return err
	}
	a.printRotation("Dave's Shop", shop)
	return nil
}

func (a *ShopAdapter) printRotation(title string, shop *primary.RotationShop) {
	fmt.Fprintf(a.out, "\n%s\n", title)
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	if len(shop.Items) == 0 {
		fmt.Fprintln(a.out, "Nothing for sale")
	}
	for _, item := range shop.Items {
		stock := fmt.Sprintf("x%d", item.Stock)
		if item.Stock == 0 {
			stock = warn.Sprint("sold out")
		}
		fmt.Fprintf(a.out, "%-16s %-24s %10s %s\n", item.ID, item.Name, sales.Commas(item.Price), stock)
	}
	fmt.Fprintln(a.out, dim.Sprintf("next refresh %s", shop.NextRefresh.Format(time.RFC1123)))
}

// BuyRux buys from Rux.
func (a *ShopAdapter) BuyRux(ctx context.Context, userID, itemID string) error {
	resp, err := a.service.BuyRux(ctx, userID, itemID)
	if err != nil {
		return err
	}
	a.printPurchase(resp)
	return nil
}

// BuyPenny buys from Penny.
func (a *ShopAdapter) BuyPenny(ctx context.Context, userID, itemID string) error {
	resp, err := a.service.BuyPenny(ctx, userID, itemID)
	if err != nil {
		return err
	}
	a.printPurchase(resp)
	return nil
}

// BuyDave buys from Dave.
func (a *ShopAdapter) BuyDave(ctx context.Context, userID, itemID, channelID string) error {
	resp, err := a.service.BuyDave(ctx, userID, itemID, channelID)
	if err != nil {
		return err
	}
	a.printPurchase(resp)
	return nil
}

func (a *ShopAdapter) printPurchase(resp *primary.PurchaseResponse) {
	fmt.Fprintf(a.out, "%s Bought %s for %s %s. Balance: %s %s\n",
		okMark, resp.Name, sales.Commas(resp.Price), a.currency, sales.Commas(resp.Balance), a.currency)
	if resp.Plot > 0 {
		fmt.Fprintf(a.out, "  Placed in plot %d\n", resp.Plot)
	}
	if resp.Limited {
		fmt.Fprintf(a.out, "  %d left in stock\n", resp.StockLeft)
	}
}

// Refresh forces a rotation refresh.
func (a *ShopAdapter) Refresh(ctx context.Context, shop string) error {
	if err := a.service.ForceRefresh(ctx, shop); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Refreshed %s\n", okMark, shop)
	return nil
}
