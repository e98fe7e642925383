package primary

import (
	"context"
	"time"
)

// ShopService defines the primary port for the three shops.
type ShopService interface {
	// RuxShop lists the Bazaar as the user sees it, 5 items per page.
	RuxShop(ctx context.Context, userID string, page int) (*RuxShopPage, error)

	// BuyRux buys a permanent upgrade or a limited item.
	BuyRux(ctx context.Context, userID, itemID string) (*PurchaseResponse, error)

	// PennyShop lists Penny's current rotation, refreshing it first if due.
	PennyShop(ctx context.Context) (*RotationShop, error)

	// BuyPenny buys the single unit of a Penny item.
	BuyPenny(ctx context.Context, userID, itemID string) (*PurchaseResponse, error)

	// DaveShop lists Dave's current rotation, refreshing it first if due.
	DaveShop(ctx context.Context) (*RotationShop, error)

	// BuyDave buys one unit from Dave. Plants and seedlings go to the first
	// free unlocked plot.
	BuyDave(ctx context.Context, userID, itemID, channelID string) (*PurchaseResponse, error)

	// RefreshDue regenerates every rotation whose boundary has passed.
	RefreshDue(ctx context.Context) (*RefreshReport, error)

	// ForceRefresh regenerates one rotation ("penny" or "dave") now.
	ForceRefresh(ctx context.Context, shop string) error
}

// ShopItem is one line of a shop listing.
type ShopItem struct {
	ID          string
	Name        string
	Description string
	Price       int
	Stock       int
	Type        string
	Limited     bool
	Owned       bool
}

// RuxShopPage is one page of the Bazaar.
type RuxShopPage struct {
	Items      []ShopItem
	Balance    int
	Page       int
	TotalPages int
	Total      int
}

// RotationShop is a rotating shop's current stock.
type RotationShop struct {
	Items       []ShopItem
	NextRefresh time.Time
}

// PurchaseResponse reports a successful purchase.
type PurchaseResponse struct {
	ItemID    string
	Name      string
	Price     int
	Balance   int
	Plot      int // plot the plant or seedling went to, 0 otherwise
	Limited   bool
	StockLeft int
}

// RefreshReport lists which rotations were regenerated.
type RefreshReport struct {
	Penny bool
	Dave  bool
}
