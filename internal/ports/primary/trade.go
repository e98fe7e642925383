package primary

import (
	"context"
	"time"
)

// TradeService defines the primary port for user-to-user trades.
type TradeService interface {
	// ProposePlants offers sun for plants in the recipient's plots.
	ProposePlants(ctx context.Context, req ProposePlantsRequest) (*TradeProposal, error)

	// ProposeItems offers sun for materials in the recipient's inventory.
	ProposeItems(ctx context.Context, req ProposeItemsRequest) (*TradeProposal, error)

	// Accept executes a proposal. Only the recipient may accept.
	Accept(ctx context.Context, userID, tradeID string) (*TradeResult, error)

	// Decline closes a proposal without executing it. Either party may decline.
	Decline(ctx context.Context, userID, tradeID string) (*TradeResult, error)

	// Pending lists open proposals involving the user.
	Pending(ctx context.Context, userID string) ([]*TradeProposal, error)
}

// ProposePlantsRequest contains parameters for a plant trade.
type ProposePlantsRequest struct {
	SenderID    string
	RecipientID string
	Sun         int
	Plots       []int
}

// ProposeItemsRequest contains parameters for a material trade.
type ProposeItemsRequest struct {
	SenderID    string
	RecipientID string
	Sun         int
	Items       []string
}

// TradeProposal is an open proposal.
type TradeProposal struct {
	ID          string
	Kind        string
	SenderID    string
	RecipientID string
	Sun         int
	Assets      []string
	ExpiresAt   time.Time
}

// TradeResult reports how a proposal closed.
type TradeResult struct {
	ID      string
	Action  string // accepted, declined, cancelled, failed, expired
	Message string
}
