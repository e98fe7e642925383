package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/example/garden/internal/core/sales"
	"github.com/example/garden/internal/ports/primary"
)

// TradeAdapter translates trade commands to TradeService calls.
type TradeAdapter struct {
	service  primary.TradeService
	currency string
	out      io.Writer
}

// NewTradeAdapter creates a new TradeAdapter.
func NewTradeAdapter(service primary.TradeService, currency string, out io.Writer) *TradeAdapter {
	return &TradeAdapter{service: service, currency: currency, out: out}
}

// OfferPlants proposes sun for plants in the recipient's plots.
func (a *TradeAdapter) OfferPlants(ctx context.Context, senderID, recipientID string, sun int, plots []int) error {
	p, err := a.service.ProposePlants(ctx, primary.ProposePlantsRequest{
		SenderID:    senderID,
		RecipientID: recipientID,
		Sun:         sun,
		Plots:       plots,
	})
	if err != nil {
		return err
	}
	a.printProposal(p)
	return nil
}

// OfferItems proposes sun for materials in the recipient's inventory.
func (a *TradeAdapter) OfferItems(ctx context.Context, senderID, recipientID string, sun int, items []string) error {
	p, err := a.service.ProposeItems(ctx, primary.ProposeItemsRequest{
		SenderID:    senderID,
		RecipientID: recipientID,
		Sun:         sun,
		Items:       items,
	})
	if err != nil {
		return err
	}
	a.printProposal(p)
	return nil
}

func (a *TradeAdapter) printProposal(p *primary.TradeProposal) {
	fmt.Fprintf(a.out, "%s Proposed trade %s: %s %s for %s\n",
		okMark, p.ID, sales.Commas(p.Sun), a.currency, strings.Join(p.Assets, ", "))
	fmt.Fprintf(a.out, "  %s must accept within %s\n", p.RecipientID, time.Until(p.ExpiresAt).Round(time.Second))
}

// Accept executes a proposal.
func (a *TradeAdapter) Accept(ctx context.Context, userID, tradeID string) error {
	res, err := a.service.Accept(ctx, userID, tradeID)
	if err != nil {
		return err
	}
	a.printResult(res)
	return nil
}

// Decline closes a proposal.
func (a *TradeAdapter) Decline(ctx context.Context, userID, tradeID string) error {
	res, err := a.service.Decline(ctx, userID, tradeID)
	if err != nil {
		return err
	}
	a.printResult(res)
	return nil
}

func (a *TradeAdapter) printResult(res *primary.TradeResult) {
	mark := okMark
	if res.Action != "accepted" {
		mark = errMark
	}
	fmt.Fprintf(a.out, "%s Trade %s %s: %s\n", mark, res.ID, res.Action, res.Message)
}

// Pending lists open proposals.
func (a *TradeAdapter) Pending(ctx context.Context, userID string) error {
	proposals, err := a.service.Pending(ctx, userID)
	if err != nil {
		return err
	}
	if len(proposals) == 0 {
		fmt.Fprintln(a.out, "No pending trades")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-38s %-12s %-12s %10s %s\n", "ID", "FROM", "TO", strings.ToUpper(a.currency), "ASSETS")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, p := range proposals {
		fmt.Fprintf(a.out, "%-38s %-12s %-12s %10s %s\n", p.ID, p.SenderID, p.RecipientID, sales.Commas(p.Sun), strings.Join(p.Assets, ", "))
	}
	fmt.Fprintln(a.out)
	return nil
}
