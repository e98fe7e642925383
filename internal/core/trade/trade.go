// Package trade contains the two-phase exchange protocol. Proposals snapshot
// what the sender asks for; resolution re-validates the snapshot against live
// profiles and returns the effects to apply.
package trade

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/example/garden/internal/core/catalog"
	"github.com/example/garden/internal/core/effects"
	"github.com/example/garden/internal/core/garden"
	"github.com/example/garden/internal/core/sales"
)

// Kind distinguishes plant-for-sun from material-for-sun trades.
type Kind string

const (
	KindPlant Kind = "plant"
	KindItem  Kind = "item"
)

// DefaultTimeout is how long a proposal stays open.
const DefaultTimeout = 60 * time.Second

// PlantSnapshot is a recipient plot as it was at proposal time.
type PlantSnapshot struct {
	Slot  int
	Plant garden.Plant
}

// ItemSnapshot is a requested material quantity.
type ItemSnapshot struct {
	ID    string
	Name  string
	Count int
}

// Proposal is a pending trade. The sender pays Sun and receives the assets.
type Proposal struct {
	ID          string
	Kind        Kind
	SenderID    string
	RecipientID string
	Sun         int
	Plants      []PlantSnapshot
	Items       []ItemSnapshot
	CreatedAt   time.Time
}

// Involves reports whether userID is either party.
func (p Proposal) Involves(userID string) bool {
	return p.SenderID == userID || p.RecipientID == userID
}

func deny(format string, args ...any) garden.GuardResult {
	return garden.GuardResult{Allowed: false, Reason: fmt.Sprintf(format, args...)}
}

// ProposeContext provides context for the checks shared by both trade kinds.
type ProposeContext struct {
	SenderID        string
	RecipientID     string
	RecipientLocked bool
	Sun             int
	SenderBalance   int
	Currency        string
}

// CanPropose evaluates whether a trade may be proposed.
// Rules:
// - no self trades
// - recipient must not be engaged in another locked operation
// - sun must be non-negative and covered by the sender's balance
func CanPropose(ctx ProposeContext) garden.GuardResult {
	if ctx.SenderID == ctx.RecipientID {
		return deny("You cannot trade with yourself.")
	}
	if ctx.RecipientLocked {
		return deny("User %s is busy with another operation and cannot trade right now.", ctx.RecipientID)
	}
	if ctx.Sun < 0 {
		return deny("The sun offered must be a non-negative amount.")
	}
	if ctx.SenderBalance < ctx.Sun {
		return deny("Your offer of %s %s exceeds your balance of %s.",
			sales.Commas(ctx.Sun), ctx.Currency, sales.Commas(ctx.SenderBalance))
	}
	return garden.GuardResult{Allowed: true}
}

// SnapshotPlants validates the requested recipient plots and records the
// plants in them. Duplicate plots are collapsed; the result is ordered by plot.
func SnapshotPlants(sender, recipient garden.View, slots []int) ([]PlantSnapshot, error) {
	if len(slots) == 0 {
		return nil, garden.Violationf("Specify at least one plot to trade for.")
	}
	unique := make(map[int]bool)
	var ordered []int
	for _, s := range slots {
		if !unique[s] {
			unique[s] = true
			ordered = append(ordered, s)
		}
	}
	sort.Ints(ordered)

	var snaps []PlantSnapshot
	for _, slot := range ordered {
		if slot < 1 || slot > garden.GardenSize {
			return nil, garden.Violationf("Plot %d is an invalid plot number.", slot)
		}
		if !recipient.IsSlotUnlocked(slot) {
			return nil, garden.Violationf("Plot %d is locked for %s.", slot, recipient.UserID())
		}
		plant, ok := recipient.Plot(slot).(garden.Plant)
		if !ok {
			return nil, garden.Violationf("The item in %s's plot %d is not a mature, tradable plant.", recipient.UserID(), slot)
		}
		snaps = append(snaps, PlantSnapshot{Slot: slot, Plant: plant})
	}

	if free := len(sender.FreeUnlockedPlots()); free < len(snaps) {
		return nil, garden.Violationf("You need %d empty garden plot(s) to receive these plants, but you only have %d.", len(snaps), free)
	}
	return snaps, nil
}

// SnapshotItems resolves requested materials (by id or name, any case) and
// checks the recipient holds them. Every problem is reported.
func SnapshotItems(cat *catalog.Catalog, recipient garden.View, inputs []string) ([]ItemSnapshot, []string) {
	if len(inputs) == 0 {
		return nil, []string{"Specify the material(s) you wish to acquire."}
	}
	counts := make(map[string]int)
	var order []string
	var errs []string
	for _, in := range inputs {
		id, ok := cat.ResolveMaterial(in)
		if !ok {
			errs = append(errs, fmt.Sprintf("Item ID '%s' is not a recognized tradable Material.", in))
			continue
		}
		if counts[id] == 0 {
			order = append(order, id)
		}
		counts[id]++
	}
	if len(errs) > 0 {
		return nil, errs
	}

	var snaps []ItemSnapshot
	for _, id := range order {
		name, _ := cat.MaterialName(id)
		have := recipient.Quantity(id)
		if have < counts[id] {
			errs = append(errs, fmt.Sprintf("Recipient has %d of %s, but you requested %d.", have, name, counts[id]))
			continue
		}
		snaps = append(snaps, ItemSnapshot{ID: id, Name: name, Count: counts[id]})
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return snaps, nil
}

// Outcome is a successful resolution.
type Outcome struct {
	Message string
	Effects []effects.Effect
}

// Resolve re-validates a proposal against live profiles and plans the
// exchange. A Violation means the state drifted and nothing may change.
func Resolve(p Proposal, sender, recipient garden.View, currency string) (Outcome, error) {
	switch p.Kind {
	case KindPlant:
		return resolvePlants(p, sender, recipient, currency)
	case KindItem:
		return resolveItems(p, sender, recipient, currency)
	}
	return Outcome{}, fmt.Errorf("unknown trade kind %q", p.Kind)
}

func balanceEffects(p Proposal) []effects.Effect {
	return []effects.Effect{
		effects.BalanceEffect{UserID: p.SenderID, Delta: -p.Sun},
		effects.BalanceEffect{UserID: p.RecipientID, Delta: p.Sun},
	}
}

func resolvePlants(p Proposal, sender, recipient garden.View, currency string) (Outcome, error) {
	if sender.Balance() < p.Sun {
		return Outcome{}, garden.Violationf("Trade failed: Sender no longer has enough %s.", currency)
	}
	free := sender.FreeUnlockedPlots()
	if len(free) < len(p.Plants) {
		return Outcome{}, garden.Violationf("Trade failed: Sender no longer has enough free garden space.")
	}
	for _, snap := range p.Plants {
		current, ok := recipient.Plot(snap.Slot).(garden.Plant)
		if !ok || current.ID != snap.Plant.ID {
			return Outcome{}, garden.Violationf("Trade failed: The plant in recipient's plot %d has changed.", snap.Slot)
		}
	}

	effs := balanceEffects(p)
	var names []string
	for i, snap := range p.Plants {
		moved := recipient.Plot(snap.Slot).(garden.Plant)
		effs = append(effs,
			effects.PlotEffect{UserID: p.RecipientID, Slot: snap.Slot},
			effects.PlotEffect{UserID: p.SenderID, Slot: free[i], Occupant: moved},
		)
		names = append(names, moved.DisplayName())
	}
	msg := fmt.Sprintf("Exchange of %s %s for %s was successful.", sales.Commas(p.Sun), currency, strings.Join(names, ", "))
	effs = append(effs, effects.EventEffect{UserID: p.SenderID, Kind: "trade", Message: fmt.Sprintf("%s with %s: %s", p.ID, p.RecipientID, msg)})
	return Outcome{Message: msg, Effects: effs}, nil
}

func resolveItems(p Proposal, sender, recipient garden.View, currency string) (Outcome, error) {
	if sender.Balance() < p.Sun {
		return Outcome{}, garden.Violationf("Trade failed: Sender no longer has enough %s.", currency)
	}
	for _, item := range p.Items {
		if recipient.Quantity(item.ID) < item.Count {
			return Outcome{}, garden.Violationf("Trade failed: Recipient no longer has enough %s.", item.Name)
		}
	}

	effs := balanceEffects(p)
	var parts []string
	for _, item := range p.Items {
		effs = append(effs,
			effects.InventoryEffect{UserID: p.RecipientID, ItemID: item.ID, Delta: -item.Count},
			effects.InventoryEffect{UserID: p.SenderID, ItemID: item.ID, Delta: item.Count},
		)
		parts = append(parts, fmt.Sprintf("%s x%d", item.Name, item.Count))
	}
	msg := fmt.Sprintf("Exchange of %s %s for %s was successful.", sales.Commas(p.Sun), currency, strings.Join(parts, ", "))
	effs = append(effs, effects.EventEffect{UserID: p.SenderID, Kind: "trade", Message: fmt.Sprintf("%s with %s: %s", p.ID, p.RecipientID, msg)})
	return Outcome{Message: msg, Effects: effs}, nil
}

// DeclineAction names what a party did when closing a proposal without
// accepting it: the sender cancels, the recipient declines.
func DeclineAction(p Proposal, userID string) (string, error) {
	switch userID {
	case p.SenderID:
		return "cancelled", nil
	case p.RecipientID:
		return "declined", nil
	}
	return "", garden.Violationf("This proposal does not involve you.")
}

// CanAccept evaluates whether userID may accept the proposal.
// Rules:
// - only the recipient accepts
func CanAccept(p Proposal, userID string) garden.GuardResult {
	if p.RecipientID != userID {
		return deny("Only the recipient of proposal %s can accept it.", p.ID)
	}
	return garden.GuardResult{Allowed: true}
}
