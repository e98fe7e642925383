package app

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/garden/internal/core/catalog"
	"github.com/example/garden/internal/core/effects"
	"github.com/example/garden/internal/core/garden"
	"github.com/example/garden/internal/core/trade"
	"github.com/example/garden/internal/ports/primary"
	"github.com/example/garden/internal/ports/secondary"
)

// Trade result actions.
const (
	TradeAccepted  = "accepted"
	TradeDeclined  = "declined"
	TradeCancelled = "cancelled"
	TradeFailed    = "failed"
	TradeExpired   = "expired"
)

type pendingTrade struct {
	proposal trade.Proposal
	release  func()
	timer    *time.Timer
}

// TradeServiceImpl implements the TradeService interface. Open proposals
// live in memory; both parties hold a trade lock until the proposal closes.
type TradeServiceImpl struct {
	store    *ProfileStore
	executor EffectExecutor
	cat      *catalog.Catalog
	locks    *LockTable
	notifier secondary.Notifier
	settings Settings
	now      func() time.Time
	logger   *slog.Logger

	mu      sync.Mutex
	pending map[string]*pendingTrade
}

// NewTradeService creates a new TradeService with injected dependencies.
func NewTradeService(
	store *ProfileStore,
	executor EffectExecutor,
	cat *catalog.Catalog,
	locks *LockTable,
	notifier secondary.Notifier,
	settings Settings,
	logger *slog.Logger,
) *TradeServiceImpl {
	return &TradeServiceImpl{
		store:    store,
		executor: executor,
		cat:      cat,
		locks:    locks,
		notifier: notifier,
		settings: settings,
		now:      time.Now,
		logger:   logger,
		pending:  make(map[string]*pendingTrade),
	}
}

// ProposePlants offers sun for plants in the recipient's plots.
func (s *TradeServiceImpl) ProposePlants(ctx context.Context, req primary.ProposePlantsRequest) (*primary.TradeProposal, error) {
	if err := s.checkPropose(req.SenderID, req.RecipientID, req.Sun); err != nil {
		return nil, err
	}
	snaps, err := trade.SnapshotPlants(s.store.View(req.SenderID), s.store.View(req.RecipientID), req.Plots)
	if err != nil {
		return nil, err
	}
	return s.open(ctx, trade.Proposal{
		Kind:        trade.KindPlant,
		SenderID:    req.SenderID,
		RecipientID: req.RecipientID,
		Sun:         req.Sun,
		Plants:      snaps,
	})
}

// ProposeItems offers sun for materials in the recipient's inventory.
func (s *TradeServiceImpl) ProposeItems(ctx context.Context, req primary.ProposeItemsRequest) (*primary.TradeProposal, error) {
	if err := s.checkPropose(req.SenderID, req.RecipientID, req.Sun); err != nil {
		return nil, err
	}
	snaps, errs := trade.SnapshotItems(s.cat, s.store.View(req.RecipientID), req.Items)
	if len(errs) > 0 {
		return nil, garden.Violationf("Trade proposal rejected:\n%s", bullets(errs))
	}
	return s.open(ctx, trade.Proposal{
		Kind:        trade.KindItem,
		SenderID:    req.SenderID,
		RecipientID: req.RecipientID,
		Sun:         req.Sun,
		Items:       snaps,
	})
}

// Accept re-validates and executes a proposal. Both locks are released
// whatever the outcome.
func (s *TradeServiceImpl) Accept(ctx context.Context, userID, tradeID string) (*primary.TradeResult, error) {
	s.mu.Lock()
	pt, ok := s.pending[tradeID]
	if !ok {
		s.mu.Unlock()
		return nil, garden.Violationf("Trade proposal %s was not found or has already closed.", tradeID)
	}
	if r := trade.CanAccept(pt.proposal, userID); !r.Allowed {
		s.mu.Unlock()
		return nil, r.Error()
	}
	s.take(pt)
	s.mu.Unlock()
	defer pt.release()

	p := pt.proposal
	outcome, err := trade.Resolve(p, s.store.View(p.SenderID), s.store.View(p.RecipientID), s.settings.Currency)
	if err == nil {
		err = s.executor.Execute(ctx, outcome.Effects)
	}
	if err != nil {
		if !IsViolation(err) {
			return nil, err
		}
		result := &primary.TradeResult{ID: p.ID, Action: TradeFailed, Message: err.Error()}
		s.notifyBoth(ctx, p, result.Message)
		s.logger.Info("trade failed", "trade", p.ID, "reason", err.Error())
		return result, nil
	}

	s.logger.Info("trade accepted", "trade", p.ID, "sender", p.SenderID, "recipient", p.RecipientID, "sun", p.Sun)
	result := &primary.TradeResult{ID: p.ID, Action: TradeAccepted, Message: outcome.Message}
	s.notifyBoth(ctx, p, result.Message)
	return result, nil
}

// Decline closes a proposal without executing it.
func (s *TradeServiceImpl) Decline(ctx context.Context, userID, tradeID string) (*primary.TradeResult, error) {
	s.mu.Lock()
	pt, ok := s.pending[tradeID]
	if !ok {
		s.mu.Unlock()
		return nil, garden.Violationf("Trade proposal %s was not found or has already closed.", tradeID)
	}
	action, err := trade.DeclineAction(pt.proposal, userID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.take(pt)
	s.mu.Unlock()
	pt.release()

	p := pt.proposal
	msg := fmt.Sprintf("Trade proposal %s was %s by %s.", p.ID, action, userID)
	s.notifyBoth(ctx, p, msg)
	s.record(ctx, p, action)
	return &primary.TradeResult{ID: p.ID, Action: action, Message: msg}, nil
}

// Pending lists open proposals involving the user, oldest first.
func (s *TradeServiceImpl) Pending(ctx context.Context, userID string) ([]*primary.TradeProposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*primary.TradeProposal
	for _, pt := range s.pending {
		if pt.proposal.Involves(userID) {
			out = append(out, s.toProposal(pt.proposal))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	return out, nil
}

// Helper methods

func (s *TradeServiceImpl) checkPropose(senderID, recipientID string, sun int) error {
	if err := s.locks.Check(senderID); err != nil {
		return err
	}
	_, recipientLocked := s.locks.Get(recipientID)
	return trade.CanPropose(trade.ProposeContext{
		SenderID:        senderID,
		RecipientID:     recipientID,
		RecipientLocked: recipientLocked,
		Sun:             sun,
		SenderBalance:   s.store.View(senderID).Balance(),
		Currency:        s.settings.Currency,
	}).Error()
}

// open locks both parties, registers the proposal and arms its expiry.
func (s *TradeServiceImpl) open(ctx context.Context, p trade.Proposal) (*primary.TradeProposal, error) {
	p.ID = uuid.NewString()
	p.CreatedAt = s.now()

	release, err := s.locks.Acquire(LockTrade, map[string]string{
		p.SenderID:    fmt.Sprintf("You have a pending trade proposal (%s) with %s.", p.ID, p.RecipientID),
		p.RecipientID: fmt.Sprintf("You have a pending trade proposal (%s) from %s.", p.ID, p.SenderID),
	})
	if err != nil {
		return nil, err
	}

	pt := &pendingTrade{proposal: p, release: release}
	s.mu.Lock()
	s.pending[p.ID] = pt
	pt.timer = time.AfterFunc(s.timeout(), func() { s.expire(p.ID) })
	s.mu.Unlock()

	out := s.toProposal(p)
	s.logger.Info("trade proposed", "trade", p.ID, "sender", p.SenderID, "recipient", p.RecipientID, "kind", string(p.Kind))
	s.notify(ctx, p.RecipientID, fmt.Sprintf("%s offers %d %s for %v. Accept with trade accept %s within %s.",
		p.SenderID, p.Sun, s.settings.Currency, out.Assets, p.ID, s.timeout()))
	return out, nil
}

// take removes a proposal and stops its timer. Caller holds mu.
func (s *TradeServiceImpl) take(pt *pendingTrade) {
	delete(s.pending, pt.proposal.ID)
	if pt.timer != nil {
		pt.timer.Stop()
	}
}

func (s *TradeServiceImpl) expire(tradeID string) {
	s.mu.Lock()
	pt, ok := s.pending[tradeID]
	if ok {
		delete(s.pending, tradeID)
	}
	s.mu.Unlock()
	if !ok {
		return
	}
	pt.release()

	ctx := context.Background()
	p := pt.proposal
	s.logger.Info("trade expired", "trade", p.ID)
	s.notifyBoth(ctx, p, fmt.Sprintf("Trade proposal %s expired without a response.", p.ID))
	s.record(ctx, p, TradeExpired)
}

func (s *TradeServiceImpl) timeout() time.Duration {
	if s.settings.TradeTimeout <= 0 {
		return trade.DefaultTimeout
	}
	return s.settings.TradeTimeout
}

func (s *TradeServiceImpl) record(ctx context.Context, p trade.Proposal, action string) {
	err := s.executor.Execute(ctx, []effects.Effect{
		effects.EventEffect{UserID: p.SenderID, Kind: "trade", Message: fmt.Sprintf("%s with %s %s", p.ID, p.RecipientID, action)},
	})
	if err != nil {
		s.logger.Error("failed to record trade event", "trade", p.ID, "error", err)
	}
}

func (s *TradeServiceImpl) notifyBoth(ctx context.Context, p trade.Proposal, msg string) {
	s.notify(ctx, p.SenderID, msg)
	s.notify(ctx, p.RecipientID, msg)
}

func (s *TradeServiceImpl) notify(ctx context.Context, userID, msg string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyUser(ctx, userID, msg); err != nil {
		s.logger.Warn("failed to notify user", "user", userID, "error", err)
	}
}

func (s *TradeServiceImpl) toProposal(p trade.Proposal) *primary.TradeProposal {
	out := &primary.TradeProposal{
		ID:          p.ID,
		Kind:        string(p.Kind),
		SenderID:    p.SenderID,
		RecipientID: p.RecipientID,
		Sun:         p.Sun,
		ExpiresAt:   p.CreatedAt.Add(s.timeout()),
	}
	for _, snap := range p.Plants {
		out.Assets = append(out.Assets, fmt.Sprintf("%s (plot %d)", snap.Plant.DisplayName(), snap.Slot))
	}
	for _, item := range p.Items {
		out.Assets = append(out.Assets, fmt.Sprintf("%s x%d", item.Name, item.Count))
	}
	return out
}

// Ensure TradeServiceImpl implements the interface.
var _ primary.TradeService = (*TradeServiceImpl)(nil)
