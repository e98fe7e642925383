package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/garden/internal/core/fusion"
	"github.com/example/garden/internal/core/garden"
	"github.com/example/garden/internal/logging"
	"github.com/example/garden/internal/ports/primary"
)

// Messages shown when a confirmation does not go through.
const (
	FuseCancelledMessage = "Fusion protocol has been cancelled by user directive."
	FuseTimedOutMessage  = "Confirmation not received. The operation has been automatically cancelled."
	FuseDriftedMessage   = "Your garden changed while the fusion was awaiting confirmation. Nothing was consumed."
)

var errFuseDrifted = errors.New("fusion inputs changed")

// FusionServiceImpl implements the FusionService interface.
type FusionServiceImpl struct {
	store    *ProfileStore
	executor EffectExecutor
	resolver *fusion.Resolver
	locks    *LockTable
	settings Settings
	logger   *slog.Logger
}

// NewFusionService creates a new FusionService with injected dependencies.
func NewFusionService(
	store *ProfileStore,
	executor EffectExecutor,
	resolver *fusion.Resolver,
	locks *LockTable,
	settings Settings,
	logger *slog.Logger,
) *FusionServiceImpl {
	return &FusionServiceImpl{
		store:    store,
		executor: executor,
		resolver: resolver,
		locks:    locks,
		settings: settings,
		logger:   logger,
	}
}

// Fuse validates the inputs, finds the exact recipe, then holds the fusion
// lock from confirmation until the fusion is committed in one batch.
func (s *FusionServiceImpl) Fuse(ctx context.Context, req primary.FuseRequest) (*primary.FuseResponse, error) {
	if err := s.locks.Check(req.UserID); err != nil {
		return nil, err
	}
	cat := s.resolver.Catalog()

	v := s.store.View(req.UserID)
	sel, errs := fusion.SelectInputs(v, cat, req.Args)
	if len(errs) > 0 {
		return &primary.FuseResponse{Errors: errs, Balance: v.Balance()}, nil
	}

	components, errs := s.resolver.Components(sel)
	if len(errs) > 0 {
		logging.Critical(ctx, s.logger, "fusion deconstruction failed", "user", req.UserID, "errors", errs)
		return nil, fmt.Errorf("%w: %s", ErrDataIntegrity, strings.Join(errs, "; "))
	}

	result, ok := s.resolver.FindFusionMatch(components)
	if !ok {
		return nil, garden.Violationf("%s", fusion.NoMatchMessage(cat, sel))
	}

	isNew := fusion.IsNewDiscovery(v, result)
	preview := primary.FusionPreview{
		FusionID:   result.ID,
		Name:       result.Name,
		Tier:       result.Type,
		IsNew:      isNew,
		Inputs:     fusion.Describe(cat, sel),
		OutputSlot: sel.OutputSlot,
	}
	if isNew {
		preview.Bonus = fusion.DiscoveryBonus(s.settings.DiscoveryBonusRatio, cat.SalePrices()[result.Type])
	}
	resp := &primary.FuseResponse{Preview: preview, Balance: v.Balance()}

	release, err := s.locks.Acquire(LockFusion, map[string]string{
		req.UserID: fmt.Sprintf("Awaiting confirmation to fuse components into a %s.", preview.Name),
	})
	if err != nil {
		return nil, err
	}
	defer release()

	confirmed, reason, err := s.confirm(ctx, req, preview)
	if err != nil {
		return nil, err
	}
	if !confirmed {
		resp.Cancelled = true
		resp.Errors = []string{reason}
		return resp, nil
	}

	current := s.store.View(req.UserID)
	outcome := fusion.FuseOutcome{Result: result, IsNew: isNew, Bonus: preview.Bonus}
	if isNew {
		discovered := append(current.DiscoveredFusions(), result.ID)
		outcome.Backgrounds = cat.BackgroundUnlocks(discovered, current.UnlockedBackgrounds())
	}

	// The tick may have run while the user was deciding.
	stillHolds := func(tx *Tx) error {
		if !fusion.StillHolds(tx.Profile(req.UserID), sel) {
			return errFuseDrifted
		}
		return nil
	}
	err = s.executor.ExecuteIf(ctx, stillHolds, fusion.PlanFuse(req.UserID, sel, outcome))
	if errors.Is(err, errFuseDrifted) {
		resp.Cancelled = true
		resp.Errors = []string{FuseDriftedMessage}
		return resp, nil
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("fusion crafted", "user", req.UserID, "fusion", result.ID, "new", isNew, "slot", sel.OutputSlot)

	resp.Fused = true
	resp.Balance = s.store.View(req.UserID).Balance()
	for _, bg := range outcome.Backgrounds {
		resp.UnlockedBackgrounds = append(resp.UnlockedBackgrounds, bg.Name)
	}
	return resp, nil
}

// confirm runs the confirmation callback with the fusion timeout. The caller
// holds the fusion lock.
func (s *FusionServiceImpl) confirm(ctx context.Context, req primary.FuseRequest, preview primary.FusionPreview) (bool, string, error) {
	if req.Confirm == nil {
		return true, "", nil
	}

	timeout := s.settings.FusionConfirmTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ok, err := req.Confirm(cctx, preview)
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(cctx.Err(), context.DeadlineExceeded):
		return false, FuseTimedOutMessage, nil
	case err != nil:
		return false, "", fmt.Errorf("fusion confirmation failed: %w", err)
	case !ok:
		return false, FuseCancelledMessage, nil
	}
	return true, "", nil
}

// Ensure FusionServiceImpl implements the interface.
var _ primary.FusionService = (*FusionServiceImpl)(nil)
