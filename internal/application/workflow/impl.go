package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/talentops/recruiting-ops/internal/application/dispatcher"
	"github.com/talentops/recruiting-ops/internal/application/port"
	"github.com/talentops/recruiting-ops/internal/domain/entity"
	"github.com/talentops/recruiting-ops/internal/domain/event"
	domainwf "github.com/talentops/recruiting-ops/internal/domain/workflow"
)

// engineImpl is the concrete implementation of Engine
type engineImpl struct {
	selectionRepo    port.SelectionRepository
	historyRepo      port.HistoryRepository
	announcementRepo port.AnnouncementRepository
	txManager        port.TransactionManager
	guards           *domainwf.Evaluator
	capabilities     domainwf.CapabilityChecker
	dispatcher       dispatcher.Dispatcher
	logger           *zap.Logger
}

// NewEngine creates the workflow engine
func NewEngine(
	selectionRepo port.SelectionRepository,
	historyRepo port.HistoryRepository,
	announcementRepo port.AnnouncementRepository,
	txManager port.TransactionManager,
	guards *domainwf.Evaluator,
	capabilities domainwf.CapabilityChecker,
	d dispatcher.Dispatcher,
	logger *zap.Logger,
) Engine {
	return &engineImpl{
		selectionRepo:    selectionRepo,
		historyRepo:      historyRepo,
		announcementRepo: announcementRepo,
		txManager:        txManager,
		guards:           guards,
		capabilities:     capabilities,
		dispatcher:       d,
		logger:           logger,
	}
}

// RequestTransition validates and applies a forward transition
func (e *engineImpl) RequestTransition(ctx context.Context, req TransitionRequest) (*TransitionOutcome, error) {
	sel, err := e.selectionRepo.GetByID(ctx, req.SelectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load selection %d: %w", req.SelectionID, err)
	}
	if sel == nil {
		return nil, fmt.Errorf("selection %d: %w", req.SelectionID, domainwf.ErrNotFound)
	}

	current := domainwf.Status(sel.Status)
	if current.IsTerminal() {
		return nil, fmt.Errorf("selection %d is %s: %w", sel.ID, current, domainwf.ErrTerminalState)
	}

	// Adjacency is a pure table lookup; self-transitions are never
	// adjacent, so "already in target state" is reported, not absorbed.
	// Cancellation falls through to the window guard so the caller sees
	// CANCELLATION_WINDOW_CLOSED instead of a generic illegal move.
	if !domainwf.CanTransition(current, req.Requested) && req.Requested != domainwf.StatusCancelled {
		return nil, fmt.Errorf("%s -> %s: %w", current, req.Requested, domainwf.ErrIllegalTransition)
	}

	if err := e.guards.Evaluate(ctx, sel, req.Requested, req.Actor); err != nil {
		return nil, err
	}

	entry := &entity.StatusHistoryEntry{
		SelectionID:    sel.ID,
		PreviousStatus: sel.Status,
		NewStatus:      req.Requested.String(),
		ActorID:        req.Actor.ID,
		Note:           req.Note,
		DueDate:        req.DueDate,
		ChangedAt:      time.Now(),
	}

	err = e.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := e.selectionRepo.UpdateStatus(txCtx, sel.ID, req.Requested.String(), sel.Version); err != nil {
			return err
		}

		// Guard side effect: assignment happens atomically with the
		// status change.
		if req.Requested == domainwf.StatusHRAssigned {
			if err := e.selectionRepo.SetAssignedHR(txCtx, sel.ID, req.Actor.ID); err != nil {
				return fmt.Errorf("failed to set assigned HR: %w", err)
			}
		}

		if req.Requested == domainwf.StatusClosed {
			if err := e.selectionRepo.SetClosedAt(txCtx, sel.ID, entry.ChangedAt); err != nil {
				return fmt.Errorf("failed to set closed_at: %w", err)
			}
		}

		if err := e.historyRepo.Create(txCtx, entry); err != nil {
			return fmt.Errorf("failed to append history entry: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, port.ErrVersionConflict) {
			return nil, fmt.Errorf("selection %d: %w", sel.ID, domainwf.ErrConflict)
		}
		return nil, err
	}

	e.logger.Info("Selection transition committed",
		zap.Int64("selection_id", sel.ID),
		zap.String("previous_status", sel.Status),
		zap.String("new_status", req.Requested.String()),
		zap.String("actor_id", req.Actor.ID))

	e.emitStatusChanged(ctx, sel.ID, sel.Status, req.Requested.String(), req.Actor.ID)

	return &TransitionOutcome{
		NewStatus:      req.Requested,
		HistoryEntryID: entry.ID,
	}, nil
}

// RejectPendingArtifact is the one sanctioned backward move. It is a
// separate, narrower operation rather than a table edge so the
// transition table stays forward-only.
func (e *engineImpl) RejectPendingArtifact(ctx context.Context, selectionID int64, actor entity.Actor, note string) (*TransitionOutcome, error) {
	sel, err := e.selectionRepo.GetByID(ctx, selectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load selection %d: %w", selectionID, err)
	}
	if sel == nil {
		return nil, fmt.Errorf("selection %d: %w", selectionID, domainwf.ErrNotFound)
	}

	current := domainwf.Status(sel.Status)
	if current != domainwf.StatusAnnouncementDraftPendingCEO {
		return nil, fmt.Errorf("draft rejection only applies while pending CEO approval, selection %d is %s: %w",
			sel.ID, current, domainwf.ErrIllegalTransition)
	}

	if !e.capabilities.HasCapability(ctx, actor, entity.CapabilityApproveAnnouncement) {
		return nil, &domainwf.GuardDeniedError{
			Reason:    domainwf.ReasonInsufficientPermissions,
			Current:   current,
			Requested: domainwf.StatusJobCollectionApprovedClient,
		}
	}

	entry := &entity.StatusHistoryEntry{
		SelectionID:    sel.ID,
		PreviousStatus: sel.Status,
		NewStatus:      domainwf.StatusJobCollectionApprovedClient.String(),
		ActorID:        actor.ID,
		Note:           note,
		ChangedAt:      time.Now(),
	}

	err = e.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := e.selectionRepo.UpdateStatus(txCtx, sel.ID, entry.NewStatus, sel.Version); err != nil {
			return err
		}
		if err := e.announcementRepo.ClearApproval(txCtx, sel.ID); err != nil {
			return fmt.Errorf("failed to clear announcement approval: %w", err)
		}
		if err := e.historyRepo.Create(txCtx, entry); err != nil {
			return fmt.Errorf("failed to append history entry: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, port.ErrVersionConflict) {
			return nil, fmt.Errorf("selection %d: %w", sel.ID, domainwf.ErrConflict)
		}
		return nil, err
	}

	e.logger.Info("Announcement draft rejected",
		zap.Int64("selection_id", sel.ID),
		zap.String("actor_id", actor.ID))

	if e.dispatcher != nil {
		e.dispatcher.DispatchAsync(ctx, event.NewEvent(event.TypeDraftRejected, sel.ID, map[string]interface{}{
			event.KeyActorID: actor.ID,
		}))
	}
	e.emitStatusChanged(ctx, sel.ID, sel.Status, entry.NewStatus, actor.ID)

	return &TransitionOutcome{
		NewStatus:      domainwf.StatusJobCollectionApprovedClient,
		HistoryEntryID: entry.ID,
	}, nil
}

// HistoryFor returns the selection's audit trail, oldest first
func (e *engineImpl) HistoryFor(ctx context.Context, selectionID int64) ([]*entity.StatusHistoryEntry, error) {
	sel, err := e.selectionRepo.GetByID(ctx, selectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load selection %d: %w", selectionID, err)
	}
	if sel == nil {
		return nil, fmt.Errorf("selection %d: %w", selectionID, domainwf.ErrNotFound)
	}
	return e.historyRepo.GetBySelectionID(ctx, selectionID)
}

// emitStatusChanged fires the notification event outside the commit;
// emission failure never rolls back a committed transition.
func (e *engineImpl) emitStatusChanged(ctx context.Context, selectionID int64, previous, next, actorID string) {
	if e.dispatcher == nil {
		return
	}
	e.dispatcher.DispatchAsync(ctx, event.NewStatusChanged(selectionID, previous, next, actorID))
}

// Verify interface compliance
var _ Engine = (*engineImpl)(nil)
