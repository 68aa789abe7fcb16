package workflow

import (
	"context"
	"fmt"

	"github.com/talentops/recruiting-ops/internal/domain/entity"
)

// CapabilityChecker answers whether an actor holds a named capability.
// Injected so guards stay pure and unit-testable without a session.
type CapabilityChecker interface {
	HasCapability(ctx context.Context, actor entity.Actor, capability string) bool
}

// ArtifactReader exposes the read predicates of the externally owned
// artifacts consulted by guards. The engine never sees artifact content.
type ArtifactReader interface {
	// IsFullySettled reports whether every expected invoice is paid.
	// No guard consults it today; it exists for future gating.
	IsFullySettled(ctx context.Context, selectionID int64) (bool, error)

	// IsClientApproved reports approval of the job-description collection
	IsClientApproved(ctx context.Context, selectionID int64) (bool, error)

	// IsCEOApproved reports approval of the announcement draft
	IsCEOApproved(ctx context.Context, selectionID int64) (bool, error)
}

// Evaluator runs every guard applicable to a requested transition.
// Evaluation order is fixed (role, cancellation window, artifacts) so
// the first denial reported is deterministic.
type Evaluator struct {
	capabilities CapabilityChecker
	artifacts    ArtifactReader
}

// NewEvaluator creates a guard evaluator
func NewEvaluator(capabilities CapabilityChecker, artifacts ArtifactReader) *Evaluator {
	return &Evaluator{
		capabilities: capabilities,
		artifacts:    artifacts,
	}
}

// Evaluate runs all guards for the requested transition. It returns nil
// when every guard allows the transition, a *GuardDeniedError on the
// first denial, or a plain error when an artifact lookup fails.
func (e *Evaluator) Evaluate(ctx context.Context, sel *entity.Selection, requested Status, actor entity.Actor) error {
	if err := e.roleGuard(ctx, sel, requested, actor); err != nil {
		return err
	}
	if err := e.cancellationWindowGuard(sel, requested); err != nil {
		return err
	}
	return e.artifactGuards(ctx, sel, requested)
}

// roleGuard maps the requested status to the capability it demands
func (e *Evaluator) roleGuard(ctx context.Context, sel *entity.Selection, requested Status, actor entity.Actor) error {
	var capability string
	switch {
	case requested == StatusHRAssigned:
		capability = entity.CapabilityAssignHR
	case requested == StatusCancelled:
		capability = entity.CapabilityCancelSelection
	case !requested.IsEarly():
		capability = entity.CapabilityAdvanceStatus
	default:
		return nil
	}

	if !e.capabilities.HasCapability(ctx, actor, capability) {
		return &GuardDeniedError{
			Reason:    ReasonInsufficientPermissions,
			Current:   Status(sel.Status),
			Requested: requested,
		}
	}
	return nil
}

// cancellationWindowGuard closes the early-stage abort window once the
// first call is behind us
func (e *Evaluator) cancellationWindowGuard(sel *entity.Selection, requested Status) error {
	if requested != StatusCancelled {
		return nil
	}
	if !CanCancelFrom(Status(sel.Status)) {
		return &GuardDeniedError{
			Reason:    ReasonCancellationWindowClosed,
			Current:   Status(sel.Status),
			Requested: requested,
		}
	}
	return nil
}

// artifactGuards check the approval preconditions owned by external
// collaborators
func (e *Evaluator) artifactGuards(ctx context.Context, sel *entity.Selection, requested Status) error {
	switch requested {
	case StatusHRAssigned:
		// Double-assignment protection; the engine sets assigned_hr
		// atomically with the status change on success.
		if Status(sel.Status) != StatusInvoiceSettled || sel.AssignedHR != nil {
			return &GuardDeniedError{
				Reason:    ReasonHRAlreadyAssigned,
				Current:   Status(sel.Status),
				Requested: requested,
			}
		}

	case StatusAnnouncementDraftPendingCEO:
		approved, err := e.artifacts.IsClientApproved(ctx, sel.ID)
		if err != nil {
			return fmt.Errorf("failed to read job collection approval: %w", err)
		}
		if !approved {
			return &GuardDeniedError{
				Reason:    ReasonArtifactNotApproved,
				Current:   Status(sel.Status),
				Requested: requested,
			}
		}

	case StatusAnnouncementApproved:
		approved, err := e.artifacts.IsCEOApproved(ctx, sel.ID)
		if err != nil {
			return fmt.Errorf("failed to read announcement approval: %w", err)
		}
		if !approved {
			return &GuardDeniedError{
				Reason:    ReasonArtifactNotApproved,
				Current:   Status(sel.Status),
				Requested: requested,
			}
		}
	}

	return nil
}
