package workflow

import (
	"context"
	"time"

	"github.com/talentops/recruiting-ops/internal/domain/entity"
	domainwf "github.com/talentops/recruiting-ops/internal/domain/workflow"
)

// TransitionRequest carries everything a caller supplies when asking
// for a status change.
type TransitionRequest struct {
	SelectionID int64
	Requested   domainwf.Status
	Actor       entity.Actor
	Note        string
	DueDate     *time.Time
}

// TransitionOutcome reports a committed transition
type TransitionOutcome struct {
	NewStatus      domainwf.Status `json:"new_status"`
	HistoryEntryID int64           `json:"history_entry_id"`
}

// Engine orchestrates the selection lifecycle: adjacency check, guard
// evaluation, atomic commit with audit entry, and best-effort event
// emission.
type Engine interface {
	// RequestTransition validates and applies a forward transition
	RequestTransition(ctx context.Context, req TransitionRequest) (*TransitionOutcome, error)

	// RejectPendingArtifact is the single sanctioned regression: while
	// the announcement draft awaits CEO approval, rejecting it moves
	// the selection back to JOB_COLLECTION_APPROVED_CLIENT
	RejectPendingArtifact(ctx context.Context, selectionID int64, actor entity.Actor, note string) (*TransitionOutcome, error)

	// HistoryFor returns the selection's audit trail, oldest first
	HistoryFor(ctx context.Context, selectionID int64) ([]*entity.StatusHistoryEntry, error)
}
