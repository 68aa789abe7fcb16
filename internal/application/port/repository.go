package port

import (
	"context"
	"errors"
	"time"

	"github.com/talentops/recruiting-ops/internal/domain/entity"
)

// ErrVersionConflict is returned by SelectionRepository.UpdateStatus when
// the optimistic version check fails at commit time. Safe to retry.
var ErrVersionConflict = errors.New("selection version conflict")

// SelectionRepository defines persistence operations for Selection
type SelectionRepository interface {
	Create(ctx context.Context, sel *entity.Selection) error

	// GetByID returns (nil, nil) when the selection does not exist
	GetByID(ctx context.Context, id int64) (*entity.Selection, error)

	List(ctx context.Context, limit, offset int) ([]*entity.Selection, error)

	// UpdateStatus writes the new status and bumps the version, guarded
	// by expectedVersion; returns ErrVersionConflict when a concurrent
	// transition got there first
	UpdateStatus(ctx context.Context, id int64, status string, expectedVersion int64) error

	SetAssignedHR(ctx context.Context, id int64, hrID string) error

	SetClosedAt(ctx context.Context, id int64, t time.Time) error
}

// HistoryRepository defines persistence operations for StatusHistoryEntry.
// The audit trail is append-only: there is deliberately no update or
// delete operation.
type HistoryRepository interface {
	Create(ctx context.Context, entry *entity.StatusHistoryEntry) error

	// GetBySelectionID returns entries oldest first
	GetBySelectionID(ctx context.Context, selectionID int64) ([]*entity.StatusHistoryEntry, error)

	// GetLatest returns the newest entry, or (nil, nil) when there is none
	GetLatest(ctx context.Context, selectionID int64) (*entity.StatusHistoryEntry, error)
}

// InvoiceRepository defines persistence operations for Invoice
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetBySelectionID(ctx context.Context, selectionID int64) ([]*entity.Invoice, error)
	CountPaid(ctx context.Context, selectionID int64) (paid, total int, err error)
	MarkPaid(ctx context.Context, id int64, paidAt time.Time) error
}

// JobCollectionRepository defines persistence operations for JobCollection
type JobCollectionRepository interface {
	Create(ctx context.Context, jc *entity.JobCollection) error
	GetBySelectionID(ctx context.Context, selectionID int64) (*entity.JobCollection, error)
	SetClientApproved(ctx context.Context, selectionID int64, approvedAt time.Time) error
}

// AnnouncementRepository defines persistence operations for AnnouncementDraft
type AnnouncementRepository interface {
	Create(ctx context.Context, draft *entity.AnnouncementDraft) error
	GetBySelectionID(ctx context.Context, selectionID int64) (*entity.AnnouncementDraft, error)
	SetCEOApproved(ctx context.Context, selectionID int64, approvedAt time.Time) error

	// ClearApproval is used by the draft-rejection regression to reset
	// the artifact alongside the status move
	ClearApproval(ctx context.Context, selectionID int64) error
}

// NotificationRepository defines persistence operations for Notification
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	GetPending(ctx context.Context, limit int) ([]*entity.Notification, error)
	MarkSent(ctx context.Context, id int64, sentAt time.Time) error
	MarkFailed(ctx context.Context, id int64, errorMsg string) error
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
