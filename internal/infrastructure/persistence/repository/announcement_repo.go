package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/talentops/recruiting-ops/internal/application/port"
	"github.com/talentops/recruiting-ops/internal/domain/entity"
	"github.com/talentops/recruiting-ops/internal/infrastructure/persistence/sqlite"
)

// AnnouncementRepository implements port.AnnouncementRepository
type AnnouncementRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAnnouncementRepository creates a new announcement repository
func NewAnnouncementRepository(db *sql.DB, logger *zap.Logger) port.AnnouncementRepository {
	return &AnnouncementRepository{db: db, logger: logger}
}

// Create inserts the announcement-draft record for a selection
func (r *AnnouncementRepository) Create(ctx context.Context, draft *entity.AnnouncementDraft) error {
	query := `INSERT INTO announcement_drafts (selection_id, ceo_approved) VALUES (?, ?)`

	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, draft.SelectionID, draft.CEOApproved)
	if err != nil {
		r.logger.Error("Failed to create announcement draft", zap.Error(err))
		return fmt.Errorf("failed to create announcement draft: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	draft.ID = id
	return nil
}

// GetBySelectionID retrieves the selection's announcement draft; returns
// (nil, nil) when absent
func (r *AnnouncementRepository) GetBySelectionID(ctx context.Context, selectionID int64) (*entity.AnnouncementDraft, error) {
	query := `
		SELECT id, selection_id, ceo_approved, approved_at, created_at, updated_at
		FROM announcement_drafts
		WHERE selection_id = ?
	`

	var draft entity.AnnouncementDraft
	var approvedAt sql.NullTime

	err := sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, selectionID).Scan(
		&draft.ID,
		&draft.SelectionID,
		&draft.CEOApproved,
		&approvedAt,
		&draft.CreatedAt,
		&draft.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get announcement draft", zap.Int64("selection_id", selectionID), zap.Error(err))
		return nil, fmt.Errorf("failed to get announcement draft: %w", err)
	}

	if approvedAt.Valid {
		draft.ApprovedAt = &approvedAt.Time
	}
	return &draft, nil
}

// SetCEOApproved records the CEO's approval
func (r *AnnouncementRepository) SetCEOApproved(ctx context.Context, selectionID int64, approvedAt time.Time) error {
	query := `
		UPDATE announcement_drafts
		SET ceo_approved = 1, approved_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE selection_id = ?
	`

	if _, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, approvedAt, selectionID); err != nil {
		r.logger.Error("Failed to approve announcement draft", zap.Int64("selection_id", selectionID), zap.Error(err))
		return fmt.Errorf("failed to approve announcement draft: %w", err)
	}
	return nil
}

// ClearApproval resets the draft after a rejection so a reworked
// version goes through approval again
func (r *AnnouncementRepository) ClearApproval(ctx context.Context, selectionID int64) error {
	query := `
		UPDATE announcement_drafts
		SET ceo_approved = 0, approved_at = NULL, updated_at = CURRENT_TIMESTAMP
		WHERE selection_id = ?
	`

	if _, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, selectionID); err != nil {
		r.logger.Error("Failed to clear announcement approval", zap.Int64("selection_id", selectionID), zap.Error(err))
		return fmt.Errorf("failed to clear announcement approval: %w", err)
	}
	return nil
}

// Verify interface compliance
var _ port.AnnouncementRepository = (*AnnouncementRepository)(nil)
