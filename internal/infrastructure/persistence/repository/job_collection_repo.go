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

// JobCollectionRepository implements port.JobCollectionRepository
type JobCollectionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewJobCollectionRepository creates a new job collection repository
func NewJobCollectionRepository(db *sql.DB, logger *zap.Logger) port.JobCollectionRepository {
	return &JobCollectionRepository{db: db, logger: logger}
}

// Create inserts the job-description-collection record for a selection
func (r *JobCollectionRepository) Create(ctx context.Context, jc *entity.JobCollection) error {
	query := `INSERT INTO job_collections (selection_id, client_approved) VALUES (?, ?)`

	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, jc.SelectionID, jc.ClientApproved)
	if err != nil {
		r.logger.Error("Failed to create job collection", zap.Error(err))
		return fmt.Errorf("failed to create job collection: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	jc.ID = id
	return nil
}

// GetBySelectionID retrieves the selection's job collection; returns
// (nil, nil) when absent
func (r *JobCollectionRepository) GetBySelectionID(ctx context.Context, selectionID int64) (*entity.JobCollection, error) {
	query := `
		SELECT id, selection_id, client_approved, approved_at, created_at, updated_at
		FROM job_collections
		WHERE selection_id = ?
	`

	var jc entity.JobCollection
	var approvedAt sql.NullTime

	err := sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, selectionID).Scan(
		&jc.ID,
		&jc.SelectionID,
		&jc.ClientApproved,
		&approvedAt,
		&jc.CreatedAt,
		&jc.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get job collection", zap.Int64("selection_id", selectionID), zap.Error(err))
		return nil, fmt.Errorf("failed to get job collection: %w", err)
	}

	if approvedAt.Valid {
		jc.ApprovedAt = &approvedAt.Time
	}
	return &jc, nil
}

// SetClientApproved records the client's approval
func (r *JobCollectionRepository) SetClientApproved(ctx context.Context, selectionID int64, approvedAt time.Time) error {
	query := `
		UPDATE job_collections
		SET client_approved = 1, approved_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE selection_id = ?
	`

	if _, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, approvedAt, selectionID); err != nil {
		r.logger.Error("Failed to approve job collection", zap.Int64("selection_id", selectionID), zap.Error(err))
		return fmt.Errorf("failed to approve job collection: %w", err)
	}
	return nil
}

// Verify interface compliance
var _ port.JobCollectionRepository = (*JobCollectionRepository)(nil)
