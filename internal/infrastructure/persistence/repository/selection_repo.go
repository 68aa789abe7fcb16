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

// SelectionRepository implements port.SelectionRepository
type SelectionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSelectionRepository creates a new selection repository
func NewSelectionRepository(db *sql.DB, logger *zap.Logger) port.SelectionRepository {
	return &SelectionRepository{db: db, logger: logger}
}

const selectionColumns = `
	id, status, package, client_company, position_title,
	assigned_hr, closed_at, version, created_at, updated_at
`

// Create inserts a new selection
func (r *SelectionRepository) Create(ctx context.Context, sel *entity.Selection) error {
	query := `
		INSERT INTO selections (
			status, package, client_company, position_title, version
		) VALUES (?, ?, ?, ?, ?)
	`

	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		sel.Status,
		sel.Package,
		sel.ClientCompany,
		sel.PositionTitle,
		sel.Version,
	)
	if err != nil {
		r.logger.Error("Failed to create selection", zap.Error(err))
		return fmt.Errorf("failed to create selection: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	sel.ID = id
	return nil
}

// GetByID retrieves a selection; returns (nil, nil) when absent
func (r *SelectionRepository) GetByID(ctx context.Context, id int64) (*entity.Selection, error) {
	query := `SELECT ` + selectionColumns + ` FROM selections WHERE id = ?`

	sel, err := scanSelection(sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get selection", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get selection: %w", err)
	}
	return sel, nil
}

// List retrieves selections with pagination, newest first
func (r *SelectionRepository) List(ctx context.Context, limit, offset int) ([]*entity.Selection, error) {
	query := `SELECT ` + selectionColumns + ` FROM selections ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list selections", zap.Error(err))
		return nil, fmt.Errorf("failed to list selections: %w", err)
	}
	defer rows.Close()

	var selections []*entity.Selection
	for rows.Next() {
		sel, err := scanSelection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan selection: %w", err)
		}
		selections = append(selections, sel)
	}
	return selections, rows.Err()
}

// UpdateStatus writes the new status guarded by the version the caller
// read. Zero rows affected means a concurrent transition won.
func (r *SelectionRepository) UpdateStatus(ctx context.Context, id int64, status string, expectedVersion int64) error {
	query := `
		UPDATE selections
		SET status = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND version = ?
	`

	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, status, id, expectedVersion)
	if err != nil {
		r.logger.Error("Failed to update status", zap.Int64("id", id), zap.String("status", status), zap.Error(err))
		return fmt.Errorf("failed to update status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("selection %d at version %d: %w", id, expectedVersion, port.ErrVersionConflict)
	}
	return nil
}

// SetAssignedHR records the HR assignment
func (r *SelectionRepository) SetAssignedHR(ctx context.Context, id int64, hrID string) error {
	query := `UPDATE selections SET assigned_hr = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	if _, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, hrID, id); err != nil {
		r.logger.Error("Failed to set assigned HR", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to set assigned HR: %w", err)
	}
	return nil
}

// SetClosedAt records the closing timestamp
func (r *SelectionRepository) SetClosedAt(ctx context.Context, id int64, t time.Time) error {
	query := `UPDATE selections SET closed_at = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	if _, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, t, id); err != nil {
		r.logger.Error("Failed to set closed_at", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to set closed_at: %w", err)
	}
	return nil
}

// rowScanner covers *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSelection(row rowScanner) (*entity.Selection, error) {
	var sel entity.Selection
	var assignedHR sql.NullString
	var closedAt sql.NullTime

	err := row.Scan(
		&sel.ID,
		&sel.Status,
		&sel.Package,
		&sel.ClientCompany,
		&sel.PositionTitle,
		&assignedHR,
		&closedAt,
		&sel.Version,
		&sel.CreatedAt,
		&sel.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if assignedHR.Valid {
		sel.AssignedHR = &assignedHR.String
	}
	if closedAt.Valid {
		sel.ClosedAt = &closedAt.Time
	}
	return &sel, nil
}

// Verify interface compliance
var _ port.SelectionRepository = (*SelectionRepository)(nil)
