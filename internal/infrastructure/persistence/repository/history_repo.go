package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/talentops/recruiting-ops/internal/application/port"
	"github.com/talentops/recruiting-ops/internal/domain/entity"
	"github.com/talentops/recruiting-ops/internal/infrastructure/persistence/sqlite"
)

// HistoryRepository implements port.HistoryRepository. The table is
// append-only: this type deliberately has no update or delete method.
type HistoryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *sql.DB, logger *zap.Logger) port.HistoryRepository {
	return &HistoryRepository{db: db, logger: logger}
}

// Create appends a history entry
func (r *HistoryRepository) Create(ctx context.Context, entry *entity.StatusHistoryEntry) error {
	query := `
		INSERT INTO status_history (
			selection_id, previous_status, new_status, actor_id, note, due_date, changed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		entry.SelectionID,
		entry.PreviousStatus,
		entry.NewStatus,
		entry.ActorID,
		entry.Note,
		entry.DueDate,
		entry.ChangedAt,
	)
	if err != nil {
		r.logger.Error("Failed to append history entry", zap.Error(err))
		return fmt.Errorf("failed to append history entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	entry.ID = id
	return nil
}

const historyColumns = `
	id, selection_id, previous_status, new_status, actor_id, note, due_date, changed_at
`

// GetBySelectionID retrieves the full audit trail, oldest first
func (r *HistoryRepository) GetBySelectionID(ctx context.Context, selectionID int64) ([]*entity.StatusHistoryEntry, error) {
	query := `SELECT ` + historyColumns + ` FROM status_history WHERE selection_id = ? ORDER BY changed_at ASC, id ASC`

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, selectionID)
	if err != nil {
		r.logger.Error("Failed to get history", zap.Int64("selection_id", selectionID), zap.Error(err))
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var entries []*entity.StatusHistoryEntry
	for rows.Next() {
		entry, err := scanHistoryEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// GetLatest retrieves the newest entry; returns (nil, nil) when the
// selection has no history
func (r *HistoryRepository) GetLatest(ctx context.Context, selectionID int64) (*entity.StatusHistoryEntry, error) {
	query := `SELECT ` + historyColumns + ` FROM status_history WHERE selection_id = ? ORDER BY changed_at DESC, id DESC LIMIT 1`

	entry, err := scanHistoryEntry(sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, selectionID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get latest history entry", zap.Int64("selection_id", selectionID), zap.Error(err))
		return nil, fmt.Errorf("failed to get latest history entry: %w", err)
	}
	return entry, nil
}

func scanHistoryEntry(row rowScanner) (*entity.StatusHistoryEntry, error) {
	var entry entity.StatusHistoryEntry
	var dueDate sql.NullTime

	err := row.Scan(
		&entry.ID,
		&entry.SelectionID,
		&entry.PreviousStatus,
		&entry.NewStatus,
		&entry.ActorID,
		&entry.Note,
		&dueDate,
		&entry.ChangedAt,
	)
	if err != nil {
		return nil, err
	}

	if dueDate.Valid {
		entry.DueDate = &dueDate.Time
	}
	return &entry, nil
}

// Verify interface compliance
var _ port.HistoryRepository = (*HistoryRepository)(nil)
