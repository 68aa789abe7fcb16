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

// InvoiceRepository implements port.InvoiceRepository
type InvoiceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *sql.DB, logger *zap.Logger) port.InvoiceRepository {
	return &InvoiceRepository{db: db, logger: logger}
}

// Create inserts a new invoice
func (r *InvoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (selection_id, sequence, amount_cents, paid)
		VALUES (?, ?, ?, ?)
	`

	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		invoice.SelectionID,
		invoice.Sequence,
		invoice.AmountCents,
		invoice.Paid,
	)
	if err != nil {
		r.logger.Error("Failed to create invoice", zap.Error(err))
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	invoice.ID = id
	return nil
}

// GetBySelectionID retrieves the selection's invoices in billing order
func (r *InvoiceRepository) GetBySelectionID(ctx context.Context, selectionID int64) ([]*entity.Invoice, error) {
	query := `
		SELECT id, selection_id, sequence, amount_cents, paid, paid_at, created_at
		FROM invoices
		WHERE selection_id = ?
		ORDER BY sequence ASC
	`

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, selectionID)
	if err != nil {
		r.logger.Error("Failed to get invoices", zap.Int64("selection_id", selectionID), zap.Error(err))
		return nil, fmt.Errorf("failed to get invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*entity.Invoice
	for rows.Next() {
		var invoice entity.Invoice
		var paidAt sql.NullTime

		err := rows.Scan(
			&invoice.ID,
			&invoice.SelectionID,
			&invoice.Sequence,
			&invoice.AmountCents,
			&invoice.Paid,
			&paidAt,
			&invoice.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}

		if paidAt.Valid {
			invoice.PaidAt = &paidAt.Time
		}
		invoices = append(invoices, &invoice)
	}
	return invoices, rows.Err()
}

// CountPaid returns how many of the selection's invoices are settled
func (r *InvoiceRepository) CountPaid(ctx context.Context, selectionID int64) (int, int, error) {
	query := `
		SELECT COUNT(CASE WHEN paid THEN 1 END), COUNT(*)
		FROM invoices
		WHERE selection_id = ?
	`

	var paid, total int
	err := sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, selectionID).Scan(&paid, &total)
	if err != nil {
		r.logger.Error("Failed to count invoices", zap.Int64("selection_id", selectionID), zap.Error(err))
		return 0, 0, fmt.Errorf("failed to count invoices: %w", err)
	}
	return paid, total, nil
}

// MarkPaid records settlement of one invoice
func (r *InvoiceRepository) MarkPaid(ctx context.Context, id int64, paidAt time.Time) error {
	query := `UPDATE invoices SET paid = 1, paid_at = ? WHERE id = ?`

	if _, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, paidAt, id); err != nil {
		r.logger.Error("Failed to mark invoice paid", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to mark invoice paid: %w", err)
	}
	return nil
}

// Verify interface compliance
var _ port.InvoiceRepository = (*InvoiceRepository)(nil)
