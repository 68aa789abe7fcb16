package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/talentops/recruiting-ops/internal/application/dispatcher"
	"github.com/talentops/recruiting-ops/internal/application/port"
	"github.com/talentops/recruiting-ops/internal/domain/entity"
	"github.com/talentops/recruiting-ops/internal/domain/event"
	domainwf "github.com/talentops/recruiting-ops/internal/domain/workflow"
)

// CreateSelectionInput carries the fields needed to open an engagement
type CreateSelectionInput struct {
	Package       string
	ClientCompany string
	PositionTitle string
	// InvoiceAmountCents is the per-invoice amount billed for the
	// package; the invoicing integration settles them later
	InvoiceAmountCents int64
}

// SelectionService manages selection lifecycle outside of transitions:
// creation, reads, and derived history facts.
type SelectionService struct {
	selectionRepo    port.SelectionRepository
	historyRepo      port.HistoryRepository
	invoiceRepo      port.InvoiceRepository
	jobCollection    port.JobCollectionRepository
	announcementRepo port.AnnouncementRepository
	txManager        port.TransactionManager
	dispatcher       dispatcher.Dispatcher
	logger           *zap.Logger
}

// NewSelectionService creates a selection service
func NewSelectionService(
	selectionRepo port.SelectionRepository,
	historyRepo port.HistoryRepository,
	invoiceRepo port.InvoiceRepository,
	jobCollection port.JobCollectionRepository,
	announcementRepo port.AnnouncementRepository,
	txManager port.TransactionManager,
	d dispatcher.Dispatcher,
	logger *zap.Logger,
) *SelectionService {
	return &SelectionService{
		selectionRepo:    selectionRepo,
		historyRepo:      historyRepo,
		invoiceRepo:      invoiceRepo,
		jobCollection:    jobCollection,
		announcementRepo: announcementRepo,
		txManager:        txManager,
		dispatcher:       d,
		logger:           logger,
	}
}

// Create opens a new selection at INVOICE_SETTLED, writes the creation
// audit record, and seeds the artifact rows the guards will later read.
// All of it commits in one transaction.
func (s *SelectionService) Create(ctx context.Context, input CreateSelectionInput) (*entity.Selection, error) {
	if input.Package != entity.PackageBase && input.Package != entity.PackageMDO {
		return nil, fmt.Errorf("unknown package %q", input.Package)
	}
	if input.ClientCompany == "" {
		return nil, fmt.Errorf("client company is required")
	}

	now := time.Now()
	sel := &entity.Selection{
		Status:        domainwf.StatusInvoiceSettled.String(),
		Package:       input.Package,
		ClientCompany: input.ClientCompany,
		PositionTitle: input.PositionTitle,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.selectionRepo.Create(txCtx, sel); err != nil {
			return fmt.Errorf("failed to create selection: %w", err)
		}

		// Creation record: system-initiated, no previous status.
		entry := &entity.StatusHistoryEntry{
			SelectionID: sel.ID,
			NewStatus:   sel.Status,
			ChangedAt:   now,
		}
		if err := s.historyRepo.Create(txCtx, entry); err != nil {
			return fmt.Errorf("failed to write creation history: %w", err)
		}

		for seq := 1; seq <= sel.ExpectedInvoices(); seq++ {
			invoice := &entity.Invoice{
				SelectionID: sel.ID,
				Sequence:    seq,
				AmountCents: input.InvoiceAmountCents,
				CreatedAt:   now,
			}
			if err := s.invoiceRepo.Create(txCtx, invoice); err != nil {
				return fmt.Errorf("failed to create invoice %d: %w", seq, err)
			}
		}

		if err := s.jobCollection.Create(txCtx, &entity.JobCollection{SelectionID: sel.ID, CreatedAt: now, UpdatedAt: now}); err != nil {
			return fmt.Errorf("failed to create job collection: %w", err)
		}
		if err := s.announcementRepo.Create(txCtx, &entity.AnnouncementDraft{SelectionID: sel.ID, CreatedAt: now, UpdatedAt: now}); err != nil {
			return fmt.Errorf("failed to create announcement draft: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Selection created",
		zap.Int64("selection_id", sel.ID),
		zap.String("package", sel.Package),
		zap.String("client_company", sel.ClientCompany))

	if s.dispatcher != nil {
		s.dispatcher.DispatchAsync(ctx, event.NewEvent(event.TypeSelectionCreated, sel.ID, map[string]interface{}{
			"package": sel.Package,
		}))
	}

	return sel, nil
}

// Get returns one selection
func (s *SelectionService) Get(ctx context.Context, id int64) (*entity.Selection, error) {
	sel, err := s.selectionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load selection %d: %w", id, err)
	}
	if sel == nil {
		return nil, fmt.Errorf("selection %d: %w", id, domainwf.ErrNotFound)
	}
	return sel, nil
}

// List returns selections with pagination
func (s *SelectionService) List(ctx context.Context, limit, offset int) ([]*entity.Selection, error) {
	return s.selectionRepo.List(ctx, limit, offset)
}

// DaysInCurrentState computes how long the selection has sat in its
// current status, from the latest audit entry
func (s *SelectionService) DaysInCurrentState(ctx context.Context, id int64) (int, error) {
	latest, err := s.historyRepo.GetLatest(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("failed to load latest history entry: %w", err)
	}
	if latest == nil {
		return 0, fmt.Errorf("selection %d has no history: %w", id, domainwf.ErrNotFound)
	}
	return int(time.Since(latest.ChangedAt).Hours() / 24), nil
}
