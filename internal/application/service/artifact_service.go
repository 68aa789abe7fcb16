package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/talentops/recruiting-ops/internal/application/port"
	domainwf "github.com/talentops/recruiting-ops/internal/domain/workflow"
)

// ArtifactService fronts the externally owned artifacts (invoices,
// job-description collections, announcement drafts). The workflow
// engine only ever consults its read predicates; the write operations
// serve the dashboard's approval endpoints.
type ArtifactService struct {
	invoiceRepo      port.InvoiceRepository
	jobCollection    port.JobCollectionRepository
	announcementRepo port.AnnouncementRepository
	logger           *zap.Logger
}

// NewArtifactService creates an artifact service
func NewArtifactService(
	invoiceRepo port.InvoiceRepository,
	jobCollection port.JobCollectionRepository,
	announcementRepo port.AnnouncementRepository,
	logger *zap.Logger,
) *ArtifactService {
	return &ArtifactService{
		invoiceRepo:      invoiceRepo,
		jobCollection:    jobCollection,
		announcementRepo: announcementRepo,
		logger:           logger,
	}
}

// IsFullySettled reports whether every invoice of the selection is paid.
// No transition gates on it today.
func (s *ArtifactService) IsFullySettled(ctx context.Context, selectionID int64) (bool, error) {
	paid, total, err := s.invoiceRepo.CountPaid(ctx, selectionID)
	if err != nil {
		return false, fmt.Errorf("failed to count invoices: %w", err)
	}
	return total > 0 && paid == total, nil
}

// IsClientApproved reports approval of the job-description collection
func (s *ArtifactService) IsClientApproved(ctx context.Context, selectionID int64) (bool, error) {
	jc, err := s.jobCollection.GetBySelectionID(ctx, selectionID)
	if err != nil {
		return false, fmt.Errorf("failed to load job collection: %w", err)
	}
	return jc != nil && jc.ClientApproved, nil
}

// IsCEOApproved reports approval of the announcement draft
func (s *ArtifactService) IsCEOApproved(ctx context.Context, selectionID int64) (bool, error) {
	draft, err := s.announcementRepo.GetBySelectionID(ctx, selectionID)
	if err != nil {
		return false, fmt.Errorf("failed to load announcement draft: %w", err)
	}
	return draft != nil && draft.CEOApproved, nil
}

// ApproveJobCollection records the client's approval of the
// job-description collection
func (s *ArtifactService) ApproveJobCollection(ctx context.Context, selectionID int64) error {
	if err := s.jobCollection.SetClientApproved(ctx, selectionID, time.Now()); err != nil {
		return fmt.Errorf("failed to approve job collection: %w", err)
	}
	s.logger.Info("Job collection approved by client", zap.Int64("selection_id", selectionID))
	return nil
}

// ApproveAnnouncement records the CEO's approval of the announcement draft
func (s *ArtifactService) ApproveAnnouncement(ctx context.Context, selectionID int64) error {
	if err := s.announcementRepo.SetCEOApproved(ctx, selectionID, time.Now()); err != nil {
		return fmt.Errorf("failed to approve announcement: %w", err)
	}
	s.logger.Info("Announcement draft approved by CEO", zap.Int64("selection_id", selectionID))
	return nil
}

// MarkInvoicePaid records settlement of one invoice; the invoicing
// integration calls this when the provider reports payment
func (s *ArtifactService) MarkInvoicePaid(ctx context.Context, invoiceID int64) error {
	if err := s.invoiceRepo.MarkPaid(ctx, invoiceID, time.Now()); err != nil {
		return fmt.Errorf("failed to mark invoice paid: %w", err)
	}
	s.logger.Info("Invoice settled", zap.Int64("invoice_id", invoiceID))
	return nil
}

// Verify interface compliance
var _ domainwf.ArtifactReader = (*ArtifactService)(nil)
