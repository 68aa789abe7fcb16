package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/talentops/recruiting-ops/internal/application/port"
	domainwf "github.com/talentops/recruiting-ops/internal/domain/workflow"
)

const historySheet = "Status History"

var historyHeader = []string{"#", "Previous Status", "New Status", "Actor", "Note", "Due Date", "Changed At"}

// ExportService renders audit trails to spreadsheets for the operations
// team. Everything it reads comes from the same repositories the engine
// writes; the export is a plain projection of the append-only log.
type ExportService struct {
	selectionRepo port.SelectionRepository
	historyRepo   port.HistoryRepository
	logger        *zap.Logger
}

// NewExportService creates an export service
func NewExportService(selectionRepo port.SelectionRepository, historyRepo port.HistoryRepository, logger *zap.Logger) *ExportService {
	return &ExportService{
		selectionRepo: selectionRepo,
		historyRepo:   historyRepo,
		logger:        logger,
	}
}

// ExportHistory writes one selection's audit trail as an .xlsx workbook
func (s *ExportService) ExportHistory(ctx context.Context, selectionID int64, w io.Writer) error {
	sel, err := s.selectionRepo.GetByID(ctx, selectionID)
	if err != nil {
		return fmt.Errorf("failed to load selection %d: %w", selectionID, err)
	}
	if sel == nil {
		return fmt.Errorf("selection %d: %w", selectionID, domainwf.ErrNotFound)
	}

	entries, err := s.historyRepo.GetBySelectionID(ctx, selectionID)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", historySheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	title := fmt.Sprintf("Selection #%d — %s / %s (%s)", sel.ID, sel.ClientCompany, sel.PositionTitle, sel.Status)
	if err := f.SetCellValue(historySheet, "A1", title); err != nil {
		return fmt.Errorf("failed to write title: %w", err)
	}

	for col, name := range historyHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 3)
		if err := f.SetCellValue(historySheet, cell, name); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, entry := range entries {
		row := i + 4
		values := []interface{}{
			i + 1,
			entry.PreviousStatus,
			entry.NewStatus,
			actorLabel(entry.ActorID),
			entry.Note,
			formatOptionalTime(entry.DueDate),
			entry.ChangedAt.Format(time.RFC3339),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(historySheet, cell, v); err != nil {
				return fmt.Errorf("failed to write history row %d: %w", i, err)
			}
		}
	}

	s.logger.Info("History exported",
		zap.Int64("selection_id", selectionID),
		zap.Int("entries", len(entries)))

	return f.Write(w)
}

const overviewSheet = "Pipeline"

// ExportPipeline writes a one-row-per-selection overview of the whole
// pipeline: current status, assignment, and time in state
func (s *ExportService) ExportPipeline(ctx context.Context, w io.Writer) error {
	selections, err := s.selectionRepo.List(ctx, 1000, 0)
	if err != nil {
		return fmt.Errorf("failed to list selections: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", overviewSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	header := []string{"ID", "Client", "Position", "Package", "Status", "Assigned HR", "Days In State", "Closed At"}
	for col, name := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(overviewSheet, cell, name); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, sel := range selections {
		days := 0
		if latest, err := s.historyRepo.GetLatest(ctx, sel.ID); err == nil && latest != nil {
			days = int(time.Since(latest.ChangedAt).Hours() / 24)
		}

		row := i + 2
		values := []interface{}{
			sel.ID,
			sel.ClientCompany,
			sel.PositionTitle,
			sel.Package,
			sel.Status,
			derefOr(sel.AssignedHR, ""),
			days,
			formatOptionalTime(sel.ClosedAt),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(overviewSheet, cell, v); err != nil {
				return fmt.Errorf("failed to write row %d: %w", i, err)
			}
		}
	}

	return f.Write(w)
}

func actorLabel(actorID string) string {
	if actorID == "" {
		return "system"
	}
	return actorID
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
