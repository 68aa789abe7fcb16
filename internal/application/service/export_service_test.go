package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/talentops/recruiting-ops/internal/domain/entity"
	domainwf "github.com/talentops/recruiting-ops/internal/domain/workflow"
)

func TestExportHistory(t *testing.T) {
	hr := "hr1"
	sels := &mockSelectionRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.Selection, error) {
			return &entity.Selection{
				ID:            id,
				Status:        domainwf.StatusHRAssigned.String(),
				Package:       entity.PackageBase,
				ClientCompany: "Acme SpA",
				PositionTitle: "Plant Manager",
				AssignedHR:    &hr,
			}, nil
		},
	}
	hist := &mockHistoryRepo{entries: []*entity.StatusHistoryEntry{
		{ID: 1, SelectionID: 1, NewStatus: "INVOICE_SETTLED", ChangedAt: time.Now().Add(-48 * time.Hour)},
		{ID: 2, SelectionID: 1, PreviousStatus: "INVOICE_SETTLED", NewStatus: "HR_ASSIGNED", ActorID: "hr1", Note: "kickoff", ChangedAt: time.Now()},
	}}

	svc := NewExportService(sels, hist, zap.NewNop())

	var buf bytes.Buffer
	require.NoError(t, svc.ExportHistory(context.Background(), 1, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(historySheet, "A1")
	require.NoError(t, err)
	assert.Contains(t, title, "Acme SpA")

	// Header row.
	got, err := f.GetCellValue(historySheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "Previous Status", got)

	// Creation record renders the system actor.
	actor, err := f.GetCellValue(historySheet, "D4")
	require.NoError(t, err)
	assert.Equal(t, "system", actor)

	newStatus, err := f.GetCellValue(historySheet, "C5")
	require.NoError(t, err)
	assert.Equal(t, "HR_ASSIGNED", newStatus)
}

func TestExportHistory_NotFound(t *testing.T) {
	svc := NewExportService(&mockSelectionRepo{}, &mockHistoryRepo{}, zap.NewNop())

	var buf bytes.Buffer
	err := svc.ExportHistory(context.Background(), 404, &buf)
	assert.ErrorIs(t, err, domainwf.ErrNotFound)
}

func TestExportPipeline(t *testing.T) {
	closed := time.Now()
	sels := &mockSelectionRepo{
		listFunc: func(ctx context.Context, limit, offset int) ([]*entity.Selection, error) {
			return []*entity.Selection{
				{ID: 1, ClientCompany: "Acme SpA", PositionTitle: "Plant Manager", Package: entity.PackageBase, Status: "HR_ASSIGNED"},
				{ID: 2, ClientCompany: "Borelli Srl", PositionTitle: "CFO", Package: entity.PackageMDO, Status: "CLOSED", ClosedAt: &closed},
			}, nil
		},
	}
	svc := NewExportService(sels, &mockHistoryRepo{}, zap.NewNop())

	var buf bytes.Buffer
	require.NoError(t, svc.ExportPipeline(context.Background(), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(overviewSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Client", rows[0][1])
	assert.Equal(t, "Acme SpA", rows[1][1])
	assert.Equal(t, "CLOSED", rows[2][4])
}
