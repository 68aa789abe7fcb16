package repository

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/talentops/recruiting-ops/internal/application/port"
	"github.com/talentops/recruiting-ops/internal/domain/entity"
	"github.com/talentops/recruiting-ops/internal/infrastructure/persistence/sqlite"
)

// setupTestDB opens an in-memory database with the real schema applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// Each pooled connection would get its own in-memory database
	db.SetMaxOpenConns(1)

	schema, err := os.ReadFile(filepath.Join("..", "..", "..", "..", "migrations", "001_initial_schema.sql"))
	require.NoError(t, err)

	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	return db
}

func createTestSelection(t *testing.T, db *sql.DB) *entity.Selection {
	t.Helper()

	repo := NewSelectionRepository(db, zap.NewNop())
	sel := &entity.Selection{
		Status:        "INVOICE_SETTLED",
		Package:       entity.PackageBase,
		ClientCompany: "Acme SpA",
		PositionTitle: "Plant Manager",
		Version:       1,
	}
	require.NoError(t, repo.Create(context.Background(), sel))
	require.NotZero(t, sel.ID)
	return sel
}

func TestSelectionRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSelectionRepository(db, zap.NewNop())
	ctx := context.Background()

	created := createTestSelection(t, db)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "INVOICE_SETTLED", got.Status)
	assert.Equal(t, entity.PackageBase, got.Package)
	assert.Equal(t, "Acme SpA", got.ClientCompany)
	assert.Equal(t, int64(1), got.Version)
	assert.Nil(t, got.AssignedHR)
	assert.Nil(t, got.ClosedAt)
}

func TestSelectionRepository_GetByID_Missing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSelectionRepository(db, zap.NewNop())

	got, err := repo.GetByID(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSelectionRepository_UpdateStatus_VersionGuard(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSelectionRepository(db, zap.NewNop())
	ctx := context.Background()

	sel := createTestSelection(t, db)

	// First writer wins and bumps the version
	require.NoError(t, repo.UpdateStatus(ctx, sel.ID, "HR_ASSIGNED", 1))

	got, err := repo.GetByID(ctx, sel.ID)
	require.NoError(t, err)
	assert.Equal(t, "HR_ASSIGNED", got.Status)
	assert.Equal(t, int64(2), got.Version)

	// Second writer still holds version 1 and must lose
	err = repo.UpdateStatus(ctx, sel.ID, "CANCELLED", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, port.ErrVersionConflict))

	got, err = repo.GetByID(ctx, sel.ID)
	require.NoError(t, err)
	assert.Equal(t, "HR_ASSIGNED", got.Status, "losing write must not change state")
}

func TestSelectionRepository_AssignmentAndClose(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSelectionRepository(db, zap.NewNop())
	ctx := context.Background()

	sel := createTestSelection(t, db)

	require.NoError(t, repo.SetAssignedHR(ctx, sel.ID, "hr-42"))
	closedAt := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SetClosedAt(ctx, sel.ID, closedAt))

	got, err := repo.GetByID(ctx, sel.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AssignedHR)
	assert.Equal(t, "hr-42", *got.AssignedHR)
	require.NotNil(t, got.ClosedAt)
	assert.True(t, got.ClosedAt.Equal(closedAt))
}

func TestSelectionRepository_List_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSelectionRepository(db, zap.NewNop())
	ctx := context.Background()

	first := createTestSelection(t, db)
	second := createTestSelection(t, db)

	got, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
}

func TestHistoryRepository_OrderingAndLatest(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHistoryRepository(db, zap.NewNop())
	ctx := context.Background()

	sel := createTestSelection(t, db)
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	statuses := []string{"INVOICE_SETTLED", "HR_ASSIGNED", "FIRST_CALL_DONE"}
	for i, status := range statuses {
		entry := &entity.StatusHistoryEntry{
			SelectionID: sel.ID,
			NewStatus:   status,
			ChangedAt:   base.Add(time.Duration(i) * time.Hour),
		}
		if i > 0 {
			entry.PreviousStatus = statuses[i-1]
			entry.ActorID = "u-1"
		}
		require.NoError(t, repo.Create(ctx, entry))
	}

	entries, err := repo.GetBySelectionID(ctx, sel.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	for i, entry := range entries {
		assert.Equal(t, statuses[i], entry.NewStatus)
	}
	assert.Empty(t, entries[0].ActorID, "creation record is system-initiated")
	assert.Empty(t, entries[0].PreviousStatus)

	latest, err := repo.GetLatest(ctx, sel.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "FIRST_CALL_DONE", latest.NewStatus)

	missing, err := repo.GetLatest(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestInvoiceRepository_CountPaid(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInvoiceRepository(db, zap.NewNop())
	ctx := context.Background()

	sel := createTestSelection(t, db)

	var ids []int64
	for seq := 1; seq <= 2; seq++ {
		inv := &entity.Invoice{SelectionID: sel.ID, Sequence: seq, AmountCents: 150000}
		require.NoError(t, repo.Create(ctx, inv))
		ids = append(ids, inv.ID)
	}

	paid, total, err := repo.CountPaid(ctx, sel.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, paid)
	assert.Equal(t, 2, total)

	require.NoError(t, repo.MarkPaid(ctx, ids[0], time.Now()))

	paid, total, err = repo.CountPaid(ctx, sel.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, paid)
	assert.Equal(t, 2, total)

	require.NoError(t, repo.MarkPaid(ctx, ids[1], time.Now()))

	paid, total, err = repo.CountPaid(ctx, sel.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, paid)
	assert.Equal(t, 2, total)
}

func TestJobCollectionRepository_Approval(t *testing.T) {
	db := setupTestDB(t)
	repo := NewJobCollectionRepository(db, zap.NewNop())
	ctx := context.Background()

	sel := createTestSelection(t, db)
	require.NoError(t, repo.Create(ctx, &entity.JobCollection{SelectionID: sel.ID}))

	jc, err := repo.GetBySelectionID(ctx, sel.ID)
	require.NoError(t, err)
	require.NotNil(t, jc)
	assert.False(t, jc.ClientApproved)

	require.NoError(t, repo.SetClientApproved(ctx, sel.ID, time.Now()))

	jc, err = repo.GetBySelectionID(ctx, sel.ID)
	require.NoError(t, err)
	assert.True(t, jc.ClientApproved)
	assert.NotNil(t, jc.ApprovedAt)
}

func TestAnnouncementRepository_ApproveAndClear(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAnnouncementRepository(db, zap.NewNop())
	ctx := context.Background()

	sel := createTestSelection(t, db)
	require.NoError(t, repo.Create(ctx, &entity.AnnouncementDraft{SelectionID: sel.ID}))

	require.NoError(t, repo.SetCEOApproved(ctx, sel.ID, time.Now()))

	draft, err := repo.GetBySelectionID(ctx, sel.ID)
	require.NoError(t, err)
	assert.True(t, draft.CEOApproved)

	// Draft rejection resets the approval
	require.NoError(t, repo.ClearApproval(ctx, sel.ID))

	draft, err = repo.GetBySelectionID(ctx, sel.ID)
	require.NoError(t, err)
	assert.False(t, draft.CEOApproved)
	assert.Nil(t, draft.ApprovedAt)
}

func TestNotificationRepository_Queue(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotificationRepository(db, zap.NewNop())
	ctx := context.Background()

	sel := createTestSelection(t, db)

	var ids []int64
	for _, status := range []string{"HR_ASSIGNED", "FIRST_CALL_DONE", "CLOSED"} {
		n := &entity.Notification{
			SelectionID: sel.ID,
			NewStatus:   status,
			Status:      entity.NotificationStatusPending,
		}
		require.NoError(t, repo.Create(ctx, n))
		ids = append(ids, n.ID)
	}

	pending, err := repo.GetPending(ctx, 2)
	require.NoError(t, err)
	require.Len(t, pending, 2, "limit is honored")
	assert.Equal(t, ids[0], pending[0].ID, "oldest first")

	require.NoError(t, repo.MarkSent(ctx, ids[0], time.Now()))
	require.NoError(t, repo.MarkFailed(ctx, ids[1], "channel unavailable"))

	pending, err = repo.GetPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, ids[2], pending[0].ID)
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	txManager := sqlite.NewTxManager(db, zap.NewNop())
	selectionRepo := NewSelectionRepository(db, zap.NewNop())
	historyRepo := NewHistoryRepository(db, zap.NewNop())
	ctx := context.Background()

	sel := createTestSelection(t, db)

	err := txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := selectionRepo.UpdateStatus(txCtx, sel.ID, "HR_ASSIGNED", 1); err != nil {
			return err
		}
		if err := historyRepo.Create(txCtx, &entity.StatusHistoryEntry{
			SelectionID:    sel.ID,
			PreviousStatus: "INVOICE_SETTLED",
			NewStatus:      "HR_ASSIGNED",
			ActorID:        "u-1",
			ChangedAt:      time.Now(),
		}); err != nil {
			return err
		}
		return errors.New("boom")
	})
	require.Error(t, err)

	// Neither the status change nor the history entry survived
	got, err := selectionRepo.GetByID(ctx, sel.ID)
	require.NoError(t, err)
	assert.Equal(t, "INVOICE_SETTLED", got.Status)
	assert.Equal(t, int64(1), got.Version)

	entries, err := historyRepo.GetBySelectionID(ctx, sel.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTxManager_CommitsStatusAndHistoryTogether(t *testing.T) {
	db := setupTestDB(t)
	txManager := sqlite.NewTxManager(db, zap.NewNop())
	selectionRepo := NewSelectionRepository(db, zap.NewNop())
	historyRepo := NewHistoryRepository(db, zap.NewNop())
	ctx := context.Background()

	sel := createTestSelection(t, db)

	err := txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := selectionRepo.UpdateStatus(txCtx, sel.ID, "HR_ASSIGNED", 1); err != nil {
			return err
		}
		return historyRepo.Create(txCtx, &entity.StatusHistoryEntry{
			SelectionID:    sel.ID,
			PreviousStatus: "INVOICE_SETTLED",
			NewStatus:      "HR_ASSIGNED",
			ActorID:        "u-1",
			ChangedAt:      time.Now(),
		})
	})
	require.NoError(t, err)

	got, err := selectionRepo.GetByID(ctx, sel.ID)
	require.NoError(t, err)
	assert.Equal(t, "HR_ASSIGNED", got.Status)
	assert.Equal(t, int64(2), got.Version)

	entries, err := historyRepo.GetBySelectionID(ctx, sel.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "HR_ASSIGNED", entries[0].NewStatus)
}
