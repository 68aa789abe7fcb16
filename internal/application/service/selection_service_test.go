package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/talentops/recruiting-ops/internal/domain/entity"
	domainwf "github.com/talentops/recruiting-ops/internal/domain/workflow"
)

// Function-field mocks

type mockSelectionRepo struct {
	createFunc  func(ctx context.Context, sel *entity.Selection) error
	getByIDFunc func(ctx context.Context, id int64) (*entity.Selection, error)
	listFunc    func(ctx context.Context, limit, offset int) ([]*entity.Selection, error)
}

func (m *mockSelectionRepo) Create(ctx context.Context, sel *entity.Selection) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, sel)
	}
	sel.ID = 1
	return nil
}

func (m *mockSelectionRepo) GetByID(ctx context.Context, id int64) (*entity.Selection, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockSelectionRepo) List(ctx context.Context, limit, offset int) ([]*entity.Selection, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit, offset)
	}
	return nil, nil
}

func (m *mockSelectionRepo) UpdateStatus(ctx context.Context, id int64, status string, expectedVersion int64) error {
	return nil
}

func (m *mockSelectionRepo) SetAssignedHR(ctx context.Context, id int64, hrID string) error {
	return nil
}

func (m *mockSelectionRepo) SetClosedAt(ctx context.Context, id int64, t time.Time) error {
	return nil
}

type mockHistoryRepo struct {
	entries       []*entity.StatusHistoryEntry
	getLatestFunc func(ctx context.Context, selectionID int64) (*entity.StatusHistoryEntry, error)
}

func (m *mockHistoryRepo) Create(ctx context.Context, entry *entity.StatusHistoryEntry) error {
	entry.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockHistoryRepo) GetBySelectionID(ctx context.Context, selectionID int64) ([]*entity.StatusHistoryEntry, error) {
	return m.entries, nil
}

func (m *mockHistoryRepo) GetLatest(ctx context.Context, selectionID int64) (*entity.StatusHistoryEntry, error) {
	if m.getLatestFunc != nil {
		return m.getLatestFunc(ctx, selectionID)
	}
	if len(m.entries) == 0 {
		return nil, nil
	}
	return m.entries[len(m.entries)-1], nil
}

type mockInvoiceRepo struct {
	created []*entity.Invoice
}

func (m *mockInvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	m.created = append(m.created, invoice)
	return nil
}

func (m *mockInvoiceRepo) GetBySelectionID(ctx context.Context, selectionID int64) ([]*entity.Invoice, error) {
	return m.created, nil
}

func (m *mockInvoiceRepo) CountPaid(ctx context.Context, selectionID int64) (int, int, error) {
	paid := 0
	for _, inv := range m.created {
		if inv.Paid {
			paid++
		}
	}
	return paid, len(m.created), nil
}

func (m *mockInvoiceRepo) MarkPaid(ctx context.Context, id int64, paidAt time.Time) error {
	return nil
}

type mockJobCollectionRepo struct {
	created []*entity.JobCollection
}

func (m *mockJobCollectionRepo) Create(ctx context.Context, jc *entity.JobCollection) error {
	m.created = append(m.created, jc)
	return nil
}

func (m *mockJobCollectionRepo) GetBySelectionID(ctx context.Context, selectionID int64) (*entity.JobCollection, error) {
	if len(m.created) == 0 {
		return nil, nil
	}
	return m.created[0], nil
}

func (m *mockJobCollectionRepo) SetClientApproved(ctx context.Context, selectionID int64, approvedAt time.Time) error {
	return nil
}

type mockAnnouncementRepo struct {
	created []*entity.AnnouncementDraft
}

func (m *mockAnnouncementRepo) Create(ctx context.Context, draft *entity.AnnouncementDraft) error {
	m.created = append(m.created, draft)
	return nil
}

func (m *mockAnnouncementRepo) GetBySelectionID(ctx context.Context, selectionID int64) (*entity.AnnouncementDraft, error) {
	if len(m.created) == 0 {
		return nil, nil
	}
	return m.created[0], nil
}

func (m *mockAnnouncementRepo) SetCEOApproved(ctx context.Context, selectionID int64, approvedAt time.Time) error {
	return nil
}

func (m *mockAnnouncementRepo) ClearApproval(ctx context.Context, selectionID int64) error {
	return nil
}

type passthroughTx struct{}

func (passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newSelectionService(sels *mockSelectionRepo, hist *mockHistoryRepo, inv *mockInvoiceRepo, jc *mockJobCollectionRepo, ann *mockAnnouncementRepo) *SelectionService {
	return NewSelectionService(sels, hist, inv, jc, ann, passthroughTx{}, nil, zap.NewNop())
}

// Tests

func TestSelectionService_Create(t *testing.T) {
	sels := &mockSelectionRepo{}
	hist := &mockHistoryRepo{}
	inv := &mockInvoiceRepo{}
	jc := &mockJobCollectionRepo{}
	ann := &mockAnnouncementRepo{}
	svc := newSelectionService(sels, hist, inv, jc, ann)

	sel, err := svc.Create(context.Background(), CreateSelectionInput{
		Package:            entity.PackageBase,
		ClientCompany:      "Acme SpA",
		PositionTitle:      "Plant Manager",
		InvoiceAmountCents: 250000,
	})
	require.NoError(t, err)
	assert.Equal(t, domainwf.StatusInvoiceSettled.String(), sel.Status)
	assert.Equal(t, int64(1), sel.Version)

	// Creation record is system-initiated with no previous status.
	require.Len(t, hist.entries, 1)
	assert.Empty(t, hist.entries[0].PreviousStatus)
	assert.Empty(t, hist.entries[0].ActorID)
	assert.Equal(t, sel.Status, hist.entries[0].NewStatus)

	// BASE bills two invoices; MDO three.
	assert.Len(t, inv.created, 2)
	assert.Len(t, jc.created, 1)
	assert.Len(t, ann.created, 1)
}

func TestSelectionService_CreateMDOBillsThreeInvoices(t *testing.T) {
	inv := &mockInvoiceRepo{}
	svc := newSelectionService(&mockSelectionRepo{}, &mockHistoryRepo{}, inv, &mockJobCollectionRepo{}, &mockAnnouncementRepo{})

	_, err := svc.Create(context.Background(), CreateSelectionInput{
		Package:       entity.PackageMDO,
		ClientCompany: "Acme SpA",
	})
	require.NoError(t, err)
	assert.Len(t, inv.created, 3)
}

func TestSelectionService_CreateValidation(t *testing.T) {
	svc := newSelectionService(&mockSelectionRepo{}, &mockHistoryRepo{}, &mockInvoiceRepo{}, &mockJobCollectionRepo{}, &mockAnnouncementRepo{})

	_, err := svc.Create(context.Background(), CreateSelectionInput{Package: "GOLD", ClientCompany: "Acme"})
	assert.Error(t, err)

	_, err = svc.Create(context.Background(), CreateSelectionInput{Package: entity.PackageBase})
	assert.Error(t, err)
}

func TestSelectionService_GetNotFound(t *testing.T) {
	svc := newSelectionService(&mockSelectionRepo{}, &mockHistoryRepo{}, &mockInvoiceRepo{}, &mockJobCollectionRepo{}, &mockAnnouncementRepo{})

	_, err := svc.Get(context.Background(), 404)
	assert.ErrorIs(t, err, domainwf.ErrNotFound)
}

func TestSelectionService_DaysInCurrentState(t *testing.T) {
	hist := &mockHistoryRepo{
		getLatestFunc: func(ctx context.Context, selectionID int64) (*entity.StatusHistoryEntry, error) {
			changed := time.Now().Add(-73 * time.Hour)
			return &entity.StatusHistoryEntry{SelectionID: selectionID, NewStatus: "HR_ASSIGNED", ChangedAt: changed}, nil
		},
	}
	svc := newSelectionService(&mockSelectionRepo{}, hist, &mockInvoiceRepo{}, &mockJobCollectionRepo{}, &mockAnnouncementRepo{})

	days, err := svc.DaysInCurrentState(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, days)
}

func TestArtifactService_Predicates(t *testing.T) {
	inv := &mockInvoiceRepo{}
	jc := &mockJobCollectionRepo{}
	ann := &mockAnnouncementRepo{}
	svc := NewArtifactService(inv, jc, ann, zap.NewNop())
	ctx := context.Background()

	// No invoices yet: not settled.
	settled, err := svc.IsFullySettled(ctx, 1)
	require.NoError(t, err)
	assert.False(t, settled)

	inv.created = []*entity.Invoice{{Paid: true}, {Paid: true}}
	settled, err = svc.IsFullySettled(ctx, 1)
	require.NoError(t, err)
	assert.True(t, settled)

	// Missing artifacts read as unapproved, not as errors.
	approved, err := svc.IsClientApproved(ctx, 1)
	require.NoError(t, err)
	assert.False(t, approved)

	jc.created = []*entity.JobCollection{{SelectionID: 1, ClientApproved: true}}
	approved, err = svc.IsClientApproved(ctx, 1)
	require.NoError(t, err)
	assert.True(t, approved)

	ceoApproved, err := svc.IsCEOApproved(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ceoApproved)

	ann.created = []*entity.AnnouncementDraft{{SelectionID: 1, CEOApproved: true}}
	ceoApproved, err = svc.IsCEOApproved(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ceoApproved)
}
