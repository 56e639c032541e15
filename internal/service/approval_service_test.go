package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/payhub/payhub-backend/internal/model"
	"github.com/payhub/payhub-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeApprovalStore struct {
	active      *model.InvoiceApproval
	runs        []model.ApprovalStageRun
	applied     []repository.StageActionParams
	applyErr    error
	created     *model.InvoiceApproval
	createdRuns []model.ApprovalStageRun
	audits      []model.ApprovalAuditEntry
}

func (f *fakeApprovalStore) Create(_ context.Context, a *model.InvoiceApproval, stages []model.ApprovalStageRun) error {
	a.ID = 1
	f.created = a
	f.createdRuns = stages
	return nil
}

func (f *fakeApprovalStore) GetActiveByInvoiceID(_ context.Context, _ uuid.UUID) (*model.InvoiceApproval, error) {
	if f.active == nil || f.active.Status != model.ApprovalInProgress {
		return nil, nil
	}
	cp := *f.active
	return &cp, nil
}

func (f *fakeApprovalStore) GetStageRuns(_ context.Context, _ int) ([]model.ApprovalStageRun, error) {
	return f.runs, nil
}

// ApplyStageAction mirrors the repository transaction: on error nothing
// changes, on success every effect lands.
func (f *fakeApprovalStore) ApplyStageAction(_ context.Context, p repository.StageActionParams) error {
	f.applied = append(f.applied, p)
	if f.applyErr != nil {
		return f.applyErr
	}
	for i := range f.runs {
		if f.runs[i].ID == p.StageRunID {
			f.runs[i].Status = p.StageStatus
		}
	}
	if p.NextStage != nil {
		f.active.CurrentStage = *p.NextStage
	}
	if p.RunStatus != nil {
		f.active.Status = *p.RunStatus
	}
	return nil
}

func (f *fakeApprovalStore) ListPendingForRole(_ context.Context, _ int) ([]model.ApprovalStageRun, error) {
	return nil, nil
}

func (f *fakeApprovalStore) InsertAudit(_ context.Context, e *model.ApprovalAuditEntry) error {
	f.audits = append(f.audits, *e)
	return nil
}

func (f *fakeApprovalStore) ListAuditByInvoice(_ context.Context, _ uuid.UUID) ([]model.ApprovalAuditEntry, error) {
	return f.audits, nil
}

type fakeInvoiceReader struct {
	invoice *model.Invoice
}

func (f *fakeInvoiceReader) GetByID(_ context.Context, _ uuid.UUID) (*model.Invoice, error) {
	if f.invoice == nil {
		return nil, errors.New("invoice not found")
	}
	cp := *f.invoice
	return &cp, nil
}

type fakeRouteSource struct {
	route  *model.Route
	stages []model.Stage
}

func (f *fakeRouteSource) GetActiveRouteByType(_ context.Context, _ int) (*model.Route, error) {
	if f.route == nil {
		return nil, errors.New("no active route")
	}
	return f.route, nil
}

func (f *fakeRouteSource) ListStages(_ context.Context, _ int) ([]model.Stage, error) {
	return f.stages, nil
}

func newTestApprovalService(store *fakeApprovalStore, inv *fakeInvoiceReader, routes *fakeRouteSource) *ApprovalService {
	// Publishing is best-effort; an unreachable Redis only logs.
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	return NewApprovalService(store, inv, routes, rdb, zerolog.Nop())
}

func twoStageRun(invoiceID uuid.UUID) (*model.InvoiceApproval, []model.ApprovalStageRun) {
	approval := &model.InvoiceApproval{
		ID:           5,
		InvoiceID:    invoiceID,
		Status:       model.ApprovalInProgress,
		TotalStages:  2,
		CurrentStage: 0,
		SubmittedBy:  1,
	}
	runs := []model.ApprovalStageRun{
		{ID: 10, ApprovalID: 5, StageIndex: 0, RoleID: 3, PaymentStatusID: intPtr(2), Status: model.StageRunPending},
		{ID: 11, ApprovalID: 5, StageIndex: 1, RoleID: 4, Status: model.StageRunPending},
	}
	return approval, runs
}

func TestApproveAppliesDecisionInOneCall(t *testing.T) {
	invoiceID := uuid.New()
	store := &fakeApprovalStore{}
	store.active, store.runs = twoStageRun(invoiceID)
	inv := &fakeInvoiceReader{invoice: &model.Invoice{ID: invoiceID, ApprovalState: model.InvoiceInApproval}}
	svc := newTestApprovalService(store, inv, &fakeRouteSource{})

	res, err := svc.Approve(context.Background(), invoiceID, 7, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.CurrentStage)
	assert.Equal(t, model.ApprovalInProgress, res.Status)

	require.Len(t, store.applied, 1)
	p := store.applied[0]
	assert.Equal(t, 10, p.StageRunID)
	assert.Equal(t, model.StageRunApproved, p.StageStatus)
	require.NotNil(t, p.PaymentStatusID)
	assert.Equal(t, 2, *p.PaymentStatusID)
	require.NotNil(t, p.NextStage)
	assert.Equal(t, 1, *p.NextStage)
	assert.Nil(t, p.RunStatus)
}

func TestApproveLastStageCompletesRun(t *testing.T) {
	invoiceID := uuid.New()
	store := &fakeApprovalStore{
		active: &model.InvoiceApproval{
			ID: 6, InvoiceID: invoiceID, Status: model.ApprovalInProgress,
			TotalStages: 1, SubmittedBy: 1,
		},
		runs: []model.ApprovalStageRun{
			{ID: 20, ApprovalID: 6, StageIndex: 0, RoleID: 3, Status: model.StageRunPending},
		},
	}
	svc := newTestApprovalService(store, &fakeInvoiceReader{}, &fakeRouteSource{})

	res, err := svc.Approve(context.Background(), invoiceID, 7, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalApproved, res.Status)

	require.Len(t, store.applied, 1)
	p := store.applied[0]
	require.NotNil(t, p.RunStatus)
	assert.Equal(t, model.ApprovalApproved, *p.RunStatus)
	require.NotNil(t, p.InvoiceState)
	assert.Equal(t, model.InvoiceApproved, *p.InvoiceState)
	assert.Nil(t, p.NextStage)
}

func TestApproveFailureLeavesStageRetryable(t *testing.T) {
	invoiceID := uuid.New()
	store := &fakeApprovalStore{applyErr: errors.New("connection reset")}
	store.active, store.runs = twoStageRun(invoiceID)
	inv := &fakeInvoiceReader{invoice: &model.Invoice{ID: invoiceID, ApprovalState: model.InvoiceInApproval}}
	svc := newTestApprovalService(store, inv, &fakeRouteSource{})

	_, err := svc.Approve(context.Background(), invoiceID, 7, 3, nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoPendingApproval)
	assert.Equal(t, model.StageRunPending, store.runs[0].Status)
	assert.Equal(t, 0, store.active.CurrentStage)

	store.applyErr = nil
	res, err := svc.Approve(context.Background(), invoiceID, 7, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.CurrentStage)
}

func TestApproveWrongRole(t *testing.T) {
	invoiceID := uuid.New()
	store := &fakeApprovalStore{}
	store.active, store.runs = twoStageRun(invoiceID)
	svc := newTestApprovalService(store, &fakeInvoiceReader{}, &fakeRouteSource{})

	_, err := svc.Approve(context.Background(), invoiceID, 7, 99, nil)
	assert.ErrorIs(t, err, ErrNotStageApprover)
	assert.Empty(t, store.applied)
}

func TestRejectTerminatesRunAtomically(t *testing.T) {
	invoiceID := uuid.New()
	store := &fakeApprovalStore{}
	store.active, store.runs = twoStageRun(invoiceID)
	svc := newTestApprovalService(store, &fakeInvoiceReader{}, &fakeRouteSource{})

	notes := "missing attachment"
	res, err := svc.Reject(context.Background(), invoiceID, 7, 3, &notes)
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalRejected, res.Status)

	require.Len(t, store.applied, 1)
	p := store.applied[0]
	assert.Equal(t, model.StageRunRejected, p.StageStatus)
	require.NotNil(t, p.RunStatus)
	assert.Equal(t, model.ApprovalRejected, *p.RunStatus)
	require.NotNil(t, p.InvoiceState)
	assert.Equal(t, model.InvoiceRejected, *p.InvoiceState)
}

func TestRecallSubmitterOnly(t *testing.T) {
	invoiceID := uuid.New()
	store := &fakeApprovalStore{}
	store.active, store.runs = twoStageRun(invoiceID)
	svc := newTestApprovalService(store, &fakeInvoiceReader{}, &fakeRouteSource{})

	_, err := svc.Recall(context.Background(), invoiceID, 99)
	assert.ErrorIs(t, err, ErrNotSubmitter)
	assert.Empty(t, store.applied)

	res, err := svc.Recall(context.Background(), invoiceID, 1)
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalRecalled, res.Status)

	require.Len(t, store.applied, 1)
	p := store.applied[0]
	assert.Equal(t, 10, p.StageRunID)
	assert.Equal(t, model.StageRunRecalled, p.StageStatus)
	require.NotNil(t, p.InvoiceState)
	assert.Equal(t, model.InvoiceDraft, *p.InvoiceState)
}

func TestSubmitSnapshotsRouteStages(t *testing.T) {
	invoiceID := uuid.New()
	store := &fakeApprovalStore{}
	inv := &fakeInvoiceReader{invoice: &model.Invoice{
		ID: invoiceID, InvoiceTypeID: 2, ApprovalState: model.InvoiceDraft,
	}}
	routes := &fakeRouteSource{
		route: &model.Route{ID: 3, InvoiceTypeID: 2, IsActive: true},
		stages: []model.Stage{
			{Name: "Manager", RoleID: intPtr(3), Permissions: model.PermissionSet{"edit_amount": true}},
			{Name: "Finance", RoleID: intPtr(4), PaymentStatusID: intPtr(2)},
		},
	}
	svc := newTestApprovalService(store, inv, routes)

	res, err := svc.Submit(context.Background(), invoiceID, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalStages)

	require.Len(t, store.createdRuns, 2)
	assert.Equal(t, 0, store.createdRuns[0].StageIndex)
	assert.Equal(t, 3, store.createdRuns[0].RoleID)
	assert.True(t, store.createdRuns[0].Permissions.Enabled("edit_amount"))
	assert.Equal(t, 1, store.createdRuns[1].StageIndex)
	require.NotNil(t, store.createdRuns[1].PaymentStatusID)
	assert.Equal(t, 2, *store.createdRuns[1].PaymentStatusID)

	// The snapshot is independent of the route's live stage list.
	routes.stages[0].Permissions["edit_amount"] = false
	assert.True(t, store.createdRuns[0].Permissions.Enabled("edit_amount"))
}

func TestSubmitRequiresStages(t *testing.T) {
	invoiceID := uuid.New()
	inv := &fakeInvoiceReader{invoice: &model.Invoice{
		ID: invoiceID, InvoiceTypeID: 2, ApprovalState: model.InvoiceDraft,
	}}
	routes := &fakeRouteSource{route: &model.Route{ID: 3, InvoiceTypeID: 2, IsActive: true}}
	svc := newTestApprovalService(&fakeApprovalStore{}, inv, routes)

	_, err := svc.Submit(context.Background(), invoiceID, 1)
	assert.ErrorIs(t, err, ErrRouteHasNoStages)
}
