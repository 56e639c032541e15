package service

import (
	"context"
	"errors"
	"testing"

	"github.com/payhub/payhub-backend/internal/approval"
	"github.com/payhub/payhub-backend/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRouteStore struct {
	routes        []model.Route
	stages        []model.Stage
	replacedWith  []model.Stage
	replaceCalls  int
	replaceErr    error
	createdRoutes []model.Route
}

func (f *fakeRouteStore) ListRoutes(_ context.Context, invoiceTypeID *int) ([]model.Route, error) {
	if invoiceTypeID == nil {
		return f.routes, nil
	}
	var out []model.Route
	for _, rt := range f.routes {
		if rt.InvoiceTypeID == *invoiceTypeID {
			out = append(out, rt)
		}
	}
	return out, nil
}

func (f *fakeRouteStore) GetRoute(_ context.Context, id int) (*model.Route, error) {
	for _, rt := range f.routes {
		if rt.ID == id {
			return &rt, nil
		}
	}
	return nil, errors.New("route not found")
}

func (f *fakeRouteStore) CreateRoute(_ context.Context, rt *model.Route) error {
	rt.ID = len(f.createdRoutes) + 1
	f.createdRoutes = append(f.createdRoutes, *rt)
	return nil
}

func (f *fakeRouteStore) UpdateRoute(_ context.Context, id int, upd model.RouteUpdate) (*model.Route, error) {
	rt := model.Route{ID: id, Name: "existing"}
	if upd.Name != nil {
		rt.Name = *upd.Name
	}
	if upd.InvoiceTypeID != nil {
		rt.InvoiceTypeID = *upd.InvoiceTypeID
	}
	return &rt, nil
}

func (f *fakeRouteStore) DeleteRoute(_ context.Context, _ int) error { return nil }

func (f *fakeRouteStore) ListStages(_ context.Context, _ int) ([]model.Stage, error) {
	return f.stages, nil
}

func (f *fakeRouteStore) ReplaceStages(_ context.Context, _ int, stages []model.Stage) ([]model.Stage, error) {
	f.replaceCalls++
	if f.replaceErr != nil {
		return nil, f.replaceErr
	}
	f.replacedWith = stages
	return stages, nil
}

type fakeTypeLister struct {
	types []model.InvoiceType
}

func (f *fakeTypeLister) GetAll(_ context.Context) ([]model.InvoiceType, error) {
	return f.types, nil
}

func newTestRouteService(store *fakeRouteStore, types *fakeTypeLister) *RouteService {
	return NewRouteService(store, types, zerolog.Nop())
}

func intPtr(v int) *int { return &v }

func TestSaveStagesRejectsWithoutPersisting(t *testing.T) {
	store := &fakeRouteStore{}
	svc := newTestRouteService(store, &fakeTypeLister{})

	stages := []model.Stage{
		{Name: "Manager", RoleID: intPtr(4)},
		{Name: "Finance"}, // no role
	}

	_, err := svc.SaveStages(context.Background(), 1, stages)
	require.Error(t, err)

	var vErr *approval.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, 2, vErr.StagePosition)
	assert.Equal(t, 0, store.replaceCalls, "store must not be called on validation failure")
}

func TestSaveStagesRenumbersBeforePersisting(t *testing.T) {
	store := &fakeRouteStore{}
	svc := newTestRouteService(store, &fakeTypeLister{})

	// Client-sent order indexes are garbage on purpose.
	stages := []model.Stage{
		{Name: "A", RoleID: intPtr(1), OrderIndex: 7},
		{Name: "B", RoleID: intPtr(2), OrderIndex: 7},
		{Name: "C", RoleID: intPtr(3), OrderIndex: 0},
	}

	persisted, err := svc.SaveStages(context.Background(), 1, stages)
	require.NoError(t, err)
	require.Len(t, persisted, 3)

	for i, s := range store.replacedWith {
		assert.Equal(t, i, s.OrderIndex)
	}
	// Original buffer is untouched.
	assert.Equal(t, 7, stages[0].OrderIndex)
}

func TestSaveStagesStoreErrorPropagates(t *testing.T) {
	store := &fakeRouteStore{replaceErr: errors.New("connection reset")}
	svc := newTestRouteService(store, &fakeTypeLister{})

	_, err := svc.SaveStages(context.Background(), 1, []model.Stage{
		{Name: "A", RoleID: intPtr(1)},
	})
	require.Error(t, err)

	var vErr *approval.ValidationError
	assert.False(t, errors.As(err, &vErr), "store errors are not validation errors")
}

func TestSaveStagesEmptyListIsValid(t *testing.T) {
	store := &fakeRouteStore{}
	svc := newTestRouteService(store, &fakeTypeLister{})

	persisted, err := svc.SaveStages(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Empty(t, persisted)
	assert.Equal(t, 1, store.replaceCalls)
}

func TestCreateRouteTrimsAndValidatesName(t *testing.T) {
	store := &fakeRouteStore{}
	svc := newTestRouteService(store, &fakeTypeLister{})

	rt, err := svc.CreateRoute(context.Background(), model.CreateRouteRequest{
		Name:          "  Standard flow  ",
		InvoiceTypeID: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "Standard flow", rt.Name)

	_, err = svc.CreateRoute(context.Background(), model.CreateRouteRequest{
		Name:          "  Hi  ",
		InvoiceTypeID: 2,
	})
	require.Error(t, err)
	assert.Len(t, store.createdRoutes, 1)
}

func TestUpdateRouteRejectsShortNameBeforeStore(t *testing.T) {
	store := &fakeRouteStore{}
	svc := newTestRouteService(store, &fakeTypeLister{})

	short := "ab"
	_, err := svc.UpdateRoute(context.Background(), 1, model.RouteUpdate{Name: &short})
	require.Error(t, err)

	longer := "  Urgent payments  "
	rt, err := svc.UpdateRoute(context.Background(), 1, model.RouteUpdate{Name: &longer})
	require.NoError(t, err)
	assert.Equal(t, "Urgent payments", rt.Name)
}

func TestListGrouped(t *testing.T) {
	store := &fakeRouteStore{
		routes: []model.Route{
			{ID: 1, InvoiceTypeID: 10, Name: "Services default"},
			{ID: 2, InvoiceTypeID: 99, Name: "Orphan"},
			{ID: 3, InvoiceTypeID: 10, Name: "Services urgent"},
		},
	}
	types := &fakeTypeLister{types: []model.InvoiceType{{ID: 10, Name: "Services"}}}
	svc := newTestRouteService(store, types)

	groups, err := svc.ListGrouped(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, "Services", groups[0].Label)
	assert.Len(t, groups[0].Routes, 2)
	assert.Equal(t, approval.NoTypeLabel, groups[1].Label)
	assert.Len(t, groups[1].Routes, 1)
}
