package approval

import (
	"testing"

	"github.com/payhub/payhub-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func route(id, typeID int, name string) model.Route {
	return model.Route{ID: id, InvoiceTypeID: typeID, Name: name}
}

func TestGroupRoutesByType(t *testing.T) {
	types := []model.InvoiceType{
		{ID: 5, Name: "Services"},
		{ID: 8, Name: "Goods"},
	}
	routes := []model.Route{
		route(1, 5, "Standard"),
		route(2, 8, "Goods fast-track"),
		route(3, 5, "High value"),
	}

	groups := GroupRoutesByType(routes, types)

	require.Len(t, groups, 2)
	assert.Equal(t, "Services", groups[0].Label)
	require.NotNil(t, groups[0].InvoiceTypeID)
	assert.Equal(t, 5, *groups[0].InvoiceTypeID)
	assert.Len(t, groups[0].Routes, 2)

	assert.Equal(t, "Goods", groups[1].Label)
	assert.Len(t, groups[1].Routes, 1)
}

func TestGroupRoutesFirstSeenOrder(t *testing.T) {
	types := []model.InvoiceType{
		{ID: 1, Name: "A"},
		{ID: 2, Name: "B"},
	}
	routes := []model.Route{
		route(1, 2, "first"),
		route(2, 1, "second"),
		route(3, 2, "third"),
	}

	groups := GroupRoutesByType(routes, types)

	require.Len(t, groups, 2)
	assert.Equal(t, "B", groups[0].Label)
	assert.Equal(t, "A", groups[1].Label)
}

func TestGroupRoutesUnresolvedTypeFallsBackOnce(t *testing.T) {
	types := []model.InvoiceType{{ID: 1, Name: "Known"}}
	routes := []model.Route{
		route(1, 99, "orphan one"),
		route(2, 1, "normal"),
		route(3, 77, "orphan two"),
	}

	groups := GroupRoutesByType(routes, types)

	require.Len(t, groups, 2)
	assert.Equal(t, NoTypeLabel, groups[0].Label)
	assert.Nil(t, groups[0].InvoiceTypeID)
	assert.Len(t, groups[0].Routes, 2)
	assert.Len(t, groups[1].Routes, 1)

	// Every input route lands in exactly one group.
	total := 0
	for _, g := range groups {
		total += len(g.Routes)
	}
	assert.Equal(t, len(routes), total)
}

func TestGroupRoutesEmptyInput(t *testing.T) {
	assert.Empty(t, GroupRoutesByType(nil, nil))
	assert.Empty(t, GroupRoutesByType([]model.Route{}, []model.InvoiceType{{ID: 1, Name: "A"}}))
}

func TestGroupRoutesIsDeterministic(t *testing.T) {
	types := []model.InvoiceType{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	routes := []model.Route{route(1, 1, "x"), route(2, 2, "y"), route(3, 9, "z")}

	first := GroupRoutesByType(routes, types)
	second := GroupRoutesByType(routes, types)

	assert.Equal(t, first, second)
}
