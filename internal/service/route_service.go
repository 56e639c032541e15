package service

import (
	"context"

	"github.com/payhub/payhub-backend/internal/approval"
	"github.com/payhub/payhub-backend/internal/model"
	"github.com/rs/zerolog"
)

// RouteStore is the persistence boundary of the route editor. Implemented
// by repository.RouteRepository; narrowed to an interface so editor logic
// can be exercised without a database.
type RouteStore interface {
	ListRoutes(ctx context.Context, invoiceTypeID *int) ([]model.Route, error)
	GetRoute(ctx context.Context, id int) (*model.Route, error)
	CreateRoute(ctx context.Context, rt *model.Route) error
	UpdateRoute(ctx context.Context, id int, upd model.RouteUpdate) (*model.Route, error)
	DeleteRoute(ctx context.Context, id int) error
	ListStages(ctx context.Context, routeID int) ([]model.Stage, error)
	ReplaceStages(ctx context.Context, routeID int, stages []model.Stage) ([]model.Stage, error)
}

// InvoiceTypeLister supplies the invoice type reference list for the
// grouped route view.
type InvoiceTypeLister interface {
	GetAll(ctx context.Context) ([]model.InvoiceType, error)
}

// RouteService handles business logic for approval routes and their stage
// lists. Validation always runs before any store call — a rejected save
// leaves the caller's edit buffer untouched so the user can correct and
// retry.
type RouteService struct {
	routes RouteStore
	types  InvoiceTypeLister
	log    zerolog.Logger
}

// NewRouteService creates a new RouteService.
func NewRouteService(routes RouteStore, types InvoiceTypeLister, log zerolog.Logger) *RouteService {
	return &RouteService{
		routes: routes,
		types:  types,
		log:    log.With().Str("component", "route_service").Logger(),
	}
}

// ListRoutes retrieves routes, optionally filtered by invoice type.
func (s *RouteService) ListRoutes(ctx context.Context, invoiceTypeID *int) ([]model.Route, error) {
	return s.routes.ListRoutes(ctx, invoiceTypeID)
}

// ListGrouped returns all routes grouped by invoice type for display.
func (s *RouteService) ListGrouped(ctx context.Context) ([]approval.RouteGroup, error) {
	routes, err := s.routes.ListRoutes(ctx, nil)
	if err != nil {
		return nil, err
	}
	types, err := s.types.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return approval.GroupRoutesByType(routes, types), nil
}

// GetRoute retrieves a route with its stage list.
func (s *RouteService) GetRoute(ctx context.Context, id int) (*model.Route, error) {
	rt, err := s.routes.GetRoute(ctx, id)
	if err != nil {
		return nil, err
	}
	stages, err := s.routes.ListStages(ctx, id)
	if err != nil {
		return nil, err
	}
	rt.Stages = stages
	return rt, nil
}

// CreateRoute creates a new route after validating its name.
func (s *RouteService) CreateRoute(ctx context.Context, req model.CreateRouteRequest) (*model.Route, error) {
	name, err := approval.ValidateRouteName(req.Name)
	if err != nil {
		return nil, err
	}

	rt := &model.Route{
		InvoiceTypeID: req.InvoiceTypeID,
		Name:          name,
		IsActive:      req.IsActive,
	}
	if err := s.routes.CreateRoute(ctx, rt); err != nil {
		return nil, err
	}
	return rt, nil
}

// UpdateRoute applies a partial update. A provided name is trimmed and
// validated before any store call is attempted.
func (s *RouteService) UpdateRoute(ctx context.Context, id int, upd model.RouteUpdate) (*model.Route, error) {
	if upd.Name != nil {
		trimmed, err := approval.ValidateRouteName(*upd.Name)
		if err != nil {
			return nil, err
		}
		upd.Name = &trimmed
	}
	return s.routes.UpdateRoute(ctx, id, upd)
}

// DeleteRoute removes a route and, via cascade, its stages.
func (s *RouteService) DeleteRoute(ctx context.Context, id int) error {
	return s.routes.DeleteRoute(ctx, id)
}

// GetStages retrieves a route's stage list for the editor.
func (s *RouteService) GetStages(ctx context.Context, routeID int) ([]model.Stage, error) {
	return s.routes.ListStages(ctx, routeID)
}

// SaveStages validates and persists a route's full stage list with
// replace-all semantics. Order indexes are recomputed from array position
// immediately before persistence, so whatever the client sent is
// overwritten. On validation failure the store is never called.
func (s *RouteService) SaveStages(ctx context.Context, routeID int, stages []model.Stage) ([]model.Stage, error) {
	if err := approval.ValidateStages(stages); err != nil {
		return nil, err
	}

	persisted, err := s.routes.ReplaceStages(ctx, routeID, approval.Renumber(stages))
	if err != nil {
		s.log.Error().Err(err).Int("route_id", routeID).Msg("Stage save failed")
		return nil, err
	}

	s.log.Info().Int("route_id", routeID).Int("stages", len(persisted)).Msg("Stages saved")
	return persisted, nil
}
