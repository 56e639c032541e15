package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/payhub/payhub-backend/internal/model"
)

// RouteRepository handles approval route and stage data access.
// Stage persistence is replace-all: the full stage list of a route is
// rewritten in one transaction, never patched row by row.
type RouteRepository struct {
	pool *pgxpool.Pool
}

// NewRouteRepository creates a new RouteRepository.
func NewRouteRepository(pool *pgxpool.Pool) *RouteRepository {
	return &RouteRepository{pool: pool}
}

// ListRoutes retrieves routes, optionally filtered by invoice type.
// Stages are not loaded — use ListStages for the editor.
func (r *RouteRepository) ListRoutes(ctx context.Context, invoiceTypeID *int) ([]model.Route, error) {
	query := `SELECT id, invoice_type_id, name, is_active, created_at, updated_at
	          FROM approval_routes`
	args := []any{}
	if invoiceTypeID != nil {
		query += ` WHERE invoice_type_id = $1`
		args = append(args, *invoiceTypeID)
	}
	query += ` ORDER BY invoice_type_id, id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []model.Route
	for rows.Next() {
		var rt model.Route
		if err := rows.Scan(&rt.ID, &rt.InvoiceTypeID, &rt.Name, &rt.IsActive, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
			return nil, err
		}
		routes = append(routes, rt)
	}
	return routes, rows.Err()
}

// GetRoute retrieves a single route without stages.
func (r *RouteRepository) GetRoute(ctx context.Context, id int) (*model.Route, error) {
	rt := &model.Route{ID: id}
	err := r.pool.QueryRow(ctx,
		`SELECT invoice_type_id, name, is_active, created_at, updated_at
		 FROM approval_routes WHERE id = $1`, id,
	).Scan(&rt.InvoiceTypeID, &rt.Name, &rt.IsActive, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rt, nil
}

// GetActiveRouteByType returns the active route for an invoice type, or
// pgx.ErrNoRows when none is configured.
func (r *RouteRepository) GetActiveRouteByType(ctx context.Context, invoiceTypeID int) (*model.Route, error) {
	rt := &model.Route{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, invoice_type_id, name, is_active, created_at, updated_at
		 FROM approval_routes
		 WHERE invoice_type_id = $1 AND is_active
		 ORDER BY id
		 LIMIT 1`, invoiceTypeID,
	).Scan(&rt.ID, &rt.InvoiceTypeID, &rt.Name, &rt.IsActive, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rt, nil
}

// CreateRoute inserts a new route.
func (r *RouteRepository) CreateRoute(ctx context.Context, rt *model.Route) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO approval_routes (invoice_type_id, name, is_active)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		rt.InvoiceTypeID, rt.Name, rt.IsActive,
	).Scan(&rt.ID, &rt.CreatedAt, &rt.UpdatedAt)
}

// UpdateRoute applies a partial update. Nil fields keep their current value.
func (r *RouteRepository) UpdateRoute(ctx context.Context, id int, upd model.RouteUpdate) (*model.Route, error) {
	rt := &model.Route{ID: id}
	err := r.pool.QueryRow(ctx,
		`UPDATE approval_routes
		 SET name            = COALESCE($2, name),
		     invoice_type_id = COALESCE($3, invoice_type_id),
		     is_active       = COALESCE($4, is_active),
		     updated_at      = NOW()
		 WHERE id = $1
		 RETURNING invoice_type_id, name, is_active, created_at, updated_at`,
		id, upd.Name, upd.InvoiceTypeID, upd.IsActive,
	).Scan(&rt.InvoiceTypeID, &rt.Name, &rt.IsActive, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rt, nil
}

// DeleteRoute removes a route. Stages cascade at the database level.
func (r *RouteRepository) DeleteRoute(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM approval_routes WHERE id = $1`, id)
	return err
}

// ListStages retrieves a route's stages ordered by position.
func (r *RouteRepository) ListStages(ctx context.Context, routeID int) ([]model.Stage, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, route_id, order_index, name, role_id, payment_status_id, permissions
		 FROM approval_route_stages
		 WHERE route_id = $1
		 ORDER BY order_index`, routeID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stages []model.Stage
	for rows.Next() {
		var s model.Stage
		if err := rows.Scan(&s.ID, &s.RouteID, &s.OrderIndex, &s.Name, &s.RoleID, &s.PaymentStatusID, &s.Permissions); err != nil {
			return nil, err
		}
		if s.Permissions == nil {
			s.Permissions = model.PermissionSet{}
		}
		stages = append(stages, s)
	}
	return stages, rows.Err()
}

// ReplaceStages discards the route's existing stage set and inserts the
// given one in a single transaction, refreshing the route's updated_at.
// Returns the persisted stages with their new IDs.
func (r *RouteRepository) ReplaceStages(ctx context.Context, routeID int, stages []model.Stage) ([]model.Stage, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Route must exist; this also refreshes updated_at.
	var exists int
	err = tx.QueryRow(ctx,
		`UPDATE approval_routes SET updated_at = NOW() WHERE id = $1 RETURNING id`, routeID,
	).Scan(&exists)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM approval_route_stages WHERE route_id = $1`, routeID); err != nil {
		return nil, err
	}

	persisted := make([]model.Stage, 0, len(stages))
	for _, s := range stages {
		out := s
		out.RouteID = &routeID
		if out.Permissions == nil {
			out.Permissions = model.PermissionSet{}
		}
		err := tx.QueryRow(ctx,
			`INSERT INTO approval_route_stages
			     (route_id, order_index, name, role_id, payment_status_id, permissions)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id`,
			routeID, out.OrderIndex, out.Name, out.RoleID, out.PaymentStatusID, out.Permissions,
		).Scan(&out.ID)
		if err != nil {
			return nil, err
		}
		persisted = append(persisted, out)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return persisted, nil
}
