package model

import "time"

// Stage is one ordered step of an approval route. OrderIndex is always
// derived from the stage's position in the route's stage list — it is never
// set directly by a client and is renumbered on every save.
type Stage struct {
	ID              *int          `json:"id,omitempty"`
	RouteID         *int          `json:"route_id,omitempty"`
	OrderIndex      int           `json:"order_index"`
	Name            string        `json:"name"`
	RoleID          *int          `json:"role_id,omitempty"`
	PaymentStatusID *int          `json:"payment_status_id,omitempty"`
	Permissions     PermissionSet `json:"permissions"`
}

// Route is a named, activatable approval workflow bound to one invoice type.
type Route struct {
	ID            int       `json:"id"`
	InvoiceTypeID int       `json:"invoice_type_id"`
	Name          string    `json:"name"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Stages        []Stage   `json:"stages,omitempty"`
}

// RouteUpdate is a partial update to a route. Nil fields are left unchanged.
type RouteUpdate struct {
	Name          *string `json:"name,omitempty"`
	InvoiceTypeID *int    `json:"invoice_type_id,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

// CreateRouteRequest is the payload for creating a route.
type CreateRouteRequest struct {
	Name          string `json:"name" binding:"required,min=3"`
	InvoiceTypeID int    `json:"invoice_type_id" binding:"required"`
	IsActive      bool   `json:"is_active"`
}
