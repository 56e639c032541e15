package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/payhub/payhub-backend/internal/approval"
	"github.com/payhub/payhub-backend/internal/model"
	"github.com/payhub/payhub-backend/internal/response"
	"github.com/payhub/payhub-backend/internal/service"
	"github.com/payhub/payhub-backend/internal/validator"
)

// RouteHandler exposes the approval route and stage editor endpoints.
type RouteHandler struct {
	routeService *service.RouteService
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(routeService *service.RouteService) *RouteHandler {
	return &RouteHandler{routeService: routeService}
}

// List godoc
// GET /api/v1/routes?invoice_type_id=N
func (h *RouteHandler) List(c *gin.Context) {
	var typeID *int
	if raw := c.Query("invoice_type_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		typeID = &id
	}

	routes, err := h.routeService.ListRoutes(c.Request.Context(), typeID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if routes == nil {
		routes = []model.Route{}
	}
	response.Success(c, http.StatusOK, gin.H{"routes": routes})
}

// ListGrouped godoc
// GET /api/v1/routes/grouped
func (h *RouteHandler) ListGrouped(c *gin.Context) {
	groups, err := h.routeService.ListGrouped(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if groups == nil {
		groups = []approval.RouteGroup{}
	}
	response.Success(c, http.StatusOK, gin.H{"groups": groups})
}

// Get godoc
// GET /api/v1/routes/:id
func (h *RouteHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	route, err := h.routeService.GetRoute(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"route": route})
}

// Create godoc
// POST /api/v1/routes
func (h *RouteHandler) Create(c *gin.Context) {
	var req model.CreateRouteRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	route, err := h.routeService.CreateRoute(c.Request.Context(), req)
	if err != nil {
		var vErr *approval.ValidationError
		if errors.As(err, &vErr) {
			response.FailWithMessage(c, http.StatusBadRequest, response.ErrValidation, vErr.Error())
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"route": route})
}

// Update godoc
// PATCH /api/v1/routes/:id
func (h *RouteHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.RouteUpdate
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	route, err := h.routeService.UpdateRoute(c.Request.Context(), id, req)
	if err != nil {
		var vErr *approval.ValidationError
		switch {
		case errors.As(err, &vErr):
			response.FailWithMessage(c, http.StatusBadRequest, response.ErrValidation, vErr.Error())
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"route": route})
}

// Delete godoc
// DELETE /api/v1/routes/:id
func (h *RouteHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.routeService.DeleteRoute(c.Request.Context(), id); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "route deleted successfully"})
}

// GetStages godoc
// GET /api/v1/routes/:id/stages
func (h *RouteHandler) GetStages(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	stages, err := h.routeService.GetStages(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if stages == nil {
		stages = []model.Stage{}
	}
	response.Success(c, http.StatusOK, gin.H{"stages": stages})
}

// SaveStages godoc
// PUT /api/v1/routes/:id/stages
// Replaces the route's full stage list. Validation failures return the
// 1-based position of the first offending stage and leave the stored list
// untouched.
func (h *RouteHandler) SaveStages(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req struct {
		Stages []model.Stage `json:"stages"`
	}
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	stages, err := h.routeService.SaveStages(c.Request.Context(), id, req.Stages)
	if err != nil {
		var vErr *approval.ValidationError
		switch {
		case errors.As(err, &vErr):
			response.FailWithMessage(c, http.StatusBadRequest, response.ErrValidation, vErr.Error())
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	if stages == nil {
		stages = []model.Stage{}
	}
	response.Success(c, http.StatusOK, gin.H{"stages": stages})
}
