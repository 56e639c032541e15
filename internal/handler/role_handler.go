package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/payhub/payhub-backend/internal/model"
	"github.com/payhub/payhub-backend/internal/response"
	"github.com/payhub/payhub-backend/internal/service"
	"github.com/payhub/payhub-backend/internal/validator"
)

type RoleHandler struct {
	roleService *service.RoleService
}

func NewRoleHandler(roleService *service.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

type roleRequest struct {
	Code        string   `json:"code" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	Permissions []string `json:"permissions"`
}

// List godoc
// GET /api/v1/roles
// Returns the plain role list used by the stage editor's role dropdown.
func (h *RoleHandler) List(c *gin.Context) {
	roles, err := h.roleService.ListRoles(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if roles == nil {
		roles = []model.Role{}
	}
	response.Success(c, http.StatusOK, gin.H{"roles": roles})
}

// ListWithPermissions godoc
// GET /api/v1/roles/detailed
func (h *RoleHandler) ListWithPermissions(c *gin.Context) {
	roles, err := h.roleService.ListRolesWithPermissions(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if roles == nil {
		roles = []model.RoleWithPermissions{}
	}
	response.Success(c, http.StatusOK, gin.H{"roles": roles})
}

// Get godoc
// GET /api/v1/roles/:id
func (h *RoleHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	role, err := h.roleService.GetRoleByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"role": role})
}

// Create godoc
// POST /api/v1/roles
func (h *RoleHandler) Create(c *gin.Context) {
	var req roleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	role, err := h.roleService.CreateRole(c.Request.Context(), req.Code, req.Name, req.Permissions)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"role": role})
}

// Update godoc
// PUT /api/v1/roles/:id
func (h *RoleHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req roleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	role, err := h.roleService.UpdateRole(c.Request.Context(), id, req.Code, req.Name, req.Permissions)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"role": role})
}

// Delete godoc
// DELETE /api/v1/roles/:id
func (h *RoleHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.roleService.DeleteRole(c.Request.Context(), id); err != nil {
		response.Fail(c, http.StatusConflict, response.ErrDependencyExists)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "role deleted successfully"})
}

// Permissions godoc
// GET /api/v1/roles/permissions
// Returns every assignable admin permission code.
func (h *RoleHandler) Permissions(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"permissions": h.roleService.GetAllPermissions()})
}
