package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/payhub/payhub-backend/internal/middleware"
	"github.com/payhub/payhub-backend/internal/model"
	"github.com/payhub/payhub-backend/internal/response"
	"github.com/payhub/payhub-backend/internal/service"
	"github.com/payhub/payhub-backend/internal/validator"
)

// ApprovalHandler exposes approval run endpoints: submit, act, and inspect.
type ApprovalHandler struct {
	approvalService *service.ApprovalService
}

// NewApprovalHandler creates a new ApprovalHandler.
func NewApprovalHandler(approvalService *service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvalService: approvalService}
}

type approvalActionRequest struct {
	Notes *string `json:"notes,omitempty"`
}

// Submit godoc
// POST /api/v1/invoices/:id/submit
func (h *ApprovalHandler) Submit(c *gin.Context) {
	id, ok := parseInvoiceID(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	approval, err := h.approvalService.Submit(c.Request.Context(), id, claims.EmployeeID)
	if err != nil {
		failApproval(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"approval": approval})
}

// Approve godoc
// POST /api/v1/invoices/:id/approve
func (h *ApprovalHandler) Approve(c *gin.Context) {
	h.act(c, h.approvalService.Approve)
}

// Reject godoc
// POST /api/v1/invoices/:id/reject
func (h *ApprovalHandler) Reject(c *gin.Context) {
	h.act(c, h.approvalService.Reject)
}

// Recall godoc
// POST /api/v1/invoices/:id/recall
func (h *ApprovalHandler) Recall(c *gin.Context) {
	id, ok := parseInvoiceID(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	approval, err := h.approvalService.Recall(c.Request.Context(), id, claims.EmployeeID)
	if err != nil {
		failApproval(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"approval": approval})
}

// GetByInvoice godoc
// GET /api/v1/invoices/:id/approval
func (h *ApprovalHandler) GetByInvoice(c *gin.Context) {
	id, ok := parseInvoiceID(c)
	if !ok {
		return
	}

	approval, err := h.approvalService.GetByInvoice(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if approval == nil {
		response.Fail(c, http.StatusNotFound, response.ErrNoPendingApproval)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"approval": approval})
}

// AuditTrail godoc
// GET /api/v1/invoices/:id/audit
func (h *ApprovalHandler) AuditTrail(c *gin.Context) {
	id, ok := parseInvoiceID(c)
	if !ok {
		return
	}

	entries, err := h.approvalService.AuditTrail(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if entries == nil {
		entries = []model.ApprovalAuditEntry{}
	}
	response.Success(c, http.StatusOK, gin.H{"audit": entries})
}

// Pending godoc
// GET /api/v1/approvals/pending
// Lists stage runs waiting on the caller's role.
func (h *ApprovalHandler) Pending(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	stages, err := h.approvalService.PendingForRole(c.Request.Context(), claims.RoleID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if stages == nil {
		stages = []model.ApprovalStageRun{}
	}
	response.Success(c, http.StatusOK, gin.H{"pending": stages})
}

// act runs Approve or Reject with shared claim and payload handling.
func (h *ApprovalHandler) act(
	c *gin.Context,
	fn func(ctx context.Context, invoiceID uuid.UUID, actorID, roleID int, notes *string) (*model.InvoiceApproval, error),
) {
	id, ok := parseInvoiceID(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req approvalActionRequest
	if c.Request.ContentLength > 0 {
		if fields := validator.Bind(c, &req); fields != nil {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
			return
		}
	}

	approval, err := fn(c.Request.Context(), id, claims.EmployeeID, claims.RoleID, req.Notes)
	if err != nil {
		failApproval(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"approval": approval})
}

// failApproval maps approval service errors to API error codes.
func failApproval(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoActiveRoute):
		response.Fail(c, http.StatusConflict, response.ErrNoActiveRoute)
	case errors.Is(err, service.ErrRouteHasNoStages):
		response.Fail(c, http.StatusConflict, response.ErrRouteHasNoStages)
	case errors.Is(err, service.ErrApprovalInProgress):
		response.Fail(c, http.StatusConflict, response.ErrApprovalInProgress)
	case errors.Is(err, service.ErrInvoiceNotDraft):
		response.Fail(c, http.StatusConflict, response.ErrActionForbidden)
	case errors.Is(err, service.ErrNoPendingApproval):
		response.Fail(c, http.StatusNotFound, response.ErrNoPendingApproval)
	case errors.Is(err, service.ErrNotStageApprover), errors.Is(err, service.ErrNotSubmitter):
		response.Fail(c, http.StatusForbidden, response.ErrNotStageApprover)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
