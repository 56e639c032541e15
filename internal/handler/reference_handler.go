package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/payhub/payhub-backend/internal/model"
	"github.com/payhub/payhub-backend/internal/response"
	"github.com/payhub/payhub-backend/internal/service"
	"github.com/payhub/payhub-backend/internal/validator"
)

// ReferenceHandler exposes the invoice type and payment status reference
// lists consumed by the route editor and invoice forms.
type ReferenceHandler struct {
	referenceService *service.ReferenceService
}

// NewReferenceHandler creates a new ReferenceHandler.
func NewReferenceHandler(referenceService *service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{referenceService: referenceService}
}

type invoiceTypeRequest struct {
	Name string `json:"name" binding:"required"`
}

type paymentStatusRequest struct {
	Name  string  `json:"name" binding:"required"`
	Color *string `json:"color,omitempty"`
}

// ListInvoiceTypes godoc
// GET /api/v1/invoice-types
func (h *ReferenceHandler) ListInvoiceTypes(c *gin.Context) {
	types, err := h.referenceService.ListInvoiceTypes(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if types == nil {
		types = []model.InvoiceType{}
	}
	response.Success(c, http.StatusOK, gin.H{"invoice_types": types})
}

// CreateInvoiceType godoc
// POST /api/v1/invoice-types
func (h *ReferenceHandler) CreateInvoiceType(c *gin.Context) {
	var req invoiceTypeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	t := &model.InvoiceType{Name: req.Name}
	if err := h.referenceService.CreateInvoiceType(c.Request.Context(), t); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"invoice_type": t})
}

// UpdateInvoiceType godoc
// PUT /api/v1/invoice-types/:id
func (h *ReferenceHandler) UpdateInvoiceType(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req invoiceTypeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	t := &model.InvoiceType{ID: id, Name: req.Name}
	if err := h.referenceService.UpdateInvoiceType(c.Request.Context(), t); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "invoice type updated successfully"})
}

// DeleteInvoiceType godoc
// DELETE /api/v1/invoice-types/:id
func (h *ReferenceHandler) DeleteInvoiceType(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.referenceService.DeleteInvoiceType(c.Request.Context(), id); err != nil {
		response.Fail(c, http.StatusConflict, response.ErrDependencyExists)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "invoice type deleted successfully"})
}

// ListPaymentStatuses godoc
// GET /api/v1/payment-statuses
func (h *ReferenceHandler) ListPaymentStatuses(c *gin.Context) {
	statuses, err := h.referenceService.ListPaymentStatuses(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if statuses == nil {
		statuses = []model.PaymentStatus{}
	}
	response.Success(c, http.StatusOK, gin.H{"payment_statuses": statuses})
}

// CreatePaymentStatus godoc
// POST /api/v1/payment-statuses
func (h *ReferenceHandler) CreatePaymentStatus(c *gin.Context) {
	var req paymentStatusRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	st := &model.PaymentStatus{Name: req.Name, Color: req.Color}
	if err := h.referenceService.CreatePaymentStatus(c.Request.Context(), st); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"payment_status": st})
}

// UpdatePaymentStatus godoc
// PUT /api/v1/payment-statuses/:id
func (h *ReferenceHandler) UpdatePaymentStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req paymentStatusRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	st := &model.PaymentStatus{ID: id, Name: req.Name, Color: req.Color}
	if err := h.referenceService.UpdatePaymentStatus(c.Request.Context(), st); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "payment status updated successfully"})
}

// DeletePaymentStatus godoc
// DELETE /api/v1/payment-statuses/:id
func (h *ReferenceHandler) DeletePaymentStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.referenceService.DeletePaymentStatus(c.Request.Context(), id); err != nil {
		response.Fail(c, http.StatusConflict, response.ErrDependencyExists)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "payment status deleted successfully"})
}
