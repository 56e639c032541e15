package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/payhub/payhub-backend/internal/middleware"
	"github.com/payhub/payhub-backend/internal/model"
	"github.com/payhub/payhub-backend/internal/response"
	"github.com/payhub/payhub-backend/internal/service"
	"github.com/payhub/payhub-backend/internal/validator"
)

// InvoiceHandler exposes invoice CRUD and document attachment endpoints.
type InvoiceHandler struct {
	invoiceService  *service.InvoiceService
	documentService *service.DocumentService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService *service.InvoiceService, documentService *service.DocumentService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, documentService: documentService}
}

// List godoc
// GET /api/v1/invoices?page=1&per_page=20
func (h *InvoiceHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	invoices, total, err := h.invoiceService.List(c.Request.Context(), perPage, (page-1)*perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if invoices == nil {
		invoices = []model.Invoice{}
	}

	totalPages := (total + perPage - 1) / perPage
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"invoices": invoices}, &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

// Get godoc
// GET /api/v1/invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := parseInvoiceID(c)
	if !ok {
		return
	}

	inv, err := h.invoiceService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"invoice": inv})
}

// Create godoc
// POST /api/v1/invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateInvoiceRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	inv, err := h.invoiceService.Create(c.Request.Context(), req, claims.EmployeeID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"invoice": inv})
}

// Update godoc
// PATCH /api/v1/invoices/:id
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := parseInvoiceID(c)
	if !ok {
		return
	}

	var req model.UpdateInvoiceRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	inv, err := h.invoiceService.Update(c.Request.Context(), id, req)
	if err != nil {
		failInvoiceEdit(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"invoice": inv})
}

// Delete godoc
// DELETE /api/v1/invoices/:id
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := parseInvoiceID(c)
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), id); err != nil {
		failInvoiceEdit(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "invoice deleted successfully"})
}

// UploadDocument godoc
// POST /api/v1/invoices/:id/document
// Stores the uploaded file (converting office documents to PDF) and
// attaches it to the invoice, subject to stage permission gating.
func (h *InvoiceHandler) UploadDocument(c *gin.Context) {
	id, ok := parseInvoiceID(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	path, err := h.documentService.SaveUpload(c.Request.Context(), file, header)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedFileType):
			response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
		case errors.Is(err, service.ErrFileTooLarge):
			response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		default:
			response.Fail(c, http.StatusBadGateway, response.ErrConversionFailed)
		}
		return
	}

	inv, err := h.invoiceService.AttachFile(c.Request.Context(), id, path)
	if err != nil {
		failInvoiceEdit(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"invoice": inv})
}

func parseInvoiceID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

// failInvoiceEdit maps invoice service errors to API error codes.
func failInvoiceEdit(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrEditNotPermitted),
		errors.Is(err, service.ErrAmountNotPermitted),
		errors.Is(err, service.ErrFilesNotPermitted):
		response.FailWithMessage(c, http.StatusForbidden, response.ErrActionForbidden, err.Error())
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
