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

type ContractorHandler struct {
	contractorService *service.ContractorService
}

func NewContractorHandler(contractorService *service.ContractorService) *ContractorHandler {
	return &ContractorHandler{contractorService: contractorService}
}

type contractorRequest struct {
	Name  string  `json:"name" binding:"required"`
	TaxID *string `json:"tax_id,omitempty"`
	Email *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone *string `json:"phone,omitempty"`
}

// List godoc
// GET /api/v1/contractors
func (h *ContractorHandler) List(c *gin.Context) {
	contractors, err := h.contractorService.ListContractors(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if contractors == nil {
		contractors = []model.Contractor{}
	}
	response.Success(c, http.StatusOK, gin.H{"contractors": contractors})
}

// Get godoc
// GET /api/v1/contractors/:id
func (h *ContractorHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	contractor, err := h.contractorService.GetContractorByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"contractor": contractor})
}

// Create godoc
// POST /api/v1/contractors
func (h *ContractorHandler) Create(c *gin.Context) {
	var req contractorRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	contractor := &model.Contractor{Name: req.Name, TaxID: req.TaxID, Email: req.Email, Phone: req.Phone}
	if err := h.contractorService.CreateContractor(c.Request.Context(), contractor); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"contractor": contractor})
}

// Update godoc
// PUT /api/v1/contractors/:id
func (h *ContractorHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req contractorRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	contractor := &model.Contractor{ID: id, Name: req.Name, TaxID: req.TaxID, Email: req.Email, Phone: req.Phone}
	if err := h.contractorService.UpdateContractor(c.Request.Context(), contractor); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "contractor updated successfully"})
}

// Delete godoc
// DELETE /api/v1/contractors/:id
func (h *ContractorHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.contractorService.DeleteContractor(c.Request.Context(), id); err != nil {
		response.Fail(c, http.StatusConflict, response.ErrDependencyExists)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "contractor deleted successfully"})
}
