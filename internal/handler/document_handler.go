package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/payhub/payhub-backend/internal/client"
	"github.com/payhub/payhub-backend/internal/response"
	"github.com/payhub/payhub-backend/internal/service"
	"github.com/payhub/payhub-backend/internal/validator"
)

// DocumentHandler exposes standalone document operations: upload, page
// rendering, and region cropping for stamp extraction.
type DocumentHandler struct {
	documentService *service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// Upload godoc
// POST /api/v1/documents
func (h *DocumentHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	path, err := h.documentService.SaveUpload(c.Request.Context(), file, header)
	if err != nil {
		failDocument(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"path": path})
}

type renderRequest struct {
	Path string `json:"path" binding:"required"`
	Page int    `json:"page" binding:"required,min=1"`
}

// Render godoc
// POST /api/v1/documents/render
// Returns the requested PDF page as a PNG image.
func (h *DocumentHandler) Render(c *gin.Context) {
	var req renderRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	img, err := h.documentService.RenderPage(c.Request.Context(), req.Path, req.Page)
	if err != nil {
		failDocument(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", img)
}

type cropRequest struct {
	Path string          `json:"path" binding:"required"`
	Page int             `json:"page" binding:"required,min=1"`
	Rect client.CropRect `json:"rect" binding:"required"`
}

// Crop godoc
// POST /api/v1/documents/crop
// Cuts a page region out of a stored PDF, used to extract stamps and
// signatures as images.
func (h *DocumentHandler) Crop(c *gin.Context) {
	var req cropRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	img, err := h.documentService.CropRegion(c.Request.Context(), req.Path, req.Page, req.Rect)
	if err != nil {
		failDocument(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", img)
}

// failDocument maps document service errors to API error codes.
func failDocument(c *gin.Context, err error) {
	var httpErr *client.HTTPError
	switch {
	case errors.Is(err, service.ErrUnsupportedFileType):
		response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
	case errors.Is(err, service.ErrFileTooLarge):
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
	case errors.Is(err, service.ErrDocumentNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.As(err, &httpErr):
		response.Fail(c, http.StatusBadGateway, response.ErrConversionFailed)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
