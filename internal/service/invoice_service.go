package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/payhub/payhub-backend/internal/model"
	"github.com/payhub/payhub-backend/internal/repository"
	"github.com/rs/zerolog"
)

// Invoice edit errors.
var (
	ErrEditNotPermitted   = errors.New("invoice cannot be edited at its current approval stage")
	ErrAmountNotPermitted = errors.New("amount cannot be changed at the current approval stage")
	ErrFilesNotPermitted  = errors.New("files cannot be changed at the current approval stage")
)

// InvoiceService handles invoice CRUD. While an invoice is in approval, the
// permission set of its current stage decides what may still be edited.
type InvoiceService struct {
	invoices  *repository.InvoiceRepository
	approvals *ApprovalService
	log       zerolog.Logger
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(invoices *repository.InvoiceRepository, approvals *ApprovalService, log zerolog.Logger) *InvoiceService {
	return &InvoiceService{
		invoices:  invoices,
		approvals: approvals,
		log:       log.With().Str("component", "invoice_service").Logger(),
	}
}

// GetByID retrieves an invoice.
func (s *InvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	return s.invoices.GetByID(ctx, id)
}

// List retrieves invoices newest first, with total count for pagination.
func (s *InvoiceService) List(ctx context.Context, limit, offset int) ([]model.Invoice, int, error) {
	return s.invoices.ListPaginated(ctx, limit, offset)
}

// Create registers a new invoice in draft state.
func (s *InvoiceService) Create(ctx context.Context, req model.CreateInvoiceRequest, createdBy int) (*model.Invoice, error) {
	inv := &model.Invoice{
		Number:        req.Number,
		InvoiceTypeID: req.InvoiceTypeID,
		ContractorID:  req.ContractorID,
		AmountCents:   req.AmountCents,
		Comment:       req.Comment,
		FilePath:      req.FilePath,
		CreatedBy:     createdBy,
	}
	if err := s.invoices.Create(ctx, inv); err != nil {
		return nil, err
	}
	s.log.Info().Str("invoice_id", inv.ID.String()).Str("number", inv.Number).Msg("Invoice created")
	return inv, nil
}

// Update applies a partial edit. Drafts and rejected invoices are freely
// editable; an invoice in approval is gated by the current stage's
// permission set.
func (s *InvoiceService) Update(ctx context.Context, id uuid.UUID, upd model.UpdateInvoiceRequest) (*model.Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if inv.ApprovalState == model.InvoiceInApproval {
		perms, err := s.approvals.CurrentStagePermissions(ctx, id)
		if err != nil {
			return nil, err
		}
		if !perms.Enabled(model.StagePermEditInvoice) {
			return nil, ErrEditNotPermitted
		}
		if upd.AmountCents != nil && !perms.Enabled(model.StagePermEditAmount) {
			return nil, ErrAmountNotPermitted
		}
		if upd.FilePath != nil && !perms.Enabled(model.StagePermAddFiles) {
			return nil, ErrFilesNotPermitted
		}
	}

	return s.invoices.Update(ctx, id, upd)
}

// AttachFile records an uploaded document on the invoice, subject to the
// same stage gating as other file edits.
func (s *InvoiceService) AttachFile(ctx context.Context, id uuid.UUID, filePath string) (*model.Invoice, error) {
	return s.Update(ctx, id, model.UpdateInvoiceRequest{FilePath: &filePath})
}

// Delete removes an invoice. Invoices in approval cannot be deleted — the
// run must be recalled or completed first.
func (s *InvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if inv.ApprovalState == model.InvoiceInApproval {
		return ErrEditNotPermitted
	}
	return s.invoices.Delete(ctx, id)
}
