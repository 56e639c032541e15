package model

import (
	"time"

	"github.com/google/uuid"
)

// InvoiceApprovalState tracks where an invoice is in its approval lifecycle.
type InvoiceApprovalState string

const (
	InvoiceDraft      InvoiceApprovalState = "draft"
	InvoiceInApproval InvoiceApprovalState = "in_approval"
	InvoiceApproved   InvoiceApprovalState = "approved"
	InvoiceRejected   InvoiceApprovalState = "rejected"
)

// Invoice is a payable document issued by a contractor.
// AmountCents is stored in minor currency units to avoid float rounding.
type Invoice struct {
	ID              uuid.UUID            `json:"id"`
	Number          string               `json:"number"`
	InvoiceTypeID   int                  `json:"invoice_type_id"`
	ContractorID    int                  `json:"contractor_id"`
	AmountCents     int64                `json:"amount_cents"`
	PaymentStatusID *int                 `json:"payment_status_id,omitempty"`
	ApprovalState   InvoiceApprovalState `json:"approval_state"`
	Comment         *string              `json:"comment,omitempty"`
	FilePath        *string              `json:"file_path,omitempty"`
	CreatedBy       int                  `json:"created_by"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// CreateInvoiceRequest is the payload for creating an invoice.
type CreateInvoiceRequest struct {
	Number        string  `json:"number" binding:"required"`
	InvoiceTypeID int     `json:"invoice_type_id" binding:"required"`
	ContractorID  int     `json:"contractor_id" binding:"required"`
	AmountCents   int64   `json:"amount_cents" binding:"required,gt=0"`
	Comment       *string `json:"comment,omitempty"`
	FilePath      *string `json:"file_path,omitempty"`
}

// UpdateInvoiceRequest is a partial update to an invoice. Nil fields are
// left unchanged. Amount and files may be restricted by the permissions of
// the invoice's current approval stage.
type UpdateInvoiceRequest struct {
	Number      *string `json:"number,omitempty"`
	AmountCents *int64  `json:"amount_cents,omitempty"`
	Comment     *string `json:"comment,omitempty"`
	FilePath    *string `json:"file_path,omitempty"`
}
