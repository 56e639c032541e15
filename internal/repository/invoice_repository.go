package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/payhub/payhub-backend/internal/model"
)

// InvoiceRepository handles invoice data access.
type InvoiceRepository struct {
	pool *pgxpool.Pool
}

// NewInvoiceRepository creates a new InvoiceRepository.
func NewInvoiceRepository(pool *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{pool: pool}
}

const invoiceColumns = `id, number, invoice_type_id, contractor_id, amount_cents,
	payment_status_id, approval_state, comment, file_path, created_by, created_at, updated_at`

// GetByID retrieves an invoice by ID.
func (r *InvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	inv := &model.Invoice{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id,
	).Scan(&inv.ID, &inv.Number, &inv.InvoiceTypeID, &inv.ContractorID, &inv.AmountCents,
		&inv.PaymentStatusID, &inv.ApprovalState, &inv.Comment, &inv.FilePath,
		&inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// ListPaginated retrieves invoices newest first, with total count.
func (r *InvoiceRepository) ListPaginated(ctx context.Context, limit, offset int) ([]model.Invoice, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM invoices`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+invoiceColumns+` FROM invoices
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var invoices []model.Invoice
	for rows.Next() {
		var inv model.Invoice
		if err := rows.Scan(&inv.ID, &inv.Number, &inv.InvoiceTypeID, &inv.ContractorID, &inv.AmountCents,
			&inv.PaymentStatusID, &inv.ApprovalState, &inv.Comment, &inv.FilePath,
			&inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, 0, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, total, rows.Err()
}

// Create inserts a new invoice in draft state.
func (r *InvoiceRepository) Create(ctx context.Context, inv *model.Invoice) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO invoices
		     (number, invoice_type_id, contractor_id, amount_cents, comment, file_path, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, payment_status_id, approval_state, created_at, updated_at`,
		inv.Number, inv.InvoiceTypeID, inv.ContractorID, inv.AmountCents,
		inv.Comment, inv.FilePath, inv.CreatedBy,
	).Scan(&inv.ID, &inv.PaymentStatusID, &inv.ApprovalState, &inv.CreatedAt, &inv.UpdatedAt)
}

// Update applies a partial update to editable invoice fields.
func (r *InvoiceRepository) Update(ctx context.Context, id uuid.UUID, upd model.UpdateInvoiceRequest) (*model.Invoice, error) {
	inv := &model.Invoice{}
	err := r.pool.QueryRow(ctx,
		`UPDATE invoices
		 SET number       = COALESCE($2, number),
		     amount_cents = COALESCE($3, amount_cents),
		     comment      = COALESCE($4, comment),
		     file_path    = COALESCE($5, file_path),
		     updated_at   = NOW()
		 WHERE id = $1
		 RETURNING `+invoiceColumns,
		id, upd.Number, upd.AmountCents, upd.Comment, upd.FilePath,
	).Scan(&inv.ID, &inv.Number, &inv.InvoiceTypeID, &inv.ContractorID, &inv.AmountCents,
		&inv.PaymentStatusID, &inv.ApprovalState, &inv.Comment, &inv.FilePath,
		&inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// Delete removes an invoice.
func (r *InvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	return err
}
