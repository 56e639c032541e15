package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/payhub/payhub-backend/internal/model"
)

// ApprovalRepository manages approval runs, their snapshotted stages, and
// the audit log. A run and its stage snapshot are always created together
// in one transaction.
type ApprovalRepository struct {
	pool *pgxpool.Pool
}

// NewApprovalRepository creates a new ApprovalRepository.
func NewApprovalRepository(pool *pgxpool.Pool) *ApprovalRepository {
	return &ApprovalRepository{pool: pool}
}

// Create inserts an approval run with its stage snapshot and moves the
// invoice into approval, all in one transaction.
func (r *ApprovalRepository) Create(ctx context.Context, a *model.InvoiceApproval, stages []model.ApprovalStageRun) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO invoice_approvals
		     (invoice_id, route_id, status, total_stages, current_stage, submitted_by)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, submitted_at`,
		a.InvoiceID, a.RouteID, a.Status, a.TotalStages, a.CurrentStage, a.SubmittedBy,
	).Scan(&a.ID, &a.SubmittedAt)
	if err != nil {
		return err
	}

	for i := range stages {
		s := &stages[i]
		s.ApprovalID = a.ID
		err := tx.QueryRow(ctx,
			`INSERT INTO invoice_approval_stages
			     (approval_id, stage_index, name, role_id, payment_status_id, permissions, status)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING id`,
			s.ApprovalID, s.StageIndex, s.Name, s.RoleID, s.PaymentStatusID, s.Permissions, s.Status,
		).Scan(&s.ID)
		if err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx,
		`UPDATE invoices SET approval_state = $2, updated_at = NOW() WHERE id = $1`,
		a.InvoiceID, model.InvoiceInApproval); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	a.Stages = stages
	return nil
}

// GetActiveByInvoiceID returns the in-progress approval for an invoice,
// or nil when none exists.
func (r *ApprovalRepository) GetActiveByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (*model.InvoiceApproval, error) {
	a := &model.InvoiceApproval{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, invoice_id, route_id, status, total_stages, current_stage,
		        submitted_by, submitted_at, completed_at
		 FROM invoice_approvals
		 WHERE invoice_id = $1 AND status = 'in_progress'
		 ORDER BY submitted_at DESC
		 LIMIT 1`, invoiceID,
	).Scan(&a.ID, &a.InvoiceID, &a.RouteID, &a.Status, &a.TotalStages, &a.CurrentStage,
		&a.SubmittedBy, &a.SubmittedAt, &a.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

// GetStageRuns returns the stage snapshot of an approval ordered by index.
func (r *ApprovalRepository) GetStageRuns(ctx context.Context, approvalID int) ([]model.ApprovalStageRun, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, approval_id, stage_index, name, role_id, payment_status_id,
		        permissions, status, acted_by, acted_at, notes
		 FROM invoice_approval_stages
		 WHERE approval_id = $1
		 ORDER BY stage_index`, approvalID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stages []model.ApprovalStageRun
	for rows.Next() {
		var s model.ApprovalStageRun
		if err := rows.Scan(&s.ID, &s.ApprovalID, &s.StageIndex, &s.Name, &s.RoleID,
			&s.PaymentStatusID, &s.Permissions, &s.Status, &s.ActedBy, &s.ActedAt, &s.Notes); err != nil {
			return nil, err
		}
		if s.Permissions == nil {
			s.Permissions = model.PermissionSet{}
		}
		stages = append(stages, s)
	}
	return stages, rows.Err()
}

// StageActionParams is one approval decision: the stage run's outcome plus
// every write that follows from it on the run and the invoice.
type StageActionParams struct {
	ApprovalID  int
	StageRunID  int // 0 when no pending stage run remains to mark
	StageStatus model.ApprovalStageRunStatus
	ActedBy     int
	Notes       *string

	InvoiceID       uuid.UUID
	PaymentStatusID *int // applied to the invoice when set

	NextStage    *int                        // move the run to this index, or
	RunStatus    *model.ApprovalStatus       // finish the run with this status
	InvoiceState *model.InvoiceApprovalState // invoice lifecycle state when the run finishes
}

// ApplyStageAction applies one approval decision in a single transaction.
// A failure anywhere rolls back everything, so a retry finds the stage
// still pending and no half-applied invoice updates.
func (r *ApprovalRepository) ApplyStageAction(ctx context.Context, p StageActionParams) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if p.StageRunID != 0 {
		if _, err := tx.Exec(ctx,
			`UPDATE invoice_approval_stages
			 SET status = $2, acted_by = $3, acted_at = NOW(), notes = $4
			 WHERE id = $1`,
			p.StageRunID, p.StageStatus, p.ActedBy, p.Notes); err != nil {
			return err
		}
	}

	if p.PaymentStatusID != nil {
		if _, err := tx.Exec(ctx,
			`UPDATE invoices SET payment_status_id = $2, updated_at = NOW() WHERE id = $1`,
			p.InvoiceID, p.PaymentStatusID); err != nil {
			return err
		}
	}

	switch {
	case p.NextStage != nil:
		if _, err := tx.Exec(ctx,
			`UPDATE invoice_approvals SET current_stage = $2 WHERE id = $1`,
			p.ApprovalID, *p.NextStage); err != nil {
			return err
		}
	case p.RunStatus != nil:
		if _, err := tx.Exec(ctx,
			`UPDATE invoice_approvals SET status = $2, completed_at = NOW() WHERE id = $1`,
			p.ApprovalID, *p.RunStatus); err != nil {
			return err
		}
	}

	if p.InvoiceState != nil {
		if _, err := tx.Exec(ctx,
			`UPDATE invoices SET approval_state = $2, updated_at = NOW() WHERE id = $1`,
			p.InvoiceID, *p.InvoiceState); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// ListPendingForRole returns stage runs waiting on a given role across all
// in-progress approvals. Only the approval's current stage is offered.
func (r *ApprovalRepository) ListPendingForRole(ctx context.Context, roleID int) ([]model.ApprovalStageRun, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, s.approval_id, s.stage_index, s.name, s.role_id, s.payment_status_id,
		        s.permissions, s.status, s.acted_by, s.acted_at, s.notes
		 FROM invoice_approval_stages s
		 JOIN invoice_approvals a ON a.id = s.approval_id
		 WHERE s.role_id = $1
		   AND s.status = 'pending'
		   AND a.status = 'in_progress'
		   AND a.current_stage = s.stage_index
		 ORDER BY a.submitted_at ASC`, roleID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stages []model.ApprovalStageRun
	for rows.Next() {
		var s model.ApprovalStageRun
		if err := rows.Scan(&s.ID, &s.ApprovalID, &s.StageIndex, &s.Name, &s.RoleID,
			&s.PaymentStatusID, &s.Permissions, &s.Status, &s.ActedBy, &s.ActedAt, &s.Notes); err != nil {
			return nil, err
		}
		stages = append(stages, s)
	}
	return stages, rows.Err()
}

// InsertAudit appends an immutable audit record.
func (r *ApprovalRepository) InsertAudit(ctx context.Context, e *model.ApprovalAuditEntry) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO approval_audit_log
		     (invoice_id, approval_id, action, performed_by, status_before, status_after, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, performed_at`,
		e.InvoiceID, e.ApprovalID, e.Action, e.PerformedBy, e.StatusBefore, e.StatusAfter, e.Notes,
	).Scan(&e.ID, &e.PerformedAt)
}

// ListAuditByInvoice returns the audit trail for an invoice, oldest first.
func (r *ApprovalRepository) ListAuditByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]model.ApprovalAuditEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, invoice_id, approval_id, action, performed_by, performed_at,
		        status_before, status_after, notes
		 FROM approval_audit_log
		 WHERE invoice_id = $1
		 ORDER BY performed_at ASC`, invoiceID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.ApprovalAuditEntry
	for rows.Next() {
		var e model.ApprovalAuditEntry
		if err := rows.Scan(&e.ID, &e.InvoiceID, &e.ApprovalID, &e.Action, &e.PerformedBy,
			&e.PerformedAt, &e.StatusBefore, &e.StatusAfter, &e.Notes); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
