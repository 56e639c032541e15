package model

import (
	"time"

	"github.com/google/uuid"
)

// ApprovalStatus is the lifecycle of an approval instance.
type ApprovalStatus string

const (
	ApprovalInProgress ApprovalStatus = "in_progress"
	ApprovalApproved   ApprovalStatus = "approved"
	ApprovalRejected   ApprovalStatus = "rejected"
	ApprovalRecalled   ApprovalStatus = "recalled"
)

// InvoiceApproval is an approval run created when an invoice is submitted.
// It snapshots the route's stage list at submission time, so later edits to
// the route do not disturb approvals already in flight.
type InvoiceApproval struct {
	ID           int                `json:"id"`
	InvoiceID    uuid.UUID          `json:"invoice_id"`
	RouteID      int                `json:"route_id"`
	Status       ApprovalStatus     `json:"status"`
	TotalStages  int                `json:"total_stages"`
	CurrentStage int                `json:"current_stage"`
	SubmittedBy  int                `json:"submitted_by"`
	SubmittedAt  time.Time          `json:"submitted_at"`
	CompletedAt  *time.Time         `json:"completed_at,omitempty"`
	Stages       []ApprovalStageRun `json:"stages,omitempty"`
}

// ApprovalStageRunStatus is the state of one snapshotted stage.
type ApprovalStageRunStatus string

const (
	StageRunPending  ApprovalStageRunStatus = "pending"
	StageRunApproved ApprovalStageRunStatus = "approved"
	StageRunRejected ApprovalStageRunStatus = "rejected"
	StageRunRecalled ApprovalStageRunStatus = "recalled"
)

// ApprovalStageRun is one stage of an approval run. Name, role, status and
// permissions are copied from the route stage at submission time.
type ApprovalStageRun struct {
	ID              int                    `json:"id"`
	ApprovalID      int                    `json:"approval_id"`
	StageIndex      int                    `json:"stage_index"`
	Name            string                 `json:"name"`
	RoleID          int                    `json:"role_id"`
	PaymentStatusID *int                   `json:"payment_status_id,omitempty"`
	Permissions     PermissionSet          `json:"permissions"`
	Status          ApprovalStageRunStatus `json:"status"`
	ActedBy         *int                   `json:"acted_by,omitempty"`
	ActedAt         *time.Time             `json:"acted_at,omitempty"`
	Notes           *string                `json:"notes,omitempty"`
}

// ApprovalAuditEntry is one immutable record of an approval action.
type ApprovalAuditEntry struct {
	ID           int       `json:"id"`
	InvoiceID    uuid.UUID `json:"invoice_id"`
	ApprovalID   *int      `json:"approval_id,omitempty"`
	Action       string    `json:"action"` // submitted | approved | rejected | recalled
	PerformedBy  int       `json:"performed_by"`
	PerformedAt  time.Time `json:"performed_at"`
	StatusBefore *int      `json:"status_before,omitempty"`
	StatusAfter  *int      `json:"status_after,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
}
