package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/payhub/payhub-backend/internal/config"
	"github.com/payhub/payhub-backend/internal/model"
	"github.com/payhub/payhub-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Approval flow errors, translated to API error codes by the handlers.
var (
	ErrNoActiveRoute      = errors.New("no active approval route for this invoice type")
	ErrRouteHasNoStages   = errors.New("the approval route has no stages configured")
	ErrApprovalInProgress = errors.New("invoice already has an approval in progress")
	ErrNoPendingApproval  = errors.New("invoice has no approval in progress")
	ErrNotStageApprover   = errors.New("employee's role does not match the current stage")
	ErrNotSubmitter       = errors.New("only the submitter can recall an approval")
	ErrInvoiceNotDraft    = errors.New("invoice is not in a submittable state")
)

// ApprovalEvent is pushed to the Redis event queue on every approval state
// change and fanned out to WebSocket subscribers by the notify worker.
type ApprovalEvent struct {
	Type       string    `json:"type"` // submitted | stage_approved | approved | rejected | recalled
	InvoiceID  uuid.UUID `json:"invoice_id"`
	ApprovalID int       `json:"approval_id"`
	StageIndex int       `json:"stage_index"`
	ActorID    int       `json:"actor_id"`
	At         time.Time `json:"at"`
}

// ApprovalStore is the persistence boundary of the approval flow.
// Implemented by repository.ApprovalRepository; narrowed to an interface so
// decision logic can be exercised without a database.
type ApprovalStore interface {
	Create(ctx context.Context, a *model.InvoiceApproval, stages []model.ApprovalStageRun) error
	GetActiveByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (*model.InvoiceApproval, error)
	GetStageRuns(ctx context.Context, approvalID int) ([]model.ApprovalStageRun, error)
	ApplyStageAction(ctx context.Context, p repository.StageActionParams) error
	ListPendingForRole(ctx context.Context, roleID int) ([]model.ApprovalStageRun, error)
	InsertAudit(ctx context.Context, e *model.ApprovalAuditEntry) error
	ListAuditByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]model.ApprovalAuditEntry, error)
}

// InvoiceReader looks invoices up for approval decisions.
type InvoiceReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
}

// ActiveRouteSource resolves the active route and its stage list for an
// invoice type at submission time.
type ActiveRouteSource interface {
	GetActiveRouteByType(ctx context.Context, invoiceTypeID int) (*model.Route, error)
	ListStages(ctx context.Context, routeID int) ([]model.Stage, error)
}

// ApprovalService runs invoices through their approval routes. Each
// submission snapshots the route's stage list, so route edits never disturb
// approvals already in flight.
type ApprovalService struct {
	approvals ApprovalStore
	invoices  InvoiceReader
	routes    ActiveRouteSource
	rdb       *redis.Client
	log       zerolog.Logger
}

// NewApprovalService creates a new ApprovalService.
func NewApprovalService(
	approvals ApprovalStore,
	invoices InvoiceReader,
	routes ActiveRouteSource,
	rdb *redis.Client,
	log zerolog.Logger,
) *ApprovalService {
	return &ApprovalService{
		approvals: approvals,
		invoices:  invoices,
		routes:    routes,
		rdb:       rdb,
		log:       log.With().Str("component", "approval_service").Logger(),
	}
}

// Submit starts an approval run for a draft invoice. The active route for
// the invoice's type is resolved and its stages are copied into the run.
func (s *ApprovalService) Submit(ctx context.Context, invoiceID uuid.UUID, submittedBy int) (*model.InvoiceApproval, error) {
	inv, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.ApprovalState != model.InvoiceDraft && inv.ApprovalState != model.InvoiceRejected {
		return nil, ErrInvoiceNotDraft
	}

	active, err := s.approvals.GetActiveByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, ErrApprovalInProgress
	}

	route, err := s.routes.GetActiveRouteByType(ctx, inv.InvoiceTypeID)
	if err != nil {
		return nil, ErrNoActiveRoute
	}
	stages, err := s.routes.ListStages(ctx, route.ID)
	if err != nil {
		return nil, err
	}
	if len(stages) == 0 {
		return nil, ErrRouteHasNoStages
	}

	approval := &model.InvoiceApproval{
		InvoiceID:    invoiceID,
		RouteID:      route.ID,
		Status:       model.ApprovalInProgress,
		TotalStages:  len(stages),
		CurrentStage: 0,
		SubmittedBy:  submittedBy,
	}
	runs := make([]model.ApprovalStageRun, len(stages))
	for i, st := range stages {
		runs[i] = model.ApprovalStageRun{
			StageIndex:      i,
			Name:            st.Name,
			RoleID:          *st.RoleID,
			PaymentStatusID: st.PaymentStatusID,
			Permissions:     st.Permissions.Clone(),
			Status:          model.StageRunPending,
		}
	}

	// Create also transitions the invoice to in_approval in the same
	// transaction.
	if err := s.approvals.Create(ctx, approval, runs); err != nil {
		return nil, err
	}

	s.audit(ctx, invoiceID, &approval.ID, "submitted", submittedBy, nil, nil, nil)
	s.publish(ctx, ApprovalEvent{
		Type: "submitted", InvoiceID: invoiceID, ApprovalID: approval.ID,
		StageIndex: 0, ActorID: submittedBy, At: time.Now(),
	})

	s.log.Info().
		Str("invoice_id", invoiceID.String()).
		Int("approval_id", approval.ID).
		Int("stages", len(runs)).
		Msg("Invoice submitted for approval")
	return approval, nil
}

// Approve records approval of the current stage by an employee whose role
// matches it. The stage's payment status, if any, is applied to the invoice.
// Approving the last stage completes the run. All writes of the decision
// land in one transaction, so a failure leaves the stage pending and
// retryable.
func (s *ApprovalService) Approve(ctx context.Context, invoiceID uuid.UUID, actorID, roleID int, notes *string) (*model.InvoiceApproval, error) {
	approval, run, err := s.currentStage(ctx, invoiceID, roleID)
	if err != nil {
		return nil, err
	}

	params := repository.StageActionParams{
		ApprovalID:  approval.ID,
		StageRunID:  run.ID,
		StageStatus: model.StageRunApproved,
		ActedBy:     actorID,
		Notes:       notes,
		InvoiceID:   invoiceID,
	}

	var before, after *int
	if run.PaymentStatusID != nil {
		inv, err := s.invoices.GetByID(ctx, invoiceID)
		if err != nil {
			return nil, err
		}
		before = inv.PaymentStatusID
		after = run.PaymentStatusID
		params.PaymentStatusID = run.PaymentStatusID
	}

	eventType := "stage_approved"
	if approval.CurrentStage == approval.TotalStages-1 {
		runStatus, invoiceState := model.ApprovalApproved, model.InvoiceApproved
		params.RunStatus = &runStatus
		params.InvoiceState = &invoiceState
		eventType = "approved"
	} else {
		next := approval.CurrentStage + 1
		params.NextStage = &next
	}

	if err := s.approvals.ApplyStageAction(ctx, params); err != nil {
		return nil, err
	}
	if params.RunStatus != nil {
		approval.Status = *params.RunStatus
	} else {
		approval.CurrentStage = *params.NextStage
	}

	s.audit(ctx, invoiceID, &approval.ID, "approved", actorID, before, after, notes)
	s.publish(ctx, ApprovalEvent{
		Type: eventType, InvoiceID: invoiceID, ApprovalID: approval.ID,
		StageIndex: run.StageIndex, ActorID: actorID, At: time.Now(),
	})
	return approval, nil
}

// Reject records rejection of the current stage and terminates the run. The
// invoice returns to an editable rejected state and can be resubmitted.
func (s *ApprovalService) Reject(ctx context.Context, invoiceID uuid.UUID, actorID, roleID int, notes *string) (*model.InvoiceApproval, error) {
	approval, run, err := s.currentStage(ctx, invoiceID, roleID)
	if err != nil {
		return nil, err
	}

	runStatus, invoiceState := model.ApprovalRejected, model.InvoiceRejected
	err = s.approvals.ApplyStageAction(ctx, repository.StageActionParams{
		ApprovalID:   approval.ID,
		StageRunID:   run.ID,
		StageStatus:  model.StageRunRejected,
		ActedBy:      actorID,
		Notes:        notes,
		InvoiceID:    invoiceID,
		RunStatus:    &runStatus,
		InvoiceState: &invoiceState,
	})
	if err != nil {
		return nil, err
	}
	approval.Status = model.ApprovalRejected

	s.audit(ctx, invoiceID, &approval.ID, "rejected", actorID, nil, nil, notes)
	s.publish(ctx, ApprovalEvent{
		Type: "rejected", InvoiceID: invoiceID, ApprovalID: approval.ID,
		StageIndex: run.StageIndex, ActorID: actorID, At: time.Now(),
	})
	return approval, nil
}

// Recall lets the submitter withdraw an in-progress approval. The invoice
// returns to draft.
func (s *ApprovalService) Recall(ctx context.Context, invoiceID uuid.UUID, actorID int) (*model.InvoiceApproval, error) {
	approval, err := s.approvals.GetActiveByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if approval == nil {
		return nil, ErrNoPendingApproval
	}
	if approval.SubmittedBy != actorID {
		return nil, ErrNotSubmitter
	}

	runs, err := s.approvals.GetStageRuns(ctx, approval.ID)
	if err != nil {
		return nil, err
	}
	stageRunID := 0
	for _, run := range runs {
		if run.StageIndex == approval.CurrentStage && run.Status == model.StageRunPending {
			stageRunID = run.ID
			break
		}
	}

	runStatus, invoiceState := model.ApprovalRecalled, model.InvoiceDraft
	err = s.approvals.ApplyStageAction(ctx, repository.StageActionParams{
		ApprovalID:   approval.ID,
		StageRunID:   stageRunID,
		StageStatus:  model.StageRunRecalled,
		ActedBy:      actorID,
		InvoiceID:    invoiceID,
		RunStatus:    &runStatus,
		InvoiceState: &invoiceState,
	})
	if err != nil {
		return nil, err
	}
	approval.Status = model.ApprovalRecalled

	s.audit(ctx, invoiceID, &approval.ID, "recalled", actorID, nil, nil, nil)
	s.publish(ctx, ApprovalEvent{
		Type: "recalled", InvoiceID: invoiceID, ApprovalID: approval.ID,
		StageIndex: approval.CurrentStage, ActorID: actorID, At: time.Now(),
	})
	return approval, nil
}

// GetByInvoice returns the in-progress approval with its stage runs, or nil
// when none exists.
func (s *ApprovalService) GetByInvoice(ctx context.Context, invoiceID uuid.UUID) (*model.InvoiceApproval, error) {
	approval, err := s.approvals.GetActiveByInvoiceID(ctx, invoiceID)
	if err != nil || approval == nil {
		return nil, err
	}
	runs, err := s.approvals.GetStageRuns(ctx, approval.ID)
	if err != nil {
		return nil, err
	}
	approval.Stages = runs
	return approval, nil
}

// PendingForRole lists stage runs currently waiting on a role.
func (s *ApprovalService) PendingForRole(ctx context.Context, roleID int) ([]model.ApprovalStageRun, error) {
	return s.approvals.ListPendingForRole(ctx, roleID)
}

// AuditTrail returns the approval audit log of an invoice, oldest first.
func (s *ApprovalService) AuditTrail(ctx context.Context, invoiceID uuid.UUID) ([]model.ApprovalAuditEntry, error) {
	return s.approvals.ListAuditByInvoice(ctx, invoiceID)
}

// CurrentStagePermissions returns the permission set of the invoice's
// current pending stage, or nil when the invoice is not in approval. Invoice
// edit endpoints consult this to gate amount and file changes.
func (s *ApprovalService) CurrentStagePermissions(ctx context.Context, invoiceID uuid.UUID) (model.PermissionSet, error) {
	approval, err := s.approvals.GetActiveByInvoiceID(ctx, invoiceID)
	if err != nil || approval == nil {
		return nil, err
	}
	runs, err := s.approvals.GetStageRuns(ctx, approval.ID)
	if err != nil {
		return nil, err
	}
	for _, run := range runs {
		if run.StageIndex == approval.CurrentStage {
			return run.Permissions, nil
		}
	}
	return nil, nil
}

// currentStage loads the active approval and its current pending stage run,
// enforcing that the acting role matches the stage.
func (s *ApprovalService) currentStage(ctx context.Context, invoiceID uuid.UUID, roleID int) (*model.InvoiceApproval, *model.ApprovalStageRun, error) {
	approval, err := s.approvals.GetActiveByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, nil, err
	}
	if approval == nil {
		return nil, nil, ErrNoPendingApproval
	}

	runs, err := s.approvals.GetStageRuns(ctx, approval.ID)
	if err != nil {
		return nil, nil, err
	}
	for i := range runs {
		run := &runs[i]
		if run.StageIndex != approval.CurrentStage || run.Status != model.StageRunPending {
			continue
		}
		if run.RoleID != roleID {
			return nil, nil, ErrNotStageApprover
		}
		return approval, run, nil
	}
	return nil, nil, ErrNoPendingApproval
}

func (s *ApprovalService) audit(
	ctx context.Context,
	invoiceID uuid.UUID,
	approvalID *int,
	action string,
	performedBy int,
	statusBefore, statusAfter *int,
	notes *string,
) {
	entry := &model.ApprovalAuditEntry{
		InvoiceID:    invoiceID,
		ApprovalID:   approvalID,
		Action:       action,
		PerformedBy:  performedBy,
		StatusBefore: statusBefore,
		StatusAfter:  statusAfter,
		Notes:        notes,
	}
	if err := s.approvals.InsertAudit(ctx, entry); err != nil {
		s.log.Error().Err(err).Str("invoice_id", invoiceID.String()).Str("action", action).
			Msg("Failed to write audit entry")
	}
}

// publish queues an event for the notify worker. Delivery is best-effort —
// a Redis outage must not fail the approval action itself.
func (s *ApprovalService) publish(ctx context.Context, event ApprovalEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to marshal approval event")
		return
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.ApprovalEventsQueue, payload).Err(); err != nil {
		s.log.Error().Err(err).Str("event_type", event.Type).Msg("Failed to queue approval event")
	}
}
