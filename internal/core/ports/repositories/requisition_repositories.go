package repositories

import (
	"context"
	"time"

	"github.com/jmcduran/requisition_mgmt_app/internal/core/domain"
)

// RequisitionReader defines read operations for requisition data.
type RequisitionReader interface {
	// FindRequisitionByID retrieves a requisition by its unique identifier.
	FindRequisitionByID(ctx context.Context, requisitionID string) (*domain.Requisition, error)

	// FindRequisitionByCode retrieves a requisition by its human-readable code.
	FindRequisitionByCode(ctx context.Context, code string) (*domain.Requisition, error)

	// FindLineItems retrieves all line items of a requisition.
	FindLineItems(ctx context.Context, requisitionID string) ([]domain.LineItem, error)

	// FindApprovalRecords retrieves the full append-only approval history of a
	// requisition, ordered by decision time ascending.
	FindApprovalRecords(ctx context.Context, requisitionID string) ([]domain.ApprovalRecord, error)

	// ListByRequester retrieves all requisitions submitted by the given
	// requester, newest first.
	ListByRequester(ctx context.Context, requesterEmail string) ([]domain.Requisition, error)

	// ListPendingAtStage retrieves all non-terminal requisitions whose derived
	// current pending stage equals the given stage, ordered by submission date
	// ascending (oldest pending first).
	ListPendingAtStage(ctx context.Context, stage domain.ApprovalStage) ([]domain.Requisition, error)
}

// RequisitionWriter defines write operations for requisition data.
type RequisitionWriter interface {
	// SaveRequisition persists a new requisition with its line items in one
	// transaction. The repository assigns the human-readable code from the
	// per-organizational-unit sequence and writes the initial audit events.
	SaveRequisition(ctx context.Context, requisition domain.Requisition, items []domain.LineItem, events []domain.AuditEvent) (*domain.Requisition, error)

	// ApplyDecision records one stage's decision as a single serializable unit:
	// it locks the requisition row, re-derives the current pending stage from
	// the approval history under that lock, and fails with
	// apperrors.ErrNotAuthorizedForStage when a concurrent actor got there
	// first (or apperrors.ErrAlreadyFinalized when the requisition is already
	// terminal). On success it appends the approval record, applies the
	// quantity adjustments with recomputed line and aggregate totals, updates
	// the overall status and stage timestamps, and appends the audit event,
	// all in the same transaction.
	ApplyDecision(ctx context.Context, requisitionID string, expectedStage domain.ApprovalStage, record domain.ApprovalRecord, adjustments []domain.QuantityAdjustment, event domain.AuditEvent) (*domain.Requisition, []domain.LineItem, error)

	// MarkDelivered records the physical hand-over of a fully approved
	// requisition: per-line delivered quantities, who delivered and who
	// received, the delivery timestamp and the audit event, atomically.
	MarkDelivered(ctx context.Context, requisitionID string, deliveredBy, receivedBy string, quantities []domain.DeliveredQuantity, event domain.AuditEvent, deliveredAt time.Time) error
}

// RequisitionRepositoryFacade combines all requisition repository interfaces.
type RequisitionRepositoryFacade interface {
	RequisitionReader
	RequisitionWriter
}
