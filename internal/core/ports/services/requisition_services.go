package services

import (
	"context"

	"github.com/jmcduran/requisition_mgmt_app/internal/core/domain"
	"github.com/jmcduran/requisition_mgmt_app/internal/dto"
)

// RequisitionSvcFacade covers the requester-facing lifecycle operations that
// surround the approval state machine: submission, detail reads and delivery.
type RequisitionSvcFacade interface {
	// Create submits a new requisition for the given requester. The
	// requester's supervisor is resolved at submission time and the ledger
	// assigns the human-readable code.
	Create(ctx context.Context, req dto.CreateRequisitionRequest, requesterEmail string) (*dto.CreateRequisitionResponse, error)

	// GetByID returns the full detail view of one requisition.
	GetByID(ctx context.Context, requisitionID string) (*dto.RequisitionResponse, error)

	// GetByCode returns the full detail view looked up by human-readable code.
	GetByCode(ctx context.Context, code string) (*dto.RequisitionResponse, error)

	// ListMine returns the requester's own requisitions, newest first.
	ListMine(ctx context.Context, requesterEmail string) ([]dto.RequisitionResponse, error)

	// MarkDelivered records the physical hand-over of a fully approved
	// requisition.
	MarkDelivered(ctx context.Context, requisitionID string, deliveredByEmail string, req dto.DeliverRequest) error
}

// PendingQuerySvcFacade computes, per principal, the requisitions currently
// awaiting that principal's action.
type PendingQuerySvcFacade interface {
	// PendingFor resolves the principal's approval role and returns every
	// requisition whose current pending stage matches it, oldest submission
	// first. Principals holding no approval role fail with
	// apperrors.ErrNotAuthorizedForAnyStage.
	PendingFor(ctx context.Context, principalEmail string) (*dto.PendingListResponse, error)
}

// AuditRecorderSvcFacade appends immutable timeline entries and serves the
// audit read operations.
type AuditRecorderSvcFacade interface {
	// Append records one lifecycle action. A failed append is logged by the
	// caller but never undoes an already-committed state transition.
	Append(ctx context.Context, event domain.AuditEvent) error

	// Timeline returns the ordered audit events of a requisition.
	Timeline(ctx context.Context, requisitionID string) ([]domain.AuditEvent, error)

	// StageDurations computes elapsed days between lifecycle milestones from
	// the stage timestamps stored on the requisition.
	StageDurations(ctx context.Context, requisitionID string) (*domain.StageDurations, error)
}
