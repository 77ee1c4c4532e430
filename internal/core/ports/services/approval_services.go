package services

import (
	"context"

	"github.com/jmcduran/requisition_mgmt_app/internal/core/domain"
)

// ActCommand carries one role's decision on a pending requisition.
type ActCommand struct {
	RequisitionID  string
	ActingRole     domain.ApprovalStage
	PrincipalEmail string
	Decision       domain.ApprovalDecision // APPROVED or REJECTED
	Comment        string                  // mandatory when rejecting
	Adjustments    []domain.QuantityAdjustment
}

// ActResult reports the state reached by a successful decision.
type ActResult struct {
	Requisition  *domain.Requisition
	Items        []domain.LineItem
	PendingStage domain.ApprovalStage // empty when the requisition is terminal
}

// ApprovalSvcFacade is the approval state machine: it validates a requested
// transition, applies it atomically against the ledger, and triggers the
// best-effort audit and notification side effects.
type ApprovalSvcFacade interface {
	Act(ctx context.Context, cmd ActCommand) (*ActResult, error)
}
