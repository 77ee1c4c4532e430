package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jmcduran/requisition_mgmt_app/internal/apperrors"
	"github.com/jmcduran/requisition_mgmt_app/internal/core/domain"
	portsrepo "github.com/jmcduran/requisition_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/jmcduran/requisition_mgmt_app/internal/core/ports/services"
	"github.com/jmcduran/requisition_mgmt_app/internal/dto"
)

// pendingQueryService computes, per principal, the requisitions currently
// awaiting that principal's action.
type pendingQueryService struct {
	requisitionRepo portsrepo.RequisitionRepositoryFacade
	roleResolver    portssvc.RoleResolverSvcFacade
}

// NewPendingQueryService creates the pending-queue read service.
func NewPendingQueryService(requisitionRepo portsrepo.RequisitionRepositoryFacade, roleResolver portssvc.RoleResolverSvcFacade) portssvc.PendingQuerySvcFacade {
	return &pendingQueryService{
		requisitionRepo: requisitionRepo,
		roleResolver:    roleResolver,
	}
}

var _ portssvc.PendingQuerySvcFacade = (*pendingQueryService)(nil)

// PendingFor returns the requisitions whose current pending stage matches the
// principal's resolved role, oldest submission first. When the principal holds
// several roles, the earliest stage in the fixed order is their acting role.
func (s *pendingQueryService) PendingFor(ctx context.Context, principalEmail string) (*dto.PendingListResponse, error) {
	roles, err := s.roleResolver.ResolveRoles(ctx, principalEmail)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, apperrors.ErrNotAuthorizedForAnyStage
	}

	stage := actingStage(roles)

	requisitions, err := s.requisitionRepo.ListPendingAtStage(ctx, stage)
	if err != nil {
		return nil, err
	}

	resp := &dto.PendingListResponse{
		Stage:         string(stage),
		Requisitions:  make([]dto.PendingRequisitionSummary, 0, len(requisitions)),
		PendingAmount: decimal.Zero,
	}

	for _, req := range requisitions {
		// The supervisor queue is person-specific: only requisitions whose
		// resolved supervisor is this principal.
		if stage == domain.StageSupervisor && !strings.EqualFold(req.SupervisorEmail, principalEmail) {
			continue
		}

		items, err := s.requisitionRepo.FindLineItems(ctx, req.RequisitionID)
		if err != nil {
			return nil, err
		}

		resp.Requisitions = append(resp.Requisitions, dto.PendingRequisitionSummary{
			RequisitionID:  req.RequisitionID,
			Code:           req.Code,
			RequesterName:  req.RequesterName,
			OrgUnitName:    req.OrgUnitName,
			SubmittedAt:    req.SubmittedAt,
			RequesterNotes: req.RequesterNotes,
			TotalAmount:    req.TotalAmount,
			Items:          dto.ToLineItemResponses(items),
		})
		resp.PendingAmount = resp.PendingAmount.Add(req.TotalAmount)
	}

	return resp, nil
}

// actingStage picks the earliest stage in fixed order among the roles held.
func actingStage(roles []domain.ApprovalStage) domain.ApprovalStage {
	for _, stage := range domain.StageOrder {
		for _, held := range roles {
			if held == stage {
				return stage
			}
		}
	}
	return roles[0]
}
