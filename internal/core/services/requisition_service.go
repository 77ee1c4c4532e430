package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jmcduran/requisition_mgmt_app/internal/apperrors"
	"github.com/jmcduran/requisition_mgmt_app/internal/core/domain"
	portsrepo "github.com/jmcduran/requisition_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/jmcduran/requisition_mgmt_app/internal/core/ports/services"
	"github.com/jmcduran/requisition_mgmt_app/internal/dto"
	"github.com/jmcduran/requisition_mgmt_app/internal/middleware"
)

// requisitionService covers the requester-facing lifecycle around the approval
// state machine: submission, detail reads and delivery.
type requisitionService struct {
	requisitionRepo portsrepo.RequisitionRepositoryFacade
	employeeRepo    portsrepo.EmployeeRepositoryFacade
	roleResolver    portssvc.RoleResolverSvcFacade
	dispatcher      portssvc.NotificationDispatcherSvcFacade
}

// NewRequisitionService creates the requisition lifecycle service.
func NewRequisitionService(
	requisitionRepo portsrepo.RequisitionRepositoryFacade,
	employeeRepo portsrepo.EmployeeRepositoryFacade,
	roleResolver portssvc.RoleResolverSvcFacade,
	dispatcher portssvc.NotificationDispatcherSvcFacade,
) portssvc.RequisitionSvcFacade {
	return &requisitionService{
		requisitionRepo: requisitionRepo,
		employeeRepo:    employeeRepo,
		roleResolver:    roleResolver,
		dispatcher:      dispatcher,
	}
}

var _ portssvc.RequisitionSvcFacade = (*requisitionService)(nil)

// Create submits a new requisition. The requester's supervisor is resolved at
// submission time and stored on the requisition; the repository assigns the
// human-readable code from the organizational unit's sequence.
func (s *requisitionService) Create(ctx context.Context, req dto.CreateRequisitionRequest, requesterEmail string) (*dto.CreateRequisitionResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	requester, err := s.employeeRepo.FindEmployeeByEmail(ctx, requesterEmail)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no employee record for %s", apperrors.ErrValidation, requesterEmail)
		}
		return nil, err
	}

	supervisor, err := s.roleResolver.ResolveSupervisorOf(ctx, requesterEmail)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s has no supervisor in the organizational hierarchy", apperrors.ErrValidation, requesterEmail)
		}
		return nil, err
	}

	now := time.Now().UTC()
	requisitionID := uuid.NewString()

	items := make([]domain.LineItem, len(req.Items))
	for i, itemReq := range req.Items {
		if itemReq.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: quantity must be positive for product %s", apperrors.ErrValidation, itemReq.ProductID)
		}
		if itemReq.UnitCost.IsNegative() {
			return nil, fmt.Errorf("%w: unit cost must not be negative for product %s", apperrors.ErrValidation, itemReq.ProductID)
		}
		items[i] = domain.LineItem{
			LineItemID:    uuid.NewString(),
			RequisitionID: requisitionID,
			ProductID:     itemReq.ProductID,
			ProductName:   itemReq.ProductName,
			Quantity:      itemReq.Quantity,
			UnitCost:      itemReq.UnitCost,
		}
		items[i].Recalculate()
	}

	requisition := domain.Requisition{
		RequisitionID:   requisitionID,
		RequesterID:     requester.EmployeeID,
		RequesterName:   requester.Name,
		RequesterEmail:  requester.Email,
		SupervisorEmail: supervisor.Email,
		OrgUnitID:       requester.OrgUnitID,
		OrgUnitName:     requester.OrgUnitName,
		Status:          domain.StatusPending,
		RequesterNotes:  strings.TrimSpace(req.RequesterNotes),
		TotalAmount:     domain.TotalOf(items),
		StageTimestamps: domain.StageTimestamps{SubmittedAt: now},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requester.EmployeeID,
			LastUpdatedAt: now,
			LastUpdatedBy: requester.EmployeeID,
		},
	}

	events := []domain.AuditEvent{
		{
			AuditID:       uuid.NewString(),
			RequisitionID: requisitionID,
			ActionType:    domain.ActionCreated,
			ActorID:       requester.EmployeeID,
			ActorName:     requester.Name,
			Description:   "Requisition created",
			OccurredAt:    now,
		},
		{
			AuditID:       uuid.NewString(),
			RequisitionID: requisitionID,
			ActionType:    domain.ActionSubmitted,
			ActorID:       requester.EmployeeID,
			ActorName:     requester.Name,
			Description:   fmt.Sprintf("Submitted for approval to %s", supervisor.Name),
			OccurredAt:    now,
		},
	}

	saved, err := s.requisitionRepo.SaveRequisition(ctx, requisition, items, events)
	if err != nil {
		return nil, err
	}

	logger.Info("Requisition submitted",
		slog.String("requisition_id", saved.RequisitionID),
		slog.String("code", saved.Code),
		slog.String("requester", requester.Email),
		slog.String("supervisor", supervisor.Email),
	)

	s.dispatcher.NotifySubmitted(ctx, saved)

	return &dto.CreateRequisitionResponse{
		RequisitionID:   saved.RequisitionID,
		Code:            saved.Code,
		SupervisorName:  supervisor.Name,
		SupervisorEmail: supervisor.Email,
	}, nil
}

// GetByID returns the full detail view of one requisition.
func (s *requisitionService) GetByID(ctx context.Context, requisitionID string) (*dto.RequisitionResponse, error) {
	requisition, err := s.requisitionRepo.FindRequisitionByID(ctx, requisitionID)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, requisition)
}

// GetByCode returns the full detail view looked up by human-readable code.
func (s *requisitionService) GetByCode(ctx context.Context, code string) (*dto.RequisitionResponse, error) {
	requisition, err := s.requisitionRepo.FindRequisitionByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, requisition)
}

func (s *requisitionService) detail(ctx context.Context, requisition *domain.Requisition) (*dto.RequisitionResponse, error) {
	items, err := s.requisitionRepo.FindLineItems(ctx, requisition.RequisitionID)
	if err != nil {
		return nil, err
	}
	records, err := s.requisitionRepo.FindApprovalRecords(ctx, requisition.RequisitionID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToRequisitionResponse(requisition, items, records)
	return &resp, nil
}

// ListMine returns the requester's own requisitions, newest first.
func (s *requisitionService) ListMine(ctx context.Context, requesterEmail string) ([]dto.RequisitionResponse, error) {
	requisitions, err := s.requisitionRepo.ListByRequester(ctx, requesterEmail)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RequisitionResponse, 0, len(requisitions))
	for i := range requisitions {
		resp, err := s.detail(ctx, &requisitions[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

// MarkDelivered records the physical hand-over of a fully approved
// requisition.
func (s *requisitionService) MarkDelivered(ctx context.Context, requisitionID string, deliveredByEmail string, req dto.DeliverRequest) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	requisition, err := s.requisitionRepo.FindRequisitionByID(ctx, requisitionID)
	if err != nil {
		return err
	}
	if requisition.Status != domain.StatusApproved {
		return fmt.Errorf("%w: status is %s", apperrors.ErrNotDeliverable, requisition.Status)
	}
	if requisition.DeliveredAt != nil {
		return fmt.Errorf("%w: requisition %s was already delivered", apperrors.ErrDuplicate, requisition.Code)
	}

	items, err := s.requisitionRepo.FindLineItems(ctx, requisitionID)
	if err != nil {
		return err
	}
	byProduct := make(map[string]domain.LineItem, len(items))
	for _, li := range items {
		byProduct[li.ProductID] = li
	}

	quantities := make([]domain.DeliveredQuantity, len(req.Items))
	for i, itemReq := range req.Items {
		item, found := byProduct[itemReq.ProductID]
		if !found {
			return fmt.Errorf("%w: line item for product %s", apperrors.ErrNotFound, itemReq.ProductID)
		}
		if itemReq.Quantity.IsNegative() || itemReq.Quantity.GreaterThan(item.Quantity) {
			return fmt.Errorf("%w: delivered quantity for product %s must be between 0 and %s",
				apperrors.ErrValidation, itemReq.ProductID, item.Quantity.String())
		}
		quantities[i] = domain.DeliveredQuantity{ProductID: itemReq.ProductID, Quantity: itemReq.Quantity}
	}

	deliverer, err := s.employeeRepo.FindEmployeeByEmail(ctx, deliveredByEmail)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	event := domain.AuditEvent{
		AuditID:       uuid.NewString(),
		RequisitionID: requisitionID,
		ActionType:    domain.ActionDelivered,
		ActorID:       deliverer.EmployeeID,
		ActorName:     deliverer.Name,
		Description:   fmt.Sprintf("Delivered by %s, received by %s", deliverer.Name, req.ReceivedBy),
		OccurredAt:    now,
	}

	if err := s.requisitionRepo.MarkDelivered(ctx, requisitionID, deliverer.Name, req.ReceivedBy, quantities, event, now); err != nil {
		return err
	}

	logger.Info("Requisition delivered",
		slog.String("requisition_id", requisitionID),
		slog.String("code", requisition.Code),
		slog.String("delivered_by", deliverer.Email),
	)

	delivered := *requisition
	delivered.DeliveredAt = &now
	s.dispatcher.NotifyDelivered(ctx, &delivered)

	return nil
}
