package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jmcduran/requisition_mgmt_app/internal/apperrors"
	"github.com/jmcduran/requisition_mgmt_app/internal/core/domain"
	portsrepo "github.com/jmcduran/requisition_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/jmcduran/requisition_mgmt_app/internal/core/ports/services"
	"github.com/jmcduran/requisition_mgmt_app/internal/middleware"
)

// approvalEngine is the state machine core: it validates a requested
// transition, applies it atomically and triggers the post-commit side effects.
type approvalEngine struct {
	requisitionRepo portsrepo.RequisitionRepositoryFacade
	employeeRepo    portsrepo.EmployeeRepositoryFacade
	roleResolver    portssvc.RoleResolverSvcFacade
	dispatcher      portssvc.NotificationDispatcherSvcFacade
}

// NewApprovalEngine creates the approval state machine service.
func NewApprovalEngine(
	requisitionRepo portsrepo.RequisitionRepositoryFacade,
	employeeRepo portsrepo.EmployeeRepositoryFacade,
	roleResolver portssvc.RoleResolverSvcFacade,
	dispatcher portssvc.NotificationDispatcherSvcFacade,
) portssvc.ApprovalSvcFacade {
	return &approvalEngine{
		requisitionRepo: requisitionRepo,
		employeeRepo:    employeeRepo,
		roleResolver:    roleResolver,
		dispatcher:      dispatcher,
	}
}

var _ portssvc.ApprovalSvcFacade = (*approvalEngine)(nil)

// Act validates and applies one role's decision on a pending requisition.
// Validation order is fixed: existence/terminality, stage gating, comment
// requirement, adjustment monotonicity. No write happens until every check
// passed; the repository re-verifies the stage under lock so two concurrent
// actors at the same stage cannot both succeed.
func (s *approvalEngine) Act(ctx context.Context, cmd portssvc.ActCommand) (*portssvc.ActResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !cmd.ActingRole.IsValid() {
		return nil, fmt.Errorf("%w: unknown approval role %q", apperrors.ErrValidation, cmd.ActingRole)
	}
	if cmd.Decision != domain.DecisionApproved && cmd.Decision != domain.DecisionRejected {
		return nil, fmt.Errorf("%w: decision must be APPROVED or REJECTED", apperrors.ErrValidation)
	}

	// 1. The requisition exists and is not already terminal.
	requisition, err := s.requisitionRepo.FindRequisitionByID(ctx, cmd.RequisitionID)
	if err != nil {
		return nil, err
	}
	if requisition.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: requisition %s is %s", apperrors.ErrAlreadyFinalized, requisition.Code, requisition.Status)
	}

	// 2. The acting role must equal the current pending stage, and the acting
	// principal must actually hold that role for this requisition.
	records, err := s.requisitionRepo.FindApprovalRecords(ctx, cmd.RequisitionID)
	if err != nil {
		return nil, err
	}
	stage, pending := domain.CurrentPendingStage(records)
	if !pending || stage != cmd.ActingRole {
		return nil, fmt.Errorf("%w: current pending stage is %s", apperrors.ErrNotAuthorizedForStage, stage)
	}
	if err := s.authorizePrincipal(ctx, requisition, cmd.ActingRole, cmd.PrincipalEmail); err != nil {
		return nil, err
	}

	// 3. Rejections require a comment.
	if cmd.Decision == domain.DecisionRejected && strings.TrimSpace(cmd.Comment) == "" {
		return nil, apperrors.ErrCommentRequired
	}

	// 4. Quantity adjustments are downward only, and only at the three
	// post-supervisor stages.
	items, err := s.requisitionRepo.FindLineItems(ctx, cmd.RequisitionID)
	if err != nil {
		return nil, err
	}
	if len(cmd.Adjustments) > 0 {
		if !cmd.ActingRole.AllowsAdjustments() {
			return nil, fmt.Errorf("%w: stage %s does not adjust quantities", apperrors.ErrValidation, cmd.ActingRole)
		}
		if err := validateAdjustments(items, cmd.Adjustments); err != nil {
			return nil, err
		}
	}

	actorName := cmd.PrincipalEmail
	actorID := ""
	if actor, err := s.employeeRepo.FindEmployeeByEmail(ctx, cmd.PrincipalEmail); err == nil {
		actorName = actor.Name
		actorID = actor.EmployeeID
	}

	now := time.Now().UTC()
	record := domain.ApprovalRecord{
		ApprovalID:     uuid.NewString(),
		RequisitionID:  cmd.RequisitionID,
		Stage:          cmd.ActingRole,
		PrincipalEmail: cmd.PrincipalEmail,
		PrincipalName:  actorName,
		Decision:       cmd.Decision,
		Comment:        strings.TrimSpace(cmd.Comment),
		DecidedAt:      now,
	}
	event := s.auditEventFor(requisition, record, actorID)

	// The approval record, quantity changes, total recomputation, status and
	// timestamp updates and the audit event land in one transaction.
	updated, updatedItems, err := s.requisitionRepo.ApplyDecision(ctx, cmd.RequisitionID, cmd.ActingRole, record, cmd.Adjustments, event)
	if err != nil {
		return nil, err
	}

	logger.Info("Requisition decision recorded",
		slog.String("requisition_id", updated.RequisitionID),
		slog.String("code", updated.Code),
		slog.String("stage", string(cmd.ActingRole)),
		slog.String("decision", string(cmd.Decision)),
		slog.String("status", string(updated.Status)),
	)

	// Post-commit side effects are best-effort and never fail the decision.
	s.dispatcher.NotifyOutcome(ctx, updated, cmd.Decision, cmd.ActingRole, actorName, record.Comment)

	result := &portssvc.ActResult{Requisition: updated, Items: updatedItems}
	if updated.Status == domain.StatusPending {
		if next, ok := domain.NextStage(cmd.ActingRole); ok {
			result.PendingStage = next
		}
	}
	return result, nil
}

// authorizePrincipal checks that the principal actually holds the acting role.
// The supervisor stage is person-specific: only the supervisor resolved at
// submission time may act. The three flat roles are checked against role
// membership.
func (s *approvalEngine) authorizePrincipal(ctx context.Context, requisition *domain.Requisition, role domain.ApprovalStage, principalEmail string) error {
	if role == domain.StageSupervisor {
		if !strings.EqualFold(principalEmail, requisition.SupervisorEmail) {
			return fmt.Errorf("%w: %s is not the supervisor of this requisition", apperrors.ErrNotAuthorizedForStage, principalEmail)
		}
		return nil
	}

	roles, err := s.roleResolver.ResolveRoles(ctx, principalEmail)
	if err != nil {
		return err
	}
	for _, held := range roles {
		if held == role {
			return nil
		}
	}
	return fmt.Errorf("%w: %s does not hold role %s", apperrors.ErrNotAuthorizedForStage, principalEmail, role)
}

func (s *approvalEngine) auditEventFor(requisition *domain.Requisition, record domain.ApprovalRecord, actorID string) domain.AuditEvent {
	event := domain.AuditEvent{
		AuditID:       uuid.NewString(),
		RequisitionID: requisition.RequisitionID,
		ActorID:       actorID,
		ActorName:     record.PrincipalName,
		Observations:  record.Comment,
		OccurredAt:    record.DecidedAt,
	}
	if record.Decision == domain.DecisionRejected {
		event.ActionType = domain.ActionRejected
		event.Description = fmt.Sprintf("Rejected at stage %s", record.Stage)
		event.Observations = "Reason: " + record.Comment
	} else {
		event.ActionType = domain.ApprovalActionFor(record.Stage)
		event.Description = fmt.Sprintf("Approved at stage %s", record.Stage)
	}
	return event
}

// validateAdjustments enforces the monotonic-decrease rule against the current
// line items.
func validateAdjustments(items []domain.LineItem, adjustments []domain.QuantityAdjustment) error {
	byProduct := make(map[string]domain.LineItem, len(items))
	for _, li := range items {
		byProduct[li.ProductID] = li
	}
	for _, adj := range adjustments {
		item, found := byProduct[adj.ProductID]
		if !found {
			return fmt.Errorf("%w: line item for product %s", apperrors.ErrNotFound, adj.ProductID)
		}
		if adj.NewQuantity.IsNegative() || adj.NewQuantity.IsZero() {
			return fmt.Errorf("%w: adjusted quantity must be positive for product %s", apperrors.ErrValidation, adj.ProductID)
		}
		if adj.NewQuantity.GreaterThan(item.Quantity) {
			return fmt.Errorf("%w: product %s has quantity %s, requested %s",
				apperrors.ErrQuantityIncrease, adj.ProductID, item.Quantity.String(), adj.NewQuantity.String())
		}
	}
	return nil
}
