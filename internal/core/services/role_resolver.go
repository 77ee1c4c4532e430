package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmcduran/requisition_mgmt_app/internal/apperrors"
	"github.com/jmcduran/requisition_mgmt_app/internal/core/domain"
	portsrepo "github.com/jmcduran/requisition_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/jmcduran/requisition_mgmt_app/internal/core/ports/services"
)

// roleResolver derives approval authorization from employee role membership
// and the organizational hierarchy.
type roleResolver struct {
	employeeRepo portsrepo.EmployeeRepositoryFacade
}

// NewRoleResolver creates the role resolution service.
func NewRoleResolver(employeeRepo portsrepo.EmployeeRepositoryFacade) portssvc.RoleResolverSvcFacade {
	return &roleResolver{employeeRepo: employeeRepo}
}

var _ portssvc.RoleResolverSvcFacade = (*roleResolver)(nil)

// ResolveRoles returns the approval stages the principal may act as. The three
// flat roles come from role membership; the supervisor stage is held by anyone
// who supervises at least one employee.
func (s *roleResolver) ResolveRoles(ctx context.Context, principalEmail string) ([]domain.ApprovalStage, error) {
	email := strings.TrimSpace(strings.ToLower(principalEmail))
	if email == "" {
		return nil, fmt.Errorf("%w: principal email is required", apperrors.ErrValidation)
	}

	roles, err := s.employeeRepo.FindRolesByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	supervises, err := s.employeeRepo.HasSubordinates(ctx, email)
	if err != nil {
		return nil, err
	}
	if supervises {
		roles = append([]domain.ApprovalStage{domain.StageSupervisor}, roles...)
	}

	return roles, nil
}

// ResolveSupervisorOf resolves the requester's direct supervisor from the
// organizational hierarchy.
func (s *roleResolver) ResolveSupervisorOf(ctx context.Context, requesterEmail string) (*domain.Employee, error) {
	email := strings.TrimSpace(strings.ToLower(requesterEmail))
	if email == "" {
		return nil, fmt.Errorf("%w: requester email is required", apperrors.ErrValidation)
	}
	return s.employeeRepo.FindSupervisorOf(ctx, email)
}

// EligiblePrincipals returns who may act at the given stage of the given
// requisition: the resolved supervisor for the supervisor stage, every holder
// of the flat role otherwise.
func (s *roleResolver) EligiblePrincipals(ctx context.Context, requisition *domain.Requisition, stage domain.ApprovalStage) ([]domain.Employee, error) {
	if stage == domain.StageSupervisor {
		supervisor, err := s.employeeRepo.FindEmployeeByEmail(ctx, requisition.SupervisorEmail)
		if err != nil {
			return nil, err
		}
		return []domain.Employee{*supervisor}, nil
	}
	return s.employeeRepo.ListByRole(ctx, stage)
}
