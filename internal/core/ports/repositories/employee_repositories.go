package repositories

import (
	"context"

	"github.com/jmcduran/requisition_mgmt_app/internal/core/domain"
)

// EmployeeReader defines read operations over the organizational hierarchy and
// role membership data that authorization decisions are derived from.
type EmployeeReader interface {
	// FindEmployeeByEmail retrieves an employee by institutional email.
	FindEmployeeByEmail(ctx context.Context, email string) (*domain.Employee, error)

	// FindEmployeeByID retrieves an employee by identifier.
	FindEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error)

	// FindRolesByEmail returns the approval stages the employee may act as.
	// The supervisor stage is never part of this set; it is person-specific
	// and resolved through FindSupervisorOf instead.
	FindRolesByEmail(ctx context.Context, email string) ([]domain.ApprovalStage, error)

	// FindSupervisorOf resolves the direct supervisor of the given requester
	// from the organizational hierarchy.
	FindSupervisorOf(ctx context.Context, requesterEmail string) (*domain.Employee, error)

	// ListByRole returns all active employees holding the given flat role.
	ListByRole(ctx context.Context, stage domain.ApprovalStage) ([]domain.Employee, error)

	// HasSubordinates reports whether the employee supervises anyone, which is
	// what makes them eligible for the supervisor stage.
	HasSubordinates(ctx context.Context, email string) (bool, error)
}

// EmployeeRepositoryFacade combines employee repository interfaces.
type EmployeeRepositoryFacade interface {
	EmployeeReader
}
