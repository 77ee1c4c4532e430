package services

import (
	"context"

	"github.com/jmcduran/requisition_mgmt_app/internal/core/domain"
)

// RoleResolverSvcFacade derives approval authorization from organizational
// data. Role claims carried in bearer tokens are never trusted for stage
// gating; this service is the single source of truth.
type RoleResolverSvcFacade interface {
	// ResolveRoles returns every approval stage the principal may act as.
	// The supervisor stage is included when the principal supervises anyone;
	// whether they may act on a particular requisition additionally depends on
	// being that requisition's resolved supervisor.
	ResolveRoles(ctx context.Context, principalEmail string) ([]domain.ApprovalStage, error)

	// ResolveSupervisorOf returns the requester's direct supervisor. The
	// supervisor stage is person-specific: it is resolved per requisition at
	// submission time rather than from a flat role table.
	ResolveSupervisorOf(ctx context.Context, requesterEmail string) (*domain.Employee, error)

	// EligiblePrincipals returns the employees who may act at the given stage
	// of the given requisition: the resolved supervisor for the supervisor
	// stage, every holder of the flat role otherwise.
	EligiblePrincipals(ctx context.Context, requisition *domain.Requisition, stage domain.ApprovalStage) ([]domain.Employee, error)
}
