package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/jmcduran/requisition_mgmt_app/internal/apperrors"
	"github.com/jmcduran/requisition_mgmt_app/internal/core/domain"
	portssvc "github.com/jmcduran/requisition_mgmt_app/internal/core/ports/services"
	"github.com/jmcduran/requisition_mgmt_app/internal/core/services"
)

type RoleResolverTestSuite struct {
	suite.Suite
	mockEmployeeRepo *MockEmployeeRepository
	service          portssvc.RoleResolverSvcFacade
}

func (suite *RoleResolverTestSuite) SetupTest() {
	suite.mockEmployeeRepo = new(MockEmployeeRepository)
	suite.service = services.NewRoleResolver(suite.mockEmployeeRepo)
}

func (suite *RoleResolverTestSuite) TestResolveRoles_FlatRolesOnly() {
	ctx := context.Background()

	suite.mockEmployeeRepo.On("FindRolesByEmail", ctx, "ana@example.org").
		Return([]domain.ApprovalStage{domain.StageAdminManager}, nil).Once()
	suite.mockEmployeeRepo.On("HasSubordinates", ctx, "ana@example.org").Return(false, nil).Once()

	roles, err := suite.service.ResolveRoles(ctx, "ana@example.org")

	suite.Require().NoError(err)
	suite.Equal([]domain.ApprovalStage{domain.StageAdminManager}, roles)
}

func (suite *RoleResolverTestSuite) TestResolveRoles_SupervisorDerivedFromHierarchy() {
	ctx := context.Background()

	suite.mockEmployeeRepo.On("FindRolesByEmail", ctx, "sam@example.org").
		Return([]domain.ApprovalStage{domain.StageMaterialsChief}, nil).Once()
	suite.mockEmployeeRepo.On("HasSubordinates", ctx, "sam@example.org").Return(true, nil).Once()

	roles, err := suite.service.ResolveRoles(ctx, "sam@example.org")

	suite.Require().NoError(err)
	suite.Equal([]domain.ApprovalStage{domain.StageSupervisor, domain.StageMaterialsChief}, roles)
}

func (suite *RoleResolverTestSuite) TestResolveRoles_NormalizesEmail() {
	ctx := context.Background()

	suite.mockEmployeeRepo.On("FindRolesByEmail", ctx, "sam@example.org").
		Return([]domain.ApprovalStage{}, nil).Once()
	suite.mockEmployeeRepo.On("HasSubordinates", ctx, "sam@example.org").Return(false, nil).Once()

	roles, err := suite.service.ResolveRoles(ctx, "  Sam@Example.ORG ")

	suite.Require().NoError(err)
	suite.Empty(roles)
	suite.mockEmployeeRepo.AssertExpectations(suite.T())
}

func (suite *RoleResolverTestSuite) TestResolveRoles_EmptyEmail() {
	_, err := suite.service.ResolveRoles(context.Background(), "   ")
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RoleResolverTestSuite) TestEligiblePrincipals_SupervisorStage() {
	ctx := context.Background()
	requisition := &domain.Requisition{SupervisorEmail: "sam@example.org"}
	supervisor := &domain.Employee{Name: "Sam Supervisor", Email: "sam@example.org"}

	suite.mockEmployeeRepo.On("FindEmployeeByEmail", ctx, "sam@example.org").Return(supervisor, nil).Once()

	principals, err := suite.service.EligiblePrincipals(ctx, requisition, domain.StageSupervisor)

	suite.Require().NoError(err)
	suite.Len(principals, 1)
	suite.Equal("sam@example.org", principals[0].Email)
	suite.mockEmployeeRepo.AssertNotCalled(suite.T(), "ListByRole", ctx, domain.StageSupervisor)
}

func (suite *RoleResolverTestSuite) TestEligiblePrincipals_FlatRole() {
	ctx := context.Background()
	holders := []domain.Employee{
		{Name: "Wes Warehouse", Email: "wes@example.org"},
		{Name: "Wanda Warehouse", Email: "wanda@example.org"},
	}

	suite.mockEmployeeRepo.On("ListByRole", ctx, domain.StageWarehouseStaff).Return(holders, nil).Once()

	principals, err := suite.service.EligiblePrincipals(ctx, &domain.Requisition{}, domain.StageWarehouseStaff)

	suite.Require().NoError(err)
	suite.Len(principals, 2)
}

func TestRoleResolverTestSuite(t *testing.T) {
	suite.Run(t, new(RoleResolverTestSuite))
}
