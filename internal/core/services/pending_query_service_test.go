package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/jmcduran/requisition_mgmt_app/internal/apperrors"
	"github.com/jmcduran/requisition_mgmt_app/internal/core/domain"
	portssvc "github.com/jmcduran/requisition_mgmt_app/internal/core/ports/services"
	"github.com/jmcduran/requisition_mgmt_app/internal/core/services"
)

type PendingQueryServiceTestSuite struct {
	suite.Suite
	mockRequisitionRepo *MockRequisitionRepository
	mockRoleResolver    *MockRoleResolver
	service             portssvc.PendingQuerySvcFacade
}

func (suite *PendingQueryServiceTestSuite) SetupTest() {
	suite.mockRequisitionRepo = new(MockRequisitionRepository)
	suite.mockRoleResolver = new(MockRoleResolver)
	suite.service = services.NewPendingQueryService(suite.mockRequisitionRepo, suite.mockRoleResolver)
}

func pendingRequisition(code, supervisorEmail string, total int64, submittedAt time.Time) domain.Requisition {
	return domain.Requisition{
		RequisitionID:   uuid.NewString(),
		Code:            code,
		RequesterName:   "Rita Requester",
		SupervisorEmail: supervisorEmail,
		Status:          domain.StatusPending,
		TotalAmount:     decimal.NewFromInt(total),
		StageTimestamps: domain.StageTimestamps{SubmittedAt: submittedAt},
	}
}

func (suite *PendingQueryServiceTestSuite) TestPendingFor_FlatRole() {
	ctx := context.Background()
	now := time.Now().UTC()
	first := pendingRequisition("WHSE-00001", "sam@example.org", 100, now.Add(-48*time.Hour))
	second := pendingRequisition("WHSE-00002", "sue@example.org", 250, now.Add(-24*time.Hour))

	suite.mockRoleResolver.On("ResolveRoles", ctx, "ana@example.org").
		Return([]domain.ApprovalStage{domain.StageAdminManager}, nil).Once()
	suite.mockRequisitionRepo.On("ListPendingAtStage", ctx, domain.StageAdminManager).
		Return([]domain.Requisition{first, second}, nil).Once()
	suite.mockRequisitionRepo.On("FindLineItems", ctx, first.RequisitionID).Return([]domain.LineItem{}, nil).Once()
	suite.mockRequisitionRepo.On("FindLineItems", ctx, second.RequisitionID).Return([]domain.LineItem{}, nil).Once()

	resp, err := suite.service.PendingFor(ctx, "ana@example.org")

	suite.Require().NoError(err)
	suite.Equal(string(domain.StageAdminManager), resp.Stage)
	suite.Len(resp.Requisitions, 2)
	suite.Equal("WHSE-00001", resp.Requisitions[0].Code)
	suite.True(resp.PendingAmount.Equal(decimal.NewFromInt(350)))
	suite.mockRequisitionRepo.AssertExpectations(suite.T())
}

func (suite *PendingQueryServiceTestSuite) TestPendingFor_SupervisorScopedToOwnReports() {
	ctx := context.Background()
	now := time.Now().UTC()
	mine := pendingRequisition("WHSE-00003", "sam@example.org", 80, now.Add(-2*time.Hour))
	someoneElses := pendingRequisition("WHSE-00004", "sue@example.org", 999, now.Add(-time.Hour))

	suite.mockRoleResolver.On("ResolveRoles", ctx, "sam@example.org").
		Return([]domain.ApprovalStage{domain.StageSupervisor}, nil).Once()
	suite.mockRequisitionRepo.On("ListPendingAtStage", ctx, domain.StageSupervisor).
		Return([]domain.Requisition{mine, someoneElses}, nil).Once()
	suite.mockRequisitionRepo.On("FindLineItems", ctx, mine.RequisitionID).Return([]domain.LineItem{}, nil).Once()

	resp, err := suite.service.PendingFor(ctx, "sam@example.org")

	suite.Require().NoError(err)
	suite.Len(resp.Requisitions, 1)
	suite.Equal("WHSE-00003", resp.Requisitions[0].Code)
	suite.True(resp.PendingAmount.Equal(decimal.NewFromInt(80)))
}

func (suite *PendingQueryServiceTestSuite) TestPendingFor_MultiRolePicksEarliestStage() {
	ctx := context.Background()

	// Holding SUPERVISOR and MATERIALS_CHIEF, the principal acts as
	// SUPERVISOR, the earliest stage in the fixed order.
	suite.mockRoleResolver.On("ResolveRoles", ctx, "sam@example.org").
		Return([]domain.ApprovalStage{domain.StageMaterialsChief, domain.StageSupervisor}, nil).Once()
	suite.mockRequisitionRepo.On("ListPendingAtStage", ctx, domain.StageSupervisor).
		Return([]domain.Requisition{}, nil).Once()

	resp, err := suite.service.PendingFor(ctx, "sam@example.org")

	suite.Require().NoError(err)
	suite.Equal(string(domain.StageSupervisor), resp.Stage)
	suite.Empty(resp.Requisitions)
	suite.mockRequisitionRepo.AssertExpectations(suite.T())
}

func (suite *PendingQueryServiceTestSuite) TestPendingFor_NoRole() {
	ctx := context.Background()

	suite.mockRoleResolver.On("ResolveRoles", ctx, "nobody@example.org").
		Return([]domain.ApprovalStage{}, nil).Once()

	_, err := suite.service.PendingFor(ctx, "nobody@example.org")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotAuthorizedForAnyStage)
}

func TestPendingQueryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PendingQueryServiceTestSuite))
}
