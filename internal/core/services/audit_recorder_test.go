package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/jmcduran/requisition_mgmt_app/internal/core/domain"
	portssvc "github.com/jmcduran/requisition_mgmt_app/internal/core/ports/services"
	"github.com/jmcduran/requisition_mgmt_app/internal/core/services"
)

// MockAuditRepository is a mock type for the AuditRepositoryFacade interface
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) AppendAuditEvent(ctx context.Context, event domain.AuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockAuditRepository) FindTimeline(ctx context.Context, requisitionID string) ([]domain.AuditEvent, error) {
	args := m.Called(ctx, requisitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditEvent), args.Error(1)
}

type AuditRecorderTestSuite struct {
	suite.Suite
	mockAuditRepo       *MockAuditRepository
	mockRequisitionRepo *MockRequisitionRepository
	service             portssvc.AuditRecorderSvcFacade
}

func (suite *AuditRecorderTestSuite) SetupTest() {
	suite.mockAuditRepo = new(MockAuditRepository)
	suite.mockRequisitionRepo = new(MockRequisitionRepository)
	suite.service = services.NewAuditRecorder(suite.mockAuditRepo, suite.mockRequisitionRepo)
}

func (suite *AuditRecorderTestSuite) TestAppend_Success() {
	ctx := context.Background()
	event := domain.AuditEvent{
		AuditID:       uuid.NewString(),
		RequisitionID: uuid.NewString(),
		ActionType:    domain.ActionSubmitted,
		OccurredAt:    time.Now().UTC(),
	}

	suite.mockAuditRepo.On("AppendAuditEvent", ctx, event).Return(nil).Once()

	suite.Require().NoError(suite.service.Append(ctx, event))
	suite.mockAuditRepo.AssertExpectations(suite.T())
}

func (suite *AuditRecorderTestSuite) TestAppend_SurfacesError() {
	ctx := context.Background()
	event := domain.AuditEvent{AuditID: uuid.NewString(), RequisitionID: uuid.NewString()}

	suite.mockAuditRepo.On("AppendAuditEvent", ctx, event).Return(errors.New("insert failed")).Once()

	suite.Require().Error(suite.service.Append(ctx, event))
}

func (suite *AuditRecorderTestSuite) TestStageDurations_DeliveredLifecycle() {
	ctx := context.Background()
	requisitionID := uuid.NewString()

	// 1 day to supervisor approval, 2.5 more to warehouse, 1.5 more to delivery.
	created := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	submitted := created
	supervisorAt := created.Add(24 * time.Hour)
	warehouseAt := supervisorAt.Add(60 * time.Hour)
	deliveredAt := warehouseAt.Add(36 * time.Hour)

	suite.mockRequisitionRepo.On("FindRequisitionByID", ctx, requisitionID).Return(&domain.Requisition{
		RequisitionID: requisitionID,
		Status:        domain.StatusApproved,
		StageTimestamps: domain.StageTimestamps{
			SubmittedAt:          submitted,
			SupervisorApprovedAt: &supervisorAt,
			WarehouseApprovedAt:  &warehouseAt,
			DeliveredAt:          &deliveredAt,
		},
		AuditFields: domain.AuditFields{CreatedAt: created},
	}, nil).Once()

	durations, err := suite.service.StageDurations(ctx, requisitionID)

	suite.Require().NoError(err)
	suite.Require().NotNil(durations.SubmittedToSupervisor)
	suite.InDelta(1.0, *durations.SubmittedToSupervisor, 0.001)
	suite.Require().NotNil(durations.SupervisorToWarehouse)
	suite.InDelta(2.5, *durations.SupervisorToWarehouse, 0.001)
	suite.Require().NotNil(durations.WarehouseToDelivery)
	suite.InDelta(1.5, *durations.WarehouseToDelivery, 0.001)
	suite.Require().NotNil(durations.TotalDays)
	suite.InDelta(5.0, *durations.TotalDays, 0.001)
}

func (suite *AuditRecorderTestSuite) TestStageDurations_StillPending() {
	ctx := context.Background()
	requisitionID := uuid.NewString()
	created := time.Now().UTC().Add(-12 * time.Hour)

	suite.mockRequisitionRepo.On("FindRequisitionByID", ctx, requisitionID).Return(&domain.Requisition{
		RequisitionID:   requisitionID,
		Status:          domain.StatusPending,
		StageTimestamps: domain.StageTimestamps{SubmittedAt: created},
		AuditFields:     domain.AuditFields{CreatedAt: created},
	}, nil).Once()

	durations, err := suite.service.StageDurations(ctx, requisitionID)

	suite.Require().NoError(err)
	suite.Nil(durations.SubmittedToSupervisor)
	suite.Nil(durations.SupervisorToWarehouse)
	suite.Nil(durations.WarehouseToDelivery)
	suite.Nil(durations.TotalDays)
}

func (suite *AuditRecorderTestSuite) TestStageDurations_RejectedClosesTotal() {
	ctx := context.Background()
	requisitionID := uuid.NewString()
	created := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	rejectedAt := created.Add(48 * time.Hour)

	suite.mockRequisitionRepo.On("FindRequisitionByID", ctx, requisitionID).Return(&domain.Requisition{
		RequisitionID: requisitionID,
		Status:        domain.StatusRejected,
		StageTimestamps: domain.StageTimestamps{
			SubmittedAt: created,
			RejectedAt:  &rejectedAt,
		},
		AuditFields: domain.AuditFields{CreatedAt: created},
	}, nil).Once()

	durations, err := suite.service.StageDurations(ctx, requisitionID)

	suite.Require().NoError(err)
	suite.Require().NotNil(durations.TotalDays)
	suite.InDelta(2.0, *durations.TotalDays, 0.001)
	suite.Nil(durations.WarehouseToDelivery)
}

func TestAuditRecorderTestSuite(t *testing.T) {
	suite.Run(t, new(AuditRecorderTestSuite))
}
