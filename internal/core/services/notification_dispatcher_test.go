package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/jmcduran/requisition_mgmt_app/internal/core/domain"
	portssvc "github.com/jmcduran/requisition_mgmt_app/internal/core/ports/services"
	"github.com/jmcduran/requisition_mgmt_app/internal/core/services"
	"github.com/jmcduran/requisition_mgmt_app/internal/dto"
)

// MockNotificationRepository is a mock type for the NotificationRepositoryFacade interface
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) SaveNotification(ctx context.Context, notification domain.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) UpdateDeliveryOutcome(ctx context.Context, notificationID string, status domain.DeliveryStatus, deliveryError string, sentAt *time.Time) error {
	args := m.Called(ctx, notificationID, status, deliveryError, sentAt)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, notificationID, userEmail string) error {
	args := m.Called(ctx, notificationID, userEmail)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userEmail string) error {
	args := m.Called(ctx, userEmail)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListByUser(ctx context.Context, userEmail string, unreadOnly bool, codeFilter string, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, userEmail, unreadOnly, codeFilter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockNotificationRepository) ListUndelivered(ctx context.Context, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

// MockNotifier is a mock type for the Notifier interface
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, to, subject, textBody, htmlBody string, attachments []portssvc.Attachment) error {
	args := m.Called(ctx, to, subject, textBody, htmlBody, attachments)
	return args.Error(0)
}

// MockDocumentRenderer is a mock type for the DocumentRenderer interface
type MockDocumentRenderer struct {
	mock.Mock
}

func (m *MockDocumentRenderer) RenderSummary(ctx context.Context, requisitionID string) ([]byte, error) {
	args := m.Called(ctx, requisitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type NotificationDispatcherTestSuite struct {
	suite.Suite
	mockNotificationRepo *MockNotificationRepository
	mockRoleResolver     *MockRoleResolver
	mockNotifier         *MockNotifier
	mockRenderer         *MockDocumentRenderer
	service              portssvc.NotificationDispatcherSvcFacade
}

func (suite *NotificationDispatcherTestSuite) SetupTest() {
	suite.mockNotificationRepo = new(MockNotificationRepository)
	suite.mockRoleResolver = new(MockRoleResolver)
	suite.mockNotifier = new(MockNotifier)
	suite.mockRenderer = new(MockDocumentRenderer)
	suite.service = services.NewNotificationDispatcher(
		suite.mockNotificationRepo,
		suite.mockRoleResolver,
		suite.mockNotifier,
		suite.mockRenderer,
		"https://rma.example.org",
		5*time.Second,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func (suite *NotificationDispatcherTestSuite) undelivered(kind domain.NotificationKind) domain.Notification {
	return domain.Notification{
		NotificationID:  uuid.NewString(),
		UserEmail:       "rita@example.org",
		RequisitionID:   uuid.NewString(),
		RequisitionCode: "WHSE-00042",
		Kind:            kind,
		Message:         "Requisition WHSE-00042 was approved.",
		DeliveryStatus:  domain.DeliveryError,
		CreatedAt:       time.Now().UTC(),
	}
}

func (suite *NotificationDispatcherTestSuite) TestResendPending_RecordsSentOutcome() {
	ctx := context.Background()
	notification := suite.undelivered(domain.NotificationDecision)

	suite.mockNotificationRepo.On("ListUndelivered", ctx, 100).
		Return([]domain.Notification{notification}, nil).Once()
	suite.mockRenderer.On("RenderSummary", mock.Anything, notification.RequisitionID).
		Return([]byte("%PDF-1.4"), nil).Once()
	suite.mockNotifier.On("Send", mock.Anything, "rita@example.org", mock.AnythingOfType("string"),
		notification.Message, mock.AnythingOfType("string"), mock.Anything).Return(nil).Once()
	suite.mockNotificationRepo.On("UpdateDeliveryOutcome", mock.Anything, notification.NotificationID,
		domain.DeliverySent, "", mock.AnythingOfType("*time.Time")).Return(nil).Once()

	attempted := suite.service.ResendPending(ctx, 100)

	suite.Equal(1, attempted)
	suite.mockNotifier.AssertExpectations(suite.T())
	suite.mockNotificationRepo.AssertExpectations(suite.T())
}

func (suite *NotificationDispatcherTestSuite) TestResendPending_FailureRecordedNotPropagated() {
	ctx := context.Background()
	notification := suite.undelivered(domain.NotificationPending)

	suite.mockNotificationRepo.On("ListUndelivered", ctx, 50).
		Return([]domain.Notification{notification}, nil).Once()
	suite.mockRenderer.On("RenderSummary", mock.Anything, notification.RequisitionID).
		Return(nil, errors.New("render failed")).Once()
	suite.mockNotifier.On("Send", mock.Anything, "rita@example.org", mock.AnythingOfType("string"),
		notification.Message, mock.AnythingOfType("string"), mock.Anything).
		Return(errors.New("smtp: connection refused")).Once()
	suite.mockNotificationRepo.On("UpdateDeliveryOutcome", mock.Anything, notification.NotificationID,
		domain.DeliveryError, "smtp: connection refused", (*time.Time)(nil)).Return(nil).Once()

	attempted := suite.service.ResendPending(ctx, 50)

	// The attempt is counted and the failure lands on the notification row;
	// nothing panics or surfaces to the caller.
	suite.Equal(1, attempted)
	suite.mockNotificationRepo.AssertExpectations(suite.T())
}

func (suite *NotificationDispatcherTestSuite) TestResendPending_ListErrorReturnsZero() {
	ctx := context.Background()

	suite.mockNotificationRepo.On("ListUndelivered", ctx, 100).
		Return(nil, errors.New("query failed")).Once()

	suite.Equal(0, suite.service.ResendPending(ctx, 100))
	suite.mockNotifier.AssertNotCalled(suite.T(), "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *NotificationDispatcherTestSuite) TestList_CountsUnread() {
	ctx := context.Background()
	read := suite.undelivered(domain.NotificationDecision)
	read.Read = true
	unread := suite.undelivered(domain.NotificationDelivery)

	suite.mockNotificationRepo.On("ListByUser", ctx, "rita@example.org", false, "", 200).
		Return([]domain.Notification{unread, read}, nil).Once()

	resp, err := suite.service.List(ctx, "rita@example.org", dto.ListNotificationsParams{})

	suite.Require().NoError(err)
	suite.Equal(2, resp.Total)
	suite.Equal(1, resp.Unread)
}

func (suite *NotificationDispatcherTestSuite) TestList_ClampsLimit() {
	ctx := context.Background()

	suite.mockNotificationRepo.On("ListByUser", ctx, "rita@example.org", true, "WHSE", 200).
		Return([]domain.Notification{}, nil).Once()

	_, err := suite.service.List(ctx, "rita@example.org", dto.ListNotificationsParams{
		UnreadOnly: true,
		Code:       "WHSE",
		Limit:      5000,
	})

	suite.Require().NoError(err)
	suite.mockNotificationRepo.AssertExpectations(suite.T())
}

func (suite *NotificationDispatcherTestSuite) TestMarkRead_Delegates() {
	ctx := context.Background()
	notificationID := uuid.NewString()

	suite.mockNotificationRepo.On("MarkRead", ctx, notificationID, "rita@example.org").Return(nil).Once()

	suite.Require().NoError(suite.service.MarkRead(ctx, notificationID, "rita@example.org"))
	suite.mockNotificationRepo.AssertExpectations(suite.T())
}

func TestNotificationDispatcherTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationDispatcherTestSuite))
}
