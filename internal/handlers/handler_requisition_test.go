package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/jmcduran/requisition_mgmt_app/internal/apperrors"
	"github.com/jmcduran/requisition_mgmt_app/internal/core/domain"
	portssvc "github.com/jmcduran/requisition_mgmt_app/internal/core/ports/services"
	"github.com/jmcduran/requisition_mgmt_app/internal/dto"
	"github.com/jmcduran/requisition_mgmt_app/internal/handlers"
	"github.com/jmcduran/requisition_mgmt_app/internal/middleware"
)

// --- Mock RequisitionService ---
type MockRequisitionService struct {
	mock.Mock
}

func (m *MockRequisitionService) Create(ctx context.Context, req dto.CreateRequisitionRequest, requesterEmail string) (*dto.CreateRequisitionResponse, error) {
	args := m.Called(ctx, req, requesterEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CreateRequisitionResponse), args.Error(1)
}
func (m *MockRequisitionService) GetByID(ctx context.Context, requisitionID string) (*dto.RequisitionResponse, error) {
	args := m.Called(ctx, requisitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RequisitionResponse), args.Error(1)
}
func (m *MockRequisitionService) GetByCode(ctx context.Context, code string) (*dto.RequisitionResponse, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RequisitionResponse), args.Error(1)
}
func (m *MockRequisitionService) ListMine(ctx context.Context, requesterEmail string) ([]dto.RequisitionResponse, error) {
	args := m.Called(ctx, requesterEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.RequisitionResponse), args.Error(1)
}
func (m *MockRequisitionService) MarkDelivered(ctx context.Context, requisitionID string, deliveredByEmail string, req dto.DeliverRequest) error {
	args := m.Called(ctx, requisitionID, deliveredByEmail, req)
	return args.Error(0)
}

var _ portssvc.RequisitionSvcFacade = (*MockRequisitionService)(nil)

// --- Mock ApprovalService ---
type MockApprovalService struct {
	mock.Mock
}

func (m *MockApprovalService) Act(ctx context.Context, cmd portssvc.ActCommand) (*portssvc.ActResult, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.ActResult), args.Error(1)
}

var _ portssvc.ApprovalSvcFacade = (*MockApprovalService)(nil)

// --- Mock PendingQueryService ---
type MockPendingQueryService struct {
	mock.Mock
}

func (m *MockPendingQueryService) PendingFor(ctx context.Context, principalEmail string) (*dto.PendingListResponse, error) {
	args := m.Called(ctx, principalEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PendingListResponse), args.Error(1)
}

var _ portssvc.PendingQuerySvcFacade = (*MockPendingQueryService)(nil)

// --- Mock AuditRecorderService ---
type MockAuditRecorderService struct {
	mock.Mock
}

func (m *MockAuditRecorderService) Append(ctx context.Context, event domain.AuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
func (m *MockAuditRecorderService) Timeline(ctx context.Context, requisitionID string) ([]domain.AuditEvent, error) {
	args := m.Called(ctx, requisitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditEvent), args.Error(1)
}
func (m *MockAuditRecorderService) StageDurations(ctx context.Context, requisitionID string) (*domain.StageDurations, error) {
	args := m.Called(ctx, requisitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StageDurations), args.Error(1)
}

var _ portssvc.AuditRecorderSvcFacade = (*MockAuditRecorderService)(nil)

// --- Mock DocumentRenderer ---
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

var _ portssvc.DocumentRenderer = (*MockDocumentRenderer)(nil)

// --- Test Suite ---
type RequisitionHandlerTestSuite struct {
	suite.Suite
	router                 *gin.Engine
	mockRequisitionService *MockRequisitionService
	mockApprovalService    *MockApprovalService
	mockPendingService     *MockPendingQueryService
	mockAuditService       *MockAuditRecorderService
	mockRenderer           *MockDocumentRenderer
	jwtSecret              string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *RequisitionHandlerTestSuite) generateTestToken(email string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "rma-test",
		Subject:   email,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *RequisitionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockRequisitionService = new(MockRequisitionService)
	suite.mockApprovalService = new(MockApprovalService)
	suite.mockPendingService = new(MockPendingQueryService)
	suite.mockAuditService = new(MockAuditRecorderService)
	suite.mockRenderer = new(MockDocumentRenderer)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterRequisitionRoutes(v1, &portssvc.ServiceContainer{
		Requisition: suite.mockRequisitionService,
		Approval:    suite.mockApprovalService,
		Pending:     suite.mockPendingService,
		Audit:       suite.mockAuditService,
		Renderer:    suite.mockRenderer,
	})
}

// --- Test Cases ---

func (suite *RequisitionHandlerTestSuite) TestCreateRequisition_Success() {
	productID := uuid.NewString()
	body := dto.CreateRequisitionRequest{
		RequesterNotes: "Quarterly restock",
		Items: []dto.LineItemRequest{
			{ProductID: productID, ProductName: "Safety gloves", Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(15)},
		},
	}
	expected := &dto.CreateRequisitionResponse{
		RequisitionID:   uuid.NewString(),
		Code:            "MANT-00007",
		SupervisorName:  "Sam Supervisor",
		SupervisorEmail: "sam@example.org",
	}

	suite.mockRequisitionService.On("Create",
		mock.Anything,
		mock.MatchedBy(func(r dto.CreateRequisitionRequest) bool {
			return len(r.Items) == 1 && r.Items[0].ProductID == productID
		}),
		"rita@example.org",
	).Return(expected, nil).Once()

	payload, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/requisitions", bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken("rita@example.org"))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.CreateRequisitionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("MANT-00007", resp.Code)
	suite.mockRequisitionService.AssertExpectations(suite.T())
}

func (suite *RequisitionHandlerTestSuite) TestCreateRequisition_NoToken() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/requisitions", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockRequisitionService.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RequisitionHandlerTestSuite) TestAct_Success() {
	requisitionID := uuid.NewString()
	body := dto.ActRequest{
		ActingRole: "SUPERVISOR",
		Decision:   "APPROVED",
	}
	result := &portssvc.ActResult{
		Requisition: &domain.Requisition{
			RequisitionID: requisitionID,
			Status:        domain.StatusPending,
			TotalAmount:   decimal.NewFromInt(150),
		},
		PendingStage: domain.StageAdminManager,
	}

	suite.mockApprovalService.On("Act", mock.Anything, mock.MatchedBy(func(cmd portssvc.ActCommand) bool {
		return cmd.RequisitionID == requisitionID &&
			cmd.ActingRole == domain.StageSupervisor &&
			cmd.Decision == domain.DecisionApproved &&
			cmd.PrincipalEmail == "sam@example.org"
	})).Return(result, nil).Once()

	payload, _ := json.Marshal(body)
	url := fmt.Sprintf("/api/v1/requisitions/%s/act", requisitionID)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken("sam@example.org"))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ActResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("ADMIN_MANAGER", resp.PendingStage)
	suite.Equal("PENDING", resp.Status)
	suite.mockApprovalService.AssertExpectations(suite.T())
}

func (suite *RequisitionHandlerTestSuite) TestAct_WrongStageConflictMapsTo403() {
	requisitionID := uuid.NewString()
	body := dto.ActRequest{ActingRole: "ADMIN_MANAGER", Decision: "APPROVED"}

	suite.mockApprovalService.On("Act", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: current pending stage is SUPERVISOR", apperrors.ErrNotAuthorizedForStage)).Once()

	payload, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/requisitions/%s/act", requisitionID), bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken("ana@example.org"))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *RequisitionHandlerTestSuite) TestAct_AlreadyFinalizedMapsTo409() {
	requisitionID := uuid.NewString()
	body := dto.ActRequest{ActingRole: "WAREHOUSE_STAFF", Decision: "APPROVED"}

	suite.mockApprovalService.On("Act", mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrAlreadyFinalized).Once()

	payload, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/requisitions/%s/act", requisitionID), bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken("wes@example.org"))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *RequisitionHandlerTestSuite) TestAct_InvalidRoleRejectedByBinding() {
	requisitionID := uuid.NewString()

	payload := []byte(`{"actingRole":"JANITOR","decision":"APPROVED"}`)
	req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/requisitions/%s/act", requisitionID), bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken("ana@example.org"))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockApprovalService.AssertNotCalled(suite.T(), "Act", mock.Anything, mock.Anything)
}

func (suite *RequisitionHandlerTestSuite) TestListPending_NoRoleMapsTo403() {
	suite.mockPendingService.On("PendingFor", mock.Anything, "rita@example.org").
		Return(nil, apperrors.ErrNotAuthorizedForAnyStage).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/requisitions/pending", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken("rita@example.org"))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *RequisitionHandlerTestSuite) TestGetRequisition_NotFound() {
	requisitionID := uuid.NewString()

	suite.mockRequisitionService.On("GetByID", mock.Anything, requisitionID).
		Return(nil, apperrors.ErrNotFound).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/requisitions/"+requisitionID, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken("rita@example.org"))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *RequisitionHandlerTestSuite) TestGetPDF_Success() {
	requisitionID := uuid.NewString()
	content := []byte("%PDF-1.4 test")

	suite.mockRenderer.On("RenderSummary", mock.Anything, requisitionID).Return(content, nil).Once()

	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/requisitions/%s/pdf", requisitionID), nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken("rita@example.org"))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("application/pdf", w.Header().Get("Content-Type"))
	suite.Contains(w.Header().Get("Content-Disposition"), "attachment")
	suite.Equal(content, w.Body.Bytes())
}

func (suite *RequisitionHandlerTestSuite) TestDeliver_ConflictMapsTo409() {
	requisitionID := uuid.NewString()
	body := dto.DeliverRequest{
		ReceivedBy: "Rita Requester",
		Items: []dto.DeliveredQuantityRequest{
			{ProductID: uuid.NewString(), Quantity: decimal.NewFromInt(1)},
		},
	}

	suite.mockRequisitionService.On("MarkDelivered", mock.Anything, requisitionID, "wes@example.org", mock.AnythingOfType("dto.DeliverRequest")).
		Return(apperrors.ErrDuplicate).Once()

	payload, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/requisitions/%s/deliver", requisitionID), bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken("wes@example.org"))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusConflict, w.Code)
}

func TestRequisitionHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(RequisitionHandlerTestSuite))
}
