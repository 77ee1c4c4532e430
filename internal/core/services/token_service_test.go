package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/jmcduran/requisition_mgmt_app/internal/apperrors"
	"github.com/jmcduran/requisition_mgmt_app/internal/core/domain"
	portssvc "github.com/jmcduran/requisition_mgmt_app/internal/core/ports/services"
	"github.com/jmcduran/requisition_mgmt_app/internal/core/services"
	"github.com/jmcduran/requisition_mgmt_app/internal/dto"
	"github.com/jmcduran/requisition_mgmt_app/internal/platform/config"
	"github.com/jmcduran/requisition_mgmt_app/internal/utils"
)

type TokenServiceTestSuite struct {
	suite.Suite
	mockEmployeeRepo *MockEmployeeRepository
	mockRoleResolver *MockRoleResolver
	service          portssvc.TokenSvcFacade
}

func (suite *TokenServiceTestSuite) SetupTest() {
	suite.mockEmployeeRepo = new(MockEmployeeRepository)
	suite.mockRoleResolver = new(MockRoleResolver)
	suite.service = services.NewTokenService(&config.Config{
		JWTSecret:         "test-secret",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "requisition-mgmt-app",
	}, suite.mockEmployeeRepo, suite.mockRoleResolver)
}

func (suite *TokenServiceTestSuite) activeEmployee(password string) *domain.Employee {
	hash, err := utils.HashPassword(password)
	suite.Require().NoError(err)
	return &domain.Employee{
		EmployeeID:   uuid.NewString(),
		Name:         "Rita Requester",
		Email:        "rita@example.org",
		PasswordHash: hash,
		Active:       true,
	}
}

func (suite *TokenServiceTestSuite) TestLogin_Success() {
	ctx := context.Background()
	employee := suite.activeEmployee("s3cret!")

	suite.mockEmployeeRepo.On("FindEmployeeByEmail", ctx, "rita@example.org").Return(employee, nil).Once()
	suite.mockRoleResolver.On("ResolveRoles", ctx, "rita@example.org").
		Return([]domain.ApprovalStage{domain.StageSupervisor}, nil).Once()

	resp, err := suite.service.Login(ctx, dto.LoginRequest{Email: "Rita@Example.org", Password: "s3cret!"})

	suite.Require().NoError(err)
	suite.NotEmpty(resp.AccessToken)
	suite.Equal("rita@example.org", resp.Email)
	suite.Equal([]string{"SUPERVISOR"}, resp.Roles)

	claims, err := utils.ParseAndValidateJWT(resp.AccessToken, "test-secret")
	suite.Require().NoError(err)
	suite.Equal("rita@example.org", claims.Subject)
	suite.Equal("requisition-mgmt-app", claims.Issuer)
}

func (suite *TokenServiceTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()
	employee := suite.activeEmployee("s3cret!")

	suite.mockEmployeeRepo.On("FindEmployeeByEmail", ctx, "rita@example.org").Return(employee, nil).Once()

	_, err := suite.service.Login(ctx, dto.LoginRequest{Email: "rita@example.org", Password: "wrong"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *TokenServiceTestSuite) TestLogin_UnknownAccountSameError() {
	ctx := context.Background()

	suite.mockEmployeeRepo.On("FindEmployeeByEmail", ctx, "ghost@example.org").
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Login(ctx, dto.LoginRequest{Email: "ghost@example.org", Password: "whatever"})

	// Unknown account and wrong password are indistinguishable to the caller.
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *TokenServiceTestSuite) TestLogin_InactiveEmployee() {
	ctx := context.Background()
	employee := suite.activeEmployee("s3cret!")
	employee.Active = false

	suite.mockEmployeeRepo.On("FindEmployeeByEmail", ctx, "rita@example.org").Return(employee, nil).Once()

	_, err := suite.service.Login(ctx, dto.LoginRequest{Email: "rita@example.org", Password: "s3cret!"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *TokenServiceTestSuite) TestLoginWithGoogle_NotConfigured() {
	_, err := suite.service.LoginWithGoogle(context.Background(), dto.GoogleLoginRequest{IDToken: "whatever"})
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestTokenServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TokenServiceTestSuite))
}
