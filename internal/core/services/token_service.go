package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"

	"github.com/jmcduran/requisition_mgmt_app/internal/apperrors"
	"github.com/jmcduran/requisition_mgmt_app/internal/core/domain"
	portsrepo "github.com/jmcduran/requisition_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/jmcduran/requisition_mgmt_app/internal/core/ports/services"
	"github.com/jmcduran/requisition_mgmt_app/internal/dto"
	"github.com/jmcduran/requisition_mgmt_app/internal/platform/config"
	"github.com/jmcduran/requisition_mgmt_app/internal/utils"
)

// tokenService verifies credentials and issues JWT access tokens. Tokens carry
// only identity; approval authorization is always re-derived server-side.
type tokenService struct {
	cfg          *config.Config
	employeeRepo portsrepo.EmployeeRepositoryFacade
	roleResolver portssvc.RoleResolverSvcFacade
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config, employeeRepo portsrepo.EmployeeRepositoryFacade, roleResolver portssvc.RoleResolverSvcFacade) portssvc.TokenSvcFacade {
	return &tokenService{
		cfg:          cfg,
		employeeRepo: employeeRepo,
		roleResolver: roleResolver,
	}
}

var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

// Login verifies the email/password pair and issues an access token.
func (s *tokenService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	employee, err := s.employeeRepo.FindEmployeeByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if !employee.Active {
		return nil, apperrors.ErrUnauthorized
	}
	if !utils.CheckPasswordHash(req.Password, employee.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}
	return s.issue(ctx, employee)
}

// LoginWithGoogle validates a Google-issued ID token and issues an access
// token for the matching employee record.
func (s *tokenService) LoginWithGoogle(ctx context.Context, req dto.GoogleLoginRequest) (*dto.LoginResponse, error) {
	if s.cfg.GoogleClientID == "" {
		return nil, fmt.Errorf("%w: google sign-in is not configured", apperrors.ErrValidation)
	}

	payload, err := idtoken.Validate(ctx, req.IDToken, s.cfg.GoogleClientID)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, apperrors.ErrUnauthorized
	}

	employee, err := s.employeeRepo.FindEmployeeByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if !employee.Active {
		return nil, apperrors.ErrUnauthorized
	}
	return s.issue(ctx, employee)
}

// LoginWithGoogleCode exchanges the frontend's authorization code for Google
// tokens and logs in with the ID token contained in the exchange response.
func (s *tokenService) LoginWithGoogleCode(ctx context.Context, req dto.GoogleCodeLoginRequest) (*dto.LoginResponse, error) {
	if s.cfg.GoogleClientID == "" || s.cfg.GoogleClientSecret == "" {
		return nil, fmt.Errorf("%w: google sign-in is not configured", apperrors.ErrValidation)
	}

	oauthCfg := oauth2.Config{
		ClientID:     s.cfg.GoogleClientID,
		ClientSecret: s.cfg.GoogleClientSecret,
		RedirectURL:  s.cfg.GoogleRedirectURL,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}
	token, err := oauthCfg.Exchange(ctx, req.Code)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}
	idToken, _ := token.Extra("id_token").(string)
	if idToken == "" {
		return nil, apperrors.ErrUnauthorized
	}
	return s.LoginWithGoogle(ctx, dto.GoogleLoginRequest{IDToken: idToken})
}

func (s *tokenService) issue(ctx context.Context, employee *domain.Employee) (*dto.LoginResponse, error) {
	expiresAt := time.Now().Add(s.cfg.JWTExpiryDuration)
	token, err := utils.GenerateJWT(employee.Email, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	roles, err := s.roleResolver.ResolveRoles(ctx, employee.Email)
	if err != nil {
		// Role display on login is informational only; gating re-derives it.
		roles = nil
	}
	roleNames := make([]string, len(roles))
	for i, role := range roles {
		roleNames[i] = string(role)
	}

	return &dto.LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		Email:       employee.Email,
		Name:        employee.Name,
		Roles:       roleNames,
	}, nil
}
