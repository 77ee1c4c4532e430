package services

import (
	"context"

	"github.com/jmcduran/requisition_mgmt_app/internal/dto"
)

// TokenSvcFacade handles credential verification and JWT issuance. The token
// only carries identity; approval authorization is always re-derived through
// the RoleResolver.
type TokenSvcFacade interface {
	// Login verifies the email/password pair and issues an access token.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)

	// LoginWithGoogle validates a Google-issued ID token for an institutional
	// account and issues an access token for the matching employee.
	LoginWithGoogle(ctx context.Context, req dto.GoogleLoginRequest) (*dto.LoginResponse, error)

	// LoginWithGoogleCode exchanges a Google authorization code for tokens,
	// validates the contained ID token and issues an access token for the
	// matching employee.
	LoginWithGoogleCode(ctx context.Context, req dto.GoogleCodeLoginRequest) (*dto.LoginResponse, error)
}
