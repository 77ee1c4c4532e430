package dto

import "time"

// LoginRequest defines the password login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleLoginRequest carries a Google-issued ID token for institutional sign-in.
type GoogleLoginRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// GoogleCodeLoginRequest carries the authorization code handed to the frontend
// by Google's consent screen, to be exchanged server-side.
type GoogleCodeLoginRequest struct {
	Code string `json:"code" binding:"required"`
}

// LoginResponse returns the issued access token and the principal's identity.
type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Roles       []string  `json:"roles"`
}
