package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// principalEmailKey is the key used to store the authenticated principal's
// email in the request context. Using a custom type prevents collisions.
const principalEmailKey = contextKey("principalEmail")

// GetPrincipalEmailFromContext retrieves the authenticated principal's email
// from the Gin context. It returns the email and a boolean indicating if it
// was found.
func GetPrincipalEmailFromContext(c *gin.Context) (string, bool) {
	emailVal, exists := c.Get(string(principalEmailKey))
	if !exists {
		// check in the request context as well
		ctxVal := c.Request.Context().Value(principalEmailKey)
		if ctxVal != nil {
			email, ok := ctxVal.(string)
			return email, ok
		}
		return "", false
	}

	email, ok := emailVal.(string)
	if !ok {
		// This should not happen if the auth middleware sets it correctly.
		return "", false
	}

	return email, true
}

// WithPrincipalEmail returns a context carrying the authenticated principal's
// email. Used by the auth middleware and by tests.
func WithPrincipalEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, principalEmailKey, email)
}
