package auth

import (
	"strings"

	"github.com/Abraxas-365/jobtrack/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

const authContextKey = "auth_context"

// AuthContext is the authenticated caller stored in fiber locals
type AuthContext struct {
	UserID kernel.UserID
	Email  string
	Scopes []string
}

func (a *AuthContext) HasScope(scope string) bool {
	return HasScope(a.Scopes, scope)
}

// GetAuthContext extracts the caller set by Authenticate
func GetAuthContext(c *fiber.Ctx) (*AuthContext, bool) {
	authCtx, ok := c.Locals(authContextKey).(*AuthContext)
	return authCtx, ok && authCtx != nil
}

// SetAuthContext stores the caller in fiber locals
func SetAuthContext(c *fiber.Ctx, authCtx *AuthContext) {
	c.Locals(authContextKey, authCtx)
}

// TokenMiddleware authenticates bearer access tokens
type TokenMiddleware struct {
	tokens TokenService
}

func NewTokenMiddleware(tokens TokenService) *TokenMiddleware {
	return &TokenMiddleware{tokens: tokens}
}

// Authenticate validates the Authorization header
func (m *TokenMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return ErrUnauthorized().WithDetail("reason", "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			return ErrUnauthorized().WithDetail("reason", "invalid authorization format")
		}

		claims, err := m.tokens.ValidateAccessToken(parts[1])
		if err != nil {
			return err
		}

		SetAuthContext(c, &AuthContext{
			UserID: claims.UserID,
			Email:  claims.Email,
			Scopes: claims.Scopes,
		})
		return c.Next()
	}
}

// RequireScope rejects callers whose token does not grant scope
func (m *TokenMiddleware) RequireScope(scope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authCtx, ok := GetAuthContext(c)
		if !ok {
			return ErrUnauthorized()
		}
		if !authCtx.HasScope(scope) {
			return ErrInsufficientScope().WithDetail("required_scope", scope)
		}
		return c.Next()
	}
}
