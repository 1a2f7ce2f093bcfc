// Package middleware provides authentication, authorization, logging, rate
// limiting, metrics and tracing middleware for the application.
package middleware

import (
	"context"
	"strings"

	"alumnet/internal/auth"
	"alumnet/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by AuthRequired.
const (
	LocalUserID = "userID"
	LocalRole   = "role"
	LocalClaims = "claims"
)

// TokenVerifier resolves a bearer token to its claims.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Claims, error)
}

// AuthRequired enforces a valid bearer token. It never touches the user store:
// the identity and role come from the token alone.
func AuthRequired(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return models.RespondWithError(c, models.NewUnauthenticatedError("Authorization header required"))
		}

		// Extract token from "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return models.RespondWithError(c, models.NewUnauthenticatedError("Invalid authorization header format"))
		}

		claims, err := verifier.Verify(c.UserContext(), parts[1])
		if err != nil {
			return models.RespondWithError(c, err)
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalRole, claims.Role)
		c.Locals(LocalClaims, claims)
		c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, claims.UserID))

		return c.Next()
	}
}

// RequireRoles rejects authenticated callers whose role is outside roles. It
// must run after AuthRequired.
func RequireRoles(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalRole).(models.Role)
		if !ok {
			return models.RespondWithError(c, models.NewUnauthenticatedError("Authentication required"))
		}
		if !models.RoleAllowed(role, roles) {
			return models.RespondWithError(c, models.NewForbiddenError("You do not have permission to access this resource"))
		}
		return c.Next()
	}
}

// CurrentUserID returns the authenticated identity id, or 0.
func CurrentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(LocalUserID).(uint)
	return id
}

// CurrentRole returns the authenticated role, or "".
func CurrentRole(c *fiber.Ctx) models.Role {
	role, _ := c.Locals(LocalRole).(models.Role)
	return role
}

// CurrentClaims returns the verified token claims, or nil.
func CurrentClaims(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(LocalClaims).(*auth.Claims)
	return claims
}
