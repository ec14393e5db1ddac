package jwt

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/biat-it/testmanager/pkg/accounts"
)

// NewAuthMiddleware returns a Fiber middleware that validates a Bearer JWT
// access token (HS256). On success it sets "userId", "matricule" and "role"
// into the request locals, plus "isAdmin" for ADMIN principals.
func NewAuthMiddleware(gen *Generator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "missing Authorization header"})
		}
		// Support both "Bearer <token>" and "<token>" (no prefix).
		var tokenStr string
		if strings.Contains(authHeader, " ") {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = strings.TrimSpace(parts[1])
			} else {
				tokenStr = strings.TrimSpace(authHeader)
			}
		} else {
			tokenStr = strings.TrimSpace(authHeader)
		}
		if tokenStr == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "empty token"})
		}

		claims, err := gen.Parse(tokenStr)
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "invalid or expired token"})
		}
		// Refresh tokens are not valid for resource access.
		if claims.TokenType != TokenTypeAccess {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "invalid or expired token"})
		}

		c.Locals("userId", claims.Subject)
		c.Locals("matricule", claims.Matricule)
		c.Locals("role", claims.Role)
		if claims.Role == string(accounts.RoleAdmin) {
			c.Locals("isAdmin", true)
		}
		return c.Next()
	}
}

// RequireAdmin allows only ADMIN principals past. Must run after the auth
// middleware.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, _ := c.Locals("isAdmin").(bool); !ok {
			return c.Status(http.StatusForbidden).JSON(fiber.Map{"message": "admin access required"})
		}
		return c.Next()
	}
}
