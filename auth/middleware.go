package auth

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// RequireAdmin guards admin routes. The admin email from the token is
// left in locals for handlers that record who acted.
func RequireAdmin(c fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "Authorization token missing."})
	}

	claims, err := ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid or expired token."})
	}
	if claims.Role != "admin" {
		return c.Status(http.StatusForbidden).JSON(fiber.Map{"message": "only admins are permitted"})
	}

	c.Locals("admin_email", claims.Email)
	return c.Next()
}
