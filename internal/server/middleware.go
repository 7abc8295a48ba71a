package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// requireAuth validates the bearer token and stores the caller's
// identity in the request locals.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "authorization token required",
		})
	}

	tokenString := strings.TrimPrefix(header, "Bearer ")
	claims, err := s.jwt.Validate(tokenString)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "invalid or expired token",
		})
	}

	c.Locals("user_id", claims.UserID)
	c.Locals("phone", claims.Phone)
	return c.Next()
}

// callerID returns the authenticated user's ID from the request locals.
func callerID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
