package middleware

import (
	"strconv"
	"strings"

	tokenService "finance-tracker/services/token"
	"finance-tracker/types"

	"github.com/gofiber/fiber/v2"
)

// RequireAuthentication validates the Bearer token and stores the caller's
// identity under c.Locals("userID") and c.Locals("email")
func RequireAuthentication(tokens *tokenService.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ErrorResponse{
				Message: "Token requerido",
				Status:  fiber.StatusUnauthorized,
			})
		}

		claims, err := tokens.Verify(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ErrorResponse{
				Message: "Token inválido o expirado",
				Status:  fiber.StatusUnauthorized,
			})
		}

		userID, err := strconv.ParseUint(claims.Subject, 10, 64)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ErrorResponse{
				Message: "Token inválido o expirado",
				Status:  fiber.StatusUnauthorized,
			})
		}

		c.Locals("userID", uint(userID))
		c.Locals("email", claims.Email)
		return c.Next()
	}
}

// AuthenticatedUserID reads the user id stored by RequireAuthentication
func AuthenticatedUserID(c *fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals("userID").(uint)
	return userID, ok
}
