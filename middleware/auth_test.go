package middleware

import (
	"net/http/httptest"
	"testing"

	tokenService "finance-tracker/services/token"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedApp(t *testing.T) (*fiber.App, *tokenService.Service) {
	t.Helper()
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	tokens, err := tokenService.NewTokenService()
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/protected", RequireAuthentication(tokens), func(c *fiber.Ctx) error {
		userID, ok := AuthenticatedUserID(c)
		require.True(t, ok)
		return c.JSON(fiber.Map{"userID": userID, "email": c.Locals("email")})
	})
	return app, tokens
}

func TestRequireAuthenticationRejectsMissingHeader(t *testing.T) {
	app, _ := newProtectedApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAuthenticationRejectsMalformedToken(t *testing.T) {
	app, _ := newProtectedApp(t)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAuthenticationAcceptsValidToken(t *testing.T) {
	app, tokens := newProtectedApp(t)

	signed, err := tokens.Sign(12, "user@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
