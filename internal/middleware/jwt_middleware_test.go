package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kirana/internal/middleware"
	"kirana/internal/models"
	"kirana/internal/services"
	"kirana/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*fiber.App, *services.AuthService) {
	t.Helper()
	st := store.New(store.NewMemoryBackend(), zerolog.Nop())
	authService := services.NewAuthService(st, "test_jwt_secret", time.Hour, zerolog.Nop())

	app := fiber.New()
	app.Get("/whoami", middleware.AuthRequired(authService, zerolog.Nop()), func(c *fiber.Ctx) error {
		sess, ok := middleware.CurrentSession(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendString(sess.UserID + "/" + string(sess.Role))
	})
	return app, authService
}

func TestAuthRequired(t *testing.T) {
	app, authService := setup(t)
	token, err := authService.IssueToken(models.Session{UserID: "u1", Role: models.RoleShopkeeper})
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token " + token, http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestCurrentSession_Missing(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		_, ok := middleware.CurrentSession(c)
		assert.False(t, ok)
		return c.SendStatus(fiber.StatusNoContent)
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
