package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"kirana/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := &config.Config{
		AppPort:         ":0",
		StoreDriver:     "memory",
		JWTSecret:       "test_jwt_secret",
		SessionTTLHours: 1,
	}
	app, err := NewApp(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func TestNewApp_HealthCheck(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Fiber.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"status":"healthy"`)
	assert.Contains(t, string(body), `"events":"disabled"`)
	assert.Contains(t, string(body), `"store":"memory"`)
}

func TestNewApp_Metrics(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Fiber.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestNewApp_RoutesNeedSession(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Fiber.Test(httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode, "catalog is public")

	for _, path := range []string{"/api/v1/me", "/api/v1/cart", "/api/v1/orders", "/api/v1/shop/orders"} {
		resp, err := app.Fiber.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestNewApp_UnknownDriver(t *testing.T) {
	cfg := &config.Config{StoreDriver: "mongo", SessionTTLHours: 1}
	_, err := NewApp(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestStartConsumer_DisabledIsNoop(t *testing.T) {
	app := newTestApp(t)
	assert.NoError(t, app.StartConsumer())
}
