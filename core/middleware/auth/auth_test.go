package auth_test

import (
	"net/http/httptest"
	"testing"

	"inventory-manager/core/middleware/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(cfg auth.Config) *fiber.App {
	app := fiber.New()
	app.Use(auth.New(cfg))
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/inventory/stock", func(c *fiber.Ctx) error { return c.SendString("stock") })
	return app
}

func TestAuth(t *testing.T) {
	app := newApp(auth.Config{
		ApiKey: "secret",
		Next:   func(c *fiber.Ctx) bool { return c.Path() == "/health" },
	})

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"MissingKey", "/inventory/stock", "", fiber.StatusUnauthorized},
		{"WrongKey", "/inventory/stock", "nope", fiber.StatusUnauthorized},
		{"ValidKey", "/inventory/stock", "secret", fiber.StatusOK},
		{"QueryKey", "/inventory/stock?api_key=secret", "", fiber.StatusOK},
		{"Skipped", "/health", "", fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set(auth.HeaderName, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestAuth_Disabled(t *testing.T) {
	app := newApp(auth.Config{})
	resp, err := app.Test(httptest.NewRequest("GET", "/inventory/stock", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
