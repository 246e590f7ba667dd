package logger_test

import (
	"net/http/httptest"
	"testing"

	"inventory-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       logger.Config
		debugging bool
	}{
		{"production json", logger.Config{Level: "info", Format: "json"}, false},
		{"development console", logger.Config{Level: "debug", Format: "console"}, true},
		{"warn level", logger.Config{Level: "WARN", Format: "json"}, false},
		{"default level", logger.Config{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := logger.New(&tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.debugging, l.Core().Enabled(zapcore.DebugLevel))
		})
	}
}

func TestNew_Invalid(t *testing.T) {
	_, err := logger.New(&logger.Config{Level: "loud"})
	assert.ErrorContains(t, err, "invalid log level")

	_, err = logger.New(&logger.Config{Level: "info", Format: "xml"})
	assert.ErrorContains(t, err, "invalid log format")
}

func TestNew_RespectsLevel(t *testing.T) {
	l, err := logger.New(&logger.Config{Level: "error"})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.WarnLevel))
	assert.True(t, l.Core().Enabled(zapcore.ErrorLevel))
}

func TestComponent(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger.Component(zap.New(core), "transfer").Info("hello")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "transfer", logs.All()[0].ContextMap()["component"])

	assert.NotPanics(t, func() { logger.Component(nil, "x").Info("dropped") })
}

func TestWithRayID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		c.Locals("ray_id", "abc-123")
		logger.WithRayID(base, c).Info("with ray")
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/bare", func(c *fiber.Ctx) error {
		logger.WithRayID(base, c).Info("without ray")
		return c.SendStatus(fiber.StatusNoContent)
	})

	_, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	_, err = app.Test(httptest.NewRequest("GET", "/bare", nil))
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "abc-123", entries[0].ContextMap()["ray_id"])
	assert.NotContains(t, entries[1].ContextMap(), "ray_id")
}
