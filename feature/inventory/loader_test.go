package inventory_test

import (
	"testing"

	"inventory-manager/core/inventory"
	"inventory-manager/core/peripheral/memory"
	"inventory-manager/core/transfer"
	feature "inventory-manager/feature/inventory"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestLoader(t *testing.T) {
	cache := inventory.New(memory.New(), nil, testConfig(), nil, nil)
	f := feature.NewFeature(cache, transfer.New(cache, testConfig(), nil, nil), zap.NewNop())

	assert.Equal(t, "inventory", f.Name())
	assert.True(t, f.IsEnabled())
	assert.Same(t, cache, f.Service().Cache())

	app := fiber.New()
	assert.NoError(t, f.Load(app))
}
