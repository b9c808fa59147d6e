// internal/config/config_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 500.0, cfg.Shipping.FreeShippingThreshold)
	assert.Equal(t, 40.0, cfg.Shipping.FlatRate)
	assert.Equal(t, 3, cfg.Search.MinQueryLength)
	assert.Equal(t, "flipkart_cart", cfg.Cart.SlotKey)
	assert.True(t, cfg.Database.SeedData)
}

func TestLoadSeedToggle(t *testing.T) {
	t.Setenv("DB_SEED_DATA", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Database.SeedData)
}

func TestLoadRejectsNegativeShippingRates(t *testing.T) {
	t.Setenv("SHIPPING_FLAT_RATE", "-1")

	_, err := Load()
	assert.Error(t, err)
}
