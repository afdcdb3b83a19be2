package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "PORT", "DB_PATH", "MAX_HEIGHT_MM", "MAX_WIDTH_MM", "MIN_OPTION_PRICE", "AUTO_MIGRATE", "MANAGER_LOGIN"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr())
	assert.True(t, cfg.IsDev())
	assert.True(t, cfg.AutoMigrate)
	assert.False(t, cfg.AuthEnabled())

	limits := cfg.Limits()
	assert.Equal(t, 1605.0, limits.MaxHeightMM)
	assert.Equal(t, 2750.0, limits.MaxWidthMM)
	assert.Equal(t, 100.0, limits.MinOptionPrice)
}

func TestLoad_OverridesFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", ":9090")
	t.Setenv("MAX_HEIGHT_MM", "1200")
	t.Setenv("MIN_OPTION_PRICE", "250")
	t.Setenv("AUTO_MIGRATE", "yes")
	t.Setenv("MANAGER_LOGIN", "anna")
	t.Setenv("MANAGER_PASSWORD", "")
	t.Setenv("SESSION_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.IsDev())
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, ":9090", cfg.HTTPAddr())
	assert.Equal(t, 1200.0, cfg.MaxHeightMM)
	assert.Equal(t, 250.0, cfg.MinOptionPrice)
	assert.True(t, cfg.AuthEnabled())
	assert.Len(t, cfg.Warnings, 2)
}

func TestLoad_RejectsInvalidLimits(t *testing.T) {
	t.Setenv("MAX_WIDTH_MM", "wide")
	_, err := Load()
	require.ErrorContains(t, err, "MAX_WIDTH_MM")

	t.Setenv("MAX_WIDTH_MM", "-5")
	_, err = Load()
	require.ErrorContains(t, err, "greater than 0")
}
