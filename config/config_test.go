package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 5.0, cfg.Suggest.RPS)
	assert.Equal(t, 10, cfg.Suggest.Burst)
	assert.Equal(t, "development", cfg.App.Environment)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("GEMINI_MODEL", "gemini-2.0-pro")
	t.Setenv("SUGGEST_RPS", "2.5")
	t.Setenv("SUGGEST_BURST", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, "k", cfg.Gemini.APIKey)
	assert.Equal(t, "gemini-2.0-pro", cfg.Gemini.Model)
	assert.Equal(t, 2.5, cfg.Suggest.RPS)
	assert.Equal(t, 3, cfg.Suggest.Burst)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("SUGGEST_RPS", "fast")
	t.Setenv("SUGGEST_BURST", "many")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5.0, cfg.Suggest.RPS)
	assert.Equal(t, 10, cfg.Suggest.Burst)
}
