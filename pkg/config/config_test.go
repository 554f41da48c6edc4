package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "advisor_assessment", cfg.Database.Name)
	assert.Equal(t, 12*time.Hour, cfg.Session.TTL)
	assert.True(t, cfg.Calculations.StatusCacheEnabled)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("SESSION_COOKIE_SECURE", "true")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("CALC_STATUS_TTL", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.True(t, cfg.Session.CookieSecure)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 24*time.Hour, cfg.Calculations.StatusTTL)
}

func TestLoadProductionRequiresReportFont(t *testing.T) {
	t.Setenv("ENV", EnvProduction)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REPORT_FONT_PATH")

	t.Setenv("REPORT_FONT_PATH", "/usr/share/fonts/thai/Sarabun-Regular.ttf")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/usr/share/fonts/thai/Sarabun-Regular.ttf", cfg.Reports.FontPath)
}
