package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, "ninguno", cfg.ClaimStrategy)
	assert.Equal(t, 30, cfg.ClaimTTLSeconds)
	assert.Equal(t, "rechazar", cfg.PoliticaBaja)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, 300, cfg.ReconciliarSegundos)
	assert.False(t, cfg.IsProduction())
}

func TestLoadDesdeEntorno(t *testing.T) {
	viper.Reset()
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("APP_ENV", "production")
	t.Setenv("POLITICA_BAJA", "forzar_cierre")
	t.Setenv("CORS_ORIGINS", "https://app.austech.cl,https://admin.austech.cl")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "forzar_cierre", cfg.PoliticaBaja)
	assert.Equal(t, []string{"https://app.austech.cl", "https://admin.austech.cl"}, cfg.CORSOrigins)
}

func TestValidate(t *testing.T) {
	assert.ErrorContains(t, (&Config{}).validate(), "JWT_SECRET")
	assert.ErrorContains(t, (&Config{JWTSecret: "x", ClaimStrategy: "redis"}).validate(), "REDIS_URL")
	assert.NoError(t, (&Config{JWTSecret: "x", ClaimStrategy: "redis", RedisURL: "redis://localhost:6379"}).validate())
}
