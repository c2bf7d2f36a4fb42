package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "JWT_TTL", "SALT_ROUNDS", "CLIENT_ORIGINS", "MONGO_URI", "MONGO_URL", "JWT_SECRET"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, 168*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10, cfg.SaltRounds)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Len(t, cfg.Origins, 3)
	assert.True(t, cfg.DefaultSecret())
	assert.True(t, cfg.AllowGuestCheckout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_TTL", "0")
	t.Setenv("MONGO_URI", "")
	t.Setenv("MONGO_URL", "mongodb://db:27017")
	t.Setenv("CLIENT_ORIGINS", " https://shop.example , ,https://admin.example")
	t.Setenv("ALLOW_GUEST_CHECKOUT", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Zero(t, cfg.JWTTTL)
	assert.Equal(t, "mongodb://db:27017", cfg.MongoURI)
	assert.Equal(t, []string{"https://shop.example", "https://admin.example"}, cfg.Origins)
	assert.False(t, cfg.AllowGuestCheckout)
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	t.Setenv("SALT_ROUNDS", "ten")
	_, err := Load()
	assert.Error(t, err)
}
