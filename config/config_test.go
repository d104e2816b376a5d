package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CART_BACKEND", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "memory", cfg.CartBackend)
	assert.Equal(t, 72*time.Hour, cfg.CartTTL)
	assert.Equal(t, "menu_items", cfg.ESMenuIndex)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CART_BACKEND", "Redis")
	t.Setenv("CART_TTL", "30m")
	t.Setenv("DB_MAX_CONNS", "not-a-number")
	t.Setenv("COOKIE_SECURE", "true")

	cfg := Load()

	assert.Equal(t, "redis", cfg.CartBackend)
	assert.Equal(t, 30*time.Minute, cfg.CartTTL)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.True(t, cfg.CookieSecure)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", cfg.PostgresDSN())
}

func TestSplitLists(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: " http://a , ,http://b", ElasticsearchAddrs: ""}
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.CORSOrigins())
	assert.Empty(t, cfg.ESAddrs())
}
