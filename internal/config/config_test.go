package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "http://localhost:3000", cfg.FrontendURL)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "admin@hrms.local", cfg.Seed.Email)
	assert.False(t, cfg.ResetDB)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("FRONTEND_URL", "https://hr.example.com")
	t.Setenv("RESET_DB", "true")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("SEED_ADMIN_EMAIL", "root@example.com")
	t.Setenv("SEED_ADMIN_PASSWORD", "s3cretpass")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, "https://hr.example.com", cfg.FrontendURL)
	assert.True(t, cfg.ResetDB)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "root@example.com", cfg.Seed.Email)
	assert.Equal(t, "s3cretpass", cfg.Seed.Password)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")

	_, err := Load()
	assert.Error(t, err)
}

func TestSwaggerURL(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{"default host", "", "http://localhost:8080/swagger/index.html"},
		{"bare host", "api.example.com", "http://api.example.com/swagger/index.html"},
		{"https host", "https://api.example.com", "https://api.example.com/swagger/index.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{ServerPort: "8080", SwaggerHost: tt.host}
			assert.Equal(t, tt.want, cfg.SwaggerURL())
		})
	}
}
