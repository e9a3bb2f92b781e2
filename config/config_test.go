package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MemoryBackendDefaults(t *testing.T) {
	t.Setenv("GATEWAY_BACKEND", BackendMemory)
	t.Setenv("PORT", "")
	t.Setenv("REDIS_ADDR", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, BackendMemory, cfg.Gateway.Backend)
	assert.Equal(t, "@every 5m", cfg.Catalog.RefreshSpec)
	assert.Equal(t, 10*time.Minute, cfg.Catalog.SnapshotTTL)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_ParsesListsAndDurations(t *testing.T) {
	t.Setenv("GATEWAY_BACKEND", BackendMemory)
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://gabonshop.ga, http://localhost:3000 ,")
	t.Setenv("CATALOG_SNAPSHOT_TTL", "90s")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://gabonshop.ga", "http://localhost:3000"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, 90*time.Second, cfg.Catalog.SnapshotTTL)
	assert.True(t, cfg.Redis.Enabled())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:    "firestore needs api key",
			mutate:  func(c *Config) { c.Gateway.Backend = BackendFirestore },
			wantErr: "FIREBASE_API_KEY",
		},
		{
			name: "postgres needs dsn",
			mutate: func(c *Config) {
				c.Gateway.Backend = BackendPostgres
				c.Firebase.APIKey = "key"
			},
			wantErr: "DB_DSN",
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Gateway.Backend = "mongo" },
			wantErr: "unknown GATEWAY_BACKEND",
		},
		{
			name:   "memory is self contained",
			mutate: func(c *Config) { c.Gateway.Backend = BackendMemory },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Server:   ServerConfig{Port: "8080"},
				Firebase: FirebaseConfig{AuthRatePerSec: 1},
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
