package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432")

	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 168*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 120, cfg.RateLimit)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.NATSEnabled)
	assert.Equal(t, "local", cfg.ProofStore)
	assert.Equal(t, 5*time.Second, cfg.LockTimeout)
	assert.Equal(t, 6*time.Hour, cfg.RoomCloseGrace)
	assert.Equal(t, 5*time.Minute, cfg.RoomCloseInterval)
	assert.Equal(t, "tourney", cfg.OTELServiceName)
	assert.Equal(t, 60000, cfg.OTELExportIntervalMS)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DATABASE_URL", "postgres://db:5432")
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	t.Setenv("LOCK_TIMEOUT", "750ms")
	t.Setenv("RATE_LIMIT", "30")
	t.Setenv("NATS_ENABLED", "true")
	t.Setenv("ADMIN_USERNAMES", " root, ,ops ")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, 750*time.Millisecond, cfg.LockTimeout)
	assert.Equal(t, 30, cfg.RateLimit)
	assert.True(t, cfg.NATSEnabled)
	assert.Equal(t, []string{"root", "ops"}, cfg.AdminUsernames)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "database url required",
			env:     map[string]string{"JWT_SECRET_KEY": "k"},
			wantErr: "DATABASE_URL is required",
		},
		{
			name:    "jwt secret required",
			env:     map[string]string{"DATABASE_URL": "postgres://db"},
			wantErr: "JWT_SECRET_KEY is required",
		},
		{
			name:    "unknown proof store",
			env:     map[string]string{"DATABASE_URL": "postgres://db", "JWT_SECRET_KEY": "k", "PROOF_STORE": "ftp"},
			wantErr: "PROOF_STORE must be local or r2",
		},
		{
			name:    "r2 needs a bucket",
			env:     map[string]string{"DATABASE_URL": "postgres://db", "JWT_SECRET_KEY": "k", "PROOF_STORE": "r2"},
			wantErr: "R2_BUCKET_NAME",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ENVIRONMENT", "production")
			t.Setenv("DATABASE_URL", "")
			t.Setenv("JWT_SECRET_KEY", "")
			t.Setenv("PROOF_STORE", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSetTestConfig(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	custom := NewTestConfig()
	custom.RateLimit = 7
	SetTestConfig(custom)

	assert.Same(t, custom, Get())
}
