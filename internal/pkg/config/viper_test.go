package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
app:
  base_url: http://127.0.0.1:8000
  server:
    cors: "http://localhost:3000, https://example.com,"
email_client:
  base_url: https://api.sendgrid.com/v3
  timeout_milliseconds: 10000
database:
  pool:
    max_conns: 8
    max_conn_lifetime_seconds: 60
  auto_migrate: true
instrument:
  trace_sample_ratio: 0.25
  log_mask_fields:
    - authorization
    - token
`

func TestNewViperFromBytes(t *testing.T) {
	t.Run("requires config type", func(t *testing.T) {
		cfg, err := NewViperFromBytes("  ", []byte(sampleYAML))
		require.ErrorIs(t, err, ErrConfigTypeRequired)
		assert.Nil(t, cfg)
	})

	t.Run("rejects malformed content", func(t *testing.T) {
		cfg, err := NewViperFromBytes("yaml", []byte("app: [unterminated"))
		require.Error(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("typed getters", func(t *testing.T) {
		cfg, err := NewViperFromBytes("yaml", []byte(sampleYAML))
		require.NoError(t, err)
		t.Cleanup(func() { _ = cfg.Close() })

		assert.Equal(t, "https://api.sendgrid.com/v3", cfg.GetString("email_client.base_url"))
		assert.Equal(t, 10*time.Second, cfg.GetMillisecond("email_client.timeout_milliseconds"))
		assert.Equal(t, time.Minute, cfg.GetSecond("database.pool.max_conn_lifetime_seconds"))
		assert.Equal(t, 8, cfg.GetInt("database.pool.max_conns"))
		assert.Equal(t, int32(8), cfg.GetInt32("database.pool.max_conns"))
		assert.InDelta(t, 0.25, cfg.GetFloat64("instrument.trace_sample_ratio"), 1e-9)
		assert.True(t, cfg.GetBool("database.auto_migrate"))
	})

	t.Run("missing keys yield zero values", func(t *testing.T) {
		cfg, err := NewViperFromBytes("yaml", []byte(sampleYAML))
		require.NoError(t, err)

		assert.Empty(t, cfg.GetString("nope"))
		assert.Zero(t, cfg.GetMillisecond("nope"))
		assert.False(t, cfg.GetBool("nope"))
		assert.Empty(t, cfg.GetArray("nope"))
	})
}

func TestViper_GetArray(t *testing.T) {
	cfg, err := NewViperFromBytes("yaml", []byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, []string{"http://localhost:3000", "https://example.com"}, cfg.GetArray("app.server.cors"))
	assert.Equal(t, []string{"authorization", "token"}, cfg.GetArray("instrument.log_mask_fields"))
}

func TestViper_EnvironmentOverride(t *testing.T) {
	t.Setenv("APP_EMAIL_CLIENT__BASE_URL", "http://127.0.0.1:9999")
	t.Setenv("APP_EMAIL_CLIENT__AUTHORIZATION_TOKEN", "from-env")

	cfg, err := NewViperFromBytes("yaml", []byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:9999", cfg.GetString("email_client.base_url"))
	assert.Equal(t, "from-env", cfg.GetString("email_client.authorization_token"))
	assert.Equal(t, 10*time.Second, cfg.GetMillisecond("email_client.timeout_milliseconds"))
}

func TestNewViper(t *testing.T) {
	t.Run("reads file", func(t *testing.T) {
		dir := t.TempDir()
		file := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(file, []byte(sampleYAML), 0o600))

		cfg, err := NewViper(file)
		require.NoError(t, err)
		t.Cleanup(func() { _ = cfg.Close() })

		assert.Equal(t, "http://127.0.0.1:8000", cfg.GetString("app.base_url"))
	})

	t.Run("missing file", func(t *testing.T) {
		cfg, err := NewViper(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
		assert.Nil(t, cfg)
	})
}
