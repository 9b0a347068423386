package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every INVITATIONS_ variable so tests see only what they set.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, entry := range os.Environ() {
		if strings.HasPrefix(entry, "INVITATIONS_") {
			key := strings.SplitN(entry, "=", 2)[0]
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
}

// =============================================================================
// Config Loading Tests
// =============================================================================

func TestLoadConfig_DefaultValues(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "./data/invitations.db", cfg.Database.DSN)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.Equal(t, 12*time.Hour, cfg.Sessions.TTL)
	assert.Equal(t, 15*time.Minute, cfg.Sessions.SweepInterval)
}

func TestLoadConfig_FromFile(t *testing.T) {
	clearEnv(t)

	configContent := `
server:
  host: "127.0.0.1"
  port: 9000
  read_timeout: 60s

database:
  dsn: "/tmp/test.db"

log:
  level: "debug"
  format: "text"

admin:
  username: "planner"
  password: "plaintext-dev-only"

sessions:
  ttl: 2h
`
	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(configContent), 0644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 60*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "/tmp/test.db", cfg.Database.DSN)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "planner", cfg.Admin.Username)
	assert.Equal(t, 2*time.Hour, cfg.Sessions.TTL)
}

func TestLoadConfig_EnvironmentOverride(t *testing.T) {
	clearEnv(t)

	t.Setenv("INVITATIONS_SERVER_HOST", "192.168.1.1")
	t.Setenv("INVITATIONS_SERVER_PORT", "3000")
	t.Setenv("INVITATIONS_DATABASE_DSN", "/custom/path.db")
	t.Setenv("INVITATIONS_LOG_LEVEL", "warn")
	t.Setenv("INVITATIONS_ADMIN_PASSWORD", "from-env")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "192.168.1.1", cfg.Server.Host)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "/custom/path.db", cfg.Database.DSN)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "from-env", cfg.Admin.Password)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

// =============================================================================
// Validation Tests
// =============================================================================

func TestConfigValidate_RequiresAdminCredential(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.Validate())

	cfg.Admin.Password = "secret"
	assert.NoError(t, cfg.Validate())

	cfg.Admin.Password = ""
	cfg.Admin.PasswordHash = "$2a$10$abcdefghijklmnopqrstuv"
	assert.NoError(t, cfg.Validate())
}

// =============================================================================
// Logger Tests
// =============================================================================

func TestSetupLogger_Levels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus"} {
		cfg := &Config{Log: LogConfig{Level: level, Format: "text"}}
		assert.NotNil(t, SetupLogger(cfg))
	}
}
