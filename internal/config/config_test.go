package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "academix", cfg.Database.DBName)
	assert.Equal(t, "1h", cfg.JWT.AccessTokenExpiration)
	assert.Equal(t, "en", cfg.I18n.DefaultLocale)
	assert.Empty(t, cfg.Notification.GatewayURL)
}

func TestLoadConfigFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  port: \"9090\"\njwt:\n  secret: file-secret\nnotification:\n  gateway_url: https://push.example.com/send\n")
	require.NoError(t, os.WriteFile(configPath, content, 0o644))

	// Environment overrides the file
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("DB_NAME", "academix_test")

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, "academix_test", cfg.Database.DBName)
	assert.Equal(t, "file-secret", cfg.JWT.Secret)
	assert.Equal(t, "https://push.example.com/send", cfg.Notification.GatewayURL)
}

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestGetPostgresConnectionString(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	cfg.Database.User = "academix"
	cfg.Database.Password = "pw"
	cfg.Database.DBName = "booking"

	assert.Equal(t, "postgres://academix:pw@localhost:5432/booking?sslmode=disable", cfg.GetPostgresConnectionString())
}
