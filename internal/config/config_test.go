package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CLINIC_CONFIG", "CLINIC_SERVER_URL", "CLINIC_DATA_DIR", "CLINIC_USER_ID",
		"CLINIC_LOG_FILE", "CLINIC_LOG_LEVEL", "CLINIC_SPEECH_CREDENTIALS",
		"CLINIC_SPEECH_LANGUAGE", "CLINIC_LISTEN_SECONDS",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	assert.Equal(t, "http://localhost:5000", cfg.ServerURL)
	assert.Contains(t, cfg.DataDir, ".clinic-chat")
	assert.Equal(t, "/tmp/clinic-chat.log", cfg.LogFile)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "ru-RU", cfg.SpeechLanguage)
	assert.Equal(t, 5, cfg.ListenSeconds)
	assert.Empty(t, cfg.UserID)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("CLINIC_SERVER_URL", "http://bot:9000")
	t.Setenv("CLINIC_DATA_DIR", "/var/lib/clinic")
	t.Setenv("CLINIC_USER_ID", "fixed-user")
	t.Setenv("CLINIC_LOG_LEVEL", "debug")
	t.Setenv("CLINIC_SPEECH_LANGUAGE", "en-US")
	t.Setenv("CLINIC_LISTEN_SECONDS", "8")

	cfg := Load()

	assert.Equal(t, "http://bot:9000", cfg.ServerURL)
	assert.Equal(t, "/var/lib/clinic", cfg.DataDir)
	assert.Equal(t, "fixed-user", cfg.UserID)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "en-US", cfg.SpeechLanguage)
	assert.Equal(t, 8, cfg.ListenSeconds)
}

func TestLoadYAMLFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"server_url: http://filehost:7000\nlog_level: warn\nlisten_seconds: 3\n",
	), 0o644))
	t.Setenv("CLINIC_CONFIG", path)

	cfg := Load()

	assert.Equal(t, "http://filehost:7000", cfg.ServerURL)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Equal(t, 3, cfg.ListenSeconds)
}

func TestEnvBeatsFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_url: http://filehost:7000\n"), 0o644))
	t.Setenv("CLINIC_CONFIG", path)
	t.Setenv("CLINIC_SERVER_URL", "http://envhost:8000")

	cfg := Load()
	assert.Equal(t, "http://envhost:8000", cfg.ServerURL)
}

func TestBrokenYAMLFileIsIgnored(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{{{ not yaml"), 0o644))
	t.Setenv("CLINIC_CONFIG", path)

	cfg := Load()
	assert.Equal(t, "http://localhost:5000", cfg.ServerURL)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"Error", slog.LevelError},
		{"nonsense", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLogLevel(tt.in), tt.in)
	}
}
