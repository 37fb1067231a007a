package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration values.
type Config struct {
	// Answering service
	ServerURL string `yaml:"server_url"`

	// Local state
	DataDir string `yaml:"data_dir"`
	UserID  string `yaml:"user_id"`

	// Logging
	LogFile  string     `yaml:"log_file"`
	LogLevel slog.Level `yaml:"-"`

	// Voice capture
	SpeechCredentials string `yaml:"speech_credentials"`
	SpeechLanguage    string `yaml:"speech_language"`
	ListenSeconds     int    `yaml:"listen_seconds"`
}

// fileConfig mirrors Config for the optional YAML file; LogLevel is a
// string there and parsed separately.
type fileConfig struct {
	Config   `yaml:",inline"`
	LogLevel string `yaml:"log_level"`
}

// Load reads configuration with the precedence defaults < YAML file < env.
// The file is looked up at CLINIC_CONFIG or <data dir>/config.yaml.
func Load() Config {
	cfg := Config{
		ServerURL:      "http://localhost:5000",
		DataDir:        defaultDataDir(),
		LogFile:        "/tmp/clinic-chat.log",
		LogLevel:       slog.LevelInfo,
		SpeechLanguage: "ru-RU",
		ListenSeconds:  5,
	}

	applyFile(&cfg)
	applyEnv(&cfg)

	return cfg
}

func applyFile(cfg *Config) {
	path := os.Getenv("CLINIC_CONFIG")
	if path == "" {
		path = filepath.Join(cfg.DataDir, "config.yaml")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	fc := fileConfig{Config: *cfg}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		// A broken config file must not prevent startup.
		return
	}
	*cfg = fc.Config
	if fc.LogLevel != "" {
		cfg.LogLevel = ParseLogLevel(fc.LogLevel)
	}
}

func applyEnv(cfg *Config) {
	cfg.ServerURL = getEnv("CLINIC_SERVER_URL", cfg.ServerURL)
	cfg.DataDir = getEnv("CLINIC_DATA_DIR", cfg.DataDir)
	cfg.UserID = getEnv("CLINIC_USER_ID", cfg.UserID)
	cfg.LogFile = getEnv("CLINIC_LOG_FILE", cfg.LogFile)
	if lvl := os.Getenv("CLINIC_LOG_LEVEL"); lvl != "" {
		cfg.LogLevel = ParseLogLevel(lvl)
	}
	cfg.SpeechCredentials = getEnv("CLINIC_SPEECH_CREDENTIALS", cfg.SpeechCredentials)
	cfg.SpeechLanguage = getEnv("CLINIC_SPEECH_LANGUAGE", cfg.SpeechLanguage)
	if s := os.Getenv("CLINIC_LISTEN_SECONDS"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			cfg.ListenSeconds = n
		}
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".clinic-chat"
	}
	return filepath.Join(home, ".clinic-chat")
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// ParseLogLevel maps a level name to a slog.Level, defaulting to info.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
