// Package config loads the JSON config file and applies environment
// overrides. Missing files fall back to defaults so a bare binary runs.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Config is the process configuration.
type Config struct {
	Addr          string       `json:"addr"`
	DataDir       string       `json:"data_dir"`
	BoardsBackend string       `json:"boards_backend"` // "sqlite" or "local"
	Debug         bool         `json:"debug"`
	Gemini        GeminiConfig `json:"gemini"`
	Email         EmailConfig  `json:"email"`
}

// GeminiConfig configures the report summarizer.
type GeminiConfig struct {
	APIKey string `json:"api_key"`
	Model  string `json:"model"`
}

// EmailConfig configures the reminder mailer. Resend is the default
// transport; SMTP takes over when SMTPEnabled is set. Reminders are
// disabled when FromEmail is empty.
type EmailConfig struct {
	FromEmail    string `json:"from_email"`
	ResendAPIKey string `json:"resend_api_key"`
	SMTPEnabled  bool   `json:"smtp_enabled"`
	SMTPHost     string `json:"smtp_host"`
	SMTPPort     string `json:"smtp_port"`
	SMTPUser     string `json:"smtp_user"`
	SMTPPass     string `json:"smtp_pass"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Addr:          ":8080",
		DataDir:       "data",
		BoardsBackend: "sqlite",
		Gemini: GeminiConfig{
			Model: "gemini-3-flash-preview",
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads the config file at path, falling back to defaults when it
// does not exist, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	f, err := os.Open(path)
	if err == nil {
		defer f.Close()
		if err := json.NewDecoder(f).Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("open config %s: %w", path, err)
	}

	cfg.Addr = getEnv("POLLEN_ADDR", cfg.Addr)
	cfg.DataDir = getEnv("POLLEN_DATA_DIR", cfg.DataDir)
	cfg.Gemini.APIKey = getEnv("GEMINI_API_KEY", cfg.Gemini.APIKey)
	cfg.Gemini.Model = getEnv("GEMINI_MODEL", cfg.Gemini.Model)
	cfg.Email.FromEmail = getEnv("POLLEN_FROM_EMAIL", cfg.Email.FromEmail)
	cfg.Email.ResendAPIKey = getEnv("RESEND_API_KEY", cfg.Email.ResendAPIKey)
	if strings.EqualFold(getEnv("POLLEN_DEBUG", ""), "true") {
		cfg.Debug = true
	}

	switch cfg.BoardsBackend {
	case "", "sqlite":
		cfg.BoardsBackend = "sqlite"
	case "local":
	default:
		return cfg, fmt.Errorf("unknown boards_backend %q", cfg.BoardsBackend)
	}
	return cfg, nil
}
