package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration.
type Config struct {
	Port             string
	DBDSN            string
	APIKey           string
	GeminiBaseURL    string
	ScriptModel      string
	SpeechModel      string
	UseStubs         bool
	LogLevel         slog.Level
	HTTPTimeout      time.Duration
	OutputSampleRate int
}

// Load reads an optional .env file, parses environment variables into
// Config and validates required values.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		DBDSN:         os.Getenv("DB_DSN"),
		APIKey:        getEnv("GEMINI_API_KEY", os.Getenv("API_KEY")),
		GeminiBaseURL: os.Getenv("GEMINI_BASE_URL"),
		ScriptModel:   os.Getenv("SCRIPT_MODEL"),
		SpeechModel:   os.Getenv("SPEECH_MODEL"),
	}

	var err error
	if cfg.UseStubs, err = strconv.ParseBool(getEnv("USE_STUBS", "false")); err != nil {
		return Config{}, fmt.Errorf("parse USE_STUBS: %w", err)
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "INFO"))); err != nil {
		return Config{}, fmt.Errorf("parse LOG_LEVEL: %w", err)
	}
	if cfg.HTTPTimeout, err = time.ParseDuration(getEnv("HTTP_TIMEOUT", "90s")); err != nil {
		return Config{}, fmt.Errorf("parse HTTP_TIMEOUT: %w", err)
	}
	if cfg.OutputSampleRate, err = strconv.Atoi(getEnv("OUTPUT_SAMPLE_RATE", "48000")); err != nil {
		return Config{}, fmt.Errorf("parse OUTPUT_SAMPLE_RATE: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field requirements.
func (c Config) Validate() error {
	if !c.UseStubs && strings.TrimSpace(c.APIKey) == "" {
		return errors.New("GEMINI_API_KEY is required unless USE_STUBS=true")
	}
	if c.HTTPTimeout <= 0 {
		return errors.New("HTTP_TIMEOUT must be positive")
	}
	if c.OutputSampleRate <= 0 {
		return errors.New("OUTPUT_SAMPLE_RATE must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
