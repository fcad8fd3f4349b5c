package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN         string // empty: in-memory store
	ServerPort    string
	SessionSecret string
	SeedFile      string // empty: embedded dataset
	LogLevel      string
	GinMode       string

	// set when SessionSecret was generated for this process only
	EphemeralSecret bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBDSN:         os.Getenv("DB_DSN"),
		ServerPort:    os.Getenv("SERVER_PORT"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		SeedFile:      os.Getenv("SEED_FILE"),
		LogLevel:      strings.ToLower(os.Getenv("LOG_LEVEL")),
		GinMode:       os.Getenv("GIN_MODE"),
	}

	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("LOG_LEVEL %q: want debug, info, warn or error", cfg.LogLevel)
	}
	if cfg.GinMode == "" {
		cfg.GinMode = "release"
	}

	// sessions do not survive a restart anyway when the data does not
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = uuid.NewString() + uuid.NewString()
		cfg.EphemeralSecret = true
	}

	return cfg, nil
}
