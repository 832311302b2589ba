package config

import (
	"fmt"
	"os"
	"time"

	"rift-tracker/internal/constants"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	RiotAPIKey   string
	DBPath       string
	ServerPort   string
	LogLevel     string
	ResolveDelay time.Duration
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		RiotAPIKey:   getEnv("RIOT_API_KEY", ""),
		DBPath:       getEnv("DB_PATH", "rift.db"),
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		ResolveDelay: constants.DefaultResolveDelay,
	}

	if raw := os.Getenv("RESOLVE_DELAY_MS"); raw != "" {
		d, err := time.ParseDuration(raw + "ms")
		if err != nil {
			return nil, fmt.Errorf("invalid RESOLVE_DELAY_MS: %w", err)
		}
		cfg.ResolveDelay = d
	}

	if cfg.RiotAPIKey == "" {
		return nil, fmt.Errorf("RIOT_API_KEY is required")
	}

	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		logger.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level, keeping default")
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Dur("resolve_delay", cfg.ResolveDelay).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
