// Package server provides configuration helpers that define runtime
// defaults, environment loading, and validation for the roomchat service.
package server

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/samber/lo"
)

// Config holds the server configuration. The room list is fixed for the
// lifetime of the process; there is no runtime room creation.
type Config struct {
	Port                    string        `envconfig:"PORT" default:":8080" validate:"required"`
	Rooms                   []string      `envconfig:"CHAT_ROOMS" default:"General,Study Group,Coding Corner,Music Lovers" validate:"min=1"`
	HistorySize             int           `envconfig:"HISTORY_SIZE" default:"5" validate:"gt=0"`
	AllowedOrigins          []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	MaxMessageSize          int64         `envconfig:"MAX_MESSAGE_SIZE" default:"4096" validate:"gt=0"`
	SendBufferSize          int           `envconfig:"SEND_BUFFER_SIZE" default:"256" validate:"gt=0"`
	RateLimitBurst          int           `envconfig:"RATE_LIMIT_BURST" default:"5" validate:"gt=0"`
	RateLimitRefillInterval time.Duration `envconfig:"RATE_LIMIT_REFILL_INTERVAL" default:"1s" validate:"gt=0"`
	LogLevel                string        `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
}

// NewConfig creates a Config populated with the default values for all
// settings, without consulting the environment.
func NewConfig() *Config {
	return &Config{
		Port:                    ":8080",
		Rooms:                   []string{"General", "Study Group", "Coding Corner", "Music Lovers"},
		HistorySize:             5,
		AllowedOrigins:          []string{"http://localhost:8080"},
		MaxMessageSize:          4096,
		SendBufferSize:          256,
		RateLimitBurst:          5,
		RateLimitRefillInterval: time.Second,
		LogLevel:                "info",
	}
}

// LoadConfig builds the configuration from the environment, reading an
// optional .env file first. Missing variables fall back to defaults;
// invalid values are an error, not a silent fallback.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, relying on environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.Rooms = sanitizeRooms(cfg.Rooms)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate configuration: %w", err)
	}
	return &cfg, nil
}

// sanitizeRooms trims surrounding whitespace and drops empty or duplicated
// room names while preserving configuration order.
func sanitizeRooms(rooms []string) []string {
	trimmed := lo.FilterMap(rooms, func(room string, _ int) (string, bool) {
		room = strings.TrimSpace(room)
		return room, room != ""
	})
	return lo.Uniq(trimmed)
}

// SlogLevel maps the configured log level string onto a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
