package config

import (
	"fmt"
	"log"
	"net"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the application.
type Config struct {
	Host string `envconfig:"APP_HOST" default:""`
	Port int    `envconfig:"APP_PORT" default:"8080" validate:"min=1,max=65535"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"text" validate:"oneof=text json"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"debug" validate:"oneof=debug info warn error"`

	// SubscriberBuffer is how many undelivered messages a subscription may hold.
	SubscriberBuffer int `envconfig:"CHAT_SUBSCRIBER_BUFFER" default:"64" validate:"min=1"`

	WSInitTimeout  time.Duration `envconfig:"GRAPHQL_WS_INIT_TIMEOUT" default:"10s" validate:"gt=0"`
	WSKeepAlive    time.Duration `envconfig:"GRAPHQL_WS_KEEPALIVE" default:"12s" validate:"gt=0"`
	OriginPatterns []string      `envconfig:"WS_ORIGIN_PATTERNS" default:"*" validate:"min=1,dive,required"`

	UIEnabled     bool    `envconfig:"UI_ENABLED" default:"true"`
	UIRateLimit   float64 `envconfig:"UI_RATE_LIMIT" default:"5" validate:"gt=0"`
	SessionSecret string  `envconfig:"SESSION_SECRET" default:"livechat-dev-secret" validate:"min=8"`
}

// New loads configuration from a .env file (if present) and the environment.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// slog is not configured yet; the standard logger is fine for this one line.
		log.Println("No .env file found, relying on environment variables")
	}
	return Load()
}

// Load reads configuration from the environment only and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("read config from environment: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
