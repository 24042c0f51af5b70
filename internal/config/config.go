// Package config loads application settings from the environment and an optional .env file.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every tunable of the road-trip service.
type Config struct {
	Port     string `mapstructure:"PORT"`
	Env      string `mapstructure:"APP_ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	PostgresURL string `mapstructure:"POSTGRES_URL"`

	JWTSecret string        `mapstructure:"JWT_SECRET"`
	JWTTTL    time.Duration `mapstructure:"JWT_TTL"`

	// FrontendURL is the allowed CORS origin and websocket origin. Empty allows any origin.
	FrontendURL string `mapstructure:"FRONTEND_URL"`

	SessionTTL           time.Duration `mapstructure:"SESSION_TTL"`
	SessionSweepInterval time.Duration `mapstructure:"SESSION_SWEEP_INTERVAL"`

	MapboxAccessToken string        `mapstructure:"MAPBOX_ACCESS_TOKEN"`
	MapboxBaseURL     string        `mapstructure:"MAPBOX_BASE_URL"`
	MapboxProfile     string        `mapstructure:"MAPBOX_PROFILE"`
	RouteCacheTTL     time.Duration `mapstructure:"ROUTE_CACHE_TTL"`
	RouteTimeout      time.Duration `mapstructure:"ROUTE_TIMEOUT"`

	// ReplayPresence sends the current participant list to a connection right after it joins a room.
	ReplayPresence bool `mapstructure:"REALTIME_REPLAY_PRESENCE"`
	// EvictEmptyRooms drops a room from memory once its last connection leaves.
	EvictEmptyRooms bool `mapstructure:"REALTIME_EVICT_EMPTY_ROOMS"`
	SendBuffer      int  `mapstructure:"REALTIME_SEND_BUFFER"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom     string `mapstructure:"SMTP_FROM"`
	AppBaseURL   string `mapstructure:"APP_BASE_URL"`
}

var defaults = map[string]any{
	"PORT":                       "8080",
	"APP_ENV":                    "production",
	"LOG_LEVEL":                  "info",
	"POSTGRES_URL":               "",
	"JWT_SECRET":                 "",
	"JWT_TTL":                    "24h",
	"FRONTEND_URL":               "",
	"SESSION_TTL":                "24h",
	"SESSION_SWEEP_INTERVAL":     "15m",
	"MAPBOX_ACCESS_TOKEN":        "",
	"MAPBOX_BASE_URL":            "https://api.mapbox.com",
	"MAPBOX_PROFILE":             "driving",
	"ROUTE_CACHE_TTL":            "10m",
	"ROUTE_TIMEOUT":              "15s",
	"REALTIME_REPLAY_PRESENCE":   false,
	"REALTIME_EVICT_EMPTY_ROOMS": true,
	"REALTIME_SEND_BUFFER":       64,
	"SMTP_HOST":                  "",
	"SMTP_PORT":                  587,
	"SMTP_USERNAME":              "",
	"SMTP_PASSWORD":              "",
	"SMTP_FROM":                  "",
	"APP_BASE_URL":               "http://localhost:5173",
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
		_ = v.BindEnv(key)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.PostgresURL == "" && !c.IsTest() {
		return errors.New("POSTGRES_URL is required")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.SessionSweepInterval <= 0 {
		return errors.New("SESSION_SWEEP_INTERVAL must be positive")
	}
	if c.SendBuffer < 1 {
		return errors.New("REALTIME_SEND_BUFFER must be at least 1")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

func (c *Config) IsTest() bool {
	return strings.EqualFold(c.Env, "test")
}
