package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// HTTP server
	Port             string   `mapstructure:"PORT"`
	StaticDir        string   `mapstructure:"STATIC_DIR"`
	LoginSuccessPath string   `mapstructure:"LOGIN_SUCCESS_PATH"`
	AllowedOrigins   []string `mapstructure:"ALLOWED_ORIGINS"`

	// Database
	DatabaseURL             string        `mapstructure:"DATABASE_URL"`
	DatabaseName            string        `mapstructure:"DATABASE_NAME"`
	DatabaseMaxConns        int32         `mapstructure:"DATABASE_MAX_CONNS"`         // 0 keeps the pgxpool default
	DatabaseMaxConnLifetime time.Duration `mapstructure:"DATABASE_MAX_CONN_LIFETIME"` // 0 keeps the pgxpool default

	// Discord OAuth and withdrawal webhook
	DiscordClientID     string `mapstructure:"DISCORD_CLIENT_ID"`
	DiscordClientSecret string `mapstructure:"DISCORD_CLIENT_SECRET"`
	DiscordRedirectURI  string `mapstructure:"DISCORD_REDIRECT_URI"`
	DiscordWebhookURL   string `mapstructure:"DISCORD_WEBHOOK_URL"`

	// Sessions
	SessionSecret string        `mapstructure:"SESSION_SECRET"`
	SessionTTL    time.Duration `mapstructure:"SESSION_TTL"`
	CookieSecure  bool          `mapstructure:"COOKIE_SECURE"`
	RedisURL      string        `mapstructure:"REDIS_URL"`

	// Optional event relay
	NATSServers string `mapstructure:"NATS_SERVERS"`

	OutboundTimeout     time.Duration `mapstructure:"OUTBOUND_TIMEOUT"`
	MaintenanceSchedule string        `mapstructure:"MAINTENANCE_SCHEDULE"`

	// Environment
	Environment string `mapstructure:"ENVIRONMENT"` // "development", "production" or "test"
	LogLevel    string `mapstructure:"LOG_LEVEL"`
}

var keys = []string{
	"PORT",
	"STATIC_DIR",
	"LOGIN_SUCCESS_PATH",
	"ALLOWED_ORIGINS",
	"DATABASE_URL",
	"DATABASE_NAME",
	"DATABASE_MAX_CONNS",
	"DATABASE_MAX_CONN_LIFETIME",
	"DISCORD_CLIENT_ID",
	"DISCORD_CLIENT_SECRET",
	"DISCORD_REDIRECT_URI",
	"DISCORD_WEBHOOK_URL",
	"SESSION_SECRET",
	"SESSION_TTL",
	"COOKIE_SECURE",
	"REDIS_URL",
	"NATS_SERVERS",
	"OUTBOUND_TIMEOUT",
	"MAINTENANCE_SCHEDULE",
	"ENVIRONMENT",
	"LOG_LEVEL",
}

var (
	instance *Config
	once     sync.Once
	mu       sync.RWMutex
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		if instance != nil {
			return
		}
		cfg, err := Load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
		instance = cfg
	})
	mu.RLock()
	defer mu.RUnlock()
	return instance
}

// Load reads configuration from the environment and an optional .env file
func Load() (*Config, error) {
	viper.AddConfigPath(".")
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.SetDefault("PORT", "3000")
	viper.SetDefault("STATIC_DIR", "public")
	viper.SetDefault("LOGIN_SUCCESS_PATH", "/dashboard.html")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("DATABASE_MAX_CONNS", 0)
	viper.SetDefault("DATABASE_MAX_CONN_LIFETIME", "0s")
	viper.SetDefault("SESSION_TTL", "720h")
	viper.SetDefault("COOKIE_SECURE", false)
	viper.SetDefault("OUTBOUND_TIMEOUT", "10s")
	viper.SetDefault("MAINTENANCE_SCHEDULE", "@hourly")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")

	viper.AutomaticEnv()
	for _, key := range keys {
		_ = viper.BindEnv(key)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.AllowedOrigins = splitList(cfg.AllowedOrigins)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.OutboundTimeout <= 0 {
		return fmt.Errorf("OUTBOUND_TIMEOUT must be positive")
	}
	if c.DatabaseMaxConns < 0 {
		return fmt.Errorf("DATABASE_MAX_CONNS cannot be negative")
	}
	if c.DatabaseMaxConnLifetime < 0 {
		return fmt.Errorf("DATABASE_MAX_CONN_LIFETIME cannot be negative")
	}

	if c.Environment == "test" {
		return nil
	}

	required := []struct {
		key   string
		value string
	}{
		{"DATABASE_URL", c.DatabaseURL},
		{"DISCORD_CLIENT_ID", c.DiscordClientID},
		{"DISCORD_CLIENT_SECRET", c.DiscordClientSecret},
		{"DISCORD_REDIRECT_URI", c.DiscordRedirectURI},
		{"SESSION_SECRET", c.SessionSecret},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%s is required", r.key)
		}
	}
	return nil
}

// IsProduction reports whether the app runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// splitList trims entries and splits any that still contain commas
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Port:                "3000",
		StaticDir:           "public",
		LoginSuccessPath:    "/dashboard.html",
		AllowedOrigins:      []string{"http://localhost:3000"},
		SessionSecret:       "test-secret",
		SessionTTL:          720 * time.Hour,
		OutboundTimeout:     10 * time.Second,
		MaintenanceSchedule: "@hourly",
		Environment:         "test",
		LogLevel:            "debug",
	}
}
