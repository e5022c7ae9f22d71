// Package config loads application configuration from config.json, a .env
// file and MOODCHEF_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Backend providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Store kinds.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreMemory   = "memory"
)

// Config holds all application configuration.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Server  ServerConfig  `mapstructure:"server"`
	Backend BackendConfig `mapstructure:"backend"`
	Store   StoreConfig   `mapstructure:"store"`
}

// AppConfig contains application-level configuration.
type AppConfig struct {
	LogLevel    string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat   string `mapstructure:"log_format" validate:"oneof=json console"`
	Development bool   `mapstructure:"development"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Address           string        `mapstructure:"address" validate:"required"`
	AllowedOrigins    []string      `mapstructure:"allowed_origins"`
	GenerateTimeout   time.Duration `mapstructure:"generate_timeout" validate:"gt=0"`
	StoreTimeout      time.Duration `mapstructure:"store_timeout" validate:"gt=0"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" validate:"gt=0"`
}

// BackendConfig selects and configures the generative text backend.
type BackendConfig struct {
	Provider    string  `mapstructure:"provider" validate:"oneof=gemini openai"`
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url" validate:"omitempty,url"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int     `mapstructure:"max_tokens" validate:"gte=0"`
}

// StoreConfig selects where saved recipes live.
type StoreConfig struct {
	Kind          string `mapstructure:"kind" validate:"oneof=sqlite postgres redis memory"`
	Path          string `mapstructure:"path" validate:"required_if=Kind sqlite"`
	DatabaseURL   string `mapstructure:"database_url" validate:"required_if=Kind postgres"`
	RedisAddr     string `mapstructure:"redis_addr" validate:"required_if=Kind redis"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db" validate:"gte=0"`
}

// Load reads configuration. configPath may name a file explicitly; when
// empty, config.json is looked up in . and ./config, and a missing file is
// not an error.
func Load(configPath string) (*Config, error) {
	// A missing .env is fine.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("json")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("MOODCHEF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyKeyFallbacks()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")
	v.SetDefault("app.development", false)

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.generate_timeout", "45s")
	v.SetDefault("server.store_timeout", "5s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.read_header_timeout", "10s")

	v.SetDefault("backend.provider", ProviderOpenAI)
	v.SetDefault("backend.api_key", "")
	v.SetDefault("backend.base_url", "")
	v.SetDefault("backend.model", "")
	v.SetDefault("backend.temperature", 1.0)
	v.SetDefault("backend.max_tokens", 0)

	v.SetDefault("store.kind", StoreSQLite)
	v.SetDefault("store.path", defaultDBPath())
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.redis_addr", "localhost:6379")
	v.SetDefault("store.redis_password", "")
	v.SetDefault("store.redis_db", 0)
}

// applyKeyFallbacks honours the provider's conventional key variable when no
// key was configured.
func (c *Config) applyKeyFallbacks() {
	if c.Backend.APIKey != "" {
		return
	}
	switch c.Backend.Provider {
	case ProviderGemini:
		c.Backend.APIKey = os.Getenv("GEMINI_API_KEY")
	case ProviderOpenAI:
		c.Backend.APIKey = os.Getenv("OPENAI_API_KEY")
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// defaultDBPath is ~/.moodchef/moodchef.db, or ./moodchef.db without a home.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "moodchef.db"
	}
	return filepath.Join(home, ".moodchef", "moodchef.db")
}
