// Package config loads service configuration from an optional config.json
// with environment variable overrides taking precedence.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	ServerConfig     ServerConfig     `json:"server"`
	MarketDataConfig MarketDataConfig `json:"market_data"`
	RedisConfig      RedisConfig      `json:"redis"`
	AnalysisConfig   AnalysisConfig   `json:"analysis"`
	AIConfig         AIConfig         `json:"ai"`
	AuthConfig       AuthConfig       `json:"auth"`
	LoggingConfig    LoggingConfig    `json:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string `json:"host"`
	Port            int    `json:"port"`
	AllowedOrigins  string `json:"allowed_origins"`
	ReadTimeout     int    `json:"read_timeout"`     // seconds
	WriteTimeout    int    `json:"write_timeout"`    // seconds
	ShutdownTimeout int    `json:"shutdown_timeout"` // seconds
	RateLimit       int    `json:"rate_limit"`       // requests per client per minute
}

// MarketDataConfig holds the upstream price history API settings.
type MarketDataConfig struct {
	BaseURL           string `json:"base_url"`
	TimeoutSeconds    int    `json:"timeout_seconds"`
	RequestsPerMinute int    `json:"requests_per_minute"`
	MockMode          bool   `json:"mock_mode"` // serve synthetic data instead of calling upstream
}

// RedisConfig holds the optional history cache settings.
type RedisConfig struct {
	Enabled    bool   `json:"enabled"`
	Address    string `json:"address"`
	Password   string `json:"password"`
	DB         int    `json:"db"`
	PoolSize   int    `json:"pool_size"`
	TTLMinutes int    `json:"ttl_minutes"`
}

// AnalysisConfig holds engine defaults and tuning.
type AnalysisConfig struct {
	Workers         int `json:"workers"`          // sliding-window search goroutines
	DefaultLookback int `json:"default_lookback"` // days
	DefaultTopN     int `json:"default_top_n"`
}

// AIConfig holds LLM commentary settings.
type AIConfig struct {
	Enabled        bool    `json:"enabled"`
	Provider       string  `json:"provider"` // "claude", "openai", or "deepseek"
	ClaudeAPIKey   string  `json:"claude_api_key"`
	OpenAIAPIKey   string  `json:"openai_api_key"`
	DeepSeekAPIKey string  `json:"deepseek_api_key"`
	Model          string  `json:"model"`
	MaxTokens      int     `json:"max_tokens"`
	Temperature    float64 `json:"temperature"`
	TimeoutSeconds int     `json:"timeout_seconds"`
}

// APIKey returns the key matching the configured provider.
func (c AIConfig) APIKey() string {
	switch c.Provider {
	case "claude":
		return c.ClaudeAPIKey
	case "deepseek":
		return c.DeepSeekAPIKey
	default:
		return c.OpenAIAPIKey
	}
}

// AuthConfig holds optional bearer-token auth settings.
type AuthConfig struct {
	Enabled   bool          `json:"enabled"`
	JWTSecret string        `json:"jwt_secret"`
	TokenTTL  time.Duration `json:"token_ttl"`
}

// LoggingConfig mirrors internal/logging.Config.
type LoggingConfig struct {
	Level      string `json:"level"`
	Output     string `json:"output"`
	JSONFormat bool   `json:"json_format"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

// Load reads config.json when present and applies environment overrides.
func Load() (*Config, error) {
	cfg, err := loadFromFile("config.json")
	if err != nil {
		cfg = &Config{}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	// Server config
	cfg.ServerConfig.Host = getEnvOrDefault("WEB_HOST", defaultStr(cfg.ServerConfig.Host, "0.0.0.0"))
	cfg.ServerConfig.Port = getEnvIntOrDefault("WEB_PORT", defaultInt(cfg.ServerConfig.Port, 8000))
	cfg.ServerConfig.AllowedOrigins = getEnvOrDefault("SERVER_ALLOWED_ORIGINS", defaultStr(cfg.ServerConfig.AllowedOrigins, "*"))
	cfg.ServerConfig.ReadTimeout = getEnvIntOrDefault("SERVER_READ_TIMEOUT", defaultInt(cfg.ServerConfig.ReadTimeout, 30))
	cfg.ServerConfig.WriteTimeout = getEnvIntOrDefault("SERVER_WRITE_TIMEOUT", defaultInt(cfg.ServerConfig.WriteTimeout, 120))
	cfg.ServerConfig.ShutdownTimeout = getEnvIntOrDefault("SERVER_SHUTDOWN_TIMEOUT", defaultInt(cfg.ServerConfig.ShutdownTimeout, 10))
	cfg.ServerConfig.RateLimit = getEnvIntOrDefault("SERVER_RATE_LIMIT", defaultInt(cfg.ServerConfig.RateLimit, 60))

	// Market data config
	cfg.MarketDataConfig.BaseURL = getEnvOrDefault("STOCK_API_URL", defaultStr(cfg.MarketDataConfig.BaseURL, "http://localhost:5500"))
	cfg.MarketDataConfig.TimeoutSeconds = getEnvIntOrDefault("STOCK_API_TIMEOUT", defaultInt(cfg.MarketDataConfig.TimeoutSeconds, 30))
	cfg.MarketDataConfig.RequestsPerMinute = getEnvIntOrDefault("STOCK_API_RATE_LIMIT", defaultInt(cfg.MarketDataConfig.RequestsPerMinute, 120))
	cfg.MarketDataConfig.MockMode = getEnvOrDefault("MOCK_MODE", boolStr(cfg.MarketDataConfig.MockMode)) == "true"

	// Redis config
	cfg.RedisConfig.Enabled = getEnvOrDefault("REDIS_ENABLED", boolStr(cfg.RedisConfig.Enabled)) == "true"
	cfg.RedisConfig.Address = getEnvOrDefault("REDIS_ADDRESS", defaultStr(cfg.RedisConfig.Address, "localhost:6379"))
	cfg.RedisConfig.Password = getEnvOrDefault("REDIS_PASSWORD", cfg.RedisConfig.Password)
	cfg.RedisConfig.DB = getEnvIntOrDefault("REDIS_DB", cfg.RedisConfig.DB)
	cfg.RedisConfig.PoolSize = getEnvIntOrDefault("REDIS_POOL_SIZE", defaultInt(cfg.RedisConfig.PoolSize, 10))
	cfg.RedisConfig.TTLMinutes = getEnvIntOrDefault("REDIS_TTL_MINUTES", defaultInt(cfg.RedisConfig.TTLMinutes, 15))

	// Analysis config
	cfg.AnalysisConfig.Workers = getEnvIntOrDefault("ANALYSIS_WORKERS", cfg.AnalysisConfig.Workers)
	cfg.AnalysisConfig.DefaultLookback = getEnvIntOrDefault("ANALYSIS_DEFAULT_LOOKBACK", defaultInt(cfg.AnalysisConfig.DefaultLookback, 30))
	cfg.AnalysisConfig.DefaultTopN = getEnvIntOrDefault("ANALYSIS_DEFAULT_TOP_N", defaultInt(cfg.AnalysisConfig.DefaultTopN, 5))

	// AI config
	cfg.AIConfig.Enabled = getEnvOrDefault("AI_ENABLED", boolStr(cfg.AIConfig.Enabled)) == "true"
	cfg.AIConfig.Provider = getEnvOrDefault("AI_LLM_PROVIDER", defaultStr(cfg.AIConfig.Provider, "openai"))
	cfg.AIConfig.ClaudeAPIKey = getEnvOrDefault("AI_CLAUDE_API_KEY", cfg.AIConfig.ClaudeAPIKey)
	cfg.AIConfig.OpenAIAPIKey = getEnvOrDefault("AI_OPENAI_API_KEY", cfg.AIConfig.OpenAIAPIKey)
	cfg.AIConfig.DeepSeekAPIKey = getEnvOrDefault("AI_DEEPSEEK_API_KEY", cfg.AIConfig.DeepSeekAPIKey)
	cfg.AIConfig.Model = getEnvOrDefault("AI_LLM_MODEL", defaultStr(cfg.AIConfig.Model, "gpt-4o-mini"))
	cfg.AIConfig.MaxTokens = getEnvIntOrDefault("AI_MAX_TOKENS", defaultInt(cfg.AIConfig.MaxTokens, 1024))
	cfg.AIConfig.TimeoutSeconds = getEnvIntOrDefault("AI_TIMEOUT", defaultInt(cfg.AIConfig.TimeoutSeconds, 30))
	if cfg.AIConfig.Temperature == 0 {
		cfg.AIConfig.Temperature = 0.3
	}

	// Auth config
	cfg.AuthConfig.Enabled = getEnvOrDefault("AUTH_ENABLED", boolStr(cfg.AuthConfig.Enabled)) == "true"
	cfg.AuthConfig.JWTSecret = getEnvOrDefault("AUTH_JWT_SECRET", cfg.AuthConfig.JWTSecret)
	if cfg.AuthConfig.TokenTTL == 0 {
		cfg.AuthConfig.TokenTTL = getEnvDurationOrDefault("AUTH_TOKEN_TTL", 24*time.Hour)
	}

	// Logging config
	cfg.LoggingConfig.Level = getEnvOrDefault("LOG_LEVEL", defaultStr(cfg.LoggingConfig.Level, "info"))
	cfg.LoggingConfig.Output = getEnvOrDefault("LOG_OUTPUT", defaultStr(cfg.LoggingConfig.Output, "stdout"))
	cfg.LoggingConfig.JSONFormat = getEnvOrDefault("LOG_JSON", boolStr(cfg.LoggingConfig.JSONFormat)) == "true"
}

func getEnvOrDefault(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDurationOrDefault(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func defaultStr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func defaultInt(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}

func boolStr(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
