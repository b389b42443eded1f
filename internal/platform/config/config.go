// Package config loads application configuration from environment variables.
// All variables use the SOL_ prefix.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration.
type Config struct {
	Server        ServerConfig
	Cache         CacheConfig
	AI            AIConfig
	Log           LogConfig
	CurriculumDir string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int
	Host string
}

// CacheConfig holds Redis/Dragonfly connection settings for the
// completion cache. Disabled by default; synthesis works without it.
type CacheConfig struct {
	Enabled bool
	URL     string
	TTLMins int
}

// AIConfig holds configuration for the completion providers.
type AIConfig struct {
	Google    GoogleConfig
	Anthropic AnthropicConfig
	MaxTokens int
}

// GoogleConfig holds Google Gemini provider settings.
type GoogleConfig struct {
	APIKey string
	Model  string
}

// AnthropicConfig holds Anthropic provider settings.
type AnthropicConfig struct {
	APIKey string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with SOL_ prefix.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("SOL_SERVER_PORT", 8080),
			Host: envStr("SOL_SERVER_HOST", "0.0.0.0"),
		},
		Cache: CacheConfig{
			Enabled: envBool("SOL_CACHE_ENABLED", false),
			URL:     envStr("SOL_CACHE_URL", "redis://localhost:6379"),
			TTLMins: envInt("SOL_CACHE_TTL_MINS", 60),
		},
		AI: AIConfig{
			Google: GoogleConfig{
				APIKey: envStr("SOL_AI_GOOGLE_API_KEY", ""),
				Model:  envStr("SOL_AI_GOOGLE_MODEL", "gemini-2.5-flash"),
			},
			Anthropic: AnthropicConfig{
				APIKey: envStr("SOL_AI_ANTHROPIC_API_KEY", ""),
			},
			MaxTokens: envInt("SOL_AI_MAX_TOKENS", 4096),
		},
		Log: LogConfig{
			Level:  envStr("SOL_LOG_LEVEL", "info"),
			Format: envStr("SOL_LOG_FORMAT", "json"),
		},
		CurriculumDir: envStr("SOL_CURRICULUM_DIR", ""),
	}

	return cfg, nil
}

// Validate checks that configuration values are usable. Missing AI keys
// are allowed: export and planning work without a completion provider.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("SOL_SERVER_PORT must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Cache.Enabled && c.Cache.URL == "" {
		return fmt.Errorf("SOL_CACHE_URL is required when the cache is enabled")
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("SOL_LOG_FORMAT must be 'json' or 'text', got %q", c.Log.Format)
	}
	return nil
}

// HasAIProvider returns true if at least one completion provider is
// configured.
func (c *Config) HasAIProvider() bool {
	return c.AI.Google.APIKey != "" || c.AI.Anthropic.APIKey != ""
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.EqualFold(v, "true") || v == "1"
	}
	return fallback
}
