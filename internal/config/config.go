package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Supported STT backends.
const (
	BackendOpenAI    = "openai"
	BackendOpenAISDK = "openai-sdk"
	BackendLocal     = "local"
)

type Config struct {
	Server    ServerConfig
	STT       STTConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

type ServerConfig struct {
	Host string `env:"SERVER_HOST" env-default:"0.0.0.0"`
	Port int    `env:"SERVER_PORT" env-default:"8080"`
	// ReadTimeout bounds the whole body, so it stays off by default: a 25 MiB
	// upload over a slow uplink must not be cut short.
	ReadTimeout       time.Duration `env:"SERVER_READ_TIMEOUT" env-default:"0s"`
	ReadHeaderTimeout time.Duration `env:"SERVER_READ_HEADER_TIMEOUT" env-default:"15s"`
	WriteTimeout      time.Duration `env:"SERVER_WRITE_TIMEOUT" env-default:"5m"`
	IdleTimeout       time.Duration `env:"SERVER_IDLE_TIMEOUT" env-default:"120s"`
}

type STTConfig struct {
	Backend       string        `env:"STT_BACKEND" env-default:"openai"` // "openai", "openai-sdk" or "local"
	OpenAIKey     string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string        `env:"STT_OPENAI_BASE_URL" env-default:"https://api.openai.com/v1"`
	OpenAIModel   string        `env:"STT_OPENAI_MODEL" env-default:"gpt-4o-mini-transcribe"`
	LocalBaseURL  string        `env:"STT_LOCAL_BASE_URL" env-default:"http://localhost:8178"`
	Timeout       time.Duration `env:"STT_UPSTREAM_TIMEOUT" env-default:"0s"` // 0 means no timeout
}

type AuthConfig struct {
	// JWTSecret enables signature verification of the bearer token when set.
	JWTSecret string `env:"AUTH_JWT_SECRET"`
}

type RateLimitConfig struct {
	RPS   float64 `env:"RATE_LIMIT_RPS" env-default:"0"` // 0 disables limiting
	Burst int     `env:"RATE_LIMIT_BURST" env-default:"10"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"json"`
}

// Load reads the configuration from the environment. A missing OPENAI_API_KEY
// is not an error here; requests detect it at call time.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) Validate() error {
	var problems []string
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("SERVER_PORT out of range: %d", c.Server.Port))
	}
	switch c.STT.Backend {
	case BackendOpenAI, BackendOpenAISDK, BackendLocal:
	default:
		problems = append(problems, fmt.Sprintf("unknown STT_BACKEND %q", c.STT.Backend))
	}
	if c.STT.Timeout < 0 {
		problems = append(problems, "STT_UPSTREAM_TIMEOUT must not be negative")
	}
	if c.Server.ReadTimeout < 0 || c.Server.ReadHeaderTimeout < 0 {
		problems = append(problems, "server timeouts must not be negative")
	}
	if c.RateLimit.RPS < 0 {
		problems = append(problems, "RATE_LIMIT_RPS must not be negative")
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst < 1 {
		problems = append(problems, "RATE_LIMIT_BURST must be at least 1 when limiting is enabled")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
