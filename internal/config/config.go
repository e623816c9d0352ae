package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/placementprep/interview-backend/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8080"`

	// Database configuration
	DatabaseURL         string               `env:"DATABASE_URL,notEmpty"`
	DBMaxConns          int                  `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int                  `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration        `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration        `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration        `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
	DBConnectRetry      pkgRetry.RetryConfig `envPrefix:"DB_CONNECT_RETRY_"`

	// Generation service configuration
	GenerationCfg GenerationConnectorConfig `envPrefix:"GENERATION_"`

	// Conversational interview store configuration
	ChatSessionTTL    time.Duration `env:"CHAT_SESSION_TTL" envDefault:"30m"`
	ChatSweepInterval time.Duration `env:"CHAT_SWEEP_INTERVAL" envDefault:"1m"`
	ChatSlidingExpiry bool          `env:"CHAT_SLIDING_EXPIRY" envDefault:"false"`

	// Coding phase time limit in seconds
	CodingTimeLimit int64 `env:"CODING_TIME_LIMIT" envDefault:"3600"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

// GenerationConnectorConfig configures the chat-completions upstream used
// for question generation, analysis and chat replies.
type GenerationConnectorConfig struct {
	HTTPClientConfig
	CompletionsEndpoint string  `env:"COMPLETIONS_ENDPOINT" envDefault:"/v1/chat/completions"`
	Model               string  `env:"MODEL" envDefault:"llama-3.3-70b-versatile"`
	Temperature         float64 `env:"TEMPERATURE" envDefault:"0.7"`
	MaxTokens           int     `env:"MAX_TOKENS" envDefault:"4096"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"60s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL,notEmpty"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		return fmt.Errorf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns)
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns)
	}

	if cfg.ChatSessionTTL <= 0 {
		return fmt.Errorf("CHAT_SESSION_TTL must be positive, got %s", cfg.ChatSessionTTL)
	}

	if cfg.ChatSweepInterval <= 0 {
		return fmt.Errorf("CHAT_SWEEP_INTERVAL must be positive, got %s", cfg.ChatSweepInterval)
	}

	if cfg.CodingTimeLimit < 60 {
		return fmt.Errorf("CODING_TIME_LIMIT must be at least 60 seconds, got %d", cfg.CodingTimeLimit)
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
