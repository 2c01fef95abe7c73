package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kapu/tia-transfer-bot-go/internal/constants"
)

type Config struct {
	Iris     IrisConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	Gemini   GeminiConfig
	OpenAI   OpenAIConfig
	Enhancer EnhancerConfig
	Wallet   WalletConfig
	Metrics  MetricsConfig
	Logging  LoggingConfig
	Bot      BotConfig
}

type IrisConfig struct {
	BaseURL string
	WSURL   string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// PostgresConfig backs the optional audit log.
type PostgresConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

// OpenAIConfig also covers OpenAI-compatible endpoints such as DeepSeek via BaseURL.
type OpenAIConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	EnableFallback bool
}

type EnhancerConfig struct {
	Enabled bool
}

type WalletConfig struct {
	Enabled      bool
	QueueKey     string
	ResultPrefix string
	ReplyTimeout time.Duration
}

type MetricsConfig struct {
	Addr string
}

type LoggingConfig struct {
	Level string
	File  string
}

type BotConfig struct {
	Prefix      string
	Rooms       []string
	Concurrency int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Iris: IrisConfig{
			BaseURL: getEnv("IRIS_BASE_URL", "http://localhost:3000"),
			WSURL:   getEnv("IRIS_WS_URL", "ws://localhost:3000/ws"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Postgres: PostgresConfig{
			Enabled:  getEnvBool("POSTGRES_ENABLED", false),
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "transfer_bot"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "transfer_bot"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		},
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			BaseURL:        getEnv("OPENAI_BASE_URL", ""),
			Model:          getEnv("OPENAI_MODEL", "gpt-5-mini"),
			EnableFallback: getEnvBool("OPENAI_ENABLE_FALLBACK", true),
		},
		Enhancer: EnhancerConfig{
			Enabled: getEnvBool("ENHANCER_ENABLED", true),
		},
		Wallet: WalletConfig{
			Enabled:      getEnvBool("WALLET_ENABLED", true),
			QueueKey:     getEnv("WALLET_QUEUE_KEY", constants.WalletConfig.QueueKey),
			ResultPrefix: getEnv("WALLET_RESULT_PREFIX", constants.WalletConfig.ResultPrefix),
			ReplyTimeout: time.Duration(getEnvInt("WALLET_REPLY_TIMEOUT_SECONDS", int(constants.WalletConfig.ReplyTimeout/time.Second))) * time.Second,
		},
		Metrics: MetricsConfig{
			Addr: getEnv("METRICS_ADDR", ":9090"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
		Bot: BotConfig{
			Prefix:      getEnv("BOT_PREFIX", "!"),
			Rooms:       parseCommaSeparated(getEnv("BOT_ROOMS", "")),
			Concurrency: getEnvInt("BOT_CONCURRENCY", 8),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Iris.BaseURL == "" {
		return fmt.Errorf("IRIS_BASE_URL is required")
	}
	if c.Iris.WSURL == "" {
		return fmt.Errorf("IRIS_WS_URL is required")
	}
	if c.Enhancer.Enabled && c.Gemini.APIKey == "" && c.OpenAI.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY or OPENAI_API_KEY is required when ENHANCER_ENABLED is true")
	}
	if c.Postgres.Enabled && (c.Postgres.Host == "" || c.Postgres.Database == "") {
		return fmt.Errorf("POSTGRES_HOST and POSTGRES_DB are required when POSTGRES_ENABLED is true")
	}
	if c.Wallet.Enabled && c.Wallet.ReplyTimeout <= 0 {
		return fmt.Errorf("WALLET_REPLY_TIMEOUT_SECONDS must be positive")
	}
	if c.Bot.Concurrency < 1 {
		return fmt.Errorf("BOT_CONCURRENCY must be at least 1")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func parseCommaSeparated(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
