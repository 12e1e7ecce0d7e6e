package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis (optional shared cache)
	Redis RedisConfig

	// External APIs
	KIS    KISConfig
	Yahoo  YahooConfig
	Naver  NaverConfig
	OpenAI OpenAIConfig

	// Analysis pipeline
	Analysis AnalysisConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// KISConfig holds KIS (한국투자증권) API configuration
type KISConfig struct {
	AppKey    string
	AppSecret string
	BaseURL   string
	// Requests per second allowed against the KIS quote endpoints
	RateLimit int
}

// YahooConfig holds Yahoo Finance configuration
type YahooConfig struct {
	QuoteBaseURL  string
	SearchBaseURL string
}

// NaverConfig holds Naver Finance configuration
type NaverConfig struct {
	BaseURL string
	Enabled bool // registers the Naver adapter as an extra domestic fallback
}

// OpenAIConfig holds the narrative model configuration
type OpenAIConfig struct {
	APIKey string
	Model  string
}

// AnalysisConfig holds pipeline tuning knobs
type AnalysisConfig struct {
	CacheTTL       time.Duration // freshness window per ticker
	AdapterTimeout time.Duration // per-adapter fetch deadline

	// Composite score weights. Treated as configuration, not contract:
	// missing metrics have their weight redistributed at scoring time.
	WeightValuation     float64
	WeightProfitability float64
	WeightYield         float64
	WeightRisk          float64
	WeightUpside        float64
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		// External APIs
		KIS: KISConfig{
			AppKey:    getEnv("KIS_APP_KEY", ""),
			AppSecret: getEnv("KIS_APP_SECRET", ""),
			BaseURL:   getEnv("KIS_BASE_URL", "https://openapi.koreainvestment.com:9443"),
			RateLimit: getEnvAsInt("KIS_RATE_LIMIT", 10),
		},

		Yahoo: YahooConfig{
			QuoteBaseURL:  getEnv("YAHOO_QUOTE_BASE_URL", "https://query1.finance.yahoo.com"),
			SearchBaseURL: getEnv("YAHOO_SEARCH_BASE_URL", "https://query2.finance.yahoo.com"),
		},

		Naver: NaverConfig{
			BaseURL: getEnv("NAVER_BASE_URL", "https://finance.naver.com"),
			Enabled: getEnvAsBool("NAVER_ENABLED", false),
		},

		OpenAI: OpenAIConfig{
			APIKey: getEnv("OPENAI_API_KEY", ""),
			Model:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		},

		Analysis: AnalysisConfig{
			CacheTTL:            getEnvAsDuration("ANALYSIS_CACHE_TTL", "1h"),
			AdapterTimeout:      getEnvAsDuration("ADAPTER_TIMEOUT", "10s"),
			WeightValuation:     getEnvAsFloat("SCORE_WEIGHT_VALUATION", 0.30),
			WeightProfitability: getEnvAsFloat("SCORE_WEIGHT_PROFITABILITY", 0.25),
			WeightYield:         getEnvAsFloat("SCORE_WEIGHT_YIELD", 0.10),
			WeightRisk:          getEnvAsFloat("SCORE_WEIGHT_RISK", 0.15),
			WeightUpside:        getEnvAsFloat("SCORE_WEIGHT_UPSIDE", 0.20),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Analysis.CacheTTL <= 0 {
		return fmt.Errorf("ANALYSIS_CACHE_TTL must be positive")
	}

	if c.Analysis.AdapterTimeout <= 0 {
		return fmt.Errorf("ADAPTER_TIMEOUT must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Try paths in order of priority
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
