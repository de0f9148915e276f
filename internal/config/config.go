// Package config provides environment configuration for the service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration

	// Catalog and index artifacts
	MoviesCSVPath    string
	IndexPath        string
	IndexMappingPath string

	// Embedding settings
	EmbeddingModel     string
	EmbeddingDimension int

	// LLM settings
	AnthropicAPIKey string
	OpenAIAPIKey    string

	// Recommendation defaults
	TopK            int
	CandidatePoolK  int
	GenreBoost      float64
	PopularityBoost float64
	RecommendTimeout time.Duration

	// NATS settings (optional; event publishing disabled when URL empty)
	NATSURL   string
	NATSToken string

	// JWT settings
	JWTSecret string

	// Rate limiting
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Logging
	LogLevel string

	// Tracing
	TracingEndpoint string
	TracingEnabled  bool
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		// Server
		ServerPort:         getEnv("PORT", "8080"),
		ServerReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
		ServerWriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 120*time.Second),

		// Data
		MoviesCSVPath:    getEnv("MOVIES_CSV_PATH", "datasets/cleaned/movies.csv"),
		IndexPath:        getEnv("INDEX_PATH", "datasets/index/movies.index"),
		IndexMappingPath: getEnv("INDEX_MAPPING_PATH", "datasets/index/movies.mapping"),

		// Embeddings
		EmbeddingModel:     getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingDimension: getIntEnv("EMBEDDING_DIMENSION", 1536),

		// LLM
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),

		// Recommendation
		TopK:             getIntEnv("RECOMMEND_TOP_K", 10),
		CandidatePoolK:   getIntEnv("RECOMMEND_POOL_K", 50),
		GenreBoost:       getFloatEnv("GENRE_BOOST", 0.3),
		PopularityBoost:  getFloatEnv("POPULARITY_BOOST", 0.05),
		RecommendTimeout: getDurationEnv("RECOMMEND_TIMEOUT", 30*time.Second),

		// NATS
		NATSURL:   getEnv("NATS_URL", ""),
		NATSToken: getEnv("NATS_TOKEN", ""),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "development-secret-change-in-production"),

		// Rate limiting
		RateLimitRequests: getIntEnv("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Tracing
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
