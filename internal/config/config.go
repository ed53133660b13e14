package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every knob the core reads at startup. Populated once in
// main and passed down by value/pointer to constructors; nothing reads
// os.Getenv after LoadConfig returns.
type Config struct {
	Port    string
	GinMode string

	CORSOrigins []string

	// Provider selection and credentials (embedder + completer).
	EmbeddingsProvider string // "google" (default)
	CompletionProvider string // "google" (default)
	GeminiAPIKey       string
	GeminiEmbedModel   string
	GeminiChatModel    string
	ProviderTier       string // free | tier1 | tier2, sizes the rate limiter

	// Vector store.
	VectorStoreKind string // "memory" (default) | "qdrant"
	QdrantURL       string
	QdrantAPIKey    string
	EmbeddingDim    int

	// Retrieval / prompting budgets, per spec.
	MaxContextTokens             int
	ResponseReserve              int
	SimilarityFallbackThreshold  float64

	// Chunking.
	ChunkSize     int
	ChunkOverlap  int
	MinChunkChars int
	MaxPagesTotal int

	// Adaptive quiz engine hyperparameters.
	QLAlpha      float64
	QLGamma      float64
	QLEpsilon    float64
	BlendWeightQ float64

	// External-call deadline, shared by embedder/completer/vector store.
	UpstreamTimeoutMS int

	// Session store.
	SessionStoreKind string // "memory" (default) | "redis"
	RedisURL         string
	RedisPassword    string
	RedisDB          int

	// Upload constraints.
	MaxFileSize int64
}

// LoadConfig loads .env if present, then environment variables, applying
// the defaults from the configuration table. It fails closed only on
// missing provider credentials needed to actually serve traffic; debug
// mode tolerates a stub/fake provider for local work and tests.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		CORSOrigins: splitNonEmpty(getEnv("CORS_ORIGINS", "http://localhost:3000")),

		EmbeddingsProvider: getEnv("EMBEDDINGS_PROVIDER", "google"),
		CompletionProvider: getEnv("COMPLETION_PROVIDER", "google"),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GeminiEmbedModel:   getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
		GeminiChatModel:    getEnv("GEMINI_CHAT_MODEL", "gemini-2.0-flash"),
		ProviderTier:       getEnv("PROVIDER_TIER", "free"),

		VectorStoreKind: getEnv("VECTOR_STORE_KIND", "memory"),
		QdrantURL:       getEnv("QDRANT_URL", "localhost:6334"),
		QdrantAPIKey:    getEnv("QDRANT_API_KEY", ""),
		EmbeddingDim:    getEnvInt("EMBEDDING_DIM", 1536),

		MaxContextTokens:            getEnvInt("MAX_CONTEXT_TOKENS", 4000),
		ResponseReserve:             getEnvInt("RESPONSE_RESERVE", 1000),
		SimilarityFallbackThreshold: getEnvFloat64("SIMILARITY_FALLBACK_THRESHOLD", 0.3),

		ChunkSize:     getEnvInt("CHUNK_SIZE", 1024),
		ChunkOverlap:  getEnvInt("CHUNK_OVERLAP", 200),
		MinChunkChars: getEnvInt("MIN_CHUNK_CHARS", 50),
		MaxPagesTotal: getEnvInt("MAX_PAGES_TOTAL", 300),

		QLAlpha:      getEnvFloat64("QL_ALPHA", 0.1),
		QLGamma:      getEnvFloat64("QL_GAMMA", 0.9),
		QLEpsilon:    getEnvFloat64("QL_EPSILON", 0.2),
		BlendWeightQ: getEnvFloat64("BLEND_WEIGHT_Q", 0.7),

		UpstreamTimeoutMS: getEnvInt("UPSTREAM_TIMEOUT_MS", 30000),

		SessionStoreKind: getEnv("SESSION_STORE_KIND", "memory"),
		RedisURL:         getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvInt("REDIS_DB", 0),

		MaxFileSize: getEnvInt64("MAX_FILE_SIZE", 104857600),
	}

	if cfg.GinMode == "release" {
		if cfg.EmbeddingsProvider == "google" || cfg.CompletionProvider == "google" {
			if cfg.GeminiAPIKey == "" {
				return nil, fmt.Errorf("GEMINI_API_KEY is required in release mode")
			}
		}
		if cfg.VectorStoreKind == "qdrant" && os.Getenv("QDRANT_URL") == "" {
			return nil, fmt.Errorf("QDRANT_URL is required in release mode when VECTOR_STORE_KIND=qdrant")
		}
	}

	return cfg, nil
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
