package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Env  string
	Port string

	// SearchBackend selects the index store: "meilisearch" or "postgres".
	SearchBackend string

	MeiliHost         string
	MeiliAPIKey       string
	MeiliIndex        string
	MeiliEmbedderName string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// EmbeddingProvider selects the embedder: "ollama" or "openai".
	EmbeddingProvider    string
	OllamaURL            string
	EmbeddingModel       string
	OpenAIBaseURL        string
	OpenAIAPIKey         string
	OpenAIEmbeddingModel string

	RerankerURL     string
	RerankerModel   string
	RerankerTimeout int

	RetrievalLimit int
	RRFK           float64

	RateLimitRPS   float64
	RateLimitBurst int
}

func Load() *Config {
	return &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "9020"),

		SearchBackend: getEnv("SEARCH_BACKEND", "meilisearch"),

		MeiliHost:         getEnv("MEILISEARCH_HOST", "http://meilisearch:7700"),
		MeiliAPIKey:       getSecret("MEILISEARCH_API_KEY", "MEILISEARCH_API_KEY_FILE", ""),
		MeiliIndex:        getEnv("MEILISEARCH_INDEX", "doc_chunks"),
		MeiliEmbedderName: getEnv("MEILISEARCH_EMBEDDER", "default"),

		DBHost:     getEnv("DB_HOST", "search-db"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "search_user"),
		DBPassword: getSecret("DB_PASSWORD", "DB_PASSWORD_FILE", "search_password"),
		DBName:     getEnv("DB_NAME", "search_db"),

		EmbeddingProvider:    getEnv("EMBEDDING_PROVIDER", "ollama"),
		OllamaURL:            getEnv("OLLAMA_URL", "http://ollama:11434"),
		EmbeddingModel:       getEnv("EMBEDDING_MODEL", "embeddinggemma"),
		OpenAIBaseURL:        getEnv("OPENAI_BASE_URL", ""),
		OpenAIAPIKey:         getSecret("OPENAI_API_KEY", "OPENAI_API_KEY_FILE", ""),
		OpenAIEmbeddingModel: getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),

		RerankerURL:     getEnv("RERANKER_URL", ""),
		RerankerModel:   getEnv("RERANKER_MODEL", "bge-reranker-v2-m3"),
		RerankerTimeout: getEnvInt("RERANKER_TIMEOUT_SECONDS", 30),

		RetrievalLimit: getEnvInt("RETRIEVAL_LIMIT", 50),
		RRFK:           getEnvFloat("RRF_K", 60),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 40),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getSecret(envKey, fileEnvKey, fallback string) string {
	if value, ok := os.LookupEnv(envKey); ok {
		return value
	}

	if filePath, ok := os.LookupEnv(fileEnvKey); ok {
		content, err := os.ReadFile(filePath)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
