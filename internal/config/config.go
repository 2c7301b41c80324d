package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Pipeline PipelineConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	ConsumerLogPath    string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	OtelEnabled        bool
	OtelEndpoint       string
}

type DatabaseConfig struct {
	// Connection is a postgres DSN. Empty disables parse-log persistence.
	Connection string
}

type APIKeys struct {
	GoogleGemini string
	HuggingFace  string
	JwtSecret    string
}

type AIConfig struct {
	LLMProvider    string // "ollama", "huggingface" or "gemini"
	LLMModel       string // e.g. "qwen2.5:7b"
	OllamaBaseURL  string
	HuggingFaceURL string
}

// PipelineConfig holds the budgets of the intent pipeline.
type PipelineConfig struct {
	PromptCeiling     int
	OutputCeiling     int
	CombinedCeiling   int
	TaskOverflowCap   int
	FallbackMaxTitles int
	CacheTTLMinutes   int
	ParseLogTopic     string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			ConsumerLogPath:    getEnv("CONSUMER_LOG_FILE_PATH", "logs/parse_log_consumer.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", ""),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
			OtelEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			HuggingFace:  getEnv("HUGGINGFACE_API_KEY", ""),
			JwtSecret:    getEnv("JWT_SECRET", ""),
		},
		Ai: AIConfig{
			LLMProvider:    getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:       getEnv("LLM_MODEL", "qwen2.5:7b"),
			OllamaBaseURL:  getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			HuggingFaceURL: getEnv("HUGGINGFACE_BASE_URL", ""),
		},
		Pipeline: PipelineConfig{
			PromptCeiling:     getEnvAsInt("PIPELINE_PROMPT_CEILING", 6000),
			OutputCeiling:     getEnvAsInt("PIPELINE_OUTPUT_CEILING", 1024),
			CombinedCeiling:   getEnvAsInt("PIPELINE_COMBINED_CEILING", 8192),
			TaskOverflowCap:   getEnvAsInt("PIPELINE_TASK_OVERFLOW_CAP", 20),
			FallbackMaxTitles: getEnvAsInt("PIPELINE_FALLBACK_MAX_TITLES", 50),
			CacheTTLMinutes:   getEnvAsInt("PIPELINE_CACHE_TTL_MINUTES", 60),
			ParseLogTopic:     getEnv("PARSE_LOG_TOPIC_NAME", "PARSE_LOG"),
		},
	}
}

// BaseURLFor returns the endpoint configured for the active LLM provider.
func (c AIConfig) BaseURLFor() string {
	switch c.LLMProvider {
	case "huggingface":
		return c.HuggingFaceURL
	case "gemini":
		return ""
	}
	return c.OllamaBaseURL
}

// APIKeyFor returns the credential for the active LLM provider.
func (c *Config) APIKeyFor() string {
	switch c.Ai.LLMProvider {
	case "huggingface":
		return c.Keys.HuggingFace
	case "gemini":
		return c.Keys.GoogleGemini
	}
	return ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
