package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Settings struct {
	Port        string
	DatabaseDSN string
	JWTSecret   string

	CookieDomain   string
	AllowedOrigins []string

	AIProvider      string
	GeminiAPIKey    string
	GeminiModel     string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	OpenAIModel     string
	Temperature     float32
	TopP            float32
	TopK            float32
	MaxOutputTokens int

	MaxSourceChars      int
	GenerationWorkers   int
	GenerationQueueSize int
	GenerationTimeout   time.Duration

	MaxUploadBytes int64
	UploadDir      string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	RabbitMQURI      string
	RabbitMQExchange string

	RedisAddr           string
	RedisPassword       string
	GenerationRateLimit int
	GenerationRateEvery time.Duration
}

// Load reads settings from the environment. A .env file is honoured when present.
func Load() *Settings {
	if err := godotenv.Load(); err != nil {
		Logger.Debug("No .env file found, using environment variables")
	}

	return &Settings{
		Port:        getEnvOrDefault("PORT", "8080"),
		DatabaseDSN: os.Getenv("DATABASE_DSN"),
		JWTSecret:   os.Getenv("JWT_SECRET"),

		CookieDomain:   getEnvOrDefault("COOKIE_DOMAIN", ""),
		AllowedOrigins: splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),

		AIProvider:      getEnvOrDefault("AI_PROVIDER", "gemini"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:   os.Getenv("OPENAI_BASE_URL"),
		OpenAIModel:     getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		Temperature:     float32(getFloatOrDefault("AI_TEMPERATURE", 0.3)),
		TopP:            float32(getFloatOrDefault("AI_TOP_P", 0.8)),
		TopK:            float32(getFloatOrDefault("AI_TOP_K", 40)),
		MaxOutputTokens: getIntOrDefault("AI_MAX_OUTPUT_TOKENS", 65536),

		MaxSourceChars:      getIntOrDefault("MAX_SOURCE_CHARS", 30000),
		GenerationWorkers:   getIntOrDefault("GENERATION_WORKERS", 4),
		GenerationQueueSize: getIntOrDefault("GENERATION_QUEUE_SIZE", 64),
		GenerationTimeout:   getDurationOrDefault("GENERATION_TIMEOUT", 3*time.Minute),

		MaxUploadBytes: int64(getIntOrDefault("MAX_UPLOAD_BYTES", 20<<20)),
		UploadDir:      getEnvOrDefault("UPLOAD_DIR", "uploads"),

		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getEnvOrDefault("MINIO_BUCKET", "study-files"),
		MinioUseSSL:    getEnvOrDefault("MINIO_USE_SSL", "false") == "true",

		RabbitMQURI:      os.Getenv("RABBITMQ_URI"),
		RabbitMQExchange: getEnvOrDefault("RABBITMQ_EXCHANGE", "studyquiz.events"),

		RedisAddr:           os.Getenv("REDIS_ADDR"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		GenerationRateLimit: getIntOrDefault("GENERATION_RATE_LIMIT", 10),
		GenerationRateEvery: getDurationOrDefault("GENERATION_RATE_WINDOW", time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
