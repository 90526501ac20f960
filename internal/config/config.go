package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	LogFormat          string
	CORSAllowedOrigins []string
	MaxBodyBytes       int
	RateLimitRPS       float64
	RateLimitBurst     int

	// Storage
	StorageBackend    string
	DataDir           string
	S3Bucket          string
	S3Prefix          string
	DatabaseURL       string
	DynamoTablesTable string
	Tables            TableNames

	// Redis table lock
	TableLockRedis bool
	TableLockTTL   time.Duration
	RedisAddr      string
	RedisPassword  string
	RedisTLS       bool

	// Language model
	LLMProvider         string
	LLMModel            string
	LLMBaseURL          string
	LLMTimeout          time.Duration
	LLMFallbackProvider string
	LLMFallbackModel    string
	OpenAIAPIKey        string
	GeminiAPIKey        string
	BedrockModelID      string

	// AWS
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// Timezone used to stamp discharge dates. Empty means the process local zone.
	Timezone string
}

// TableNames addresses the five datasets in whichever backend is configured.
type TableNames struct {
	Patients   string
	Beds       string
	Doctors    string
	Medicines  string
	Discharged string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		MaxBodyBytes:       getEnvAsInt("MAX_BODY_BYTES", 1<<20),
		RateLimitRPS:       getEnvAsFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 10),

		StorageBackend:    strings.ToLower(strings.TrimSpace(getEnv("STORAGE_BACKEND", "csv"))),
		DataDir:           getEnv("DATA_DIR", "datasets"),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3Prefix:          getEnv("S3_PREFIX", "datasets/"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		DynamoTablesTable: getEnv("DYNAMODB_TABLES_TABLE", "hospital_tables"),
		Tables: TableNames{
			Patients:   getEnv("PATIENTS_TABLE", "modified_hospital_data"),
			Beds:       getEnv("BEDS_TABLE", "bed_inventory"),
			Doctors:    getEnv("DOCTORS_TABLE", "doctor_schedule"),
			Medicines:  getEnv("MEDICINES_TABLE", "mock_medicine_inventory_extended"),
			Discharged: getEnv("DISCHARGED_TABLE", "discharged_patients"),
		},

		TableLockRedis: getEnvAsBool("TABLE_LOCK_REDIS", false),
		TableLockTTL:   getEnvAsDuration("TABLE_LOCK_TTL", 10*time.Second),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisTLS:       getEnvAsBool("REDIS_TLS", false),

		LLMProvider:         strings.ToLower(strings.TrimSpace(getEnv("LLM_PROVIDER", "ollama"))),
		LLMModel:            getEnv("LLM_MODEL", "mistral"),
		LLMBaseURL:          getEnv("LLM_BASE_URL", ""),
		LLMTimeout:          getEnvAsDuration("LLM_TIMEOUT", 30*time.Second),
		LLMFallbackProvider: strings.ToLower(strings.TrimSpace(getEnv("LLM_FALLBACK_PROVIDER", ""))),
		LLMFallbackModel:    getEnv("LLM_FALLBACK_MODEL", ""),
		OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		BedrockModelID:      getEnv("BEDROCK_MODEL_ID", ""),

		AWSRegion:           getEnv("AWS_REGION", "ap-south-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		Timezone: getEnv("TIMEZONE", ""),
	}
}

// Location resolves Timezone, falling back to time.Local when unset or unknown.
func (c *Config) Location() *time.Location {
	if c == nil || strings.TrimSpace(c.Timezone) == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(strings.TrimSpace(c.Timezone))
	if err != nil {
		return time.Local
	}
	return loc
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsFloat retrieves an environment variable as a float or returns a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	raw := strings.TrimSpace(getEnv(key, ""))
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
