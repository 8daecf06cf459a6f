package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	AppEnv      string
	DBUrl       string
	SupabaseUrl string
	SupabaseKey string
	// SupabaseJWTSecret verifies HS256 tokens; asymmetric tokens use JWKS.
	SupabaseJWTSecret string
	FrontendURL       string
	AllowedOrigins    []string
	// Storage (Supabase S3-compatible endpoint)
	StorageBucket     string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Region          string
	S3Endpoint        string
	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitGlobalThreshold int
	RateLimitWriteThreshold  int
	// Directory data
	MentorsFile   string
	AvatarsFile   string
	LookupTimeout time.Duration
}

func LoadConfig() (*Config, error) {
	// Load .env file when present; real environment variables win.
	_ = godotenv.Load()

	supabaseURL := strings.TrimRight(getEnv("SUPABASE_URL", ""), "/")
	frontendURL := strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/")

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		AppEnv:            getEnv("APP_ENV", "development"),
		DBUrl:             getEnv("DATABASE_URL", ""),
		SupabaseUrl:       supabaseURL,
		SupabaseKey:       getEnv("SUPABASE_KEY", getEnv("SUPABASE_ANON_KEY", "")),
		SupabaseJWTSecret: getEnv("SUPABASE_JWT_SECRET", getEnv("SUPABASE_JWT_KEY", "")),
		FrontendURL:       frontendURL,
		AllowedOrigins:    getEnvList("ALLOWED_ORIGINS", []string{frontendURL}),
		// Storage
		StorageBucket:     getEnv("STORAGE_BUCKET", "profile-images"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:        strings.TrimRight(getEnv("S3_ENDPOINT", defaultS3Endpoint(supabaseURL)), "/"),
		// Redis/Upstash Configuration
		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),
		// Rate Limiting Configuration (with sensible defaults)
		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
		RateLimitWriteThreshold:  getEnvInt("RATE_LIMIT_WRITE_THRESHOLD", 30),
		// Directory data
		MentorsFile:   getEnv("MENTORS_FILE", ""),
		AvatarsFile:   getEnv("AVATARS_FILE", ""),
		LookupTimeout: time.Duration(getEnvInt("USER_LOOKUP_TIMEOUT_MS", 5000)) * time.Millisecond,
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}

	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

// IsProduction reports whether cookies should be marked Secure.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// StoragePublicBaseURL is the prefix of public object URLs; the bucket
// name follows it.
func (c *Config) StoragePublicBaseURL() string {
	if c.SupabaseUrl == "" {
		return ""
	}
	return c.SupabaseUrl + "/storage/v1/object/public"
}

// JWKSURL is the Supabase Auth key set endpoint.
func (c *Config) JWKSURL() string {
	if c.SupabaseUrl == "" {
		return ""
	}
	return c.SupabaseUrl + "/auth/v1/.well-known/jwks.json"
}

func defaultS3Endpoint(supabaseURL string) string {
	if supabaseURL == "" {
		return ""
	}
	return supabaseURL + "/storage/v1/s3"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping blanks and trailing slashes.
func getEnvList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimRight(strings.TrimSpace(part), "/")
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
