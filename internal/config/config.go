package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	DBDriver    string
	DatabaseURL string
	DBHost      string
	DBUser      string
	DBPass      string
	DBName      string
	DBPort      string

	RedisURL string

	JWTSecret string
	JWTTTL    time.Duration

	LogLevel     string
	LogFormat    string
	LogComponent string
	LogSource    bool

	MeiliSearchHost string
	MeiliMasterKey  string

	CloudinaryUploadFolder string

	RateLimitBooking time.Duration
	RateLimitReview  time.Duration

	AdminEmail    string
	AdminPassword string
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPass:      os.Getenv("DB_PASS"),
		DBName:      getEnv("DB_NAME", "hennahub"),
		DBPort:      getEnv("DB_PORT", "5432"),

		RedisURL: os.Getenv("REDIS_URL"),

		JWTSecret: getEnv("JWT_SECRET", "change-me"),

		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "text"),
		LogComponent: getEnv("LOG_COMPONENT", "api"),
		LogSource:    isTruthy(os.Getenv("LOG_SOURCE")),

		MeiliSearchHost: os.Getenv("MEILISEARCH_HOST"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		CloudinaryUploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "hennahub"),

		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@hennahub.local"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin12345"),
	}

	minutes, err := strconv.Atoi(getEnv("JWT_TTL_MINUTES", "60"))
	if err != nil || minutes <= 0 {
		return nil, fmt.Errorf("invalid JWT_TTL_MINUTES: %q", os.Getenv("JWT_TTL_MINUTES"))
	}
	cfg.JWTTTL = time.Duration(minutes) * time.Minute

	cfg.RateLimitBooking, err = time.ParseDuration(getEnv("RATE_LIMIT_BOOKING", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BOOKING: %w", err)
	}
	cfg.RateLimitReview, err = time.ParseDuration(getEnv("RATE_LIMIT_REVIEW", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_REVIEW: %w", err)
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Origins splits AllowedOrigins into the list handed to the CORS middleware.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}
