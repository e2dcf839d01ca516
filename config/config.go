package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret matches the secret the web client was built against.
// Override JWT_SECRET in any real deployment.
const DefaultJWTSecret = "FCODE_SECRET_KEY_123"

type Config struct {
	Port     string
	LogLevel string
	GinMode  string

	DBDriver   string // postgres | memory
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBTimeZone string

	JWTSecret string
	JWTTTL    time.Duration

	CORSOrigins []string

	RedisAddr     string
	RedisPassword string
	ChatRateLimit int           // messages per user per minute, 0 disables
	APIRateLimit  int           // requests per IP per minute, 0 disables
	ChatRetention time.Duration // 0 keeps chat messages forever

	RequestTimeout time.Duration

	SupabaseURL    string
	SupabaseKey    string
	SupabaseBucket string
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:     GetEnv("PORT", "8080"),
		LogLevel: GetEnv("LOG_LEVEL", "info"),
		GinMode:  GetEnv("GIN_MODE", "release"),

		DBDriver:   strings.ToLower(GetEnv("DB_DRIVER", "postgres")),
		DBHost:     GetEnv("DB_HOST", "localhost"),
		DBPort:     GetEnv("DB_PORT", "5432"),
		DBUser:     GetEnv("DB_USER", "postgres"),
		DBPassword: GetEnv("DB_PASSWORD", ""),
		DBName:     GetEnv("DB_NAME", "course_platform"),
		DBSSLMode:  GetEnv("DB_SSLMODE", "disable"),
		DBTimeZone: GetEnv("DB_TIMEZONE", "Asia/Ho_Chi_Minh"),

		JWTSecret: GetEnv("JWT_SECRET", DefaultJWTSecret),
		JWTTTL:    GetDuration("JWT_TTL", 24*time.Hour),

		CORSOrigins: splitList(GetEnv("CORS_ORIGINS", "http://localhost:3000")),

		RedisAddr:     GetEnv("REDIS_ADDR", ""),
		RedisPassword: GetEnv("REDIS_PASSWORD", ""),
		ChatRateLimit: GetInt("CHAT_RATE_LIMIT", 30),
		APIRateLimit:  GetInt("API_RATE_LIMIT", 300),
		ChatRetention: GetDuration("CHAT_RETENTION", 30*24*time.Hour),

		RequestTimeout: GetDuration("REQUEST_TIMEOUT", 15*time.Second),

		SupabaseURL:    GetEnv("SUPABASE_URL", ""),
		SupabaseKey:    GetEnv("SUPABASE_KEY", ""),
		SupabaseBucket: GetEnv("SUPABASE_BUCKET", "course-assets"),
	}
}

// GetEnv returns env value or default if missing.
func GetEnv(key, defaultValue string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultValue
	}
	return val
}

func GetInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(GetEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return n
}

// GetDuration accepts Go durations ("15s") or a bare number of seconds.
func GetDuration(key string, defaultValue time.Duration) time.Duration {
	raw := GetEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
