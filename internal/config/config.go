package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For list parsing
	"time"    // For durations

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort string // Application port
	IsProd  bool   // Is production environment

	DBDriver          string        // postgres, mysql or sqlite
	DBUser            string        // Database user
	DBPassword        string        // Database password
	DBHost            string        // Database host
	DBPort            string        // Database port
	DBName            string        // Database name
	DBPath            string        // SQLite database file
	DBMaxOpenConns    int           // Pool size
	DBMaxIdleConns    int           // Idle connections kept in the pool
	DBConnMaxLifetime time.Duration // Connection recycle interval

	RedisAddr string        // Redis server address, empty disables the cache
	RedisPass string        // Redis password
	RedisDB   int           // Redis database number
	CacheTTL  time.Duration // Read cache TTL

	SecretPaymentKey string // Shared secret for webhook signatures

	CookieSecret   string // HS256 key for the session cookie
	CookieName     string // Session cookie name
	CookieSecure   bool   // Secure attribute
	CookieHTTPOnly bool   // HttpOnly attribute
	CookieSameSite string // lax, strict or none
	CookiePath     string // Path attribute

	SessionTTL           time.Duration // Session lifetime
	SessionSweepInterval time.Duration // Expired session purge interval

	LogLevel    string   // logrus level
	CORSOrigins []string // Allowed origins
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	return &Config{
		AppPort: getEnv("APP_PORT", "8000"),
		IsProd:  os.Getenv("IS_PROD") == "true",

		DBDriver:          getEnv("DB_DRIVER", "postgres"),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBName:            getEnv("DB_NAME", "postgres"),
		DBPath:            getEnv("DB_PATH", "paydesk.db"),
		DBMaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 20),
		DBMaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 10),
		DBConnMaxLifetime: getDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),

		RedisAddr: os.Getenv("REDIS_ADDR"),
		RedisPass: os.Getenv("REDIS_PASS"),
		RedisDB:   getInt("REDIS_DB", 0),
		CacheTTL:  getDuration("CACHE_TTL", 60*time.Second),

		SecretPaymentKey: os.Getenv("SECRET_PAYMENT_KEY"),

		CookieSecret:   os.Getenv("COOKIE_SECRET"),
		CookieName:     getEnv("COOKIE_NAME", "session_token"),
		CookieSecure:   getBool("COOKIE_SECURE", false),
		CookieHTTPOnly: getBool("COOKIE_HTTP_ONLY", true),
		CookieSameSite: getEnv("COOKIE_SAME_SITE", "lax"),
		CookiePath:     getEnv("COOKIE_PATH", "/"),

		SessionTTL:           getDuration("SESSION_TTL", 30*time.Minute),
		SessionSweepInterval: getDuration("SESSION_SWEEP_INTERVAL", 10*time.Minute),

		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: getList("CORS_ORIGINS", []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:8000", "http://127.0.0.1:8000"}),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return def
}

func getList(key string, def []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
