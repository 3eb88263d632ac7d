package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort  string
	LogLevel  string
	LogFormat string

	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	JWTSecret    string
	TokenTTL     time.Duration
	CookieSecure bool
	CORSOrigins  []string

	UploadDir     string
	SweepInterval time.Duration
	Location      *time.Location

	RedisURL        string
	LoginRateLimit  int
	LoginRateWindow time.Duration

	GmailCredentialsFile string
	GmailTokenFile       string
	MailFrom             string

	GeminiAPIKey string
	GeminiModel  string

	CVRenderer string
	ChromePath string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:             getEnv("HTTP_PORT", "5000"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "text"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		DBMaxOpenConns:       getInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:       getInt("DB_MAX_IDLE_CONNS", 10),
		DBConnMaxLifetime:    getDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		TokenTTL:             getDuration("TOKEN_TTL", time.Hour),
		CookieSecure:         getBool("COOKIE_SECURE", false),
		CORSOrigins:          getList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		UploadDir:            getEnv("UPLOAD_DIR", "public/uploads"),
		SweepInterval:        getDuration("SWEEP_INTERVAL", time.Minute),
		RedisURL:             getEnv("REDIS_URL", ""),
		LoginRateLimit:       getInt("LOGIN_RATE_LIMIT", 10),
		LoginRateWindow:      getDuration("LOGIN_RATE_WINDOW", time.Minute),
		GmailCredentialsFile: getEnv("GMAIL_CREDENTIALS_FILE", ""),
		GmailTokenFile:       getEnv("GMAIL_TOKEN_FILE", ""),
		MailFrom:             getEnv("MAIL_FROM", "JobX <no-reply@jobx.local>"),
		GeminiAPIKey:         getEnv("GEMINI_API_KEY", ""),
		GeminiModel:          getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		CVRenderer:           getEnv("CV_RENDERER", "html"),
		ChromePath:           getEnv("CHROME_PATH", ""),
	}

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "UTC"))
	if err != nil {
		return nil, errors.New("TIMEZONE is not a valid IANA location")
	}
	cfg.Location = loc

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.SweepInterval <= 0 {
		return nil, errors.New("SWEEP_INTERVAL must be positive")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
