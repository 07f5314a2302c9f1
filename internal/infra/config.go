package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv            string
	Port              string
	DatabaseURL       string
	DBMaxConns        int
	DBMinConns        int
	RedisURL          string
	SessionSecret     string
	SessionTTL        time.Duration
	StorageDir        string
	StorageBaseURL    string
	GeoIPDBPath       string
	ResendAPIKey      string
	InviteFromAddress string
	DefaultLocale     string
	CORSOrigins       []string
	HTTPReadTimeout   time.Duration
	HTTPWriteTimeout  time.Duration
	HTTPIdleTimeout   time.Duration
	LoginRatePerMin   int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:            getEnv("APP_ENV", "development"),
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		DBMaxConns:        getEnvInt("DB_MAX_CONNS", 10),
		DBMinConns:        getEnvInt("DB_MIN_CONNS", 2),
		RedisURL:          os.Getenv("REDIS_URL"),
		SessionSecret:     os.Getenv("SESSION_SECRET"),
		SessionTTL:        time.Hour * time.Duration(getEnvInt("SESSION_TTL_HOURS", 24)),
		StorageDir:        getEnv("STORAGE_DIR", "./data/uploads"),
		StorageBaseURL:    getEnv("STORAGE_BASE_URL", "http://localhost:8080/static"),
		GeoIPDBPath:       os.Getenv("GEOIP_DB_PATH"),
		ResendAPIKey:      os.Getenv("RESEND_API_KEY"),
		InviteFromAddress: getEnv("INVITE_FROM_ADDRESS", "Mandal Fund <noreply@mandalfund.in>"),
		DefaultLocale:     getEnv("DEFAULT_LOCALE", "en"),
		CORSOrigins:       splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "")),
		HTTPReadTimeout:   time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:  time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:   time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		LoginRatePerMin:   getEnvInt("LOGIN_RATE_PER_MINUTE", 10),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required")
	}

	return cfg, nil
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
