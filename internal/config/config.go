package config

import (
	"errors"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/united-manufacturing-hub/umh-utils/env"
	"go.uber.org/zap"
)

// Defaults for a deployment made of many short-lived instances. A small pool
// keeps the total connection count bounded when instances scale out.
const (
	DefaultDatabaseName           = "notes-app"
	DefaultAppName                = "notesapp"
	DefaultMaxPoolSize            = 10
	DefaultMinPoolSize            = 1
	DefaultMaxIdleTime            = 5 * time.Second
	DefaultServerSelectionTimeout = 5 * time.Second
	DefaultSocketTimeout          = 30 * time.Second
	DefaultPort                   = 8080
	DefaultLogLevel               = "PRODUCTION"
	DefaultCORSAllowOrigins       = "http://localhost:5173"
)

type Config struct {
	DatabaseURL            string
	DatabaseName           string
	AppName                string
	MaxPoolSize            int32
	MinPoolSize            int32
	MaxIdleTime            time.Duration
	ServerSelectionTimeout time.Duration
	SocketTimeout          time.Duration

	Port             int
	Env              string
	LogLevel         string
	CORSAllowOrigins string
}

// LoadDotEnv reads .env files into the process environment. Missing files are
// not an error; variables already set are never overridden.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// Load builds a Config from the environment. A missing DATABASE_URL is not
// reported here; the connection manager reports it on first use.
func Load() Config {
	return Config{
		DatabaseURL:            getString("DATABASE_URL", ""),
		DatabaseName:           getString("DATABASE_NAME", DefaultDatabaseName),
		AppName:                getString("APP_NAME", DefaultAppName),
		MaxPoolSize:            int32(getInt("DB_MAX_POOL_SIZE", DefaultMaxPoolSize)),
		MinPoolSize:            int32(getInt("DB_MIN_POOL_SIZE", DefaultMinPoolSize)),
		MaxIdleTime:            getDuration("DB_MAX_IDLE_TIME", DefaultMaxIdleTime),
		ServerSelectionTimeout: getDuration("DB_SERVER_SELECTION_TIMEOUT", DefaultServerSelectionTimeout),
		SocketTimeout:          getDuration("DB_SOCKET_TIMEOUT", DefaultSocketTimeout),
		Port:                   getInt("PORT", DefaultPort),
		Env:                    getString("APP_ENV", "local"),
		LogLevel:               getString("LOGGING_LEVEL", DefaultLogLevel),
		CORSAllowOrigins:       getString("CORS_ALLOW_ORIGINS", DefaultCORSAllowOrigins),
	}
}

func getString(key, fallback string) string {
	v, err := env.GetAsString(key, false, fallback)
	if err != nil {
		zap.S().Warnf("Failed to read %s, using default %q: %s", key, fallback, err)
		return fallback
	}
	if v = strings.TrimSpace(v); v == "" {
		return fallback
	}
	return v
}

func getInt(key string, fallback int) int {
	v, err := env.GetAsInt(key, false, fallback)
	if err != nil || v < 0 {
		zap.S().Warnf("Invalid value for %s, using default %d", key, fallback)
		return fallback
	}
	return v
}

// getDuration accepts Go duration strings ("5s") or a plain number of
// milliseconds ("5000").
func getDuration(key string, fallback time.Duration) time.Duration {
	raw := getString(key, "")
	if raw == "" {
		return fallback
	}
	if ms, err := strconv.Atoi(raw); err == nil && ms >= 0 {
		return time.Duration(ms) * time.Millisecond
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		zap.S().Warnf("Invalid duration %q for %s, using default %s", raw, key, fallback)
		return fallback
	}
	return d
}
