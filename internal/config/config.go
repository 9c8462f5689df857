// internal/config/config.go
//
// Environment configuration for the game server.
// Every knob has a development default so `go run .` works with no .env.

package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port     string
	LogLevel string

	ClientOrigins []string

	SessionStore  string // memory|redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration

	DBDriver string // sqlite|postgres|mysql|none
	DBDSN    string

	SessionSecret string        // HS256 key for per-session tokens
	CompleteDelay time.Duration // pause before the completion callback
	DailySalt     string
}

// Development fallbacks that must not reach production.
const (
	DevSessionSecret = "dev_secret_change_me"
	DevDailySalt     = "local_dev_salt"
)

func FromEnv() Config {
	return Config{
		Port:          envOr("PORT", "5175"),
		LogLevel:      envOr("LOG_LEVEL", "info"),
		ClientOrigins: csvOr("CLIENT_ORIGINS", "http://localhost:5173"),
		SessionStore:  strings.ToLower(envOr("SESSION_STORE", "memory")),
		RedisAddr:     envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),
		SessionTTL:    envDuration("SESSION_TTL", 2*time.Hour),
		DBDriver:      strings.ToLower(envOr("DB_DRIVER", "sqlite")),
		DBDSN:         envOr("DB_DSN", ""),
		SessionSecret: envOr("SESSION_SECRET", DevSessionSecret),
		CompleteDelay: envDuration("COMPLETE_DELAY", 2*time.Second),
		DailySalt:     envOr("DAILY_SALT", DevDailySalt),
	}
}

// DevDefaults names the security-relevant settings still on their
// development fallback.
func (c Config) DevDefaults() []string {
	var out []string
	if c.SessionSecret == DevSessionSecret {
		out = append(out, "SESSION_SECRET")
	}
	if c.DailySalt == DevDailySalt {
		out = append(out, "DAILY_SALT")
	}
	return out
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envInt(k string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return n
	}
	return def
}

// envDuration accepts Go durations ("90s") or plain seconds ("90").
func envDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
