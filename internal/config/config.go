package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultCSRFSecret is the development signing key. Validate refuses it in prod.
const DefaultCSRFSecret = "dev-csrf-secret"

type Config struct {
	Port string

	// Env is "dev" (default) or "prod". When "prod", CSRF_SECRET must be set and not the default.
	Env string

	// StoreBackend is "postgres" (default) or "memory".
	StoreBackend string
	// SessionBackend is "store" (default, same backend as the records) or "redis".
	SessionBackend string

	DBHost string
	DBPort string
	DBName string
	DBUser string
	DBPass string

	// DBMaxOpenConns is the maximum number of open connections to the database (default 25).
	DBMaxOpenConns int
	// DBMaxIdleConns is the maximum number of idle connections (default 5).
	DBMaxIdleConns int
	// DBAutoMigrate applies pending migrations at startup (default true).
	DBAutoMigrate bool

	// RedisURL is used when SessionBackend is "redis", e.g. redis://localhost:6379/0.
	RedisURL string

	SessionTTL time.Duration
	// SessionPurgeCron is a robfig/cron spec for deleting expired sessions.
	SessionPurgeCron string

	CSRFSecret string
	CSRFTTL    time.Duration

	// CookieSecure marks session and CSRF cookies Secure. Defaults to true when TLS is configured.
	CookieSecure bool

	BcryptCost int

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	TLSCertFile string
	TLSKeyFile  string

	// LogFormat is "text" (default) or "json" for structured logging.
	LogFormat string
	// LogLevel is debug, info (default), warn or error.
	LogLevel string

	// CORSAllowedOrigins is a list of origins allowed for CORS. Set via CORS_ALLOWED_ORIGINS
	// (comma-separated). When empty, no CORS headers are sent (same-origin only).
	CORSAllowedOrigins []string

	// MaxBodyBytes caps request bodies (default 1 MiB).
	MaxBodyBytes int64
}

// Load reads an optional .env file and then the environment. Variables
// already set in the environment win over the file.
func Load() Config {
	_ = godotenv.Load()

	tlsCert := getEnv("TLS_CERT_FILE", "")
	tlsKey := getEnv("TLS_KEY_FILE", "")

	return Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "dev"),

		StoreBackend:   strings.ToLower(getEnv("STORE_BACKEND", "postgres")),
		SessionBackend: strings.ToLower(getEnv("SESSION_BACKEND", "store")),

		DBHost: getEnv("DB_HOST", "localhost"),
		DBPort: getEnv("DB_PORT", "5432"),
		DBName: getEnv("DB_NAME", "blogdb"),
		DBUser: getEnv("DB_USER", "bloguser"),
		DBPass: getEnv("DB_PASS", "blogpass"),

		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),
		DBAutoMigrate:  getEnvBool("DB_AUTO_MIGRATE", true),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		SessionTTL:       getEnvDuration("SESSION_TTL", 14*24*time.Hour),
		SessionPurgeCron: getEnv("SESSION_PURGE_CRON", "@every 10m"),

		CSRFSecret: getEnv("CSRF_SECRET", DefaultCSRFSecret),
		CSRFTTL:    getEnvDuration("CSRF_TTL", 365*24*time.Hour),

		CookieSecure: getEnvBool("COOKIE_SECURE", tlsCert != "" && tlsKey != ""),

		BcryptCost: getEnvInt("BCRYPT_COST", 10),

		TLSCertFile: tlsCert,
		TLSKeyFile:  tlsKey,

		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),

		CORSAllowedOrigins: parseCORSOrigins(getEnv("CORS_ALLOWED_ORIGINS", "")),

		MaxBodyBytes: int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),
	}
}

// Validate reports settings the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.Env == "prod" && (c.CSRFSecret == "" || c.CSRFSecret == DefaultCSRFSecret) {
		errs = append(errs, errors.New("CSRF_SECRET must be set in prod"))
	}
	switch c.StoreBackend {
	case "postgres", "memory":
	default:
		errs = append(errs, fmt.Errorf("STORE_BACKEND %q: want postgres or memory", c.StoreBackend))
	}
	switch c.SessionBackend {
	case "store", "redis":
	default:
		errs = append(errs, fmt.Errorf("SESSION_BACKEND %q: want store or redis", c.SessionBackend))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST %d: want 4..31", c.BcryptCost))
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		errs = append(errs, errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together"))
	}
	return errors.Join(errs...)
}

// DatabaseURL is the postgres URL form of the DB settings, as golang-migrate expects.
func (c Config) DatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPass),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// parseCORSOrigins splits a comma-separated list of origins and trims spaces. Empty strings are omitted.
func parseCORSOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
