package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server settings read from the environment
type Config struct {
	Port            string
	BaseURL         string
	DatabaseURL     string
	LinksTable      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	WebDistPath     string
	CORSOrigins     []string
	RedisURL        string
	CacheTTL        time.Duration
	CreateRateLimit string
	AdminPassword   string // bcrypt hash
	JWTSecret       string
	GinMode         string
}

// Load reads a .env file if present and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded settings from .env")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() *Config {
	port := getEnv("PORT", "5000")

	return &Config{
		Port:            port,
		BaseURL:         strings.TrimRight(getEnv("BASE_URL", "http://localhost:"+port), "/"),
		DatabaseURL:     getEnv("DATABASE_URL", "tinylink.db"),
		LinksTable:      getEnv("LINKS_TABLE", "links"),
		MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		WebDistPath:     getEnv("WEB_DIST_PATH", "./client/dist"),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "*")),
		RedisURL:        getEnv("REDIS_URL", ""),
		CacheTTL:        getEnvDuration("CACHE_TTL", 10*time.Minute),
		CreateRateLimit: getEnv("CREATE_RATE_LIMIT", ""),
		AdminPassword:   getEnv("ADMIN_PASSWORD_HASH", ""),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		GinMode:         getEnv("GIN_MODE", ""),
	}
}

// ErrMissingJWTSecret is returned when auth is enabled without a signing secret
var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set when ADMIN_PASSWORD_HASH is set")

// Validate rejects settings the server cannot safely run with
func (c *Config) Validate() error {
	if c.AuthEnabled() && c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	return nil
}

// AuthEnabled reports whether the link API requires an admin token
func (c *Config) AuthEnabled() bool {
	return c.AdminPassword != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Ignoring invalid %s=%q: %v", key, v, err)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Ignoring invalid %s=%q: %v", key, v, err)
		return fallback
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
