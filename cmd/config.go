package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Abraxas-365/jobtrack/pkg/logx"
	"github.com/joho/godotenv"
)

// Config is the process configuration read from the environment
type Config struct {
	Port string

	DBHost string
	DBPort string
	DBUser string
	DBPass string
	DBName string

	RedisAddr string
	RedisPass string

	SessionStore string
	SessionTTL   time.Duration
	SaveTimeout  time.Duration

	AWSRegion     string
	AWSBucket     string
	StoragePrefix string
	SignedURLTTL  time.Duration

	JWTSecret string
	JWTIssuer string

	LogLevel  string
	LogFormat string
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPass, c.DBName)
}

// LoadConfig reads a .env file when present, then the process environment
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logx.Warnf("Failed to read .env file: %v", err)
	}
	return parseConfig(os.Getenv)
}

func parseConfig(getenv func(string) string) (Config, error) {
	env := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := Config{
		Port:          env("PORT", "8080"),
		DBHost:        env("DB_HOST", "localhost"),
		DBPort:        env("DB_PORT", "5432"),
		DBUser:        getenv("DB_USER"),
		DBPass:        getenv("DB_PASS"),
		DBName:        getenv("DB_NAME"),
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisPass:     getenv("REDIS_PASS"),
		SessionStore:  strings.ToLower(env("SESSION_STORE", "redis")),
		AWSRegion:     env("AWS_REGION", "us-east-1"),
		AWSBucket:     getenv("AWS_BUCKET"),
		StoragePrefix: env("STORAGE_PREFIX", "uploads"),
		JWTSecret:     getenv("JWT_SECRET"),
		JWTIssuer:     env("JWT_ISSUER", "jobtrack"),
		LogLevel:      env("LOG_LEVEL", "info"),
		LogFormat:     env("LOG_FORMAT", "json"),
	}

	var err error
	if cfg.SessionTTL, err = time.ParseDuration(env("SESSION_TTL", "2h")); err != nil {
		return Config{}, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	// 0 keeps sessions until they are closed
	if cfg.SessionTTL < 0 {
		return Config{}, fmt.Errorf("invalid SESSION_TTL %s, must not be negative", cfg.SessionTTL)
	}
	if cfg.SaveTimeout, err = time.ParseDuration(env("SAVE_TIMEOUT", "2m")); err != nil {
		return Config{}, fmt.Errorf("invalid SAVE_TIMEOUT: %w", err)
	}
	if cfg.SaveTimeout < 0 {
		return Config{}, fmt.Errorf("invalid SAVE_TIMEOUT %s, must not be negative", cfg.SaveTimeout)
	}
	if cfg.SignedURLTTL, err = time.ParseDuration(env("SIGNED_URL_TTL", "5m")); err != nil {
		return Config{}, fmt.Errorf("invalid SIGNED_URL_TTL: %w", err)
	}
	if cfg.SignedURLTTL < 0 {
		return Config{}, fmt.Errorf("invalid SIGNED_URL_TTL %s, must not be negative", cfg.SignedURLTTL)
	}

	switch cfg.SessionStore {
	case "redis", "memory":
	default:
		return Config{}, fmt.Errorf("invalid SESSION_STORE %q, expected redis or memory", cfg.SessionStore)
	}

	return cfg, nil
}
