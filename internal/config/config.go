// Package config provides application configuration loaded from environment variables.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// DatabaseConfig holds the storage connection settings.
type DatabaseConfig struct {
	// DSN is a sqlite file path (or file: URI) or a postgres URL / key=value list.
	DSN   string
	Debug bool
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Env           string
	Dev           bool
	Migrations    bool
	CatalogPath   string
	SessionSecret string
	SecureCookie  bool
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			DSN:   getEnv("DATABASE_DSN", "food_tracker.db"),
			Debug: getEnvBool("DB_DEBUG", false),
		},
		App: AppConfig{
			Env:           getEnv("APP_ENV", "development"),
			Dev:           getEnvBool("DEV", false),
			Migrations:    getEnvBool("MIGRATIONS", false),
			CatalogPath:   getEnv("CATALOG_PATH", ""),
			SessionSecret: getEnv("SESSION_SECRET", ""),
			SecureCookie:  getEnvBool("SECURE_COOKIE", false),
		},
	}
}

// Timeout converts a seconds setting into a duration.
func Timeout(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}
