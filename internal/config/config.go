// Package config reads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Addr     string
	WebDir   string
	PageSize int

	// Storage configuration
	Store       string // memory, postgres or sqlite
	DatabaseURL string
	SQLitePath  string

	// Startup import
	ImportFile string
}

// Load reads the env file named by ENV_FILE (default .env) when it exists,
// then builds the configuration from the environment. Variables already set
// in the process environment win over the file.
func Load() (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	} else {
		log.Printf("loaded environment from %s", envFile)
	}

	cfg := &Config{
		Addr:        getEnv("ADDR", ":8080"),
		WebDir:      getEnv("WEB_DIR", ""),
		PageSize:    getEnvAsInt("PAGE_SIZE", 10),
		Store:       getEnv("STORE", StoreMemory),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		SQLitePath:  getEnv("SQLITE_PATH", "pregweight.db"),
		ImportFile:  getEnv("IMPORT_FILE", ""),
	}

	switch cfg.Store {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for STORE=%s", StorePostgres)
		}
	default:
		return nil, fmt.Errorf("STORE must be one of %s, %s, %s; got %q", StoreMemory, StorePostgres, StoreSQLite, cfg.Store)
	}
	if cfg.PageSize < 1 {
		cfg.PageSize = 10
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
