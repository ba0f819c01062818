package config

import (
	"fmt"
	"os"
)

// Config holds the configuration for the application.
type Config struct {
	GeminiAPIKey string
	DBPath       string
	StoragePath  string
}

const (
	defaultDBPath      = "data/nutrisnap.db"
	defaultStoragePath = "data/slots"
)

// NewFromEnv creates a new Config object from environment variables. The
// Gemini key is optional here so that purely local commands work without
// it; callers that talk to the analysis service check RequireGemini.
func NewFromEnv() (*Config, error) {
	dbPath := os.Getenv("NUTRISNAP_DB_PATH")
	if dbPath == "" {
		dbPath = defaultDBPath
	}

	storagePath := os.Getenv("NUTRISNAP_STORAGE_PATH")
	if storagePath == "" {
		storagePath = defaultStoragePath
	}

	return &Config{
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		DBPath:       dbPath,
		StoragePath:  storagePath,
	}, nil
}

// RequireGemini verifies the analysis service can be reached.
func (c *Config) RequireGemini() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}
	return nil
}
