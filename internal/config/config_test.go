package config

import "testing"

func TestNewFromEnvDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("NUTRISNAP_DB_PATH", "")
	t.Setenv("NUTRISNAP_STORAGE_PATH", "")

	cfg, err := NewFromEnv()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.DBPath != "data/nutrisnap.db" {
		t.Errorf("Expected default DB path, got '%s'", cfg.DBPath)
	}
	if cfg.StoragePath != "data/slots" {
		t.Errorf("Expected default storage path, got '%s'", cfg.StoragePath)
	}
	if err := cfg.RequireGemini(); err == nil {
		t.Error("Expected RequireGemini to fail without a key")
	}
}

func TestNewFromEnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("NUTRISNAP_DB_PATH", "/tmp/custom.db")
	t.Setenv("NUTRISNAP_STORAGE_PATH", "/tmp/slots")

	cfg, err := NewFromEnv()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.GeminiAPIKey != "test-key" {
		t.Errorf("Expected API key from env, got '%s'", cfg.GeminiAPIKey)
	}
	if cfg.DBPath != "/tmp/custom.db" {
		t.Errorf("Expected overridden DB path, got '%s'", cfg.DBPath)
	}
	if err := cfg.RequireGemini(); err != nil {
		t.Errorf("Expected RequireGemini to pass, got %v", err)
	}
}
