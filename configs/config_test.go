package configs

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

// TestInitViperDefaults tests that every section has a default without any config file
func TestInitViperDefaults(t *testing.T) {
	if err := InitViper(t.TempDir(), ""); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	cfg := GetViper()

	if cfg.App.Port != "9089" {
		t.Errorf("Expected default port 9089, got %s", cfg.App.Port)
	}
	if cfg.Session.Backend != "memory" || cfg.Session.TTL != 3600 {
		t.Errorf("Expected memory sessions with 3600s TTL, got %+v", cfg.Session)
	}
	if cfg.Redis.KeyPrefix != "jobmatch:session:" {
		t.Errorf("Expected default key prefix, got %s", cfg.Redis.KeyPrefix)
	}
	if cfg.Catalog.Backend != "file" || cfg.Catalog.Path != "./data/jobs.json" {
		t.Errorf("Expected file catalog, got %+v", cfg.Catalog)
	}
	if cfg.Intent.Provider != "heuristic" || cfg.Intent.Timeout != 20 {
		t.Errorf("Expected heuristic intent with 20s timeout, got %+v", cfg.Intent)
	}
	if cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Errorf("Expected default gemini model, got %s", cfg.Gemini.Model)
	}
	if cfg.Matching.TopN != 10 || cfg.Matching.PreviewSize != 3 || cfg.Matching.MaxQuestions != 3 {
		t.Errorf("Expected matching defaults 10/3/3, got %+v", cfg.Matching)
	}
	if cfg.Line.Enabled {
		t.Error("Expected LINE to be disabled by default")
	}
}

// TestInitViperEnvOverlay tests that config.<env>.yaml is merged over config.yaml
func TestInitViperEnvOverlay(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", `
session:
  ttl: 120
intent:
  provider: lmstudio
clarify:
  questions:
    role: "Which job title?"
`)
	writeFile(t, dir, "config.staging.yaml", `
session:
  ttl: 60
`)

	if err := InitViper(dir, "staging"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	cfg := GetViper()

	if cfg.Session.TTL != 60 {
		t.Errorf("Expected overlay TTL 60, got %d", cfg.Session.TTL)
	}
	if cfg.Intent.Provider != "lmstudio" {
		t.Errorf("Expected base provider lmstudio, got %s", cfg.Intent.Provider)
	}
	if cfg.App.Env != "staging" {
		t.Errorf("Expected env staging, got %s", cfg.App.Env)
	}
	if cfg.Clarify.Questions["role"] != "Which job title?" {
		t.Errorf("Expected role question override, got %v", cfg.Clarify.Questions)
	}
}

// TestInitViperEnvironmentVariables tests that environment variables win over files
func TestInitViperEnvironmentVariables(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", `
session:
  ttl: 120
`)
	t.Setenv("SESSION_TTL", "45")
	t.Setenv("REDIS_KEY_PREFIX", "test:")
	t.Setenv("LINE_ENABLED", "true")

	if err := InitViper(dir, ""); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	cfg := GetViper()

	if cfg.Session.TTL != 45 {
		t.Errorf("Expected TTL 45 from environment, got %d", cfg.Session.TTL)
	}
	if cfg.Redis.KeyPrefix != "test:" {
		t.Errorf("Expected key prefix from environment, got %s", cfg.Redis.KeyPrefix)
	}
	if !cfg.Line.Enabled {
		t.Error("Expected LINE enabled from environment")
	}
}

// TestInitViperDotEnv tests that a .env file next to the config is loaded
func TestInitViperDotEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "GEMINI_API_KEY=from-dotenv\n")
	t.Cleanup(func() { os.Unsetenv("GEMINI_API_KEY") })

	if err := InitViper(dir, ""); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if got := GetViper().Gemini.APIKey; got != "from-dotenv" {
		t.Errorf("Expected api key from .env, got %q", got)
	}
}

// TestInitViperInvalidFile tests that a malformed config file is an error
func TestInitViperInvalidFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "session: [unclosed")

	if err := InitViper(dir, ""); err == nil {
		t.Error("Expected error for malformed config, got nil")
	}
}
