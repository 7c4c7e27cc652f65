package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{URL: "postgres://localhost:5432/products"},
		Embedding: EmbeddingConfig{
			Provider: "http",
			BaseURL:  "http://localhost:5000/embed",
		},
		Search: SearchConfig{DefaultLimit: 10, MaxLimit: 100},
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_MissingDatabaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.Database.URL = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database.url")
	}
}

func TestValidate_MissingEmbeddingURL(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.BaseURL = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing embedding.base_url")
	}
}

func TestValidate_InvalidProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.Provider = "cohere"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid embedding provider")
	}

	expected := `embedding.provider must be "http" or "openai", got "cohere"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_MaxLimitBelowDefault(t *testing.T) {
	cfg := validConfig()
	cfg.Search.DefaultLimit = 50
	cfg.Search.MaxLimit = 20
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when max_limit < default_limit")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Search.DefaultLimit != 10 {
		t.Errorf("default_limit = %d, want 10", cfg.Search.DefaultLimit)
	}
	if cfg.Search.MaxLimit != 100 {
		t.Errorf("max_limit = %d, want 100", cfg.Search.MaxLimit)
	}
	if cfg.Embedding.TimeoutMS != 30000 {
		t.Errorf("timeout_ms = %d, want 30000", cfg.Embedding.TimeoutMS)
	}
	if cfg.Embedding.Provider != "http" {
		t.Errorf("provider = %q, want \"http\"", cfg.Embedding.Provider)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("shutdown_timeout_sec = %d, want 10", cfg.HTTP.ShutdownSec)
	}
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "config")
	if err := os.Mkdir(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}

	yaml := `
http:
  port: 8080
database:
  url: ${SEMSEARCH_TEST_DB_URL}
embedding:
  base_url: ${SEMSEARCH_TEST_EMB_URL:-http://localhost:5000/embed}
`
	if err := os.WriteFile(filepath.Join(cfgDir, "test.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SEMSEARCH_TEST_DB_URL", "postgres://db:5432/products")
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldWD); err != nil {
			t.Fatal(err)
		}
	})

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.URL != "postgres://db:5432/products" {
		t.Errorf("database.url = %q", cfg.Database.URL)
	}
	if cfg.Embedding.BaseURL != "http://localhost:5000/embed" {
		t.Errorf("embedding.base_url = %q, want default applied", cfg.Embedding.BaseURL)
	}
	if cfg.Search.DefaultLimit != 10 {
		t.Errorf("default_limit = %d, want defaulted 10", cfg.Search.DefaultLimit)
	}
}
