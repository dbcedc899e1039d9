package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Run("defaults_without_file", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Port != "8080" {
			t.Errorf("expected port 8080, got %s", cfg.Port)
		}
		if cfg.Database.Driver != DriverPostgres {
			t.Errorf("expected postgres driver, got %s", cfg.Database.Driver)
		}
		if cfg.Currency != "zł" {
			t.Errorf("expected zł currency, got %s", cfg.Currency)
		}
		if cfg.AI.Provider != ProviderNone {
			t.Errorf("expected ai provider none, got %s", cfg.AI.Provider)
		}
	})

	t.Run("file_then_env", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "port: \"9090\"\ndb:\n  driver: sqlite\n  path: /tmp/ledger.db\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		t.Setenv("PENNYWISE_PORT", "7070")

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Port != "7070" {
			t.Errorf("expected env to override port, got %s", cfg.Port)
		}
		if cfg.Database.Driver != DriverSQLite {
			t.Errorf("expected sqlite from file, got %s", cfg.Database.Driver)
		}
		if cfg.Database.Path != "/tmp/ledger.db" {
			t.Errorf("expected path from file, got %s", cfg.Database.Path)
		}
	})

	t.Run("openai_requires_key", func(t *testing.T) {
		t.Setenv("PENNYWISE_AI_PROVIDER", "openai")

		if _, err := Load(""); err == nil {
			t.Fatal("expected error for openai provider without api key")
		}
	})
}

func TestValidate(t *testing.T) {
	t.Run("unknown_driver", func(t *testing.T) {
		cfg := defaults()
		cfg.Database.Driver = "oracle"
		if err := cfg.Validate(); err == nil {
			t.Fatal("expected error for unknown driver")
		}
	})

	t.Run("ollama_without_key", func(t *testing.T) {
		cfg := defaults()
		cfg.AI.Provider = ProviderOllama
		if err := cfg.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestAllowedOrigins(t *testing.T) {
	cfg := defaults()
	cfg.CORSOrigins = " https://a.example.com, ,https://b.example.com "

	got := cfg.AllowedOrigins()
	if len(got) != 2 || got[0] != "https://a.example.com" || got[1] != "https://b.example.com" {
		t.Errorf("unexpected origins %v", got)
	}
}
