package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/pbaille/clozer/internal/config"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("ANTHROPIC_API_KEY", "env-key")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if resolved != filepath.Join(tempHome, ".config", "clozer", "config.toml") {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Store.Path != filepath.Join(tempHome, ".local", "share", "clozer", "clozer.db") {
		t.Fatalf("unexpected db path: %q", cfg.Store.Path)
	}
	if cfg.LLM.APIKey != "env-key" {
		t.Fatalf("expected key from env, got %q", cfg.LLM.APIKey)
	}
	if cfg.Engine.ClozePerSentence != 1 || cfg.Engine.MaxAntecedents != 3 {
		t.Fatalf("unexpected engine defaults: %+v", cfg.Engine)
	}
	if cfg.Server.Bind != "127.0.0.1:8080" {
		t.Fatalf("unexpected bind: %q", cfg.Server.Bind)
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GEMINI_API_KEY", "gemini-env")

	cfg := config.Default()
	cfg.LLM.Provider = "Gemini"
	cfg.Logging.Format = "JSON"
	cfg.Logging.Level = "DEBUG"
	cfg.Engine.ClozePerSentence = 2
	cfg.Store.Path = "~/drafts.db"

	path := filepath.Join(t.TempDir(), "clozer.toml")
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved %q exists %v", resolved, exists)
	}
	if got.LLM.Provider != "gemini" || got.LLM.APIKey != "gemini-env" {
		t.Errorf("llm = %+v", got.LLM)
	}
	if got.Logging.Format != "json" || got.Logging.Level != "debug" {
		t.Errorf("logging = %+v", got.Logging)
	}
	if got.Engine.ClozePerSentence != 2 {
		t.Errorf("engine = %+v", got.Engine)
	}
	if strings.HasPrefix(got.Store.Path, "~") {
		t.Errorf("store path not expanded: %q", got.Store.Path)
	}
}

func TestValidate(t *testing.T) {
	t.Setenv("CLOZER_DATABASE_URL", "")
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"driver", func(c *config.Config) { c.Store.Driver = "mongo" }, "store.driver"},
		{"postgres without dsn", func(c *config.Config) { c.Store.Driver = "postgres" }, "store.dsn"},
		{"provider", func(c *config.Config) { c.LLM.Provider = "clippy" }, "llm.provider"},
		{"level", func(c *config.Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"quota", func(c *config.Config) { c.Engine.ClozePerSentence = 0 }, "cloze_per_sentence"},
		{"antecedents", func(c *config.Config) { c.Engine.MaxAntecedents = 0 }, "max_antecedents"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Validate() = %v, want error mentioning %q", err, tt.want)
			}
		})
	}
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestPostgresDSNFromEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CLOZER_DATABASE_URL", "postgres://localhost/clozer")

	path := filepath.Join(t.TempDir(), "clozer.toml")
	if err := os.WriteFile(path, []byte("[store]\ndriver = \"postgres\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.DSN != "postgres://localhost/clozer" {
		t.Errorf("dsn = %q", cfg.Store.DSN)
	}
}

func TestCreateSampleLoads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("Load sample: exists=%v err=%v", exists, err)
	}
}
