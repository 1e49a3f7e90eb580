package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != ProviderOpenRouter {
		t.Errorf("expected default provider %q, got %q", ProviderOpenRouter, cfg.Provider)
	}
	if cfg.Model != "deepseek/deepseek-chat-v3-0324" {
		t.Errorf("unexpected default model %q", cfg.Model)
	}
	if cfg.Conversation.HistoryLimit != 10 {
		t.Errorf("expected history limit 10, got %d", cfg.Conversation.HistoryLimit)
	}
	if cfg.Conversation.SessionTTLHours != 24 {
		t.Errorf("expected session ttl 24h, got %d", cfg.Conversation.SessionTTLHours)
	}
	if cfg.LLM.ExtractionTemperature != 0.3 || cfg.LLM.ResponseTemperature != 0.8 {
		t.Errorf("unexpected temperatures %v/%v", cfg.LLM.ExtractionTemperature, cfg.LLM.ResponseTemperature)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.travel-assistant.yml")

	original := DefaultConfig()
	original.Provider = ProviderOpenAI
	original.Model = "gpt-4o"
	original.Server.Port = 9090
	original.Conversation.HistoryLimit = 6
	original.Redis.Addr = "localhost:6379"

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Provider != original.Provider {
		t.Errorf("provider: got %q, want %q", loaded.Provider, original.Provider)
	}
	if loaded.Model != original.Model {
		t.Errorf("model: got %q, want %q", loaded.Model, original.Model)
	}
	if loaded.Server.Port != 9090 {
		t.Errorf("server.port: got %d, want 9090", loaded.Server.Port)
	}
	if loaded.Conversation.HistoryLimit != 6 {
		t.Errorf("conversation.history_limit: got %d, want 6", loaded.Conversation.HistoryLimit)
	}
	if loaded.Redis.Addr != "localhost:6379" {
		t.Errorf("redis.addr: got %q", loaded.Redis.Addr)
	}
	// Untouched nested values keep their defaults.
	if loaded.LLM.ResponseTemperature != 0.8 {
		t.Errorf("llm.response_temperature: got %v, want 0.8", loaded.LLM.ResponseTemperature)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Load on missing file should succeed: %v", err)
	}
	if cfg.Provider != ProviderOpenRouter {
		t.Errorf("expected defaults, got provider %q", cfg.Provider)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("TRAVEL_PROVIDER", "ollama")
	t.Setenv("TRAVEL_SERVER__PORT", "7070")
	t.Setenv("TRAVEL_CONVERSATION__SESSION_TTL_HOURS", "48")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Provider != ProviderOllama {
		t.Errorf("expected provider ollama from env, got %q", cfg.Provider)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("expected port 7070 from env, got %d", cfg.Server.Port)
	}
	if cfg.Conversation.SessionTTLHours != 48 {
		t.Errorf("expected ttl 48 from env, got %d", cfg.Conversation.SessionTTLHours)
	}
}

func TestLoadLegacyTripXploEnv(t *testing.T) {
	t.Setenv("TRIPXPLO_EMAIL", "ops@example.com")
	t.Setenv("TRIPXPLO_PASSWORD", "secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.TripXplo.Enabled() {
		t.Fatalf("expected TripXplo credentials from legacy env, got %+v", cfg.TripXplo)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env.local")
	if err := os.WriteFile(path, []byte("TRAVEL_TEST_DOTENV=loaded\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TRAVEL_TEST_DOTENV", "")
	os.Unsetenv("TRAVEL_TEST_DOTENV")

	if err := LoadDotEnv(filepath.Join(dir, "absent.env"), path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("TRAVEL_TEST_DOTENV"); got != "loaded" {
		t.Errorf("expected value from .env.local, got %q", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty provider", func(c *Config) { c.Provider = "" }},
		{"unknown provider", func(c *Config) { c.Provider = "anthropic" }},
		{"empty model", func(c *Config) { c.Model = "" }},
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"empty db path", func(c *Config) { c.Database.Path = "" }},
		{"hot temperature", func(c *Config) { c.LLM.ResponseTemperature = 2.5 }},
		{"zero history", func(c *Config) { c.Conversation.HistoryLimit = 0 }},
		{"negative ttl", func(c *Config) { c.Conversation.SessionTTLHours = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestAPIKeyEnvVar(t *testing.T) {
	if got := APIKeyEnvVar(ProviderOpenRouter); got != "OPENROUTER_API_KEY" {
		t.Errorf("openrouter key var = %q", got)
	}
	if got := APIKeyEnvVar(ProviderOllama); got != "" {
		t.Errorf("ollama should not need a key, got %q", got)
	}
}
