package config

// DefaultConfigFile is the config path used when --config is not given.
const DefaultConfigFile = ".travel-assistant.yml"

// defaultModels is the model suggested for each provider.
var defaultModels = map[ProviderType]string{
	ProviderOpenRouter: "deepseek/deepseek-chat-v3-0324",
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderGoogle:     "gemini-2.0-flash",
	ProviderOllama:     "llama3",
}

// DefaultModel returns the suggested model for a provider.
func DefaultModel(p ProviderType) string {
	return defaultModels[p]
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderOpenRouter,
		Model:    defaultModels[ProviderOpenRouter],
		Server: ServerConfig{
			Port:                  8000,
			AllowAllOrigins:       true,
			RequestTimeoutSeconds: 60,
		},
		Database: DatabaseConfig{
			Path: "data/travel_assistant.db",
		},
		LLM: LLMConfig{
			ExtractionTemperature: 0.3,
			ResponseTemperature:   0.8,
			MaxTokens:             1000,
		},
		Conversation: ConversationConfig{
			HistoryLimit:           10,
			PromptHistory:          3,
			SessionTTLHours:        24,
			CleanupIntervalMinutes: 60,
		},
		Search: SearchConfig{
			SimulateLatency: true,
		},
		TripXplo: TripXploConfig{
			BaseURL:         "https://api.tripxplo.com/v1/api",
			TokenTTLMinutes: 50,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
