package config

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderOpenRouter ProviderType = "openrouter"
	ProviderOpenAI     ProviderType = "openai"
	ProviderGoogle     ProviderType = "google"
	ProviderOllama     ProviderType = "ollama"
)

// Config is the top-level travel-assistant configuration, corresponding to .travel-assistant.yml.
type Config struct {
	Provider     ProviderType       `yaml:"provider" koanf:"provider"`
	Model        string             `yaml:"model" koanf:"model"`
	Server       ServerConfig       `yaml:"server" koanf:"server"`
	Database     DatabaseConfig     `yaml:"database" koanf:"database"`
	LLM          LLMConfig          `yaml:"llm" koanf:"llm"`
	Conversation ConversationConfig `yaml:"conversation" koanf:"conversation"`
	Search       SearchConfig       `yaml:"search" koanf:"search"`
	TripXplo     TripXploConfig     `yaml:"tripxplo" koanf:"tripxplo"`
	Redis        RedisConfig        `yaml:"redis" koanf:"redis"`
	Log          LogConfig          `yaml:"log" koanf:"log"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port                  int  `yaml:"port" koanf:"port"`
	AllowAllOrigins       bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	RequestTimeoutSeconds int  `yaml:"request_timeout_seconds" koanf:"request_timeout_seconds"`
}

// DatabaseConfig locates the SQLite conversation store.
type DatabaseConfig struct {
	Path string `yaml:"path" koanf:"path"`
}

// LLMConfig tunes the two completion calls made per turn.
type LLMConfig struct {
	ExtractionTemperature float64 `yaml:"extraction_temperature" koanf:"extraction_temperature"`
	ResponseTemperature   float64 `yaml:"response_temperature" koanf:"response_temperature"`
	MaxTokens             int     `yaml:"max_tokens" koanf:"max_tokens"`
	RequestsPerMinute     int     `yaml:"requests_per_minute" koanf:"requests_per_minute"`
}

// ConversationConfig bounds history and controls housekeeping.
type ConversationConfig struct {
	HistoryLimit           int `yaml:"history_limit" koanf:"history_limit"`
	PromptHistory          int `yaml:"prompt_history" koanf:"prompt_history"`
	SessionTTLHours        int `yaml:"session_ttl_hours" koanf:"session_ttl_hours"`
	CleanupIntervalMinutes int `yaml:"cleanup_interval_minutes" koanf:"cleanup_interval_minutes"`
}

// SearchConfig controls the mock flight/hotel/booking services.
type SearchConfig struct {
	SimulateLatency bool `yaml:"simulate_latency" koanf:"simulate_latency"`
}

// TripXploConfig holds the travel-package API credentials.
type TripXploConfig struct {
	BaseURL         string `yaml:"base_url" koanf:"base_url"`
	Email           string `yaml:"email" koanf:"email"`
	Password        string `yaml:"password" koanf:"password"`
	TokenTTLMinutes int    `yaml:"token_ttl_minutes" koanf:"token_ttl_minutes"`
}

// Enabled reports whether credentials are present.
func (t TripXploConfig) Enabled() bool {
	return t.Email != "" && t.Password != ""
}

// RedisConfig enables the shared credential cache when Addr is set.
type RedisConfig struct {
	Addr     string `yaml:"addr" koanf:"addr"`
	Password string `yaml:"password" koanf:"password"`
	DB       int    `yaml:"db" koanf:"db"`
}

// LogConfig selects zap level and encoder.
type LogConfig struct {
	Level  string `yaml:"level" koanf:"level"`
	Format string `yaml:"format" koanf:"format"`
}
