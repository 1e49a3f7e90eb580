package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/travel-assistant/internal/assistant"
	"github.com/ziadkadry99/travel-assistant/internal/config"
	"github.com/ziadkadry99/travel-assistant/internal/conversation"
	"github.com/ziadkadry99/travel-assistant/internal/db"
	"github.com/ziadkadry99/travel-assistant/internal/llm"
	"github.com/ziadkadry99/travel-assistant/internal/logging"
	"github.com/ziadkadry99/travel-assistant/internal/travel"
	"github.com/ziadkadry99/travel-assistant/internal/tripxplo"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `travel-assistant init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the process logger. --verbose forces debug level.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	return logging.New(level, cfg.Log.Format)
}

// app bundles the components shared by the server, chat, replay and mcp commands.
type app struct {
	cfg          *config.Config
	logger       *zap.Logger
	db           *db.DB
	store        *conversation.Store
	travel       travel.Service
	packages     *tripxplo.Client
	orchestrator *assistant.Orchestrator
	closers      []io.Closer
}

// newApp loads config and wires storage, the LLM provider, the travel
// backends and the orchestrator.
func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	a := &app{cfg: cfg, logger: logger}

	provider, err := createLLMProviderFromConfig(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("creating LLM provider: %w", err)
	}
	if c, ok := provider.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}

	a.db, err = db.Open(cfg.Database.Path)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}
	a.closers = append(a.closers, a.db)
	a.store = conversation.NewStore(a.db)

	a.travel = travel.NewMockService(
		travel.WithLatency(cfg.Search.SimulateLatency),
		travel.WithLogger(logger.Named("travel")),
	)

	if cfg.TripXplo.Enabled() {
		a.packages = a.newPackageClient()
	}

	a.orchestrator = assistant.New(provider, a.travel, a.store,
		assistant.WithSettings(assistant.Settings{
			HistoryLimit:          cfg.Conversation.HistoryLimit,
			PromptHistory:         cfg.Conversation.PromptHistory,
			ExtractionTemperature: cfg.LLM.ExtractionTemperature,
			ResponseTemperature:   cfg.LLM.ResponseTemperature,
			MaxTokens:             cfg.LLM.MaxTokens,
		}),
		assistant.WithLogger(logger.Named("assistant")),
	)

	return a, nil
}

// createLLMProviderFromConfig creates the LLM provider, then layers rate
// limiting and metrics on top.
func createLLMProviderFromConfig(cfg *config.Config, logger *zap.Logger) (llm.Provider, error) {
	provider, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
	if err != nil {
		return nil, err
	}
	provider = llm.NewRateLimitedProvider(provider, cfg.LLM.RequestsPerMinute)
	return llm.NewInstrumentedProvider(provider, logger.Named("llm")), nil
}

// newPackageClient builds the TripXplo client. Tokens are shared through
// Redis when it is configured, otherwise cached in process.
func (a *app) newPackageClient() *tripxplo.Client {
	tc := a.cfg.TripXplo
	httpClient := &http.Client{Timeout: 30 * time.Second}
	auth := tripxplo.NewAuthenticator(tc.BaseURL, tc.Email, tc.Password, httpClient)
	ttl := time.Duration(tc.TokenTTLMinutes) * time.Minute

	var tokens tripxplo.TokenSource
	if rc := a.cfg.Redis; rc.Addr != "" {
		rdb := tripxplo.NewRedisClient(rc.Addr, rc.Password, rc.DB)
		a.closers = append(a.closers, rdb)
		tokens = tripxplo.NewRedisTokenSource(rdb, tripxplo.DefaultTokenKey, auth.Login, ttl)
	} else {
		tokens = tripxplo.NewMemoryTokenSource(auth.Login, ttl)
	}

	return tripxplo.NewClient(tc.BaseURL, tokens, httpClient, a.logger.Named("tripxplo"))
}

// newJanitor builds the session cleanup worker from config.
func (a *app) newJanitor() *conversation.Janitor {
	cc := a.cfg.Conversation
	return conversation.NewJanitor(a.store,
		time.Duration(cc.SessionTTLHours)*time.Hour,
		time.Duration(cc.CleanupIntervalMinutes)*time.Minute,
		a.logger.Named("janitor"),
	)
}

// Close releases everything newApp opened, newest first.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn("close failed", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

// chat runs a single turn, used by the chat and replay commands.
func (a *app) chat(ctx context.Context, sessionID, userID, input string) (*assistant.Response, error) {
	return a.orchestrator.HandleMessage(ctx, assistant.Request{
		Input:     input,
		SessionID: sessionID,
		UserID:    userID,
	})
}
