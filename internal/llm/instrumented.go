package llm

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/travel-assistant/internal/metrics"
)

// InstrumentedProvider records call outcomes in metrics and logs failures.
type InstrumentedProvider struct {
	provider Provider
	logger   *zap.Logger
}

// NewInstrumentedProvider decorates provider with metrics and logging.
func NewInstrumentedProvider(provider Provider, logger *zap.Logger) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstrumentedProvider{provider: provider, logger: logger}
}

func (p *InstrumentedProvider) Name() string {
	return p.provider.Name()
}

func (p *InstrumentedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	start := time.Now()
	resp, err := p.provider.Complete(ctx, req)
	metrics.CompletionDuration.WithLabelValues(p.Name()).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.CompletionRequests.WithLabelValues(p.Name(), "error").Inc()
		p.logger.Warn("completion failed",
			zap.String("provider", p.Name()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}

	metrics.CompletionRequests.WithLabelValues(p.Name(), "ok").Inc()
	p.logger.Debug("completion",
		zap.String("provider", p.Name()),
		zap.String("model", resp.Model),
		zap.Int("input_tokens", resp.InputTokens),
		zap.Int("output_tokens", resp.OutputTokens),
		zap.Duration("elapsed", time.Since(start)),
	)
	return resp, nil
}
