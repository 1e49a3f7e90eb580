package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ziadkadry99/travel-assistant/internal/conversation"
	"github.com/ziadkadry99/travel-assistant/internal/llm"
	"github.com/ziadkadry99/travel-assistant/internal/metrics"
	"github.com/ziadkadry99/travel-assistant/internal/travel"
)

const tracerName = "github.com/ziadkadry99/travel-assistant/internal/assistant"

// UnhandledMessage is returned when the pipeline itself breaks.
const UnhandledMessage = "I apologize, but I encountered an error processing your request. Please try again."

// Store is the conversation log the pipeline reads history from and
// records turns to.
type Store interface {
	AppendTurn(ctx context.Context, entries ...conversation.Entry) error
	RecentTurns(ctx context.Context, sessionID string, limit int) ([]conversation.Entry, error)
	UpsertSession(ctx context.Context, sessionID, userID string, sessionContext map[string]any) error
}

// Settings tunes prompts and history windows.
type Settings struct {
	HistoryLimit          int
	PromptHistory         int
	ExtractionTemperature float64
	ResponseTemperature   float64
	MaxTokens             int
}

func DefaultSettings() Settings {
	return Settings{
		HistoryLimit:          10,
		PromptHistory:         3,
		ExtractionTemperature: 0.3,
		ResponseTemperature:   0.8,
		MaxTokens:             llm.DefaultMaxTokens,
	}
}

// Request is one user utterance.
type Request struct {
	Input     string
	SessionID string
	UserID    string
}

// Response is what the caller sees for one turn. Intent, Entities,
// Results and UIElements are unset only on the unhandled-error reply.
type Response struct {
	Message    string      `json:"message"`
	Intent     Intent      `json:"intent,omitempty"`
	Entities   Entities    `json:"entities"`
	Results    []any       `json:"results"`
	UIElements []UIElement `json:"ui_elements"`
	SessionID  string      `json:"session_id"`
	Timestamp  time.Time   `json:"timestamp"`
}

// turnState is owned by one HandleMessage run.
type turnState struct {
	sessionID  string
	userID     string
	rawInput   string
	input      string
	history    []string
	intent     Intent
	entities   Entities
	confidence float64
	branch     Branch
	results    []any
	message    string
	uiElements []UIElement
	errs       []error
}

func (st *turnState) fail(stage string, err error) {
	metrics.StageDegradations.WithLabelValues(stage).Inc()
	st.errs = append(st.errs, err)
}

// Orchestrator turns one utterance into one reply.
type Orchestrator struct {
	store      Store
	extractor  *Extractor
	dispatcher *Dispatcher
	generator  *Generator
	settings   Settings
	logger     *zap.Logger
	tracer     trace.Tracer
	now        func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

func WithSettings(s Settings) Option {
	return func(o *Orchestrator) { o.settings = s }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithTracerProvider replaces the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *Orchestrator) { o.tracer = tp.Tracer(tracerName) }
}

// New wires the pipeline stages around provider, svc and store.
func New(provider llm.Provider, svc travel.Service, store Store, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:    store,
		settings: DefaultSettings(),
		logger:   zap.NewNop(),
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.extractor = NewExtractor(provider, o.settings)
	o.dispatcher = NewDispatcher(svc, o.logger)
	o.generator = NewGenerator(provider, o.settings)
	return o
}

// HandleMessage runs the pipeline for one utterance. The only error it
// returns is a *ValidationError for a blank session ID; every later
// failure degrades to a default and still yields a reply.
func (o *Orchestrator) HandleMessage(ctx context.Context, req Request) (resp *Response, err error) {
	if strings.TrimSpace(req.SessionID) == "" {
		return nil, ErrMissingSessionID
	}

	start := time.Now()
	ctx, span := o.tracer.Start(ctx, "assistant.handle_message",
		trace.WithAttributes(attribute.String("session.id", req.SessionID)))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			perr := fmt.Errorf("panic: %v", r)
			o.logger.Error("unhandled orchestration error",
				zap.String("session_id", req.SessionID),
				zap.Error(perr),
				zap.Stack("stack"),
			)
			span.RecordError(perr)
			span.SetStatus(codes.Error, "unhandled orchestration error")
			metrics.StageDegradations.WithLabelValues("unhandled").Inc()
			resp = &Response{Message: UnhandledMessage, SessionID: req.SessionID, Timestamp: o.now().UTC()}
			err = nil
		}
	}()

	st := &turnState{
		sessionID: req.SessionID,
		userID:    req.UserID,
		rawInput:  req.Input,
	}
	o.logger.Info("starting turn", zap.String("session_id", st.sessionID))

	o.preprocess(ctx, st)
	o.extract(ctx, st)
	st.branch = Route(st.intent)
	o.dispatch(ctx, st)
	o.generate(ctx, st)
	o.record(ctx, st)

	metrics.TurnsTotal.WithLabelValues(string(st.intent), string(st.branch)).Inc()
	metrics.TurnDuration.Observe(time.Since(start).Seconds())
	span.SetAttributes(
		attribute.String("assistant.intent", string(st.intent)),
		attribute.String("assistant.branch", string(st.branch)),
		attribute.Int("assistant.results", len(st.results)),
	)
	if len(st.errs) > 0 {
		diag := errors.Join(st.errs...)
		span.SetAttributes(attribute.String("assistant.error", diag.Error()))
		o.logger.Warn("turn degraded", zap.String("session_id", st.sessionID), zap.Error(diag))
	}

	return &Response{
		Message:    st.message,
		Intent:     st.intent,
		Entities:   st.entities,
		Results:    st.results,
		UIElements: st.uiElements,
		SessionID:  st.sessionID,
		Timestamp:  o.now().UTC(),
	}, nil
}

func (o *Orchestrator) preprocess(ctx context.Context, st *turnState) {
	ctx, span := o.tracer.Start(ctx, "assistant.preprocess")
	defer span.End()

	st.input = strings.TrimSpace(st.rawInput)

	recent, err := o.store.RecentTurns(ctx, st.sessionID, o.settings.HistoryLimit)
	if err != nil {
		span.RecordError(err)
		o.logger.Error("loading conversation history", zap.String("session_id", st.sessionID), zap.Error(err))
		st.fail("preprocess", fmt.Errorf("loading history: %w", err))
		st.history = nil
		return
	}

	st.history = make([]string, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		st.history = append(st.history, recent[i].HistoryLine())
	}
	span.SetAttributes(attribute.Int("assistant.history", len(st.history)))
}

func (o *Orchestrator) extract(ctx context.Context, st *turnState) {
	ctx, span := o.tracer.Start(ctx, "assistant.extract")
	defer span.End()

	x := o.extractor.Extract(ctx, st.input, st.history)
	st.intent, st.confidence, st.entities = x.Intent, x.Confidence, x.Entities
	if x.Err != nil {
		span.RecordError(x.Err)
		o.logger.Error("intent extraction failed", zap.Error(x.Err))
		st.fail("extract", x.Err)
	}
	span.SetAttributes(
		attribute.String("assistant.intent", string(st.intent)),
		attribute.Float64("assistant.confidence", st.confidence),
	)
}

func (o *Orchestrator) dispatch(ctx context.Context, st *turnState) {
	ctx, span := o.tracer.Start(ctx, "assistant.dispatch",
		trace.WithAttributes(attribute.String("assistant.branch", string(st.branch))))
	defer span.End()

	d := o.dispatcher.Dispatch(ctx, st.intent, st.entities)
	st.results = d.Results
	if d.Err != nil {
		span.RecordError(d.Err)
		st.fail("dispatch", d.Err)
	}
}

func (o *Orchestrator) generate(ctx context.Context, st *turnState) {
	ctx, span := o.tracer.Start(ctx, "assistant.generate")
	defer span.End()

	g := o.generator.Generate(ctx, st.input, st.intent, st.entities, st.results, st.history)
	st.message, st.uiElements = g.Message, g.UIElements
	if g.Err != nil {
		span.RecordError(g.Err)
		o.logger.Error("response generation failed", zap.Error(g.Err))
		st.fail("generate", g.Err)
	}
}

// record persists the turn. The log append and the session upsert are
// independent: either may fail without affecting the reply or the other.
func (o *Orchestrator) record(ctx context.Context, st *turnState) {
	ctx, span := o.tracer.Start(ctx, "assistant.store")
	defer span.End()

	err := o.store.AppendTurn(ctx,
		conversation.Entry{
			SessionID: st.sessionID,
			UserID:    st.userID,
			Role:      conversation.RoleUser,
			Content:   st.input,
			Metadata: map[string]any{
				"intent":     string(st.intent),
				"entities":   st.entities.Map(),
				"confidence": st.confidence,
			},
		},
		conversation.Entry{
			SessionID: st.sessionID,
			UserID:    st.userID,
			Role:      conversation.RoleAssistant,
			Content:   st.message,
			Metadata: map[string]any{
				"ui_elements":       st.uiElements,
				"api_results_count": len(st.results),
			},
		},
	)
	if err != nil {
		span.RecordError(err)
		o.logger.Error("failed to store conversation", zap.String("session_id", st.sessionID), zap.Error(err))
		st.fail("store", fmt.Errorf("appending turn: %w", err))
	}

	err = o.store.UpsertSession(ctx, st.sessionID, st.userID, map[string]any{
		"last_intent":   string(st.intent),
		"last_entities": st.entities.Map(),
	})
	if err != nil {
		span.RecordError(err)
		o.logger.Error("failed to update session", zap.String("session_id", st.sessionID), zap.Error(err))
		st.fail("store", fmt.Errorf("upserting session: %w", err))
	}
}
