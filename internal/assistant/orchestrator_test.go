package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/ziadkadry99/travel-assistant/internal/conversation"
	"github.com/ziadkadry99/travel-assistant/internal/travel"
)

const flightExtraction = `{"intent":"search_flight","confidence":0.95,"entities":{"origin":"NYC","destination":"LA","departure_date":"2024-01-19"}}`

func newTestOrchestrator(p *scriptedProvider, svc travel.Service, store Store, opts ...Option) *Orchestrator {
	return New(p, svc, store, opts...)
}

func TestScenarioFlightSearch(t *testing.T) {
	p := &scriptedProvider{extraction: fenced(flightExtraction), reply: fenced(okReply)}
	svc := newSpyService()
	store := newFakeStore()
	o := newTestOrchestrator(p, svc, store)

	resp, err := o.HandleMessage(context.Background(), Request{Input: "  flight from NYC to LA on 2024-01-19 ", SessionID: "s1"})
	require.NoError(t, err)

	assert.Equal(t, "s1", resp.SessionID)
	assert.Equal(t, IntentSearchFlight, resp.Intent)
	assert.Equal(t, "I found 3 flights.", resp.Message)
	assert.NotEmpty(t, resp.Results)
	assert.Len(t, resp.UIElements, 1)
	assert.False(t, resp.Timestamp.IsZero())

	require.Len(t, svc.flights, 1)
	assert.Equal(t, travel.FlightSearchRequest{
		Origin:        "NYC",
		Destination:   "LA",
		DepartureDate: "2024-01-19",
		Passengers:    1,
		ClassType:     "economy",
	}, svc.flights[0])

	require.Len(t, store.entries, 2)
	user, assistant := store.entries[0], store.entries[1]
	assert.Equal(t, conversation.RoleUser, user.Role)
	assert.Equal(t, "flight from NYC to LA on 2024-01-19", user.Content)
	assert.Equal(t, "search_flight", user.Metadata["intent"])
	assert.Equal(t, 0.95, user.Metadata["confidence"])
	assert.Equal(t, conversation.RoleAssistant, assistant.Role)
	assert.Equal(t, "I found 3 flights.", assistant.Content)
	assert.Equal(t, len(resp.Results), assistant.Metadata["api_results_count"])

	assert.Equal(t, "search_flight", store.sessions["s1"]["last_intent"])
}

func TestScenarioCompletionUnreachable(t *testing.T) {
	p := &scriptedProvider{extractErr: errUnreachable, replyErr: errUnreachable}
	store := newFakeStore()
	o := newTestOrchestrator(p, newSpyService(), store)

	resp, err := o.HandleMessage(context.Background(), Request{Input: "hello", SessionID: "s2"})
	require.NoError(t, err)
	assert.Equal(t, ApologyMessage, resp.Message)
	assert.Equal(t, IntentGeneralInquiry, resp.Intent)
	assert.Empty(t, resp.Results)
	assert.Empty(t, resp.UIElements)
	assert.Empty(t, resp.Entities)
	assert.Equal(t, "s2", resp.SessionID)

	// The degraded turn is still recorded.
	require.Len(t, store.entries, 2)
	assert.Equal(t, 0.5, store.entries[0].Metadata["confidence"])
}

func TestScenarioStoreAppendFails(t *testing.T) {
	p := &scriptedProvider{extraction: fenced(`{"intent":"greeting","confidence":0.99}`), reply: fenced(`{"message":"Hi there!"}`)}
	store := newFakeStore()
	store.appendErr = errors.New("database is locked")
	o := newTestOrchestrator(p, newSpyService(), store)

	resp, err := o.HandleMessage(context.Background(), Request{Input: "hey", SessionID: "s3"})
	require.NoError(t, err)
	assert.Equal(t, "Hi there!", resp.Message)
	assert.Equal(t, IntentGreeting, resp.Intent)

	history, err := store.RecentTurns(context.Background(), "s3", 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestMissingSessionID(t *testing.T) {
	p := &scriptedProvider{}
	store := newFakeStore()
	o := newTestOrchestrator(p, newSpyService(), store)

	for _, id := range []string{"", "   "} {
		resp, err := o.HandleMessage(context.Background(), Request{Input: "hello", SessionID: id})
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrMissingSessionID)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "session_id", verr.Field)
	}
	assert.Zero(t, store.writes)
	assert.Empty(t, p.requests())
}

func TestSearchFailureStillReplies(t *testing.T) {
	p := &scriptedProvider{extraction: fenced(flightExtraction), reply: fenced(`{"message":"No flights right now, try other dates."}`)}
	svc := newSpyService()
	svc.err = errors.New("503 from airline gateway")
	o := newTestOrchestrator(p, svc, newFakeStore())

	resp, err := o.HandleMessage(context.Background(), Request{Input: "flights", SessionID: "s4"})
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
	assert.Equal(t, "No flights right now, try other dates.", resp.Message)

	// Generation saw no results section.
	reqs := p.requests()
	require.Len(t, reqs, 2)
	assert.NotContains(t, reqs[1].Messages[1].Content, "API results:")
}

func TestHistoryFeedsPrompts(t *testing.T) {
	p := &scriptedProvider{extraction: fenced(`{"intent":"general_inquiry","confidence":0.6}`), reply: fenced(`{"message":"ok"}`)}
	store := newFakeStore()
	store.seed("s5", "first", "second", "third", "fourth")
	store.seed("other", "noise", "noise")
	o := newTestOrchestrator(p, newSpyService(), store)

	_, err := o.HandleMessage(context.Background(), Request{Input: "and then?", SessionID: "s5"})
	require.NoError(t, err)

	reqs := p.requests()
	assert.Equal(t, "Previous context: assistant: second\nuser: third\nassistant: fourth", reqs[0].Messages[1].Content)
	assert.Contains(t, reqs[1].Messages[1].Content, "Recent conversation: assistant: second | user: third | assistant: fourth")
}

func TestHistoryLoadFailureIsAbsorbed(t *testing.T) {
	p := &scriptedProvider{extraction: fenced(`{"intent":"greeting","confidence":0.9}`), reply: fenced(`{"message":"Hello"}`)}
	store := newFakeStore()
	store.recentErr = errors.New("no such table")
	o := newTestOrchestrator(p, newSpyService(), store)

	resp, err := o.HandleMessage(context.Background(), Request{Input: "hi", SessionID: "s6"})
	require.NoError(t, err)
	assert.Equal(t, "Hello", resp.Message)
	assert.Len(t, p.requests()[0].Messages, 2, "no context message without history")
}

func TestUpsertFailureKeepsLog(t *testing.T) {
	p := &scriptedProvider{extraction: fenced(`{"intent":"greeting","confidence":0.9}`), reply: fenced(`{"message":"Hello"}`)}
	store := newFakeStore()
	store.upsertErr = errors.New("constraint failed")
	o := newTestOrchestrator(p, newSpyService(), store)

	_, err := o.HandleMessage(context.Background(), Request{Input: "hi", SessionID: "s7"})
	require.NoError(t, err)
	assert.Len(t, store.entries, 2)
}

func TestUnhandledErrorReturnsMinimalReply(t *testing.T) {
	p := &scriptedProvider{extraction: fenced(flightExtraction), reply: fenced(okReply)}
	svc := newSpyService()
	svc.panics = true
	store := newFakeStore()
	o := newTestOrchestrator(p, svc, store)

	resp, err := o.HandleMessage(context.Background(), Request{Input: "flights", SessionID: "s8"})
	require.NoError(t, err)
	assert.Equal(t, UnhandledMessage, resp.Message)
	assert.Equal(t, "s8", resp.SessionID)
	assert.Empty(t, resp.Intent)
	assert.Nil(t, resp.Entities)
	assert.Nil(t, resp.Results)
	assert.Nil(t, resp.UIElements)
	assert.Empty(t, store.entries)
}

func TestRepeatedInputsAppendNewEntries(t *testing.T) {
	p := &scriptedProvider{extraction: fenced(`{"intent":"greeting","confidence":0.9}`), reply: fenced(`{"message":"Hello"}`)}
	store := newFakeStore()
	o := newTestOrchestrator(p, newSpyService(), store)

	for i := 0; i < 3; i++ {
		_, err := o.HandleMessage(context.Background(), Request{Input: "hi", SessionID: "s9"})
		require.NoError(t, err)
	}
	require.Len(t, store.entries, 6)
	for i, e := range store.entries {
		want := conversation.RoleUser
		if i%2 == 1 {
			want = conversation.RoleAssistant
		}
		assert.Equal(t, want, e.Role)
	}
}

func TestStageSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	p := &scriptedProvider{extraction: fenced(flightExtraction), reply: fenced(okReply)}
	o := newTestOrchestrator(p, newSpyService(), newFakeStore(), WithTracerProvider(tp))

	_, err := o.HandleMessage(context.Background(), Request{Input: "flights", SessionID: "s10"})
	require.NoError(t, err)

	spans := sr.Ended()
	names := make([]string, len(spans))
	for i, s := range spans {
		names[i] = s.Name()
	}
	assert.Equal(t, []string{
		"assistant.preprocess",
		"assistant.extract",
		"assistant.dispatch",
		"assistant.generate",
		"assistant.store",
		"assistant.handle_message",
	}, names)

	root := spans[len(spans)-1]
	for _, s := range spans[:len(spans)-1] {
		assert.Equal(t, root.SpanContext().SpanID(), s.Parent().SpanID(), s.Name())
	}
}
