package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/travel-assistant/internal/llm"
)

func TestExtract(t *testing.T) {
	p := &scriptedProvider{extraction: fenced(`{"intent":"search_flight","confidence":0.95,"entities":{"origin":"NYC","destination":"LA"}}`)}
	x := NewExtractor(p, DefaultSettings())

	got := x.Extract(context.Background(), "flight from NYC to LA", nil)
	require.NoError(t, got.Err)
	assert.Equal(t, IntentSearchFlight, got.Intent)
	assert.InDelta(t, 0.95, got.Confidence, 1e-9)
	assert.Equal(t, "NYC", got.Entities.Text(EntityOrigin))

	reqs := p.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, 0.3, reqs[0].Temperature)
	require.Len(t, reqs[0].Messages, 2)
	assert.Equal(t, llm.RoleSystem, reqs[0].Messages[0].Role)
	assert.Equal(t, "Extract intent and entities from: 'flight from NYC to LA'", reqs[0].Messages[1].Content)
}

func TestExtractIncludesLastThreeHistoryLines(t *testing.T) {
	p := &scriptedProvider{extraction: fenced(`{"intent":"greeting","confidence":1}`)}
	x := NewExtractor(p, DefaultSettings())

	x.Extract(context.Background(), "hi", []string{"user: a", "assistant: b", "user: c", "assistant: d"})

	msgs := p.requests()[0].Messages
	require.Len(t, msgs, 3)
	assert.Equal(t, llm.RoleUser, msgs[1].Role)
	assert.Equal(t, "Previous context: assistant: b\nuser: c\nassistant: d", msgs[1].Content)
}

func TestExtractFallback(t *testing.T) {
	tests := []struct {
		name string
		p    *scriptedProvider
	}{
		{"unreachable", &scriptedProvider{extractErr: errUnreachable}},
		{"garbage", &scriptedProvider{extraction: "sorry, I can't help"}},
		{"unknown intent", &scriptedProvider{extraction: fenced(`{"intent":"cancel","confidence":0.9}`)}},
		{"empty fence", &scriptedProvider{extraction: "```json\n```"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewExtractor(tt.p, DefaultSettings()).Extract(context.Background(), "hello", nil)
			assert.Error(t, got.Err)
			assert.Equal(t, IntentGeneralInquiry, got.Intent)
			assert.Equal(t, 0.5, got.Confidence)
			assert.NotNil(t, got.Entities)
			assert.Empty(t, got.Entities)
		})
	}
}

func TestExtractConfidence(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"missing", `{"intent":"greeting"}`, 0},
		{"string", `{"intent":"greeting","confidence":"high"}`, 0},
		{"above one", `{"intent":"greeting","confidence":7}`, 1},
		{"negative", `{"intent":"greeting","confidence":-0.2}`, 0},
		{"in range", `{"intent":"greeting","confidence":0.42}`, 0.42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &scriptedProvider{extraction: fenced(tt.raw)}
			got := NewExtractor(p, DefaultSettings()).Extract(context.Background(), "hey", nil)
			require.NoError(t, got.Err)
			assert.Equal(t, IntentGreeting, got.Intent)
			assert.InDelta(t, tt.want, got.Confidence, 1e-9)
		})
	}
}

func TestExtractNullEntities(t *testing.T) {
	p := &scriptedProvider{extraction: fenced(`{"intent":"general_inquiry","confidence":0.7,"entities":null}`)}
	got := NewExtractor(p, DefaultSettings()).Extract(context.Background(), "visa?", nil)
	require.NoError(t, got.Err)
	assert.NotNil(t, got.Entities)
	assert.Empty(t, got.Entities)
}
