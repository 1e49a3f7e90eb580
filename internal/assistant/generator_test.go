package assistant

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/travel-assistant/internal/travel"
)

const okReply = `{"message":"I found 3 flights.","ui_elements":[{"type":"button","text":"Book","action":"book_flight","data":{"flight_id":"f1"}}]}`

func TestGenerate(t *testing.T) {
	p := &scriptedProvider{reply: fenced(okReply)}
	g := NewGenerator(p, DefaultSettings())

	results := []any{travel.FlightResult{FlightID: "f1", Price: 199.5}}
	ents := ParseEntities(map[string]any{"origin": "NYC"})
	got := g.Generate(context.Background(), "flights to LA", IntentSearchFlight, ents, results,
		[]string{"user: one", "assistant: two", "user: three", "assistant: four"})

	require.NoError(t, got.Err)
	assert.Equal(t, "I found 3 flights.", got.Message)
	require.Len(t, got.UIElements, 1)
	assert.Equal(t, "book_flight", got.UIElements[0].Action)
	assert.Equal(t, "f1", got.UIElements[0].Data["flight_id"])

	req := p.requests()[0]
	assert.Equal(t, 0.8, req.Temperature)
	lines := strings.Split(req.Messages[1].Content, "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "User input: flights to LA", lines[0])
	assert.Equal(t, "Detected intent: search_flight", lines[1])
	assert.Equal(t, `Extracted entities: {"origin":"NYC"}`, lines[2])
	assert.True(t, strings.HasPrefix(lines[3], `API results: [{"flight_id":"f1"`), lines[3])
	assert.Equal(t, "Recent conversation: assistant: two | user: three | assistant: four", lines[4])
}

func TestGenerateOmitsEmptySections(t *testing.T) {
	p := &scriptedProvider{reply: fenced(`{"message":"Hello!"}`)}
	got := NewGenerator(p, DefaultSettings()).Generate(context.Background(), "hi", IntentGreeting, Entities{}, []any{}, nil)

	require.NoError(t, got.Err)
	assert.NotNil(t, got.UIElements)
	assert.Empty(t, got.UIElements)
	assert.Equal(t, "User input: hi\nDetected intent: greeting\nExtracted entities: {}", p.requests()[0].Messages[1].Content)
}

func TestGenerateFallback(t *testing.T) {
	tests := []struct {
		name string
		p    *scriptedProvider
	}{
		{"unreachable", &scriptedProvider{replyErr: errUnreachable}},
		{"not json", &scriptedProvider{reply: "Sure! Here are flights."}},
		{"missing message", &scriptedProvider{reply: fenced(`{"ui_elements":[]}`)}},
		{"blank message", &scriptedProvider{reply: fenced(`{"message":"   "}`)}},
		{"ui element missing action", &scriptedProvider{reply: fenced(`{"message":"ok","ui_elements":[{"type":"button","text":"Go"}]}`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewGenerator(tt.p, DefaultSettings()).Generate(context.Background(), "x", IntentGeneralInquiry, Entities{}, nil, nil)
			assert.Error(t, got.Err)
			assert.Equal(t, ApologyMessage, got.Message)
			assert.Empty(t, got.UIElements)
		})
	}
}
