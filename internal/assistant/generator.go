package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ziadkadry99/travel-assistant/internal/llm"
)

// ApologyMessage replaces the reply when generation fails.
const ApologyMessage = "I apologize, but I'm having trouble processing your request right now. Please try again."

// UIElement is a suggested interactive affordance attached to a reply.
type UIElement struct {
	Type   string         `json:"type"`
	Text   string         `json:"text"`
	Action string         `json:"action"`
	Data   map[string]any `json:"data,omitempty"`
}

// Generation is the reply for one turn. Err records why the apology was
// used, if it was.
type Generation struct {
	Message    string
	UIElements []UIElement
	Err        error
}

// Generator writes the natural-language reply.
type Generator struct {
	provider      llm.Provider
	temperature   float64
	maxTokens     int
	promptHistory int
}

func NewGenerator(provider llm.Provider, s Settings) *Generator {
	return &Generator{
		provider:      provider,
		temperature:   s.ResponseTemperature,
		maxTokens:     s.MaxTokens,
		promptHistory: s.PromptHistory,
	}
}

type responsePayload struct {
	Message    string      `json:"message"`
	UIElements []UIElement `json:"ui_elements"`
}

// Generate never fails: any error yields ApologyMessage and no UI elements.
func (g *Generator) Generate(ctx context.Context, input string, intent Intent, ents Entities, results []any, history []string) Generation {
	content, err := g.userTurn(input, intent, ents, results, history)
	if err != nil {
		return fallbackGeneration(err)
	}

	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: responsePrompt},
			{Role: llm.RoleUser, Content: content},
		},
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	})
	if err != nil {
		return fallbackGeneration(fmt.Errorf("generating response: %w", err))
	}

	var p responsePayload
	if err := decodePayload(resp.Content, responseSchema, &p); err != nil {
		return fallbackGeneration(fmt.Errorf("generating response: %w", err))
	}
	if strings.TrimSpace(p.Message) == "" {
		return fallbackGeneration(fmt.Errorf("generating response: %w", errEmptyPayload))
	}
	if p.UIElements == nil {
		p.UIElements = []UIElement{}
	}
	return Generation{Message: p.Message, UIElements: p.UIElements}
}

func (g *Generator) userTurn(input string, intent Intent, ents Entities, results []any, history []string) (string, error) {
	if ents == nil {
		ents = Entities{}
	}
	entJSON, err := json.Marshal(ents)
	if err != nil {
		return "", fmt.Errorf("encoding entities: %w", err)
	}

	parts := []string{
		"User input: " + input,
		"Detected intent: " + string(intent),
		"Extracted entities: " + string(entJSON),
	}
	if len(results) > 0 {
		resJSON, err := json.Marshal(results)
		if err != nil {
			return "", fmt.Errorf("encoding results: %w", err)
		}
		parts = append(parts, "API results: "+string(resJSON))
	}
	if recent := lastN(history, g.promptHistory); len(recent) > 0 {
		parts = append(parts, "Recent conversation: "+strings.Join(recent, " | "))
	}
	return strings.Join(parts, "\n"), nil
}

func fallbackGeneration(err error) Generation {
	return Generation{Message: ApologyMessage, UIElements: []UIElement{}, Err: err}
}
