package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/ziadkadry99/travel-assistant/internal/llm"
)

// Fallback extraction used whenever the model cannot be reached or parsed.
const (
	fallbackIntent     = IntentGeneralInquiry
	fallbackConfidence = 0.5
)

// Extraction is the structured reading of one utterance. Err records why
// the fallback was used, if it was.
type Extraction struct {
	Intent     Intent
	Confidence float64
	Entities   Entities
	Err        error
}

// Extractor classifies user input into an intent with entity slots.
type Extractor struct {
	provider      llm.Provider
	temperature   float64
	maxTokens     int
	promptHistory int
}

func NewExtractor(provider llm.Provider, s Settings) *Extractor {
	return &Extractor{
		provider:      provider,
		temperature:   s.ExtractionTemperature,
		maxTokens:     s.MaxTokens,
		promptHistory: s.PromptHistory,
	}
}

type extractionPayload struct {
	Intent     Intent         `json:"intent"`
	Confidence any            `json:"confidence"`
	Entities   map[string]any `json:"entities"`
}

// Extract never fails: any error yields (general_inquiry, 0.5, {}) with
// the cause in Err.
func (x *Extractor) Extract(ctx context.Context, input string, history []string) Extraction {
	messages := []llm.Message{{Role: llm.RoleSystem, Content: extractionPrompt}}
	if recent := lastN(history, x.promptHistory); len(recent) > 0 {
		messages = append(messages, llm.Message{
			Role:    llm.RoleUser,
			Content: "Previous context: " + strings.Join(recent, "\n"),
		})
	}
	messages = append(messages, llm.Message{
		Role:    llm.RoleUser,
		Content: fmt.Sprintf("Extract intent and entities from: '%s'", input),
	})

	resp, err := x.provider.Complete(ctx, llm.CompletionRequest{
		Messages:    messages,
		Temperature: x.temperature,
		MaxTokens:   x.maxTokens,
	})
	if err != nil {
		return fallbackExtraction(fmt.Errorf("extracting intent: %w", err))
	}

	var p extractionPayload
	if err := decodePayload(resp.Content, extractionSchema, &p); err != nil {
		return fallbackExtraction(fmt.Errorf("extracting intent: %w", err))
	}

	return Extraction{
		Intent:     p.Intent,
		Confidence: parseConfidence(p.Confidence),
		Entities:   ParseEntities(p.Entities),
	}
}

func fallbackExtraction(err error) Extraction {
	return Extraction{
		Intent:     fallbackIntent,
		Confidence: fallbackConfidence,
		Entities:   Entities{},
		Err:        err,
	}
}

// parseConfidence reads a number, treats anything else as 0 and clamps
// the result to [0, 1].
func parseConfidence(v any) float64 {
	var c float64
	switch x := v.(type) {
	case float64:
		c = x
	case json.Number:
		c, _ = x.Float64()
	}
	if math.IsNaN(c) || c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

func lastN(lines []string, n int) []string {
	if n <= 0 || len(lines) == 0 {
		return nil
	}
	if len(lines) > n {
		return lines[len(lines)-n:]
	}
	return lines
}
