package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiProvider implements Provider using Google's Gemini models.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider initializes a new Gemini client.
func NewGeminiProvider(ctx context.Context, apiKey string, model string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiProvider{client: client, model: model}, nil
}

func (p *GeminiProvider) Name() string {
	return "google"
}

// Close releases the underlying client.
func (p *GeminiProvider) Close() error {
	return p.client.Close()
}

func (p *GeminiProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	name := req.Model
	if name == "" {
		name = p.model
	}

	model := p.client.GenerativeModel(name)
	model.SetTemperature(float32(req.Temperature))
	model.SetMaxOutputTokens(int32(req.maxTokens()))
	if req.JSONMode {
		model.ResponseMIMEType = "application/json"
	}

	var turns []*genai.Content
	for _, msg := range req.Messages {
		part := genai.Text(msg.Content)
		switch msg.Role {
		case RoleSystem:
			model.SystemInstruction = &genai.Content{Parts: []genai.Part{part}}
		case RoleAssistant:
			turns = append(turns, &genai.Content{Role: "model", Parts: []genai.Part{part}})
		default:
			turns = append(turns, &genai.Content{Role: "user", Parts: []genai.Part{part}})
		}
	}
	if len(turns) == 0 {
		return nil, completionErrorf(p.Name(), "request has no user content")
	}

	chat := model.StartChat()
	chat.History = turns[:len(turns)-1]
	resp, err := chat.SendMessage(ctx, turns[len(turns)-1].Parts...)
	if err != nil {
		return nil, completionError(p.Name(), err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, completionErrorf(p.Name(), "response has no candidates")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	if err := checkContent(p.Name(), text.String()); err != nil {
		return nil, err
	}

	out := &CompletionResponse{
		Content:      text.String(),
		Model:        name,
		FinishReason: resp.Candidates[0].FinishReason.String(),
	}
	if resp.UsageMetadata != nil {
		out.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		out.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	return out, nil
}
