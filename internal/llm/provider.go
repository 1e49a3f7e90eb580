package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Provider defines the interface for LLM providers.
type Provider interface {
	// Complete sends a completion request and returns the response.
	// Every failure wraps ErrCompletionFailed.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}

// ErrCompletionFailed is the single condition callers see for transport
// errors, non-2xx statuses, malformed envelopes and empty content.
var ErrCompletionFailed = errors.New("completion failed")

func completionError(provider string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrCompletionFailed, provider, err)
}

func completionErrorf(provider, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrCompletionFailed, provider, fmt.Sprintf(format, args...))
}

// checkContent rejects blank completions.
func checkContent(provider, content string) error {
	if strings.TrimSpace(content) == "" {
		return completionErrorf(provider, "empty or missing message content")
	}
	return nil
}
