package llm

import (
	"context"
	"errors"
	"fmt"
)

// LLM is implemented by every completion provider.
type LLM interface {
	// Name returns the provider name, e.g. "openai".
	Name() string

	// Generate issues exactly one completion request.
	Generate(ctx context.Context, request *Request) (*Response, error)
}

// Request conveys the complete set of parameters for one completion call.
// It is also what request hooks receive.
type Request struct {
	Model          string          `json:"model"`
	SystemPrompt   string          `json:"system_prompt,omitempty"`
	Messages       []*Message      `json:"messages"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
	MaxTokens      *int            `json:"max_tokens,omitempty"`
	Temperature    *float64        `json:"temperature,omitempty"`
}

// Validate checks that the request can be sent to a provider.
func (r *Request) Validate() error {
	if r == nil {
		return errors.New("nil request")
	}
	if len(r.Messages) == 0 {
		return errors.New("no messages provided")
	}
	for i, message := range r.Messages {
		if message == nil || message.Content == "" {
			return fmt.Errorf("empty message detected (index %d)", i)
		}
	}
	return nil
}
