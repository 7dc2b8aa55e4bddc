package mocks

import (
	"context"

	"github.com/deepnoodle-ai/semgen/llm"
)

var _ llm.LLM = &MockLLM{}

// MockLLM is an llm.LLM whose behavior is supplied by the test.
type MockLLM struct {
	NameValue    string
	GenerateFunc func(ctx context.Context, request *llm.Request) (*llm.Response, error)

	// Requests records every request passed to Generate.
	Requests []*llm.Request
}

// NewTextLLM returns a MockLLM that always answers with text.
func NewTextLLM(text string) *MockLLM {
	return &MockLLM{
		GenerateFunc: func(ctx context.Context, request *llm.Request) (*llm.Response, error) {
			return &llm.Response{
				ID:    "resp_123",
				Model: "test-model",
				Role:  llm.Assistant,
				Text:  text,
				Usage: llm.Usage{InputTokens: 10, OutputTokens: 5},
			}, nil
		},
	}
}

// NewErrorLLM returns a MockLLM that always fails with err.
func NewErrorLLM(err error) *MockLLM {
	return &MockLLM{
		GenerateFunc: func(ctx context.Context, request *llm.Request) (*llm.Response, error) {
			return nil, err
		},
	}
}

func (m *MockLLM) Name() string {
	if m.NameValue == "" {
		return "mock"
	}
	return m.NameValue
}

func (m *MockLLM) Generate(ctx context.Context, request *llm.Request) (*llm.Response, error) {
	m.Requests = append(m.Requests, request)
	return m.GenerateFunc(ctx, request)
}
