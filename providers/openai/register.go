package openai

import (
	"github.com/deepnoodle-ai/semgen/llm"
	"github.com/deepnoodle-ai/semgen/providers"
)

func init() {
	providers.Register(providers.ProviderEntry{
		Name:         ProviderName,
		Match:        providers.PrefixesMatcher("gpt-", "o1", "o3", "o4", "chatgpt-"),
		Factory:      factory,
		DefaultModel: DefaultModel,
		APIKeyEnv:    []string{"OPENAI_KEY", "OPENAI_API_KEY"},
	})
}

func factory(settings providers.Settings) llm.LLM {
	opts := []Option{
		WithModel(settings.Model),
		WithMaxRetries(settings.MaxRetries),
	}
	if settings.APIKey != "" {
		opts = append(opts, WithAPIKey(settings.APIKey))
	}
	if settings.Endpoint != "" {
		opts = append(opts, WithEndpoint(settings.Endpoint))
	}
	if settings.Timeout > 0 {
		opts = append(opts, WithTimeout(settings.Timeout))
	}
	return New(opts...)
}
