package anthropic

import (
	"github.com/deepnoodle-ai/semgen/llm"
	"github.com/deepnoodle-ai/semgen/providers"
)

func init() {
	// Register for claude-* models
	providers.Register(providers.ProviderEntry{
		Name:         ProviderName,
		Match:        providers.PrefixMatcher("claude-"),
		Factory:      factory,
		DefaultModel: DefaultModel,
		APIKeyEnv:    []string{"ANTHROPIC_API_KEY"},
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
