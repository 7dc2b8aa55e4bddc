package main

import (
	"fmt"

	"github.com/deepnoodle-ai/semgen/config"
	"github.com/deepnoodle-ai/semgen/llm"
	"github.com/deepnoodle-ai/semgen/providers"

	// Import providers to trigger their init() registration
	_ "github.com/deepnoodle-ai/semgen/providers/anthropic"
	_ "github.com/deepnoodle-ai/semgen/providers/google"
	_ "github.com/deepnoodle-ai/semgen/providers/openai"
)

// createModel creates an LLM provider for cfg.Model using the global
// registry. It fails when no credential is set for the matched provider.
func createModel(cfg *config.Config) (llm.LLM, error) {
	entry, ok := providers.Lookup(cfg.Model)
	if !ok {
		return nil, fmt.Errorf("no provider registered for model %q", cfg.Model)
	}
	var apiKey string
	if len(entry.APIKeyEnv) > 0 {
		key, err := config.APIKey(entry.APIKeyEnv...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name, err)
		}
		apiKey = key
	}
	return entry.Factory(providers.Settings{
		Model:      cfg.Model,
		Endpoint:   cfg.Endpoint,
		APIKey:     apiKey,
		MaxRetries: cfg.MaxRetries,
		Timeout:    cfg.Timeout,
	}), nil
}
