// Package providers contains the LLM provider registry and shared error types.
//
// Providers self-register via init() functions using [Register]. The registry
// matches model names to provider factories using configurable matchers
// ([PrefixMatcher], [PrefixesMatcher], [ContainsMatcher]).
//
// Individual providers are in subpackages:
//
//   - [github.com/deepnoodle-ai/semgen/providers/openai] - OpenAI Chat Completions with JSON Schema output
//   - [github.com/deepnoodle-ai/semgen/providers/anthropic] - Claude models
//   - [github.com/deepnoodle-ai/semgen/providers/google] - Gemini models
package providers
