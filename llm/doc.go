// Package llm defines the thin abstraction layer over LLM providers used to
// request structured output.
//
//   - [LLM] is the provider interface.
//   - [Request] carries the full parameter set of one completion call.
//   - [ResponseFormat] declares the JSON Schema the output must satisfy.
//   - [Response] carries the raw text the provider returned.
//
// Providers live in the [github.com/deepnoodle-ai/semgen/providers]
// subpackages.
package llm
