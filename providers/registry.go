package providers

import (
	"fmt"
	"strings"
	"sync"

	"github.com/deepnoodle-ai/semgen/llm"
)

// ProviderFactory creates an LLM provider from settings.
type ProviderFactory func(settings Settings) llm.LLM

// ModelMatcher determines if a model name matches a provider.
type ModelMatcher func(model string) bool

// ProviderEntry pairs a matcher with its factory.
type ProviderEntry struct {
	Name    string
	Match   ModelMatcher
	Factory ProviderFactory

	// DefaultModel is used when no model is configured.
	DefaultModel string

	// APIKeyEnv lists the environment variables that may hold the
	// provider's credential, in order of preference.
	APIKeyEnv []string
}

// Registry manages model-to-provider mappings.
// Providers register themselves during init() and the registry
// is used to create providers based on model names.
type Registry struct {
	mu      sync.RWMutex
	entries []ProviderEntry
}

// Register adds a provider entry to the registry.
// Entries are checked in registration order, so register more specific
// matchers before more general ones.
func (r *Registry) Register(entry ProviderEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

// Lookup returns the first entry whose matcher accepts model.
func (r *Registry) Lookup(model string) (ProviderEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, entry := range r.entries {
		if entry.Match(model) {
			return entry, true
		}
	}
	return ProviderEntry{}, false
}

// ByName returns the entry registered under name.
func (r *Registry) ByName(name string) (ProviderEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, entry := range r.entries {
		if strings.EqualFold(entry.Name, name) {
			return entry, true
		}
	}
	return ProviderEntry{}, false
}

// CreateModel returns an LLM provider for settings.Model.
func (r *Registry) CreateModel(settings Settings) (llm.LLM, error) {
	entry, ok := r.Lookup(settings.Model)
	if !ok {
		return nil, fmt.Errorf("no provider registered for model %q", settings.Model)
	}
	return entry.Factory(settings), nil
}

// Entries returns a copy of all registered provider entries.
func (r *Registry) Entries() []ProviderEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]ProviderEntry, len(r.entries))
	copy(result, r.entries)
	return result
}

// Matcher helpers

// PrefixMatcher returns a matcher that checks for a case-insensitive prefix.
func PrefixMatcher(prefix string) ModelMatcher {
	prefix = strings.ToLower(prefix)
	return func(model string) bool {
		return strings.HasPrefix(strings.ToLower(model), prefix)
	}
}

// PrefixesMatcher returns a matcher that checks for any of the given prefixes (case-insensitive).
func PrefixesMatcher(prefixes ...string) ModelMatcher {
	lowered := make([]string, len(prefixes))
	for i, p := range prefixes {
		lowered[i] = strings.ToLower(p)
	}
	return func(model string) bool {
		lower := strings.ToLower(model)
		for _, prefix := range lowered {
			if strings.HasPrefix(lower, prefix) {
				return true
			}
		}
		return false
	}
}

// ContainsMatcher returns a matcher that checks if the model contains a substring.
func ContainsMatcher(substr string) ModelMatcher {
	return func(model string) bool {
		return strings.Contains(model, substr)
	}
}

// Global default registry
var defaultRegistry = &Registry{}

// Register adds a provider entry to the default registry.
// This is typically called from provider init() functions.
func Register(entry ProviderEntry) {
	defaultRegistry.Register(entry)
}

// Lookup finds the entry for model in the default registry.
func Lookup(model string) (ProviderEntry, bool) {
	return defaultRegistry.Lookup(model)
}

// CreateModel creates an LLM provider using the default registry.
func CreateModel(settings Settings) (llm.LLM, error) {
	return defaultRegistry.CreateModel(settings)
}

// DefaultRegistry returns the default global registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}
