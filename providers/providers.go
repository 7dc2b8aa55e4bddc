package providers

import (
	"fmt"
	"net/http"
	"time"
)

// Settings holds the values a factory needs to build a provider.
type Settings struct {
	Model    string
	Endpoint string
	APIKey   string

	// MaxRetries is passed to the provider SDK. Zero disables retries.
	MaxRetries int

	// Timeout bounds a single request. Zero leaves the SDK default in place.
	Timeout time.Duration
}

// ProviderError represents an error returned by an LLM provider API.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s api error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

// NewError creates a new ProviderError.
func NewError(provider string, statusCode int, body string) error {
	return &ProviderError{Provider: provider, StatusCode: statusCode, Body: body}
}

// Retryable reports whether the failure is transient. It satisfies
// retry.Retryable.
func (e *ProviderError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || // 429
		e.StatusCode == http.StatusInternalServerError || // 500
		e.StatusCode == http.StatusServiceUnavailable || // 503
		e.StatusCode == http.StatusGatewayTimeout || // 504
		e.StatusCode == 520 // Cloudflare
}

// IsAuthError reports whether the provider rejected the credential.
func (e *ProviderError) IsAuthError() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}
