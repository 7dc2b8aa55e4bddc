package semgen

import (
	"context"
	"encoding/json"

	"github.com/deepnoodle-ai/semgen/llm"
	"github.com/deepnoodle-ai/semgen/log"
)

// RequestHook runs once before the completion request is sent. It receives
// the complete parameter set of the call and must not modify it.
type RequestHook func(ctx context.Context, request *llm.Request)

// ErrorHook runs once when the request or the validation of its response
// fails. It observes the error; the generator returns the same error to its
// caller after all error hooks have run.
type ErrorHook func(ctx context.Context, err error)

// Hooks groups the callbacks registered on a Generator.
type Hooks struct {
	OnRequest []RequestHook
	OnError   []ErrorHook
}

// DefaultHooks returns hooks that log each request and each error to the
// given logger.
func DefaultHooks(logger log.Logger) Hooks {
	return Hooks{
		OnRequest: []RequestHook{LogRequest(logger)},
		OnError:   []ErrorHook{LogError(logger)},
	}
}

// LogRequest returns a RequestHook that writes the request parameters as a
// single log line.
func LogRequest(logger log.Logger) RequestHook {
	return func(ctx context.Context, request *llm.Request) {
		params, err := json.Marshal(request)
		if err != nil {
			logger.Info("completion request", "model", request.Model, "messages", len(request.Messages))
			return
		}
		logger.Info("completion request", "params", string(params))
	}
}

// LogError returns an ErrorHook that writes the error message as a single
// log line.
func LogError(logger log.Logger) ErrorHook {
	return func(ctx context.Context, err error) {
		logger.Error("completion failed", "error", err.Error())
	}
}

func (h Hooks) fireRequest(ctx context.Context, request *llm.Request) {
	for _, hook := range h.OnRequest {
		hook(ctx, request)
	}
}

func (h Hooks) fireError(ctx context.Context, err error) {
	for _, hook := range h.OnError {
		hook(ctx, err)
	}
}
