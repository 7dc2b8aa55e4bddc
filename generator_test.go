package semgen

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/semgen/internal/mocks"
	"github.com/deepnoodle-ai/semgen/llm"
	"github.com/deepnoodle-ai/semgen/log"
	"github.com/stretchr/testify/require"
)

func TestNewGeneratorRequiresModel(t *testing.T) {
	_, err := NewGenerator(GeneratorOptions{})
	require.Error(t, err)
}

func TestGeneratorBuildRequest(t *testing.T) {
	maxTokens := 2048
	generator, err := NewGenerator(GeneratorOptions{
		Model:     mocks.NewTextLLM("{}"),
		ModelName: "gpt-4o",
		MaxTokens: &maxTokens,
	})
	require.NoError(t, err)

	request, err := generator.BuildRequest("  " + ExampleInstruction + "\n")
	require.NoError(t, err)
	require.Equal(t, "gpt-4o", request.Model)
	require.Equal(t, DefaultSystemPrompt, request.SystemPrompt)
	require.Len(t, request.Messages, 1)
	require.Equal(t, llm.User, request.Messages[0].Role)
	require.Equal(t, ExampleInstruction, request.Messages[0].Content)
	require.Equal(t, &maxTokens, request.MaxTokens)
	require.Nil(t, request.Temperature)

	format := request.ResponseFormat
	require.NotNil(t, format)
	require.Equal(t, llm.ResponseFormatTypeJSONSchema, format.Type)
	require.Equal(t, ResponseFormatName, format.Name)
	require.True(t, format.Strict)

	m, err := format.SchemaMap()
	require.NoError(t, err)
	props := m["properties"].(map[string]any)
	for _, name := range []string{"table_name", "columns", "measures", "relationships", "metadata"} {
		require.Contains(t, props, name)
	}
	require.Equal(t, false, m["additionalProperties"])
}

func TestGeneratorEmptyInstruction(t *testing.T) {
	model := mocks.NewTextLLM("{}")
	var errorsSeen int
	generator, err := NewGenerator(GeneratorOptions{
		Model: model,
		Hooks: Hooks{OnError: []ErrorHook{func(ctx context.Context, err error) { errorsSeen++ }}},
	})
	require.NoError(t, err)

	_, err = generator.Generate(context.Background(), "   ")
	require.ErrorIs(t, err, ErrEmptyInstruction)
	require.Empty(t, model.Requests)
	require.Equal(t, 0, errorsSeen)
}

func TestGeneratorSuccess(t *testing.T) {
	model := mocks.NewTextLLM(string(loadSales(t)))
	generator, err := NewGenerator(GeneratorOptions{Model: model})
	require.NoError(t, err)

	table, err := generator.Generate(context.Background(), ExampleInstruction)
	require.NoError(t, err)
	require.Equal(t, "Sales", table.Name)
	require.Len(t, table.Columns, 3)
	require.Len(t, table.Measures, 1)
	require.Len(t, table.Relationships, 1)
	require.Equal(t, "BigQuery", table.Metadata.ConnectionType)
	require.Len(t, model.Requests, 1)
}

func TestGeneratorRequestHookLogsOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(log.Options{Level: log.LevelInfo, Writer: &buf})

	var linesAtCall int
	model := mocks.NewTextLLM(string(loadSales(t)))
	inner := model.GenerateFunc
	model.GenerateFunc = func(ctx context.Context, request *llm.Request) (*llm.Response, error) {
		linesAtCall = strings.Count(buf.String(), "\n")
		return inner(ctx, request)
	}

	generator, err := NewGenerator(GeneratorOptions{
		Model: model,
		Hooks: DefaultHooks(logger),
	})
	require.NoError(t, err)

	_, err = generator.Generate(context.Background(), ExampleInstruction)
	require.NoError(t, err)

	require.Equal(t, 1, linesAtCall, "request must be logged before it is sent")
	require.Equal(t, 1, strings.Count(buf.String(), "\n"))
	require.Contains(t, buf.String(), "completion request")
	require.Contains(t, buf.String(), ResponseFormatName)
}

func TestGeneratorTransportFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(log.Options{Level: log.LevelInfo, Writer: &buf})

	transportErr := errors.New("connection refused")
	var hookErrs []error
	hooks := DefaultHooks(logger)
	hooks.OnError = append(hooks.OnError, func(ctx context.Context, err error) {
		hookErrs = append(hookErrs, err)
	})

	generator, err := NewGenerator(GeneratorOptions{
		Model: mocks.NewErrorLLM(transportErr),
		Hooks: hooks,
	})
	require.NoError(t, err)

	table, err := generator.Generate(context.Background(), ExampleInstruction)
	require.Nil(t, table)
	require.Error(t, err)
	require.ErrorIs(t, err, transportErr)
	require.True(t, IsTransportError(err))

	require.Len(t, hookErrs, 1)
	require.Same(t, err, hookErrs[0], "error hooks must see the returned error")

	out := buf.String()
	require.Equal(t, 1, strings.Count(out, "completion failed"))
	require.Contains(t, out, "connection refused")
}

func TestGeneratorValidationFailure(t *testing.T) {
	var hookCalls int
	generator, err := NewGenerator(GeneratorOptions{
		Model: mocks.NewTextLLM(`{"table_name": "Sales"}`),
		Hooks: Hooks{OnError: []ErrorHook{func(ctx context.Context, err error) { hookCalls++ }}},
	})
	require.NoError(t, err)

	table, err := generator.Generate(context.Background(), ExampleInstruction)
	require.Nil(t, table)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "columns", verr.Field)
	require.Equal(t, 1, hookCalls)
	require.False(t, IsTransportError(err))
}

func TestGeneratorRefusal(t *testing.T) {
	model := &mocks.MockLLM{
		GenerateFunc: func(ctx context.Context, request *llm.Request) (*llm.Response, error) {
			return &llm.Response{Role: llm.Assistant, Refusal: "I can't help with that"}, nil
		},
	}
	generator, err := NewGenerator(GeneratorOptions{Model: model})
	require.NoError(t, err)

	_, err = generator.Generate(context.Background(), ExampleInstruction)
	require.True(t, IsValidationError(err))
	require.Contains(t, err.Error(), "refused")
}

func TestGeneratorPassesContext(t *testing.T) {
	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "value")

	var seen []any
	model := mocks.NewTextLLM(string(loadSales(t)))
	inner := model.GenerateFunc
	model.GenerateFunc = func(ctx context.Context, request *llm.Request) (*llm.Response, error) {
		seen = append(seen, ctx.Value(ctxKey{}))
		return inner(ctx, request)
	}
	generator, err := NewGenerator(GeneratorOptions{
		Model: model,
		Hooks: Hooks{OnRequest: []RequestHook{func(ctx context.Context, request *llm.Request) {
			seen = append(seen, ctx.Value(ctxKey{}))
		}}},
	})
	require.NoError(t, err)

	_, err = generator.Generate(ctx, "describe a table")
	require.NoError(t, err)
	require.Equal(t, []any{"value", "value"}, seen)
}

func TestGeneratorEmptyResponse(t *testing.T) {
	model := &mocks.MockLLM{
		GenerateFunc: func(ctx context.Context, request *llm.Request) (*llm.Response, error) {
			return nil, nil
		},
	}
	generator, err := NewGenerator(GeneratorOptions{Model: model})
	require.NoError(t, err)

	_, err = generator.Generate(context.Background(), "describe a table")
	require.True(t, IsTransportError(err))
}
