package openai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/deepnoodle-ai/semgen/llm"
	"github.com/deepnoodle-ai/semgen/providers"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ProviderName identifies this provider in errors and the registry.
const ProviderName = "openai"

var (
	DefaultModel      = ModelGPT4o
	DefaultMaxTokens  = 4096
	DefaultMaxRetries = 0
)

var _ llm.LLM = &Provider{}

// Provider requests structured output from the OpenAI Chat Completions API.
type Provider struct {
	client     openai.Client
	apiKey     string
	model      string
	maxTokens  int
	maxRetries int
	options    []option.RequestOption
}

// New returns a Provider. The API key defaults to OPENAI_API_KEY, then
// OPENAI_KEY.
func New(opts ...Option) *Provider {
	p := &Provider{
		apiKey:     firstEnv("OPENAI_API_KEY", "OPENAI_KEY"),
		model:      DefaultModel,
		maxTokens:  DefaultMaxTokens,
		maxRetries: DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(p)
	}
	clientOpts := []option.RequestOption{
		option.WithAPIKey(p.apiKey),
		option.WithMaxRetries(p.maxRetries),
	}
	p.client = openai.NewClient(append(clientOpts, p.options...)...)
	return p
}

func (p *Provider) Name() string {
	return ProviderName
}

// ModelName returns the default model of the provider.
func (p *Provider) ModelName() string {
	return p.model
}

func (p *Provider) Generate(ctx context.Context, request *llm.Request) (*llm.Response, error) {
	params, err := p.buildRequestParams(request)
	if err != nil {
		return nil, err
	}
	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, convertError(err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("empty response from openai api")
	}
	choice := completion.Choices[0]
	return &llm.Response{
		ID:         completion.ID,
		Model:      completion.Model,
		Role:       llm.Assistant,
		StopReason: choice.FinishReason,
		Text:       choice.Message.Content,
		Refusal:    choice.Message.Refusal,
		Usage: llm.Usage{
			InputTokens:  int(completion.Usage.PromptTokens),
			OutputTokens: int(completion.Usage.CompletionTokens),
		},
	}, nil
}

// buildRequestParams converts an llm.Request to chat completion parameters.
func (p *Provider) buildRequestParams(request *llm.Request) (openai.ChatCompletionNewParams, error) {
	if err := request.Validate(); err != nil {
		return openai.ChatCompletionNewParams{}, err
	}

	model := request.Model
	if model == "" {
		model = p.model
	}

	var messages []openai.ChatCompletionMessageParamUnion
	if request.SystemPrompt != "" {
		if usesDeveloperRole(model) {
			messages = append(messages, openai.DeveloperMessage(request.SystemPrompt))
		} else {
			messages = append(messages, openai.SystemMessage(request.SystemPrompt))
		}
	}
	for _, msg := range request.Messages {
		switch msg.Role {
		case llm.User:
			messages = append(messages, openai.UserMessage(msg.Content))
		case llm.Assistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		case llm.System:
			messages = append(messages, openai.SystemMessage(msg.Content))
		default:
			return openai.ChatCompletionNewParams{}, fmt.Errorf("unsupported message role: %q", msg.Role)
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: messages,
	}

	maxTokens := p.maxTokens
	if request.MaxTokens != nil {
		maxTokens = *request.MaxTokens
	}
	if maxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(maxTokens))
	}
	if request.Temperature != nil {
		params.Temperature = openai.Float(*request.Temperature)
	}

	if format := request.ResponseFormat; format != nil {
		switch format.Type {
		case llm.ResponseFormatTypeJSONSchema:
			schemaMap, err := format.SchemaMap()
			if err != nil {
				return openai.ChatCompletionNewParams{}, err
			}
			jsonSchema := openai.ResponseFormatJSONSchemaJSONSchemaParam{
				Name:   format.Name,
				Schema: schemaMap,
				Strict: openai.Bool(format.Strict),
			}
			if format.Description != "" {
				jsonSchema.Description = openai.String(format.Description)
			}
			params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: jsonSchema},
			}
		case llm.ResponseFormatTypeJSON:
			params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
			}
		case llm.ResponseFormatTypeText, "":
		default:
			return openai.ChatCompletionNewParams{}, fmt.Errorf("unsupported response format: %q", format.Type)
		}
	}
	return params, nil
}

// usesDeveloperRole reports whether the model expects system instructions in
// a developer message.
func usesDeveloperRole(model string) bool {
	return strings.HasPrefix(model, "o") || strings.HasPrefix(model, "gpt-5")
}

func convertError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return providers.NewError(ProviderName, apiErr.StatusCode, apiErr.RawJSON())
	}
	return fmt.Errorf("error making request: %w", err)
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if value := os.Getenv(name); value != "" {
			return value
		}
	}
	return ""
}
