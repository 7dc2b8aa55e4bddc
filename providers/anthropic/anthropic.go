package anthropic

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/deepnoodle-ai/semgen/internal/jsonutil"
	"github.com/deepnoodle-ai/semgen/llm"
	"github.com/deepnoodle-ai/semgen/providers"
)

const ProviderName = "anthropic"

var (
	DefaultModel      = ModelClaudeSonnet45
	DefaultMaxTokens  = 4096
	DefaultMaxRetries = 0
)

// jsonPrefill starts the assistant turn so the model answers with an object.
const jsonPrefill = "{"

var _ llm.LLM = &Provider{}

// Provider requests structured output from the Anthropic Messages API. The
// API has no JSON Schema response mode, so the schema is placed in the system
// prompt and the answer is prefilled with an opening brace.
type Provider struct {
	client     anthropic.Client
	apiKey     string
	model      string
	maxTokens  int
	maxRetries int
	options    []option.RequestOption
}

func New(opts ...Option) *Provider {
	p := &Provider{
		apiKey:     os.Getenv("ANTHROPIC_API_KEY"),
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
	p.client = anthropic.NewClient(append(clientOpts, p.options...)...)
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
	params, prefill, err := p.buildRequestParams(request)
	if err != nil {
		return nil, err
	}
	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return nil, providers.NewError(ProviderName, apiErr.StatusCode, apiErr.RawJSON())
		}
		return nil, fmt.Errorf("error making request: %w", err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("no text content in response")
	}
	output := text.String()
	if prefill != "" && !strings.HasPrefix(strings.TrimSpace(output), prefill) {
		output = prefill + output
	}
	if request.ResponseFormat != nil {
		output = jsonutil.ExtractObject(output)
	}

	return &llm.Response{
		ID:         msg.ID,
		Model:      string(msg.Model),
		Role:       llm.Assistant,
		StopReason: string(msg.StopReason),
		Text:       output,
		Usage: llm.Usage{
			InputTokens:  int(msg.Usage.InputTokens),
			OutputTokens: int(msg.Usage.OutputTokens),
		},
	}, nil
}

func (p *Provider) buildRequestParams(request *llm.Request) (anthropic.MessageNewParams, string, error) {
	if err := request.Validate(); err != nil {
		return anthropic.MessageNewParams{}, "", err
	}

	model := request.Model
	if model == "" {
		model = p.model
	}
	maxTokens := p.maxTokens
	if request.MaxTokens != nil {
		maxTokens = *request.MaxTokens
	}

	system, err := systemPrompt(request)
	if err != nil {
		return anthropic.MessageNewParams{}, "", err
	}

	var messages []anthropic.MessageParam
	for _, msg := range request.Messages {
		switch msg.Role {
		case llm.User:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		case llm.Assistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			return anthropic.MessageNewParams{}, "", fmt.Errorf("unsupported message role: %q", msg.Role)
		}
	}

	var prefill string
	if request.ResponseFormat != nil && request.ResponseFormat.Type != llm.ResponseFormatTypeText {
		prefill = jsonPrefill
		messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(prefill)))
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		Messages:  messages,
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Type: "text", Text: system}}
	}
	if request.Temperature != nil {
		params.Temperature = anthropic.Float(*request.Temperature)
	}
	return params, prefill, nil
}

// systemPrompt appends the output schema instructions to the request's
// system prompt.
func systemPrompt(request *llm.Request) (string, error) {
	format := request.ResponseFormat
	if format == nil || format.Type == llm.ResponseFormatTypeText {
		return request.SystemPrompt, nil
	}
	var b strings.Builder
	if request.SystemPrompt != "" {
		b.WriteString(request.SystemPrompt)
		b.WriteString("\n\n")
	}
	b.WriteString("Respond with a single JSON object and nothing else.")
	schemaJSON, err := format.SchemaJSON()
	if err != nil {
		return "", err
	}
	if schemaJSON != "" {
		b.WriteString(" The object must conform to this JSON Schema")
		if format.Name != "" {
			fmt.Fprintf(&b, " (%s)", format.Name)
		}
		b.WriteString(":\n<schema>\n")
		b.WriteString(schemaJSON)
		b.WriteString("\n</schema>")
	}
	return b.String(), nil
}
