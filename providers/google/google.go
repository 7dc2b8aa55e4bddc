package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/deepnoodle-ai/semgen/internal/jsonutil"
	"github.com/deepnoodle-ai/semgen/llm"
	"github.com/deepnoodle-ai/semgen/providers"
	"github.com/deepnoodle-ai/semgen/retry"
	"google.golang.org/genai"
)

const ProviderName = "google"

var (
	DefaultModel     = ModelGemini25Flash
	DefaultMaxTokens = 8192
	DefaultBaseWait  = time.Second
)

var _ llm.LLM = &Provider{}

// Provider requests structured output from Gemini via the genai SDK.
type Provider struct {
	client    *genai.Client
	apiKey    string
	projectID string
	location  string
	endpoint  string
	model     string
	maxTokens int
	timeout   time.Duration
	mutex     sync.Mutex

	// genai exposes no retry count, so retries happen around each call
	maxRetries int
	baseWait   time.Duration
}

func New(opts ...Option) *Provider {
	var apiKey string
	if value := os.Getenv("GEMINI_API_KEY"); value != "" {
		apiKey = value
	} else if value := os.Getenv("GOOGLE_API_KEY"); value != "" {
		apiKey = value
	}
	p := &Provider{
		apiKey:    apiKey,
		model:     DefaultModel,
		maxTokens: DefaultMaxTokens,
		baseWait:  DefaultBaseWait,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) initClient(ctx context.Context) (*genai.Client, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.client != nil {
		return p.client, nil
	}
	config := &genai.ClientConfig{
		APIKey:   p.apiKey,
		Project:  p.projectID,
		Location: p.location,
		Backend:  genai.BackendGeminiAPI,
	}
	if p.projectID != "" {
		config.Backend = genai.BackendVertexAI
	}
	if p.endpoint != "" {
		config.HTTPOptions = genai.HTTPOptions{BaseURL: p.endpoint}
	}
	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create google genai client: %w", err)
	}
	p.client = client
	return p.client, nil
}

func (p *Provider) Name() string {
	return ProviderName
}

// ModelName returns the default model of the provider.
func (p *Provider) ModelName() string {
	return p.model
}

func (p *Provider) Generate(ctx context.Context, request *llm.Request) (*llm.Response, error) {
	client, err := p.initClient(ctx)
	if err != nil {
		return nil, err
	}
	model, contents, config, err := p.buildRequest(request)
	if err != nil {
		return nil, err
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	var resp *genai.GenerateContentResponse
	err = retry.Do(ctx, func() error {
		var genErr error
		resp, genErr = client.Models.GenerateContent(ctx, model, contents, config)
		if genErr != nil {
			return convertError(genErr)
		}
		return nil
	}, retry.WithMaxRetries(p.maxRetries), retry.WithBaseWait(p.baseWait))
	if err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from google api")
	}

	text := resp.Text()
	if request.ResponseFormat != nil {
		text = jsonutil.ExtractObject(text)
	}
	response := &llm.Response{
		ID:         resp.ResponseID,
		Model:      model,
		Role:       llm.Assistant,
		StopReason: string(resp.Candidates[0].FinishReason),
		Text:       text,
	}
	if usage := resp.UsageMetadata; usage != nil {
		response.Usage = llm.Usage{
			InputTokens:  int(usage.PromptTokenCount),
			OutputTokens: int(usage.CandidatesTokenCount),
		}
	}
	return response, nil
}

func convertError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return providers.NewError(ProviderName, apiErr.Code, apiErr.Message)
	}
	return fmt.Errorf("error generating content: %w", err)
}

// buildRequest converts an llm.Request into genai arguments.
func (p *Provider) buildRequest(request *llm.Request) (string, []*genai.Content, *genai.GenerateContentConfig, error) {
	if err := request.Validate(); err != nil {
		return "", nil, nil, err
	}
	model := request.Model
	if model == "" {
		model = p.model
	}

	contents := make([]*genai.Content, 0, len(request.Messages))
	for _, msg := range request.Messages {
		switch msg.Role {
		case llm.User:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		case llm.Assistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			return "", nil, nil, fmt.Errorf("unsupported message role: %q", msg.Role)
		}
	}

	config := &genai.GenerateContentConfig{}
	maxTokens := p.maxTokens
	if request.MaxTokens != nil {
		maxTokens = *request.MaxTokens
	}
	if maxTokens > 0 {
		config.MaxOutputTokens = int32(maxTokens)
	}
	if request.Temperature != nil {
		temp := float32(*request.Temperature)
		config.Temperature = &temp
	}
	if request.SystemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(request.SystemPrompt)},
		}
	}
	if format := request.ResponseFormat; format != nil && format.Type != llm.ResponseFormatTypeText {
		config.ResponseMIMEType = "application/json"
		if format.Type == llm.ResponseFormatTypeJSONSchema {
			schemaMap, err := format.SchemaMap()
			if err != nil {
				return "", nil, nil, err
			}
			config.ResponseJsonSchema = schemaMap
		}
	}
	return model, contents, config, nil
}
