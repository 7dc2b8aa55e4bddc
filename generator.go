package semgen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/deepnoodle-ai/semgen/llm"
	"github.com/deepnoodle-ai/semgen/log"
	"github.com/deepnoodle-ai/semgen/schema"
)

// ResponseFormatName names the structured output in provider requests.
const ResponseFormatName = "semantic_table"

var (
	tableSchemaOnce sync.Once
	tableSchema     *schema.Schema
	tableSchemaErr  error
)

// TableSchema returns the JSON Schema describing a Table.
func TableSchema() (*schema.Schema, error) {
	tableSchemaOnce.Do(func() {
		tableSchema, tableSchemaErr = schema.For[Table]()
	})
	return tableSchema, tableSchemaErr
}

// GeneratorOptions configures a Generator.
type GeneratorOptions struct {
	// Model is the provider that serves the completion request. Required.
	Model llm.LLM

	// ModelName overrides the provider's default model.
	ModelName string

	// SystemPrompt replaces DefaultSystemPrompt.
	SystemPrompt string

	MaxTokens   *int
	Temperature *float64

	Hooks  Hooks
	Logger log.Logger
}

// Generator asks an LLM to populate a Table from a free-text instruction.
// Each call to Generate is a single fail-fast round trip.
type Generator struct {
	model        llm.LLM
	modelName    string
	systemPrompt string
	maxTokens    *int
	temperature  *float64
	hooks        Hooks
	logger       log.Logger
}

// NewGenerator returns a new Generator.
func NewGenerator(opts GeneratorOptions) (*Generator, error) {
	if opts.Model == nil {
		return nil, errors.New("model is required")
	}
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = DefaultSystemPrompt
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNullLogger()
	}
	return &Generator{
		model:        opts.Model,
		modelName:    opts.ModelName,
		systemPrompt: opts.SystemPrompt,
		maxTokens:    opts.MaxTokens,
		temperature:  opts.Temperature,
		hooks:        opts.Hooks,
		logger:       opts.Logger,
	}, nil
}

// BuildRequest returns the request Generate would send for instruction.
func (g *Generator) BuildRequest(instruction string) (*llm.Request, error) {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return nil, ErrEmptyInstruction
	}
	s, err := TableSchema()
	if err != nil {
		return nil, err
	}
	return &llm.Request{
		Model:        g.modelName,
		SystemPrompt: g.systemPrompt,
		Messages:     []*llm.Message{llm.NewUserTextMessage(instruction)},
		ResponseFormat: &llm.ResponseFormat{
			Type:        llm.ResponseFormatTypeJSONSchema,
			Name:        ResponseFormatName,
			Description: "A business-intelligence semantic model table",
			Schema:      s,
			Strict:      true,
		},
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	}, nil
}

// Generate sends one structured completion request and returns the
// validated Table. Transport and validation failures are passed to the
// error hooks and then returned unchanged.
func (g *Generator) Generate(ctx context.Context, instruction string) (*Table, error) {
	request, err := g.BuildRequest(instruction)
	if err != nil {
		return nil, err
	}

	g.hooks.fireRequest(ctx, request)

	response, err := g.model.Generate(ctx, request)
	if err == nil && response == nil {
		err = errors.New("empty response")
	}
	if err != nil {
		err = &TransportError{Provider: g.model.Name(), Err: err}
		g.hooks.fireError(ctx, err)
		return nil, err
	}
	g.logger.Debug("completion received",
		"provider", g.model.Name(),
		"model", response.Model,
		"input_tokens", response.Usage.InputTokens,
		"output_tokens", response.Usage.OutputTokens)

	if response.Refusal != "" {
		err = &ValidationError{Message: fmt.Sprintf("model refused to answer: %s", response.Refusal)}
		g.hooks.fireError(ctx, err)
		return nil, err
	}

	table, err := DecodeTable([]byte(response.Text))
	if err != nil {
		g.hooks.fireError(ctx, err)
		return nil, err
	}
	return table, nil
}
