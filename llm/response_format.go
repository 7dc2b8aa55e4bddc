package llm

import (
	"encoding/json"
	"fmt"

	"github.com/deepnoodle-ai/semgen/schema"
)

// ResponseFormatType specifies the expected format of the LLM's response.
type ResponseFormatType string

const (
	ResponseFormatTypeText       ResponseFormatType = "text"
	ResponseFormatTypeJSON       ResponseFormatType = "json_object"
	ResponseFormatTypeJSONSchema ResponseFormatType = "json_schema"
)

// ResponseFormat guides an LLM's response format.
type ResponseFormat struct {
	// Type indicates the format type ("text", "json_object", or "json_schema")
	Type ResponseFormatType `json:"type"`

	// Schema provides a JSON schema to guide the model's output
	Schema *schema.Schema `json:"schema,omitempty"`

	// Name provides a name for the output to guide the model
	Name string `json:"name,omitempty"`

	// Description provides additional context to guide the model
	Description string `json:"description,omitempty"`

	// Strict asks providers that support it to enforce the schema exactly
	Strict bool `json:"strict,omitempty"`
}

// SchemaMap returns the schema as a generic JSON object, normalized for
// strict mode when Strict is set.
func (f *ResponseFormat) SchemaMap() (map[string]any, error) {
	if f == nil || f.Schema == nil {
		return nil, nil
	}
	m, err := schema.ToMap(f.Schema)
	if err != nil {
		return nil, err
	}
	if f.Strict {
		schema.Strict(m)
	}
	return m, nil
}

// SchemaJSON returns the indented JSON text of the schema.
func (f *ResponseFormat) SchemaJSON() (string, error) {
	m, err := f.SchemaMap()
	if err != nil {
		return "", err
	}
	if m == nil {
		return "", nil
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error marshaling schema: %w", err)
	}
	return string(data), nil
}
