package llm

// Usage contains token usage information for an LLM response.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Response is the provider's answer to one Request.
type Response struct {
	ID         string `json:"id"`
	Model      string `json:"model"`
	Role       Role   `json:"role"`
	StopReason string `json:"stop_reason,omitempty"`

	// Text is the generated content. For structured requests it holds the
	// JSON document produced by the model.
	Text string `json:"text"`

	// Refusal is set when the provider reports that the model declined to
	// answer.
	Refusal string `json:"refusal,omitempty"`

	Usage Usage `json:"usage"`
}
