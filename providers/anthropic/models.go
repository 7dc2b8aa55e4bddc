package anthropic

const (
	ModelClaudeSonnet420250514 = "claude-sonnet-4-20250514"
	ModelClaudeOpus4120250805  = "claude-opus-4-1-20250805"

	ModelClaudeHaiku45  = "claude-haiku-4-5"
	ModelClaudeSonnet45 = "claude-sonnet-4-5"
	ModelClaudeOpus45   = "claude-opus-4-5"
)
