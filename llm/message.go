package llm

// Role indicates the role of a message in a conversation.
type Role string

const (
	User      Role = "user"
	Assistant Role = "assistant"
	System    Role = "system"
)

func (r Role) String() string {
	return string(r)
}

// Message is one text turn of a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewUserTextMessage creates a user message with the given text.
func NewUserTextMessage(text string) *Message {
	return &Message{Role: User, Content: text}
}

// NewAssistantTextMessage creates an assistant message with the given text.
func NewAssistantTextMessage(text string) *Message {
	return &Message{Role: Assistant, Content: text}
}
