package domain

// ChatMessageRole is the author of a chat message sent to an LLM
type ChatMessageRole string

const (
	// ChatMessageRoleSystem - system instructions
	ChatMessageRoleSystem ChatMessageRole = "system"
	// ChatMessageRoleUser - user content
	ChatMessageRoleUser ChatMessageRole = "user"
	// ChatMessageRoleAssistant - model output
	ChatMessageRoleAssistant ChatMessageRole = "assistant"
)

// ChatMessage is one message of a chat completion request
type ChatMessage struct {
	Role    ChatMessageRole
	Content string
}

// ChatCompletionRequest is a non-streaming chat completion request
type ChatCompletionRequest struct {
	Messages    []ChatMessage
	Model       *string
	Temperature *float64
}

// ChatCompletionResponse holds the generated content and token usage
type ChatCompletionResponse struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// ModelInfo describes a model served by an OpenAI-compatible server
type ModelInfo struct {
	ID      string
	Object  string
	OwnedBy string
}
