package output

import (
	"context"

	"jobmatch-assistant/internal/domain"
)

// LMStudioClient interface - Output port
// Defines what the application needs from LM Studio's OpenAI-compatible API.
type LMStudioClient interface {
	TextGenerator

	// ChatCompletion sends a non-streaming chat completion request and returns
	// the generated content with usage statistics.
	ChatCompletion(ctx context.Context, request domain.ChatCompletionRequest) (*domain.ChatCompletionResponse, error)

	// ListModels queries /v1/models. Used to pick a model when none is configured.
	ListModels(ctx context.Context) ([]domain.ModelInfo, error)
}
