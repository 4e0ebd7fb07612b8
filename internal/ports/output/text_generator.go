package output

import "context"

// TextGenerator interface - Output port
// Single-prompt text generation backed by an LLM.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
