package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jobmatch-assistant/configs"
	"jobmatch-assistant/internal/domain"

	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

// contentModels is the part of genai.Models the generator uses
type contentModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator implements output.TextGenerator on the Gemini API
type Generator struct {
	models    contentModels
	modelName string
}

// NewGenerator creates a Generator configured for the Gemini API backend
func NewGenerator(ctx context.Context, config configs.Gemini) (*Generator, error) {
	apiKey := strings.TrimSpace(config.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini api key is required", domain.ErrGeneratorNotConfigured)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	g := newGenerator(client.Models, config.Model)
	logrus.Infof("Gemini generator initialized with model: %s", g.modelName)
	return g, nil
}

func newGenerator(models contentModels, model string) *Generator {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	return &Generator{models: models, modelName: model}
}

// Generate sends the prompt with temperature 0 and returns the joined text parts
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.models == nil {
		return "", domain.ErrGeneratorNotConfigured
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0),
		ResponseMIMEType: "application/json",
	}

	resp, err := g.models.GenerateContent(ctx, g.modelName, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := builder.String()
	if output == "" {
		return "", domain.ErrEmptyCompletion
	}
	return output, nil
}

// Model returns the model name in use
func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}
