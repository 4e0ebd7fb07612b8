package gemini

import (
	"context"
	"errors"
	"testing"

	"jobmatch-assistant/configs"
	"jobmatch-assistant/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeModels struct {
	resp *genai.GenerateContentResponse
	err  error

	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.contents = contents
	f.config = config
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: genai.RoleModel}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func TestNewGeneratorRequiresAPIKey(t *testing.T) {
	_, err := NewGenerator(context.Background(), configs.Gemini{APIKey: "  "})
	assert.ErrorIs(t, err, domain.ErrGeneratorNotConfigured)
}

func TestGenerateJoinsTextParts(t *testing.T) {
	models := &fakeModels{resp: textResponse(` {"role": `, "", `"analyst"} `)}
	g := newGenerator(models, "")

	out, err := g.Generate(context.Background(), "  parse this  ")
	require.NoError(t, err)

	assert.Equal(t, "{\"role\":\n\"analyst\"}", out)
	assert.Equal(t, defaultModel, models.model)
	require.Len(t, models.contents, 1)
	assert.Equal(t, "parse this", models.contents[0].Parts[0].Text)
	require.NotNil(t, models.config.Temperature)
	assert.Equal(t, float32(0), *models.config.Temperature)
	assert.Equal(t, "application/json", models.config.ResponseMIMEType)
}

func TestGenerateErrors(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		g := newGenerator(&fakeModels{err: errors.New("quota exceeded")}, "gemini-2.5-pro")
		_, err := g.Generate(context.Background(), "x")
		assert.ErrorContains(t, err, "quota exceeded")
	})

	t.Run("empty response", func(t *testing.T) {
		g := newGenerator(&fakeModels{resp: &genai.GenerateContentResponse{}}, "")
		_, err := g.Generate(context.Background(), "x")
		assert.ErrorIs(t, err, domain.ErrEmptyCompletion)
	})

	t.Run("empty prompt", func(t *testing.T) {
		models := &fakeModels{resp: textResponse("ignored")}
		_, err := newGenerator(models, "").Generate(context.Background(), "   ")
		assert.Error(t, err)
		assert.Empty(t, models.model, "model must not be called")
	})

	t.Run("nil generator", func(t *testing.T) {
		var g *Generator
		_, err := g.Generate(context.Background(), "x")
		assert.ErrorIs(t, err, domain.ErrGeneratorNotConfigured)
		assert.Equal(t, "", g.Model())
	})
}
