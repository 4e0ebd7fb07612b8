package intent

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"jobmatch-assistant/internal/domain"
	"jobmatch-assistant/internal/ports/output"

	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
)

//go:embed prompts/parse_intent.md
var parseIntentTemplate string

const utterancePlaceholder = "{USER_UTTERANCE}"

var jsonBlockPattern = regexp.MustCompile(`(?s)\{.*\}`)

// ErrNoJSONObject is returned when the model output contains no JSON object
var ErrNoJSONObject = errors.New("no JSON object in model output")

// llmIntent is the loose shape the model is asked to produce
type llmIntent struct {
	Role           *string  `mapstructure:"role"`
	Location       *string  `mapstructure:"location"`
	SalaryMin      *int     `mapstructure:"salary_min"`
	SalaryMax      *int     `mapstructure:"salary_max"`
	SalaryUnit     *string  `mapstructure:"salary_unit"`
	EmploymentType *string  `mapstructure:"employment_type"`
	Domain         *string  `mapstructure:"domain"`
	Seniority      *string  `mapstructure:"seniority"`
	Remote         *bool    `mapstructure:"remote"`
	Skills         []string `mapstructure:"skills"`
	Notes          *string  `mapstructure:"notes"`
}

// LLMParser parses intent by prompting a text generator for JSON
type LLMParser struct {
	name      string
	generator output.TextGenerator
}

// NewLLMParser creates an LLM-backed parser. name labels logs and metrics.
func NewLLMParser(name string, generator output.TextGenerator) *LLMParser {
	return &LLMParser{name: name, generator: generator}
}

// Name returns the parser label
func (p *LLMParser) Name() string {
	return p.name
}

// BuildPrompt fills the prompt template with the utterance
func BuildPrompt(utterance string) string {
	return strings.ReplaceAll(parseIntentTemplate, utterancePlaceholder, utterance)
}

// Parse asks the model for a JSON preference and coerces it
func (p *LLMParser) Parse(ctx context.Context, utterance string) (domain.Preference, error) {
	if strings.TrimSpace(utterance) == "" {
		return domain.NewPreference(), nil
	}
	if p.generator == nil {
		return domain.Preference{}, domain.ErrGeneratorNotConfigured
	}

	text, err := p.generator.Generate(ctx, BuildPrompt(utterance))
	if err != nil {
		return domain.Preference{}, fmt.Errorf("%s generate: %w", p.name, err)
	}

	pref, err := DecodePreference(text)
	if err != nil {
		return domain.Preference{}, fmt.Errorf("%s decode: %w", p.name, err)
	}

	if pref.SalaryUnit == domain.SalaryUnitNone && (pref.HasSalaryMin() || pref.HasSalaryMax()) {
		pref.SalaryUnit = domain.ParseSalarySpan(utterance).Unit
	}

	logrus.WithFields(logrus.Fields{
		"parser": p.name,
		"empty":  pref.IsEmpty(),
	}).Debug("Parsed intent")

	return pref, nil
}

// ParseIntent implements output.IntentParser. Failures yield an all-unset preference.
func (p *LLMParser) ParseIntent(ctx context.Context, utterance string) domain.Preference {
	pref, err := p.Parse(ctx, utterance)
	if err != nil {
		logrus.Warnf("Intent parser %s failed: %v", p.name, err)
		return domain.NewPreference()
	}
	return pref
}

// DecodePreference extracts the first {...} block of text and weak-decodes it into a
// sanitized preference. Numeric strings are accepted for integers and "true"/"false" for remote.
func DecodePreference(text string) (domain.Preference, error) {
	block := jsonBlockPattern.FindString(text)
	if block == "" {
		return domain.Preference{}, ErrNoJSONObject
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(block), &raw); err != nil {
		return domain.Preference{}, fmt.Errorf("unmarshal model JSON: %w", err)
	}

	var out llmIntent
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &out,
		TagName:          "mapstructure",
	})
	if err != nil {
		return domain.Preference{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return domain.Preference{}, fmt.Errorf("decode model JSON: %w", err)
	}

	pref := domain.Preference{
		Role:      trimmed(out.Role),
		Location:  trimmed(out.Location),
		SalaryMin: out.SalaryMin,
		SalaryMax: out.SalaryMax,
		Domain:    trimmed(out.Domain),
		Seniority: trimmed(out.Seniority),
		Remote:    out.Remote,
		Skills:    out.Skills,
		Notes:     trimmed(out.Notes),
	}
	if out.SalaryUnit != nil {
		pref.SalaryUnit = domain.ParseSalaryUnit(*out.SalaryUnit)
	}
	if out.EmploymentType != nil {
		pref.EmploymentType = domain.EmploymentType(domain.NormalizeEmploymentType(*out.EmploymentType))
	}
	if pref.Skills == nil {
		pref.Skills = []string{}
	}

	return pref.Sanitize(), nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
