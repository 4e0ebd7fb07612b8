package application

import "jobmatch-assistant/internal/domain"

// Critical preference fields, in the order they are asked about
const (
	FieldRole           = "role"
	FieldLocation       = "location"
	FieldSalaryMin      = "salary_min"
	FieldEmploymentType = "employment_type"
	FieldDomain         = "domain"
)

// criticalField binds a preference field to its unset predicate
type criticalField struct {
	name    string
	isUnset func(domain.Preference) bool
}

var criticalFields = []criticalField{
	{name: FieldRole, isUnset: func(p domain.Preference) bool { return !p.HasRole() }},
	{name: FieldLocation, isUnset: func(p domain.Preference) bool { return !p.HasLocation() }},
	{name: FieldSalaryMin, isUnset: func(p domain.Preference) bool { return !p.HasSalaryMin() }},
	{name: FieldEmploymentType, isUnset: func(p domain.Preference) bool { return !p.HasEmploymentType() }},
	{name: FieldDomain, isUnset: func(p domain.Preference) bool { return !p.HasDomain() }},
}

// DefaultClarifyQuestions is the default wording per critical field
var DefaultClarifyQuestions = map[string]string{
	FieldRole:           "What role are you targeting? (e.g., Data Analyst, AI Engineer)",
	FieldLocation:       "Which location or time zone do you prefer? Is remote acceptable?",
	FieldSalaryMin:      "What is your minimum acceptable compensation? (please specify yearly/hourly)",
	FieldEmploymentType: "Do you prefer full-time, part-time, intern, contract, or temporary?",
	FieldDomain:         "Any industry preference? (e.g., startup, fintech, healthcare)",
}

// ClarificationEngine decides which critical fields still need a question.
//
// Only role, location and domain are critical; salary, seniority, skills and
// notes never block matching. Questions come out in that fixed field order so
// a session with the same gaps is always asked the same thing first. Wording
// defaults to DefaultClarifyQuestions and can be overridden per field from config.
type ClarificationEngine struct {
	questions map[string]string
}

// NewClarificationEngine creates an engine. overrides replaces the wording of known
// fields; unknown keys and blank texts are ignored.
func NewClarificationEngine(overrides map[string]string) *ClarificationEngine {
	questions := make(map[string]string, len(DefaultClarifyQuestions))
	for field, q := range DefaultClarifyQuestions {
		questions[field] = q
	}
	for field, q := range overrides {
		if _, known := questions[field]; known && q != "" {
			questions[field] = q
		}
	}
	return &ClarificationEngine{questions: questions}
}

// GenerateClarifications returns one question per unset critical field, in fixed order
func (e *ClarificationEngine) GenerateClarifications(p domain.Preference) []domain.ClarifyQuestion {
	out := make([]domain.ClarifyQuestion, 0, len(criticalFields))
	for _, f := range criticalFields {
		if f.isUnset(p) {
			out = append(out, domain.ClarifyQuestion{Field: f.name, Question: e.questions[f.name]})
		}
	}
	return out
}
