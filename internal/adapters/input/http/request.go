package http

import "jobmatch-assistant/internal/domain"

type (
	// ChatRequest struct - HTTP request DTO for one conversational turn
	ChatRequest struct {
		SessionID     *string `json:"session_id" validate:"omitempty,max=128" form:"session_id"`
		UserUtterance string  `json:"user_utterance" validate:"max=2000" form:"user_utterance"`
	}

	// PreferenceRequest struct - HTTP request DTO for an explicit preference
	PreferenceRequest struct {
		Role           *string  `json:"role" validate:"omitempty,max=200"`
		Location       *string  `json:"location" validate:"omitempty,max=200"`
		SalaryMin      *int     `json:"salary_min" validate:"omitempty,gte=0"`
		SalaryMax      *int     `json:"salary_max" validate:"omitempty,gte=0"`
		SalaryUnit     *string  `json:"salary_unit" validate:"omitempty,max=20"`
		EmploymentType *string  `json:"employment_type" validate:"omitempty,max=50"`
		Domain         *string  `json:"domain" validate:"omitempty,max=200"`
		Seniority      *string  `json:"seniority" validate:"omitempty,max=50"`
		Remote         *bool    `json:"remote"`
		Skills         []string `json:"skills" validate:"omitempty,max=50,dive,max=100"`
		Notes          *string  `json:"notes" validate:"omitempty,max=2000"`
	}

	// MatchQuery struct - HTTP query DTO for the match endpoint
	MatchQuery struct {
		Limit *int `json:"limit,omitempty" query:"limit" validate:"omitempty,gte=1,lte=100"`
	}
)

// ToDomain converts the request into a domain preference
func (r PreferenceRequest) ToDomain() domain.Preference {
	pref := domain.Preference{
		Role:      r.Role,
		Location:  r.Location,
		SalaryMin: r.SalaryMin,
		SalaryMax: r.SalaryMax,
		Domain:    r.Domain,
		Seniority: r.Seniority,
		Remote:    r.Remote,
		Skills:    r.Skills,
		Notes:     r.Notes,
	}
	if r.SalaryUnit != nil {
		pref.SalaryUnit = domain.ParseSalaryUnit(*r.SalaryUnit)
	}
	if r.EmploymentType != nil {
		pref.EmploymentType = domain.EmploymentType(domain.NormalizeEmploymentType(*r.EmploymentType))
	}
	return pref.Sanitize()
}
