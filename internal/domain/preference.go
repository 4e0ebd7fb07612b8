package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// SalaryUnit is the period a salary figure refers to
type SalaryUnit string

const (
	// SalaryUnitNone - no unit known
	SalaryUnitNone SalaryUnit = ""
	// SalaryUnitYear - yearly compensation
	SalaryUnitYear SalaryUnit = "year"
	// SalaryUnitHour - hourly compensation
	SalaryUnitHour SalaryUnit = "hour"
)

// MarshalJSON encodes SalaryUnitNone as null
func (u SalaryUnit) MarshalJSON() ([]byte, error) {
	if u == SalaryUnitNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(u))
}

// UnmarshalJSON accepts null, "" and any unit string
func (u *SalaryUnit) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*u = SalaryUnitNone
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*u = ParseSalaryUnit(s)
	return nil
}

// ParseSalaryUnit maps free text ("yearly", "hr", ...) to a SalaryUnit
func ParseSalaryUnit(s string) SalaryUnit {
	switch NormalizeText(s) {
	case "year", "yearly", "yr", "annual", "annually", "annum", "per year":
		return SalaryUnitYear
	case "hour", "hourly", "hr", "per hour":
		return SalaryUnitHour
	default:
		return SalaryUnitNone
	}
}

// EmploymentType is a canonical employment-type token. Unknown values are kept as-is.
type EmploymentType string

const (
	// EmploymentTypeNone - not specified
	EmploymentTypeNone EmploymentType = ""
	// EmploymentTypeFullTime - full-time
	EmploymentTypeFullTime EmploymentType = "full-time"
	// EmploymentTypePartTime - part-time
	EmploymentTypePartTime EmploymentType = "part-time"
	// EmploymentTypeIntern - internship
	EmploymentTypeIntern EmploymentType = "intern"
	// EmploymentTypeContract - contract
	EmploymentTypeContract EmploymentType = "contract"
	// EmploymentTypeTemporary - temporary
	EmploymentTypeTemporary EmploymentType = "temporary"
)

// MarshalJSON encodes EmploymentTypeNone as null
func (e EmploymentType) MarshalJSON() ([]byte, error) {
	if e == EmploymentTypeNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(e))
}

// UnmarshalJSON normalizes the incoming value
func (e *EmploymentType) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*e = EmploymentTypeNone
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*e = EmploymentType(NormalizeEmploymentType(s))
	return nil
}

// Preference is the accumulated job-search intent of a session.
// A nil pointer, an empty enum value and an empty Skills slice all mean "unset".
type Preference struct {
	Role           *string        `json:"role"`
	Location       *string        `json:"location"`
	SalaryMin      *int           `json:"salary_min"`
	SalaryMax      *int           `json:"salary_max"`
	SalaryUnit     SalaryUnit     `json:"salary_unit"`
	EmploymentType EmploymentType `json:"employment_type"`
	Domain         *string        `json:"domain"`
	Seniority      *string        `json:"seniority"`
	Remote         *bool          `json:"remote"`
	Skills         []string       `json:"skills"`
	Notes          *string        `json:"notes"`
}

// NewPreference returns an all-unset preference
func NewPreference() Preference {
	return Preference{Skills: []string{}}
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string { return &s }

// IntPtr returns a pointer to v
func IntPtr(v int) *int { return &v }

// BoolPtr returns a pointer to v
func BoolPtr(v bool) *bool { return &v }

func isUnsetString(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// HasRole reports whether role is set
func (p Preference) HasRole() bool { return !isUnsetString(p.Role) }

// HasLocation reports whether location is set
func (p Preference) HasLocation() bool { return !isUnsetString(p.Location) }

// HasDomain reports whether domain is set
func (p Preference) HasDomain() bool { return !isUnsetString(p.Domain) }

// HasSeniority reports whether seniority is set
func (p Preference) HasSeniority() bool { return !isUnsetString(p.Seniority) }

// HasNotes reports whether notes are set
func (p Preference) HasNotes() bool { return !isUnsetString(p.Notes) }

// HasSalaryMin reports whether salary_min is set
func (p Preference) HasSalaryMin() bool { return p.SalaryMin != nil }

// HasSalaryMax reports whether salary_max is set
func (p Preference) HasSalaryMax() bool { return p.SalaryMax != nil }

// HasEmploymentType reports whether employment_type is set
func (p Preference) HasEmploymentType() bool { return p.EmploymentType != EmploymentTypeNone }

// HasRemote reports whether the remote preference is known
func (p Preference) HasRemote() bool { return p.Remote != nil }

// HasSkills reports whether any skill is set
func (p Preference) HasSkills() bool { return len(p.Skills) > 0 }

// IsEmpty reports whether every field is unset
func (p Preference) IsEmpty() bool {
	return !p.HasRole() && !p.HasLocation() && !p.HasSalaryMin() && !p.HasSalaryMax() &&
		p.SalaryUnit == SalaryUnitNone && !p.HasEmploymentType() && !p.HasDomain() &&
		!p.HasSeniority() && !p.HasRemote() && !p.HasSkills() && !p.HasNotes()
}

// Clone returns a deep copy so callers never share pointers with stored state
func (p Preference) Clone() Preference {
	out := Preference{
		SalaryUnit:     p.SalaryUnit,
		EmploymentType: p.EmploymentType,
		Skills:         make([]string, len(p.Skills)),
	}
	copy(out.Skills, p.Skills)
	out.Role = cloneString(p.Role)
	out.Location = cloneString(p.Location)
	out.Domain = cloneString(p.Domain)
	out.Seniority = cloneString(p.Seniority)
	out.Notes = cloneString(p.Notes)
	if p.SalaryMin != nil {
		out.SalaryMin = IntPtr(*p.SalaryMin)
	}
	if p.SalaryMax != nil {
		out.SalaryMax = IntPtr(*p.SalaryMax)
	}
	if p.Remote != nil {
		out.Remote = BoolPtr(*p.Remote)
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	return StringPtr(*s)
}

// Merge applies updates on top of p. A field of updates replaces the stored value only
// when it is set; unset fields never erase known values.
func (p Preference) Merge(updates Preference) Preference {
	merged := p.Clone()
	u := updates.Clone()

	if u.HasRole() {
		merged.Role = u.Role
	}
	if u.HasLocation() {
		merged.Location = u.Location
	}
	if u.HasSalaryMin() {
		merged.SalaryMin = u.SalaryMin
	}
	if u.HasSalaryMax() {
		merged.SalaryMax = u.SalaryMax
	}
	if u.SalaryUnit != SalaryUnitNone {
		merged.SalaryUnit = u.SalaryUnit
	}
	if u.HasEmploymentType() {
		merged.EmploymentType = u.EmploymentType
	}
	if u.HasDomain() {
		merged.Domain = u.Domain
	}
	if u.HasSeniority() {
		merged.Seniority = u.Seniority
	}
	if u.HasRemote() {
		merged.Remote = u.Remote
	}
	if u.HasSkills() {
		merged.Skills = u.Skills
	}
	if u.HasNotes() {
		merged.Notes = u.Notes
	}
	if merged.Skills == nil {
		merged.Skills = []string{}
	}
	return merged
}

// Sanitize canonicalizes a parsed preference: normalized location, employment type and
// skills, negative salaries dropped, min/max ordered ascending.
func (p Preference) Sanitize() Preference {
	out := p.Clone()
	if out.Location != nil {
		out.Location = StringPtr(NormalizeLocation(*out.Location))
	}
	if out.EmploymentType != EmploymentTypeNone {
		out.EmploymentType = EmploymentType(NormalizeEmploymentType(string(out.EmploymentType)))
	}
	if out.SalaryMin != nil && *out.SalaryMin < 0 {
		out.SalaryMin = nil
	}
	if out.SalaryMax != nil && *out.SalaryMax < 0 {
		out.SalaryMax = nil
	}
	if out.SalaryMin != nil && out.SalaryMax != nil && *out.SalaryMin > *out.SalaryMax {
		out.SalaryMin, out.SalaryMax = out.SalaryMax, out.SalaryMin
	}
	out.Skills = NormalizeSkills(out.Skills)
	return out
}
