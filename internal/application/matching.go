package application

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"jobmatch-assistant/internal/domain"
	"jobmatch-assistant/internal/ports/output"
)

// Signal weights
const (
	WeightRole           = 2.0
	WeightLocation       = 1.4
	WeightDomain         = 1.1
	WeightEmploymentType = 0.9
	WeightRemote         = 0.8
	WeightSeniority      = 0.6
	WeightSkill          = 0.55
	MaxCountedSkills     = 6
	SalaryBonus          = 0.7
	SalaryPenalty        = -0.5
)

// DefaultTopN is the number of matches returned by a turn
const DefaultTopN = 10

// signalOutcome is the evaluation of one signal for a (preference, job) pair
type signalOutcome struct {
	contribution float64
	reason       string
}

// signal is one independent scoring criterion. evaluate returns ok=false when it does not apply.
type signal struct {
	name     string
	evaluate func(p domain.Preference, job domain.Job) (signalOutcome, bool)
}

// signals in reason order
var signals = []signal{
	{name: "role", evaluate: roleSignal},
	{name: "location", evaluate: locationSignal},
	{name: "domain", evaluate: domainSignal},
	{name: "employment_type", evaluate: employmentTypeSignal},
	{name: "remote", evaluate: remoteSignal},
	{name: "seniority", evaluate: senioritySignal},
	{name: "skills", evaluate: skillsSignal},
	{name: "salary", evaluate: salarySignal},
}

func roleSignal(p domain.Preference, job domain.Job) (signalOutcome, bool) {
	if !p.HasRole() || !containsFold(job.Title, *p.Role) {
		return signalOutcome{}, false
	}
	return signalOutcome{contribution: WeightRole, reason: "Title matches desired role"}, true
}

func locationSignal(p domain.Preference, job domain.Job) (signalOutcome, bool) {
	if !p.HasLocation() || !containsFold(job.Location, *p.Location) {
		return signalOutcome{}, false
	}
	return signalOutcome{contribution: WeightLocation, reason: "Preferred location matched"}, true
}

func domainSignal(p domain.Preference, job domain.Job) (signalOutcome, bool) {
	if !p.HasDomain() || job.Domain == nil || !strings.EqualFold(*job.Domain, *p.Domain) {
		return signalOutcome{}, false
	}
	return signalOutcome{contribution: WeightDomain, reason: "Domain aligned"}, true
}

func employmentTypeSignal(p domain.Preference, job domain.Job) (signalOutcome, bool) {
	if !p.HasEmploymentType() || string(p.EmploymentType) != job.EmploymentType {
		return signalOutcome{}, false
	}
	return signalOutcome{contribution: WeightEmploymentType, reason: "Employment type aligned"}, true
}

func remoteSignal(p domain.Preference, job domain.Job) (signalOutcome, bool) {
	if !p.HasRemote() || job.Remote == nil || *p.Remote != *job.Remote {
		return signalOutcome{}, false
	}
	return signalOutcome{contribution: WeightRemote, reason: "Remote preference matched"}, true
}

func senioritySignal(p domain.Preference, job domain.Job) (signalOutcome, bool) {
	if !p.HasSeniority() || job.Seniority == nil || *p.Seniority != *job.Seniority {
		return signalOutcome{}, false
	}
	return signalOutcome{contribution: WeightSeniority, reason: "Seniority level matched"}, true
}

func skillsSignal(p domain.Preference, job domain.Job) (signalOutcome, bool) {
	if !p.HasSkills() {
		return signalOutcome{}, false
	}
	overlap := skillOverlap(p.Skills, job.Skills)
	if len(overlap) == 0 {
		return signalOutcome{}, false
	}
	counted := len(overlap)
	if counted > MaxCountedSkills {
		counted = MaxCountedSkills
	}
	return signalOutcome{
		contribution: WeightSkill * float64(counted),
		reason:       "Skill overlap: " + strings.Join(overlap, ", "),
	}, true
}

// salarySignal is a gate: bonus when the job's floor meets the preference, penalty otherwise.
// The penalty carries no reason.
func salarySignal(p domain.Preference, job domain.Job) (signalOutcome, bool) {
	if !p.HasSalaryMin() || job.SalaryMin == nil {
		return signalOutcome{}, false
	}
	if *job.SalaryMin >= *p.SalaryMin {
		return signalOutcome{contribution: SalaryBonus, reason: "Salary meets minimum requirement"}, true
	}
	return signalOutcome{contribution: SalaryPenalty}, true
}

// skillOverlap returns the sorted case-insensitive intersection of two skill sets
func skillOverlap(want, have []string) []string {
	haveSet := make(map[string]struct{}, len(have))
	for _, s := range have {
		haveSet[domain.NormalizeText(s)] = struct{}{}
	}
	seen := make(map[string]struct{}, len(want))
	overlap := make([]string, 0)
	for _, s := range want {
		n := domain.NormalizeText(s)
		if _, ok := haveSet[n]; !ok {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		overlap = append(overlap, n)
	}
	sort.Strings(overlap)
	return overlap
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// MatchingEngine scores and ranks job records against a preference.
//
// Scoring is additive: every signal that fires contributes its fixed weight and
// a human readable reason, and signals on unset preference fields never fire.
// The engine is stateless and safe for concurrent use.
type MatchingEngine struct{}

// NewMatchingEngine creates a MatchingEngine
func NewMatchingEngine() *MatchingEngine {
	return &MatchingEngine{}
}

func (e *MatchingEngine) evaluate(p domain.Preference, job domain.Job) []signalOutcome {
	fired := make([]signalOutcome, 0, len(signals))
	for _, s := range signals {
		if outcome, ok := s.evaluate(p, job); ok {
			fired = append(fired, outcome)
		}
	}
	return fired
}

// ScoreJob returns the additive score of every fired signal
func (e *MatchingEngine) ScoreJob(p domain.Preference, job domain.Job) float64 {
	var score float64
	for _, o := range e.evaluate(p, job) {
		score += o.contribution
	}
	return score
}

// Reasons returns one sentence per positively contributing signal, in signal order
func (e *MatchingEngine) Reasons(p domain.Preference, job domain.Job) []string {
	reasons := make([]string, 0, len(signals))
	for _, o := range e.evaluate(p, job) {
		if o.contribution > 0 && o.reason != "" {
			reasons = append(reasons, o.reason)
		}
	}
	return reasons
}

// QueryTopN ranks the catalog: non-positive scores are dropped, ties keep catalog order,
// at most n items are returned. A non-positive n returns every positive match.
func (e *MatchingEngine) QueryTopN(p domain.Preference, catalog []domain.Job, n int) []domain.MatchItem {
	items := make([]domain.MatchItem, 0)
	for _, job := range catalog {
		fired := e.evaluate(p, job)

		var score float64
		reasons := make([]string, 0, len(fired))
		for _, o := range fired {
			score += o.contribution
			if o.contribution > 0 && o.reason != "" {
				reasons = append(reasons, o.reason)
			}
		}
		if score <= 0 {
			continue
		}

		items = append(items, domain.MatchItem{
			JobID:       job.JobID,
			Title:       job.Title,
			Company:     job.Company,
			Location:    job.Location,
			SalaryRange: formatSalaryRange(job),
			Domain:      job.Domain,
			Reasons:     reasons,
			Score:       roundScore(score),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})

	if n > 0 && len(items) > n {
		items = items[:n]
	}
	return items
}

func formatSalaryRange(job domain.Job) *string {
	if job.SalaryMin == nil || job.SalaryMax == nil {
		return nil
	}
	unit := job.SalaryUnit
	if unit == "" {
		unit = string(domain.SalaryUnitYear)
	}
	s := fmt.Sprintf("%d–%d / %s", *job.SalaryMin, *job.SalaryMax, unit)
	return &s
}

func roundScore(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// JobMatchService struct - Application service ranking the catalog for an explicit preference
type JobMatchService struct {
	catalog output.JobCatalog
	engine  *MatchingEngine
}

// NewJobMatchService creates a JobMatchService
func NewJobMatchService(catalog output.JobCatalog, engine *MatchingEngine) *JobMatchService {
	return &JobMatchService{catalog: catalog, engine: engine}
}

// QueryTopN loads the catalog and ranks it against the sanitized preference
func (s *JobMatchService) QueryTopN(ctx context.Context, preference domain.Preference, n int) ([]domain.MatchItem, error) {
	jobs, err := s.catalog.Jobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	if n <= 0 {
		n = DefaultTopN
	}
	return s.engine.QueryTopN(preference.Sanitize(), jobs, n), nil
}
