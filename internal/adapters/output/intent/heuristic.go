package intent

import (
	"context"
	"regexp"
	"strings"

	"jobmatch-assistant/internal/domain"
)

// HeuristicParserName labels the offline parser in logs and metrics
const HeuristicParserName = "heuristic"

var (
	salaryCuePattern = regexp.MustCompile(
		`\$\s*\d|\d\s*k\b|salary|pay|compensation|per hour|per year|an hour|a year|/\s*(hr|hour|yr|year)|hourly|annual|\bat least \d`)

	onSitePattern = regexp.MustCompile(`\b(on-site|onsite|on site|in office|in-office|no remote|not remote)\b`)
	remotePattern = regexp.MustCompile(`\bremote\b`)

	employmentPattern = regexp.MustCompile(
		`\b(full[- ]?time|part[- ]?time|internship|intern|contractor|contract|temporary|temp)\b`)

	seniorityPattern = regexp.MustCompile(`\b(intern|junior|mid|senior|lead|staff|principal)\b`)

	domainPattern = regexp.MustCompile(
		`\b(startup|fintech|healthcare|edtech|e-?commerce|gaming|saas|biotech|logistics|media|retail|government|nonprofit|insurance)s?\b`)

	skillPattern = regexp.MustCompile(
		`\b(sql|python|golang|java|javascript|typescript|react|node\.js|tableau|excel|power bi|aws|gcp|azure|` +
			`kubernetes|docker|terraform|postgres|postgresql|mysql|spark|pandas|pytorch|tensorflow|` +
			`machine learning|figma|rust|scala|kotlin|swift)\b`)

	placePattern = regexp.MustCompile(`\b(?:in|near|based in)\s+([A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+){0,2})`)

	wordPattern = regexp.MustCompile(`[a-z0-9+#./-]+`)
)

var employmentKeywords = map[string]string{
	"contractor": string(domain.EmploymentTypeContract),
	"temp":       string(domain.EmploymentTypeTemporary),
}

// knownPlaces is matched before the capitalized "in <Place>" pattern.
// Longer names come first so "new york" wins over "york".
var knownPlaces = []string{
	"silicon valley", "san francisco", "los angeles", "new york", "bay area",
	"seattle", "austin", "boston", "chicago", "denver", "london", "berlin", "toronto",
	"nyc", "sf", "la",
}

var knownPlacePatterns = compilePlaces(knownPlaces)

func compilePlaces(places []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(places))
	for i, place := range places {
		out[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(place) + `\b`)
	}
	return out
}

var roleNouns = map[string]struct{}{
	"engineer": {}, "analyst": {}, "developer": {}, "scientist": {}, "designer": {},
	"manager": {}, "architect": {}, "consultant": {}, "administrator": {}, "specialist": {},
	"researcher": {}, "programmer": {}, "technician": {}, "writer": {}, "recruiter": {},
}

// roleStopWords end a role phrase when walking backwards from the role noun
var roleStopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "as": {}, "for": {}, "looking": {}, "want": {}, "need": {},
	"job": {}, "jobs": {}, "role": {}, "roles": {}, "position": {}, "i": {}, "i'm": {}, "im": {},
	"am": {}, "be": {}, "to": {}, "me": {}, "find": {}, "any": {}, "some": {}, "seeking": {},
	"work": {}, "working": {}, "in": {}, "at": {}, "remote": {}, "and": {}, "or": {}, "like": {},
	"intern": {}, "junior": {}, "mid": {}, "senior": {}, "lead": {}, "staff": {}, "principal": {},
	"full-time": {}, "part-time": {}, "contract": {}, "temporary": {},
}

const maxRoleModifiers = 3

// HeuristicParser extracts preferences with keyword rules. It works offline and never fails.
type HeuristicParser struct{}

// NewHeuristicParser creates a HeuristicParser
func NewHeuristicParser() *HeuristicParser {
	return &HeuristicParser{}
}

// Name returns the parser label
func (p *HeuristicParser) Name() string {
	return HeuristicParserName
}

// Parse implements the fallible parser contract; it always succeeds
func (p *HeuristicParser) Parse(_ context.Context, utterance string) (domain.Preference, error) {
	return p.extract(utterance), nil
}

// ParseIntent implements output.IntentParser
func (p *HeuristicParser) ParseIntent(ctx context.Context, utterance string) domain.Preference {
	pref, _ := p.Parse(ctx, utterance)
	return pref
}

func (p *HeuristicParser) extract(utterance string) domain.Preference {
	pref := domain.NewPreference()
	text := strings.ToLower(utterance)
	if strings.TrimSpace(text) == "" {
		return pref
	}

	if salaryCuePattern.MatchString(text) {
		span := domain.ParseSalarySpan(utterance)
		pref.SalaryMin = span.Min
		pref.SalaryMax = span.Max
		pref.SalaryUnit = span.Unit
	}

	switch {
	case onSitePattern.MatchString(text):
		pref.Remote = domain.BoolPtr(false)
	case remotePattern.MatchString(text):
		pref.Remote = domain.BoolPtr(true)
	}

	if m := employmentPattern.FindString(text); m != "" {
		if canonical, ok := employmentKeywords[m]; ok {
			m = canonical
		}
		pref.EmploymentType = domain.EmploymentType(domain.NormalizeEmploymentType(m))
	}

	if m := seniorityPattern.FindString(text); m != "" {
		pref.Seniority = domain.StringPtr(m)
	}

	if m := domainPattern.FindStringSubmatch(text); m != nil {
		pref.Domain = domain.StringPtr(strings.ReplaceAll(m[1], "ecommerce", "e-commerce"))
	}

	pref.Skills = skillPattern.FindAllString(text, -1)
	pref.Location = findLocation(utterance, text)
	pref.Role = findRole(text)

	return pref.Sanitize()
}

func findLocation(original, lower string) *string {
	for i, pattern := range knownPlacePatterns {
		if pattern.MatchString(lower) {
			return domain.StringPtr(knownPlaces[i])
		}
	}
	if m := placePattern.FindStringSubmatch(original); m != nil {
		return domain.StringPtr(m[1])
	}
	return nil
}

func findRole(lower string) *string {
	words := wordPattern.FindAllString(lower, -1)
	for i, w := range words {
		noun := strings.TrimSuffix(strings.TrimRight(w, ".,"), "s")
		if _, ok := roleNouns[noun]; !ok {
			continue
		}
		start := i
		for start > 0 && i-start < maxRoleModifiers {
			prev := strings.TrimRight(words[start-1], ".,")
			if _, stop := roleStopWords[prev]; stop {
				break
			}
			start--
		}
		phrase := make([]string, 0, i-start+1)
		for _, pw := range words[start:i] {
			phrase = append(phrase, strings.TrimRight(pw, ".,"))
		}
		phrase = append(phrase, noun)
		return domain.StringPtr(strings.Join(phrase, " "))
	}
	return nil
}
