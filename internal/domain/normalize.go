package domain

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var locationAliases = map[string]string{
	"sf":             "san francisco",
	"bay area":       "bay area",
	"silicon valley": "bay area",
	"la":             "los angeles",
	"nyc":            "new york",
}

var employmentTypeAliases = map[string]string{
	"full time":  string(EmploymentTypeFullTime),
	"fulltime":   string(EmploymentTypeFullTime),
	"ft":         string(EmploymentTypeFullTime),
	"part time":  string(EmploymentTypePartTime),
	"parttime":   string(EmploymentTypePartTime),
	"pt":         string(EmploymentTypePartTime),
	"internship": string(EmploymentTypeIntern),
}

var canonicalEmploymentTypes = map[string]struct{}{
	string(EmploymentTypeFullTime):  {},
	string(EmploymentTypePartTime):  {},
	string(EmploymentTypeIntern):    {},
	string(EmploymentTypeContract):  {},
	string(EmploymentTypeTemporary): {},
}

var (
	salaryNumberPattern = regexp.MustCompile(`\$?\s*([0-9]+\.?[0-9]*)(k)?`)
	hourlyMarkers       = []string{"hour", "hr"}
	yearlyMarkers       = []string{"year", "yr", "annum", "annual"}
)

// NormalizeText trims, collapses internal whitespace and lowercases s
func NormalizeText(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// NormalizeLocation canonicalizes a location through the alias table
func NormalizeLocation(s string) string {
	n := NormalizeText(s)
	if alias, ok := locationAliases[n]; ok {
		return alias
	}
	return n
}

// NormalizeEmploymentType maps known variants onto the canonical set.
// Unknown values pass through normalized, never rejected.
func NormalizeEmploymentType(s string) string {
	n := NormalizeText(s)
	if _, ok := canonicalEmploymentTypes[n]; ok {
		return n
	}
	if alias, ok := employmentTypeAliases[n]; ok {
		return alias
	}
	return n
}

// NormalizeSkills normalizes and de-duplicates skills, keeping first-seen order
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		n := NormalizeText(s)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// SalarySpan is the result of ParseSalarySpan. Min and Max are nil when absent.
type SalarySpan struct {
	Min  *int
	Max  *int
	Unit SalaryUnit
}

// ParseSalarySpan extracts up to two salary figures and their unit from free text.
// One figure is a floor (Max nil); with two or more only the first two count, ordered
// ascending. The hourly marker wins when both markers appear.
func ParseSalarySpan(text string) SalarySpan {
	t := strings.ReplaceAll(strings.ToLower(text), ",", "")

	var span SalarySpan
	if containsAny(t, hourlyMarkers) {
		span.Unit = SalaryUnitHour
	}
	if span.Unit == SalaryUnitNone && containsAny(t, yearlyMarkers) {
		span.Unit = SalaryUnitYear
	}

	matches := salaryNumberPattern.FindAllStringSubmatch(t, -1)
	values := make([]int, 0, 2)
	for _, m := range matches {
		if len(values) == 2 {
			break
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if m[2] == "k" {
			v *= 1000
		}
		// figures beyond int32 are not salaries and would overflow int on 32-bit
		if v > math.MaxInt32 {
			continue
		}
		values = append(values, int(math.RoundToEven(v)))
	}

	switch len(values) {
	case 0:
	case 1:
		span.Min = IntPtr(values[0])
	default:
		lo, hi := values[0], values[1]
		if lo > hi {
			lo, hi = hi, lo
		}
		span.Min = IntPtr(lo)
		span.Max = IntPtr(hi)
	}
	return span
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
