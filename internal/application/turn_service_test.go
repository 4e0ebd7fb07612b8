package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"jobmatch-assistant/internal/adapters/output/memory"
	"jobmatch-assistant/internal/domain"
)

func newTestTurnService(parser *MockIntentParser, store *MockPreferenceStore, catalog *MockJobCatalog) *TurnService {
	return NewTurnService(parser, store, catalog, NewClarificationEngine(nil), NewMatchingEngine(), TurnConfig{})
}

func assertExclusive(t *testing.T, result domain.TurnResult) {
	t.Helper()
	if len(result.Clarifications) > 0 && len(result.TopMatches) > 0 {
		t.Errorf("expected clarifications and matches to be exclusive, got %d and %d",
			len(result.Clarifications), len(result.TopMatches))
	}
	if result.Clarifications == nil || result.TopMatches == nil {
		t.Error("expected non-nil clarification and match lists")
	}
}

// ============================================================================
// Branches
// ============================================================================

// TestProcessTurnAllUnsetAsksClarifications tests the clarifying branch
func TestProcessTurnAllUnsetAsksClarifications(t *testing.T) {
	catalog := &MockJobCatalog{JobsList: sampleCatalog()}
	srv := newTestTurnService(&MockIntentParser{}, &MockPreferenceStore{}, catalog)

	result := srv.ProcessTurn(context.Background(), "s1", "hello")

	if result.State != domain.TurnStateClarifying {
		t.Errorf("expected clarifying state, got %s", result.State)
	}
	if len(result.Clarifications) != 5 {
		t.Errorf("expected 5 clarifications, got %d", len(result.Clarifications))
	}
	if len(result.TopMatches) != 0 {
		t.Errorf("expected no matches, got %d", len(result.TopMatches))
	}
	if catalog.Calls != 0 {
		t.Errorf("expected catalog not to be consulted, got %d calls", catalog.Calls)
	}

	want := ClarifyIntro + "\n- " +
		DefaultClarifyQuestions[FieldRole] + "\n- " +
		DefaultClarifyQuestions[FieldLocation] + "\n- " +
		DefaultClarifyQuestions[FieldSalaryMin]
	if result.AssistantReply != want {
		t.Errorf("expected reply %q, got %q", want, result.AssistantReply)
	}
	assertExclusive(t, result)
}

// TestProcessTurnMatchesAndPreviews tests the matching branch and preview rendering
func TestProcessTurnMatchesAndPreviews(t *testing.T) {
	srv := newTestTurnService(staticParser(analystPreference()), &MockPreferenceStore{}, &MockJobCatalog{JobsList: sampleCatalog()})

	result := srv.ProcessTurn(context.Background(), "s1", "data analyst intern")

	if result.State != domain.TurnStateDone {
		t.Fatalf("expected done state, got %s", result.State)
	}
	if len(result.TopMatches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(result.TopMatches))
	}

	want := "I found 3 option(s). Here are the top 3:\n" +
		"1. Data Analyst Intern @ Acme Analytics (Bay Area) — Title matches desired role; Preferred location matched; " +
		"Domain aligned; Employment type aligned; Remote preference matched; Skill overlap: python, sql, tableau; " +
		"Salary meets minimum requirement\n" +
		"2. Data Analyst @ CareGrid (San Francisco) — Title matches desired role; Remote preference matched; " +
		"Skill overlap: sql; Salary meets minimum requirement\n" +
		"3. Senior Backend Engineer @ Ledgerly (New York) — Salary meets minimum requirement"
	if result.AssistantReply != want {
		t.Errorf("unexpected reply:\n%s\nwant:\n%s", result.AssistantReply, want)
	}
	if result.TopMatches[0].Score <= 5.0 {
		t.Errorf("expected top score > 5.0, got %v", result.TopMatches[0].Score)
	}
	assertExclusive(t, result)
}

// TestProcessTurnPreviewCapsAtConfiguredSize tests that the reply previews only the first matches
func TestProcessTurnPreviewCapsAtConfiguredSize(t *testing.T) {
	srv := NewTurnService(staticParser(analystPreference()), &MockPreferenceStore{}, &MockJobCatalog{JobsList: sampleCatalog()},
		NewClarificationEngine(nil), NewMatchingEngine(), TurnConfig{PreviewSize: 1, TopN: 2})

	result := srv.ProcessTurn(context.Background(), "s1", "anything")

	if len(result.TopMatches) != 2 {
		t.Errorf("expected TopN=2 matches, got %d", len(result.TopMatches))
	}
	if !strings.HasPrefix(result.AssistantReply, "I found 2 option(s). Here are the top 1:\n1. ") {
		t.Errorf("unexpected reply header: %q", result.AssistantReply)
	}
	if strings.Contains(result.AssistantReply, "\n2. ") {
		t.Errorf("expected a single preview line, got %q", result.AssistantReply)
	}
}

// TestProcessTurnNoMatches tests the broadening suggestion
func TestProcessTurnNoMatches(t *testing.T) {
	pref := domain.Preference{
		Role:           domain.StringPtr("Chef"),
		Location:       domain.StringPtr("paris"),
		SalaryMin:      domain.IntPtr(500000),
		EmploymentType: domain.EmploymentTypeContract,
		Domain:         domain.StringPtr("culinary"),
	}
	srv := newTestTurnService(staticParser(pref), &MockPreferenceStore{}, &MockJobCatalog{JobsList: sampleCatalog()})

	result := srv.ProcessTurn(context.Background(), "s1", "chef in paris")

	if result.State != domain.TurnStateDone {
		t.Errorf("expected done state, got %s", result.State)
	}
	if result.AssistantReply != NoMatchReply {
		t.Errorf("expected no-match reply, got %q", result.AssistantReply)
	}
	if len(result.TopMatches) != 0 || len(result.Clarifications) != 0 {
		t.Errorf("expected empty lists, got %+v", result)
	}
}

// TestProcessTurnSanitizesParsedPreference tests that parser output is canonicalized before merging
func TestProcessTurnSanitizesParsedPreference(t *testing.T) {
	store := &MockPreferenceStore{}
	parser := staticParser(domain.Preference{Location: domain.StringPtr("SF"), Skills: []string{"SQL"}})
	srv := newTestTurnService(parser, store, &MockJobCatalog{})

	srv.ProcessTurn(context.Background(), "s1", "sf please")

	if store.LastUpdates == nil || *store.LastUpdates.Location != "san francisco" {
		t.Fatalf("expected normalized location to be merged, got %+v", store.LastUpdates)
	}
	if store.LastUpdates.Skills[0] != "sql" {
		t.Errorf("expected normalized skills, got %v", store.LastUpdates.Skills)
	}
	if parser.Utterances[0] != "sf please" {
		t.Errorf("expected raw utterance to reach the parser, got %q", parser.Utterances[0])
	}
}

// ============================================================================
// Failures
// ============================================================================

func assertFailed(t *testing.T, result domain.TurnResult) {
	t.Helper()
	if result.State != domain.TurnStateFailed {
		t.Errorf("expected failed state, got %s", result.State)
	}
	if result.AssistantReply != domain.FailedTurnReply {
		t.Errorf("expected apology reply, got %q", result.AssistantReply)
	}
	if !result.ParsedPreferences.IsEmpty() {
		t.Errorf("expected all-unset preference, got %+v", result.ParsedPreferences)
	}
	if len(result.Clarifications) != 0 || len(result.TopMatches) != 0 {
		t.Errorf("expected empty lists, got %+v", result)
	}
	assertExclusive(t, result)
}

// TestProcessTurnStoreFailure tests that a store error becomes the failed reply
func TestProcessTurnStoreFailure(t *testing.T) {
	store := &MockPreferenceStore{
		UpdatePreferencesFunc: func(context.Context, string, domain.Preference) (domain.Preference, error) {
			return domain.Preference{}, domain.ErrSessionStore
		},
	}
	srv := newTestTurnService(staticParser(analystPreference()), store, &MockJobCatalog{})

	assertFailed(t, srv.ProcessTurn(context.Background(), "s1", "anything"))
}

// TestProcessTurnCatalogFailure tests that a catalog error becomes the failed reply
func TestProcessTurnCatalogFailure(t *testing.T) {
	srv := newTestTurnService(staticParser(analystPreference()), &MockPreferenceStore{}, &MockJobCatalog{Err: errors.New("catalog offline")})

	assertFailed(t, srv.ProcessTurn(context.Background(), "s1", "anything"))
}

// TestProcessTurnBlankSession tests that a blank session id fails before touching the store
func TestProcessTurnBlankSession(t *testing.T) {
	store := &MockPreferenceStore{}
	parser := &MockIntentParser{}
	srv := newTestTurnService(parser, store, &MockJobCatalog{})

	assertFailed(t, srv.ProcessTurn(context.Background(), "   ", "anything"))

	if store.LastUpdates != nil {
		t.Error("expected store not to be called")
	}
	if len(parser.Utterances) != 0 {
		t.Error("expected parser not to be called")
	}
}

// TestProcessTurnRecoversPanics tests that a panicking collaborator cannot escape ProcessTurn
func TestProcessTurnRecoversPanics(t *testing.T) {
	parser := &MockIntentParser{
		ParseIntentFunc: func(context.Context, string) domain.Preference {
			panic("parser exploded")
		},
	}
	srv := newTestTurnService(parser, &MockPreferenceStore{}, &MockJobCatalog{})

	assertFailed(t, srv.ProcessTurn(context.Background(), "s1", "anything"))
}

// ============================================================================
// Multi-turn with the in-memory store
// ============================================================================

// sequenceParser returns one preference per call, in order
func sequenceParser(prefs ...domain.Preference) *MockIntentParser {
	var mu sync.Mutex
	i := 0
	return &MockIntentParser{
		ParseIntentFunc: func(context.Context, string) domain.Preference {
			mu.Lock()
			defer mu.Unlock()
			if i >= len(prefs) {
				return domain.NewPreference()
			}
			p := prefs[i]
			i++
			return p
		},
	}
}

// TestProcessTurnAccumulatesAcrossTurns tests that preferences build up until matching
func TestProcessTurnAccumulatesAcrossTurns(t *testing.T) {
	parser := sequenceParser(
		domain.Preference{Role: domain.StringPtr("Data Analyst"), Location: domain.StringPtr("bay area")},
		domain.Preference{SalaryMin: domain.IntPtr(30), SalaryUnit: domain.SalaryUnitHour},
		domain.Preference{EmploymentType: domain.EmploymentTypeIntern, Domain: domain.StringPtr("startup")},
	)
	store := memory.NewPreferenceStore(time.Hour)
	srv := NewTurnService(parser, store, &MockJobCatalog{JobsList: sampleCatalog()},
		NewClarificationEngine(nil), NewMatchingEngine(), TurnConfig{})
	ctx := context.Background()

	first := srv.ProcessTurn(ctx, "s1", "data analyst in the bay area")
	if first.State != domain.TurnStateClarifying || len(first.Clarifications) != 3 {
		t.Fatalf("expected 3 clarifications after first turn, got %s with %d", first.State, len(first.Clarifications))
	}
	if first.Clarifications[0].Field != FieldSalaryMin {
		t.Errorf("expected salary_min to be asked first, got %s", first.Clarifications[0].Field)
	}

	second := srv.ProcessTurn(ctx, "s1", "at least 30/hr")
	if second.State != domain.TurnStateClarifying || len(second.Clarifications) != 2 {
		t.Fatalf("expected 2 clarifications after second turn, got %s with %d", second.State, len(second.Clarifications))
	}

	third := srv.ProcessTurn(ctx, "s1", "startup internship")
	if third.State != domain.TurnStateDone {
		t.Fatalf("expected done after third turn, got %s", third.State)
	}
	if len(third.TopMatches) == 0 || third.TopMatches[0].JobID != "j1" {
		t.Errorf("expected j1 to rank first, got %+v", third.TopMatches)
	}
	if third.ParsedPreferences.Role == nil || *third.ParsedPreferences.Role != "Data Analyst" {
		t.Errorf("expected role from the first turn to be kept, got %v", third.ParsedPreferences.Role)
	}

	other := srv.ProcessTurn(ctx, "s2", "hi")
	if len(other.Clarifications) != 5 {
		t.Errorf("expected a different session to start empty, got %d clarifications", len(other.Clarifications))
	}
}

// TestProcessTurnAfterTTLStartsOver tests that an expired session resets before merging
func TestProcessTurnAfterTTLStartsOver(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}

	parser := sequenceParser(
		domain.Preference{Role: domain.StringPtr("Data Analyst"), Location: domain.StringPtr("bay area")},
		domain.Preference{Domain: domain.StringPtr("startup")},
	)
	store := memory.NewPreferenceStore(time.Hour, memory.WithClock(clock))
	srv := NewTurnService(parser, store, &MockJobCatalog{}, NewClarificationEngine(nil), NewMatchingEngine(), TurnConfig{})
	ctx := context.Background()

	srv.ProcessTurn(ctx, "s1", "data analyst in the bay area")

	mu.Lock()
	now = now.Add(2 * time.Hour)
	mu.Unlock()

	result := srv.ProcessTurn(ctx, "s1", "startups")

	if result.ParsedPreferences.Role != nil || result.ParsedPreferences.Location != nil {
		t.Errorf("expected expired fields to be gone, got %+v", result.ParsedPreferences)
	}
	if result.Clarifications[0].Field != FieldRole {
		t.Errorf("expected role to be asked again, got %s", result.Clarifications[0].Field)
	}
}
