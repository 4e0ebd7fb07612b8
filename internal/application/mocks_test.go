package application

import (
	"context"

	"jobmatch-assistant/internal/domain"
)

// Mock implementations for testing

// MockIntentParser implements output.IntentParser for testing
type MockIntentParser struct {
	ParseIntentFunc func(ctx context.Context, utterance string) domain.Preference

	// Captured values for assertions
	Utterances []string
}

func (m *MockIntentParser) ParseIntent(ctx context.Context, utterance string) domain.Preference {
	m.Utterances = append(m.Utterances, utterance)
	if m.ParseIntentFunc != nil {
		return m.ParseIntentFunc(ctx, utterance)
	}
	return domain.NewPreference()
}

// staticParser returns the same preference for every utterance
func staticParser(p domain.Preference) *MockIntentParser {
	return &MockIntentParser{
		ParseIntentFunc: func(context.Context, string) domain.Preference { return p },
	}
}

// MockPreferenceStore implements output.PreferenceStore for testing
type MockPreferenceStore struct {
	GetFunc               func(ctx context.Context, sessionID string) (domain.Preference, error)
	UpdatePreferencesFunc func(ctx context.Context, sessionID string, updates domain.Preference) (domain.Preference, error)
	ResetFunc             func(ctx context.Context, sessionID string) error

	// Captured values for assertions
	LastUpdateSessionID string
	LastUpdates         *domain.Preference
	ResetCalls          []string
}

func (m *MockPreferenceStore) Get(ctx context.Context, sessionID string) (domain.Preference, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, sessionID)
	}
	return domain.NewPreference(), nil
}

func (m *MockPreferenceStore) UpdatePreferences(ctx context.Context, sessionID string, updates domain.Preference) (domain.Preference, error) {
	m.LastUpdateSessionID = sessionID
	m.LastUpdates = &updates
	if m.UpdatePreferencesFunc != nil {
		return m.UpdatePreferencesFunc(ctx, sessionID, updates)
	}
	return domain.NewPreference().Merge(updates), nil
}

func (m *MockPreferenceStore) Reset(ctx context.Context, sessionID string) error {
	m.ResetCalls = append(m.ResetCalls, sessionID)
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, sessionID)
	}
	return nil
}

// MockJobCatalog implements output.JobCatalog for testing
type MockJobCatalog struct {
	JobsList []domain.Job
	Err      error

	Calls int
}

func (m *MockJobCatalog) Jobs(context.Context) ([]domain.Job, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.JobsList, nil
}

// MockLineClient implements output.LineClient for testing
type MockLineClient struct {
	ReplyMessageFunc func(request domain.LineReplyMessageRequest) (*domain.LineMessageResponse, error)
	PushMessageFunc  func(request domain.LinePushMessageRequest) (*domain.LineMessageResponse, error)

	// Captured values for assertions
	LastReplyRequest *domain.LineReplyMessageRequest
	LastPushRequest  *domain.LinePushMessageRequest
	ReplyRequests    []domain.LineReplyMessageRequest
}

func (m *MockLineClient) ReplyMessage(request domain.LineReplyMessageRequest) (*domain.LineMessageResponse, error) {
	m.LastReplyRequest = &request
	m.ReplyRequests = append(m.ReplyRequests, request)
	if m.ReplyMessageFunc != nil {
		return m.ReplyMessageFunc(request)
	}
	return &domain.LineMessageResponse{Status: "ok"}, nil
}

func (m *MockLineClient) PushMessage(request domain.LinePushMessageRequest) (*domain.LineMessageResponse, error) {
	m.LastPushRequest = &request
	if m.PushMessageFunc != nil {
		return m.PushMessageFunc(request)
	}
	return &domain.LineMessageResponse{Status: "ok"}, nil
}

// MockTurnService implements input.TurnService for testing
type MockTurnService struct {
	ProcessTurnFunc func(ctx context.Context, sessionID, utterance string) domain.TurnResult

	LastSessionID string
	LastUtterance string
}

func (m *MockTurnService) ProcessTurn(ctx context.Context, sessionID, utterance string) domain.TurnResult {
	m.LastSessionID = sessionID
	m.LastUtterance = utterance
	if m.ProcessTurnFunc != nil {
		return m.ProcessTurnFunc(ctx, sessionID, utterance)
	}
	return domain.TurnResult{AssistantReply: "turn reply"}
}

func sampleCatalog() []domain.Job {
	return []domain.Job{
		{
			JobID:          "j1",
			Title:          "Data Analyst Intern",
			Company:        "Acme Analytics",
			Location:       "Bay Area",
			Domain:         domain.StringPtr("startup"),
			EmploymentType: "intern",
			Seniority:      domain.StringPtr("intern"),
			Remote:         domain.BoolPtr(true),
			Skills:         []string{"SQL", "Python", "Tableau", "Excel"},
			SalaryMin:      domain.IntPtr(35),
			SalaryMax:      domain.IntPtr(45),
			SalaryUnit:     "hour",
		},
		{
			JobID:          "j2",
			Title:          "Senior Backend Engineer",
			Company:        "Ledgerly",
			Location:       "New York",
			Domain:         domain.StringPtr("fintech"),
			EmploymentType: "full-time",
			Seniority:      domain.StringPtr("senior"),
			Remote:         domain.BoolPtr(false),
			Skills:         []string{"go", "postgres"},
			SalaryMin:      domain.IntPtr(180000),
			SalaryMax:      domain.IntPtr(220000),
			SalaryUnit:     "year",
		},
		{
			JobID:          "j3",
			Title:          "Data Analyst",
			Company:        "CareGrid",
			Location:       "San Francisco",
			Domain:         domain.StringPtr("healthcare"),
			EmploymentType: "full-time",
			Remote:         domain.BoolPtr(true),
			Skills:         []string{"sql", "r"},
			SalaryMin:      domain.IntPtr(110000),
		},
	}
}

func analystPreference() domain.Preference {
	return domain.Preference{
		Role:           domain.StringPtr("Data Analyst"),
		Location:       domain.StringPtr("bay area"),
		SalaryMin:      domain.IntPtr(30),
		SalaryUnit:     domain.SalaryUnitHour,
		EmploymentType: domain.EmploymentTypeIntern,
		Domain:         domain.StringPtr("startup"),
		Remote:         domain.BoolPtr(true),
		Skills:         []string{"sql", "python", "tableau"},
	}
}
