package http

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"jobmatch-assistant/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockTurnService struct {
	result        domain.TurnResult
	lastSession   string
	lastUtterance string
}

func (m *mockTurnService) ProcessTurn(_ context.Context, sessionID, utterance string) domain.TurnResult {
	m.lastSession = sessionID
	m.lastUtterance = utterance
	return m.result
}

type mockMatchService struct {
	items     []domain.MatchItem
	err       error
	lastPref  domain.Preference
	lastLimit int
}

func (m *mockMatchService) QueryTopN(_ context.Context, preference domain.Preference, n int) ([]domain.MatchItem, error) {
	m.lastPref = preference
	m.lastLimit = n
	return m.items, m.err
}

type mockSessionService struct {
	pref      domain.Preference
	err       error
	resetWith string
}

func (m *mockSessionService) GetPreference(context.Context, string) (domain.Preference, error) {
	return m.pref, m.err
}

func (m *mockSessionService) ResetSession(_ context.Context, sessionID string) error {
	m.resetWith = sessionID
	return m.err
}

type mockLineWebhookService struct {
	requests []domain.LineWebhookRequest
	err      error
}

func (m *mockLineWebhookService) HandleWebhook(_ context.Context, request domain.LineWebhookRequest) error {
	m.requests = append(m.requests, request)
	return m.err
}

type testBody struct {
	Status Status          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

func newTestApp(turns *mockTurnService, matches *mockMatchService, sessions *mockSessionService) *fiber.App {
	hdl := New(turns, matches, sessions, 0)
	app := fiber.New()
	app.Get("/health", hdl.HealthCheck)
	api := app.Group("/v1/api")
	api.Post("/chat", hdl.Chat)
	api.Post("/jobs/match", hdl.MatchJobs)
	api.Get("/sessions/:id", hdl.GetSession)
	api.Delete("/sessions/:id", hdl.DeleteSession)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target, body string) (int, testBody) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded testBody
	require.NoError(t, json.Unmarshal(raw, &decoded), string(raw))
	return resp.StatusCode, decoded
}

func TestHealthCheck(t *testing.T) {
	app := newTestApp(&mockTurnService{}, &mockMatchService{}, &mockSessionService{})

	code, body := doJSON(t, app, fiber.MethodGet, "/health", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, Success, body.Status)
}

func TestChatPassesSessionAndUtterance(t *testing.T) {
	turns := &mockTurnService{result: domain.TurnResult{
		AssistantReply:    "reply",
		Clarifications:    []domain.ClarifyQuestion{{Field: "role", Question: "Which role?"}},
		ParsedPreferences: domain.NewPreference(),
		TopMatches:        []domain.MatchItem{},
	}}
	app := newTestApp(turns, &mockMatchService{}, &mockSessionService{})

	code, body := doJSON(t, app, fiber.MethodPost, "/v1/api/chat",
		`{"session_id": " s-1 ", "user_utterance": "data analyst"}`)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "s-1", turns.lastSession)
	assert.Equal(t, "data analyst", turns.lastUtterance)

	var data ChatResponse
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Equal(t, "s-1", data.SessionID)
	assert.Equal(t, "reply", data.AssistantReply)
	assert.Equal(t, []domain.ClarifyQuestion{{Field: "role", Question: "Which role?"}}, data.AskedClarifications)
	assert.Empty(t, data.TopMatches)
}

func TestChatGeneratesSessionID(t *testing.T) {
	turns := &mockTurnService{result: domain.FailedTurnResult()}
	app := newTestApp(turns, &mockMatchService{}, &mockSessionService{})

	code, body := doJSON(t, app, fiber.MethodPost, "/v1/api/chat", `{"user_utterance": "hi"}`)
	require.Equal(t, fiber.StatusOK, code)

	_, err := uuid.Parse(turns.lastSession)
	assert.NoError(t, err, "generated session id must be a UUID")

	var data ChatResponse
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Equal(t, turns.lastSession, data.SessionID)
	assert.Equal(t, domain.FailedTurnReply, data.AssistantReply)
}

func TestChatRejectsBadInput(t *testing.T) {
	app := newTestApp(&mockTurnService{}, &mockMatchService{}, &mockSessionService{})

	code, body := doJSON(t, app, fiber.MethodPost, "/v1/api/chat", `{"user_utterance": `)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, BadRequest.Code, body.Status.Code)

	long := strings.Repeat("a", 2001)
	code, body = doJSON(t, app, fiber.MethodPost, "/v1/api/chat", fmt.Sprintf(`{"user_utterance": %q}`, long))
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, []string{"user_utterance must be at most 2000"}, body.Status.Message)
}

func TestMatchJobs(t *testing.T) {
	matches := &mockMatchService{items: []domain.MatchItem{{JobID: "j1", Score: 0.5}}}
	app := newTestApp(&mockTurnService{}, matches, &mockSessionService{})

	code, body := doJSON(t, app, fiber.MethodPost, "/v1/api/jobs/match?limit=2",
		`{"role": "Data Analyst", "location": "SF", "employment_type": "Full Time", "salary_unit": "hourly", "skills": ["SQL"]}`)
	require.Equal(t, fiber.StatusOK, code)

	assert.Equal(t, 2, matches.lastLimit)
	require.NotNil(t, matches.lastPref.Location)
	assert.Equal(t, "san francisco", *matches.lastPref.Location)
	assert.Equal(t, domain.EmploymentTypeFullTime, matches.lastPref.EmploymentType)
	assert.Equal(t, domain.SalaryUnitHour, matches.lastPref.SalaryUnit)
	assert.Equal(t, []string{"sql"}, matches.lastPref.Skills)

	var data MatchResponse
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Equal(t, 1, data.Total)
	assert.Equal(t, "j1", data.Matches[0].JobID)
}

func TestMatchJobsDefaultsAndErrors(t *testing.T) {
	matches := &mockMatchService{}
	app := newTestApp(&mockTurnService{}, matches, &mockSessionService{})

	code, body := doJSON(t, app, fiber.MethodPost, "/v1/api/jobs/match", `{}`)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, DefaultMatchLimit, matches.lastLimit)
	var data MatchResponse
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.NotNil(t, data.Matches)

	code, _ = doJSON(t, app, fiber.MethodPost, "/v1/api/jobs/match?limit=0", `{}`)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, body = doJSON(t, app, fiber.MethodPost, "/v1/api/jobs/match", `{"salary_min": -5}`)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, []string{"salary_min must be greater than or equal to 0"}, body.Status.Message)

	matches.err = domain.ErrCatalogUnavailable
	code, body = doJSON(t, app, fiber.MethodPost, "/v1/api/jobs/match", `{}`)
	assert.Equal(t, fiber.StatusInternalServerError, code)
	assert.Equal(t, InternalServerError, body.Status)
}

func TestGetSession(t *testing.T) {
	sessions := &mockSessionService{pref: domain.Preference{Role: domain.StringPtr("analyst"), Skills: []string{}}}
	app := newTestApp(&mockTurnService{}, &mockMatchService{}, sessions)

	code, body := doJSON(t, app, fiber.MethodGet, "/v1/api/sessions/s-1", "")
	require.Equal(t, fiber.StatusOK, code)
	var data SessionResponse
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Equal(t, "s-1", data.SessionID)
	require.NotNil(t, data.Preference.Role)
	assert.Equal(t, "analyst", *data.Preference.Role)

	sessions.pref = domain.NewPreference()
	code, body = doJSON(t, app, fiber.MethodGet, "/v1/api/sessions/unknown", "")
	assert.Equal(t, fiber.StatusNotFound, code)
	assert.Equal(t, NotFound, body.Status)

	sessions.err = fmt.Errorf("get session x: %w", domain.ErrSessionStore)
	code, _ = doJSON(t, app, fiber.MethodGet, "/v1/api/sessions/x", "")
	assert.Equal(t, fiber.StatusInternalServerError, code)
}

func TestDeleteSession(t *testing.T) {
	sessions := &mockSessionService{}
	app := newTestApp(&mockTurnService{}, &mockMatchService{}, sessions)

	code, body := doJSON(t, app, fiber.MethodDelete, "/v1/api/sessions/s-9", "")
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "s-9", sessions.resetWith)
	assert.Equal(t, Success, body.Status)

	sessions.err = domain.ErrInvalidSessionID
	code, _ = doJSON(t, app, fiber.MethodDelete, "/v1/api/sessions/s-9", "")
	assert.Equal(t, fiber.StatusBadRequest, code)
}

// ============================================================================
// LINE webhook
// ============================================================================

const testChannelSecret = "test-secret"

func sign(body string) string {
	mac := hmac.New(sha256.New, []byte(testChannelSecret))
	mac.Write([]byte(body))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func postWebhook(t *testing.T, app *fiber.App, body, signature string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/webhook/line", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Line-Signature", signature)
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

const webhookBody = `{"destination":"Ubot","events":[` +
	`{"type":"message","mode":"active","timestamp":1700000000000,"webhookEventId":"ev-1",` +
	`"deliveryContext":{"isRedelivery":false},"replyToken":"rt-1",` +
	`"source":{"type":"group","groupId":"G1","userId":"U1"},` +
	`"message":{"id":"m-1","type":"text","quoteToken":"q","text":"data analyst in sf"}},` +
	`{"type":"follow","mode":"active","timestamp":1700000000000,"webhookEventId":"ev-2",` +
	`"deliveryContext":{"isRedelivery":false},"replyToken":"rt-2",` +
	`"source":{"type":"user","userId":"U2"},"follow":{"isUnblocked":false}}]}`

func newWebhookApp(service *mockLineWebhookService) *fiber.App {
	app := fiber.New()
	app.Post("/webhook/line", NewLineWebhookHandler(service, testChannelSecret).HandleWebhook)
	return app
}

func TestHandleWebhookConvertsEvents(t *testing.T) {
	service := &mockLineWebhookService{}
	app := newWebhookApp(service)

	code := postWebhook(t, app, webhookBody, sign(webhookBody))
	require.Equal(t, fiber.StatusOK, code)
	require.Len(t, service.requests, 1)

	events := service.requests[0].Events
	require.Len(t, events, 2)

	msg := events[0]
	assert.Equal(t, domain.LineEventTypeMessage, msg.Type)
	assert.Equal(t, "ev-1", msg.ID)
	assert.Equal(t, "rt-1", msg.ReplyToken)
	assert.Equal(t, "line:group:G1", msg.SessionKey())
	require.NotNil(t, msg.Message)
	assert.Equal(t, domain.LineMessageTypeText, msg.Message.Type)
	assert.Equal(t, "data analyst in sf", msg.Message.Text)
	assert.Equal(t, int64(1700000000000), msg.Timestamp.UnixMilli())

	follow := events[1]
	assert.Equal(t, domain.LineEventTypeFollow, follow.Type)
	assert.Equal(t, "U2", follow.Source.UserID)
}

func TestHandleWebhookRejectsBadSignature(t *testing.T) {
	service := &mockLineWebhookService{}
	app := newWebhookApp(service)

	code := postWebhook(t, app, webhookBody, sign("something else"))
	assert.Equal(t, fiber.StatusUnauthorized, code)
	assert.Empty(t, service.requests)
}

func TestHandleWebhookServiceError(t *testing.T) {
	service := &mockLineWebhookService{err: errors.New("reply failed")}
	app := newWebhookApp(service)

	code := postWebhook(t, app, webhookBody, sign(webhookBody))
	assert.Equal(t, fiber.StatusInternalServerError, code)
}
