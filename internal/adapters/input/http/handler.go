package http

import (
	"errors"
	"strings"

	"jobmatch-assistant/internal/domain"
	"jobmatch-assistant/internal/ports/input"
	"jobmatch-assistant/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultMatchLimit is used when the match endpoint gets no limit
const DefaultMatchLimit = 10

// HTTPHandler struct - Primary/Driving adapter for HTTP
type HTTPHandler struct {
	turns        input.TurnService
	matches      input.MatchService
	sessions     input.SessionService
	validator    validator.Validator
	defaultLimit int
}

// New func - Creates new HTTP handler
func New(turns input.TurnService, matches input.MatchService, sessions input.SessionService, defaultLimit int) *HTTPHandler {
	if defaultLimit <= 0 {
		defaultLimit = DefaultMatchLimit
	}
	return &HTTPHandler{
		turns:        turns,
		matches:      matches,
		sessions:     sessions,
		validator:    validator.New(),
		defaultLimit: defaultLimit,
	}
}

// HealthCheck func
func (hdl *HTTPHandler) HealthCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: ""})
}

// Chat func
// Chat godoc
// @Summary Process one conversational turn
// @Description Parses the utterance, merges it into the session and answers with clarifications or matches
// @Tags CHAT
// @Accept application/json
// @Produce json
// @param Chat body ChatRequest true "Chat"
// @Success 200 {object} ResponseBody{data=ChatResponse}
// @Failure 400 {object} ResponseBody
// @Router /v1/api/chat [post]
func (hdl *HTTPHandler) Chat(c *fiber.Ctx) error {
	var request ChatRequest
	if err := c.BodyParser(&request); err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
	}
	if err := hdl.validator.ValidateStruct(request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest.withMessages(validator.Messages(err)...)})
	}

	sessionID := ""
	if request.SessionID != nil {
		sessionID = strings.TrimSpace(*request.SessionID)
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	result := hdl.turns.ProcessTurn(c.UserContext(), sessionID, request.UserUtterance)
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: newChatResponse(sessionID, result)})
}

// MatchJobs func
// MatchJobs godoc
// @Summary Rank the catalog against a preference
// @Description Runs the matching engine directly, without a conversation
// @Tags JOBS
// @Accept application/json
// @Produce json
// @param MatchJobs body PreferenceRequest true "Preference"
// @param limit query int false "limit"
// @Success 200 {object} ResponseBody{data=MatchResponse}
// @Failure 400 {object} ResponseBody
// @Failure 500 {object} ResponseBody
// @Router /v1/api/jobs/match [post]
func (hdl *HTTPHandler) MatchJobs(c *fiber.Ctx) error {
	var query MatchQuery
	if err := c.QueryParser(&query); err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
	}
	if err := hdl.validator.ValidateStruct(query); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest.withMessages(validator.Messages(err)...)})
	}

	var request PreferenceRequest
	if err := c.BodyParser(&request); err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
	}
	if err := hdl.validator.ValidateStruct(request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest.withMessages(validator.Messages(err)...)})
	}

	limit := hdl.defaultLimit
	if query.Limit != nil {
		limit = *query.Limit
	}

	items, err := hdl.matches.QueryTopN(c.UserContext(), request.ToDomain(), limit)
	if err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusInternalServerError).JSON(ResponseBody{Status: InternalServerError})
	}
	if items == nil {
		items = []domain.MatchItem{}
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: MatchResponse{Total: len(items), Matches: items}})
}

// GetSession func
// GetSession godoc
// @Summary Get session preference
// @Description Returns the preference accumulated by a session
// @Tags SESSIONS
// @Produce json
// @param id path string true "session id"
// @Success 200 {object} ResponseBody{data=SessionResponse}
// @Failure 404 {object} ResponseBody
// @Router /v1/api/sessions/{id} [get]
func (hdl *HTTPHandler) GetSession(c *fiber.Ctx) error {
	id := c.Params("id")
	pref, err := hdl.sessions.GetPreference(c.UserContext(), id)
	if err != nil {
		return hdl.sessionError(c, err)
	}
	if pref.IsEmpty() {
		return c.Status(fiber.StatusNotFound).JSON(ResponseBody{Status: NotFound})
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: SessionResponse{SessionID: id, Preference: pref}})
}

// DeleteSession func
// DeleteSession godoc
// @Summary Reset a session
// @Description Forgets every preference stored for the session
// @Tags SESSIONS
// @Produce json
// @param id path string true "session id"
// @Success 200 {object} ResponseBody
// @Router /v1/api/sessions/{id} [delete]
func (hdl *HTTPHandler) DeleteSession(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := hdl.sessions.ResetSession(c.UserContext(), id); err != nil {
		return hdl.sessionError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: SessionResponse{SessionID: id, Preference: domain.NewPreference()}})
}

func (hdl *HTTPHandler) sessionError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrInvalidSessionID) {
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest.withMessages(err.Error())})
	}
	logrus.Errorln(err)
	return c.Status(fiber.StatusInternalServerError).JSON(ResponseBody{Status: InternalServerError})
}
