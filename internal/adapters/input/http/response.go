package http

import (
	"net/http"

	"jobmatch-assistant/internal/domain"
)

var (
	// Success response
	Success = Status{Code: http.StatusOK, Message: []string{"Success"}}
	// BadRequest response
	BadRequest = Status{Code: http.StatusBadRequest, Message: []string{"Sorry, Not responding because of incorrect syntax"}}
	// Unauthorized response
	Unauthorized = Status{Code: http.StatusUnauthorized, Message: []string{"Sorry, We are not able to process your request. Please try again"}}
	// NotFound response
	NotFound = Status{Code: http.StatusNotFound, Message: []string{"Sorry, Data not found"}}
	// InternalServerError response
	InternalServerError = Status{Code: http.StatusInternalServerError, Message: []string{"Internal Server Error"}}
)

// ResponseBody struct - Generic HTTP response wrapper
type ResponseBody struct {
	Status Status      `json:"status,omitempty"`
	Data   interface{} `json:"data,omitempty"`
}

// Status struct
type Status struct {
	Code    int      `json:"code,omitempty"`
	Message []string `json:"message,omitempty"`
}

// withMessages returns a copy of the status carrying the given messages
func (s Status) withMessages(messages ...string) Status {
	if len(messages) == 0 {
		return s
	}
	return Status{Code: s.Code, Message: messages}
}

type (
	// ChatResponse struct - HTTP response DTO for one turn
	ChatResponse struct {
		SessionID           string                   `json:"session_id"`
		AssistantReply      string                   `json:"assistant_reply"`
		AskedClarifications []domain.ClarifyQuestion `json:"asked_clarifications"`
		ParsedPreferences   domain.Preference        `json:"parsed_preferences"`
		TopMatches          []domain.MatchItem       `json:"top_matches"`
	}

	// MatchResponse struct - HTTP response DTO for an explicit match query
	MatchResponse struct {
		Total   int                `json:"total"`
		Matches []domain.MatchItem `json:"matches"`
	}

	// SessionResponse struct - HTTP response DTO for a stored session
	SessionResponse struct {
		SessionID  string            `json:"session_id"`
		Preference domain.Preference `json:"preference"`
	}
)

func newChatResponse(sessionID string, result domain.TurnResult) ChatResponse {
	return ChatResponse{
		SessionID:           sessionID,
		AssistantReply:      result.AssistantReply,
		AskedClarifications: result.Clarifications,
		ParsedPreferences:   result.ParsedPreferences,
		TopMatches:          result.TopMatches,
	}
}
