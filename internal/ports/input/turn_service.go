package input

import (
	"context"

	"jobmatch-assistant/internal/domain"
)

// TurnService interface - Input port (use case)
// Processes one conversational turn. Never returns an error: failures become the
// fixed apology result.
type TurnService interface {
	ProcessTurn(ctx context.Context, sessionID, utterance string) domain.TurnResult
}

// MatchService interface - Input port (use case)
// Ranks the catalog against an explicit preference, bypassing the conversation.
type MatchService interface {
	QueryTopN(ctx context.Context, preference domain.Preference, n int) ([]domain.MatchItem, error)
}

// SessionService interface - Input port (use case)
// Inspects and resets stored session preferences.
type SessionService interface {
	GetPreference(ctx context.Context, sessionID string) (domain.Preference, error)
	ResetSession(ctx context.Context, sessionID string) error
}
