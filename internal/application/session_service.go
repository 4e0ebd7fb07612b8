package application

import (
	"context"
	"fmt"
	"strings"

	"jobmatch-assistant/internal/domain"
	"jobmatch-assistant/internal/ports/output"
)

// SessionService struct - Application service for inspecting and resetting sessions
type SessionService struct {
	store output.PreferenceStore
}

// NewSessionService creates a SessionService
func NewSessionService(store output.PreferenceStore) *SessionService {
	return &SessionService{store: store}
}

// GetPreference returns the stored preference of a session
func (s *SessionService) GetPreference(ctx context.Context, sessionID string) (domain.Preference, error) {
	if strings.TrimSpace(sessionID) == "" {
		return domain.Preference{}, domain.ErrInvalidSessionID
	}
	pref, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return domain.Preference{}, fmt.Errorf("get session %s: %w", sessionID, err)
	}
	return pref, nil
}

// ResetSession forgets everything known about a session
func (s *SessionService) ResetSession(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return domain.ErrInvalidSessionID
	}
	if err := s.store.Reset(ctx, sessionID); err != nil {
		return fmt.Errorf("reset session %s: %w", sessionID, err)
	}
	return nil
}
