package output

import (
	"context"

	"jobmatch-assistant/internal/domain"
)

// PreferenceStore interface - Output port
// Keyed, TTL-bounded storage of each session's accumulated preference.
// Concurrent calls for the same session must serialize fetch-merge-persist;
// calls for different sessions must not block each other.
type PreferenceStore interface {
	// Get returns the session's preference, creating an all-unset one when the
	// session is unknown or idle for longer than the TTL. Refreshes last seen.
	Get(ctx context.Context, sessionID string) (domain.Preference, error)

	// UpdatePreferences merges updates into the current preference with
	// overwrite-if-present semantics, persists and returns the result.
	UpdatePreferences(ctx context.Context, sessionID string, updates domain.Preference) (domain.Preference, error)

	// Reset destroys the session record. Resetting an unknown session is not an error.
	Reset(ctx context.Context, sessionID string) error
}
