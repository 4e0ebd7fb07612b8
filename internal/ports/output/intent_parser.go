package output

import (
	"context"

	"jobmatch-assistant/internal/domain"
)

// IntentParser interface - Output port
// Turns a raw utterance into a best-effort partial preference. It never fails:
// any problem yields an all-unset preference.
type IntentParser interface {
	ParseIntent(ctx context.Context, utterance string) domain.Preference
}
