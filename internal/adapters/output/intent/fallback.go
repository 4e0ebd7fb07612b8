package intent

import (
	"context"
	"fmt"
	"time"

	"jobmatch-assistant/internal/domain"
	"jobmatch-assistant/internal/observability"

	"github.com/sirupsen/logrus"
)

// Parser is a fallible intent parser that can take part in a fallback chain
type Parser interface {
	Name() string
	Parse(ctx context.Context, utterance string) (domain.Preference, error)
}

// FallbackParser tries parsers in order and returns the first success
type FallbackParser struct {
	parsers []Parser
	timeout time.Duration
}

// NewFallbackParser creates a chain. A positive timeout bounds each parser call.
func NewFallbackParser(timeout time.Duration, parsers ...Parser) *FallbackParser {
	return &FallbackParser{parsers: parsers, timeout: timeout}
}

// ParseIntent implements output.IntentParser. When every parser fails the result is all-unset.
func (f *FallbackParser) ParseIntent(ctx context.Context, utterance string) domain.Preference {
	for _, p := range f.parsers {
		pref, err := f.try(ctx, p, utterance)
		if err == nil {
			return pref.Sanitize()
		}

		observability.IntentFallbacks.WithLabelValues(p.Name()).Inc()
		logrus.WithFields(logrus.Fields{
			"parser": p.Name(),
		}).Warnf("Intent parser failed, trying next: %v", err)
	}
	return domain.NewPreference()
}

func (f *FallbackParser) try(ctx context.Context, p Parser, utterance string) (pref domain.Preference, err error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parser %s panicked: %v", p.Name(), r)
		}
	}()

	return p.Parse(ctx, utterance)
}
