package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jobmatch-assistant/internal/domain"
	"jobmatch-assistant/internal/observability"
	"jobmatch-assistant/internal/ports/output"

	"github.com/sirupsen/logrus"
)

// Reply texts
const (
	ClarifyIntro  = "To improve match quality, please clarify:"
	NoMatchReply  = "No roles match your current filters. Consider broadening location, title, or compensation range and try again."
	previewHeader = "I found %d option(s). Here are the top %d:\n"
)

// Defaults applied when TurnConfig values are not positive
const (
	DefaultPreviewSize  = 3
	DefaultMaxQuestions = 3
)

// TurnConfig holds the tunables of the orchestrator
type TurnConfig struct {
	TopN         int
	PreviewSize  int
	MaxQuestions int
}

// TurnService struct - Application service running the turn state machine
// Start -> Parsed -> Merged -> Clarifying | Matching -> Done, with Failed reachable from any state.
type TurnService struct {
	parser    output.IntentParser
	store     output.PreferenceStore
	catalog   output.JobCatalog
	clarifier *ClarificationEngine
	matcher   *MatchingEngine
	cfg       TurnConfig
}

// NewTurnService creates a TurnService
func NewTurnService(
	parser output.IntentParser,
	store output.PreferenceStore,
	catalog output.JobCatalog,
	clarifier *ClarificationEngine,
	matcher *MatchingEngine,
	cfg TurnConfig,
) *TurnService {
	if cfg.TopN <= 0 {
		cfg.TopN = DefaultTopN
	}
	if cfg.PreviewSize <= 0 {
		cfg.PreviewSize = DefaultPreviewSize
	}
	if cfg.MaxQuestions <= 0 {
		cfg.MaxQuestions = DefaultMaxQuestions
	}
	return &TurnService{
		parser:    parser,
		store:     store,
		catalog:   catalog,
		clarifier: clarifier,
		matcher:   matcher,
		cfg:       cfg,
	}
}

// turn carries the data of one turn between states
type turn struct {
	sessionID      string
	utterance      string
	parsed         domain.Preference
	merged         domain.Preference
	clarifications []domain.ClarifyQuestion
	result         domain.TurnResult
}

// stageFunc runs one state and returns the next state or a failure
type stageFunc func(ctx context.Context, t *turn) (domain.TurnState, error)

// ProcessTurn runs one conversational turn. It never returns an error and never panics.
//
// The parsed preference is merged into the session before branching, so a
// clarifying turn still keeps what the user said. Any stage error or panic is
// logged with the session id and state, and the caller gets the generic failed
// result instead.
func (s *TurnService) ProcessTurn(ctx context.Context, sessionID, utterance string) (result domain.TurnResult) {
	start := time.Now()
	t := &turn{sessionID: strings.TrimSpace(sessionID), utterance: utterance}
	state := domain.TurnStateStart

	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"session_id": t.sessionID,
				"state":      state,
			}).Errorf("Turn panicked: %v", r)
			result = domain.FailedTurnResult()
		}
		observability.ObserveTurn(result.State, time.Since(start), len(result.TopMatches))
	}()

	stages := map[domain.TurnState]stageFunc{
		domain.TurnStateStart:      s.parse,
		domain.TurnStateParsed:     s.merge,
		domain.TurnStateMerged:     s.branch,
		domain.TurnStateClarifying: s.clarify,
		domain.TurnStateMatching:   s.match,
	}

	for state != domain.TurnStateDone {
		stage, ok := stages[state]
		if !ok {
			return s.fail(t, state, fmt.Errorf("no stage for state %q", state))
		}
		next, err := stage(ctx, t)
		if err != nil {
			return s.fail(t, state, err)
		}
		state = next
	}

	logrus.WithFields(logrus.Fields{
		"session_id":     t.sessionID,
		"clarifications": len(t.result.Clarifications),
		"matches":        len(t.result.TopMatches),
	}).Debug("Turn completed")

	return t.result
}

func (s *TurnService) fail(t *turn, state domain.TurnState, err error) domain.TurnResult {
	logrus.WithFields(logrus.Fields{
		"session_id": t.sessionID,
		"state":      state,
	}).Errorf("Turn failed: %v", err)
	return domain.FailedTurnResult()
}

func (s *TurnService) parse(ctx context.Context, t *turn) (domain.TurnState, error) {
	if t.sessionID == "" {
		return domain.TurnStateFailed, domain.ErrInvalidSessionID
	}
	t.parsed = s.parser.ParseIntent(ctx, t.utterance).Sanitize()
	return domain.TurnStateParsed, nil
}

func (s *TurnService) merge(ctx context.Context, t *turn) (domain.TurnState, error) {
	merged, err := s.store.UpdatePreferences(ctx, t.sessionID, t.parsed)
	if err != nil {
		return domain.TurnStateFailed, fmt.Errorf("merge preferences: %w", err)
	}
	t.merged = merged
	return domain.TurnStateMerged, nil
}

func (s *TurnService) branch(_ context.Context, t *turn) (domain.TurnState, error) {
	t.clarifications = s.clarifier.GenerateClarifications(t.merged)
	if len(t.clarifications) > 0 {
		return domain.TurnStateClarifying, nil
	}
	return domain.TurnStateMatching, nil
}

func (s *TurnService) clarify(_ context.Context, t *turn) (domain.TurnState, error) {
	asked := t.clarifications
	if len(asked) > s.cfg.MaxQuestions {
		asked = asked[:s.cfg.MaxQuestions]
	}
	questions := make([]string, len(asked))
	for i, q := range asked {
		questions[i] = q.Question
	}

	t.result = domain.TurnResult{
		AssistantReply:    ClarifyIntro + "\n- " + strings.Join(questions, "\n- "),
		Clarifications:    t.clarifications,
		ParsedPreferences: t.merged,
		TopMatches:        []domain.MatchItem{},
		State:             domain.TurnStateClarifying,
	}
	return domain.TurnStateDone, nil
}

func (s *TurnService) match(ctx context.Context, t *turn) (domain.TurnState, error) {
	jobs, err := s.catalog.Jobs(ctx)
	if err != nil {
		return domain.TurnStateFailed, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	matches := s.matcher.QueryTopN(t.merged, jobs, s.cfg.TopN)
	t.result = domain.TurnResult{
		AssistantReply:    s.composeMatchReply(matches),
		Clarifications:    []domain.ClarifyQuestion{},
		ParsedPreferences: t.merged,
		TopMatches:        matches,
		State:             domain.TurnStateDone,
	}
	return domain.TurnStateDone, nil
}

func (s *TurnService) composeMatchReply(matches []domain.MatchItem) string {
	if len(matches) == 0 {
		return NoMatchReply
	}

	preview := matches
	if len(preview) > s.cfg.PreviewSize {
		preview = preview[:s.cfg.PreviewSize]
	}

	lines := make([]string, len(preview))
	for i, m := range preview {
		lines[i] = fmt.Sprintf("%d. %s @ %s (%s) — %s", i+1, m.Title, m.Company, m.Location, strings.Join(m.Reasons, "; "))
	}
	return fmt.Sprintf(previewHeader, len(matches), len(preview)) + strings.Join(lines, "\n")
}
