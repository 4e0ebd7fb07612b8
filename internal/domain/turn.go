package domain

// ClarifyQuestion is a follow-up question for an unset critical field
type ClarifyQuestion struct {
	Field    string `json:"field"`
	Question string `json:"question"`
}

// TurnState is a state of the turn-processing state machine
type TurnState string

const (
	TurnStateStart      TurnState = "start"
	TurnStateParsed     TurnState = "parsed"
	TurnStateMerged     TurnState = "merged"
	TurnStateClarifying TurnState = "clarifying"
	TurnStateMatching   TurnState = "matching"
	TurnStateDone       TurnState = "done"
	TurnStateFailed     TurnState = "failed"
)

// TurnResult is what one conversational turn returns to the host.
// Clarifications and Matches are never both non-empty.
type TurnResult struct {
	AssistantReply    string            `json:"assistant_reply"`
	Clarifications    []ClarifyQuestion `json:"asked_clarifications"`
	ParsedPreferences Preference        `json:"parsed_preferences"`
	TopMatches        []MatchItem       `json:"top_matches"`
	State             TurnState         `json:"-"`
}

// FailedTurnReply is the fixed apology for a failed turn
const FailedTurnReply = "Sorry, something went wrong while processing your request. Please try again."

// FailedTurnResult returns the fully-reset result of a failed turn
func FailedTurnResult() TurnResult {
	return TurnResult{
		AssistantReply:    FailedTurnReply,
		Clarifications:    []ClarifyQuestion{},
		ParsedPreferences: NewPreference(),
		TopMatches:        []MatchItem{},
		State:             TurnStateFailed,
	}
}
