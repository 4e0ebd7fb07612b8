package domain

import "errors"

// LM Studio error types

var (
	// ErrLMStudioUnavailable indicates the LM Studio service is unavailable
	ErrLMStudioUnavailable = errors.New("lm studio service unavailable")

	// ErrLMStudioTimeout indicates a request to LM Studio timed out
	ErrLMStudioTimeout = errors.New("lm studio request timeout")

	// ErrInvalidRequest indicates an invalid request was made (4xx client errors)
	ErrInvalidRequest = errors.New("invalid request")
)

// Text generation error types

var (
	// ErrEmptyCompletion indicates the model answered with no usable text
	ErrEmptyCompletion = errors.New("empty completion")

	// ErrGeneratorNotConfigured indicates a text generator was used without credentials or client
	ErrGeneratorNotConfigured = errors.New("text generator not configured")
)

// Turn processing error types

var (
	// ErrInvalidSessionID indicates a blank session identifier
	ErrInvalidSessionID = errors.New("invalid session id")

	// ErrSessionStore indicates the preference store could not be read or written
	ErrSessionStore = errors.New("session store failure")

	// ErrCatalogUnavailable indicates the job catalog could not be loaded
	ErrCatalogUnavailable = errors.New("job catalog unavailable")
)
