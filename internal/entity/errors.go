package entity

import "errors"

// Domain errors
var (
	// Not-found conditions
	ErrSessionNotFound   = errors.New("session not found")
	ErrInterviewNotFound = errors.New("interview not found")
	ErrQuestionNotFound  = errors.New("question not found")

	// Invalid-state conditions: the operation exists but the session's
	// current status forbids it.
	ErrInvalidSessionStatus = errors.New("invalid session status")
	ErrSessionNotCompleted  = errors.New("session is not completed")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidParameter = errors.New("invalid parameter")

	// Generation-service failures. Rate limiting is distinguished so the
	// chat path can answer with a dedicated in-band reply.
	ErrGenerationUnavailable = errors.New("generation service unavailable")
	ErrRateLimited           = errors.New("generation service rate limited")
)
