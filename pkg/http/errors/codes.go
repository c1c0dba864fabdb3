package errors

// Error codes for standardized error responses
const (
	// Authentication errors
	ErrCodeUnauthorized           = "unauthorized"
	ErrCodeForbidden              = "forbidden"
	ErrCodeInvalidToken           = "invalid_token"
	ErrCodeAuthenticationRequired = "authentication_required"

	// Validation errors
	ErrCodeInvalidRequest = "invalid_request"
	ErrCodeMissingField   = "missing_field"

	// Resource errors
	ErrCodeNotFound = "not_found"
	ErrCodeConflict = "conflict"

	// Test window errors
	ErrCodeTestNotFound = "test_not_found"
	ErrCodeNotStarted   = "test_not_started"
	ErrCodeEnded        = "test_ended"

	// Submission errors
	ErrCodeParticipantUnknown = "participant_unknown"
	ErrCodeParticipantBlocked = "participant_blocked"
	ErrCodeAlreadySubmitted   = "already_submitted"
	ErrCodeSubmitFailed       = "submit_failed"

	// Reporting errors
	ErrCodeNoSubmission         = "no_submission"
	ErrCodeResponsesFetchFailed = "responses_fetch_failed"
	ErrCodeToppersFetchFailed   = "toppers_fetch_failed"

	// Authoring errors
	ErrCodeTestCreationFailed    = "test_creation_failed"
	ErrCodeQuestionLinkFailed    = "question_link_failed"
	ErrCodeQuestionAlreadyLinked = "question_already_linked"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
	ErrCodeUpstreamError      = "upstream_error"
)
