package aptitude

import "errors"

// Expected business outcomes. These are reported to the caller with a
// specific reason and are never retried.
var (
	ErrTestNotFound       = errors.New("aptitude test not found")
	ErrNotStarted         = errors.New("aptitude test has not started yet")
	ErrEnded              = errors.New("aptitude test has ended")
	ErrParticipantUnknown = errors.New("participant has not registered")
	ErrParticipantBlocked = errors.New("participant is blocked")
	ErrAlreadySubmitted   = errors.New("participant has already appeared for the test")
	ErrNoSubmission       = errors.New("no submission for this test")
)
