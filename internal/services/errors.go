package services

import "errors"

// Domain rule violations surfaced to callers. Handlers map these to
// HTTP statuses; the messages are user-facing.
var (
	ErrAccessDenied         = errors.New("access denied")
	ErrPendingResignation   = errors.New("you already have a pending resignation request")
	ErrAlreadyReviewed      = errors.New("resignation has already been reviewed")
	ErrInterviewNotApproved = errors.New("exit interview can only be submitted for approved resignations")
	ErrInterviewExists      = errors.New("exit interview already submitted for this resignation")
)

// ValidationError reports missing or malformed input. The message names
// the offending field or rule and is safe to return to the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(message string) error {
	return &ValidationError{Message: message}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
