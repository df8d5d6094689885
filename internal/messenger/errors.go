package messenger

import (
	"errors"
	"fmt"
)

// Sentinel domain errors. Handlers translate these into transport-level
// responses; the core never constructs transport types.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username or phone already taken")

	// ErrForbidden is the uniform authorization denial. Deliberately carries
	// no detail: an unauthorized caller learns nothing about whether the
	// target exists.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is used only where existence is not sensitive, e.g. a
	// direct-message peer id that matches no user.
	ErrNotFound = errors.New("not found")

	ErrNotOwner      = errors.New("only the channel owner may manage admins")
	ErrTargetIsOwner = errors.New("the channel owner cannot be granted admin")
	ErrAlreadyAdmin  = errors.New("user is already an admin of this channel")
	ErrAdminNotFound = errors.New("user is not an admin of this channel")
)

type ValidationReason string

const (
	MissingField     ValidationReason = "missing_field"
	PasswordMismatch ValidationReason = "password_mismatch"
	PasswordTooShort ValidationReason = "password_too_short"
	EmptyText        ValidationReason = "empty_text"
	MissingTarget    ValidationReason = "missing_target"
)

// ValidationError reports bad input the caller can correct and resubmit.
type ValidationError struct {
	Reason ValidationReason
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case MissingField:
		return "all fields are required"
	case PasswordMismatch:
		return "passwords do not match"
	case PasswordTooShort:
		return fmt.Sprintf("password must be at least %d characters", minPasswordLen)
	case EmptyText:
		return "message text cannot be empty"
	case MissingTarget:
		return "a conversation target must be specified"
	default:
		return string(e.Reason)
	}
}

func newValidationError(reason ValidationReason) *ValidationError {
	return &ValidationError{Reason: reason}
}
