package models

import (
	"errors"
	"fmt"
)

// ErrDuplicateIdentity is returned when adding a user whose username is
// already taken. The users collection is left unchanged.
var ErrDuplicateIdentity = errors.New("username already exists")

// ErrCollaboratorUnavailable marks an advisory text call that failed or was
// never configured. Callers receive a canned message, never this error.
var ErrCollaboratorUnavailable = errors.New("advisory collaborator unavailable")

// ErrNotFound is returned when a record id resolves to nothing.
var ErrNotFound = errors.New("record not found")

// ErrInvalidCredentials is returned on a failed login attempt.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ValidationError reports invalid user input on Submit/Edit/Finish. No
// mutation is performed; the caller corrects and retries.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// GuardViolation reports a lifecycle transition attempted from the wrong
// state or by the wrong role. The lifecycle re-validates these itself even
// when the caller claims to have checked.
type GuardViolation struct {
	Status RequestStatus
	Event  string
	Reason string
}

func (e *GuardViolation) Error() string {
	if e.Status == "" {
		return fmt.Sprintf("%s not permitted: %s", e.Event, e.Reason)
	}
	return fmt.Sprintf("%s not permitted from %s: %s", e.Event, e.Status, e.Reason)
}

func NewGuardViolation(status RequestStatus, event, reason string) *GuardViolation {
	return &GuardViolation{Status: status, Event: event, Reason: reason}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsGuardViolation(err error) bool {
	var gv *GuardViolation
	return errors.As(err, &gv)
}
