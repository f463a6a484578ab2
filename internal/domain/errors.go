package domain

import "errors"

// Error kinds recognized at the API boundary. Workflow and service code
// classifies every expected failure as one of these; anything else surfaces
// as a generic server error.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidState = errors.New("invalid state")
	ErrValidation   = errors.New("validation")
)

type classifiedError struct {
	kind error
	msg  string
}

func (e *classifiedError) Error() string { return e.msg }

func (e *classifiedError) Unwrap() error { return e.kind }

// NotFound returns an error matching ErrNotFound with a caller-facing message.
func NotFound(msg string) error {
	return &classifiedError{kind: ErrNotFound, msg: msg}
}

// Conflict returns an error matching ErrConflict with a caller-facing message.
func Conflict(msg string) error {
	return &classifiedError{kind: ErrConflict, msg: msg}
}

// Forbidden returns an error matching ErrForbidden with a caller-facing message.
func Forbidden(msg string) error {
	return &classifiedError{kind: ErrForbidden, msg: msg}
}

// InvalidState returns an error matching ErrInvalidState with a caller-facing message.
func InvalidState(msg string) error {
	return &classifiedError{kind: ErrInvalidState, msg: msg}
}

// Invalid returns an error matching ErrValidation with a caller-facing message.
func Invalid(msg string) error {
	return &classifiedError{kind: ErrValidation, msg: msg}
}
