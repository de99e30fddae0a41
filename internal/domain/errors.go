package domain

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by the service wraps exactly one of these so the
// transport layer can pick a status code with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrAuth       = errors.New("not authorized")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrStorage    = errors.New("storage error")
)

var (
	// ErrQuestionNotFound is returned for an unknown question number.
	ErrQuestionNotFound = newError(ErrNotFound, "question not found")
	// ErrResultNotFound is returned for an unknown result id.
	ErrResultNotFound = newError(ErrNotFound, "quiz result not found")
	// ErrAdminNotFound is returned when no admin matches a lookup.
	ErrAdminNotFound = newError(ErrNotFound, "admin not found")

	// ErrQuestionsInitialized is returned when the question bank is already seeded.
	ErrQuestionsInitialized = newError(ErrConflict, "questions already initialized")
	// ErrAdminAlreadyExists is returned when a non-default admin is already registered.
	ErrAdminAlreadyExists = newError(ErrConflict, "another admin user already exists")
	// ErrDefaultAdminMissing is returned when registration finds no default admin to replace.
	ErrDefaultAdminMissing = newError(ErrConflict, "default admin does not exist")
	// ErrEmailTaken is returned when a store rejects a duplicate email.
	ErrEmailTaken = newError(ErrConflict, "email already registered")

	// ErrInvalidCredentials never says whether the email exists.
	ErrInvalidCredentials = newError(ErrAuth, "invalid credentials")
	// ErrDefaultLoginDisabled is returned for the reserved login once a real admin exists.
	ErrDefaultLoginDisabled = newError(ErrAuth, "default admin login is not allowed once another admin has been created")
	// ErrInvalidToken covers missing, malformed and expired bearer tokens.
	ErrInvalidToken = newError(ErrAuth, "invalid or missing token")

	// ErrNoQuestionsParsed is returned when the seed file yields no questions.
	ErrNoQuestionsParsed = newError(ErrValidation, "no questions parsed from file")
)

// categorized is a sentinel with its own message that still matches its category.
type categorized struct {
	category error
	msg      string
}

func newError(category error, msg string) error {
	return &categorized{category: category, msg: msg}
}

func (e *categorized) Error() string { return e.msg }

func (e *categorized) Unwrap() error { return e.category }

// ValidationCode tags the reason a submission or request body was rejected.
type ValidationCode string

const (
	InvalidAnswerCount    ValidationCode = "InvalidAnswerCount"
	InvalidSelectionCount ValidationCode = "InvalidSelectionCount"
	InvalidOptionKey      ValidationCode = "InvalidOptionKey"
	InvalidRequest        ValidationCode = "InvalidRequest"
)

// ValidationError describes a rejected request. It matches ErrValidation.
type ValidationError struct {
	Code           ValidationCode
	QuestionNumber int
	Position       int // index of the offending answer, -1 when not applicable
	Key            string
	Message        string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a request-level validation error.
func NewValidationError(code ValidationCode, msg string) *ValidationError {
	return &ValidationError{Code: code, Position: -1, Message: msg}
}

// StorageError wraps a driver error so it matches ErrStorage.
func StorageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
