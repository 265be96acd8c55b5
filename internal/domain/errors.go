package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrConnection indicates no durable backend is configured or it cannot be reached.
	ErrConnection = errors.New("backend connection unavailable")
	// ErrBackend indicates an execution-time failure inside the durable backend.
	ErrBackend = errors.New("backend error")
	// ErrDuplicateKey indicates a create collided with an existing id or key.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrValidation indicates malformed input caught before any storage call.
	ErrValidation = errors.New("validation failed")

	// ErrMissingRelation is the BackendError cause for a table that does not exist yet.
	ErrMissingRelation = errors.New("relation does not exist")
	// ErrConstraint is the BackendError cause for unique, foreign key and check violations.
	ErrConstraint = errors.New("constraint violation")
)

// HintInitialize is attached to missing-relation errors.
const HintInitialize = "run initialization: POST /api/admin/init-db or go run ./cmd/migrate"

// Kind is the tag carried by failed operation results.
type Kind string

const (
	KindConnection   Kind = "ConnectionError"
	KindBackend      Kind = "BackendError"
	KindNotFound     Kind = "NotFoundError"
	KindDuplicateKey Kind = "DuplicateKeyError"
	KindValidation   Kind = "ValidationError"
)

// Cause subtypes a BackendError.
type Cause string

const (
	CauseMissingRelation Cause = "missing_relation"
	CauseConstraint      Cause = "constraint_violation"
	CauseUnknown         Cause = "unknown"
)

// BackendError is an execution failure reported by the durable backend.
type BackendError struct {
	Cause   Cause
	Code    string
	Message string
	Hint    string
	Err     error
}

func (e *BackendError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = string(e.Cause)
	}
	if e.Code != "" {
		return fmt.Sprintf("backend error (%s): %s", e.Code, msg)
	}
	return "backend error: " + msg
}

func (e *BackendError) Unwrap() error { return e.Err }

// Is matches ErrBackend and the sentinel of the error's cause.
func (e *BackendError) Is(target error) bool {
	switch target {
	case ErrBackend:
		return true
	case ErrMissingRelation:
		return e.Cause == CauseMissingRelation
	case ErrConstraint:
		return e.Cause == CauseConstraint
	}
	return false
}

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports input rejected before reaching storage.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

// NewValidationError builds a ValidationError with a plain message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	if len(msgs) == 0 {
		return ErrValidation.Error()
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// KindOf maps err onto the tagged-result taxonomy. Unknown errors are BackendError.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrDuplicateKey):
		return KindDuplicateKey
	case errors.Is(err, ErrConnection):
		return KindConnection
	default:
		return KindBackend
	}
}

// HintOf returns the actionable hint attached to err, if any.
func HintOf(err error) string {
	var be *BackendError
	if errors.As(err, &be) {
		return be.Hint
	}
	return ""
}

// Unavailable reports whether err means the durable tier could not serve the
// call at all, as opposed to rejecting it for a data reason.
func Unavailable(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDuplicateKey),
		errors.Is(err, ErrConstraint), errors.Is(err, ErrValidation):
		return false
	}
	return true
}
