package settlement

import (
	"errors"
	"fmt"
)

// Kind classifies an operation failure for the caller. Every error the
// settlement engine returns carries exactly one kind; the request layer
// maps kinds to status codes without inspecting messages.
type Kind int

const (
	// NotFound: the group, participant or user does not exist.
	NotFound Kind = iota + 1

	// AlreadyPaid: a payment was recorded for a participant whose paid
	// flag is already set.
	AlreadyPaid

	// Unauthorized: a non-creator attempted a creator-only action.
	Unauthorized

	// InvalidInput: the request itself is malformed (non-positive total,
	// empty participant list, missing proof payload).
	InvalidInput

	// PersistenceFailure: the transaction could not commit. The whole
	// operation was rolled back.
	PersistenceFailure
)

// Error is the typed error returned by all settlement operations.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E builds a typed error with a formatted message.
func E(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// IsKind reports whether err is a settlement error of the given kind.
func IsKind(err error, kind Kind) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == kind
}
