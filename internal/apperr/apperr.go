// Package apperr defines the error taxonomy shared by the services and the
// HTTP layer. Every error that should reach a client with a specific status
// code is an *Error carrying a Kind; anything else is treated as internal.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the purpose of choosing a response status.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuth
	KindNotFound
	KindConflict
	KindPersistence
	KindClassification
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindPersistence:
		return "persistence"
	case KindClassification:
		return "classification"
	default:
		return "internal"
	}
}

// Error is the structured error returned by the service layer.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap exposes the cause to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

func Validation(msg string) *Error { return newError(KindValidation, msg, nil) }

func Auth(msg string) *Error { return newError(KindAuth, msg, nil) }

func NotFound(msg string) *Error { return newError(KindNotFound, msg, nil) }

func Conflict(msg string) *Error { return newError(KindConflict, msg, nil) }

func Persistence(msg string, cause error) *Error {
	return newError(KindPersistence, msg, cause)
}

func Classification(cause error) *Error {
	return newError(KindClassification, "classification failed", cause)
}

func Internal(msg string, cause error) *Error {
	return newError(KindInternal, msg, cause)
}

// KindOf returns the Kind of the first *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps err to the response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message is the text placed in the {"error": ...} response body. Client
// errors expose only their message; server errors expose the full chain.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		switch ae.Kind {
		case KindValidation, KindAuth, KindNotFound, KindConflict:
			return ae.Message
		}
	}
	return err.Error()
}
