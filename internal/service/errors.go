package service

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is.
var (
	// ErrValidation is malformed or missing required input.
	ErrValidation = errors.New("validation error")

	// ErrAuth is a missing, expired or rejected credential (HTTP 401).
	ErrAuth = errors.New("not authenticated")

	// ErrNotFound is an operation on an unknown id (HTTP 404).
	ErrNotFound = errors.New("not found")

	// ErrServer is any other non-2xx response.
	ErrServer = errors.New("server error")

	// ErrNetwork means the request never reached the server.
	ErrNetwork = errors.New("network error")
)

// Error is a classified failure from a resource client.
type Error struct {
	// Kind is one of the Err* sentinels.
	Kind error

	// Status is the HTTP status code, 0 when no response was received.
	Status int

	// Message is the server- or backend-provided message, if any.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	switch {
	case e.Status != 0 && msg != "":
		return fmt.Sprintf("%v (%d): %s", e.Kind, e.Status, msg)
	case e.Status != 0:
		return fmt.Sprintf("%v (%d)", e.Kind, e.Status)
	case msg != "":
		return fmt.Sprintf("%v: %s", e.Kind, msg)
	}
	return e.Kind.Error()
}

// Unwrap exposes both the kind sentinel and the cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Errorf builds an *Error of the given kind with a formatted message.
func Errorf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsAuth reports whether err is an authentication failure.
func IsAuth(err error) bool {
	return errors.Is(err, ErrAuth)
}

// Status returns the HTTP status attached to err, or 0.
func Status(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}
