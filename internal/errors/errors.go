package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error carries an HTTP status alongside the message so transport layers can
// map failures without inspecting error strings.
type Error struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
	Cause   error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Wrap attaches a cause while keeping the code and message.
func (e *Error) Wrap(cause error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Cause: cause}
}

// Is matches by code and message so sentinel comparisons survive Wrap.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code int, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func InvalidArg(name string) *Error {
	return Newf(http.StatusBadRequest, "invalid argument: %s", name)
}

// Domain taxonomy. MalformedRecord is recoverable at the record granularity:
// callers log and skip, the conversation analysis proceeds.
var (
	ErrMalformedRecord      = New(http.StatusBadRequest, "malformed message record")
	ErrNoMessages           = New(http.StatusUnprocessableEntity, "relationship has no usable messages")
	ErrNoData               = New(http.StatusUnprocessableEntity, "no relationship analyses to aggregate")
	ErrSessionNotFound      = New(http.StatusNotFound, "session not found")
	ErrRelationshipNotFound = New(http.StatusNotFound, "relationship not found")
	ErrInvalidExport        = New(http.StatusBadRequest, "could not find a messages inbox in the export")
)

func MalformedRecord(cause error) *Error {
	return ErrMalformedRecord.Wrap(cause)
}

// HTTPStatus extracts the status code for an error, defaulting to 500.
func HTTPStatus(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return http.StatusInternalServerError
}
