package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the kind of failure that abandoned a unit of work
type ErrorType string

const (
	ErrorTypeTransport   ErrorType = "transport"
	ErrorTypeStatus      ErrorType = "status"
	ErrorTypeMalformed   ErrorType = "malformed"
	ErrorTypeFileSystem  ErrorType = "filesystem"
	ErrorTypeInterrupted ErrorType = "interrupted"
)

// Error represents a typed failure with the URL or file it concerns
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Target  string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d) for %s: %s", e.Type, e.Code, e.Target, msg)
	}
	return fmt.Sprintf("%s error for %s: %s", e.Type, e.Target, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewTransport reports a network or connection failure for url
func NewTransport(url string, err error) *Error {
	return &Error{Type: ErrorTypeTransport, Message: "request failed", Target: url, Err: err}
}

// NewStatus reports a non-2xx HTTP response for url
func NewStatus(url string, code int) *Error {
	return &Error{
		Type:    ErrorTypeStatus,
		Message: fmt.Sprintf("unexpected status %d", code),
		Code:    code,
		Target:  url,
	}
}

// NewMalformed reports a body that could not be parsed as JSON
func NewMalformed(url string, err error) *Error {
	return &Error{Type: ErrorTypeMalformed, Message: "response is not valid JSON", Target: url, Err: err}
}

// NewFileSystem reports a read or write failure on path
func NewFileSystem(path string, err error) *Error {
	return &Error{Type: ErrorTypeFileSystem, Message: "file operation failed", Target: path, Err: err}
}

// NewInterrupted reports work abandoned because the run was cancelled
func NewInterrupted(target string, err error) *Error {
	return &Error{Type: ErrorTypeInterrupted, Message: "interrupted", Target: target, Err: err}
}

// TypeOf returns the ErrorType carried by err, or "" when err is untyped
func TypeOf(err error) ErrorType {
	var typed *Error
	if stderrors.As(err, &typed) {
		return typed.Type
	}
	return ""
}

// IsType reports whether err carries the given ErrorType
func IsType(err error, t ErrorType) bool {
	return TypeOf(err) == t
}

// IsSuccessStatus reports whether an HTTP status code is in the 2xx range
func IsSuccessStatus(code int) bool {
	return code >= 200 && code < 300
}

// Reason returns the human readable cause of err without the target it
// concerns, for use next to a URL or path that is reported separately.
func Reason(err error) string {
	var typed *Error
	if stderrors.As(err, &typed) {
		if typed.Err != nil {
			return fmt.Sprintf("%s: %v", typed.Message, typed.Err)
		}
		return typed.Message
	}
	return err.Error()
}
