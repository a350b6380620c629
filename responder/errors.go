package responder

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotFound matches every *NotFoundError via errors.Is.
var ErrNotFound = errors.New("route not found")

// StatusCoder is implemented by errors that carry an HTTP status code.
type StatusCoder interface {
	StatusCode() int
}

// HTTPError is an error with an HTTP status code and a client-facing message.
type HTTPError struct {
	Status  int
	Message string
	Err     error
}

// NewHTTPError returns an error rendered with status and message.
func NewHTTPError(status int, message string) *HTTPError {
	return &HTTPError{Status: status, Message: message}
}

// Errorf returns an HTTPError with a formatted message. A %w verb is kept as
// the wrapped cause.
func Errorf(status int, format string, args ...any) *HTTPError {
	err := fmt.Errorf(format, args...)
	return &HTTPError{Status: status, Message: err.Error(), Err: errors.Unwrap(err)}
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.Status)
}

func (e *HTTPError) StatusCode() int { return e.Status }

func (e *HTTPError) Unwrap() error { return e.Err }

// NotFoundError is raised for requests that match no route.
type NotFoundError struct {
	Method string
	Path   string
}

// NewNotFoundError returns the error rendered by the host's catch-all stage.
func NewNotFoundError(method, path string) *NotFoundError {
	return &NotFoundError{Method: method, Path: path}
}

func (e *NotFoundError) Error() string {
	if e.Method == "" && e.Path == "" {
		return ErrNotFound.Error()
	}
	return fmt.Sprintf("%s: %s %s", ErrNotFound, strings.ToUpper(e.Method), e.Path)
}

func (e *NotFoundError) StatusCode() int { return http.StatusNotFound }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
