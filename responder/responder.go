// Package responder renders JSON payloads and RFC 9457 problem documents for
// the host server, and translates handler errors into HTTP statuses.
package responder

import (
	"errors"
	"log/slog"
	"net/http"
)

const (
	jsonContentType    = "application/json"
	problemContentType = "application/problem+json"
	statusDocBaseURL   = "https://httpstatuses.io"
)

// ErrorClassifierFunc inspects an error and returns the HTTP status that should
// be used for the response. The boolean indicates whether the error was
// classified; unclassified errors fall back to their StatusCode, if any, and
// then to 500.
type ErrorClassifierFunc func(err error) (status int, handled bool)

// ResponderOption configures NewResponder.
type ResponderOption func(*Responder)

type statusMeta struct {
	typeURI  string
	title    string
	logLevel slog.Level
	logMsg   string
}

// StatusMetadata customises how a status code is logged and titled in problem
// documents.
type StatusMetadata struct {
	TypeURI  string
	Title    string
	LogLevel slog.Level
	LogMsg   string
}

// Responder centralises error handling, JSON rendering, and logging for HTTP
// handlers.
type Responder struct {
	log             *slog.Logger
	statusMetadata  map[int]statusMeta
	errorClassifier ErrorClassifierFunc
}

// NewResponder constructs a Responder with default status metadata and the
// global slog logger.
func NewResponder(opts ...ResponderOption) *Responder {
	r := &Responder{
		log:            slog.Default(),
		statusMetadata: defaultStatusMetadata(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// WithLogger injects the logger used for error reporting.
func WithLogger(logger *slog.Logger) ResponderOption {
	return func(r *Responder) {
		if logger != nil {
			r.log = logger
		}
	}
}

// WithErrorClassifier installs a classifier consulted by HandleErrors before
// the StatusCoder fallback.
func WithErrorClassifier(classifier ErrorClassifierFunc) ResponderOption {
	return func(r *Responder) {
		r.errorClassifier = classifier
	}
}

// WithStatusMetadata overrides the metadata used for a specific status code.
func WithStatusMetadata(status int, meta StatusMetadata) ResponderOption {
	return func(r *Responder) {
		if r.statusMetadata == nil {
			r.statusMetadata = make(map[int]statusMeta)
		}
		r.statusMetadata[status] = normalizeStatusMeta(status, statusMeta{
			typeURI:  meta.TypeURI,
			title:    meta.Title,
			logLevel: meta.LogLevel,
			logMsg:   meta.LogMsg,
		})
	}
}

// Logger returns the logger used internally by the responder.
func (r *Responder) Logger() *slog.Logger {
	return r.logger()
}

func (r *Responder) logger() *slog.Logger {
	if r == nil || r.log == nil {
		return slog.Default()
	}
	return r.log
}

func (r *Responder) classifyError(err error) (int, bool) {
	if r.errorClassifier != nil {
		if status, handled := r.errorClassifier(err); handled {
			return status, true
		}
	}
	var sc StatusCoder
	if errors.As(err, &sc) {
		if status := sc.StatusCode(); status >= 400 && status <= 599 {
			return status, true
		}
	}
	return 0, false
}

func defaultStatusMetadata() map[int]statusMeta {
	return map[int]statusMeta{
		http.StatusInternalServerError:   {title: http.StatusText(http.StatusInternalServerError), logLevel: slog.LevelError, logMsg: "Internal Server Error"},
		http.StatusBadRequest:            {title: http.StatusText(http.StatusBadRequest), logLevel: slog.LevelWarn, logMsg: "Bad Request"},
		http.StatusUnauthorized:          {title: http.StatusText(http.StatusUnauthorized), logLevel: slog.LevelWarn, logMsg: "Unauthorized"},
		http.StatusNotFound:              {title: http.StatusText(http.StatusNotFound), logLevel: slog.LevelInfo, logMsg: "Route not found"},
		http.StatusRequestEntityTooLarge: {title: http.StatusText(http.StatusRequestEntityTooLarge), logLevel: slog.LevelWarn, logMsg: "Request body too large"},
		http.StatusTooManyRequests:       {title: http.StatusText(http.StatusTooManyRequests), logLevel: slog.LevelWarn, logMsg: "Rate limit exceeded"},
		http.StatusNotImplemented:        {title: http.StatusText(http.StatusNotImplemented), logLevel: slog.LevelWarn, logMsg: "Operation not implemented"},
	}
}
