package server

import (
	"log/slog"

	"github.com/drblury/specroute/binder"
	"github.com/drblury/specroute/info"
	"github.com/drblury/specroute/probe"
	"github.com/drblury/specroute/responder"
)

// Middleware wraps an http.Handler to produce a new http.Handler.
type Middleware = binder.Middleware

// Option configures Build via the functional options pattern.
type Option func(*options)

var defaultHiddenHeaders = []string{"Authorization", "Cookie", "Proxy-Authorization", "X-Api-Key"}

type options struct {
	logger           *slog.Logger
	responder        *responder.Responder
	prepend          []Middleware
	append           []Middleware
	override         []Middleware
	hideHeaders      []string
	infoOptions      []info.InfoOption
	readinessChecks  []probe.Func
	enableCORS       bool
	enableTimeout    bool
	enableLogging    bool
	enableBodyParser bool
}

func defaultOptions() *options {
	return &options{
		logger:           slog.Default(),
		hideHeaders:      cloneStrings(defaultHiddenHeaders),
		enableCORS:       true,
		enableTimeout:    true,
		enableLogging:    true,
		enableBodyParser: true,
	}
}

// WithLogger sets the logger shared by the binder, the responder, and the
// logging middleware.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithResponder replaces the responder that renders problem documents.
func WithResponder(r *responder.Responder) Option {
	return func(o *options) {
		o.responder = r
	}
}

// WithMiddlewares prepends custom middlewares ahead of the default chain.
func WithMiddlewares(middlewares ...Middleware) Option {
	return func(o *options) {
		o.prepend = append(o.prepend, middlewares...)
	}
}

// WithTrailingMiddlewares appends middlewares after the default chain, so they
// run closest to the routes.
func WithTrailingMiddlewares(middlewares ...Middleware) Option {
	return func(o *options) {
		o.append = append(o.append, middlewares...)
	}
}

// WithMiddlewareChain fully overrides the host middleware chain.
func WithMiddlewareChain(middlewares ...Middleware) Option {
	cloned := make([]Middleware, len(middlewares))
	copy(cloned, middlewares)
	return func(o *options) {
		o.override = cloned
	}
}

// WithHiddenHeaders replaces the request headers redacted in access logs.
func WithHiddenHeaders(headers ...string) Option {
	cloned := cloneStrings(headers)
	return func(o *options) {
		o.hideHeaders = cloned
	}
}

// WithInfoOptions passes extra options to the info handler.
func WithInfoOptions(opts ...info.InfoOption) Option {
	return func(o *options) {
		o.infoOptions = append(o.infoOptions, opts...)
	}
}

// WithReadinessChecks adds checks to the readiness endpoint next to the
// built-in listener check.
func WithReadinessChecks(checks ...probe.Func) Option {
	return func(o *options) {
		o.readinessChecks = append(o.readinessChecks, checks...)
	}
}

// WithoutCORSMiddleware disables CORS regardless of configuration.
func WithoutCORSMiddleware() Option {
	return func(o *options) {
		o.enableCORS = false
	}
}

// WithoutTimeoutMiddleware disables the request timeout.
func WithoutTimeoutMiddleware() Option {
	return func(o *options) {
		o.enableTimeout = false
	}
}

// WithoutLoggingMiddleware disables access logging.
func WithoutLoggingMiddleware() Option {
	return func(o *options) {
		o.enableLogging = false
	}
}

// WithoutBodyParser disables JSON body parsing.
func WithoutBodyParser() Option {
	return func(o *options) {
		o.enableBodyParser = false
	}
}

func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	cloned := make([]string, len(values))
	copy(cloned, values)
	return cloned
}
