package binder

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/drblury/specroute/spec"
)

// Option configures Bind.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger that records each binding and reports registry
// handlers no operation refers to.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Bind installs reg's middlewares on a new Router and then registers the
// handler named by each operation, in order. It stops at the first operation
// whose operationId has no non-nil handler and returns a *HandlerNotFoundError
// without a Router.
func Bind(ops []spec.Operation, reg Registry, opts ...Option) (*Router, error) {
	settings := options{logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(&settings)
		}
	}

	router := NewRouter()
	router.Use(reg.Middlewares...)

	referenced := make(map[string]struct{}, len(ops))
	for _, op := range ops {
		h, ok := reg.Handlers[op.OperationID]
		if !ok || h == nil {
			return nil, &HandlerNotFoundError{
				OperationID: op.OperationID,
				Method:      op.Method,
				Path:        op.Path,
			}
		}
		router.Handle(op.Method, op.Path, op.OperationID, h)
		referenced[op.OperationID] = struct{}{}

		settings.logger.Debug("bound operation",
			"operationId", op.OperationID,
			"method", op.Method,
			"path", op.Path,
		)
	}

	for _, id := range slices.Sorted(maps.Keys(reg.Handlers)) {
		if _, ok := referenced[id]; !ok {
			settings.logger.Warn("handler is not referenced by any operation", "operationId", id)
		}
	}

	return router, nil
}
