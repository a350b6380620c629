package binder

import "net/http"

// Registry maps operationIds to handlers and lists the middleware installed
// ahead of every route. The binder only reads it.
type Registry struct {
	Handlers    map[string]http.Handler
	Middlewares []Middleware
}

// NewRegistry returns a Registry with an empty handler map.
func NewRegistry() *Registry {
	return &Registry{Handlers: make(map[string]http.Handler)}
}

// Handle registers h under operationID.
func (r *Registry) Handle(operationID string, h http.Handler) *Registry {
	if r.Handlers == nil {
		r.Handlers = make(map[string]http.Handler)
	}
	r.Handlers[operationID] = h
	return r
}

// HandleFunc registers fn under operationID.
func (r *Registry) HandleFunc(operationID string, fn func(http.ResponseWriter, *http.Request)) *Registry {
	return r.Handle(operationID, http.HandlerFunc(fn))
}

// Use appends global middlewares.
func (r *Registry) Use(middlewares ...Middleware) *Registry {
	r.Middlewares = append(r.Middlewares, middlewares...)
	return r
}
