package binder

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
)

// Middleware wraps an http.Handler to produce a new http.Handler.
type Middleware func(http.Handler) http.Handler

// Binding associates a lowercase method and a path template with the handler
// registered for an operation.
type Binding struct {
	Method      string
	Path        string
	OperationID string
	Handler     http.Handler
}

type routeKey struct {
	method string
	path   string
}

// Router is an ordered table of bindings plus the middleware that runs ahead
// of every request. It is populated once during boot and read-only afterwards.
type Router struct {
	middlewares []Middleware
	bindings    []Binding
	index       map[routeKey]int
}

// NewRouter returns an empty Router.
func NewRouter() *Router {
	return &Router{index: make(map[routeKey]int)}
}

// Use appends middlewares in order. Nil entries are ignored.
func (r *Router) Use(middlewares ...Middleware) {
	for _, mw := range middlewares {
		if mw != nil {
			r.middlewares = append(r.middlewares, mw)
		}
	}
}

// Handle registers h for method and path. Registering the same method and path
// again replaces the handler but keeps the original position in the table.
func (r *Router) Handle(method, path, operationID string, h http.Handler) {
	b := Binding{
		Method:      strings.ToLower(method),
		Path:        path,
		OperationID: operationID,
		Handler:     h,
	}
	key := routeKey{method: b.Method, path: b.Path}
	if idx, ok := r.index[key]; ok {
		r.bindings[idx] = b
		return
	}
	r.index[key] = len(r.bindings)
	r.bindings = append(r.bindings, b)
}

// Middlewares returns the installed middleware in installation order.
func (r *Router) Middlewares() []Middleware {
	out := make([]Middleware, len(r.middlewares))
	copy(out, r.middlewares)
	return out
}

// Bindings returns the route table in registration order.
func (r *Router) Bindings() []Binding {
	out := make([]Binding, len(r.bindings))
	copy(out, r.bindings)
	return out
}

// Len returns the number of distinct method and path bindings.
func (r *Router) Len() int {
	return len(r.bindings)
}

// Vars returns the path template variables matched for r, such as "id" for
// /users/{id}.
func Vars(r *http.Request) map[string]string {
	return mux.Vars(r)
}

// RouteError reports a binding whose path template the dispatcher rejected.
type RouteError struct {
	Binding Binding
	Err     error
}

func (e *RouteError) Error() string {
	return fmt.Sprintf("route %s %s (%s): %v", strings.ToUpper(e.Binding.Method), e.Binding.Path, e.Binding.OperationID, e.Err)
}

func (e *RouteError) Unwrap() error {
	return e.Err
}

// Mount builds the dispatching handler. Every binding becomes a route matched
// on its path template and method; a GET binding also answers HEAD unless the
// table binds HEAD for the same path. Anything unmatched is passed to the
// not-found handler. The middleware list wraps the whole dispatcher, so it
// runs for unmatched requests too, first installed outermost.
func (r *Router) Mount(opts ...MountOption) (http.Handler, error) {
	settings := mountOptions{notFound: http.NotFoundHandler()}
	for _, opt := range opts {
		if opt != nil {
			opt(&settings)
		}
	}

	m, err := r.dispatcher()
	if err != nil {
		return nil, err
	}
	m.NotFoundHandler = settings.notFound
	m.MethodNotAllowedHandler = settings.notFound

	return Chain(m, r.middlewares...), nil
}

// Lookup returns the binding that would serve method and path, if any.
func (r *Router) Lookup(method, path string) (Binding, bool) {
	m, err := r.dispatcher()
	if err != nil {
		return Binding{}, false
	}
	req, err := http.NewRequest(strings.ToUpper(method), path, nil)
	if err != nil {
		return Binding{}, false
	}

	var match mux.RouteMatch
	if !m.Match(req, &match) || match.MatchErr != nil || match.Route == nil {
		return Binding{}, false
	}
	idx, err := strconv.Atoi(match.Route.GetName())
	if err != nil {
		return Binding{}, false
	}
	return r.bindings[idx], true
}

func (r *Router) dispatcher() (*mux.Router, error) {
	m := mux.NewRouter()
	for i, b := range r.bindings {
		methods := []string{strings.ToUpper(b.Method)}
		if b.Method == "get" {
			if _, ok := r.index[routeKey{method: "head", path: b.Path}]; !ok {
				methods = append(methods, http.MethodHead)
			}
		}
		route := m.Handle(b.Path, b.Handler).Methods(methods...).Name(strconv.Itoa(i))
		if err := route.GetError(); err != nil {
			return nil, &RouteError{Binding: b, Err: err}
		}
	}
	return m, nil
}

// MountOption configures Router.Mount.
type MountOption func(*mountOptions)

type mountOptions struct {
	notFound http.Handler
}

// WithNotFoundHandler sets the handler for requests that match no binding.
func WithNotFoundHandler(h http.Handler) MountOption {
	return func(o *mountOptions) {
		if h != nil {
			o.notFound = h
		}
	}
}

// Chain wraps handler so that middlewares run in the given order, the first
// one outermost.
func Chain(handler http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] == nil {
			continue
		}
		handler = middlewares[i](handler)
	}
	return handler
}
