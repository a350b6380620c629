package responder

import "net/http"

// HandlerFunc is a request handler that reports failure by returning an error.
type HandlerFunc func(w http.ResponseWriter, req *http.Request) error

// Handle adapts fn to http.Handler. A returned error is classified and
// rendered as a problem document; fn must not have written a response in that
// case.
func (r *Responder) Handle(fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if err := fn(w, req); err != nil {
			r.HandleErrors(w, req, err)
		}
	})
}
