package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/drblury/specroute/responder"
)

type bodyKey struct{}

// Body returns the decoded JSON body of r. The second result is false when the
// request carried no JSON body or body parsing is disabled.
func Body(r *http.Request) (any, bool) {
	v, ok := r.Context().Value(bodyKey{}).(parsedBody)
	return v.value, ok
}

type parsedBody struct {
	value any
}

// bodyParserMiddleware reads JSON bodies up to limit bytes and stores the
// decoded value on the request context. Handlers still see the raw body,
// rewound to the start.
func bodyParserMiddleware(limit int64, resp *responder.Responder) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil || r.Body == http.NoBody || !responder.IsJSON(r.Header.Get("Content-Type")) {
				next.ServeHTTP(w, r)
				return
			}

			data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					resp.HandleAPIError(w, r, http.StatusRequestEntityTooLarge,
						responder.Errorf(http.StatusRequestEntityTooLarge, "request body exceeds %d bytes", limit))
					return
				}
				resp.HandleBadRequestError(w, r, responder.Errorf(http.StatusBadRequest, "read request body: %w", err))
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(data))
			r.ContentLength = int64(len(data))
			if len(bytes.TrimSpace(data)) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			var v any
			if err := responder.UnmarshalBody(data, &v); err != nil {
				resp.HandleErrors(w, r, err)
				return
			}
			ctx := context.WithValue(r.Context(), bodyKey{}, parsedBody{value: v})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
