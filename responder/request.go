package responder

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/drblury/specroute/jsonutil"
)

// ErrBodyRequired reports a request that carried no body where one is needed.
var ErrBodyRequired = NewHTTPError(http.StatusBadRequest, "request body is required")

// IsJSON reports whether contentType names a JSON media type. Structured
// suffixes such as application/problem+json count.
func IsJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// DecodeJSON decodes the body of req into v. Failures are *HTTPError values:
// 415 when Content-Type names something other than JSON, 400 for an empty or
// malformed body. A request without Content-Type is decoded as JSON.
func DecodeJSON(req *http.Request, v any) error {
	if req == nil || req.Body == nil || req.Body == http.NoBody {
		return ErrBodyRequired
	}
	if ct := req.Header.Get("Content-Type"); ct != "" && !IsJSON(ct) {
		return Errorf(http.StatusUnsupportedMediaType, "unsupported content type %q", ct)
	}

	data, err := io.ReadAll(req.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return Errorf(http.StatusRequestEntityTooLarge, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return Errorf(http.StatusBadRequest, "read request body: %w", err)
	}
	return UnmarshalBody(data, v)
}

// UnmarshalBody decodes an already buffered request body into v with the
// same error mapping as DecodeJSON.
func UnmarshalBody(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return ErrBodyRequired
	}
	if err := jsonutil.Unmarshal(data, v); err != nil {
		return Errorf(http.StatusBadRequest, "malformed JSON body: %w", err)
	}
	return nil
}

// ReadRequestBody decodes the request body into v. On failure it renders the
// problem document for the DecodeJSON error and returns false.
func (r *Responder) ReadRequestBody(w http.ResponseWriter, req *http.Request, v any) bool {
	if err := DecodeJSON(req, v); err != nil {
		r.HandleErrors(w, req, err, "failed to parse request body")
		return false
	}
	return true
}

func requestInstance(req *http.Request) string {
	if req == nil || req.URL == nil {
		return ""
	}
	return req.URL.RequestURI()
}

func requestContext(req *http.Request) context.Context {
	if req == nil {
		return context.Background()
	}
	return req.Context()
}
