package responder

import (
	"context"
	mathrand "math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

type traceIDKey struct{}

// NewTraceID returns a monotonic ULID string.
func NewTraceID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// ContextWithTraceID stores id so problem documents for this request reuse it.
func ContextWithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, id)
}

// TraceIDFromContext returns the id stored by ContextWithTraceID.
func TraceIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(traceIDKey{}).(string)
	return id, ok && id != ""
}

func traceIDFor(req *http.Request) string {
	if req != nil {
		if id, ok := TraceIDFromContext(req.Context()); ok {
			return id
		}
	}
	return NewTraceID()
}
