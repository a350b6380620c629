package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/drblury/specroute/binder"
)

const ordersDoc = `
paths:
  /orders:
    post:
      operationId: createOrder
`

func TestBodyParser(t *testing.T) {
	var (
		parsed  any
		hasBody bool
		raw     string
	)
	reg := *binder.NewRegistry().HandleFunc("createOrder", func(w http.ResponseWriter, r *http.Request) {
		parsed, hasBody = Body(r)
		data, _ := io.ReadAll(r.Body)
		raw = string(data)
		w.WriteHeader(http.StatusCreated)
	})

	cfg := testConfig()
	cfg.HTTP.MaxBodyBytes = 32

	s, err := Build(cfg, []byte(ordersDoc), reg, WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	post := func(contentType, body string) *httptest.ResponseRecorder {
		parsed, hasBody, raw = nil, false, ""
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		rr := httptest.NewRecorder()
		s.Handler().ServeHTTP(rr, req)
		return rr
	}

	t.Run("json body is decoded and rewound", func(t *testing.T) {
		rr := post("application/json; charset=utf-8", `{"sku":"a-1","qty":2}`)
		if rr.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rr.Code)
		}
		if !hasBody || !reflect.DeepEqual(parsed, map[string]any{"sku": "a-1", "qty": float64(2)}) {
			t.Fatalf("unexpected parsed body %#v", parsed)
		}
		if raw != `{"sku":"a-1","qty":2}` {
			t.Fatalf("expected raw body to be readable, got %q", raw)
		}
	})

	t.Run("vendor json media type", func(t *testing.T) {
		post("application/merge-patch+json", `[1]`)
		if !hasBody {
			t.Fatal("expected +json body to be decoded")
		}
	})

	t.Run("non json passes through", func(t *testing.T) {
		rr := post("text/plain", "not json at all")
		if rr.Code != http.StatusCreated || hasBody || raw != "not json at all" {
			t.Fatalf("expected passthrough, got %d hasBody=%v raw=%q", rr.Code, hasBody, raw)
		}
	})

	t.Run("empty json body", func(t *testing.T) {
		rr := post("application/json", "  ")
		if rr.Code != http.StatusCreated || hasBody {
			t.Fatalf("expected empty body to pass through, got %d hasBody=%v", rr.Code, hasBody)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		rr := post("application/json", `{"sku":`)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rr.Code)
		}
		if problem := decodeProblem(t, rr.Body.Bytes()); !strings.HasPrefix(problem.Detail, "malformed JSON body") {
			t.Fatalf("unexpected problem %+v", problem)
		}
	})

	t.Run("body too large", func(t *testing.T) {
		rr := post("application/json", `{"sku":"`+strings.Repeat("x", 64)+`"}`)
		if rr.Code != http.StatusRequestEntityTooLarge {
			t.Fatalf("expected 413, got %d", rr.Code)
		}
		if problem := decodeProblem(t, rr.Body.Bytes()); problem.Detail != "request body exceeds 32 bytes" {
			t.Fatalf("unexpected problem %+v", problem)
		}
	})
}

func TestBodyParserCanBeDisabled(t *testing.T) {
	var hasBody bool
	reg := *binder.NewRegistry().HandleFunc("createOrder", func(w http.ResponseWriter, r *http.Request) {
		_, hasBody = Body(r)
	})

	s, err := Build(testConfig(), []byte(ordersDoc), reg, WithLogger(discardLogger()), WithoutBodyParser())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"sku":`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK || hasBody {
		t.Fatalf("expected raw passthrough, got %d hasBody=%v", rr.Code, hasBody)
	}
}
