package binder

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
)

func TestRouterMountDispatchesByMethodAndPath(t *testing.T) {
	router := NewRouter()
	router.Handle("GET", "/users/{id}", "showUser", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-User", mux.Vars(r)["id"])
		w.WriteHeader(http.StatusOK)
	}))
	router.Handle("post", "/users", "createUser", statusHandler(http.StatusCreated))

	handler, err := router.Mount(WithNotFoundHandler(statusHandler(http.StatusNotFound)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testCases := []struct {
		name   string
		method string
		target string
		status int
	}{
		{name: "template match", method: http.MethodGet, target: "/users/42", status: http.StatusOK},
		{name: "second binding", method: http.MethodPost, target: "/users", status: http.StatusCreated},
		{name: "unknown path", method: http.MethodGet, target: "/orders", status: http.StatusNotFound},
		{name: "method mismatch", method: http.MethodDelete, target: "/users", status: http.StatusNotFound},
		{name: "head served by get", method: http.MethodHead, target: "/users/42", status: http.StatusOK},
		{name: "head without get", method: http.MethodHead, target: "/users", status: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.target, nil))
			if rr.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, rr.Code)
			}
		})
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users/42", nil))
	if got := rr.Header().Get("X-User"); got != "42" {
		t.Fatalf("expected template variable to reach handler, got %q", got)
	}
}

func TestRouterMiddlewareRunsForUnmatchedRequests(t *testing.T) {
	var order []string
	router := NewRouter()
	router.Use(recordingMiddleware("global", &order))
	router.Handle("get", "/users", "listUsers", statusHandler(http.StatusOK))

	handler, err := router.Mount()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/missing", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected default not found, got %d", rr.Code)
	}
	if len(order) != 2 || order[0] != "global-before" {
		t.Fatalf("expected middleware to wrap the not found path, got %v", order)
	}
}

func TestRouterUseSkipsNil(t *testing.T) {
	router := NewRouter()
	router.Use(nil, recordingMiddleware("a", &[]string{}), nil)
	if got := len(router.Middlewares()); got != 1 {
		t.Fatalf("expected nil middlewares to be dropped, got %d", got)
	}
}

func TestRouterHandleNormalizesMethod(t *testing.T) {
	router := NewRouter()
	router.Handle("PATCH", "/a", "first", statusHandler(http.StatusOK))
	router.Handle("patch", "/a", "second", statusHandler(http.StatusOK))

	bindings := router.Bindings()
	if len(bindings) != 1 {
		t.Fatalf("expected case variants to collapse, got %d bindings", len(bindings))
	}
	if bindings[0].Method != "patch" || bindings[0].OperationID != "second" {
		t.Fatalf("unexpected binding %+v", bindings[0])
	}
}

func TestRouterMountRejectsMalformedTemplate(t *testing.T) {
	router := NewRouter()
	router.Handle("get", "/users/{id", "showUser", statusHandler(http.StatusOK))

	handler, err := router.Mount()
	if handler != nil {
		t.Fatal("expected no handler")
	}
	var rerr *RouteError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *RouteError, got %v", err)
	}
	if rerr.Binding.OperationID != "showUser" {
		t.Fatalf("unexpected binding in error: %+v", rerr.Binding)
	}
}

func TestRouterExplicitHeadBindingWins(t *testing.T) {
	router := NewRouter()
	router.Handle("get", "/files/{name}", "getFile", statusHandler(http.StatusOK))
	router.Handle("head", "/files/{name}", "statFile", statusHandler(http.StatusNoContent))

	handler, err := router.Mount()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodHead, "/files/a.txt", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected the head binding to serve HEAD, got %d", rr.Code)
	}
}

func TestRouterLookup(t *testing.T) {
	router := NewRouter()
	router.Handle("get", "/users", "listUsers", statusHandler(http.StatusOK))
	router.Handle("get", "/users/{id}", "getUser", statusHandler(http.StatusOK))
	router.Handle("post", "/users", "createUser", statusHandler(http.StatusCreated))

	testCases := []struct {
		method      string
		path        string
		operationID string
	}{
		{method: "GET", path: "/users", operationID: "listUsers"},
		{method: "get", path: "/users/7", operationID: "getUser"},
		{method: "HEAD", path: "/users/7", operationID: "getUser"},
		{method: "POST", path: "/users", operationID: "createUser"},
		{method: "DELETE", path: "/users"},
		{method: "GET", path: "/orders"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			b, ok := router.Lookup(tc.method, tc.path)
			if ok != (tc.operationID != "") || b.OperationID != tc.operationID {
				t.Fatalf("expected %q, got %+v (found=%v)", tc.operationID, b, ok)
			}
		})
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	handler := Chain(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { order = append(order, "handler") }),
		recordingMiddleware("one", &order),
		nil,
		recordingMiddleware("two", &order),
	)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	expected := []string{"one-before", "two-before", "handler", "two-after", "one-after"}
	if len(order) != len(expected) {
		t.Fatalf("unexpected order: %v", order)
	}
	for i := range expected {
		if order[i] != expected[i] {
			t.Fatalf("unexpected order: got %v want %v", order, expected)
		}
	}
}
