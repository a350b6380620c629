package info

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func TestInfoHandler_GetStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	NewInfoHandler().GetStatus(rr, httptest.NewRequest(http.MethodGet, "/info/status", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if payload := decodeProbePayload(t, rr.Body.Bytes()); payload.Status != "HEALTHY" {
		t.Fatalf("expected status HEALTHY, got %s", payload.Status)
	}
}

func TestInfoHandler_Probes(t *testing.T) {
	sentinel := errors.New("upstream down")
	testCases := []struct {
		name   string
		opt    InfoOption
		serve  func(*InfoHandler, http.ResponseWriter, *http.Request)
		status int
		state  string
	}{
		{name: "healthz ok", opt: WithLivenessChecks(func(context.Context) error { return nil }), serve: (*InfoHandler).GetHealthz, status: http.StatusOK, state: "ok"},
		{name: "healthz failing", opt: WithLivenessChecks(func(context.Context) error { return sentinel }), serve: (*InfoHandler).GetHealthz, status: http.StatusServiceUnavailable},
		{name: "readyz ok", opt: WithReadinessChecks(func(context.Context) error { return nil }), serve: (*InfoHandler).GetReadyz, status: http.StatusOK, state: "ready"},
		{name: "readyz failing", opt: WithReadinessChecks(func(context.Context) error { return sentinel }), serve: (*InfoHandler).GetReadyz, status: http.StatusServiceUnavailable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewInfoHandler(tc.opt)
			rr := httptest.NewRecorder()
			tc.serve(handler, rr, httptest.NewRequest(http.MethodGet, "/probe", nil))

			if rr.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, rr.Code)
			}
			if tc.status == http.StatusOK {
				if payload := decodeProbePayload(t, rr.Body.Bytes()); payload.Status != tc.state {
					t.Fatalf("expected state %q, got %q", tc.state, payload.Status)
				}
				return
			}
			problem := decodeProblemDetails(t, rr.Body.Bytes())
			if problem.Status != tc.status || !strings.Contains(problem.Detail, sentinel.Error()) {
				t.Fatalf("unexpected problem %+v", problem)
			}
		})
	}
}

func TestWithReadinessChecksAppends(t *testing.T) {
	calls := 0
	check := func(context.Context) error {
		calls++
		return nil
	}
	handler := NewInfoHandler(WithReadinessChecks(check), WithReadinessChecks(nil, check))

	rr := httptest.NewRecorder()
	handler.GetReadyz(rr, httptest.NewRequest(http.MethodGet, "/info/readyz", nil))
	if rr.Code != http.StatusOK || calls != 2 {
		t.Fatalf("expected both checks to run, got status %d and %d calls", rr.Code, calls)
	}
}

func TestInfoHandler_GetVersion(t *testing.T) {
	t.Run("uses configured provider", func(t *testing.T) {
		handler := NewInfoHandler(WithVersionProvider(func() any {
			return map[string]string{"version": "1.4.0"}
		}))
		rr := httptest.NewRecorder()
		handler.GetVersion(rr, httptest.NewRequest(http.MethodGet, "/info/version", nil))

		var payload map[string]string
		if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
			t.Fatalf("failed to decode version payload: %v", err)
		}
		if payload["version"] != "1.4.0" {
			t.Fatalf("expected version 1.4.0, got %v", payload)
		}
	})

	t.Run("falls back to empty object when provider returns nil", func(t *testing.T) {
		handler := NewInfoHandler(WithVersionProvider(func() any { return nil }))
		rr := httptest.NewRecorder()
		handler.GetVersion(rr, httptest.NewRequest(http.MethodGet, "/info/version", nil))

		if got := strings.TrimSpace(rr.Body.String()); got != "{}" {
			t.Fatalf("expected empty object, got %q", got)
		}
	})
}

func TestInfoHandler_GetRoutes(t *testing.T) {
	t.Run("lists routes in order", func(t *testing.T) {
		routes := []Route{
			{Method: "get", Path: "/users", OperationID: "listUsers"},
			{Method: "post", Path: "/users", OperationID: "createUser"},
		}
		handler := NewInfoHandler(WithRoutesProvider(func() []Route { return routes }))
		rr := httptest.NewRecorder()
		handler.GetRoutes(rr, httptest.NewRequest(http.MethodGet, "/info/routes", nil))

		var got []Route
		if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
			t.Fatalf("failed to decode routes: %v", err)
		}
		if !reflect.DeepEqual(got, routes) {
			t.Fatalf("expected %v, got %v", routes, got)
		}
		if !strings.Contains(rr.Body.String(), `"operationId":"listUsers"`) {
			t.Fatalf("expected operationId field, got %s", rr.Body.String())
		}
	})

	t.Run("empty table renders an empty list", func(t *testing.T) {
		rr := httptest.NewRecorder()
		NewInfoHandler().GetRoutes(rr, httptest.NewRequest(http.MethodGet, "/info/routes", nil))
		if got := strings.TrimSpace(rr.Body.String()); got != "[]" {
			t.Fatalf("expected empty list, got %q", got)
		}
	})
}

func TestInfoHandler_GetOpenAPIJSON(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		expected := []byte(`{"openapi":"3.0.0"}`)
		handler := NewInfoHandler(WithDocumentProvider(func() ([]byte, error) {
			return expected, nil
		}))
		rr := httptest.NewRecorder()
		handler.GetOpenAPIJSON(rr, httptest.NewRequest(http.MethodGet, "/info/openapi.json", nil))

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
		}
		if got := rr.Header().Get("Content-Type"); got != "application/json" {
			t.Fatalf("expected Content-Type application/json, got %s", got)
		}
		if !bytes.Equal(rr.Body.Bytes(), expected) {
			t.Fatalf("expected body %s, got %s", expected, rr.Body.Bytes())
		}
	})

	t.Run("unconfigured provider is surfaced", func(t *testing.T) {
		rr := httptest.NewRecorder()
		NewInfoHandler().GetOpenAPIJSON(rr, httptest.NewRequest(http.MethodGet, "/info/openapi.json", nil))

		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
		}
		problem := decodeProblemDetails(t, rr.Body.Bytes())
		if !strings.Contains(problem.Detail, "not configured") {
			t.Fatalf("unexpected problem detail %q", problem.Detail)
		}
	})
}

func TestInfoHandler_GetDocs(t *testing.T) {
	t.Run("custom template and data", func(t *testing.T) {
		tmpl := template.Must(template.New("test").Parse(`{{.SpecURL}}|{{.Value}}`))
		handler := NewInfoHandler(
			WithBaseURL("https://api.example.com/"),
			WithPrefix("/meta/"),
			WithDocsTemplate(tmpl),
			WithDocsTemplateData(func(_ *http.Request, specURL string) any {
				return map[string]string{"SpecURL": specURL, "Value": "custom"}
			}),
		)
		rr := httptest.NewRecorder()
		handler.GetDocs(rr, httptest.NewRequest(http.MethodGet, "/meta/docs", nil))

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
		}
		if got := strings.TrimSpace(rr.Body.String()); got != "https://api.example.com/meta/openapi.json|custom" {
			t.Fatalf("unexpected body %q", got)
		}
	})

	t.Run("template errors render a problem", func(t *testing.T) {
		tmpl := template.Must(template.New("test").Funcs(template.FuncMap{
			"boom": func() (string, error) { return "", errors.New("render failure") },
		}).Parse(`partial {{boom}}`))
		rr := httptest.NewRecorder()
		NewInfoHandler(WithDocsTemplate(tmpl)).GetDocs(rr, httptest.NewRequest(http.MethodGet, "/info/docs", nil))

		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
		}
		problem := decodeProblemDetails(t, rr.Body.Bytes())
		if !strings.Contains(problem.Detail, "render failure") {
			t.Fatalf("expected detail to include render failure, got %q", problem.Detail)
		}
	})

	t.Run("built-in viewers", func(t *testing.T) {
		testCases := []struct {
			ui   UIType
			want string
		}{
			{ui: UIStoplight, want: "@stoplight/elements"},
			{ui: UIScalar, want: "@scalar/api-reference"},
			{ui: UISwaggerUI, want: "swagger-ui-dist"},
			{ui: UIRedoc, want: "redoc.standalone.js"},
		}
		for _, tc := range testCases {
			t.Run(string(tc.ui), func(t *testing.T) {
				handler := NewInfoHandler(WithUIType(tc.ui), WithTitle("Orders API"))
				rr := httptest.NewRecorder()
				handler.GetDocs(rr, httptest.NewRequest(http.MethodGet, "/info/docs", nil))

				body := rr.Body.String()
				if rr.Code != http.StatusOK || !strings.HasPrefix(rr.Header().Get("Content-Type"), "text/html") {
					t.Fatalf("unexpected response %d %q", rr.Code, rr.Header().Get("Content-Type"))
				}
				for _, want := range []string{tc.want, "/info/openapi.json", "<title>Orders API</title>"} {
					if !strings.Contains(body, want) {
						t.Fatalf("expected %q in body:\n%s", want, body)
					}
				}
			})
		}
	})
}

func TestParseUIType(t *testing.T) {
	testCases := []struct {
		in      string
		want    UIType
		wantErr bool
	}{
		{in: "", want: UIStoplight},
		{in: " Redoc ", want: UIRedoc},
		{in: "swaggerui", want: UISwaggerUI},
		{in: "rapidoc", wantErr: true},
	}
	for _, tc := range testCases {
		got, err := ParseUIType(tc.in)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Fatalf("ParseUIType(%q) = %q, %v", tc.in, got, err)
		}
	}
}

func TestRegister(t *testing.T) {
	handler := NewInfoHandler(
		WithPrefix("/_info"),
		WithRoutesProvider(func() []Route { return []Route{{Method: "get", Path: "/a", OperationID: "a"}} }),
	)
	mux := http.NewServeMux()
	handler.Register(mux)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	testCases := []struct {
		method string
		path   string
		status int
	}{
		{method: http.MethodGet, path: "/_info/status", status: http.StatusOK},
		{method: http.MethodGet, path: "/_info/healthz", status: http.StatusOK},
		{method: http.MethodGet, path: "/_info/readyz", status: http.StatusOK},
		{method: http.MethodGet, path: "/_info/version", status: http.StatusOK},
		{method: http.MethodGet, path: "/_info/routes", status: http.StatusOK},
		{method: http.MethodGet, path: "/_info/docs", status: http.StatusOK},
		{method: http.MethodGet, path: "/_info/openapi.json", status: http.StatusInternalServerError},
		{method: http.MethodPost, path: "/_info/status", status: http.StatusTeapot},
		{method: http.MethodGet, path: "/info/status", status: http.StatusTeapot},
	}
	for _, tc := range testCases {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))
		if rr.Code != tc.status {
			t.Fatalf("%s %s: expected %d, got %d", tc.method, tc.path, tc.status, rr.Code)
		}
	}
}
