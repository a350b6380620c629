package info

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"
)

type endpoint struct {
	path    string
	handler http.HandlerFunc
}

func (ih *InfoHandler) endpoints() []endpoint {
	p := ih.prefix
	return []endpoint{
		{p + "/status", ih.GetStatus},
		{p + "/healthz", ih.GetHealthz},
		{p + "/readyz", ih.GetReadyz},
		{p + "/version", ih.GetVersion},
		{p + "/openapi.json", ih.GetOpenAPIJSON},
		{p + "/docs", ih.GetDocs},
		{p + "/routes", ih.GetRoutes},
	}
}

// Paths returns the paths Register mounts, in registration order.
func (ih *InfoHandler) Paths() []string {
	eps := ih.endpoints()
	paths := make([]string, len(eps))
	for i, e := range eps {
		paths[i] = e.path
	}
	return paths
}

// Register mounts the endpoints on mux under the handler's prefix. The
// patterns are GET-only (which includes HEAD), so other methods fall through
// to whatever mux serves for "/". Call CheckPrefix first when the prefix
// comes from user input; mux panics on a malformed pattern.
func (ih *InfoHandler) Register(mux *http.ServeMux) {
	for _, e := range ih.endpoints() {
		mux.HandleFunc("GET "+e.path, e.handler)
	}
}

// CheckPrefix reports whether prefix can be used as a mount prefix: it must
// start with a slash and may not contain wildcard braces or whitespace.
func CheckPrefix(prefix string) error {
	if !strings.HasPrefix(prefix, "/") {
		return fmt.Errorf("invalid prefix %q: must start with /", prefix)
	}
	if i := strings.IndexFunc(prefix, func(r rune) bool {
		return r == '{' || r == '}' || unicode.IsSpace(r)
	}); i >= 0 {
		r, _ := utf8.DecodeRuneInString(prefix[i:])
		return fmt.Errorf("invalid prefix %q: character %q at offset %d is not allowed", prefix, r, i)
	}
	return nil
}

// GetStatus answers without running any checks.
func (ih *InfoHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ih.respondProbe(w, r, http.StatusOK, "HEALTHY")
}

// GetHealthz runs the liveness checks.
func (ih *InfoHandler) GetHealthz(w http.ResponseWriter, r *http.Request) {
	if err := ih.runChecks(r.Context(), ih.livenessChecks); err != nil {
		ih.HandleAPIError(w, r, http.StatusServiceUnavailable, err, "liveness probe failed")
		return
	}
	ih.respondProbe(w, r, http.StatusOK, "ok")
}

// GetReadyz runs the readiness checks.
func (ih *InfoHandler) GetReadyz(w http.ResponseWriter, r *http.Request) {
	if err := ih.runChecks(r.Context(), ih.readinessChecks); err != nil {
		ih.HandleAPIError(w, r, http.StatusServiceUnavailable, err, "readiness probe failed")
		return
	}
	ih.respondProbe(w, r, http.StatusOK, "ready")
}

// GetVersion returns the version payload.
func (ih *InfoHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	payload := ih.versionProvider()
	if payload == nil {
		payload = map[string]string{}
	}
	ih.RespondWithJSON(w, r, http.StatusOK, payload)
}

// GetRoutes returns the bound route table.
func (ih *InfoHandler) GetRoutes(w http.ResponseWriter, r *http.Request) {
	routes := ih.routesProvider()
	if routes == nil {
		routes = []Route{}
	}
	ih.RespondWithJSON(w, r, http.StatusOK, routes)
}

// GetOpenAPIJSON writes the API document.
func (ih *InfoHandler) GetOpenAPIJSON(w http.ResponseWriter, r *http.Request) {
	doc, err := ih.documentProvider()
	if err != nil {
		ih.HandleAPIError(w, r, http.StatusInternalServerError, err, "failed to load api document")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(doc); err != nil {
		ih.Logger().Error("failed to write api document", "error", err)
	}
}

// GetDocs renders the viewer page, which fetches the document from SpecURL.
func (ih *InfoHandler) GetDocs(w http.ResponseWriter, r *http.Request) {
	if ih.docsTemplate == nil {
		err := errors.New("docs template not configured")
		ih.HandleAPIError(w, r, http.StatusInternalServerError, err, "failed to render docs")
		return
	}

	var data any
	if ih.dataProvider != nil {
		data = ih.dataProvider(r, ih.SpecURL())
	}
	if data == nil {
		data = defaultTemplateDataProvider(r, ih.SpecURL())
	}
	if m, ok := data.(map[string]any); ok {
		if _, set := m["Title"]; !set {
			m["Title"] = ih.title
		}
	}

	var page bytes.Buffer
	if err := ih.docsTemplate.Execute(&page, data); err != nil {
		ih.HandleAPIError(w, r, http.StatusInternalServerError, err, "failed to render docs")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := page.WriteTo(w); err != nil {
		ih.Logger().Error("failed to write docs page", "error", err)
	}
}
