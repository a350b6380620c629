package info

import (
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/drblury/specroute/probe"
	"github.com/drblury/specroute/responder"
)

// DefaultPrefix is the path under which Register mounts the endpoints.
const DefaultPrefix = "/info"

const defaultProbeTimeout = 2 * time.Second

// VersionProvider returns the payload exposed by the version endpoint.
type VersionProvider func() any

// DocumentProvider returns the API document as JSON.
type DocumentProvider func() ([]byte, error)

// RoutesProvider returns the bound route table in registration order.
type RoutesProvider func() []Route

// TemplateDataProvider builds the data passed to the viewer template. specURL
// is the address of the JSON document endpoint.
type TemplateDataProvider func(r *http.Request, specURL string) any

// InfoOption configures NewInfoHandler.
type InfoOption func(*InfoHandler)

// Route is one entry of the routes endpoint.
type Route struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	OperationID string `json:"operationId"`
}

// InfoHandler serves the service endpoints.
type InfoHandler struct {
	*responder.Responder
	baseURL          string
	prefix           string
	title            string
	versionProvider  VersionProvider
	documentProvider DocumentProvider
	routesProvider   RoutesProvider
	docsTemplate     *template.Template
	dataProvider     TemplateDataProvider
	probeTimeout     time.Duration
	livenessChecks   []probe.Func
	readinessChecks  []probe.Func
}

// NewInfoHandler returns a handler with the Stoplight viewer, an empty version
// payload, and no probes.
func NewInfoHandler(opts ...InfoOption) *InfoHandler {
	ih := &InfoHandler{
		Responder: responder.NewResponder(),
		prefix:    DefaultPrefix,
		title:     "API reference",
		versionProvider: func() any {
			return map[string]string{}
		},
		documentProvider: func() ([]byte, error) {
			return nil, errors.New("api document provider not configured")
		},
		routesProvider: func() []Route {
			return nil
		},
		docsTemplate: templateStoplight,
		dataProvider: defaultTemplateDataProvider,
		probeTimeout: defaultProbeTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(ih)
		}
	}
	return ih
}

// WithInfoResponder replaces the responder used for JSON and problem output.
func WithInfoResponder(r *responder.Responder) InfoOption {
	return func(ih *InfoHandler) {
		if r != nil {
			ih.Responder = r
		}
	}
}

// WithBaseURL sets an absolute origin placed in front of the document URL
// handed to the viewer, for deployments behind a proxy.
func WithBaseURL(baseURL string) InfoOption {
	return func(ih *InfoHandler) {
		ih.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithPrefix sets the mount prefix. An empty or root prefix is ignored.
func WithPrefix(prefix string) InfoOption {
	return func(ih *InfoHandler) {
		if trimmed := strings.TrimRight(prefix, "/"); trimmed != "" {
			ih.prefix = trimmed
		}
	}
}

// WithTitle sets the viewer page title.
func WithTitle(title string) InfoOption {
	return func(ih *InfoHandler) {
		if title != "" {
			ih.title = title
		}
	}
}

// WithVersionProvider sets the source of the version payload.
func WithVersionProvider(provider VersionProvider) InfoOption {
	return func(ih *InfoHandler) {
		if provider != nil {
			ih.versionProvider = provider
		}
	}
}

// WithDocumentProvider sets the source of the JSON document.
func WithDocumentProvider(provider DocumentProvider) InfoOption {
	return func(ih *InfoHandler) {
		if provider != nil {
			ih.documentProvider = provider
		}
	}
}

// WithRoutesProvider sets the source of the route table.
func WithRoutesProvider(provider RoutesProvider) InfoOption {
	return func(ih *InfoHandler) {
		if provider != nil {
			ih.routesProvider = provider
		}
	}
}

// WithDocsTemplate replaces the viewer template.
func WithDocsTemplate(tmpl *template.Template) InfoOption {
	return func(ih *InfoHandler) {
		if tmpl != nil {
			ih.docsTemplate = tmpl
		}
	}
}

// WithDocsTemplateData overrides the data passed to the viewer template.
func WithDocsTemplateData(provider TemplateDataProvider) InfoOption {
	return func(ih *InfoHandler) {
		if provider != nil {
			ih.dataProvider = provider
		}
	}
}

// WithUIType selects one of the built-in viewer templates.
func WithUIType(ui UIType) InfoOption {
	return func(ih *InfoHandler) {
		ih.docsTemplate = ui.template()
	}
}

// WithProbeTimeout bounds the time all checks of one probe request may take.
func WithProbeTimeout(timeout time.Duration) InfoOption {
	return func(ih *InfoHandler) {
		if timeout > 0 {
			ih.probeTimeout = timeout
		}
	}
}

// WithLivenessChecks replaces the liveness checks.
func WithLivenessChecks(checks ...probe.Func) InfoOption {
	return func(ih *InfoHandler) {
		ih.livenessChecks = filterProbes(checks)
	}
}

// WithReadinessChecks appends readiness checks.
func WithReadinessChecks(checks ...probe.Func) InfoOption {
	return func(ih *InfoHandler) {
		ih.readinessChecks = append(ih.readinessChecks, filterProbes(checks)...)
	}
}

// Prefix returns the mount prefix.
func (ih *InfoHandler) Prefix() string {
	return ih.prefix
}

// SpecURL returns the address of the JSON document endpoint.
func (ih *InfoHandler) SpecURL() string {
	return ih.baseURL + ih.prefix + "/openapi.json"
}

func defaultTemplateDataProvider(_ *http.Request, specURL string) any {
	return map[string]any{
		"SpecURL": specURL,
	}
}
