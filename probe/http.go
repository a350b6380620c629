package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HTTPDoer is the subset of *http.Client used by NewHTTPProbe.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPProbeOption configures NewHTTPProbe.
type HTTPProbeOption func(*httpProbe)

type httpProbe struct {
	client     HTTPDoer
	expect     func(status int) bool
	mutators   []func(req *http.Request) error
	validators []func(resp *http.Response) error
	drain      bool
}

// NewHTTPProbe checks an upstream endpoint. It succeeds on any 2xx response
// unless options say otherwise. An empty method means GET and a nil client
// means http.DefaultClient.
func NewHTTPProbe(name, method, target string, client HTTPDoer, opts ...HTTPProbeOption) Func {
	p := &httpProbe{client: client, expect: is2xx, drain: true}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.client == nil {
		p.client = http.DefaultClient
	}
	if p.expect == nil {
		p.expect = is2xx
	}

	target = strings.TrimSpace(target)
	verb := strings.ToUpper(strings.TrimSpace(method))
	if verb == "" {
		verb = http.MethodGet
	}

	return func(ctx context.Context) error {
		if target == "" {
			return fmt.Errorf("%s probe: target URL is required", name)
		}

		req, err := http.NewRequestWithContext(contextOrBackground(ctx), verb, target, nil)
		if err != nil {
			return fmt.Errorf("%s probe: build request: %w", name, err)
		}
		for _, mutate := range p.mutators {
			if err := mutate(req); err != nil {
				return fmt.Errorf("%s probe: prepare request: %w", name, err)
			}
		}

		resp, err := p.client.Do(req)
		if err != nil {
			return fmt.Errorf("%s probe request failed: %w", name, err)
		}
		defer resp.Body.Close()

		if !p.expect(resp.StatusCode) {
			return fmt.Errorf("%s probe: unexpected status %d %s", name, resp.StatusCode, http.StatusText(resp.StatusCode))
		}
		for _, validate := range p.validators {
			if err := validate(resp); err != nil {
				return fmt.Errorf("%s probe: %w", name, err)
			}
		}

		if p.drain {
			if _, err := io.Copy(io.Discard, resp.Body); err != nil {
				return fmt.Errorf("%s probe: drain response body: %w", name, err)
			}
		}
		return nil
	}
}

// WithHTTPClient overrides the client used for the probe.
func WithHTTPClient(client HTTPDoer) HTTPProbeOption {
	return func(p *httpProbe) {
		p.client = client
	}
}

// WithHTTPAllowedStatuses restricts success to the given status codes. With no
// codes the 2xx default applies.
func WithHTTPAllowedStatuses(statuses ...int) HTTPProbeOption {
	if len(statuses) == 0 {
		return func(p *httpProbe) { p.expect = is2xx }
	}
	allowed := make(map[int]struct{}, len(statuses))
	for _, status := range statuses {
		allowed[status] = struct{}{}
	}
	return func(p *httpProbe) {
		p.expect = func(status int) bool {
			_, ok := allowed[status]
			return ok
		}
	}
}

// WithHTTPHeader sets a request header on every probe request.
func WithHTTPHeader(key, value string) HTTPProbeOption {
	return WithHTTPRequestMutator(func(req *http.Request) error {
		req.Header.Set(key, value)
		return nil
	})
}

// WithHTTPRequestMutator runs fn on the request before it is sent.
func WithHTTPRequestMutator(fn func(req *http.Request) error) HTTPProbeOption {
	return func(p *httpProbe) {
		if fn != nil {
			p.mutators = append(p.mutators, fn)
		}
	}
}

// WithHTTPResponseValidator runs fn on responses whose status passed.
func WithHTTPResponseValidator(fn func(resp *http.Response) error) HTTPProbeOption {
	return func(p *httpProbe) {
		if fn != nil {
			p.validators = append(p.validators, fn)
		}
	}
}

// WithHTTPDrainResponseBody toggles draining the body after validation.
func WithHTTPDrainResponseBody(enabled bool) HTTPProbeOption {
	return func(p *httpProbe) {
		p.drain = enabled
	}
}

func is2xx(status int) bool {
	return status >= 200 && status < 300
}
