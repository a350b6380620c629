package main

import (
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/drblury/specroute/probe"
	"github.com/drblury/specroute/responder"
	"github.com/drblury/specroute/server"
	"github.com/drblury/specroute/spec"
)

// Serve binds a document to placeholder handlers and serves it until the
// process is signalled.
type Serve struct {
	Document  string   `arg:"" optional:"" help:"Path to the API document. Defaults to the configured spec path."`
	Address   string   `help:"[host]:port to listen on. Overrides the configured host and port."`
	Strict    bool     `help:"Validate the document against the OpenAPI rules before binding."`
	ReadyURL  []string `name:"ready-url" help:"Upstream URL that must answer 2xx before the service reports ready. Repeatable."`
	RateLimit float64  `help:"Requests per second allowed per client IP. Zero disables limiting."`
	RateBurst int      `default:"20" help:"Burst size for the rate limit."`
}

// Run the serve command.
func (c *Serve) Run(appCtx *appContext) error {
	cfg := appCtx.Config
	if c.Address != "" {
		host, port, err := net.SplitHostPort(c.Address)
		if err != nil {
			return fmt.Errorf("invalid address %q: %w", c.Address, err)
		}
		p, err := strconv.Atoi(port)
		if err != nil || p < 0 || p > 65535 {
			return fmt.Errorf("invalid address %q: bad port", c.Address)
		}
		cfg.Server.Host, cfg.Server.Port = host, p
	}
	if c.Strict {
		cfg.Spec.Strict = true
	}

	path, data, err := readDocument(c.Document, cfg)
	if err != nil {
		return err
	}
	ops, err := spec.Load(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	resp := responder.NewResponder(responder.WithLogger(appCtx.Logger))
	reg := stubRegistry(ops, resp)
	if c.RateLimit > 0 {
		reg.Middlewares = append(reg.Middlewares, server.RateLimit(server.RateLimitConfig{
			Rate:      c.RateLimit,
			Burst:     c.RateBurst,
			Responder: resp,
		}))
	}

	checks := make([]probe.Func, 0, len(c.ReadyURL))
	for _, target := range c.ReadyURL {
		checks = append(checks, probe.NewHTTPProbe(target, http.MethodGet, target, nil))
	}

	srv, err := server.Build(cfg, data, reg,
		server.WithLogger(appCtx.Logger),
		server.WithResponder(resp),
		server.WithReadinessChecks(checks...),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return srv.ListenAndServe(appCtx.Ctx)
}
