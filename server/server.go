package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/drblury/specroute/binder"
	"github.com/drblury/specroute/config"
	"github.com/drblury/specroute/info"
	"github.com/drblury/specroute/probe"
	"github.com/drblury/specroute/responder"
	"github.com/drblury/specroute/spec"
)

// Server is a bound API document ready to be served.
type Server struct {
	cfg       *config.Config
	logger    *slog.Logger
	responder *responder.Responder
	doc       *spec.Document
	router    *binder.Router
	handler   http.Handler
	serving   atomic.Bool

	mu   sync.Mutex
	addr net.Addr
}

// Build parses doc, optionally validates it, binds every operation against
// reg, and assembles the host handler. Any failure is returned before a
// listener exists. A nil cfg means config.Default().
func Build(cfg *config.Config, doc []byte, reg binder.Registry, opts ...Option) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	settings := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(settings)
		}
	}
	if settings.responder == nil {
		settings.responder = responder.NewResponder(responder.WithLogger(settings.logger))
	}

	parsed, err := spec.Parse(doc)
	if err != nil {
		return nil, err
	}
	if cfg.Spec.Strict {
		if err := parsed.Validate(context.Background()); err != nil {
			return nil, err
		}
	}

	router, err := binder.Bind(parsed.Operations(), reg, binder.WithLogger(settings.logger))
	if err != nil {
		return nil, err
	}
	routes, err := router.Mount(binder.WithNotFoundHandler(http.HandlerFunc(settings.responder.HandleNotFound)))
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:       cfg,
		logger:    settings.logger,
		responder: settings.responder,
		doc:       parsed,
		router:    router,
	}

	handler := routes
	if !cfg.Info.Disabled {
		ih, err := s.infoHandler(settings)
		if err != nil {
			return nil, err
		}
		if err := info.CheckPrefix(ih.Prefix()); err != nil {
			return nil, fmt.Errorf("info: %w", err)
		}
		if err := checkReserved(router, ih.Paths()); err != nil {
			return nil, err
		}
		mux := http.NewServeMux()
		ih.Register(mux)
		mux.Handle("/", routes)
		handler = mux
	}
	s.handler = binder.Chain(handler, settings.middlewareChain(cfg, settings.responder)...)

	s.logger.Info("api document bound",
		"version", parsed.Version(),
		"operations", router.Len(),
		"middlewares", len(router.Middlewares()),
	)
	return s, nil
}

// Run builds a server and serves it until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config, doc []byte, reg binder.Registry, opts ...Option) error {
	s, err := Build(cfg, doc, reg, opts...)
	if err != nil {
		return err
	}
	return s.ListenAndServe(ctx)
}

// Handler returns the fully wrapped host handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Router returns the bound route table.
func (s *Server) Router() *binder.Router {
	return s.router
}

// Document returns the parsed API document.
func (s *Server) Document() *spec.Document {
	return s.doc
}

// Ready reports whether the listener is accepting and shutdown has not begun.
func (s *Server) Ready() bool {
	return s.serving.Load()
}

// Addr returns the bound listener address once serving, otherwise the
// configured one.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addr != nil {
		return s.addr.String()
	}
	return s.cfg.Server.Addr()
}

// ListenAndServe listens on the configured address and serves until ctx is
// done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Server.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Server.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down within
// the configured shutdown timeout. It returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: s.cfg.Server.WriteTimeoutDuration(),
		ErrorLog:     slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}

	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.serving.Store(true)
	s.logger.Info("service is running", "port", portOf(ln.Addr()), "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		s.serving.Store(false)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.serving.Store(false)
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Server.ShutdownTimeoutDuration())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}

	s.logger.Info("server shutdown complete")
	return nil
}

func (s *Server) infoHandler(settings *options) (*info.InfoHandler, error) {
	ui, err := info.ParseUIType(s.cfg.Info.UI)
	if err != nil {
		return nil, err
	}

	docJSON, err := s.doc.JSON()
	if err != nil {
		return nil, err
	}

	opts := []info.InfoOption{
		info.WithInfoResponder(settings.responder),
		info.WithPrefix(s.cfg.Info.Prefix),
		info.WithUIType(ui),
		info.WithVersionProvider(func() any {
			return map[string]string{
				"version":    s.cfg.Version,
				"apiVersion": s.doc.Version(),
			}
		}),
		info.WithDocumentProvider(func() ([]byte, error) {
			return docJSON, nil
		}),
		info.WithRoutesProvider(s.routes),
		info.WithReadinessChecks(probe.NewFlagProbe("listener", &s.serving)),
		info.WithReadinessChecks(settings.readinessChecks...),
	}
	return info.NewInfoHandler(append(opts, settings.infoOptions...)...), nil
}

func (s *Server) routes() []info.Route {
	bindings := s.router.Bindings()
	routes := make([]info.Route, len(bindings))
	for i, b := range bindings {
		routes[i] = info.Route{Method: b.Method, Path: b.Path, OperationID: b.OperationID}
	}
	return routes
}

func (o *options) middlewareChain(cfg *config.Config, resp *responder.Responder) []Middleware {
	if len(o.override) > 0 {
		cloned := make([]Middleware, len(o.override))
		copy(cloned, o.override)
		return cloned
	}

	chain := make([]Middleware, 0, len(o.prepend)+len(o.append)+6)
	chain = append(chain, o.prepend...)
	chain = append(chain, requestIDMiddleware(), recoveryMiddleware(o.logger, resp))
	if o.enableLogging {
		chain = append(chain, loggingMiddleware(o.logger, cfg.HTTP.QuietRoutes, o.hideHeaders))
	}
	if o.enableCORS && cfg.HTTP.CORS.Enabled() {
		chain = append(chain, corsMiddleware(cfg.HTTP.CORS))
	}
	if timeout := cfg.HTTP.RequestTimeoutDuration(); o.enableTimeout && timeout > 0 {
		chain = append(chain, timeoutMiddleware(timeout, resp))
	}
	if o.enableBodyParser {
		limit := cfg.HTTP.MaxBodyBytes
		if limit <= 0 {
			limit = config.DefaultMaxBodyBytes
		}
		chain = append(chain, bodyParserMiddleware(limit, resp))
	}
	chain = append(chain, o.append...)
	return chain
}

// ErrReservedPath matches bindings that collide with an info endpoint.
var ErrReservedPath = errors.New("path is reserved for an info endpoint")

// checkReserved fails when a binding would answer GET or HEAD on an info
// path. The info patterns take precedence on the mux, so such a binding would
// never be served.
func checkReserved(router *binder.Router, paths []string) error {
	for _, path := range paths {
		for _, method := range []string{http.MethodGet, http.MethodHead} {
			if b, ok := router.Lookup(method, path); ok {
				return &binder.RouteError{Binding: b, Err: fmt.Errorf("%w: %s", ErrReservedPath, path)}
			}
		}
	}
	return nil
}

func portOf(addr net.Addr) int {
	if tcp, ok := addr.(*net.TCPAddr); ok {
		return tcp.Port
	}
	return 0
}
