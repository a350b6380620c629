// Package specroute binds the operations declared in an OpenAPI or Swagger
// document to HTTP handlers looked up by operationId. The document is the
// single source of truth for which routes exist; handlers only supply the
// behaviour.
//
// Boot is fail-fast. A document that cannot be parsed, or an operation whose
// operationId has no registered handler, stops the process before a listener
// is opened.
//
// # Packages
//
//   - spec: parses YAML or JSON documents into an ordered operation table and
//     optionally validates them with kin-openapi.
//   - binder: the handler registry and the route binder that installs global
//     middleware and one route per operation.
//   - responder: RFC 9457 problem documents, error classification, and trace
//     ids shared by every error path.
//   - server: the host chain (request ids, recovery, access logs, CORS,
//     timeouts, JSON body parsing), the not-found catch-all, and graceful
//     shutdown.
//   - info: status, health, readiness, version, route listing, and document
//     viewer endpoints.
//   - probe: readiness checks built from closures, flags, or upstream HTTP
//     endpoints.
//   - config: SERVICE_* environment variables layered over an optional TOML
//     file and .env file.
//   - jsonutil: sonic-backed JSON encoding.
//
// # Quick Start
//
//	reg := binder.NewRegistry().
//	    Use(authMiddleware).
//	    HandleFunc("listUsers", listUsers).
//	    Handle("getUser", resp.Handle(getUser))
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc, err := spec.ReadFile(cfg.Spec.Path)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := server.Run(ctx, cfg, doc, *reg, server.WithLogger(logger)); err != nil {
//	    log.Fatal(err)
//	}
//
// The specroute command lists, checks, and serves a document with placeholder
// handlers that answer 501.
package specroute
