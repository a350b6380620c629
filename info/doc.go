// Package info serves the service endpoints mounted beside the bound routes:
// status, liveness and readiness probes, version metadata, the loaded API
// document as JSON, an HTML viewer for it, and the bound route table.
//
// The viewer can be rendered with one of several documentation UIs:
//   - Stoplight Elements (default)
//   - Scalar
//   - SwaggerUI
//   - Redoc
//
// See ExampleInfoHandler_Register for a runnable wiring of the handler.
package info
