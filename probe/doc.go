// Package probe builds readiness and liveness checks for the info endpoints.
// A check is a Func; constructors wrap ping functions, serving flags, and
// upstream HTTP endpoints with uniform error messages.
package probe
