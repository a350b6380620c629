// Package server hosts a bound API document. Build parses the document,
// binds it against a handler registry, and wraps the result in the host
// middleware chain: request ids, panic recovery, access logging, CORS, a
// request timeout, and JSON body parsing. Requests that match no route get a
// 404 problem document. ListenAndServe runs the listener until its context is
// cancelled and then shuts down gracefully.
package server
