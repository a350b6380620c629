// Package binder turns an operation table and a handler registry into a
// Router. Binding is all or nothing: the first operation without a handler
// aborts with a HandlerNotFoundError and no Router is returned. See
// ExampleBind for the common case and ExampleRegistry_Use for middleware.
package binder
