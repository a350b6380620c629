// Package spec parses OpenAPI and Swagger documents into an ordered operation
// table. Load keeps the document's path order and, within each path, its
// method order, since later duplicate bindings override earlier ones when the
// table is bound. See ExampleLoad for the common case.
package spec
