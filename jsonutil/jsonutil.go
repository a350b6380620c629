// Package jsonutil wraps sonic with the std-compatible configuration so the
// rest of the module encodes and decodes JSON through one place.
package jsonutil

import (
	"io"

	"github.com/bytedance/sonic"
)

var api = sonic.ConfigStd

// Marshal encodes v as JSON.
func Marshal(v any) ([]byte, error) {
	return api.Marshal(v)
}

// MarshalIndent encodes v as indented JSON.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return api.MarshalIndent(v, prefix, indent)
}

// Unmarshal decodes data into v.
func Unmarshal(data []byte, v any) error {
	return api.Unmarshal(data, v)
}

// Encode writes v to w followed by a newline.
func Encode(w io.Writer, v any) error {
	return api.NewEncoder(w).Encode(v)
}

// Decode reads the next JSON value from r into v.
func Decode(r io.Reader, v any) error {
	return api.NewDecoder(r).Decode(v)
}

// Valid reports whether data is a syntactically valid JSON document.
func Valid(data []byte) bool {
	return api.Valid(data)
}
