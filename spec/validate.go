package spec

import (
	"context"
	"errors"
	"strings"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
)

var errUnknownVersion = errors.New("document declares neither a swagger nor an openapi version")

// Validate checks the document against the OpenAPI structure rules. Swagger
// 2.0 documents are converted to OpenAPI 3 first. External references are
// rejected, so validation performs no I/O.
func (d *Document) Validate(ctx context.Context) error {
	version := d.Version()

	data, err := d.JSON()
	if err != nil {
		return &ValidationError{Version: version, Err: err}
	}

	var doc *openapi3.T
	switch {
	case d.IsSwagger():
		var v2 openapi2.T
		if err := v2.UnmarshalJSON(data); err != nil {
			return &ValidationError{Version: version, Err: err}
		}
		if doc, err = openapi2conv.ToV3(&v2); err != nil {
			return &ValidationError{Version: version, Err: err}
		}
	case strings.HasPrefix(version, "3."):
		loader := openapi3.NewLoader()
		loader.Context = ctx
		if doc, err = loader.LoadFromData(data); err != nil {
			return &ValidationError{Version: version, Err: err}
		}
	default:
		return &ValidationError{Version: version, Err: errUnknownVersion}
	}

	if err := doc.Validate(ctx); err != nil {
		return &ValidationError{Version: version, Err: err}
	}
	return nil
}
