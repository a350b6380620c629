package main

import (
	"fmt"
	"net/http"

	"github.com/drblury/specroute/binder"
	"github.com/drblury/specroute/config"
	"github.com/drblury/specroute/responder"
	"github.com/drblury/specroute/spec"
)

// readDocument reads the document named on the command line, or the
// configured one when none was given.
func readDocument(arg string, cfg *config.Config) (string, []byte, error) {
	path := arg
	if path == "" {
		path = cfg.Spec.Path
	}
	data, err := spec.ReadFile(path)
	if err != nil {
		return path, nil, err
	}
	return path, data, nil
}

// stubRegistry maps every named operation to a handler answering 501.
// Operations without an operationId stay unmapped so binding still fails for
// them.
func stubRegistry(ops []spec.Operation, resp *responder.Responder) binder.Registry {
	reg := binder.NewRegistry()
	for _, op := range ops {
		if op.OperationID == "" {
			continue
		}
		id := op.OperationID
		reg.Handle(id, resp.Handle(func(w http.ResponseWriter, r *http.Request) error {
			return responder.NewHTTPError(http.StatusNotImplemented, fmt.Sprintf("operation %s is not implemented", id))
		}))
	}
	return *reg
}
