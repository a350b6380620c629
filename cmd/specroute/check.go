package main

import (
	"fmt"

	"github.com/drblury/specroute/binder"
	"github.com/drblury/specroute/responder"
	"github.com/drblury/specroute/spec"
)

// Check loads a document and binds it the way serve would, reporting the first
// problem found.
type Check struct {
	Document string `arg:"" optional:"" help:"Path to the API document. Defaults to the configured spec path."`
	Strict   bool   `help:"Also validate the document against the OpenAPI rules."`
}

// Run the check command.
func (c *Check) Run(appCtx *appContext) error {
	path, data, err := readDocument(c.Document, appCtx.Config)
	if err != nil {
		return err
	}
	doc, err := spec.Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if c.Strict || appCtx.Config.Spec.Strict {
		if err := doc.Validate(appCtx.Ctx); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	ops := doc.Operations()
	resp := responder.NewResponder(responder.WithLogger(appCtx.Logger))
	router, err := binder.Bind(ops, stubRegistry(ops, resp), binder.WithLogger(appCtx.Logger))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if _, err := router.Mount(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	fmt.Fprintf(appCtx.Stdout, "%s: %d operations bound", path, router.Len())
	if shadowed := len(ops) - router.Len(); shadowed > 0 {
		fmt.Fprintf(appCtx.Stdout, ", %d replaced by later declarations", shadowed)
	}
	fmt.Fprintln(appCtx.Stdout)
	return nil
}
