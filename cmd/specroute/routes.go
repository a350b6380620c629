package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/drblury/specroute/info"
	"github.com/drblury/specroute/jsonutil"
	"github.com/drblury/specroute/spec"
)

// Routes prints the operation table of an API document.
type Routes struct {
	Document string `arg:"" optional:"" help:"Path to the API document. Defaults to the configured spec path."`
	JSON     bool   `help:"Print the table as JSON."`
}

// Run the routes command.
func (c *Routes) Run(appCtx *appContext) error {
	path, data, err := readDocument(c.Document, appCtx.Config)
	if err != nil {
		return err
	}
	ops, err := spec.Load(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if c.JSON {
		routes := make([]info.Route, len(ops))
		for i, op := range ops {
			routes[i] = info.Route{Method: op.Method, Path: op.Path, OperationID: op.OperationID}
		}
		return jsonutil.Encode(appCtx.Stdout, routes)
	}

	rows := make([][]string, len(ops))
	for i, op := range ops {
		rows[i] = []string{
			strings.ToUpper(op.Method),
			op.Path,
			op.OperationID,
			strconv.Itoa(op.Line) + ":" + strconv.Itoa(op.Column),
		}
	}
	if err := renderTable([]string{"Method", "Path", "Operation", "Line"}, rows, appCtx.Stdout); err != nil {
		return fmt.Errorf("failed rendering table: %w", err)
	}
	return nil
}
