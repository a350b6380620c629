package spec

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrParse matches every *ParseError via errors.Is.
	ErrParse = errors.New("parse api document")
	// ErrInvalidDocument matches every *ValidationError via errors.Is.
	ErrInvalidDocument = errors.New("invalid api document")
)

// ParseError reports a document that is not valid YAML/JSON, or whose shape
// cannot be projected into operations. Line and Column are 1-based and zero
// when the parser did not report a position.
type ParseError struct {
	Line   int
	Column int
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString(ErrParse.Error())
	if e.Line > 0 {
		fmt.Fprintf(&b, ": line %d", e.Line)
		if e.Column > 0 {
			fmt.Fprintf(&b, ", column %d", e.Column)
		}
	}
	b.WriteString(": ")
	b.WriteString(e.Msg)
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ValidationError wraps the structural problems found by Document.Validate.
type ValidationError struct {
	Version string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Version == "" {
		return fmt.Sprintf("%s: %v", ErrInvalidDocument, e.Err)
	}
	return fmt.Sprintf("%s (version %s): %v", ErrInvalidDocument, e.Version, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidDocument
}

var syntaxLine = regexp.MustCompile(`^yaml: line (\d+): (.*)$`)

func syntaxError(err error) *ParseError {
	msg := err.Error()
	if m := syntaxLine.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return &ParseError{Line: line, Msg: m[2], Err: err}
	}
	return &ParseError{Msg: strings.TrimPrefix(msg, "yaml: "), Err: err}
}

func nodeError(n *yaml.Node, format string, args ...any) *ParseError {
	return &ParseError{
		Line:   n.Line,
		Column: n.Column,
		Msg:    fmt.Sprintf(format, args...),
	}
}
